package discussion

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/harun/conclave/pkg/agent"
	"github.com/harun/conclave/pkg/conversation"
)

// SpeakerStrategy picks the next speaker after each completed turn.
type SpeakerStrategy interface {
	// Next returns the agent that speaks after current. participants always
	// has at least two members and contains current.
	Next(ctx context.Context, current *agent.Agent, participants []*agent.Agent, hist *conversation.SessionHistory) (*agent.Agent, error)
}

// RandomStrategy picks the next speaker uniformly among the participants
// other than the current one.
type RandomStrategy struct {
	rng *rand.Rand
}

// NewRandomStrategy creates a random speaker strategy. A nil source falls
// back to the shared global generator.
func NewRandomStrategy(rng *rand.Rand) *RandomStrategy {
	return &RandomStrategy{rng: rng}
}

func (r *RandomStrategy) Next(_ context.Context, current *agent.Agent, participants []*agent.Agent, _ *conversation.SessionHistory) (*agent.Agent, error) {
	others := make([]*agent.Agent, 0, len(participants)-1)
	for _, p := range participants {
		if p != current {
			others = append(others, p)
		}
	}
	if len(others) == 0 {
		return nil, fmt.Errorf("no participant other than %q to hand the turn to", current.Name())
	}
	if r.rng != nil {
		return others[r.rng.Intn(len(others))], nil
	}
	return others[rand.Intn(len(others))], nil
}

// MotivationStrategy asks every participant for a self-reported eagerness
// score and hands the turn to the highest scorer. Ties go to the earliest
// participant in registration order; the current speaker may speak again.
type MotivationStrategy struct{}

// NewMotivationStrategy creates a motivation-polling speaker strategy.
func NewMotivationStrategy() *MotivationStrategy {
	return &MotivationStrategy{}
}

func (m *MotivationStrategy) Next(ctx context.Context, _ *agent.Agent, participants []*agent.Agent, hist *conversation.SessionHistory) (*agent.Agent, error) {
	var best *agent.Agent
	bestScore := -1.0
	for _, p := range participants {
		score, err := p.Motivation(ctx, hist)
		if err != nil {
			return nil, fmt.Errorf("polling motivation of %q: %w", p.Name(), err)
		}
		if score > bestScore {
			best = p
			bestScore = score
		}
	}
	return best, nil
}
