package discussion

import (
	"context"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/harun/conclave/pkg/agent"
	"github.com/harun/conclave/pkg/conversation"
)

// Session runs a bounded discussion between two or more agents over one
// shared history.
type Session struct {
	participants []*agent.Agent
	byName       map[string]*agent.Agent
	strategy     SpeakerStrategy
	turnLimit    int
	logger       zerolog.Logger
}

// Options configure a new Session.
type Options struct {
	// Participants are the discussion members, two at minimum, with unique
	// names.
	Participants []*agent.Agent
	// Strategy picks each next speaker; defaults to RandomStrategy.
	Strategy SpeakerStrategy
	// TurnLimit overrides the shared history's statement cutoff.
	TurnLimit int
	Logger    zerolog.Logger
}

// New creates a Session with the provided options.
func New(opts Options) (*Session, error) {
	if len(opts.Participants) < 2 {
		return nil, fmt.Errorf("a session requires at least two participants, got %d", len(opts.Participants))
	}
	byName := make(map[string]*agent.Agent, len(opts.Participants))
	for _, p := range opts.Participants {
		if _, ok := byName[p.Name()]; ok {
			return nil, fmt.Errorf("duplicate participant name %q", p.Name())
		}
		byName[p.Name()] = p
	}
	strategy := opts.Strategy
	if strategy == nil {
		strategy = NewRandomStrategy(nil)
	}
	return &Session{
		participants: opts.Participants,
		byName:       byName,
		strategy:     strategy,
		turnLimit:    opts.TurnLimit,
		logger:       opts.Logger,
	}, nil
}

// Start runs a discussion toward the given purpose, opening with the named
// participant, and returns the full transcript. Any failed turn or failed
// speaker selection aborts the session.
func (s *Session) Start(ctx context.Context, purpose, startName string) ([]conversation.Statement, error) {
	current, ok := s.byName[startName]
	if !ok {
		return nil, fmt.Errorf("unknown opening speaker %q", startName)
	}

	runID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generating session id: %w", err)
	}
	logger := s.logger.With().Str("session", runID).Logger()

	profiles := make(map[string]string, len(s.participants))
	for _, p := range s.participants {
		profiles[p.Name()] = p.Identity()
	}
	var histOpts []conversation.SessionOption
	if s.turnLimit > 0 {
		histOpts = append(histOpts, conversation.WithTurnLimit(s.turnLimit))
	}
	hist := conversation.NewSessionHistory(purpose, profiles, histOpts...)

	logger.Info().Str("purpose", purpose).Str("opening", startName).Msg("Session started")

	for {
		hist.SetOwner(current.Name())
		answer, err := current.TakeTurn(ctx, hist)
		if err != nil {
			return nil, fmt.Errorf("turn of %q: %w", current.Name(), err)
		}
		logger.Debug().Str("speaker", current.Name()).Str("answer", answer).Msg("Turn completed")

		if hist.IsFinished() {
			break
		}

		next, err := s.strategy.Next(ctx, current, s.participants, hist)
		if err != nil {
			return nil, fmt.Errorf("selecting next speaker: %w", err)
		}
		current = next
	}

	logger.Info().Int("statements", hist.StatementCount()).Msg("Session finished")
	return hist.Statements(), nil
}

// Cost sums the dollar cost of all participants' token usage so far.
func (s *Session) Cost() float64 {
	total := 0.0
	for _, p := range s.participants {
		total += p.Cost()
	}
	return total
}
