package agent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/harun/conclave/pkg/conversation"
	"github.com/harun/conclave/pkg/gateway"
)

// FollowPlanDirective is appended after a successful planning round to
// switch the model from planning to execution.
const FollowPlanDirective = "Follow the plan you just wrote, step by step, using the available tools where needed."

// ExecuteComplexTask runs a task with a planning sub-loop first. directive
// is the externally-supplied planning prompt text (see pkg/prompt). The
// planning round must not perform side effects: if the model answers the
// planning request with a tool call, the round is discarded and retried.
// Once a plain-text plan is obtained it is committed to history together
// with the follow-the-plan directive, and the normal execution loop runs.
func (a *Agent) ExecuteComplexTask(ctx context.Context, task, directive string) (string, error) {
	if directive == "" {
		return "", fmt.Errorf("planning directive text is required")
	}

	hist := conversation.NewHistory()
	hist.AppendStatement(conversation.RoleSystem, a.identity)
	hist.AppendStatement(conversation.RoleUser, task)

	plan, err := a.plan(ctx, hist, directive)
	if err != nil {
		return "", err
	}

	hist.AppendStatement(conversation.RoleUser, directive)
	hist.AppendStatement(conversation.RoleAssistant, plan)
	hist.AppendStatement(conversation.RoleUser, FollowPlanDirective)
	return a.run(ctx, hist)
}

// plan queries the gateway for a plain-text plan without mutating hist.
func (a *Agent) plan(ctx context.Context, hist *conversation.History, directive string) (string, error) {
	planningItem := conversation.Item{
		Kind:    conversation.ItemMessage,
		Role:    conversation.RoleUser,
		Content: conversation.ContentInput,
		Text:    directive,
	}
	for attempt := 0; attempt < a.maxTurns; attempt++ {
		items := append(hist.ProjectForModel(), planningItem)
		res, err := a.submitWithRetry(ctx, gateway.Request{
			Items: items,
			Tools: a.tools.Schemas(),
		})
		if err != nil {
			return "", err
		}
		if len(res.Units) == 0 || res.Units[0].IsToolCall {
			a.logger.Debug().Int("attempt", attempt+1).Msg("Planning round requested a tool, discarding")
			continue
		}
		return res.Units[0].Text, nil
	}
	return "", fmt.Errorf("agent %q obtained no plan within %d planning rounds", a.name, a.maxTurns)
}

var motivationScore = regexp.MustCompile(`\d+(\.\d+)?`)

const motivationQuestion = "On a scale from 0 to 10, how motivated are you to speak next in this discussion? Answer with a single number only."

// Motivation asks the model for a self-reported eagerness score for the
// next turn of a shared session. The query does not mutate the history and
// uses no tools. An unparsable answer scores zero.
func (a *Agent) Motivation(ctx context.Context, hist *conversation.SessionHistory) (float64, error) {
	items := append(hist.ProjectFor(a.name), conversation.Item{
		Kind:    conversation.ItemMessage,
		Role:    conversation.RoleUser,
		Content: conversation.ContentInput,
		Text:    motivationQuestion,
	})
	res, err := a.submitWithRetry(ctx, gateway.Request{Items: items})
	if err != nil {
		return 0, err
	}
	if len(res.Units) == 0 || res.Units[0].IsToolCall {
		return 0, nil
	}
	match := motivationScore.FindString(res.Units[0].Text)
	if match == "" {
		return 0, nil
	}
	score, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, nil
	}
	if score > 10 {
		score = 10
	}
	return score, nil
}
