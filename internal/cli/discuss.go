package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harun/conclave/pkg/agent"
	"github.com/harun/conclave/pkg/discussion"
)

var (
	discussAgents   []string
	discussStart    string
	discussStrategy string
)

var discussCmd = &cobra.Command{
	Use:   "discuss [purpose]",
	Short: "Run a discussion session between several agents",
	Long: `Run a bounded discussion between two or more agents over a shared history
and print the transcript. Each --agent flag declares one participant as
"name=profile".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDiscuss,
}

func init() {
	discussCmd.Flags().StringArrayVar(&discussAgents, "agent", nil, `participant as "name=profile" (repeatable, at least two)`)
	discussCmd.Flags().StringVar(&discussStart, "start", "", "name of the opening speaker (default: first agent)")
	discussCmd.Flags().StringVar(&discussStrategy, "strategy", "random", "speaker selection: random or motivation")
	rootCmd.AddCommand(discussCmd)
}

func runDiscuss(cmd *cobra.Command, args []string) error {
	cfg, lg, err := setup()
	if err != nil {
		return err
	}
	defer lg.Close()

	if len(discussAgents) < 2 {
		return fmt.Errorf("at least two --agent flags are required")
	}

	participants := make([]*agent.Agent, 0, len(discussAgents))
	for _, spec := range discussAgents {
		name, profile, ok := strings.Cut(spec, "=")
		if !ok || name == "" || profile == "" {
			return fmt.Errorf("invalid --agent %q, expected \"name=profile\"", spec)
		}
		ag, err := newAgent(cfg, lg.GetZerolog(), name, profile)
		if err != nil {
			return err
		}
		participants = append(participants, ag)
	}

	var strategy discussion.SpeakerStrategy
	switch discussStrategy {
	case "random":
		strategy = discussion.NewRandomStrategy(nil)
	case "motivation":
		strategy = discussion.NewMotivationStrategy()
	default:
		return fmt.Errorf("unknown strategy %q, expected random or motivation", discussStrategy)
	}

	start := discussStart
	if start == "" {
		start = participants[0].Name()
	}

	sess, err := discussion.New(discussion.Options{
		Participants: participants,
		Strategy:     strategy,
		TurnLimit:    cfg.SessionTurnLimit,
		Logger:       lg.GetZerolog(),
	})
	if err != nil {
		return err
	}

	purpose := strings.Join(args, " ")
	transcript, err := sess.Start(cmd.Context(), purpose, start)
	if err != nil {
		return err
	}

	for _, st := range transcript {
		fmt.Printf("[%s] %s\n", st.Whose, st.Content)
	}
	fmt.Printf("cost: $%.6f\n", sess.Cost())
	return nil
}
