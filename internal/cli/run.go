package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harun/conclave/pkg/prompt"
)

var (
	runIdentity string
	runPlanning bool
)

var runCmd = &cobra.Command{
	Use:   "run [task]",
	Short: "Run a single task with one agent",
	Long: `Run a single task to completion with one tool-equipped agent and print
the final answer. With --plan the agent writes a plan first and then follows
it step by step.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runIdentity, "identity", "You are a helpful assistant.", "agent system instruction")
	runCmd.Flags().BoolVar(&runPlanning, "plan", false, "plan before executing")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, lg, err := setup()
	if err != nil {
		return err
	}
	defer lg.Close()

	ag, err := newAgent(cfg, lg.GetZerolog(), "runner", runIdentity)
	if err != nil {
		return err
	}

	task := strings.Join(args, " ")
	ctx := cmd.Context()

	var answer string
	if runPlanning {
		store, err := prompt.NewStore(prompt.StoreConfig{
			Dir:    cfg.PromptDir,
			Logger: lg.GetZerolog(),
		})
		if err != nil {
			return err
		}
		defer store.Close()

		directive, err := store.Get("planning")
		if err != nil {
			return err
		}
		answer, err = ag.ExecuteComplexTask(ctx, task, directive)
		if err != nil {
			return err
		}
	} else {
		answer, err = ag.ExecuteTask(ctx, task)
		if err != nil {
			return err
		}
	}

	fmt.Println(answer)
	fmt.Printf("cost: $%.6f\n", ag.Cost())
	return nil
}
