package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"codequery/internal/engine"
	"codequery/internal/searcher"
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	var evaluate, withFeedback bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question about the indexed codebase",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, strings.Join(args, " "), evaluate, withFeedback)
		},
		Example: `  codequery ask "where is retry handled?"
  codequery ask --evaluate "how are chunks persisted?"`,
	}

	cmd.Flags().BoolVar(&evaluate, "evaluate", false, "score the answer and log the evaluation")
	cmd.Flags().BoolVar(&withFeedback, "feedback", false, "record the exchange and print a feedback id")

	return cmd
}

func runAsk(cmd *cobra.Command, question string, evaluate, withFeedback bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := newLLMClient(cfg)
	if err != nil {
		return err
	}

	opts := engine.DefaultOptions()
	opts.ContextBudget = cfg.ContextBudget
	opts.FeedbackDB = cfg.FeedbackDB

	eng, err := engine.Open(cfg.DataDir, client, client, opts)
	if err != nil {
		return fmt.Errorf("failed to open index: %w (run 'codequery index' first)", err)
	}
	defer func() { _ = eng.Close() }()

	answer := eng.Ask(cmd.Context(), question, engine.AskOptions{
		Evaluate: evaluate,
		Feedback: withFeedback,
	})

	fmt.Fprintln(cmd.OutOrStdout(), answer.Text)

	if answer.Evaluation != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "\nEvaluation: groundedness %.1f, completeness %.1f, relevance %.1f\n",
			answer.Evaluation.Groundedness, answer.Evaluation.Completeness, answer.Evaluation.Relevance)
	}
	if answer.FeedbackID != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFeedback id: %s\n", answer.FeedbackID)
	}
	if answer.Text == searcher.NotFoundAnswer && !quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), "Hint: rebuild the index if the codebase has changed.")
	}
	return nil
}
