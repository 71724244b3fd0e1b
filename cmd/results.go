package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	core "github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/bank"
	"github.com/abhisek/skillcheck/internal/store"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect saved attempts",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent attempts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		testType, _ := cmd.Flags().GetString("type")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		attempts, err := s.AttemptRepo().List(cmd.Context(), store.QueryOpts{TestType: testType, Limit: limit})
		if err != nil {
			return fmt.Errorf("list attempts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(attempts) == 0 {
			fmt.Fprintln(out, "No attempts found.")
			return nil
		}

		fmt.Fprintf(out, "%-8s  %-16s  %-12s  %5s  %7s  %8s  %s\n",
			"ID", "Finished", "Type", "Score", "Correct", "Warnings", "Reason")
		fmt.Fprintln(out, strings.Repeat("─", 84))
		for _, a := range attempts {
			fmt.Fprintf(out, "%-8s  %-16s  %-12s  %4d%%  %3d/%-3d  %8d  %s\n",
				truncate(a.AttemptID, 8),
				a.FinishedAt.Local().Format("2006-01-02 15:04"),
				truncate(a.TestType, 12),
				a.Percent,
				a.Correct, a.Total,
				a.Warnings,
				a.Reason,
			)
		}
		return nil
	},
}

var resultsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one attempt question by question",
	Long:  "Show one attempt question by question. The id may be any unique prefix.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		a, err := s.AttemptRepo().Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get attempt: %w", err)
		}
		printAttempt(cmd.OutOrStdout(), a, promptsFor(a.TestType))
		return nil
	},
}

var resultsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show attempts, best and average score per test type",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.AttemptRepo().Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(stats) == 0 {
			fmt.Fprintln(out, "No attempts recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-20s  %8s  %6s  %8s\n", "Test type", "Attempts", "Best", "Average")
		fmt.Fprintln(out, strings.Repeat("─", 48))
		for _, st := range stats {
			fmt.Fprintf(out, "%-20s  %8d  %5d%%  %7.1f%%\n",
				truncate(st.TestType, 20), st.Attempts, st.Best, st.Average)
		}
		return nil
	},
}

func printAttempt(out io.Writer, a *store.Attempt, prompts map[string]string) {
	fmt.Fprintf(out, "Attempt:   %s\n", a.AttemptID)
	fmt.Fprintf(out, "Test type: %s\n", a.TestType)
	fmt.Fprintf(out, "Started:   %s\n", a.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Finished:  %s\n", a.FinishedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Time used: %s of %s\n", a.TimeUsed.Round(time.Second), a.TimeLimit)
	fmt.Fprintf(out, "Reason:    %s\n", a.Reason)
	fmt.Fprintf(out, "Warnings:  %d\n", a.Warnings)
	fmt.Fprintf(out, "Score:     %d%% (%d of %d correct, %d answered)\n", a.Percent, a.Correct, a.Total, a.Answered)
	if msg := a.Reason.Message(); msg != "" {
		fmt.Fprintf(out, "\n%s\n", msg)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%3s  %-48s  %5s  %7s\n", "#", "Question", "Yours", "Correct")
	fmt.Fprintln(out, strings.Repeat("─", 72))
	for i, q := range a.Questions {
		label := q.QuestionID
		if p, ok := prompts[q.QuestionID]; ok {
			label = p
		}
		mark := "✗"
		if q.Correct {
			mark = "✓"
		}
		fmt.Fprintf(out, "%3d  %-48s  %5s  %7s %s\n",
			i+1, truncate(label, 48), optionLabel(q.Selected), optionLabel(q.Answer), mark)
	}
}

// promptsFor looks up question prompts from the bank of testType. Attempts
// only store question ids; a missing bank just leaves them bare.
func promptsFor(testType string) map[string]string {
	tt, err := env.cfg.TestType(testType)
	if err != nil {
		return nil
	}
	b, err := bank.Resolve(tt.Bank)
	if err != nil {
		env.log.Debug().Err(err).Str("bank", tt.Bank).Msg("prompts unavailable")
		return nil
	}
	prompts := make(map[string]string, len(b.Questions))
	for _, q := range b.Questions {
		prompts[q.ID] = q.Prompt
	}
	return prompts
}

func optionLabel(i int) string {
	if i == core.Unanswered {
		return "-"
	}
	return fmt.Sprint(i + 1)
}

func truncate(s string, max int) string {
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max-1]) + "…"
}

func init() {
	resultsListCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show")
	resultsListCmd.Flags().StringP("type", "t", "", "Filter by test type id")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsViewCmd)
	resultsCmd.AddCommand(resultsStatsCmd)
}
