package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/bank"
	"github.com/abhisek/skillcheck/internal/bankgen"
	"github.com/abhisek/skillcheck/internal/llm"
	"github.com/abhisek/skillcheck/internal/logger"
	"github.com/abhisek/skillcheck/internal/store"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Manage question banks",
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in banks",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-20s  %-32s  %9s  %s\n", "ID", "Title", "Questions", "Version")
		fmt.Fprintln(out, strings.Repeat("─", 76))
		for _, id := range bank.List() {
			b, err := bank.Load(id)
			if err != nil {
				return fmt.Errorf("load %s: %w", id, err)
			}
			fmt.Fprintf(out, "%-20s  %-32s  %9d  %s\n",
				b.ID, truncate(b.Title, 32), len(b.Questions), b.SchemaVersion)
		}
		return nil
	},
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check bank files for structural errors",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			b, err := bank.LoadFile(path)
			if err != nil {
				failed++
				fmt.Fprintf(out, "✗ %s: %v\n", path, err)
				continue
			}
			fmt.Fprintf(out, "✓ %s: %s, %d questions\n", path, b.ID, len(b.Questions))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d banks invalid", failed, len(args))
		}
		return nil
	},
}

var bankShowCmd = &cobra.Command{
	Use:   "show <id|file>",
	Short: "Print the questions of a bank",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, _ := cmd.Flags().GetBool("answers")

		b, err := bank.Resolve(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s, %s)\n", b.Title, b.ID, b.SchemaVersion)
		for i, q := range b.Questions {
			fmt.Fprintf(out, "\n%d. [%s] %s\n", i+1, q.ID, q.Prompt)
			for j, o := range q.Options {
				mark := " "
				if answers && j == q.Answer {
					mark = "*"
				}
				fmt.Fprintf(out, "  %s %d) %s\n", mark, j+1, o)
			}
		}
		return nil
	},
}

var bankGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft a new bank with an LLM",
	Long: "Draft a new bank with an LLM. The provider is chosen from SKILLCHECK_LLM_PROVIDER " +
		"or the first of ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, OPENROUTER_API_KEY that is set. " +
		"Review generated questions before using them.",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		title, _ := cmd.Flags().GetString("title")
		count, _ := cmd.Flags().GetInt("count")
		output, _ := cmd.Flags().GetString("output")
		avoidRef, _ := cmd.Flags().GetString("avoid")

		input := bankgen.Input{Topic: topic, Title: title, Count: count}
		if avoidRef != "" {
			prev, err := bank.Resolve(avoidRef)
			if err != nil {
				return fmt.Errorf("load bank to avoid: %w", err)
			}
			for _, q := range prev.Questions {
				input.Avoid = append(input.Avoid, q.Prompt)
			}
		}

		// The request log is optional; generation works without it.
		var events store.EventRepo
		if s, err := openStore(); err != nil {
			env.log.Warn().Err(err).Msg("LLM requests will not be recorded")
		} else {
			defer s.Close()
			events = s.EventRepo()
		}

		provider, err := llm.NewProvider(cmd.Context(), llm.ConfigFromEnv(), events, logger.For("llm"))
		if err != nil {
			if errors.Is(err, llm.ErrNoAPIKey) {
				return fmt.Errorf("%w\n\nSet SKILLCHECK_LLM_PROVIDER and its API key, or one of the vendor key variables", err)
			}
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Generating %d questions on %q with %s...\n", count, topic, provider.ModelID())
		b, err := bankgen.New(provider, bankgen.DefaultConfig()).Generate(cmd.Context(), input)
		if err != nil {
			return fmt.Errorf("generate bank: %w", err)
		}

		data, err := bank.Marshal(b)
		if err != nil {
			return fmt.Errorf("encode bank: %w", err)
		}
		if output == "" || output == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write bank: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d questions)\n", output, len(b.Questions))
		return nil
	},
}

func init() {
	bankShowCmd.Flags().Bool("answers", false, "Mark the correct option")

	bankGenerateCmd.Flags().String("topic", "", "Subject of the questions (required)")
	bankGenerateCmd.Flags().String("title", "", "Bank title (defaults to the topic)")
	bankGenerateCmd.Flags().Int("count", 25, fmt.Sprintf("Number of questions (1-%d)", bankgen.MaxCount))
	bankGenerateCmd.Flags().StringP("output", "o", "", "Write the bank to this file instead of stdout")
	bankGenerateCmd.Flags().String("avoid", "", "Bank id or file whose questions must not be repeated")
	_ = bankGenerateCmd.MarkFlagRequired("topic")

	bankCmd.AddCommand(bankListCmd)
	bankCmd.AddCommand(bankValidateCmd)
	bankCmd.AddCommand(bankShowCmd)
	bankCmd.AddCommand(bankGenerateCmd)
}
