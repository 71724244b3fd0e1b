package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/app"
	"github.com/abhisek/skillcheck/internal/logger"
)

// runApp opens the results log and launches the TUI, optionally straight
// into the intro of testType. The TUI still runs when the log cannot be
// opened; attempts are then not saved.
func runApp(cmd *cobra.Command, testType string) error {
	opts := app.Options{
		Config:   env.cfg,
		Log:      logger.For("tui"),
		TestType: testType,
	}

	st, err := openStore()
	if err != nil {
		env.log.Error().Err(err).Msg("results log unavailable")
		fmt.Fprintln(cmd.ErrOrStderr(), "Results log unavailable:", err)
		fmt.Fprintln(cmd.ErrOrStderr(), "Attempts will not be saved.")
	} else {
		defer st.Close()
		opts.Attempts = st.AttemptRepo()
	}

	return app.Run(cmd.Context(), opts)
}

var takeCmd = &cobra.Command{
	Use:   "take <test-type>",
	Short: "Start an assessment directly",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 || env.cfg == nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var ids []string
		for _, tt := range env.cfg.TestTypes {
			ids = append(ids, tt.ID+"\t"+tt.Title)
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := env.cfg.TestType(args[0]); err != nil {
			return err
		}
		return runApp(cmd, args[0])
	},
}
