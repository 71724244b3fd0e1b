package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/config"
	"github.com/abhisek/skillcheck/internal/logger"
	"github.com/abhisek/skillcheck/internal/store"
)

// environment is what every subcommand gets after the persistent pre-run.
type environment struct {
	cfg     *config.Config
	log     zerolog.Logger
	logFile io.Closer
}

var env environment

var rootCmd = &cobra.Command{
	Use:   "skillcheck",
	Short: "Timed multiple-choice skill assessments",
	Long: "skillcheck runs timed multiple-choice assessments in the terminal. " +
		"Answers are submitted when time runs out or after too many focus losses.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if env.logFile != nil {
			env.logFile.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SKILLCHECK_DB)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides SKILLCHECK_CONFIG)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides SKILLCHECK_LOG_LEVEL)")

	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and starts file logging. Logging failures are
// reported but never fatal.
func setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.DBPath = db
	}

	env = environment{cfg: cfg}
	var w io.Writer = io.Discard
	if f, err := logger.OpenFile(cfg.LogFile); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Logging disabled:", err)
	} else {
		w, env.logFile = f, f
	}
	env.log = logger.Setup(w, cfg.LogLevel, cfg.LogFormat)
	env.log.Debug().Str("config", cfg.Path).Str("command", cmd.CommandPath()).Msg("starting")
	return nil
}

// resolveDBPath returns the --db flag or SKILLCHECK_DB value, then the
// default XDG path.
func resolveDBPath() (string, error) {
	if p := env.cfg.DBPath; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
