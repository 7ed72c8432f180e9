package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnpulse/internal/config"
	"github.com/abhisek/learnpulse/internal/logger"
	"github.com/abhisek/learnpulse/internal/store"
)

var (
	cfg    config.Config
	appLog = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "learnpulse",
	Short: "Engagement nudges for online learners",
	Long: `learnpulse evaluates learner engagement metrics against a rule catalogue
and produces ranked nudges (reminders, assessments, challenges, mentor
contacts) plus urgent alerts for at-risk learners.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		envFile, _ := cmd.Flags().GetString("env-file")
		loaded, err := config.Load(config.LoadOptions{ConfigFile: configFile, EnvFile: envFile})
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cmd.Flags().Changed("seed") {
			loaded.Seed, _ = cmd.Flags().GetUint64("seed")
		}
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			loaded.Log.Verbose = true
		}
		cfg = loaded

		l, err := logger.New(cfg.Log.Mode, cfg.Log.Verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		appLog = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		appLog.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "SQLite path or postgres:// DSN (overrides LEARNPULSE_DB and DATABASE_URL)")
	pf.String("config", "", "Config file (YAML, JSON or TOML)")
	pf.String("env-file", ".env", "Env file loaded before reading the environment")
	pf.Uint64("seed", 0, "Seed for all random draws (0 picks one)")
	pf.BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(nudgesCmd)
	rootCmd.AddCommand(urgentCmd)
	rootCmd.AddCommand(activeCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database location using --db (highest
// priority), then the configured db key, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}
