package main

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pthm/bnfkit/internal/cli"
	"github.com/pthm/bnfkit/internal/observability"
)

var (
	// Global state set during PersistentPreRunE
	cfg        *cli.Config
	configPath string
	logger     *slog.Logger

	// Persistent flags
	cfgFile string
	verbose int
	quiet   bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "bnfkit",
	Short: "Grammar content and accessor analysis",
	Long: `bnfkit - grammar content and accessor analysis

bnfkit computes, for every rule of a grammar, the child entities it can
produce with their cardinalities, and the accessor methods a parser
generator derives from them.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for help/completion/version commands
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, configPath, err = cli.LoadConfig(cfgFile)
		if err != nil {
			return cli.ConfigError("loading configuration", err)
		}

		level, err := observability.ParseLevel(cfg.Log.Level)
		if err != nil {
			return cli.ConfigError("log.level", err)
		}
		switch {
		case quiet:
			level = slog.LevelError
		case verbose > 0:
			level = slog.LevelDebug
		}
		logger, err = observability.NewLogger(os.Stderr, level, cfg.Log.Format)
		if err != nil {
			return cli.ConfigError("log.format", err)
		}

		if noColor || !cfg.Output.Color {
			color.NoColor = true //nolint:reassign // intentional override of library global
		}
		return nil
	},
	SilenceUsage:  true, // Don't show usage on errors
	SilenceErrors: true, // We handle errors ourselves
}

// Command group IDs
const (
	groupAnalysis = "analysis"
	groupGrammar  = "grammar"
	groupUtility  = "utility"
)

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover bnfkit.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase verbosity (can be repeated)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Define command groups
	rootCmd.AddGroup(
		&cobra.Group{ID: groupAnalysis, Title: "Analysis:"},
		&cobra.Group{ID: groupGrammar, Title: "Grammar:"},
		&cobra.Group{ID: groupUtility, Title: "Utility:"},
	)

	// Analysis commands
	analyzeCmd.GroupID = groupAnalysis
	methodsCmd.GroupID = groupAnalysis
	graphCmd.GroupID = groupAnalysis
	diffCmd.GroupID = groupAnalysis
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(methodsCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(diffCmd)

	// Grammar commands
	validateCmd.GroupID = groupGrammar
	doctorCmd.GroupID = groupGrammar
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(doctorCmd)

	// Utility commands
	configCmd.GroupID = groupUtility
	versionCmd.GroupID = groupUtility
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cli.ExitWithError(err)
	}
}

// resolveString returns the first non-empty string from the provided values.
// Used to implement precedence: flag > config > default.
func resolveString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
