package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm/bnfkit/internal/cli"
	"github.com/pthm/bnfkit/internal/doctor"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [grammar.yaml]",
	Short: "Run health checks",
	Long: `Run health checks on the configuration and grammar: the document loads
without warnings, every rule is referenced, and no rule derives two accessors
with the same name.`,
	Example: `  # Check the configured grammar
  bnfkit doctor

  # Show details for every check
  bnfkit doctor grammar.yaml -v`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !quiet {
			fmt.Fprintln(out, "bnfkit doctor - Health Check")
		}

		d := doctor.New(cfg.ResolvedGrammar(grammarArg(args)), configPath, cfg.AnalysisConfig())
		report, err := d.Run(cmd.Context())
		if err != nil {
			return cli.GeneralError("running doctor", err)
		}
		if !quiet {
			report.Print(out, verbose > 0)
		}

		if report.HasErrors() {
			return cli.GeneralError("health checks failed", nil)
		}
		return nil
	},
}
