package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pthm/bnfkit/internal/cli"
	"github.com/pthm/bnfkit/internal/report"
)

var (
	diffFlags    analysisFlags
	diffAll      bool
	diffExitCode bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <before.yaml> <after.yaml>",
	Short: "Compare the analysis of two grammars",
	Long: `Analyze two grammar documents and print the content members and accessors
that were added or removed.`,
	Example: `  # Show what a grammar change does to the generated accessors
  bnfkit diff old/grammar.yaml grammar.yaml

  # Fail (exit 4) when anything changed
  bnfkit diff old/grammar.yaml grammar.yaml --exit-code`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := diffFlags.apply(cmd, cfg); err != nil {
			return err
		}
		// Each side gets its own analysis run.
		var before, after *report.Report
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() (err error) {
			before, err = analyzeFile(ctx, args[0])
			return err
		})
		g.Go(func() (err error) {
			after, err = analyzeFile(ctx, args[1])
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}
		if len(diffFlags.rules) > 0 {
			kept, err := filterRules(diffFlags.rules, before, after)
			if err != nil {
				return cli.GeneralError("selecting rules", err)
			}
			before, after = kept[0], kept[1]
		}

		changes := report.Diff(before, after)
		if !quiet {
			out := cmd.OutOrStdout()
			added := color.New(color.FgGreen)
			removed := color.New(color.FgRed)
			for _, c := range changes {
				switch c.Kind {
				case report.Added:
					added.Fprintf(out, "+ %s\n", c.Text)
				case report.Removed:
					removed.Fprintf(out, "- %s\n", c.Text)
				default:
					if diffAll {
						fmt.Fprintf(out, "  %s\n", c.Text)
					}
				}
			}
			if !report.HasChanges(changes) {
				fmt.Fprintln(out, "No changes.")
			}
		}

		if diffExitCode && report.HasChanges(changes) {
			return cli.DiffError("analysis differs")
		}
		return nil
	},
}

func init() {
	diffFlags.register(diffCmd.Flags())
	diffCmd.Flags().BoolVar(&diffAll, "all", false, "also print unchanged lines")
	diffCmd.Flags().BoolVar(&diffExitCode, "exit-code", false, "exit with status 4 when the analyses differ")
}
