package main

import (
	"github.com/spf13/cobra"

	"github.com/pthm/bnfkit/internal/report"
)

var graphFlags analysisFlags

var graphCmd = &cobra.Command{
	Use:   "graph [grammar.yaml]",
	Short: "Print rule dependency order, supertypes and cycles",
	Long: `Print the rules in dependency order with the rules they reference, their
supertypes and the members they collapse to, followed by reference cycles.`,
	Example: `  bnfkit graph grammar.yaml`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, args, &graphFlags, report.ViewGraph)
	},
}

func init() {
	graphFlags.register(graphCmd.Flags())
}
