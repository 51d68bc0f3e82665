package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pthm/bnfkit/internal/cli"
	"github.com/pthm/bnfkit/pkg/grammar"
	"github.com/pthm/bnfkit/pkg/loader"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate [grammar.yaml]",
	Short: "Check a grammar document",
	Long: `Check a grammar document against the document schema, build the grammar
and summarize its rules, tokens and modifiers.`,
	Example: `  # Validate a specific grammar
  bnfkit validate grammar.yaml

  # Treat warnings as errors
  bnfkit validate grammar.yaml --strict

  # Validate using config file settings
  bnfkit validate`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		path := cfg.ResolvedGrammar(grammarArg(args))
		if path == "" {
			return cli.ConfigError("no grammar given (pass a path or set grammar in bnfkit.yaml)", nil)
		}

		doc, err := loader.Load(path)
		if err != nil {
			if !quiet {
				printLoadFailure(out, path, err)
			}
			return cli.GrammarLoadError("validating grammar", err)
		}

		if !quiet {
			printSummary(out, doc)
		}
		if validateStrict && len(doc.Warnings) > 0 {
			return cli.GrammarLoadError(fmt.Sprintf("%d warning(s) in strict mode", len(doc.Warnings)), nil)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "fail on warnings")
}

func printLoadFailure(w io.Writer, path string, err error) {
	red := color.New(color.FgRed)
	red.Fprintf(w, "Grammar is invalid (%s)\n", path)

	var ve *loader.ValidationError
	if errors.As(err, &ve) {
		fmt.Fprintf(w, "\nErrors:\n")
		for _, p := range ve.Problems {
			red.Fprintf(w, "  - %s\n", p)
		}
		return
	}
	red.Fprintf(w, "  %v\n", err)
}

func printSummary(w io.Writer, doc *loader.Document) {
	g := doc.Grammar
	color.New(color.FgGreen).Fprintf(w, "Grammar is valid (%s)\n", doc.Source)
	fmt.Fprintf(w, "  Rules:  %d\n", len(g.Rules()))
	fmt.Fprintf(w, "  Tokens: %d\n", len(g.Tokens()))
	if info, err := os.Stat(doc.Source); err == nil {
		fmt.Fprintf(w, "  Size:   %s\n", humanize.Bytes(uint64(info.Size())))
	}

	counts := modifierCounts(g)
	if len(counts) > 0 {
		fmt.Fprintf(w, "  Modifiers:\n")
		for _, c := range counts {
			fmt.Fprintf(w, "    %-8s %d\n", c.name, c.count)
		}
	}

	if len(doc.Warnings) > 0 {
		yellow := color.New(color.FgYellow)
		fmt.Fprintf(w, "\nWarnings:\n")
		for _, warn := range doc.Warnings {
			yellow.Fprintf(w, "  - %s\n", warn)
		}
	}
}

type modifierCount struct {
	name  string
	count int
}

// modifierCounts counts the rules carrying each modifier, in modifier order.
func modifierCounts(g *grammar.Grammar) []modifierCount {
	all := []grammar.Modifiers{
		grammar.Private, grammar.External, grammar.Meta, grammar.Left,
		grammar.Inner, grammar.Fake, grammar.Upper,
	}
	var out []modifierCount
	for _, m := range all {
		n := 0
		for _, r := range g.Rules() {
			if r.Is(m) {
				n++
			}
		}
		if n > 0 {
			out = append(out, modifierCount{name: m.String(), count: n})
		}
	}
	return out
}
