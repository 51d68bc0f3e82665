package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel"

	"github.com/pthm/bnfkit/internal/cli"
	"github.com/pthm/bnfkit/internal/observability"
	"github.com/pthm/bnfkit/internal/report"
	"github.com/pthm/bnfkit/pkg/analyzer"
	"github.com/pthm/bnfkit/pkg/loader"
)

// analysisFlags are the analysis options every analysis command accepts.
type analysisFlags struct {
	output         string
	tokenAccessors bool
	namingCase     string
	noFold         bool
	rules          []string
}

func (f *analysisFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.output, "output", "o", "", "output format: table, yaml or json")
	fs.BoolVar(&f.tokenAccessors, "token-accessors", false, "generate accessors for every named token")
	fs.StringVar(&f.namingCase, "naming-case", "", "case of literal-derived names: UPPER, CAMEL, AS_IS or LOWER")
	fs.BoolVar(&f.noFold, "no-fold", false, "do not fold rule members into common supertypes")
	fs.StringSliceVar(&f.rules, "rule", nil, "only show these rules (repeatable)")
}

// apply merges the flags into the loaded configuration: flag > config.
func (f *analysisFlags) apply(cmd *cobra.Command, c *cli.Config) error {
	if cmd.Flags().Changed("token-accessors") {
		c.SetGenerateTokenAccessors(f.tokenAccessors)
	}
	c.Analysis.NamingCase = resolveString(f.namingCase, c.Analysis.NamingCase)
	if f.noFold {
		c.Analysis.FoldSupertypes = false
	}
	c.Output.Format = resolveString(f.output, c.Output.Format)
	if err := c.Validate(); err != nil {
		return cli.ConfigError("invalid flags", err)
	}
	return nil
}

var (
	analyzeFlags analysisFlags
	methodsFlags analysisFlags
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [grammar.yaml]",
	Short: "Print every rule's content map",
	Long: `Analyze a grammar document and print, for every rule, the members it can
produce with their cardinalities.`,
	Example: `  # Analyze a grammar
  bnfkit analyze grammar.yaml

  # Only show two rules, as YAML
  bnfkit analyze grammar.yaml --rule stmt --rule expr -o yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, args, &analyzeFlags, report.ViewContent)
	},
}

var methodsCmd = &cobra.Command{
	Use:   "methods [grammar.yaml]",
	Short: "Print every rule's derived accessors",
	Long: `Analyze a grammar document and print the accessor methods derived for every
rule. Suppressed accessors are shown with their member in parentheses.`,
	Example: `  # Show accessors with token accessors enabled
  bnfkit methods grammar.yaml --token-accessors`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, args, &methodsFlags, report.ViewMethods)
	},
}

func init() {
	analyzeFlags.register(analyzeCmd.Flags())
	methodsFlags.register(methodsCmd.Flags())
}

func runReport(cmd *cobra.Command, args []string, flags *analysisFlags, view report.View) error {
	if err := flags.apply(cmd, cfg); err != nil {
		return err
	}
	rep, err := analyzeFile(cmd.Context(), grammarArg(args))
	if err != nil {
		return err
	}
	if len(flags.rules) > 0 {
		kept, err := filterRules(flags.rules, rep)
		if err != nil {
			return cli.GeneralError("selecting rules", err)
		}
		rep = kept[0]
	}
	if quiet {
		return nil
	}
	return report.Render(cmd.OutOrStdout(), rep, cfg.Output.Format, view)
}

func grammarArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// loadGrammar loads the grammar document named by arg or the config.
func loadGrammar(arg string) (*loader.Document, error) {
	path := cfg.ResolvedGrammar(arg)
	if path == "" {
		return nil, cli.ConfigError("no grammar given (pass a path or set grammar in bnfkit.yaml)", nil)
	}
	doc, err := loader.Load(path)
	if err != nil {
		return nil, cli.GrammarLoadError("loading grammar", err)
	}
	for _, w := range doc.Warnings {
		logger.Warn("grammar warning", "source", path, "warning", w.String())
	}
	return doc, nil
}

// analyzeFile loads and analyzes a grammar document.
func analyzeFile(ctx context.Context, arg string) (*report.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	doc, err := loadGrammar(arg)
	if err != nil {
		return nil, err
	}

	metrics, err := observability.NewAnalysisMetrics(otel.GetMeterProvider().Meter("bnfkit"))
	if err != nil {
		return nil, cli.GeneralError("creating metrics", err)
	}
	res, err := analyzer.Analyze(ctx, doc.Grammar, cfg.AnalysisConfig(),
		analyzer.WithLogger(logger),
		analyzer.WithMetrics(metrics),
	)
	if err != nil {
		return nil, cli.GeneralError("analyzing grammar", err)
	}
	return report.FromResult(res, doc.Source), nil
}

// filterRules keeps only the named rules, in report order. Every name must
// be a rule of at least one of the reports.
func filterRules(names []string, reps ...*report.Report) ([]*report.Report, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		found := false
		for _, rep := range reps {
			if _, ok := rep.Rule(n); ok {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown rule %q", n)
		}
		want[n] = true
	}

	out := make([]*report.Report, len(reps))
	for i, rep := range reps {
		kept := *rep
		kept.Rules, kept.Order = nil, nil
		for _, r := range rep.Rules {
			if want[r.Name] {
				kept.Rules = append(kept.Rules, r)
			}
		}
		for _, name := range rep.Order {
			if want[name] {
				kept.Order = append(kept.Order, name)
			}
		}
		out[i] = &kept
	}
	return out, nil
}
