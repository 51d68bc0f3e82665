// Package doctor provides health checks for a bnfkit setup.
//
// The doctor command checks that the configuration resolves, the grammar
// document loads cleanly, and the analysis yields accessors a generator can
// emit without clashes.
//
// Example usage:
//
//	d := doctor.New("grammar.yaml", configPath, cfg.AnalysisConfig())
//	report, err := d.Run(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	report.Print(os.Stdout, true) // verbose=true
package doctor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/pthm/bnfkit/internal/analysis"
	"github.com/pthm/bnfkit/pkg/grammar"
	"github.com/pthm/bnfkit/pkg/loader"
)

// Status represents the result of a health check.
type Status int

const (
	// StatusPass indicates the check passed.
	StatusPass Status = iota
	// StatusWarn indicates a non-critical issue.
	StatusWarn
	// StatusFail indicates an issue that breaks generation.
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol returns a status indicator symbol for terminal output.
func (s Status) Symbol() string {
	switch s {
	case StatusPass:
		return color.GreenString("✓")
	case StatusWarn:
		return color.YellowString("⚠")
	case StatusFail:
		return color.RedString("✗")
	default:
		return "?"
	}
}

// CheckResult is the outcome of a single health check.
type CheckResult struct {
	// Category groups related checks ("Grammar Document", "Accessors").
	Category string
	// Name is a short identifier for the check.
	Name    string
	Status  Status
	Message string
	// Details is shown in verbose output.
	Details string
	FixHint string
}

// Report contains all health check results.
type Report struct {
	Checks []CheckResult

	Passed   int
	Warnings int
	Errors   int
}

// AddCheck adds a check result and updates summary counts.
func (r *Report) AddCheck(check CheckResult) {
	r.Checks = append(r.Checks, check)
	switch check.Status {
	case StatusPass:
		r.Passed++
	case StatusWarn:
		r.Warnings++
	case StatusFail:
		r.Errors++
	}
}

// Check returns the result named name, if it ran.
func (r *Report) Check(name string) (CheckResult, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return CheckResult{}, false
}

// Print writes the report grouped by category.
func (r *Report) Print(w io.Writer, verbose bool) {
	categories := make(map[string][]CheckResult)
	var order []string
	for _, check := range r.Checks {
		if _, exists := categories[check.Category]; !exists {
			order = append(order, check.Category)
		}
		categories[check.Category] = append(categories[check.Category], check)
	}

	for _, cat := range order {
		_, _ = fmt.Fprintf(w, "\n%s\n", cat)
		for _, check := range categories[cat] {
			_, _ = fmt.Fprintf(w, "  %s %s\n", check.Status.Symbol(), check.Message)
			if verbose && check.Details != "" {
				for _, line := range strings.Split(check.Details, "\n") {
					_, _ = fmt.Fprintf(w, "      %s\n", line)
				}
			}
			if check.Status != StatusPass && check.FixHint != "" {
				_, _ = fmt.Fprintf(w, "      Fix: %s\n", check.FixHint)
			}
		}
	}

	_, _ = fmt.Fprintf(w, "\nSummary: %d passed, %d warnings, %d errors\n",
		r.Passed, r.Warnings, r.Errors)
}

// HasErrors returns true if any check failed.
func (r *Report) HasErrors() bool {
	return r.Errors > 0
}

// Doctor checks one grammar under one analysis configuration.
type Doctor struct {
	grammarPath string
	configPath  string
	cfg         analysis.Config

	// Populated during Run.
	doc *loader.Document
	res *analysis.Result
}

// New creates a Doctor. configPath is the config file in effect, empty when
// running on defaults.
func New(grammarPath, configPath string, cfg analysis.Config) *Doctor {
	return &Doctor{grammarPath: grammarPath, configPath: configPath, cfg: cfg}
}

// Run executes all health checks and returns a report. Checks that depend
// on an earlier failed check are skipped.
func (d *Doctor) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	d.checkConfig(report)
	if !d.checkGrammarDocument(report) {
		return report, nil
	}

	res, err := analysis.Analyze(ctx, d.doc.Grammar, d.cfg)
	if err != nil {
		return nil, fmt.Errorf("analyzing grammar: %w", err)
	}
	d.res = res

	d.checkRules(report)
	d.checkAccessors(report)
	return report, nil
}

func (d *Doctor) checkConfig(report *Report) {
	msg := "No config file, using defaults"
	if d.configPath != "" {
		msg = fmt.Sprintf("Config file %s", d.configPath)
	}
	report.AddCheck(CheckResult{
		Category: "Configuration",
		Name:     "config",
		Status:   StatusPass,
		Message:  msg,
		Details: fmt.Sprintf("naming case %s, fold supertypes %t, token accessors %t",
			d.cfg.NamingCase, d.cfg.FoldSupertypes, d.cfg.GenerateTokenAccessors),
	})
}

// checkGrammarDocument loads the grammar and reports whether the remaining
// checks can run.
func (d *Doctor) checkGrammarDocument(report *Report) bool {
	const category = "Grammar Document"

	if d.grammarPath == "" {
		report.AddCheck(CheckResult{
			Category: category,
			Name:     "exists",
			Status:   StatusFail,
			Message:  "No grammar document given",
			FixHint:  "Pass a path or set grammar in bnfkit.yaml",
		})
		return false
	}
	if _, err := os.Stat(d.grammarPath); err != nil {
		report.AddCheck(CheckResult{
			Category: category,
			Name:     "exists",
			Status:   StatusFail,
			Message:  fmt.Sprintf("Grammar document not found at %s", d.grammarPath),
			FixHint:  "Check the path or the grammar setting in bnfkit.yaml",
		})
		return false
	}
	report.AddCheck(CheckResult{
		Category: category,
		Name:     "exists",
		Status:   StatusPass,
		Message:  fmt.Sprintf("Grammar document exists at %s", d.grammarPath),
	})

	doc, err := loader.Load(d.grammarPath)
	if err != nil {
		details := err.Error()
		var ve *loader.ValidationError
		if errors.As(err, &ve) {
			details = strings.Join(ve.Problems, "\n")
		}
		report.AddCheck(CheckResult{
			Category: category,
			Name:     "valid",
			Status:   StatusFail,
			Message:  "Grammar document is invalid",
			Details:  details,
			FixHint:  "Run 'bnfkit validate' to see every problem",
		})
		return false
	}
	d.doc = doc
	report.AddCheck(CheckResult{
		Category: category,
		Name:     "valid",
		Status:   StatusPass,
		Message: fmt.Sprintf("Grammar is valid (%d rules, %d tokens)",
			len(doc.Grammar.Rules()), len(doc.Grammar.Tokens())),
	})

	if len(doc.Warnings) > 0 {
		lines := make([]string, len(doc.Warnings))
		for i, w := range doc.Warnings {
			lines[i] = w.String()
		}
		report.AddCheck(CheckResult{
			Category: category,
			Name:     "warnings",
			Status:   StatusWarn,
			Message:  fmt.Sprintf("%d loader warning(s)", len(doc.Warnings)),
			Details:  strings.Join(lines, "\n"),
			FixHint:  "Fix the rule attributes named in the warnings",
		})
		return true
	}
	report.AddCheck(CheckResult{
		Category: category,
		Name:     "warnings",
		Status:   StatusPass,
		Message:  "No loader warnings",
	})
	return true
}

func (d *Doctor) checkRules(report *Report) {
	const category = "Rules"
	g := d.doc.Grammar

	referenced := make(map[*grammar.Rule]bool)
	for _, r := range g.Rules() {
		markReferenced(g, r, r.Expr, referenced)
	}
	var unused []string
	for i, r := range g.Rules() {
		// The first rule is the entry point. Left and fake rules are never
		// referenced directly.
		if i == 0 || referenced[r] || r.Is(grammar.Left) || r.Is(grammar.Fake) {
			continue
		}
		unused = append(unused, r.Name)
	}
	if len(unused) > 0 {
		report.AddCheck(CheckResult{
			Category: category,
			Name:     "unreferenced",
			Status:   StatusWarn,
			Message:  fmt.Sprintf("%d rule(s) are never referenced", len(unused)),
			Details:  strings.Join(unused, "\n"),
			FixHint:  "Remove the rules or mark them fake",
		})
	} else {
		report.AddCheck(CheckResult{
			Category: category,
			Name:     "unreferenced",
			Status:   StatusPass,
			Message:  "Every rule is reachable from another rule",
		})
	}

	cycles := d.res.References.Cycles()
	lines := make([]string, len(cycles))
	for i, c := range cycles {
		lines[i] = analysis.FormatCycle(c)
	}
	report.AddCheck(CheckResult{
		Category: category,
		Name:     "cycles",
		Status:   StatusPass,
		Message:  fmt.Sprintf("%d recursive reference cycle(s)", len(cycles)),
		Details:  strings.Join(lines, "\n"),
	})
}

// markReferenced records the rules n names other than owner. Unlike the
// reference graph it looks into predicates and call arguments.
func markReferenced(g *grammar.Grammar, owner *grammar.Rule, n *grammar.Node, seen map[*grammar.Rule]bool) {
	if n.Kind == grammar.KindReference || n.Kind == grammar.KindExternalCall {
		if t, ok := g.Rule(n.Text); ok && t != owner {
			seen[t] = true
		}
	}
	for _, c := range n.Children {
		markReferenced(g, owner, c, seen)
	}
}

func (d *Doctor) checkAccessors(report *Report) {
	const category = "Accessors"

	var clashes []string
	generated := 0
	for _, rr := range d.res.Rules {
		seen := make(map[string]analysis.MethodKind)
		for _, m := range rr.Methods {
			if m.Suppressed() {
				continue
			}
			generated++
			if prev, dup := seen[m.Name]; dup {
				clashes = append(clashes, fmt.Sprintf("%s.%s (%s and %s)", rr.Rule.Name, m.Name, prev, m.Kind))
				continue
			}
			seen[m.Name] = m.Kind
		}
	}
	sort.Strings(clashes)

	if len(clashes) > 0 {
		report.AddCheck(CheckResult{
			Category: category,
			Name:     "collisions",
			Status:   StatusFail,
			Message:  fmt.Sprintf("%d accessor name collision(s)", len(clashes)),
			Details:  strings.Join(clashes, "\n"),
			FixHint:  `Rename one accessor with a methods override (name: x, target: member)`,
		})
		return
	}
	report.AddCheck(CheckResult{
		Category: category,
		Name:     "collisions",
		Status:   StatusPass,
		Message:  fmt.Sprintf("%d accessors across %d rules, no collisions", generated, len(d.res.Rules)),
	})
}
