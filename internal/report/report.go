// Package report turns analysis results into printable reports: go-pretty
// tables for terminals, YAML and JSON for tools, and line diffs between two
// reports.
package report

import (
	"github.com/pthm/bnfkit/internal/analysis"
)

// Report is the serializable form of an analysis result.
type Report struct {
	Source     string       `json:"source,omitempty"`
	Rules      []RuleReport `json:"rules"`
	Order      []string     `json:"order"`
	Cycles     []string     `json:"cycles,omitempty"`
	Recursions int          `json:"recursions"`
}

// RuleReport is the analysis outcome of one rule.
type RuleReport struct {
	Name       string         `json:"name"`
	Modifiers  string         `json:"modifiers,omitempty"`
	Supertypes []string       `json:"supertypes,omitempty"`
	Collapse   []string       `json:"collapse,omitempty"`
	References []string       `json:"references,omitempty"`
	Content    []ContentEntry `json:"content"`
	Methods    []MethodEntry  `json:"methods"`
}

// ContentEntry is one member of a rule's content.
type ContentEntry struct {
	Member      string `json:"member"`
	Kind        string `json:"kind"`
	Cardinality string `json:"cardinality"`
}

// MethodEntry is one derived accessor.
type MethodEntry struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Path        string `json:"path"`
	Rule        string `json:"rule,omitempty"`
	Cardinality string `json:"cardinality,omitempty"`
	Suppressed  bool   `json:"suppressed,omitempty"`
}

// FromResult builds a report from an analysis result. Rules keep
// declaration order; content members are listed in kind, name order.
func FromResult(res *analysis.Result, source string) *Report {
	rep := &Report{
		Source:     source,
		Rules:      make([]RuleReport, 0, len(res.Rules)),
		Recursions: res.Recursions,
	}
	for _, r := range res.References.Order() {
		rep.Order = append(rep.Order, r.Name)
	}
	for _, c := range res.References.Cycles() {
		rep.Cycles = append(rep.Cycles, analysis.FormatCycle(c))
	}

	for _, rr := range res.Rules {
		rule := rr.Rule
		out := RuleReport{
			Name:      rule.Name,
			Modifiers: rule.Modifiers.String(),
			Content:   make([]ContentEntry, 0, len(rr.Content)),
			Methods:   make([]MethodEntry, 0, len(rr.Methods)),
		}
		for _, s := range res.Extends.Supertypes(rule) {
			if s != rule {
				out.Supertypes = append(out.Supertypes, s.Name)
			}
		}
		for _, m := range res.Collapse.Members(rule) {
			out.Collapse = append(out.Collapse, m.Name)
		}
		for _, t := range res.References.Edges(rule) {
			out.References = append(out.References, t.Name)
		}
		for _, m := range rr.Content.Members() {
			out.Content = append(out.Content, ContentEntry{
				Member:      m.String(),
				Kind:        m.Kind.String(),
				Cardinality: rr.Content[m].String(),
			})
		}
		for _, m := range rr.Methods {
			e := MethodEntry{
				Name:       m.Name,
				Kind:       m.Kind.String(),
				Path:       m.Path,
				Rule:       m.Rule,
				Suppressed: m.Suppressed(),
			}
			if m.Cardinality != analysis.None {
				e.Cardinality = m.Cardinality.String()
			}
			out.Methods = append(out.Methods, e)
		}
		rep.Rules = append(rep.Rules, out)
	}
	return rep
}

// Rule returns the report of the named rule.
func (r *Report) Rule(name string) (RuleReport, bool) {
	for _, rr := range r.Rules {
		if rr.Name == name {
			return rr, true
		}
	}
	return RuleReport{}, false
}
