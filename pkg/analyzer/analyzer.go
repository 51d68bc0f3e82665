// Package analyzer provides the public API of the bnfkit grammar analysis.
//
// This is a thin wrapper around internal/analysis that exposes only the
// types and functions a generator front-end needs. Grammars are built with
// pkg/grammar or decoded with pkg/loader.
//
// # Basic Usage
//
//	res, err := analyzer.Analyze(ctx, g, analyzer.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	stmt, _ := res.Rule("stmt")
//	for _, m := range stmt.Methods {
//	    if !m.Suppressed() {
//	        fmt.Println(m.Name, m.Cardinality)
//	    }
//	}
package analyzer

import (
	"github.com/pthm/bnfkit/internal/analysis"
)

// Config holds the analysis options.
type Config = analysis.Config

// NamingCase is the case policy for accessor names derived from literals.
type NamingCase = analysis.NamingCase

// Cardinality is the multiplicity of a member in a rule's content.
type Cardinality = analysis.Cardinality

// Member is a grammar-visible contributor to a rule's content.
type Member = analysis.Member

// ContentMap maps members to cardinalities.
type ContentMap = analysis.ContentMap

// MethodInfo describes one accessor to generate.
type MethodInfo = analysis.MethodInfo

// MethodKind classifies accessors.
type MethodKind = analysis.MethodKind

// Result is the outcome of Analyze.
type Result = analysis.Result

// RuleResult is the outcome for one rule.
type RuleResult = analysis.RuleResult

// Option configures Analyze.
type Option = analysis.Option

// Cardinalities.
const (
	None       = analysis.None
	Optional   = analysis.Optional
	Required   = analysis.Required
	AtLeastOne = analysis.AtLeastOne
	AnyNumber  = analysis.AnyNumber
)

// Naming cases.
const (
	CaseUpper = analysis.CaseUpper
	CaseCamel = analysis.CaseCamel
	CaseAsIs  = analysis.CaseAsIs
	CaseLower = analysis.CaseLower
)

// Analyze runs the full analysis over a grammar.
var Analyze = analysis.Analyze

// DefaultConfig returns the default analysis options.
var DefaultConfig = analysis.DefaultConfig

// ParseNamingCase parses a naming case name.
var ParseNamingCase = analysis.ParseNamingCase

// ParseCardinality parses a cardinality name.
var ParseCardinality = analysis.ParseCardinality

// WithLogger sets the logger phase summaries are written to.
var WithLogger = analysis.WithLogger

// WithTracerProvider sets the provider phase spans are created from.
var WithTracerProvider = analysis.WithTracerProvider

// WithMetrics records run statistics.
var WithMetrics = analysis.WithMetrics
