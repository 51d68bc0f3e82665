package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pthm/bnfkit/pkg/grammar"
)

// newGrammar links rules into a grammar or fails the test.
func newGrammar(t *testing.T, tokens []grammar.Token, rules ...*grammar.Rule) *grammar.Grammar {
	t.Helper()
	g, err := grammar.New(rules, tokens)
	require.NoError(t, err)
	return g
}

func mustRule(t *testing.T, g *grammar.Grammar, name string) *grammar.Rule {
	t.Helper()
	r, ok := g.Rule(name)
	require.True(t, ok, "rule %q", name)
	return r
}

func ruleNames(rules []*grammar.Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Name
	}
	return out
}

func occurrenceTexts(items []Occurrence) []string {
	out := make([]string, len(items))
	for i, o := range items {
		out[i] = o.Node.Text
	}
	return out
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

// statementGrammar is root ::= stmt*; stmt ::= IDENT "=" expr ";";
// expr ::= IDENT | NUMBER.
func statementGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	return newGrammar(t,
		[]grammar.Token{
			{Name: "IDENT", Value: "regexp:[a-zA-Z_]\\w*"},
			{Name: "NUMBER", Value: "regexp:\\d+"},
		},
		&grammar.Rule{Name: "root", Expr: grammar.ZeroOrMore(grammar.Ref("stmt"))},
		&grammar.Rule{Name: "stmt", Expr: grammar.Seq(grammar.Ref("IDENT"), grammar.Lit("="), grammar.Ref("expr"), grammar.Lit(";"))},
		&grammar.Rule{Name: "expr", Expr: grammar.Choice(grammar.Ref("IDENT"), grammar.Ref("NUMBER"))},
	)
}

// expressionGrammar has a supertype expr with add_expr, mul_expr and
// primary extending it.
func expressionGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	return newGrammar(t, nil,
		&grammar.Rule{Name: "expr", Expr: grammar.Choice(grammar.Ref("add_expr"), grammar.Ref("mul_expr"), grammar.Ref("primary"))},
		&grammar.Rule{Name: "add_expr", Expr: grammar.Seq(grammar.Ref("expr"), grammar.Lit("+"), grammar.Ref("expr")), Attrs: grammar.Attributes{Extends: "expr"}},
		&grammar.Rule{Name: "mul_expr", Expr: grammar.Seq(grammar.Ref("expr"), grammar.Lit("*"), grammar.Ref("expr")), Attrs: grammar.Attributes{Extends: "expr"}},
		&grammar.Rule{Name: "primary", Expr: grammar.Ref("NUMBER"), Attrs: grammar.Attributes{Extends: "expr"}},
		&grammar.Rule{Name: "pair", Expr: grammar.Seq(grammar.Ref("add_expr"), grammar.Lit("|"), grammar.Ref("mul_expr"))},
	)
}
