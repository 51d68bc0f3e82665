package analyzer_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/bnfkit/pkg/analyzer"
	"github.com/pthm/bnfkit/pkg/loader"
)

const statements = `
tokens:
  - {name: IDENT, value: "regexp:[a-z]+"}
rules:
  - name: root
    expr: {zeroOrMore: stmt}
  - name: stmt
    expr: {seq: [IDENT, {lit: "="}, expr]}
  - name: expr
    expr: {choice: [IDENT, {lit: "nil"}]}
`

func TestAnalyze(t *testing.T) {
	doc, err := loader.Parse([]byte(statements))
	require.NoError(t, err)

	cfg := analyzer.DefaultConfig()
	cfg.NamingCase = analyzer.CaseCamel
	res, err := analyzer.Analyze(context.Background(), doc.Grammar, cfg)
	require.NoError(t, err)

	root, ok := res.Rule("root")
	require.True(t, ok)
	require.Len(t, root.Methods, 1)
	assert.Equal(t, analyzer.AnyNumber, root.Methods[0].Cardinality)

	expr, _ := res.Rule("expr")
	var names []string
	for _, m := range expr.Methods {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"IDENT", "nil"}, names, "lower-case keywords get accessors")
}

func ExampleAnalyze() {
	doc, err := loader.Parse([]byte(statements))
	if err != nil {
		panic(err)
	}
	res, err := analyzer.Analyze(context.Background(), doc.Grammar, analyzer.DefaultConfig())
	if err != nil {
		panic(err)
	}
	stmt, _ := res.Rule("stmt")
	for _, m := range stmt.Methods {
		if !m.Suppressed() {
			fmt.Println(m.Name, m.Cardinality)
		}
	}
	// Output:
	// expr REQUIRED
	// IDENT REQUIRED
}
