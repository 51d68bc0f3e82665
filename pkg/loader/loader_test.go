package loader_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/bnfkit/pkg/grammar"
	"github.com/pthm/bnfkit/pkg/loader"
)

func TestLoad(t *testing.T) {
	path := filepath.Join("testdata", "statements.yaml")
	doc, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, doc.Source)
	assert.Empty(t, doc.Warnings)

	g := doc.Grammar
	require.Len(t, g.Rules(), 3)
	assert.Len(t, g.Tokens(), 3)

	stmt, ok := g.Rule("stmt")
	require.True(t, ok)
	assert.Equal(t, `IDENT "=" expr ";"`, stmt.Expr.String())
	assert.True(t, stmt.IsPinned(stmt.Expr, 1))

	root, _ := g.Rule("root")
	assert.Equal(t, "stmt*", root.Expr.String())

	eq, ok := g.TokenForText("=")
	require.True(t, ok)
	assert.Equal(t, "EQ", eq.Name)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := loader.Load(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading grammar file")
}

func TestParse_AllCombinators(t *testing.T) {
	doc, err := loader.Parse([]byte(`
rules:
  - name: all
    modifiers: [meta]
    expr:
      seq:
        - {ref: a}
        - {opt: b}
        - {oneOrMore: {lit: "+"}}
        - {and: c}
        - {not: {lit: "!"}}
        - {call: {name: list, args: [d, {lit: ","}]}}
        - {call: {name: param}}
        - {seq: []}
`))
	require.NoError(t, err)

	r, ok := doc.Grammar.Rule("all")
	require.True(t, ok)
	assert.True(t, r.Is(grammar.Meta))
	assert.Equal(t, `a b? "+"+ &c !"!" <<list d ",">> <<param>> ()`, r.Expr.String())
	assert.Equal(t, []string{"param"}, doc.Grammar.MetaParams(r), "calls with arguments are not parameters")
}

func TestParse_JSON(t *testing.T) {
	doc, err := loader.Parse([]byte(`{"rules": [{"name": "r", "expr": {"choice": ["A", {"lit": "b"}]}}]}`))
	require.NoError(t, err)

	r, _ := doc.Grammar.Rule("r")
	assert.Equal(t, `A | "b"`, r.Expr.String())
	assert.Empty(t, doc.Source)
}

func TestParse_Attributes(t *testing.T) {
	doc, err := loader.Parse([]byte(`
rules:
  - name: ref_expr
    extends: expr
    elementType: RefNode
    implements: [Named]
    mixin: RefMixin
    generateTokenAccessors: false
    methods:
      - {name: IDENT, target: ""}
      - {name: first, target: "expr[0]"}
      - {name: resolve}
    pins:
      - {pattern: "ref_expr.*", index: 1}
      - {token: "("}
    expr: IDENT
  - name: expr
    noType: true
    expr: ref_expr
`))
	require.NoError(t, err)

	r, _ := doc.Grammar.Rule("ref_expr")
	assert.Equal(t, "expr", r.Attrs.Extends)
	assert.Equal(t, "RefNode", r.Attrs.ElementType)
	assert.Equal(t, []string{"Named"}, r.Attrs.Implements)
	assert.Equal(t, "RefMixin", r.Attrs.Mixin)
	require.NotNil(t, r.Attrs.GenerateTokenAccessors)
	assert.False(t, *r.Attrs.GenerateTokenAccessors)

	require.Len(t, r.Attrs.Methods, 3)
	require.NotNil(t, r.Attrs.Methods[0].Target)
	assert.Empty(t, *r.Attrs.Methods[0].Target, "an empty target suppresses")
	assert.Nil(t, r.Attrs.Methods[2].Target)

	assert.Equal(t, []grammar.Pin{{Pattern: "ref_expr.*", Index: 1}, {Token: "("}}, r.Attrs.Pins)

	e, _ := doc.Grammar.Rule("expr")
	assert.True(t, e.Attrs.NoType)
}

func TestParse_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"missing rules", `tokens: []`, "rules"},
		{"unknown top-level key", "rules: []\ngrammar: x", "grammar"},
		{"unknown modifier", "rules:\n  - name: r\n    modifiers: [public]", "rules.0.modifiers.0"},
		{"rule without name", "rules:\n  - expr: a", "name"},
		{"two combinators in one node", "rules:\n  - name: r\n    expr: {lit: a, ref: b}", "rules.0.expr"},
		{"empty choice", "rules:\n  - name: r\n    expr: {choice: []}", "rules.0.expr"},
		{"pin without index or token", "rules:\n  - name: r\n    pins: [{pattern: x}]", "rules.0.pins.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, loader.IsInvalidDocumentErr(err))

			var ve *loader.ValidationError
			require.True(t, errors.As(err, &ve))
			require.NotEmpty(t, ve.Problems)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_YAMLSyntaxError(t *testing.T) {
	_, err := loader.Parse([]byte("rules: [unterminated"))
	require.Error(t, err)
	assert.True(t, loader.IsInvalidDocumentErr(err))
}

func TestParse_DuplicateRule(t *testing.T) {
	_, err := loader.Parse([]byte(`
rules:
  - {name: a, expr: x}
  - {name: a, expr: y}
`))
	require.Error(t, err)
	assert.True(t, grammar.IsDuplicateRuleErr(err))
	assert.False(t, loader.IsInvalidDocumentErr(err))
}

func TestParse_Warnings(t *testing.T) {
	doc, err := loader.Parse([]byte(`
rules:
  - {name: a, extends: missing, expr: x}
  - {name: b, elementType: hidden, expr: x}
  - {name: hidden, modifiers: [private], expr: x}
  - {name: c, modifiers: [inner], expr: x}
  - {name: d, modifiers: [meta], expr: {call: {name: p}}}
`))
	require.NoError(t, err)

	var got []string
	for _, w := range doc.Warnings {
		got = append(got, w.String())
	}
	assert.Equal(t, []string{
		`rule "a": extends unknown rule "missing"`,
		`rule "b": elementType "hidden" names a rule without a node type`,
		`rule "c": inner without left has no effect`,
		`rule "d": public meta rule is not expanded at call sites`,
	}, got)
}

func TestValidationError_Source(t *testing.T) {
	err := &loader.ValidationError{Source: "g.yaml", Problems: []string{"a", "b"}}
	assert.Equal(t, "bnfkit/loader: invalid grammar document g.yaml: a; b", err.Error())
	assert.ErrorIs(t, err, loader.ErrInvalidDocument)
}

func TestSchema(t *testing.T) {
	assert.Contains(t, string(loader.Schema()), `"$schema"`)
}
