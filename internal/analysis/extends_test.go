package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm/bnfkit/pkg/grammar"
)

func TestExtendsGraph_Closure(t *testing.T) {
	g := newGrammar(t, nil,
		&grammar.Rule{Name: "expr", Expr: grammar.Lit("e")},
		&grammar.Rule{Name: "binary_expr", Expr: grammar.Lit("b"), Attrs: grammar.Attributes{Extends: "expr"}},
		&grammar.Rule{Name: "add_expr", Expr: grammar.Lit("a"), Attrs: grammar.Attributes{Extends: "binary_expr"}},
		&grammar.Rule{Name: "lit_expr", Expr: grammar.Lit("l"), Attrs: grammar.Attributes{Extends: "expr"}},
		&grammar.Rule{Name: "other", Expr: grammar.Lit("o")},
	)
	ext := BuildExtendsGraph(g)

	expr := mustRule(t, g, "expr")
	binary := mustRule(t, g, "binary_expr")
	add := mustRule(t, g, "add_expr")
	lit := mustRule(t, g, "lit_expr")
	other := mustRule(t, g, "other")

	assert.Equal(t, []string{"expr", "binary_expr", "add_expr", "lit_expr"}, ruleNames(ext.Subtypes(expr)))
	assert.Equal(t, []string{"binary_expr", "add_expr"}, ruleNames(ext.Subtypes(binary)))
	assert.Equal(t, []string{"add_expr"}, ruleNames(ext.Subtypes(add)))

	assert.True(t, ext.Contains(expr, add), "transitive")
	assert.False(t, ext.Contains(add, binary))
	assert.False(t, ext.HasSubtypes(add))
	assert.True(t, ext.HasSubtypes(binary))

	assert.Equal(t, []string{"expr", "binary_expr"}, ruleNames(ext.Supers()))
	assert.Equal(t, []string{"expr", "binary_expr", "add_expr"}, ruleNames(ext.Supertypes(add)))
	assert.Equal(t, []string{"expr"}, ruleNames(ext.CommonSupertypes(add, lit)))
	assert.Empty(t, ext.CommonSupertypes(add, other))

	assert.Equal(t, []string{"expr", "other", "binary_expr", "lit_expr", "add_expr"}, ruleNames(ext.Order()))
}

func TestExtendsGraph_Reflexive(t *testing.T) {
	g := expressionGrammar(t)
	ext := BuildExtendsGraph(g)
	for _, r := range g.Rules() {
		assert.True(t, ext.Contains(r, r), "%s contains itself", r.Name)
	}
}

func TestExtendsGraph_Synonyms(t *testing.T) {
	g := newGrammar(t, nil,
		&grammar.Rule{Name: "expr", Expr: grammar.Lit("e")},
		&grammar.Rule{Name: "add_expr", Expr: grammar.Lit("a"), Attrs: grammar.Attributes{Extends: "expr"}},
		&grammar.Rule{Name: "plus_expr", Expr: grammar.Lit("p"), Attrs: grammar.Attributes{ElementType: "add_expr"}},
		&grammar.Rule{Name: "sum_expr", Expr: grammar.Lit("s"), Attrs: grammar.Attributes{Extends: "expr", ElementType: "alias_target"}},
		&grammar.Rule{Name: "alias_target", Expr: grammar.Lit("t")},
		&grammar.Rule{Name: "hidden", Modifiers: grammar.Private, Expr: grammar.Lit("h"), Attrs: grammar.Attributes{Extends: "expr"}},
	)
	ext := BuildExtendsGraph(g)

	expr := mustRule(t, g, "expr")
	add := mustRule(t, g, "add_expr")
	plus := mustRule(t, g, "plus_expr")
	target := mustRule(t, g, "alias_target")

	assert.True(t, ext.Contains(add, plus), "a synonym is substitutable for its target")
	assert.True(t, ext.Contains(expr, plus), "through the target's supertype")
	assert.True(t, ext.Contains(expr, target), "a synonym's target joins the synonym's supertype")
	assert.False(t, ext.Contains(expr, mustRule(t, g, "hidden")), "private rules are skipped")
}

func TestExtendsGraph_Cycle(t *testing.T) {
	g := newGrammar(t, nil,
		&grammar.Rule{Name: "a", Expr: grammar.Lit("a"), Attrs: grammar.Attributes{Extends: "b"}},
		&grammar.Rule{Name: "b", Expr: grammar.Lit("b"), Attrs: grammar.Attributes{Extends: "a"}},
	)
	ext := BuildExtendsGraph(g)

	a, b := mustRule(t, g, "a"), mustRule(t, g, "b")
	assert.True(t, ext.Contains(a, b))
	assert.True(t, ext.Contains(b, a))
	assert.Equal(t, []string{"a", "b"}, ruleNames(ext.Order()))
}
