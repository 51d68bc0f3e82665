package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm/bnfkit/pkg/grammar"
)

func TestBestFold(t *testing.T) {
	cands := []foldCandidate{
		{cover: 0b0011, size: 3},
		{cover: 0b0110, size: 3},
		{cover: 0b1100, size: 4},
	}
	// First and third are disjoint and replace all four members.
	assert.Equal(t, uint32(0b101), bestFold(cands))

	assert.Equal(t, uint32(0), bestFold(nil))
}

func TestBestFold_PrefersFewerGroups(t *testing.T) {
	cands := []foldCandidate{
		{cover: 0b1111, size: 6},
		{cover: 0b0011, size: 2},
		{cover: 0b1100, size: 2},
	}
	assert.Equal(t, uint32(0b001), bestFold(cands))
}

func TestBestFold_PrefersSmallerSupertypes(t *testing.T) {
	cands := []foldCandidate{
		{cover: 0b011, size: 5},
		{cover: 0b011, size: 2},
	}
	assert.Equal(t, uint32(0b10), bestFold(cands))
}

func TestFoldSupertypes_Nested(t *testing.T) {
	g := newGrammar(t, nil,
		&grammar.Rule{Name: "expr", Expr: grammar.Lit("e")},
		&grammar.Rule{Name: "binary", Expr: grammar.Lit("b"), Attrs: grammar.Attributes{Extends: "expr"}},
		&grammar.Rule{Name: "add", Expr: grammar.Lit("+"), Attrs: grammar.Attributes{Extends: "binary"}},
		&grammar.Rule{Name: "mul", Expr: grammar.Lit("*"), Attrs: grammar.Attributes{Extends: "binary"}},
		&grammar.Rule{Name: "lit", Expr: grammar.Lit("1"), Attrs: grammar.Attributes{Extends: "expr"}},
	)
	ext := BuildExtendsGraph(g)

	t.Run("tightest supertype wins", func(t *testing.T) {
		m := ContentMap{RuleMember("add"): Required, RuleMember("mul"): Optional}
		got := foldSupertypes(g, ext, nil, m)
		assert.Equal(t, ContentMap{RuleMember("binary"): AtLeastOne}, got)
		assert.Len(t, m, 2, "input is not modified")
	})

	t.Run("widest coverage wins", func(t *testing.T) {
		m := ContentMap{RuleMember("add"): Required, RuleMember("lit"): Required, TokenMember(","): Optional}
		got := foldSupertypes(g, ext, nil, m)
		assert.Equal(t, ContentMap{RuleMember("expr"): AtLeastOne, TokenMember(","): Optional}, got)
	})

	t.Run("merges into an existing member", func(t *testing.T) {
		m := ContentMap{RuleMember("add"): Optional, RuleMember("mul"): Optional, RuleMember("binary"): Optional}
		got := foldSupertypes(g, ext, nil, m)
		assert.Equal(t, ContentMap{RuleMember("binary"): Optional}, got)
	})

	t.Run("single member is kept", func(t *testing.T) {
		m := ContentMap{RuleMember("add"): Required}
		assert.Equal(t, m, foldSupertypes(g, ext, nil, m))
	})
	t.Run("never folds into the analyzed rule", func(t *testing.T) {
		m := ContentMap{RuleMember("add"): Optional, RuleMember("lit"): Optional}
		assert.Equal(t, m, foldSupertypes(g, ext, mustRule(t, g, "expr"), m))
	})
}
