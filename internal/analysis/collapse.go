package analysis

import (
	"github.com/pthm/bnfkit/pkg/grammar"
)

// CollapseSets records, per rule with subtypes, the members whose node may
// stand in for the rule's own node.
//
// When a supertype expr starts with a reference to another rule of its
// family and nothing follows it, the parser can hand back the referenced
// node unchanged: expr ::= add_expr | mul_expr yields an add_expr node, not
// an expr node wrapping one. Content that consists of just such a member
// collapses to nothing.
type CollapseSets map[*grammar.Rule]map[Member]struct{}

// BuildCollapseSets computes the collapse set of every rule with subtypes.
func BuildCollapseSets(g *grammar.Grammar, ext *ExtendsGraph, fn *FirstNext) CollapseSets {
	out := make(CollapseSets)
	for _, s := range ext.Supers() {
		first := fn.First(s.Expr)
		for _, occ := range first.Items {
			if occ.Node.Kind != grammar.KindReference {
				continue
			}
			r, ok := g.Rule(occ.Node.Text)
			if !ok {
				continue
			}
			common := ext.CommonSupertypes(s, r)
			if len(common) == 0 {
				continue
			}
			next := fn.NextInRule(occ)
			if !next.Edge || len(next.Items) > 0 {
				continue
			}
			set := out[s]
			if set == nil {
				set = make(map[Member]struct{})
				out[s] = set
			}
			set[RuleMember(r.Name)] = struct{}{}
			for _, t := range common {
				set[RuleMember(t.Name)] = struct{}{}
			}
		}
		if set := out[s]; set != nil {
			set[RuleMember(s.Name)] = struct{}{}
		}
	}
	return out
}

// Contains reports whether m is in the collapse set of r.
func (c CollapseSets) Contains(r *grammar.Rule, m Member) bool {
	_, ok := c[r][m]
	return ok
}

// Members returns the collapse set of r in kind, name order.
func (c CollapseSets) Members(r *grammar.Rule) []Member {
	set := c[r]
	m := make(ContentMap, len(set))
	for k := range set {
		m[k] = Required
	}
	return m.Members()
}

// collapsible reports whether content is exactly one required rule member
// from the collapse set of rule. Markers are ignored.
func (c CollapseSets) collapsible(rule *grammar.Rule, content ContentMap) bool {
	var only Member
	n := 0
	for k, v := range content {
		if k.IsMarker() {
			continue
		}
		n++
		if n > 1 || k.Kind != KindRule || v != Required {
			return false
		}
		only = k
	}
	if n != 1 {
		return false
	}
	return c.Contains(rule, only)
}
