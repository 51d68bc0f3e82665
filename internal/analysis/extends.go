package analysis

import (
	"sort"

	"github.com/pthm/bnfkit/pkg/grammar"
)

// ExtendsGraph maps every rule to the rules substitutable for it: its
// transitive subtypes through extends and synonym declarations, plus itself.
//
// For a grammar where binary_expr extends expr and add_expr extends
// binary_expr:
//   - expr is substitutable by: expr, binary_expr, add_expr
//   - binary_expr is substitutable by: binary_expr, add_expr
//   - add_expr is substitutable by: add_expr
//
// The graph is built once per run and is read-only afterwards.
type ExtendsGraph struct {
	rules []*grammar.Rule
	subs  map[*grammar.Rule]map[*grammar.Rule]struct{}
}

// BuildExtendsGraph computes the transitive-reflexive extends closure.
func BuildExtendsGraph(g *grammar.Grammar) *ExtendsGraph {
	e := &ExtendsGraph{
		rules: g.Rules(),
		subs:  make(map[*grammar.Rule]map[*grammar.Rule]struct{}),
	}

	// Direct edges: super -> sub.
	for _, r := range g.Rules() {
		if r.IsPrivateOrNoType() {
			continue
		}
		super := g.ExtendsTarget(r)
		if super != nil {
			e.add(super, r)
		}
		if target := g.SynonymTarget(r); target != nil {
			e.add(target, r)
			if super != nil {
				e.add(super, target)
			}
		}
	}

	// Fixpoint: every pass either grows a set or stops. Sets only grow and the
	// rule set is finite, so the loop terminates.
	for changed := true; changed; {
		changed = false
		for _, super := range e.rules {
			set := e.subs[super]
			for _, sub := range sortedRules(set) {
				for transitive := range e.subs[sub] {
					if _, ok := set[transitive]; !ok {
						set[transitive] = struct{}{}
						changed = true
					}
				}
			}
		}
	}

	for _, r := range e.rules {
		e.add(r, r)
	}
	return e
}

func (e *ExtendsGraph) add(super, sub *grammar.Rule) {
	set, ok := e.subs[super]
	if !ok {
		set = make(map[*grammar.Rule]struct{})
		e.subs[super] = set
	}
	set[sub] = struct{}{}
}

// Subtypes returns the rules substitutable for super, itself included, in
// declaration order.
func (e *ExtendsGraph) Subtypes(super *grammar.Rule) []*grammar.Rule {
	return sortedRules(e.subs[super])
}

// Contains reports whether sub is substitutable for super.
func (e *ExtendsGraph) Contains(super, sub *grammar.Rule) bool {
	_, ok := e.subs[super][sub]
	return ok
}

// HasSubtypes reports whether some rule other than r is substitutable for r.
func (e *ExtendsGraph) HasSubtypes(r *grammar.Rule) bool {
	return len(e.subs[r]) > 1
}

// Supers returns the rules with at least one distinct subtype, in
// declaration order.
func (e *ExtendsGraph) Supers() []*grammar.Rule {
	var out []*grammar.Rule
	for _, r := range e.rules {
		if e.HasSubtypes(r) {
			out = append(out, r)
		}
	}
	return out
}

// Supertypes returns every rule r is substitutable for, itself included, in
// declaration order.
func (e *ExtendsGraph) Supertypes(r *grammar.Rule) []*grammar.Rule {
	var out []*grammar.Rule
	for _, s := range e.rules {
		if e.Contains(s, r) {
			out = append(out, s)
		}
	}
	return out
}

// CommonSupertypes returns the rules both a and b are substitutable for.
func (e *ExtendsGraph) CommonSupertypes(a, b *grammar.Rule) []*grammar.Rule {
	var out []*grammar.Rule
	for _, s := range e.rules {
		if e.Contains(s, a) && e.Contains(s, b) {
			out = append(out, s)
		}
	}
	return out
}

// Order returns all rules with supertypes before their subtypes. Rules in an
// extends cycle keep declaration order.
func (e *ExtendsGraph) Order() []*grammar.Rule {
	depth := make(map[*grammar.Rule]int, len(e.rules))
	for _, r := range e.rules {
		depth[r] = len(e.Supertypes(r))
	}
	out := make([]*grammar.Rule, len(e.rules))
	copy(out, e.rules)
	sort.SliceStable(out, func(i, j int) bool {
		return depth[out[i]] < depth[out[j]]
	})
	return out
}

// sortedRules returns the set's rules in declaration order for deterministic
// iteration.
func sortedRules(set map[*grammar.Rule]struct{}) []*grammar.Rule {
	out := make([]*grammar.Rule, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index() < out[j].Index() })
	return out
}
