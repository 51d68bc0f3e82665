package analysis

import (
	"strings"

	"github.com/pthm/bnfkit/pkg/grammar"
)

// color is the state of a rule during the depth-first walk.
type color int

const (
	white color = iota // unvisited
	gray               // on the current path (revisiting closes a cycle)
	black              // fully processed
)

// ReferenceGraph records which rules each rule refers to.
//
// Edges come from reference nodes and from external callees that resolve to
// rules. Predicates and call arguments are skipped. A public non-inner left
// rule also points at every rule that can be parsed right before it, since its
// node adopts that rule's node.
type ReferenceGraph struct {
	rules      []*grammar.Rule
	edges      map[*grammar.Rule][]*grammar.Rule
	usesTokens map[*grammar.Rule]bool
	order      []*grammar.Rule
	cycles     [][]*grammar.Rule
}

// BuildReferenceGraph collects the reference edges of every rule and orders
// the rules dependencies first.
func BuildReferenceGraph(g *grammar.Grammar, fn *FirstNext) *ReferenceGraph {
	rg := &ReferenceGraph{
		rules:      g.Rules(),
		edges:      make(map[*grammar.Rule][]*grammar.Rule),
		usesTokens: make(map[*grammar.Rule]bool),
	}

	for _, r := range g.Rules() {
		seen := make(map[*grammar.Rule]bool)
		addEdge := func(target *grammar.Rule) {
			if !seen[target] {
				seen[target] = true
				rg.edges[r] = append(rg.edges[r], target)
			}
		}
		var walk func(n *grammar.Node)
		walk = func(n *grammar.Node) {
			switch n.Kind {
			case grammar.KindLiteral:
				rg.usesTokens[r] = true
			case grammar.KindReference:
				if target, ok := g.Rule(n.Text); ok {
					addEdge(target)
				} else {
					rg.usesTokens[r] = true
				}
			case grammar.KindExternalCall:
				if target, ok := g.Rule(n.Text); ok {
					addEdge(target)
				}
			case grammar.KindPredicate:
			default:
				for _, c := range n.Children {
					walk(c)
				}
			}
		}
		walk(r.Expr)

		if r.Is(grammar.Left) && !r.IsPrivate() && !r.Is(grammar.Inner) {
			for _, p := range fn.RulesToTheLeft(r) {
				addEdge(p.Rule)
			}
		}
	}

	rg.walk()
	return rg
}

// walk computes the post-order and records a cycle for every back edge.
func (rg *ReferenceGraph) walk() {
	colors := make(map[*grammar.Rule]color, len(rg.rules))
	parent := make(map[*grammar.Rule]*grammar.Rule)

	var dfs func(r *grammar.Rule)
	dfs = func(r *grammar.Rule) {
		colors[r] = gray
		for _, next := range rg.edges[r] {
			switch colors[next] {
			case gray:
				rg.cycles = append(rg.cycles, reconstructCycle(r, next, parent))
			case white:
				parent[next] = r
				dfs(next)
			}
		}
		colors[r] = black
		rg.order = append(rg.order, r)
	}

	for _, r := range rg.rules {
		if colors[r] == white {
			dfs(r)
		}
	}
}

// reconstructCycle builds the cycle path from parent pointers.
// from is the rule where the back edge was found, to is the rule it returns to.
func reconstructCycle(from, to *grammar.Rule, parent map[*grammar.Rule]*grammar.Rule) []*grammar.Rule {
	cycle := []*grammar.Rule{to}
	for r := from; r != to; r = parent[r] {
		cycle = append([]*grammar.Rule{r}, cycle...)
	}
	return append([]*grammar.Rule{to}, cycle...)
}

// FormatCycle renders a cycle path such as "expr → term → expr".
func FormatCycle(cycle []*grammar.Rule) string {
	parts := make([]string, len(cycle))
	for i, r := range cycle {
		parts[i] = r.Name
	}
	return strings.Join(parts, " → ")
}

// Edges returns the rules r refers to, in first-reference order.
func (rg *ReferenceGraph) Edges(r *grammar.Rule) []*grammar.Rule { return rg.edges[r] }

// UsesTokens reports whether r matches literals or unresolved names directly.
func (rg *ReferenceGraph) UsesTokens(r *grammar.Rule) bool { return rg.usesTokens[r] }

// Order returns every rule after the rules it refers to. A cycle is broken
// at its back edge.
func (rg *ReferenceGraph) Order() []*grammar.Rule { return rg.order }

// Cycles returns one path per back edge found while ordering, each starting
// and ending at the same rule. Self-references are cycles of length two.
func (rg *ReferenceGraph) Cycles() [][]*grammar.Rule { return rg.cycles }
