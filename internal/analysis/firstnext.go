package analysis

import (
	"github.com/pthm/bnfkit/pkg/grammar"
)

// Occurrence is an expression reached during a FIRST or NEXT query, together
// with the private rule references the query expanded to reach it
// (outermost first).
type Occurrence struct {
	Node *grammar.Node
	Via  []*grammar.Node
}

// anchor returns the node that stands for the occurrence in the tree the
// query started from.
func (o Occurrence) anchor() *grammar.Node {
	if len(o.Via) > 0 {
		return o.Via[0]
	}
	return o.Node
}

// Reachable is the result of a FIRST or NEXT query: the opaque expressions
// found, and whether the query can reach the edge of its scope without
// consuming anything (an empty match for FIRST, the end of the rule for
// NEXT).
type Reachable struct {
	Items []Occurrence
	Edge  bool

	seen map[*grammar.Node]bool
}

func (r *Reachable) add(o Occurrence) {
	if r.seen == nil {
		r.seen = make(map[*grammar.Node]bool)
	}
	if r.seen[o.Node] {
		return
	}
	r.seen[o.Node] = true
	r.Items = append(r.Items, o)
}

// FirstNext answers FIRST and NEXT reachability queries over a grammar.
//
// Public rule references, tokens, literals and external calls are opaque.
// References to private rules are expanded into the private rule's body.
// Predicates are zero-width. Expansion depth is capped by maxDepth so a
// pathological grammar cannot make a query unbounded.
type FirstNext struct {
	g        *grammar.Grammar
	maxDepth int
	// occurrences indexes reference nodes by referenced name, skipping
	// predicates, external call arguments and fake rules.
	occurrences map[string][]*grammar.Node
}

// NewFirstNext indexes the grammar for reachability queries.
func NewFirstNext(g *grammar.Grammar, maxDepth int) *FirstNext {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxFirstDepth
	}
	f := &FirstNext{
		g:           g,
		maxDepth:    maxDepth,
		occurrences: make(map[string][]*grammar.Node),
	}
	for _, r := range g.Rules() {
		if r.Is(grammar.Fake) {
			continue
		}
		walkReferences(r.Expr, func(n *grammar.Node) {
			f.occurrences[n.Text] = append(f.occurrences[n.Text], n)
		})
	}
	return f
}

// walkReferences calls fn for every reference node in the tree, skipping
// predicate subtrees and external call arguments.
func walkReferences(n *grammar.Node, fn func(*grammar.Node)) {
	switch n.Kind {
	case grammar.KindReference:
		fn(n)
	case grammar.KindPredicate, grammar.KindExternalCall:
	default:
		for _, c := range n.Children {
			walkReferences(c, fn)
		}
	}
}

// expandable returns the private rule a reference node inlines, or nil when
// the reference is opaque.
func (f *FirstNext) expandable(n *grammar.Node) *grammar.Rule {
	if n.Kind != grammar.KindReference {
		return nil
	}
	r, ok := f.g.Rule(n.Text)
	if !ok || !r.IsPrivate() || r.Is(grammar.Meta) || r.Is(grammar.External) || r.Is(grammar.Left) {
		return nil
	}
	return r
}

// First returns the expressions that can start n.
func (f *FirstNext) First(n *grammar.Node) Reachable {
	var out Reachable
	out.Edge = f.edge(n, nil, make(map[*grammar.Rule]bool), 0, false, &out)
	return out
}

// Last returns the expressions that can end n.
func (f *FirstNext) Last(n *grammar.Node) Reachable {
	var out Reachable
	out.Edge = f.edge(n, nil, make(map[*grammar.Rule]bool), 0, true, &out)
	return out
}

// edge collects the opaque expressions at the start (or, when backward, the
// end) of n and reports whether n can match nothing.
func (f *FirstNext) edge(n *grammar.Node, via []*grammar.Node, visiting map[*grammar.Rule]bool,
	depth int, backward bool, out *Reachable) bool {
	switch n.Kind {
	case grammar.KindLiteral, grammar.KindExternalCall:
		out.add(Occurrence{Node: n, Via: via})
		return false
	case grammar.KindReference:
		target := f.expandable(n)
		if target == nil || visiting[target] || depth >= f.maxDepth {
			out.add(Occurrence{Node: n, Via: via})
			return false
		}
		visiting[target] = true
		empty := f.edge(target.Expr, appendVia(via, n), visiting, depth+1, backward, out)
		delete(visiting, target)
		return empty
	case grammar.KindPredicate:
		return true
	case grammar.KindSequence:
		for i := range n.Children {
			c := n.Children[i]
			if backward {
				c = n.Children[len(n.Children)-1-i]
			}
			if !f.edge(c, via, visiting, depth, backward, out) {
				return false
			}
		}
		return true
	case grammar.KindChoice:
		empty := false
		for _, c := range n.Children {
			if f.edge(c, via, visiting, depth, backward, out) {
				empty = true
			}
		}
		return empty
	case grammar.KindOptional, grammar.KindZeroOrMore:
		f.edge(n.Children[0], via, visiting, depth, backward, out)
		return true
	case grammar.KindOneOrMore:
		return f.edge(n.Children[0], via, visiting, depth, backward, out)
	default:
		panic("analysis: unexpected node kind " + n.Kind.String())
	}
}

func appendVia(via []*grammar.Node, n *grammar.Node) []*grammar.Node {
	out := make([]*grammar.Node, len(via), len(via)+1)
	copy(out, via)
	return append(out, n)
}

// NextInRule returns what can follow occ until the end of the rule the
// occurrence was reached from, climbing out of inlined private rules along
// occ.Via. Edge is set when the rule can end right after the occurrence.
func (f *FirstNext) NextInRule(occ Occurrence) Reachable {
	var out Reachable
	visiting := make(map[*grammar.Rule]bool)
	cur := occ.Node
	via := occ.Via
	for {
		p := cur.Parent()
		if p == nil {
			if len(via) == 0 {
				out.Edge = true
				return out
			}
			cur = via[len(via)-1]
			via = via[:len(via)-1]
			continue
		}
		switch p.Kind {
		case grammar.KindSequence:
			for _, s := range p.Children[cur.Index()+1:] {
				if !f.edge(s, via, visiting, len(via), false, &out) {
					return out
				}
			}
		case grammar.KindZeroOrMore, grammar.KindOneOrMore:
			// The next iteration may start right after this one.
			f.edge(p.Children[0], via, visiting, len(via), false, &out)
		}
		cur = p
	}
}

// LeftPredecessor is a public rule that can be parsed immediately before a
// left rule, with the cardinality of that adjacency.
type LeftPredecessor struct {
	Rule        *grammar.Rule
	Cardinality Cardinality
}

// RulesToTheLeft returns the public rules whose references can immediately
// precede a reference to rule anywhere in the grammar, in discovery order.
//
// The cardinality of a predecessor is the AND of the quantifiers enclosing
// the occurrence of rule below its nearest common ancestor with the
// predecessor: a predecessor found outside a repetition of rule is many.
func (f *FirstNext) RulesToTheLeft(rule *grammar.Rule) []LeftPredecessor {
	var order []*grammar.Rule
	cards := make(map[*grammar.Rule]Cardinality)
	record := func(occ *grammar.Node, pred Occurrence) {
		if pred.Node.Kind != grammar.KindReference {
			return
		}
		r, ok := f.g.Rule(pred.Node.Text)
		if !ok || r.IsPrivate() {
			return
		}
		c := quantifiersBetween(occ, pred.anchor())
		if prev, seen := cards[r]; seen {
			cards[r] = prev.Or(c)
			return
		}
		cards[r] = c
		order = append(order, r)
	}

	for _, occ := range f.occurrences[rule.Name] {
		prev := f.previous(occ, make(map[*grammar.Rule]bool))
		for _, p := range prev {
			record(occ, p)
		}
	}

	out := make([]LeftPredecessor, len(order))
	for i, r := range order {
		out[i] = LeftPredecessor{Rule: r, Cardinality: cards[r]}
	}
	return out
}

// previous returns the opaque expressions that can be matched immediately
// before node. Reaching the start of a private rule continues at every
// reference to that rule; reaching the start of a public rule stops.
func (f *FirstNext) previous(node *grammar.Node, climbed map[*grammar.Rule]bool) []Occurrence {
	var out Reachable
	addLast := func(n *grammar.Node) bool {
		last := f.Last(n)
		for _, o := range last.Items {
			out.add(o)
		}
		return last.Edge
	}
	cur := node
	for {
		p := cur.Parent()
		if p == nil {
			r := cur.Rule()
			if !r.IsPrivate() || climbed[r] {
				return out.Items
			}
			climbed[r] = true
			for _, caller := range f.occurrences[r.Name] {
				for _, o := range f.previous(caller, climbed) {
					out.add(o)
				}
			}
			return out.Items
		}
		switch p.Kind {
		case grammar.KindSequence:
			exhausted := true
			for i := cur.Index() - 1; i >= 0; i-- {
				if !addLast(p.Children[i]) {
					exhausted = false
					break
				}
			}
			if !exhausted {
				return out.Items
			}
		case grammar.KindZeroOrMore, grammar.KindOneOrMore:
			addLast(p.Children[0])
		}
		cur = p
	}
}

// quantifiersBetween ANDs the quantifier kinds on the path from occ up to,
// but excluding, the first node that strictly encloses other. When other
// lives in another tree the walk ends at the top of occ's rule.
func quantifiersBetween(occ, other *grammar.Node) Cardinality {
	c := Required
	for cur := occ; cur != nil; cur = cur.Parent() {
		if cur.IsAncestorOf(other) {
			break
		}
		if cur.Kind.IsQuantifier() {
			c = c.And(FromNodeKind(cur.Kind))
		}
	}
	return c
}
