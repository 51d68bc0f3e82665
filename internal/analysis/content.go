package analysis

import (
	"github.com/pthm/bnfkit/pkg/grammar"
)

// Content returns the published content map of rule.
//
// Typed public rules publish their visible members: markers are removed,
// content that collapses into the rule becomes empty, and groups of members
// sharing a supertype are folded when enabled. Private and untyped rules
// publish the fragment they contribute when inlined, markers included.
//
// The result is memoized for the lifetime of the run and must not be
// modified.
func (r *Run) Content(rule *grammar.Rule) ContentMap {
	if m, ok := r.published[rule]; ok {
		return m
	}
	raw := r.collect(rule, rule, make(map[*grammar.Rule]bool))
	m := raw
	if !rule.IsPrivate() {
		m = r.publish(rule, raw)
	}
	r.published[rule] = m
	return m
}

// fragmentKey identifies the fragment of rule as seen from the typed rule
// owner it is inlined into. Collapsing depends on owner.
type fragmentKey struct {
	rule, owner *grammar.Rule
}

// collect computes the inline fragment of rule, collapsing content against
// the collapse set of owner. guard holds the rules whose computation is in
// progress on the current descent.
func (r *Run) collect(rule, owner *grammar.Rule, guard map[*grammar.Rule]bool) ContentMap {
	key := fragmentKey{rule: rule, owner: owner}
	if m, ok := r.raw[key]; ok {
		return m
	}
	if guard[rule] {
		r.recursions++
		return ContentMap{recursionMarker(rule.Name): Required}
	}

	guard[rule] = true
	m := r.withLeftSeed(rule, r.expr(rule, owner, rule.Expr, guard))
	delete(guard, rule)

	own := recursionMarker(rule.Name)
	if m.Has(own) {
		m = m.Clone()
		delete(m, own)
		if rule.IsPrivateOrNoType() {
			// The content repeats through the recursive reference.
			m = joinSequence([]ContentMap{m, m}, -1)
		}
	}
	if m.foreignRecursion(rule.Name) {
		// Still depends on a rule in progress higher up: approximate for the
		// caller, recompute on the next request.
		return m
	}
	r.raw[key] = m
	return m
}

// expr computes the content of node n of rule. owner is rule itself, or the
// typed rule a private fragment is being inlined into.
func (r *Run) expr(rule, owner *grammar.Rule, n *grammar.Node, guard map[*grammar.Rule]bool) ContentMap {
	switch n.Kind {
	case grammar.KindLiteral:
		return ContentMap{TokenMember(n.Text): Required}
	case grammar.KindReference:
		m := r.reference(owner, n, guard)
		if n == firstNonTrivial(rule) && r.collapse.collapsible(owner, m) {
			return ContentMap{}
		}
		return m
	case grammar.KindExternalCall:
		return r.call(rule, owner, n, guard)
	case grammar.KindPredicate:
		return ContentMap{}
	case grammar.KindOptional, grammar.KindZeroOrMore, grammar.KindOneOrMore:
		m := joinUnary(n.Kind, []ContentMap{r.expr(rule, owner, n.Children[0], guard)})
		if n.Kind == grammar.KindOptional && r.collapse.collapsible(owner, m) {
			return ContentMap{}
		}
		return m
	case grammar.KindSequence:
		children := make([]ContentMap, len(n.Children))
		pinned := -1
		for i, c := range n.Children {
			children[i] = r.expr(rule, owner, c, guard)
			if pinned < 0 && rule.IsPinned(n, i) {
				pinned = i
			}
		}
		m := joinSequence(children, pinned)
		if r.collapse.collapsible(owner, m) {
			return ContentMap{}
		}
		return m
	case grammar.KindChoice:
		branches := make([]ContentMap, len(n.Children))
		for i, c := range n.Children {
			b := r.expr(rule, owner, c, guard)
			if r.collapse.collapsible(owner, b) {
				b = ContentMap{}
			}
			branches[i] = b
		}
		return joinChoice(branches)
	default:
		panic("analysis: unexpected node kind " + n.Kind.String())
	}
}

// reference computes the content a reference contributes.
func (r *Run) reference(owner *grammar.Rule, n *grammar.Node, guard map[*grammar.Rule]bool) ContentMap {
	target, ok := r.g.Rule(n.Text)
	switch {
	case !ok:
		return ContentMap{TokenMember(n.Text): Required}
	case target.Is(grammar.External):
		return ContentMap{ExternalMember(n.Text): Required}
	case target.Is(grammar.Left):
		if target.IsPrivate() || target.Is(grammar.Inner) {
			return ContentMap{}
		}
		return ContentMap{RuleMember(target.Name): Required, LeftMarker: Required}
	case target.IsPrivateOrNoType():
		return r.collect(target, owner, guard)
	case target.Is(grammar.Upper):
		return ContentMap{}
	default:
		return ContentMap{RuleMember(target.Name): Required}
	}
}

// call computes the content of an external call. Calls of private meta
// rules are expanded with the arguments' content substituted for the
// parameters.
func (r *Run) call(rule, owner *grammar.Rule, n *grammar.Node, guard map[*grammar.Rule]bool) ContentMap {
	if rule.Is(grammar.Meta) && len(n.Children) == 0 && r.g.IsMetaParam(rule, n.Text) {
		return ContentMap{ExternalMember(n.Text): Required}
	}
	callee, ok := r.g.Rule(n.Text)
	if !ok {
		return ContentMap{ExternalMember(n.Text): Required}
	}
	if !callee.IsPrivate() {
		return ContentMap{RuleMember(callee.Name): Required}
	}

	params := make(map[string]int)
	for i, p := range r.g.MetaParams(callee) {
		params[p] = i
	}
	args := make([]ContentMap, len(n.Children))
	for i, a := range n.Children {
		args[i] = r.expr(rule, owner, a, guard)
	}

	out := make(ContentMap)
	for k, v := range r.collect(callee, owner, guard) {
		if i, isParam := params[k.Name]; isParam && k.Kind == KindExternal && i < len(args) {
			for ak, av := range args[i] {
				out[ak] = out[ak].Or(v.And(av))
			}
			continue
		}
		out[k] = out[k].Or(v)
	}
	return out
}

// withLeftSeed prefixes the top-level content of a public non-inner left
// rule with the rules that can be parsed right before it: the node of such
// a rule adopts its predecessor's node.
func (r *Run) withLeftSeed(rule *grammar.Rule, body ContentMap) ContentMap {
	if !rule.Is(grammar.Left) || rule.IsPrivate() || rule.Is(grammar.Inner) {
		return body
	}
	preds := r.fn.RulesToTheLeft(rule)
	if len(preds) == 0 {
		return body
	}
	seeds := make([]ContentMap, len(preds))
	for i, p := range preds {
		seed := ContentMap{RuleMember(p.Rule.Name): Required}
		if p.Cardinality.IsMany() {
			seed = joinChoice([]ContentMap{seed, {RuleMember(rule.Name): Required}})
		}
		seeds[i] = seed
	}
	seed := seeds[0]
	if len(seeds) > 1 {
		seed = joinChoice(seeds)
	}
	return joinSequence([]ContentMap{seed, body}, -1)
}

// publish derives the visible content of a typed public rule from its
// fragment. raw is not modified.
func (r *Run) publish(rule *grammar.Rule, raw ContentMap) ContentMap {
	m := raw.Clone()
	delete(m, LeftMarker)
	for k := range m {
		if k.Kind == KindRecursion {
			delete(m, k)
		}
	}
	if r.collapse.collapsible(rule, m) {
		return ContentMap{}
	}
	if c, ok := m[NotEmptyMarker]; ok && c.IsOptional() {
		delete(m, NotEmptyMarker)
	}
	if r.cfg.FoldSupertypes {
		m = foldSupertypes(r.g, r.ext, rule, m)
	}
	return m
}

// firstNonTrivial returns the node that makes up the whole rule once
// single-operand sequences are looked through.
func firstNonTrivial(rule *grammar.Rule) *grammar.Node {
	n := rule.Expr
	for n.Kind == grammar.KindSequence && len(n.Children) == 1 {
		n = n.Children[0]
	}
	return n
}
