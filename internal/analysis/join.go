package analysis

import (
	"fmt"

	"github.com/pthm/bnfkit/pkg/grammar"
)

// Join combines the content maps of a compound node's children. It is the
// join used by the content analyzer without pins or collapsing, and never
// modifies its inputs.
func Join(kind grammar.NodeKind, children ...ContentMap) ContentMap {
	switch kind {
	case grammar.KindSequence:
		return joinSequence(children, -1)
	case grammar.KindChoice:
		return joinChoice(children)
	case grammar.KindOptional, grammar.KindZeroOrMore, grammar.KindOneOrMore:
		return joinUnary(kind, children)
	default:
		panic(fmt.Sprintf("analysis: cannot join %s", kind))
	}
}

// joinUnary applies a quantifier to the content of its single operand. A
// left-rule seed cannot itself repeat, so content carrying LeftMarker loses
// its repetition.
func joinUnary(kind grammar.NodeKind, children []ContentMap) ContentMap {
	if len(children) != 1 {
		panic(fmt.Sprintf("analysis: %s join needs exactly one operand, got %d", kind, len(children)))
	}
	card := FromNodeKind(kind)
	in := children[0]
	left := in.Has(LeftMarker)
	out := make(ContentMap, len(in))
	for k, v := range in {
		c := v.And(card)
		if left {
			c = c.Single()
		}
		out[k] = c
	}
	return out
}

// withCardinality returns m with every cardinality ANDed with c.
func withCardinality(m ContentMap, c Cardinality) ContentMap {
	out := make(ContentMap, len(m))
	for k, v := range m {
		out[k] = v.And(c)
	}
	return out
}

// joinSequence merges children left to right. Children after pinned are
// optional. A required LeftMarker restarts the accumulated content and an
// optional one makes it optional; LeftMarker itself is only kept from the
// first child.
func joinSequence(children []ContentMap, pinned int) ContentMap {
	acc := make(ContentMap)
	for i, m := range children {
		if pinned >= 0 && i > pinned {
			m = withCardinality(m, Optional)
		}
		if lc, ok := m[LeftMarker]; ok && i > 0 {
			if lc == Required {
				acc = make(ContentMap)
			} else {
				for k, v := range acc {
					acc[k] = v.And(Optional)
				}
			}
		}
		for k, v := range m {
			if k == LeftMarker && i > 0 {
				continue
			}
			acc[k] = acc[k].Or(v)
		}
	}
	return acc
}

// joinChoice merges alternatives. A member present in every branch gets the
// AND of its cardinalities; a member missing from some branch is made
// optional, keeping repetition. When no branch can match nothing the result
// carries a required NotEmptyMarker.
func joinChoice(children []ContentMap) ContentMap {
	count := make(map[Member]int)
	out := make(ContentMap)
	for _, m := range children {
		for k, v := range m {
			if prev, ok := out[k]; ok {
				out[k] = prev.And(v)
			} else {
				out[k] = v
			}
			count[k]++
		}
	}
	for k, n := range count {
		if n < len(children) {
			out[k] = out[k].And(Optional)
		}
	}

	for _, m := range children {
		if canVanish(m) {
			return out
		}
	}
	out[NotEmptyMarker] = Required
	return out
}

// canVanish reports whether content may match without producing anything.
func canVanish(m ContentMap) bool {
	for k, v := range m {
		if v.IsOptional() {
			continue
		}
		if !k.IsMarker() || k == NotEmptyMarker {
			return false
		}
	}
	return true
}
