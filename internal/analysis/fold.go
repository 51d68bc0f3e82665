package analysis

import (
	"math/bits"
	"sort"

	"github.com/pthm/bnfkit/pkg/grammar"
)

// maxFoldCandidates bounds the supertype search to 2^16 subsets.
const maxFoldCandidates = 16

type foldCandidate struct {
	super *grammar.Rule
	// cover holds the indexes of the rule members the supertype can replace.
	cover uint64
	size  int
}

// foldSupertypes replaces groups of two or more rule members that share a
// supertype with a single member for that supertype. Their cardinalities are
// OR-combined. rule itself is never a fold target.
//
// Among the candidate supertypes the search picks pairwise disjoint groups
// that replace the most members, then the fewest groups, then the smallest
// total extends sets, then the lowest candidate mask. m is not modified.
func foldSupertypes(g *grammar.Grammar, ext *ExtendsGraph, rule *grammar.Rule, m ContentMap) ContentMap {
	var members []Member
	var rules []*grammar.Rule
	for _, k := range m.Members() {
		if k.Kind != KindRule {
			continue
		}
		r, ok := g.Rule(k.Name)
		if !ok {
			continue
		}
		members = append(members, k)
		rules = append(rules, r)
	}
	if len(members) < 2 || len(members) > 64 {
		return m
	}

	var cands []foldCandidate
	for _, s := range ext.Supers() {
		if s == rule {
			continue
		}
		var cover uint64
		for i, r := range rules {
			if ext.Contains(s, r) {
				cover |= 1 << uint(i)
			}
		}
		if bits.OnesCount64(cover) >= 2 {
			cands = append(cands, foldCandidate{super: s, cover: cover, size: len(ext.Subtypes(s))})
		}
	}
	if len(cands) == 0 {
		return m
	}
	sort.SliceStable(cands, func(i, j int) bool {
		ci, cj := bits.OnesCount64(cands[i].cover), bits.OnesCount64(cands[j].cover)
		if ci != cj {
			return ci > cj
		}
		if cands[i].size != cands[j].size {
			return cands[i].size < cands[j].size
		}
		return cands[i].super.Name < cands[j].super.Name
	})
	if len(cands) > maxFoldCandidates {
		cands = cands[:maxFoldCandidates]
	}

	best := bestFold(cands)
	if best == 0 {
		return m
	}

	out := m.Clone()
	for i, c := range cands {
		if best&(1<<uint(i)) == 0 {
			continue
		}
		folded := None
		for j, k := range members {
			if c.cover&(1<<uint(j)) != 0 {
				folded = folded.Or(m[k])
				delete(out, k)
			}
		}
		target := RuleMember(c.super.Name)
		out[target] = out[target].Or(folded)
	}
	return out
}

// bestFold returns the mask of the chosen candidates, or zero.
func bestFold(cands []foldCandidate) uint32 {
	var (
		best                            uint32
		bestCovered, bestCount, bestSum int
	)
	for mask := uint32(1); mask < 1<<uint(len(cands)); mask++ {
		var used uint64
		covered, count, sum := 0, 0, 0
		disjoint := true
		for i, c := range cands {
			if mask&(1<<uint(i)) == 0 {
				continue
			}
			if used&c.cover != 0 {
				disjoint = false
				break
			}
			used |= c.cover
			covered += bits.OnesCount64(c.cover)
			count++
			sum += c.size
		}
		if !disjoint {
			continue
		}
		better := best == 0 ||
			covered > bestCovered ||
			(covered == bestCovered && count < bestCount) ||
			(covered == bestCovered && count == bestCount && sum < bestSum)
		if better {
			best, bestCovered, bestCount, bestSum = mask, covered, count, sum
		}
	}
	return best
}
