package analysis

import (
	"sort"
	"strings"
)

// MemberKind distinguishes the variants of Member.
type MemberKind uint8

// Member kinds. The marker kinds never reach accessor resolution.
const (
	KindRule MemberKind = iota + 1
	KindToken
	KindExternal
	KindNotEmpty
	KindLeft
	KindRecursion
)

func (k MemberKind) String() string {
	switch k {
	case KindRule:
		return "rule"
	case KindToken:
		return "token"
	case KindExternal:
		return "external"
	case KindNotEmpty:
		return "not_empty"
	case KindLeft:
		return "left"
	case KindRecursion:
		return "recursion"
	default:
		return "unknown"
	}
}

// Member is a grammar-visible contributor to a rule's content. Members are
// compared by value: rules and placeholders by name, tokens by text.
type Member struct {
	Kind MemberKind
	Name string
}

var (
	// NotEmptyMarker records that a choice cannot match nothing.
	NotEmptyMarker = Member{Kind: KindNotEmpty}
	// LeftMarker records that the content starts with a left rule, which takes
	// over everything parsed before it.
	LeftMarker = Member{Kind: KindLeft}
)

// RuleMember is a child node produced by another rule.
func RuleMember(name string) Member { return Member{Kind: KindRule, Name: name} }

// TokenMember is a terminal identified by its literal text or token name.
func TokenMember(text string) Member { return Member{Kind: KindToken, Name: text} }

// ExternalMember is an unresolved external or meta entity.
func ExternalMember(name string) Member { return Member{Kind: KindExternal, Name: name} }

func recursionMarker(rule string) Member { return Member{Kind: KindRecursion, Name: rule} }

// IsMarker reports whether m is a synthetic marker rather than real content.
func (m Member) IsMarker() bool {
	return m.Kind == KindNotEmpty || m.Kind == KindLeft || m.Kind == KindRecursion
}

func (m Member) String() string {
	switch m.Kind {
	case KindRule:
		return m.Name
	case KindToken:
		return "'" + m.Name + "'"
	case KindExternal:
		return "<<" + m.Name + ">>"
	case KindRecursion:
		return "#recursion(" + m.Name + ")"
	default:
		return "#" + m.Kind.String()
	}
}

// ContentMap maps members to cardinalities. Published maps are never
// modified; every join builds a new map.
type ContentMap map[Member]Cardinality

// Members returns the keys ordered by kind, then name.
func (m ContentMap) Members() []Member {
	keys := make([]Member, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}
		return keys[i].Name < keys[j].Name
	})
	return keys
}

// Has reports whether member is present.
func (m ContentMap) Has(member Member) bool {
	_, ok := m[member]
	return ok
}

// Clone returns an independent copy.
func (m ContentMap) Clone() ContentMap {
	out := make(ContentMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Equal reports whether both maps have the same entries.
func (m ContentMap) Equal(o ContentMap) bool {
	if len(m) != len(o) {
		return false
	}
	for k, v := range m {
		if ov, ok := o[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// foreignRecursion reports whether m still carries the recursion marker of a
// rule other than owner.
func (m ContentMap) foreignRecursion(owner string) bool {
	for k := range m {
		if k.Kind == KindRecursion && k.Name != owner {
			return true
		}
	}
	return false
}

// String renders the map as {a: REQUIRED, 'b': OPTIONAL} in Members order.
func (m ContentMap) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range m.Members() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k.String())
		sb.WriteString(": ")
		sb.WriteString(m[k].String())
	}
	sb.WriteByte('}')
	return sb.String()
}
