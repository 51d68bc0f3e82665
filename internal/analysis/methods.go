package analysis

import (
	"sort"
	"strings"

	"github.com/pthm/bnfkit/pkg/grammar"
)

// MethodKind classifies a derived accessor.
type MethodKind uint8

// Method kinds, in accessor order.
const (
	MethodRule MethodKind = iota + 1
	MethodToken
	MethodUser
	MethodMixin
)

func (k MethodKind) String() string {
	switch k {
	case MethodRule:
		return "rule"
	case MethodToken:
		return "token"
	case MethodUser:
		return "user"
	case MethodMixin:
		return "mixin"
	default:
		return "unknown"
	}
}

// MethodInfo describes one accessor to generate for a rule's node.
type MethodInfo struct {
	Kind MethodKind
	// Name is the accessor name. Empty means the accessor is suppressed.
	Name string
	// Path is the member name the accessor reads, or the user path it was
	// declared with (expr[1], body/stmt).
	Path string
	// Rule names the rule producing the accessor's node, if any.
	Rule string
	// Cardinality is None for user and mixin methods.
	Cardinality Cardinality
}

// Suppressed reports whether the accessor will not be generated.
func (m MethodInfo) Suppressed() bool { return m.Name == "" }

// resolveMethods derives the accessors of every rule that produces a node.
// Private and untyped rules get none.
func (r *Run) resolveMethods() map[*grammar.Rule][]MethodInfo {
	out := make(map[*grammar.Rule][]MethodInfo, len(r.g.Rules()))
	order := r.ext.Order()
	for _, rule := range order {
		if rule.IsPrivateOrNoType() {
			continue
		}
		out[rule] = r.ruleMethods(rule)
	}

	// A subtype does not repeat an accessor it inherits.
	for _, super := range order {
		if !r.ext.HasSubtypes(super) {
			continue
		}
		for _, sub := range r.ext.Subtypes(super) {
			if sub == super {
				continue
			}
			suppressInherited(out[super], out[sub])
		}
	}
	return out
}

func suppressInherited(super, sub []MethodInfo) {
	for i := range sub {
		if sub[i].Suppressed() {
			continue
		}
		for _, s := range super {
			if !s.Suppressed() && s.Name == sub[i].Name && s.Cardinality == sub[i].Cardinality {
				sub[i].Name = ""
				break
			}
		}
	}
}

// ruleMethods derives the accessors of one rule from its published content
// and its method overrides.
func (r *Run) ruleMethods(rule *grammar.Rule) []MethodInfo {
	content := r.Content(rule)
	var methods []MethodInfo
	for _, k := range content.Members() {
		card := content[k]
		switch k.Kind {
		case KindRule:
			methods = append(methods, MethodInfo{
				Kind:        MethodRule,
				Name:        k.Name,
				Path:        k.Name,
				Rule:        k.Name,
				Cardinality: card,
			})
		case KindToken:
			if card.IsMany() {
				continue
			}
			d, ok := displayToken(r.g, k.Name, r.cfg.NamingCase)
			if !ok {
				continue
			}
			m := MethodInfo{Kind: MethodToken, Name: d.name, Path: d.name, Cardinality: card}
			if !tokenVisible(rule, r.cfg, d) {
				m.Name = ""
			}
			methods = append(methods, m)
		}
	}
	sort.SliceStable(methods, func(i, j int) bool {
		if methods[i].Kind != methods[j].Kind {
			return methods[i].Kind < methods[j].Kind
		}
		return methods[i].Path < methods[j].Path
	})

	for _, o := range rule.MethodOverrides() {
		methods = applyOverride(rule, methods, o)
	}
	return methods
}

// applyOverride applies one methods entry of rule.
func applyOverride(rule *grammar.Rule, methods []MethodInfo, o grammar.MethodOverride) []MethodInfo {
	userKind := MethodUser
	if rule.Attrs.Mixin != "" {
		userKind = MethodMixin
	}

	if o.Target == nil {
		if findMethod(methods, o.Name) >= 0 {
			return methods
		}
		return append(methods, MethodInfo{Kind: userKind, Name: o.Name, Path: o.Name})
	}

	target := *o.Target
	if target == "" {
		if i := findMethod(methods, o.Name); i >= 0 {
			methods[i].Name = ""
		}
		return methods
	}
	if i := findMethod(methods, target); i >= 0 {
		methods[i].Name = o.Name
		return methods
	}
	if head := pathHead(target); head != target {
		if i := findMethod(methods, head); i >= 0 {
			base := methods[i]
			return append(methods, MethodInfo{
				Kind:        base.Kind,
				Name:        o.Name,
				Path:        target,
				Rule:        base.Rule,
				Cardinality: base.Cardinality.Single(),
			})
		}
	}
	return append(methods, MethodInfo{Kind: userKind, Name: o.Name, Path: target})
}

// findMethod returns the index of the accessor named name, falling back to
// the member it reads, or -1.
func findMethod(methods []MethodInfo, name string) int {
	for i, m := range methods {
		if m.Name == name {
			return i
		}
	}
	for i, m := range methods {
		if m.Path == name {
			return i
		}
	}
	return -1
}

// pathHead returns the member an accessor path starts from: expr for
// expr[1] and body for body/stmt.
func pathHead(path string) string {
	if i := strings.IndexAny(path, "[/"); i > 0 {
		return path[:i]
	}
	return path
}
