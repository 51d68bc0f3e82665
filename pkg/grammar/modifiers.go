package grammar

import (
	"fmt"
	"strings"
)

// Modifiers is the set of rule modifiers, decided once when a rule is built.
type Modifiers uint8

// Rule modifiers.
const (
	// Private rules produce no node of their own; their content is inlined
	// into every rule that references them.
	Private Modifiers = 1 << iota
	// External rules are implemented by hand-written parser code.
	External
	// Meta rules take parameters (<<param>>) and are invoked through
	// external calls.
	Meta
	// Left rules wrap the node parsed immediately before them.
	Left
	// Inner marks a left rule that nests inside the previous node instead
	// of wrapping it.
	Inner
	// Fake rules describe node structure only and are never parsed.
	Fake
	// Upper rules replace their parent node and never add structure.
	Upper
)

var modifierNames = []struct {
	m    Modifiers
	name string
}{
	{Private, "private"},
	{External, "external"},
	{Meta, "meta"},
	{Left, "left"},
	{Inner, "inner"},
	{Fake, "fake"},
	{Upper, "upper"},
}

// Has reports whether every modifier in m is set.
func (mods Modifiers) Has(m Modifiers) bool {
	return mods&m == m
}

// String returns the modifiers in declaration order separated by spaces.
func (mods Modifiers) String() string {
	var parts []string
	for _, mn := range modifierNames {
		if mods.Has(mn.m) {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, " ")
}

// ParseModifier returns the modifier with the given name.
func ParseModifier(name string) (Modifiers, error) {
	for _, mn := range modifierNames {
		if mn.name == name {
			return mn.m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownModifier, name)
}

// ParseModifiers combines a list of modifier names into one set.
func ParseModifiers(names []string) (Modifiers, error) {
	var mods Modifiers
	for _, n := range names {
		m, err := ParseModifier(n)
		if err != nil {
			return 0, err
		}
		mods |= m
	}
	return mods, nil
}
