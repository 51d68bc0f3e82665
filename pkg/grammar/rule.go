package grammar

import "regexp"

// Rule is a named grammar production.
//
// A rule is immutable once its grammar has been built: New links the
// expression tree, compiles pin patterns and records the declaration order.
type Rule struct {
	Name      string
	Modifiers Modifiers
	Expr      *Node
	Attrs     Attributes

	index int
	pins  []compiledPin
}

// Attributes are the declared rule attributes the analysis consults.
type Attributes struct {
	// Extends names the rule this rule's node type extends.
	Extends string
	// ElementType names another rule whose node type this rule shares
	// (a synonym), or a custom element type name that is not a rule.
	ElementType string
	// NoType marks rules that produce no node of their own.
	NoType bool
	// Implements lists interfaces the generated node type implements.
	Implements []string
	// Mixin names the implementation class user methods are mixed in from.
	Mixin string
	// Methods are user method overrides in declaration order.
	Methods []MethodOverride
	// Pins declare commit points inside the rule's sequences.
	Pins []Pin
	// GenerateTokenAccessors overrides the global token accessor switch for
	// this rule when non-nil.
	GenerateTokenAccessors *bool
}

// MethodOverride is one entry of a rule's methods attribute.
//
//	name=""        suppress the derived accessor called name
//	name="target"  rename accessor target, or add a path accessor (expr[1])
//	name           declare a user (or mixin) method with no backing member
type MethodOverride struct {
	Name   string
	Target *string
}

// Pin marks a commit point in a sequence.
//
// Pattern is matched (anchored) against sequence paths; an empty pattern
// selects the rule's top-level expression only. Index is the 1-based position
// of the pinned child. When Index is zero, Token pins the first child whose
// text equals Token.
type Pin struct {
	Pattern string
	Index   int
	Token   string
}

type compiledPin struct {
	re *regexp.Regexp
	Pin
}

// Is reports whether the rule carries all of the given modifiers.
func (r *Rule) Is(m Modifiers) bool { return r.Modifiers.Has(m) }

// IsPrivate reports whether the rule is private.
func (r *Rule) IsPrivate() bool { return r.Modifiers.Has(Private) }

// IsPrivateOrNoType reports whether the rule contributes no node of its own,
// either because it is private or because it declares no element type.
func (r *Rule) IsPrivateOrNoType() bool {
	return r.Modifiers.Has(Private) || r.Attrs.NoType
}

// Index returns the declaration position of the rule in its grammar.
func (r *Rule) Index() int { return r.index }

// MethodOverrides returns the user method overrides in declaration order.
func (r *Rule) MethodOverrides() []MethodOverride { return r.Attrs.Methods }

// IsPinned reports whether the child at index of the sequence seq is a
// declared commit point.
func (r *Rule) IsPinned(seq *Node, index int) bool {
	if seq == nil || seq.Kind != KindSequence || index < 0 || index >= len(seq.Children) {
		return false
	}
	for _, p := range r.pins {
		if p.re == nil {
			if seq.path != r.Name {
				continue
			}
		} else if !p.re.MatchString(seq.path) {
			continue
		}
		if p.Index > 0 {
			if p.Index == index+1 {
				return true
			}
			continue
		}
		if p.Token != "" && firstChildWithText(seq, p.Token) == index {
			return true
		}
	}
	return false
}

func firstChildWithText(seq *Node, text string) int {
	for i, c := range seq.Children {
		if (c.Kind == KindLiteral || c.Kind == KindReference) && c.Text == text {
			return i
		}
	}
	return -1
}
