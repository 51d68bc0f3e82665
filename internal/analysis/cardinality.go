package analysis

import (
	"fmt"
	"strings"

	"github.com/pthm/bnfkit/pkg/grammar"
)

// Cardinality is the multiplicity with which a member appears in a rule's
// content.
type Cardinality uint8

// Cardinalities, bottom first.
const (
	None Cardinality = iota
	Optional
	Required
	AtLeastOne
	AnyNumber
)

var cardinalityNames = [...]string{
	None:       "NONE",
	Optional:   "OPTIONAL",
	Required:   "REQUIRED",
	AtLeastOne: "AT_LEAST_ONE",
	AnyNumber:  "ANY_NUMBER",
}

func (c Cardinality) String() string {
	if int(c) < len(cardinalityNames) {
		return cardinalityNames[c]
	}
	return fmt.Sprintf("Cardinality(%d)", uint8(c))
}

// ParseCardinality is the inverse of String (case-insensitive).
func ParseCardinality(s string) (Cardinality, error) {
	for i, n := range cardinalityNames {
		if strings.EqualFold(n, s) {
			return Cardinality(i), nil
		}
	}
	return None, fmt.Errorf("unknown cardinality %q", s)
}

// IsOptional reports whether the member may be absent.
func (c Cardinality) IsOptional() bool {
	return c == None || c == Optional || c == AnyNumber
}

// IsMany reports whether the member may appear more than once.
func (c Cardinality) IsMany() bool {
	return c == AtLeastOne || c == AnyNumber
}

// And combines cardinalities conjunctively (nesting, sequence composition).
// NONE absorbs.
func (c Cardinality) And(o Cardinality) Cardinality {
	if c == None || o == None {
		return None
	}
	many := c.IsMany() || o.IsMany()
	if c.IsOptional() || o.IsOptional() {
		if many {
			return AnyNumber
		}
		return Optional
	}
	if many {
		return AtLeastOne
	}
	return Required
}

// Or combines two appearances of the same member. NONE is the identity.
// A member that appears on both sides and is required on either becomes
// AT_LEAST_ONE, never plain REQUIRED.
func (c Cardinality) Or(o Cardinality) Cardinality {
	if c == None {
		return o
	}
	if o == None {
		return c
	}
	if c.IsOptional() && o.IsOptional() {
		if c.IsMany() || o.IsMany() {
			return AnyNumber
		}
		return Optional
	}
	return AtLeastOne
}

// Single drops repetition: AT_LEAST_ONE becomes REQUIRED and ANY_NUMBER
// becomes OPTIONAL.
func (c Cardinality) Single() Cardinality {
	switch c {
	case AtLeastOne:
		return Required
	case AnyNumber:
		return Optional
	default:
		return c
	}
}

// FromNodeKind returns the cardinality a combinator imposes on its content.
// A choice is OPTIONAL: requiredness of individual members is decided when
// the branches are joined.
func FromNodeKind(k grammar.NodeKind) Cardinality {
	switch k {
	case grammar.KindOptional, grammar.KindChoice:
		return Optional
	case grammar.KindZeroOrMore:
		return AnyNumber
	case grammar.KindOneOrMore:
		return AtLeastOne
	case grammar.KindSequence, grammar.KindReference:
		return Required
	default:
		panic(fmt.Sprintf("analysis: no cardinality for node kind %s", k))
	}
}
