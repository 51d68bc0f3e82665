package grammar

import "errors"

var (
	// ErrDuplicateRule is returned when two rules share a name.
	ErrDuplicateRule = errors.New("bnfkit/grammar: duplicate rule")

	// ErrInvalidNode is returned when an expression node has the wrong shape
	// for its kind (for example an Optional with two children) or when a node
	// is shared between two places in the grammar.
	ErrInvalidNode = errors.New("bnfkit/grammar: invalid expression node")

	// ErrUnknownModifier is returned when a modifier name is not recognized.
	ErrUnknownModifier = errors.New("bnfkit/grammar: unknown modifier")

	// ErrInvalidPin is returned when a pin attribute cannot be compiled.
	ErrInvalidPin = errors.New("bnfkit/grammar: invalid pin")
)

// IsDuplicateRuleErr returns true if err is or wraps ErrDuplicateRule.
func IsDuplicateRuleErr(err error) bool {
	return errors.Is(err, ErrDuplicateRule)
}

// IsInvalidNodeErr returns true if err is or wraps ErrInvalidNode.
func IsInvalidNodeErr(err error) bool {
	return errors.Is(err, ErrInvalidNode)
}
