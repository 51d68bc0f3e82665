package loader

import (
	"errors"
	"strings"
)

// ErrInvalidDocument is returned when a grammar document does not match the
// document schema or cannot be decoded.
var ErrInvalidDocument = errors.New("bnfkit/loader: invalid grammar document")

// IsInvalidDocumentErr returns true if err is or wraps ErrInvalidDocument.
func IsInvalidDocumentErr(err error) bool {
	return errors.Is(err, ErrInvalidDocument)
}

// ValidationError lists the schema violations of a document.
type ValidationError struct {
	Source   string
	Problems []string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrInvalidDocument.Error())
	if e.Source != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Source)
	}
	sb.WriteString(": ")
	sb.WriteString(strings.Join(e.Problems, "; "))
	return sb.String()
}

// Unwrap makes errors.Is(err, ErrInvalidDocument) hold.
func (e *ValidationError) Unwrap() error { return ErrInvalidDocument }
