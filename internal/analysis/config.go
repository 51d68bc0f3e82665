package analysis

import (
	"fmt"
	"strings"
)

// DefaultMaxFirstDepth caps how many private rule references a FIRST or NEXT
// query expands through.
const DefaultMaxFirstDepth = 64

// NamingCase is the case policy for accessor names derived from literals.
type NamingCase string

// Naming cases.
const (
	CaseUpper NamingCase = "UPPER"
	CaseCamel NamingCase = "CAMEL"
	CaseAsIs  NamingCase = "AS_IS"
	CaseLower NamingCase = "LOWER"
)

// ParseNamingCase accepts the case names in any letter case, with "-" or
// "_" separators (as-is, AS_IS).
func ParseNamingCase(s string) (NamingCase, error) {
	switch c := NamingCase(strings.ToUpper(strings.ReplaceAll(s, "-", "_"))); c {
	case CaseUpper, CaseCamel, CaseAsIs, CaseLower:
		return c, nil
	case "":
		return CaseUpper, nil
	default:
		return "", fmt.Errorf("unknown naming case %q (want UPPER, CAMEL, AS_IS or LOWER)", s)
	}
}

// Config holds the analysis options. It is passed by value and never
// modified by the analysis.
type Config struct {
	// GenerateTokenAccessors enables accessors for every named token.
	GenerateTokenAccessors bool
	// GenerateTokenAccessorsSet records that GenerateTokenAccessors was set
	// explicitly rather than left at its default.
	GenerateTokenAccessorsSet bool
	// NamingCase transforms accessor names derived from literal text.
	NamingCase NamingCase
	// FoldSupertypes replaces groups of rule members by a common supertype.
	FoldSupertypes bool
	// MaxFirstDepth caps private rule expansion in FIRST/NEXT queries.
	MaxFirstDepth int
}

// DefaultConfig returns the default analysis options.
func DefaultConfig() Config {
	return Config{
		NamingCase:     CaseUpper,
		FoldSupertypes: true,
		MaxFirstDepth:  DefaultMaxFirstDepth,
	}
}

func (c Config) withDefaults() Config {
	if c.NamingCase == "" {
		c.NamingCase = CaseUpper
	}
	if c.MaxFirstDepth <= 0 {
		c.MaxFirstDepth = DefaultMaxFirstDepth
	}
	return c
}
