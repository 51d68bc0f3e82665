package analysis

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pthm/bnfkit/pkg/grammar"
)

var (
	identifierRe      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	lowerIdentifierRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// tokenDisplay is what the accessor resolver knows about a token member.
type tokenDisplay struct {
	name    string
	regexp  bool
	literal string
}

// displayToken derives the accessor name of a token member. A declared token
// name is used as is; literal text that is an identifier is transformed by
// the naming case. ok is false when no name can be derived.
func displayToken(g *grammar.Grammar, text string, c NamingCase) (tokenDisplay, bool) {
	if t, ok := g.Token(text); ok {
		d := tokenDisplay{name: t.Name, regexp: t.IsRegexp()}
		if !d.regexp {
			d.literal = t.Value
		}
		return d, true
	}
	if t, ok := g.TokenForText(text); ok {
		return tokenDisplay{name: t.Name, literal: text}, true
	}
	if identifierRe.MatchString(text) {
		return tokenDisplay{name: applyCase(text, c), literal: text}, true
	}
	return tokenDisplay{}, false
}

// applyCase transforms an identifier according to the naming case.
func applyCase(s string, c NamingCase) string {
	switch c {
	case CaseLower:
		return strings.ToLower(s)
	case CaseAsIs:
		return s
	case CaseCamel:
		return camelCase(s)
	default:
		return strings.ToUpper(s)
	}
}

// camelCase turns foo_bar and FOO_BAR into fooBar.
func camelCase(s string) string {
	var sb strings.Builder
	first := true
	for _, part := range strings.Split(s, "_") {
		if part == "" {
			continue
		}
		part = strings.ToLower(part)
		if first {
			sb.WriteString(part)
			first = false
			continue
		}
		rs := []rune(part)
		rs[0] = unicode.ToUpper(rs[0])
		sb.WriteString(string(rs))
	}
	if sb.Len() == 0 {
		return s
	}
	return sb.String()
}

// tokenAccessorsEnabled returns the token accessor switch in effect for
// rule: its own setting when declared, otherwise the global one.
func tokenAccessorsEnabled(rule *grammar.Rule, cfg Config) bool {
	if v := rule.Attrs.GenerateTokenAccessors; v != nil {
		return *v
	}
	return cfg.GenerateTokenAccessors
}

// tokenVisible reports whether a token accessor keeps its name.
func tokenVisible(rule *grammar.Rule, cfg Config, d tokenDisplay) bool {
	return tokenAccessorsEnabled(rule, cfg) || d.regexp || lowerIdentifierRe.MatchString(d.literal)
}
