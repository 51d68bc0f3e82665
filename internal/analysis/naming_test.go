package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCase(t *testing.T) {
	tests := []struct {
		in   string
		c    NamingCase
		want string
	}{
		{"foo_bar", CaseUpper, "FOO_BAR"},
		{"FOO_BAR", CaseLower, "foo_bar"},
		{"FOO_BAR", CaseCamel, "fooBar"},
		{"_leading", CaseCamel, "leading"},
		{"___", CaseCamel, "___"},
		{"MixedCase", CaseAsIs, "MixedCase"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, applyCase(tt.in, tt.c), "%s as %s", tt.in, tt.c)
	}
}

func TestParseNamingCase(t *testing.T) {
	for in, want := range map[string]NamingCase{
		"":      CaseUpper,
		"upper": CaseUpper,
		"Camel": CaseCamel,
		"as-is": CaseAsIs,
		"AS_IS": CaseAsIs,
		"lower": CaseLower,
	} {
		got, err := ParseNamingCase(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseNamingCase("kebab")
	assert.Error(t, err)
}

func TestDisplayToken(t *testing.T) {
	g := statementGrammar(t)

	d, ok := displayToken(g, "IDENT", CaseLower)
	require.True(t, ok)
	assert.Equal(t, "IDENT", d.name, "declared names are used as is")
	assert.True(t, d.regexp)

	d, ok = displayToken(g, "while", CaseUpper)
	require.True(t, ok)
	assert.Equal(t, tokenDisplay{name: "WHILE", literal: "while"}, d)

	_, ok = displayToken(g, "!=", CaseUpper)
	assert.False(t, ok)
}
