package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/bnfkit/pkg/grammar"
)

var allCardinalities = []Cardinality{None, Optional, Required, AtLeastOne, AnyNumber}

func TestCardinality_AndLaws(t *testing.T) {
	for _, a := range allCardinalities {
		assert.Equal(t, None, a.And(None), "NONE absorbs %s", a)
		assert.Equal(t, a, a.And(Required), "REQUIRED is the identity for %s", a)
		for _, b := range allCardinalities {
			assert.Equal(t, a.And(b), b.And(a), "%s AND %s commutes", a, b)
			for _, c := range allCardinalities {
				assert.Equal(t, a.And(b).And(c), a.And(b.And(c)), "%s AND %s AND %s associates", a, b, c)
			}
		}
	}
}

func TestCardinality_OrLaws(t *testing.T) {
	for _, a := range allCardinalities {
		assert.Equal(t, a, a.Or(None), "NONE is the identity for %s", a)
		for _, b := range allCardinalities {
			assert.Equal(t, a.Or(b), b.Or(a), "%s OR %s commutes", a, b)
			for _, c := range allCardinalities {
				assert.Equal(t, a.Or(b).Or(c), a.Or(b.Or(c)), "%s OR %s OR %s associates", a, b, c)
			}
		}
	}
}

func TestCardinality_Table(t *testing.T) {
	tests := []struct {
		a, b    Cardinality
		and, or Cardinality
	}{
		{Optional, Optional, Optional, Optional},
		{Optional, Required, Optional, AtLeastOne},
		{Required, Required, Required, AtLeastOne},
		{Optional, AtLeastOne, AnyNumber, AtLeastOne},
		{Required, AnyNumber, AnyNumber, AtLeastOne},
		{AtLeastOne, AtLeastOne, AtLeastOne, AtLeastOne},
		{Optional, AnyNumber, AnyNumber, AnyNumber},
		{AnyNumber, AnyNumber, AnyNumber, AnyNumber},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.and, tt.a.And(tt.b), "%s AND %s", tt.a, tt.b)
		assert.Equal(t, tt.or, tt.a.Or(tt.b), "%s OR %s", tt.a, tt.b)
	}
}

func TestCardinality_Predicates(t *testing.T) {
	assert.True(t, None.IsOptional())
	assert.True(t, Optional.IsOptional())
	assert.False(t, Required.IsOptional())
	assert.False(t, AtLeastOne.IsOptional())
	assert.True(t, AnyNumber.IsOptional())

	assert.True(t, AtLeastOne.IsMany())
	assert.True(t, AnyNumber.IsMany())
	assert.False(t, Required.IsMany())

	assert.Equal(t, Required, AtLeastOne.Single())
	assert.Equal(t, Optional, AnyNumber.Single())
	assert.Equal(t, Optional, Optional.Single())
}

func TestCardinality_FromNodeKind(t *testing.T) {
	assert.Equal(t, Optional, FromNodeKind(grammar.KindOptional))
	assert.Equal(t, Optional, FromNodeKind(grammar.KindChoice))
	assert.Equal(t, AnyNumber, FromNodeKind(grammar.KindZeroOrMore))
	assert.Equal(t, AtLeastOne, FromNodeKind(grammar.KindOneOrMore))
	assert.Equal(t, Required, FromNodeKind(grammar.KindSequence))
	assert.Equal(t, Required, FromNodeKind(grammar.KindReference))
	assert.Panics(t, func() { FromNodeKind(grammar.KindLiteral) })
}

func TestParseCardinality(t *testing.T) {
	for _, c := range allCardinalities {
		got, err := ParseCardinality(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	got, err := ParseCardinality("at_least_one")
	require.NoError(t, err)
	assert.Equal(t, AtLeastOne, got)

	_, err = ParseCardinality("MANY")
	assert.Error(t, err)
}
