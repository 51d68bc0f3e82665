package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", cause, ExitGeneral},
		{"config", ConfigError("loading", cause), ExitConfig},
		{"grammar load", GrammarLoadError("loading", cause), ExitGrammarLoad},
		{"diff", DiffError("differs"), ExitDiff},
		{"general", GeneralError("failed", cause), ExitGeneral},
		{"wrapped", fmt.Errorf("outer: %w", GrammarLoadError("loading", cause)), ExitGrammarLoad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitError_Message(t *testing.T) {
	cause := errors.New("no such file")

	err := GrammarLoadError("loading grammar", cause)
	assert.Equal(t, "loading grammar: no such file", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "analysis differs", DiffError("analysis differs").Error())
}
