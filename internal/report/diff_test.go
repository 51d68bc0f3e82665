package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm/bnfkit/internal/report"
)

func TestLines(t *testing.T) {
	rep := &report.Report{Rules: []report.RuleReport{{
		Name:    "stmt",
		Content: []report.ContentEntry{{Member: "expr", Kind: "rule", Cardinality: "REQUIRED"}},
		Methods: []report.MethodEntry{
			{Name: "expr", Kind: "rule", Path: "expr", Cardinality: "REQUIRED"},
			{Kind: "token", Path: "SEMI", Suppressed: true},
			{Name: "resolve", Kind: "user", Path: "resolve"},
		},
	}}}

	assert.Equal(t, []string{
		"stmt content expr REQUIRED",
		"stmt method expr rule REQUIRED",
		"stmt method (SEMI) token",
		"stmt method resolve user",
	}, report.Lines(rep))
}

func TestDiff(t *testing.T) {
	before := &report.Report{Rules: []report.RuleReport{
		{Name: "a", Content: []report.ContentEntry{{Member: "b", Cardinality: "REQUIRED"}}},
		{Name: "c", Content: []report.ContentEntry{{Member: "'x'", Cardinality: "OPTIONAL"}}},
	}}
	after := &report.Report{Rules: []report.RuleReport{
		{Name: "a", Content: []report.ContentEntry{{Member: "b", Cardinality: "REQUIRED"}}},
		{Name: "c", Content: []report.ContentEntry{{Member: "'x'", Cardinality: "AT_LEAST_ONE"}}},
	}}

	changes := report.Diff(before, after)
	assert.True(t, report.HasChanges(changes))
	assert.Equal(t, []report.Change{
		{Kind: report.Unchanged, Text: "a content b REQUIRED"},
		{Kind: report.Removed, Text: "c content 'x' OPTIONAL"},
		{Kind: report.Added, Text: "c content 'x' AT_LEAST_ONE"},
	}, changes)
}

func TestDiff_Identical(t *testing.T) {
	rep := statementReport(t)
	changes := report.Diff(rep, statementReport(t))

	assert.False(t, report.HasChanges(changes))
	assert.Len(t, changes, len(report.Lines(rep)))
}
