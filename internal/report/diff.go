package report

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangeKind is the kind of a diff line.
type ChangeKind int

// Change kinds.
const (
	Unchanged ChangeKind = iota
	Added
	Removed
)

// Change is one line of a report diff.
type Change struct {
	Kind ChangeKind
	Text string
}

// Lines flattens a report into one line per content member and accessor, a
// form that diffs well.
func Lines(rep *Report) []string {
	var out []string
	for _, r := range rep.Rules {
		for _, c := range r.Content {
			out = append(out, fmt.Sprintf("%s content %s %s", r.Name, c.Member, c.Cardinality))
		}
		for _, m := range r.Methods {
			name := m.Name
			if m.Suppressed {
				name = "(" + m.Path + ")"
			}
			line := fmt.Sprintf("%s method %s %s", r.Name, name, m.Kind)
			if m.Cardinality != "" {
				line += " " + m.Cardinality
			}
			out = append(out, line)
		}
	}
	return out
}

// Diff compares two reports line by line.
func Diff(before, after *Report) []Change {
	a := strings.Join(Lines(before), "\n") + "\n"
	b := strings.Join(Lines(after), "\n") + "\n"

	dmp := diffmatchpatch.New()
	ac, bc, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ac, bc, false), lines)

	var out []Change
	for _, d := range diffs {
		kind := Unchanged
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			kind = Added
		case diffmatchpatch.DiffDelete:
			kind = Removed
		}
		for _, l := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			if l == "" {
				continue
			}
			out = append(out, Change{Kind: kind, Text: l})
		}
	}
	return out
}

// HasChanges reports whether any line was added or removed.
func HasChanges(changes []Change) bool {
	for _, c := range changes {
		if c.Kind != Unchanged {
			return true
		}
	}
	return false
}
