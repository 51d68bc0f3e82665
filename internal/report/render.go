package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"sigs.k8s.io/yaml"
)

// Output formats.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
)

// View selects which tables a table rendering shows.
type View int

// Views.
const (
	ViewContent View = iota
	ViewMethods
	ViewGraph
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(s); f {
	case FormatTable, FormatYAML, FormatJSON:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, yaml or json)", s)
	}
}

// Render writes the report to w. Structured formats always contain the
// whole report; view only selects the table.
func Render(w io.Writer, rep *Report, format string, view View) error {
	switch format {
	case FormatYAML:
		out, err := yaml.Marshal(rep)
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		_, err = w.Write(out)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case FormatTable, "":
		var s string
		switch view {
		case ViewMethods:
			s = MethodsTable(rep)
		case ViewGraph:
			s = GraphTable(rep)
		default:
			s = ContentTable(rep)
		}
		_, err := fmt.Fprintln(w, s)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	return tbl
}

// ContentTable renders every rule's content map.
func ContentTable(rep *Report) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Rule", "Member", "Kind", "Cardinality"})
	for _, r := range rep.Rules {
		if len(r.Content) == 0 {
			tbl.AppendRow(table.Row{r.Name, "-", "", ""})
			continue
		}
		for i, c := range r.Content {
			name := ""
			if i == 0 {
				name = r.Name
			}
			tbl.AppendRow(table.Row{name, c.Member, c.Kind, c.Cardinality})
		}
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d rules", len(rep.Rules))})
	return tbl.Render()
}

// MethodsTable renders every rule's accessors. Suppressed accessors show
// their path in parentheses.
func MethodsTable(rep *Report) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Rule", "Method", "Kind", "Cardinality", "Target"})
	generated := 0
	for _, r := range rep.Rules {
		for i, m := range r.Methods {
			name := ""
			if i == 0 {
				name = r.Name
			}
			method := m.Name
			if m.Suppressed {
				method = "(" + m.Path + ")"
			} else {
				generated++
			}
			target := m.Rule
			if m.Path != m.Name && !m.Suppressed {
				target = m.Path
			}
			tbl.AppendRow(table.Row{name, method, m.Kind, m.Cardinality, target})
		}
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d accessors", generated)})
	return tbl.Render()
}

// GraphTable renders references, supertypes and collapse sets in dependency
// order, followed by the cycles found.
func GraphTable(rep *Report) string {
	byName := make(map[string]RuleReport, len(rep.Rules))
	for _, r := range rep.Rules {
		byName[r.Name] = r
	}

	tbl := newTable()
	tbl.AppendHeader(table.Row{"#", "Rule", "References", "Supertypes", "Collapses To"})
	for i, name := range rep.Order {
		r := byName[name]
		tbl.AppendRow(table.Row{
			i + 1,
			name,
			strings.Join(r.References, ", "),
			strings.Join(r.Supertypes, ", "),
			strings.Join(r.Collapse, ", "),
		})
	}
	tbl.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d rules", len(rep.Order))})

	var sb strings.Builder
	sb.WriteString(tbl.Render())
	if len(rep.Cycles) > 0 {
		sb.WriteString("\n\nCycles:\n")
		for _, c := range rep.Cycles {
			sb.WriteString("  ")
			sb.WriteString(c)
			sb.WriteByte('\n')
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
