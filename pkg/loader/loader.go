// Package loader decodes grammar documents into a grammar.Grammar.
//
// A grammar document is YAML (or JSON) holding declared tokens and rules.
// Expressions are written as nested single-key objects, with a bare string
// as shorthand for a reference:
//
//	tokens:
//	  - {name: IDENT, value: "regexp:[a-z]+"}
//	  - {name: EQ, value: "="}
//	rules:
//	  - name: root
//	    expr: {zeroOrMore: stmt}
//	  - name: stmt
//	    expr: {seq: [IDENT, {lit: "="}, expr, {lit: ";"}]}
//	    pins: [{index: 2}]
//	  - name: expr
//	    expr: {choice: [IDENT, NUMBER]}
//
// Documents are checked against an embedded JSON schema before decoding, so
// structural mistakes are reported together and by location. Semantic
// problems the analysis tolerates (unknown extends targets) are reported as
// warnings.
//
// # Dependency Isolation
//
// The loader is the only package that imports the YAML and JSON schema
// libraries. pkg/grammar and the analysis stay free of them.
package loader

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/xeipuuv/gojsonschema"
	"sigs.k8s.io/yaml"

	"github.com/pthm/bnfkit/pkg/grammar"
)

//go:embed schema.json
var documentSchema []byte

// Schema returns the JSON schema grammar documents are validated against.
func Schema() []byte { return documentSchema }

// Warning is a non-fatal problem found in a document.
type Warning struct {
	Rule    string
	Message string
}

func (w Warning) String() string {
	if w.Rule == "" {
		return w.Message
	}
	return fmt.Sprintf("rule %q: %s", w.Rule, w.Message)
}

// Document is a loaded grammar with the warnings found while loading it.
type Document struct {
	Source   string
	Grammar  *grammar.Grammar
	Warnings []Warning
}

// Load reads and decodes the grammar document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is from trusted source
	if err != nil {
		return nil, fmt.Errorf("reading grammar file: %w", err)
	}
	doc, err := parse(data, path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Parse decodes a grammar document from YAML or JSON bytes.
func Parse(data []byte) (*Document, error) {
	return parse(data, "")
}

func parse(data []byte, source string) (*Document, error) {
	raw, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, &ValidationError{Source: source, Problems: []string{err.Error()}}
	}
	if err := Validate(raw); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ve.Source = source
		}
		return nil, err
	}

	var d document
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, &ValidationError{Source: source, Problems: []string{err.Error()}}
	}

	tokens := make([]grammar.Token, len(d.Tokens))
	for i, t := range d.Tokens {
		tokens[i] = grammar.Token{Name: t.Name, Value: t.Value}
	}
	rules := make([]*grammar.Rule, 0, len(d.Rules))
	for i := range d.Rules {
		r, err := d.Rules[i].build()
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}

	g, err := grammar.New(rules, tokens)
	if err != nil {
		return nil, fmt.Errorf("building grammar: %w", err)
	}
	return &Document{Source: source, Grammar: g, Warnings: check(g)}, nil
}

// Validate checks JSON document bytes against the document schema.
func Validate(raw []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(documentSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return &ValidationError{Problems: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	sort.Strings(problems)
	return &ValidationError{Problems: problems}
}

// check reports references the analysis will treat leniently.
func check(g *grammar.Grammar) []Warning {
	var out []Warning
	for _, r := range g.Rules() {
		if ext := r.Attrs.Extends; ext != "" {
			if _, ok := g.Rule(ext); !ok {
				out = append(out, Warning{Rule: r.Name, Message: fmt.Sprintf("extends unknown rule %q", ext)})
			}
		}
		if et := r.Attrs.ElementType; et != "" {
			if t, ok := g.Rule(et); ok && t.IsPrivateOrNoType() {
				out = append(out, Warning{Rule: r.Name,
					Message: fmt.Sprintf("elementType %q names a rule without a node type", et)})
			}
		}
		if r.Is(grammar.Inner) && !r.Is(grammar.Left) {
			out = append(out, Warning{Rule: r.Name, Message: "inner without left has no effect"})
		}
		if r.Is(grammar.Meta) && !r.IsPrivate() && len(g.MetaParams(r)) > 0 {
			out = append(out, Warning{Rule: r.Name, Message: "public meta rule is not expanded at call sites"})
		}
	}
	return out
}
