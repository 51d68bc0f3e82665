// Package grammar provides the expression-tree model consumed by the bnfkit
// analysis.
//
// A Grammar is an already-parsed set of named rules. Each rule owns a tree of
// combinators (sequence, choice, quantifiers, predicates, references and
// external calls) and a handful of declared attributes. Nothing in this
// package parses grammar text: trees are built in code with the node
// constructors or decoded from a structured document by pkg/loader.
//
// # Building a grammar
//
//	g, err := grammar.New([]*grammar.Rule{
//	    {Name: "root", Expr: grammar.ZeroOrMore(grammar.Ref("stmt"))},
//	    {Name: "stmt", Expr: grammar.Seq(grammar.Ref("IDENT"), grammar.Lit("="), grammar.Ref("expr"))},
//	    {Name: "expr", Expr: grammar.Choice(grammar.Ref("IDENT"), grammar.Ref("NUMBER"))},
//	}, []grammar.Token{{Name: "IDENT", Value: "regexp:\\w+"}})
//
// New links every node to its parent and owning rule and assigns stable path
// names. References are resolved lazily by name through Grammar.Rule; a name
// that is not a rule is a token (or an external entity) and is never an error.
//
// The package is dependency-free (stdlib only), so both the analysis and any
// generator front-end can import it.
package grammar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RegexpPrefix marks token values that are regular expressions.
const RegexpPrefix = "regexp:"

// Token is a declared terminal: a symbolic name and its literal text or
// regexp pattern.
type Token struct {
	Name  string
	Value string
}

// IsRegexp reports whether the token value is a regexp pattern.
func (t Token) IsRegexp() bool {
	return strings.HasPrefix(t.Value, RegexpPrefix)
}

// Grammar is the grammar-wide name->rule lookup plus declared tokens.
type Grammar struct {
	rules   []*Rule
	byName  map[string]*Rule
	tokens  []Token
	byToken map[string]Token
	byText  map[string]Token

	metaParams map[*Rule][]string
}

// New links the rules into a grammar.
//
// Rule names must be unique. Every node must have the shape its kind
// requires and may appear only once in the grammar. Rules with a nil
// expression get an empty sequence.
func New(rules []*Rule, tokens []Token) (*Grammar, error) {
	g := &Grammar{
		rules:      make([]*Rule, 0, len(rules)),
		byName:     make(map[string]*Rule, len(rules)),
		tokens:     tokens,
		byToken:    make(map[string]Token, len(tokens)),
		byText:     make(map[string]Token, len(tokens)),
		metaParams: make(map[*Rule][]string),
	}

	for _, t := range tokens {
		if _, dup := g.byToken[t.Name]; !dup {
			g.byToken[t.Name] = t
		}
		if t.IsRegexp() {
			continue
		}
		// First declaration wins for literal->name lookups.
		if _, dup := g.byText[t.Value]; !dup {
			g.byText[t.Value] = t
		}
	}

	seen := make(map[*Node]bool)
	for i, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("%w: rule #%d has no name", ErrInvalidNode, i)
		}
		if _, dup := g.byName[r.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRule, r.Name)
		}
		r.index = i
		if r.Expr == nil {
			r.Expr = Seq()
		}
		if err := link(r, r.Expr, nil, r.Name, 0, seen); err != nil {
			return nil, err
		}
		if err := compilePins(r); err != nil {
			return nil, err
		}
		g.byName[r.Name] = r
		g.rules = append(g.rules, r)
	}

	for _, r := range g.rules {
		if r.Is(Meta) {
			g.metaParams[r] = g.collectMetaParams(r.Expr, nil)
		}
	}
	return g, nil
}

func link(r *Rule, n, parent *Node, path string, index int, seen map[*Node]bool) error {
	if n == nil {
		return fmt.Errorf("%w: nil node in rule %q at %s", ErrInvalidNode, r.Name, path)
	}
	if seen[n] {
		return fmt.Errorf("%w: node %s shared (rule %q)", ErrInvalidNode, path, r.Name)
	}
	seen[n] = true

	switch n.Kind {
	case KindLiteral, KindReference:
		if n.Text == "" || len(n.Children) > 0 {
			return fmt.Errorf("%w: %s at %s needs text and no children", ErrInvalidNode, n.Kind, path)
		}
	case KindOptional, KindZeroOrMore, KindOneOrMore, KindPredicate:
		if len(n.Children) != 1 {
			return fmt.Errorf("%w: %s at %s needs exactly one child, has %d",
				ErrInvalidNode, n.Kind, path, len(n.Children))
		}
	case KindChoice:
		if len(n.Children) == 0 {
			return fmt.Errorf("%w: empty choice at %s", ErrInvalidNode, path)
		}
	case KindExternalCall:
		if n.Text == "" {
			return fmt.Errorf("%w: external call without callee at %s", ErrInvalidNode, path)
		}
	case KindSequence:
	default:
		return fmt.Errorf("%w: unknown kind %s at %s", ErrInvalidNode, n.Kind, path)
	}

	n.rule = r
	n.parent = parent
	n.path = path
	n.index = index
	for i, c := range n.Children {
		if err := link(r, c, n, path+"_"+strconv.Itoa(i), i, seen); err != nil {
			return err
		}
	}
	return nil
}

func compilePins(r *Rule) error {
	r.pins = r.pins[:0]
	for _, p := range r.Attrs.Pins {
		cp := compiledPin{Pin: p}
		if p.Pattern != "" {
			re, err := regexp.Compile("^(?:" + p.Pattern + ")$")
			if err != nil {
				return fmt.Errorf("%w: rule %q pattern %q: %v", ErrInvalidPin, r.Name, p.Pattern, err)
			}
			cp.re = re
		}
		if p.Index < 0 || (p.Index == 0 && p.Token == "") {
			return fmt.Errorf("%w: rule %q needs a positive index or a token", ErrInvalidPin, r.Name)
		}
		r.pins = append(r.pins, cp)
	}
	return nil
}

// collectMetaParams returns the names of argument-less external calls that
// do not resolve to rules, in first-occurrence order.
func (g *Grammar) collectMetaParams(n *Node, acc []string) []string {
	if n.Kind == KindExternalCall && len(n.Children) == 0 {
		if _, isRule := g.byName[n.Text]; !isRule {
			for _, p := range acc {
				if p == n.Text {
					return acc
				}
			}
			return append(acc, n.Text)
		}
	}
	for _, c := range n.Children {
		acc = g.collectMetaParams(c, acc)
	}
	return acc
}

// Rules returns the rules in declaration order.
func (g *Grammar) Rules() []*Rule { return g.rules }

// Rule looks up a rule by name.
func (g *Grammar) Rule(name string) (*Rule, bool) {
	r, ok := g.byName[name]
	return r, ok
}

// Tokens returns the declared tokens in declaration order.
func (g *Grammar) Tokens() []Token { return g.tokens }

// Token looks up a declared token by name.
func (g *Grammar) Token(name string) (Token, bool) {
	t, ok := g.byToken[name]
	return t, ok
}

// TokenForText returns the first declared non-regexp token whose value is text.
func (g *Grammar) TokenForText(text string) (Token, bool) {
	t, ok := g.byText[text]
	return t, ok
}

// ExtendsTarget returns the rule r declares it extends, or nil.
func (g *Grammar) ExtendsTarget(r *Rule) *Rule {
	if r.Attrs.Extends == "" {
		return nil
	}
	return g.byName[r.Attrs.Extends]
}

// SynonymTarget returns the rule whose node type r shares, or nil when r
// is not a synonym. Only non-private typed rules can host a type.
func (g *Grammar) SynonymTarget(r *Rule) *Rule {
	if r.Attrs.ElementType == "" {
		return nil
	}
	t, ok := g.byName[r.Attrs.ElementType]
	if !ok || t == r || t.IsPrivateOrNoType() {
		return nil
	}
	return t
}

// MetaParams returns the formal parameter names of a meta rule in
// first-occurrence order.
func (g *Grammar) MetaParams(r *Rule) []string { return g.metaParams[r] }

// IsMetaParam reports whether name is a formal parameter of meta rule r.
func (g *Grammar) IsMetaParam(r *Rule, name string) bool {
	for _, p := range g.metaParams[r] {
		if p == name {
			return true
		}
	}
	return false
}
