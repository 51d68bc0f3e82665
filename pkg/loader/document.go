package loader

import (
	"encoding/json"
	"fmt"

	"github.com/pthm/bnfkit/pkg/grammar"
)

// document is the decoded form of a grammar file.
type document struct {
	Tokens []tokenDoc `json:"tokens,omitempty"`
	Rules  []ruleDoc  `json:"rules"`
}

type tokenDoc struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ruleDoc struct {
	Name                   string      `json:"name"`
	Modifiers              []string    `json:"modifiers,omitempty"`
	Expr                   *nodeDoc    `json:"expr,omitempty"`
	Extends                string      `json:"extends,omitempty"`
	ElementType            string      `json:"elementType,omitempty"`
	NoType                 bool        `json:"noType,omitempty"`
	Implements             []string    `json:"implements,omitempty"`
	Mixin                  string      `json:"mixin,omitempty"`
	GenerateTokenAccessors *bool       `json:"generateTokenAccessors,omitempty"`
	Methods                []methodDoc `json:"methods,omitempty"`
	Pins                   []pinDoc    `json:"pins,omitempty"`
}

type methodDoc struct {
	Name   string  `json:"name"`
	Target *string `json:"target,omitempty"`
}

type pinDoc struct {
	Pattern string `json:"pattern,omitempty"`
	Index   int    `json:"index,omitempty"`
	Token   string `json:"token,omitempty"`
}

type callDoc struct {
	Name string    `json:"name"`
	Args []nodeDoc `json:"args,omitempty"`
}

// nodeDoc is one expression: either a bare string (a reference) or an
// object with exactly one combinator key.
type nodeDoc struct {
	Lit        *string   `json:"lit,omitempty"`
	Ref        *string   `json:"ref,omitempty"`
	Seq        []nodeDoc `json:"seq,omitempty"`
	Choice     []nodeDoc `json:"choice,omitempty"`
	Opt        *nodeDoc  `json:"opt,omitempty"`
	ZeroOrMore *nodeDoc  `json:"zeroOrMore,omitempty"`
	OneOrMore  *nodeDoc  `json:"oneOrMore,omitempty"`
	And        *nodeDoc  `json:"and,omitempty"`
	Not        *nodeDoc  `json:"not,omitempty"`
	Call       *callDoc  `json:"call,omitempty"`

	// seqSet distinguishes "seq: []" from an absent key.
	seqSet bool
}

// UnmarshalJSON accepts the string shorthand for references.
func (n *nodeDoc) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		n.Ref = &name
		return nil
	}
	type plain nodeDoc
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*n = nodeDoc(p)

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, n.seqSet = keys["seq"]
	return nil
}

// build converts the decoded node into a grammar node.
func (n *nodeDoc) build() (*grammar.Node, error) {
	one := func(c *nodeDoc, wrap func(*grammar.Node) *grammar.Node) (*grammar.Node, error) {
		child, err := c.build()
		if err != nil {
			return nil, err
		}
		return wrap(child), nil
	}
	many := func(cs []nodeDoc) ([]*grammar.Node, error) {
		out := make([]*grammar.Node, len(cs))
		for i := range cs {
			c, err := cs[i].build()
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	}

	switch {
	case n.Lit != nil:
		return grammar.Lit(*n.Lit), nil
	case n.Ref != nil:
		return grammar.Ref(*n.Ref), nil
	case n.seqSet || n.Seq != nil:
		cs, err := many(n.Seq)
		if err != nil {
			return nil, err
		}
		return grammar.Seq(cs...), nil
	case n.Choice != nil:
		cs, err := many(n.Choice)
		if err != nil {
			return nil, err
		}
		return grammar.Choice(cs...), nil
	case n.Opt != nil:
		return one(n.Opt, grammar.Opt)
	case n.ZeroOrMore != nil:
		return one(n.ZeroOrMore, grammar.ZeroOrMore)
	case n.OneOrMore != nil:
		return one(n.OneOrMore, grammar.OneOrMore)
	case n.And != nil:
		return one(n.And, grammar.And)
	case n.Not != nil:
		return one(n.Not, grammar.Not)
	case n.Call != nil:
		args, err := many(n.Call.Args)
		if err != nil {
			return nil, err
		}
		return grammar.Call(n.Call.Name, args...), nil
	default:
		return nil, fmt.Errorf("%w: empty expression", grammar.ErrInvalidNode)
	}
}

// build converts the decoded rule into a grammar rule.
func (r *ruleDoc) build() (*grammar.Rule, error) {
	mods, err := grammar.ParseModifiers(r.Modifiers)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", r.Name, err)
	}
	rule := &grammar.Rule{
		Name:      r.Name,
		Modifiers: mods,
		Attrs: grammar.Attributes{
			Extends:                r.Extends,
			ElementType:            r.ElementType,
			NoType:                 r.NoType,
			Implements:             r.Implements,
			Mixin:                  r.Mixin,
			GenerateTokenAccessors: r.GenerateTokenAccessors,
		},
	}
	if r.Expr != nil {
		if rule.Expr, err = r.Expr.build(); err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
	}
	for _, m := range r.Methods {
		rule.Attrs.Methods = append(rule.Attrs.Methods, grammar.MethodOverride{Name: m.Name, Target: m.Target})
	}
	for _, p := range r.Pins {
		rule.Attrs.Pins = append(rule.Attrs.Pins, grammar.Pin{Pattern: p.Pattern, Index: p.Index, Token: p.Token})
	}
	return rule, nil
}
