package grammar

import (
	"strconv"
	"strings"
)

// NodeKind identifies the combinator an expression node represents.
type NodeKind uint8

// Expression node kinds.
const (
	KindLiteral NodeKind = iota + 1
	KindReference
	KindSequence
	KindChoice
	KindOptional
	KindZeroOrMore
	KindOneOrMore
	KindPredicate
	KindExternalCall
)

var kindNames = map[NodeKind]string{
	KindLiteral:      "literal",
	KindReference:    "reference",
	KindSequence:     "sequence",
	KindChoice:       "choice",
	KindOptional:     "optional",
	KindZeroOrMore:   "zero_or_more",
	KindOneOrMore:    "one_or_more",
	KindPredicate:    "predicate",
	KindExternalCall: "external_call",
}

func (k NodeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// IsQuantifier reports whether k is Optional, ZeroOrMore or OneOrMore.
func (k NodeKind) IsQuantifier() bool {
	return k == KindOptional || k == KindZeroOrMore || k == KindOneOrMore
}

// Node is one expression in a rule body.
//
// Text holds the literal text (without quotes) for literals, the referenced
// name for references and the callee name for external calls. Children holds
// the operands of compound nodes and the arguments of external calls.
//
// Nodes are linked into their grammar by New: after that Parent, Rule and
// Path are available and the tree must not be modified.
type Node struct {
	Kind     NodeKind
	Text     string
	Children []*Node
	// Negated is set on not-predicates (!expr); and-predicates leave it false.
	Negated bool

	parent *Node
	rule   *Rule
	path   string
	index  int
}

// Parent returns the enclosing node, or nil for a rule's top-level expression.
func (n *Node) Parent() *Node { return n.parent }

// Rule returns the rule that owns the node.
func (n *Node) Rule() *Rule { return n.rule }

// Path returns the stable generated name of the node: the rule name for the
// top-level expression, then "_<index>" per nesting level (expr_1_0).
func (n *Node) Path() string { return n.path }

// Index returns the position of the node among its parent's children.
func (n *Node) Index() int { return n.index }

// IsAncestorOf reports whether n strictly encloses other.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// String renders the node in BNF-like notation, mainly for reports and
// test failure messages.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb, false)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder, nested bool) {
	switch n.Kind {
	case KindLiteral:
		sb.WriteString(strconv.Quote(n.Text))
	case KindReference:
		sb.WriteString(n.Text)
	case KindSequence, KindChoice:
		sep := " "
		if n.Kind == KindChoice {
			sep = " | "
		}
		if nested && len(n.Children) != 1 {
			sb.WriteByte('(')
		}
		for i, c := range n.Children {
			if i > 0 {
				sb.WriteString(sep)
			}
			c.write(sb, true)
		}
		if nested && len(n.Children) != 1 {
			sb.WriteByte(')')
		}
	case KindOptional, KindZeroOrMore, KindOneOrMore:
		n.Children[0].write(sb, true)
		switch n.Kind {
		case KindOptional:
			sb.WriteByte('?')
		case KindZeroOrMore:
			sb.WriteByte('*')
		default:
			sb.WriteByte('+')
		}
	case KindPredicate:
		if n.Negated {
			sb.WriteByte('!')
		} else {
			sb.WriteByte('&')
		}
		n.Children[0].write(sb, true)
	case KindExternalCall:
		sb.WriteString("<<")
		sb.WriteString(n.Text)
		for _, c := range n.Children {
			sb.WriteByte(' ')
			c.write(sb, true)
		}
		sb.WriteString(">>")
	}
}

// Lit returns a literal node.
func Lit(text string) *Node { return &Node{Kind: KindLiteral, Text: text} }

// Ref returns a reference to a rule or token by name.
func Ref(name string) *Node { return &Node{Kind: KindReference, Text: name} }

// Seq returns a sequence of children.
func Seq(children ...*Node) *Node { return &Node{Kind: KindSequence, Children: children} }

// Choice returns an ordered choice between children.
func Choice(children ...*Node) *Node { return &Node{Kind: KindChoice, Children: children} }

// Opt returns child?.
func Opt(child *Node) *Node { return &Node{Kind: KindOptional, Children: []*Node{child}} }

// ZeroOrMore returns child*.
func ZeroOrMore(child *Node) *Node { return &Node{Kind: KindZeroOrMore, Children: []*Node{child}} }

// OneOrMore returns child+.
func OneOrMore(child *Node) *Node { return &Node{Kind: KindOneOrMore, Children: []*Node{child}} }

// And returns the look-ahead predicate &child.
func And(child *Node) *Node { return &Node{Kind: KindPredicate, Children: []*Node{child}} }

// Not returns the negative look-ahead predicate !child.
func Not(child *Node) *Node {
	return &Node{Kind: KindPredicate, Children: []*Node{child}, Negated: true}
}

// Call returns the external call <<name args...>>.
func Call(name string, args ...*Node) *Node {
	return &Node{Kind: KindExternalCall, Text: name, Children: args}
}
