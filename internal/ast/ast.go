package ast

import (
	"strconv"
	"strings"

	"github.com/automainint/go-family/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// TokenLiteral returns the literal value of the token associated with the node.
	TokenLiteral() string
	// Pos returns the token the node starts at, for error reporting.
	Pos() token.Token
	// String returns a string representation of the node.
	String() string
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Document is the root node of a text document.
type Document struct {
	Root Expression
}

func (d *Document) TokenLiteral() string {
	if d.Root != nil {
		return d.Root.TokenLiteral()
	}
	return ""
}

func (d *Document) Pos() token.Token {
	if d.Root != nil {
		return d.Root.Pos()
	}
	return token.Token{Line: 1, Column: 1}
}

func (d *Document) String() string {
	if d.Root != nil {
		return d.Root.String()
	}
	return ""
}

// EmptyLiteral represents the empty keyword.
type EmptyLiteral struct {
	Token token.Token
}

func (el *EmptyLiteral) expressionNode()      {}
func (el *EmptyLiteral) TokenLiteral() string { return el.Token.Literal }
func (el *EmptyLiteral) Pos() token.Token     { return el.Token }
func (el *EmptyLiteral) String() string       { return "empty" }

// BooleanLiteral represents a boolean literal.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BooleanLiteral) Pos() token.Token     { return b.Token }
func (b *BooleanLiteral) String() string       { return b.Token.Literal }

// IntegerLiteral represents a signed integer literal.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) Pos() token.Token     { return il.Token }
func (il *IntegerLiteral) String() string       { return il.Token.Literal }

// UnsignedLiteral represents an unsigned hexadecimal literal.
type UnsignedLiteral struct {
	Token token.Token
	Value uint64
}

func (ul *UnsignedLiteral) expressionNode()      {}
func (ul *UnsignedLiteral) TokenLiteral() string { return ul.Token.Literal }
func (ul *UnsignedLiteral) Pos() token.Token     { return ul.Token }
func (ul *UnsignedLiteral) String() string       { return ul.Token.Literal }

// RealLiteral represents a floating-point literal.
type RealLiteral struct {
	Token token.Token
	Value float64
}

func (rl *RealLiteral) expressionNode()      {}
func (rl *RealLiteral) TokenLiteral() string { return rl.Token.Literal }
func (rl *RealLiteral) Pos() token.Token     { return rl.Token }
func (rl *RealLiteral) String() string       { return rl.Token.Literal }

// StringLiteral represents a quoted string or a bare identifier.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) Pos() token.Token     { return sl.Token }
func (sl *StringLiteral) String() string {
	if sl.Token.Type == token.IDENT {
		return sl.Value
	}
	return strconv.Quote(sl.Value)
}

// BytesLiteral represents a byte vector literal.
type BytesLiteral struct {
	Token token.Token // the '::' token
	Value []byte
}

func (bl *BytesLiteral) expressionNode()      {}
func (bl *BytesLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BytesLiteral) Pos() token.Token     { return bl.Token }
func (bl *BytesLiteral) String() string {
	var out strings.Builder
	out.WriteString(":: {")
	for _, b := range bl.Value {
		out.WriteString(" ")
		out.WriteString(strconv.FormatUint(uint64(b)|0x100, 16)[1:])
	}
	out.WriteString(" }")
	return out.String()
}

// VectorLiteral represents a vector literal.
type VectorLiteral struct {
	Token    token.Token // the '(' token or the first element of a bare list
	Elements []Expression
}

func (vl *VectorLiteral) expressionNode()      {}
func (vl *VectorLiteral) TokenLiteral() string { return vl.Token.Literal }
func (vl *VectorLiteral) Pos() token.Token     { return vl.Token }
func (vl *VectorLiteral) String() string {
	return "(" + joinExpressions(vl.Elements) + ")"
}

// CallExpression represents call sugar: name(arguments).
type CallExpression struct {
	Token     token.Token // the name token
	Name      string
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) Pos() token.Token     { return ce.Token }
func (ce *CallExpression) String() string {
	return ce.Name + "(" + joinExpressions(ce.Arguments) + ")"
}

// CompositeLiteral represents a composite literal. Members are
// *PairExpression entries or *CallExpression commands, in source order.
type CompositeLiteral struct {
	Token   token.Token // the '{' token
	Members []Expression
}

func (cl *CompositeLiteral) expressionNode()      {}
func (cl *CompositeLiteral) TokenLiteral() string { return cl.Token.Literal }
func (cl *CompositeLiteral) Pos() token.Token     { return cl.Token }
func (cl *CompositeLiteral) String() string {
	members := make([]string, 0, len(cl.Members))
	for _, m := range cl.Members {
		members = append(members, m.String())
	}
	return "{" + strings.Join(members, "; ") + "}"
}

// PairExpression represents a key-value entry of a composite literal.
type PairExpression struct {
	Token token.Token // the first token of the key
	Key   Expression
	Value Expression
}

func (pe *PairExpression) expressionNode()      {}
func (pe *PairExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PairExpression) Pos() token.Token     { return pe.Token }
func (pe *PairExpression) String() string {
	return pe.Key.String() + " = " + pe.Value.String()
}

func joinExpressions(list []Expression) string {
	parts := make([]string, 0, len(list))
	for _, e := range list {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}
