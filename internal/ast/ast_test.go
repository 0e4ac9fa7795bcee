package ast

import (
	"testing"

	"github.com/automainint/go-family/internal/token"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	doc := &Document{
		Root: &CompositeLiteral{
			Token: token.Token{Type: token.LBRACE, Literal: "{"},
			Members: []Expression{
				&PairExpression{
					Key:   &StringLiteral{Token: token.Token{Type: token.IDENT, Literal: "name"}, Value: "name"},
					Value: &StringLiteral{Token: token.Token{Type: token.STRING, Literal: "a b"}, Value: "a b"},
				},
				&PairExpression{
					Key: &StringLiteral{Token: token.Token{Type: token.IDENT, Literal: "data"}, Value: "data"},
					Value: &BytesLiteral{
						Token: token.Token{Type: token.DCOLON, Literal: "::"},
						Value: []byte{0x0a, 0xff},
					},
				},
				&CallExpression{
					Token: token.Token{Type: token.IDENT, Literal: "move"},
					Name:  "move",
					Arguments: []Expression{
						&IntegerLiteral{Token: token.Token{Type: token.INT, Literal: "1"}, Value: 1},
						&RealLiteral{Token: token.Token{Type: token.FLOAT, Literal: "2.5"}, Value: 2.5},
					},
				},
			},
		},
	}

	require.Equal(t, `{name = "a b"; data = :: { 0a ff }; move(1, 2.5)}`, doc.String())
	require.Equal(t, "{", doc.TokenLiteral())
}

func TestEmptyDocument(t *testing.T) {
	doc := &Document{}
	require.Equal(t, "", doc.String())
	require.Equal(t, 1, doc.Pos().Line)
}
