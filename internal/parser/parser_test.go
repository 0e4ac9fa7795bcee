package parser_test

import (
	"math"
	"strings"
	"testing"

	"github.com/automainint/go-family/internal/ast"
	"github.com/automainint/go-family/internal/lexer"
	"github.com/automainint/go-family/internal/parser"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, input string) *ast.Document {
	t.Helper()
	p := parser.New(lexer.New(strings.NewReader(input)), 100)
	doc := p.Parse()
	require.Empty(t, p.Errors(), "parser has errors for %q", input)
	require.NotNil(t, doc.Root)
	return doc
}

func parseErrors(input string) []parser.Error {
	p := parser.New(lexer.New(strings.NewReader(input)), 100)
	p.Parse()
	return p.Errors()
}

func TestLiteralExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"5", int64(5)},
		{"-5", int64(-5)},
		{"0777", int64(0777)},
		{"0b101", int64(5)},
		{"-0x10", int64(-16)},
		{"0xffffffffffffffff", uint64(0xffffffffffffffff)},
		{"true", true},
		{"false", false},
		{"foobar", "foobar"},
		{"1.23", float64(1.23)},
		{"\"hello world\"", "hello world"},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			doc := parse(t, tt.input)
			testLiteralExpression(t, doc.Root, tt.expected)
		})
	}
}

func TestRealOutOfRange(t *testing.T) {
	lit, ok := parse(t, "1e400").Root.(*ast.RealLiteral)
	require.True(t, ok)
	require.True(t, math.IsInf(lit.Value, 1))
}

func testLiteralExpression(t *testing.T, exp ast.Expression, expected any) {
	t.Helper()

	switch v := expected.(type) {
	case int64:
		lit, ok := exp.(*ast.IntegerLiteral)
		require.True(t, ok, "exp not *ast.IntegerLiteral, got=%T", exp)
		require.Equal(t, v, lit.Value)
	case uint64:
		lit, ok := exp.(*ast.UnsignedLiteral)
		require.True(t, ok, "exp not *ast.UnsignedLiteral, got=%T", exp)
		require.Equal(t, v, lit.Value)
	case bool:
		lit, ok := exp.(*ast.BooleanLiteral)
		require.True(t, ok, "exp not *ast.BooleanLiteral, got=%T", exp)
		require.Equal(t, v, lit.Value)
	case string:
		lit, ok := exp.(*ast.StringLiteral)
		require.True(t, ok, "exp not *ast.StringLiteral, got=%T", exp)
		require.Equal(t, v, lit.Value)
	case float64:
		lit, ok := exp.(*ast.RealLiteral)
		require.True(t, ok, "exp not *ast.RealLiteral, got=%T", exp)
		require.Equal(t, v, lit.Value)
	case nil:
		_, ok := exp.(*ast.EmptyLiteral)
		require.True(t, ok, "exp not *ast.EmptyLiteral, got=%T", exp)
	default:
		t.Fatalf("type of expected not handled: %T", expected)
	}
}

func TestVectorLiteralParsing(t *testing.T) {
	doc := parse(t, `(1, "two", true,)`)

	vec, ok := doc.Root.(*ast.VectorLiteral)
	require.True(t, ok, "exp not *ast.VectorLiteral")
	require.Len(t, vec.Elements, 3)

	testLiteralExpression(t, vec.Elements[0], int64(1))
	testLiteralExpression(t, vec.Elements[1], "two")
	testLiteralExpression(t, vec.Elements[2], true)
}

func TestBareRootList(t *testing.T) {
	doc := parse(t, "1, 2.5, x")

	vec, ok := doc.Root.(*ast.VectorLiteral)
	require.True(t, ok, "exp not *ast.VectorLiteral")
	require.Len(t, vec.Elements, 3)
	testLiteralExpression(t, vec.Elements[2], "x")
}

func TestCompositeLiteralParsing(t *testing.T) {
	input := "{\n\tname = \"one\"; size: 2\n\t\"three\" = true,\n\t0x4 = ()\n}"
	doc := parse(t, input)

	obj, ok := doc.Root.(*ast.CompositeLiteral)
	require.True(t, ok, "exp not *ast.CompositeLiteral")
	require.Len(t, obj.Members, 4)

	pairs := make([]*ast.PairExpression, 0, len(obj.Members))
	for _, m := range obj.Members {
		pair, ok := m.(*ast.PairExpression)
		require.True(t, ok, "member not *ast.PairExpression, got=%T", m)
		pairs = append(pairs, pair)
	}

	testLiteralExpression(t, pairs[0].Key, "name")
	testLiteralExpression(t, pairs[0].Value, "one")
	testLiteralExpression(t, pairs[1].Key, "size")
	testLiteralExpression(t, pairs[1].Value, int64(2))
	testLiteralExpression(t, pairs[2].Key, "three")
	testLiteralExpression(t, pairs[2].Value, true)
	testLiteralExpression(t, pairs[3].Key, uint64(4))

	vec, ok := pairs[3].Value.(*ast.VectorLiteral)
	require.True(t, ok)
	require.Empty(t, vec.Elements)
}

func TestEmptyComposite(t *testing.T) {
	doc := parse(t, "{ ; , }")
	obj, ok := doc.Root.(*ast.CompositeLiteral)
	require.True(t, ok)
	require.Empty(t, obj.Members)
}

func TestBytesLiteral(t *testing.T) {
	doc := parse(t, ":: { af b7 0 12 9e }")
	lit, ok := doc.Root.(*ast.BytesLiteral)
	require.True(t, ok, "exp not *ast.BytesLiteral, got=%T", doc.Root)
	require.Equal(t, []byte{0xaf, 0xb7, 0x00, 0x12, 0x9e}, lit.Value)

	doc = parse(t, "::{}")
	lit, ok = doc.Root.(*ast.BytesLiteral)
	require.True(t, ok)
	require.Empty(t, lit.Value)
}

func TestCallExpression(t *testing.T) {
	doc := parse(t, "foo(1, bar)")
	call, ok := doc.Root.(*ast.CallExpression)
	require.True(t, ok, "exp not *ast.CallExpression, got=%T", doc.Root)
	require.Equal(t, "foo", call.Name)
	require.Len(t, call.Arguments, 2)
	testLiteralExpression(t, call.Arguments[0], int64(1))
	testLiteralExpression(t, call.Arguments[1], "bar")

	doc = parse(t, "{ draw(); scale(2) ; x = y }")
	obj, ok := doc.Root.(*ast.CompositeLiteral)
	require.True(t, ok)
	require.Len(t, obj.Members, 3)
	draw, ok := obj.Members[0].(*ast.CallExpression)
	require.True(t, ok)
	require.Equal(t, "draw", draw.Name)
	require.Empty(t, draw.Arguments)
	_, ok = obj.Members[1].(*ast.CallExpression)
	require.True(t, ok)
	_, ok = obj.Members[2].(*ast.PairExpression)
	require.True(t, ok)
}

func TestSpacedCallIsNotSugar(t *testing.T) {
	errs := parseErrors("foo (1)")
	require.NotEmpty(t, errs)
	require.Contains(t, errs[0].Message, "unexpected token after document")
}

func TestParsingErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		line     int
		column   int
	}{
		{"empty document", "", "empty document", 1, 1},
		{"missing separator", "{a 1}", "expected '=' or ':' after key, got INT (\"1\")", 1, 4},
		{"missing value", "{a = }", "unexpected } (\"}\")", 1, 6},
		{"unclosed composite", "{a = 1", "unmatched '{': composite is not closed", 1, 1},
		{"unclosed vector", "(1, 2", "unmatched '(': vector is not closed", 1, 1},
		{"vector separator", "(1 2)", "expected ',' or ')' in vector, got INT (\"2\")", 1, 4},
		{"bad number", "12abc", "invalid number format: 12abc", 1, 1},
		{"integer overflow", "\n  99999999999999999999", "could not parse \"99999999999999999999\" as integer: value out of range", 2, 3},
		{"bad string", `"\q"`, `invalid escape sequence \q`, 1, 1},
		{"bad byte", ":: { 123 }", "invalid byte INT (\"123\"), expected two hexadecimal digits", 1, 6},
		{"bytes without brace", ":: 12", "expected '{' after '::', got INT (\"12\")", 1, 4},
		{"trailing token", "1 2", "unexpected token after document: INT (\"2\")", 1, 3},
		{"stray character", "@", "unexpected character '@'", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseErrors(tt.input)
			require.NotEmpty(t, errs, "expected parser errors for %q", tt.input)
			require.Equal(t, tt.expected, errs[0].Message)
			require.Equal(t, tt.line, errs[0].Token.Line)
			require.Equal(t, tt.column, errs[0].Token.Column)
		})
	}
}

func TestMaxDepth(t *testing.T) {
	input := strings.Repeat("(", 20) + strings.Repeat(")", 20)

	p := parser.New(lexer.New(strings.NewReader(input)), 10)
	p.Parse()
	errs := p.Errors()
	require.Len(t, errs, 1)
	require.Equal(t, "maximum nesting depth of 10 exceeded", errs[0].Message)

	p = parser.New(lexer.New(strings.NewReader(input)), 20)
	doc := p.Parse()
	require.Empty(t, p.Errors())
	require.NotNil(t, doc.Root)
}

func TestRoundTripString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"{a=1;b:(x,y)}", "{a = 1; b = (x, y)}"},
		{"f( 1 , \"s p\" )", `f(1, "s p")`},
		{"{ run(); n = ::{0A} }", "{run(); n = :: { 0a }}"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, parse(t, tt.input).String())
		})
	}
}
