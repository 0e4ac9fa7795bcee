package parser

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/automainint/go-family/internal/ast"
	"github.com/automainint/go-family/internal/lexer"
	"github.com/automainint/go-family/internal/token"
)

type prefixParseFn func() ast.Expression

// Error is a syntax error at a token.
type Error struct {
	Message string
	Token   token.Token
}

// Parser holds the state of the parser.
type Parser struct {
	l      *lexer.Lexer
	errors []Error

	curToken  token.Token
	peekToken token.Token

	depth    int
	maxDepth int
	halted   bool

	prefixParseFns map[token.Type]prefixParseFn
}

// New creates a new parser. Documents nested deeper than maxDepth are
// rejected.
func New(l *lexer.Lexer, maxDepth int) *Parser {
	p := &Parser{
		l:        l,
		errors:   []Error{},
		maxDepth: maxDepth,
	}

	p.prefixParseFns = make(map[token.Type]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.UINT, p.parseUnsignedLiteral)
	p.registerPrefix(token.FLOAT, p.parseRealLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(token.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(token.EMPTY, p.parseEmptyLiteral)
	p.registerPrefix(token.LPAREN, p.parseVectorLiteral)
	p.registerPrefix(token.LBRACE, p.parseCompositeLiteral)
	p.registerPrefix(token.DCOLON, p.parseBytesLiteral)
	p.registerPrefix(token.ILLEGAL, p.parseIllegal)

	// Read two tokens, so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()

	return p
}

// Errors returns the syntax errors encountered during parsing.
func (p *Parser) Errors() []Error {
	return p.errors
}

// Parse parses a document. A document is a single value; at the root a
// bare comma separated list is read as a vector.
func (p *Parser) Parse() *ast.Document {
	document := &ast.Document{}

	if p.curTokenIs(token.EOF) {
		p.errorf(p.curToken, "empty document")
		return document
	}

	first := p.curToken
	root := p.parseExpression()

	if p.curTokenIs(token.COMMA) && root != nil {
		list := &ast.VectorLiteral{Token: first, Elements: []ast.Expression{root}}
		for p.curTokenIs(token.COMMA) {
			p.nextToken() // Consume ','
			if p.curTokenIs(token.EOF) {
				break
			}
			elem := p.parseExpression()
			if elem == nil {
				break
			}
			list.Elements = append(list.Elements, elem)
		}
		root = list
	}
	document.Root = root

	if !p.curTokenIs(token.EOF) {
		p.errorf(p.curToken, "unexpected token after document: %s", describe(p.curToken))
	}

	return document
}

func (p *Parser) nextToken() {
	if p.halted {
		return
	}
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// halt stops parsing: the current token becomes EOF so that every loop
// unwinds without reporting further errors.
func (p *Parser) halt() {
	p.halted = true
	p.curToken = token.Token{Type: token.EOF, Line: p.curToken.Line, Column: p.curToken.Column, Offset: p.curToken.Offset}
}

func (p *Parser) parseExpression() ast.Expression {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		p.errorf(p.curToken, "maximum nesting depth of %d exceeded", p.maxDepth)
		p.halt()
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf(p.curToken, "unexpected %s", describe(p.curToken))
		// Closing delimiters are left for the enclosing construct.
		switch p.curToken.Type {
		case token.EOF, token.RBRACE, token.RPAREN:
		default:
			p.nextToken()
		}
		return nil
	}
	return prefix()
}

// The contract for all parse functions is that they are entered with p.curToken
// being the first token of the construct, and they must return with p.curToken
// pointing to the token *after* the construct.

func (p *Parser) parseIdentifier() ast.Expression {
	// If the lexer gives us an IDENT that starts with a digit or a sign,
	// it must be a malformed number, because a valid number would have
	// been tokenized as INT, UINT or FLOAT.
	lit := p.curToken.Literal
	if len(lit) > 0 {
		firstChar := lit[0]
		if (firstChar >= '0' && firstChar <= '9') || firstChar == '-' || firstChar == '+' {
			p.errorf(p.curToken, "invalid number format: %s", lit)
			p.nextToken()
			return nil
		}
	}

	if p.peekTokenIs(token.LPAREN) && !p.peekToken.Space {
		return p.parseCallExpression()
	}

	expr := &ast.StringLiteral{Token: p.curToken, Value: lit}
	p.nextToken()
	return expr
}

func (p *Parser) parseCallExpression() ast.Expression {
	call := &ast.CallExpression{Token: p.curToken, Name: p.curToken.Literal}
	p.nextToken() // Consume the name
	args, ok := p.parseExpressionList()
	if !ok {
		return nil
	}
	call.Arguments = args
	return call
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}
	value, err := strconv.ParseInt(p.curToken.Literal, 0, 64)
	if err != nil {
		p.errorf(p.curToken, "could not parse %q as integer: %s", p.curToken.Literal, numError(err))
		p.nextToken()
		return nil
	}
	lit.Value = value
	p.nextToken()
	return lit
}

func (p *Parser) parseUnsignedLiteral() ast.Expression {
	lit := &ast.UnsignedLiteral{Token: p.curToken}
	value, err := strconv.ParseUint(p.curToken.Literal, 0, 64)
	if err != nil {
		p.errorf(p.curToken, "could not parse %q as unsigned integer: %s", p.curToken.Literal, numError(err))
		p.nextToken()
		return nil
	}
	lit.Value = value
	p.nextToken()
	return lit
}

func (p *Parser) parseRealLiteral() ast.Expression {
	lit := &ast.RealLiteral{Token: p.curToken}
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil && !isRangeError(err) {
		p.errorf(p.curToken, "could not parse %q as real: %s", p.curToken.Literal, numError(err))
		p.nextToken()
		return nil
	}
	// Out of range literals saturate to infinity or zero.
	lit.Value = value
	p.nextToken()
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	expr := &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken()
	return expr
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	expr := &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
	p.nextToken()
	return expr
}

func (p *Parser) parseEmptyLiteral() ast.Expression {
	expr := &ast.EmptyLiteral{Token: p.curToken}
	p.nextToken()
	return expr
}

func (p *Parser) parseIllegal() ast.Expression {
	p.errorf(p.curToken, "%s", p.curToken.Literal)
	p.nextToken()
	return nil
}

func (p *Parser) parseVectorLiteral() ast.Expression {
	vec := &ast.VectorLiteral{Token: p.curToken}
	elements, ok := p.parseExpressionList()
	if !ok {
		return nil
	}
	vec.Elements = elements
	return vec
}

// parseExpressionList parses "( a, b, ... )" starting at '('. A trailing
// comma is allowed.
func (p *Parser) parseExpressionList() ([]ast.Expression, bool) {
	open := p.curToken
	p.nextToken() // Consume '('

	list := []ast.Expression{}
	failed := false
	for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
		elem := p.parseExpression()
		if elem == nil {
			failed = true
			p.skipUntil(token.COMMA, token.RPAREN)
		} else {
			list = append(list, elem)
		}

		switch {
		case p.curTokenIs(token.COMMA):
			p.nextToken()
		case p.curTokenIs(token.RPAREN), p.curTokenIs(token.EOF):
		default:
			failed = true
			p.errorf(p.curToken, "expected ',' or ')' in vector, got %s", describe(p.curToken))
			p.skipUntil(token.COMMA, token.RPAREN)
			if p.curTokenIs(token.COMMA) {
				p.nextToken()
			}
		}
	}

	if !p.curTokenIs(token.RPAREN) {
		if !p.halted {
			p.errorf(open, "unmatched '(': vector is not closed")
		}
		return nil, false
	}
	p.nextToken() // Consume ')'
	return list, !failed
}

func (p *Parser) parseCompositeLiteral() ast.Expression {
	obj := &ast.CompositeLiteral{Token: p.curToken, Members: []ast.Expression{}}
	open := p.curToken
	p.nextToken() // Consume '{'

	failed := false
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) || p.curTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}

		member := p.parseMember()
		if member == nil {
			// Error already reported. Recover to the next separator or end of composite.
			failed = true
			p.skipUntil(token.SEMICOLON, token.COMMA, token.RBRACE)
			continue
		}
		obj.Members = append(obj.Members, member)
	}

	if !p.curTokenIs(token.RBRACE) {
		if !p.halted {
			p.errorf(open, "unmatched '{': composite is not closed")
		}
		return nil
	}
	p.nextToken() // Consume '}'
	if failed {
		return nil
	}
	return obj
}

// parseMember parses "key = value", "key: value" or a bare call command.
func (p *Parser) parseMember() ast.Expression {
	start := p.curToken
	key := p.parseExpression()
	if key == nil {
		return nil
	}

	if !p.curTokenIs(token.ASSIGN) && !p.curTokenIs(token.COLON) {
		if call, ok := key.(*ast.CallExpression); ok {
			return call
		}
		p.errorf(p.curToken, "expected '=' or ':' after key, got %s", describe(p.curToken))
		return nil
	}
	p.nextToken() // Consume '=' or ':'

	value := p.parseExpression()
	if value == nil {
		return nil
	}
	return &ast.PairExpression{Token: start, Key: key, Value: value}
}

func (p *Parser) parseBytesLiteral() ast.Expression {
	lit := &ast.BytesLiteral{Token: p.curToken, Value: []byte{}}
	p.nextToken() // Consume '::'

	if !p.curTokenIs(token.LBRACE) {
		p.errorf(p.curToken, "expected '{' after '::', got %s", describe(p.curToken))
		return nil
	}
	open := p.curToken
	p.nextToken() // Consume '{'

	failed := false
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		b, ok := parseHexByte(p.curToken)
		if !ok {
			failed = true
			p.errorf(p.curToken, "invalid byte %s, expected two hexadecimal digits", describe(p.curToken))
		}
		lit.Value = append(lit.Value, b)
		p.nextToken()
	}

	if !p.curTokenIs(token.RBRACE) {
		p.errorf(open, "unmatched '{': byte vector is not closed")
		return nil
	}
	p.nextToken() // Consume '}'
	if failed {
		return nil
	}
	return lit
}

func parseHexByte(tok token.Token) (byte, bool) {
	switch tok.Type {
	case token.INT, token.IDENT, token.FLOAT:
	default:
		return 0, false
	}
	if len(tok.Literal) == 0 || len(tok.Literal) > 2 {
		return 0, false
	}
	v, err := strconv.ParseUint(tok.Literal, 16, 8)
	if err != nil {
		return 0, false
	}
	return byte(v), true
}

func (p *Parser) skipUntil(types ...token.Type) {
	for !p.curTokenIs(token.EOF) && !slices.Contains(types, p.curToken.Type) {
		p.nextToken()
	}
}

func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) errorf(tok token.Token, format string, args ...any) {
	p.errors = append(p.errors, Error{Message: fmt.Sprintf(format, args...), Token: tok})
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.ILLEGAL:
		return tok.Literal
	}
	return fmt.Sprintf("%s (%q)", tok.Type, tok.Literal)
}

func numError(err error) string {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err.Error()
	}
	return err.Error()
}

func isRangeError(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}
