package lexer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/automainint/go-family/internal/token"
)

// Lexer holds the state for tokenizing family text.
type Lexer struct {
	r      *bufio.Reader
	buf    bytes.Buffer
	ch     rune
	size   int
	line   int
	column int
	offset int
}

// New creates and returns a new Lexer.
func New(r io.Reader) *Lexer {
	l := &Lexer{
		r:      bufio.NewReader(r),
		line:   1,
		column: 1,
	}
	l.readRune()
	return l
}

// NextToken scans the input and returns the next token.
func (l *Lexer) NextToken() token.Token {
	space := l.skipWhitespace()
	tok := token.Token{Line: l.line, Column: l.column, Offset: l.offset, Space: space}
	switch l.ch {
	case '{', '}', '(', ')', ',', ';', '=':
		tok.Type = token.Type(l.ch)
		tok.Literal = string(l.ch)
	case ':':
		if l.peekRune() == ':' {
			l.advance()
			tok.Type = token.DCOLON
			tok.Literal = "::"
		} else {
			tok.Type = token.COLON
			tok.Literal = ":"
		}
	case '"':
		lit, ok := l.readString()
		if !ok {
			tok.Type = token.ILLEGAL
		} else {
			tok.Type = token.STRING
		}
		tok.Literal = lit
		return tok
	case -1: // Corresponds to io.EOF
		tok.Type = token.EOF
		tok.Literal = ""
		return tok
	default:
		if isDigit(l.ch) || (isSign(l.ch) && isNumberStart(l.peekRune())) {
			literal := l.readNumber()
			if typ, ok := ParseAsNumber(literal); ok {
				tok.Type = typ
			} else {
				tok.Type = token.IDENT
			}
			tok.Literal = literal
			return tok
		}
		if isIdentifierStart(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			return tok
		}
		tok.Type = token.ILLEGAL
		if l.ch == utf8.RuneError {
			tok.Literal = "invalid utf-8"
		} else {
			tok.Literal = fmt.Sprintf("unexpected character %q", l.ch)
		}
	}
	l.advance()
	return tok
}

func (l *Lexer) readRune() {
	r, size, err := l.r.ReadRune()
	if err != nil {
		l.ch = -1
		l.size = 0
		return
	}
	l.ch = r
	l.size = size
}

func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.offset += l.size
	l.readRune()
	l.column++
}

// skipWhitespace skips blanks, line breaks and comments and reports whether
// anything was skipped.
func (l *Lexer) skipWhitespace() bool {
	skipped := false
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '#':
			for l.ch != '\n' && l.ch != -1 {
				l.advance()
			}
		default:
			return skipped
		}
		skipped = true
	}
}

func (l *Lexer) readIdentifier() string {
	l.buf.Reset()
	for isIdentifierChar(l.ch) {
		l.buf.WriteRune(l.ch)
		l.advance()
	}
	return l.buf.String()
}

// readNumber reads everything that may belong to a numeric literal. The
// result is validated by ParseAsNumber.
func (l *Lexer) readNumber() string {
	l.buf.Reset()
	l.buf.WriteRune(l.ch)
	l.advance()
	for {
		switch {
		case isIdentifierChar(l.ch) || l.ch == '.':
		case isSign(l.ch) && l.exponentPending():
		default:
			return l.buf.String()
		}
		l.buf.WriteRune(l.ch)
		l.advance()
	}
}

// exponentPending reports whether the number read so far ends with an
// exponent marker, so that a following sign belongs to it.
func (l *Lexer) exponentPending() bool {
	s := l.buf.String()
	if strings.ContainsAny(s, "xX") {
		return false
	}
	return strings.HasSuffix(s, "e") || strings.HasSuffix(s, "E")
}

func (l *Lexer) readEscapeSequence() (rune, bool, string) {
	l.advance() // consume backslash
	switch l.ch {
	case 'b', 'f', 'n', 'r', 't', '"', '\\', '/':
		return unescape(l.ch), true, ""
	case 'u':
		val, ok := l.readHex(4)
		if !ok {
			return 0, false, "invalid unicode escape"
		}
		if val >= 0xD800 && val <= 0xDFFF {
			return 0, false, "invalid unicode scalar value (surrogate pair)"
		}
		return val, true, ""
	case 'x':
		val, ok := l.readHex(2)
		if !ok {
			return 0, false, "invalid byte escape"
		}
		// Byte escapes are returned negated so the caller can tell them
		// apart from code points.
		return -val - 1, true, ""
	default:
		return 0, false, fmt.Sprintf("invalid escape sequence \\%c", l.ch)
	}
}

func (l *Lexer) readString() (string, bool) {
	l.advance() // consume opening quote
	l.buf.Reset()
	for {
		if l.ch == '"' {
			l.advance() // consume closing quote
			return l.buf.String(), true
		}
		if l.ch == '\n' || l.ch == -1 {
			return "unterminated string", false
		}

		if l.ch == '\\' {
			r, ok, errMsg := l.readEscapeSequence()
			if !ok {
				return errMsg, false
			}
			if r < 0 {
				l.buf.WriteByte(byte(-r - 1))
			} else {
				l.buf.WriteRune(r)
			}
		} else {
			if l.ch == utf8.RuneError && l.size == 1 {
				return "invalid utf-8 sequence in string", false
			}
			if isForbiddenControlChar(l.ch) {
				return fmt.Sprintf("forbidden control character U+%04X in string", l.ch), false
			}
			l.buf.WriteRune(l.ch)
		}
		l.advance()
	}
}

func (l *Lexer) readHex(n int) (rune, bool) {
	var val rune
	for range n {
		l.advance()
		d, ok := hexDigit(l.ch)
		if !ok {
			return 0, false
		}
		val = val*16 + d
	}
	return val, true
}

func (l *Lexer) peekRune() rune {
	// Prioritize the returned slice, as Peek can return both bytes and an error
	bytes, _ := l.r.Peek(utf8.UTFMax)
	if len(bytes) == 0 {
		return 0
	}
	r, _ := utf8.DecodeRune(bytes)
	return r
}

func hexDigit(ch rune) (rune, bool) {
	switch {
	case '0' <= ch && ch <= '9':
		return ch - '0', true
	case 'a' <= ch && ch <= 'f':
		return ch - 'a' + 10, true
	case 'A' <= ch && ch <= 'F':
		return ch - 'A' + 10, true
	}
	return 0, false
}

func isForbiddenControlChar(ch rune) bool {
	return (ch >= 0x00 && ch <= 0x08) || (ch >= 0x0A && ch <= 0x1F) || ch == 0x7F
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isSign(ch rune) bool {
	return ch == '-' || ch == '+'
}

func isNumberStart(ch rune) bool {
	return isDigit(ch) || ch == 'i' || ch == 'n'
}

func isIdentifierStart(ch rune) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isIdentifierChar(ch rune) bool {
	return isIdentifierStart(ch) || isDigit(ch)
}

// IsIdentifier reports whether s can be written as a bare identifier.
func IsIdentifier(s string) bool {
	if s == "" || !isIdentifierStart(rune(s[0])) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentifierChar(rune(s[i])) {
			return false
		}
	}
	return true
}

func unescape(ch rune) rune {
	switch ch {
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case '"':
		return '"'
	case '\\':
		return '\\'
	case '/':
		return '/'
	}
	return 0
}

func consumeDigits(s string, i int, isValid func(byte) bool) int {
	for i < len(s) && isValid(s[i]) {
		i++
	}
	return i
}

func isDecimal(c byte) bool { return '0' <= c && c <= '9' }
func isOctal(c byte) bool   { return '0' <= c && c <= '7' }
func isBinary(c byte) bool  { return c == '0' || c == '1' }
func isHex(c byte) bool {
	_, ok := hexDigit(rune(c))
	return ok
}

// allOf reports whether s is non-empty and every byte satisfies isValid.
func allOf(s string, isValid func(byte) bool) bool {
	return s != "" && consumeDigits(s, 0, isValid) == len(s)
}

// ParseAsNumber classifies a numeric literal. Unsigned hexadecimal literals
// are UINT, every other integer form is INT.
func ParseAsNumber(s string) (token.Type, bool) {
	if len(s) == 0 {
		return token.ILLEGAL, false
	}
	body, signed := s, false
	if isSign(rune(s[0])) {
		body, signed = s[1:], true
	}

	if signed && (body == "inf" || body == "nan") {
		return token.FLOAT, true
	}

	if len(body) > 1 && body[0] == '0' {
		switch body[1] {
		case 'x', 'X':
			if !allOf(body[2:], isHex) {
				return token.ILLEGAL, false
			}
			if signed {
				return token.INT, true
			}
			return token.UINT, true
		case 'o', 'O':
			if !allOf(body[2:], isOctal) {
				return token.ILLEGAL, false
			}
			return token.INT, true
		case 'b', 'B':
			if !allOf(body[2:], isBinary) {
				return token.ILLEGAL, false
			}
			return token.INT, true
		}
		if allOf(body, isDecimal) {
			// Leading zero without a fraction is octal.
			if !allOf(body, isOctal) {
				return token.ILLEGAL, false
			}
			return token.INT, true
		}
	}

	// Integer part.
	i := consumeDigits(body, 0, isDecimal)
	if i == 0 {
		return token.ILLEGAL, false
	}
	isFloat := false

	// Fractional part.
	if i < len(body) && body[i] == '.' {
		j := consumeDigits(body, i+1, isDecimal)
		if j == i+1 {
			return token.ILLEGAL, false // No digits after '.'.
		}
		i, isFloat = j, true
	}

	// Exponent part.
	if i < len(body) && (body[i] == 'e' || body[i] == 'E') {
		i++
		if i < len(body) && isSign(rune(body[i])) {
			i++
		}
		j := consumeDigits(body, i, isDecimal)
		if j == i {
			return token.ILLEGAL, false // No digits in exponent.
		}
		i, isFloat = j, true
	}

	// Must consume the whole string.
	if i != len(body) {
		return token.ILLEGAL, false
	}
	if isFloat {
		return token.FLOAT, true
	}
	return token.INT, true
}
