package token

// Type is the type of a token.
type Type string

// Token represents a lexical token.
type Token struct {
	Type    Type
	Literal string
	Line    int
	Column  int
	Offset  int
	// Space is set when the token is preceded by whitespace or a comment.
	Space bool
}

const (
	// Special tokens
	ILLEGAL Type = "ILLEGAL" // An unknown or invalid token
	EOF     Type = "EOF"     // End of file

	// Literals
	IDENT  Type = "IDENT"  // name, _key
	INT    Type = "INT"    // 123, -0x2f, 0777, 0b101
	UINT   Type = "UINT"   // 0xff
	FLOAT  Type = "FLOAT"  // 1.5, -2e10, inf, nan
	STRING Type = "STRING" // "hello world"

	// Delimiters
	LBRACE    Type = "{"
	RBRACE    Type = "}"
	LPAREN    Type = "("
	RPAREN    Type = ")"
	COMMA     Type = ","
	SEMICOLON Type = ";"
	COLON     Type = ":"
	ASSIGN    Type = "="
	DCOLON    Type = "::"

	// Keywords
	TRUE  Type = "TRUE"
	FALSE Type = "FALSE"
	EMPTY Type = "EMPTY"
)

var keywords = map[string]Type{
	"true":  TRUE,
	"false": FALSE,
	"empty": EMPTY,
	"inf":   FLOAT,
	"nan":   FLOAT,
}

// LookupIdent checks the keywords table for an identifier.
// If the identifier is a keyword, it returns the keyword's token type.
// Otherwise, it returns IDENT.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether ident cannot be used as a bare string.
func IsKeyword(ident string) bool {
	_, ok := keywords[ident]
	return ok
}
