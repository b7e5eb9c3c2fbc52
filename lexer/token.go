// Package lexer turns Compose source text into a token stream.
// token.go defines token kinds and source positions.
package lexer

import "fmt"

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNewline
	TokenIndent
	TokenDedent
	TokenIdent
	TokenString
	TokenNumber
	TokenKeyword
	TokenText    // free text, e.g. the body of a bullet line
	TokenContext // ## ... ## context comment, preserved for downstream use
	TokenColon
	TokenDash
	TokenPipe
	TokenQuestion
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenNewline:
		return "NEWLINE"
	case TokenIndent:
		return "INDENT"
	case TokenDedent:
		return "DEDENT"
	case TokenIdent:
		return "IDENTIFIER"
	case TokenString:
		return "STRING"
	case TokenNumber:
		return "NUMBER"
	case TokenKeyword:
		return "KEYWORD"
	case TokenText:
		return "TEXT"
	case TokenContext:
		return "CONTEXT"
	case TokenColon:
		return "':'"
	case TokenDash:
		return "'-'"
	case TokenPipe:
		return "'|'"
	case TokenQuestion:
		return "'?'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenLBracket:
		return "'['"
	case TokenRBracket:
		return "']'"
	default:
		return "UNKNOWN"
	}
}

// Position is a source location used across the compiler for diagnostics.
type Position struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	File   string `json:"file,omitempty"`
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Token is a single lexical unit. Tokens are created once during lexing
// and handed to the parser as an immutable sequence.
type Token struct {
	Kind   TokenKind `json:"kind"`
	Text   string    `json:"text"`
	Line   int       `json:"line"`
	Column int       `json:"column"`
	File   string    `json:"source_file,omitempty"`
}

// Pos returns the token's source position.
func (t Token) Pos() Position {
	return Position{Line: t.Line, Column: t.Column, File: t.File}
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%v, %q, %d:%d}", t.Kind, t.Text, t.Line, t.Column)
}

// PrimitiveTypes is the fixed set of built-in type names.
var PrimitiveTypes = []string{
	"text", "number", "bool", "date", "timestamp", "image", "file", "markdown", "json",
}

// keywords maps reserved words to their token kind. Primitive type names
// are keywords too so the parser can spot them in type positions.
var keywords = map[string]bool{
	"model":   true,
	"feature": true,
	"guide":   true,
	"import":  true,
	"list":    true,
	"of":      true,
}

func init() {
	for _, p := range PrimitiveTypes {
		keywords[p] = true
	}
}

// IsKeyword reports whether name is a reserved word of the language.
func IsKeyword(name string) bool {
	return keywords[name]
}

// IsPrimitive reports whether name is a built-in type.
func IsPrimitive(name string) bool {
	for _, p := range PrimitiveTypes {
		if name == p {
			return true
		}
	}
	return false
}
