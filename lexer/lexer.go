// lexer.go contains the indentation-sensitive tokenizer.
package lexer

import (
	"fmt"
	"strings"
)

// indentUnit is the number of spaces per indentation level.
const indentUnit = 2

// LexError reports a structural problem in the source text: invalid
// indentation or an unterminated string literal. Content-level mistakes
// (unexpected words, bad grammar) are left for the parser.
type LexError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, Position{Line: e.Line, Column: e.Column, File: e.File})
}

// Pos returns the error's source position.
func (e *LexError) Pos() Position {
	return Position{Line: e.Line, Column: e.Column, File: e.File}
}

type lexer struct {
	file    string
	lines   []string
	lineNo  int // 1-based index of the line being lexed
	indents []int
	tokens  []Token
}

// Tokenize converts source into a token stream. The returned error, when
// non-nil, is always a *LexError.
func Tokenize(source, fileName string) ([]Token, error) {
	l := &lexer{
		file:    fileName,
		lines:   strings.Split(source, "\n"),
		indents: []int{0},
	}
	for i, line := range l.lines {
		l.lineNo = i + 1
		if err := l.lexLine(line); err != nil {
			return nil, err
		}
	}
	// Close any open indentation levels before EOF.
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(TokenDedent, "", 1)
	}
	l.emit(TokenEOF, "", 1)
	return l.tokens, nil
}

func (l *lexer) emit(kind TokenKind, text string, column int) {
	l.tokens = append(l.tokens, Token{
		Kind:   kind,
		Text:   text,
		Line:   l.lineNo,
		Column: column,
		File:   l.file,
	})
}

func (l *lexer) errf(column int, format string, args ...interface{}) error {
	return &LexError{
		File:    l.file,
		Line:    l.lineNo,
		Column:  column,
		Message: fmt.Sprintf(format, args...),
	}
}

func (l *lexer) lexLine(line string) error {
	// Trailing carriage returns from CRLF sources are noise.
	line = strings.TrimSuffix(line, "\r")

	indent := 0
	for indent < len(line) && (line[indent] == ' ' || line[indent] == '\t') {
		indent++
	}
	rest := line[indent:]

	// Blank lines and whole-line // comments do not affect indentation
	// and produce no tokens.
	if rest == "" || strings.HasPrefix(rest, "//") {
		return nil
	}
	if strings.ContainsRune(line[:indent], '\t') {
		return l.errf(1, "tabs are not allowed in indentation")
	}

	if err := l.applyIndent(indent); err != nil {
		return err
	}

	// A dash opening a logical line is a bullet marker: the remainder of
	// the line is kept verbatim so @reference markers and quoted text
	// survive untouched.
	if rest[0] == '-' {
		l.emit(TokenDash, "-", indent+1)
		body := strings.TrimSpace(rest[1:])
		if body != "" {
			l.emit(TokenText, body, indent+2)
		}
		l.emit(TokenNewline, "", len(line)+1)
		return nil
	}

	before := len(l.tokens)
	if err := l.lexTokens(rest, indent); err != nil {
		return err
	}
	// A line holding nothing but context comments gets no NEWLINE, so a
	// standalone ## ... ## inside a block does not split the block.
	if contextOnly(l.tokens[before:]) {
		return nil
	}
	l.emit(TokenNewline, "", len(line)+1)
	return nil
}

func contextOnly(tokens []Token) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if tok.Kind != TokenContext {
			return false
		}
	}
	return true
}

// applyIndent compares a line's leading space count against the indentation
// stack, emitting INDENT/DEDENT tokens as levels open and close.
func (l *lexer) applyIndent(indent int) error {
	if indent%indentUnit != 0 {
		return l.errf(indent+1, "indentation of %d spaces is not a multiple of %d", indent, indentUnit)
	}
	top := l.indents[len(l.indents)-1]
	switch {
	case indent == top:
		return nil
	case indent > top:
		if indent != top+indentUnit {
			return l.errf(indent+1, "indented too far: expected %d spaces, got %d", top+indentUnit, indent)
		}
		l.indents = append(l.indents, indent)
		l.emit(TokenIndent, "", 1)
	default:
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > indent {
			l.indents = l.indents[:len(l.indents)-1]
			l.emit(TokenDedent, "", 1)
		}
		if l.indents[len(l.indents)-1] != indent {
			return l.errf(indent+1, "unindent to %d spaces does not match any outer indentation level", indent)
		}
	}
	return nil
}

// lexTokens scans the content of one logical line. offset is the count of
// leading spaces already consumed, used for column reporting.
func (l *lexer) lexTokens(rest string, offset int) error {
	pos := 0
	for pos < len(rest) {
		ch := rest[pos]
		col := offset + pos + 1

		switch {
		case ch == ' ' || ch == '\t':
			pos++

		case ch == '/' && pos+1 < len(rest) && rest[pos+1] == '/':
			// Trailing comment: discard the remainder of the line.
			return nil

		case ch == '#' && pos+1 < len(rest) && rest[pos+1] == '#':
			// ## context comment ##, preserved unlike // comments.
			end := strings.Index(rest[pos+2:], "##")
			if end < 0 {
				l.emit(TokenContext, strings.TrimSpace(rest[pos+2:]), col)
				return nil
			}
			l.emit(TokenContext, strings.TrimSpace(rest[pos+2:pos+2+end]), col)
			pos += 2 + end + 2

		case ch == '"':
			end := strings.IndexByte(rest[pos+1:], '"')
			if end < 0 {
				return l.errf(col, "unterminated string literal")
			}
			l.emit(TokenString, rest[pos+1:pos+1+end], col)
			pos += end + 2

		case isIdentStart(ch):
			start := pos
			for pos < len(rest) && isIdentChar(rest[pos]) {
				pos++
			}
			word := rest[start:pos]
			if IsKeyword(word) {
				l.emit(TokenKeyword, word, col)
			} else {
				l.emit(TokenIdent, word, col)
			}

		case isDigit(ch):
			start := pos
			for pos < len(rest) && (isDigit(rest[pos]) || rest[pos] == '.') {
				pos++
			}
			l.emit(TokenNumber, rest[start:pos], col)

		default:
			if kind, ok := punctuation[ch]; ok {
				l.emit(kind, string(ch), col)
				pos++
				break
			}
			// Anything else becomes a TEXT word; the parser decides
			// whether it is an error in context.
			start := pos
			for pos < len(rest) && rest[pos] != ' ' && rest[pos] != '\t' {
				pos++
			}
			l.emit(TokenText, rest[start:pos], col)
		}
	}
	return nil
}

var punctuation = map[byte]TokenKind{
	':': TokenColon,
	'-': TokenDash,
	'|': TokenPipe,
	'?': TokenQuestion,
	'(': TokenLParen,
	')': TokenRParen,
	'[': TokenLBracket,
	']': TokenRBracket,
}

func isIdentStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

// Dotted identifiers like frontend.page lex as a single token.
func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '.'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
