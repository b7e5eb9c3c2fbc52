// parser.go contains the recursive-descent parser. It reads one token of
// lookahead and stops on the first syntax error: a broken token stream gives
// no usable AST, so there is no recovery pass.
package parser

import (
	"fmt"

	"github.com/compose-lang/compose/lexer"
)

// ParseError reports the first syntax error encountered.
type ParseError struct {
	Expected string
	Found    string
	Location lexer.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("expected %s, found %s at %s", e.Expected, e.Found, e.Location)
}

type parser struct {
	tokens []lexer.Token
	pos    int

	// context comments seen since the last declaration; attached to the
	// next one so documentation-like context travels with the AST.
	pendingContext []string
}

// Parse consumes a token stream produced by lexer.Tokenize and returns the
// program AST. The returned error, when non-nil, is always a *ParseError.
func Parse(tokens []lexer.Token) (*Program, error) {
	p := &parser{tokens: tokens}
	return p.parseProgram()
}

// current returns the token under the cursor, transparently collecting
// context comments along the way.
func (p *parser) current() lexer.Token {
	for p.pos < len(p.tokens) && p.tokens[p.pos].Kind == lexer.TokenContext {
		p.pendingContext = append(p.pendingContext, p.tokens[p.pos].Text)
		p.pos++
	}
	if p.pos >= len(p.tokens) {
		return lexer.Token{Kind: lexer.TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() lexer.Token {
	tok := p.current()
	if tok.Kind != lexer.TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) takeContext() []string {
	ctx := p.pendingContext
	p.pendingContext = nil
	return ctx
}

func (p *parser) fail(expected string) error {
	tok := p.current()
	found := tok.Kind.String()
	if tok.Text != "" {
		found = fmt.Sprintf("%s %q", tok.Kind, tok.Text)
	}
	return &ParseError{Expected: expected, Found: found, Location: tok.Pos()}
}

func (p *parser) expect(kind lexer.TokenKind, expected string) (lexer.Token, error) {
	tok := p.current()
	if tok.Kind != kind {
		return tok, p.fail(expected)
	}
	return p.advance(), nil
}

func (p *parser) expectKeyword(word string) (lexer.Token, error) {
	tok := p.current()
	if tok.Kind != lexer.TokenKeyword || tok.Text != word {
		return tok, p.fail(fmt.Sprintf("'%s'", word))
	}
	return p.advance(), nil
}

func (p *parser) skipNewlines() {
	for p.current().Kind == lexer.TokenNewline {
		p.advance()
	}
}

func (p *parser) parseProgram() (*Program, error) {
	program := &Program{
		Imports:  []*ImportDeclaration{},
		Models:   []*ModelDeclaration{},
		Features: []*FeatureDeclaration{},
		Guides:   []*GuideDeclaration{},
	}

	for {
		p.skipNewlines()
		tok := p.current()
		if tok.Kind == lexer.TokenEOF {
			return program, nil
		}
		if tok.Kind != lexer.TokenKeyword {
			return nil, p.fail("'model', 'feature', 'guide' or 'import'")
		}

		switch tok.Text {
		case "import":
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			program.Imports = append(program.Imports, imp)

		case "model":
			model, err := p.parseModel()
			if err != nil {
				return nil, err
			}
			program.Models = append(program.Models, model)

		case "feature":
			name, bullets, pos, ctx, err := p.parseBulletDeclaration("feature")
			if err != nil {
				return nil, err
			}
			program.Features = append(program.Features, &FeatureDeclaration{
				Name: name, BulletItems: bullets, Context: ctx, Location: pos,
			})

		case "guide":
			name, bullets, pos, ctx, err := p.parseBulletDeclaration("guide")
			if err != nil {
				return nil, err
			}
			program.Guides = append(program.Guides, &GuideDeclaration{
				Name: name, BulletItems: bullets, Context: ctx, Location: pos,
			})

		default:
			return nil, p.fail("'model', 'feature', 'guide' or 'import'")
		}
	}
}

func (p *parser) parseImport() (*ImportDeclaration, error) {
	kw, err := p.expectKeyword("import")
	if err != nil {
		return nil, err
	}
	path, err := p.expect(lexer.TokenString, "import path string")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenNewline, "end of line"); err != nil {
		return nil, err
	}
	p.takeContext() // imports carry no documentation
	return &ImportDeclaration{Path: path.Text, Location: kw.Pos()}, nil
}

func (p *parser) parseModel() (*ModelDeclaration, error) {
	ctx := p.takeContext()
	kw, err := p.expectKeyword("model")
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.TokenIdent, "model name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenColon, "':'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenNewline, "end of line"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenIndent, "an indented field block"); err != nil {
		return nil, err
	}

	model := &ModelDeclaration{
		Name:     name.Text,
		Fields:   []*FieldDeclaration{},
		Context:  ctx,
		Location: kw.Pos(),
	}

	for p.current().Kind != lexer.TokenDedent {
		field, err := p.parseField()
		if err != nil {
			return nil, err
		}
		model.Fields = append(model.Fields, field)
	}
	p.advance() // DEDENT

	if len(model.Fields) == 0 {
		return nil, p.fail("at least one field")
	}
	// Context comments inside the field block document the model itself.
	model.Context = append(model.Context, p.takeContext()...)
	return model, nil
}

func (p *parser) parseField() (*FieldDeclaration, error) {
	name, err := p.expect(lexer.TokenIdent, "field name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenColon, "':'"); err != nil {
		return nil, err
	}
	fieldType, err := p.parseType()
	if err != nil {
		return nil, err
	}

	field := &FieldDeclaration{
		Name:        name.Text,
		Type:        fieldType,
		Constraints: []string{},
		Location:    name.Pos(),
	}

	if p.current().Kind == lexer.TokenQuestion {
		p.advance()
		field.Optional = true
	}

	if p.current().Kind == lexer.TokenLParen {
		p.advance()
		for p.current().Kind == lexer.TokenIdent {
			field.Constraints = append(field.Constraints, p.advance().Text)
		}
		if _, err := p.expect(lexer.TokenRParen, "')'"); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.TokenNewline, "end of line"); err != nil {
		return nil, err
	}
	return field, nil
}

func (p *parser) parseType() (*TypeAnnotation, error) {
	tok := p.current()
	switch tok.Kind {
	case lexer.TokenString:
		return p.parseEnumType()

	case lexer.TokenKeyword:
		if tok.Text == "list" {
			return p.parseListType()
		}
		if lexer.IsPrimitive(tok.Text) {
			p.advance()
			annotation := &TypeAnnotation{BaseType: tok.Text, Location: tok.Pos()}
			return p.parseArraySuffix(annotation)
		}
		return nil, p.fail("a type")

	case lexer.TokenIdent:
		// Bare identifier: a model reference, resolved later. Forward
		// references are fine here.
		p.advance()
		annotation := &TypeAnnotation{BaseType: tok.Text, Location: tok.Pos()}
		return p.parseArraySuffix(annotation)

	default:
		return nil, p.fail("a type")
	}
}

// parseEnumType handles "a" | "b" | "c". A lone string is not a type.
func (p *parser) parseEnumType() (*TypeAnnotation, error) {
	first := p.advance()
	values := []string{first.Text}
	if p.current().Kind != lexer.TokenPipe {
		return nil, p.fail("'|' after enum value")
	}
	for p.current().Kind == lexer.TokenPipe {
		p.advance()
		value, err := p.expect(lexer.TokenString, "enum value string")
		if err != nil {
			return nil, err
		}
		values = append(values, value.Text)
	}
	return &TypeAnnotation{BaseType: "enum", EnumValues: values, Location: first.Pos()}, nil
}

func (p *parser) parseListType() (*TypeAnnotation, error) {
	kw := p.advance() // 'list'
	if _, err := p.expectKeyword("of"); err != nil {
		return nil, err
	}
	element := p.current()
	if element.Kind != lexer.TokenIdent &&
		!(element.Kind == lexer.TokenKeyword && lexer.IsPrimitive(element.Text)) {
		return nil, p.fail("element type after 'list of'")
	}
	p.advance()
	return &TypeAnnotation{BaseType: element.Text, IsList: true, Location: kw.Pos()}, nil
}

func (p *parser) parseArraySuffix(annotation *TypeAnnotation) (*TypeAnnotation, error) {
	if p.current().Kind == lexer.TokenLBracket {
		p.advance()
		if _, err := p.expect(lexer.TokenRBracket, "']'"); err != nil {
			return nil, err
		}
		annotation.IsList = true
	}
	return annotation, nil
}

// parseBulletDeclaration parses the shared shape of features and guides:
//
//	feature "Name":
//	  - free text bullet
func (p *parser) parseBulletDeclaration(keyword string) (string, []string, lexer.Position, []string, error) {
	ctx := p.takeContext()
	kw, err := p.expectKeyword(keyword)
	if err != nil {
		return "", nil, lexer.Position{}, nil, err
	}
	name, err := p.expect(lexer.TokenString, keyword+" name string")
	if err != nil {
		return "", nil, lexer.Position{}, nil, err
	}
	if _, err := p.expect(lexer.TokenColon, "':'"); err != nil {
		return "", nil, lexer.Position{}, nil, err
	}
	if _, err := p.expect(lexer.TokenNewline, "end of line"); err != nil {
		return "", nil, lexer.Position{}, nil, err
	}

	bullets := []string{}
	if p.current().Kind == lexer.TokenIndent {
		p.advance()
		for p.current().Kind == lexer.TokenDash {
			p.advance()
			text := ""
			if p.current().Kind == lexer.TokenText {
				text = p.advance().Text
			}
			if _, err := p.expect(lexer.TokenNewline, "end of line"); err != nil {
				return "", nil, lexer.Position{}, nil, err
			}
			bullets = append(bullets, text)
		}
		if _, err := p.expect(lexer.TokenDedent, "'-' bullet or end of block"); err != nil {
			return "", nil, lexer.Position{}, nil, err
		}
	}
	// Context comments between bullets document the declaration itself.
	ctx = append(ctx, p.takeContext()...)
	return name.Text, bullets, kw.Pos(), ctx, nil
}
