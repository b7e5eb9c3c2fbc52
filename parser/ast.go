// Package parser builds Compose ASTs from token streams.
// ast.go defines the declaration records that make up a program.
package parser

import "github.com/compose-lang/compose/lexer"

// Program is the root of a parsed source file.
type Program struct {
	Imports  []*ImportDeclaration  `json:"imports"`
	Models   []*ModelDeclaration   `json:"models"`
	Features []*FeatureDeclaration `json:"features"`
	Guides   []*GuideDeclaration   `json:"guides"`
}

// Declaration is implemented by every top-level declaration. Each variant
// is a plain data record; consumers switch on the concrete type.
type Declaration interface {
	DeclKind() string
	Pos() lexer.Position
}

// ImportDeclaration pulls another source file into the compilation.
type ImportDeclaration struct {
	Path     string         `json:"path"`
	Location lexer.Position `json:"location"`
}

func (d *ImportDeclaration) DeclKind() string { return "import" }
func (d *ImportDeclaration) Pos() lexer.Position { return d.Location }

// ModelDeclaration declares a named data model and its fields.
type ModelDeclaration struct {
	Name     string              `json:"name"`
	Fields   []*FieldDeclaration `json:"fields"`
	Context  []string            `json:"context,omitempty"`
	Location lexer.Position      `json:"location"`
}

func (d *ModelDeclaration) DeclKind() string { return "model" }
func (d *ModelDeclaration) Pos() lexer.Position { return d.Location }

// FieldDeclaration is one field inside a model.
type FieldDeclaration struct {
	Name        string          `json:"name"`
	Type        *TypeAnnotation `json:"type"`
	Optional    bool            `json:"optional"`
	Constraints []string        `json:"constraints"`
	Location    lexer.Position  `json:"location"`
}

// TypeAnnotation covers primitives, model references, list-of-X and
// string-literal enums ("a" | "b").
type TypeAnnotation struct {
	BaseType   string         `json:"base_type"`
	IsList     bool           `json:"is_list"`
	EnumValues []string       `json:"enum_values,omitempty"`
	Location   lexer.Position `json:"location"`
}

// IsEnum reports whether the annotation is a string-literal enum.
func (t *TypeAnnotation) IsEnum() bool {
	return len(t.EnumValues) > 0
}

// FeatureDeclaration is a named set of free-text behavior bullets.
// Bullets are not parsed further: they are consumed downstream as-is.
type FeatureDeclaration struct {
	Name        string         `json:"name"`
	BulletItems []string       `json:"bullet_items"`
	Context     []string       `json:"context,omitempty"`
	Location    lexer.Position `json:"location"`
}

func (d *FeatureDeclaration) DeclKind() string { return "feature" }
func (d *FeatureDeclaration) Pos() lexer.Position { return d.Location }

// GuideDeclaration is a named set of implementation-hint bullets, which
// may embed @reference markers pointing at external source code.
type GuideDeclaration struct {
	Name        string         `json:"name"`
	BulletItems []string       `json:"bullet_items"`
	Context     []string       `json:"context,omitempty"`
	Location    lexer.Position `json:"location"`
}

func (d *GuideDeclaration) DeclKind() string { return "guide" }
func (d *GuideDeclaration) Pos() lexer.Position { return d.Location }
