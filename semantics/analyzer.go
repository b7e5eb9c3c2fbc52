// analyzer.go checks a program against its symbol table: every model is
// registered before any field is validated, so declaration order never
// matters and self-references are legal. Unlike the lexer and parser this
// pass keeps going after an error so one compile reports every problem.
package semantics

import (
	"fmt"

	"github.com/compose-lang/compose/lexer"
	"github.com/compose-lang/compose/parser"
)

// ErrorKind distinguishes the semantic error variants.
type ErrorKind int

const (
	DuplicateDefinition ErrorKind = iota
	UndefinedReference
)

// Error is one accumulated semantic diagnostic.
type Error struct {
	Kind     ErrorKind
	Name     string // duplicated name, for DuplicateDefinition
	Model    string // owning model, for UndefinedReference
	Field    string // offending field, for UndefinedReference
	TypeName string // unresolved type, for UndefinedReference
	Location lexer.Position
}

func (e *Error) Error() string {
	switch e.Kind {
	case DuplicateDefinition:
		return fmt.Sprintf("duplicate definition of %q at %s", e.Name, e.Location)
	case UndefinedReference:
		return fmt.Sprintf("field %q of model %q references undefined type %q at %s",
			e.Field, e.Model, e.TypeName, e.Location)
	default:
		return fmt.Sprintf("semantic error at %s", e.Location)
	}
}

// Result is the outcome of one analysis pass.
type Result struct {
	Success bool
	Errors  []*Error
	Table   *SymbolTable
}

// Analyze validates program against a fresh symbol table.
func Analyze(program *parser.Program) *Result {
	return AnalyzeIn(program, NewSymbolTable())
}

// AnalyzeIn validates program against a table that may already hold symbols
// merged from imported modules.
func AnalyzeIn(program *parser.Program, table *SymbolTable) *Result {
	result := &Result{Table: table}

	// Pass 1: register every model as both a type and a symbol. A second
	// definition of the same name is an error and is dropped, not merged.
	for _, model := range program.Models {
		if !defineModel(table, model) {
			result.Errors = append(result.Errors, &Error{
				Kind:     DuplicateDefinition,
				Name:     model.Name,
				Location: model.Location,
			})
		}
	}

	// Pass 2: resolve every field's base type. The table is fully
	// populated by now, so forward and self references just work.
	for _, model := range program.Models {
		for _, field := range model.Fields {
			if err := checkField(table, model, field); err != nil {
				result.Errors = append(result.Errors, err)
			}
		}
	}

	result.Success = len(result.Errors) == 0
	return result
}

// Merge registers program's models into table with first-definition-wins
// semantics: collisions are skipped silently. Used when folding imported
// modules into the entry compilation.
func Merge(table *SymbolTable, program *parser.Program) {
	for _, model := range program.Models {
		defineModel(table, model)
	}
}

func defineModel(table *SymbolTable, model *parser.ModelDeclaration) bool {
	ok := table.DefineType(RootScope, &TypeDefinition{
		Kind:     TypeModel,
		Name:     model.Name,
		Fields:   model.Fields,
		Location: model.Location,
	})
	if !ok {
		return false
	}
	table.DefineSymbol(RootScope, &Symbol{
		Name:     model.Name,
		Kind:     SymbolModel,
		TypeRef:  model.Name,
		Location: model.Location,
	})
	return true
}

func checkField(table *SymbolTable, model *parser.ModelDeclaration, field *parser.FieldDeclaration) *Error {
	// Enums are self-describing: nothing to resolve.
	if field.Type.IsEnum() {
		return nil
	}
	name := field.Type.BaseType
	if lexer.IsPrimitive(name) {
		return nil
	}
	if _, ok := table.LookupType(RootScope, name); ok {
		return nil
	}
	return &Error{
		Kind:     UndefinedReference,
		Model:    model.Name,
		Field:    field.Name,
		TypeName: name,
		Location: field.Location,
	}
}
