// Package semantics resolves names and types over a parsed program.
// symbols.go holds the scope arena and symbol table.
package semantics

import (
	"github.com/compose-lang/compose/lexer"
	"github.com/compose-lang/compose/parser"
)

// SymbolKind classifies what a name refers to.
type SymbolKind int

const (
	SymbolModel SymbolKind = iota
	SymbolPrimitive
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolModel:
		return "model"
	case SymbolPrimitive:
		return "primitive"
	default:
		return "unknown"
	}
}

// TypeKind classifies a type definition.
type TypeKind int

const (
	TypePrimitive TypeKind = iota
	TypeModel
)

// Symbol is a named entity declared in the program.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	TypeRef  string
	Location lexer.Position
}

// TypeDefinition describes a resolvable type: a primitive or a model.
type TypeDefinition struct {
	Kind     TypeKind
	Name     string
	Fields   []*parser.FieldDeclaration
	Location lexer.Position
}

// scope is one level of the lookup chain. Children hold the arena index of
// their parent rather than a pointer; scopes live and die with one compile.
type scope struct {
	parent  int // -1 for the root
	symbols map[string]*Symbol
	types   map[string]*TypeDefinition
}

// SymbolTable owns all scopes of a compilation in a flat arena. Scope 0 is
// the root and comes pre-registered with the primitive types.
type SymbolTable struct {
	scopes []*scope
}

// RootScope is the index of the table's root scope.
const RootScope = 0

// NewSymbolTable creates a table whose root scope knows every primitive.
func NewSymbolTable() *SymbolTable {
	t := &SymbolTable{}
	t.NewScope(-1)
	for _, name := range lexer.PrimitiveTypes {
		t.scopes[RootScope].types[name] = &TypeDefinition{Kind: TypePrimitive, Name: name}
	}
	return t
}

// NewScope appends a scope with the given parent index and returns its index.
func (t *SymbolTable) NewScope(parent int) int {
	t.scopes = append(t.scopes, &scope{
		parent:  parent,
		symbols: map[string]*Symbol{},
		types:   map[string]*TypeDefinition{},
	})
	return len(t.scopes) - 1
}

// DefineSymbol adds a symbol to the given scope. It reports false if the
// name is already taken in that scope; the caller decides whether that is
// an error (same-file duplicate) or a silent skip (cross-module merge).
func (t *SymbolTable) DefineSymbol(scopeIdx int, sym *Symbol) bool {
	s := t.scopes[scopeIdx]
	if _, exists := s.symbols[sym.Name]; exists {
		return false
	}
	s.symbols[sym.Name] = sym
	return true
}

// DefineType adds a type definition to the given scope, reporting false on
// a name collision within that scope.
func (t *SymbolTable) DefineType(scopeIdx int, def *TypeDefinition) bool {
	s := t.scopes[scopeIdx]
	if _, exists := s.types[def.Name]; exists {
		return false
	}
	s.types[def.Name] = def
	return true
}

// LookupSymbol walks the parent chain starting at scopeIdx.
func (t *SymbolTable) LookupSymbol(scopeIdx int, name string) (*Symbol, bool) {
	for i := scopeIdx; i >= 0; i = t.scopes[i].parent {
		if sym, ok := t.scopes[i].symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupType walks the parent chain starting at scopeIdx.
func (t *SymbolTable) LookupType(scopeIdx int, name string) (*TypeDefinition, bool) {
	for i := scopeIdx; i >= 0; i = t.scopes[i].parent {
		if def, ok := t.scopes[i].types[name]; ok {
			return def, true
		}
	}
	return nil, false
}

// Models returns the names of the model types defined in the root scope.
func (t *SymbolTable) Models() []string {
	var names []string
	for name, def := range t.scopes[RootScope].types {
		if def.Kind == TypeModel {
			names = append(names, name)
		}
	}
	return names
}
