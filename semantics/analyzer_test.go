package semantics

import (
	"testing"

	"github.com/compose-lang/compose/lexer"
	"github.com/compose-lang/compose/parser"
)

func analyzeSource(t *testing.T, src string) *Result {
	t.Helper()
	tokens, err := lexer.Tokenize(src, "test.compose")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return Analyze(program)
}

// Models may reference each other regardless of declaration order.
func TestDeclarationOrderDoesNotMatter(t *testing.T) {
	src := "model A:\n  b: B\nmodel B:\n  name: text\n"
	result := analyzeSource(t, src)
	if !result.Success {
		t.Fatalf("expected success, got errors: %v", result.Errors)
	}

	reversed := "model B:\n  name: text\nmodel A:\n  b: B\n"
	if result = analyzeSource(t, reversed); !result.Success {
		t.Fatalf("expected success for reversed order, got errors: %v", result.Errors)
	}
}

func TestSelfReferenceIsLegal(t *testing.T) {
	result := analyzeSource(t, "model User:\n  bestFriend: User?\n")
	if !result.Success {
		t.Fatalf("expected success, got errors: %v", result.Errors)
	}
}

func TestMutualReferenceIsLegal(t *testing.T) {
	src := "model A:\n  other: B\nmodel B:\n  other: A\n"
	if result := analyzeSource(t, src); !result.Success {
		t.Fatalf("expected success, got errors: %v", result.Errors)
	}
}

func TestUndefinedReference(t *testing.T) {
	result := analyzeSource(t, "model Order:\n  userId: Customer\n")
	if result.Success || len(result.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %v", result.Errors)
	}
	e := result.Errors[0]
	if e.Kind != UndefinedReference {
		t.Fatalf("expected UndefinedReference, got %v", e.Kind)
	}
	if e.Model != "Order" || e.Field != "userId" || e.TypeName != "Customer" {
		t.Fatalf("error does not name model, field and type: %#v", e)
	}
}

func TestDuplicateDefinition(t *testing.T) {
	src := "model User:\n  name: text\nmodel User:\n  email: text\n"
	result := analyzeSource(t, src)
	if result.Success || len(result.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %v", result.Errors)
	}
	e := result.Errors[0]
	if e.Kind != DuplicateDefinition || e.Name != "User" {
		t.Fatalf("unexpected error %#v", e)
	}
	// The second definition is dropped, not merged: the table still
	// resolves User to the first declaration's fields.
	def, ok := result.Table.LookupType(RootScope, "User")
	if !ok || len(def.Fields) != 1 || def.Fields[0].Name != "name" {
		t.Fatalf("first definition not preserved: %#v", def)
	}
}

// Analysis never aborts early: one compile reports every problem found.
func TestErrorsAccumulate(t *testing.T) {
	src := "model A:\n  x: Missing\n  y: AlsoMissing\nmodel A:\n  z: text\n"
	result := analyzeSource(t, src)
	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 accumulated errors, got %d: %v", len(result.Errors), result.Errors)
	}
}

func TestEnumShortCircuitsValidation(t *testing.T) {
	src := "model Order:\n  status: \"open\" | \"closed\"\n"
	if result := analyzeSource(t, src); !result.Success {
		t.Fatalf("expected success, got errors: %v", result.Errors)
	}
}

func TestListElementIsValidated(t *testing.T) {
	result := analyzeSource(t, "model Cart:\n  items: list of Item\n")
	if result.Success {
		t.Fatal("expected failure for undefined list element type")
	}
	if result.Errors[0].TypeName != "Item" {
		t.Fatalf("unexpected error %#v", result.Errors[0])
	}

	valid := "model Cart:\n  items: list of Item\nmodel Item:\n  sku: text\n"
	if r := analyzeSource(t, valid); !r.Success {
		t.Fatalf("expected success, got errors: %v", r.Errors)
	}
}

func TestPrimitivesPreRegistered(t *testing.T) {
	table := NewSymbolTable()
	for _, name := range lexer.PrimitiveTypes {
		def, ok := table.LookupType(RootScope, name)
		if !ok || def.Kind != TypePrimitive {
			t.Fatalf("primitive %q not pre-registered", name)
		}
	}
}

func TestChildScopeLookupFallsBackToParent(t *testing.T) {
	table := NewSymbolTable()
	child := table.NewScope(RootScope)
	if _, ok := table.LookupType(child, "text"); !ok {
		t.Fatal("child scope cannot see root primitives")
	}
	// Defining in the child must not touch the parent.
	table.DefineType(child, &TypeDefinition{Kind: TypeModel, Name: "Local"})
	if _, ok := table.LookupType(RootScope, "Local"); ok {
		t.Fatal("child definition leaked into root scope")
	}
}

func TestMergeFirstDefinitionWins(t *testing.T) {
	first := parseProgram(t, "model Shared:\n  v: text\n")
	second := parseProgram(t, "model Shared:\n  w: number\n")

	table := NewSymbolTable()
	Merge(table, first)
	Merge(table, second) // silently skipped

	def, ok := table.LookupType(RootScope, "Shared")
	if !ok || def.Fields[0].Name != "v" {
		t.Fatalf("expected first definition to win, got %#v", def)
	}
}

func parseProgram(t *testing.T, src string) *parser.Program {
	t.Helper()
	tokens, err := lexer.Tokenize(src, "test.compose")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return program
}
