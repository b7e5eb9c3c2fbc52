package ir

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/compose-lang/compose/lexer"
	"github.com/compose-lang/compose/parser"
)

func parseSource(t *testing.T, src string) *parser.Program {
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

func TestBuildModels(t *testing.T) {
	src := "import \"shared/common\"\n" +
		"model Order:\n" +
		"  status: \"open\" | \"closed\"\n" +
		"  items: list of Item\n" +
		"  note: text? (short)\n" +
		"model Item:\n" +
		"  sku: text\n"
	out, warnings := Build(parseSource(t, src), "")
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings %v", warnings)
	}
	if len(out.Models) != 2 || len(out.Imports) != 1 {
		t.Fatalf("unexpected IR shape: %d models, %d imports", len(out.Models), len(out.Imports))
	}
	order := out.Models[0]
	if order.Name != "Order" || len(order.Fields) != 3 {
		t.Fatalf("unexpected model %#v", order)
	}
	if got := order.Fields[0].Type.EnumValues; len(got) != 2 || got[0] != "open" {
		t.Fatalf("enum values lost: %v", got)
	}
	if !order.Fields[1].Type.IsArray || order.Fields[1].Type.BaseType != "Item" {
		t.Fatalf("list type lost: %#v", order.Fields[1].Type)
	}
	if !order.Fields[2].Optional || order.Fields[2].Constraints[0] != "short" {
		t.Fatalf("optional/constraints lost: %#v", order.Fields[2])
	}
}

func TestGuideReferencesAttached(t *testing.T) {
	dir := t.TempDir()
	py := "def helper(x):\n    return x\n\ndef other(y):\n    return y\n"
	if err := os.WriteFile(filepath.Join(dir, "logic.py"), []byte(py), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	src := "guide \"Logic\":\n  - port @reference/logic.py::helper as-is\n"
	out, warnings := Build(parseSource(t, src), dir)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings %v", warnings)
	}
	guide := out.Guides[0]
	if len(guide.References) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(guide.References))
	}
	ref := guide.References[0]
	if ref.Language != "python" || ref.Symbol != "helper" || ref.Path != "logic.py" {
		t.Fatalf("unexpected reference %#v", ref)
	}
	if strings.Contains(ref.Content, "def other") {
		t.Fatalf("extraction leaked neighbor:\n%s", ref.Content)
	}
}

// A dangling reference leaves the guide intact with an empty list.
func TestMissingReferenceDoesNotFailBuild(t *testing.T) {
	src := "guide \"Broken\":\n  - see @reference/missing.py::f\n"
	out, warnings := Build(parseSource(t, src), t.TempDir())
	if len(out.Guides) != 1 {
		t.Fatalf("expected 1 guide, got %d", len(out.Guides))
	}
	if len(out.Guides[0].References) != 0 {
		t.Fatalf("expected no references, got %v", out.Guides[0].References)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected a warning, got %v", warnings)
	}
}

// Building twice from the same AST yields structurally identical IR.
func TestBuildIsDeterministic(t *testing.T) {
	src := "model A:\n  x: text\nfeature \"F\":\n  - does things\nguide \"G\":\n  - hints\n"
	program := parseSource(t, src)
	first, _ := Build(program, "")
	second, _ := Build(program, "")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("IR not deterministic:\n%#v\n%#v", first, second)
	}
}

// The serialized field names are part of the emitter contract.
func TestJSONFieldNames(t *testing.T) {
	src := "model A:\n  tags: text[]\nfeature \"F\":\n  - hint\n"
	out, _ := Build(parseSource(t, src), "")
	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	s := string(data)
	for _, key := range []string{
		`"models"`, `"features"`, `"guides"`, `"imports"`,
		`"base_type"`, `"is_array"`, `"optional"`, `"constraints"`, `"hints"`,
	} {
		if !strings.Contains(s, key) {
			t.Fatalf("serialized IR missing %s:\n%s", key, s)
		}
	}
}

func TestIRIsDetachedFromAST(t *testing.T) {
	src := "model A:\n  x: text (c1)\n"
	program := parseSource(t, src)
	out, _ := Build(program, "")
	program.Models[0].Fields[0].Constraints[0] = "mutated"
	if out.Models[0].Fields[0].Constraints[0] != "c1" {
		t.Fatal("IR shares memory with the AST")
	}
}
