package reference

import (
	"strings"
	"testing"
)

func TestParseMarker(t *testing.T) {
	path, symbol, ok := ParseMarker("@reference/pricing.py::calculate_discount")
	if !ok || path != "pricing.py" || symbol != "calculate_discount" {
		t.Fatalf("unexpected parse: %q %q %v", path, symbol, ok)
	}

	path, symbol, ok = ParseMarker("@reference/lib/util.ts")
	if !ok || path != "lib/util.ts" || symbol != "" {
		t.Fatalf("unexpected parse: %q %q %v", path, symbol, ok)
	}

	if _, _, ok := ParseMarker("not a marker"); ok {
		t.Fatal("expected failure for non-marker text")
	}
	if _, _, ok := ParseMarker("@reference/"); ok {
		t.Fatal("expected failure for empty path")
	}
}

func TestFindMarkers(t *testing.T) {
	text := "use @reference/a.py::f and also @reference/b.sql, please"
	markers := FindMarkers(text)
	if len(markers) != 2 {
		t.Fatalf("expected 2 markers, got %v", markers)
	}
	if markers[0] != "@reference/a.py::f" || markers[1] != "@reference/b.sql" {
		t.Fatalf("unexpected markers %v", markers)
	}
}

// The extracted span contains only the named function, not its neighbors.
func TestExtractPythonSymbol(t *testing.T) {
	ref := Load("@reference/pricing.py::calculate_discount", "testdata")
	if ref == nil {
		t.Fatal("expected a reference")
	}
	if ref.Language != "python" || ref.Symbol != "calculate_discount" {
		t.Fatalf("unexpected reference %#v", ref)
	}
	if !strings.Contains(ref.Content, "def calculate_discount") {
		t.Fatalf("missing definition:\n%s", ref.Content)
	}
	if strings.Contains(ref.Content, "calculate_total") || strings.Contains(ref.Content, "validate_order") {
		t.Fatalf("neighboring functions leaked into span:\n%s", ref.Content)
	}
}

func TestExtractBracedSymbol(t *testing.T) {
	ref := Load("@reference/cart.js::cartSubtotal", "testdata")
	if ref == nil {
		t.Fatal("expected a reference")
	}
	if ref.Language != "javascript" {
		t.Fatalf("unexpected language %q", ref.Language)
	}
	if !strings.Contains(ref.Content, "function cartSubtotal") {
		t.Fatalf("missing definition:\n%s", ref.Content)
	}
	if strings.Contains(ref.Content, "itemCount") || strings.Contains(ref.Content, "formatPrice") {
		t.Fatalf("neighboring functions leaked into span:\n%s", ref.Content)
	}
}

func TestExtractArrowFunction(t *testing.T) {
	ref := Load("@reference/cart.js::formatPrice", "testdata")
	if ref == nil {
		t.Fatal("expected a reference")
	}
	if !strings.Contains(ref.Content, "formatPrice = (amount)") {
		t.Fatalf("missing arrow definition:\n%s", ref.Content)
	}
	if strings.Contains(ref.Content, "cartSubtotal") {
		t.Fatalf("neighboring function leaked into span:\n%s", ref.Content)
	}
}

func TestExtractSQLStatement(t *testing.T) {
	ref := Load("@reference/orders.sql::order_total", "testdata")
	if ref == nil {
		t.Fatal("expected a reference")
	}
	if ref.Language != "sql" {
		t.Fatalf("unexpected language %q", ref.Language)
	}
	if !strings.Contains(ref.Content, "CREATE FUNCTION order_total") {
		t.Fatalf("missing definition:\n%s", ref.Content)
	}
	if strings.Contains(ref.Content, "order_count") {
		t.Fatalf("neighboring function leaked into span:\n%s", ref.Content)
	}
}

// An unresolvable symbol degrades to the whole file, never a failure.
func TestSymbolNotFoundFallsBackToWholeFile(t *testing.T) {
	ref := Load("@reference/pricing.py::no_such_function", "testdata")
	if ref == nil {
		t.Fatal("expected a reference")
	}
	if !strings.Contains(ref.Content, "calculate_total") ||
		!strings.Contains(ref.Content, "validate_order") {
		t.Fatalf("expected whole-file fallback, got:\n%s", ref.Content)
	}
}

func TestMissingFileReturnsNil(t *testing.T) {
	if ref := Load("@reference/nope.py::f", "testdata"); ref != nil {
		t.Fatalf("expected nil for missing file, got %#v", ref)
	}
}

func TestWholeFileWithoutSymbol(t *testing.T) {
	ref := Load("@reference/pricing.py", "testdata")
	if ref == nil {
		t.Fatal("expected a reference")
	}
	if ref.Symbol != "" {
		t.Fatalf("unexpected symbol %q", ref.Symbol)
	}
	if !strings.Contains(ref.Content, "calculate_total") {
		t.Fatal("expected whole file content")
	}
}

func TestUnknownExtensionLanguage(t *testing.T) {
	// Language inference is purely extension based.
	path, _, _ := ParseMarker("@reference/notes.weird")
	if path != "notes.weird" {
		t.Fatalf("unexpected path %q", path)
	}
	ref := Load("@reference/pricing.py", "testdata")
	if ref.Language != "python" {
		t.Fatalf("expected python, got %q", ref.Language)
	}
}
