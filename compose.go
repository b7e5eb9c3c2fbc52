// Package compose is the compiler front end for the Compose architecture
// description language. Compile is the sole public entry point: it runs
// lexing, parsing, module loading, semantic analysis and IR construction,
// and hands back a serializable result. Code generation, output writing
// and CLI concerns live with external collaborators that consume the IR.
//
// A compilation is synchronous and self-contained: every call builds its
// own lexer, parser, symbol table and module loader, so independent
// compilations can run concurrently without locking.
package compose

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/compose-lang/compose/ir"
	"github.com/compose-lang/compose/lexer"
	"github.com/compose-lang/compose/modules"
	"github.com/compose-lang/compose/parser"
	"github.com/compose-lang/compose/semantics"
)

// Options controls a single compilation.
type Options struct {
	// LoadImports resolves and loads import declarations. When false,
	// imports are recorded in the IR but not followed.
	LoadImports bool
	// BaseDir anchors bare import paths and @reference paths. Defaults
	// to the directory of the file being compiled.
	BaseDir string
	// SrcRoot is the conventional source directory tried when resolving
	// bare import paths. Defaults to <BaseDir>/src.
	SrcRoot string
}

// Result is the outcome of one compile. On failure IR is nil and Errors
// holds every diagnostic the failing pass could accumulate.
type Result struct {
	Success  bool                   `json:"success"`
	Errors   []*Diagnostic          `json:"errors"`
	Warnings []string               `json:"warnings,omitempty"`
	Program  *parser.Program        `json:"ast,omitempty"`
	Table    *semantics.SymbolTable `json:"-"`
	IR       *ir.IR                 `json:"ir,omitempty"`
}

// Compile runs the full pipeline over source. path names the source for
// diagnostics and import resolution; it does not have to exist on disk.
// Compile never panics on malformed input: internal faults are converted
// to AnalysisError diagnostics.
func Compile(source, path string, opts Options) (result *Result) {
	result = &Result{Errors: []*Diagnostic{}}

	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Errors = append(result.Errors, &Diagnostic{
				Type:    ErrAnalysis,
				Message: fmt.Sprintf("internal error: %v", r),
			})
		}
	}()

	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = filepath.Dir(path)
	}

	tokens, err := lexer.Tokenize(source, path)
	if err != nil {
		result.Errors = append(result.Errors, toDiagnostic(err))
		return result
	}

	program, err := parser.Parse(tokens)
	if err != nil {
		result.Errors = append(result.Errors, toDiagnostic(err))
		return result
	}
	result.Program = program

	table := semantics.NewSymbolTable()
	if opts.LoadImports && len(program.Imports) > 0 {
		loader := modules.NewLoader(baseDir, opts.SrcRoot)
		mods, err := loader.Load(path, program)
		if err != nil {
			result.Errors = append(result.Errors, toDiagnostic(err))
			return result
		}
		// Fold dependency symbols into the entry table in dependency
		// order; the entry module itself is analyzed below.
		entry := mods[len(mods)-1]
		for _, mod := range mods {
			if mod == entry {
				continue
			}
			semantics.Merge(table, mod.Program)
		}
	}

	analysis := semantics.AnalyzeIn(program, table)
	result.Table = analysis.Table
	for _, e := range analysis.Errors {
		result.Errors = append(result.Errors, toDiagnostic(e))
	}
	if len(result.Errors) > 0 {
		return result
	}

	result.IR, result.Warnings = ir.Build(program, baseDir)
	result.Success = true
	return result
}

// CompileFile reads and compiles one source file.
func CompileFile(path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Compile(string(data), path, opts), nil
}
