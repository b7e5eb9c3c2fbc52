// Package modules resolves import declarations to files and loads the
// dependency closure of an entry module in topological order.
package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/compose-lang/compose/lexer"
	"github.com/compose-lang/compose/parser"
)

// Ext is the source-file extension appended to import paths that omit it.
const Ext = ".compose"

// Module is one loaded source file: its resolved path, parsed AST, and the
// resolved paths of the files it imports. Dependencies are lexed and parsed
// only; semantic analysis runs once, on the entry module, after merging.
type Module struct {
	Path         string
	Program      *parser.Program
	Dependencies []string
}

// NotFoundError reports an import path that resolved to no file.
type NotFoundError struct {
	Path       string // the import string as written
	ImportedBy string // resolved path of the importing file
}

func (e *NotFoundError) Error() string {
	if e.ImportedBy != "" {
		return fmt.Sprintf("module %q imported by %s not found", e.Path, e.ImportedBy)
	}
	return fmt.Sprintf("module %q not found", e.Path)
}

// CircularImportError reports an import cycle. Cycle holds the resolved
// paths along the loop, first module repeated at the end: [A, B, C, A].
type CircularImportError struct {
	Cycle []string
}

func (e *CircularImportError) Error() string {
	return fmt.Sprintf("circular import: %s", strings.Join(e.Cycle, " -> "))
}

// Loader loads modules for a single entry point. Its cache and loading set
// are private to the instance; concurrent compilations each get their own
// Loader and never share one.
type Loader struct {
	baseDir string
	srcRoot string

	cache   map[string]*Module
	loading map[string]bool
	stack   []string // resolved paths currently being loaded, for cycle reporting
}

// NewLoader creates a loader rooted at baseDir. srcRoot is the conventional
// source directory tried before baseDir when resolving bare import paths;
// pass "" to default to <baseDir>/src.
func NewLoader(baseDir, srcRoot string) *Loader {
	if srcRoot == "" {
		srcRoot = filepath.Join(baseDir, "src")
	}
	return &Loader{
		baseDir: baseDir,
		srcRoot: srcRoot,
		cache:   map[string]*Module{},
		loading: map[string]bool{},
	}
}

// Load compiles entryPath and its transitive imports, returning modules in
// dependency order (dependencies before dependents, the entry last). When
// entryProgram is non-nil it is used as the entry's AST instead of reading
// and parsing the file again.
func (l *Loader) Load(entryPath string, entryProgram *parser.Program) ([]*Module, error) {
	entry, err := filepath.Abs(entryPath)
	if err != nil {
		return nil, err
	}
	if _, err := l.load(entry, entryProgram); err != nil {
		return nil, err
	}
	return l.order(entry), nil
}

// load runs the depth-first traversal. A module still marked as loading
// when revisited closes an import cycle, which is fatal immediately:
// import-graph integrity is a precondition for every later pass.
func (l *Loader) load(path string, program *parser.Program) (*Module, error) {
	if l.loading[path] {
		return nil, &CircularImportError{Cycle: l.cyclePath(path)}
	}
	if mod, ok := l.cache[path]; ok {
		return mod, nil
	}

	l.loading[path] = true
	l.stack = append(l.stack, path)
	defer func() {
		delete(l.loading, path)
		l.stack = l.stack[:len(l.stack)-1]
	}()

	if program == nil {
		var err error
		program, err = compileFile(path)
		if err != nil {
			return nil, err
		}
	}

	mod := &Module{Path: path, Program: program}
	fromDir := filepath.Dir(path)
	for _, imp := range program.Imports {
		resolved, err := l.resolve(imp.Path, fromDir)
		if err != nil {
			return nil, &NotFoundError{Path: imp.Path, ImportedBy: path}
		}
		if _, err := l.load(resolved, nil); err != nil {
			return nil, err
		}
		mod.Dependencies = append(mod.Dependencies, resolved)
	}

	l.cache[path] = mod
	return mod, nil
}

func (l *Loader) cyclePath(path string) []string {
	for i, p := range l.stack {
		if p == path {
			cycle := make([]string, 0, len(l.stack)-i+1)
			cycle = append(cycle, l.stack[i:]...)
			return append(cycle, path)
		}
	}
	return []string{path, path}
}

// resolve maps an import string to an existing file path. Explicitly
// relative and absolute paths resolve against the importing file; bare
// paths try the src root, then the project base directory.
func (l *Loader) resolve(importPath, fromDir string) (string, error) {
	p := importPath
	if !strings.HasSuffix(p, Ext) {
		p += Ext
	}

	var candidates []string
	switch {
	case filepath.IsAbs(p):
		candidates = []string{p}
	case strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../"):
		candidates = []string{filepath.Join(fromDir, p)}
	default:
		candidates = []string{
			filepath.Join(l.srcRoot, p),
			filepath.Join(l.baseDir, p),
		}
	}

	for _, candidate := range candidates {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			return abs, nil
		}
	}
	return "", &NotFoundError{Path: importPath}
}

// order produces the topological order of the loaded graph using an
// iterative depth-first traversal. Cycles were rejected during loading, so
// this always terminates; sibling order follows each module's import order,
// making the result deterministic.
func (l *Loader) order(entry string) []*Module {
	var sorted []*Module
	visited := map[string]bool{}

	type frame struct {
		path    string
		nextDep int
	}
	stack := []frame{{path: entry}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		mod := l.cache[top.path]
		if top.nextDep == 0 {
			visited[top.path] = true
		}
		if top.nextDep < len(mod.Dependencies) {
			dep := mod.Dependencies[top.nextDep]
			top.nextDep++
			if !visited[dep] {
				stack = append(stack, frame{path: dep})
			}
			continue
		}
		sorted = append(sorted, mod)
		stack = stack[:len(stack)-1]
	}
	return sorted
}

// compileFile runs the front half of the pipeline (lex, parse) on one file.
// Lex and parse failures of a dependency abort the load: the errors carry
// the dependency's own file position.
func compileFile(path string) (*parser.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tokens, err := lexer.Tokenize(string(data), path)
	if err != nil {
		return nil, err
	}
	return parser.Parse(tokens)
}
