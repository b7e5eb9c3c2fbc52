// project.go discovers .compose sources and compiles them.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	compose "github.com/compose-lang/compose"
	"github.com/compose-lang/compose/modules"
)

// Directories never worth walking into.
var skipDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	"generated":    {},
	"dist":         {},
	"build":        {},
}

// FindSourceFiles returns every .compose file under root, honoring the
// project's .gitignore and skipping the usual junk directories. Results
// come back in walk order, which is deterministic.
func FindSourceFiles(root string) ([]string, error) {
	gi := loadGitignore(root)

	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, skip := skipDirs[d.Name()]; skip {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, modules.Ext) {
			return nil
		}
		if gi != nil {
			if rel, err := filepath.Rel(root, path); err == nil && gi.MatchesPath(rel) {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// BuildResult summarizes one whole-project compile.
type BuildResult struct {
	Results map[string]*compose.Result // keyed by source path
	Failed  []string                   // paths whose compile did not succeed
}

// Build compiles every .compose file in the project rooted at root and
// collects per-file results. It returns an error only for infrastructure
// failures (unreadable config or tree); compile diagnostics are data.
func Build(root string) (*BuildResult, error) {
	cfg, err := LoadConfig(root)
	if err != nil {
		return nil, err
	}

	files, err := FindSourceFiles(root)
	if err != nil {
		return nil, err
	}

	build := &BuildResult{Results: map[string]*compose.Result{}}
	opts := compose.Options{
		LoadImports: true,
		BaseDir:     root,
		SrcRoot:     cfg.SrcRoot(root),
	}
	for _, file := range files {
		result, err := compose.CompileFile(file, opts)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		build.Results[file] = result
		if !result.Success {
			build.Failed = append(build.Failed, file)
		}
	}
	return build, nil
}

// Report renders a short human-readable build summary, one line per
// diagnostic.
func (b *BuildResult) Report() string {
	var sb strings.Builder
	for _, file := range b.Failed {
		for _, d := range b.Results[file].Errors {
			fmt.Fprintf(&sb, "%s\n", d.Error())
		}
	}
	fmt.Fprintf(&sb, "%d files compiled, %d failed\n", len(b.Results), len(b.Failed))
	return sb.String()
}
