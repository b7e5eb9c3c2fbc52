// Package reference loads source snippets pointed at by @reference markers
// embedded in guide text. Reference code is advisory context for downstream
// generation, so every failure here degrades gracefully: a missing file
// yields nil and an unresolvable symbol falls back to the whole file.
package reference

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Marker syntax: @reference/<relative-path>[::<symbol>]
const markerPrefix = "@reference/"

var markerRe = regexp.MustCompile(`@reference/\S+`)

// Reference is an extracted code snippet, ready to cross the IR boundary.
type Reference struct {
	Content  string `json:"content"`
	Language string `json:"language"`
	Symbol   string `json:"symbol,omitempty"`
	Path     string `json:"path"`
}

// languageByExt is the fixed extension → language table. Language inference
// uses nothing but the extension.
var languageByExt = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".go":   "go",
	".java": "java",
	".rb":   "ruby",
	".rs":   "rust",
	".c":    "c",
	".h":    "c",
	".sql":  "sql",
}

// extractFunc locates one symbol's source span in a file's lines. It
// reports false when the symbol cannot be found.
type extractFunc func(lines []string, symbol string) ([]string, bool)

// extractors is the strategy table mapping a language to its span
// heuristic. Supporting a new language is a table entry.
var extractors = map[string]extractFunc{
	"python":     extractIndented,
	"javascript": extractBraced,
	"typescript": extractBraced,
	"go":         extractBraced,
	"java":       extractBraced,
	"rust":       extractBraced,
	"c":          extractBraced,
	"sql":        extractStatement,
}

// FindMarkers returns every @reference marker embedded in text.
func FindMarkers(text string) []string {
	var markers []string
	for _, m := range markerRe.FindAllString(text, -1) {
		markers = append(markers, strings.TrimRight(m, ".,;!?)"))
	}
	return markers
}

// ParseMarker splits a marker into its file path and optional symbol name.
func ParseMarker(marker string) (path, symbol string, ok bool) {
	if !strings.HasPrefix(marker, markerPrefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(marker, markerPrefix)
	if rest == "" {
		return "", "", false
	}
	if i := strings.Index(rest, "::"); i >= 0 {
		return rest[:i], rest[i+2:], rest[:i] != ""
	}
	return rest, "", true
}

// Load resolves a marker against baseDir and extracts the referenced code.
// It returns nil when the marker is malformed or the file does not exist;
// the caller continues without failing the build.
func Load(marker, baseDir string) *Reference {
	relPath, symbol, ok := ParseMarker(marker)
	if !ok {
		return nil
	}
	fullPath := filepath.Join(baseDir, relPath)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil
	}

	language := languageByExt[strings.ToLower(filepath.Ext(relPath))]
	if language == "" {
		language = "text"
	}
	content := string(data)

	if symbol != "" {
		if extract, ok := extractors[language]; ok {
			if span, found := extract(strings.Split(content, "\n"), symbol); found {
				content = strings.Join(span, "\n")
			}
			// Symbol not found: fall back to the whole file rather
			// than dropping the reference.
		}
	}

	return &Reference{
		Content:  content,
		Language: language,
		Symbol:   symbol,
		Path:     relPath,
	}
}
