// errors.go defines the uniform error record exposed to callers. Every
// internal failure mode maps onto one serializable shape so the CLI layer
// and other collaborators can render diagnostics without knowing which
// pass produced them.
package compose

import (
	"fmt"

	"github.com/compose-lang/compose/lexer"
	"github.com/compose-lang/compose/modules"
	"github.com/compose-lang/compose/parser"
	"github.com/compose-lang/compose/semantics"
)

// ErrorType names the diagnostic taxonomy.
type ErrorType string

const (
	ErrLex                 ErrorType = "LexError"
	ErrParse               ErrorType = "ParseError"
	ErrDuplicateDefinition ErrorType = "DuplicateDefinition"
	ErrUndefinedReference  ErrorType = "UndefinedReference"
	ErrCircularImport      ErrorType = "CircularImport"
	ErrModuleNotFound      ErrorType = "ModuleNotFound"
	ErrAnalysis            ErrorType = "AnalysisError"
)

// Location is a serializable source position.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Diagnostic is the error record shape shared with every caller.
type Diagnostic struct {
	Type     ErrorType `json:"type"`
	Message  string    `json:"message"`
	Location Location  `json:"location"`
}

func (d *Diagnostic) Error() string {
	if d.Location.File == "" && d.Location.Line == 0 {
		return fmt.Sprintf("%s: %s", d.Type, d.Message)
	}
	return fmt.Sprintf("%s: %s at %s:%d:%d",
		d.Type, d.Message, d.Location.File, d.Location.Line, d.Location.Column)
}

func locationOf(pos lexer.Position) Location {
	return Location{File: pos.File, Line: pos.Line, Column: pos.Column}
}

// toDiagnostic folds any error produced by the pipeline into the uniform
// record. Unknown error values become AnalysisError rather than escaping
// as uncaught faults.
func toDiagnostic(err error) *Diagnostic {
	switch e := err.(type) {
	case *Diagnostic:
		return e
	case *lexer.LexError:
		return &Diagnostic{Type: ErrLex, Message: e.Message, Location: locationOf(e.Pos())}
	case *parser.ParseError:
		return &Diagnostic{
			Type:     ErrParse,
			Message:  fmt.Sprintf("expected %s, found %s", e.Expected, e.Found),
			Location: locationOf(e.Location),
		}
	case *semantics.Error:
		t := ErrDuplicateDefinition
		if e.Kind == semantics.UndefinedReference {
			t = ErrUndefinedReference
		}
		return &Diagnostic{Type: t, Message: e.Error(), Location: locationOf(e.Location)}
	case *modules.CircularImportError:
		return &Diagnostic{Type: ErrCircularImport, Message: e.Error()}
	case *modules.NotFoundError:
		return &Diagnostic{
			Type:     ErrModuleNotFound,
			Message:  e.Error(),
			Location: Location{File: e.ImportedBy},
		}
	default:
		return &Diagnostic{Type: ErrAnalysis, Message: err.Error()}
	}
}
