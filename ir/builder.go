// builder.go walks a validated AST and emits the IR. The mapping is 1:1
// for models, fields and types; guides additionally get their @reference
// markers resolved and attached.
package ir

import (
	"fmt"

	"github.com/compose-lang/compose/parser"
	"github.com/compose-lang/compose/reference"
)

// Build constructs the IR for a program. baseDir anchors @reference paths.
// The returned warnings describe reference markers that did not resolve;
// they never fail the build.
func Build(program *parser.Program, baseDir string) (*IR, []string) {
	out := &IR{
		Models:   []*Model{},
		Features: []*Feature{},
		Guides:   []*Guide{},
		Imports:  []string{},
	}
	var warnings []string

	for _, imp := range program.Imports {
		out.Imports = append(out.Imports, imp.Path)
	}

	for _, model := range program.Models {
		out.Models = append(out.Models, buildModel(model))
	}

	for _, feature := range program.Features {
		out.Features = append(out.Features, &Feature{
			Name:  feature.Name,
			Hints: copyStrings(feature.BulletItems),
		})
	}

	for _, guide := range program.Guides {
		g := &Guide{
			Name:       guide.Name,
			Hints:      copyStrings(guide.BulletItems),
			References: []*reference.Reference{},
		}
		for _, hint := range guide.BulletItems {
			for _, marker := range reference.FindMarkers(hint) {
				ref := reference.Load(marker, baseDir)
				if ref == nil {
					warnings = append(warnings,
						fmt.Sprintf("guide %q: reference %s could not be loaded", guide.Name, marker))
					continue
				}
				g.References = append(g.References, ref)
			}
		}
		out.Guides = append(out.Guides, g)
	}

	return out, warnings
}

func buildModel(model *parser.ModelDeclaration) *Model {
	m := &Model{Name: model.Name, Fields: make([]*Field, 0, len(model.Fields))}
	for _, field := range model.Fields {
		m.Fields = append(m.Fields, &Field{
			Name: field.Name,
			Type: &Type{
				BaseType:   field.Type.BaseType,
				IsArray:    field.Type.IsList,
				EnumValues: copyStrings(field.Type.EnumValues),
			},
			Optional:    field.Optional,
			Constraints: copyStrings(field.Constraints),
		})
	}
	return m
}

// copyStrings detaches a slice from the AST so the IR owns its data.
func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
