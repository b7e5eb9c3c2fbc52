// Package ir builds the framework-agnostic intermediate representation
// handed to the downstream code generator.
// ir.go defines the IR value types. The IR owns copies of everything it
// needs and holds no references back into the AST or symbol table, so it
// can outlive the compilation that produced it.
package ir

import "github.com/compose-lang/compose/reference"

// IR is the terminal artifact of a compile. It is never mutated after
// construction and serializes directly to JSON.
type IR struct {
	Models   []*Model   `json:"models"`
	Features []*Feature `json:"features"`
	Guides   []*Guide   `json:"guides"`
	Imports  []string   `json:"imports"`
}

// Model is the normalized form of a model declaration.
type Model struct {
	Name   string   `json:"name"`
	Fields []*Field `json:"fields"`
}

// Field is one model field.
type Field struct {
	Name        string   `json:"name"`
	Type        *Type    `json:"type"`
	Optional    bool     `json:"optional"`
	Constraints []string `json:"constraints"`
}

// Type is a normalized type annotation.
type Type struct {
	BaseType   string   `json:"base_type"`
	IsArray    bool     `json:"is_array"`
	EnumValues []string `json:"enum_values,omitempty"`
}

// Feature carries a feature's free-text hints.
type Feature struct {
	Name  string   `json:"name"`
	Hints []string `json:"hints"`
}

// Guide carries a guide's hints plus any reference code its bullets point
// at. References is empty, never nil, when nothing resolved.
type Guide struct {
	Name       string                 `json:"name"`
	Hints      []string               `json:"hints"`
	References []*reference.Reference `json:"references"`
}
