// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data model shared across the isasnips pipeline
// stages. See docs/ARCHITECTURE § Data Model.
package types

// Theory is one source unit of declarations and proofs, processed
// independently. Lines are the raw source lines in order; a Theory is
// immutable once read.
type Theory struct {
	// Name is the theory name (the .thy file stem).
	Name string

	// Path is the source file the theory was read from.
	Path string

	// Lines holds the source text, one entry per line, without terminators.
	Lines []string
}

// MarkedTheory is a Theory rewritten so that every source line's provenance
// survives through the Isabelle LaTeX generation. Produced once per Theory
// and handed to the external build; never mutated afterward.
type MarkedTheory struct {
	// Name is the originating theory's name.
	Name string

	// Lines is the marked source text, original lines interleaved with
	// provenance-tag directives.
	Lines []string

	// Deferred counts command-looking lines that could not carry a marker
	// (inside strings, cartouches or comments) and are covered by the
	// enclosing block's tag instead.
	Deferred int
}

// Text joins the marked lines into the file content written for the build.
func (m MarkedTheory) Text() string {
	out := ""
	for i, l := range m.Lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out + "\n"
}
