// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Snippet is one addressable, line-granular LaTeX macro definition: a key
// plus exactly one output line of generated LaTeX.
type Snippet struct {
	// Key is the full identifier: [theory:]command:name-lineno.
	Key string `json:"key" yaml:"key"`

	// Theory is the originating theory name ("" in single-theory runs).
	Theory string `json:"theory,omitempty" yaml:"theory,omitempty"`

	// Command is the outer-command keyword (definition, lemma, ...).
	Command string `json:"command" yaml:"command"`

	// Name is the derived base name (declared name or content hash).
	Name string `json:"name" yaml:"name"`

	// Line is the zero-based line number within the snippet group.
	Line int `json:"line" yaml:"line"`

	// Content is the verbatim LaTeX of this output line.
	Content string `json:"content" yaml:"content"`
}

// GroupKey identifies the snippet group this snippet belongs to:
// the Key without the trailing line number.
func (s Snippet) GroupKey() string {
	if s.Theory != "" {
		return fmt.Sprintf("%s:%s:%s", s.Theory, s.Command, s.Name)
	}
	return fmt.Sprintf("%s:%s", s.Command, s.Name)
}

// Location points at a command block's approximate origin, used in
// conflict and symbol diagnostics.
type Location struct {
	// Theory is the theory name.
	Theory string

	// Line is the first marked source line of the block, or -1 when no
	// provenance tag reached the block.
	Line int
}

func (l Location) String() string {
	if l.Line < 0 {
		return l.Theory
	}
	return fmt.Sprintf("%s:%d", l.Theory, l.Line)
}
