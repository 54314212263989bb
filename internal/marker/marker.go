// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package marker rewrites theory source so the provenance of each line
// survives the Isabelle LaTeX generation. See docs/ARCHITECTURE § Line Marker.
//
// Markers are text_raw directives carrying a LaTeX comment, which makes
// them inert for both the Isabelle parser and the generated document.
// Document markup commands are only legal between outer commands, so a
// marker is placed at every safe boundary: a top-level line that starts
// a new outer command, outside strings, cartouches and comments. Lines
// that cannot carry a marker inherit the enclosing block's first tag;
// their offsets are recovered downstream from \isanewline breaks.
package marker

import (
	"fmt"
	"strings"

	"github.com/pdiddy/isasnips/pkg/types"
)

// TagPrefix starts every provenance tag in generated output.
const TagPrefix = "%:snipmark:"

// Tag formats the provenance tag for a 1-based source line.
func Tag(theory string, line int) string {
	return fmt.Sprintf("%s%s:%d:", TagPrefix, theory, line)
}

// directive wraps a tag in the text_raw form injected into the source.
func directive(theory string, line int) string {
	return fmt.Sprintf(`text_raw \<open>%s\<close>`, Tag(theory, line))
}

// outerKeywords are the outer commands a marker may directly precede.
// Proof-script commands are deliberately absent: document markup is not
// legal inside a proof, so proof lines stay unmarked and the enclosing
// block's tag covers them.
var outerKeywords = map[string]bool{
	"theory": true, "end": true,
	"section": true, "subsection": true, "subsubsection": true,
	"chapter": true, "paragraph": true,
	"text": true, "txt": true, "text_raw": true,
	"definition": true, "abbreviation": true, "axiomatization": true,
	"datatype": true, "type_synonym": true, "record": true,
	"fun": true, "function": true, "primrec": true, "termination": true,
	"lemma": true, "theorem": true, "corollary": true, "proposition": true,
	"locale": true, "context": true, "instantiation": true, "instance": true,
	"inductive": true, "inductive_set": true, "declare": true,
	"notation": true, "no_notation": true, "value": true, "export_code": true,
}

// state tracks the multi-line regions a marker must not interrupt.
type state struct {
	inQuote   bool
	cartouche int
	comment   int
}

func (s state) safe() bool {
	return !s.inQuote && s.cartouche == 0 && s.comment == 0
}

// advance updates the region state across one source line.
func (s *state) advance(line string) {
	i := 0
	for i < len(line) {
		switch {
		case s.comment > 0:
			if strings.HasPrefix(line[i:], "*)") {
				s.comment--
				i += 2
				continue
			}
			if strings.HasPrefix(line[i:], "(*") {
				s.comment++
				i += 2
				continue
			}
		case s.inQuote:
			if line[i] == '"' {
				s.inQuote = false
				i++
				continue
			}
		case s.cartouche > 0:
			if strings.HasPrefix(line[i:], `\<close>`) {
				s.cartouche--
				i += len(`\<close>`)
				continue
			}
			if strings.HasPrefix(line[i:], `\<open>`) {
				s.cartouche++
				i += len(`\<open>`)
				continue
			}
		default:
			if strings.HasPrefix(line[i:], "(*") {
				s.comment++
				i += 2
				continue
			}
			if line[i] == '"' {
				s.inQuote = true
				i++
				continue
			}
			if strings.HasPrefix(line[i:], `\<open>`) {
				s.cartouche++
				i += len(`\<open>`)
				continue
			}
		}
		i++
	}
}

// startsOuter reports whether a line opens a new outer command.
func startsOuter(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	return outerKeywords[fields[0]]
}

// Mark produces the marked variant of a theory. The rewrite is
// semantics-preserving: original lines are copied verbatim and marker
// directives are inserted only between outer commands.
func Mark(t types.Theory) types.MarkedTheory {
	m := types.MarkedTheory{Name: t.Name}

	var st state

	for i, line := range t.Lines {
		opens := startsOuter(line)

		switch {
		case opens && st.safe():
			m.Lines = append(m.Lines, directive(t.Name, i+1))
		case opens:
			// A keyword-looking line inside a string or comment is
			// content, not a command; its tag is deferred to the next
			// outer-command boundary.
			m.Deferred++
		}

		m.Lines = append(m.Lines, line)
		st.advance(line)
	}

	return m
}
