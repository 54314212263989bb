// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package symtab maps Isabelle symbolic notation to ASCII identifier
// fragments. See docs/ARCHITECTURE § Symbol Table.
//
// Generated LaTeX encodes theory text with two macro families:
// {\isachar<name>} for plain ASCII punctuation and {\isasym<name>} for
// symbols such as Greek letters. The table resolves both: character
// macros decode to the rune they stand for, symbol macros to an ASCII
// spelling usable inside a snippet identifier.
package symtab

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Table is a static lookup from macro names to decoded text. Zero state
// beyond the maps; safe for concurrent reads.
type Table struct {
	chars   map[string]rune
	symbols map[string]string
}

// chars covers the {\isachar<name>} vocabulary the generated output uses
// for ASCII punctuation.
var chars = map[string]rune{
	"underscore":       '_',
	"prime":            '\'',
	"colon":            ':',
	"semicolon":        ';',
	"comma":            ',',
	"dot":              '.',
	"equal":            '=',
	"less":             '<',
	"greater":          '>',
	"plus":             '+',
	"minus":            '-',
	"asterisk":         '*',
	"slash":            '/',
	"backslash":        '\\',
	"bar":              '|',
	"percent":          '%',
	"hash":             '#',
	"dollar":           '$',
	"ampersand":        '&',
	"at":               '@',
	"bang":             '!',
	"query":            '?',
	"circum":           '^',
	"tilde":            '~',
	"backquote":        '`',
	"parenleft":        '(',
	"parenright":       ')',
	"brackleft":        '[',
	"brackright":       ']',
	"braceleft":        '{',
	"braceright":       '}',
	"doublequote":      '"',
	"doublequoteopen":  '"',
	"doublequoteclose": '"',
}

// symbols covers the {\isasym<name>} vocabulary that may appear inside
// declared names: the Greek alphabet plus common notation whose Isabelle
// name already is a usable ASCII spelling. Anything absent here is an
// unresolved symbol for naming purposes.
var symbols = map[string]string{
	"alpha": "alpha", "beta": "beta", "gamma": "gamma", "delta": "delta",
	"epsilon": "epsilon", "zeta": "zeta", "eta": "eta", "theta": "theta",
	"iota": "iota", "kappa": "kappa", "lambda": "lambda", "mu": "mu",
	"nu": "nu", "xi": "xi", "pi": "pi", "rho": "rho", "sigma": "sigma",
	"tau": "tau", "upsilon": "upsilon", "phi": "phi", "chi": "chi",
	"psi": "psi", "omega": "omega",
	"Gamma": "Gamma", "Delta": "Delta", "Theta": "Theta", "Lambda": "Lambda",
	"Xi": "Xi", "Pi": "Pi", "Sigma": "Sigma", "Upsilon": "Upsilon",
	"Phi": "Phi", "Psi": "Psi", "Omega": "Omega",
	"nat": "nat", "int": "int", "real": "real", "rat": "rat",
	"equiv": "equiv", "noteq": "noteq", "le": "le", "ge": "ge",
	"times": "times", "circ": "circ", "star": "star", "bullet": "bullet",
	"oplus": "oplus", "otimes": "otimes", "infinity": "infinity",
	"Rightarrow": "Rightarrow", "rightarrow": "rightarrow",
	"Leftarrow": "Leftarrow", "leftarrow": "leftarrow",
	"longrightarrow": "longrightarrow", "mapsto": "mapsto",
}

// Default returns the built-in table.
func Default() *Table {
	return &Table{chars: chars, symbols: symbols}
}

// Char resolves a character macro name ({\isachar<name>}) to its rune.
func (t *Table) Char(name string) (rune, bool) {
	r, ok := t.chars[name]
	return r, ok
}

// Symbol resolves a symbol macro name ({\isasym<name>}) to its ASCII
// spelling.
func (t *Table) Symbol(name string) (string, bool) {
	s, ok := t.symbols[name]
	return s, ok
}

// overridesFile is the on-disk shape of a symbol override file.
type overridesFile struct {
	Symbols map[string]string `yaml:"symbols"`
}

// LoadOverrides merges user symbol spellings from a YAML file over the
// built-ins and returns the extended table. The receiver is not modified.
func (t *Table) LoadOverrides(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading symbol overrides %s: %w", path, err)
	}

	var of overridesFile
	if err := yaml.Unmarshal(data, &of); err != nil {
		return nil, fmt.Errorf("parsing symbol overrides %s: %w", path, err)
	}

	merged := make(map[string]string, len(t.symbols)+len(of.Symbols))
	for k, v := range t.symbols {
		merged[k] = v
	}
	for k, v := range of.Symbols {
		merged[k] = v
	}

	return &Table{chars: t.chars, symbols: merged}, nil
}
