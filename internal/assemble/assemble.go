// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble emits the snippet output document from named command
// blocks. See docs/ARCHITECTURE § Snippet Assembler.
//
// Every output line of every block becomes one \DefineSnippet macro,
// keyed [theory:]command:name-lineno with contiguous line numbers from
// zero. The consuming LaTeX macros advance a counter until a key fails
// to resolve, so gaps or duplicates would silently truncate or mis-wire
// cross-references; duplicates are therefore a hard error.
package assemble

import (
	"fmt"
	"strings"

	"github.com/pdiddy/isasnips/pkg/types"
)

const (
	beginSnippet = `\DefineSnippet`
	endSnippet   = `%EndSnippet`
)

// Group is one named command block ready for emission: its identity and
// its output lines in order.
type Group struct {
	// Theory is the originating theory name.
	Theory string

	// Command is the sanitized command keyword.
	Command string

	// Name is the derived base name.
	Name string

	// Loc is the block's source location, for conflict diagnostics.
	Loc types.Location

	// Lines is the LaTeX content of each output line, in order.
	Lines []string
}

// ConflictError reports two blocks in one run resolving to the same
// snippet group key.
type ConflictError struct {
	Key    string
	First  types.Location
	Second types.Location
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("naming conflict: %q derived for blocks at %s and %s",
		e.Key, e.First, e.Second)
}

// Assemble turns groups into the ordered snippet sequence. Groups must
// arrive in document order per theory; emission preserves that order,
// with line numbers ascending within each group. The theory prefix is
// applied only on multi-theory runs. A duplicate group key aborts with
// ConflictError before any snippet is considered emitted.
func Assemble(groups []Group, multi bool) ([]types.Snippet, error) {
	firstSeen := map[string]types.Location{}

	var snippets []types.Snippet
	for _, g := range groups {
		prefix := ""
		if multi {
			prefix = escapeUnderscores(g.Theory)
		}

		key := groupKey(prefix, g.Command, g.Name)
		if loc, dup := firstSeen[key]; dup {
			return nil, &ConflictError{Key: key, First: loc, Second: g.Loc}
		}
		firstSeen[key] = g.Loc

		for i, content := range g.Lines {
			snippets = append(snippets, types.Snippet{
				Key:     fmt.Sprintf("%s-%d", key, i),
				Theory:  prefix,
				Command: g.Command,
				Name:    g.Name,
				Line:    i,
				Content: content,
			})
		}
	}

	return snippets, nil
}

// groupKey formats the group identifier with an optional theory prefix.
func groupKey(prefix, command, name string) string {
	if prefix != "" {
		return fmt.Sprintf("%s:%s:%s", prefix, command, name)
	}
	return fmt.Sprintf("%s:%s", command, name)
}

// Render concatenates snippets into the output document text.
func Render(snippets []types.Snippet) string {
	var b strings.Builder
	for _, s := range snippets {
		fmt.Fprintf(&b, "%s{%s}{%%\n", beginSnippet, s.Key)
		b.WriteString(s.Content)
		b.WriteString("%\n}" + endSnippet + "\n")
	}
	return b.String()
}

// escapeUnderscores rewrites theory-name underscores for identifier use.
func escapeUnderscores(s string) string {
	return strings.ReplaceAll(s, "_", "-")
}
