// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/isasnips/pkg/types"
)

func group(theory, command, name string, lines ...string) Group {
	return Group{
		Theory:  theory,
		Command: command,
		Name:    name,
		Loc:     types.Location{Theory: theory, Line: 5},
		Lines:   lines,
	}
}

func TestAssembleSingleTheory(t *testing.T) {
	snippets, err := Assemble([]Group{
		group("Scratch", "definition", "pi", `\ {\isasympi}%`),
	}, false)
	require.NoError(t, err)
	require.Len(t, snippets, 1)

	assert.Equal(t, "definition:pi-0", snippets[0].Key)
	assert.Equal(t, "", snippets[0].Theory)
	assert.Equal(t, 0, snippets[0].Line)
}

func TestAssembleMultiTheoryPrefixes(t *testing.T) {
	snippets, err := Assemble([]Group{
		group("A", "definition", "x", "a"),
		group("B_Facts", "lemma", "y", "b"),
	}, true)
	require.NoError(t, err)
	require.Len(t, snippets, 2)

	assert.Equal(t, "A:definition:x-0", snippets[0].Key)
	// Theory-name underscores rewrite for identifier use.
	assert.Equal(t, "B-Facts:lemma:y-0", snippets[1].Key)
}

func TestAssembleContiguousLineNumbers(t *testing.T) {
	snippets, err := Assemble([]Group{
		group("Scratch", "fun", "fib", "l0", "l1", "l2"),
	}, false)
	require.NoError(t, err)
	require.Len(t, snippets, 3)

	for i, s := range snippets {
		assert.Equal(t, i, s.Line)
		assert.Equal(t, fmt.Sprintf("fun:fib-%d", i), s.Key)
	}
}

func TestAssembleConflict(t *testing.T) {
	first := group("Scratch", "definition", "pi", "a")
	second := group("Scratch", "definition", "pi", "b")
	second.Loc.Line = 9

	_, err := Assemble([]Group{first, second}, false)
	require.Error(t, err)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "definition:pi", conflict.Key)
	assert.Equal(t, 5, conflict.First.Line)
	assert.Equal(t, 9, conflict.Second.Line)
}

func TestAssembleNoCrossTheoryConflict(t *testing.T) {
	_, err := Assemble([]Group{
		group("A", "definition", "pi", "a"),
		group("B", "definition", "pi", "b"),
	}, true)
	assert.NoError(t, err)
}

func TestAssemblePreservesOrder(t *testing.T) {
	snippets, err := Assemble([]Group{
		group("A", "definition", "x", "a0", "a1"),
		group("A", "lemma", "y", "b0"),
		group("B", "datatype", "z", "c0"),
	}, true)
	require.NoError(t, err)

	var keys []string
	for _, s := range snippets {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{
		"A:definition:x-0", "A:definition:x-1",
		"A:lemma:y-0",
		"B:datatype:z-0",
	}, keys)
}

func TestRenderFormat(t *testing.T) {
	snippets, err := Assemble([]Group{
		group("Scratch", "definition", "pi", `\ {\isasympi}\ {\isasymequiv}\ {\isadigit{3}}%`),
	}, false)
	require.NoError(t, err)

	got := Render(snippets)
	want := "\\DefineSnippet{definition:pi-0}{%\n" +
		"\\ {\\isasympi}\\ {\\isasymequiv}\\ {\\isadigit{3}}%%\n" +
		"}%EndSnippet\n"
	assert.Equal(t, want, got)
}

func TestRenderMultiLineContent(t *testing.T) {
	snippets, err := Assemble([]Group{
		group("Scratch", "fun", "fib", "phys1\nphys2"),
	}, false)
	require.NoError(t, err)

	got := Render(snippets)
	assert.True(t, strings.HasPrefix(got, "\\DefineSnippet{fun:fib-0}{%\n"))
	assert.Contains(t, got, "phys1\nphys2%\n}%EndSnippet\n")
}
