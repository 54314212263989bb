// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/isasnips/internal/assemble"
	"github.com/pdiddy/isasnips/internal/index"
	"github.com/pdiddy/isasnips/pkg/types"
)

// fakeToolchain plays the external build: it drops canned generated
// LaTeX into the session's output directory.
type fakeToolchain struct {
	texByTheory map[string]string // theory name → generated document
	buildErr    error
	unavailable bool
}

func (f *fakeToolchain) Available() bool { return !f.unavailable }

func (f *fakeToolchain) MkRoot(dir string, w io.Writer) error { return nil }

func (f *fakeToolchain) Build(dir string, cfg types.BuildConfig, w io.Writer) error {
	if f.buildErr != nil {
		return f.buildErr
	}
	docDir := filepath.Join(dir, "output", "document")
	if err := os.MkdirAll(docDir, 0o755); err != nil {
		return err
	}
	for thy, tex := range f.texByTheory {
		if err := os.WriteFile(filepath.Join(docDir, thy+".tex"), []byte(tex), 0o644); err != nil {
			return err
		}
	}
	return nil
}

const scratchThy = `theory Scratch
  imports Main
begin

definition "\<pi> \<equiv> 3"

end
`

// generatedTeX builds a plausible generated document for one theory with
// the given command fragments spliced between header and footer.
func generatedTeX(theory string, body ...string) string {
	header := fmt.Sprintf(`%%
\begin{isabellebody}%%
\setisabellecontext{%s}%%
%%
\isadelimtheory
%%
\endisadelimtheory
%%
\isatagtheory
%%:snipmark:%s:1:
\isacommand{theory}\isamarkupfalse%%
\ %s\isanewline
\isakeyword{imports}\ Main\isanewline
\isakeyword{begin}%%
\endisatagtheory
{\isafoldtheory}%%
%%
\isadelimtheory
%%
\endisadelimtheory
%%
`, theory, theory, theory)

	footer := `%
\isadelimtheory
%
\endisadelimtheory
%
\isatagtheory
\isacommand{end}\isamarkupfalse%
%
\endisatagtheory
{\isafoldtheory}%
\end{isabellebody}%
`
	return header + strings.Join(body, "") + footer
}

func definitionPi(theory string, srcLine int) string {
	return fmt.Sprintf(`%%:snipmark:%s:%d:
\isacommand{definition}\isamarkupfalse%%
\ {\isachardoublequoteopen}{\isasympi}\ {\isasymequiv}\ {\isadigit{3}}{\isachardoublequoteclose}%%
`, theory, srcLine)
}

func writeTheory(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(scratchThy), 0o644))
	return path
}

func TestRunSingleTheory(t *testing.T) {
	dir := t.TempDir()
	thyPath := writeTheory(t, dir, "Scratch.thy")
	out := filepath.Join(dir, "snips.tex")

	tc := &fakeToolchain{texByTheory: map[string]string{
		"Scratch": generatedTeX("Scratch", definitionPi("Scratch", 5)),
	}}

	var diag strings.Builder
	summary, err := Run(context.Background(), tc, types.ExtractConfig{
		Input:  thyPath,
		Output: out,
	}, &diag)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Theories)
	assert.Equal(t, 1, summary.Blocks)
	assert.Equal(t, 1, summary.Snippets)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	content := string(data)

	// Single-theory runs carry no theory prefix.
	assert.Contains(t, content, `\DefineSnippet{definition:pi-0}{%`)
	assert.NotContains(t, content, "Scratch:definition")
	assert.Contains(t, content, `}%EndSnippet`)
	assert.Contains(t, content, `{\isasympi}`)
}

func TestRunMultiTheoryPrefixes(t *testing.T) {
	dir := t.TempDir()
	session := filepath.Join(dir, "session")
	require.NoError(t, os.MkdirAll(session, 0o755))
	writeTheory(t, session, "A.thy")
	writeTheory(t, session, "B.thy")
	out := filepath.Join(dir, "snips.tex")

	tc := &fakeToolchain{texByTheory: map[string]string{
		"A": generatedTeX("A", definitionPi("A", 5)),
		"B": generatedTeX("B", definitionPi("B", 5)),
	}}

	summary, err := Run(context.Background(), tc, types.ExtractConfig{
		Input:  session,
		Output: out,
	}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Theories)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `\DefineSnippet{A:definition:pi-0}{%`)
	assert.Contains(t, string(data), `\DefineSnippet{B:definition:pi-0}{%`)
}

func TestRunNamingConflictAborts(t *testing.T) {
	dir := t.TempDir()
	thyPath := writeTheory(t, dir, "Scratch.thy")
	out := filepath.Join(dir, "snips.tex")

	tc := &fakeToolchain{texByTheory: map[string]string{
		"Scratch": generatedTeX("Scratch",
			definitionPi("Scratch", 5),
			definitionPi("Scratch", 7)),
	}}

	_, err := Run(context.Background(), tc, types.ExtractConfig{
		Input:  thyPath,
		Output: out,
	}, io.Discard)
	require.Error(t, err)

	var conflict *assemble.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "definition:pi", conflict.Key)

	// The output file is untouched on conflict.
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunBuildFailureAborts(t *testing.T) {
	dir := t.TempDir()
	thyPath := writeTheory(t, dir, "Scratch.thy")
	out := filepath.Join(dir, "snips.tex")

	tc := &fakeToolchain{buildErr: fmt.Errorf("isabelle build: exit status 1")}

	_, err := Run(context.Background(), tc, types.ExtractConfig{
		Input:  thyPath,
		Output: out,
	}, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "isabelle build")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunToolchainUnavailable(t *testing.T) {
	tc := &fakeToolchain{unavailable: true}
	_, err := Run(context.Background(), tc, types.ExtractConfig{
		Input:  "whatever.thy",
		Output: "out.tex",
	}, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRunMissingInput(t *testing.T) {
	tc := &fakeToolchain{}
	_, err := Run(context.Background(), tc, types.ExtractConfig{
		Input:  filepath.Join(t.TempDir(), "nope.thy"),
		Output: "out.tex",
	}, io.Discard)
	assert.Error(t, err)
}

func TestRunRecordsIndex(t *testing.T) {
	dir := t.TempDir()
	thyPath := writeTheory(t, dir, "Scratch.thy")
	out := filepath.Join(dir, "snips.tex")
	idxDir := filepath.Join(dir, "index")

	tc := &fakeToolchain{texByTheory: map[string]string{
		"Scratch": generatedTeX("Scratch", definitionPi("Scratch", 5)),
	}}

	_, err := Run(context.Background(), tc, types.ExtractConfig{
		Input:    thyPath,
		Output:   out,
		IndexDir: idxDir,
	}, io.Discard)
	require.NoError(t, err)

	store, err := index.Open(idxDir)
	require.NoError(t, err)
	defer store.Close()

	groups, err := store.Groups(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "definition:pi", groups[0].Key())
}

func TestRunWarnsOnMissingGeneratedTeX(t *testing.T) {
	dir := t.TempDir()
	thyPath := writeTheory(t, dir, "Scratch.thy")
	out := filepath.Join(dir, "snips.tex")

	// The build succeeds but produces no document for the theory.
	tc := &fakeToolchain{texByTheory: map[string]string{}}

	var diag strings.Builder
	summary, err := Run(context.Background(), tc, types.ExtractConfig{
		Input:  thyPath,
		Output: out,
	}, &diag)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Theories)
	assert.Contains(t, diag.String(), "no generated LaTeX found for theory Scratch")
}

func TestRunCancelledContext(t *testing.T) {
	dir := t.TempDir()
	thyPath := writeTheory(t, dir, "Scratch.thy")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tc := &fakeToolchain{}
	_, err := Run(ctx, tc, types.ExtractConfig{
		Input:  thyPath,
		Output: filepath.Join(dir, "snips.tex"),
	}, io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}
