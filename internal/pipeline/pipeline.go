// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates one extraction run: session preparation,
// the external build, and the per-theory scan/extract/name stages feeding
// the global assembler. See docs/ARCHITECTURE § Pipeline.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/isasnips/internal/assemble"
	"github.com/pdiddy/isasnips/internal/chunk"
	"github.com/pdiddy/isasnips/internal/index"
	"github.com/pdiddy/isasnips/internal/isabelle"
	"github.com/pdiddy/isasnips/internal/name"
	"github.com/pdiddy/isasnips/internal/scan"
	"github.com/pdiddy/isasnips/internal/symtab"
	"github.com/pdiddy/isasnips/pkg/types"
)

// Summary reports what a completed run produced.
type Summary struct {
	Theories int
	Blocks   int
	Snippets int
}

// Run executes the full pipeline for cfg, writing progress and warnings
// to w. Fatal failures (build errors, naming conflicts) return before
// the output file is touched; degraded cases (unresolved symbols, scan
// anomalies) are warned and the run completes.
func Run(ctx context.Context, tc isabelle.Toolchain, cfg types.ExtractConfig, w io.Writer) (Summary, error) {
	if !tc.Available() {
		return Summary{}, fmt.Errorf("isabelle binary not found on PATH")
	}

	tab := symtab.Default()
	if cfg.SymbolsFile != "" {
		var err error
		tab, err = tab.LoadOverrides(cfg.SymbolsFile)
		if err != nil {
			return Summary{}, err
		}
	}

	info, err := os.Stat(cfg.Input)
	if err != nil {
		return Summary{}, fmt.Errorf("input %s: %w", cfg.Input, err)
	}

	workDir, err := os.MkdirTemp("", "isasnips-*")
	if err != nil {
		return Summary{}, fmt.Errorf("creating working directory: %w", err)
	}
	if cfg.KeepWorkDir {
		fmt.Fprintf(w, "Working directory: %s\n", workDir)
	} else {
		defer os.RemoveAll(workDir)
	}

	theories := cfg.Theories
	if info.IsDir() {
		processed, err := isabelle.PrepareDir(cfg.Input, workDir, cfg.Theories, w)
		if err != nil {
			return Summary{}, err
		}
		if len(theories) == 0 {
			theories = processed
		}
	} else {
		thy, err := isabelle.PrepareFile(tc, cfg.Input, workDir, cfg.Build.Library, w)
		if err != nil {
			return Summary{}, err
		}
		theories = append(theories, thy)
	}
	if len(theories) == 0 {
		return Summary{}, fmt.Errorf("no theories to process in %s", cfg.Input)
	}

	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	if err := tc.Build(workDir, cfg.Build, w); err != nil {
		return Summary{}, err
	}

	texPaths, err := isabelle.FindTheoryTeX(workDir, theories)
	if err != nil {
		return Summary{}, err
	}

	var groups []assemble.Group
	var summary Summary

	for _, thy := range theories {
		if err := ctx.Err(); err != nil {
			return Summary{}, err
		}

		texPath, ok := texPaths[thy]
		if !ok {
			fmt.Fprintf(w, "warning: no generated LaTeX found for theory %s\n", thy)
			continue
		}

		thyGroups, err := extractTheory(thy, texPath, tab, w)
		if err != nil {
			return Summary{}, err
		}

		groups = append(groups, thyGroups...)
		summary.Theories++
		summary.Blocks += len(thyGroups)
	}

	snippets, err := assemble.Assemble(groups, len(theories) > 1)
	if err != nil {
		return Summary{}, err
	}
	summary.Snippets = len(snippets)

	if err := os.WriteFile(cfg.Output, []byte(assemble.Render(snippets)), 0o644); err != nil {
		return Summary{}, fmt.Errorf("writing snippets to %s: %w", cfg.Output, err)
	}

	if cfg.IndexDir != "" {
		if err := record(ctx, cfg.IndexDir, snippets); err != nil {
			fmt.Fprintf(w, "warning: snippet index not updated: %v\n", err)
		}
	}

	fmt.Fprintf(w, "%d snippet(s) from %d theor(ies) written to %s\n",
		summary.Snippets, summary.Theories, cfg.Output)
	return summary, nil
}

// extractTheory runs the scan/extract/name stages for one generated
// document. The stages of different theories are independent; the caller
// merges their groups in document order.
func extractTheory(thy, texPath string, tab *symtab.Table, w io.Writer) ([]assemble.Group, error) {
	f, err := os.Open(texPath)
	if err != nil {
		return nil, fmt.Errorf("opening generated LaTeX %s: %w", texPath, err)
	}
	defer f.Close()

	events, err := scan.New(tab, w).Scan(f)
	if err != nil {
		return nil, err
	}

	namer := name.New(tab)

	var groups []assemble.Group
	for _, b := range chunk.Partition(events) {
		if b.Theory == "" {
			b.Theory = thy
		}

		base := namer.Name(b, w)
		if base == "" {
			continue
		}

		g := assemble.Group{
			Theory:  thy,
			Command: name.SanitizeKeyword(b.Keyword),
			Name:    base,
			Loc:     b.Loc(),
		}
		for _, line := range b.Lines {
			g.Lines = append(g.Lines, strings.Join(line, "\n"))
		}
		if len(g.Lines) == 0 {
			continue
		}
		groups = append(groups, g)
	}

	return groups, nil
}

// record updates the snippet index for a completed run.
func record(ctx context.Context, dir string, snippets []types.Snippet) error {
	store, err := index.Open(dir)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Replace(ctx, snippets)
}

// DefaultIndexDir is where extract records the run unless configured
// otherwise.
var DefaultIndexDir = filepath.Join(".isasnips", "index")
