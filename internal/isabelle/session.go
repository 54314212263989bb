// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package isabelle

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/isasnips/internal/marker"
	"github.com/pdiddy/isasnips/pkg/types"
)

// makeRoot synthesizes the ROOT file for a single-theory session.
func makeRoot(theory string, library bool) string {
	parent := "HOL"
	if library {
		parent = `"HOL-Library"`
	}
	return fmt.Sprintf(`session %s = %s +
  theories
    %s
  document_files
    "root.tex"
`, SessionName, parent, theory)
}

// readTheory loads a theory file into its line representation.
func readTheory(path string) (types.Theory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Theory{}, fmt.Errorf("reading theory %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	text := strings.TrimSuffix(string(data), "\n")
	return types.Theory{Name: name, Path: path, Lines: strings.Split(text, "\n")}, nil
}

// PrepareFile sets up a synthetic session for one theory file: mkroot
// skeleton, marked theory, and a ROOT pointing at it. It returns the
// theory name.
func PrepareFile(tc Toolchain, thyPath, workDir string, library bool, w io.Writer) (string, error) {
	thy, err := readTheory(thyPath)
	if err != nil {
		return "", err
	}

	if err := tc.MkRoot(workDir, w); err != nil {
		return "", err
	}

	marked := marker.Mark(thy)
	if marked.Deferred > 0 {
		fmt.Fprintf(w, "warning: %s: %d line(s) could not be marked directly\n", thy.Name, marked.Deferred)
	}

	dst := filepath.Join(workDir, thy.Name+".thy")
	if err := os.WriteFile(dst, []byte(marked.Text()), 0o644); err != nil {
		return "", fmt.Errorf("writing marked theory: %w", err)
	}

	root := makeRoot(thy.Name, library)
	if err := os.WriteFile(filepath.Join(workDir, "ROOT"), []byte(root), 0o644); err != nil {
		return "", fmt.Errorf("writing ROOT: %w", err)
	}

	return thy.Name, nil
}

// PrepareDir copies an existing session directory into workDir, marking
// the selected theories (all .thy files when only is empty) and copying
// everything else verbatim. It returns the marked theory names in walk
// order and warns for requested theories that were not found.
func PrepareDir(srcDir, workDir string, only []string, w io.Writer) ([]string, error) {
	wanted := map[string]bool{}
	for _, t := range only {
		wanted[t] = true
	}

	var processed []string

	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(workDir, rel)

		if d.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}

		if filepath.Ext(path) == ".thy" {
			stem := strings.TrimSuffix(filepath.Base(path), ".thy")
			if len(only) == 0 || wanted[stem] {
				thy, err := readTheory(path)
				if err != nil {
					return err
				}
				marked := marker.Mark(thy)
				if marked.Deferred > 0 {
					fmt.Fprintf(w, "warning: %s: %d line(s) could not be marked directly\n", stem, marked.Deferred)
				}
				processed = append(processed, stem)
				return os.WriteFile(dst, []byte(marked.Text()), 0o644)
			}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(dst, data, 0o644)
	})
	if err != nil {
		return nil, fmt.Errorf("preparing session copy: %w", err)
	}

	for _, t := range only {
		found := false
		for _, p := range processed {
			if p == t {
				found = true
				break
			}
		}
		if !found {
			fmt.Fprintf(w, "warning: listed theory %s was not found\n", t)
		}
	}

	return processed, nil
}

// FindTheoryTeX walks the built session for the generated LaTeX of each
// theory. Missing documents are simply absent from the result; the
// caller decides how loud to be about them.
func FindTheoryTeX(root string, theories []string) (map[string]string, error) {
	wanted := map[string]bool{}
	for _, t := range theories {
		wanted[t] = true
	}

	found := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".tex" {
			return nil
		}
		stem := strings.TrimSuffix(filepath.Base(path), ".tex")
		if wanted[stem] {
			if _, dup := found[stem]; !dup {
				found[stem] = path
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("locating generated LaTeX: %w", err)
	}

	return found, nil
}
