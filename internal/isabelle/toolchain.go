// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package isabelle invokes the external Isabelle toolchain and prepares
// session directories for marked builds. See docs/ARCHITECTURE § Toolchain.
package isabelle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pdiddy/isasnips/pkg/types"
)

// DefaultBinary is the isabelle executable resolved on PATH.
const DefaultBinary = "isabelle"

// SessionName is the synthetic session built for single-file runs.
const SessionName = "isasnips"

// Toolchain wraps the isabelle subcommands the pipeline needs. The build
// is synchronous: Build returns only once the external process has
// exited and its artifacts exist on disk.
type Toolchain interface {
	// Available reports whether the isabelle binary can be resolved.
	Available() bool

	// MkRoot runs "isabelle mkroot" for the synthetic session in dir.
	MkRoot(dir string, w io.Writer) error

	// Build runs "isabelle build" on the session rooted at dir. A
	// non-zero exit is fatal for the run; diagnostics stream through
	// unmodified.
	Build(dir string, cfg types.BuildConfig, w io.Writer) error
}

// executor abstracts process execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(dir string, stdout, stderr io.Writer, name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(dir string, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// CLI is the production Toolchain over the isabelle binary.
type CLI struct {
	bin  string
	exec executor
}

// New returns a Toolchain for the given binary name or path; empty
// selects the default.
func New(bin string) *CLI {
	if bin == "" {
		bin = DefaultBinary
	}
	return &CLI{bin: bin, exec: &osExecutor{}}
}

func (c *CLI) Available() bool {
	_, err := c.exec.LookPath(c.bin)
	return err == nil
}

func (c *CLI) MkRoot(dir string, w io.Writer) error {
	return c.run(dir, w, "mkroot", "-n", SessionName)
}

func (c *CLI) Build(dir string, cfg types.BuildConfig, w io.Writer) error {
	args := []string{
		"build", "-c", "-D", ".",
		"-o", "document=pdf",
		"-o", "document_output=output",
	}
	if cfg.QuickAndDirty {
		args = append(args, "-o", "quick_and_dirty")
	}
	return c.run(dir, w, args...)
}

// run executes one isabelle subcommand, echoing its stdout line by line
// with an indent so toolchain output is distinguishable from our own.
// Stderr passes through untouched.
func (c *CLI) run(dir string, w io.Writer, args ...string) error {
	fmt.Fprintf(w, "Running %s %s >>>\n", c.bin, strings.Join(args, " "))

	pr, pw := io.Pipe()
	done := make(chan struct{})
	go func() {
		sc := bufio.NewScanner(pr)
		for sc.Scan() {
			fmt.Fprintf(w, "  %s\n", sc.Text())
		}
		close(done)
	}()

	err := c.exec.Run(dir, pw, os.Stderr, c.bin, args...)
	pw.Close()
	<-done

	fmt.Fprintln(w, "<<<")

	if err != nil {
		return fmt.Errorf("isabelle %s: %w", args[0], err)
	}
	return nil
}
