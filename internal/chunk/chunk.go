// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chunk partitions the markup event stream into command blocks.
// See docs/ARCHITECTURE § Command Extractor.
package chunk

import (
	"github.com/pdiddy/isasnips/internal/scan"
	"github.com/pdiddy/isasnips/pkg/types"
)

// Block is a maximal run of markup events belonging to one outer command:
// the command keyword, the ordered output lines of its generated LaTeX,
// and the first provenance tag seen at the block boundary. Read-only
// after extraction.
type Block struct {
	// Keyword is the outer-command keyword (definition, lemma, ...).
	Keyword string

	// Theory is the theory the block's provenance tag points into
	// ("" when no tag reached the block).
	Theory string

	// SrcLine is the 1-based source line of the block's first provenance
	// tag, or -1 when none was seen.
	SrcLine int

	// Lines are the block's output lines in order. Each output line is
	// the raw LaTeX between two \isanewline breaks, possibly spanning
	// several physical lines.
	Lines [][]string
}

// Loc is the block's approximate source location for diagnostics.
func (b Block) Loc() types.Location {
	return types.Location{Theory: b.Theory, Line: b.SrcLine}
}

// Partition groups events into command blocks. A command-start at region
// depth zero closes the running block and opens a new one; command-starts
// inside proof/ML/document/theory regions are content (proof steps belong
// to their lemma). A theory-region open also closes the running block so
// the trailing end-of-theory markup never attaches to the last command.
// Content before the first top-level command-start is preamble and is
// not returned.
func Partition(events []scan.Event) []Block {
	var blocks []Block

	depth := map[string]int{}
	totalDepth := func() int {
		n := 0
		for _, d := range depth {
			n += d
		}
		return n
	}

	var cur *Block       // nil while in preamble or discarded trailing content
	var curLine []string // physical lines of the output line being built

	tagTheory, tagLine := "", -1

	flushLine := func() {
		if cur != nil && len(curLine) > 0 {
			cur.Lines = append(cur.Lines, curLine)
		}
		curLine = nil
	}
	closeBlock := func() {
		flushLine()
		if cur != nil {
			blocks = append(blocks, *cur)
			cur = nil
		}
		curLine = nil
	}
	appendText := func(ev scan.Event) {
		if cur == nil {
			return
		}
		curLine = append(curLine, ev.Text)
		if ev.HasBreak() {
			flushLine()
		}
	}

	for _, ev := range events {
		switch ev.Kind {
		case scan.KindCommand:
			if totalDepth() == 0 {
				closeBlock()
				cur = &Block{
					Keyword: ev.Keyword,
					Theory:  tagTheory,
					SrcLine: tagLine,
				}
			}
			appendText(ev)

		case scan.KindDelimOpen:
			if ev.Region == scan.RegionTheory {
				closeBlock()
			}
			depth[ev.Region]++
			appendText(ev)

		case scan.KindDelimClose:
			if depth[ev.Region] > 0 {
				depth[ev.Region]--
			}
			appendText(ev)

		case scan.KindTag:
			// The marker emits the tag just before the command it covers;
			// remember it for the next block. Tag lines are scaffolding,
			// never content.
			tagTheory, tagLine = ev.Theory, ev.SrcLine

		case scan.KindText:
			appendText(ev)
		}
	}

	closeBlock()
	return blocks
}
