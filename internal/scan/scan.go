// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan tokenizes Isabelle-generated LaTeX into an ordered stream
// of markup events. See docs/ARCHITECTURE § Markup Scanner.
//
// The scanner recognizes a fixed vocabulary: \isacommand command
// boundaries, \isadelim / \isatag region delimiters, and the provenance
// tags injected by the line marker. Everything else passes through as
// literal text; the external format is not fully specified, so the
// scanner is deliberately open-world and never fails on unknown markup.
package scan

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/isasnips/internal/marker"
	"github.com/pdiddy/isasnips/internal/symtab"
)

// Kind discriminates markup event variants.
type Kind int

const (
	// KindText is an opaque literal line, passed through verbatim.
	KindText Kind = iota

	// KindCommand is a command-start boundary (\isacommand{kw}).
	KindCommand

	// KindDelimOpen opens a delimiter region (\isadelim<kind>, \isatag<kind>).
	KindDelimOpen

	// KindDelimClose closes a delimiter region.
	KindDelimClose

	// KindTag is a provenance tag injected by the line marker.
	KindTag
)

// Delimiter region kinds the scanner tracks.
const (
	RegionTheory   = "theory"
	RegionProof    = "proof"
	RegionML       = "ML"
	RegionDocument = "document"
)

var knownRegions = map[string]bool{
	RegionTheory:   true,
	RegionProof:    true,
	RegionML:       true,
	RegionDocument: true,
}

// Event is one atomic markup unit, in document order. Text always holds
// the raw source line so the document round-trips even where the event
// model is incomplete.
type Event struct {
	Kind    Kind
	Keyword string // KindCommand: decoded command keyword
	Region  string // delimiter events: region kind
	Theory  string // KindTag: originating theory
	SrcLine int    // KindTag: 1-based original source line
	Text    string // raw line as encountered
}

// HasBreak reports whether the line ends an output line of the generated
// document.
func (e Event) HasBreak() bool {
	return strings.Contains(e.Text, `\isanewline`)
}

// Scanner produces events from generated LaTeX. Anomalies (known macro
// families that fail to parse) are warned to diag and degraded to
// literal text.
type Scanner struct {
	tab  *symtab.Table
	diag io.Writer
}

// New returns a scanner using the given symbol table for keyword
// decoding and writer for anomaly warnings.
func New(tab *symtab.Table, diag io.Writer) *Scanner {
	return &Scanner{tab: tab, diag: diag}
}

// Scan consumes the generated LaTeX document and returns its event
// stream. The stream is finite and ordering-preserving; Scan never fails
// on unrecognized markup.
func (s *Scanner) Scan(r io.Reader) ([]Event, error) {
	var events []Event

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		events = append(events, s.classify(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading generated LaTeX: %w", err)
	}

	return events, nil
}

// classify maps one physical line to its event.
func (s *Scanner) classify(line string) Event {
	trimmed := strings.TrimSpace(line)

	if idx := strings.Index(trimmed, marker.TagPrefix); idx >= 0 {
		if theory, src, ok := parseTag(trimmed[idx:]); ok {
			return Event{Kind: KindTag, Theory: theory, SrcLine: src, Text: line}
		}
		s.warnf("malformed provenance tag: %q", trimmed)
		return Event{Kind: KindText, Text: line}
	}

	if strings.HasPrefix(trimmed, `\isacommand{`) {
		kw, ok := s.decodeKeyword(trimmed[len(`\isacommand{`):])
		if !ok {
			s.warnf("unparseable command macro: %q", trimmed)
			return Event{Kind: KindText, Text: line}
		}
		return Event{Kind: KindCommand, Keyword: kw, Text: line}
	}

	if region, ok := cutMacro(trimmed, `\isadelim`); ok {
		return s.delim(KindDelimOpen, region, line)
	}
	if region, ok := cutMacro(trimmed, `\endisadelim`); ok {
		return s.delim(KindDelimClose, region, line)
	}
	if region, ok := cutMacro(trimmed, `\isatag`); ok {
		return s.delim(KindDelimOpen, region, line)
	}
	if region, ok := cutMacro(trimmed, `\endisatag`); ok {
		return s.delim(KindDelimClose, region, line)
	}

	return Event{Kind: KindText, Text: line}
}

// delim builds a delimiter event, degrading unknown region kinds to
// literal text with a warning.
func (s *Scanner) delim(kind Kind, region, line string) Event {
	if !knownRegions[region] {
		s.warnf("unknown delimiter region %q", region)
		return Event{Kind: KindText, Text: line}
	}
	return Event{Kind: kind, Region: region, Text: line}
}

// cutMacro matches a line consisting of prefix plus a macro-name suffix
// (letters only), e.g. \isadelimproof.
func cutMacro(line, prefix string) (string, bool) {
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	rest := line[len(prefix):]
	if rest == "" {
		return "", false
	}
	for _, r := range rest {
		if !isLetter(r) {
			return "", false
		}
	}
	return rest, true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// parseTag extracts theory and source line from a provenance tag of the
// form %:snipmark:<theory>:<line>:.
func parseTag(s string) (string, int, bool) {
	rest := strings.TrimPrefix(s, marker.TagPrefix)
	sep := strings.LastIndex(strings.TrimSuffix(rest, ":"), ":")
	if sep < 0 {
		return "", 0, false
	}
	theory := rest[:sep]
	num := strings.TrimSuffix(rest[sep+1:], ":")
	line, err := strconv.Atoi(num)
	if err != nil || theory == "" {
		return "", 0, false
	}
	return theory, line, true
}

// decodeKeyword reads the brace-delimited keyword of an \isacommand
// macro, resolving embedded character macros (type{\isacharunderscore}synonym).
func (s *Scanner) decodeKeyword(rest string) (string, bool) {
	var kw strings.Builder
	i := 0
	for i < len(rest) {
		switch {
		case rest[i] == '}':
			return kw.String(), kw.Len() > 0
		case strings.HasPrefix(rest[i:], `{\isachar`):
			end := strings.Index(rest[i:], "}")
			if end < 0 {
				return "", false
			}
			name := rest[i+len(`{\isachar`) : i+end]
			r, ok := s.tab.Char(name)
			if !ok {
				return "", false
			}
			kw.WriteRune(r)
			i += end + 1
		case rest[i] == '{' || rest[i] == '\\':
			return "", false
		default:
			kw.WriteByte(rest[i])
			i++
		}
	}
	return "", false
}

func (s *Scanner) warnf(format string, args ...any) {
	if s.diag != nil {
		fmt.Fprintf(s.diag, "warning: "+format+"\n", args...)
	}
}
