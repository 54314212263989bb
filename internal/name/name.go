// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package name derives stable snippet base names for command blocks.
// See docs/ARCHITECTURE § Namer.
//
// A block named after its declaration stays addressable across unrelated
// theory edits; anonymous blocks fall back to a content hash, which is
// deterministic for unchanged text and changes with it.
package name

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/isasnips/internal/chunk"
	"github.com/pdiddy/isasnips/internal/symtab"
	"github.com/pdiddy/isasnips/pkg/types"
)

// hashWidth is the hex width of fallback names.
const hashWidth = 12

// namedKeywords are the outer commands known to introduce a declared or
// inferable name. This set is fixed; other commands always hash.
var namedKeywords = map[string]bool{
	"definition":   true,
	"abbreviation": true,
	"datatype":     true,
	"type_synonym": true,
	"fun":          true,
	"function":     true,
	"primrec":      true,
	"lemma":        true,
	"theorem":      true,
	"corollary":    true,
}

// stopMarkers end the name-token scan: a declared name always precedes
// one of these in the command's surface text.
var stopMarkers = map[string]bool{
	"[": true, ":": true, "=": true,
	"where": true, "and": true, "by": true, "imports": true,
	"begin": true, "fixes": true, "assumes": true, "shows": true,
}

// UnresolvedSymbolError reports a candidate name containing notation the
// symbol table cannot map to an identifier character.
type UnresolvedSymbolError struct {
	// Offending is the substring that failed sanitization.
	Offending string

	// Loc is the block's approximate source location.
	Loc types.Location
}

func (e *UnresolvedSymbolError) Error() string {
	return fmt.Sprintf("unresolved symbol %q in name near %s", e.Offending, e.Loc)
}

// Namer derives base names for the blocks of one theory. It carries the
// per-theory duplicate counter for hash names, so identical anonymous
// blocks stay distinguishable.
type Namer struct {
	tab  *symtab.Table
	seen map[string]int
}

// New returns a Namer backed by the given symbol table.
func New(tab *symtab.Table) *Namer {
	return &Namer{tab: tab, seen: map[string]int{}}
}

// Name derives the block's base name: the sanitized declared name when
// the keyword introduces one and it can be located, otherwise a content
// hash. Unresolved symbols degrade to the hash policy with a diagnostic
// on diag; they never fail the run. An empty result means the block has
// no usable content and should be skipped.
func (n *Namer) Name(b chunk.Block, diag io.Writer) string {
	tokens := Decode(flatten(b.Lines), n.tab)
	if len(tokens) == 0 {
		return ""
	}

	if namedKeywords[b.Keyword] {
		if declared := declaredName(b.Keyword, tokens); declared != "" {
			sanitized, err := Sanitize(declared)
			if err == nil {
				return sanitized
			}
			var uerr *UnresolvedSymbolError
			if errors.As(err, &uerr) {
				uerr.Loc = b.Loc()
			}
			if diag != nil {
				fmt.Fprintf(diag, "warning: %v; falling back to hash name\n", err)
			}
		}
	}

	return n.hashName(tokens)
}

// flatten joins the block's output lines into one physical-line sequence.
func flatten(lines [][]string) []string {
	var out []string
	for _, l := range lines {
		out = append(out, l...)
	}
	return out
}

// declaredName locates the name token following the command keyword,
// skipping parenthesized type parameters and 'a-style type variables,
// stopping at the surface markers a name always precedes. For definition
// and abbreviation commands without a leading name, the first token of
// the quoted body serves (definition "π ≡ 3" names pi).
func declaredName(keyword string, tokens []string) string {
	parens := 0
	quoted := 0

	var parts []string
	var body []string

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch {
		case tok == "(":
			parens++
		case tok == ")":
			parens--
		case parens == 0 && tok == tokOpen:
			quoted++
		case parens == 0 && tok == tokClose:
			quoted--
		case quoted > 0:
			body = append(body, tok)
		}

		if tok == tokClose && quoted == 0 {
			break
		}

		if parens == 0 && quoted == 0 &&
			tok != ")" && tok != tokClose && !strings.HasPrefix(tok, "'") {
			parts = append(parts, tok)
		}

		if i+1 < len(tokens) && parens == 0 && quoted == 0 && stopMarkers[tokens[i+1]] {
			break
		}
	}

	// parts[0] is the command keyword itself.
	if len(parts) > 1 {
		return strings.Join(parts[1:], "")
	}

	if len(body) > 0 && (keyword == "definition" || keyword == "abbreviation") {
		return body[0]
	}

	return ""
}

// hashName hashes the normalized token stream to a fixed-width hex name,
// suffixing repeats within the theory.
func (n *Namer) hashName(tokens []string) string {
	h := sha256.Sum256([]byte(strings.Join(tokens, " ")))
	base := fmt.Sprintf("%x", h)[:hashWidth]

	count := n.seen[base]
	n.seen[base]++
	if count > 0 {
		return fmt.Sprintf("%s-%d", base, count)
	}
	return base
}

// Sanitize rewrites a derived name into identifier form: underscores
// become hyphens, superscript markers vanish, and anything left outside
// [A-Za-z0-9-] is an UnresolvedSymbolError carrying the offending
// substring. Sanitize is idempotent.
func Sanitize(s string) (string, error) {
	out := strings.ReplaceAll(s, "_", "-")
	out = strings.ReplaceAll(out, "^", "")

	for i, r := range out {
		if isIdent(r) {
			continue
		}
		return "", &UnresolvedSymbolError{Offending: offendingAt(out, i)}
	}
	return out, nil
}

// offendingAt extracts the diagnostic substring at position i: a whole
// \<name> escape when one starts there, the single character otherwise.
func offendingAt(s string, i int) string {
	if strings.HasPrefix(s[i:], `\<`) {
		if end := strings.Index(s[i:], ">"); end >= 0 {
			return s[i : i+end+1]
		}
	}
	return string([]rune(s[i:])[0])
}

func isIdent(r rune) bool {
	return r == '-' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// SanitizeKeyword rewrites a command keyword for use inside a snippet
// key. Keywords come from a fixed vocabulary, so failures cannot occur;
// unexpected characters are dropped.
func SanitizeKeyword(kw string) string {
	s, err := Sanitize(kw)
	if err == nil {
		return s
	}
	var b strings.Builder
	for _, r := range strings.ReplaceAll(kw, "_", "-") {
		if isIdent(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
