// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package name

import (
	"strings"

	"github.com/pdiddy/isasnips/internal/symtab"
)

// Quote-region boundary tokens. Double quotes and cartouches both decode
// to these, so the naming scan sees one kind of quoted region.
const (
	tokOpen  = `\<open>`
	tokClose = `\<close>`
)

// breakers are decoded characters that form single-character tokens and
// terminate the word being built.
var breakers = map[rune]bool{
	'[': true, ']': true, '(': true, ')': true,
	':': true, '=': true, '|': true,
}

// Decode normalizes a block's generated LaTeX into a token stream:
// words, single-character breaker tokens, and quote boundaries. Markup
// macros resolve through the symbol table; layout macros decode to
// whitespace; an unresolvable symbol macro is kept as \<name> inside its
// word so sanitization can report it.
func Decode(lines []string, tab *symtab.Table) []string {
	var tokens []string
	var word strings.Builder

	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}
	pushRune := func(r rune) {
		switch {
		case r == ' ' || r == '\t':
			flush()
		case breakers[r]:
			flush()
			tokens = append(tokens, string(r))
		case r == '"':
			// Bare double quote: quote boundary (open/close alternate
			// in document order, the scan below does not care which).
			flush()
			tokens = append(tokens, tokOpen)
		default:
			word.WriteRune(r)
		}
	}

	for _, raw := range lines {
		i := 0
		for i < len(raw) {
			rest := raw[i:]
			switch {
			case strings.HasPrefix(rest, `{\isachardoublequoteopen}`):
				flush()
				tokens = append(tokens, tokOpen)
				i += len(`{\isachardoublequoteopen}`)
			case strings.HasPrefix(rest, `{\isachardoublequoteclose}`):
				flush()
				tokens = append(tokens, tokClose)
				i += len(`{\isachardoublequoteclose}`)
			case strings.HasPrefix(rest, `{\isacartoucheopen}`):
				flush()
				tokens = append(tokens, tokOpen)
				i += len(`{\isacartoucheopen}`)
			case strings.HasPrefix(rest, `{\isacartoucheclose}`):
				flush()
				tokens = append(tokens, tokClose)
				i += len(`{\isacartoucheclose}`)
			case strings.HasPrefix(rest, `{\isadigit{`):
				if end := strings.Index(rest, "}}"); end > 0 {
					word.WriteString(rest[len(`{\isadigit{`):end])
					i += end + 2
				} else {
					i++
				}
			case strings.HasPrefix(rest, `{\isactrlsub}`):
				i += len(`{\isactrlsub}`)
			case strings.HasPrefix(rest, `{\isactrlsup}`):
				i += len(`{\isactrlsup}`)
			case strings.HasPrefix(rest, `{\isachar`):
				name, n := macroName(rest, `{\isachar`)
				if n == 0 {
					i++
					break
				}
				if r, ok := tab.Char(name); ok {
					pushRune(r)
				}
				i += n
			case strings.HasPrefix(rest, `{\isasym`):
				name, n := macroName(rest, `{\isasym`)
				if n == 0 {
					i++
					break
				}
				if ascii, ok := tab.Symbol(name); ok {
					word.WriteString(ascii)
				} else {
					// Preserved verbatim so sanitization can surface it.
					word.WriteString(`\<` + name + `>`)
				}
				i += n
			case strings.HasPrefix(rest, `\isakeyword{`):
				// The braced body decodes through the normal rules.
				flush()
				i += len(`\isakeyword{`)
			case strings.HasPrefix(rest, `\isacommand{`):
				flush()
				i += len(`\isacommand{`)
			case strings.HasPrefix(rest, `\isanewline`):
				flush()
				i += len(`\isanewline`)
			case strings.HasPrefix(rest, `\isamarkupfalse`):
				i += len(`\isamarkupfalse`)
			case strings.HasPrefix(rest, `\isamarkuptrue`):
				i += len(`\isamarkuptrue`)
			case strings.HasPrefix(rest, `\ `):
				flush()
				i += 2
			case rest[0] == '%':
				// LaTeX comment: rest of the physical line is glue.
				i = len(raw)
			case rest[0] == '\\':
				// Unknown macro: skip its name, treat as whitespace.
				flush()
				i++
				for i < len(raw) && isAlpha(raw[i]) {
					i++
				}
			case rest[0] == '{' || rest[0] == '}':
				flush()
				i++
			default:
				pushRune(rune(rest[0]))
				i++
			}
		}
		flush()
	}

	flush()
	return tokens
}

// macroName parses {\isaXXXname} returning the name and consumed length.
func macroName(rest, prefix string) (string, int) {
	end := strings.Index(rest, "}")
	if end < 0 {
		return "", 0
	}
	return rest[len(prefix):end], end + 1
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
