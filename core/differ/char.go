package differ

import (
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
)

// Char is an inline differ. It splits both values into word and punctuation
// tokens and marks the tokens that were removed or inserted.
type Char struct {
	mark marker
}

// NewChar creates an inline differ. With color the markers are ANSI styles,
// otherwise [-removed-] and {+inserted+}.
func NewChar(color bool) *Char {
	return &Char{mark: newMarker(color)}
}

// Diff implements Differ.
func (c *Char) Diff(old, new string) (string, bool) {
	if old == new {
		return "", false
	}

	a, b := tokenize(old), tokenize(new)
	m := difflib.NewMatcher(a, b)

	var out strings.Builder
	for _, op := range m.GetOpCodes() {
		removed := strings.Join(a[op.I1:op.I2], "")
		inserted := strings.Join(b[op.J1:op.J2], "")
		switch op.Tag {
		case 'e':
			out.WriteString(removed)
		case 'd':
			out.WriteString(c.mark.del(removed))
		case 'i':
			out.WriteString(c.mark.ins(inserted))
		case 'r':
			out.WriteString(c.mark.del(removed))
			out.WriteString(c.mark.ins(inserted))
		}
	}
	return out.String(), true
}

// tokenize splits s into runs of word characters and single other runes.
func tokenize(s string) []string {
	var tokens []string
	start := -1
	for i, r := range s {
		if isWord(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, s[start:i])
			start = -1
		}
		tokens = append(tokens, string(r))
	}
	if start >= 0 {
		tokens = append(tokens, s[start:])
	}
	return tokens
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '-'
}
