package differ

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Line diffs values line by line. Unchanged lines are dropped, removed lines
// are prefixed with "-" and inserted lines with "+".
type Line struct {
	mark marker
}

// NewLine creates a line differ.
func NewLine(color bool) *Line {
	m := marker{
		del: func(s string) string { return "-" + s },
		ins: func(s string) string { return "+" + s },
	}
	if color {
		cm := colorMarker()
		m = marker{
			del: func(s string) string { return cm.del("-" + s) },
			ins: func(s string) string { return cm.ins("+" + s) },
		}
	}
	return &Line{mark: m}
}

// Diff implements Differ.
func (l *Line) Diff(old, new string) (string, bool) {
	if old == new {
		return "", false
	}

	a, b := splitLines(old), splitLines(new)
	m := difflib.NewMatcher(a, b)

	var lines []string
	for _, op := range m.GetOpCodes() {
		if op.Tag == 'e' {
			continue
		}
		if op.Tag == 'd' || op.Tag == 'r' {
			for _, s := range a[op.I1:op.I2] {
				lines = append(lines, l.mark.del(s))
			}
		}
		if op.Tag == 'i' || op.Tag == 'r' {
			for _, s := range b[op.J1:op.J2] {
				lines = append(lines, l.mark.ins(s))
			}
		}
	}
	if len(lines) == 0 {
		// Inputs differ only in a trailing newline.
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
