package differ

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Differ renders the difference between two serialized values.
// Implementations are pure: equal inputs report changed=false and produce no output.
type Differ interface {
	Diff(old, new string) (out string, changed bool)
}

const (
	// NameChar selects the inline token differ.
	NameChar = "char"
	// NameLine selects the line differ.
	NameLine = "line"
)

// Names lists the accepted differ names.
var Names = []string{NameChar, NameLine}

// New returns the differ registered under name.
func New(name string, color bool) (Differ, error) {
	switch strings.ToLower(name) {
	case "", NameChar:
		return NewChar(color), nil
	case NameLine:
		return NewLine(color), nil
	default:
		return nil, fmt.Errorf("unknown differ %q (expected one of %s)", name, strings.Join(Names, ", "))
	}
}

// marker decorates removed and inserted text.
type marker struct {
	del func(string) string
	ins func(string) string
}

func plainMarker() marker {
	return marker{
		del: func(s string) string { return "[-" + s + "-]" },
		ins: func(s string) string { return "{+" + s + "+}" },
	}
}

// colorMarker always emits 256-color ANSI sequences, even when writing to a file,
// so a diff file renders the same when paged later. Each span is wrapped in a
// single sequence; underline and strikethrough would be applied per rune.
func colorMarker() marker {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI256)
	del := r.NewStyle().Foreground(lipgloss.Color("9"))
	ins := r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	return marker{
		del: func(s string) string { return del.Render(s) },
		ins: func(s string) string { return ins.Render(s) },
	}
}

func newMarker(color bool) marker {
	if color {
		return colorMarker()
	}
	return plainMarker()
}
