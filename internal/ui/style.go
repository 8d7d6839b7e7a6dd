package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	out      = lipgloss.NewRenderer(os.Stdout)
	detected = out.ColorProfile()
)

const (
	symCheck = "✔"
	symCross = "✖"
)

// SetColorForcing overrides terminal detection. disable wins over force.
func SetColorForcing(force, disable bool) {
	switch {
	case disable:
		out.SetColorProfile(termenv.Ascii)
	case force:
		out.SetColorProfile(termenv.ANSI)
	default:
		out.SetColorProfile(detected)
	}
}

// C renders s in color; plain when stdout is not a terminal.
func C(color lipgloss.Color, s string) string {
	if color == "" {
		return s
	}
	return out.NewStyle().Foreground(color).Render(s)
}

func bold(color lipgloss.Color, s string) string {
	st := out.NewStyle().Bold(true)
	if color != "" {
		st = st.Foreground(color)
	}
	return st.Render(s)
}

func OK(msg string)   { fmt.Println(C(current.Success, symCheck+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(os.Stderr, C(current.Error, symCross+" "+msg)) }
