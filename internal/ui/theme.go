package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme bundles palette, symbols and the panel border.
type Theme struct {
	Name                                 string
	Title, Muted, Accent, Success, Error lipgloss.Color
	Pending                              lipgloss.Color
	Border                               lipgloss.Border
	SymItem, SymUnsaved                  string
}

var current = classic()

func classic() Theme {
	return Theme{
		Name:    "classic",
		Muted:   "8",
		Accent:  "4",
		Success: "2", Error: "1", Pending: "3",
		Border:  lipgloss.NormalBorder(),
		SymItem: "•", SymUnsaved: "…",
	}
}

// SetTheme switches the palette; unknown names fall back to classic.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Name:  "neon",
			Title: "13", Muted: "8", Accent: "14",
			Success: "2", Error: "1", Pending: "11",
			Border:  lipgloss.RoundedBorder(),
			SymItem: "◆", SymUnsaved: "…",
		}
	case "mono":
		out.SetColorProfile(termenv.Ascii)
		current = Theme{
			Name:    "mono",
			Border:  lipgloss.ASCIIBorder(),
			SymItem: "-", SymUnsaved: "?",
		}
	default:
		current = classic()
	}
}

// Current returns the active theme.
func Current() Theme { return current }
