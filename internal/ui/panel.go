package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/idilsaglam/todo/internal/model"
)

// ItemLines renders one line per item: marker, title, description and the
// backend id (or a pending marker for entries without one).
func ItemLines(items []model.Item) []string {
	t := Current()
	if len(items) == 0 {
		return []string{C(t.Muted, "no items")}
	}
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, bold(t.Title, fmt.Sprintf("Todos (%d)", len(items))))
	for _, it := range items {
		id := C(t.Muted, "#"+it.ID)
		if !it.Persisted() {
			id = C(t.Pending, t.SymUnsaved+" unsaved")
		}
		line := fmt.Sprintf("%s %s", C(t.Accent, t.SymItem), it.Title)
		if it.Description != "" {
			line += C(t.Muted, "  "+it.Description)
		}
		lines = append(lines, line+"  "+id)
	}
	return lines
}

// Panel draws lines in a box framed with the current theme's border.
// Rows are padded by display width, so wide runes keep the frame straight.
func Panel(w io.Writer, lines []string) {
	box := out.NewStyle().
		Border(Current().Border).
		Padding(0, 1)
	fmt.Fprintln(w, box.Render(strings.Join(lines, "\n")))
}
