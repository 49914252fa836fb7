package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepdash/internal/ui/theme"
)

// List renders a vertical list with one highlighted row. The caller owns
// the selection; List only draws it.
type List struct {
	Items    []string
	Selected int
	Height   int // visible rows (0 = all)
}

// NewList creates a list with the given items.
func NewList(items []string, selected int) List {
	return List{Items: items, Selected: selected}
}

// View renders the list, scrolling so the selected row stays visible.
func (l List) View() string {
	start, end := 0, len(l.Items)
	if l.Height > 0 && len(l.Items) > l.Height {
		start = l.Selected - l.Height/2
		if start < 0 {
			start = 0
		}
		end = start + l.Height
		if end > len(l.Items) {
			end = len(l.Items)
			start = end - l.Height
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		if i == l.Selected {
			b.WriteString(lipgloss.NewStyle().
				Foreground(theme.Primary).
				Bold(true).
				Render("  ▸ " + l.Items[i]))
		} else {
			b.WriteString(lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("    " + l.Items[i]))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
