// Package preview renders monitor lattices for the terminal.
package preview

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/gridtile/internal/tiling"
)

// DefaultWidth is used when stdout is not a terminal.
const DefaultWidth = 80

const minCellWidth = 3

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	cellStyle   = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("62")).
			Foreground(lipgloss.Color("250")).
			Align(lipgloss.Center)
	primaryCellStyle = cellStyle.BorderForeground(lipgloss.Color("42"))
)

// TerminalWidth returns the column count of the terminal on f, or
// DefaultWidth when f is not a terminal.
func TerminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return DefaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// Render draws every monitor of g within width columns.
func Render(g *tiling.Grid, width int) string {
	if g == nil || len(g.Monitors) == 0 {
		return dimStyle.Render("no monitors")
	}
	blocks := make([]string, 0, len(g.Monitors))
	for i := range g.Monitors {
		blocks = append(blocks, RenderMonitor(&g.Monitors[i], width))
	}
	return strings.Join(blocks, "\n\n")
}

// RenderMonitor draws one monitor: a header line and its lattice with each
// cell labelled by grid coordinate.
func RenderMonitor(m *tiling.Monitor, width int) string {
	lat := m.Lattice
	wa := m.Workarea
	title := fmt.Sprintf("%d %s", m.ID, m.Name)
	if m.Primary {
		title += " (primary)"
	}
	header := headerStyle.Render(title) + "  " + dimStyle.Render(fmt.Sprintf(
		"workarea %dx%d+%d+%d  grid %dx%d  slot %dx%d",
		wa.Width, wa.Height, wa.X, wa.Y, lat.Columns, lat.Rows, lat.SlotWidth, lat.SlotHeight))

	if !m.Usable() {
		return lipgloss.JoinVertical(lipgloss.Left, header, errStyle.Render("unusable workarea"))
	}

	// Each cell adds two border columns.
	cellWidth := width/lat.Columns - 2
	if cellWidth < minCellWidth {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			dimStyle.Render(fmt.Sprintf("too narrow for a %d-column grid", lat.Columns)))
	}

	style := cellStyle
	if m.Primary {
		style = primaryCellStyle
	}
	style = style.Width(cellWidth)

	rows := make([]string, 0, lat.Rows)
	for y := 0; y < lat.Rows; y++ {
		cells := make([]string, 0, lat.Columns)
		for x := 0; x < lat.Columns; x++ {
			cells = append(cells, style.Render(label(x, y, cellWidth)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func label(x, y, width int) string {
	s := fmt.Sprintf("%d,%d", x, y)
	if len(s) > width {
		return s[:width]
	}
	return s
}
