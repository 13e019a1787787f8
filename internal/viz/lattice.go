package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	upCell   = "██"
	downCell = "░░"
)

// RenderLattice draws a spin snapshot with two terminal cells per site so
// that sites come out roughly square.
func RenderLattice(spins [][]int, theme Theme) string {
	up := lipgloss.NewStyle().Foreground(theme.Up)
	down := lipgloss.NewStyle().Foreground(theme.Down)

	var b strings.Builder
	for _, row := range spins {
		for _, s := range row {
			if s > 0 {
				b.WriteString(up.Render(upCell))
			} else {
				b.WriteString(down.Render(downCell))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderBraille draws a spin snapshot with one Braille dot per up spin,
// packing 2x4 sites into each character.
func RenderBraille(spins [][]int) string {
	rows := len(spins)
	if rows == 0 {
		return ""
	}
	cols := len(spins[0])

	c := NewCanvas((cols+1)/2, (rows+3)/4)
	for y, row := range spins {
		for x, s := range row {
			if s > 0 {
				c.Set(x, y)
			}
		}
	}
	return c.String()
}
