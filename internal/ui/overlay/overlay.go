// Package overlay composites one rendered block on top of another without
// clearing the screen. Both layers keep their ANSI styling.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position specifies where Place puts the foreground.
type Position int

const (
	// Center places the foreground in the middle of the background.
	Center Position = iota
	// Top places the foreground at the top, centered horizontally.
	Top
	// Bottom places the foreground at the bottom, centered horizontally.
	Bottom
)

// Config controls Place.
type Config struct {
	Width    int
	Height   int
	Position Position
	// PadY offsets Top and Bottom placements from the edge.
	PadY int
}

// Place renders fg on top of bg at the configured position.
func Place(cfg Config, fg, bg string) string {
	fgWidth := lipgloss.Width(fg)
	fgHeight := lipgloss.Height(fg)

	x := max((cfg.Width-fgWidth)/2, 0)
	var y int
	switch cfg.Position {
	case Top:
		y = cfg.PadY
	case Bottom:
		y = cfg.Height - fgHeight - cfg.PadY
	default:
		y = (cfg.Height - fgHeight) / 2
	}

	return PlaceAt(x, max(y, 0), cfg.Width, cfg.Height, fg, bg)
}

// PlaceAt renders fg on top of bg with its top-left corner at column x and
// row y. y may be negative: foreground rows outside [0, height) are clipped,
// which is how a partially hidden overlay is drawn. bg is padded to height
// rows of width columns.
func PlaceAt(x, y, width, height int, fg, bg string) string {
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < height {
		bgLines = append(bgLines, strings.Repeat(" ", width))
	}

	for i, fgLine := range strings.Split(fg, "\n") {
		row := y + i
		if row < 0 {
			continue
		}
		if row >= len(bgLines) || (height > 0 && row >= height) {
			break
		}
		bgLines[row] = spliceLine(bgLines[row], fgLine, max(x, 0))
	}

	return strings.Join(bgLines, "\n")
}

// spliceLine replaces the cells of bgLine starting at column x with fgLine.
func spliceLine(bgLine, fgLine string, x int) string {
	left := ansi.Truncate(bgLine, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}

	var right string
	end := x + ansi.StringWidth(fgLine)
	if end < ansi.StringWidth(bgLine) {
		right = ansi.TruncateLeft(bgLine, end, "")
	}
	return left + fgLine + right
}
