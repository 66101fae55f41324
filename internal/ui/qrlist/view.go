package qrlist

import (
	"strings"

	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/quickreturn/internal/ui/overlay"
	"github.com/zjrosen/quickreturn/internal/ui/styles"
)

// View renders the visible slice of the list with the header composited at
// its current translation. Callers must run zone.Scan on the final frame.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	bg := strings.Join(m.visibleLines(), "\n")
	out := overlay.PlaceAt(0, m.header.translation, m.width, m.height, m.headerView(), bg)
	return zone.Mark(zoneID, out)
}

func (m *Model) visibleLines() []string {
	first, _ := m.visibleRange()
	lines := make([]string, 0, m.height)
	if first < 0 {
		return lines
	}

	skip := m.scrollY - m.tops[first]
	for i := first; i < len(m.entries) && len(lines) < m.height; i++ {
		rows := m.rowLines(i)
		if skip > 0 {
			rows = rows[min(skip, len(rows)):]
			skip = 0
		}
		lines = append(lines, rows[:min(len(rows), m.height-len(lines))]...)
	}
	return lines
}

func (m *Model) headerView() string {
	return styles.RenderWithTitleBorder(
		styles.HeaderFooterStyle.Render(m.header.subtitle),
		m.header.title,
		m.width,
		m.header.height,
		styles.OverlayBorderColor,
		styles.OverlayTitleColor,
	)
}
