package qrlist

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/quickreturn/internal/quickreturn"
)

// wheelLines is how far one wheel notch scrolls.
const wheelLines = 3

// Init returns no command; the list starts idle.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles scrolling input and the list's own timers.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, m.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case slideTickMsg:
		return m, m.advanceSlide(msg)

	case scrollIdleMsg:
		if msg.seq == m.idleSeq {
			m.setScrollState(quickreturn.ScrollIdle)
		}
		return m, m.flush()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	page := max(m.height-1, 1)
	switch {
	case key.Matches(msg, m.keys.Up):
		return m.ScrollBy(-1, quickreturn.ScrollDragging)
	case key.Matches(msg, m.keys.Down):
		return m.ScrollBy(1, quickreturn.ScrollDragging)
	case key.Matches(msg, m.keys.PageUp):
		return m.ScrollBy(-page, quickreturn.ScrollSettling)
	case key.Matches(msg, m.keys.PageDown):
		return m.ScrollBy(page, quickreturn.ScrollSettling)
	case key.Matches(msg, m.keys.HalfUp):
		return m.ScrollBy(-page/2, quickreturn.ScrollSettling)
	case key.Matches(msg, m.keys.HalfDown):
		return m.ScrollBy(page/2, quickreturn.ScrollSettling)
	case key.Matches(msg, m.keys.Top):
		return m.ScrollTo(0, quickreturn.ScrollSettling)
	case key.Matches(msg, m.keys.Bottom):
		return m.ScrollTo(m.maxScroll(), quickreturn.ScrollSettling)
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Button != tea.MouseButtonWheelUp && msg.Button != tea.MouseButtonWheelDown {
		return nil
	}
	if z := zone.Get(zoneID); z == nil || !z.InBounds(msg) {
		return nil
	}
	if msg.Button == tea.MouseButtonWheelUp {
		return m.ScrollBy(-wheelLines, quickreturn.ScrollDragging)
	}
	return m.ScrollBy(wheelLines, quickreturn.ScrollDragging)
}
