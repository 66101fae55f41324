package qrlist

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/quickreturn/internal/quickreturn"
)

func (m *Model) rowHeight(i int) int {
	if m.entries[i].kind == kindPlaceholder {
		return m.placeholderHeight
	}
	return len(m.renderer.lines(m.entries[i], m.width))
}

func (m *Model) rowLines(i int) []string {
	if m.entries[i].kind == kindPlaceholder {
		return blankLines(m.placeholderHeight, m.width)
	}
	return m.renderer.lines(m.entries[i], m.width)
}

func (m *Model) layout() {
	if m.layoutGood && len(m.tops) == len(m.entries) {
		return
	}
	m.tops = make([]int, len(m.entries))
	m.total = 0
	for i := range m.entries {
		m.tops[i] = m.total
		m.total += m.rowHeight(i)
	}
	m.layoutGood = true
}

// maxScroll is the furthest the content can scroll.
func (m *Model) maxScroll() int {
	m.layout()
	return max(m.total-m.height, 0)
}

func (m *Model) clampScroll() {
	m.scrollY = min(max(m.scrollY, 0), m.maxScroll())
}

// visibleRange returns the first visible row and how many rows intersect
// the viewport. first is -1 when nothing is visible.
func (m *Model) visibleRange() (first, count int) {
	m.layout()
	first = -1
	bottom := m.scrollY + max(m.height, 1)
	for i, top := range m.tops {
		end := top + m.rowHeight(i)
		if end <= m.scrollY || end == top {
			continue
		}
		if top >= bottom {
			break
		}
		if first < 0 {
			first = i
		}
		count++
	}
	return first, count
}

// ScrollBy moves the list by delta rows and notifies the binding when the
// position changed.
func (m *Model) ScrollBy(delta int, state quickreturn.ScrollState) tea.Cmd {
	before := m.scrollY
	m.scrollY += delta
	m.clampScroll()
	if m.scrollY == before {
		return nil
	}

	m.setScrollState(state)
	m.notifyScroll()
	m.pending = append(m.pending, m.scheduleIdle())
	return m.flush()
}

// ScrollTo jumps to an absolute position.
func (m *Model) ScrollTo(y int, state quickreturn.ScrollState) tea.Cmd {
	return m.ScrollBy(y-m.scrollY, state)
}

func (m *Model) notifyScroll() {
	if m.height <= 0 {
		return
	}
	first, count := m.visibleRange()
	if first < 0 {
		return
	}
	m.lastFrame = m.binding.OnScroll(first, count, len(m.entries))
}

func (m *Model) setScrollState(s quickreturn.ScrollState) {
	if s == m.scrollState {
		return
	}
	m.scrollState = s
	m.binding.OnScrollStateChanged(s)
}

// scrollIdleMsg ends a scroll burst. Only the newest one counts.
type scrollIdleMsg struct {
	seq int
}

const idleDelay = 150 * time.Millisecond

func (m *Model) scheduleIdle() tea.Cmd {
	m.idleSeq++
	seq := m.idleSeq
	return tea.Tick(idleDelay, func(time.Time) tea.Msg {
		return scrollIdleMsg{seq: seq}
	})
}

func (m *Model) flush() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	cmds := m.pending
	m.pending = nil
	return tea.Batch(cmds...)
}
