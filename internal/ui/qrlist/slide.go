package qrlist

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/zjrosen/quickreturn/internal/log"
)

// frameInterval paces slide ticks at roughly 60fps.
const frameInterval = 16 * time.Millisecond

// slide is a running header translation.
type slide struct {
	id       uuid.UUID
	from, to int
	start    time.Time
	duration time.Duration
	onDone   func()
}

// slideTickMsg advances one slide.
type slideTickMsg struct {
	id uuid.UUID
	at time.Time
}

// StartTranslate implements quickreturn.Animator. The header jumps to from,
// moves linearly to to over d and holds to afterwards. onDone runs from
// Update, never from inside StartTranslate.
func (m *Model) StartTranslate(from, to int, d time.Duration, onDone func()) {
	if d <= 0 && onDone == nil {
		m.header.translation = to
		return
	}

	s := &slide{
		id:       uuid.New(),
		from:     from,
		to:       to,
		start:    m.now(),
		duration: d,
		onDone:   onDone,
	}
	m.slides[s.id] = s
	m.header.translation = from
	log.Debug(log.CatAnim, "header slide scheduled", "id", s.id, "from", from, "to", to, "duration", d)

	if d <= 0 {
		id := s.id
		m.pending = append(m.pending, func() tea.Msg { return slideTickMsg{id: id, at: s.start} })
		return
	}
	m.pending = append(m.pending, tick(s.id))
}

func tick(id uuid.UUID) tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return slideTickMsg{id: id, at: t}
	})
}

// Sliding reports whether any header slide is running.
func (m *Model) Sliding() bool {
	return len(m.slides) > 0
}

func (m *Model) advanceSlide(msg slideTickMsg) tea.Cmd {
	s, ok := m.slides[msg.id]
	if !ok {
		return nil
	}

	elapsed := msg.at.Sub(s.start)
	if s.duration > 0 && elapsed < s.duration {
		progress := float64(elapsed) / float64(s.duration)
		m.header.translation = s.from + int(math.Round(float64(s.to-s.from)*progress))
		return tick(s.id)
	}

	m.header.translation = s.to
	delete(m.slides, s.id)
	if s.onDone != nil {
		s.onDone()
	}
	return m.flush()
}
