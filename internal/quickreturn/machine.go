package quickreturn

import (
	"time"

	"github.com/google/uuid"
)

// Input is everything the machine needs for one scroll notification.
type Input struct {
	FirstVisible int
	VisibleCount int
	TotalCount   int

	// ScrollY is the absolute scroll position from the HeightIndex.
	// Ignored (treated as 0) when ScrollValid is false.
	ScrollY     int
	ScrollValid bool

	// PlaceholderTop is the placeholder's top within its container.
	PlaceholderTop int
	ViewportHeight int
	OverlayHeight  int
	// ScrollRange is the cached total content height.
	ScrollRange int

	// Translation is the overlay's currently applied vertical transform.
	Translation int
}

// AnimationKind tells which way a slide moves the overlay.
type AnimationKind int

const (
	// AnimationReveal slides the overlay from -height to 0.
	AnimationReveal AnimationKind = iota
	// AnimationConceal slides the overlay from 0 to -height.
	AnimationConceal
)

func (k AnimationKind) String() string {
	if k == AnimationReveal {
		return "reveal"
	}
	return "conceal"
}

// Animation describes a timed slide the host must run. The overlay holds To
// once the slide finishes.
type Animation struct {
	ID       uuid.UUID
	Kind     AnimationKind
	From     int
	To       int
	Duration time.Duration
}

// Frame is the machine's output for one event.
type Frame struct {
	Previous State
	State    State
	RawY     int
	MinRawY  int

	// TranslationY is the overlay transform computed for this frame.
	TranslationY int
	// Apply is false when a slide owns the overlay position this frame.
	Apply bool
	// Animation is set on the frame that started a slide.
	Animation *Animation
}

// Transitioned reports whether the frame changed state.
func (f Frame) Transitioned() bool {
	return f.Previous != f.State
}

// step is the per-event computation record threaded through the policy.
type step struct {
	state        State
	rawY         int
	minRawY      int
	translationY int
	height       int
	current      int
	inFlight     bool
	held         bool
	started      *Animation
}

// Machine is the quick-return state machine. It is not safe for concurrent
// use; hosts drive it from their UI loop.
type Machine struct {
	policy Policy

	state    State
	minRawY  int
	inFlight *Animation

	// lastRawY is the rawY of the latest event, read when a reveal completes.
	lastRawY int
}

// NewMachine returns a machine in StateOnscreen using the given policy.
// A nil policy means SnapPolicy.
func NewMachine(policy Policy) *Machine {
	if policy == nil {
		policy = SnapPolicy{}
	}
	return &Machine{policy: policy, state: StateOnscreen}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// MinRawY returns the current high-water mark.
func (m *Machine) MinRawY() int {
	return m.minRawY
}

// InFlight reports whether a slide is running.
func (m *Machine) InFlight() bool {
	return m.inFlight != nil
}

// Policy returns the transition policy in use.
func (m *Machine) Policy() Policy {
	return m.policy
}

// RawY computes the overlay's ideal position for an input. Scroll stops
// contributing once the content cannot scroll any further.
func RawY(in Input) int {
	scrollY := 0
	if in.ScrollValid {
		scrollY = in.ScrollY
	}
	return in.PlaceholderTop - min(in.ScrollRange-in.ViewportHeight, scrollY)
}

// Step advances the machine by one scroll notification.
func (m *Machine) Step(in Input) Frame {
	rawY := RawY(in)
	s := &step{
		state:    m.state,
		rawY:     rawY,
		minRawY:  m.minRawY,
		height:   in.OverlayHeight,
		current:  in.Translation,
		inFlight: m.inFlight != nil,
	}

	switch s.state {
	case StateOffscreen:
		if rawY <= s.minRawY {
			s.minRawY = rawY
			s.translationY = max(rawY, -s.height)
		} else {
			s.state = StateReturning
			m.policy.show(s)
			// Leaving OFFSCREEN always lands in RETURNING. An ONSCREEN
			// escape waits for the next event.
			if s.state == StateOnscreen {
				s.state = StateReturning
				s.translationY = min(max(s.rawY-s.minRawY-s.height, -s.height), 0)
			}
		}

	case StateOnscreen:
		if rawY < -s.height {
			s.state = StateOffscreen
			s.minRawY = rawY
		}
		s.translationY = rawY

	case StateReturning:
		m.policy.show(s)

	case StateExpanded:
		m.policy.hide(s)
	}

	frame := Frame{
		Previous:     m.state,
		State:        s.state,
		RawY:         rawY,
		MinRawY:      s.minRawY,
		TranslationY: s.translationY,
		Apply:        !s.held,
		Animation:    s.started,
	}

	m.state = s.state
	m.minRawY = s.minRawY
	m.lastRawY = rawY
	if s.started != nil {
		m.inFlight = s.started
	}
	return frame
}

// Complete handles a slide's completion callback. Completions for anything
// but the slide in flight are ignored and report false.
//
// A reveal moves RETURNING to EXPANDED and re-anchors minRawY at the latest
// rawY; a conceal moves EXPANDED to OFFSCREEN. If a scroll event already
// forced the state elsewhere while the slide ran, the state is left alone.
func (m *Machine) Complete(id uuid.UUID) (Frame, bool) {
	if m.inFlight == nil || m.inFlight.ID != id {
		return Frame{}, false
	}
	anim := m.inFlight
	m.inFlight = nil

	prev := m.state
	switch anim.Kind {
	case AnimationReveal:
		if m.state == StateReturning {
			m.minRawY = m.lastRawY
			m.state = StateExpanded
		}
	case AnimationConceal:
		if m.state == StateExpanded {
			m.state = StateOffscreen
		}
	}

	return Frame{
		Previous:     prev,
		State:        m.state,
		RawY:         m.lastRawY,
		MinRawY:      m.minRawY,
		TranslationY: anim.To,
	}, true
}
