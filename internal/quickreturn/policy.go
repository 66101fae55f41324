package quickreturn

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultSlideDuration is how long a reveal or conceal slide runs.
	DefaultSlideDuration = 250 * time.Millisecond
	// DefaultHysteresis is how far rawY must drop below minRawY while
	// EXPANDED before a conceal starts. Filters out scroll noise.
	DefaultHysteresis = 2
)

// Policy decides how the overlay behaves while RETURNING (show) and
// EXPANDED (hide). The two implementations are SnapPolicy and SlidePolicy.
type Policy interface {
	Name() string
	show(s *step)
	hide(s *step)
}

// PolicyFor returns SlidePolicy with default timings when animated is true
// and SnapPolicy otherwise.
func PolicyFor(animated bool) Policy {
	if animated {
		return SlidePolicy{}
	}
	return SnapPolicy{}
}

// SnapPolicy moves the overlay back in lockstep with the upward scroll,
// without animation.
type SnapPolicy struct{}

// Name implements Policy.
func (SnapPolicy) Name() string { return "snap" }

func (SnapPolicy) show(s *step) {
	t := (s.rawY - s.minRawY) - s.height
	if t > 0 {
		t = 0
		s.minRawY = s.rawY - s.height
	}

	if s.rawY > 0 {
		s.state = StateOnscreen
		t = s.rawY
	}

	if t < -s.height {
		s.state = StateOffscreen
		s.minRawY = s.rawY
	}

	s.translationY = t
}

// hide is never reached: snap never enters EXPANDED.
func (SnapPolicy) hide(s *step) {
	s.translationY = 0
}

// SlidePolicy reveals and conceals the overlay with fixed-duration slides.
// Zero fields take the package defaults.
type SlidePolicy struct {
	Duration   time.Duration
	Hysteresis int
}

// Name implements Policy.
func (SlidePolicy) Name() string { return "slide" }

func (p SlidePolicy) duration() time.Duration {
	if p.Duration <= 0 {
		return DefaultSlideDuration
	}
	return p.Duration
}

func (p SlidePolicy) hysteresis() int {
	if p.Hysteresis <= 0 {
		return DefaultHysteresis
	}
	return p.Hysteresis
}

func (p SlidePolicy) show(s *step) {
	t, escaped := escape(s, (s.rawY-s.minRawY)-s.height)
	switch {
	case escaped:
	case s.inFlight:
		s.held = true
	case s.current != 0:
		p.start(s, AnimationReveal, -s.height, 0)
	default:
		t = 0
	}
	s.translationY = t
}

func (p SlidePolicy) hide(s *step) {
	if s.rawY < s.minRawY-p.hysteresis() && !s.inFlight {
		p.start(s, AnimationConceal, 0, -s.height)
		s.translationY = 0
		return
	}

	// The overlay rests fully shown while EXPANDED.
	t, escaped := escape(s, 0)
	if !escaped {
		s.minRawY = s.rawY
		s.held = s.inFlight
	}
	s.translationY = t
}

func (p SlidePolicy) start(s *step, kind AnimationKind, from, to int) {
	s.started = &Animation{
		ID:       uuid.New(),
		Kind:     kind,
		From:     from,
		To:       to,
		Duration: p.duration(),
	}
	s.held = true
}

// escape applies the checks shared by both slide behaviors, in order:
// overshoot past fully shown, overlay already on screen, overlay pushed back
// off. It returns the adjusted translation and whether a check fired.
func escape(s *step, t int) (int, bool) {
	switch {
	case t > 0:
		s.minRawY = s.rawY - s.height
		return 0, true
	case s.rawY > 0:
		s.state = StateOnscreen
		return s.rawY, true
	case t < -s.height:
		s.state = StateOffscreen
		s.minRawY = s.rawY
		return t, true
	}
	return t, false
}
