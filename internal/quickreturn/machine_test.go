package quickreturn

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const (
	testOverlay  = 80
	testViewport = 600
	testRange    = 2000
)

func inputAt(scrollY int) Input {
	return Input{
		ScrollY:        scrollY,
		ScrollValid:    true,
		ViewportHeight: testViewport,
		OverlayHeight:  testOverlay,
		ScrollRange:    testRange,
	}
}

// sim drives a Machine the way a host does: it tracks the applied overlay
// translation and runs slides to completion on demand.
type sim struct {
	m       *Machine
	current int
	pending []*Animation
	started int
}

func newSim(p Policy) *sim {
	return &sim{m: NewMachine(p)}
}

func (s *sim) scroll(scrollY int) Frame {
	return s.step(inputAt(scrollY))
}

func (s *sim) step(in Input) Frame {
	in.Translation = s.current
	f := s.m.Step(in)
	if f.Animation != nil {
		s.started++
		s.pending = append(s.pending, f.Animation)
		s.current = f.Animation.From
	}
	if f.Apply {
		s.current = f.TranslationY
	}
	return f
}

// finish completes every pending slide in start order.
func (s *sim) finish() {
	for _, a := range s.pending {
		if _, ok := s.m.Complete(a.ID); ok {
			s.current = a.To
		}
	}
	s.pending = nil
}

// scrollThrough steps scrollY from one value to another inclusive.
func (s *sim) scrollThrough(from, to, step int) Frame {
	var f Frame
	if from <= to {
		for y := from; y <= to; y += step {
			f = s.scroll(y)
		}
	} else {
		for y := from; y >= to; y -= step {
			f = s.scroll(y)
		}
	}
	return f
}

func TestRawY(t *testing.T) {
	require.Equal(t, -300, RawY(inputAt(300)))
	require.Equal(t, -1400, RawY(inputAt(2000)), "clamped to the scrollable extent")

	in := inputAt(300)
	in.ScrollValid = false
	require.Equal(t, 0, RawY(in), "invalid scroll position counts as zero")

	in = inputAt(30)
	in.PlaceholderTop = 50
	require.Equal(t, 20, RawY(in))
}

func TestMachine_InitialState(t *testing.T) {
	m := NewMachine(nil)
	require.Equal(t, StateOnscreen, m.State())
	require.Equal(t, "snap", m.Policy().Name())
	require.False(t, m.InFlight())
}

func TestMachine_OnscreenFollowsContent(t *testing.T) {
	m := NewMachine(SnapPolicy{})

	f := m.Step(inputAt(50))
	require.Equal(t, StateOnscreen, f.State)
	require.Equal(t, -50, f.TranslationY)
	require.True(t, f.Apply)

	f = m.Step(inputAt(80))
	require.Equal(t, StateOnscreen, f.State, "rawY == -h is still on screen")

	f = m.Step(inputAt(81))
	require.Equal(t, StateOffscreen, f.State)
	require.True(t, f.Transitioned())
	require.Equal(t, -81, f.MinRawY)
	require.Equal(t, -81, f.TranslationY)
}

func TestMachine_OffscreenTracksDeepestPoint(t *testing.T) {
	m := NewMachine(SnapPolicy{})
	m.Step(inputAt(200))
	require.Equal(t, StateOffscreen, m.State())

	f := m.Step(inputAt(500))
	require.Equal(t, StateOffscreen, f.State)
	require.Equal(t, -500, f.MinRawY)
	require.Equal(t, -testOverlay, f.TranslationY, "pinned fully off screen")
}

func TestSnap_ScrollDownPastOverlayThenUp(t *testing.T) {
	s := newSim(SnapPolicy{})

	f := s.scrollThrough(0, 2000, 100)
	require.Equal(t, StateOffscreen, f.State)
	require.Equal(t, -1400, f.RawY)
	require.Equal(t, -80, f.TranslationY)

	// The list cannot scroll past its extent, so "up 30" is from 1400.
	f = s.scroll(1370)
	require.Equal(t, StateReturning, f.State)
	require.Equal(t, -50, f.TranslationY)

	f = s.scroll(1320)
	require.Equal(t, 0, f.TranslationY)
	require.Equal(t, StateReturning, f.State, "fully shown overlay keeps tracking")

	// Further up: clamped, anchor follows.
	f = s.scroll(1300)
	require.Equal(t, 0, f.TranslationY)
	require.Equal(t, -1380, f.MinRawY)

	// Scrolling down hides it again right away.
	f = s.scroll(1340)
	require.Equal(t, StateReturning, f.State)
	require.Equal(t, -40, f.TranslationY)

	f = s.scroll(1400)
	require.Equal(t, StateOffscreen, f.State)
	require.Equal(t, -1400, f.MinRawY)
}

func TestSnap_ReturnsOnscreenWhenPlaceholderVisible(t *testing.T) {
	m := NewMachine(SnapPolicy{})
	step := func(scrollY int) Frame {
		in := inputAt(scrollY)
		in.PlaceholderTop = 100
		return m.Step(in)
	}

	step(300)
	require.Equal(t, StateOffscreen, m.State())

	f := step(250)
	require.Equal(t, StateReturning, f.State)

	f = step(90)
	require.Equal(t, StateOnscreen, f.State)
	require.Equal(t, 10, f.TranslationY)
}

func TestSnap_LeavingOffscreenStopsAtReturning(t *testing.T) {
	m := NewMachine(SnapPolicy{})
	m.Step(inputAt(300))
	require.Equal(t, StateOffscreen, m.State())

	// Content shrank below the viewport: rawY jumps positive.
	in := inputAt(0)
	in.ScrollRange = 100
	require.Equal(t, 500, RawY(in))

	f := m.Step(in)
	require.Equal(t, StateOffscreen, f.Previous)
	require.Equal(t, StateReturning, f.State, "never skips straight to onscreen")
	require.Equal(t, 0, f.TranslationY)
	require.Equal(t, 420, f.MinRawY)

	f = m.Step(in)
	require.Equal(t, StateOnscreen, f.State)
	require.Equal(t, 500, f.TranslationY)
}

func TestSlide_LeavingOffscreenStopsAtReturning(t *testing.T) {
	s := newSim(SlidePolicy{})
	s.scroll(300)

	in := inputAt(0)
	in.ScrollRange = 100
	f := s.step(in)
	require.Equal(t, StateReturning, f.State)
	require.Equal(t, 0, f.TranslationY)
	require.Nil(t, f.Animation)

	f = s.step(in)
	require.Equal(t, StateOnscreen, f.State)
	require.Equal(t, 500, f.TranslationY)
}

func TestSlide_RevealBurstEndsExpanded(t *testing.T) {
	s := newSim(SlidePolicy{})
	s.scrollThrough(0, 1400, 100)
	require.Equal(t, -80, s.current)

	f := s.scroll(1370)
	require.Equal(t, StateReturning, f.State)
	require.NotNil(t, f.Animation)
	require.False(t, f.Apply)
	require.Equal(t, AnimationReveal, f.Animation.Kind)
	require.Equal(t, -80, f.Animation.From)
	require.Equal(t, 0, f.Animation.To)
	require.Equal(t, DefaultSlideDuration, f.Animation.Duration)

	// Scroll noise while the slide runs.
	for _, y := range []int{1360, 1375, 1350, 1365, 1355} {
		f = s.scroll(y)
		require.Nil(t, f.Animation)
		require.False(t, f.Apply)
		require.Equal(t, StateReturning, f.State)
	}
	require.Equal(t, 1, s.started)

	s.finish()
	require.Equal(t, StateExpanded, s.m.State())
	require.Equal(t, -1355, s.m.MinRawY(), "anchored at the rawY seen last")
	require.Equal(t, 0, s.current)
}

func TestSlide_ConcealAfterHysteresis(t *testing.T) {
	s := newSim(SlidePolicy{})
	s.scrollThrough(0, 1400, 100)
	s.scroll(1370)
	s.finish()
	require.Equal(t, StateExpanded, s.m.State())
	anchor := s.m.MinRawY()

	// Within hysteresis: nothing moves, anchor follows.
	f := s.scroll(1372)
	require.Nil(t, f.Animation)
	require.Equal(t, StateExpanded, f.State)
	require.Equal(t, 0, f.TranslationY)
	require.Equal(t, anchor-2, f.MinRawY)

	// Scrolling back up while expanded moves the anchor with it.
	f = s.scroll(1360)
	require.Equal(t, StateExpanded, f.State)
	require.Equal(t, -1360, f.MinRawY)

	f = s.scroll(1363)
	require.NotNil(t, f.Animation)
	require.Equal(t, AnimationConceal, f.Animation.Kind)
	require.Equal(t, 0, f.Animation.From)
	require.Equal(t, -80, f.Animation.To)
	require.Equal(t, 0, f.TranslationY)

	s.finish()
	require.Equal(t, StateOffscreen, s.m.State())
	require.Equal(t, -80, s.current)
}

func TestSlide_EscapeWhileInFlight(t *testing.T) {
	s := newSim(SlidePolicy{})
	s.scrollThrough(0, 1000, 100)
	s.scroll(970)
	require.True(t, s.m.InFlight())

	// Pushed back off before the reveal finished.
	f := s.scroll(1100)
	require.Equal(t, StateOffscreen, f.State)
	require.Equal(t, -1100, f.MinRawY)
	require.True(t, f.Apply, "escapes still apply while a slide runs")

	s.finish()
	require.Equal(t, StateOffscreen, s.m.State(), "completion leaves a forced state alone")
	require.False(t, s.m.InFlight())
}

func TestMachine_StaleCompletionIgnored(t *testing.T) {
	s := newSim(SlidePolicy{})
	s.scrollThrough(0, 1400, 100)
	f := s.scroll(1370)
	id := f.Animation.ID

	_, ok := s.m.Complete(id)
	require.True(t, ok)
	_, ok = s.m.Complete(id)
	require.False(t, ok, "second completion is stale")
}

func TestSnap_NeverAnimates(t *testing.T) {
	s := newSim(SnapPolicy{})
	s.scrollThrough(0, 1400, 40)
	s.scrollThrough(1400, 0, 15)
	s.scrollThrough(0, 1400, 25)
	require.Zero(t, s.started)
	require.NotEqual(t, StateExpanded, s.m.State())
}

func scrollDeltas(t *rapid.T) []int {
	return rapid.SliceOfN(rapid.IntRange(-120, 120), 1, 80).Draw(t, "deltas")
}

func TestProperty_OnscreenTracksScrollDelta(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := NewMachine(SnapPolicy{})
		steps := rapid.SliceOfN(rapid.IntRange(0, 30), 1, 40).Draw(t, "steps")

		y := 0
		prev := 0
		for _, d := range steps {
			y += d
			f := m.Step(inputAt(y))
			if f.Previous != StateOnscreen {
				return
			}
			if f.RawY < -testOverlay {
				if f.State != StateOffscreen {
					t.Fatalf("rawY %d past overlay but state %s", f.RawY, f.State)
				}
				return
			}
			if f.State != StateOnscreen || prev-f.TranslationY != d {
				t.Fatalf("delta %d moved translation %d -> %d", d, prev, f.TranslationY)
			}
			prev = f.TranslationY
		}
	})
}

func TestProperty_OffscreenOnlyLeadsToReturning(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		animated := rapid.Bool().Draw(t, "animated")
		top := rapid.IntRange(0, testOverlay).Draw(t, "placeholderTop")
		s := newSim(PolicyFor(animated))
		y, scrollRange := 0, testRange
		for _, d := range scrollDeltas(t) {
			// Content can shrink below the viewport (items reloaded), which
			// makes rawY positive.
			if rapid.IntRange(0, 5).Draw(t, "resize") == 0 {
				scrollRange = rapid.IntRange(testViewport/2, testRange).Draw(t, "scrollRange")
			}
			y = min(max(y+d, 0), max(scrollRange-testViewport, 0))
			in := inputAt(y)
			in.PlaceholderTop = top
			in.ScrollRange = scrollRange

			before := s.m.State()
			f := s.step(in)
			if before == StateOffscreen && f.State != StateOffscreen && f.State != StateReturning {
				t.Fatalf("offscreen jumped to %s at rawY %d", f.State, f.RawY)
			}
			if f.State == StateReturning && (f.TranslationY < -testOverlay || f.TranslationY > 0) {
				t.Fatalf("returning translation %d outside [-%d, 0]", f.TranslationY, testOverlay)
			}
			if rapid.Bool().Draw(t, "complete") {
				s.finish()
			}
		}
	})
}

func TestProperty_SnapReturningBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := newSim(SnapPolicy{})
		y := 0
		for _, d := range scrollDeltas(t) {
			y = min(max(y+d, 0), testRange-testViewport)
			f := s.scroll(y)
			if f.State == StateReturning && (f.TranslationY < -testOverlay || f.TranslationY > 0) {
				t.Fatalf("returning translation %d outside [-%d, 0]", f.TranslationY, testOverlay)
			}
			if f.State == StateExpanded {
				t.Fatalf("snap reached expanded")
			}
		}
	})
}

func TestProperty_SlideSingleAnimationInFlight(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := newSim(SlidePolicy{})
		y := 0
		for _, d := range scrollDeltas(t) {
			y = min(max(y+d, 0), testRange-testViewport)
			busy := s.m.InFlight()
			f := s.scroll(y)
			if busy && f.Animation != nil {
				t.Fatalf("second slide started while one was in flight")
			}
			if f.Animation != nil && f.Apply {
				t.Fatalf("frame that started a slide also applied a translation")
			}
			if rapid.IntRange(0, 4).Draw(t, "tick") == 0 {
				s.finish()
			}
		}
		if len(s.pending) > 1 {
			t.Fatalf("%d slides pending", len(s.pending))
		}
	})
}

func TestProperty_SnapIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := newSim(SnapPolicy{})
		y := 0
		for _, d := range scrollDeltas(t) {
			y = min(max(y+d, 0), testRange-testViewport)
			first := s.scroll(y)
			if first.Transitioned() {
				continue
			}
			second := s.scroll(y)
			if second.TranslationY != first.TranslationY || second.State != first.State {
				t.Fatalf("repeat at y=%d: %d/%s then %d/%s", y,
					first.TranslationY, first.State, second.TranslationY, second.State)
			}
		}
	})
}
