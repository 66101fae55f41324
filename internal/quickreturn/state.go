// Package quickreturn implements the scroll-translation state machine behind a
// quick-return list: an overlay (header/toolbar) that scrolls away with the
// content and comes back as soon as the user scrolls up, regardless of how far
// down the list they are.
//
// The package is host agnostic. A host list reports scroll and layout
// notifications to a Binding, which keeps a HeightIndex current, steps the
// Machine and applies the resulting translation to the overlay.
package quickreturn

// State is the overlay's position mode.
type State int

const (
	// StateOnscreen means the overlay moves with the content.
	StateOnscreen State = iota
	// StateOffscreen means the overlay is pinned above the top edge.
	StateOffscreen
	// StateReturning means the user reversed direction and the overlay is
	// sliding back in proportionally to the distance scrolled up.
	StateReturning
	// StateExpanded means the overlay is fully shown and detached from the
	// content. Only the slide policy reaches it.
	StateExpanded
)

func (s State) String() string {
	switch s {
	case StateOnscreen:
		return "onscreen"
	case StateOffscreen:
		return "offscreen"
	case StateReturning:
		return "returning"
	case StateExpanded:
		return "expanded"
	default:
		return "unknown"
	}
}
