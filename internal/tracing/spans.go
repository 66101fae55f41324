package tracing

// Span names.
const (
	SpanAnimation  = "quickreturn.animation"
	SpanTransition = "quickreturn.transition"
)

// Span attribute keys.
const (
	AttrStateFrom    = "state.from"
	AttrStateTo      = "state.to"
	AttrRawY         = "overlay.raw_y"
	AttrMinRawY      = "overlay.min_raw_y"
	AttrTranslationY = "overlay.translation_y"
	AttrOverlayH     = "overlay.height"
	AttrPolicy       = "policy.name"

	AttrAnimationID   = "animation.id"
	AttrAnimationKind = "animation.kind"
	AttrAnimationFrom = "animation.from"
	AttrAnimationTo   = "animation.to"
	AttrDurationMs    = "animation.duration_ms"
)

// Span event names.
const (
	EventAnimationCompleted = "animation.completed"
	EventStateHeld          = "state.held"
)
