package quickreturn

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/quickreturn/internal/log"
	"github.com/zjrosen/quickreturn/internal/pubsub"
	"github.com/zjrosen/quickreturn/internal/tracing"
)

// List is the scrollable list the overlay floats over.
type List interface {
	// FirstVisibleTop is the top edge of the first visible item relative to
	// the viewport. Zero or negative.
	FirstVisibleTop() int
	ItemCount() int
	ViewportHeight() int
	// PlaceholderTop is the placeholder's top within its container.
	PlaceholderTop() int
	// MeasureItem returns the natural height of item i without touching the
	// visible layout.
	MeasureItem(i int) int
	// SetPlaceholderHeight resizes the spacer that reserves room for the
	// overlay in the list's normal flow.
	SetPlaceholderHeight(h int)
}

// Overlay is the quick-return view.
type Overlay interface {
	Height() int
	// Translation is the vertical transform currently applied to the view.
	Translation() int
}

// Transformer sets the overlay's vertical transform directly.
type Transformer interface {
	SetTranslation(y int)
}

// Animator runs a timed vertical slide of the overlay. The overlay holds to
// once the slide ends, then onDone runs on the UI loop. onDone may be nil.
type Animator interface {
	StartTranslate(from, to int, d time.Duration, onDone func())
}

// Host is everything the binding needs from the UI toolkit.
type Host interface {
	List
	Transformer
	Animator
}

// Translator applies a computed translation to the overlay.
type Translator interface {
	ApplyTranslation(y int)
}

// ImmediateTranslator applies translations as a plain transform.
type ImmediateTranslator struct {
	Target Transformer
}

// ApplyTranslation implements Translator.
func (t ImmediateTranslator) ApplyTranslation(y int) {
	t.Target.SetTranslation(y)
}

// AnimatedTranslator applies translations through a zero-duration slide that
// holds its end value, for hosts without a direct transform.
type AnimatedTranslator struct {
	Animator Animator
}

// ApplyTranslation implements Translator.
func (t AnimatedTranslator) ApplyTranslation(y int) {
	t.Animator.StartTranslate(y, y, 0, nil)
}

// TranslateMode selects the Translator a Binding uses.
type TranslateMode string

const (
	TranslateImmediate TranslateMode = "immediate"
	TranslateAnimation TranslateMode = "animation"
)

// ParseTranslateMode validates a configured translate mode. Empty means
// TranslateImmediate.
func ParseTranslateMode(s string) (TranslateMode, error) {
	switch TranslateMode(s) {
	case "", TranslateImmediate:
		return TranslateImmediate, nil
	case TranslateAnimation:
		return TranslateAnimation, nil
	}
	return "", fmt.Errorf("invalid translate mode %q (valid: immediate, animation)", s)
}

// ScrollState is the list's scroll activity reported through
// OnScrollStateChanged.
type ScrollState int

const (
	ScrollIdle ScrollState = iota
	ScrollDragging
	ScrollSettling
)

func (s ScrollState) String() string {
	switch s {
	case ScrollIdle:
		return "idle"
	case ScrollDragging:
		return "dragging"
	case ScrollSettling:
		return "settling"
	default:
		return "unknown"
	}
}

// ScrollListener observes the list's scroll notifications. The binding
// forwards every notification unchanged to at most one listener.
type ScrollListener interface {
	OnScroll(firstVisible, visibleCount, totalCount int)
	OnScrollStateChanged(state ScrollState)
}

// Transition is published whenever the machine changes state or a slide
// starts or ends.
type Transition struct {
	From         State
	To           State
	RawY         int
	MinRawY      int
	TranslationY int
	// Animation is set on AnimationEvent payloads.
	Animation *Animation
	// Completed is true when Animation just finished.
	Completed bool
}

// Options configures a Binding.
type Options struct {
	Animated      bool
	SlideDuration time.Duration
	Hysteresis    int
	TranslateMode TranslateMode

	// Tracer records slide and transition spans. Nil means no-op.
	Tracer trace.Tracer
	// Transitions receives Transition events when non-nil.
	Transitions pubsub.Publisher[Transition]
}

// Binding connects a host list and its overlay to a Machine. All methods
// must be called from the host's UI loop.
type Binding struct {
	host    Host
	overlay Overlay
	opts    Options

	translator Translator
	machine    *Machine
	tracker    Tracker
	listener   ScrollListener
	tracer     trace.Tracer

	overlayHeight int
	scrollRange   int
	scrolled      bool

	spans map[uuid.UUID]trace.Span
}

// NewBinding creates a binding for host. Nothing happens on scroll until an
// overlay is registered with SetOverlay.
func NewBinding(host Host, opts Options) *Binding {
	b := &Binding{
		host:   host,
		opts:   opts,
		tracer: opts.Tracer,
		spans:  make(map[uuid.UUID]trace.Span),
	}
	if b.tracer == nil {
		b.tracer = noop.NewTracerProvider().Tracer("quickreturn")
	}
	if opts.TranslateMode == TranslateAnimation {
		b.translator = AnimatedTranslator{Animator: host}
	} else {
		b.translator = ImmediateTranslator{Target: host}
	}
	b.machine = NewMachine(b.policy(opts.Animated))
	return b
}

func (b *Binding) policy(animated bool) Policy {
	if !animated {
		return SnapPolicy{}
	}
	return SlidePolicy{Duration: b.opts.SlideDuration, Hysteresis: b.opts.Hysteresis}
}

// Machine exposes the underlying state machine for inspection.
func (b *Binding) Machine() *Machine {
	return b.machine
}

// SetOverlay registers the overlay, sizes the placeholder to its height and
// invalidates the height index.
func (b *Binding) SetOverlay(o Overlay) {
	b.overlay = o
	if o == nil {
		return
	}
	b.overlayHeight = o.Height()
	b.host.SetPlaceholderHeight(b.overlayHeight)
	b.tracker.Invalidate()
	log.Debug(log.CatScroll, "overlay registered", "height", b.overlayHeight)
}

// SetAnimatedReturn selects the slide policy (true) or snap policy (false).
// Calls after the first scroll notification are ignored.
func (b *Binding) SetAnimatedReturn(animated bool) {
	if b.scrolled {
		log.Warn(log.CatScroll, "animated return change ignored after first scroll", "animated", animated)
		return
	}
	b.opts.Animated = animated
	b.machine = NewMachine(b.policy(animated))
}

// SetScrollListener registers the pass-through listener, replacing any
// previous one. Nil clears it.
func (b *Binding) SetScrollListener(l ScrollListener) {
	b.listener = l
}

// InvalidateHeights marks the height index stale. Hosts call it when a
// header or footer is added.
func (b *Binding) InvalidateHeights() {
	b.tracker.Invalidate()
}

// OnScrollStateChanged forwards the notification to the listener.
func (b *Binding) OnScrollStateChanged(state ScrollState) {
	if b.listener != nil {
		b.listener.OnScrollStateChanged(state)
	}
}

// OnLayout refreshes overlay height and scroll range after a layout pass and
// rebuilds the height index if it is stale.
func (b *Binding) OnLayout() {
	if b.overlay == nil {
		return
	}
	if h := b.overlay.Height(); h != b.overlayHeight {
		b.overlayHeight = h
		b.host.SetPlaceholderHeight(h)
		b.tracker.Invalidate()
	}
	b.ensureIndex()
}

func (b *Binding) ensureIndex() {
	if b.tracker.Ensure(b.host.ItemCount(), b.host.MeasureItem) {
		log.Debug(log.CatScroll, "height index rebuilt",
			"items", b.tracker.Index().Len(), "total", b.tracker.Total())
	}
	b.scrollRange = b.tracker.Total()
}

// OnScroll handles one scroll notification and returns the frame the machine
// produced. Without an overlay it returns the zero Frame and does nothing.
func (b *Binding) OnScroll(firstVisible, visibleCount, totalCount int) Frame {
	if b.overlay == nil {
		return Frame{}
	}
	b.scrolled = true

	if b.listener != nil {
		b.listener.OnScroll(firstVisible, visibleCount, totalCount)
	}

	b.ensureIndex()
	scrollY, ok := b.tracker.ScrollY(firstVisible, b.host.FirstVisibleTop())

	frame := b.machine.Step(Input{
		FirstVisible:   firstVisible,
		VisibleCount:   visibleCount,
		TotalCount:     totalCount,
		ScrollY:        scrollY,
		ScrollValid:    ok,
		PlaceholderTop: b.host.PlaceholderTop(),
		ViewportHeight: b.host.ViewportHeight(),
		OverlayHeight:  b.overlayHeight,
		ScrollRange:    b.scrollRange,
		Translation:    b.overlay.Translation(),
	})

	if anim := frame.Animation; anim != nil {
		b.startAnimation(frame, anim)
	}
	if frame.Apply {
		b.translator.ApplyTranslation(frame.TranslationY)
	}
	if frame.Transitioned() {
		b.recordTransition(frame)
	}
	return frame
}

func (b *Binding) startAnimation(frame Frame, anim *Animation) {
	_, span := b.tracer.Start(context.Background(), tracing.SpanAnimation,
		trace.WithAttributes(
			attribute.String(tracing.AttrAnimationID, anim.ID.String()),
			attribute.String(tracing.AttrAnimationKind, anim.Kind.String()),
			attribute.Int(tracing.AttrAnimationFrom, anim.From),
			attribute.Int(tracing.AttrAnimationTo, anim.To),
			attribute.Int64(tracing.AttrDurationMs, anim.Duration.Milliseconds()),
			attribute.String(tracing.AttrPolicy, b.machine.Policy().Name()),
			attribute.String(tracing.AttrStateFrom, frame.State.String()),
		))
	b.spans[anim.ID] = span

	log.Debug(log.CatAnim, "slide started",
		"id", anim.ID, "kind", anim.Kind, "from", anim.From, "to", anim.To, "duration", anim.Duration)
	b.publish(pubsub.AnimationEvent, Transition{
		From:         frame.Previous,
		To:           frame.State,
		RawY:         frame.RawY,
		MinRawY:      frame.MinRawY,
		TranslationY: anim.From,
		Animation:    anim,
	})

	id := anim.ID
	b.host.StartTranslate(anim.From, anim.To, anim.Duration, func() {
		b.completeAnimation(id)
	})
}

func (b *Binding) completeAnimation(id uuid.UUID) {
	span := b.spans[id]
	delete(b.spans, id)

	anim := b.machine.inFlight
	frame, ok := b.machine.Complete(id)
	if !ok {
		log.Debug(log.CatAnim, "stale slide completion ignored", "id", id)
		if span != nil {
			span.SetStatus(codes.Error, "stale completion")
			span.End()
		}
		return
	}

	log.Debug(log.CatAnim, "slide completed", "id", id, "state", frame.State)
	if span != nil {
		span.AddEvent(tracing.EventAnimationCompleted, trace.WithAttributes(
			attribute.String(tracing.AttrStateTo, frame.State.String()),
			attribute.Int(tracing.AttrMinRawY, frame.MinRawY),
		))
		if !frame.Transitioned() {
			span.AddEvent(tracing.EventStateHeld)
		}
		span.SetStatus(codes.Ok, "")
		span.End()
	}

	b.publish(pubsub.AnimationEvent, Transition{
		From:         frame.Previous,
		To:           frame.State,
		RawY:         frame.RawY,
		MinRawY:      frame.MinRawY,
		TranslationY: frame.TranslationY,
		Animation:    anim,
		Completed:    true,
	})
	if frame.Transitioned() {
		b.recordTransition(frame)
	}
}

func (b *Binding) recordTransition(frame Frame) {
	log.Debug(log.CatScroll, "transition",
		"from", frame.Previous, "to", frame.State,
		"rawY", frame.RawY, "minRawY", frame.MinRawY, "translationY", frame.TranslationY)

	_, span := b.tracer.Start(context.Background(), tracing.SpanTransition,
		trace.WithAttributes(
			attribute.String(tracing.AttrStateFrom, frame.Previous.String()),
			attribute.String(tracing.AttrStateTo, frame.State.String()),
			attribute.Int(tracing.AttrRawY, frame.RawY),
			attribute.Int(tracing.AttrMinRawY, frame.MinRawY),
			attribute.Int(tracing.AttrTranslationY, frame.TranslationY),
			attribute.Int(tracing.AttrOverlayH, b.overlayHeight),
			attribute.String(tracing.AttrPolicy, b.machine.Policy().Name()),
		))
	span.End()

	b.publish(pubsub.TransitionEvent, Transition{
		From:         frame.Previous,
		To:           frame.State,
		RawY:         frame.RawY,
		MinRawY:      frame.MinRawY,
		TranslationY: frame.TranslationY,
	})
}

func (b *Binding) publish(t pubsub.EventType, tr Transition) {
	if b.opts.Transitions != nil {
		b.opts.Transitions.Publish(t, tr)
	}
}
