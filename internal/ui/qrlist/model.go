// Package qrlist is a scrollable list with a quick-return header. It is the
// Bubble Tea host for quickreturn.Binding: row 0 is a placeholder that
// reserves room for the header, and the header floats over the list at the
// translation the binding computes.
package qrlist

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/zjrosen/quickreturn/internal/keys"
	"github.com/zjrosen/quickreturn/internal/log"
	"github.com/zjrosen/quickreturn/internal/quickreturn"
)

const zoneID = "qrlist-viewport"

// Config configures a list.
type Config struct {
	Items []string
	// Render is "plain" or "markdown".
	Render        string
	MarkdownStyle string

	Title string
	// Subtitle is drawn inside the header box.
	Subtitle     string
	HeaderHeight int

	Binding quickreturn.Options
	Keys    keys.ListKeyMap
}

type entryKind int

const (
	kindPlaceholder entryKind = iota
	kindHeader
	kindItem
	kindFooter
)

func (k entryKind) String() string {
	switch k {
	case kindPlaceholder:
		return "placeholder"
	case kindHeader:
		return "header"
	case kindFooter:
		return "footer"
	default:
		return "item"
	}
}

type entry struct {
	kind entryKind
	text string
}

// header is the quick-return view registered with the binding.
type header struct {
	title       string
	subtitle    string
	height      int
	translation int
}

// Height implements quickreturn.Overlay.
func (h *header) Height() int { return h.height }

// Translation implements quickreturn.Overlay.
func (h *header) Translation() int { return h.translation }

// Model is the list component. It is used by pointer because the binding
// keeps a reference to it as its host.
type Model struct {
	keys     keys.ListKeyMap
	binding  *quickreturn.Binding
	renderer *renderer

	width  int
	height int

	headers []string
	items   []string
	footers []string
	entries []entry

	placeholderHeight int
	header            header

	// Host-side layout, independent of the binding's height index.
	tops       []int
	total      int
	layoutGood bool

	scrollY     int
	scrollState quickreturn.ScrollState
	idleSeq     int

	slides  map[uuid.UUID]*slide
	pending []tea.Cmd
	now     func() time.Time

	lastFrame quickreturn.Frame
}

// New creates a list and binds it to a quick-return machine.
func New(cfg Config) *Model {
	height := cfg.HeaderHeight
	if height <= 0 {
		height = 3
	}
	if cfg.Keys.Up.Keys() == nil {
		cfg.Keys = keys.List
	}

	m := &Model{
		keys:     cfg.Keys,
		renderer: newRenderer(cfg.Render, cfg.MarkdownStyle),
		items:    append([]string(nil), cfg.Items...),
		header: header{
			title:    cfg.Title,
			subtitle: cfg.Subtitle,
			height:   height,
		},
		slides: make(map[uuid.UUID]*slide),
		now:    time.Now,
	}
	m.rebuildEntries()

	m.binding = quickreturn.NewBinding(m, cfg.Binding)
	m.binding.SetOverlay(&m.header)
	return m
}

// Binding returns the quick-return binding driving the header.
func (m *Model) Binding() *quickreturn.Binding {
	return m.binding
}

// SetScrollListener registers a pass-through scroll listener.
func (m *Model) SetScrollListener(l quickreturn.ScrollListener) {
	m.binding.SetScrollListener(l)
}

// State returns the quick-return state.
func (m *Model) State() quickreturn.State {
	return m.binding.Machine().State()
}

// LastFrame returns the frame produced by the latest scroll notification.
func (m *Model) LastFrame() quickreturn.Frame {
	return m.lastFrame
}

// HeaderTranslation returns the header's current vertical offset.
func (m *Model) HeaderTranslation() int {
	return m.header.translation
}

// ScrollY returns the absolute scroll position in rows.
func (m *Model) ScrollY() int {
	return m.scrollY
}

// SetSize resizes the list viewport. A width change re-wraps every row, so
// the height index is invalidated.
func (m *Model) SetSize(width, height int) tea.Cmd {
	if width != m.width {
		m.layoutGood = false
		m.binding.InvalidateHeights()
	}
	m.width = width
	m.height = max(height, 0)

	m.binding.OnLayout()
	m.clampScroll()
	m.notifyScroll()
	return m.flush()
}

// SetItems replaces the list items, keeping headers and footers.
func (m *Model) SetItems(items []string) tea.Cmd {
	m.items = append([]string(nil), items...)
	m.contentChanged()
	m.notifyScroll()
	return m.flush()
}

// AddHeader appends a header row above the items.
func (m *Model) AddHeader(text string) {
	m.headers = append(m.headers, text)
	m.contentChanged()
	log.Debug(log.CatUI, "header added", "count", len(m.headers))
}

// AddFooter appends a footer row below the items.
func (m *Model) AddFooter(text string) {
	m.footers = append(m.footers, text)
	m.contentChanged()
	log.Debug(log.CatUI, "footer added", "count", len(m.footers))
}

// SetHeaderHeight resizes the quick-return header. The binding picks up the
// new height on the layout pass.
func (m *Model) SetHeaderHeight(h int) tea.Cmd {
	m.header.height = max(h, 1)
	m.binding.OnLayout()
	m.clampScroll()
	m.notifyScroll()
	return m.flush()
}

// SetSubtitle changes the text inside the header box.
func (m *Model) SetSubtitle(s string) {
	m.header.subtitle = s
}

func (m *Model) contentChanged() {
	m.rebuildEntries()
	m.layoutGood = false
	m.binding.InvalidateHeights()
	m.clampScroll()
}

func (m *Model) rebuildEntries() {
	entries := make([]entry, 0, 1+len(m.headers)+len(m.items)+len(m.footers))
	entries = append(entries, entry{kind: kindPlaceholder})
	for _, h := range m.headers {
		entries = append(entries, entry{kind: kindHeader, text: h})
	}
	for _, it := range m.items {
		entries = append(entries, entry{kind: kindItem, text: it})
	}
	for _, f := range m.footers {
		entries = append(entries, entry{kind: kindFooter, text: f})
	}
	m.entries = entries
}

// FirstVisibleTop implements quickreturn.List.
func (m *Model) FirstVisibleTop() int {
	first, _ := m.visibleRange()
	if first < 0 {
		return 0
	}
	return m.tops[first] - m.scrollY
}

// ItemCount implements quickreturn.List.
func (m *Model) ItemCount() int {
	return len(m.entries)
}

// ViewportHeight implements quickreturn.List.
func (m *Model) ViewportHeight() int {
	return m.height
}

// PlaceholderTop implements quickreturn.List. The placeholder is always the
// first row of the content.
func (m *Model) PlaceholderTop() int {
	return 0
}

// MeasureItem implements quickreturn.List.
func (m *Model) MeasureItem(i int) int {
	if i < 0 || i >= len(m.entries) {
		return 0
	}
	return m.rowHeight(i)
}

// SetPlaceholderHeight implements quickreturn.List.
func (m *Model) SetPlaceholderHeight(h int) {
	if h == m.placeholderHeight {
		return
	}
	m.placeholderHeight = h
	m.layoutGood = false
}

// SetTranslation implements quickreturn.Transformer.
func (m *Model) SetTranslation(y int) {
	m.header.translation = y
}
