// Package app contains the root application model: the quick-return list,
// a status bar fed by transition events, and the debug log overlay.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/quickreturn/internal/config"
	"github.com/zjrosen/quickreturn/internal/items"
	"github.com/zjrosen/quickreturn/internal/keys"
	"github.com/zjrosen/quickreturn/internal/log"
	"github.com/zjrosen/quickreturn/internal/pubsub"
	"github.com/zjrosen/quickreturn/internal/quickreturn"
	"github.com/zjrosen/quickreturn/internal/ui/qrlist"
	"github.com/zjrosen/quickreturn/internal/ui/shared/logoverlay"
	"github.com/zjrosen/quickreturn/internal/ui/styles"
	"github.com/zjrosen/quickreturn/internal/ui/toaster"
	"github.com/zjrosen/quickreturn/internal/watcher"
)

// Options configures the application.
type Options struct {
	Config config.Config
	// ConfigPath is where toggled settings are saved. Empty disables saving.
	ConfigPath string
	Tracer     trace.Tracer
	// Debug enables the log overlay (ctrl+x).
	Debug bool
}

// scrollStats records the pass-through scroll notifications for the status
// bar. It is shared by pointer so the binding's listener and the value-typed
// Model see the same data.
type scrollStats struct {
	first, visible, total int
	state                 quickreturn.ScrollState
}

func (s *scrollStats) OnScroll(first, visible, total int) {
	s.first, s.visible, s.total = first, visible, total
}

func (s *scrollStats) OnScrollStateChanged(state quickreturn.ScrollState) {
	s.state = state
}

// itemsChangedMsg is sent when the watched items file changes on disk.
type itemsChangedMsg struct{}

// itemsLoadedMsg carries a reload result.
type itemsLoadedMsg struct {
	items []string
	err   error
}

// Model is the root application state.
type Model struct {
	cfg        config.Config
	configPath string
	itemsPath  string

	list    *qrlist.Model
	stats   *scrollStats
	keys    keys.AppKeyMap
	help    help.Model
	toaster toaster.Model

	debugMode   bool
	logOverlay  logoverlay.Model
	logListener *log.LogListener

	transitions        *pubsub.Broker[quickreturn.Transition]
	transitionListener *pubsub.ContinuousListener[quickreturn.Transition]
	last               quickreturn.Transition
	animated           bool

	headers int
	footers int

	watcherHandle *watcher.Watcher
	changes       <-chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int
}

// New builds the application. Items are loaded synchronously so a bad items
// file is reported before the TUI starts.
func New(opts Options) (Model, error) {
	cfg := opts.Config
	itemsPath := config.ExpandHome(cfg.List.ItemsFile)

	list, err := items.Load(itemsPath)
	if err != nil {
		return Model{}, fmt.Errorf("loading items: %w", err)
	}

	mode, err := quickreturn.ParseTranslateMode(cfg.List.TranslateMode)
	if err != nil {
		return Model{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	broker := pubsub.NewBroker[quickreturn.Transition]()
	stats := &scrollStats{}

	qr := qrlist.New(qrlist.Config{
		Items:         list,
		Render:        cfg.List.Render,
		MarkdownStyle: cfg.UI.MarkdownStyle,
		Title:         cfg.Overlay.Title,
		Subtitle:      "scroll up to bring me back",
		HeaderHeight:  cfg.Overlay.Height,
		Binding: quickreturn.Options{
			Animated:      cfg.List.Animated,
			SlideDuration: time.Duration(cfg.List.AnimationMs) * time.Millisecond,
			Hysteresis:    cfg.List.Hysteresis,
			TranslateMode: mode,
			Tracer:        opts.Tracer,
			Transitions:   broker,
		},
		Keys: keys.List,
	})
	qr.SetScrollListener(stats)

	m := Model{
		cfg:                cfg,
		configPath:         opts.ConfigPath,
		itemsPath:          itemsPath,
		list:               qr,
		stats:              stats,
		keys:               keys.App,
		help:               help.New(),
		toaster:            toaster.New(),
		debugMode:          opts.Debug,
		logOverlay:         logoverlay.New(),
		transitions:        broker,
		transitionListener: pubsub.NewContinuousListener[quickreturn.Transition](ctx, broker),
		last:               quickreturn.Transition{To: quickreturn.StateOnscreen},
		animated:           cfg.List.Animated,
		ctx:                ctx,
		cancel:             cancel,
	}

	if opts.Debug {
		m.logListener = log.NewListener(ctx)
	}

	if cfg.List.WatchItems && itemsPath != "" {
		w, err := watcher.New(watcher.DefaultConfig(itemsPath))
		if err == nil {
			changes, err := w.Start()
			if err == nil {
				m.watcherHandle = w
				m.changes = changes
			} else {
				_ = w.Stop()
				log.ErrorErr(log.CatWatcher, "Failed to start items watcher", err, "path", itemsPath)
			}
		}
		// The list works without live reload.
	}

	log.Info(log.CatUI, "App ready",
		"items", len(list), "animated", cfg.List.Animated, "translateMode", mode, "render", cfg.List.Render)
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.transitionListener.Listen(), m.waitForChange()}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return itemsChangedMsg{}
	}
}

func (m Model) reloadItems() tea.Cmd {
	path := m.itemsPath
	return func() tea.Msg {
		list, err := items.Load(path)
		return itemsLoadedMsg{items: list, err: err}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.toaster = m.toaster.SetSize(msg.Width, msg.Height)
		m.logOverlay.SetSize(msg.Width, msg.Height)
		return m, m.list.SetSize(msg.Width, m.listHeight())

	case log.LogEvent:
		m.logOverlay.Refresh()
		return m, m.logListener.Listen()

	case pubsub.Event[quickreturn.Transition]:
		m.last = msg.Payload
		return m, m.transitionListener.Listen()

	case itemsChangedMsg:
		log.Debug(log.CatWatcher, "Items file changed", "path", m.itemsPath)
		return m, tea.Batch(m.reloadItems(), m.waitForChange())

	case itemsLoadedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatUI, "Failed to reload items", msg.err, "path", m.itemsPath)
			m.toaster = m.toaster.Show("Reload failed: "+msg.err.Error(), toaster.StyleError)
			return m, m.toaster.ScheduleDismiss(toaster.DefaultDuration)
		}
		cmd := m.list.SetItems(msg.items)
		m.toaster = m.toaster.Show(fmt.Sprintf("Loaded %d items", len(msg.items)), toaster.StyleSuccess)
		return m, tea.Batch(cmd, m.toaster.ScheduleDismiss(toaster.DefaultDuration))

	case toaster.DismissMsg:
		m.toaster = m.toaster.Dismiss(msg)
		return m, nil

	case logoverlay.CloseMsg:
		m.logOverlay.Hide()
		return m, nil

	case tea.MouseMsg:
		if m.logOverlay.Visible() {
			return m, nil
		}

	case tea.KeyMsg:
		if m.debugMode && key.Matches(msg, m.keys.ToggleLogs) {
			m.logOverlay.Toggle()
			return m, nil
		}
		if m.logOverlay.Visible() {
			var cmd tea.Cmd
			m.logOverlay, cmd = m.logOverlay.Update(msg)
			return m, cmd
		}
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	_, cmd := m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m.list.SetSize(m.width, m.listHeight()), true

	case key.Matches(msg, m.keys.AddHeader):
		m.headers++
		m.list.AddHeader(fmt.Sprintf("Header %d", m.headers))
		return nil, true

	case key.Matches(msg, m.keys.AddFooter):
		m.footers++
		m.list.AddFooter(fmt.Sprintf("Footer %d", m.footers))
		return nil, true

	case key.Matches(msg, m.keys.Reload):
		return m.reloadItems(), true

	case key.Matches(msg, m.keys.ToggleAnimated):
		return m.toggleAnimated(), true
	}
	return nil, false
}

// toggleAnimated saves the opposite return policy for the next launch. The
// running list keeps its policy.
func (m *Model) toggleAnimated() tea.Cmd {
	next := !m.animated
	if m.configPath == "" {
		m.toaster = m.toaster.Show("No config file to save to", toaster.StyleWarn)
		return m.toaster.ScheduleDismiss(toaster.DefaultDuration)
	}
	if err := config.SetValue(m.configPath, "list.animated", next); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to save list.animated", err, "path", m.configPath)
		m.toaster = m.toaster.Show("Save failed: "+err.Error(), toaster.StyleError)
		return m.toaster.ScheduleDismiss(toaster.DefaultDuration)
	}

	m.animated = next
	policy := "snap"
	if next {
		policy = "slide"
	}
	log.Info(log.CatConfig, "Saved list.animated", "value", next, "path", m.configPath)
	m.toaster = m.toaster.Show("Return policy "+policy+" saved for next launch", toaster.StyleInfo)
	return m.toaster.ScheduleDismiss(toaster.DefaultDuration)
}

func (m Model) listHeight() int {
	h := m.height - lipgloss.Height(m.help.View(keys.Help{List: keys.List, App: m.keys}))
	if m.cfg.UI.ShowStatusBar {
		h--
	}
	return max(h, 0)
}

// View implements tea.Model.
func (m Model) View() string {
	parts := []string{m.list.View()}
	if m.cfg.UI.ShowStatusBar {
		parts = append(parts, m.statusBar())
	}
	parts = append(parts, m.help.View(keys.Help{List: keys.List, App: m.keys}))
	view := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if m.toaster.Visible() {
		view = m.toaster.Overlay(view)
	}
	if m.debugMode && m.logOverlay.Visible() {
		view = m.logOverlay.Overlay(view)
	}
	return zone.Scan(view)
}

func (m Model) statusBar() string {
	state := m.list.State().String()
	badge := lipgloss.NewStyle().Bold(true).Foreground(styles.StateColor(state)).Render(state)

	frame := m.list.LastFrame()
	text := fmt.Sprintf("%s  rawY %d  minRawY %d  y %d  rows %d-%d/%d  %s  %s",
		badge, frame.RawY, frame.MinRawY, m.list.HeaderTranslation(),
		m.stats.first, m.stats.first+m.stats.visible, m.stats.total,
		m.stats.state, m.list.Binding().Machine().Policy().Name())
	if m.last.Animation != nil && !m.last.Completed {
		text += "  sliding " + m.last.Animation.Kind.String()
	}
	return styles.StatusBarStyle.Width(m.width).MaxHeight(1).Render(text)
}

// Close releases the watcher and subscriptions.
func (m *Model) Close() error {
	m.cancel()
	m.transitions.Close()
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}
	return nil
}
