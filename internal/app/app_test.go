package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/quickreturn/internal/config"
	"github.com/zjrosen/quickreturn/internal/pubsub"
	"github.com/zjrosen/quickreturn/internal/quickreturn"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestApp(t *testing.T, mutate func(*Options)) Model {
	t.Helper()
	opts := Options{Config: config.Defaults()}
	opts.Config.List.WatchItems = false
	if mutate != nil {
		mutate(&opts)
	}
	m, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	return next.(Model)
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestNew_DefaultItems(t *testing.T) {
	m := newTestApp(t, nil)

	// Placeholder plus 40 generated items.
	require.Equal(t, 41, m.list.ItemCount())
	require.Nil(t, m.watcherHandle)
	// Status bar and one help line.
	require.Equal(t, 18, m.list.ViewportHeight())
}

func TestNew_BadItemsFile(t *testing.T) {
	opts := Options{Config: config.Defaults()}
	opts.Config.List.ItemsFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(opts)
	require.ErrorContains(t, err, "loading items")
}

func TestNew_BadTranslateMode(t *testing.T) {
	opts := Options{Config: config.Defaults()}
	opts.Config.List.TranslateMode = "warp"

	_, err := New(opts)
	require.Error(t, err)
}

func TestKeys_ScrollAndAddRows(t *testing.T) {
	m := newTestApp(t, nil)

	m, _ = update(m, runes("j"))
	require.Equal(t, 1, m.list.ScrollY())
	require.Equal(t, 41, m.stats.total)

	m, _ = update(m, runes("H"))
	m, _ = update(m, runes("F"))
	require.Equal(t, 43, m.list.ItemCount())
	require.Equal(t, 1, m.headers)
	require.Equal(t, 1, m.footers)
}

func TestKeys_HelpShrinksList(t *testing.T) {
	m := newTestApp(t, nil)
	before := m.list.ViewportHeight()

	m, _ = update(m, runes("?"))
	require.True(t, m.help.ShowAll)
	require.Less(t, m.list.ViewportHeight(), before)
}

func TestKeys_Quit(t *testing.T) {
	m := newTestApp(t, nil)

	_, cmd := update(m, runes("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestToggleAnimated_SavesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))
	m := newTestApp(t, func(o *Options) { o.ConfigPath = path })

	m, cmd := update(m, runes("a"))
	require.NotNil(t, cmd)
	require.True(t, m.animated)
	require.True(t, m.toaster.Visible())
	// The running list keeps its policy.
	require.Equal(t, "snap", m.list.Binding().Machine().Policy().Name())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "animated: true")
}

func TestToggleAnimated_NoConfigPath(t *testing.T) {
	m := newTestApp(t, nil)

	m, _ = update(m, runes("a"))
	require.False(t, m.animated)
	require.Contains(t, ansi.Strip(m.toaster.View()), "No config file")
}

func TestItemsLoaded(t *testing.T) {
	m := newTestApp(t, nil)

	m, _ = update(m, itemsLoadedMsg{items: []string{"one", "two"}})
	require.Equal(t, 3, m.list.ItemCount())
	require.Contains(t, ansi.Strip(m.toaster.View()), "Loaded 2 items")

	m, _ = update(m, itemsLoadedMsg{err: os.ErrNotExist})
	require.Equal(t, 3, m.list.ItemCount())
	require.Contains(t, ansi.Strip(m.toaster.View()), "Reload failed")
}

func TestReloadItems_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- alpha\n- beta\n- gamma\n"), 0o600))
	m := newTestApp(t, func(o *Options) { o.Config.List.ItemsFile = path })
	require.Equal(t, 4, m.list.ItemCount())

	require.NoError(t, os.WriteFile(path, []byte("- alpha\n"), 0o600))
	msg := m.reloadItems()()
	m, _ = update(m, msg)
	require.Equal(t, 2, m.list.ItemCount())
}

func TestWatcher_StartsForItemsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.txt")
	require.NoError(t, os.WriteFile(path, []byte("first\n\nsecond\n"), 0o600))

	m := newTestApp(t, func(o *Options) {
		o.Config.List.ItemsFile = path
		o.Config.List.WatchItems = true
	})
	require.NotNil(t, m.watcherHandle)

	done := make(chan tea.Msg, 1)
	go func() { done <- m.waitForChange()() }()

	require.NoError(t, os.WriteFile(path, []byte("first\n\nsecond\n\nthird\n"), 0o600))
	select {
	case msg := <-done:
		require.IsType(t, itemsChangedMsg{}, msg)
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for items change")
	}
}

func TestTransitionEvent_UpdatesStatus(t *testing.T) {
	m := newTestApp(t, nil)

	m, cmd := update(m, pubsub.Event[quickreturn.Transition]{
		Type:    pubsub.AnimationEvent,
		Payload: quickreturn.Transition{From: quickreturn.StateReturning, To: quickreturn.StateReturning, Animation: &quickreturn.Animation{Kind: quickreturn.AnimationReveal}},
	})
	require.NotNil(t, cmd)
	require.Contains(t, ansi.Strip(m.statusBar()), "sliding reveal")
}

func TestView_StatusBar(t *testing.T) {
	m := newTestApp(t, nil)

	view := ansi.Strip(m.View())
	require.Contains(t, view, "Quick Return")
	require.Contains(t, view, "onscreen")
	require.Contains(t, view, "snap")
}

func TestLogOverlay_OnlyInDebug(t *testing.T) {
	m := newTestApp(t, nil)
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	require.False(t, m.logOverlay.Visible())

	d := newTestApp(t, func(o *Options) { o.Debug = true })
	d, _ = update(d, tea.KeyMsg{Type: tea.KeyCtrlX})
	require.True(t, d.logOverlay.Visible())
}
