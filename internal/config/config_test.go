package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/quickreturn/internal/tracing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.False(t, cfg.List.Animated)
	require.Equal(t, 250, cfg.List.AnimationMs)
	require.Equal(t, 2, cfg.List.Hysteresis)
	require.Equal(t, "immediate", cfg.List.TranslateMode)
	require.Equal(t, RenderPlain, cfg.List.Render)
	require.True(t, cfg.List.WatchItems)
	require.Equal(t, DefaultOverlayHeight, cfg.Overlay.Height)
	require.True(t, cfg.UI.ShowStatusBar)
	require.False(t, cfg.Tracing.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestValidateList(t *testing.T) {
	base := Defaults().List

	tests := []struct {
		name    string
		mutate  func(*ListConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(*ListConfig) {}},
		{name: "animation mode", mutate: func(l *ListConfig) { l.TranslateMode = "animation" }},
		{name: "empty mode", mutate: func(l *ListConfig) { l.TranslateMode = "" }},
		{name: "markdown", mutate: func(l *ListConfig) { l.Render = RenderMarkdown }},
		{name: "bad mode", mutate: func(l *ListConfig) { l.TranslateMode = "warp" }, wantErr: "list.translate_mode"},
		{name: "bad render", mutate: func(l *ListConfig) { l.Render = "html" }, wantErr: "list.render"},
		{name: "negative duration", mutate: func(l *ListConfig) { l.AnimationMs = -1 }, wantErr: "list.animation_ms"},
		{name: "negative hysteresis", mutate: func(l *ListConfig) { l.Hysteresis = -3 }, wantErr: "list.hysteresis"},
		{name: "items dir", mutate: func(l *ListConfig) { l.ItemsFile = t.TempDir() }, wantErr: "is a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := base
			tt.mutate(&l)
			err := ValidateList(l)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateOverlay(t *testing.T) {
	require.NoError(t, ValidateOverlay(OverlayConfig{Height: 1}))
	require.NoError(t, ValidateOverlay(OverlayConfig{Height: 20}))
	require.Error(t, ValidateOverlay(OverlayConfig{Height: 0}))
	require.Error(t, ValidateOverlay(OverlayConfig{Height: 21}))
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		cfg     tracing.Config
		wantErr string
	}{
		{name: "disabled defaults", cfg: tracing.DefaultConfig()},
		{name: "bad sample rate", cfg: tracing.Config{SampleRate: 1.5}, wantErr: "sample_rate"},
		{name: "bad exporter", cfg: tracing.Config{Exporter: "jaeger"}, wantErr: "tracing.exporter"},
		{name: "file without path", cfg: tracing.Config{Enabled: true, Exporter: "file"}, wantErr: "file_path"},
		{name: "otlp without endpoint", cfg: tracing.Config{Enabled: true, Exporter: "otlp"}, wantErr: "otlp_endpoint"},
		{name: "disabled file without path", cfg: tracing.Config{Exporter: "file"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_MarkdownStyle(t *testing.T) {
	cfg := Defaults()
	cfg.UI.MarkdownStyle = "neon"
	require.ErrorContains(t, cfg.Validate(), "ui.markdown_style")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.Equal(t, filepath.Join(home, "items.yaml"), ExpandHome("~/items.yaml"))
	require.Equal(t, "/abs/items.yaml", ExpandHome("/abs/items.yaml"))
	require.Equal(t, "rel.txt", ExpandHome("rel.txt"))
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(stringsReader(DefaultConfigTemplate())))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	want := Defaults()
	require.Equal(t, want.List.Animated, cfg.List.Animated)
	require.Equal(t, want.List.AnimationMs, cfg.List.AnimationMs)
	require.Equal(t, want.List.Hysteresis, cfg.List.Hysteresis)
	require.Equal(t, want.List.TranslateMode, cfg.List.TranslateMode)
	require.Equal(t, want.List.Render, cfg.List.Render)
	require.Equal(t, want.Overlay, cfg.Overlay)
	require.Equal(t, want.Tracing.Exporter, cfg.Tracing.Exporter)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
