// Package config provides configuration types and defaults for quickreturn.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zjrosen/quickreturn/internal/log"
	"github.com/zjrosen/quickreturn/internal/quickreturn"
	"github.com/zjrosen/quickreturn/internal/tracing"
)

// Config holds all configuration options for quickreturn.
type Config struct {
	List    ListConfig     `mapstructure:"list"`
	Overlay OverlayConfig  `mapstructure:"overlay"`
	UI      UIConfig       `mapstructure:"ui"`
	Tracing tracing.Config `mapstructure:"tracing"`
}

// ListConfig configures the scrollable list and its return behavior.
type ListConfig struct {
	// Animated selects the slide policy; false snaps the overlay back.
	Animated    bool `mapstructure:"animated"`
	AnimationMs int  `mapstructure:"animation_ms"`
	Hysteresis  int  `mapstructure:"hysteresis"`
	// TranslateMode is "immediate" (default) or "animation".
	TranslateMode string `mapstructure:"translate_mode"`
	ItemsFile     string `mapstructure:"items_file"`
	WatchItems    bool   `mapstructure:"watch_items"`
	// Render is "plain" (default) or "markdown".
	Render string `mapstructure:"render"`
}

// OverlayConfig configures the quick-return header.
type OverlayConfig struct {
	Title  string `mapstructure:"title"`
	Height int    `mapstructure:"height"`
}

// UIConfig holds user interface options.
type UIConfig struct {
	ShowStatusBar bool   `mapstructure:"show_status_bar"`
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
}

const (
	RenderPlain    = "plain"
	RenderMarkdown = "markdown"

	DefaultOverlayHeight = 3
	maxOverlayHeight     = 20
)

// DefaultTracesFilePath returns the trace file under the user config dir.
func DefaultTracesFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "quickreturn", "traces", "traces.jsonl")
}

// Defaults returns the default configuration.
func Defaults() Config {
	tc := tracing.DefaultConfig()
	tc.FilePath = DefaultTracesFilePath()

	return Config{
		List: ListConfig{
			Animated:      false,
			AnimationMs:   int(quickreturn.DefaultSlideDuration.Milliseconds()),
			Hysteresis:    quickreturn.DefaultHysteresis,
			TranslateMode: string(quickreturn.TranslateImmediate),
			WatchItems:    true,
			Render:        RenderPlain,
		},
		Overlay: OverlayConfig{
			Title:  "Quick Return",
			Height: DefaultOverlayHeight,
		},
		UI: UIConfig{
			ShowStatusBar: true,
			MarkdownStyle: "dark",
		},
		Tracing: tc,
	}
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidateList(c.List); err != nil {
		return err
	}
	if err := ValidateOverlay(c.Overlay); err != nil {
		return err
	}
	if s := c.UI.MarkdownStyle; s != "" && s != "dark" && s != "light" {
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", s)
	}
	return ValidateTracing(c.Tracing)
}

// ValidateList checks list settings.
func ValidateList(l ListConfig) error {
	if l.AnimationMs < 0 {
		return fmt.Errorf("list.animation_ms must not be negative, got %d", l.AnimationMs)
	}
	if l.Hysteresis < 0 {
		return fmt.Errorf("list.hysteresis must not be negative, got %d", l.Hysteresis)
	}
	if _, err := quickreturn.ParseTranslateMode(l.TranslateMode); err != nil {
		return fmt.Errorf("list.translate_mode: %w", err)
	}
	switch l.Render {
	case "", RenderPlain, RenderMarkdown:
	default:
		return fmt.Errorf("list.render must be %q or %q, got %q", RenderPlain, RenderMarkdown, l.Render)
	}
	if l.ItemsFile != "" {
		if info, err := os.Stat(ExpandHome(l.ItemsFile)); err == nil && info.IsDir() {
			return fmt.Errorf("list.items_file %q is a directory", l.ItemsFile)
		}
	}
	return nil
}

// ValidateOverlay checks overlay settings.
func ValidateOverlay(o OverlayConfig) error {
	if o.Height < 1 || o.Height > maxOverlayHeight {
		return fmt.Errorf("overlay.height must be between 1 and %d, got %d", maxOverlayHeight, o.Height)
	}
	return nil
}

// ValidateTracing checks tracing configuration. Empty values use defaults.
func ValidateTracing(tc tracing.Config) error {
	if tc.SampleRate < 0.0 || tc.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tc.SampleRate)
	}

	switch tc.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tc.Exporter)
	}

	if tc.Enabled {
		if tc.Exporter == "file" && tc.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tc.Exporter == "otlp" && tc.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// DefaultConfigTemplate returns the commented YAML written for new users.
func DefaultConfigTemplate() string {
	return `# quickreturn configuration

list:
  # Slide the header back in with a short animation instead of snapping it
  # back in step with the scroll. Fixed for the lifetime of the list.
  animated: false
  animation_ms: 250     # Slide duration
  hysteresis: 2         # Rows scrolled down while expanded before the header slides away
  translate_mode: immediate  # "immediate" or "animation" (zero-duration slide)
  # items_file: ~/notes/items.yaml  # YAML list or plain text, one item per paragraph
  watch_items: true     # Reload when the items file changes
  render: plain         # "plain" or "markdown"

overlay:
  title: Quick Return
  height: 3             # Rows, including the border

ui:
  show_status_bar: true
  # markdown_style: dark  # "dark" (default) or "light"

# Tracing of state transitions and slides (OpenTelemetry)
tracing:
  enabled: false
  exporter: file        # "file", "stdout", "otlp" or "none"
  # file_path: ~/.config/quickreturn/traces/traces.jsonl
  # otlp_endpoint: localhost:4317
  sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at configPath with default
// settings and comments, creating the parent directory if needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
