package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/quickreturn/internal/app"
	"github.com/zjrosen/quickreturn/internal/config"
	"github.com/zjrosen/quickreturn/internal/log"
	"github.com/zjrosen/quickreturn/internal/tracing"
)

func init() {
	// Query the terminal background before Bubble Tea owns stdin, otherwise
	// the OSC 11 reply can land in the input stream.
	_ = lipgloss.HasDarkBackground()
}

const (
	envPrefix       = "QUICKRETURN"
	localConfigPath = ".quickreturn/config.yaml"
)

var (
	version    = "dev"
	cfgFile    string
	debugFlag  bool
	cfg        config.Config
	configUsed string
	configErr  error
)

var rootCmd = &cobra.Command{
	Use:   "quickreturn",
	Short: "A scrollable list with a quick-return header",
	Long: `quickreturn shows a long list under a header that scrolls away with the
content and comes back as soon as you scroll up, however far down you are.

The header either follows the upward scroll row by row (snap) or slides back
in with a short animation (--animated).`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .quickreturn/config.yaml, then ~/.config/quickreturn/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"enable debug logging and the log overlay (ctrl+x)")

	rootCmd.Flags().Bool("animated", false, "slide the header back in instead of snapping")
	rootCmd.Flags().StringP("items", "i", "", "items file (YAML list or plain text paragraphs)")
	rootCmd.Flags().String("translate-mode", "", "how translations are applied: immediate or animation")
	rootCmd.Flags().String("render", "", "item rendering: plain or markdown")

	_ = viper.BindPFlag("list.animated", rootCmd.Flags().Lookup("animated"))
	_ = viper.BindPFlag("list.items_file", rootCmd.Flags().Lookup("items"))
	_ = viper.BindPFlag("list.translate_mode", rootCmd.Flags().Lookup("translate-mode"))
	_ = viper.BindPFlag("list.render", rootCmd.Flags().Lookup("render"))
}

func initConfig() {
	cfg, configUsed, configErr = loadConfig(viper.GetViper(), cfgFile, localConfigPath, userConfigDir())
}

func userConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "quickreturn")
}

// setDefaults registers every key so env overrides and Unmarshal see them
// even when the config file omits them.
func setDefaults(v *viper.Viper) {
	d := config.Defaults()
	v.SetDefault("list.animated", d.List.Animated)
	v.SetDefault("list.animation_ms", d.List.AnimationMs)
	v.SetDefault("list.hysteresis", d.List.Hysteresis)
	v.SetDefault("list.translate_mode", d.List.TranslateMode)
	v.SetDefault("list.items_file", d.List.ItemsFile)
	v.SetDefault("list.watch_items", d.List.WatchItems)
	v.SetDefault("list.render", d.List.Render)
	v.SetDefault("overlay.title", d.Overlay.Title)
	v.SetDefault("overlay.height", d.Overlay.Height)
	v.SetDefault("ui.show_status_bar", d.UI.ShowStatusBar)
	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// loadConfig reads configuration into a Config and returns the file it came
// from. Lookup order: explicit file, localPath, then userDir/config.yaml.
// When none exists a default config is written to userDir.
func loadConfig(v *viper.Viper, explicit, localPath, userDir string) (config.Config, string, error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case explicit != "":
		v.SetConfigFile(explicit)
	case fileExists(localPath):
		v.SetConfigFile(localPath)
	default:
		v.AddConfigPath(userDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Config{}, "", fmt.Errorf("reading config: %w", err)
		}
		// Nothing found anywhere: create the user config and carry on.
		defaultPath := filepath.Join(userDir, "config.yaml")
		if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
			v.SetConfigFile(defaultPath)
			_ = v.ReadInConfig()
		}
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Config{}, "", fmt.Errorf("decoding config: %w", err)
	}
	c.Tracing.FilePath = config.ExpandHome(c.Tracing.FilePath)
	return c, v.ConfigFileUsed(), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func debugEnabled() bool {
	return os.Getenv(envPrefix+"_DEBUG") != "" || debugFlag
}

func runApp(_ *cobra.Command, _ []string) error {
	if configErr != nil {
		return configErr
	}

	debug := debugEnabled()
	if debug {
		logPath := os.Getenv(envPrefix + "_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}
		cleanup, err := log.InitWithTeaLog(logPath, "quickreturn")
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		defer cleanup()
		log.Info(log.CatConfig, "quickreturn starting", "version", version, "config", configUsed, "logPath", logPath)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Tracing shutdown failed", err)
		}
	}()

	zone.NewGlobal()

	model, err := app.New(app.Options{
		Config:     cfg,
		ConfigPath: configUsed,
		Tracer:     provider.Tracer(),
		Debug:      debug,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
