package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/quickreturn/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")
		path := targetConfigPath()
		if err := initConfigFile(path, force); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value, keeping comments (e.g. set list.animated true)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setConfigValue(targetConfigPath(), args[0], args[1])
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Run: func(cmd *cobra.Command, _ []string) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), targetConfigPath())
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func targetConfigPath() string {
	switch {
	case cfgFile != "":
		return cfgFile
	case configUsed != "":
		return configUsed
	default:
		return filepath.Join(userConfigDir(), "config.yaml")
	}
}

func initConfigFile(path string, force bool) error {
	if fileExists(path) && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	return config.WriteDefaultConfig(path)
}

// setConfigValue parses raw as a YAML scalar so "true" and "250" keep their
// types, checks that the result is a valid config and saves it.
func setConfigValue(path, key, raw string) error {
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil || value == nil {
		value = raw
	}

	v := viper.New()
	setDefaults(v)
	if fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	v.Set(key, value)

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("refusing to save %s: %w", key, err)
	}

	return config.SetValue(path, key, value)
}
