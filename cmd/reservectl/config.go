package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/branchdesk/reservectl/internal/config"
)

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the settings file",
	Long: `Create or inspect the reservectl settings file.

The settings file holds the API root, timeouts and output preferences.
The API token is never stored in it; set RESERVECTL_API_TOKEN instead.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settingsPath()
		if err != nil {
			return err
		}
		if err := config.CreateDefaultConfig(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settingsPath()
		if err != nil {
			return err
		}
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		if baseURL != "" {
			settings.API.BaseURL = baseURL
		}
		if timeout > 0 {
			settings.API.TimeoutSeconds = int(timeout.Seconds())
		}

		data, err := yaml.Marshal(settings)
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}

		tokenState := "set"
		if _, err := config.Token(); err != nil {
			tokenState = "not set (" + config.TokenEnvVar + ")"
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# File:  %s\n# Token: %s\n", path, tokenState)
		fmt.Fprint(out, string(data))
		return nil
	},
}

func settingsPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}
