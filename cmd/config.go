package cmd

import (
	"fmt"

	"github.com/instylo/companion/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		fmt.Printf("Config file: %s", path)
		if !config.Exists() {
			fmt.Print(" (not created yet; run 'companion config init')")
		}
		fmt.Println()
		fmt.Println()
		fmt.Printf("Tone:             %s\n", cfg.Tone)
		fmt.Printf("Model:            %s\n", cfg.Gemini.Model)
		fmt.Printf("Gemini API key:   %s\n", maskKey(cfg.Gemini.APIKey))
		fmt.Printf("Sessions:         %s\n", enabledStr(cfg.Sessions.Enabled))
		fmt.Printf("  Max age (days): %d\n", cfg.Sessions.MaxAgeDays)
		fmt.Printf("  Max count:      %d\n", cfg.Sessions.MaxCount)
		fmt.Printf("Weather API key:  %s\n", maskKey(cfg.Weather.APIKey))
		fmt.Printf("Weather location: %s\n", cfg.Weather.Location)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file with defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.Exists() {
			path, _ := config.GetConfigPath()
			return fmt.Errorf("config file already exists at %s", path)
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		// Do not write resolved secrets into the file
		cfg.Gemini.APIKey = ""
		cfg.Weather.APIKey = ""
		if err := config.Save(cfg); err != nil {
			return err
		}
		path, _ := config.GetConfigPath()
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func enabledStr(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
