package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Tone     string         `mapstructure:"tone"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Sessions SessionsConfig `mapstructure:"sessions"`
	Weather  WeatherConfig  `mapstructure:"weather"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type SessionsConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	MaxCount   int  `mapstructure:"max_count"`
}

type WeatherConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Location string `mapstructure:"location"`
}

func Load() (*Config, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config dir: %w", err)
	}

	configPath := filepath.Join(configDir, "companion")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath(".")

	// Set defaults
	viper.SetDefault("tone", "friendly")
	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("sessions.enabled", true)
	viper.SetDefault("sessions.max_age_days", 90)
	viper.SetDefault("sessions.max_count", 200)

	// Read config file (optional - won't error if missing)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Resolve env vars or command output in API keys
	if cfg.Gemini.APIKey, err = ResolveValue(cfg.Gemini.APIKey); err != nil {
		return nil, fmt.Errorf("resolve gemini api key: %w", err)
	}
	if cfg.Weather.APIKey, err = ResolveValue(cfg.Weather.APIKey); err != nil {
		return nil, fmt.Errorf("resolve weather api key: %w", err)
	}

	// Fall back to environment variables if API keys not set
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Weather.APIKey == "" {
		cfg.Weather.APIKey = os.Getenv("WEATHER_API_KEY")
	}

	return &cfg, nil
}

// ApplyOverrides applies command-line flag overrides. Empty values leave
// the config untouched.
func (c *Config) ApplyOverrides(tone, model string) {
	if tone != "" {
		c.Tone = tone
	}
	if model != "" {
		c.Gemini.Model = model
	}
}

// expandEnv expands ${VAR} or $VAR in a string
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}
	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}
	return s
}

// GetConfigPath returns the path where the config file should be located
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "companion", "config.yaml"), nil
}

// Exists returns true if a config file exists
func Exists() bool {
	path, err := GetConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// NeedsSetup returns true if config file doesn't exist
func NeedsSetup() bool {
	return !Exists()
}

// Save writes the config to disk
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf(`# Default reply tone: friendly, professional, enthusiastic, simple, expert
tone: %s

gemini:
  # api_key: ${GEMINI_API_KEY}
  model: %s

sessions:
  enabled: %t
  max_age_days: %d
  max_count: %d

weather:
  # api_key: ${WEATHER_API_KEY}
  location: %q
`, cfg.Tone, cfg.Gemini.Model, cfg.Sessions.Enabled, cfg.Sessions.MaxAgeDays, cfg.Sessions.MaxCount, cfg.Weather.Location)

	return os.WriteFile(path, []byte(content), 0600)
}
