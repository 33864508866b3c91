package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for oraspectre
type Config struct {
	// SQL client binary name or path
	Client string `mapstructure:"client"`

	// Directory for HTML reports
	ReportDir string `mapstructure:"report_dir"`

	// Directory for stored run data
	StorageDir string `mapstructure:"storage_dir"`

	// Per-invocation client timeout in seconds (0 = no timeout)
	Timeout int `mapstructure:"timeout"`

	// Post-audit summary format (text, json, both)
	Format string `mapstructure:"format"`

	// Verbose output
	Verbose bool `mapstructure:"verbose"`

	// Debug mode
	Debug bool `mapstructure:"debug"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Client:     "sqlplus",
		ReportDir:  "cis_html_reports",
		StorageDir: ".oraspectre",
		Timeout:    0, // 0 means the client may block indefinitely
		Format:     "text",
		Verbose:    false,
		Debug:      false,
	}
}

// Load loads configuration with the following precedence (lowest to highest):
// 1. Default values
// 2. Config file (./oraspectre.yaml, ~/oraspectre.yaml, XDG config dir)
// 3. Environment variables (ORASPECTRE_*)
// 4. CLI flags (handled by caller)
func Load() (*Config, error) {
	return LoadFromFile("")
}

// LoadFromFile loads configuration from a specific file path
// If path is empty, it searches for config in standard locations
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("client", defaults.Client)
	v.SetDefault("report_dir", defaults.ReportDir)
	v.SetDefault("storage_dir", defaults.StorageDir)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("debug", defaults.Debug)

	v.SetConfigName("oraspectre")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// 1. Current directory
		v.AddConfigPath(".")

		// 2. Home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}

		// 3. XDG config directory
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			v.AddConfigPath(filepath.Join(xdgConfig, "oraspectre"))
		}
	}

	v.SetEnvPrefix("ORASPECTRE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"both": true,
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format: %s (must be text, json, or both)", c.Format)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}

	if c.Client == "" {
		return fmt.Errorf("client cannot be empty")
	}

	if c.ReportDir == "" {
		return fmt.Errorf("report_dir cannot be empty")
	}

	if c.StorageDir == "" {
		return fmt.Errorf("storage_dir cannot be empty")
	}

	return nil
}

// ClientTimeout returns the per-invocation timeout, 0 meaning none
func (c *Config) ClientTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// GetReportPath returns the absolute path to the report directory
func (c *Config) GetReportPath() (string, error) {
	return expandPath(c.ReportDir)
}

// GetStoragePath returns the absolute path to the storage directory
func (c *Config) GetStoragePath() (string, error) {
	return expandPath(c.StorageDir)
}

// expandPath resolves a leading ~ and converts to an absolute path
func expandPath(dir string) (string, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, dir[2:]), nil
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	return absPath, nil
}

// GenerateSampleConfig generates a sample configuration file content
func GenerateSampleConfig() string {
	return `# oraspectre Configuration
# Save this file as ~/oraspectre.yaml or ./oraspectre.yaml

# SQL client binary used to reach the database
client: sqlplus

# Directory for generated HTML reports
report_dir: cis_html_reports

# Directory to store audit run data
storage_dir: .oraspectre

# Per-invocation client timeout in seconds
# Set to 0 to let a hung client block indefinitely
timeout: 0

# Post-audit summary format: text, json, or both
# The HTML report and results file are always written
format: text

# Enable verbose output
verbose: false

# Enable debug mode
debug: false
`
}
