package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultSourceURL points at the public TelecomX churn export.
const DefaultSourceURL = "https://raw.githubusercontent.com/alura-cursos/challenge2-data-science/refs/heads/main/TelecomX_Data.json"

// Global configuration structure.
type Global struct {
	SourceURL     string `mapstructure:"source_url" yaml:"source_url"`
	CacheDir      string `mapstructure:"cache_dir" yaml:"cache_dir"`
	WorkspacesDir string `mapstructure:"workspaces_dir" yaml:"workspaces_dir"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`

	// Analysis defaults
	CategoricalMaxDistinct int     `mapstructure:"categorical_max_distinct" yaml:"categorical_max_distinct"`
	Significance           float64 `mapstructure:"significance" yaml:"significance"`

	// Charts
	ChartWidthIn  float64 `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn float64 `mapstructure:"chart_height_in" yaml:"chart_height_in"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.telecomx/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := homeDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from .env, file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	// .env is optional; variables already set in the process win.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TELECOMX")
	v.AutomaticEnv()

	v.SetDefault("source_url", DefaultSourceURL)
	v.SetDefault("cache_dir", "")
	v.SetDefault("workspaces_dir", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("categorical_max_distinct", 5)
	v.SetDefault("significance", 0.05)
	v.SetDefault("chart_width_in", 8.0)
	v.SetDefault("chart_height_in", 5.0)
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 30)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := homeDir()
		if err != nil {
			return nil, err
		}
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.CacheDir == "" || c.WorkspacesDir == "" {
		dir, err := homeDir()
		if err != nil {
			return nil, err
		}
		if c.CacheDir == "" {
			c.CacheDir = filepath.Join(dir, "cache")
		}
		if c.WorkspacesDir == "" {
			c.WorkspacesDir = filepath.Join(dir, "workspaces")
		}
	}
	return &c, nil
}

func homeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".telecomx"), nil
}
