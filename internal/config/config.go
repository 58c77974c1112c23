package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataPath            string `mapstructure:"data_path" yaml:"data_path"`
	DefaultCountryCount int    `mapstructure:"default_country_count" yaml:"default_country_count"`
	PreviewRows         int    `mapstructure:"preview_rows" yaml:"preview_rows"`
	WordCloudTop        int    `mapstructure:"word_cloud_top" yaml:"word_cloud_top"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// HTTP server
	ListenAddr      string `mapstructure:"listen_addr" yaml:"listen_addr"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec" yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec" yaml:"write_timeout_sec"`
	// SessionIdleSec is how long an unused server session is kept; 0 disables expiry.
	SessionIdleSec int `mapstructure:"session_idle_sec" yaml:"session_idle_sec"`
}

// ReadTimeout returns ReadTimeoutSec as a duration.
func (g *Global) ReadTimeout() time.Duration { return time.Duration(g.ReadTimeoutSec) * time.Second }

// WriteTimeout returns WriteTimeoutSec as a duration.
func (g *Global) WriteTimeout() time.Duration { return time.Duration(g.WriteTimeoutSec) * time.Second }

// SessionIdle returns SessionIdleSec as a duration.
func (g *Global) SessionIdle() time.Duration { return time.Duration(g.SessionIdleSec) * time.Second }

// Dir returns ~/.womenmatters.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".womenmatters"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.womenmatters/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
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

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("WOMENMATTERS")
	v.AutomaticEnv()

	v.SetDefault("data_path", "women_violence.csv")
	v.SetDefault("default_country_count", 5)
	v.SetDefault("preview_rows", 5)
	v.SetDefault("word_cloud_top", 100)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	// HTTP defaults
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("read_timeout_sec", 15)
	v.SetDefault("write_timeout_sec", 15)
	v.SetDefault("session_idle_sec", 1800)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
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
	return &c, nil
}
