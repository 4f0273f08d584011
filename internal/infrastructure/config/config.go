package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/demolauncher/internal/shared/paths"
)

// Launch modes
const (
	LaunchModeExec = "exec"
	LaunchModePTY  = "pty"
)

// DefaultProgramsDir is where the limare image installs its test programs.
const DefaultProgramsDir = paths.Limare

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Programs  ProgramsConfig  `yaml:"programs" toml:"programs"`
	Logging   LogConfig       `yaml:"logging" toml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000" yaml:"port" toml:"port"`
	Host string `envconfig:"HOST" default:"0.0.0.0" yaml:"host" toml:"host"`
	// Browser viewer origins; "*" admits any origin
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*" yaml:"cors_origins" toml:"cors_origins"`
}

// ProgramsConfig holds program discovery and launch configuration.
type ProgramsConfig struct {
	Dir               string `envconfig:"PROGRAMS_DIR" default:"/system/bin/limare" yaml:"dir" toml:"dir"`
	Pattern           string `envconfig:"PROGRAMS_PATTERN" default:"*" yaml:"pattern" toml:"pattern"`
	LaunchMode        string `envconfig:"LAUNCH_MODE" default:"exec" yaml:"launch_mode" toml:"launch_mode"`
	OutputBufferBytes int    `envconfig:"OUTPUT_BUFFER_BYTES" default:"65536" yaml:"output_buffer_bytes" toml:"output_buffer_bytes"`
	ScreenHistory     int    `envconfig:"SCREEN_HISTORY" default:"32" yaml:"screen_history" toml:"screen_history"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration for launch requests.
// Zero RequestsPerSecond or Burst keeps the server's built-in value.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"0" yaml:"requests_per_second" toml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"0" yaml:"burst" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" yaml:"enabled" toml:"enabled"`
	Global            bool `envconfig:"RATE_LIMIT_GLOBAL" default:"false" yaml:"global" toml:"global"` // One bucket for all clients
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8000",
			Host:        "0.0.0.0",
			CORSOrigins: []string{"*"},
		},
		Programs: ProgramsConfig{
			Dir:               DefaultProgramsDir,
			Pattern:           "*",
			LaunchMode:        LaunchModeExec,
			OutputBufferBytes: 64 * 1024,
			ScreenHistory:     32,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
		},
	}
}

// MergeFile overlays values from a YAML or TOML file, chosen by extension.
// Keys missing from the file keep their current values.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	case ".toml":
		err = toml.Unmarshal(data, c)
	default:
		return fmt.Errorf("unsupported config file type: %s", path)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return c.Validate()
}

// Overrides are command-line values; empty fields leave the config alone.
type Overrides struct {
	Host       string
	Port       string
	Dir        string
	Pattern    string
	LaunchMode string
	LogLevel   string
	Dev        bool
}

// Resolve builds the effective configuration: environment first, then the
// optional file, then command-line overrides.
func Resolve(file string, o Overrides) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if file != "" {
		if err := cfg.MergeFile(file); err != nil {
			return nil, err
		}
	}
	cfg.Apply(o)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply copies the non-empty overrides into c.
func (c *Config) Apply(o Overrides) {
	if o.Host != "" {
		c.Server.Host = o.Host
	}
	if o.Port != "" {
		c.Server.Port = o.Port
	}
	if o.Dir != "" {
		c.Programs.Dir = o.Dir
	}
	if o.Pattern != "" {
		c.Programs.Pattern = o.Pattern
	}
	if o.LaunchMode != "" {
		c.Programs.LaunchMode = o.LaunchMode
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.Dev {
		c.Logging.Development = true
	}
}

// Validate checks values envconfig cannot constrain.
func (c *Config) Validate() error {
	switch c.Programs.LaunchMode {
	case LaunchModeExec, LaunchModePTY:
	default:
		return fmt.Errorf("invalid launch mode %q (want %q or %q)", c.Programs.LaunchMode, LaunchModeExec, LaunchModePTY)
	}
	if c.Programs.Dir == "" {
		return fmt.Errorf("programs directory is required")
	}
	if c.Programs.OutputBufferBytes <= 0 {
		return fmt.Errorf("output buffer must be positive, got %d", c.Programs.OutputBufferBytes)
	}
	if c.Programs.ScreenHistory < 0 {
		return fmt.Errorf("screen history must not be negative, got %d", c.Programs.ScreenHistory)
	}
	if c.RateLimit.RequestsPerSecond < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit must not be negative, got %d rps burst %d", c.RateLimit.RequestsPerSecond, c.RateLimit.Burst)
	}
	for _, origin := range c.Server.CORSOrigins {
		if err := validateOrigin(origin); err != nil {
			return err
		}
	}
	return nil
}

// validateOrigin accepts "*" or a scheme://host origin the CORS middleware
// can match.
func validateOrigin(origin string) error {
	if origin == "*" {
		return nil
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" || (u.Path != "" && u.Path != "/") {
		return fmt.Errorf("invalid CORS origin %q", origin)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
		return nil
	}
	return fmt.Errorf("invalid CORS origin %q (want http, https, ws or wss)", origin)
}
