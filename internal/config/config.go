// Package config loads global aip settings from ~/.aip/config.yaml.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Global holds global aip settings.
type Global struct {
	// ClaudeHome overrides the Claude Code home directory (default ~/.claude).
	ClaudeHome string `yaml:"claude_home"`
	// CodexHome overrides the Codex CLI home directory (default ~/.codex).
	CodexHome string `yaml:"codex_home"`
	// HTTPTimeoutSeconds bounds usage API requests.
	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds"`
	// Debug controls debug file logging.
	Debug DebugConfig `yaml:"debug"`
}

// DebugConfig holds debug logging settings.
type DebugConfig struct {
	// RetentionDays is how many days of debug logs to keep (0 = no cleanup).
	RetentionDays int `yaml:"retention_days"`
}

// Default returns the default global configuration.
func Default() *Global {
	return &Global{
		HTTPTimeoutSeconds: 15,
		Debug: DebugConfig{
			RetentionDays: 7,
		},
	}
}

// Load reads ~/.aip/config.yaml and applies environment overrides.
// A missing or malformed file yields the defaults.
func Load() *Global {
	cfg := Default()

	if data, err := os.ReadFile(filepath.Join(Dir(), "config.yaml")); err == nil {
		_ = yaml.Unmarshal(data, cfg)
	}

	if v := os.Getenv("AIP_CLAUDE_HOME"); v != "" {
		cfg.ClaudeHome = v
	}
	if v := os.Getenv("AIP_CODEX_HOME"); v != "" {
		cfg.CodexHome = v
	}
	if v := os.Getenv("AIP_HTTP_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.HTTPTimeoutSeconds = secs
		}
	}

	return cfg
}

// HTTPTimeout returns the usage request timeout as a duration.
func (g *Global) HTTPTimeout() time.Duration {
	if g.HTTPTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(g.HTTPTimeoutSeconds) * time.Second
}

// Dir returns the path to ~/.aip.
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".aip")
	}
	return filepath.Join(homeDir, ".aip")
}
