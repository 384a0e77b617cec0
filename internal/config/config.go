package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	API     APIConfig     `toml:"api"`
	MCP     MCPConfig     `toml:"mcp"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port              int    `toml:"port"`
	Host              string `toml:"host"`
	HeartbeatInterval string `toml:"heartbeat_interval"`
}

// APIConfig contains the upstream VoIPBin REST API settings.
type APIConfig struct {
	URL     string `toml:"url"`
	Key     string `toml:"key"`
	Timeout string `toml:"timeout"`
}

// MCPConfig contains MCP server identity settings.
type MCPConfig struct {
	Name string `toml:"name"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// GetHeartbeatInterval parses the SSE heartbeat interval, falling back to 30s.
func (c *ServerConfig) GetHeartbeatInterval() time.Duration {
	d, err := time.ParseDuration(c.HeartbeatInterval)
	if err != nil || d <= 0 {
		return DefaultHeartbeatInterval
	}
	return d
}

// GetTimeout parses the per-request upstream timeout, falling back to 60s.
func (c *APIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return DefaultAPITimeout
	}
	return d
}

// Address returns the host:port the HTTP server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	config.API.URL = strings.TrimRight(config.API.URL, "/")

	return config, nil
}

// applyEnvOverrides applies VOIPBIN_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if apiURL := os.Getenv("VOIPBIN_API_URL"); apiURL != "" {
		config.API.URL = apiURL
	}
	if key := os.Getenv("VOIPBIN_API_KEY"); key != "" {
		config.API.Key = key
	}
	if timeout := os.Getenv("VOIPBIN_API_TIMEOUT"); timeout != "" {
		config.API.Timeout = timeout
	}
	if port := os.Getenv("VOIPBIN_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("VOIPBIN_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if interval := os.Getenv("VOIPBIN_HEARTBEAT_INTERVAL"); interval != "" {
		config.Server.HeartbeatInterval = interval
	}
	if level := os.Getenv("VOIPBIN_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate reports configuration problems that prevent the server from starting.
// A missing API key is not an issue here: the server still starts and upstream
// calls fail with 401, see Warnings.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}

	u, err := url.Parse(c.API.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		issues = append(issues, fmt.Sprintf("api.url must be an absolute URL (got %q)", c.API.URL))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		issues = append(issues, fmt.Sprintf("api.url scheme must be http or https (got %q)", u.Scheme))
	}

	if c.API.Timeout != "" {
		if d, err := time.ParseDuration(c.API.Timeout); err != nil || d <= 0 {
			issues = append(issues, fmt.Sprintf("api.timeout must be a positive duration (got %q)", c.API.Timeout))
		}
	}
	if c.Server.HeartbeatInterval != "" {
		if d, err := time.ParseDuration(c.Server.HeartbeatInterval); err != nil || d <= 0 {
			issues = append(issues, fmt.Sprintf("server.heartbeat_interval must be a positive duration (got %q)", c.Server.HeartbeatInterval))
		}
	}
	for _, out := range c.Logging.Outputs {
		if out == "file" && c.Logging.FilePath == "" {
			issues = append(issues, "logging.file_path is required when outputs include \"file\"")
		}
	}

	return issues
}

// Warnings reports non-fatal configuration problems worth logging at startup.
func (c *Config) Warnings() []string {
	var warnings []string
	if strings.TrimSpace(c.API.Key) == "" {
		warnings = append(warnings, "VOIPBIN_API_KEY is not set; upstream requests will be unauthenticated")
	}
	return warnings
}
