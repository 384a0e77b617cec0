package config

import "time"

const (
	// DefaultHeartbeatInterval is the spacing between SSE heartbeat frames.
	DefaultHeartbeatInterval = 30 * time.Second

	// DefaultAPITimeout bounds a single upstream request.
	DefaultAPITimeout = 60 * time.Second

	// DefaultAPIURL is the public VoIPBin REST API.
	DefaultAPIURL = "https://api.voipbin.net/v1.0"
)

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              8000,
			Host:              "0.0.0.0",
			HeartbeatInterval: "30s",
		},
		API: APIConfig{
			URL:     DefaultAPIURL,
			Timeout: "60s",
		},
		MCP: MCPConfig{
			Name: "VoIPBin MCP Server",
		},
		Logging: LoggingConfig{
			Level:      "debug",
			Outputs:    []string{"console"},
			FilePath:   "logs/voipbin-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
