package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected default host 0.0.0.0, got %s", cfg.Server.Host)
	}
	if cfg.API.URL != "https://api.voipbin.net/v1.0" {
		t.Errorf("expected default API URL, got %s", cfg.API.URL)
	}
	if cfg.API.Key != "" {
		t.Errorf("expected empty default API key, got %s", cfg.API.Key)
	}
	if cfg.Server.GetHeartbeatInterval() != 30*time.Second {
		t.Errorf("expected 30s heartbeat, got %v", cfg.Server.GetHeartbeatInterval())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected default log level debug, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFiles_NoFiles(t *testing.T) {
	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles with no files should not error: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
}

func TestLoadFromFiles_ValidTOML(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "test.toml")

	content := `
[server]
port = 9090
host = "127.0.0.1"
heartbeat_interval = "5s"

[api]
url = "https://staging.voipbin.net/v1.0/"
key = "file-key"
timeout = "15s"

[logging]
level = "info"
`
	if err := os.WriteFile(tomlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("expected host 127.0.0.1, got %s", cfg.Server.Host)
	}
	if cfg.Server.GetHeartbeatInterval() != 5*time.Second {
		t.Errorf("expected heartbeat 5s, got %v", cfg.Server.GetHeartbeatInterval())
	}
	// Trailing slash is trimmed so endpoint joins never produce "//".
	if cfg.API.URL != "https://staging.voipbin.net/v1.0" {
		t.Errorf("expected trimmed API URL, got %s", cfg.API.URL)
	}
	if cfg.API.Key != "file-key" {
		t.Errorf("expected API key file-key, got %s", cfg.API.Key)
	}
	if cfg.API.GetTimeout() != 15*time.Second {
		t.Errorf("expected timeout 15s, got %v", cfg.API.GetTimeout())
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFiles_MultipleFiles(t *testing.T) {
	dir := t.TempDir()

	base := filepath.Join(dir, "base.toml")
	if err := os.WriteFile(base, []byte("[server]\nport = 3000\nhost = \"base-host\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	override := filepath.Join(dir, "override.toml")
	if err := os.WriteFile(override, []byte("[server]\nport = 4000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(base, override)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Server.Port != 4000 {
		t.Errorf("expected port 4000 from override, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "base-host" {
		t.Errorf("expected host base-host from base file, got %s", cfg.Server.Host)
	}
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/path.toml")
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestLoadFromFiles_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "invalid.toml")

	if err := os.WriteFile(tomlPath, []byte("this is not valid {{toml"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFromFiles(tomlPath)
	if err == nil {
		t.Error("expected error for invalid TOML, got nil")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	t.Setenv("VOIPBIN_API_URL", "http://mock-voipbin:9000/v1.0")
	t.Setenv("VOIPBIN_API_KEY", "env-key")
	t.Setenv("VOIPBIN_API_TIMEOUT", "5s")
	t.Setenv("VOIPBIN_SERVER_PORT", "9999")
	t.Setenv("VOIPBIN_SERVER_HOST", "env-host")
	t.Setenv("VOIPBIN_HEARTBEAT_INTERVAL", "1s")
	t.Setenv("VOIPBIN_LOG_LEVEL", "error")

	applyEnvOverrides(cfg)

	if cfg.API.URL != "http://mock-voipbin:9000/v1.0" {
		t.Errorf("expected env API URL, got %s", cfg.API.URL)
	}
	if cfg.API.Key != "env-key" {
		t.Errorf("expected env API key, got %s", cfg.API.Key)
	}
	if cfg.API.GetTimeout() != 5*time.Second {
		t.Errorf("expected env timeout 5s, got %v", cfg.API.GetTimeout())
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("expected env port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "env-host" {
		t.Errorf("expected env host env-host, got %s", cfg.Server.Host)
	}
	if cfg.Server.GetHeartbeatInterval() != time.Second {
		t.Errorf("expected env heartbeat 1s, got %v", cfg.Server.GetHeartbeatInterval())
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected env log level error, got %s", cfg.Logging.Level)
	}
}

func TestApplyEnvOverrides_InvalidPort(t *testing.T) {
	cfg := NewDefaultConfig()

	t.Setenv("VOIPBIN_SERVER_PORT", "not-a-number")

	applyEnvOverrides(cfg)

	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000 for invalid env, got %d", cfg.Server.Port)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "test.toml")
	if err := os.WriteFile(tomlPath, []byte("[api]\nkey = \"file-key\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("VOIPBIN_API_KEY", "env-key")

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.API.Key != "env-key" {
		t.Errorf("expected env to win over file, got %s", cfg.API.Key)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 7777, "flag-host")

	if cfg.Server.Port != 7777 {
		t.Errorf("expected flag port 7777, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "flag-host" {
		t.Errorf("expected flag host flag-host, got %s", cfg.Server.Host)
	}
	if cfg.Address() != "flag-host:7777" {
		t.Errorf("expected address flag-host:7777, got %s", cfg.Address())
	}
}

func TestApplyFlagOverrides_ZeroPortNoOverride(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 0, "")

	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected default host 0.0.0.0, got %s", cfg.Server.Host)
	}
}

func TestGetTimeout_InvalidFallsBack(t *testing.T) {
	api := APIConfig{Timeout: "soon"}
	if api.GetTimeout() != DefaultAPITimeout {
		t.Errorf("expected fallback timeout, got %v", api.GetTimeout())
	}
	srv := ServerConfig{HeartbeatInterval: "-1s"}
	if srv.GetHeartbeatInterval() != DefaultHeartbeatInterval {
		t.Errorf("expected fallback heartbeat, got %v", srv.GetHeartbeatInterval())
	}
}

// --- Validate ---

func TestValidate_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if issues := cfg.Validate(); len(issues) != 0 {
		t.Errorf("expected default config to validate, got %v", issues)
	}
}

func TestValidate_Issues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"relative url", func(c *Config) { c.API.URL = "api.voipbin.net" }, "api.url"},
		{"ftp url", func(c *Config) { c.API.URL = "ftp://api.voipbin.net" }, "scheme"},
		{"bad timeout", func(c *Config) { c.API.Timeout = "forever" }, "api.timeout"},
		{"bad heartbeat", func(c *Config) { c.Server.HeartbeatInterval = "0s" }, "heartbeat_interval"},
		{"file output without path", func(c *Config) {
			c.Logging.Outputs = []string{"console", "file"}
			c.Logging.FilePath = ""
		}, "logging.file_path"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			issues := cfg.Validate()
			if len(issues) != 1 {
				t.Fatalf("expected 1 issue, got %v", issues)
			}
			if !strings.Contains(issues[0], tc.want) {
				t.Errorf("expected issue mentioning %q, got %q", tc.want, issues[0])
			}
		})
	}
}

func TestWarnings_MissingAPIKey(t *testing.T) {
	cfg := NewDefaultConfig()
	if w := cfg.Warnings(); len(w) != 1 || !strings.Contains(w[0], "VOIPBIN_API_KEY") {
		t.Errorf("expected API key warning, got %v", w)
	}

	cfg.API.Key = "secret"
	if w := cfg.Warnings(); len(w) != 0 {
		t.Errorf("expected no warnings with key set, got %v", w)
	}
}
