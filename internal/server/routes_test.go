package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voipbin/voipbin-mcp/internal/app"
	"github.com/voipbin/voipbin-mcp/internal/common"
	"github.com/voipbin/voipbin-mcp/internal/config"
)

func newTestApp(t *testing.T, apiURL string) *app.App {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.API.URL = apiURL
	cfg.API.Key = "test-key"
	cfg.Server.HeartbeatInterval = "50ms"

	application, err := app.New(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("failed to create test app: %v", err)
	}

	t.Cleanup(func() {
		application.Close()
	})

	return application
}

func TestRoutes_HealthEndpoint(t *testing.T) {
	srv := New(newTestApp(t, "http://127.0.0.1:1"))

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("expected status healthy, got %s", body["status"])
	}
	if body["timestamp"] == "" {
		t.Error("expected timestamp in health response")
	}
}

func TestRoutes_VersionEndpoint(t *testing.T) {
	srv := New(newTestApp(t, "http://127.0.0.1:1"))

	req := httptest.NewRequest("GET", "/version", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["version"] == "" {
		t.Error("expected version in response")
	}
}

func TestRoutes_NotFound(t *testing.T) {
	srv := New(newTestApp(t, "http://127.0.0.1:1"))

	req := httptest.NewRequest("GET", "/api/nonexistent", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected JSON 404, got %s", w.Header().Get("Content-Type"))
	}
}

func TestRoutes_ListTools(t *testing.T) {
	srv := New(newTestApp(t, "http://127.0.0.1:1"))

	req := httptest.NewRequest("GET", "/mcp/list_tools", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if len(body.Tools) != 20 {
		t.Errorf("expected 20 tools, got %d", len(body.Tools))
	}
}

func TestRoutes_ListResourcesAndPrompts(t *testing.T) {
	srv := New(newTestApp(t, "http://127.0.0.1:1"))

	for path, want := range map[string]string{
		"/mcp/list_resources": `{"resources":[]}`,
		"/mcp/list_prompts":   `{"prompts":[]}`,
	} {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", path, nil))

		if w.Code != http.StatusOK {
			t.Errorf("%s: expected status 200, got %d", path, w.Code)
		}
		if strings.TrimSpace(w.Body.String()) != want {
			t.Errorf("%s: expected %s, got %s", path, want, w.Body.String())
		}
	}
}

func TestRoutes_MiddlewareApplied(t *testing.T) {
	srv := New(newTestApp(t, "http://127.0.0.1:1"))

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Header().Get("X-Correlation-ID") == "" {
		t.Error("expected X-Correlation-ID header from middleware")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header from middleware")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers from middleware")
	}
}
