package app

import (
	"fmt"
	"strings"

	"github.com/voipbin/voipbin-mcp/internal/common"
	"github.com/voipbin/voipbin-mcp/internal/config"
	"github.com/voipbin/voipbin-mcp/internal/handlers"
	"github.com/voipbin/voipbin-mcp/internal/mcp"
	"github.com/voipbin/voipbin-mcp/internal/voipbin"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Forwarder *voipbin.Forwarder
	Registry  *mcp.Registry

	// HTTP handlers
	HealthHandler         *handlers.HealthHandler
	StreamHandler         *handlers.StreamHandler
	VersionHandler        *handlers.VersionHandler
	UpstreamHealthHandler *handlers.UpstreamHealthHandler
	MCPHandler            *mcp.Handler
	BridgeHandler         *mcp.Bridge
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	if issues := cfg.Validate(); len(issues) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(issues, "; "))
	}
	for _, w := range cfg.Warnings() {
		logger.Warn().Msg(w)
	}

	a := &App{
		Config: cfg,
		Logger: logger,
	}

	a.Forwarder = voipbin.NewForwarder(cfg.API.URL, cfg.API.Key, cfg.API.GetTimeout(), logger)
	a.Registry = mcp.NewRegistry(mcp.VoipbinCatalog(), a.Forwarder, logger)

	a.initHandlers()

	logger.Info().
		Str("api_url", cfg.API.URL).
		Int("tools", len(a.Registry.List())).
		Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.StreamHandler = handlers.NewStreamHandler(a.Logger, a.Config.Server.GetHeartbeatInterval())
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.UpstreamHealthHandler = handlers.NewUpstreamHealthHandler(a.Logger, a.Forwarder)
	a.MCPHandler = mcp.NewHandler(a.Config, a.Registry, a.Logger)
	a.BridgeHandler = mcp.NewBridge(a.Registry, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	return nil
}
