package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/voipbin/voipbin-mcp/internal/common"
	"github.com/voipbin/voipbin-mcp/internal/config"
)

// Handler serves the tool registry over the MCP transports.
// ServeHTTP is the Streamable HTTP endpoint; SSE serves the legacy
// SSE transport under /mcp/sse and /mcp/message.
type Handler struct {
	server     *mcpserver.MCPServer
	streamable *mcpserver.StreamableHTTPServer
	sse        *mcpserver.SSEServer
	registry   *Registry
	logger     *common.Logger
}

// NewHandler creates the MCP server and registers every catalog tool.
func NewHandler(cfg *config.Config, registry *Registry, logger *common.Logger) *Handler {
	mcpSrv := NewMCPServer(cfg, registry)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)
	sse := mcpserver.NewSSEServer(mcpSrv,
		mcpserver.WithStaticBasePath("/mcp"),
		mcpserver.WithKeepAlive(true),
	)

	logger.Info().
		Int("tools", len(registry.List())).
		Str("api_url", cfg.API.URL).
		Msg("MCP handler initialized")

	return &Handler{
		server:     mcpSrv,
		streamable: streamable,
		sse:        sse,
		registry:   registry,
		logger:     logger,
	}
}

// NewMCPServer builds an mcp-go server exposing the registry. Resources and
// prompts are advertised but empty.
func NewMCPServer(cfg *config.Config, registry *Registry) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		cfg.MCP.Name,
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
		mcpserver.WithPromptCapabilities(false),
		mcpserver.WithLogging(),
		mcpserver.WithRecovery(),
	)
	RegisterToolsFromCatalog(s, registry)
	return s
}

// Server returns the underlying MCP server, used by the stdio transport.
func (h *Handler) Server() *mcpserver.MCPServer {
	return h.server
}

// Registry returns the tool registry backing this handler.
func (h *Handler) Registry() *Registry {
	return h.registry
}

// SSE returns the handler for the MCP SSE transport.
func (h *Handler) SSE() http.Handler {
	return h.sse
}

// ServeHTTP delegates to the Streamable HTTP transport.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
