package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Health checks and heartbeat stream
	mux.Handle("/health", s.app.HealthHandler)
	mux.Handle("/sse", s.app.StreamHandler)
	mux.Handle("/version", s.app.VersionHandler)
	mux.Handle("/upstream/health", s.app.UpstreamHealthHandler)

	// MCP transports: Streamable HTTP and SSE
	mux.Handle("/mcp", s.app.MCPHandler)
	mux.Handle("/mcp/sse", s.app.MCPHandler.SSE())
	mux.Handle("/mcp/message", s.app.MCPHandler.SSE())

	// REST bridge over the tool registry
	mux.HandleFunc("/mcp/call_tool", s.app.BridgeHandler.HandleCallTool)
	mux.HandleFunc("/mcp/list_tools", s.app.BridgeHandler.HandleListTools)
	mux.HandleFunc("/mcp/list_resources", s.app.BridgeHandler.HandleListResources)
	mux.HandleFunc("/mcp/list_prompts", s.app.BridgeHandler.HandleListPrompts)

	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
