package mcp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/voipbin/voipbin-mcp/internal/common"
	"github.com/voipbin/voipbin-mcp/internal/handlers"
	"github.com/voipbin/voipbin-mcp/internal/voipbin"
)

// maxCallBodySize caps the JSON body accepted by /mcp/call_tool.
const maxCallBodySize = 1 << 20

// CallToolRequest is the body accepted by /mcp/call_tool.
type CallToolRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Bridge exposes the registry as plain JSON endpoints for clients that do
// not speak MCP.
type Bridge struct {
	registry *Registry
	logger   *common.Logger
}

// NewBridge creates a REST bridge over registry.
func NewBridge(registry *Registry, logger *common.Logger) *Bridge {
	return &Bridge{registry: registry, logger: logger}
}

// HandleCallTool handles POST /mcp/call_tool.
func (b *Bridge) HandleCallTool(w http.ResponseWriter, r *http.Request) {
	if !handlers.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req CallToolRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCallBodySize))
	if err := dec.Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		handlers.WriteError(w, http.StatusBadRequest, "name is required")
		return
	}

	body, err := b.registry.Call(r.Context(), req.Name, req.Arguments)
	if err != nil {
		b.writeCallError(w, req.Name, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, textResult(string(body)))
}

func (b *Bridge) writeCallError(w http.ResponseWriter, tool string, err error) {
	var upstream *voipbin.UpstreamError
	switch {
	case errors.Is(err, ErrUnknownTool):
		handlers.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidArguments), errors.Is(err, voipbin.ErrMissingPathParam):
		handlers.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &upstream):
		handlers.WriteJSON(w, http.StatusBadGateway, map[string]any{
			"status":          "error",
			"error":           err.Error(),
			"upstream_status": upstream.StatusCode,
			"upstream_body":   string(upstream.Body),
		})
	default:
		b.logger.Error().Str("tool", tool).Err(err).Msg("tool call failed")
		handlers.WriteError(w, http.StatusBadGateway, err.Error())
	}
}

// HandleListTools handles GET /mcp/list_tools.
func (b *Bridge) HandleListTools(w http.ResponseWriter, r *http.Request) {
	if !handlers.RequireMethod(w, r, http.MethodGet) {
		return
	}
	catalog := b.registry.List()
	tools := make([]mcp.Tool, 0, len(catalog))
	for _, ct := range catalog {
		tools = append(tools, BuildMCPTool(ct))
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]any{"tools": tools})
}

// HandleListResources handles GET /mcp/list_resources. No resources are exposed.
func (b *Bridge) HandleListResources(w http.ResponseWriter, r *http.Request) {
	if !handlers.RequireMethod(w, r, http.MethodGet) {
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]any{"resources": []mcp.Resource{}})
}

// HandleListPrompts handles GET /mcp/list_prompts. No prompts are exposed.
func (b *Bridge) HandleListPrompts(w http.ResponseWriter, r *http.Request) {
	if !handlers.RequireMethod(w, r, http.MethodGet) {
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]any{"prompts": []mcp.Prompt{}})
}
