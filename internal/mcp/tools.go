package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterToolsFromCatalog registers one MCP tool per registry entry.
func RegisterToolsFromCatalog(s *server.MCPServer, r *Registry) int {
	tools := r.List()
	for _, ct := range tools {
		s.AddTool(BuildMCPTool(ct), GenericToolHandler(r, ct))
	}
	return len(tools)
}

// GenericToolHandler routes an MCP tool call through the registry to the
// VoIPBin endpoint described by ct. The upstream body becomes the text content.
func GenericToolHandler(r *Registry, ct CatalogTool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		body, err := r.Call(ctx, ct.Name, req.GetArguments())
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(string(body)), nil
	}
}
