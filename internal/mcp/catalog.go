package mcp

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/voipbin/voipbin-mcp/internal/common"
	"github.com/voipbin/voipbin-mcp/internal/voipbin"
)

// allowedMethods is the whitelist of HTTP methods for catalog tools.
var allowedMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true,
}

// Parameter locations.
const (
	InPath  = "path"
	InQuery = "query"
	InBody  = "body"
)

// CatalogTool maps one MCP tool onto one VoIPBin endpoint.
type CatalogTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Method      string         `json:"method"`
	Path        string         `json:"path"`
	Params      []CatalogParam `json:"params"`
}

// CatalogParam describes one argument of a catalog tool.
// Path params are strings substituted into Path; query and body params are
// JSON objects forwarded verbatim as the query string and request body.
type CatalogParam struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // string or object
	Description string `json:"description"`
	Required    bool   `json:"required"`
	In          string `json:"in"` // path, query, body
}

// AcceptsQuery reports whether the tool forwards a query mapping.
func (ct CatalogTool) AcceptsQuery() bool { return ct.hasParamIn(InQuery) }

// AcceptsBody reports whether the tool forwards a request body.
func (ct CatalogTool) AcceptsBody() bool { return ct.hasParamIn(InBody) }

// PathParamNames returns the names of the tool's path parameters.
func (ct CatalogTool) PathParamNames() []string {
	var names []string
	for _, p := range ct.Params {
		if p.In == InPath {
			names = append(names, p.Name)
		}
	}
	return names
}

func (ct CatalogTool) hasParamIn(in string) bool {
	for _, p := range ct.Params {
		if p.In == in {
			return true
		}
	}
	return false
}

func filterParam(resource string) CatalogParam {
	return CatalogParam{
		Name:        "params",
		Type:        "object",
		Description: fmt.Sprintf("Optional query parameters used to filter or page the %s list (e.g. page_size, page_token).", resource),
		In:          InQuery,
	}
}

func idParam(name, description string) CatalogParam {
	return CatalogParam{Name: name, Type: "string", Description: description, Required: true, In: InPath}
}

func bodyParam(description string) CatalogParam {
	return CatalogParam{Name: "body", Type: "object", Description: description, Required: true, In: InBody}
}

// VoipbinCatalog returns the fixed tool catalog, one entry per VoIPBin endpoint.
func VoipbinCatalog() []CatalogTool {
	return []CatalogTool{
		// Calls
		{Name: "get_calls", Description: "Retrieve a list of calls with optional filtering", Method: "GET", Path: "calls",
			Params: []CatalogParam{filterParam("call")}},
		{Name: "get_call", Description: "Get details of a specific call", Method: "GET", Path: "calls/{call_id}",
			Params: []CatalogParam{idParam("call_id", "ID of the call")}},
		{Name: "create_call", Description: "Create a new call", Method: "POST", Path: "calls",
			Params: []CatalogParam{bodyParam("Call definition: source, destinations, actions")}},
		{Name: "end_call", Description: "End an active call", Method: "POST", Path: "calls/{call_id}/end",
			Params: []CatalogParam{idParam("call_id", "ID of the call to hang up")}},

		// Agents
		{Name: "get_agents", Description: "Retrieve a list of agents", Method: "GET", Path: "agents",
			Params: []CatalogParam{filterParam("agent")}},
		{Name: "get_agent", Description: "Get details of a specific agent", Method: "GET", Path: "agents/{agent_id}",
			Params: []CatalogParam{idParam("agent_id", "ID of the agent")}},
		{Name: "update_agent_status", Description: "Update an agent's status", Method: "PUT", Path: "agents/{agent_id}/status",
			Params: []CatalogParam{
				idParam("agent_id", "ID of the agent"),
				bodyParam("Status update, e.g. {\"status\": \"available\"}"),
			}},

		// Campaigns
		{Name: "get_campaigns", Description: "Retrieve a list of campaigns", Method: "GET", Path: "campaigns",
			Params: []CatalogParam{filterParam("campaign")}},
		{Name: "get_campaign", Description: "Get details of a specific campaign", Method: "GET", Path: "campaigns/{campaign_id}",
			Params: []CatalogParam{idParam("campaign_id", "ID of the campaign")}},
		{Name: "create_campaign", Description: "Create a new campaign", Method: "POST", Path: "campaigns",
			Params: []CatalogParam{bodyParam("Campaign definition")}},

		// Recordings
		{Name: "get_recordings", Description: "Retrieve a list of call recordings", Method: "GET", Path: "recordings",
			Params: []CatalogParam{filterParam("recording")}},
		{Name: "get_recording", Description: "Get details of a specific recording", Method: "GET", Path: "recordings/{recording_id}",
			Params: []CatalogParam{idParam("recording_id", "ID of the recording")}},

		// Queues
		{Name: "get_queues", Description: "Retrieve a list of call queues", Method: "GET", Path: "queues",
			Params: []CatalogParam{filterParam("queue")}},
		{Name: "get_queue", Description: "Get details of a specific queue", Method: "GET", Path: "queues/{queue_id}",
			Params: []CatalogParam{idParam("queue_id", "ID of the queue")}},

		// Conferences
		{Name: "get_conferences", Description: "Retrieve a list of active conferences", Method: "GET", Path: "conferences",
			Params: []CatalogParam{filterParam("conference")}},
		{Name: "create_conference", Description: "Create a new conference", Method: "POST", Path: "conferences",
			Params: []CatalogParam{bodyParam("Conference definition")}},

		// Chats
		{Name: "get_chats", Description: "Retrieve a list of chat conversations", Method: "GET", Path: "chats",
			Params: []CatalogParam{filterParam("chat")}},
		{Name: "send_chat_message", Description: "Send a message in a chat conversation", Method: "POST", Path: "chats/{chat_id}/messages",
			Params: []CatalogParam{
				idParam("chat_id", "ID of the chat"),
				bodyParam("Message payload, e.g. {\"text\": \"hello\"}"),
			}},

		// Billing
		{Name: "get_billing_info", Description: "Retrieve current billing information", Method: "GET", Path: "billing"},
		{Name: "get_billing_history", Description: "Retrieve billing history", Method: "GET", Path: "billing/history",
			Params: []CatalogParam{filterParam("billing history")}},
	}
}

// ValidateCatalogTool validates a single catalog tool entry.
func ValidateCatalogTool(ct CatalogTool) error {
	if ct.Name == "" {
		return fmt.Errorf("tool has empty name")
	}
	if ct.Method == "" {
		return fmt.Errorf("tool %q has empty method", ct.Name)
	}
	if !allowedMethods[strings.ToUpper(ct.Method)] {
		return fmt.Errorf("tool %q has unsupported method %q", ct.Name, ct.Method)
	}
	if ct.Path == "" {
		return fmt.Errorf("tool %q has empty path", ct.Name)
	}
	if strings.HasPrefix(ct.Path, "/") || strings.Contains(ct.Path, "://") {
		return fmt.Errorf("tool %q has invalid path %q (must be relative to the API base URL)", ct.Name, ct.Path)
	}
	if strings.Contains(ct.Path, "..") {
		return fmt.Errorf("tool %q has invalid path %q (contains ..)", ct.Name, ct.Path)
	}

	pathParams := map[string]bool{}
	seen := map[string]bool{}
	for _, p := range ct.Params {
		if p.Name == "" {
			return fmt.Errorf("tool %q has a parameter with empty name", ct.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("tool %q has duplicate parameter %q", ct.Name, p.Name)
		}
		seen[p.Name] = true
		switch p.In {
		case InPath:
			pathParams[p.Name] = true
		case InQuery, InBody:
		default:
			return fmt.Errorf("tool %q parameter %q has invalid location %q", ct.Name, p.Name, p.In)
		}
	}

	placeholders := map[string]bool{}
	for _, name := range voipbin.Placeholders(ct.Path) {
		placeholders[name] = true
		if !pathParams[name] {
			return fmt.Errorf("tool %q path placeholder {%s} has no path parameter", ct.Name, name)
		}
	}
	for name := range pathParams {
		if !placeholders[name] {
			return fmt.Errorf("tool %q path parameter %q has no placeholder in %q", ct.Name, name, ct.Path)
		}
	}
	return nil
}

// ValidateCatalog filters and validates catalog entries, logging warnings for invalid or duplicate tools.
func ValidateCatalog(catalog []CatalogTool, logger *common.Logger) []CatalogTool {
	seen := make(map[string]bool, len(catalog))
	valid := make([]CatalogTool, 0, len(catalog))
	for _, ct := range catalog {
		if err := ValidateCatalogTool(ct); err != nil {
			logger.Warn().Str("error", err.Error()).Msg("skipping invalid catalog tool")
			continue
		}
		if seen[ct.Name] {
			logger.Warn().Str("name", ct.Name).Msg("skipping duplicate catalog tool")
			continue
		}
		seen[ct.Name] = true
		valid = append(valid, ct)
	}
	return valid
}

// BuildMCPTool converts a CatalogTool into an mcp.Tool with the appropriate schema.
func BuildMCPTool(ct CatalogTool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(ct.Description)}
	for _, p := range ct.Params {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(ct.Name, opts...)
}

// buildParamOption maps a CatalogParam to the appropriate mcp-go tool option.
func buildParamOption(p CatalogParam) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}

	if p.Type == "object" {
		return mcp.WithObject(p.Name, opts...)
	}
	return mcp.WithString(p.Name, opts...)
}
