package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/voipbin/voipbin-mcp/internal/common"
	"github.com/voipbin/voipbin-mcp/internal/voipbin"
)

var (
	// ErrUnknownTool is returned when a call names a tool outside the catalog.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidArguments is returned when tool arguments have the wrong shape.
	ErrInvalidArguments = errors.New("invalid arguments")
)

// Forwarder performs one upstream request per invocation.
type Forwarder interface {
	Forward(ctx context.Context, req voipbin.Request) ([]byte, error)
}

// Invocation is a single validated tool call ready to forward.
type Invocation struct {
	Tool       CatalogTool
	Query      map[string]any
	Body       any
	PathParams map[string]string
}

// Request converts the invocation into the forwarder's request shape.
func (inv Invocation) Request() voipbin.Request {
	return voipbin.Request{
		Endpoint:   inv.Tool.Path,
		Method:     inv.Tool.Method,
		Query:      inv.Query,
		Body:       inv.Body,
		PathParams: inv.PathParams,
	}
}

// Registry is the static tool table plus dispatch to the forwarder.
// It holds no mutable state after construction.
type Registry struct {
	tools     []CatalogTool
	index     map[string]CatalogTool
	forwarder Forwarder
	logger    *common.Logger
}

// NewRegistry validates catalog and builds a registry dispatching to forwarder.
// Invalid or duplicate entries are skipped with a warning.
func NewRegistry(catalog []CatalogTool, forwarder Forwarder, logger *common.Logger) *Registry {
	valid := ValidateCatalog(catalog, logger)
	index := make(map[string]CatalogTool, len(valid))
	for _, ct := range valid {
		index[ct.Name] = ct
	}
	return &Registry{
		tools:     valid,
		index:     index,
		forwarder: forwarder,
		logger:    logger,
	}
}

// List returns a copy of the catalog in declaration order.
func (r *Registry) List() []CatalogTool {
	result := make([]CatalogTool, len(r.tools))
	copy(result, r.tools)
	return result
}

// Lookup returns the named tool.
func (r *Registry) Lookup(name string) (CatalogTool, bool) {
	ct, ok := r.index[name]
	return ct, ok
}

// BuildInvocation validates args against the named tool's parameter shape.
// Arguments the tool does not declare are ignored.
func (r *Registry) BuildInvocation(name string, args map[string]any) (Invocation, error) {
	ct, ok := r.index[name]
	if !ok {
		return Invocation{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	inv := Invocation{Tool: ct}
	for _, p := range ct.Params {
		val, present := args[p.Name]
		if present && val == nil {
			present = false
		}

		if !present {
			if p.Required {
				return Invocation{}, fmt.Errorf("%w: %s parameter is required", ErrInvalidArguments, p.Name)
			}
			continue
		}

		switch p.In {
		case InPath:
			s, ok := val.(string)
			if !ok || strings.TrimSpace(s) == "" {
				return Invocation{}, fmt.Errorf("%w: %s must be a non-empty string", ErrInvalidArguments, p.Name)
			}
			if inv.PathParams == nil {
				inv.PathParams = map[string]string{}
			}
			inv.PathParams[p.Name] = s
		case InQuery:
			m, ok := val.(map[string]any)
			if !ok {
				return Invocation{}, fmt.Errorf("%w: %s must be an object", ErrInvalidArguments, p.Name)
			}
			inv.Query = m
		case InBody:
			m, ok := val.(map[string]any)
			if !ok {
				return Invocation{}, fmt.Errorf("%w: %s must be an object", ErrInvalidArguments, p.Name)
			}
			inv.Body = m
		}
	}
	return inv, nil
}

// Call validates args, forwards the invocation and returns the upstream body
// unchanged. Failures are returned as-is for the transport layer to report.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) ([]byte, error) {
	r.logger.Info().
		Str("tool", name).
		Str("arguments", fmt.Sprintf("%v", args)).
		Msg("tool invoked")

	inv, err := r.BuildInvocation(name, args)
	if err != nil {
		r.logger.Warn().Str("tool", name).Str("error", err.Error()).Msg("tool invocation rejected")
		return nil, err
	}

	return r.forwarder.Forward(ctx, inv.Request())
}
