package filterkeeper

import (
	"context"
	"encoding/json"

	"github.com/hazyhaar/pkg/kit"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMCP registers the filter keeper tools on an MCP server.
func (k *Keeper) RegisterMCP(srv *mcp.Server) {
	k.registerSynthesizeTool(srv)
	k.registerAddFilterTool(srv)
	k.registerListFiltersTool(srv)
	k.registerSetEnabledTool(srv)
	k.registerDeleteFilterTool(srv)
	k.registerExportTool(srv)
}

// inputSchema builds a JSON Schema object with type "object".
func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// decodeArgs decodes the tool arguments into a fresh Req.
func decodeArgs[Req any](r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	var p Req
	if len(r.Params.Arguments) > 0 {
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
	}
	return &kit.MCPDecodeResult{Request: &p}, nil
}

// --- synthesize ---

func (k *Keeper) registerSynthesizeTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "elpick_synthesize",
		Description: "Synthesize CSS selectors for an element of a page, from the most permissive to the most rigid specificity.",
		InputSchema: inputSchema(map[string]any{
			"url":    map[string]any{"type": "string", "description": "Page URL to fetch (public http/https only)"},
			"html":   map[string]any{"type": "string", "description": "Inline HTML, used instead of fetching"},
			"target": map[string]any{"type": "string", "description": "CSS selector locating the element; the first match is used"},
			"level":  map[string]any{"type": "integer", "minimum": 1, "maximum": 4, "description": "Specificity slider level (default 4)"},
		}, []string{"target"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*SynthesizeRequest)
		return k.Synthesize(ctx, *r)
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeArgs[SynthesizeRequest])
}

// --- add_filter ---

type addFilterRequest struct {
	Host     string `json:"host"`
	Selector string `json:"selector"`
}

func (k *Keeper) registerAddFilterTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "elpick_add_filter",
		Description: "Store a cosmetic filter hiding elements matching a selector on a site.",
		InputSchema: inputSchema(map[string]any{
			"host":     map[string]any{"type": "string", "description": "Site host name (e.g. example.com)"},
			"selector": map[string]any{"type": "string", "description": "CSS selector of the elements to hide"},
		}, []string{"host", "selector"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*addFilterRequest)
		return k.AddFilter(ctx, r.Host, r.Selector)
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeArgs[addFilterRequest])
}

// --- list_filters ---

type listFiltersRequest struct {
	Host string `json:"host,omitempty"`
}

func (k *Keeper) registerListFiltersTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "elpick_list_filters",
		Description: "List stored cosmetic filters, optionally for one host.",
		InputSchema: inputSchema(map[string]any{
			"host": map[string]any{"type": "string", "description": "Only list filters for this host"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*listFiltersRequest)
		fs, err := k.ListFilters(ctx, r.Host)
		if err != nil {
			return nil, err
		}
		if fs == nil {
			fs = []*Filter{}
		}
		return fs, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeArgs[listFiltersRequest])
}

// --- set_filter_enabled ---

type setEnabledRequest struct {
	ID      string `json:"id"`
	Enabled bool   `json:"enabled"`
}

func (k *Keeper) registerSetEnabledTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "elpick_set_filter_enabled",
		Description: "Enable or disable a stored cosmetic filter.",
		InputSchema: inputSchema(map[string]any{
			"id":      map[string]any{"type": "string", "description": "Filter ID"},
			"enabled": map[string]any{"type": "boolean", "description": "New state"},
		}, []string{"id", "enabled"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*setEnabledRequest)
		if err := k.SetEnabled(ctx, r.ID, r.Enabled); err != nil {
			return nil, err
		}
		return k.GetFilter(ctx, r.ID)
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeArgs[setEnabledRequest])
}

// --- delete_filter ---

type deleteFilterRequest struct {
	ID string `json:"id"`
}

func (k *Keeper) registerDeleteFilterTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "elpick_delete_filter",
		Description: "Delete a stored cosmetic filter.",
		InputSchema: inputSchema(map[string]any{
			"id": map[string]any{"type": "string", "description": "Filter ID"},
		}, []string{"id"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*deleteFilterRequest)
		if err := k.DeleteFilter(ctx, r.ID); err != nil {
			return nil, err
		}
		return map[string]any{"deleted": r.ID}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeArgs[deleteFilterRequest])
}

// --- export_filters ---

func (k *Keeper) registerExportTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "elpick_export_filters",
		Description: "Export enabled cosmetic filters as host##selector lines.",
		InputSchema: inputSchema(map[string]any{
			"host": map[string]any{"type": "string", "description": "Only export filters for this host"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*listFiltersRequest)
		rules, err := k.Export(ctx, r.Host)
		if err != nil {
			return nil, err
		}
		if rules == nil {
			rules = []string{}
		}
		return map[string]any{"rules": rules, "count": len(rules)}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeArgs[listFiltersRequest])
}
