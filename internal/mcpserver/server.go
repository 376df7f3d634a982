// Package mcpserver exposes the engine façade's shell query verbs and
// mutation operations as Model Context Protocol tools, grounded on the
// teacher's internal/mcp.Server: the same mcp.NewServer/AddTool/
// StdioTransport wiring (github.com/modelcontextprotocol/go-sdk/mcp),
// the same jsonschema.Schema-per-tool input description
// (github.com/google/jsonschema-go/jsonschema), and the same
// createJSONResponse-style "marshal the result, wrap in one
// TextContent" reply shape (response.go).
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/naviscope/naviscope/internal/engine"
	"github.com/naviscope/naviscope/internal/types"
	"github.com/naviscope/naviscope/internal/version"
)

// Server adapts one engine.Engine to the MCP tool surface.
type Server struct {
	eng    *engine.Engine
	server *mcp.Server
}

// New creates a Server bound to eng and registers every tool.
func New(eng *engine.Engine) *Server {
	s := &Server{
		eng: eng,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "naviscope-mcp-server",
			Version: version.Version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Run serves the MCP protocol over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "find",
		Description: "Find graph nodes by regex against their FQN or display name, with Porter2-stemmed fallback when the regex has zero hits.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"pattern": {Type: "string", Description: "Case-insensitive regex"},
				"kinds":   {Type: "string", Description: "Comma-separated node kinds to filter, e.g. \"class,method\""},
				"limit":   {Type: "integer", Description: "Maximum matches, 0 = unlimited"},
			},
			Required: []string{"pattern"},
		},
	}, s.handleFind)

	s.server.AddTool(&mcp.Tool{
		Name:        "ls",
		Description: "List the Contains-children of a container FQN, or the workspace roots when fqn is omitted.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"fqn":   {Type: "string", Description: "Container FQN, omit for workspace roots"},
				"kinds": {Type: "string", Description: "Comma-separated node kinds to filter"},
			},
		},
	}, s.handleLs)

	s.server.AddTool(&mcp.Tool{
		Name:        "cat",
		Description: "Return the single node named by an FQN.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"fqn": {Type: "string"}},
			Required:   []string{"fqn"},
		},
	}, s.handleCat)

	s.server.AddTool(&mcp.Tool{
		Name:        "deps",
		Description: "Return a node's dependencies (outgoing edges) or dependents (incoming, reverse=true), optionally filtered by edge type.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"fqn":        {Type: "string"},
				"reverse":    {Type: "boolean", Description: "true for dependents instead of dependencies"},
				"edge_types": {Type: "string", Description: "Comma-separated edge types to filter, e.g. \"inheritsfrom,implements\""},
			},
			Required: []string{"fqn"},
		},
	}, s.handleDeps)

	s.server.AddTool(&mcp.Tool{
		Name:        "rebuild",
		Description: "Drop the current graph and re-ingest the whole project tree from scratch.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleRebuild)

	s.server.AddTool(&mcp.Tool{
		Name:        "refresh",
		Description: "Re-scan the project tree and ingest only files added, modified, or removed since the last scan.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleRefresh)

	s.server.AddTool(&mcp.Tool{
		Name:        "version",
		Description: "Report the naviscope server's version and build info.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleVersion)
}

type findParams struct {
	Pattern string `json:"pattern"`
	Kinds   string `json:"kinds"`
	Limit   int    `json:"limit"`
}

func (s *Server) handleFind(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p findParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse(err)
	}
	res, err := s.eng.Query(ctx, engine.GraphQuery{Verb: engine.VerbFind, Pattern: p.Pattern, Kinds: parseKinds(p.Kinds), Limit: p.Limit})
	if err != nil {
		return errorResponse(err)
	}
	return jsonResponse(res)
}

type lsParams struct {
	FQN   string `json:"fqn"`
	Kinds string `json:"kinds"`
}

func (s *Server) handleLs(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p lsParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse(err)
	}
	res, err := s.eng.Query(ctx, engine.GraphQuery{Verb: engine.VerbLs, FQN: p.FQN, Kinds: parseKinds(p.Kinds)})
	if err != nil {
		return errorResponse(err)
	}
	return jsonResponse(res)
}

type catParams struct {
	FQN string `json:"fqn"`
}

func (s *Server) handleCat(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p catParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse(err)
	}
	res, err := s.eng.Query(ctx, engine.GraphQuery{Verb: engine.VerbCat, FQN: p.FQN})
	if err != nil {
		return errorResponse(err)
	}
	return jsonResponse(res)
}

type depsParams struct {
	FQN       string `json:"fqn"`
	Reverse   bool   `json:"reverse"`
	EdgeTypes string `json:"edge_types"`
}

func (s *Server) handleDeps(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p depsParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse(err)
	}
	res, err := s.eng.Query(ctx, engine.GraphQuery{Verb: engine.VerbDeps, FQN: p.FQN, Reverse: p.Reverse, EdgeTypes: parseEdgeTypes(p.EdgeTypes)})
	if err != nil {
		return errorResponse(err)
	}
	return jsonResponse(res)
}

func (s *Server) handleRebuild(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.eng.Rebuild(ctx)
	if err != nil {
		return errorResponse(err)
	}
	return jsonResponse(stats)
}

func (s *Server) handleRefresh(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.eng.Refresh(ctx)
	if err != nil {
		return errorResponse(err)
	}
	return jsonResponse(stats)
}

func (s *Server) handleVersion(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp := map[string]any{
		"server_version": version.FullInfo(),
		"node_count":     s.eng.Snapshot().NodeCount(),
	}
	if m := s.eng.Metrics(); m != nil {
		resp["throughput"] = m.Throughput()
		resp["replay_hit_rate"] = m.ReplayHitRate()
	}
	return jsonResponse(resp)
}

func parseKinds(s string) []types.NodeKind {
	if s == "" {
		return nil
	}
	var kinds []types.NodeKind
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kinds = append(kinds, types.ParseNodeKind(part))
	}
	return kinds
}

func parseEdgeTypes(s string) []types.EdgeType {
	if s == "" {
		return nil
	}
	var out []types.EdgeType
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if et, ok := types.ParseEdgeType(part); ok {
			out = append(out, et)
		}
	}
	return out
}

// jsonResponse mirrors the teacher's createJSONResponse: marshal data and
// wrap it as the tool's single TextContent reply.
func jsonResponse(data any) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("mcpserver: marshal response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(content)}},
	}, nil
}

func errorResponse(err error) (*mcp.CallToolResult, error) {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}, nil
}
