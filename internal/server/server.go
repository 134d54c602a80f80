package server

import (
	"context"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/loomworks/tubewatch/internal/agents"
	"github.com/loomworks/tubewatch/internal/heartbeat"
	"github.com/loomworks/tubewatch/internal/memstore"
	"github.com/loomworks/tubewatch/internal/youtube"
)

const serverName = "tubewatch"

// Server exposes the store, agents and YouTube client as MCP tools over
// stdio. The heartbeat service is owned by the composition root and passed
// in; the server only drives it.
type Server struct {
	store *memstore.Store
	orch  *agents.Orchestrator
	yt    *youtube.Client
	hb    *heartbeat.Service
	mcp   *mcp.Server
}

func New(store *memstore.Store, orch *agents.Orchestrator, yt *youtube.Client, hb *heartbeat.Service, version string) *Server {
	s := &Server{
		store: store,
		orch:  orch,
		yt:    yt,
		hb:    hb,
	}
	s.mcp = mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	s.registerTools()
	return s
}

// Run serves tool calls on stdio until the context is cancelled or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	log.Printf("[server] serving MCP on stdio")
	if err := s.mcp.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp serve: %w", err)
	}
	return nil
}

// MCP exposes the underlying server for in-memory transports in tests.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

func textResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
	}
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
