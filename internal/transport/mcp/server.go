package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/fleetmesh/dispatch/internal/observability"
	dispatchsvc "github.com/fleetmesh/dispatch/internal/service/dispatch"
	selectionlogsvc "github.com/fleetmesh/dispatch/internal/service/selectionlog"
)

// Server exposes the dispatch core as an MCP tool surface for operators and
// automation: submit and abort tasks, inspect selection trails, read
// counters. Tools are registered in tools.go; this file is lifecycle only.
type Server struct {
	httpSrv *mcpserver.StreamableHTTPServer
}

func New(svc *dispatchsvc.Service, logs *selectionlogsvc.Recorder, registry *observability.Registry) *Server {
	mcpSrv := mcpserver.NewMCPServer(
		"fleetmesh-dispatch",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	RegisterTools(mcpSrv, svc, logs, registry)

	return &Server{
		httpSrv: mcpserver.NewStreamableHTTPServer(mcpSrv),
	}
}

// Handler returns an http.Handler that serves the MCP endpoint.
func (s *Server) Handler() http.Handler {
	return s.httpSrv
}
