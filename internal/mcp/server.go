// Package mcp exposes the running daemon to MCP clients over stdio.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/gridtile/internal/ipc"
)

const (
	ServerName    = "gridtile"
	ServerVersion = "0.1.0"
)

// DaemonClient is the subset of the IPC client the tools need.
type DaemonClient interface {
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	Tile(ipc.TilePayload) (*ipc.PlacementData, error)
	Nudge(ipc.NudgePayload) (*ipc.PlacementData, error)
	Desktop(ipc.DesktopPayload) error
	Reload() error
}

// Server is the MCP server. Every tool forwards to the daemon over IPC, so
// the daemon must be running for calls to succeed.
type Server struct {
	mcpServer *mcpsdk.Server
	client    DaemonClient
	logger    *slog.Logger
}

// NewServer creates an MCP server that forwards tool calls to client.
func NewServer(client DaemonClient, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		client: client,
		logger: logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves on the stdio transport, blocking until ctx is done or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report whether a tiling session is active, the pending first corner, the current monitor and the daemon's counters.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List tracked monitors with their workarea, grid size and slot size. Monitor 0 is the primary monitor.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tile_window",
		Description: "Place the active window over the rectangle spanned by two grid cells on a monitor. Corner order does not matter.",
	}, s.handleTileWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "nudge_window",
		Description: "Step the active window by one grid slot. mode move shifts it, grow-tl moves its top-left edge and grow-br moves its bottom-right edge.",
	}, s.handleNudgeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "switch_desktop",
		Description: "Switch to a virtual desktop, or move the active window there with mode follow or send.",
	}, s.handleSwitchDesktop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_config",
		Description: "Reload the daemon configuration from disk. The previous configuration stays active if the new one is invalid.",
	}, s.handleReloadConfig)
}
