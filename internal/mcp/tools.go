package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/gridtile/internal/ipc"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, ipc.StatusData{}, fmt.Errorf("get status: %w", err)
	}
	return nil, *status, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ipc.MonitorsData, error) {
	monitors, err := s.client.GetMonitors()
	if err != nil {
		return nil, ipc.MonitorsData{}, fmt.Errorf("list monitors: %w", err)
	}
	return nil, *monitors, nil
}

func (s *Server) handleTileWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args TileWindowInput) (*mcpsdk.CallToolResult, PlacementOutput, error) {
	if args.Monitor < 0 {
		return nil, PlacementOutput{}, fmt.Errorf("monitor must be >= 0, got %d", args.Monitor)
	}
	placed, err := s.client.Tile(ipc.TilePayload{
		Monitor: args.Monitor,
		From:    ipc.Cell{X: args.FromX, Y: args.FromY},
		To:      ipc.Cell{X: args.ToX, Y: args.ToY},
	})
	if err != nil {
		return nil, PlacementOutput{}, fmt.Errorf("tile window: %w", err)
	}
	out := placementOutput(placed)
	s.logger.Debug("mcp tile_window", "window", out.Window, "corrected", out.Corrected)
	return nil, out, nil
}

func (s *Server) handleNudgeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args NudgeWindowInput) (*mcpsdk.CallToolResult, PlacementOutput, error) {
	mode := args.Mode
	if mode == "" {
		mode = "move"
	}
	if args.Direction == "" {
		return nil, PlacementOutput{}, fmt.Errorf("direction is required")
	}
	placed, err := s.client.Nudge(ipc.NudgePayload{Mode: mode, Direction: args.Direction})
	if err != nil {
		return nil, PlacementOutput{}, fmt.Errorf("nudge window: %w", err)
	}
	return nil, placementOutput(placed), nil
}

func (s *Server) handleSwitchDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, args SwitchDesktopInput) (*mcpsdk.CallToolResult, SwitchDesktopOutput, error) {
	if args.Desktop < 0 {
		return nil, SwitchDesktopOutput{}, fmt.Errorf("desktop must be >= 0, got %d", args.Desktop)
	}
	mode := args.Mode
	if mode == "" {
		mode = "switch"
	}
	if err := s.client.Desktop(ipc.DesktopPayload{Desktop: args.Desktop, Mode: mode}); err != nil {
		return nil, SwitchDesktopOutput{}, fmt.Errorf("switch desktop: %w", err)
	}
	return nil, SwitchDesktopOutput{Desktop: args.Desktop, Mode: mode}, nil
}

func (s *Server) handleReloadConfig(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReloadConfigInput) (*mcpsdk.CallToolResult, any, error) {
	if err := s.client.Reload(); err != nil {
		return nil, nil, fmt.Errorf("reload config: %w", err)
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: "Configuration reloaded"},
		},
	}, nil, nil
}
