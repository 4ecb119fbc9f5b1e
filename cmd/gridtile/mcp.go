package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/gridtile/internal/ipc"
	"github.com/1broseidon/gridtile/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
	}
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tiling tools over stdio",
		Long: `Serve tiling tools to an MCP client over stdio.

Each tool call is forwarded to the running daemon. Stdout carries the protocol
so diagnostics go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
			return mcp.NewServer(ipc.NewClient(), logger).Run(ctx)
		},
	}
	mcpCmd.AddCommand(serveCmd)
	return mcpCmd
}
