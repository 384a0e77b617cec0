package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/voipbin/voipbin-mcp/internal/app"
	"github.com/voipbin/voipbin-mcp/internal/mcp"
	"github.com/voipbin/voipbin-mcp/internal/server"
)

const shutdownTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := setupLogger(cfg)
	logger.Info().
		Int("port", cfg.Server.Port).
		Str("host", cfg.Server.Host).
		Str("api_url", cfg.API.URL).
		Str("config_files", fmt.Sprintf("%v", configFiles)).
		Msg("configuration loaded")

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to initialize application")
		return err
	}
	defer application.Close()

	srv := server.New(application)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Str("error", err.Error()).Msg("server stopped with error")
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}

func runStdio(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Console logs go to stderr; stdout carries the protocol.
	logger := setupLogger(cfg)

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	logger.Info().Int("tools", len(application.Registry.List())).Msg("serving MCP over stdio")

	if err := mcpserver.ServeStdio(application.MCPHandler.Server()); err != nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

// printTools writes the catalog as an aligned, coloured table.
func printTools(w io.Writer) error {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	gray := color.New(color.FgHiBlack)

	catalog := mcp.VoipbinCatalog()
	for _, ct := range catalog {
		if _, err := cyan.Fprintf(w, "%-22s", ct.Name); err != nil {
			return err
		}
		green.Fprintf(w, " %-6s", ct.Method)
		fmt.Fprintf(w, " %-28s", ct.Path)
		gray.Fprintf(w, " %s\n", ct.Description)
	}
	gray.Fprintf(w, "\n%d tools\n", len(catalog))
	return nil
}
