package commands

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codequery/internal/engine"
	"codequery/internal/mcp"
)

// NewMCPCmd creates the mcp command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the query tools over MCP stdio",
		Long: `Run as an MCP (Model Context Protocol) server on stdio, exposing
ask_codebase and get_status tools to LLM agents. stdout carries the
protocol; all logging goes to stderr.`,
		RunE: runMCP,
		Example: `  # Configure in an MCP client:
  # {
  #   "mcpServers": {
  #     "codequery": {
  #       "command": "codequery",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}
	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	// stdout is reserved for the protocol
	log.SetOutput(os.Stderr)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := newLLMClient(cfg)
	if err != nil {
		return err
	}

	opts := engine.DefaultOptions()
	opts.ContextBudget = cfg.ContextBudget
	opts.FeedbackDB = cfg.FeedbackDB

	eng, err := engine.Open(cfg.DataDir, client, client, opts)
	if err != nil {
		return fmt.Errorf("failed to open index: %w (run 'codequery index' first)", err)
	}

	srv := mcp.NewServer(eng, cfg.DataDir)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Serve(ctx)
	}()

	if !quiet {
		log.Printf("mcp: serving on stdio (data dir %s, %d chunks)", cfg.DataDir, eng.ChunkCount())
	}

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("mcp: shutdown signal received")
		}
		return nil
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
