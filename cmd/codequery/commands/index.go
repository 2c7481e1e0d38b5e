package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"codequery/internal/indexer"
)

// NewIndexCmd creates the index command
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <source-root>",
		Short: "Build the index for a source tree",
		Long: `Walk the source tree, segment every eligible file into chunks,
embed them, and write the snapshot plus hierarchy exports into the
data directory. Rebuilding replaces the previous index wholesale.`,
		Args: cobra.ExactArgs(1),
		RunE: runIndex,
		Example: `  # Index the current directory into .codequery/
  codequery index .

  # Index another tree into an explicit data dir
  codequery index ~/src/service --data /tmp/service-index`,
	}
	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := newLLMClient(cfg)
	if err != nil {
		return err
	}

	ix := indexer.New(client, cfg.MaxChunkTokens, client.EmbeddingModel())
	stats, err := ix.Build(cmd.Context(), args[0], cfg.DataDir)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d files into %d chunks in %s\n",
			stats.FilesScanned, stats.ChunksCreated, stats.Duration.Round(10*time.Millisecond))
		fmt.Fprintf(cmd.OutOrStdout(), "Data written to %s\n", cfg.DataDir)
	}
	return nil
}
