// Package commands wires the CLI: index builds the snapshot, ask answers a
// question, mcp serves the tool surface over stdio.
package commands

import (
	"log"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"codequery/internal/config"
	"codequery/internal/llm"
)

var (
	configPath string
	dataDir    string
	quiet      bool
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codequery",
		Short: "Index a codebase and answer questions about it",
		Long: `codequery builds a content-addressed index of a source tree and
answers natural-language questions about it using embedding search,
keyword search, and LLM reranking.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default codequery.yaml if present)")
	cmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (overrides config)")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")

	cmd.AddCommand(NewIndexCmd())
	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig loads configuration, applying the .env file and the --data
// override. stdout stays clean for command output; notes go to stderr.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

// newLLMClient builds the OpenAI collaborator from config
func newLLMClient(cfg *config.Config) (*llm.Client, error) {
	return llm.NewClient(llm.ClientConfig{
		APIKey:              cfg.OpenAIKey,
		ChatModel:           cfg.ChatModel,
		EmbeddingModel:      openai.EmbeddingModel(cfg.EmbeddingModel),
		MaxRetries:          cfg.MaxRetries,
		RetryDelay:          cfg.RetryDelay,
		RequestTokenCeiling: cfg.RequestTokenCeiling,
	})
}
