package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"codequery/internal/engine"
	"codequery/internal/indexer"
)

// askCodebaseTool returns the tool definition for ask_codebase
func askCodebaseTool() mcp.Tool {
	return mcp.Tool{
		Name:        "ask_codebase",
		Description: "Answer a natural-language question about the indexed codebase",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question to answer",
				},
				"evaluate": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, score the answer and side-log the evaluation",
					"default":     false,
				},
				"feedback": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, record the exchange and return a feedback id",
					"default":     false,
				},
			},
			Required: []string{"question"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report what is indexed: source root, chunk count, build time",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// handleAskCodebase handles the ask_codebase tool invocation
func (s *Server) handleAskCodebase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}

	question, ok := args["question"].(string)
	if !ok || question == "" {
		return mcp.NewToolResultError("question parameter is required and cannot be empty"), nil
	}

	opts := engine.AskOptions{
		Evaluate: getBoolDefault(args, "evaluate", false),
		Feedback: getBoolDefault(args, "feedback", false),
	}

	answer := s.engine.Ask(ctx, question, opts)

	if answer.FeedbackID == "" && answer.Evaluation == nil {
		return mcp.NewToolResultText(answer.Text), nil
	}

	response := map[string]interface{}{"answer": answer.Text}
	if answer.FeedbackID != "" {
		response["feedback_id"] = answer.FeedbackID
	}
	if answer.Evaluation != nil {
		response["evaluation"] = map[string]interface{}{
			"groundedness": answer.Evaluation.Groundedness,
			"completeness": answer.Evaluation.Completeness,
			"relevance":    answer.Evaluation.Relevance,
		}
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := map[string]interface{}{
		"chunks_indexed": s.engine.ChunkCount(),
		"data_dir":       s.dataDir,
	}

	if meta, err := indexer.ReadMetadata(s.dataDir); err == nil {
		response["source_root"] = meta.SourceRoot
		response["indexed_at"] = meta.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
		response["file_count"] = meta.FileCount
		response["model"] = meta.Model
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}
