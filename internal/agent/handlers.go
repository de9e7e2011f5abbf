package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"voiptest/internal/runner"
	"voiptest/internal/scenario"
)

func discoverOptions(args map[string]interface{}) scenario.DiscoverOptions {
	var opts scenario.DiscoverOptions
	if recursive, ok := args["recursive"].(bool); ok {
		opts.Recursive = recursive
	}
	if exclude, ok := args["exclude"].(string); ok && exclude != "" {
		for _, pattern := range strings.Split(exclude, ",") {
			if pattern = strings.TrimSpace(pattern); pattern != "" {
				opts.Exclude = append(opts.Exclude, pattern)
			}
		}
	}
	return opts
}

func jsonResult(v interface{}, what string) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format %s: %v", what, err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleRun handles the voiptest_run MCP tool
func (s *MCPServer) handleRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path parameter is required"), nil
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	r := runner.New(s.executor, nil)
	r.Discover = discoverOptions(request.GetArguments())

	result, err := r.RunPath(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to run scenarios: %v", err)), nil
	}
	s.setLastResult(result)

	return jsonResult(result, "run results")
}

// handleValidate handles the voiptest_validate MCP tool
func (s *MCPServer) handleValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path parameter is required"), nil
	}

	report, err := scenario.ValidatePath(path, discoverOptions(request.GetArguments()))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Validation failed: %v", err)), nil
	}
	return jsonResult(report, "validation result")
}

// handleList handles the voiptest_list MCP tool
func (s *MCPServer) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path parameter is required"), nil
	}

	listed, err := scenario.ListPath(path, discoverOptions(request.GetArguments()))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list scenarios: %v", err)), nil
	}
	return jsonResult(listed, "scenario list")
}

// handleGetResults handles the voiptest_get_results MCP tool
func (s *MCPServer) handleGetResults(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	last := s.getLastResult()
	if last == nil {
		return mcp.NewToolResultText("No results available. Run voiptest_run first."), nil
	}
	return jsonResult(last, "run results")
}
