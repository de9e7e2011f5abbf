package agent

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"voiptest/internal/engine"
	"voiptest/internal/runner"
	"voiptest/pkg/logging"
)

const subsystem = "agent"

// Tool names exposed over MCP.
const (
	ToolRun        = "voiptest_run"
	ToolValidate   = "voiptest_validate"
	ToolList       = "voiptest_list"
	ToolGetResults = "voiptest_get_results"
)

// MCPServer exposes scenario runs, validation and listing as MCP tools so an
// assistant can drive the harness over stdio.
type MCPServer struct {
	executor engine.Executor
	version  string
	server   *server.MCPServer

	// runMu serializes batches; calls share one local SIP port
	runMu sync.Mutex

	mu         sync.RWMutex
	lastResult *runner.BatchResult
}

// NewMCPServer creates the server and registers every tool.
func NewMCPServer(executor engine.Executor, version string) *MCPServer {
	if version == "" {
		version = "dev"
	}
	s := &MCPServer{
		executor: executor,
		version:  version,
	}

	s.server = server.NewMCPServer(
		"voiptest",
		version,
		server.WithToolCapabilities(false),
	)
	for _, tool := range s.Tools() {
		s.server.AddTool(tool, s.handlerFor(tool.Name))
	}
	return s
}

// Tools returns the MCP tool definitions.
func (s *MCPServer) Tools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(ToolRun,
			mcp.WithDescription("Run SIP call scenarios from a YAML file or directory and return the results as JSON"),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("Scenario file or directory"),
			),
			mcp.WithBoolean("recursive",
				mcp.Description("Search subdirectories for scenario files"),
			),
			mcp.WithString("exclude",
				mcp.Description("Comma separated glob patterns, relative to path, of files to skip"),
			),
		),
		mcp.NewTool(ToolValidate,
			mcp.WithDescription("Validate scenario documents without placing calls"),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("Scenario file or directory"),
			),
			mcp.WithBoolean("recursive",
				mcp.Description("Search subdirectories for scenario files"),
			),
		),
		mcp.NewTool(ToolList,
			mcp.WithDescription("List the calls each scenario document expands to"),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("Scenario file or directory"),
			),
			mcp.WithBoolean("recursive",
				mcp.Description("Search subdirectories for scenario files"),
			),
		),
		mcp.NewTool(ToolGetResults,
			mcp.WithDescription("Return the results of the most recent voiptest_run"),
		),
	}
}

func (s *MCPServer) handlerFor(name string) server.ToolHandlerFunc {
	switch name {
	case ToolRun:
		return s.handleRun
	case ToolValidate:
		return s.handleValidate
	case ToolList:
		return s.handleList
	case ToolGetResults:
		return s.handleGetResults
	default:
		return func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultError(fmt.Sprintf("Tool not found: %s", name)), nil
		}
	}
}

// Serve speaks MCP over the given streams until ctx is done or in closes.
func (s *MCPServer) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	logging.Info(subsystem, "Starting voiptest MCP server %s (stdio transport)", s.version)
	stdio := server.NewStdioServer(s.server)
	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}

func (s *MCPServer) setLastResult(result *runner.BatchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastResult = result
}

func (s *MCPServer) getLastResult() *runner.BatchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastResult
}
