package agent

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiptest/internal/engine"
	"voiptest/internal/runner"
	"voiptest/internal/scenario"
	"voiptest/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.InitForCLI(logging.LevelError, io.Discard)
	os.Exit(m.Run())
}

type answeringExecutor struct {
	calls int
}

func (e *answeringExecutor) Name() string { return "fake" }

func (e *answeringExecutor) Execute(context.Context, scenario.Scenario) (*engine.Result, error) {
	e.calls++
	code := 200
	return &engine.Result{FinalCode: &code, Reason: "success"}, nil
}

const answerDocument = `
version: 1
name: "Answer"
target:
  host: "pbx.example.com"
  transport: "tcp"
accounts:
  alice:
    username: "1001"
    password: "secret"
call:
  from: "alice"
  to: "sip:2000@pbx.example.com"
expect:
  outcome: "answered"
  answer_within_s: 5
matrix:
  to: ["2000", "2001"]
`

func scenarioDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer.yaml"), []byte(answerDocument), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yml"), []byte("version: 2\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "deep.yaml"), []byte(answerDocument), 0644))
	return dir
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestTools(t *testing.T) {
	s := NewMCPServer(&answeringExecutor{}, "")

	var names []string
	for _, tool := range s.Tools() {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description)
	}
	assert.Equal(t, []string{ToolRun, ToolValidate, ToolList, ToolGetResults}, names)
	assert.Equal(t, "dev", s.version)
}

func TestHandleRun(t *testing.T) {
	ex := &answeringExecutor{}
	s := NewMCPServer(ex, "1.0.0")
	dir := scenarioDir(t)

	result, err := s.handleRun(context.Background(), callRequest(ToolRun, map[string]interface{}{"path": dir}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var batch runner.BatchResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &batch))
	assert.Equal(t, "fake", batch.Engine)
	assert.Equal(t, 2, batch.TotalRuns)
	assert.Equal(t, 2, batch.PassedRuns)
	assert.Equal(t, 1, batch.FileErrors)
	assert.Equal(t, 2, ex.calls)
	assert.NotContains(t, resultText(t, result), "secret")

	last, err := s.handleGetResults(context.Background(), callRequest(ToolGetResults, nil))
	require.NoError(t, err)
	assert.Equal(t, resultText(t, result), resultText(t, last))
}

func TestHandleRun_RecursiveWithExclude(t *testing.T) {
	ex := &answeringExecutor{}
	s := NewMCPServer(ex, "1.0.0")
	dir := scenarioDir(t)

	result, err := s.handleRun(context.Background(), callRequest(ToolRun, map[string]interface{}{
		"path":      dir,
		"recursive": true,
		"exclude":   "broken.yml, ",
	}))
	require.NoError(t, err)

	var batch runner.BatchResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &batch))
	assert.Len(t, batch.Files, 2)
	assert.Equal(t, 4, batch.TotalRuns)
	assert.True(t, batch.Passed())
}

func TestHandleRun_Errors(t *testing.T) {
	s := NewMCPServer(&answeringExecutor{}, "1.0.0")

	result, err := s.handleRun(context.Background(), callRequest(ToolRun, map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "path parameter is required", resultText(t, result))

	result, err = s.handleRun(context.Background(), callRequest(ToolRun, map[string]interface{}{
		"path": filepath.Join(t.TempDir(), "missing"),
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Failed to run scenarios")
}

func TestHandleGetResults_Empty(t *testing.T) {
	s := NewMCPServer(&answeringExecutor{}, "1.0.0")

	result, err := s.handleGetResults(context.Background(), callRequest(ToolGetResults, nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "No results available")
}

func TestHandleValidate(t *testing.T) {
	s := NewMCPServer(&answeringExecutor{}, "1.0.0")
	dir := scenarioDir(t)

	result, err := s.handleValidate(context.Background(), callRequest(ToolValidate, map[string]interface{}{"path": dir}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var report scenario.ValidationReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))
	assert.False(t, report.Valid)
	assert.Equal(t, 2, report.FileCount)
	require.Len(t, report.Files, 2)

	answer := report.Files[0]
	assert.True(t, answer.Valid)
	assert.Equal(t, "Answer", answer.Name)
	assert.Equal(t, 2, answer.Runs)
	assert.Contains(t, answer.Warnings, "expect.answer_within_s is recorded but not enforced")

	broken := report.Files[1]
	assert.False(t, broken.Valid)
	assert.NotEmpty(t, broken.Errors)
}

func TestHandleList(t *testing.T) {
	s := NewMCPServer(&answeringExecutor{}, "1.0.0")
	dir := scenarioDir(t)

	result, err := s.handleList(context.Background(), callRequest(ToolList, map[string]interface{}{"path": dir}))
	require.NoError(t, err)

	var listed []scenario.ListedFile
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &listed))
	require.Len(t, listed, 2)

	require.Len(t, listed[0].Calls, 2)
	first := listed[0].Calls[0]
	assert.Equal(t, "Answer (to=2000)", first.Name)
	assert.Equal(t, "1001", first.From)
	assert.Equal(t, "2000", first.To)
	assert.Equal(t, "pbx.example.com:5060/tcp", first.Target)
	assert.Equal(t, scenario.OutcomeAnswered, first.Outcome)

	assert.NotEmpty(t, listed[1].Error)
	assert.Empty(t, listed[1].Calls)
}

func TestHandlerFor_Unknown(t *testing.T) {
	s := NewMCPServer(&answeringExecutor{}, "1.0.0")

	result, err := s.handlerFor("nope")(context.Background(), callRequest("nope", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "Tool not found: nope", resultText(t, result))
}
