package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const basicDocument = `
version: 1
name: "Basic call"
target:
  host: "pbx.example.com"
  port: 5080
  transport: "tcp"
  domain: "example.com"
accounts:
  caller:
    username: "1001"
    password: "secret"
  callee:
    username: "1002"
call:
  from: "caller"
  to: "callee"
  timeout_s: 20
  max_duration_s: 40
expect:
  outcome: "answered"
  final_sip_code: 200
`

const minimalDocument = `
name: "Minimal"
target:
  host: "10.0.0.1"
accounts:
  caller:
    username: "1001"
call:
  from: "caller"
  to: "2000"
expect:
  outcome: "failed"
`

// mockEnv replaces the environment lookup for the duration of the test.
func mockEnv(t *testing.T, env map[string]string) {
	t.Helper()
	original := lookupEnv
	t.Cleanup(func() { lookupEnv = original })
	lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func requireProblems(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %T: %v", err, err)
	require.NotEmpty(t, verr.Problems)
	return verr.Problems
}

func TestParse_FullDocument(t *testing.T) {
	s, err := Parse([]byte(basicDocument), "basic.yaml")
	require.NoError(t, err)

	assert.Equal(t, 1, s.Version)
	assert.Equal(t, "Basic call", s.Name)
	assert.Equal(t, Target{Host: "pbx.example.com", Port: 5080, Transport: "tcp", Domain: "example.com"}, s.Target)
	assert.Equal(t, "secret", s.Accounts["caller"].Password)
	assert.Equal(t, 20, s.Call.TimeoutS)
	assert.Equal(t, 40, s.Call.MaxDurationS)
	assert.Equal(t, OutcomeAnswered, s.Expect.Outcome)
	require.NotNil(t, s.Expect.FinalSIPCode)
	assert.Equal(t, 200, *s.Expect.FinalSIPCode)
	assert.Nil(t, s.Matrix)
}

func TestParse_AppliesDefaults(t *testing.T) {
	s, err := Parse([]byte(minimalDocument), "")
	require.NoError(t, err)

	assert.Equal(t, SchemaVersion, s.Version)
	assert.Equal(t, DefaultPort, s.Target.Port)
	assert.Equal(t, DefaultTransport, s.Target.Transport)
	assert.Equal(t, DefaultTimeoutS, s.Call.TimeoutS)
	assert.Equal(t, DefaultMaxDurationS, s.Call.MaxDurationS)
	assert.Nil(t, s.Expect.FinalSIPCode)
}

func TestParse_NumericIdentifiers(t *testing.T) {
	doc := strings.Replace(minimalDocument, `username: "1001"`, `username: 1001`, 1)
	doc = strings.Replace(doc, `to: "2000"`, `to: 2000`, 1)

	s, err := Parse([]byte(doc), "")
	require.NoError(t, err)
	assert.Equal(t, "1001", s.Accounts["caller"].Username)
	assert.Equal(t, "2000", s.Call.To)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		document string
		contains string
	}{
		{
			name:     "missing host",
			document: strings.Replace(basicDocument, `  host: "pbx.example.com"`+"\n", "", 1),
			contains: "host",
		},
		{
			name:     "bad transport",
			document: strings.Replace(basicDocument, `transport: "tcp"`, `transport: "sctp"`, 1),
			contains: "target.transport",
		},
		{
			name:     "port out of range",
			document: strings.Replace(basicDocument, `port: 5080`, `port: 70000`, 1),
			contains: "target.port",
		},
		{
			name:     "zero timeout",
			document: strings.Replace(basicDocument, `timeout_s: 20`, `timeout_s: 0`, 1),
			contains: "call.timeout_s",
		},
		{
			name:     "unknown outcome",
			document: strings.Replace(basicDocument, `outcome: "answered"`, `outcome: "ringing"`, 1),
			contains: "expect.outcome",
		},
		{
			name:     "final code below 100",
			document: strings.Replace(basicDocument, `final_sip_code: 200`, `final_sip_code: 99`, 1),
			contains: "expect.final_sip_code",
		},
		{
			name:     "unsupported version",
			document: strings.Replace(basicDocument, `version: 1`, `version: 2`, 1),
			contains: "version",
		},
		{
			name:     "unknown key",
			document: basicDocument + "retries: 3\n",
			contains: "retries",
		},
		{
			name:     "from is not an account",
			document: strings.Replace(basicDocument, `from: "caller"`, `from: "alice"`, 1),
			contains: `call.from: "alice" is not a key of accounts`,
		},
		{
			name:     "duplicate matrix entries",
			document: basicDocument + "matrix:\n  to: [\"1002\", \"1002\"]\n",
			contains: "matrix.to",
		},
		{
			name:     "empty matrix",
			document: basicDocument + "matrix:\n  to: []\n",
			contains: "matrix.to",
		},
		{
			name:     "broken yaml",
			document: "name: [unclosed",
			contains: "invalid YAML",
		},
		{
			name:     "empty document",
			document: "",
			contains: "document is empty",
		},
		{
			name:     "not a mapping",
			document: "- a\n- b\n",
			contains: "document must be a mapping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.document), "case.yaml")
			problems := requireProblems(t, err)
			assert.Contains(t, strings.Join(problems, "\n"), tt.contains)
			assert.Contains(t, err.Error(), "case.yaml")
		})
	}
}

func TestParse_ReportsAllProblems(t *testing.T) {
	doc := strings.Replace(basicDocument, `transport: "tcp"`, `transport: "sctp"`, 1)
	doc = strings.Replace(doc, `port: 5080`, `port: 0`, 1)

	_, err := Parse([]byte(doc), "")
	problems := requireProblems(t, err)
	assert.GreaterOrEqual(t, len(problems), 2)
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	mockEnv(t, map[string]string{
		"PBX_HOST":    "pbx.ci.local",
		"PBX_PORT":    "5090",
		"CALLER_PASS": "0123",
	})

	doc := strings.Replace(basicDocument, `host: "pbx.example.com"`, `host: "${PBX_HOST}"`, 1)
	doc = strings.Replace(doc, `port: 5080`, `port: ${PBX_PORT}`, 1)
	doc = strings.Replace(doc, `password: "secret"`, `password: "${CALLER_PASS}"`, 1)
	doc = strings.Replace(doc, `domain: "example.com"`, `domain: "${PBX_DOMAIN:-fallback.example.com}"`, 1)

	s, err := Parse([]byte(doc), "")
	require.NoError(t, err)
	assert.Equal(t, "pbx.ci.local", s.Target.Host)
	assert.Equal(t, 5090, s.Target.Port)
	assert.Equal(t, "0123", s.Accounts["caller"].Password)
	assert.Equal(t, "fallback.example.com", s.Target.Domain)
}

func TestParse_UnsetEnvironmentVariable(t *testing.T) {
	mockEnv(t, map[string]string{})

	doc := strings.Replace(basicDocument, `password: "secret"`, `password: "${CALLER_PASS}"`, 1)
	_, err := Parse([]byte(doc), "")
	problems := requireProblems(t, err)
	assert.Contains(t, problems[0], "environment variable CALLER_PASS is not set")
}

func TestParse_EmptyDefault(t *testing.T) {
	mockEnv(t, map[string]string{})

	doc := strings.Replace(basicDocument, `password: "secret"`, `password: "${CALLER_PASS:-}"`, 1)
	s, err := Parse([]byte(doc), "")
	require.NoError(t, err)
	assert.Equal(t, "", s.Accounts["caller"].Password)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "basic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(basicDocument), 0644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Basic call", s.Name)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
}

func TestCheck(t *testing.T) {
	s, err := Parse([]byte(basicDocument), "")
	require.NoError(t, err)
	assert.NoError(t, Check(s))

	s.Call.From = "nobody"
	s.Target.Host = ""
	err = Check(s)
	problems := requireProblems(t, err)
	assert.Len(t, problems, 2)
	assert.Contains(t, problems, "target.host: is required")
}
