package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"voiptest/internal/config"
	"voiptest/pkg/logging"
)

func TestSetVersion(t *testing.T) {
	originalVersion := rootCmd.Version
	defer SetVersion(originalVersion)

	testVersion := "1.2.3-test"
	SetVersion(testVersion)

	if rootCmd.Version != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, rootCmd.Version)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "voiptest" {
		t.Errorf("Expected Use to be 'voiptest', got %s", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}

	if rootCmd.Long == "" {
		t.Error("Expected Long description to be set")
	}

	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}
	testCmd.SetVersionTemplate(`{{printf "voiptest version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})
	if err := testCmd.Execute(); err != nil {
		t.Fatalf("Error executing version command: %v", err)
	}

	expected := "voiptest version 1.0.0\n"
	if buf.String() != expected {
		t.Errorf("Expected version output %q, got %q", expected, buf.String())
	}
}

func TestSubcommands(t *testing.T) {
	expectedCommands := []string{"run", "validate", "list", "version", "mcp-server", "self-update"}
	foundCommands := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		foundCommands[cmd.Name()] = true
	}

	for _, expected := range expectedCommands {
		if !foundCommands[expected] {
			t.Errorf("Expected subcommand %s not found", expected)
		}
	}
}

func TestPersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "env-file", "verbose", "debug", "quiet"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent flag --%s", name)
		}
	}
}

func TestLogLevel(t *testing.T) {
	defer func() { rootDebug, rootVerbose, rootQuiet = false, false, false }()

	tests := []struct {
		name       string
		debug      bool
		verbose    bool
		quiet      bool
		configured string
		want       logging.LogLevel
		wantErr    bool
	}{
		{name: "default", want: logging.LevelWarn},
		{name: "from config", configured: "info", want: logging.LevelInfo},
		{name: "debug flag wins", debug: true, configured: "error", want: logging.LevelDebug},
		{name: "verbose flag", verbose: true, want: logging.LevelInfo},
		{name: "quiet flag", quiet: true, want: logging.LevelError},
		{name: "bad config level", configured: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootDebug, rootVerbose, rootQuiet = tt.debug, tt.verbose, tt.quiet
			got, err := logLevel(tt.configured)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected level %v, got %v", tt.want, got)
			}
		})
	}
}

func TestInitHarness(t *testing.T) {
	originalConfig := harnessConfig
	defer func() {
		harnessConfig = originalConfig
		rootConfigPath = ""
		rootEnvFiles = nil
		logging.InitForCLI(logging.LevelError, io.Discard)
	}()

	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("VOIPTEST_INIT_HARNESS=from-dotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("VOIPTEST_INIT_HARNESS") })

	configFile := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configFile, []byte("sipp:\n  binary: /usr/local/bin/sipp\n  localPort: 5090\n"), 0644); err != nil {
		t.Fatal(err)
	}

	rootEnvFiles = []string{envFile}
	rootConfigPath = configFile

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetErr(&buf)
	if err := initHarness(cmd, nil); err != nil {
		t.Fatalf("initHarness failed: %v", err)
	}

	if got := os.Getenv("VOIPTEST_INIT_HARNESS"); got != "from-dotenv" {
		t.Errorf("Expected dotenv variable to be loaded, got %q", got)
	}
	if harnessConfig.SIPp.Binary != "/usr/local/bin/sipp" {
		t.Errorf("Expected binary from config file, got %q", harnessConfig.SIPp.Binary)
	}
	if harnessConfig.SIPp.LocalPort != 5090 {
		t.Errorf("Expected local port 5090, got %d", harnessConfig.SIPp.LocalPort)
	}
	if harnessConfig.SIPp.TimeoutBuffer != config.DefaultTimeoutBuffer {
		t.Errorf("Expected default timeout buffer to survive merge, got %v", harnessConfig.SIPp.TimeoutBuffer)
	}
}

func TestInitHarness_MissingEnvFile(t *testing.T) {
	defer func() { rootEnvFiles = nil }()
	rootEnvFiles = []string{filepath.Join(t.TempDir(), "missing.env")}

	err := initHarness(&cobra.Command{}, nil)
	if err == nil {
		t.Fatal("Expected error for missing env file")
	}
	if !strings.Contains(err.Error(), "failed to load env file") {
		t.Errorf("Unexpected error: %v", err)
	}
}
