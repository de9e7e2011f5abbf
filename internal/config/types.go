package config

import (
	"time"
)

// HarnessConfig is the top-level configuration structure for voiptest.
type HarnessConfig struct {
	SIPp    SIPpConfig    `yaml:"sipp"`
	Report  ReportConfig  `yaml:"report"`
	Logging LoggingConfig `yaml:"logging"`
	Update  UpdateConfig  `yaml:"update"`
}

// SIPpConfig controls how the SIPp call executor is invoked.
type SIPpConfig struct {
	Binary        string        `yaml:"binary,omitempty"`        // Executable name or path, e.g. "sipp"
	LocalIP       string        `yaml:"localIP,omitempty"`       // Local bind address for the test client
	LocalPort     int           `yaml:"localPort,omitempty"`     // Local bind port, kept away from 5060
	ScenarioFile  string        `yaml:"scenarioFile,omitempty"`  // Call-flow template; empty means the built-in UAC flow
	TimeoutBuffer time.Duration `yaml:"timeoutBuffer,omitempty"` // Added to the call setup timeout to bound the process
	HoldDuration  time.Duration `yaml:"holdDuration,omitempty"`  // How long an answered call is held before BYE
	WorkDir       string        `yaml:"workDir,omitempty"`       // Parent of per-call work dirs; empty means os.TempDir()
	KeepArtifacts bool          `yaml:"keepArtifacts,omitempty"` // Keep per-call work dirs for debugging
}

// ReportConfig selects which reports are written and where.
type ReportConfig struct {
	OutputDir string `yaml:"outputDir,omitempty"`
	JUnit     bool   `yaml:"junit,omitempty"`
	JSON      bool   `yaml:"json,omitempty"`
	Metrics   bool   `yaml:"metrics,omitempty"`
}

// LoggingConfig holds the default log level ("debug", "info", "warn", "error").
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
}

// UpdateConfig configures self-update.
type UpdateConfig struct {
	Repository string `yaml:"repository,omitempty"` // GitHub "owner/name" slug publishing voiptest releases
}
