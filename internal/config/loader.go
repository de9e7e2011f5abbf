package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/voiptest"
	projectConfigDir = ".voiptest"
	configFileName   = "config.yaml"
)

// LoadConfig loads the voiptest configuration by layering default, user, project
// and (optionally) an explicitly named file. explicitPath may be empty.
func LoadConfig(explicitPath string) (HarnessConfig, error) {
	// 1. Start with the default configuration
	config := GetDefaultConfig()

	// 2. User-specific configuration is optional
	userConfigPath, err := getUserConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
		userConfig, err := loadConfigFromFile(userConfigPath)
		if err != nil {
			return HarnessConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
		}
		config = mergeConfigs(config, userConfig)
	}

	// 3. Project-specific configuration is optional
	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
		projectConfig, err := loadConfigFromFile(projectConfigPath)
		if err != nil {
			return HarnessConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
		}
		config = mergeConfigs(config, projectConfig)
	}

	// 4. An explicit file must exist
	if explicitPath != "" {
		explicitConfig, err := loadConfigFromFile(explicitPath)
		if err != nil {
			return HarnessConfig{}, fmt.Errorf("error loading config from %s: %w", explicitPath, err)
		}
		config = mergeConfigs(config, explicitConfig)
	}

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads a HarnessConfig from a YAML file.
func loadConfigFromFile(filePath string) (HarnessConfig, error) {
	var config HarnessConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return HarnessConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return HarnessConfig{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config.
// Zero values in overlay never override base.
func mergeConfigs(base, overlay HarnessConfig) HarnessConfig {
	merged := base

	// SIPp settings
	if overlay.SIPp.Binary != "" {
		merged.SIPp.Binary = overlay.SIPp.Binary
	}
	if overlay.SIPp.LocalIP != "" {
		merged.SIPp.LocalIP = overlay.SIPp.LocalIP
	}
	if overlay.SIPp.LocalPort != 0 {
		merged.SIPp.LocalPort = overlay.SIPp.LocalPort
	}
	if overlay.SIPp.ScenarioFile != "" {
		merged.SIPp.ScenarioFile = overlay.SIPp.ScenarioFile
	}
	if overlay.SIPp.TimeoutBuffer != 0 {
		merged.SIPp.TimeoutBuffer = overlay.SIPp.TimeoutBuffer
	}
	if overlay.SIPp.HoldDuration != 0 {
		merged.SIPp.HoldDuration = overlay.SIPp.HoldDuration
	}
	if overlay.SIPp.WorkDir != "" {
		merged.SIPp.WorkDir = overlay.SIPp.WorkDir
	}
	merged.SIPp.KeepArtifacts = base.SIPp.KeepArtifacts || overlay.SIPp.KeepArtifacts

	// Report settings
	if overlay.Report.OutputDir != "" {
		merged.Report.OutputDir = overlay.Report.OutputDir
	}
	merged.Report.JUnit = base.Report.JUnit || overlay.Report.JUnit
	merged.Report.JSON = base.Report.JSON || overlay.Report.JSON
	merged.Report.Metrics = base.Report.Metrics || overlay.Report.Metrics

	if overlay.Logging.Level != "" {
		merged.Logging.Level = overlay.Logging.Level
	}
	if overlay.Update.Repository != "" {
		merged.Update.Repository = overlay.Update.Repository
	}

	return merged
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
