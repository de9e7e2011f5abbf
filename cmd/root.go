package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"voiptest/internal/config"
	"voiptest/pkg/logging"
)

// Persistent flags shared by every subcommand.
var (
	rootConfigPath string
	rootEnvFiles   []string
	rootVerbose    bool
	rootDebug      bool
	rootQuiet      bool
)

// harnessConfig is loaded once in PersistentPreRunE and read by subcommands.
var harnessConfig = config.GetDefaultConfig()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "voiptest",
	Short: "Declarative SIP call regression tests driven by SIPp",
	Long: `voiptest places real SIP calls against a PBX or SIP endpoint and checks
that each call ends the way a YAML scenario says it should: answered,
busy, failed or not answered.

Scenarios are plain YAML documents. Each one names a target, a set of
accounts, the call to place and the expected outcome. A matrix can fan a
scenario out over several destinations. Results are printed to the
terminal and can be written as JUnit XML, JSON and Prometheus metrics for CI.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. invalid documents, failed calls)
	SilenceUsage:      true,
	PersistentPreRunE: initHarness,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "voiptest version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

// initHarness loads dotenv files, the layered configuration and sets up
// logging before any subcommand runs.
func initHarness(cmd *cobra.Command, args []string) error {
	if len(rootEnvFiles) > 0 {
		if err := godotenv.Load(rootEnvFiles...); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	cfg, err := config.LoadConfig(rootConfigPath)
	if err != nil {
		return err
	}
	harnessConfig = cfg

	level, err := logLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logging.InitForCLI(level, cmd.ErrOrStderr())
	logging.Debug("cmd", "Configuration loaded, SIPp binary %q, local %s:%d",
		cfg.SIPp.Binary, cfg.SIPp.LocalIP, cfg.SIPp.LocalPort)
	return nil
}

// logLevel maps the persistent flags onto a level; flags win over config.
func logLevel(configured string) (logging.LogLevel, error) {
	switch {
	case rootDebug:
		return logging.LevelDebug, nil
	case rootVerbose:
		return logging.LevelInfo, nil
	case rootQuiet:
		return logging.LevelError, nil
	}
	if configured == "" {
		return logging.LevelWarn, nil
	}
	level, err := logging.ParseLevel(configured)
	if err != nil {
		return logging.LevelWarn, fmt.Errorf("invalid logging.level in config: %w", err)
	}
	return level, nil
}

func init() {
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newMCPServerCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())

	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Config file layered over ~/.config/voiptest/config.yaml and .voiptest/config.yaml")
	rootCmd.PersistentFlags().StringSliceVar(&rootEnvFiles, "env-file", nil, "Dotenv file(s) loaded before scenarios are parsed")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Show per-call details and info logs")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging and show SIPp output for calls that did not pass")
	rootCmd.PersistentFlags().BoolVarP(&rootQuiet, "quiet", "q", false, "Only print calls that did not pass and the final verdict")
	rootCmd.MarkFlagsMutuallyExclusive("quiet", "verbose")
	rootCmd.MarkFlagsMutuallyExclusive("quiet", "debug")
}
