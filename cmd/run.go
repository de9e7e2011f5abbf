package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"voiptest/internal/config"
	"voiptest/internal/engine"
	"voiptest/internal/engine/sipp"
	"voiptest/internal/report"
	"voiptest/internal/runner"
	"voiptest/internal/scenario"
)

// errCallsFailed makes the process exit 1 when any call did not pass.
var errCallsFailed = errors.New("one or more calls did not pass")

// newExecutor builds the call executor. Tests replace it with a stub.
var newExecutor = func(cfg config.SIPpConfig, version string) engine.Executor {
	opts := sipp.OptionsFromConfig(cfg)
	opts.Version = version
	return sipp.New(opts)
}

type runOptions struct {
	outputDir     string
	junit         bool
	jsonReport    bool
	metrics       bool
	recursive     bool
	exclude       []string
	format        string
	sippBinary    string
	localIP       string
	localPort     int
	keepArtifacts bool
	holdDuration  time.Duration
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <path>",
		Short: "Place the calls described by scenario files and check their outcome",
		Long: `Runs every scenario found at path, a single YAML file or a directory.

Directories are searched for *.yaml files first and *.yml files second, each
group in name order. Calls are placed one at a time. A file that fails to
load is reported and the remaining files still run.

The command exits 0 only if every call in every file passed.

Examples:
  voiptest run scenarios/
  voiptest run scenarios/ --recursive --exclude 'drafts/**'
  voiptest run smoke.yaml --junit --out reports/
  voiptest run scenarios/ --env-file .env --json --metrics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "out", "o", "", "Directory for report files (default: report.outputDir from config or current directory)")
	cmd.Flags().BoolVar(&opts.junit, "junit", false, "Write JUnit XML to voiptest-results.xml")
	cmd.Flags().BoolVar(&opts.jsonReport, "json", false, "Write the full result to voiptest-report-<timestamp>.json")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "Write Prometheus textfile metrics to voiptest.prom")
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "Search subdirectories for scenario files")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "Glob patterns relative to path to skip, e.g. 'drafts/**'")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Terminal output format (text, json)")
	cmd.Flags().StringVar(&opts.sippBinary, "sipp", "", "SIPp executable name or path")
	cmd.Flags().StringVar(&opts.localIP, "local-ip", "", "Local address SIPp binds to")
	cmd.Flags().IntVar(&opts.localPort, "local-port", 0, "Local port SIPp binds to")
	cmd.Flags().BoolVar(&opts.keepArtifacts, "keep-artifacts", false, "Keep per-call SIPp work directories for debugging")
	cmd.Flags().DurationVar(&opts.holdDuration, "hold", 0, "How long answered calls are held before BYE")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveDefault
	})
	return cmd
}

// applyRunFlags lays explicitly set flags over the loaded configuration.
func applyRunFlags(cmd *cobra.Command, opts *runOptions, cfg config.HarnessConfig) config.HarnessConfig {
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Report.OutputDir = opts.outputDir
	}
	if flags.Changed("junit") {
		cfg.Report.JUnit = opts.junit
	}
	if flags.Changed("json") {
		cfg.Report.JSON = opts.jsonReport
	}
	if flags.Changed("metrics") {
		cfg.Report.Metrics = opts.metrics
	}
	if flags.Changed("sipp") {
		cfg.SIPp.Binary = opts.sippBinary
	}
	if flags.Changed("local-ip") {
		cfg.SIPp.LocalIP = opts.localIP
	}
	if flags.Changed("local-port") {
		cfg.SIPp.LocalPort = opts.localPort
	}
	if flags.Changed("keep-artifacts") {
		cfg.SIPp.KeepArtifacts = opts.keepArtifacts
	}
	if flags.Changed("hold") {
		cfg.SIPp.HoldDuration = opts.holdDuration
	}
	return cfg
}

func newReporter(out io.Writer, format string) (runner.Reporter, error) {
	switch format {
	case "", "text":
		if rootQuiet {
			return report.NewQuietReporter(out), nil
		}
		return report.NewConsoleReporter(out, rootVerbose, rootDebug), nil
	case "json":
		return report.NewJSONReporter(out), nil
	default:
		return nil, fmt.Errorf("invalid --format %q, must be 'text' or 'json'", format)
	}
}

func runScenarios(cmd *cobra.Command, opts *runOptions, path string) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	// An interrupt aborts the call in flight; remaining calls are reported as not run
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := applyRunFlags(cmd, opts, harnessConfig)
	out := cmd.OutOrStdout()

	reporter, err := newReporter(out, opts.format)
	if err != nil {
		return err
	}

	r := runner.New(newExecutor(cfg.SIPp, rootCmd.Version), reporter)
	r.Discover = scenario.DiscoverOptions{Recursive: opts.recursive, Exclude: opts.exclude}

	result, err := r.RunPath(ctx, path)
	if err != nil {
		return err
	}

	paths, err := report.WriteAll(report.Options{
		OutputDir: cfg.Report.OutputDir,
		JUnit:     cfg.Report.JUnit,
		JSON:      cfg.Report.JSON,
		Metrics:   cfg.Report.Metrics,
	}, *result)
	if opts.format != "json" && !rootQuiet {
		for _, p := range paths {
			fmt.Fprintf(out, "📄 Report written to %s\n", p)
		}
	}
	if err != nil {
		return err
	}

	if !result.Passed() {
		return errCallsFailed
	}
	return nil
}
