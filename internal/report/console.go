package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"voiptest/internal/runner"
)

// Palette shared by the console reporters. Colours degrade to plain text
// when the writer is not a terminal.
var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}
	colorError   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

type styles struct {
	title   lipgloss.Style
	passed  lipgloss.Style
	failed  lipgloss.Style
	warning lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true),
		passed:  r.NewStyle().Foreground(colorSuccess).Bold(true),
		failed:  r.NewStyle().Foreground(colorError).Bold(true),
		warning: r.NewStyle().Foreground(colorWarning),
		muted:   r.NewStyle().Foreground(colorMuted),
	}
}

func (s styles) status(status runner.Status) lipgloss.Style {
	if status == runner.StatusPassed {
		return s.passed
	}
	return s.failed
}

// consoleReporter prints human readable progress and a summary table.
type consoleReporter struct {
	out     io.Writer
	verbose bool
	debug   bool
	styles  styles
}

// NewConsoleReporter creates the default interactive reporter.
// verbose adds per-run details, debug adds captured engine output for runs
// that did not pass.
func NewConsoleReporter(out io.Writer, verbose, debug bool) runner.Reporter {
	return &consoleReporter{
		out:     out,
		verbose: verbose || debug,
		debug:   debug,
		styles:  newStyles(out),
	}
}

func (r *consoleReporter) ReportStart(path string, files []string) {
	fmt.Fprintf(r.out, "📞 %s\n", r.styles.title.Render("voiptest"))
	fmt.Fprintf(r.out, "📂 Path: %s (%d file(s))\n\n", path, len(files))
}

func (r *consoleReporter) ReportFileStart(path string) {
	if r.verbose {
		fmt.Fprintf(r.out, "📄 %s\n", filepath.Base(path))
	}
}

func (r *consoleReporter) ReportRunResult(result runner.RunResult) {
	symbol := statusSymbol(result.Status)
	status := r.styles.status(result.Status).Render(string(result.Status))
	fmt.Fprintf(r.out, "%s %s %s %s\n", symbol, status, result.Name,
		r.styles.muted.Render(fmt.Sprintf("(%v)", roundDuration(result.Duration))))

	switch {
	case result.Error != "":
		fmt.Fprintf(r.out, "   💥 Error: %s\n", result.Error)
	case result.Reason != "":
		fmt.Fprintf(r.out, "   ❌ %s\n", result.Reason)
	}

	if r.verbose {
		fmt.Fprintf(r.out, "   📋 Call: %s\n", describeCall(result.Scenario))
		fmt.Fprintf(r.out, "   🎯 Expected: %s\n", describeExpect(result.Scenario.Expect))
		if result.Actual != nil {
			fmt.Fprintf(r.out, "   📡 Actual: %s\n", describeActual(result.Actual))
			for _, note := range result.Actual.Notes {
				fmt.Fprintf(r.out, "   %s\n", r.styles.muted.Render("ℹ️  "+note))
			}
		}
	}

	if r.debug && !result.Passed && result.Logs != nil {
		if combined := result.Logs.Combined(); combined != "" {
			fmt.Fprintln(r.out, combined)
		}
	}
}

func (r *consoleReporter) ReportFileResult(result runner.FileResult) {
	for _, w := range result.Warnings {
		fmt.Fprintf(r.out, "⚠️  %s: %s\n", result.Name, r.styles.warning.Render(w))
	}
	if result.Error != "" {
		fmt.Fprintf(r.out, "💥 %s %s\n", r.styles.failed.Render("ERROR"), result.Error)
	}
	if r.verbose {
		fmt.Fprintln(r.out)
	}
}

func (r *consoleReporter) ReportBatchResult(result runner.BatchResult) {
	fmt.Fprintf(r.out, "\n🏁 %s\n", r.styles.title.Render("Summary"))
	writeSummaryTable(r.out, result)

	fmt.Fprintf(r.out, "⏱️  Duration: %v\n", roundDuration(result.Duration))
	fmt.Fprintf(r.out, "📊 Runs: %d total, %d passed, %d failed, %d error(s)\n",
		result.TotalRuns, result.PassedRuns, result.FailedRuns, result.ErrorRuns)
	if result.FileErrors > 0 {
		fmt.Fprintf(r.out, "💥 Files that could not be loaded: %d\n", result.FileErrors)
	}

	if result.Passed() {
		fmt.Fprintf(r.out, "\n🎉 %s\n", r.styles.passed.Render("All calls passed!"))
	} else {
		fmt.Fprintf(r.out, "\n💔 %s\n", r.styles.failed.Render("Some calls failed"))
	}
}

// writeSummaryTable prints one row per file.
func writeSummaryTable(w io.Writer, result runner.BatchResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Runs", "Passed", "Failed", "Errors", "Duration", "Result"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, f := range result.Files {
		passed, failed, errored := f.Counts()
		if f.Error != "" {
			errored++
		}
		outcome := string(runner.StatusPassed)
		switch {
		case f.Error != "" || errored > 0:
			outcome = string(runner.StatusError)
		case !f.Passed:
			outcome = string(runner.StatusFailed)
		}
		table.Append([]string{
			f.Name,
			strconv.Itoa(len(f.Runs)),
			strconv.Itoa(passed),
			strconv.Itoa(failed),
			strconv.Itoa(errored),
			roundDuration(f.Duration).String(),
			outcome,
		})
	}
	table.Render()
}

// quietReporter prints only what did not pass and a one-line verdict.
type quietReporter struct {
	out io.Writer
}

// NewQuietReporter creates a reporter for CI logs.
func NewQuietReporter(out io.Writer) runner.Reporter {
	return &quietReporter{out: out}
}

func (r *quietReporter) ReportStart(string, []string) {}

func (r *quietReporter) ReportFileStart(string) {}

func (r *quietReporter) ReportRunResult(result runner.RunResult) {
	if result.Passed {
		return
	}
	detail := result.Reason
	if result.Error != "" {
		detail = result.Error
	}
	fmt.Fprintf(r.out, "%s %s: %s\n", statusSymbol(result.Status), result.Name, detail)
}

func (r *quietReporter) ReportFileResult(result runner.FileResult) {
	if result.Error != "" {
		fmt.Fprintf(r.out, "💥 %s\n", result.Error)
	}
}

func (r *quietReporter) ReportBatchResult(result runner.BatchResult) {
	if result.Passed() {
		fmt.Fprintf(r.out, "✅ All %d calls passed\n", result.PassedRuns)
		return
	}
	fmt.Fprintf(r.out, "❌ %d/%d calls did not pass, %d file(s) failed\n",
		result.FailedRuns+result.ErrorRuns, result.TotalRuns, result.FailedFiles)
}

// jsonReporter stays silent until the batch completes and then prints the
// whole result as one JSON document.
type jsonReporter struct {
	out io.Writer
}

// NewJSONReporter creates a reporter for machine consumption.
func NewJSONReporter(out io.Writer) runner.Reporter {
	return &jsonReporter{out: out}
}

func (r *jsonReporter) ReportStart(string, []string)       {}
func (r *jsonReporter) ReportFileStart(string)             {}
func (r *jsonReporter) ReportRunResult(runner.RunResult)   {}
func (r *jsonReporter) ReportFileResult(runner.FileResult) {}

func (r *jsonReporter) ReportBatchResult(result runner.BatchResult) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(r.out, "{\"error\": %q}\n", "failed to marshal results: "+err.Error())
		return
	}
	fmt.Fprintln(r.out, string(data))
}

// Multi fans every event out to several reporters in order.
type Multi []runner.Reporter

func (m Multi) ReportStart(path string, files []string) {
	for _, r := range m {
		r.ReportStart(path, files)
	}
}

func (m Multi) ReportFileStart(path string) {
	for _, r := range m {
		r.ReportFileStart(path)
	}
}

func (m Multi) ReportRunResult(result runner.RunResult) {
	for _, r := range m {
		r.ReportRunResult(result)
	}
}

func (m Multi) ReportFileResult(result runner.FileResult) {
	for _, r := range m {
		r.ReportFileResult(result)
	}
}

func (m Multi) ReportBatchResult(result runner.BatchResult) {
	for _, r := range m {
		r.ReportBatchResult(result)
	}
}
