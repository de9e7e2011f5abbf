package report

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"voiptest/internal/runner"
	"voiptest/pkg/logging"
)

// JUnitFileName is the name of the JUnit report inside the output directory.
const JUnitFileName = "voiptest-results.xml"

// junitClassname is used for test cases that stand in for a whole file.
const junitClassname = "voiptest"

type junitTestSuites struct {
	XMLName  xml.Name         `xml:"testsuites"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Errors   int              `xml:"errors,attr"`
	Time     string           `xml:"time,attr,omitempty"`
	Suites   []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Errors   int             `xml:"errors,attr"`
	Time     string          `xml:"time,attr,omitempty"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr,omitempty"`
	Failure   *junitMessage `xml:"failure,omitempty"`
	Error     *junitMessage `xml:"error,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
}

type junitMessage struct {
	Message string `xml:"message,attr"`
	Text    string `xml:",chardata"`
}

// buildJUnit maps a batch onto the JUnit document structure. Every file is a
// suite and every run a test case; a file that did not load becomes a suite
// with a single erroring test case named after the file.
func buildJUnit(batch runner.BatchResult) junitTestSuites {
	doc := junitTestSuites{
		Time:   seconds(batch.Duration),
		Suites: make([]junitTestSuite, 0, len(batch.Files)),
	}

	for _, file := range batch.Files {
		suite := junitTestSuite{
			Name: file.Name,
			Time: seconds(file.Duration),
		}

		if file.Error != "" {
			suite.Cases = append(suite.Cases, junitTestCase{
				Name:      file.Name,
				Classname: junitClassname,
				Error:     &junitMessage{Message: "Test file error", Text: file.Error},
				SystemOut: "File: " + file.Path,
			})
		}

		for _, run := range file.Runs {
			tc := junitTestCase{
				Name:      run.Name,
				Classname: file.Name,
				Time:      seconds(run.Duration),
				SystemOut: runSystemOut(run),
			}
			switch {
			case run.Passed:
			case run.Error != "":
				tc.Error = &junitMessage{Message: "Test execution error", Text: run.Error}
			default:
				tc.Failure = &junitMessage{
					Message: "Test assertion failed",
					Text: fmt.Sprintf("Expected: %s\nActual: %s",
						describeExpect(run.Scenario.Expect), describeActual(run.Actual)),
				}
				if run.Reason != "" {
					tc.Failure.Text += "\nReason: " + run.Reason
				}
			}
			suite.Cases = append(suite.Cases, tc)
		}

		for _, tc := range suite.Cases {
			suite.Tests++
			if tc.Failure != nil {
				suite.Failures++
			}
			if tc.Error != nil {
				suite.Errors++
			}
		}

		doc.Tests += suite.Tests
		doc.Failures += suite.Failures
		doc.Errors += suite.Errors
		doc.Suites = append(doc.Suites, suite)
	}
	return doc
}

func runSystemOut(run runner.RunResult) string {
	lines := []string{
		"Test: " + run.Name,
		"Call: " + describeCall(run.Scenario),
		"Expected: " + describeExpect(run.Scenario.Expect),
	}
	if run.Actual != nil {
		lines = append(lines, "Actual: "+describeActual(run.Actual))
		for _, note := range run.Actual.Notes {
			lines = append(lines, "Note: "+note)
		}
	}
	return strings.Join(lines, "\n")
}

// MarshalJUnit renders a batch as an indented JUnit XML document including
// the XML declaration.
func MarshalJUnit(batch runner.BatchResult) ([]byte, error) {
	body, err := xml.MarshalIndent(buildJUnit(batch), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JUnit report: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// WriteJUnit writes the JUnit report into dir and returns its path.
func WriteJUnit(dir string, batch runner.BatchResult) (string, error) {
	data, err := MarshalJUnit(batch)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(dir, JUnitFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JUnit report: %w", err)
	}
	logging.Debug(subsystem, "Wrote JUnit report to %s", path)
	return path, nil
}
