package sipp

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"

	"voiptest/internal/scenario"
)

// Injection file columns, referenced as [field0]..[field3] by call flows.
const (
	fieldDestination = iota
	fieldCaller
	fieldDomain
	fieldPassword
)

// injectionRecord returns the single data row of the injection file.
func injectionRecord(sc scenario.Scenario) []string {
	record := make([]string, 4)
	record[fieldDestination] = sc.Destination()
	record[fieldCaller] = sc.CallerUser()
	record[fieldDomain] = sc.Domain()
	if acc, ok := sc.Caller(); ok {
		record[fieldPassword] = acc.Password
	}
	return record
}

// writeInjectionFile writes the SIPp CSV injection file: a SEQUENTIAL
// ordering line followed by one ';'-separated row and no header.
func writeInjectionFile(path string, sc scenario.Scenario) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	if _, err := buf.WriteString("SEQUENTIAL\n"); err != nil {
		return err
	}
	w := csv.NewWriter(buf)
	w.Comma = ';'
	if err := w.Write(injectionRecord(sc)); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	return f.Close()
}
