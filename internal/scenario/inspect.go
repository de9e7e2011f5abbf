package scenario

import (
	"errors"
	"fmt"
)

// FileValidation is the validation verdict for one document.
type FileValidation struct {
	Path     string   `json:"path"`
	Name     string   `json:"name,omitempty"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Runs     int      `json:"runs"`
}

// ValidationReport aggregates FileValidation over a path.
type ValidationReport struct {
	Path      string           `json:"path"`
	Valid     bool             `json:"valid"`
	FileCount int              `json:"file_count"`
	Files     []FileValidation `json:"files"`
}

// ListedCall is one call a document expands to.
type ListedCall struct {
	Name         string  `json:"name"`
	From         string  `json:"from"`
	To           string  `json:"to"`
	Target       string  `json:"target"`
	Outcome      Outcome `json:"expected_outcome"`
	FinalSIPCode *int    `json:"expected_final_sip_code,omitempty"`
}

// ListedFile groups the calls of one document.
type ListedFile struct {
	Path  string       `json:"path"`
	Error string       `json:"error,omitempty"`
	Calls []ListedCall `json:"calls,omitempty"`
}

// ValidatePath loads every document under path and reports problems and
// lint warnings per file. Discovery errors are returned.
func ValidatePath(path string, opts DiscoverOptions) (ValidationReport, error) {
	files, err := Discover(path, opts)
	if err != nil {
		return ValidationReport{}, err
	}

	report := ValidationReport{
		Path:      path,
		Valid:     true,
		FileCount: len(files),
		Files:     make([]FileValidation, 0, len(files)),
	}
	for _, file := range files {
		v := FileValidation{Path: file, Valid: true}
		sc, err := LoadFile(file)
		if err != nil {
			v.Valid = false
			var verr *ValidationError
			if errors.As(err, &verr) {
				v.Errors = verr.Problems
			} else {
				v.Errors = []string{err.Error()}
			}
			report.Valid = false
		} else {
			v.Name = sc.Name
			v.Warnings = Lint(sc)
			v.Runs = len(Expand(sc))
		}
		report.Files = append(report.Files, v)
	}
	return report, nil
}

// ListPath returns the calls each document under path expands to.
func ListPath(path string, opts DiscoverOptions) ([]ListedFile, error) {
	files, err := Discover(path, opts)
	if err != nil {
		return nil, err
	}

	listed := make([]ListedFile, 0, len(files))
	for _, file := range files {
		entry := ListedFile{Path: file}
		sc, err := LoadFile(file)
		if err != nil {
			entry.Error = err.Error()
			listed = append(listed, entry)
			continue
		}
		for _, run := range Expand(sc) {
			entry.Calls = append(entry.Calls, ListedCall{
				Name:         run.Name,
				From:         run.CallerUser(),
				To:           run.Destination(),
				Target:       fmt.Sprintf("%s:%d/%s", run.Target.Host, run.Target.Port, run.Target.Transport),
				Outcome:      run.Expect.Outcome,
				FinalSIPCode: run.Expect.FinalSIPCode,
			})
		}
		listed = append(listed, entry)
	}
	return listed, nil
}
