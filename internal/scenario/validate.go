package scenario

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports every problem found in one scenario document.
type ValidationError struct {
	// Path is the file the document came from, empty for in-memory documents
	Path     string
	Problems []string
}

func (e *ValidationError) Error() string {
	where := e.Path
	if where == "" {
		where = "scenario"
	}
	if len(e.Problems) == 1 {
		return fmt.Sprintf("%s: %s", where, e.Problems[0])
	}
	return fmt.Sprintf("%s: %d problems: %s", where, len(e.Problems), strings.Join(e.Problems, "; "))
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// Validate is the shared validator instance. Field names in its errors use the
// YAML keys, not the Go field names.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(scenarioStructLevel, Scenario{})
	return v
}

func scenarioStructLevel(sl validator.StructLevel) {
	s := sl.Current().Interface().(Scenario)
	if s.Call.From == "" || len(s.Accounts) == 0 {
		return
	}
	if _, ok := s.Accounts[s.Call.From]; !ok {
		sl.ReportError(s.Call.From, "call.from", "From", "account", "")
	}
}

// Check validates an already decoded scenario. Documents loaded with Parse or
// LoadFile have been checked already; Check is for scenarios built in code.
func Check(s Scenario) error {
	problems := checkStruct(s)
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

func checkStruct(s Scenario) []string {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describeFieldError(fe))
	}
	sort.Strings(problems)
	return problems
}

func describeFieldError(fe validator.FieldError) string {
	path := fieldPath(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", path)
	case "account":
		return fmt.Sprintf("%s: %q is not a key of accounts", path, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s], got %v", path, fe.Param(), fe.Value())
	case "eq":
		return fmt.Sprintf("%s: must be %s, got %v", path, fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s: must be greater than %s", path, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s: must be at least %s", path, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s: must be at most %s", path, fe.Param())
	case "unique":
		return fmt.Sprintf("%s: must not contain duplicates", path)
	default:
		return fmt.Sprintf("%s: failed %q check", path, fe.Tag())
	}
}

// fieldPath drops the root struct name from a validator namespace,
// "Scenario.target.port" becomes "target.port".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
