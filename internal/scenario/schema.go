package scenario

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaResource = "scenario.schema.json"

var (
	documentSchemaOnce sync.Once
	documentSchema     *jsonschema.Schema
	documentSchemaErr  error
)

// SchemaJSON returns the JSON schema scenario documents are checked against.
func SchemaJSON() []byte {
	return append([]byte(nil), schemaJSON...)
}

func loadDocumentSchema() (*jsonschema.Schema, error) {
	documentSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaResource, bytes.NewReader(schemaJSON)); err != nil {
			documentSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		documentSchema, documentSchemaErr = compiler.Compile(schemaResource)
		if documentSchemaErr != nil {
			documentSchemaErr = fmt.Errorf("compile schema: %w", documentSchemaErr)
		}
	})
	return documentSchema, documentSchemaErr
}

// checkSchema validates a decoded YAML tree against the document schema and
// returns one human readable problem per violated constraint.
func checkSchema(doc any) ([]string, error) {
	schema, err := loadDocumentSchema()
	if err != nil {
		return nil, err
	}

	payload, err := toJSONValue(doc)
	if err != nil {
		return nil, err
	}

	err = schema.Validate(payload)
	if err == nil {
		return nil, nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("schema validate: %w", err)
	}

	var problems []string
	collectSchemaProblems(verr, &problems)
	sort.Strings(problems)
	return dedupe(problems), nil
}

func collectSchemaProblems(verr *jsonschema.ValidationError, out *[]string) {
	if len(verr.Causes) == 0 {
		*out = append(*out, fmt.Sprintf("%s: %s", instancePath(verr.InstanceLocation), verr.Message))
		return
	}
	for _, cause := range verr.Causes {
		collectSchemaProblems(cause, out)
	}
}

// instancePath turns a JSON pointer such as "/target/port" into "target.port".
func instancePath(location string) string {
	location = strings.TrimPrefix(location, "#")
	location = strings.Trim(location, "/")
	if location == "" {
		return "document"
	}
	return strings.ReplaceAll(location, "/", ".")
}

// toJSONValue round-trips a YAML tree through encoding/json so the validator
// sees the same value types it would for a JSON document.
func toJSONValue(doc any) (any, error) {
	raw, err := json.Marshal(normalizeYAML(doc))
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return payload, nil
}

func normalizeYAML(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for key, val := range tv {
			out[key] = normalizeYAML(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(tv))
		for key, val := range tv {
			out[fmt.Sprint(key)] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, val := range tv {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i > 0 && s == sorted[i-1] {
			continue
		}
		out = append(out, s)
	}
	return out
}
