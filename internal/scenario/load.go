package scenario

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var lookupEnv = os.LookupEnv

var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// LoadFile reads and validates the scenario document at path.
func LoadFile(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes one scenario document. References of the form ${VAR} or
// ${VAR:-default} in string values are replaced from the environment before
// validation. Every problem found is returned in a single *ValidationError.
func Parse(data []byte, path string) (Scenario, error) {
	invalid := func(problems ...string) (Scenario, error) {
		return Scenario{}, &ValidationError{Path: path, Problems: problems}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return invalid(fmt.Sprintf("invalid YAML: %v", err))
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return invalid("document is empty")
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return invalid("document must be a mapping")
	}

	if problems := expandEnv(doc); len(problems) > 0 {
		return invalid(problems...)
	}

	var tree any
	if err := doc.Decode(&tree); err != nil {
		return invalid(fmt.Sprintf("invalid YAML: %v", err))
	}
	problems, err := checkSchema(tree)
	if err != nil {
		return Scenario{}, err
	}
	if len(problems) > 0 {
		return invalid(problems...)
	}

	var s Scenario
	if err := doc.Decode(&s); err != nil {
		return invalid(fmt.Sprintf("invalid document: %v", err))
	}
	s.applyDefaults()

	if problems := checkStruct(s); len(problems) > 0 {
		return invalid(problems...)
	}
	return s, nil
}

// expandEnv substitutes environment references in every scalar below n.
// Plain scalars lose their tag so "${PORT}" can still decode as an integer.
func expandEnv(n *yaml.Node) []string {
	var problems []string
	var walk func(*yaml.Node)
	walk = func(n *yaml.Node) {
		if n.Kind == yaml.ScalarNode {
			if !envRefPattern.MatchString(n.Value) {
				return
			}
			n.Value = envRefPattern.ReplaceAllStringFunc(n.Value, func(ref string) string {
				m := envRefPattern.FindStringSubmatch(ref)
				if v, ok := lookupEnv(m[1]); ok {
					return v
				}
				if strings.Contains(ref, ":-") {
					return m[2]
				}
				problems = append(problems, fmt.Sprintf("line %d: environment variable %s is not set", n.Line, m[1]))
				return ""
			})
			if n.Style == 0 {
				n.Tag = ""
			}
			return
		}
		for _, c := range n.Content {
			walk(c)
		}
	}
	walk(n)
	return problems
}
