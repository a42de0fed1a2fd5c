package spec

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/chartel-dev/chartel/internal/errors"
)

// Parse decodes a spec document from JSON or YAML, applies defaults, and
// validates. Unrecognized fields are ignored so future spec versions with
// additive fields still load.
func Parse(raw []byte) (*ChartSpec, error) {
	var s ChartSpec

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.NewValidationError(errors.Issue{Path: "$", Message: "empty spec document"})
	}

	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, errors.NewValidationError(errors.Issue{Path: "$", Message: fmt.Sprintf("invalid JSON: %v", err)})
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &s); err != nil {
			return nil, errors.NewValidationError(errors.Issue{Path: "$", Message: fmt.Sprintf("invalid YAML: %v", err)})
		}
	}

	ApplyDefaults(&s)
	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseFile loads and parses a spec document from disk. The format is
// chosen by extension first, content sniffing second.
func ParseFile(path string) (*ChartSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.ChartError{
			Type:    errors.ErrorTypeIO,
			Code:    "SPEC_READ",
			Message: fmt.Sprintf("reading spec file %s", path),
			Cause:   err,
		}
	}
	if strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".yaml") {
		var s ChartSpec
		if err := yaml.Unmarshal(raw, &s); err != nil {
			return nil, errors.NewValidationError(errors.Issue{Path: "$", Message: fmt.Sprintf("invalid YAML: %v", err)})
		}
		ApplyDefaults(&s)
		if err := Validate(&s); err != nil {
			return nil, err
		}
		return &s, nil
	}
	return Parse(raw)
}

// Marshal serializes a spec to compact JSON.
func Marshal(s *ChartSpec) ([]byte, error) {
	return json.Marshal(s)
}

// Pretty serializes a spec to indented JSON, the form used by the
// spec-only and bundle exports. Parsing the output back yields a spec
// deep-equal to the input.
func Pretty(s *ChartSpec) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
