package budget

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
)

// Sentinel errors returned when loading budget configuration.
var (
	ErrReadConfig    = errors.New("read budget config")
	ErrInvalidConfig = errors.New("invalid budget config")
)

// File is the YAML budget configuration file.
//
//	disabled:
//	  - Audio
//	  - Physics
type File struct {
	Disabled []string `json:"disabled,omitempty" jsonschema:"names of budgets to disable"`
}

var fileSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	schema, err := jsonschema.For[File](nil)
	if err != nil {
		return nil, err
	}

	schema.AdditionalProperties = &jsonschema.Schema{Not: &jsonschema.Schema{}}

	return schema.Resolve(nil)
})

// LoadFile reads and validates a budget configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Config path from CLI flag is expected.
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
	}

	return ParseFile(data)
}

// ParseFile parses and validates YAML budget configuration. Empty input
// yields an empty [File].
func ParseFile(data []byte) (*File, error) {
	f := &File{}
	if len(bytes.TrimSpace(data)) == 0 {
		return f, nil
	}

	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	var instance any

	err = json.Unmarshal(jsonData, &instance)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	resolved, err := fileSchema()
	if err != nil {
		return nil, fmt.Errorf("%w: schema: %w", ErrInvalidConfig, err)
	}

	err = resolved.Validate(instance)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	err = json.Unmarshal(jsonData, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return f, nil
}
