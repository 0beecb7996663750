// Package parser provides utilities for parsing and transforming input data.
// It decodes schema documents and turns them into rendered dependency graphs.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/relgraph/core/internal/models"
)

var ErrInvalidSchema = errors.New("invalid schema")

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "hcl":
		return FormatHCL, nil
	}
	return "", fmt.Errorf("unsupported schema format %q", s)
}

func ParseSchema(data []byte, format Format) (*models.Schema, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty schema data", ErrInvalidSchema)
	}

	var (
		schema models.Schema
		err    error
	)
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &schema)
	case FormatYAML:
		err = yaml.Unmarshal(data, &schema)
	case FormatHCL:
		schema, err = decodeHCL(data)
	default:
		return nil, fmt.Errorf("unsupported schema format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal %s schema: %w", ErrInvalidSchema, format, err)
	}

	if err := validate(&schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

func validate(schema *models.Schema) error {
	for i, entity := range schema.Entities {
		if entity.Name == "" {
			return fmt.Errorf("%w: entity %d: missing name field", ErrInvalidSchema, i)
		}
		for j, r := range entity.Relationships {
			if r.Kind == models.KindUnknown {
				return fmt.Errorf("%w: %s relationship %d: missing kind field", ErrInvalidSchema, entity.Name, j)
			}
			if r.Name == "" && r.Target == "" {
				return fmt.Errorf("%w: %s relationship %d: missing name or target field", ErrInvalidSchema, entity.Name, j)
			}
		}
	}
	return nil
}
