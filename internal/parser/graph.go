package parser

import (
	"fmt"

	"github.com/relgraph/core/internal/catalog"
	"github.com/relgraph/core/internal/grapher"
	"github.com/relgraph/core/internal/models"
)

// BuildGraph indexes schema, builds its dependency graph and renders it.
// Skipped through relationships are reported in the result's warnings.
func BuildGraph(schema *models.Schema, opts ...grapher.Option) (*models.Graph, error) {
	cat, err := catalog.New(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	var warnings []models.Warning
	opts = append(opts[:len(opts):len(opts)], grapher.WithWarningHandler(func(w models.Warning) {
		warnings = append(warnings, w)
	}))

	graph, err := grapher.New(opts...).Build(cat)
	if err != nil {
		return nil, err
	}

	out := graph.Model()
	out.Warnings = warnings
	return out, nil
}
