package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/relgraph/core/internal/grapher"
	"github.com/relgraph/core/internal/parser"
)

// GraphHandler turns a posted schema document into its dependency graph.
type GraphHandler struct {
	logger        *slog.Logger
	collapseJoins bool
	maxBodyBytes  int64
}

func NewGraphHandler(logger *slog.Logger, collapseJoins bool, maxBodyBytes int64) *GraphHandler {
	return &GraphHandler{
		logger:        logger,
		collapseJoins: collapseJoins,
		maxBodyBytes:  maxBodyBytes,
	}
}

func (h *GraphHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format, err := requestFormat(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}

	collapse := h.collapseJoins
	if v := r.URL.Query().Get("collapse_joins"); v != "" {
		collapse, err = strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "Invalid collapse_joins value", http.StatusBadRequest)
			return
		}
	}

	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	schema, err := parser.ParseSchema(body, format)
	if err != nil {
		http.Error(w, "Invalid schema: "+err.Error(), http.StatusBadRequest)
		return
	}

	graph, err := parser.BuildGraph(schema,
		grapher.WithLogger(h.logger),
		grapher.WithCollapsedJoins(collapse),
	)
	if err != nil {
		if errors.Is(err, parser.ErrInvalidSchema) {
			http.Error(w, "Invalid schema: "+err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Warn("Graph build failed.", "error", err)
		http.Error(w, "Unresolvable schema: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	h.logger.Debug("Graph built.", "nodes", len(graph.Nodes), "edges", len(graph.Edges), "warnings", len(graph.Warnings))

	w.Header().Set("Content-Type", "application/json")

	encoder := json.NewEncoder(w)
	if r.URL.Query().Get("pretty") == "true" {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(graph); err != nil {
		h.logger.Error("Error encoding response.", "error", err)
	}
}

// requestFormat picks the schema format from ?format= or the Content-Type,
// defaulting to JSON.
func requestFormat(r *http.Request) (parser.Format, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		return parser.ParseFormat(f)
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return parser.FormatJSON, nil
	}

	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return parser.FormatYAML, nil
	case "application/hcl", "application/x-hcl", "text/x-hcl":
		return parser.FormatHCL, nil
	default:
		return parser.FormatJSON, nil
	}
}
