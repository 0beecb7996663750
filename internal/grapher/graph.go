package grapher

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dominikbraun/graph"
)

const labelAttribute = "label"

// Edge is a directed edge; Source depends on Target.
type Edge struct {
	Source Vertex
	Target Vertex
	Label  string
}

// Graph is a directed graph of entity and join vertices. Adding an edge adds
// its endpoints, and duplicate vertices or edges are no-ops.
type Graph struct {
	store graph.Graph[string, Vertex]
}

func NewGraph() *Graph {
	return &Graph{store: graph.New(vertexHash, graph.Directed())}
}

func (g *Graph) AddVertex(v Vertex) error {
	if err := g.store.AddVertex(v); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return fmt.Errorf("failed to add vertex %s: %w", v, err)
	}
	return nil
}

func (g *Graph) AddEdge(from, to Vertex) error {
	return g.AddLabeledEdge(from, to, "")
}

// AddLabeledEdge adds from -> to and records label on the edge. The label of
// an edge that already exists is left untouched.
func (g *Graph) AddLabeledEdge(from, to Vertex, label string) error {
	if err := g.AddVertex(from); err != nil {
		return err
	}
	if err := g.AddVertex(to); err != nil {
		return err
	}

	var opts []func(*graph.EdgeProperties)
	if label != "" {
		opts = append(opts, graph.EdgeAttribute(labelAttribute, label))
	}
	if err := g.store.AddEdge(vertexHash(from), vertexHash(to), opts...); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return fmt.Errorf("failed to add edge %s -> %s: %w", from, to, err)
	}
	return nil
}

func (g *Graph) HasVertex(v Vertex) bool {
	_, err := g.store.Vertex(vertexHash(v))
	return err == nil
}

func (g *Graph) HasEdge(from, to Vertex) bool {
	_, err := g.store.Edge(vertexHash(from), vertexHash(to))
	return err == nil
}

func (g *Graph) RemoveEdge(from, to Vertex) error {
	if err := g.store.RemoveEdge(vertexHash(from), vertexHash(to)); err != nil {
		return fmt.Errorf("failed to remove edge %s -> %s: %w", from, to, err)
	}
	return nil
}

// RemoveVertex removes v together with every edge touching it.
func (g *Graph) RemoveVertex(v Vertex) error {
	key := vertexHash(v)

	adjacency, err := g.store.AdjacencyMap()
	if err != nil {
		return err
	}
	predecessors, err := g.store.PredecessorMap()
	if err != nil {
		return err
	}
	if _, ok := adjacency[key]; !ok {
		return fmt.Errorf("failed to remove vertex %s: %w", v, graph.ErrVertexNotFound)
	}

	for target := range adjacency[key] {
		if err := g.store.RemoveEdge(key, target); err != nil && !errors.Is(err, graph.ErrEdgeNotFound) {
			return err
		}
	}
	for source := range predecessors[key] {
		if err := g.store.RemoveEdge(source, key); err != nil && !errors.Is(err, graph.ErrEdgeNotFound) {
			return err
		}
	}

	if err := g.store.RemoveVertex(key); err != nil {
		return fmt.Errorf("failed to remove vertex %s: %w", v, err)
	}
	return nil
}

// Vertices returns all vertices ordered by key.
func (g *Graph) Vertices() []Vertex {
	adjacency, err := g.store.AdjacencyMap()
	if err != nil {
		return nil
	}

	vertices := make([]Vertex, 0, len(adjacency))
	for key := range adjacency {
		v, err := g.store.Vertex(key)
		if err != nil {
			continue
		}
		vertices = append(vertices, v)
	}

	sort.Slice(vertices, func(i, j int) bool {
		return vertexLess(vertices[i], vertices[j])
	})
	return vertices
}

// Edges returns all edges ordered by source key, then target key.
func (g *Graph) Edges() []Edge {
	raw, err := g.store.Edges()
	if err != nil {
		return nil
	}

	edges := make([]Edge, 0, len(raw))
	for _, e := range raw {
		source, err := g.store.Vertex(e.Source)
		if err != nil {
			continue
		}
		target, err := g.store.Vertex(e.Target)
		if err != nil {
			continue
		}
		edges = append(edges, Edge{
			Source: source,
			Target: target,
			Label:  e.Properties.Attributes[labelAttribute],
		})
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return vertexLess(edges[i].Source, edges[j].Source)
		}
		return vertexLess(edges[i].Target, edges[j].Target)
	})
	return edges
}

// vertexLess orders by key, entities before joins on equal keys.
func vertexLess(a, b Vertex) bool {
	if a.Key() != b.Key() {
		return a.Key() < b.Key()
	}
	return !a.IsJoin() && b.IsJoin()
}

func (g *Graph) Order() int {
	n, err := g.store.Order()
	if err != nil {
		return 0
	}
	return n
}

func (g *Graph) Size() int {
	n, err := g.store.Size()
	if err != nil {
		return 0
	}
	return n
}

// Equal reports whether both graphs have the same vertex and edge sets.
// Edge labels are not compared.
func (g *Graph) Equal(other *Graph) bool {
	if g == nil || other == nil {
		return g == other
	}

	a, b := g.Vertices(), other.Vertices()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	ea, eb := g.Edges(), other.Edges()
	if len(ea) != len(eb) {
		return false
	}
	for i := range ea {
		if ea[i].Source != eb[i].Source || ea[i].Target != eb[i].Target {
			return false
		}
	}
	return true
}
