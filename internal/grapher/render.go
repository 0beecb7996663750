package grapher

import "github.com/relgraph/core/internal/models"

// Model renders g into the document served by the API. Nodes and edges are
// ordered by key.
func (g *Graph) Model() *models.Graph {
	out := &models.Graph{
		Nodes: []models.Node{},
		Edges: []models.Edge{},
		Stats: &models.Stats{
			NodesByType: make(map[string]int),
			EdgesByType: make(map[string]int),
		},
	}

	for _, v := range g.Vertices() {
		node := models.Node{ID: v.Key(), Type: models.NodeTypeEntity}
		if v.IsJoin() {
			node.Type = models.NodeTypeJoin
			node.Members = v.Join.Members()
		}
		out.Nodes = append(out.Nodes, node)
		out.Stats.NodesByType[node.Type]++
	}

	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, models.Edge{
			Source: e.Source.Key(),
			Target: e.Target.Key(),
			Type:   e.Label,
		})
		if e.Label != "" {
			out.Stats.EdgesByType[e.Label]++
		}
	}

	out.Stats.TotalNodes = len(out.Nodes)
	out.Stats.TotalEdges = len(out.Edges)
	return out
}
