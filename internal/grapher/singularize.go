package grapher

// SingularizeJoins replaces every JoinVertex in g by its representative
// synthetic entity, rewiring the edges that touched it, then drops the join
// vertices. g is modified in place and returned.
func SingularizeJoins(g *Graph) (*Graph, error) {
	for _, e := range g.Edges() {
		if !e.Source.IsJoin() && !e.Target.IsJoin() {
			continue
		}
		if err := g.AddLabeledEdge(representative(e.Source), representative(e.Target), e.Label); err != nil {
			return nil, err
		}
	}

	for _, v := range g.Vertices() {
		if !v.IsJoin() {
			continue
		}
		if err := g.RemoveVertex(v); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func representative(v Vertex) Vertex {
	if v.IsJoin() {
		return EntityVertex(v.Join.Representative())
	}
	return v
}
