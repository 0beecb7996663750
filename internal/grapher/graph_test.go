package grapher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinVertex(t *testing.T) {
	t.Run("equality ignores member order", func(t *testing.T) {
		a := NewJoinVertex("Assembly::HABTM_Parts", "Part::HABTM_Assemblies")
		b := NewJoinVertex("Part::HABTM_Assemblies", "Assembly::HABTM_Parts")

		assert.Equal(t, a, b)
		assert.True(t, a == b)
		assert.Equal(t, JoinOf(a).Key(), JoinOf(b).Key())
	})

	t.Run("representative is the smallest member", func(t *testing.T) {
		j := NewJoinVertex("Part::HABTM_Assemblies", "Assembly::HABTM_Parts")

		assert.Equal(t, "Assembly::HABTM_Parts", string(j.Representative()))
		assert.Equal(t, "{Assembly::HABTM_Parts,Part::HABTM_Assemblies}", j.String())
	})

	t.Run("single member set", func(t *testing.T) {
		j := NewJoinVertex("User::HABTM_Users", "User::HABTM_Users")

		assert.Len(t, j.Members(), 1)
		assert.Equal(t, "{User::HABTM_Users}", j.String())
	})

	t.Run("entity vertex is not a join", func(t *testing.T) {
		v := EntityVertex("Book")

		assert.False(t, v.IsJoin())
		assert.Equal(t, "Book", v.Key())
	})
}

func TestGraph(t *testing.T) {
	book, author, publisher := EntityVertex("Book"), EntityVertex("Author"), EntityVertex("Publisher")

	t.Run("adding an edge adds its endpoints", func(t *testing.T) {
		g := NewGraph()

		require.NoError(t, g.AddEdge(book, author))

		assert.True(t, g.HasVertex(book))
		assert.True(t, g.HasVertex(author))
		assert.True(t, g.HasEdge(book, author))
		assert.False(t, g.HasEdge(author, book))
	})

	t.Run("duplicate vertices and edges are no-ops", func(t *testing.T) {
		g := NewGraph()

		require.NoError(t, g.AddVertex(book))
		require.NoError(t, g.AddVertex(book))
		require.NoError(t, g.AddLabeledEdge(book, author, "belongs_to"))
		require.NoError(t, g.AddLabeledEdge(book, author, "has_many"))

		assert.Equal(t, 2, g.Order())
		assert.Equal(t, 1, g.Size())
		assert.Equal(t, "belongs_to", g.Edges()[0].Label)
	})

	t.Run("remove edge", func(t *testing.T) {
		g := NewGraph()
		require.NoError(t, g.AddEdge(book, author))

		require.NoError(t, g.RemoveEdge(book, author))

		assert.False(t, g.HasEdge(book, author))
		assert.True(t, g.HasVertex(book))
		assert.Error(t, g.RemoveEdge(book, author))
	})

	t.Run("remove vertex drops incident edges", func(t *testing.T) {
		g := NewGraph()
		require.NoError(t, g.AddEdge(book, author))
		require.NoError(t, g.AddEdge(author, publisher))
		require.NoError(t, g.AddEdge(author, author))

		require.NoError(t, g.RemoveVertex(author))

		assert.False(t, g.HasVertex(author))
		assert.Empty(t, g.Edges())
		assert.Equal(t, []Vertex{book, publisher}, g.Vertices())
	})

	t.Run("remove missing vertex", func(t *testing.T) {
		assert.Error(t, NewGraph().RemoveVertex(book))
	})

	t.Run("enumeration is ordered", func(t *testing.T) {
		g := NewGraph()
		require.NoError(t, g.AddEdge(publisher, book))
		require.NoError(t, g.AddEdge(book, author))

		assert.Equal(t, []Vertex{author, book, publisher}, g.Vertices())

		edges := g.Edges()
		require.Len(t, edges, 2)
		assert.Equal(t, book, edges[0].Source)
		assert.Equal(t, publisher, edges[1].Source)
	})

	t.Run("structural equality", func(t *testing.T) {
		a, b := NewGraph(), NewGraph()
		require.NoError(t, a.AddEdge(book, author))
		require.NoError(t, b.AddVertex(author))
		require.NoError(t, b.AddLabeledEdge(book, author, "belongs_to"))

		assert.True(t, a.Equal(b))

		require.NoError(t, b.AddVertex(publisher))
		assert.False(t, a.Equal(b))
	})
}

func TestSingularizeJoins(t *testing.T) {
	assembly, part := EntityVertex("Assembly"), EntityVertex("Part")
	join := JoinOf(NewJoinVertex("Part::HABTM_Assemblies", "Assembly::HABTM_Parts"))
	rep := EntityVertex("Assembly::HABTM_Parts")

	g := NewGraph()
	require.NoError(t, g.AddLabeledEdge(join, assembly, "many_to_many"))
	require.NoError(t, g.AddLabeledEdge(join, part, "many_to_many"))
	require.NoError(t, g.AddEdge(part, EntityVertex("Supplier")))

	out, err := SingularizeJoins(g)
	require.NoError(t, err)

	assert.Same(t, g, out)
	assert.False(t, g.HasVertex(join))
	for _, v := range g.Vertices() {
		assert.False(t, v.IsJoin())
	}
	assert.True(t, g.HasEdge(rep, assembly))
	assert.True(t, g.HasEdge(rep, part))
	assert.True(t, g.HasEdge(part, EntityVertex("Supplier")))
	assert.Equal(t, 3, g.Size())

	for _, e := range g.Edges() {
		if e.Source == rep {
			assert.Equal(t, "many_to_many", e.Label)
		}
	}
}

func TestModel(t *testing.T) {
	g, _ := build(t, newCatalog(t))
	require.NoError(t, g.AddLabeledEdge(JoinOf(NewJoinVertex("Assembly::HABTM_Parts", "Part::HABTM_Assemblies")), EntityVertex("Assembly"), "many_to_many"))
	require.NoError(t, g.AddLabeledEdge(EntityVertex("Book"), EntityVertex("Author"), "belongs_to"))

	out := g.Model()

	require.Len(t, out.Nodes, 4)
	assert.Equal(t, "Assembly", out.Nodes[0].ID)
	assert.Equal(t, "entity", out.Nodes[0].Type)
	assert.Equal(t, "{Assembly::HABTM_Parts,Part::HABTM_Assemblies}", out.Nodes[3].ID)
	assert.Equal(t, "join", out.Nodes[3].Type)
	assert.Len(t, out.Nodes[3].Members, 2)

	require.Len(t, out.Edges, 2)
	assert.Equal(t, "Book", out.Edges[0].Source)
	assert.Equal(t, "belongs_to", out.Edges[0].Type)

	assert.Equal(t, 4, out.Stats.TotalNodes)
	assert.Equal(t, 2, out.Stats.TotalEdges)
	assert.Equal(t, 3, out.Stats.NodesByType["entity"])
	assert.Equal(t, 1, out.Stats.NodesByType["join"])
	assert.Equal(t, 1, out.Stats.EdgesByType["many_to_many"])
}

func TestGraphVertexNamespaces(t *testing.T) {
	entity := EntityVertex("{X}")
	join := JoinOf(NewJoinVertex("X", "X"))
	require.Equal(t, entity.Key(), join.Key())

	g := NewGraph()
	require.NoError(t, g.AddLabeledEdge(entity, EntityVertex("Y"), "belongs_to"))
	require.NoError(t, g.AddLabeledEdge(join, EntityVertex("Y"), "many_to_many"))

	assert.Equal(t, 3, g.Order())
	assert.True(t, g.HasEdge(entity, EntityVertex("Y")))
	assert.True(t, g.HasEdge(join, EntityVertex("Y")))

	require.NoError(t, g.RemoveVertex(join))
	assert.True(t, g.HasVertex(entity))
	assert.True(t, g.HasEdge(entity, EntityVertex("Y")))

	vertices := g.Vertices()
	require.Len(t, vertices, 2)
	assert.False(t, vertices[1].IsJoin())
}
