package grapher

import (
	"strings"

	"github.com/relgraph/core/internal/models"
)

// JoinVertex is the unordered pair of synthetic join entities that reflect one
// many-to-many link table from both sides. Members are kept sorted, so two
// JoinVertex values are == iff their member sets are equal.
type JoinVertex struct {
	first  models.EntityID
	second models.EntityID
}

func NewJoinVertex(a, b models.EntityID) JoinVertex {
	if b < a {
		a, b = b, a
	}
	return JoinVertex{first: a, second: b}
}

// Members returns the distinct synthetic entities in sorted order.
func (j JoinVertex) Members() []models.EntityID {
	if j.first == j.second {
		return []models.EntityID{j.first}
	}
	return []models.EntityID{j.first, j.second}
}

// Representative is the lexicographically smallest member.
func (j JoinVertex) Representative() models.EntityID {
	return j.first
}

func (j JoinVertex) IsZero() bool {
	return j.first == "" && j.second == ""
}

func (j JoinVertex) String() string {
	members := j.Members()
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = string(m)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Vertex is either a single entity or a JoinVertex.
type Vertex struct {
	Entity models.EntityID
	Join   JoinVertex
}

func EntityVertex(id models.EntityID) Vertex {
	return Vertex{Entity: id}
}

func JoinOf(j JoinVertex) Vertex {
	return Vertex{Join: j}
}

func (v Vertex) IsJoin() bool {
	return !v.Join.IsZero()
}

// Key is the rendered identity of v: the entity name, or "{a,b}" for a join.
func (v Vertex) Key() string {
	if v.IsJoin() {
		return v.Join.String()
	}
	return string(v.Entity)
}

func (v Vertex) String() string {
	return v.Key()
}

// vertexHash keeps entity and join vertices in separate namespaces, so an
// entity whose name looks like a join key never aliases a JoinVertex.
func vertexHash(v Vertex) string {
	if v.IsJoin() {
		return "join:" + v.Join.String()
	}
	return "entity:" + string(v.Entity)
}
