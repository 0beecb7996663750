// Package models defines the core data structures shared by the graph builder,
// the schema parsers and the HTTP handlers.
package models

const (
	NodeTypeEntity = "entity"
	NodeTypeJoin   = "join"
)

type Graph struct {
	Nodes    []Node    `json:"nodes"`
	Edges    []Edge    `json:"edges"`
	Stats    *Stats    `json:"stats,omitempty"`
	Warnings []Warning `json:"warnings,omitempty"`
}

type Node struct {
	ID      string     `json:"id"`
	Type    string     `json:"type"`
	Members []EntityID `json:"members,omitempty"`
}

type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

type Stats struct {
	TotalNodes  int            `json:"total_nodes"`
	TotalEdges  int            `json:"total_edges"`
	NodesByType map[string]int `json:"nodes_by_type,omitempty"`
	EdgesByType map[string]int `json:"edges_by_type,omitempty"`
}
