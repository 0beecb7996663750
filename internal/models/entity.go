// Package models defines the core data structures shared by the graph builder,
// the schema parsers and the HTTP handlers.
package models

import (
	"fmt"
	"strings"
)

// EntityID is the stable identity of a modeled entity within one build.
type EntityID string

type Kind int

const (
	KindUnknown Kind = iota
	BelongsTo
	HasOne
	HasMany
	ManyToMany
)

var kindNames = map[Kind]string{
	BelongsTo:  "belongs_to",
	HasOne:     "has_one",
	HasMany:    "has_many",
	ManyToMany: "many_to_many",
}

var kindAliases = map[string]Kind{
	"belongs_to":              BelongsTo,
	"has_one":                 HasOne,
	"has_many":                HasMany,
	"many_to_many":            ManyToMany,
	"has_and_belongs_to_many": ManyToMany,
	"habtm":                   ManyToMany,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// Known reports whether k is one of the four relationship kinds.
func (k Kind) Known() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind accepts the canonical names plus the ORM spellings
// ("has_and_belongs_to_many", "habtm", ":has_many").
func ParseKind(s string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), ":")))
	if kind, ok := kindAliases[key]; ok {
		return kind, nil
	}
	return KindUnknown, fmt.Errorf("unknown relationship kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Known() {
		return nil, fmt.Errorf("cannot marshal relationship kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	kind, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// Relationship is an association declared on an owning entity. Through names a
// sibling relationship on the same entity; JoinEntity optionally pins the
// synthetic join entity of a many-to-many relationship.
type Relationship struct {
	Name       string   `json:"name,omitempty" yaml:"name,omitempty"`
	Kind       Kind     `json:"kind" yaml:"kind"`
	Target     EntityID `json:"target,omitempty" yaml:"target,omitempty"`
	Through    string   `json:"through,omitempty" yaml:"through,omitempty"`
	JoinEntity EntityID `json:"join_entity,omitempty" yaml:"join_entity,omitempty"`
}

func (r Relationship) IsThrough() bool {
	return r.Through != ""
}

type Entity struct {
	Name          EntityID       `json:"name" yaml:"name"`
	Abstract      bool           `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Synthetic     bool           `json:"synthetic,omitempty" yaml:"synthetic,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty" yaml:"relationships,omitempty"`
}

// Relationship returns the relationship declared under name.
func (e Entity) Relationship(name string) (Relationship, bool) {
	for _, r := range e.Relationships {
		if r.Name == name {
			return r, true
		}
	}
	return Relationship{}, false
}

// Schema is the root of a schema document: a snapshot of entity descriptors.
type Schema struct {
	Entities []Entity `json:"entities" yaml:"entities"`
}

// Warning describes a relationship that was skipped during a build.
type Warning struct {
	Kind    Kind     `json:"kind"`
	Through string   `json:"through"`
	Owner   EntityID `json:"owner"`
	Message string   `json:"message"`
}
