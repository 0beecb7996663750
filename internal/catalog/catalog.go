// Package catalog holds a static snapshot of entity descriptors and answers
// the lookups the graph builder needs. It applies the ORM's naming
// conventions: relationship targets are inferred from relationship names, and
// every many-to-many relationship generates a synthetic join entity named
// <Owner>::HABTM_<Targets>.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"
	"github.com/relgraph/core/internal/models"
)

// JoinPrefix marks synthetic many-to-many join entities.
const JoinPrefix = "HABTM_"

var (
	ErrNilSchema           = errors.New("catalog: nil schema")
	ErrMissingName         = errors.New("catalog: entity has no name")
	ErrDuplicateEntity     = errors.New("catalog: duplicate entity")
	ErrInvalidRelationship = errors.New("catalog: relationship has neither name nor target")
	ErrReservedCharacter   = errors.New("catalog: entity name contains a reserved character")
)

// reservedChars appear in rendered join vertex keys such as "{A,B}".
const reservedChars = "{},"

var rules = inflect.NewDefaultRuleset()

// JoinNaming names the synthetic join entity generated on owner's side of a
// many-to-many relationship with target.
type JoinNaming func(owner, target models.EntityID) models.EntityID

// DefaultJoinNaming yields "Assembly::HABTM_Parts" for (Assembly, Part).
func DefaultJoinNaming(owner, target models.EntityID) models.EntityID {
	return models.EntityID(fmt.Sprintf("%s::%s%s", owner, JoinPrefix, rules.Pluralize(string(target))))
}

// IsJoinName reports whether name follows the synthetic join entity pattern.
func IsJoinName(name models.EntityID) bool {
	s := string(name)
	return strings.HasPrefix(s, JoinPrefix) || strings.Contains(s, "::"+JoinPrefix)
}

// InferTarget derives an entity name from a relationship name:
// "appointments" -> "Appointment", "account_history" -> "AccountHistory".
func InferTarget(relationshipName string) models.EntityID {
	return models.EntityID(rules.Camelize(rules.Singularize(relationshipName)))
}

type joinKey struct {
	owner  models.EntityID
	target models.EntityID
}

type Catalog struct {
	entities  []models.Entity
	index     map[models.EntityID]int
	synthetic map[models.EntityID]models.Entity
	joins     map[joinKey]models.EntityID
	// ambiguous pairs declare several many-to-many relationships with
	// different join entities; none of them resolves.
	ambiguous map[joinKey]bool
	naming    JoinNaming
}

type Option func(*Catalog)

func WithJoinNaming(naming JoinNaming) Option {
	return func(c *Catalog) {
		if naming != nil {
			c.naming = naming
		}
	}
}

// New indexes schema. Entities keep their declared order; relationship names
// and targets are filled in where only one of them was given.
func New(schema *models.Schema, opts ...Option) (*Catalog, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}

	c := &Catalog{
		entities:  make([]models.Entity, 0, len(schema.Entities)),
		index:     make(map[models.EntityID]int, len(schema.Entities)),
		synthetic: make(map[models.EntityID]models.Entity),
		joins:     make(map[joinKey]models.EntityID),
		ambiguous: make(map[joinKey]bool),
		naming:    DefaultJoinNaming,
	}
	for _, opt := range opts {
		opt(c)
	}

	for i, entity := range schema.Entities {
		if entity.Name == "" {
			return nil, fmt.Errorf("%w (position %d)", ErrMissingName, i)
		}
		if err := checkName(entity.Name); err != nil {
			return nil, err
		}
		if _, exists := c.index[entity.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEntity, entity.Name)
		}

		relationships, err := normalizeRelationships(entity)
		if err != nil {
			return nil, err
		}
		entity.Relationships = relationships

		c.index[entity.Name] = len(c.entities)
		c.entities = append(c.entities, entity)
	}

	for _, entity := range c.entities {
		for _, r := range entity.Relationships {
			if r.Kind != models.ManyToMany {
				continue
			}
			c.registerJoin(entity.Name, r)
		}
	}

	return c, nil
}

func normalizeRelationships(entity models.Entity) ([]models.Relationship, error) {
	if len(entity.Relationships) == 0 {
		return nil, nil
	}

	out := make([]models.Relationship, len(entity.Relationships))
	for i, r := range entity.Relationships {
		switch {
		case r.Name == "" && r.Target == "":
			return nil, fmt.Errorf("%w: %s relationship %d", ErrInvalidRelationship, entity.Name, i)
		case r.Target == "":
			r.Target = InferTarget(r.Name)
		case r.Name == "":
			r.Name = string(r.Target)
		}
		if err := checkName(r.Target); err != nil {
			return nil, fmt.Errorf("%s relationship %q: %w", entity.Name, r.Name, err)
		}
		if err := checkName(r.JoinEntity); err != nil {
			return nil, fmt.Errorf("%s relationship %q: %w", entity.Name, r.Name, err)
		}
		out[i] = r
	}
	return out, nil
}

func checkName(name models.EntityID) error {
	if strings.ContainsAny(string(name), reservedChars) {
		return fmt.Errorf("%w: %q", ErrReservedCharacter, name)
	}
	return nil
}

func (c *Catalog) registerJoin(owner models.EntityID, r models.Relationship) {
	id := r.JoinEntity
	if id == "" {
		id = c.naming(owner, r.Target)
	}
	key := joinKey{owner: owner, target: r.Target}
	if prev, ok := c.joins[key]; ok && prev != id {
		c.ambiguous[key] = true
	} else {
		c.joins[key] = id
	}

	if _, declared := c.index[id]; declared {
		return
	}
	c.synthetic[id] = models.Entity{Name: id, Synthetic: true}
}

// Entities returns the top-level scan targets: every declared entity that is
// neither abstract nor a synthetic join entity.
func (c *Catalog) Entities() []models.Entity {
	out := make([]models.Entity, 0, len(c.entities))
	for _, entity := range c.entities {
		if entity.Abstract || entity.Synthetic || IsJoinName(entity.Name) {
			continue
		}
		out = append(out, entity)
	}
	return out
}

func (c *Catalog) Lookup(id models.EntityID) (models.Entity, bool) {
	if i, ok := c.index[id]; ok {
		return c.entities[i], true
	}
	entity, ok := c.synthetic[id]
	return entity, ok
}

func (c *Catalog) Relationships(id models.EntityID) []models.Relationship {
	i, ok := c.index[id]
	if !ok {
		return nil
	}
	return append([]models.Relationship(nil), c.entities[i].Relationships...)
}

// ResolveJoinEntity prefers the join entity registered by owner's own
// many-to-many declaration. Otherwise a declared synthetic entity matching
// the naming convention is accepted. A pair with conflicting join entities
// does not resolve.
func (c *Catalog) ResolveJoinEntity(owner, target models.EntityID) (models.EntityID, bool) {
	key := joinKey{owner: owner, target: target}
	if c.ambiguous[key] {
		return "", false
	}
	if id, ok := c.joins[key]; ok {
		return id, true
	}

	candidate := c.naming(owner, target)
	if entity, ok := c.Lookup(candidate); ok && (entity.Synthetic || IsJoinName(entity.Name)) {
		return candidate, true
	}
	return "", false
}
