package grapher

import "github.com/relgraph/core/internal/models"

// Provider supplies the entity snapshot a build runs over.
type Provider interface {
	// Entities returns the top-level scan targets. Synthetic join entities
	// are reached through ResolveJoinEntity, never listed here.
	Entities() []models.Entity
	// Lookup finds any known entity, including abstract and synthetic ones.
	Lookup(id models.EntityID) (models.Entity, bool)
	Relationships(id models.EntityID) []models.Relationship
	// ResolveJoinEntity returns the synthetic join entity generated on
	// owner's side of a many-to-many relationship with target.
	ResolveJoinEntity(owner, target models.EntityID) (models.EntityID, bool)
}
