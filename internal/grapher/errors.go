package grapher

import (
	"errors"
	"fmt"

	"github.com/relgraph/core/internal/models"
)

var (
	// ErrThroughNotFound means the sibling relationship named by a through
	// relationship is not declared on the owning entity.
	ErrThroughNotFound = errors.New("grapher: through relationship not found")
	// ErrThroughUnresolvable means the sibling exists but its target entity
	// cannot be determined.
	ErrThroughUnresolvable = errors.New("grapher: through relationship target unresolvable")
	// ErrJoinEntityUnresolved means a synthetic many-to-many join entity
	// could not be resolved.
	ErrJoinEntityUnresolved = errors.New("grapher: join entity unresolved")
	// ErrUnknownKind means a provider handed over a relationship without a
	// recognised kind.
	ErrUnknownKind   = errors.New("grapher: unknown relationship kind")
	ErrMissingTarget = errors.New("grapher: relationship has no target")
)

// JoinError reports the many-to-many relationship whose join entity is missing.
type JoinError struct {
	Owner  models.EntityID
	Target models.EntityID
	// Side is the entity whose synthetic join entity was looked up.
	Side models.EntityID
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("grapher: many_to_many %s -> %s: no join entity on %s's side", e.Owner, e.Target, e.Side)
}

func (e *JoinError) Is(target error) bool {
	return target == ErrJoinEntityUnresolved
}

// RelationshipError reports a relationship that violates the provider contract.
type RelationshipError struct {
	Owner        models.EntityID
	Relationship models.Relationship
	Cause        error
}

func (e *RelationshipError) Error() string {
	return fmt.Sprintf("grapher: relationship %q on %s: %v", e.Relationship.Name, e.Owner, e.Cause)
}

func (e *RelationshipError) Unwrap() error {
	return e.Cause
}
