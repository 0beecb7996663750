// Package grapher builds directed dependency graphs from entity and
// relationship descriptors. An edge A -> B means B must exist, or be
// processed, before A.
package grapher

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/relgraph/core/internal/models"
)

// Builder turns a Provider snapshot into a Graph. A Builder holds no state
// between builds and may be reused.
type Builder struct {
	logger        *slog.Logger
	collapseJoins bool
	onWarning     func(models.Warning)
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger for build progress and warnings. A nil logger
// keeps the default, which discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithCollapsedJoins applies SingularizeJoins to every built graph.
func WithCollapsedJoins(collapse bool) Option {
	return func(b *Builder) {
		b.collapseJoins = collapse
	}
}

// WithWarningHandler registers fn to receive every skipped through relationship.
func WithWarningHandler(fn func(models.Warning)) Option {
	return func(b *Builder) {
		b.onWarning = fn
	}
}

// New returns a Builder configured by opts.
func New(opts ...Option) *Builder {
	b := &Builder{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build constructs a fresh graph from the provider's snapshot. Broken through
// relationships are skipped with a warning. Structural errors (unresolvable
// join entities, unknown kinds) are collected and returned together, and no
// graph is returned in that case.
func (b *Builder) Build(p Provider) (*Graph, error) {
	b.logger.Debug("Build: Starting graph construction.")
	g := NewGraph()

	var errs []error
	for _, entity := range p.Entities() {
		if entity.Abstract || entity.Synthetic {
			b.logger.Debug("Build: Skipping entity.", "entity", string(entity.Name), "abstract", entity.Abstract, "synthetic", entity.Synthetic)
			continue
		}

		if err := g.AddVertex(EntityVertex(entity.Name)); err != nil {
			return nil, err
		}

		for _, r := range p.Relationships(entity.Name) {
			if err := b.addRelationship(g, p, entity.Name, r); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	b.logger.Debug("Build: Relationship linking complete.", "vertices", g.Order(), "edges", g.Size())

	if b.collapseJoins {
		if _, err := SingularizeJoins(g); err != nil {
			return nil, fmt.Errorf("failed to collapse join vertices: %w", err)
		}
		b.logger.Debug("Build: Join vertices collapsed.", "vertices", g.Order(), "edges", g.Size())
	}

	b.logger.Debug("Build: Graph construction successful.")
	return g, nil
}

func (b *Builder) addRelationship(g *Graph, p Provider, owner models.EntityID, r models.Relationship) error {
	if !r.Kind.Known() {
		return &RelationshipError{Owner: owner, Relationship: r, Cause: ErrUnknownKind}
	}
	if r.Target == "" {
		return &RelationshipError{Owner: owner, Relationship: r, Cause: ErrMissingTarget}
	}

	switch r.Kind {
	case models.BelongsTo:
		return b.link(g, p, EntityVertex(owner), EntityVertex(r.Target), r.Kind.String())
	case models.HasOne, models.HasMany:
		if !r.IsThrough() {
			return b.link(g, p, EntityVertex(r.Target), EntityVertex(owner), r.Kind.String())
		}
		return b.addThrough(g, p, owner, r)
	case models.ManyToMany:
		return b.addJoin(g, p, owner, r)
	default:
		return &RelationshipError{Owner: owner, Relationship: r, Cause: ErrUnknownKind}
	}
}

// addThrough links owner, the through entity and the target. has_one connects
// target -> through while has_many connects through -> target.
func (b *Builder) addThrough(g *Graph, p Provider, owner models.EntityID, r models.Relationship) error {
	through, err := resolveThrough(p, owner, r.Through, map[string]bool{})
	if err != nil {
		b.warn(owner, r, err)
		return nil
	}

	label := r.Kind.String() + "_through"
	throughVertex := EntityVertex(through)
	if err := b.link(g, p, throughVertex, EntityVertex(owner), label); err != nil {
		return err
	}
	if r.Kind == models.HasOne {
		return b.link(g, p, EntityVertex(r.Target), throughVertex, label)
	}
	return b.link(g, p, throughVertex, EntityVertex(r.Target), label)
}

func resolveThrough(p Provider, owner models.EntityID, name string, seen map[string]bool) (models.EntityID, error) {
	if seen[name] {
		return "", fmt.Errorf("%w: %q on %s refers back to itself", ErrThroughUnresolvable, name, owner)
	}
	seen[name] = true

	var (
		sibling models.Relationship
		found   bool
	)
	for _, r := range p.Relationships(owner) {
		if r.Name == name {
			sibling, found = r, true
			break
		}
	}
	if !found {
		return "", fmt.Errorf("%w: %q on %s", ErrThroughNotFound, name, owner)
	}
	if sibling.Target == "" {
		return "", fmt.Errorf("%w: %q on %s has no target", ErrThroughUnresolvable, name, owner)
	}
	if _, ok := p.Lookup(sibling.Target); !ok {
		return "", fmt.Errorf("%w: %q on %s targets unknown entity %s", ErrThroughUnresolvable, name, owner, sibling.Target)
	}
	if sibling.IsThrough() {
		if _, err := resolveThrough(p, owner, sibling.Through, seen); err != nil {
			return "", fmt.Errorf("%w: %q on %s: %v", ErrThroughUnresolvable, name, owner, err)
		}
	}
	return sibling.Target, nil
}

// addJoin links the shared JoinVertex to owner. The reverse declaration on
// the target resolves to the same JoinVertex and adds JoinVertex -> target.
func (b *Builder) addJoin(g *Graph, p Provider, owner models.EntityID, r models.Relationship) error {
	ownSide := r.JoinEntity
	if ownSide == "" {
		id, ok := p.ResolveJoinEntity(owner, r.Target)
		if !ok {
			return &JoinError{Owner: owner, Target: r.Target, Side: owner}
		}
		ownSide = id
	}

	reverseSide, ok := p.ResolveJoinEntity(r.Target, owner)
	if !ok {
		return &JoinError{Owner: owner, Target: r.Target, Side: r.Target}
	}

	join := JoinOf(NewJoinVertex(ownSide, reverseSide))
	return b.link(g, p, join, EntityVertex(owner), r.Kind.String())
}

// link adds from -> to unless one endpoint is a known abstract entity.
func (b *Builder) link(g *Graph, p Provider, from, to Vertex, label string) error {
	for _, v := range [...]Vertex{from, to} {
		if v.IsJoin() {
			continue
		}
		if entity, ok := p.Lookup(v.Entity); ok && entity.Abstract {
			b.logger.Debug("Build: Skipping edge touching abstract entity.", "from", from.Key(), "to", to.Key())
			return nil
		}
	}
	return g.AddLabeledEdge(from, to, label)
}

func (b *Builder) warn(owner models.EntityID, r models.Relationship, err error) {
	b.logger.Warn("Build: Tried and failed to resolve a through relationship.",
		"kind", r.Kind.String(),
		"through", r.Through,
		"owner", string(owner),
		"error", err,
	)
	if b.onWarning != nil {
		b.onWarning(models.Warning{
			Kind:    r.Kind,
			Through: r.Through,
			Owner:   owner,
			Message: err.Error(),
		})
	}
}
