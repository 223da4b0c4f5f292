// Package surface owns native surface handles and keeps them in one-to-one
// correspondence with scene windows.
package surface

import (
	"errors"
	"fmt"

	"github.com/bnema/wlscene/internal/logger"
	"github.com/bnema/wlscene/internal/scene"
)

var (
	// ErrGlobalMissing is returned by a Backend when a protocol global it
	// needs is not advertised by the compositor.
	ErrGlobalMissing = errors.New("required protocol global not available")
	// ErrNotRegistered means the entity has no native surface.
	ErrNotRegistered = errors.New("entity has no registered surface")
	// ErrAlreadyRegistered means the entity already owns a native surface.
	ErrAlreadyRegistered = errors.New("entity already has a registered surface")
	// ErrParentMissing means a child surface names a parent without a surface.
	ErrParentMissing = errors.New("parent entity has no registered surface")
	// ErrNestedChild means a child surface names another child as parent.
	ErrNestedChild = errors.New("child surfaces cannot parent other child surfaces")
	// ErrInvalidKind means a Kind has neither role set.
	ErrInvalidKind = errors.New("surface kind has no role")
)

// Handle is an owned native surface.
type Handle interface {
	ID() ID
	IsChild() bool
	// Configure pushes size, margin and exclusive zone and commits.
	Configure(s Settings) error
	DisplayHandle() DisplayHandle
	Destroy() error
}

// Backend allocates native surfaces on a display connection.
type Backend interface {
	// CreateLayerSurface allocates, configures and commits a layer surface.
	CreateLayerSurface(s Settings) (Handle, error)
	// CreateChildSurface allocates a sub-surface of parent at pos, stacked
	// above it, and commits.
	CreateChildSurface(parent Handle, pos Position) (Handle, error)
}

// Registry maps scene entities to native surfaces and back.
//
// The three maps are mutated together; every ID in handles has an entry in
// both directions. Registry is not safe for concurrent use.
type Registry struct {
	backend   Backend
	toSurface map[scene.Entity]ID
	toEntity  map[ID]scene.Entity
	handles   map[ID]Handle
}

// NewRegistry returns an empty registry allocating through backend.
func NewRegistry(backend Backend) *Registry {
	return &Registry{
		backend:   backend,
		toSurface: make(map[scene.Entity]ID),
		toEntity:  make(map[ID]scene.Entity),
		handles:   make(map[ID]Handle),
	}
}

// Create allocates a native surface for e and records the mapping.
func (r *Registry) Create(e scene.Entity, kind Kind) (ID, error) {
	if _, ok := r.toSurface[e]; ok {
		return 0, fmt.Errorf("entity %d: %w", e, ErrAlreadyRegistered)
	}

	var (
		h   Handle
		err error
	)
	switch {
	case kind.Child != nil:
		parentID, ok := r.toSurface[kind.Child.Parent]
		if !ok {
			return 0, fmt.Errorf("entity %d: parent %d: %w", e, kind.Child.Parent, ErrParentMissing)
		}
		parent := r.handles[parentID]
		if parent.IsChild() {
			return 0, fmt.Errorf("entity %d: parent %d: %w", e, kind.Child.Parent, ErrNestedChild)
		}
		h, err = r.backend.CreateChildSurface(parent, kind.Child.Position)
	case kind.Layer != nil:
		h, err = r.backend.CreateLayerSurface(kind.Layer.Settings)
	default:
		return 0, fmt.Errorf("entity %d: %w", e, ErrInvalidKind)
	}
	if err != nil {
		return 0, fmt.Errorf("create %s surface for entity %d: %w", kind, e, err)
	}

	id := h.ID()
	r.toSurface[e] = id
	r.toEntity[id] = e
	r.handles[id] = h
	logger.Debug("surface created", "entity", e, "surface", id, "kind", kind.String())
	return id, nil
}

// Surface returns the surface id registered for e.
func (r *Registry) Surface(e scene.Entity) (ID, bool) {
	id, ok := r.toSurface[e]
	return id, ok
}

// Entity returns the entity owning surface id.
func (r *Registry) Entity(id ID) (scene.Entity, bool) {
	e, ok := r.toEntity[id]
	return e, ok
}

// Handle returns the native handle registered for e.
func (r *Registry) Handle(e scene.Entity) (Handle, bool) {
	id, ok := r.toSurface[e]
	if !ok {
		return nil, false
	}
	return r.handles[id], true
}

// ApplySettings pushes s to the native surface of e.
func (r *Registry) ApplySettings(e scene.Entity, s Settings) error {
	h, ok := r.Handle(e)
	if !ok {
		return fmt.Errorf("apply settings to entity %d: %w", e, ErrNotRegistered)
	}
	if err := h.Configure(s); err != nil {
		return fmt.Errorf("apply settings to entity %d: %w", e, err)
	}
	return nil
}

// Remove drops both mappings for e and hands the native handle back to the
// caller for deferred disposal. Removing an unknown entity returns false.
func (r *Registry) Remove(e scene.Entity) (Handle, bool) {
	id, ok := r.toSurface[e]
	if !ok {
		return nil, false
	}
	h := r.handles[id]
	delete(r.toSurface, e)
	delete(r.toEntity, id)
	delete(r.handles, id)
	logger.Debug("surface unregistered", "entity", e, "surface", id)
	return h, true
}

// Len returns the number of registered surfaces.
func (r *Registry) Len() int {
	return len(r.handles)
}

// Entities returns every registered entity.
func (r *Registry) Entities() []scene.Entity {
	out := make([]scene.Entity, 0, len(r.toSurface))
	for e := range r.toSurface {
		out = append(out, e)
	}
	return out
}
