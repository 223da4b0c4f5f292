package surface

import (
	"errors"
	"fmt"
)

// ErrDestroyed is returned when a handle is destroyed twice.
var ErrDestroyed = errors.New("surface already destroyed")

// FakeBackend is an in-memory Backend for tests. Ids are allocated from 100
// upwards and never reused.
type FakeBackend struct {
	Display string
	// Missing simulates absent globals: "layer_shell" or "subcompositor".
	Missing map[string]bool

	next    ID
	Created []*FakeHandle
	// Destroyed lists surface ids in the order they were destroyed.
	Destroyed []ID
}

// NewFakeBackend returns an empty fake backend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{Display: "wayland-test", next: 100, Missing: map[string]bool{}}
}

// FakeHandle records every call made on a surface.
type FakeHandle struct {
	backend   *FakeBackend
	id        ID
	display   string
	child     bool
	Parent    ID
	Position  Position
	Settings  Settings
	Commits   int
	Destroyed bool
}

func (b *FakeBackend) alloc() ID {
	b.next++
	return b.next
}

// CreateLayerSurface implements Backend.
func (b *FakeBackend) CreateLayerSurface(s Settings) (Handle, error) {
	if b.Missing["layer_shell"] {
		return nil, fmt.Errorf("zwlr_layer_shell_v1: %w", ErrGlobalMissing)
	}
	h := &FakeHandle{backend: b, id: b.alloc(), display: b.Display, Settings: s, Commits: 1}
	b.Created = append(b.Created, h)
	return h, nil
}

// CreateChildSurface implements Backend.
func (b *FakeBackend) CreateChildSurface(parent Handle, pos Position) (Handle, error) {
	if b.Missing["subcompositor"] {
		return nil, fmt.Errorf("wl_subcompositor: %w", ErrGlobalMissing)
	}
	h := &FakeHandle{backend: b, id: b.alloc(), display: b.Display, child: true, Parent: parent.ID(), Position: pos, Commits: 1}
	b.Created = append(b.Created, h)
	return h, nil
}

// ID implements Handle.
func (h *FakeHandle) ID() ID { return h.id }

// IsChild implements Handle.
func (h *FakeHandle) IsChild() bool { return h.child }

// Configure implements Handle.
func (h *FakeHandle) Configure(s Settings) error {
	if h.Destroyed {
		return ErrDestroyed
	}
	if !h.child {
		h.Settings.Size = s.Size
		h.Settings.Margin = s.Margin
		h.Settings.ExclusiveZone = s.ExclusiveZone
	}
	h.Commits++
	return nil
}

// DisplayHandle implements Handle.
func (h *FakeHandle) DisplayHandle() DisplayHandle {
	return DisplayHandle{Display: h.display, Surface: h.id}
}

// Destroy implements Handle.
func (h *FakeHandle) Destroy() error {
	if h.Destroyed {
		return ErrDestroyed
	}
	h.Destroyed = true
	if h.backend != nil {
		h.backend.Destroyed = append(h.backend.Destroyed, h.id)
	}
	return nil
}
