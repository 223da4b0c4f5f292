package surface

import (
	"fmt"

	"github.com/bnema/wlscene/internal/scene"
)

// ID is the protocol object id of a native wl_surface.
type ID uint32

// Kind selects the native surface role of a scene window.
// Exactly one of Layer or Child is set.
type Kind struct {
	Layer *LayerKind
	Child *ChildKind
}

// LayerKind is a top-level surface anchored to screen edges.
type LayerKind struct {
	Settings Settings
}

// ChildKind is a sub-surface placed relative to its parent's surface.
type ChildKind struct {
	Parent   scene.Entity
	Position Position
}

// Position is an offset relative to a parent surface, in surface units.
type Position struct {
	X int32
	Y int32
}

// LayerSurface returns a layer kind carrying s.
func LayerSurface(s Settings) Kind {
	return Kind{Layer: &LayerKind{Settings: s}}
}

// ChildSurface returns a child kind placed at (x, y) on parent.
func ChildSurface(parent scene.Entity, x, y int32) Kind {
	return Kind{Child: &ChildKind{Parent: parent, Position: Position{X: x, Y: y}}}
}

// IsChild reports whether k is a child surface.
func (k Kind) IsChild() bool {
	return k.Child != nil
}

func (k Kind) String() string {
	switch {
	case k.Child != nil:
		return fmt.Sprintf("child(parent=%d, at=%d,%d)", k.Child.Parent, k.Child.Position.X, k.Child.Position.Y)
	case k.Layer != nil:
		return "layer"
	default:
		return "unset"
	}
}

// DisplayHandle is the opaque reference a renderer uses to target a window.
// It is valid only while the owning entity is alive.
type DisplayHandle struct {
	// Display names the compositor socket the surface lives on.
	Display string
	Surface ID
}
