package surface

import (
	"fmt"
	"strings"
)

// Anchor is a set of screen edges a layer surface is attached to.
// Bit values follow zwlr_layer_surface_v1.anchor.
type Anchor uint32

const (
	AnchorTop    Anchor = 1
	AnchorBottom Anchor = 2
	AnchorLeft   Anchor = 4
	AnchorRight  Anchor = 8
)

var anchorNames = []struct {
	name string
	bit  Anchor
}{
	{"top", AnchorTop},
	{"bottom", AnchorBottom},
	{"left", AnchorLeft},
	{"right", AnchorRight},
}

// Has reports whether every edge in o is set.
func (a Anchor) Has(o Anchor) bool {
	return a&o == o
}

func (a Anchor) String() string {
	if a == 0 {
		return "none"
	}
	var parts []string
	for _, n := range anchorNames {
		if a.Has(n.bit) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseAnchor builds an anchor set from edge names.
func ParseAnchor(edges []string) (Anchor, error) {
	var a Anchor
	for _, edge := range edges {
		found := false
		for _, n := range anchorNames {
			if strings.EqualFold(strings.TrimSpace(edge), n.name) {
				a |= n.bit
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown anchor edge %q", edge)
		}
	}
	return a, nil
}

// KeyboardInteractivity follows zwlr_layer_surface_v1.keyboard_interactivity.
type KeyboardInteractivity uint32

const (
	KeyboardNone KeyboardInteractivity = iota
	KeyboardExclusive
	KeyboardOnDemand
)

func (k KeyboardInteractivity) String() string {
	switch k {
	case KeyboardNone:
		return "none"
	case KeyboardExclusive:
		return "exclusive"
	case KeyboardOnDemand:
		return "on_demand"
	default:
		return fmt.Sprintf("keyboard_interactivity(%d)", uint32(k))
	}
}

// ParseKeyboardInteractivity accepts none, on_demand or exclusive.
func ParseKeyboardInteractivity(s string) (KeyboardInteractivity, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")) {
	case "none":
		return KeyboardNone, nil
	case "on_demand", "ondemand", "":
		return KeyboardOnDemand, nil
	case "exclusive":
		return KeyboardExclusive, nil
	}
	return 0, fmt.Errorf("unknown keyboard interactivity %q", s)
}

// Layer follows zwlr_layer_shell_v1.layer.
type Layer uint32

const (
	LayerBackground Layer = iota
	LayerBottom
	LayerTop
	LayerOverlay
)

func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "background"
	case LayerBottom:
		return "bottom"
	case LayerTop:
		return "top"
	case LayerOverlay:
		return "overlay"
	default:
		return fmt.Sprintf("layer(%d)", uint32(l))
	}
}

// ParseLayer accepts background, bottom, top or overlay.
func ParseLayer(s string) (Layer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "background":
		return LayerBackground, nil
	case "bottom":
		return LayerBottom, nil
	case "top", "":
		return LayerTop, nil
	case "overlay":
		return LayerOverlay, nil
	}
	return 0, fmt.Errorf("unknown layer %q", s)
}

// Margin is the distance from the anchored edges, in the order
// top, right, bottom, left.
type Margin struct {
	Top    int32
	Right  int32
	Bottom int32
	Left   int32
}

// Size is a width and height in physical pixels.
type Size struct {
	Width  uint32
	Height uint32
}

// Settings describes how a layer surface is anchored, sized and layered.
type Settings struct {
	Anchor Anchor
	Size   Size
	// ExclusiveZone reserves screen space; negative means none.
	ExclusiveZone         int32
	Margin                Margin
	KeyboardInteractivity KeyboardInteractivity
	Layer                 Layer
}

// DefaultSettings returns a 256x256 unanchored surface on the top layer
// that takes keyboard focus on demand.
func DefaultSettings() Settings {
	return Settings{
		Size:                  Size{Width: 256, Height: 256},
		KeyboardInteractivity: KeyboardOnDemand,
		Layer:                 LayerTop,
	}
}

// SettingsForSize returns DefaultSettings resized to width x height.
func SettingsForSize(width, height uint32) Settings {
	s := DefaultSettings()
	s.Size = Size{Width: width, Height: height}
	return s
}
