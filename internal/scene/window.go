package scene

// Vec2 is a 2D position or delta.
type Vec2 struct {
	X float64
	Y float64
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale divides both axes by k.
func (v Vec2) Scale(k float64) Vec2 {
	if k == 0 {
		return v
	}
	return Vec2{X: v.X / k, Y: v.Y / k}
}

// Window is the host's logical window. Sizes are physical pixels.
type Window struct {
	Title          string
	PhysicalWidth  uint32
	PhysicalHeight uint32
	// ScaleFactor converts physical to logical units. Zero is treated as 1.
	ScaleFactor float64
}

// NewWindow returns a window of the given physical size at scale 1.
func NewWindow(title string, width, height uint32) Window {
	return Window{
		Title:          title,
		PhysicalWidth:  width,
		PhysicalHeight: height,
		ScaleFactor:    1,
	}
}

// Scale returns the effective scale factor.
func (w *Window) Scale() float64 {
	if w.ScaleFactor <= 0 {
		return 1
	}
	return w.ScaleFactor
}

// LogicalSize returns the window size divided by its scale factor.
func (w *Window) LogicalSize() (float64, float64) {
	k := w.Scale()
	return float64(w.PhysicalWidth) / k, float64(w.PhysicalHeight) / k
}

// Cursor is the last physical pointer position reported inside a window.
type Cursor struct {
	Physical *Vec2
}

// Primary marks the host's primary window.
type Primary struct{}
