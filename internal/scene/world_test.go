package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorld_InsertAndGet(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	Insert(w, e, NewWindow("main", 800, 600))

	win, ok := Get[Window](w, e)
	require.True(t, ok)
	assert.Equal(t, uint32(800), win.PhysicalWidth)
	assert.True(t, Has[Window](w, e))
	assert.False(t, Has[Cursor](w, e))
}

func TestWorld_ChangeDetection(t *testing.T) {
	w := NewWorld()
	a := w.Spawn()
	b := w.Spawn()
	Insert(w, a, NewWindow("a", 10, 10))

	since := w.Tick()
	w.Advance()
	Insert(w, b, NewWindow("b", 20, 20))

	assert.Equal(t, []Entity{a, b}, AddedSince[Window](w, since))
	assert.Equal(t, []Entity{b}, AddedSince[Window](w, w.Tick()))

	w.Advance()
	now := w.Tick()
	assert.Empty(t, ChangedSince[Window](w, now))

	// Writes through Get are silent.
	win, _ := Get[Window](w, a)
	win.ScaleFactor = 2
	assert.Empty(t, ChangedSince[Window](w, now))

	_, ok := GetMut[Window](w, a)
	require.True(t, ok)
	assert.Equal(t, []Entity{a}, ChangedSince[Window](w, now))
	assert.Empty(t, AddedSince[Window](w, now))
}

func TestWorld_Despawn(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	Insert(w, e, NewWindow("a", 10, 10))
	Insert(w, e, Primary{})

	w.Advance()
	since := w.Tick()
	w.Despawn(e)
	w.Despawn(e)

	assert.False(t, w.Alive(e))
	assert.Equal(t, []Entity{e}, RemovedSince[Window](w, since))
	assert.Equal(t, []Entity{e}, RemovedSince[Primary](w, since))
	assert.Equal(t, []Entity{e}, w.DespawnedSince(since))
	assert.Empty(t, Each[Window](w))

	w.Advance()
	assert.Empty(t, RemovedSince[Window](w, w.Tick()))

	w.Compact(w.Tick())
	assert.Empty(t, RemovedSince[Window](w, 0))
}

func TestWorld_InsertIfNew(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	assert.True(t, InsertIfNew(w, e, Primary{}))
	assert.False(t, InsertIfNew(w, e, Primary{}))

	dead := w.Spawn()
	w.Despawn(dead)
	assert.False(t, InsertIfNew(w, dead, Primary{}))
}

func TestVec2(t *testing.T) {
	v := Vec2{X: 10, Y: 6}.Sub(Vec2{X: 4, Y: 2}).Scale(2)
	assert.Equal(t, Vec2{X: 3, Y: 2}, v)
	assert.Equal(t, Vec2{X: 1, Y: 1}, Vec2{X: 1, Y: 1}.Scale(0))
}
