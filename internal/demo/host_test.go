package demo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wlscene/internal/config"
	"github.com/bnema/wlscene/internal/event"
	"github.com/bnema/wlscene/internal/input"
	"github.com/bnema/wlscene/internal/runner"
	"github.com/bnema/wlscene/internal/scene"
	"github.com/bnema/wlscene/internal/surface"
)

type scriptedDispatcher struct {
	calls  int
	script map[int]func()
}

func (d *scriptedDispatcher) Dispatch(time.Duration) error {
	d.calls++
	if fn, ok := d.script[d.calls]; ok {
		fn()
	}
	return nil
}

func newConfig(child bool) *config.Config {
	c := config.DefaultConfig
	c.Window.Anchor = []string{"top", "left", "right"}
	c.Window.Width, c.Window.Height = 1920, 32
	c.Child.Enabled = child
	return &c
}

func TestNew_SpawnsConfiguredWindows(t *testing.T) {
	h, err := New(newConfig(true))
	require.NoError(t, err)

	w := h.World()
	win, ok := scene.Get[scene.Window](w, h.Primary)
	require.True(t, ok)
	assert.Equal(t, uint32(1920), win.PhysicalWidth)
	assert.True(t, scene.Has[scene.Primary](w, h.Primary))

	s, ok := scene.Get[surface.Settings](w, h.Primary)
	require.True(t, ok)
	assert.Equal(t, surface.AnchorTop|surface.AnchorLeft|surface.AnchorRight, s.Anchor)

	require.True(t, h.HasChild)
	k, ok := scene.Get[surface.Kind](w, h.Child)
	require.True(t, ok)
	assert.True(t, k.IsChild())
	assert.Equal(t, h.Primary, k.Child.Parent)
}

func TestNew_RejectsInvalidWindow(t *testing.T) {
	c := newConfig(false)
	c.Window.Layer = "sideways"
	_, err := New(c)
	assert.Error(t, err)
}

func TestRun_CloseRequestDespawnsAndExits(t *testing.T) {
	h, err := New(newConfig(true))
	require.NoError(t, err)

	backend := surface.NewFakeBackend()
	registry := surface.NewRegistry(backend)
	events := &event.Buffer{}
	d := &scriptedDispatcher{script: map[int]func(){
		2: func() { events.Push(event.WindowCloseRequested{Window: h.Primary}) },
	}}
	r := runner.New(d, h, registry, events, runner.Options{})

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 2, d.calls)
	require.Len(t, backend.Created, 2)
	assert.True(t, backend.Created[0].Destroyed)
	assert.True(t, backend.Created[1].Destroyed)
	assert.Equal(t, 2, h.Seen["created"])
	assert.Equal(t, 1, h.Seen["close_requested"])
	assert.False(t, h.World().Alive(h.Primary))
	assert.False(t, h.World().Alive(h.Child))
}

func TestUpdate_EscapeExits(t *testing.T) {
	h, err := New(newConfig(false))
	require.NoError(t, err)

	h.Send(event.KeyboardInput{Window: h.Primary, LogicalKey: input.Named{Name: input.NamedEscape}, State: input.Released})
	require.NoError(t, h.Update())
	assert.False(t, h.ExitRequested())

	h.Send(event.KeyboardInput{Window: h.Primary, LogicalKey: input.Character{Text: "q"}, State: input.Pressed})
	require.NoError(t, h.Update())
	assert.False(t, h.ExitRequested())

	h.Send(event.KeyboardInput{Window: h.Primary, LogicalKey: input.Named{Name: input.NamedEscape}, State: input.Pressed})
	require.NoError(t, h.Update())
	assert.True(t, h.ExitRequested())
	assert.Equal(t, 3, h.Seen["key"])
}

func TestUpdate_ResizeFollowsCompositor(t *testing.T) {
	h, err := New(newConfig(false))
	require.NoError(t, err)
	w := h.World()
	w.Advance()
	since := w.Tick()

	h.Send(event.WindowResized{Window: h.Primary, Width: 1920, Height: 32})
	require.NoError(t, h.Update())
	assert.Empty(t, scene.ChangedSince[scene.Window](w, since))

	h.Send(event.WindowResized{Window: h.Primary, Width: 2560, Height: 32})
	require.NoError(t, h.Update())
	assert.Equal(t, []scene.Entity{h.Primary}, scene.ChangedSince[scene.Window](w, since))
	win, _ := scene.Get[scene.Window](w, h.Primary)
	assert.Equal(t, uint32(2560), win.PhysicalWidth)
}
