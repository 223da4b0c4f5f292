package wayland

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/bnema/wlscene/internal/event"
	"github.com/bnema/wlscene/internal/handlers"
	"github.com/bnema/wlscene/internal/scene"
	"github.com/bnema/wlscene/internal/surface"
)

func TestResolveDisplayName(t *testing.T) {
	assert.Equal(t, "wayland-1", resolveDisplayName("wayland-1", "wayland-9"))
	assert.Equal(t, "wayland-9", resolveDisplayName("", "wayland-9"))
	assert.Equal(t, "wayland-0", resolveDisplayName("", ""))
}

func TestMaxScale(t *testing.T) {
	assert.Equal(t, int32(1), maxScale(nil))
	assert.Equal(t, int32(2), maxScale([]int32{1, 2}))
	assert.Equal(t, int32(3), maxScale([]int32{3, 1, 2}))
}

func TestSocketPath(t *testing.T) {
	assert.Equal(t, "", socketPath("", "/run/user/1000"))
	assert.Equal(t, "/run/user/1000/wayland-1", socketPath("wayland-1", "/run/user/1000"))
	assert.Equal(t, "/tmp/wl.sock", socketPath("/tmp/wl.sock", "/run/user/1000"))
}

func TestDrain_TimesOutWhenIdle(t *testing.T) {
	mailbox := make(chan message, 4)
	start := time.Now()
	require.NoError(t, drain(mailbox, make(chan error, 1), 20*time.Millisecond, func(message) error { return nil }))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestDrain_DeliversEverythingQueued(t *testing.T) {
	mailbox := make(chan message, 4)
	for i := uint32(1); i <= 3; i++ {
		mailbox <- message{sender: i, fd: -1}
	}
	var got []uint32
	require.NoError(t, drain(mailbox, make(chan error, 1), time.Second, func(m message) error {
		got = append(got, m.sender)
		return nil
	}))
	assert.Equal(t, []uint32{1, 2, 3}, got)
	assert.Empty(t, mailbox)
}

func TestDrain_StopsOnDeliveryError(t *testing.T) {
	mailbox := make(chan message, 4)
	mailbox <- message{sender: 1, fd: -1}
	mailbox <- message{sender: 2, fd: -1}
	boom := errors.New("protocol error")
	err := drain(mailbox, make(chan error, 1), time.Second, func(message) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Len(t, mailbox, 1)
}

func TestDrain_ReturnsConnectionError(t *testing.T) {
	errc := make(chan error, 1)
	boom := errors.New("connection reset")
	errc <- boom
	assert.ErrorIs(t, drain(make(chan message), errc, time.Second, func(message) error { return nil }), boom)
}

func TestDrain_WakesOnLateMessage(t *testing.T) {
	mailbox := make(chan message, 1)
	go func() {
		time.Sleep(10 * time.Millisecond)
		mailbox <- message{sender: 7, fd: -1}
	}()
	var got uint32
	require.NoError(t, drain(mailbox, make(chan error, 1), 5*time.Second, func(m message) error {
		got = m.sender
		return nil
	}))
	assert.Equal(t, uint32(7), got)
}

func TestReadKeymap(t *testing.T) {
	text := "xkb_keymap {\n};\n"
	fd, err := unix.MemfdCreate("keymap", unix.MFD_CLOEXEC)
	require.NoError(t, err)
	defer unix.Close(fd)
	_, err = unix.Write(fd, append([]byte(text), 0))
	require.NoError(t, err)

	got, err := readKeymap(fd, uint32(len(text)+1))
	require.NoError(t, err)
	assert.Equal(t, text, string(got))

	_, err = readKeymap(fd, 0)
	assert.Error(t, err)
}

type fixture struct {
	world  *scene.World
	events *event.Buffer
	client *Client
	entity scene.Entity
	id     surface.ID
}

// newFixture wires a client that never connected to handler state holding
// one registered window.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{world: scene.NewWorld(), events: &event.Buffer{}}
	registry := surface.NewRegistry(surface.NewFakeBackend())
	state := handlers.New(handlers.Options{Registry: registry, World: f.world, Events: f.events})

	f.entity = f.world.Spawn()
	scene.Insert(f.world, f.entity, scene.NewWindow("test", 800, 600))
	id, err := registry.Create(f.entity, surface.LayerSurface(surface.DefaultSettings()))
	require.NoError(t, err)
	f.id = id

	f.client = &Client{
		name:     "wayland-test",
		globals:  make(map[uint32]Global),
		outputs:  make(map[uint32]*output),
		byProxy:  make(map[uint32]uint32),
		surfaces: map[surface.ID]*surfaceState{id: {outputs: make(map[uint32]bool), scale: 1}},
		mailbox:  make(chan message, 8),
		errc:     make(chan error, 1),
		done:     make(chan struct{}),
		handlers: state,
	}
	return f
}

func (f *fixture) addOutput(name, proxy uint32, scale int32) {
	info := handlers.Output{ID: name, Scale: 1}
	pending := info
	pending.Scale = scale
	f.client.outputs[name] = &output{version: 4, info: info, pending: pending}
	f.client.byProxy[proxy] = name
}

func TestScale_FollowsOutputs(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1, 50, 2)
	f.addOutput(2, 51, 3)

	// Entering before the first done event keeps the default scale.
	f.client.surfaceOutput(f.id, 50, true)
	assert.Zero(t, f.events.Len())

	f.client.outputDone(1)
	assert.Equal(t, []event.Event{event.WindowScaleFactorChanged{Window: f.entity, ScaleFactor: 2}}, f.events.Drain())
	w, _ := scene.Get[scene.Window](f.world, f.entity)
	assert.Equal(t, 2.0, w.Scale())

	// Output 2 is not shown: its done event does not rescale.
	f.client.outputDone(2)
	assert.Zero(t, f.events.Len())

	f.client.surfaceOutput(f.id, 51, true)
	f.client.surfaceOutput(f.id, 50, false)
	assert.Equal(t, []event.Event{event.WindowScaleFactorChanged{Window: f.entity, ScaleFactor: 3}}, f.events.Drain())

	f.client.surfaceOutput(f.id, 51, false)
	assert.Equal(t, []event.Event{event.WindowScaleFactorChanged{Window: f.entity, ScaleFactor: 1}}, f.events.Drain())
	assert.Len(t, f.client.Outputs(), 2)
}

func TestScale_UnknownSurfaceOrOutput(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1, 50, 2)
	f.client.outputDone(1)

	f.client.surfaceOutput(999, 50, true)
	f.client.surfaceOutput(f.id, 77, true)
	assert.Zero(t, f.events.Len())
	assert.Empty(t, f.client.surfaces[f.id].outputs)
}

func TestPointer_FrameBatching(t *testing.T) {
	f := newFixture(t)
	f.client.framed = true
	f.client.pointerFocus = f.id

	f.client.queuePointer(handlers.PointerEvent{Kind: handlers.PointerEnter, X: 4, Y: 5})
	f.client.queuePointer(handlers.PointerEvent{Kind: handlers.PointerMotion, X: 10, Y: 20})
	assert.Zero(t, f.events.Len())

	f.client.flushPointer()
	got := f.events.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, event.CursorEntered{Window: f.entity}, got[0])
	moved, ok := got[1].(event.CursorMoved)
	require.True(t, ok)
	assert.Equal(t, scene.Vec2{X: 10, Y: 20}, moved.Position)

	f.client.flushPointer()
	assert.Zero(t, f.events.Len())
}

func TestPointer_UnframedSeatFlushesEachEvent(t *testing.T) {
	f := newFixture(t)
	f.client.pointerFocus = f.id
	f.client.queuePointer(handlers.PointerEvent{Kind: handlers.PointerEnter})
	assert.Equal(t, 1, f.events.Len())
}

func TestGlobals_SortedAndRemoved(t *testing.T) {
	f := newFixture(t)
	f.client.globalAdded(Global{Name: 9, Interface: "wl_shm", Version: 1})
	f.client.globalAdded(Global{Name: 2, Interface: "wl_compositor", Version: 6})
	assert.Equal(t, []uint32{2, 9}, []uint32{f.client.Globals()[0].Name, f.client.Globals()[1].Name})

	g, ok := f.client.find("wl_shm")
	require.True(t, ok)
	assert.Equal(t, uint32(9), g.Name)

	f.client.globalRemoved(9)
	_, ok = f.client.find("wl_shm")
	assert.False(t, ok)
}

func TestCreate_NotConnected(t *testing.T) {
	c := &Client{}
	_, err := c.CreateLayerSurface(surface.DefaultSettings())
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.False(t, c.IsConnected())
}
