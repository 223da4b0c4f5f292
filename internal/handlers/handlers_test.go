package handlers

import (
	"errors"
	"testing"

	evdev "github.com/gvalkov/golang-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wlscene/internal/event"
	"github.com/bnema/wlscene/internal/input"
	"github.com/bnema/wlscene/internal/scene"
	"github.com/bnema/wlscene/internal/surface"
)

type fixture struct {
	world    *scene.World
	registry *surface.Registry
	events   *event.Buffer
	state    *State
	binder   *fakeBinder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		world:    scene.NewWorld(),
		registry: surface.NewRegistry(surface.NewFakeBackend()),
		events:   &event.Buffer{},
		binder:   &fakeBinder{},
	}
	f.state = New(Options{Registry: f.registry, World: f.world, Events: f.events, Binder: f.binder})
	return f
}

// spawn creates a window entity with a registered layer surface.
func (f *fixture) spawn(t *testing.T, scale float64) (scene.Entity, surface.ID) {
	t.Helper()
	e := f.world.Spawn()
	w := scene.NewWindow("test", 800, 600)
	w.ScaleFactor = scale
	scene.Insert(f.world, e, w)
	id, err := f.registry.Create(e, surface.LayerSurface(surface.DefaultSettings()))
	require.NoError(t, err)
	return e, id
}

func (f *fixture) drain() []event.Event {
	return f.events.Drain()
}

func touches(events []event.Event) []event.TouchInput {
	var out []event.TouchInput
	for _, e := range events {
		if ti, ok := e.(event.TouchInput); ok {
			out = append(out, ti)
		}
	}
	return out
}

func TestTouch_Lifecycle(t *testing.T) {
	f := newFixture(t)
	e, id := f.spawn(t, 2)

	f.state.TouchDown(id, 7, 100, 50)
	f.state.TouchMotion(7, 110, 60)
	f.state.TouchMotion(7, 120, 80)
	f.state.TouchUp(7)

	got := touches(f.drain())
	require.Len(t, got, 4)
	phases := []input.TouchPhase{input.TouchStarted, input.TouchMoved, input.TouchMoved, input.TouchEnded}
	for i, ti := range got {
		assert.Equal(t, phases[i], ti.Phase)
		assert.Equal(t, uint64(7), ti.ID)
		assert.Equal(t, e, ti.Window)
	}
	assert.Equal(t, scene.Vec2{X: 50, Y: 25}, got[0].Position)
	assert.Equal(t, scene.Vec2{X: 60, Y: 40}, got[2].Position)
	assert.Equal(t, got[2].Position, got[3].Position)
	assert.Empty(t, f.state.ActiveTouches())
}

func TestTouch_Cancel(t *testing.T) {
	f := newFixture(t)
	_, id := f.spawn(t, 1)

	f.state.TouchDown(id, 4, 10, 10)
	f.state.TouchDown(id, 3, 20, 20)
	f.state.TouchMotion(3, 30, 40)
	f.drain()

	f.state.TouchCancel()
	got := touches(f.drain())
	require.Len(t, got, 2)
	assert.Equal(t, uint64(3), got[0].ID)
	assert.Equal(t, scene.Vec2{X: 30, Y: 40}, got[0].Position)
	assert.Equal(t, uint64(4), got[1].ID)
	assert.Equal(t, scene.Vec2{X: 10, Y: 10}, got[1].Position)
	for _, ti := range got {
		assert.Equal(t, input.TouchCanceled, ti.Phase)
	}
	assert.Empty(t, f.state.ActiveTouches())

	// A second cancel has nothing left to report.
	f.state.TouchCancel()
	assert.Zero(t, f.events.Len())
}

func TestTouch_UnknownIsDropped(t *testing.T) {
	f := newFixture(t)
	f.spawn(t, 1)

	f.state.TouchDown(999, 1, 0, 0)
	f.state.TouchMotion(5, 1, 1)
	f.state.TouchUp(5)
	assert.Zero(t, f.events.Len())
}

func TestKeyboard_FocusGuard(t *testing.T) {
	f := newFixture(t)
	a, idA := f.spawn(t, 1)
	_, idB := f.spawn(t, 1)

	f.state.KeyboardEnter(idA)
	f.state.KeyboardLeave(idB)
	got, ok := f.state.Focus()
	require.True(t, ok)
	assert.Equal(t, idA, got)

	f.state.KeyboardLeave(idA)
	_, ok = f.state.Focus()
	assert.False(t, ok)

	assert.Equal(t, []event.Event{
		event.WindowFocused{Window: a, Focused: true},
		event.WindowFocused{Window: a, Focused: false},
	}, f.drain())
}

func TestKeyboard_Key(t *testing.T) {
	f := newFixture(t)
	e, id := f.spawn(t, 1)

	// No focus: dropped.
	f.state.KeyboardKey(evdev.KEY_A, 1)
	assert.Zero(t, f.events.Len())

	f.state.KeyboardEnter(id)
	f.drain()

	f.state.KeyboardModifiers(input.ModShift, 0, 0)
	f.state.KeyboardKey(evdev.KEY_A, 1)
	f.state.KeyboardModifiers(0, 0, 0)
	f.state.KeyboardKey(evdev.KEY_ESC, 0)
	f.state.KeyboardKey(0x2ff, 1)

	got := f.drain()
	require.Len(t, got, 3)
	assert.Equal(t, event.KeyboardInput{
		Window:     e,
		KeyCode:    input.KeyA,
		LogicalKey: input.Character{Text: "A"},
		Keysym:     input.KeysymA,
		State:      input.Pressed,
	}, got[0])

	esc := got[1].(event.KeyboardInput)
	assert.Equal(t, input.Escape, esc.KeyCode)
	assert.Equal(t, input.Named{Name: input.NamedEscape}, esc.LogicalKey)
	assert.Equal(t, input.Released, esc.State)

	unknown := got[2].(event.KeyboardInput)
	assert.Equal(t, input.KeyCodeUnidentified, unknown.KeyCode)
	assert.IsType(t, input.Unidentified{}, unknown.LogicalKey)
}

const qwertzKeymap = `xkb_keymap {
xkb_keycodes "evdev" {
	<AD06> = 29;
	<AB01> = 52;
};
xkb_symbols "de" {
	key <AD06> { type= "ALPHABETIC", symbols[Group1]= [ z, Z ] };
	key <AB01> { type= "ALPHABETIC", symbols[Group1]= [ y, Y ] };
};
};`

func TestKeyboard_CompositorKeymap(t *testing.T) {
	f := newFixture(t)
	_, id := f.spawn(t, 1)
	f.state.KeyboardEnter(id)
	f.drain()

	f.state.KeyboardKeymap([]byte(qwertzKeymap))
	f.state.KeyboardKey(evdev.KEY_Y, 1)

	// Unparseable keymaps fall back to the layout table.
	f.state.KeyboardKeymap([]byte("garbage"))
	f.state.KeyboardKey(evdev.KEY_Y, 1)

	got := f.drain()
	require.Len(t, got, 2)
	assert.Equal(t, input.Character{Text: "z"}, got[0].(event.KeyboardInput).LogicalKey)
	assert.Equal(t, input.Character{Text: "y"}, got[1].(event.KeyboardInput).LogicalKey)
}

func TestPointer_ScaleRoundTrip(t *testing.T) {
	f := newFixture(t)
	e, id := f.spawn(t, 2)

	f.state.PointerFrame([]PointerEvent{
		{Surface: id, Kind: PointerEnter, X: 180, Y: 100},
		{Surface: id, Kind: PointerMotion, X: 200, Y: 100},
		{Surface: 999, Kind: PointerMotion, X: 1, Y: 1},
		{Surface: id, Kind: PointerMotion, X: 260, Y: 80},
		{Surface: id, Kind: PointerPress, Button: 272},
		{Surface: id, Kind: PointerRelease, Button: 300},
		{Surface: id, Kind: PointerAxis, AxisY: 30},
		{Surface: id, Kind: PointerLeave},
	})

	got := f.drain()
	require.Len(t, got, 7)
	assert.Equal(t, event.CursorEntered{Window: e}, got[0])

	first := got[1].(event.CursorMoved)
	assert.Equal(t, scene.Vec2{X: 100, Y: 50}, first.Position)
	require.NotNil(t, first.Delta)
	assert.Equal(t, scene.Vec2{X: 10, Y: 0}, *first.Delta)

	second := got[2].(event.CursorMoved)
	assert.Equal(t, scene.Vec2{X: 130, Y: 40}, second.Position)
	require.NotNil(t, second.Delta)
	assert.Equal(t, scene.Vec2{X: 30, Y: -10}, *second.Delta)

	assert.Equal(t, event.MouseButtonInput{Window: e, Button: input.MouseLeft, State: input.Pressed}, got[3])
	assert.Equal(t, event.MouseButtonInput{Window: e, Button: input.MouseOther(300), State: input.Released}, got[4])
	assert.Equal(t, event.MouseWheel{Window: e, X: 0, Y: 15}, got[5])
	assert.Equal(t, event.CursorLeft{Window: e}, got[6])

	c, ok := scene.Get[scene.Cursor](f.world, e)
	require.True(t, ok)
	assert.Equal(t, scene.Vec2{X: 260, Y: 80}, *c.Physical)
}

func TestPointer_EnterIsOneEvent(t *testing.T) {
	f := newFixture(t)
	e, id := f.spawn(t, 2)

	f.state.PointerFrame([]PointerEvent{{Surface: id, Kind: PointerEnter, X: 40, Y: 60}})
	assert.Equal(t, []event.Event{event.CursorEntered{Window: e}}, f.drain())

	c, ok := scene.Get[scene.Cursor](f.world, e)
	require.True(t, ok)
	assert.Equal(t, scene.Vec2{X: 40, Y: 60}, *c.Physical)
}

func TestScaleFactorChanged(t *testing.T) {
	f := newFixture(t)
	e, id := f.spawn(t, 1)
	since := f.world.Tick()
	f.world.Advance()

	f.state.ScaleFactorChanged(id, 2)
	f.state.ScaleFactorChanged(999, 3)

	assert.Equal(t, []event.Event{event.WindowScaleFactorChanged{Window: e, ScaleFactor: 2}}, f.drain())
	w, ok := scene.Get[scene.Window](f.world, e)
	require.True(t, ok)
	assert.Equal(t, 2.0, w.ScaleFactor)
	// The write is not a settings change.
	assert.NotContains(t, scene.ChangedSince[scene.Window](f.world, since+1), e)
}

type fakeAcker struct {
	serials []uint32
	err     error
}

func (a *fakeAcker) AckConfigure(serial uint32) error {
	a.serials = append(a.serials, serial)
	return a.err
}

func TestLayerConfigureAndClosed(t *testing.T) {
	f := newFixture(t)
	e, id := f.spawn(t, 1)
	ack := &fakeAcker{}

	f.state.LayerConfigure(id, 1, 800, 600, ack)
	f.state.LayerConfigure(id, 2, 800, 600, ack)
	f.state.LayerConfigure(id, 3, 0, 0, ack)
	f.state.LayerConfigure(id, 4, 1024, 600, ack)
	f.state.LayerConfigure(999, 5, 10, 10, ack)
	assert.Equal(t, []uint32{1, 2, 3, 4, 5}, ack.serials)

	assert.Equal(t, []event.Event{
		event.WindowResized{Window: e, Width: 800, Height: 600},
		event.WindowResized{Window: e, Width: 1024, Height: 600},
	}, f.drain())

	f.state.LayerConfigure(id, 6, 640, 480, &fakeAcker{err: errors.New("gone")})
	assert.Zero(t, f.events.Len())

	f.state.LayerClosed(id)
	f.state.LayerClosed(999)
	assert.Equal(t, []event.Event{event.WindowCloseRequested{Window: e}}, f.drain())
}

type fakeDevice struct {
	name     string
	released int
}

func (d *fakeDevice) Release() error {
	d.released++
	return nil
}

type fakeBinder struct {
	bound []*fakeDevice
	fail  bool
}

func (b *fakeBinder) bind(name string) (Device, error) {
	if b.fail {
		return nil, errors.New("no seat")
	}
	d := &fakeDevice{name: name}
	b.bound = append(b.bound, d)
	return d, nil
}

func (b *fakeBinder) BindKeyboard() (Device, error) { return b.bind("keyboard") }
func (b *fakeBinder) BindPointer() (Device, error)  { return b.bind("pointer") }
func (b *fakeBinder) BindTouch() (Device, error)    { return b.bind("touch") }

func TestSeatCapabilities(t *testing.T) {
	f := newFixture(t)
	_, id := f.spawn(t, 1)

	f.state.SeatCapabilities(CapKeyboard | CapPointer)
	f.state.SeatCapabilities(CapKeyboard | CapPointer)
	require.Len(t, f.binder.bound, 2)
	assert.Equal(t, []string{"keyboard", "pointer"}, f.state.Devices())

	f.state.SeatCapabilities(CapPointer | CapTouch)
	require.Len(t, f.binder.bound, 3)
	assert.Equal(t, 1, f.binder.bound[0].released)
	assert.Equal(t, []string{"pointer", "touch"}, f.state.Devices())

	// Losing touch cancels points still down.
	f.state.TouchDown(id, 1, 5, 5)
	f.drain()
	f.state.SeatCapabilities(CapPointer)
	assert.Equal(t, 1, f.binder.bound[2].released)
	got := touches(f.drain())
	require.Len(t, got, 1)
	assert.Equal(t, input.TouchCanceled, got[0].Phase)

	f.state.SeatCapabilities(0)
	assert.Empty(t, f.state.Devices())
}

func TestSeatCapabilities_BindFailure(t *testing.T) {
	f := newFixture(t)
	f.binder.fail = true
	f.state.SeatCapabilities(CapKeyboard)
	assert.Empty(t, f.state.Devices())
}

func TestOutputs(t *testing.T) {
	f := newFixture(t)
	f.state.OutputUpdated(Output{ID: 9, Name: "HDMI-A-1", Scale: 1})
	f.state.OutputUpdated(Output{ID: 3, Name: "eDP-1", Width: 2560, Height: 1600, RefreshMHz: 60000, Scale: 2})
	f.state.OutputUpdated(Output{ID: 9, Name: "HDMI-A-1", Scale: 2})

	outs := f.state.Outputs()
	require.Len(t, outs, 2)
	assert.Equal(t, uint32(3), outs[0].ID)
	assert.Equal(t, int32(2), outs[1].Scale)
	assert.Equal(t, "eDP-1 2560x1600@60.00Hz scale 2", outs[0].String())

	f.state.OutputRemoved(9)
	f.state.OutputRemoved(9)
	assert.Len(t, f.state.Outputs(), 1)
}
