package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wlscene/internal/input"
	"github.com/bnema/wlscene/internal/scene"
)

func TestBuffer_FlushOrder(t *testing.T) {
	var b Buffer
	b.Push(CursorEntered{Window: 1})
	b.Push(MouseButtonInput{Window: 1, Button: input.MouseLeft, State: input.Pressed})
	b.Push(CursorLeft{Window: 1})
	assert.Equal(t, 3, b.Len())

	var rec Recorder
	n := b.Flush(&rec)
	assert.Equal(t, 3, n)
	assert.Zero(t, b.Len())
	require.Len(t, rec.Events, 3)
	assert.IsType(t, CursorEntered{}, rec.Events[0])
	assert.IsType(t, MouseButtonInput{}, rec.Events[1])
	assert.IsType(t, CursorLeft{}, rec.Events[2])

	// Nothing is reordered across flushes.
	b.Push(WindowClosed{Window: 2})
	b.Flush(&rec)
	assert.Equal(t, scene.Entity(2), rec.Events[3].Target())
	assert.Zero(t, b.Flush(&rec))
}

func TestSinkFunc(t *testing.T) {
	var got []Event
	var b Buffer
	b.Push(WindowCreated{Window: 4})
	b.Flush(SinkFunc(func(e Event) { got = append(got, e) }))
	assert.Equal(t, []Event{WindowCreated{Window: 4}}, got)
}

func TestRecorderOf(t *testing.T) {
	var rec Recorder
	rec.Send(TouchInput{Window: 1, ID: 3})
	rec.Send(CursorLeft{Window: 1})
	rec.Send(TouchInput{Window: 1, ID: 4})

	touches := Of[TouchInput](&rec)
	require.Len(t, touches, 2)
	assert.Equal(t, uint64(3), touches[0].ID)
	assert.Equal(t, uint64(4), touches[1].ID)

	rec.Reset()
	assert.Empty(t, rec.Events)
}

func TestEventStrings(t *testing.T) {
	assert.Equal(t, "CursorMoved(1, 10.0,20.0)", CursorMoved{Window: 1, Position: scene.Vec2{X: 10, Y: 20}}.String())
	d := scene.Vec2{X: 1, Y: -1}
	assert.Equal(t, "CursorMoved(1, 10.0,20.0, delta 1.0,-1.0)", CursorMoved{Window: 1, Position: scene.Vec2{X: 10, Y: 20}, Delta: &d}.String())
	assert.Equal(t, "KeyboardInput(2, KeyA Character(\"a\") Pressed)",
		KeyboardInput{Window: 2, KeyCode: input.KeyA, LogicalKey: input.Character{Text: "a"}, State: input.Pressed}.String())
	assert.Equal(t, "TouchInput(3, id 7 Ended 1.0,2.0)",
		TouchInput{Window: 3, ID: 7, Phase: input.TouchEnded, Position: scene.Vec2{X: 1, Y: 2}}.String())
}
