package event

// Sink receives events flushed from a Buffer.
type Sink interface {
	Send(Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Event)

func (f SinkFunc) Send(e Event) { f(e) }

// Buffer is the ordered queue shared by the protocol handlers and the run
// loop. It is only touched from the loop's goroutine and is not safe for
// concurrent use.
type Buffer struct {
	events []Event
}

// Push appends an event.
func (b *Buffer) Push(e Event) {
	b.events = append(b.events, e)
}

// Len returns the number of queued events.
func (b *Buffer) Len() int {
	return len(b.events)
}

// Drain removes and returns every queued event in push order.
func (b *Buffer) Drain() []Event {
	out := b.events
	b.events = nil
	return out
}

// Flush sends every queued event to sink in push order and returns how many
// were sent.
func (b *Buffer) Flush(sink Sink) int {
	events := b.Drain()
	for _, e := range events {
		sink.Send(e)
	}
	return len(events)
}

// Recorder is a Sink that keeps everything it receives.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Send(e Event) {
	r.Events = append(r.Events, e)
}

// Reset forgets recorded events.
func (r *Recorder) Reset() {
	r.Events = nil
}

// Of returns the recorded events of type T, in order.
func Of[T Event](r *Recorder) []T {
	var out []T
	for _, e := range r.Events {
		if t, ok := e.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
