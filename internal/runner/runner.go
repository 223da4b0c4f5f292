// Package runner drives the bridge: one loop interleaves bounded protocol
// dispatch with host ticks and the reconciliation passes.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/wlscene/internal/event"
	"github.com/bnema/wlscene/internal/logger"
	"github.com/bnema/wlscene/internal/reconcile"
	"github.com/bnema/wlscene/internal/scene"
	"github.com/bnema/wlscene/internal/surface"
)

var (
	// ErrNoPrimaryWindow means the host started without a primary window.
	ErrNoPrimaryWindow = errors.New("no primary window")
	// ErrMultiplePrimaryWindows means more than one window is marked primary.
	ErrMultiplePrimaryWindows = errors.New("multiple primary windows")
)

// DefaultFrameRate bounds each dispatch to one frame at 60Hz.
const DefaultFrameRate = 60

// Dispatcher runs protocol handlers for incoming server messages.
type Dispatcher interface {
	// Dispatch waits at most timeout for messages, then runs the handlers
	// for everything received.
	Dispatch(timeout time.Duration) error
}

// Host is the application driven by the loop.
type Host interface {
	event.Sink
	World() *scene.World
	// Ready reports whether the host finished its startup sequence.
	Ready() bool
	// Update runs one host tick.
	Update() error
	// ExitRequested reports whether the host asked the loop to stop.
	ExitRequested() bool
}

// Options tunes a Runner.
type Options struct {
	// FrameRate sets the dispatch bound to 1/FrameRate seconds.
	FrameRate int
	// Quarantine receives removed handles; nil allocates one.
	Quarantine *surface.Quarantine
}

// Runner owns the loop state.
type Runner struct {
	dispatcher Dispatcher
	host       Host
	registry   *surface.Registry
	events     *event.Buffer
	quarantine *surface.Quarantine
	systems    *reconcile.Systems
	frame      time.Duration
	iterations uint64
}

// New wires a runner. events must be the buffer the protocol handlers push
// into.
func New(d Dispatcher, host Host, registry *surface.Registry, events *event.Buffer, opts Options) *Runner {
	rate := opts.FrameRate
	if rate <= 0 {
		rate = DefaultFrameRate
	}
	q := opts.Quarantine
	if q == nil {
		q = &surface.Quarantine{}
	}
	return &Runner{
		dispatcher: d,
		host:       host,
		registry:   registry,
		events:     events,
		quarantine: q,
		systems:    reconcile.New(registry, q, events),
		frame:      time.Second / time.Duration(rate),
	}
}

// FramePeriod returns the dispatch bound.
func (r *Runner) FramePeriod() time.Duration {
	return r.frame
}

// Iterations returns how many loop iterations completed.
func (r *Runner) Iterations() uint64 {
	return r.iterations
}

// CheckPrimary verifies the world holds exactly one primary window.
func CheckPrimary(w *scene.World) error {
	var n int
	for _, e := range scene.Each[scene.Primary](w) {
		if scene.Has[scene.Window](w, e) {
			n++
		}
	}
	switch {
	case n == 0:
		return ErrNoPrimaryWindow
	case n > 1:
		return fmt.Errorf("%w: found %d", ErrMultiplePrimaryWindows, n)
	}
	return nil
}

// Run loops until the host requests exit or ctx is cancelled. Both are
// observed only between iterations, never mid-dispatch. Fatal conditions
// are returned; a requested exit returns nil.
func (r *Runner) Run(ctx context.Context) error {
	if err := CheckPrimary(r.host.World()); err != nil {
		return err
	}
	logger.Debugf("Run loop started, frame period %s", r.frame)

	for {
		if ctx.Err() != nil || r.host.ExitRequested() {
			return r.shutdown()
		}
		if err := r.Step(); err != nil {
			return err
		}
	}
}

// Step runs one loop iteration.
func (r *Runner) Step() error {
	w := r.host.World()

	if err := r.quarantine.Drain(); err != nil {
		return fmt.Errorf("dispose surfaces: %w", err)
	}
	if err := r.systems.Create(w); err != nil {
		return err
	}
	if err := r.dispatcher.Dispatch(r.frame); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	r.events.Flush(r.host)

	if r.host.Ready() {
		if err := r.host.Update(); err != nil {
			return fmt.Errorf("host update: %w", err)
		}
		if err := r.systems.ApplySettings(w); err != nil {
			return err
		}
		if err := r.systems.Destroy(w); err != nil {
			return err
		}
	}

	w.Compact(r.systems.Oldest())
	w.Advance()
	r.iterations++
	return nil
}

// shutdown tells every open window it is closing, delivers that to the host,
// then releases every native surface.
func (r *Runner) shutdown() error {
	w := r.host.World()
	r.systems.NotifyClosing(w)
	r.events.Flush(r.host)

	// Children go before the layer surfaces they are attached to.
	var layers []surface.Handle
	for _, e := range r.registry.Entities() {
		h, ok := r.registry.Remove(e)
		if !ok {
			continue
		}
		if h.IsChild() {
			r.quarantine.Push(h)
		} else {
			layers = append(layers, h)
		}
	}
	for _, h := range layers {
		r.quarantine.Push(h)
	}
	if err := r.quarantine.Drain(); err != nil {
		return fmt.Errorf("dispose surfaces: %w", err)
	}
	logger.Debugf("Run loop stopped after %d iterations", r.iterations)
	return nil
}
