// Package wayland is the live display backend: it owns the compositor
// connection, allocates native surfaces for the registry and forwards seat,
// output and surface callbacks to the protocol handlers.
//
// Protocol messages are read on a pump goroutine and queued undecoded on a
// mailbox. Dispatch looks up the addressed proxy and runs its callbacks on
// the caller's goroutine, so the proxy table and handler state are only
// ever touched by the run loop.
package wayland

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rajveermalviya/go-wayland/wayland/client"

	"github.com/bnema/wlscene/internal/handlers"
	"github.com/bnema/wlscene/internal/logger"
	"github.com/bnema/wlscene/internal/protocols"
	"github.com/bnema/wlscene/internal/surface"
)

// Interface names of the core globals, as advertised by wl_registry.global.
const (
	compositorInterface    = "wl_compositor"
	subcompositorInterface = "wl_subcompositor"
	seatInterface          = "wl_seat"
	outputInterface        = "wl_output"
)

// ErrNotConnected is returned by operations on a closed client.
var ErrNotConnected = errors.New("not connected to a Wayland display")

// Global is a protocol global advertised by the compositor.
type Global struct {
	Name      uint32
	Interface string
	Version   uint32
}

// Options configures a Client.
type Options struct {
	// Display is the socket name; empty means $WAYLAND_DISPLAY.
	Display string
	// Namespace is passed to the compositor for every layer surface.
	Namespace string
	// MailboxSize bounds the number of messages queued between dispatches.
	MailboxSize int
}

// Client is a connection to a Wayland compositor.
type Client struct {
	name      string
	namespace string

	display  *client.Display
	ctx      *client.Context
	registry *client.Registry

	globals map[uint32]Global

	compositor    *client.Compositor
	subcompositor *client.Subcompositor
	layerShell    *protocols.LayerShell
	layerVersion  uint32
	seat          *client.Seat
	seatName      string

	outputs  map[uint32]*output // keyed by global name
	byProxy  map[uint32]uint32  // output proxy id -> global name
	surfaces map[surface.ID]*surfaceState

	handlers *handlers.State

	mailbox chan message
	errc    chan error
	done    chan struct{}
	// fatal is set by wl_display.error.
	fatal error

	// pointer frame accumulation
	pointerFocus surface.ID
	frame        []handlers.PointerEvent
	framed       bool
}

// DefaultMailboxSize is used when Options.MailboxSize is zero.
const DefaultMailboxSize = 1024

// Connect opens the display and collects the advertised globals. No global
// is bound until Start or the first surface allocation.
func Connect(opts Options) (*Client, error) {
	name := resolveDisplayName(opts.Display, os.Getenv("WAYLAND_DISPLAY"))
	display, err := client.Connect(socketPath(opts.Display, os.Getenv("XDG_RUNTIME_DIR")))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Wayland display %q: %w", name, err)
	}

	size := opts.MailboxSize
	if size <= 0 {
		size = DefaultMailboxSize
	}
	ns := opts.Namespace
	if ns == "" {
		ns = "wlscene"
	}

	c := &Client{
		name:      name,
		namespace: ns,
		display:   display,
		ctx:       display.Context(),
		globals:   make(map[uint32]Global),
		outputs:   make(map[uint32]*output),
		byProxy:   make(map[uint32]uint32),
		surfaces:  make(map[surface.ID]*surfaceState),
		mailbox:   make(chan message, size),
		errc:      make(chan error, 1),
		done:      make(chan struct{}),
	}

	display.SetErrorHandler(func(e client.DisplayErrorEvent) {
		var object uint32
		if e.ObjectId != nil {
			object = e.ObjectId.ID()
		}
		c.fatal = fmt.Errorf("protocol error on object %d (code %d): %s", object, e.Code, e.Message)
	})

	registry, err := display.GetRegistry()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to get registry: %w", err)
	}
	c.registry = registry
	registry.SetGlobalHandler(func(e client.RegistryGlobalEvent) {
		c.globalAdded(Global{Name: e.Name, Interface: e.Interface, Version: e.Version})
	})
	registry.SetGlobalRemoveHandler(func(e client.RegistryGlobalRemoveEvent) {
		c.globalRemoved(e.Name)
	})

	if err := c.roundtrip(); err != nil {
		c.Close()
		return nil, fmt.Errorf("initial roundtrip: %w", err)
	}
	logger.Debugf("Connected to %s, %d globals advertised", name, len(c.globals))
	return c, nil
}

// resolveDisplayName returns the socket name a connection to requested
// lands on.
func resolveDisplayName(requested, env string) string {
	switch {
	case requested != "":
		return requested
	case env != "":
		return env
	default:
		return "wayland-0"
	}
}

// socketPath returns the path client.Connect dials. A bare socket name is
// relative to the runtime directory; empty lets go-wayland resolve
// $WAYLAND_DISPLAY.
func socketPath(display, runtimeDir string) string {
	if display == "" || filepath.IsAbs(display) {
		return display
	}
	return filepath.Join(runtimeDir, display)
}

// DisplayName returns the socket name of the connection.
func (c *Client) DisplayName() string {
	return c.name
}

// Start binds the seat and outputs, routes their callbacks to h and starts
// the pump goroutine. It must be called once, before the first Dispatch.
func (c *Client) Start(h *handlers.State) error {
	if c.ctx == nil {
		return ErrNotConnected
	}
	c.handlers = h
	for _, g := range c.Globals() {
		c.bindEager(g)
	}
	// Seat capabilities and output state arrive in response to the binds.
	if err := c.roundtrip(); err != nil {
		return fmt.Errorf("roundtrip after bind: %w", err)
	}
	go c.pump(c.ctx)
	return nil
}

// Globals returns the advertised globals ordered by name.
func (c *Client) Globals() []Global {
	out := make([]Global, 0, len(c.globals))
	for _, g := range c.globals {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SeatName returns the name the compositor gave the bound seat.
func (c *Client) SeatName() string {
	return c.seatName
}

func (c *Client) globalAdded(g Global) {
	c.globals[g.Name] = g
	if c.handlers != nil {
		// Hotplugged outputs and late seats.
		c.bindEager(g)
	}
}

func (c *Client) globalRemoved(name uint32) {
	g, ok := c.globals[name]
	if !ok {
		return
	}
	delete(c.globals, name)
	if g.Interface == outputInterface {
		c.removeOutput(name)
	}
}

// bindEager binds the globals whose events the handlers need from the
// start. Everything else is bound lazily.
func (c *Client) bindEager(g Global) {
	switch g.Interface {
	case seatInterface:
		if c.seat == nil {
			c.bindSeat(g)
		}
	case outputInterface:
		if _, ok := c.outputs[g.Name]; !ok {
			c.bindOutput(g)
		}
	}
}

// find returns the first advertised global implementing iface.
func (c *Client) find(iface string) (Global, bool) {
	for _, g := range c.Globals() {
		if g.Interface == iface {
			return g, true
		}
	}
	return Global{}, false
}

func (c *Client) ensureCompositor() (*client.Compositor, error) {
	if c.compositor != nil {
		return c.compositor, nil
	}
	g, ok := c.find(compositorInterface)
	if !ok {
		return nil, fmt.Errorf("%s: %w", compositorInterface, surface.ErrGlobalMissing)
	}
	comp := client.NewCompositor(c.ctx)
	if err := c.registry.Bind(g.Name, g.Interface, min(g.Version, 4), comp); err != nil {
		return nil, fmt.Errorf("bind %s: %w", g.Interface, err)
	}
	c.compositor = comp
	return comp, nil
}

func (c *Client) ensureSubcompositor() (*client.Subcompositor, error) {
	if c.subcompositor != nil {
		return c.subcompositor, nil
	}
	g, ok := c.find(subcompositorInterface)
	if !ok {
		return nil, fmt.Errorf("%s: %w", subcompositorInterface, surface.ErrGlobalMissing)
	}
	sub := client.NewSubcompositor(c.ctx)
	if err := c.registry.Bind(g.Name, g.Interface, 1, sub); err != nil {
		return nil, fmt.Errorf("bind %s: %w", g.Interface, err)
	}
	c.subcompositor = sub
	return sub, nil
}

func (c *Client) ensureLayerShell() (*protocols.LayerShell, uint32, error) {
	g, ok := c.find(protocols.LayerShellInterfaceName)
	if !ok {
		return nil, 0, fmt.Errorf("%s: %w", protocols.LayerShellInterfaceName, surface.ErrGlobalMissing)
	}
	version := min(g.Version, protocols.LayerShellMaxVersion)
	if c.layerShell != nil {
		return c.layerShell, version, nil
	}
	shell := protocols.NewLayerShell(c.ctx)
	if err := c.registry.Bind(g.Name, g.Interface, version, shell); err != nil {
		return nil, 0, fmt.Errorf("bind %s: %w", g.Interface, err)
	}
	c.layerShell = shell
	c.layerVersion = version
	return shell, version, nil
}

// roundtrip blocks until the compositor processed every request sent so
// far. Only valid before the pump starts.
func (c *Client) roundtrip() error {
	cb, err := c.display.Sync()
	if err != nil {
		return err
	}
	done := false
	cb.SetDoneHandler(func(client.CallbackDoneEvent) { done = true })
	defer cb.Destroy()
	for !done {
		m, err := c.read(c.ctx)
		if err != nil {
			return err
		}
		if err := c.deliver(m); err != nil {
			return err
		}
	}
	return nil
}

// Close stops the pump and closes the connection. Surfaces still alive are
// released by the compositor.
func (c *Client) Close() {
	if c.ctx == nil {
		return
	}
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	if c.layerShell != nil && c.layerVersion >= protocols.LayerShellDestroySinceVersion {
		if err := c.layerShell.Destroy(); err != nil {
			logger.Debugf("Failed to destroy layer shell: %v", err)
		}
	}
	if err := c.ctx.Close(); err != nil {
		logger.Debugf("Failed to close Wayland connection: %v", err)
	}
	c.ctx = nil
	c.display = nil
	c.registry = nil
}

// IsConnected reports whether Close has not been called.
func (c *Client) IsConnected() bool {
	return c.ctx != nil
}
