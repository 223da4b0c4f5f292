package wayland

import (
	"io"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rajveermalviya/go-wayland/wayland/client"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wlscene/internal/protocols"
)

// fakeCompositor is the server end of a Wayland socket. It answers the
// requests the client makes while connecting, binding and creating layer
// surfaces, and lets tests inject events.
type fakeCompositor struct {
	t    *testing.T
	path string
	ln   *net.UnixListener

	mu       sync.Mutex
	conn     *net.UnixConn
	registry uint32
	globals  []Global
	objects  map[uint32]string // object id -> interface
	caps     uint32
	surfaces []uint32
	layers   []uint32
	pointer  uint32
}

const (
	fakeCompositorName = 1
	fakeSeatName       = 2
	fakeLayerShellName = 3
)

func newFakeCompositor(t *testing.T) *fakeCompositor {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wl")
	ln, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	require.NoError(t, err)

	f := &fakeCompositor{
		t:       t,
		path:    path,
		ln:      ln,
		objects: map[uint32]string{1: "wl_display"},
		caps:    1, // pointer
		globals: []Global{
			{Name: fakeCompositorName, Interface: compositorInterface, Version: 4},
			{Name: fakeSeatName, Interface: seatInterface, Version: 5},
			{Name: fakeLayerShellName, Interface: protocols.LayerShellInterfaceName, Version: 4},
		},
	}
	t.Cleanup(f.close)
	go f.serve()
	return f
}

func (f *fakeCompositor) close() {
	_ = f.ln.Close()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn != nil {
		_ = f.conn.Close()
	}
}

func (f *fakeCompositor) serve() {
	conn, err := f.ln.AcceptUnix()
	if err != nil {
		return
	}
	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()

	header := make([]byte, 8)
	for {
		if _, err := io.ReadFull(conn, header); err != nil {
			return
		}
		sender := client.Uint32(header[:4])
		word := client.Uint32(header[4:])
		body := make([]byte, int(word>>16)-8)
		if _, err := io.ReadFull(conn, body); err != nil {
			return
		}
		f.request(sender, word&0xffff, body)
	}
}

func (f *fakeCompositor) request(sender, opcode uint32, body []byte) {
	f.mu.Lock()
	iface := f.objects[sender]
	f.mu.Unlock()

	switch {
	case iface == "wl_display" && opcode == 0: // sync
		f.send(client.Uint32(body), 0, 1)
	case iface == "wl_display" && opcode == 1: // get_registry
		id := client.Uint32(body)
		f.mu.Lock()
		f.registry = id
		f.objects[id] = "wl_registry"
		globals := append([]Global(nil), f.globals...)
		f.mu.Unlock()
		for _, g := range globals {
			f.SendGlobal(g)
		}
	case iface == "wl_registry" && opcode == 0: // bind
		n := client.PaddedLen(int(client.Uint32(body[4:8])))
		bound := client.String(body[8 : 8+n])
		id := client.Uint32(body[8+n+4:])
		f.mu.Lock()
		f.objects[id] = bound
		caps := f.caps
		f.mu.Unlock()
		if bound == seatInterface {
			f.send(id, 0, caps)
		}
	case iface == compositorInterface && opcode == 0: // create_surface
		f.track(client.Uint32(body), "wl_surface", &f.surfaces)
	case iface == protocols.LayerShellInterfaceName && opcode == 0: // get_layer_surface
		f.track(client.Uint32(body), protocols.LayerSurfaceInterfaceName, &f.layers)
	case iface == seatInterface && opcode == 0: // get_pointer
		id := client.Uint32(body)
		f.mu.Lock()
		f.objects[id] = "wl_pointer"
		f.pointer = id
		f.mu.Unlock()
	}
}

func (f *fakeCompositor) track(id uint32, iface string, ids *[]uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[id] = iface
	*ids = append(*ids, id)
}

// send writes one event whose arguments are all 32-bit words.
func (f *fakeCompositor) send(sender, opcode uint32, args ...uint32) {
	buf := make([]byte, 8+4*len(args))
	client.PutUint32(buf[0:4], sender)
	client.PutUint32(buf[4:8], uint32(len(buf)<<16)|opcode)
	for i, a := range args {
		client.PutUint32(buf[8+4*i:], a)
	}
	f.write(buf)
}

func (f *fakeCompositor) write(buf []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn == nil {
		return
	}
	_ = f.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	_, _ = f.conn.Write(buf)
}

// stringArg encodes s as a wire string argument.
func stringArg(s string) []byte {
	n := client.PaddedLen(len(s) + 1)
	buf := make([]byte, 4+n)
	client.PutString(buf, s, len(s)+1)
	return buf
}

// SendGlobal advertises g on the registry.
func (f *fakeCompositor) SendGlobal(g Global) {
	f.mu.Lock()
	registry := f.registry
	f.mu.Unlock()

	iface := stringArg(g.Interface)
	buf := make([]byte, 8+4+len(iface)+4)
	client.PutUint32(buf[0:4], registry)
	client.PutUint32(buf[4:8], uint32(len(buf)<<16)|0)
	client.PutUint32(buf[8:12], g.Name)
	copy(buf[12:], iface)
	client.PutUint32(buf[12+len(iface):], g.Version)
	f.write(buf)
}

// SendError posts wl_display.error against object.
func (f *fakeCompositor) SendError(object, code uint32, msg string) {
	text := stringArg(msg)
	buf := make([]byte, 8+4+4+len(text))
	client.PutUint32(buf[0:4], 1)
	client.PutUint32(buf[4:8], uint32(len(buf)<<16)|0)
	client.PutUint32(buf[8:12], object)
	client.PutUint32(buf[12:16], code)
	copy(buf[16:], text)
	f.write(buf)
}

// SendPointerLeave sends wl_pointer.leave for surface followed by a frame.
func (f *fakeCompositor) SendPointerLeave(surface uint32) {
	f.mu.Lock()
	pointer := f.pointer
	f.mu.Unlock()
	f.send(pointer, 1, 7, surface)
	f.send(pointer, 5)
}

func (f *fakeCompositor) lastLayer() (uint32, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.layers) == 0 {
		return 0, false
	}
	return f.layers[len(f.layers)-1], true
}

func (f *fakeCompositor) lastSurface() (uint32, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.surfaces) == 0 {
		return 0, false
	}
	return f.surfaces[len(f.surfaces)-1], true
}

func (f *fakeCompositor) pointerID() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pointer
}
