package wayland

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"github.com/rajveermalviya/go-wayland/wayland/client"

	"github.com/bnema/wlscene/internal/logger"
)

// message is one undecoded event as read from the socket.
type message struct {
	sender uint32
	opcode uint32
	fd     int
	data   []byte
}

func (c *Client) read(ctx *client.Context) (message, error) {
	sender, opcode, fd, data, err := ctx.ReadMsg()
	return message{sender: sender, opcode: opcode, fd: fd, data: data}, err
}

// pump reads raw messages until the connection fails or the client is
// closed. It never looks messages up or decodes them; the proxy table is
// only touched by the goroutine calling Dispatch.
func (c *Client) pump(ctx *client.Context) {
	for {
		m, err := c.read(ctx)
		if err != nil {
			select {
			case <-c.done:
			default:
				c.errc <- fmt.Errorf("read from compositor: %w", err)
			}
			return
		}
		select {
		case c.mailbox <- m:
		case <-c.done:
			closeFd(m.fd)
			return
		}
	}
}

// Dispatch waits at most timeout for the first message, then decodes and
// handles every message read so far. Connection and protocol errors are
// fatal.
func (c *Client) Dispatch(timeout time.Duration) error {
	if c.ctx == nil {
		return ErrNotConnected
	}
	return drain(c.mailbox, c.errc, timeout, c.deliver)
}

func drain(mailbox <-chan message, errc <-chan error, timeout time.Duration, deliver func(message) error) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case m := <-mailbox:
		if err := deliver(m); err != nil {
			return err
		}
	case err := <-errc:
		return err
	case <-timer.C:
		return nil
	}

	for {
		select {
		case m := <-mailbox:
			if err := deliver(m); err != nil {
				return err
			}
		case err := <-errc:
			return err
		default:
			return nil
		}
	}
}

// deliver hands m to the proxy it is addressed to. The compositor may still
// send events to an object the client already destroyed; those are dropped,
// and so is any message whose decoding fails on such an object argument.
func (c *Client) deliver(m message) error {
	d, ok := c.ctx.GetProxy(m.sender).(client.Dispatcher)
	if !ok {
		closeFd(m.fd)
		logger.Debug("Dropping event for unknown object", "object", m.sender, "opcode", m.opcode)
		return nil
	}
	c.dispatchTo(d, m)
	return c.fatal
}

func (c *Client) dispatchTo(d client.Dispatcher, m message) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Dropping undecodable event", "object", m.sender, "opcode", m.opcode, "error", r)
		}
	}()
	d.Dispatch(m.opcode, m.fd, m.data)
}

func closeFd(fd int) {
	if fd < 0 {
		return
	}
	if err := unix.Close(fd); err != nil {
		logger.Debugf("Failed to close fd %d: %v", fd, err)
	}
}
