package handlers

import (
	"fmt"
	"sort"

	"github.com/bnema/wlscene/internal/logger"
)

// wl_seat capability bits.
const (
	CapPointer  uint32 = 1
	CapKeyboard uint32 = 2
	CapTouch    uint32 = 4
)

// Device is a bound seat device.
type Device interface {
	Release() error
}

// DeviceBinder binds seat devices on the live connection.
type DeviceBinder interface {
	BindKeyboard() (Device, error)
	BindPointer() (Device, error)
	BindTouch() (Device, error)
}

// SeatCapabilities binds each advertised device once and releases devices
// whose capability went away.
func (s *State) SeatCapabilities(caps uint32) {
	if s.binder == nil {
		return
	}
	s.keyboard = s.syncDevice("keyboard", caps&CapKeyboard != 0, s.keyboard, s.binder.BindKeyboard)
	s.pointer = s.syncDevice("pointer", caps&CapPointer != 0, s.pointer, s.binder.BindPointer)
	prevTouch := s.touch
	s.touch = s.syncDevice("touch", caps&CapTouch != 0, s.touch, s.binder.BindTouch)
	if prevTouch != nil && s.touch == nil {
		// Points still down on a released device can never finish.
		s.TouchCancel()
	}
	if s.keyboard == nil {
		s.hasFocus = false
	}
}

func (s *State) syncDevice(name string, present bool, dev Device, bind func() (Device, error)) Device {
	switch {
	case present && dev == nil:
		d, err := bind()
		if err != nil {
			logger.Warnf("Failed to bind %s: %v", name, err)
			return nil
		}
		logger.Debugf("Bound seat %s", name)
		return d
	case !present && dev != nil:
		if err := dev.Release(); err != nil {
			logger.Warnf("Failed to release %s: %v", name, err)
		}
		logger.Debugf("Released seat %s", name)
		return nil
	}
	return dev
}

// Devices lists the bound seat devices by name.
func (s *State) Devices() []string {
	var names []string
	if s.keyboard != nil {
		names = append(names, "keyboard")
	}
	if s.pointer != nil {
		names = append(names, "pointer")
	}
	if s.touch != nil {
		names = append(names, "touch")
	}
	return names
}

// Output describes a wl_output as last reported by the compositor.
type Output struct {
	ID          uint32
	Name        string
	Description string
	Make        string
	Model       string
	Width       int32
	Height      int32
	RefreshMHz  int32
	Scale       int32
}

func (o Output) String() string {
	name := o.Name
	if name == "" {
		name = fmt.Sprintf("output-%d", o.ID)
	}
	return fmt.Sprintf("%s %dx%d@%.2fHz scale %d", name, o.Width, o.Height, float64(o.RefreshMHz)/1000, o.Scale)
}

// OutputUpdated adds or replaces an output.
func (s *State) OutputUpdated(o Output) {
	if _, ok := s.outputs[o.ID]; !ok {
		logger.Debug("Output added", "id", o.ID, "name", o.Name)
	}
	s.outputs[o.ID] = o
}

// OutputRemoved forgets an output.
func (s *State) OutputRemoved(id uint32) {
	if _, ok := s.outputs[id]; !ok {
		return
	}
	delete(s.outputs, id)
	logger.Debug("Output removed", "id", id)
}

// Outputs returns the known outputs ordered by id.
func (s *State) Outputs() []Output {
	out := make([]Output, 0, len(s.outputs))
	for _, o := range s.outputs {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
