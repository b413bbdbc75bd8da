// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package basicset

import (
	"github.com/db47h/simcir"
)

// SwitchKind is the kind of a switch.
//
type SwitchKind int

// Switch kinds.
const (
	PushOn  SwitchKind = iota // closed while pressed
	PushOff                   // open while pressed
	Toggle                    // flips on every press
)

// A Switch is the controller of PushOn, PushOff and Toggle devices. When the
// switch is on, its output follows its input; otherwise the output is Unset.
//
type Switch struct {
	kind    SwitchKind
	on      bool
	in, out *simcir.Node
}

// On returns true if the switch is closed.
//
func (s *Switch) On() bool { return s.on }

// Press presses the switch button.
//
func (s *Switch) Press() {
	switch s.kind {
	case PushOn:
		s.on = true
	case PushOff:
		s.on = false
	case Toggle:
		s.on = !s.on
	}
	s.update()
}

// Release releases the switch button. Toggle switches keep their state.
//
func (s *Switch) Release() {
	switch s.kind {
	case PushOn:
		s.on = false
	case PushOff:
		s.on = true
	}
	s.update()
}

// Click presses and releases the switch.
//
func (s *Switch) Click() {
	s.Press()
	s.Release()
}

func (s *Switch) update() {
	if s.on {
		s.out.SetValue(s.in.Value())
	} else {
		s.out.SetValue(simcir.Unset)
	}
}

func switchMount(kind SwitchKind) simcir.MountFn {
	return func(d *simcir.Device) error {
		s := &Switch{
			kind: kind,
			on:   kind == PushOff,
			in:   d.AddInput("", ""),
			out:  d.AddOutput("", ""),
		}
		if kind == Toggle {
			s.on = state(d, "on", false)
			d.SetStateFunc(func() map[string]any { return map[string]any{"on": s.on} })
		}
		d.OnInputChange(func() {
			if s.on {
				s.out.SetValue(s.in.Value())
			}
		})
		d.SetController(s)
		s.update()
		return nil
	}
}
