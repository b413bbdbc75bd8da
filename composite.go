// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simcir

import (
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type compositeState int

const (
	uninitialized compositeState = iota
	subcircuitBuilt
	portsBound
	ready
)

func (s compositeState) String() string {
	switch s {
	case uninitialized:
		return "uninitialized"
	case subcircuitBuilt:
		return "subcircuit-built"
	case portsBound:
		return "ports-bound"
	case ready:
		return "ready"
	}
	return "compositeState(" + strconv.Itoa(int(s)) + ")"
}

// Side is the side of a custom layout footprint a port is placed on.
//
type Side byte

// Layout sides.
const (
	Top    Side = 'T'
	Bottom Side = 'B'
	Left   Side = 'L'
	Right  Side = 'R'
)

// A Slot is the position of a port in a custom layout: a side and an offset
// along that side, in half grid units.
//
type Slot struct {
	Side Side
	Pos  int
}

func (s Slot) String() string {
	return string(rune(s.Side)) + strconv.Itoa(s.Pos)
}

// ParseSlot parses a layout slot like "T3" or "L12".
//
func ParseSlot(s string) (Slot, error) {
	if len(s) < 2 {
		return Slot{}, errors.Errorf("invalid slot %q", s)
	}
	side := Side(s[0])
	switch side {
	case Top, Bottom, Left, Right:
	default:
		return Slot{}, errors.Errorf("invalid slot %q: unknown side", s)
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return Slot{}, errors.Errorf("invalid slot %q: bad position", s)
		}
	}
	pos, err := strconv.Atoi(s[1:])
	if err != nil {
		return Slot{}, errors.Wrapf(err, "invalid slot %q", s)
	}
	return Slot{side, pos}, nil
}

// A Port is an outer node of a composite device, bound to an In or Out device
// of its sub-circuit.
//
type Port struct {
	Node   *Node
	Label  string
	Slot   Slot // zero if the composite has no custom layout
	Marker *Device
}

// A Composite is the controller of a composite device.
//
type Composite struct {
	ports  []Port
	layout *Layout
}

// Ports returns the ports of the composite device, in node order: inputs and
// outputs interleaved the way the boundary markers were sorted.
//
func (c *Composite) Ports() []Port { return append([]Port(nil), c.ports...) }

// Layout returns the custom layout of the composite, or nil.
//
func (c *Composite) Layout() *Layout { return c.layout }

func compositeSpec(typ string, tmpl *Description) *DeviceSpec {
	return &DeviceSpec{
		Type: typ,
		Doc:  "Composite device",
		Mount: func(d *Device) error {
			return mountComposite(d, tmpl)
		},
	}
}

func mountComposite(d *Device, tmpl *Description) error {
	var (
		state = uninitialized
		log   = d.log.With(zap.String("composite", d.Type()))
	)
	setState := func(s compositeState) {
		state = s
		log.Debug("composite state", zap.Stringer("state", state))
	}

	sub, err := buildCircuit(d.reg, tmpl, d.q, log)
	if err != nil {
		return errors.Wrap(err, "build subcircuit")
	}
	setState(subcircuitBuilt)

	var markers []*Device
	for _, dev := range sub.devices {
		if t := dev.Type(); t == TypeIn || t == TypeOut {
			markers = append(markers, dev)
		}
	}

	ctl := &Composite{layout: tmpl.Layout}
	slots := make([]Slot, len(markers))
	if tmpl.Layout == nil {
		sort.SliceStable(markers, func(i, j int) bool {
			a, b := markers[i].def, markers[j].def
			if a.X == b.X {
				return a.Y < b.Y
			}
			return a.X < b.X
		})
	} else {
		for i, m := range markers {
			s, ok := tmpl.Layout.Nodes[m.def.Label]
			if !ok {
				sub.Dispose()
				return configError(d.Type(), "layout.nodes", m.def.Label, "no slot for port %s", m.id)
			}
			slot, err := ParseSlot(s)
			if err != nil {
				sub.Dispose()
				return &InvalidConfigurationError{Type: d.Type(), Param: "layout.nodes", Value: m.def.Label, Err: err}
			}
			slots[i] = slot
		}
	}

	for i, m := range markers {
		var p Port
		switch m.Type() {
		case TypeIn:
			inner, mo := m.In(0), m.Out(0)
			desc := ""
			if len(mo.fanout) > 0 {
				desc = mo.fanout[0].desc
			}
			outer := d.AddInput(m.def.Label, desc)
			if drv := inner.driver; drv != nil {
				if err := drv.DisconnectFrom(inner); err != nil {
					sub.Dispose()
					return err
				}
			}
			outer.OnChange(func() { mo.SetValue(outer.value) })
			p = Port{Node: outer, Label: m.def.Label, Slot: slots[i], Marker: m}
		case TypeOut:
			mi, mo := m.In(0), m.Out(0)
			desc := ""
			if mi.driver != nil {
				desc = mi.driver.desc
			}
			outer := d.AddOutput(m.def.Label, desc)
			for _, in := range mo.Fanout() {
				if err := mo.DisconnectFrom(in); err != nil {
					sub.Dispose()
					return err
				}
			}
			mi.OnChange(func() { outer.SetValue(mi.value) })
			p = Port{Node: outer, Label: m.def.Label, Slot: slots[i], Marker: m}
		}
		ctl.ports = append(ctl.ports, p)
	}
	setState(portsBound)

	if l := tmpl.Layout; l != nil {
		rows := (max(1, l.Rows) + 1) / 2 * 2
		cols := (max(1, l.Cols) + 1) / 2 * 2
		d.SetSizeFunc(func() Size { return Size{float64(cols) / 2, float64(rows) / 2} })
	} else {
		d.SetSizeFunc(func() Size { return defaultSize(d, 4) })
	}
	d.sub = sub
	d.SetController(ctl)
	setState(ready)
	return nil
}
