// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package basicset

import (
	"strings"

	"github.com/db47h/simcir"
)

// Default LED colors.
const (
	DefaultLEDColor   = "#ff0000"
	DefaultLEDBgColor = "#000000"
)

// A Lamp is the controller of LED and NumDsp devices.
//
type Lamp struct {
	in        *simcir.Node
	color     string
	direction int
}

// On returns true if the lamp input is hot.
//
func (l *Lamp) On() bool { return l.in.Value().IsHot() }

// Color returns the lamp color.
//
func (l *Lamp) Color() string { return l.color }

// Direction returns the direction of a NumDsp device.
//
func (l *Lamp) Direction() int { return l.direction }

func mountLED(d *simcir.Device) error {
	l := &Lamp{
		in:    d.AddInput("", ""),
		color: d.StringParam("color", DefaultLEDColor),
	}
	d.SetController(l)
	return nil
}

func mountNumDsp(d *simcir.Device) error {
	l := &Lamp{
		in:        d.AddInput("", ""),
		direction: direction(d, simcir.EW),
	}
	d.SetStateFunc(func() map[string]any { return map[string]any{"direction": l.direction} })
	d.SetSizeFunc(fixedSize(1, 1))
	d.SetController(l)
	return nil
}

// Segment sets. The trailing dot is the decimal point.
const (
	Segments7  = "abcdefg."
	Segments16 = "abcdefghijklmnop."
)

// A SegmentDisplay is the controller of 7seg and 16seg devices. Input i lights
// segment i of the display's segment set.
//
type SegmentDisplay struct {
	segs  string
	ins   []*simcir.Node
	color string
}

// Pattern returns the lit segments, in segment set order.
//
func (s *SegmentDisplay) Pattern() string {
	var b strings.Builder
	for i, in := range s.ins {
		if in.Value().IsHot() {
			b.WriteByte(s.segs[i])
		}
	}
	return b.String()
}

// Color returns the color of lit segments.
//
func (s *SegmentDisplay) Color() string { return s.color }

func segMount(segs string) simcir.MountFn {
	return func(d *simcir.Device) error {
		s := &SegmentDisplay{segs: segs, color: d.StringParam("color", DefaultLEDColor)}
		for i := 0; i < len(segs); i++ {
			s.ins = append(s.ins, d.AddInput(segs[i:i+1], ""))
		}
		d.SetHalfPitch(true)
		d.SetSizeFunc(wideSize(d, 4))
		d.SetController(s)
		return nil
	}
}

var hexPatterns = [16]string{
	"abcdef", "bc", "abdeg", "abcdg", "bcfg", "acdfg", "acdefg", "abc",
	"abcdefg", "abcdfg", "abcefg", "cdefg", "adef", "bcdeg", "adefg", "aefg",
}

// A Hex7Seg is the controller of 4bit7seg devices: a 7 segment display
// decoding the 4 bit value on its inputs (in0 is the least significant bit) as
// a hexadecimal digit.
//
type Hex7Seg struct {
	D [4]*simcir.Node `sim:"in,in"`

	value int
}

// Update implements simcir.Updater.
//
func (h *Hex7Seg) Update() {
	h.value = 0
	for i, in := range h.D {
		if in.Value().IsHot() {
			h.value |= 1 << i
		}
	}
}

// Value returns the decoded value.
//
func (h *Hex7Seg) Value() int { return h.value }

// Pattern returns the lit segments.
//
func (h *Hex7Seg) Pattern() string { return hexPatterns[h.value] }

func hex7SegSpec() *simcir.DeviceSpec {
	sp := simcir.MakeSpec("4bit7seg", (*Hex7Seg)(nil))
	sp.Doc = "4 bit hexadecimal 7 segment display"
	mount := sp.Mount
	sp.Mount = func(d *simcir.Device) error {
		if err := mount(d); err != nil {
			return err
		}
		d.SetSizeFunc(wideSize(d, 4))
		return nil
	}
	return sp
}
