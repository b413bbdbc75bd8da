// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package basicset provides the primitive devices of the simulator: sources,
// switches, logic gates, displays, buses and probes.
//
// Register installs all of them in a registry:
//
//	reg := simcir.NewRegistry()
//	basicset.Register(reg)
//
package basicset

import (
	"github.com/db47h/simcir"
	"github.com/pkg/errors"
)

// MaxNodes is the maximum input or output count of a device.
const MaxNodes = 256

var (
	errNodeCount    = errors.New("node count must be positive")
	errTooManyNodes = errors.Errorf("node count must not exceed %d", MaxNodes)
)

// Specs returns the specs of all the devices in the basic set, in toolbox
// order.
//
func Specs() []*simcir.DeviceSpec {
	specs := []*simcir.DeviceSpec{
		{Type: "DC", Doc: "Direct current source", Mount: mountDC},
		{Type: "LED", Doc: "Light emitting diode", Mount: mountLED},
		{Type: "PushOff", Doc: "Push button, released when pushed", Mount: switchMount(PushOff)},
		{Type: "PushOn", Doc: "Push button, closed when pushed", Mount: switchMount(PushOn)},
		{Type: "Toggle", Doc: "Toggle switch", Mount: switchMount(Toggle)},
	}
	specs = append(specs, gates...)
	specs = append(specs,
		&simcir.DeviceSpec{Type: "OSC", Doc: "Oscillator", Mount: mountOSC},
		&simcir.DeviceSpec{Type: "7seg", Doc: "7 segment display", Mount: segMount(Segments7)},
		&simcir.DeviceSpec{Type: "16seg", Doc: "16 segment display", Mount: segMount(Segments16)},
		hex7SegSpec(),
		&simcir.DeviceSpec{Type: "RotaryEncoder", Doc: "Rotary encoder", Mount: mountEncoder},
		&simcir.DeviceSpec{Type: "BusIn", Doc: "Bus splitter", Mount: mountBusIn},
		&simcir.DeviceSpec{Type: "BusOut", Doc: "Bus joiner", Mount: mountBusOut},
		&simcir.DeviceSpec{Type: "NumSrc", Doc: "Numbered source", Mount: mountNumSrc},
		&simcir.DeviceSpec{Type: "NumDsp", Doc: "Numbered display", Mount: mountNumDsp},
		&simcir.DeviceSpec{Type: "DSO", Doc: "Digital storage oscilloscope", Mount: mountDSO},
	)
	return specs
}

// Register registers all the devices of the basic set in r.
//
func Register(r *simcir.Registry) error {
	return r.Register(Specs()...)
}

// nodeCount returns the node count parameter name of d. Values below lo are
// raised to lo. Zero, negative values and values above MaxNodes are an error.
//
func nodeCount(d *simcir.Device, name string, def, lo int) (int, error) {
	n, err := d.IntParam(name, def)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, &simcir.InvalidConfigurationError{Type: d.Type(), Param: name, Value: n, Err: errNodeCount}
	}
	if n > MaxNodes {
		return 0, &simcir.InvalidConfigurationError{Type: d.Type(), Param: name, Value: n, Err: errTooManyNodes}
	}
	return max(n, lo), nil
}

// fixedSize returns a size function for devices with a fixed footprint.
//
func fixedSize(w, h float64) func() simcir.Size {
	return func() simcir.Size { return simcir.Size{Width: w, Height: h} }
}

// wideSize returns a size function for devices w units wide with the default
// height.
//
func wideSize(d *simcir.Device, w float64) func() simcir.Size {
	return func() simcir.Size { return d.DefaultSize(w) }
}

// state reads a persisted state value of type T, with a default.
//
func state[T any](d *simcir.Device, key string, def T) T {
	if v, ok := d.StateValue(key).(T); ok {
		return v
	}
	return def
}

// direction reads a persisted direction; JSON numbers decode as float64,
// YAML ones as int.
//
func direction(d *simcir.Device, def int) int {
	switch v := d.StateValue("direction").(type) {
	case float64:
		return int(v) & 3
	case int:
		return v & 3
	}
	return def
}
