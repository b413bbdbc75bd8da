// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package simtest provides utility functions for testing devices.
//
package simtest

import (
	"strconv"
	"testing"

	"github.com/db47h/simcir"
	"github.com/stretchr/testify/require"
)

// A Harness wraps a single device under test in a live circuit. Each input of
// the device is driven by an In device whose output is set directly by the
// test.
//
type Harness struct {
	t       testing.TB
	C       *simcir.Circuit
	Dev     *simcir.Device
	drivers []*simcir.Node
}

// DUT is the id of the device under test in the harness circuit.
const DUT = "dut"

// New builds a harness around a device created from def. The harness is
// disposed when the test ends.
//
func New(t testing.TB, reg *simcir.Registry, def simcir.DeviceDef, opts ...simcir.Option) *Harness {
	t.Helper()

	c, err := simcir.NewCircuit(reg, &simcir.Description{Devices: []simcir.DeviceDef{withID(def, DUT)}}, opts...)
	require.NoError(t, err)
	h := &Harness{t: t, C: c, Dev: c.Device(DUT)}
	for i := range h.Dev.Inputs() {
		d, err := c.AddDevice(simcir.DeviceDef{Type: simcir.TypeIn, ID: "in" + strconv.Itoa(i)})
		require.NoError(t, err)
		require.NoError(t, simcir.Connect(d.Out(0), h.Dev.In(i)))
		h.drivers = append(h.drivers, d.Out(0))
	}
	t.Cleanup(func() { c.Do(c.Dispose) })
	h.Settle()
	return h
}

func withID(def simcir.DeviceDef, id string) simcir.DeviceDef {
	def.ID = id
	return def
}

// NumInputs returns the input count of the device under test.
//
func (h *Harness) NumInputs() int { return len(h.drivers) }

// NumOutputs returns the output count of the device under test.
//
func (h *Harness) NumOutputs() int { return len(h.Dev.Outputs()) }

// Set sets the value driven into input i.
//
func (h *Harness) Set(i int, v simcir.Value) {
	h.drivers[i].SetValue(v)
}

// SetBits drives input i Hot if bit i of bits is set, Unset otherwise.
//
func (h *Harness) SetBits(bits uint64) {
	for i, d := range h.drivers {
		d.SetValue(simcir.Bool(bits&(1<<uint(i)) != 0))
	}
}

// Settle drains the event queue until the circuit settles. It fails the test
// if the circuit does not settle.
//
func (h *Harness) Settle() {
	h.t.Helper()
	require.NoError(h.t, h.C.Flush())
}

// Apply sets the inputs from bits, settles the circuit and returns the outputs
// as bits.
//
func (h *Harness) Apply(bits uint64) uint64 {
	h.t.Helper()
	h.SetBits(bits)
	h.Settle()
	return h.OutBits()
}

// Out returns the value of output i.
//
func (h *Harness) Out(i int) simcir.Value {
	return h.Dev.Out(i).Value()
}

// Outputs returns the values of all outputs.
//
func (h *Harness) Outputs() []simcir.Value {
	vs := make([]simcir.Value, h.NumOutputs())
	for i := range vs {
		vs[i] = h.Out(i)
	}
	return vs
}

// OutBits returns the outputs as bits: bit i is set if output i is hot.
//
func (h *Harness) OutBits() uint64 {
	var b uint64
	for i, o := range h.Dev.Outputs() {
		if o.Value().IsHot() {
			b |= 1 << uint(i)
		}
	}
	return b
}
