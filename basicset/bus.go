// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package basicset

import (
	"strconv"

	"github.com/db47h/simcir"
)

// BusIn splits a bus value into individual lines.
//
//	Inputs: bus
//	Outputs: out0..outN-1 (numOutputs, default 8)
//	Function: out[i] = bus[i]
//
func mountBusIn(d *simcir.Device) error {
	n, err := nodeCount(d, "numOutputs", 8, 2)
	if err != nil {
		return err
	}
	d.SetHalfPitch(true)
	in := d.AddInput("", "x"+strconv.Itoa(n))
	outs := make([]*simcir.Node, n)
	for i := range outs {
		outs[i] = d.AddOutput("", "")
	}
	d.OnInputChange(func() {
		v := in.Value()
		for i, o := range outs {
			o.SetValue(v.Line(i))
		}
	})
	return nil
}

// BusOut joins individual lines into a bus value. The output is Unset when no
// line is hot.
//
//	Inputs: in0..inN-1 (numInputs, default 8)
//	Outputs: bus
//	Function: bus = [in0, in1, ...]
//
func mountBusOut(d *simcir.Device) error {
	n, err := nodeCount(d, "numInputs", 8, 2)
	if err != nil {
		return err
	}
	d.SetHalfPitch(true)
	ins := make([]*simcir.Node, n)
	for i := range ins {
		ins[i] = d.AddInput("", "")
	}
	out := d.AddOutput("", "x"+strconv.Itoa(n))
	d.OnInputChange(func() {
		lines := make([]simcir.Value, n)
		for i, in := range ins {
			lines[i] = in.Value()
		}
		out.SetValue(simcir.Bus(lines...))
	})
	return nil
}
