// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package basicset

import (
	"github.com/db47h/simcir"
)

// a gate folds its inputs with op, then applies out to the result. Unary gates
// have a nil op.
type gate struct {
	op  func(a, b int) int
	out func(b int) int
}

func (g gate) mount(d *simcir.Device) error {
	n := 1
	if g.op != nil {
		var err error
		if n, err = nodeCount(d, "numInputs", 2, 2); err != nil {
			return err
		}
	}
	d.SetHalfPitch(n > 2)
	ins := make([]*simcir.Node, n)
	for i := range ins {
		ins[i] = d.AddInput("", "")
	}
	out := d.AddOutput("", "")
	d.OnInputChange(func() {
		b := ins[0].Value().Int()
		if g.op != nil {
			for _, in := range ins[1:] {
				b = g.op(b, in.Value().Int())
			}
		}
		out.SetValue(simcir.Bool(g.out(b) == 1))
	})
	return nil
}

func newGate(typ, doc string, op func(a, b int) int, out func(int) int, deprecated bool) *simcir.DeviceSpec {
	return &simcir.DeviceSpec{
		Type:       typ,
		Doc:        doc,
		Deprecated: deprecated,
		Mount:      gate{op, out}.mount,
	}
}

func opAnd(a, b int) int { return a & b }
func opOr(a, b int) int  { return a | b }
func opXor(a, b int) int { return a ^ b }
func buf(b int) int      { return b }
func not(b int) int      { return 1 - b }

// Logic gates. All gates but BUF and NOT accept a numInputs parameter
// (default and minimum 2). Unset inputs read as 0; outputs are Hot or Unset.
//
//	BUF:  out = in
//	NOT:  out = !in
//	AND:  out = in0 && in1 && ...
//	NAND: out = !(in0 && in1 && ...)
//	OR:   out = in0 || in1 || ...
//	NOR:  out = !(in0 || in1 || ...)
//	XOR:  out = in0 ^ in1 ^ ...
//	XNOR: out = !(in0 ^ in1 ^ ...)
//
// EOR and ENOR are deprecated aliases of XOR and XNOR.
//
var gates = []*simcir.DeviceSpec{
	newGate("BUF", "Buffer", nil, buf, false),
	newGate("NOT", "Inverter", nil, not, false),
	newGate("AND", "AND gate", opAnd, buf, false),
	newGate("NAND", "NAND gate", opAnd, not, false),
	newGate("OR", "OR gate", opOr, buf, false),
	newGate("NOR", "NOR gate", opOr, not, false),
	newGate("XOR", "XOR gate", opXor, buf, false),
	newGate("XNOR", "XNOR gate", opXor, not, false),
	newGate("EOR", "XOR gate", opXor, buf, true),
	newGate("ENOR", "XNOR gate", opXor, not, true),
}
