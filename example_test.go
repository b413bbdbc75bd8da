package simcir_test

import (
	"fmt"
	"strings"

	"github.com/db47h/simcir"
	"github.com/db47h/simcir/basicset"
)

// A half adder driven by two toggle switches.
func Example() {
	reg := simcir.NewRegistry()
	if err := basicset.Register(reg); err != nil {
		panic(err)
	}
	desc, err := simcir.ParseJSON(strings.NewReader(`{
		"devices": [
			{"type": "DC", "id": "dc"},
			{"type": "Toggle", "id": "a"},
			{"type": "Toggle", "id": "b"},
			{"type": "XOR", "id": "sum"},
			{"type": "AND", "id": "carry"}
		],
		"connectors": [
			{"from": "a.in0", "to": "dc.out0"},
			{"from": "b.in0", "to": "dc.out0"},
			{"from": "sum.in0", "to": "a.out0"},
			{"from": "sum.in1", "to": "b.out0"},
			{"from": "carry.in0", "to": "a.out0"},
			{"from": "carry.in1", "to": "b.out0"}
		]
	}`))
	if err != nil {
		panic(err)
	}
	c, err := simcir.NewCircuit(reg, desc)
	if err != nil {
		panic(err)
	}
	defer c.Do(c.Dispose)

	a := c.Device("a").Controller().(*basicset.Switch)
	b := c.Device("b").Controller().(*basicset.Switch)
	sum, carry := c.Device("sum").Out(0), c.Device("carry").Out(0)
	for _, sw := range []*basicset.Switch{nil, a, b, a} {
		if sw != nil {
			sw.Press()
		}
		if err := c.Flush(); err != nil {
			panic(err)
		}
		fmt.Printf("a=%v b=%v => sum=%v carry=%v\n", a.On(), b.On(), sum.Value(), carry.Value())
	}

	// Output:
	// a=false b=false => sum=- carry=-
	// a=true b=false => sum=1 carry=-
	// a=true b=true => sum=- carry=1
	// a=false b=true => sum=1 carry=-
}
