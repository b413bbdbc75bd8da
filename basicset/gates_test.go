package basicset_test

import (
	"testing"

	"github.com/db47h/simcir"
	"github.com/db47h/simcir/basicset"
	"github.com/db47h/simcir/simtest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t testing.TB) *simcir.Registry {
	t.Helper()
	reg := simcir.NewRegistry()
	require.NoError(t, basicset.Register(reg))
	return reg
}

func def(typ string, params map[string]any) simcir.DeviceDef {
	return simcir.DeviceDef{Type: typ, Params: params}
}

func TestGates(t *testing.T) {
	reg := newRegistry(t)
	data := []struct {
		typ    string
		result []bool
	}{
		{"BUF", []bool{false, true}},
		{"NOT", []bool{true, false}},
		{"AND", []bool{false, false, false, true}},
		{"NAND", []bool{true, true, true, false}},
		{"OR", []bool{false, true, true, true}},
		{"NOR", []bool{true, false, false, false}},
		{"XOR", []bool{false, true, true, false}},
		{"XNOR", []bool{true, false, false, true}},
		{"EOR", []bool{false, true, true, false}},
		{"ENOR", []bool{true, false, false, true}},
	}
	for _, d := range data {
		t.Run(d.typ, func(t *testing.T) {
			simtest.TruthTable(t, reg, def(d.typ, nil), [][]bool{d.result})
		})
	}
}

func TestGates_numInputs(t *testing.T) {
	reg := newRegistry(t)
	three := map[string]any{"numInputs": 3}
	simtest.TruthTable(t, reg, def("AND", three), [][]bool{{false, false, false, false, false, false, false, true}})
	simtest.TruthTable(t, reg, def("NOR", three), [][]bool{{true, false, false, false, false, false, false, false}})
	simtest.TruthTable(t, reg, def("XOR", three), [][]bool{{false, true, true, false, true, false, false, true}})

	h := simtest.New(t, reg, def("OR", map[string]any{"numInputs": 3.0}))
	assert.Equal(t, 3, h.NumInputs())
	assert.Equal(t, simcir.Size{Width: 2, Height: 2}, h.Dev.Size())

	// values below the minimum are raised to it.
	h = simtest.New(t, reg, def("AND", map[string]any{"numInputs": 1}))
	assert.Equal(t, 2, h.NumInputs())
	h = simtest.New(t, reg, def("NAND", map[string]any{"numInputs": "5"}))
	assert.Equal(t, 5, h.NumInputs())
	assert.Equal(t, simcir.Size{Width: 2, Height: 3}, h.Dev.Size())

	// unary gates ignore the parameter.
	h = simtest.New(t, reg, def("NOT", map[string]any{"numInputs": 4}))
	assert.Equal(t, 1, h.NumInputs())

	for _, v := range []any{0, -2, 2.5, "two", true, 1e300, 1e18, basicset.MaxNodes + 1, uint64(1) << 63} {
		_, err := simcir.NewCircuit(reg, &simcir.Description{
			Devices: []simcir.DeviceDef{{Type: "AND", ID: "g", Params: map[string]any{"numInputs": v}}},
		})
		var ce *simcir.InvalidConfigurationError
		if assert.True(t, errors.As(err, &ce), "numInputs=%v: %v", v, err) {
			assert.Equal(t, "numInputs", ce.Param)
		}
	}
}

// Unset inputs read as 0.
func TestGates_unconnected(t *testing.T) {
	c, err := simcir.NewCircuit(newRegistry(t), &simcir.Description{
		Devices: []simcir.DeviceDef{{Type: "NAND", ID: "g"}, {Type: "In", ID: "a"}},
		Connectors: []simcir.ConnectorDef{{From: "g.in0", To: "a.out0"}},
	})
	require.NoError(t, err)
	defer c.Do(c.Dispose)
	require.NoError(t, c.Flush())
	assert.True(t, c.Device("g").Out(0).Value().IsHot())
	c.Device("a").Out(0).SetValue(simcir.Hot)
	require.NoError(t, c.Flush())
	assert.True(t, c.Device("g").Out(0).Value().IsHot())
}
