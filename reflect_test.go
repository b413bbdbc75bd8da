package simcir_test

import (
	"testing"

	"github.com/db47h/simcir"
	"github.com/db47h/simcir/simtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMux struct {
	S   *simcir.Node `sim:"in,sel"`
	A   *simcir.Node `sim:"in"`
	B   *simcir.Node `sim:"in"`
	Out *simcir.Node `sim:"out"`
}

func (m *testMux) Update() {
	if m.S.Value().IsHot() {
		m.Out.SetValue(m.B.Value())
	} else {
		m.Out.SetValue(m.A.Value())
	}
}

type testBus struct {
	In  [4]*simcir.Node `sim:"in,d"`
	Out [4]*simcir.Node `sim:"out,q"`
	Ext int
}

func (b *testBus) Update() {
	for i, in := range b.In {
		b.Out[3-i].SetValue(in.Value())
	}
}

func TestMakeSpec(t *testing.T) {
	reg := newRegistry(t)
	require.NoError(t, reg.Register(
		simcir.MakeSpec("RMUX", (*testMux)(nil)),
		simcir.MakeSpec("RREV", (*testBus)(nil)),
	))
	simtest.Compare(t, reg, simcir.DeviceDef{Type: "RMUX"}, simcir.DeviceDef{Type: "MUX"}, 64)

	h := simtest.New(t, reg, simcir.DeviceDef{Type: "RMUX"})
	assert.Equal(t, "sel", h.Dev.In(0).Label())
	assert.Equal(t, "a", h.Dev.In(1).Label())
	assert.Equal(t, "out", h.Dev.Out(0).Label())
	_, ok := h.Dev.Controller().(*testMux)
	assert.True(t, ok)

	h = simtest.New(t, reg, simcir.DeviceDef{Type: "RREV"})
	require.Equal(t, 4, h.NumInputs())
	require.Equal(t, 4, h.NumOutputs())
	assert.Equal(t, "d3", h.Dev.In(3).Label())
	assert.Equal(t, "q0", h.Dev.Out(0).Label())
	assert.Equal(t, uint64(0b1000), h.Apply(0b0001))
	assert.Equal(t, uint64(0b0110), h.Apply(0b0110))
	assert.Equal(t, uint64(0b0011), h.Apply(0b1100))
}

type badTag struct {
	A *simcir.Node `sim:"inout"`
}

func (*badTag) Update() {}

type badType struct {
	A []*simcir.Node `sim:"in"`
}

func (*badType) Update() {}

type notStruct int

func (notStruct) Update() {}

func TestMakeSpec_panics(t *testing.T) {
	assert.Panics(t, func() { simcir.MakeSpec("X", (*badTag)(nil)) })
	assert.Panics(t, func() { simcir.MakeSpec("X", (*badType)(nil)) })
	assert.Panics(t, func() { simcir.MakeSpec("X", notStruct(0)) })
}
