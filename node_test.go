package simcir_test

import (
	"testing"

	"github.com/db47h/simcir"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nodeCircuit = `
devices:
  - {type: In, id: src}
  - {type: In, id: alt}
  - {type: BUF, id: g}
connectors: []
`

func TestNode_connect(t *testing.T) {
	c := build(t, newRegistry(t), nodeCircuit)
	src, alt, g := c.Device("src"), c.Device("alt"), c.Device("g")
	in := g.In(0)
	assert.Equal(t, "g.in0", in.ID())
	assert.Equal(t, simcir.Input, in.Type())
	assert.Equal(t, simcir.Output, g.Out(0).Type())
	assert.Same(t, g, in.Device())

	events := 0
	in.OnChange(func() { events++ })

	// connecting force-pushes the driver value, even if unchanged.
	require.NoError(t, simcir.Connect(src.Out(0), in))
	require.NoError(t, c.Flush())
	assert.Equal(t, 1, events)
	assert.Same(t, src.Out(0), in.Driver())
	assert.Equal(t, []*simcir.Node{in}, src.Out(0).Fanout())

	// writing the same value again is a no-op.
	src.Out(0).SetValue(simcir.Unset)
	require.NoError(t, c.Flush())
	assert.Equal(t, 1, events)

	src.Out(0).SetValue(simcir.Hot)
	require.NoError(t, c.Flush())
	assert.Equal(t, 2, events)
	assert.True(t, in.Value().IsHot())
	assert.True(t, g.Out(0).Value().IsHot())

	// a new driver replaces the previous one.
	require.NoError(t, alt.Out(0).ConnectTo(in))
	require.NoError(t, c.Flush())
	assert.Same(t, alt.Out(0), in.Driver())
	assert.Empty(t, src.Out(0).Fanout())
	assert.False(t, in.Value().IsHot())
	assert.False(t, g.Out(0).Value().IsHot())
}

func TestNode_disconnect(t *testing.T) {
	c := build(t, newRegistry(t), nodeCircuit)
	src, g := c.Device("src"), c.Device("g")
	require.NoError(t, c.Connect("g.in0", "src.out0"))
	src.Out(0).SetValue(simcir.Hot)
	require.NoError(t, c.Flush())
	require.True(t, g.Out(0).Value().IsHot())

	events := 0
	g.In(0).OnChange(func() { events++ })
	require.NoError(t, c.Disconnect("src.out0", "g.in0"))
	assert.Nil(t, g.In(0).Driver())
	assert.Empty(t, src.Out(0).Fanout())
	assert.False(t, g.In(0).Value().IsHot())
	require.NoError(t, c.Flush())
	assert.Equal(t, 1, events)
	assert.False(t, g.Out(0).Value().IsHot())
	// the former driver keeps its value.
	assert.True(t, src.Out(0).Value().IsHot())
}

func TestNode_errors(t *testing.T) {
	c := build(t, newRegistry(t), nodeCircuit)
	src, alt, g := c.Device("src"), c.Device("alt"), c.Device("g")

	err := simcir.Connect(g.In(0), src.In(0))
	assert.True(t, errors.Is(err, simcir.ErrSameKind), "%v", err)
	var ce *simcir.InvalidConnectionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "g.in0", ce.From)
	assert.Equal(t, "src.in0", ce.To)

	err = src.Out(0).ConnectTo(alt.Out(0))
	assert.True(t, errors.Is(err, simcir.ErrSameKind), "%v", err)

	require.NoError(t, simcir.Connect(g.In(0), src.Out(0)))
	err = alt.Out(0).DisconnectFrom(g.In(0))
	assert.True(t, errors.Is(err, simcir.ErrNotConnected), "%v", err)
	assert.EqualError(t, err, "invalid connection alt.out0 -> g.in0: not connected")
	// the failed disconnect leaves the connection alone.
	assert.Same(t, src.Out(0), g.In(0).Driver())
}

// the connection graph stays consistent under any sequence of connect and
// disconnect operations: an input has at most one driver and appears exactly
// once in the fanout of that driver.
func TestNode_connectionInvariants(t *testing.T) {
	reg := newRegistry(t)
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	properties.Property("single driver", prop.ForAll(
		func(ops []uint32) bool {
			c, err := simcir.NewCircuit(reg, parseYAML(t, `
devices:
  - {type: In, id: i0}
  - {type: In, id: i1}
  - {type: In, id: i2}
  - {type: AND, id: a0}
  - {type: AND, id: a1}
  - {type: AND, id: a2, numInputs: 3}
connectors: []
`), simcir.Headless())
			if err != nil {
				return false
			}
			defer c.Dispose()

			var ins, outs []*simcir.Node
			for _, d := range c.Devices() {
				ins = append(ins, d.Inputs()...)
				outs = append(outs, d.Outputs()...)
			}
			for _, op := range ops {
				o := outs[int(op%uint32(len(outs)))]
				in := ins[int((op>>8)%uint32(len(ins)))]
				if op&(1<<16) == 0 {
					if o.ConnectTo(in) != nil {
						return false
					}
				} else if err := o.DisconnectFrom(in); err != nil && in.Driver() == o {
					return false
				}
			}

			for _, in := range ins {
				drv := in.Driver()
				if drv == nil {
					continue
				}
				n := 0
				for _, x := range drv.Fanout() {
					if x == in {
						n++
					}
				}
				if n != 1 {
					return false
				}
			}
			for _, o := range outs {
				for _, in := range o.Fanout() {
					if in.Driver() != o {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt32()),
	))
	properties.TestingRun(t)
}
