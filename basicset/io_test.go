package basicset_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/db47h/simcir"
	"github.com/db47h/simcir/basicset"
	"github.com/db47h/simcir/simtest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwitches(t *testing.T) {
	reg := newRegistry(t)
	data := []struct {
		typ                string
		initial, press, rl bool
	}{
		{"PushOn", false, true, false},
		{"PushOff", true, false, true},
		{"Toggle", false, true, true},
	}
	for _, d := range data {
		t.Run(d.typ, func(t *testing.T) {
			h := simtest.New(t, reg, def(d.typ, nil))
			sw := h.Dev.Controller().(*basicset.Switch)
			h.Set(0, simcir.Hot)
			h.Settle()
			assert.Equal(t, d.initial, sw.On())
			assert.Equal(t, d.initial, h.Out(0).IsHot())

			sw.Press()
			h.Settle()
			assert.Equal(t, d.press, h.Out(0).IsHot(), "pressed")
			sw.Release()
			h.Settle()
			assert.Equal(t, d.rl, h.Out(0).IsHot(), "released")

			// a closed switch follows its input
			if sw.On() {
				h.Set(0, simcir.Unset)
				h.Settle()
				assert.False(t, h.Out(0).IsHot())
			}
		})
	}
}

func TestToggle_state(t *testing.T) {
	reg := newRegistry(t)
	h := simtest.New(t, reg, simcir.DeviceDef{Type: "Toggle", State: map[string]any{"on": true}})
	sw := h.Dev.Controller().(*basicset.Switch)
	assert.True(t, sw.On())
	sw.Click()
	assert.Equal(t, map[string]any{"on": false}, h.Dev.State())
}

func TestDC(t *testing.T) {
	c, err := simcir.NewCircuit(newRegistry(t), &simcir.Description{
		Devices:    []simcir.DeviceDef{{Type: "DC", ID: "dc"}, {Type: "LED", ID: "led"}},
		Connectors: []simcir.ConnectorDef{{From: "led.in0", To: "dc.out0"}},
	}, simcir.Headless())
	require.NoError(t, err)
	defer c.Do(c.Dispose)
	led := c.Device("led").Controller().(*basicset.Lamp)
	assert.Equal(t, basicset.DefaultLEDColor, led.Color())

	require.NoError(t, c.Flush())
	assert.False(t, led.On())
	c.Attach()
	require.NoError(t, c.Flush())
	assert.True(t, led.On())
	c.Detach()
	require.NoError(t, c.Flush())
	assert.False(t, led.On())
}

func TestOSC(t *testing.T) {
	clk := clock.NewMock()
	c, err := simcir.NewCircuit(newRegistry(t), &simcir.Description{
		Devices: []simcir.DeviceDef{{Type: "OSC", ID: "osc", Params: map[string]any{"freq": 10}}},
	}, simcir.WithClock(clk))
	require.NoError(t, err)

	var edges atomic.Int32
	require.NoError(t, c.Watch("osc.out0", func(simcir.Value) { edges.Add(1) }))

	// 10 Hz: the output toggles every 50ms.
	assert.Eventually(t, func() bool {
		clk.Add(50 * time.Millisecond)
		c.Drain()
		return edges.Load() >= 4
	}, 2*time.Second, time.Millisecond)

	c.Do(c.Dispose)
	c.Drain()
	n := edges.Load()
	for i := 0; i < 4; i++ {
		clk.Add(50 * time.Millisecond)
		c.Drain()
	}
	assert.Equal(t, n, edges.Load(), "stopped oscillator")
}

func TestOSC_freq(t *testing.T) {
	reg := newRegistry(t)
	for _, f := range []any{0, -1.5, "fast"} {
		_, err := simcir.NewCircuit(reg, &simcir.Description{
			Devices: []simcir.DeviceDef{{Type: "OSC", ID: "osc", Params: map[string]any{"freq": f}}},
		})
		var ce *simcir.InvalidConfigurationError
		assert.True(t, errors.As(err, &ce), "freq=%v: %v", f, err)
	}
}

func TestNumSrc(t *testing.T) {
	reg := newRegistry(t)
	h := simtest.New(t, reg, simcir.DeviceDef{Type: "NumSrc", State: map[string]any{"direction": 2.0}})
	src := h.Dev.Controller().(*basicset.NumSrc)
	assert.Equal(t, simcir.EW, src.Direction())
	assert.False(t, h.Out(0).IsHot())
	src.Press()
	h.Settle()
	assert.True(t, h.Out(0).IsHot())
	src.SetDirection(simcir.SN)
	assert.Equal(t, map[string]any{"direction": simcir.SN, "on": true}, h.Dev.State())
	assert.Equal(t, simcir.Size{Width: 1, Height: 1}, h.Dev.Size())
}

func TestNumDsp(t *testing.T) {
	h := simtest.New(t, newRegistry(t), def("NumDsp", nil))
	l := h.Dev.Controller().(*basicset.Lamp)
	assert.Equal(t, simcir.EW, l.Direction())
	h.Set(0, simcir.Hot)
	h.Settle()
	assert.True(t, l.On())
}

func TestBus(t *testing.T) {
	reg := newRegistry(t)
	h := simtest.New(t, reg, def("BusOut", map[string]any{"numInputs": 4}))
	require.Equal(t, 4, h.NumInputs())
	assert.Equal(t, "x4", h.Dev.Out(0).Description())
	h.Apply(0b0101)
	assert.True(t, h.Out(0).Equal(simcir.Bus(simcir.Hot, simcir.Unset, simcir.Hot, simcir.Unset)), "%v", h.Out(0))
	h.Apply(0)
	assert.True(t, h.Out(0).Equal(simcir.Unset))

	h = simtest.New(t, reg, def("BusIn", nil))
	require.Equal(t, 8, h.NumOutputs())
	h.Set(0, simcir.Bus(simcir.Hot, simcir.Unset, simcir.Hot))
	h.Settle()
	assert.Equal(t, uint64(0b101), h.OutBits())
	h.Set(0, simcir.Hot)
	h.Settle()
	assert.Zero(t, h.OutBits())
}

func TestRotaryEncoder(t *testing.T) {
	reg := newRegistry(t)
	h := simtest.New(t, reg, def("RotaryEncoder", nil))
	require.Equal(t, 4, h.NumOutputs())
	enc := h.Dev.Controller().(*basicset.Encoder)
	h.Set(0, simcir.Hot)
	h.Settle()
	assert.Zero(t, h.OutBits())

	data := []struct {
		angle float64
		value uint64
	}{
		{0, 0}, {45, 0}, {180, 8}, {315, 15}, {400, 15}, {62, 1},
	}
	for _, d := range data {
		enc.SetAngle(d.angle)
		h.Settle()
		assert.Equal(t, int(d.value), enc.Value(), "angle %v", d.angle)
		assert.Equal(t, d.value, h.OutBits(), "angle %v", d.angle)
	}

	h.Set(0, simcir.Unset)
	h.Settle()
	assert.Zero(t, h.OutBits())

	h = simtest.New(t, reg, def("RotaryEncoder", map[string]any{"numOutputs": 6}))
	assert.Equal(t, simcir.Size{Width: 4, Height: 3.5}, h.Dev.Size())

	h = simtest.New(t, reg, def("RotaryEncoder", map[string]any{"numOutputs": basicset.MaxEncoderOutputs}))
	enc = h.Dev.Controller().(*basicset.Encoder)
	h.Set(0, simcir.Hot)
	enc.SetAngle(basicset.MaxAngle)
	h.Settle()
	assert.Equal(t, 1<<basicset.MaxEncoderOutputs-1, enc.Value())
	assert.Equal(t, uint64(1<<basicset.MaxEncoderOutputs-1), h.OutBits())

	for _, n := range []int{basicset.MaxEncoderOutputs + 1, 64} {
		_, err := simcir.NewCircuit(reg, &simcir.Description{
			Devices: []simcir.DeviceDef{{Type: "RotaryEncoder", ID: "enc", Params: map[string]any{"numOutputs": n}}},
		})
		var ce *simcir.InvalidConfigurationError
		if assert.True(t, errors.As(err, &ce), "numOutputs=%d: %v", n, err) {
			assert.Equal(t, "numOutputs", ce.Param)
		}
	}
}
