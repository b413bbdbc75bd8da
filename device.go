// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simcir

import (
	"math"
	"strconv"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// A MountFn builds the behavior of a device.
//
// It is called exactly once per device, before the device is connected to
// anything. It must create all the inputs and outputs of the device with
// AddInput and AddOutput, then register its hooks. Type parameters and
// persisted state are available through d.Def().
//
// For example, a NOT gate can be defined like this:
//
//	not := &simcir.DeviceSpec{
//		Type: "NOT",
//		Mount: func(d *simcir.Device) error {
//			in, out := d.AddInput("", ""), d.AddOutput("", "")
//			d.OnInputChange(func() {
//				out.SetValue(simcir.Bool(!in.Value().IsHot()))
//			})
//			return nil
//		}}
//
type MountFn func(d *Device) error

// A DeviceSpec is the blueprint of a device type.
//
type DeviceSpec struct {
	// Type tag, as used in circuit descriptions.
	Type string
	// Short description.
	Doc string
	// Deprecated types can still be built but are not listed in the toolbox.
	Deprecated bool
	// Mount function (see MountFn).
	Mount MountFn
}

// Size is the footprint of a device, in grid units.
//
type Size struct {
	Width, Height float64
}

// A Device is an instance of a device type in a circuit.
//
type Device struct {
	id   string
	def  DeviceDef
	spec *DeviceSpec
	q    *Queue
	reg  *Registry
	log  *zap.Logger

	inputs  []*Node
	outputs []*Node
	mounted bool

	onInput  []func()
	onAttach []func()
	onDetach []func()
	state    func() map[string]any
	ctl      any
	sub      *Circuit

	halfPitch bool
	size      func() Size

	dirty    bool
	attached bool
	disposed bool
}

// ID returns the device id.
//
func (d *Device) ID() string { return d.id }

// Type returns the device type.
//
func (d *Device) Type() string { return d.def.Type }

// Spec returns the spec the device was built from. It is not affected by later
// registrations of the same type.
//
func (d *Device) Spec() *DeviceSpec { return d.spec }

// Label returns the device label, or its type if the label is empty.
//
func (d *Device) Label() string {
	if d.def.Label != "" {
		return d.def.Label
	}
	return d.def.Type
}

// Def returns a copy of the definition the device was built from.
//
func (d *Device) Def() DeviceDef { return d.def.clone() }

// SetPosition moves the device on the workspace.
//
func (d *Device) SetPosition(x, y float64) { d.def.X, d.def.Y = x, y }

// Logger returns the logger of the circuit the device belongs to.
//
func (d *Device) Logger() *zap.Logger { return d.log }

// Clock returns the clock device timers must use.
//
func (d *Device) Clock() clock.Clock { return d.q.clock }

// Queue returns the event queue the device posts to.
//
func (d *Device) Queue() *Queue { return d.q }

func (d *Device) newNode(typ NodeType, index int, label, desc string) *Node {
	if d.mounted {
		panic("simcir: nodes added to " + d.Type() + " after mount")
	}
	return &Node{typ: typ, dev: d, index: index, label: label, desc: desc}
}

// AddInput adds an input node to the device. It must only be called from a
// MountFn.
//
func (d *Device) AddInput(label, desc string) *Node {
	n := d.newNode(Input, len(d.inputs), label, desc)
	n.OnChange(d.inputChanged)
	d.inputs = append(d.inputs, n)
	return n
}

// AddOutput adds an output node to the device. It must only be called from a
// MountFn.
//
func (d *Device) AddOutput(label, desc string) *Node {
	n := d.newNode(Output, len(d.outputs), label, desc)
	d.outputs = append(d.outputs, n)
	return n
}

// Inputs returns the input nodes of the device.
//
func (d *Device) Inputs() []*Node { return d.inputs }

// Outputs returns the output nodes of the device.
//
func (d *Device) Outputs() []*Node { return d.outputs }

// In returns input i, or nil if i is out of range.
//
func (d *Device) In(i int) *Node {
	if i < 0 || i >= len(d.inputs) {
		return nil
	}
	return d.inputs[i]
}

// Out returns output i, or nil if i is out of range.
//
func (d *Device) Out(i int) *Node {
	if i < 0 || i >= len(d.outputs) {
		return nil
	}
	return d.outputs[i]
}

// OnInputChange registers fn to be called once per batch of events in which
// any input of the device changed.
//
func (d *Device) OnInputChange(fn func()) { d.onInput = append(d.onInput, fn) }

// OnAttach registers fn to be called when the device goes live.
//
func (d *Device) OnAttach(fn func()) { d.onAttach = append(d.onAttach, fn) }

// OnDetach registers fn to be called when the device is removed from a live
// circuit or disposed. Timers started by an OnAttach hook must be stopped
// here.
//
func (d *Device) OnDetach(fn func()) { d.onDetach = append(d.onDetach, fn) }

// SetStateFunc sets the function returning the persisted state of the device.
//
func (d *Device) SetStateFunc(fn func() map[string]any) { d.state = fn }

// State returns the persisted state of the device, or nil for stateless
// devices.
//
func (d *Device) State() map[string]any {
	if d.state == nil {
		return nil
	}
	return d.state()
}

// SetController sets the object through which callers interact with the
// device (push a switch, read a display...).
//
func (d *Device) SetController(c any) { d.ctl = c }

// Controller returns the device controller, or nil.
//
func (d *Device) Controller() any { return d.ctl }

// SetHalfPitch packs the nodes of the device at half the usual spacing.
//
func (d *Device) SetHalfPitch(b bool) { d.halfPitch = b }

// SetSizeFunc overrides the default footprint computation.
//
func (d *Device) SetSizeFunc(fn func() Size) { d.size = fn }

// Size returns the footprint of the device. By default a device is 2 units
// wide and max(2, n) units high, where n is the larger of its input and output
// counts, halved for half pitch devices.
//
func (d *Device) Size() Size {
	if d.size != nil {
		return d.size()
	}
	return defaultSize(d, 2)
}

// DefaultSize returns the default footprint of d for the given width.
//
func (d *Device) DefaultSize(width float64) Size { return defaultSize(d, width) }

func defaultSize(d *Device, width float64) Size {
	n := float64(max(len(d.inputs), len(d.outputs)))
	if d.halfPitch {
		n = (n + 1) / 2
	}
	return Size{width, max(2, n)}
}

// Subcircuit returns the inner circuit of a composite device, nil otherwise.
//
func (d *Device) Subcircuit() *Circuit { return d.sub }

// Attached returns true if the device is live.
//
func (d *Device) Attached() bool { return d.attached }

func (d *Device) inputChanged() {
	if len(d.onInput) > 0 && !d.disposed {
		d.q.markDirty(d)
	}
}

func (d *Device) recompute() {
	if d.disposed {
		return
	}
	for _, fn := range d.onInput {
		fn()
	}
}

func (d *Device) attach() {
	if d.attached || d.disposed {
		return
	}
	d.attached = true
	for _, fn := range d.onAttach {
		fn()
	}
	if d.sub != nil {
		d.sub.Attach()
	}
}

func (d *Device) detach() {
	if !d.attached {
		return
	}
	if d.sub != nil {
		d.sub.Detach()
	}
	for _, fn := range d.onDetach {
		fn()
	}
	d.attached = false
}

// Dispose detaches the device, severs all its connections and releases its
// sub-circuit, if any.
//
func (d *Device) Dispose() {
	if d.disposed {
		return
	}
	d.detach()
	for _, n := range d.inputs {
		n.disconnect()
	}
	for _, n := range d.outputs {
		n.disconnect()
	}
	if d.sub != nil {
		d.sub.Dispose()
	}
	d.disposed = true
	if m := d.q.metrics; m != nil && d.mounted {
		m.Devices.WithLabelValues(d.Type()).Dec()
	}
}

func (d *Device) String() string {
	return d.id + " (" + d.Type() + ")"
}

// IntParam returns the integer type parameter name of the device, or def if
// the parameter is not set. Numbers read from JSON, YAML and numeric strings
// are accepted.
//
func (d *Device) IntParam(name string, def int) (int, error) {
	v, ok := d.def.Params[name]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, configError(d.Type(), name, v, "out of range")
		}
		return int(n), nil
	case uint64:
		if n > math.MaxInt {
			return 0, configError(d.Type(), name, v, "out of range")
		}
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, configError(d.Type(), name, v, "not an integer")
		}
		// float64(math.MaxInt) rounds up to a power of two
		if n < math.MinInt || n >= -float64(math.MinInt) {
			return 0, configError(d.Type(), name, v, "out of range")
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, configError(d.Type(), name, v, "not an integer")
		}
		return i, nil
	}
	return 0, configError(d.Type(), name, v, "unsupported type %T", v)
}

// FloatParam returns the numeric type parameter name of the device, or def if
// the parameter is not set.
//
func (d *Device) FloatParam(name string, def float64) (float64, error) {
	v, ok := d.def.Params[name]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, configError(d.Type(), name, v, "not a number")
		}
		return f, nil
	}
	return 0, configError(d.Type(), name, v, "unsupported type %T", v)
}

// StringParam returns the string type parameter name of the device, or def if
// the parameter is not set.
//
func (d *Device) StringParam(name string, def string) string {
	if s, ok := d.def.Params[name].(string); ok {
		return s
	}
	return def
}

// StateValue returns the value of key in the persisted state the device was
// built with, or nil.
//
func (d *Device) StateValue(key string) any {
	if d.def.State == nil {
		return nil
	}
	return d.def.State[key]
}
