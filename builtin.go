// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simcir

// Built-in device types.
const (
	TypeIn    = "In"
	TypeOut   = "Out"
	TypeJoint = "Joint"
)

// Joint directions.
const (
	WE = iota
	NS
	EW
	SN
)

func builtins() []*DeviceSpec {
	return []*DeviceSpec{
		{Type: TypeIn, Doc: "Input port of a composite device", Mount: mountPort},
		{Type: TypeOut, Doc: "Output port of a composite device", Mount: mountPort},
		{Type: TypeJoint, Doc: "Connector joint", Mount: mountJoint},
	}
}

// mountPort mounts an In or Out device: one input whose value is copied to
// the output without going through the event queue.
//
func mountPort(d *Device) error {
	in, out := d.AddInput("", ""), d.AddOutput("", "")
	in.passThrough(out)
	return nil
}

// A Joint is the controller of a Joint device.
//
type Joint struct {
	direction int
}

// Direction returns the direction of the joint (WE, NS, EW or SN).
//
func (j *Joint) Direction() int { return j.direction }

// SetDirection sets the direction of the joint.
//
func (j *Joint) SetDirection(dir int) { j.direction = dir & 3 }

func mountJoint(d *Device) error {
	in, out := d.AddInput("", ""), d.AddOutput("", "")
	in.passThrough(out)
	j := &Joint{}
	switch v := d.StateValue("direction").(type) {
	case nil:
	case float64:
		j.direction = int(v)
	case int:
		j.direction = v
	default:
		return configError(TypeJoint, "state.direction", v, "not a direction")
	}
	if j.direction < WE || j.direction > SN {
		return configError(TypeJoint, "state.direction", j.direction, "out of range")
	}
	d.SetController(j)
	d.SetStateFunc(func() map[string]any { return map[string]any{"direction": j.direction} })
	d.SetSizeFunc(func() Size { return Size{1, 1} })
	return nil
}
