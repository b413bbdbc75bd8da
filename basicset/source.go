// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package basicset

import (
	"time"

	"github.com/db47h/simcir"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DC drives its single output Hot while attached.
//
//	Outputs: out
//
func mountDC(d *simcir.Device) error {
	out := d.AddOutput("", "")
	d.OnAttach(func() { out.SetValue(simcir.Hot) })
	d.OnDetach(func() { out.SetValue(simcir.Unset) })
	return nil
}

// OSC toggles its output every 500/freq ms while attached. The freq parameter
// defaults to 10 (Hz).
//
//	Outputs: out
//
func mountOSC(d *simcir.Device) error {
	freq, err := d.FloatParam("freq", 10)
	if err != nil {
		return err
	}
	if freq <= 0 {
		return &simcir.InvalidConfigurationError{Type: d.Type(), Param: "freq", Value: freq, Err: errors.New("frequency must be positive")}
	}
	delay := max(time.Duration(int(500/freq))*time.Millisecond, time.Millisecond)
	out := d.AddOutput("", "")

	var (
		on   bool
		stop chan struct{}
	)
	d.OnAttach(func() {
		stop = make(chan struct{})
		t := d.Clock().Ticker(delay)
		d.Logger().Debug("oscillator started", zap.Duration("delay", delay))
		go func(stop <-chan struct{}) {
			defer t.Stop()
			for {
				select {
				case <-stop:
					return
				case <-t.C:
				}
				d.Queue().Do(func() {
					select {
					case <-stop:
						// detached while waiting for the lock.
						return
					default:
					}
					out.SetValue(simcir.Bool(on))
					on = !on
				})
			}
		}(stop)
	})
	d.OnDetach(func() {
		close(stop)
		stop = nil
	})
	return nil
}

// A NumSrc is the controller of a numbered source: a toggle button driving its
// output Hot when on.
//
type NumSrc struct {
	on        bool
	direction int
	out       *simcir.Node
}

// On returns true if the source is on.
//
func (s *NumSrc) On() bool { return s.on }

// Press flips the source.
//
func (s *NumSrc) Press() {
	s.on = !s.on
	s.update()
}

// Direction returns the direction of the source (simcir.WE, NS, EW or SN).
//
func (s *NumSrc) Direction() int { return s.direction }

// SetDirection sets the direction of the source.
//
func (s *NumSrc) SetDirection(dir int) { s.direction = dir & 3 }

func (s *NumSrc) update() {
	s.out.SetValue(simcir.Bool(s.on))
}

func mountNumSrc(d *simcir.Device) error {
	s := &NumSrc{
		on:        state(d, "on", false),
		direction: direction(d, simcir.WE),
		out:       d.AddOutput("", ""),
	}
	d.SetStateFunc(func() map[string]any {
		return map[string]any{"direction": s.direction, "on": s.on}
	})
	d.SetSizeFunc(fixedSize(1, 1))
	d.SetController(s)
	s.update()
	return nil
}

// Encoder angle range, in degrees.
const (
	MinAngle = 45
	MaxAngle = 315
)

// MaxEncoderOutputs is the maximum numOutputs of a RotaryEncoder.
const MaxEncoderOutputs = 16

// An Encoder is the controller of a RotaryEncoder device. The knob angle
// selects a value in [0, 2^numOutputs); output i passes the input value if bit
// i of the selected value is set.
//
type Encoder struct {
	angle float64
	in    *simcir.Node
	outs  []*simcir.Node
}

// Angle returns the knob angle.
//
func (e *Encoder) Angle() float64 { return e.angle }

// SetAngle turns the knob. The angle is clamped to [MinAngle, MaxAngle].
//
func (e *Encoder) SetAngle(a float64) {
	e.angle = max(MinAngle, min(a, MaxAngle))
	e.update()
}

// Value returns the value selected by the knob.
//
func (e *Encoder) Value() int {
	m := float64(uint64(1) << len(e.outs))
	return int(min((e.angle-MinAngle)/(MaxAngle-MinAngle)*m, m-1))
}

func (e *Encoder) update() {
	v := e.Value()
	for i, o := range e.outs {
		if v&(1<<i) != 0 {
			o.SetValue(e.in.Value())
		} else {
			o.SetValue(simcir.Unset)
		}
	}
}

func mountEncoder(d *simcir.Device) error {
	n, err := nodeCount(d, "numOutputs", 4, 2)
	if err != nil {
		return err
	}
	if n > MaxEncoderOutputs {
		return &simcir.InvalidConfigurationError{Type: d.Type(), Param: "numOutputs", Value: n,
			Err: errors.Errorf("an encoder has at most %d outputs", MaxEncoderOutputs)}
	}
	d.SetHalfPitch(n > 4)
	e := &Encoder{angle: MinAngle, in: d.AddInput("", "")}
	for i := 0; i < n; i++ {
		e.outs = append(e.outs, d.AddOutput("", ""))
	}
	d.OnInputChange(e.update)
	d.SetSizeFunc(wideSize(d, 4))
	d.SetController(e)
	e.update()
	return nil
}
