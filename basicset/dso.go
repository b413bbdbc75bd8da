// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package basicset

import (
	"time"

	"github.com/db47h/simcir"
)

// DSO time ranges. Samples older than the longest range are dropped.
var TimeRanges = []time.Duration{10 * time.Second, 5 * time.Second, 2 * time.Second, time.Second}

// A Sample is a probe reading.
//
type Sample struct {
	T time.Time
	V simcir.Value
}

// A Scope is the controller of DSO devices. While the device is attached and
// playing, every input change is recorded with a timestamp from the circuit
// clock.
//
type Scope struct {
	d          *simcir.Device
	playing    bool
	rangeIndex int
	probes     [][]Sample
}

// Playing returns true if the scope is recording.
//
func (s *Scope) Playing() bool { return s.playing }

// TogglePlaying starts or pauses recording.
//
func (s *Scope) TogglePlaying() { s.playing = !s.playing }

// NextRange cycles through TimeRanges.
//
func (s *Scope) NextRange() { s.rangeIndex = (s.rangeIndex + 1) % len(TimeRanges) }

// TimeRange returns the selected time range.
//
func (s *Scope) TimeRange() time.Duration { return TimeRanges[s.rangeIndex] }

// Samples returns the samples of probe i within the selected time range.
//
func (s *Scope) Samples(i int) []Sample {
	if i < 0 || i >= len(s.probes) {
		return nil
	}
	from := s.d.Clock().Now().Add(-s.TimeRange())
	ps := s.probes[i]
	j := 0
	for j < len(ps) && ps[j].T.Before(from) {
		j++
	}
	return append([]Sample(nil), ps[j:]...)
}

func (s *Scope) sample() {
	if !s.playing || !s.d.Attached() {
		return
	}
	now := s.d.Clock().Now()
	limit := now.Add(-TimeRanges[0])
	for i, in := range s.d.Inputs() {
		ps := s.probes[i]
		if k := len(ps); k > 0 && ps[k-1].V.Equal(in.Value()) {
			continue
		}
		j := 0
		for j < len(ps) && ps[j].T.Before(limit) {
			j++
		}
		s.probes[i] = append(ps[j:], Sample{now, in.Value()})
	}
}

func mountDSO(d *simcir.Device) error {
	n, err := nodeCount(d, "numInputs", 4, 1)
	if err != nil {
		return err
	}
	s := &Scope{
		d:          d,
		playing:    state(d, "playing", true),
		rangeIndex: int(state(d, "rangeIndex", 0.0)),
		probes:     make([][]Sample, n),
	}
	if v, ok := d.StateValue("rangeIndex").(int); ok {
		s.rangeIndex = v
	}
	if s.rangeIndex < 0 || s.rangeIndex >= len(TimeRanges) {
		s.rangeIndex = 0
	}
	for i := 0; i < n; i++ {
		d.AddInput("", "")
	}
	d.OnAttach(s.sample)
	d.OnInputChange(s.sample)
	d.SetStateFunc(func() map[string]any {
		return map[string]any{"playing": s.playing, "rangeIndex": s.rangeIndex}
	})
	d.SetSizeFunc(fixedSize(4, float64(n+2)))
	d.SetController(s)
	return nil
}
