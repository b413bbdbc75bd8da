// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simcir

import "strings"

// A Value is the signal carried by a node.
//
// The zero Value is Unset (a floating line, read as logical 0 by gates). Hot
// is the asserted value. Bus values group several lines into one value; a bus
// value with no hot line is Unset.
//
type Value struct {
	hot bool
	bus []Value
}

var (
	// Unset is the value of an undriven or de-asserted node.
	Unset = Value{}
	// Hot is the asserted value.
	Hot = Value{hot: true}
)

// Bool returns Hot if b is true, Unset otherwise.
//
func Bool(b bool) Value {
	if b {
		return Hot
	}
	return Unset
}

// Bus returns a bus value made of the given lines. If none of the lines is hot,
// Bus returns Unset.
//
func Bus(lines ...Value) Value {
	for _, l := range lines {
		if l.IsHot() {
			bus := make([]Value, len(lines))
			copy(bus, lines)
			return Value{hot: true, bus: bus}
		}
	}
	return Unset
}

// IsHot returns true if v is asserted.
//
func (v Value) IsHot() bool { return v.hot }

// IsBus returns true if v is a bus value.
//
func (v Value) IsBus() bool { return v.bus != nil }

// Len returns the number of lines in a bus value, 0 otherwise.
//
func (v Value) Len() int { return len(v.bus) }

// Line returns line i of a bus value. It returns Unset if v is not a bus value
// or if i is out of range.
//
func (v Value) Line(i int) Value {
	if i < 0 || i >= len(v.bus) {
		return Unset
	}
	return v.bus[i]
}

// Int returns 1 if v is hot, 0 otherwise.
//
func (v Value) Int() int {
	if v.hot {
		return 1
	}
	return 0
}

// Equal reports whether v and w carry the same signal.
//
func (v Value) Equal(w Value) bool {
	if v.hot != w.hot || len(v.bus) != len(w.bus) {
		return false
	}
	for i := range v.bus {
		if !v.bus[i].Equal(w.bus[i]) {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	if v.bus == nil {
		if v.hot {
			return "1"
		}
		return "-"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, l := range v.bus {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(l.String())
	}
	b.WriteByte(']')
	return b.String()
}
