// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simcir

import (
	"github.com/db47h/simcir/internal/path"
)

// NodeType is the kind of a node: Input or Output.
//
type NodeType int

// Node types.
const (
	Input NodeType = iota
	Output
)

func (t NodeType) String() string {
	if t == Input {
		return "in"
	}
	return "out"
}

// A Node is a connection point on a device.
//
// An Output node drives any number of Input nodes (its fan-out); an Input node
// is driven by at most one Output. Nodes are created by a device's MountFn and
// live as long as the device.
//
type Node struct {
	typ   NodeType
	dev   *Device
	index int
	label string
	desc  string
	value Value

	driver *Node   // inputs only
	fanout []*Node // outputs only

	// outputs of the same device that follow every effective or forced write
	// to this input (In, Out and Joint devices).
	through []*Node

	listeners []func()
	observers []func(Value)

	queued  bool // in the pending batch
	changed bool // awaiting observer notification
}

// Type returns the node type.
//
func (n *Node) Type() NodeType { return n.typ }

// Device returns the device that owns n.
//
func (n *Node) Device() *Device { return n.dev }

// Index returns the index of n in its device's input or output list.
//
func (n *Node) Index() int { return n.index }

// Label returns the node label, if any.
//
func (n *Node) Label() string { return n.label }

// Description returns the node description, if any.
//
func (n *Node) Description() string { return n.desc }

// ID returns the endpoint name of n, like "dev3.in0".
//
func (n *Node) ID() string {
	k := path.In
	if n.typ == Output {
		k = path.Out
	}
	return path.Format(n.dev.id, k, n.index)
}

func (n *Node) String() string { return n.ID() }

// Value returns the current value of n.
//
func (n *Node) Value() Value { return n.value }

// SetValue sets the value of n. Writing the current value again is a no-op.
// Setting the value of an Output node also pushes the value to all the
// inputs it drives.
//
// Dependents are never invoked directly: the change is posted to the event
// queue and listeners run when the queue is drained.
//
func (n *Node) SetValue(v Value) { n.setValue(v, false) }

func (n *Node) setValue(v Value, force bool) {
	changed := !n.value.Equal(v)
	if changed || force {
		n.value = v
		n.dev.q.Post(n)
	}
	if n.typ == Output {
		for _, in := range n.fanout {
			in.setValue(v, false)
		}
		return
	}
	if changed || force {
		for _, o := range n.through {
			o.SetValue(n.value)
		}
	}
}

// OnChange registers fn to be called by the event queue whenever the value of
// n has been set. Listeners drive the logic of a circuit and may set other
// node values.
//
func (n *Node) OnChange(fn func()) {
	n.listeners = append(n.listeners, fn)
}

// Observe registers fn to be called once per queue drain if the value of n
// changed during the drain, with its final value. Observers run after all the
// logic events of the drain have been delivered and must not modify the
// circuit.
//
func (n *Node) Observe(fn func(Value)) {
	n.observers = append(n.observers, fn)
}

// Driver returns the output driving input n, or nil if n is an output or is
// not connected.
//
func (n *Node) Driver() *Node { return n.driver }

// Fanout returns a copy of the list of inputs driven by output n.
//
func (n *Node) Fanout() []*Node {
	if len(n.fanout) == 0 {
		return nil
	}
	return append([]*Node(nil), n.fanout...)
}

// ConnectTo connects output n to input in. If in is already driven by another
// output, it is disconnected from it first. The current value of n is then
// force-pushed to in, so that in posts a change event even if its value does
// not change.
//
func (n *Node) ConnectTo(in *Node) error {
	if n.typ != Output || in.typ != Input {
		return &InvalidConnectionError{From: n.ID(), To: in.ID(), Err: ErrSameKind}
	}
	if d := in.driver; d != nil {
		if err := d.DisconnectFrom(in); err != nil {
			return err
		}
	}
	in.driver = n
	n.fanout = append(n.fanout, in)
	in.setValue(n.value, true)
	return nil
}

// DisconnectFrom disconnects output n from input in. The value of in is then
// forced to Unset.
//
func (n *Node) DisconnectFrom(in *Node) error {
	if n.typ != Output || in.typ != Input || in.driver != n {
		return &InvalidConnectionError{From: n.ID(), To: in.ID(), Err: ErrNotConnected}
	}
	in.driver = nil
	in.setValue(Unset, true)
	for i, o := range n.fanout {
		if o == in {
			copy(n.fanout[i:], n.fanout[i+1:])
			n.fanout[len(n.fanout)-1] = nil
			n.fanout = n.fanout[:len(n.fanout)-1]
			break
		}
	}
	return nil
}

// disconnect severs all connections of n.
//
func (n *Node) disconnect() {
	if n.typ == Input {
		if n.driver != nil {
			_ = n.driver.DisconnectFrom(n)
		}
		return
	}
	for len(n.fanout) > 0 {
		_ = n.DisconnectFrom(n.fanout[len(n.fanout)-1])
	}
}

// passThrough makes every effective or forced write to input n set the value
// of output o synchronously.
//
func (n *Node) passThrough(o *Node) {
	n.through = append(n.through, o)
}

// Connect connects two nodes given in any order. One of them must be an Input
// and the other an Output.
//
func Connect(a, b *Node) error {
	switch {
	case a.typ == Output && b.typ == Input:
		return a.ConnectTo(b)
	case a.typ == Input && b.typ == Output:
		return b.ConnectTo(a)
	}
	return &InvalidConnectionError{From: a.ID(), To: b.ID(), Err: ErrSameKind}
}

// Disconnect disconnects two connected nodes given in any order.
//
func Disconnect(a, b *Node) error {
	if a.typ == Input {
		a, b = b, a
	}
	return a.DisconnectFrom(b)
}
