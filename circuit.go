// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simcir

import (
	"context"
	"strconv"

	"github.com/db47h/simcir/internal/path"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// A Circuit is a set of devices and the connections between them.
//
// A live circuit has its devices attached: sources like DC or OSC drive their
// outputs. A headless circuit is the inner implementation of a composite
// device; its devices are attached only when the composite device is.
//
// Callers must call Dispose once the circuit is no longer needed in order to
// stop device timers.
//
type Circuit struct {
	id       uuid.UUID
	reg      *Registry
	q        *Queue
	log      *zap.Logger
	meta     Description
	devices  []*Device
	byID     map[string]*Device
	attached bool
	seq      int
}

// NewCircuit builds the circuit described by desc using the device types of
// reg. Unless the Headless option is given, the circuit is attached (live)
// once built.
//
// Any error aborts the whole build: unknown device types, invalid device
// configurations and unknown endpoint references are all fatal.
//
func NewCircuit(reg *Registry, desc *Description, opts ...Option) (*Circuit, error) {
	cfg := newConfig(opts)
	q := cfg.queue
	if q == nil {
		q = newQueue(cfg)
	}
	c, err := buildCircuit(reg, desc, q, cfg.log)
	if err != nil {
		return nil, err
	}
	if !cfg.headless {
		c.Attach()
	}
	return c, nil
}

func buildCircuit(reg *Registry, desc *Description, q *Queue, log *zap.Logger) (*Circuit, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	id := uuid.New()
	c := &Circuit{
		id:   id,
		reg:  reg,
		q:    q,
		log:  log.With(zap.Stringer("circuit", id)),
		byID: make(map[string]*Device, len(desc.Devices)),
	}
	c.meta = *desc
	c.meta.Devices, c.meta.Connectors = nil, nil

	for _, def := range desc.Devices {
		if _, err := c.addDevice(def); err != nil {
			c.Dispose()
			return nil, err
		}
	}
	for _, cn := range desc.Connectors {
		if err := c.Connect(cn.From, cn.To); err != nil {
			c.Dispose()
			return nil, errors.Wrapf(err, "connector %s -> %s", cn.From, cn.To)
		}
	}
	c.log.Debug("circuit built", zap.Int("devices", len(c.devices)), zap.Int("connectors", len(desc.Connectors)))
	return c, nil
}

// ID returns the instance id of the circuit, as used in log entries.
//
func (c *Circuit) ID() uuid.UUID { return c.id }

// Queue returns the event queue of the circuit.
//
func (c *Circuit) Queue() *Queue { return c.q }

// Registry returns the registry the circuit was built from.
//
func (c *Circuit) Registry() *Registry { return c.reg }

// Devices returns the devices of the circuit, in creation order.
//
func (c *Circuit) Devices() []*Device {
	return append([]*Device(nil), c.devices...)
}

// Device returns the device with the given id, or nil.
//
func (c *Circuit) Device(id string) *Device { return c.byID[id] }

// Node returns the node named by an endpoint like "dev3.in0".
//
func (c *Circuit) Node(endpoint string) (*Node, error) {
	e, err := path.Parse(endpoint)
	if err != nil {
		return nil, &UnknownPortReferenceError{Path: endpoint, Reason: err.Error()}
	}
	d := c.byID[e.Device]
	if d == nil {
		return nil, &UnknownPortReferenceError{Path: endpoint, Reason: "no device " + e.Device}
	}
	var n *Node
	if e.Kind == path.In {
		n = d.In(e.Index)
	} else {
		n = d.Out(e.Index)
	}
	if n == nil {
		return nil, &UnknownPortReferenceError{Path: endpoint, Reason: "index out of range"}
	}
	return n, nil
}

// Connect connects two endpoints given in any order.
//
func (c *Circuit) Connect(a, b string) error {
	na, err := c.Node(a)
	if err != nil {
		return err
	}
	nb, err := c.Node(b)
	if err != nil {
		return err
	}
	return Connect(na, nb)
}

// Disconnect disconnects two endpoints given in any order.
//
func (c *Circuit) Disconnect(a, b string) error {
	na, err := c.Node(a)
	if err != nil {
		return err
	}
	nb, err := c.Node(b)
	if err != nil {
		return err
	}
	return Disconnect(na, nb)
}

// AddDevice creates a new device in the circuit. If def.ID is empty, a new
// unique id is generated. The device is attached if the circuit is live.
//
func (c *Circuit) AddDevice(def DeviceDef) (*Device, error) {
	if def.ID == "" {
		for {
			def.ID = "dev" + strconv.Itoa(c.seq)
			c.seq++
			if c.byID[def.ID] == nil {
				break
			}
		}
	} else if c.byID[def.ID] != nil {
		return nil, errors.Errorf("duplicate device id %s", def.ID)
	}
	d, err := c.addDevice(def)
	if err != nil {
		return nil, err
	}
	if c.attached {
		d.attach()
	}
	return d, nil
}

func (c *Circuit) addDevice(def DeviceDef) (*Device, error) {
	if !path.ValidID(def.ID) {
		return nil, &InvalidConfigurationError{Type: def.Type, Param: "id", Value: def.ID, Err: ErrInvalidID}
	}
	d, err := c.reg.newDevice(def, c.q, c.log)
	if err != nil {
		return nil, errors.Wrapf(err, "device %s (%s)", def.ID, def.Type)
	}
	c.devices = append(c.devices, d)
	c.byID[d.id] = d
	return d, nil
}

// RemoveDevice disposes of the device with the given id. Inputs it was driving
// are reset to Unset.
//
func (c *Circuit) RemoveDevice(id string) error {
	d := c.byID[id]
	if d == nil {
		return errors.Errorf("no device %s", id)
	}
	d.Dispose()
	delete(c.byID, id)
	for i, x := range c.devices {
		if x == d {
			c.devices = append(c.devices[:i], c.devices[i+1:]...)
			break
		}
	}
	return nil
}

// Watch registers an observer on the node named by endpoint. See
// Node.Observe.
//
func (c *Circuit) Watch(endpoint string, fn func(Value)) error {
	n, err := c.Node(endpoint)
	if err != nil {
		return err
	}
	n.Observe(fn)
	return nil
}

// Attach makes the circuit live.
//
func (c *Circuit) Attach() {
	if c.attached {
		return
	}
	c.attached = true
	for _, d := range c.devices {
		d.attach()
	}
	c.log.Debug("circuit attached")
}

// Detach stops all the devices of the circuit.
//
func (c *Circuit) Detach() {
	if !c.attached {
		return
	}
	for _, d := range c.devices {
		d.detach()
	}
	c.attached = false
	c.log.Debug("circuit detached")
}

// Attached returns true if the circuit is live.
//
func (c *Circuit) Attached() bool { return c.attached }

// Dispose disposes of all the devices of the circuit.
//
func (c *Circuit) Dispose() {
	c.Detach()
	for _, d := range c.devices {
		d.Dispose()
	}
	c.devices = nil
	c.byID = make(map[string]*Device)
}

// Drain runs one drain tick of the circuit's queue. See Queue.Drain.
//
func (c *Circuit) Drain() int { return c.q.Drain() }

// Flush delivers events until the circuit settles. See Queue.Flush.
//
func (c *Circuit) Flush() error { return c.q.Flush() }

// Do runs fn with exclusive access to the circuit. See Queue.Do.
//
func (c *Circuit) Do(fn func()) { c.q.Do(fn) }

// Run runs the circuit's queue until ctx is done. See Queue.Run.
//
func (c *Circuit) Run(ctx context.Context) error { return c.q.Run(ctx) }

// Description returns the persisted form of the circuit. Devices are
// renumbered dev0 to devN in creation order and connectors are written with
// the input endpoint first.
//
func (c *Circuit) Description() *Description {
	desc := c.meta
	desc.Toolbox = append([]DeviceDef(nil), c.meta.Toolbox...)
	ids := make(map[*Device]string, len(c.devices))
	desc.Devices = make([]DeviceDef, 0, len(c.devices))
	for i, d := range c.devices {
		id := "dev" + strconv.Itoa(i)
		ids[d] = id
		def := d.Def()
		def.ID = id
		def.State = d.State()
		desc.Devices = append(desc.Devices, def)
	}
	desc.Connectors = []ConnectorDef{}
	for _, d := range c.devices {
		for _, in := range d.inputs {
			out := in.driver
			if out == nil {
				continue
			}
			// drivers outside of the circuit cannot be represented.
			oid, ok := ids[out.dev]
			if !ok {
				continue
			}
			desc.Connectors = append(desc.Connectors, ConnectorDef{
				From: path.Format(ids[d], path.In, in.index),
				To:   path.Format(oid, path.Out, out.index),
			})
		}
	}
	return &desc
}
