// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simcir

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// A Registry maps device type tags to device specs.
//
type Registry struct {
	specs map[string]*DeviceSpec
	order []string
}

// NewRegistry returns a registry with the built-in In, Out and Joint devices.
//
func NewRegistry() *Registry {
	r := &Registry{specs: make(map[string]*DeviceSpec)}
	for _, sp := range builtins() {
		if err := r.Register(sp); err != nil {
			panic(err)
		}
	}
	return r
}

// Register registers device specs. Registering a type that already exists
// replaces the previous spec.
//
func (r *Registry) Register(specs ...*DeviceSpec) error {
	for _, sp := range specs {
		if sp.Type == "" {
			return errors.New("empty device type")
		}
		if sp.Mount == nil {
			return errors.Errorf("device type %s: nil Mount function", sp.Type)
		}
		if _, ok := r.specs[sp.Type]; !ok {
			r.order = append(r.order, sp.Type)
		}
		r.specs[sp.Type] = sp
	}
	return nil
}

// RegisterCircuit registers a composite device type implemented by the
// circuit described by desc. The In and Out devices of the circuit become the
// ports of the new device type.
//
// The description is validated but the circuit itself is only built when a
// device of that type is created.
//
func (r *Registry) RegisterCircuit(typ string, desc *Description) error {
	if err := desc.Validate(); err != nil {
		return errors.Wrap(err, typ)
	}
	return r.Register(compositeSpec(typ, desc))
}

// Lookup returns the spec registered for typ.
//
func (r *Registry) Lookup(typ string) (*DeviceSpec, bool) {
	sp, ok := r.specs[typ]
	return sp, ok
}

// Types returns all registered types in registration order.
//
func (r *Registry) Types() []string {
	return append([]string(nil), r.order...)
}

// Toolbox returns the default toolbox: one entry per non-deprecated type, in
// registration order.
//
func (r *Registry) Toolbox() []DeviceDef {
	var tb []DeviceDef
	for _, t := range r.order {
		if !r.specs[t].Deprecated {
			tb = append(tb, DeviceDef{Type: t})
		}
	}
	return tb
}

// newDevice creates a device from its definition.
//
func (r *Registry) newDevice(def DeviceDef, q *Queue, log *zap.Logger) (*Device, error) {
	sp, ok := r.specs[def.Type]
	if !ok {
		return nil, &UnknownDeviceTypeError{def.Type}
	}
	d := &Device{
		id:   def.ID,
		def:  def.clone(),
		spec: sp,
		q:    q,
		reg:  r,
		log:  log.With(zap.String("device", def.ID), zap.String("type", def.Type)),
	}
	if err := sp.Mount(d); err != nil {
		d.Dispose()
		return nil, err
	}
	d.mounted = true
	if q.metrics != nil {
		q.metrics.Devices.WithLabelValues(def.Type).Inc()
	}
	return d, nil
}
