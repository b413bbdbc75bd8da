// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simcir

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotConnected is the cause of an InvalidConnectionError returned when
	// disconnecting an input from an output that does not drive it.
	ErrNotConnected = errors.New("not connected")
	// ErrSameKind is the cause of an InvalidConnectionError returned when
	// connecting two inputs or two outputs.
	ErrSameKind = errors.New("nodes of the same kind")
	// ErrUnsettled is returned by Flush when a circuit does not settle within
	// the configured number of batches (e.g. a ring oscillator made of NOT
	// gates).
	ErrUnsettled = errors.New("circuit did not settle")
	// ErrInvalidID is the cause of an InvalidConfigurationError returned for
	// device ids that endpoints cannot name.
	ErrInvalidID = errors.New("device id must be made of ASCII letters, digits and underscores")
)

// InvalidConnectionError is returned by connection operations on nodes that
// cannot be connected or disconnected.
//
type InvalidConnectionError struct {
	From, To string
	Err      error
}

func (e *InvalidConnectionError) Error() string {
	return "invalid connection " + e.From + " -> " + e.To + ": " + e.Err.Error()
}

func (e *InvalidConnectionError) Unwrap() error { return e.Err }

// UnknownPortReferenceError is returned when a connector endpoint names a
// device id that does not exist, is malformed, or has an out of range node
// index.
//
type UnknownPortReferenceError struct {
	Path   string
	Reason string
}

func (e *UnknownPortReferenceError) Error() string {
	return "unknown path " + e.Path + ": " + e.Reason
}

// InvalidConfigurationError is returned by device constructors when the type
// parameters of a device are invalid.
//
type InvalidConfigurationError struct {
	Type  string
	Param string
	Value any
	Err   error
}

func (e *InvalidConfigurationError) Error() string {
	s := e.Type
	if e.Param != "" {
		s += fmt.Sprintf(" %s=%v", e.Param, e.Value)
	}
	return "invalid configuration for " + s + ": " + e.Err.Error()
}

func (e *InvalidConfigurationError) Unwrap() error { return e.Err }

// UnknownDeviceTypeError is returned when building a device whose type has not
// been registered.
//
type UnknownDeviceTypeError struct {
	Type string
}

func (e *UnknownDeviceTypeError) Error() string {
	return "unknown device type " + e.Type
}

func configError(typ, param string, value any, format string, args ...any) error {
	return &InvalidConfigurationError{Type: typ, Param: param, Value: value, Err: errors.Errorf(format, args...)}
}
