// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package library provides a set of composite devices built from the basic
// set: flip-flops, counters, adders, decoders, multiplexers, registers and an
// ALU.
//
// Each device is a circuit description embedded in the package; its In and Out
// devices are the device ports. The basic set must be registered before any of
// these devices is built:
//
//	reg := simcir.NewRegistry()
//	basicset.Register(reg)
//	library.Register(reg)
//
package library

import (
	"bytes"
	"embed"

	"github.com/db47h/simcir"
	"github.com/pkg/errors"
)

//go:embed circuits/*.json
var circuits embed.FS

// Names lists the library devices in registration order. Devices built from
// other library devices come after them.
//
var Names = []string{
	"RS-FF",
	"JK-FF",
	"T-FF",
	"D-FF",
	"8bitCounter",
	"HalfAdder",
	"FullAdder",
	"4bitAdder",
	"2to4BinaryDecoder",
	"3to8BinaryDecoder",
	"4to16BinaryDecoder",
	"isZR",
	"MUX",
	"8bitMUX",
	"4to1MUX",
	"8bit4to1MUX",
	"8bitNOT",
	"8bitAND",
	"8bitOR",
	"8bitXOR",
	"8bitAdder",
	"DLATCH",
	"DFF",
	"4bitReg",
	"8bitReg",
	"ALU",
}

// Description returns the circuit description of the named library device.
//
func Description(name string) (*simcir.Description, error) {
	b, err := circuits.ReadFile("circuits/" + name + ".json")
	if err != nil {
		return nil, errors.Wrapf(err, "library device %s", name)
	}
	desc, err := simcir.ParseJSON(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrapf(err, "library device %s", name)
	}
	return desc, nil
}

// Register registers all library devices in r.
//
func Register(r *simcir.Registry) error {
	for _, name := range Names {
		desc, err := Description(name)
		if err != nil {
			return err
		}
		if err := r.RegisterCircuit(name, desc); err != nil {
			return err
		}
	}
	return nil
}
