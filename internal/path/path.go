// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package path parses connector endpoints of the form "<device>.<in|out><n>".
//
package path

import (
	"strconv"

	"github.com/pkg/errors"
)

// Kind is the node kind named by an endpoint.
//
type Kind int

// Endpoint kinds.
const (
	In Kind = iota
	Out
)

func (k Kind) String() string {
	if k == In {
		return "in"
	}
	return "out"
}

// Endpoint is a parsed connector endpoint.
//
type Endpoint struct {
	Device string
	Kind   Kind
	Index  int
}

func (e Endpoint) String() string {
	return Format(e.Device, e.Kind, e.Index)
}

// Format returns the textual form of an endpoint.
//
func Format(dev string, k Kind, index int) string {
	return dev + "." + k.String() + strconv.Itoa(index)
}

func isWord(c byte) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// ValidID returns true if s can be used as the device id of an endpoint.
//
func ValidID(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isWord(s[i]) {
			return false
		}
	}
	return true
}

// Parse parses an endpoint string. The device id is a non empty sequence of
// ASCII letters, digits or underscores; it is followed by a dot, the node kind
// ("in" or "out") and a decimal node index.
//
func Parse(s string) (Endpoint, error) {
	var e Endpoint
	i := 0
	for i < len(s) && isWord(s[i]) {
		i++
	}
	if i == 0 {
		return e, parseError(s, i, "expected device id")
	}
	e.Device = s[:i]
	if i == len(s) || s[i] != '.' {
		return e, parseError(s, i, "expected '.'")
	}
	i++
	switch {
	case len(s)-i >= 3 && s[i:i+3] == "out":
		e.Kind = Out
		i += 3
	case len(s)-i >= 2 && s[i:i+2] == "in":
		e.Kind = In
		i += 2
	default:
		return e, parseError(s, i, "expected in or out")
	}
	start := i
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		i++
	}
	if i == start {
		return e, parseError(s, i, "expected node index")
	}
	if i != len(s) {
		return e, parseError(s, i, "unexpected character")
	}
	n, err := strconv.Atoi(s[start:])
	if err != nil {
		return e, errors.Wrapf(err, "in %q", s)
	}
	e.Index = n
	return e, nil
}

func parseError(in string, pos int, msg string) error {
	return errors.Errorf("in %q at pos %d: %s", in, pos+1, msg)
}
