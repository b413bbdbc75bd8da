// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simcir

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/db47h/simcir/internal/path"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// A Description is the persisted form of a circuit.
//
type Description struct {
	Width       int            `json:"width,omitempty" yaml:"width,omitempty" validate:"gte=0"`
	Height      int            `json:"height,omitempty" yaml:"height,omitempty" validate:"gte=0"`
	ShowToolbox *bool          `json:"showToolbox,omitempty" yaml:"showToolbox,omitempty"`
	Editable    *bool          `json:"editable,omitempty" yaml:"editable,omitempty"`
	Toolbox     []DeviceDef    `json:"toolbox,omitempty" yaml:"toolbox,omitempty" validate:"dive"`
	Devices     []DeviceDef    `json:"devices" yaml:"devices" validate:"dive"`
	Connectors  []ConnectorDef `json:"connectors" yaml:"connectors" validate:"dive"`
	Layout      *Layout        `json:"layout,omitempty" yaml:"layout,omitempty"`
}

// A DeviceDef describes a device in a circuit description or a toolbox.
//
// Keys of a device record other than the ones below are type parameters (for
// example numInputs or freq) and are kept in Params.
//
type DeviceDef struct {
	Type   string         `json:"type" yaml:"type" validate:"required"`
	ID     string         `json:"id,omitempty" yaml:"id,omitempty"`
	X      float64        `json:"x,omitempty" yaml:"x,omitempty"`
	Y      float64        `json:"y,omitempty" yaml:"y,omitempty"`
	Label  string         `json:"label,omitempty" yaml:"label,omitempty"`
	State  map[string]any `json:"state,omitempty" yaml:"state,omitempty"`
	Params map[string]any `json:"-" yaml:",inline"`
}

// A ConnectorDef connects two endpoints, given in any order.
//
type ConnectorDef struct {
	From string `json:"from" yaml:"from" validate:"required"`
	To   string `json:"to" yaml:"to" validate:"required"`
}

// A Layout places the ports of a composite device on the sides of a custom
// footprint. Nodes maps port labels to slots like "L1" or "T3".
//
type Layout struct {
	Rows                 int               `json:"rows" yaml:"rows" validate:"gte=0"`
	Cols                 int               `json:"cols" yaml:"cols" validate:"gte=0"`
	HideLabelOnWorkspace bool              `json:"hideLabelOnWorkspace,omitempty" yaml:"hideLabelOnWorkspace,omitempty"`
	Nodes                map[string]string `json:"nodes" yaml:"nodes"`
}

var defKeys = map[string]bool{"type": true, "id": true, "x": true, "y": true, "label": true, "state": true}

type deviceDefJSON struct {
	Type  string         `json:"type"`
	ID    string         `json:"id,omitempty"`
	X     float64        `json:"x,omitempty"`
	Y     float64        `json:"y,omitempty"`
	Label string         `json:"label,omitempty"`
	State map[string]any `json:"state,omitempty"`
}

// MarshalJSON implements json.Marshaler.
//
func (d DeviceDef) MarshalJSON() ([]byte, error) {
	if len(d.Params) == 0 {
		return json.Marshal(deviceDefJSON{d.Type, d.ID, d.X, d.Y, d.Label, d.State})
	}
	m := make(map[string]any, len(d.Params)+6)
	for k, v := range d.Params {
		m[k] = v
	}
	m["type"] = d.Type
	if d.ID != "" {
		m["id"] = d.ID
	}
	if d.X != 0 {
		m["x"] = d.X
	}
	if d.Y != 0 {
		m["y"] = d.Y
	}
	if d.Label != "" {
		m["label"] = d.Label
	}
	if d.State != nil {
		m["state"] = d.State
	}
	return json.Marshal(m)
}

// UnmarshalJSON implements json.Unmarshaler.
//
func (d *DeviceDef) UnmarshalJSON(b []byte) error {
	var f deviceDefJSON
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*d = DeviceDef{Type: f.Type, ID: f.ID, X: f.X, Y: f.Y, Label: f.Label, State: f.State}
	for k, v := range m {
		if defKeys[k] {
			continue
		}
		if d.Params == nil {
			d.Params = make(map[string]any)
		}
		d.Params[k] = v
	}
	return nil
}

func (d DeviceDef) clone() DeviceDef {
	c := d
	if d.State != nil {
		c.State = make(map[string]any, len(d.State))
		for k, v := range d.State {
			c.State[k] = v
		}
	}
	if d.Params != nil {
		c.Params = make(map[string]any, len(d.Params))
		for k, v := range d.Params {
			c.Params[k] = v
		}
	}
	return c
}

var validate = validator.New()

// Validate checks the structure of a description: required fields, unique
// and well formed device ids. Endpoint references are checked when the
// circuit is built.
//
func (desc *Description) Validate() error {
	if err := validate.Struct(desc); err != nil {
		return errors.Wrap(err, "invalid description")
	}
	ids := make(map[string]bool, len(desc.Devices))
	for i := range desc.Devices {
		id := desc.Devices[i].ID
		if id == "" {
			return errors.Errorf("invalid description: device #%d (%s) has no id", i, desc.Devices[i].Type)
		}
		if !path.ValidID(id) {
			return &InvalidConfigurationError{Type: desc.Devices[i].Type, Param: "id", Value: id, Err: ErrInvalidID}
		}
		if ids[id] {
			return errors.Errorf("invalid description: duplicate device id %s", id)
		}
		ids[id] = true
	}
	return nil
}

// ParseJSON decodes a description in JSON format.
//
func ParseJSON(r io.Reader) (*Description, error) {
	var desc Description
	if err := json.NewDecoder(r).Decode(&desc); err != nil {
		return nil, errors.Wrap(err, "decode JSON description")
	}
	return &desc, nil
}

// ParseYAML decodes a description in YAML format.
//
func ParseYAML(r io.Reader) (*Description, error) {
	var desc Description
	if err := yaml.NewDecoder(r).Decode(&desc); err != nil {
		return nil, errors.Wrap(err, "decode YAML description")
	}
	return &desc, nil
}

// LoadFile reads a description from a file. Files with a .yaml or .yml
// extension are decoded as YAML, anything else as JSON.
//
func LoadFile(name string) (*Description, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	var desc *Description
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		desc, err = ParseYAML(bytes.NewReader(b))
	default:
		desc, err = ParseJSON(bytes.NewReader(b))
	}
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return desc, nil
}

// WriteJSON writes desc to w in indented JSON format.
//
func (desc *Description) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(desc)
}

// WriteYAML writes desc to w in YAML format.
//
func (desc *Description) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(desc); err != nil {
		return err
	}
	return enc.Close()
}
