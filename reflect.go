// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simcir

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Updater is the interface that devices built using reflection must
// implement. See MakeSpec.
//
type Updater interface {
	Update()
}

var nodeType = reflect.TypeOf((*Node)(nil))

type fieldSpec struct {
	index int
	input bool
	label string
	bus   int // array length, 0 for single nodes
}

// MakeSpec wraps an Updater into a device spec. Input and output nodes are
// identified by field tags.
//
// The field tag must be `sim:"in"` or `sim:"out"` and the field type either
// *Node or an array of *Node. Tagged fields must be exported. Nodes are
// created in field order. By default the
// node label is the field name in lowercase; a specific label can be set in
// the tag: `sim:"in,label"`. Array elements are labeled label0, label1, etc.
//
// A new value of the Updater's type is allocated for each device; its Update
// method is called whenever an input changes. The value is also the device
// controller.
//
func MakeSpec(typ string, u Updater) *DeviceSpec {
	t := reflect.TypeOf(u)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if k := t.Kind(); k != reflect.Struct {
		panic(errors.Errorf("unsupported type %q for %q", k, t.Name()))
	}

	var fields []fieldSpec
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, ok := f.Tag.Lookup("sim")
		if !ok {
			continue
		}
		fs := fieldSpec{index: i, label: strings.ToLower(f.Name)}
		tv := strings.Split(tag, ",")
		if len(tv) > 1 && tv[1] != "" {
			fs.label = tv[1]
		}
		switch tv[0] {
		case "in":
			fs.input = true
		case "out":
		default:
			panic(errors.Errorf("unsupported tag %q for field %q in %q", tag, f.Name, t.Name()))
		}
		switch ft := f.Type; {
		case ft == nodeType:
		case ft.Kind() == reflect.Array && ft.Elem() == nodeType:
			fs.bus = ft.Len()
		default:
			panic(errors.Errorf("unsupported type %q for field %q in %q", ft, f.Name, t.Name()))
		}
		fields = append(fields, fs)
	}

	return &DeviceSpec{
		Type:  typ,
		Mount: mountReflect(t, fields),
	}
}

func mountReflect(t reflect.Type, fields []fieldSpec) MountFn {
	return func(d *Device) error {
		v := reflect.New(t)
		e := v.Elem()
		for _, fs := range fields {
			add := d.AddOutput
			if fs.input {
				add = d.AddInput
			}
			fv := e.Field(fs.index)
			if fs.bus == 0 {
				fv.Set(reflect.ValueOf(add(fs.label, "")))
				continue
			}
			for i := 0; i < fs.bus; i++ {
				fv.Index(i).Set(reflect.ValueOf(add(fs.label+strconv.Itoa(i), "")))
			}
		}
		u := v.Interface().(Updater)
		d.OnInputChange(u.Update)
		d.SetController(u)
		return nil
	}
}
