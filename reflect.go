// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdcsim

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Updater is the interface that custom components built using reflection must
// implement. See MakePart.
//
type Updater interface {
	Update(c *Circuit)
}

// MakePart wraps an Updater into a custom part.
// Input/output pins are identified by field tags.
//
// The field tag must be `hw:"in"` or `hw:"out"` to identify input and output
// pins. By default, the pin name is the field name in lowercase. A specific
// pin name can be forced by adding it in the tag: `hw:"in,pin_name"`.
//
// Pin fields must be of type int. On mount, a copy of *t is made (or a zero
// value if t is a nil pointer), its pin fields are set to the wire numbers of
// the corresponding pins, and its Update method becomes the part's only
// component. Fields without a hw tag are copied as is, so they can carry
// parameters or point to shared state.
//
func MakePart(t Updater) *PartSpec {
	typ := reflect.TypeOf(t)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if k := typ.Kind(); k != reflect.Struct {
		panic(errors.Errorf("unsupported type %q for %q", k, typ.Name()))
	}

	sp := &PartSpec{
		Name: typ.Name(),
	}

	pins := make(map[string]string) // field name -> pin name
	n := typ.NumField()
	for i := 0; i < n; i++ {
		f := typ.Field(i)
		pin, isInput, ok := pinTag(f)
		if !ok {
			continue
		}
		if f.Type.Kind() != reflect.Int {
			panic(errors.Errorf("unsupported type %q for field %q in %q", f.Type.Kind(), f.Name, typ.Name()))
		}
		if isInput {
			sp.Inputs = append(sp.Inputs, pin)
		} else {
			sp.Outputs = append(sp.Outputs, pin)
		}
		pins[f.Name] = pin
	}
	proto := reflect.ValueOf(t)
	if proto.Kind() == reflect.Ptr {
		if proto.IsNil() {
			proto = reflect.Zero(typ)
		} else {
			proto = proto.Elem()
		}
	}
	sp.Mount = mountPart(proto, pins)
	return sp
}

func pinTag(f reflect.StructField) (pin string, isInput bool, ok bool) {
	tag, ok := f.Tag.Lookup("hw")
	if !ok {
		return "", false, false
	}
	pin = strings.ToLower(f.Name)
	tv := strings.Split(tag, ",")
	if len(tv) > 1 && tv[1] != "" {
		pin = tv[1]
	}
	switch tv[0] {
	case "in":
		isInput = true
	case "out":
	default:
		panic(errors.Errorf("unsupported tag %q for field %q", tag, f.Name))
	}
	return pin, isInput, true
}

func mountPart(proto reflect.Value, pins map[string]string) MountFn {
	return func(s *Socket) []Component {
		v := reflect.New(proto.Type())
		e := v.Elem()
		e.Set(proto)
		for field, pin := range pins {
			e.FieldByName(field).SetInt(int64(s.Pin(pin)))
		}
		u := v.Interface().(Updater)
		return []Component{u.Update}
	}
}
