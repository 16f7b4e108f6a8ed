// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdcsim

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// W is a set of wires, connecting a part's I/O pins (the map key) to wires in
// its container.
//
type W map[string]string

// A MountFn mounts a part into socket s. MountFn's should query
// the socket for assigned wire numbers and return closures around
// these wire numbers.
//
// For example, a register can be defined like this:
//
//	reg := &PartSpec{
//		Name:    "REG",
//		Inputs:  []string{"clk", "in"},
//		Outputs: []string{"out"},
//		Mount: func(s *Socket) []Component {
//			clk, in, out := s.Pin("clk"), s.Pin("in"), s.Pin("out")
//			var q uint64
//			return []Component{
//				func(c *Circuit) {
//					if c.Rising(clk) {
//						q = c.Get(in)
//					}
//					c.Set(out, q)
//				}}
//		}}
//
type MountFn func(s *Socket) []Component

// A PartSpec wraps a part specification (its blueprint).
//
type PartSpec struct {
	// Part name.
	Name string
	// Input pin names. Must be distinct pin names.
	Inputs []string
	// Output pin names. Must be distinct pin names.
	Outputs []string

	// Mount function (see MountFn).
	Mount MountFn
}

// NewPart is a NewPartFn that wraps p with the given connections into a Part.
// It panics if w references a pin that p does not have or connects an output
// to a constant wire.
//
func (p *PartSpec) NewPart(w W) Part {
	if err := p.check(w); err != nil {
		panic(err)
	}
	return Part{p, w}
}

func (p *PartSpec) check(w W) error {
	var bad []string
	for k, v := range w {
		if k == "" || v == "" {
			return errors.Errorf("%s: invalid pin mapping %q:%q", p.Name, k, v)
		}
		switch {
		case contains(p.Inputs, k):
		case contains(p.Outputs, k):
			if v == True || v == False {
				return errors.Errorf("%s.%s: output pin connected to constant %s input", p.Name, k, v)
			}
		default:
			bad = append(bad, k)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return errors.Errorf("invalid pin name %s for part %s", strings.Join(bad, ", "), p.Name)
	}
	return nil
}

func contains(l []string, s string) bool {
	for _, n := range l {
		if n == s {
			return true
		}
	}
	return false
}

// A NewPartFn is a function that takes a connection configuration and returns
// a new Part.
//
type NewPartFn func(w W) Part

// A Part wraps a part specification together with its connections within a
// host part or circuit.
//
type Part struct {
	*PartSpec
	Wires W
}
