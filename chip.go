// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdcsim

import (
	"sort"

	"github.com/pkg/errors"
)

// Chip composes existing parts into a new part packaged into a chip.
// The pin names specified as inputs and outputs will be the inputs
// and outputs of the chip. Other wire names used by the parts are private to
// each chip instance.
//
// The wiring is checked: every wire must have exactly one driver (a chip input,
// a constant, or a part output), and every chip output must be driven by a
// part. Clocks must be passed to sub-parts through chip inputs.
//
// A two stage synchronizer could be created like this:
//
//	sync2, err := Chip(
//		"SYNC2",
//		[]string{"clk", "in"},
//		[]string{"out"},
//		reg(W{"clk": "clk", "in": "in", "out": "meta"}),
//		reg(W{"clk": "clk", "in": "meta", "out": "out"}),
//	)
//
// The returned value is a function of type NewPartFn that can be used to
// compose the new part with others into other chips.
//
func Chip(name string, inputs, outputs []string, parts ...Part) (NewPartFn, error) {
	if len(parts) == 0 {
		return nil, errors.Errorf("%s: empty part list", name)
	}
	// wire name -> driver
	drivers := map[string]string{True: True, False: False}
	for _, in := range inputs {
		if _, ok := drivers[in]; ok {
			return nil, errors.Errorf("%s: duplicate or reserved input pin name %s", name, in)
		}
		drivers[in] = in
	}
	for _, p := range parts {
		if err := p.check(p.Wires); err != nil {
			return nil, errors.WithMessage(err, name)
		}
		for _, out := range p.Outputs {
			w, ok := p.Wires[out]
			if !ok {
				continue
			}
			if d, ok := drivers[w]; ok {
				return nil, errors.Errorf("%s: wire %s driven by %s.%s is already driven by %s", name, w, p.Name, out, d)
			}
			drivers[w] = p.Name + "." + out
		}
	}
	var bad []string
	for _, p := range parts {
		for _, in := range p.Inputs {
			if w, ok := p.Wires[in]; ok {
				if _, ok := drivers[w]; !ok {
					bad = append(bad, p.Name+"."+in+" ("+w+")")
				}
			}
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, errors.Errorf("%s: pins not connected to any output: %v", name, bad)
	}
	for _, out := range outputs {
		if d, ok := drivers[out]; !ok || d == out {
			return nil, errors.Errorf("%s: output pin %s not driven by any part", name, out)
		}
	}

	sp := &PartSpec{
		Name:    name,
		Inputs:  inputs,
		Outputs: outputs,
		Mount: func(s *Socket) []Component {
			var cs []Component
			for _, p := range parts {
				cs = append(cs, s.Mount(p)...)
			}
			return cs
		},
	}
	return sp.NewPart, nil
}
