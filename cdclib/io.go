// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdclib

import (
	"github.com/db47h/cdcsim"
)

// Input creates a function based input.
//
//	Outputs: out
//	Function: out = f()
//
func Input(f func() uint64) cdcsim.NewPartFn {
	p := &cdcsim.PartSpec{
		Name:    "Input",
		Inputs:  nil,
		Outputs: []string{pOut},
		Mount: func(s *cdcsim.Socket) []cdcsim.Component {
			pin := s.Pin(pOut)
			return []cdcsim.Component{
				func(c *cdcsim.Circuit) {
					c.Set(pin, f())
				},
			}
		},
	}
	return p.NewPart
}

// Output creates an output or probe. The fn function is
// called with the named pin state on every circuit update.
//
//	Inputs: in
//	Function: f(in)
//
func Output(f func(uint64)) cdcsim.NewPartFn {
	p := &cdcsim.PartSpec{
		Name:    "Output",
		Inputs:  []string{pIn},
		Outputs: nil,
		Mount: func(s *cdcsim.Socket) []cdcsim.Component {
			in := s.Pin(pIn)
			return []cdcsim.Component{
				func(c *cdcsim.Circuit) { f(c.Get(in)) },
			}
		},
	}
	return p.NewPart
}
