// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdclib

import (
	"strconv"

	"github.com/db47h/cdcsim"
)

// DFF returns a clocked data flip flop with asynchronous reset, for a bus of
// the given width.
//
//	Inputs: clk, arst, in
//	Outputs: out
//	Function: out(t) = in(t-1) // where t is the current cycle of clk.
//	          out = 0 while arst is high.
//
func DFF(width int) cdcsim.NewPartFn {
	checkWidth(width)
	m := mask(width)
	return (&cdcsim.PartSpec{
		Name:    "DFF" + strconv.Itoa(width),
		Inputs:  []string{pClk, pRst, pIn},
		Outputs: []string{pOut},
		Mount: func(s *cdcsim.Socket) []cdcsim.Component {
			clk, rst, in, out := s.Pin(pClk), s.Pin(pRst), s.Pin(pIn), s.Pin(pOut)
			var q uint64
			return []cdcsim.Component{
				func(c *cdcsim.Circuit) {
					switch {
					case c.GetBool(rst):
						q = 0
					case c.Rising(clk):
						q = c.Get(in) & m
					}
					c.Set(out, q)
				}}
		}}).NewPart
}
