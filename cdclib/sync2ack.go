// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdclib

import (
	"strconv"

	"github.com/db47h/cdcsim"
)

// Sync2Ack pin names.
//
const (
	PinClkA    = "clk_a"
	PinClkB    = "clk_b"
	PinRstA    = "arst_a"
	PinRstB    = "arst_b"
	PinDataA   = "data_a_i"
	PinStagedA = "data_a_ffs"
	PinDataB   = "data_b_o"
	PinAckA    = "ack_a_o"
)

// Sync2Ack returns a two flip-flop synchronizer with acknowledge, moving a
// bus of the given width from domain A to domain B.
//
// The A side stages data_a_i on the rising edge of clk_a. The staged value goes
// through two clk_b flip flops and shows up on data_b_o. The B side value is
// then fed back through two clk_a flip flops and ack_a_o is raised once it
// matches the staged value. An all-zero value never raises ack_a_o.
//
// data_a_i must not change while an acknowledge is pending.
//
//	Inputs: clk_a, clk_b, arst_a, arst_b, data_a_i
//	Outputs: data_a_ffs, data_b_o, ack_a_o
//
// All registers and ack_a_o are cleared while either reset is high.
//
func Sync2Ack(width int) cdcsim.NewPartFn {
	checkWidth(width)
	m := mask(width)
	return (&cdcsim.PartSpec{
		Name:    "SYNC2ACK" + strconv.Itoa(width),
		Inputs:  []string{PinClkA, PinClkB, PinRstA, PinRstB, PinDataA},
		Outputs: []string{PinStagedA, PinDataB, PinAckA},
		Mount: func(s *cdcsim.Socket) []cdcsim.Component {
			clkA, clkB, rstA, rstB := s.Pin(PinClkA), s.Pin(PinClkB), s.Pin(PinRstA), s.Pin(PinRstB)
			in, staged, out, ack := s.Pin(PinDataA), s.Pin(PinStagedA), s.Pin(PinDataB), s.Pin(PinAckA)
			var (
				q   uint64
				fwd [2]uint64 // clk_b stages
				fb  [2]uint64 // clk_a stages
			)
			return []cdcsim.Component{
				func(c *cdcsim.Circuit) {
					rst := c.GetBool(rstA) || c.GetBool(rstB)
					if rst {
						q, fwd, fb = 0, [2]uint64{}, [2]uint64{}
					} else {
						// all stages sample their pre-edge input
						ra, rb := c.Rising(clkA), c.Rising(clkB)
						nq, nfwd, nfb := q, fwd, fb
						if ra {
							nq = c.Get(in) & m
							nfb = [2]uint64{fwd[1], fb[0]}
						}
						if rb {
							nfwd = [2]uint64{q, fwd[0]}
						}
						q, fwd, fb = nq, nfwd, nfb
					}
					c.Set(staged, q)
					c.Set(out, fwd[1])
					c.SetBool(ack, !rst && q != 0 && fb[1] == q)
				}}
		}}).NewPart
}
