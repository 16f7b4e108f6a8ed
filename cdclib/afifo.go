// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdclib

import (
	"fmt"
	"strconv"

	"github.com/db47h/cdcsim"
)

// AsyncFIFO pin names.
//
const (
	PinClkWr     = "clk_wr"
	PinRstWr     = "arst_wr"
	PinWrEn      = "wr_en_i"
	PinWrData    = "wr_data_i"
	PinWrFull    = "wr_full_o"
	PinClkRd     = "clk_rd"
	PinRstRd     = "arst_rd"
	PinRdEn      = "rd_en_i"
	PinRdData    = "rd_data_o"
	PinRdEmpty   = "rd_empty_o"
	PinOccupancy = "occupancy_o"

	pinWrGray = "wr_gray"
	pinRdGray = "rd_gray"
	pinWq2Rd  = "wq2_rd_gray"
	pinRq2Wr  = "rq2_wr_gray"
)

// fifo is the state shared by both sides of an AsyncFIFO.
//
type fifo struct {
	mem      []uint64
	slotMask uint64 // slots - 1
	ptrMask  uint64 // 2*slots - 1
	bits     uint   // pointer size
	wbin     uint64
	rbin     uint64
	full     bool
	empty    bool
}

// AsyncFIFO returns an asynchronous FIFO of the given capacity and bus width.
// slots must be a power of two greater or equal to 2.
//
// Write and read pointers are log2(slots)+1 bits wide. They are Gray-coded and
// passed to the other domain through a Sync2, so that at most one bit changes
// between successive values seen by the other side. As a result, the full and
// empty flags are pessimistic: full may stay high for a few write cycles after
// a read, and empty may stay high for a few read cycles after a write, but
// neither flag ever hides an overflow or underflow.
//
// On a rising edge of clk_wr, wr_data_i is stored if wr_en_i is high and the
// FIFO is not full. rd_data_o always shows the oldest entry; it is popped on
// a rising edge of clk_rd if rd_en_i is high and the FIFO is not empty.
//
//	Inputs: clk_wr, arst_wr, wr_en_i, wr_data_i, clk_rd, arst_rd, rd_en_i
//	Outputs: wr_full_o, rd_data_o, rd_empty_o, occupancy_o
//
// occupancy_o is a debug output: the number of entries between the true
// write and read pointers, with no synchronization. No real design can
// observe it; it is there for safety monitors.
//
func AsyncFIFO(slots, width int) cdcsim.NewPartFn {
	if slots < 2 || !IsPow2(slots) {
		panic(fmt.Sprintf("invalid FIFO slot count %d: must be a power of two >= 2", slots))
	}
	checkWidth(width)
	dm := mask(width)
	bits := log2(slots) + 1
	sync := Sync2(bits)
	return (&cdcsim.PartSpec{
		Name:    "AFIFO" + strconv.Itoa(slots) + "x" + strconv.Itoa(width),
		Inputs:  []string{PinClkWr, PinRstWr, PinWrEn, PinWrData, PinClkRd, PinRstRd, PinRdEn},
		Outputs: []string{PinWrFull, PinRdData, PinRdEmpty, PinOccupancy},
		Mount: func(s *cdcsim.Socket) []cdcsim.Component {
			// read pointer into the write domain and vice versa
			cs := s.Mount(sync(cdcsim.W{pClk: PinClkWr, pRst: PinRstWr, pIn: pinRdGray, pOut: pinWq2Rd}))
			cs = append(cs, s.Mount(sync(cdcsim.W{pClk: PinClkRd, pRst: PinRstRd, pIn: pinWrGray, pOut: pinRq2Wr}))...)

			wclk, wrst, wen, wdata, wfull := s.Pin(PinClkWr), s.Pin(PinRstWr), s.Pin(PinWrEn), s.Pin(PinWrData), s.Pin(PinWrFull)
			rclk, rrst, ren, rdata, rempty := s.Pin(PinClkRd), s.Pin(PinRstRd), s.Pin(PinRdEn), s.Pin(PinRdData), s.Pin(PinRdEmpty)
			wgray, rgray, wq2, rq2 := s.Pin(pinWrGray), s.Pin(pinRdGray), s.Pin(pinWq2Rd), s.Pin(pinRq2Wr)
			occ := s.Pin(PinOccupancy)

			f := &fifo{
				mem:      make([]uint64, slots),
				slotMask: uint64(slots - 1),
				ptrMask:  uint64(2*slots - 1),
				bits:     uint(bits),
				empty:    true,
			}
			return append(cs, func(c *cdcsim.Circuit) {
				// write domain
				switch {
				case c.GetBool(wrst):
					f.wbin, f.full = 0, false
				case c.Rising(wclk):
					if c.GetBool(wen) && !f.full {
						f.mem[f.wbin&f.slotMask] = c.Get(wdata) & dm
						f.wbin = (f.wbin + 1) & f.ptrMask
					}
					f.full = FullMatch(BinToGray(f.wbin), c.Get(wq2), f.bits)
				}
				// read domain
				switch {
				case c.GetBool(rrst):
					f.rbin, f.empty = 0, true
				case c.Rising(rclk):
					if c.GetBool(ren) && !f.empty {
						f.rbin = (f.rbin + 1) & f.ptrMask
					}
					f.empty = BinToGray(f.rbin) == c.Get(rq2)
				}
				c.Set(wgray, BinToGray(f.wbin))
				c.SetBool(wfull, f.full)
				c.Set(rgray, BinToGray(f.rbin))
				c.SetBool(rempty, f.empty)
				c.Set(rdata, f.mem[f.rbin&f.slotMask])
				c.Set(occ, (f.wbin-f.rbin)&f.ptrMask)
			})
		}}).NewPart
}
