// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdctest

import (
	"log"

	"github.com/db47h/cdcsim"
	"github.com/db47h/cdcsim/cdclib"
	"github.com/pkg/errors"
)

// ResetCycles is the number of cycles of each domain reset is held for.
//
const ResetCycles = 2

// ResetPair asserts resets rstA and rstB, holds them for ResetCycles cycles of
// clkA then ResetCycles cycles of clkB, then releases both.
//
func ResetPair(t *cdcsim.Task, clkA, rstA, clkB, rstB string) error {
	c := t.Circuit()
	c.SetImmediate(rstA, 1)
	c.SetImmediate(rstB, 1)
	if err := t.ClockCycles(clkA, ResetCycles); err != nil {
		return err
	}
	if err := t.ClockCycles(clkB, ResetCycles); err != nil {
		return err
	}
	c.SetImmediate(rstA, 0)
	c.SetImmediate(rstB, 0)
	return nil
}

// AckDriver drives the source side of a Sync2Ack.
//
type AckDriver struct {
	clk     string
	data    string
	ack     string
	k       *cdcsim.Clock
	since   uint64 // rising edges of clk at the last write
	pending bool
}

// NewAckDriver returns a driver for a Sync2Ack whose clk_a, data_a_i and
// ack_a_o pins are connected to the named wires.
//
func NewAckDriver(clk, data, ack string) *AckDriver {
	return &AckDriver{clk: clk, data: data, ack: ack}
}

// Reset clears the pending state. Call it after resetting the synchronizer.
//
func (d *AckDriver) Reset() { d.pending = false }

// Pending returns true if the last non-zero value written has not been
// acknowledged yet.
//
// ack_a_o from the previous transfer stays high until the new value is staged
// on the next rising edge of clk, so an acknowledge only counts once that edge
// has been seen.
//
func (d *AckDriver) Pending(t *cdcsim.Task) bool {
	if d.pending && d.k.Rises() > d.since && t.Circuit().Read(d.ack) != 0 {
		d.pending = false
	}
	return d.pending
}

func (d *AckDriver) clock(c *cdcsim.Circuit) (*cdcsim.Clock, error) {
	if d.k != nil {
		return d.k, nil
	}
	for _, k := range c.Clocks() {
		if k.Name() == d.clk {
			d.k = k
			return k, nil
		}
	}
	return nil, errors.Errorf("%s is not a clock", d.clk)
}

// Write sets the source data. It returns ErrBusy if a previous transfer has
// not been acknowledged.
//
// A zero value is never acknowledged, so it never makes the driver busy: a
// zero write followed by another Write may be overwritten before the
// destination domain samples it. Callers that need the zero to go through
// must wait for it, e.g. with ClockCycles on the destination clock.
//
func (d *AckDriver) Write(t *cdcsim.Task, v uint64) error {
	k, err := d.clock(t.Circuit())
	if err != nil {
		return err
	}
	if d.Pending(t) {
		return ErrBusy
	}
	t.Circuit().SetImmediate(d.data, v)
	d.since = k.Rises()
	d.pending = v != 0
	return nil
}

// WaitAck waits up to maxCycles cycles of the source clock for the
// acknowledge of the pending transfer.
//
func (d *AckDriver) WaitAck(t *cdcsim.Task, maxCycles int) error {
	for i := 0; i < maxCycles; i++ {
		if !d.Pending(t) {
			return nil
		}
		if err := t.RisingEdge(d.clk); err != nil {
			return err
		}
	}
	if d.Pending(t) {
		return errors.Wrapf(cdcsim.ErrTimeout, "no acknowledge after %d cycles of %s", maxCycles, d.clk)
	}
	return nil
}

// SyncDriver drives a synchronizer without acknowledge.
//
type SyncDriver struct {
	clk    string
	in     string
	out    string
	stages int
}

// NewSyncDriver returns a driver for a synchronizer with the given number of
// stages, whose clk, in and out pins are connected to the named wires.
//
func NewSyncDriver(clk, in, out string, stages int) *SyncDriver {
	return &SyncDriver{clk: clk, in: in, out: out, stages: stages}
}

// Transfer sets the input to v, waits for it to go through all stages and
// returns the output value.
//
func (d *SyncDriver) Transfer(t *cdcsim.Task, v uint64) (uint64, error) {
	c := t.Circuit()
	c.SetImmediate(d.in, v)
	if err := t.ClockCycles(d.clk, d.stages); err != nil {
		return 0, err
	}
	return c.Read(d.out), nil
}

// FIFODriver drives both sides of an AsyncFIFO whose pins are connected to
// top level wires of the same name.
//
// Inputs are changed on falling edges so that they are stable on the next
// rising edge.
//
type FIFODriver struct {
	log *log.Logger
}

// NewFIFODriver returns a new FIFODriver. Transfers are logged to l if not
// nil.
//
func NewFIFODriver(l *log.Logger) *FIFODriver {
	return &FIFODriver{log: l}
}

func (d *FIFODriver) logf(format string, args ...interface{}) {
	if d.log != nil {
		d.log.Printf(format, args...)
	}
}

// Write pushes v into the FIFO. If the FIFO is full, Write returns ErrFull
// when exitFull is true, otherwise it waits until the write succeeds.
//
func (d *FIFODriver) Write(t *cdcsim.Task, v uint64, exitFull bool) error {
	c := t.Circuit()
	for {
		if err := t.FallingEdge(cdclib.PinClkWr); err != nil {
			return err
		}
		// full only changes on rising edges of the write clock
		full := c.Read(cdclib.PinWrFull) != 0
		if full && exitFull {
			c.SetImmediate(cdclib.PinWrEn, 0)
			return ErrFull
		}
		c.SetImmediate(cdclib.PinWrEn, 1)
		c.SetImmediate(cdclib.PinWrData, v)
		if err := t.RisingEdge(cdclib.PinClkWr); err != nil {
			return err
		}
		if !full {
			break
		}
	}
	c.SetImmediate(cdclib.PinWrEn, 0)
	d.logf("write => %x", v)
	return nil
}

// Read pops a value from the FIFO. If the FIFO is empty, Read returns
// ErrEmpty when exitEmpty is true, otherwise it waits for data.
//
func (d *FIFODriver) Read(t *cdcsim.Task, exitEmpty bool) (uint64, error) {
	c := t.Circuit()
	for {
		if err := t.FallingEdge(cdclib.PinClkRd); err != nil {
			return 0, err
		}
		if c.Read(cdclib.PinRdEmpty) == 0 {
			break
		}
		if exitEmpty {
			return 0, ErrEmpty
		}
	}
	// capture before the read pointer moves
	v := c.Read(cdclib.PinRdData)
	c.SetImmediate(cdclib.PinRdEn, 1)
	if err := t.RisingEdge(cdclib.PinClkRd); err != nil {
		return 0, err
	}
	c.SetImmediate(cdclib.PinRdEn, 0)
	d.logf("read => %x", v)
	return v, nil
}
