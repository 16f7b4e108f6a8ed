// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdctest

import (
	"github.com/db47h/cdcsim"
	"github.com/db47h/cdcsim/cdclib"
	"github.com/pkg/errors"
)

// WaitCycles is the number of cycles waited for data to go through a
// synchronizer stage pair.
//
const WaitCycles = 2

// pins returns a W connecting each pin to a top level wire of the same name.
func pins(names ...string) cdcsim.W {
	w := make(cdcsim.W, len(names))
	for _, n := range names {
		w[n] = n
	}
	return w
}

func (e *env) sync2Ack() ([]*cdcsim.Clock, []cdcsim.Part, cdcsim.TaskFn, error) {
	ka, kb, err := e.cfg.Mode.Clocks(cdclib.PinClkA, cdclib.PinClkB)
	if err != nil {
		return nil, nil, nil, err
	}
	parts := []cdcsim.Part{
		cdclib.Sync2Ack(e.cfg.Width)(pins(
			cdclib.PinClkA, cdclib.PinClkB, cdclib.PinRstA, cdclib.PinRstB,
			cdclib.PinDataA, cdclib.PinStagedA, cdclib.PinDataB, cdclib.PinAckA)),
	}
	name := e.cfg.Test
	main := func(t *cdcsim.Task) error {
		c := t.Circuit()
		d := NewAckDriver(cdclib.PinClkA, cdclib.PinDataA, cdclib.PinAckA)
		for i := 0; i < e.cfg.Iterations; i++ {
			if err := ResetPair(t, cdclib.PinClkA, cdclib.PinRstA, cdclib.PinClkB, cdclib.PinRstB); err != nil {
				return err
			}
			d.Reset()
			v := e.randSync()
			if err := d.Write(t, v); err != nil {
				return err
			}
			if err := t.ClockCycles(cdclib.PinClkA, WaitCycles); err != nil {
				return err
			}
			if err := check(name, i, "staged value", v, c.Read(cdclib.PinStagedA)); err != nil {
				return err
			}
			if v != 0 {
				// B has not seen the value yet
				if err := d.Write(t, v^1); errors.Cause(err) != ErrBusy {
					return errors.Errorf("%s: iteration %d: write accepted while acknowledge pending", name, i)
				}
			}
			if err := t.ClockCycles(cdclib.PinClkB, WaitCycles); err != nil {
				return err
			}
			out := c.Read(cdclib.PinDataB)
			e.log.Printf("expected [%d], observed [%d]", v, out)
			if err := check(name, i, "committed value", v, out); err != nil {
				return err
			}
			if err := t.ClockCycles(cdclib.PinClkA, WaitCycles); err != nil {
				return err
			}
			if v != 0 {
				if err := check(name, i, "acknowledge", 1, c.Read(cdclib.PinAckA)); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return []*cdcsim.Clock{ka, kb}, parts, main, nil
}

const (
	pinSyncClk = "clk"
	pinSyncRst = "arst"
	pinSyncIn  = "async_i"
	pinSyncOut = "sync_o"
)

func (e *env) sync3() ([]*cdcsim.Clock, []cdcsim.Part, cdcsim.TaskFn, error) {
	pa, _ := e.cfg.Mode.Periods()
	k, err := cdcsim.NewClock(pinSyncClk, pa, 0)
	if err != nil {
		return nil, nil, nil, err
	}
	parts := []cdcsim.Part{
		cdclib.Sync3(e.cfg.Width)(cdcsim.W{"clk": pinSyncClk, "arst": pinSyncRst, "in": pinSyncIn, "out": pinSyncOut}),
	}
	name := e.cfg.Test
	main := func(t *cdcsim.Task) error {
		c := t.Circuit()
		c.SetImmediate(pinSyncRst, 1)
		if err := t.ClockCycles(pinSyncClk, ResetCycles); err != nil {
			return err
		}
		c.SetImmediate(pinSyncRst, 0)
		d := NewSyncDriver(pinSyncClk, pinSyncIn, pinSyncOut, 3)
		for i := 0; i < e.cfg.Iterations; i++ {
			v := e.randSync()
			out, err := d.Transfer(t, v)
			if err != nil {
				return err
			}
			e.log.Printf("expected [%d], observed [%d]", v, out)
			if err := check(name, i, "synchronized value", v, out); err != nil {
				return err
			}
		}
		return nil
	}
	return []*cdcsim.Clock{k}, parts, main, nil
}

func (e *env) fifo() ([]*cdcsim.Clock, []cdcsim.Part, cdcsim.TaskFn, error) {
	kw, kr, err := e.cfg.Mode.Clocks(cdclib.PinClkWr, cdclib.PinClkRd)
	if err != nil {
		return nil, nil, nil, err
	}
	slots := e.cfg.Slots
	parts := []cdcsim.Part{
		cdclib.AsyncFIFO(slots, e.cfg.Width)(pins(
			cdclib.PinClkWr, cdclib.PinRstWr, cdclib.PinWrEn, cdclib.PinWrData, cdclib.PinWrFull,
			cdclib.PinClkRd, cdclib.PinRstRd, cdclib.PinRdEn, cdclib.PinRdData, cdclib.PinRdEmpty,
			cdclib.PinOccupancy)),
		newFIFOMonitor(slots, &e.stat, cdcsim.W{
			"occupancy": cdclib.PinOccupancy,
			"full":      cdclib.PinWrFull,
			"empty":     cdclib.PinRdEmpty,
		}),
	}
	name := e.cfg.Test
	d := NewFIFODriver(e.log)
	reset := func(t *cdcsim.Task) error {
		return ResetPair(t, cdclib.PinClkWr, cdclib.PinRstWr, cdclib.PinClkRd, cdclib.PinRstRd)
	}
	main := func(t *cdcsim.Task) error {
		if err := reset(t); err != nil {
			return err
		}
		// random batches
		for i := 0; i < e.cfg.Iterations; i++ {
			samples := make([]uint64, e.rnd.Intn(slots+1))
			for j := range samples {
				samples[j] = e.randData()
			}
			if err := e.fifoBatch(t, d, i, samples); err != nil {
				return err
			}
		}

		// full flag
		if err := reset(t); err != nil {
			return err
		}
		samples := make([]uint64, slots)
		for j := range samples {
			samples[j] = e.randData()
		}
		for _, v := range samples {
			if err := d.Write(t, v, false); err != nil {
				return err
			}
		}
		if err := d.Write(t, samples[0], true); errors.Cause(err) != ErrFull {
			return errors.Errorf("%s: FIFO not signaling full after %d writes (%v)", name, slots, err)
		}
		if err := e.fifoDrain(t, d, -1, samples); err != nil {
			return err
		}
		if _, err := d.Read(t, true); errors.Cause(err) != ErrEmpty {
			return errors.Errorf("%s: FIFO not signaling empty after draining (%v)", name, err)
		}

		// empty flag
		if err := reset(t); err != nil {
			return err
		}
		if _, err := d.Read(t, true); errors.Cause(err) != ErrEmpty {
			return errors.Errorf("%s: FIFO not signaling empty after reset (%v)", name, err)
		}

		// concurrent writer and reader
		if err := e.fifoStream(t, d); err != nil {
			return err
		}
		return e.stat.err
	}
	return []*cdcsim.Clock{kw, kr}, parts, main, nil
}

func (e *env) fifoBatch(t *cdcsim.Task, d *FIFODriver, iter int, samples []uint64) error {
	for _, v := range samples {
		if err := d.Write(t, v, false); err != nil {
			return err
		}
	}
	return e.fifoDrain(t, d, iter, samples)
}

func (e *env) fifoDrain(t *cdcsim.Task, d *FIFODriver, iter int, samples []uint64) error {
	for _, v := range samples {
		out, err := d.Read(t, false)
		if err != nil {
			return err
		}
		e.log.Printf("expected [%d], observed [%d]", v, out)
		if err := check(e.cfg.Test, iter, "read value", v, out); err != nil {
			return err
		}
	}
	return e.stat.err
}

func (e *env) fifoStream(t *cdcsim.Task, d *FIFODriver) error {
	samples := make([]uint64, 2*e.cfg.Slots)
	for j := range samples {
		samples[j] = e.randData()
	}
	w := t.Fork("writer", func(t *cdcsim.Task) error {
		for _, v := range samples {
			if err := d.Write(t, v, false); err != nil {
				return err
			}
		}
		return nil
	})
	r := t.Fork("reader", func(t *cdcsim.Task) error {
		return e.fifoDrain(t, d, -1, samples)
	})
	if err := t.Join(w); err != nil {
		return err
	}
	return t.Join(r)
}
