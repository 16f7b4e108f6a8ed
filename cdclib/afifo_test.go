// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdclib_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/db47h/cdcsim"
	"github.com/db47h/cdcsim/cdclib"
)

func newFIFO(t *testing.T, slots, width int, wrPeriod, rdPeriod uint64, occ *uint64) *cdcsim.Circuit {
	t.Helper()
	return newCircuit(t, []*cdcsim.Clock{newClock(t, "wclk", wrPeriod), newClock(t, "rclk", rdPeriod)},
		cdclib.AsyncFIFO(slots, width)(cdcsim.W{
			cdclib.PinClkWr:     "wclk",
			cdclib.PinRstWr:     "wrst",
			cdclib.PinWrEn:      "wen",
			cdclib.PinWrData:    "wdata",
			cdclib.PinWrFull:    "full",
			cdclib.PinClkRd:     "rclk",
			cdclib.PinRstRd:     "rrst",
			cdclib.PinRdEn:      "ren",
			cdclib.PinRdData:    "rdata",
			cdclib.PinRdEmpty:   "empty",
			cdclib.PinOccupancy: "occ",
		}),
		cdclib.Output(func(v uint64) { *occ = v })(cdcsim.W{"in": "occ"}),
	)
}

// push writes v on the next write edge. It returns false if full was set.
func push(c *cdcsim.Circuit, v uint64) bool {
	if c.Read("full") != 0 {
		return false
	}
	c.SetImmediate("wen", 1)
	c.SetImmediate("wdata", v)
	rising(c, "wclk")
	c.SetImmediate("wen", 0)
	return true
}

// pop waits for data, then returns the oldest entry.
func pop(c *cdcsim.Circuit) uint64 {
	for c.Read("empty") != 0 {
		rising(c, "rclk")
	}
	v := c.Read("rdata")
	c.SetImmediate("ren", 1)
	rising(c, "rclk")
	c.SetImmediate("ren", 0)
	return v
}

func TestAsyncFIFO(t *testing.T) {
	for _, p := range []struct{ wr, rd uint64 }{{20, 10}, {10, 20}, {10, 14}} {
		var occ uint64
		c := newFIFO(t, 8, 4, p.wr, p.rd, &occ)

		// flags are only valid after the first step
		c.Step()
		if c.Read("empty") == 0 {
			t.Fatal("FIFO not empty after start")
		}

		in := []uint64{1, 3, 15, 0, 7, 8, 9, 10}
		for i, v := range in {
			if !push(c, v) {
				t.Fatalf("periods %v: write #%d rejected", p, i)
			}
		}
		if c.Read("full") == 0 {
			t.Fatalf("periods %v: FIFO not full after %d writes", p, len(in))
		}
		if push(c, 5) {
			t.Fatalf("periods %v: write accepted while full", p)
		}
		c.Step()
		if occ != 8 {
			t.Fatalf("periods %v: expected occupancy 8, got %d", p, occ)
		}
		for i, v := range in {
			if got := pop(c); got != v {
				t.Fatalf("periods %v: read #%d: expected %d, got %d", p, i, v, got)
			}
		}
		if c.Read("empty") == 0 {
			t.Fatalf("periods %v: FIFO not empty after draining", p)
		}
		c.Dispose()
	}
}

func TestAsyncFIFO_stream(t *testing.T) {
	const (
		slots = 4
		count = 64
	)
	var occ uint64
	c := newFIFO(t, slots, 8, 10, 26, &occ)
	defer c.Dispose()

	rnd := rand.New(rand.NewSource(1))
	in := make([]uint64, count)
	for i := range in {
		in[i] = uint64(rnd.Intn(256))
	}
	var out []uint64

	sim := cdcsim.NewSim(c, 100000)
	sim.Fork("writer", func(tk *cdcsim.Task) error {
		for i := 0; i < count; {
			if err := tk.FallingEdge("wclk"); err != nil {
				return err
			}
			if c.Read("full") != 0 {
				continue
			}
			c.SetImmediate("wen", 1)
			c.SetImmediate("wdata", in[i])
			if err := tk.RisingEdge("wclk"); err != nil {
				return err
			}
			c.SetImmediate("wen", 0)
			i++
		}
		return nil
	})
	sim.Fork("reader", func(tk *cdcsim.Task) error {
		for len(out) < count {
			if err := tk.FallingEdge("rclk"); err != nil {
				return err
			}
			if occ > slots {
				t.Errorf("overflow: occupancy %d", occ)
			}
			if c.Read("empty") != 0 {
				continue
			}
			out = append(out, c.Read("rdata"))
			c.SetImmediate("ren", 1)
			if err := tk.RisingEdge("rclk"); err != nil {
				return err
			}
			c.SetImmediate("ren", 0)
		}
		return nil
	})
	if err := sim.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	for i := range out {
		if out[i] != in[i] {
			t.Fatalf("read #%d: expected %d, got %d", i, in[i], out[i])
		}
	}
}

func TestAsyncFIFO_reset(t *testing.T) {
	var occ uint64
	c := newFIFO(t, 4, 8, 10, 14, &occ)
	defer c.Dispose()

	c.Step()
	for _, v := range []uint64{1, 2, 3} {
		push(c, v)
	}
	if got := pop(c); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}

	// reset with two entries in flight
	c.SetImmediate("wrst", 1)
	c.SetImmediate("rrst", 1)
	c.Step()
	if c.Read("full") != 0 || c.Read("empty") == 0 {
		t.Fatal("reset did not clear the FIFO flags")
	}
	for i := 0; i < 2; i++ {
		rising(c, "wclk")
		rising(c, "rclk")
	}
	c.SetImmediate("wrst", 0)
	c.SetImmediate("rrst", 0)
	c.Step()
	if occ != 0 {
		t.Fatalf("expected occupancy 0 after reset, got %d", occ)
	}
	if c.Read("empty") == 0 {
		t.Fatal("FIFO not empty after reset")
	}

	in := []uint64{9, 8, 7, 6}
	for _, v := range in {
		if !push(c, v) {
			t.Fatalf("write of %d rejected after reset", v)
		}
	}
	c.Step()
	if c.Read("full") == 0 || occ != 4 {
		t.Fatalf("expected full with occupancy 4, got full=%d occupancy=%d", c.Read("full"), occ)
	}
	for _, v := range in {
		if got := pop(c); got != v {
			t.Fatalf("expected %d, got %d", v, got)
		}
	}
	c.Step()
	if occ != 0 || c.Read("empty") == 0 {
		t.Fatalf("expected empty FIFO, got empty=%d occupancy=%d", c.Read("empty"), occ)
	}
}

func TestAsyncFIFO_badSlots(t *testing.T) {
	for _, n := range []int{0, 1, 3, 12} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("AsyncFIFO(%d, 8) did not panic", n)
				}
			}()
			cdclib.AsyncFIFO(n, 8)
		}()
	}
}
