// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdclib_test

import (
	"testing"

	"github.com/db47h/cdcsim"
	"github.com/db47h/cdcsim/cdclib"
)

func TestDFF(t *testing.T) {
	var in, out uint64

	c := newCircuit(t, []*cdcsim.Clock{newClock(t, "clk", 2)},
		cdclib.Input(func() uint64 { return in })(cdcsim.W{"out": "d"}),
		cdclib.DFF(4)(cdcsim.W{"clk": "clk", "in": "d", "out": "q"}),
		cdclib.Output(func(v uint64) { out = v })(cdcsim.W{"in": "q"}),
	)
	defer c.Dispose()

	// let the input settle
	c.Step()

	var prev uint64
	for i := 15; i >= 0; i-- {
		in = uint64(i)
		c.Step() // falling edge: d = i
		if c.Read("q") != prev {
			t.Fatalf("bad output for input %d before rising edge: expected q = %d, got %d", i, prev, c.Read("q"))
		}
		rising(c, "clk")
		if got := c.Read("q"); got != uint64(i) {
			t.Fatalf("bad output for input %d after rising edge: expected q = %d, got %d", i, i, got)
		}
		prev = uint64(i)
	}
	c.Step()
	if out != prev {
		t.Fatalf("probe: expected %d, got %d", prev, out)
	}
}

func TestDFF_mask(t *testing.T) {
	c := newCircuit(t, []*cdcsim.Clock{newClock(t, "clk", 2)},
		cdclib.DFF(3)(cdcsim.W{"clk": "clk", "in": "d", "out": "q"}),
	)
	defer c.Dispose()

	c.SetImmediate("d", 0xff)
	rising(c, "clk")
	if got := c.Read("q"); got != 7 {
		t.Fatalf("expected q = 7, got %d", got)
	}
}

func TestDFF_reset(t *testing.T) {
	c := newCircuit(t, []*cdcsim.Clock{newClock(t, "clk", 4)},
		cdclib.DFF(8)(cdcsim.W{"clk": "clk", "arst": "rst", "in": "d", "out": "q"}),
	)
	defer c.Dispose()

	c.SetImmediate("d", 42)
	rising(c, "clk")
	if got := c.Read("q"); got != 42 {
		t.Fatalf("expected q = 42, got %d", got)
	}
	// reset is asynchronous: the next step is a falling edge.
	c.SetImmediate("rst", 1)
	c.Step()
	if got := c.Read("q"); got != 0 {
		t.Fatalf("expected q = 0 while in reset, got %d", got)
	}
	rising(c, "clk")
	if got := c.Read("q"); got != 0 {
		t.Fatalf("expected q = 0 on rising edge while in reset, got %d", got)
	}
	c.SetImmediate("rst", 0)
	rising(c, "clk")
	if got := c.Read("q"); got != 42 {
		t.Fatalf("expected q = 42 after reset, got %d", got)
	}
}

func TestDFF_badWidth(t *testing.T) {
	for _, w := range []int{0, -1, 65} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("DFF(%d) did not panic", w)
				}
			}()
			cdclib.DFF(w)
		}()
	}
}
