// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdclib_test

import (
	"context"
	"math/rand"
	"testing"
	"testing/quick"

	"github.com/db47h/cdcsim"
	"github.com/db47h/cdcsim/cdclib"
	"github.com/db47h/cdcsim/cdctest"
	"github.com/pkg/errors"
)

func testSyncLatency(t *testing.T, stages int, sync cdcsim.NewPartFn) {
	c := newCircuit(t, []*cdcsim.Clock{newClock(t, "clk", 10)},
		sync(cdcsim.W{"clk": "clk", "in": "d", "out": "q"}),
	)
	defer c.Dispose()

	var prev uint64
	f := func(v uint8) bool {
		c.SetImmediate("d", uint64(v))
		for i := 1; i < stages; i++ {
			rising(c, "clk")
			if got := c.Read("q"); got != prev {
				t.Logf("after %d edges: expected %d, got %d", i, prev, got)
				return false
			}
		}
		rising(c, "clk")
		if got := c.Read("q"); got != uint64(v) {
			t.Logf("after %d edges: expected %d, got %d", stages, v, got)
			return false
		}
		prev = uint64(v)
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestSync2(t *testing.T) {
	testSyncLatency(t, 2, cdclib.Sync2(8))
}

func TestSync3(t *testing.T) {
	testSyncLatency(t, 3, cdclib.Sync3(8))
}

// syncModel is a behavioral model of a 3 stage synchronizer.
type syncModel struct {
	Clk int `hw:"in"`
	Rst int `hw:"in,arst"`
	In  int `hw:"in"`
	Out int `hw:"out"`

	mask uint64
	q    [3]uint64
}

func (m *syncModel) Update(c *cdcsim.Circuit) {
	switch {
	case c.GetBool(m.Rst):
		m.q = [3]uint64{}
	case c.Rising(m.Clk):
		m.q[2], m.q[1], m.q[0] = m.q[1], m.q[0], c.Get(m.In)&m.mask
	}
	c.Set(m.Out, m.q[2])
}

func TestSync3_model(t *testing.T) {
	model := cdcsim.MakePart(&syncModel{mask: 0x3f}).NewPart
	cdctest.ComparePart(t, cdclib.Sync3(6), model, cdctest.CompareOptions{
		Clocks:    []*cdcsim.Clock{newClock(t, "clk", 6)},
		ClockPins: map[string]string{"clk": "clk"},
		Steps:     2000,
		Value: func(pin string, r *rand.Rand) uint64 {
			if pin == "arst" {
				if r.Intn(32) == 0 {
					return 1
				}
				return 0
			}
			return r.Uint64()
		},
	})
}

func TestSync3_reset(t *testing.T) {
	c := newCircuit(t, []*cdcsim.Clock{newClock(t, "clk", 10)},
		cdclib.Sync3(4)(cdcsim.W{"clk": "clk", "arst": "rst", "in": "d", "out": "q"}),
	)
	defer c.Dispose()

	c.SetImmediate("d", 9)
	for i := 0; i < 3; i++ {
		rising(c, "clk")
	}
	if got := c.Read("q"); got != 9 {
		t.Fatalf("expected q = 9, got %d", got)
	}
	c.SetImmediate("rst", 1)
	c.Step()
	if got := c.Read("q"); got != 0 {
		t.Fatalf("expected q = 0 while in reset, got %d", got)
	}
}

func TestSync2Ack(t *testing.T) {
	ka, kb := newClock(t, "clk_a", 20), newClock(t, "clk_b", 10)
	c := newCircuit(t, []*cdcsim.Clock{ka, kb},
		cdclib.Sync2Ack(4)(cdcsim.W{
			cdclib.PinClkA:    "clk_a",
			cdclib.PinClkB:    "clk_b",
			cdclib.PinRstA:    "rst_a",
			cdclib.PinRstB:    "rst_b",
			cdclib.PinDataA:   "data",
			cdclib.PinStagedA: "staged",
			cdclib.PinDataB:   "data_b",
			cdclib.PinAckA:    "ack",
		}),
	)
	defer c.Dispose()

	sim := cdcsim.NewSim(c, 10000)
	sim.Fork("main", func(tk *cdcsim.Task) error {
		c := tk.Circuit()
		c.SetImmediate("rst_a", 1)
		c.SetImmediate("rst_b", 1)
		if err := tk.ClockCycles("clk_b", 2); err != nil {
			return err
		}
		c.SetImmediate("rst_a", 0)
		c.SetImmediate("rst_b", 0)
		for _, v := range []uint64{5, 15, 0, 1} {
			c.SetImmediate("data", v)
			if err := tk.ClockCycles("clk_a", 2); err != nil {
				return err
			}
			if got := c.Read("staged"); got != v {
				t.Errorf("staged: expected %d, got %d", v, got)
			}
			if err := tk.ClockCycles("clk_b", 2); err != nil {
				return err
			}
			if got := c.Read("data_b"); got != v {
				t.Errorf("committed: expected %d, got %d", v, got)
			}
			if err := tk.ClockCycles("clk_a", 2); err != nil {
				return err
			}
			if got, want := c.Read("ack") != 0, v != 0; got != want {
				t.Errorf("ack for %d: expected %v, got %v", v, want, got)
			}
		}
		return nil
	})
	if err := sim.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
}

// ackCheck records the simulation time of the first step where ack is high
// while the destination does not hold the expected value.
type ackCheck struct {
	Ack  int `hw:"in"`
	Data int `hw:"in"`

	want uint64
	bad  *uint64
}

func (a *ackCheck) Update(c *cdcsim.Circuit) {
	if *a.bad == 0 && c.GetBool(a.Ack) && c.Get(a.Data) != a.want {
		*a.bad = c.Now()
	}
}

func TestSync2Ack_reset(t *testing.T) {
	const v = 0x5a
	for _, p := range []struct {
		name   string
		pa, pb uint64
		rst    string
	}{
		{"a-slow/rst_a", 20, 10, "rst_a"},
		{"a-slow/rst_b", 20, 10, "rst_b"},
		{"a-fast/rst_a", 10, 20, "rst_a"},
		{"a-fast/rst_b", 10, 20, "rst_b"},
	} {
		t.Run(p.name, func(t *testing.T) {
			var bad uint64
			c := newCircuit(t, []*cdcsim.Clock{newClock(t, "clk_a", p.pa), newClock(t, "clk_b", p.pb)},
				cdclib.Sync2Ack(8)(cdcsim.W{
					cdclib.PinClkA:    "clk_a",
					cdclib.PinClkB:    "clk_b",
					cdclib.PinRstA:    "rst_a",
					cdclib.PinRstB:    "rst_b",
					cdclib.PinDataA:   "data",
					cdclib.PinStagedA: "staged",
					cdclib.PinDataB:   "data_b",
					cdclib.PinAckA:    "ack",
				}),
				cdcsim.MakePart(&ackCheck{want: v, bad: &bad}).NewPart(cdcsim.W{"ack": "ack", "data": "data_b"}),
			)
			defer c.Dispose()

			waitAck := func(tk *cdcsim.Task) error {
				for i := 0; i < 20; i++ {
					if err := tk.RisingEdge("clk_a"); err != nil {
						return err
					}
					if tk.Circuit().Read("ack") != 0 {
						return nil
					}
				}
				return errors.New("no ack")
			}

			sim := cdcsim.NewSim(c, 10000)
			sim.Fork("main", func(tk *cdcsim.Task) error {
				c := tk.Circuit()
				c.SetImmediate("data", v)
				if err := waitAck(tk); err != nil {
					return err
				}
				c.SetImmediate(p.rst, 1)
				for i := 0; i < 2; i++ {
					if err := tk.RisingEdge("clk_b"); err != nil {
						return err
					}
					for _, w := range []string{"staged", "data_b", "ack"} {
						if got := c.Read(w); got != 0 {
							t.Errorf("%s = %#x while %s is high", w, got, p.rst)
						}
					}
				}
				c.SetImmediate(p.rst, 0)
				if err := waitAck(tk); err != nil {
					return errors.Wrap(err, "after reset")
				}
				if got := c.Read("data_b"); got != v {
					t.Errorf("acknowledged with data_b = %#x", got)
				}
				return nil
			})
			if err := sim.Run(context.Background()); err != nil {
				t.Fatal(err)
			}
			if bad != 0 {
				t.Fatalf("ack high at t=%d while destination does not hold %#x", bad, v)
			}
		})
	}
}
