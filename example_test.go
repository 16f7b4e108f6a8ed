// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdcsim_test

import (
	"context"
	"fmt"

	"github.com/db47h/cdcsim"
)

// toggle is a custom part: a register that inverts its output on every
// rising edge of clk while en is high.
//
type toggle struct {
	Clk int `hw:"in"`
	En  int `hw:"in"`
	Out int `hw:"out"`

	q bool
}

// Update implements Updater.
//
func (p *toggle) Update(c *cdcsim.Circuit) {
	if c.Rising(p.Clk) && c.GetBool(p.En) {
		p.q = !p.q
	}
	c.SetBool(p.Out, p.q)
}

// no need to import reflect, just cast a nil pointer to toggle
var toggleSpec = cdcsim.MakePart((*toggle)(nil))

// Toggle returns a new toggle part. Like the parts in cdclib, it is a NewPartFn.
func Toggle(w cdcsim.W) cdcsim.Part { return toggleSpec.NewPart(w) }

// MakePart example with a custom part, driven by a simulation task.
func ExampleMakePart() {
	fast, _ := cdcsim.NewClock("fast", 10, 0)
	slow, _ := cdcsim.NewClock("slow", 30, 0)
	c, err := cdcsim.NewCircuit(0, []*cdcsim.Clock{fast, slow},
		Toggle(cdcsim.W{"clk": "fast", "en": "en", "out": "q"}),
	)
	if err != nil {
		panic(err)
	}
	defer c.Dispose()

	sim := cdcsim.NewSim(c, 1000)
	sim.Fork("main", func(t *cdcsim.Task) error {
		c := t.Circuit()
		c.SetImmediate("en", 1)
		for i := 0; i < 3; i++ {
			if err := t.RisingEdge("slow"); err != nil {
				return err
			}
			fmt.Printf("t=%d q=%d\n", c.Now(), c.Read("q"))
		}
		return nil
	})
	if err := sim.Run(context.Background()); err != nil {
		panic(err)
	}

	// Output:
	// t=0 q=1
	// t=30 q=0
	// t=60 q=1
}
