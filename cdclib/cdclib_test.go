// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdclib_test

import (
	"testing"

	"github.com/db47h/cdcsim"
)

func newClock(t *testing.T, name string, period uint64) *cdcsim.Clock {
	t.Helper()
	k, err := cdcsim.NewClock(name, period, 0)
	if err != nil {
		t.Fatal(err)
	}
	return k
}

func newCircuit(t *testing.T, clocks []*cdcsim.Clock, parts ...cdcsim.Part) *cdcsim.Circuit {
	t.Helper()
	c, err := cdcsim.NewCircuit(0, clocks, parts...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// rising steps c up to and including the next rising edge of clk.
func rising(c *cdcsim.Circuit, clk string) {
	n, ok := c.Wire(clk)
	if !ok {
		panic("no clock " + clk)
	}
	for {
		c.Step()
		if c.Rising(n) {
			return
		}
	}
}
