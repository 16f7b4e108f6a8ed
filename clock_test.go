// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdcsim_test

import (
	"testing"

	"github.com/db47h/cdcsim"
)

func TestNewClock_errors(t *testing.T) {
	data := []struct {
		name          string
		period, phase uint64
	}{
		{"", 10, 0},
		{"clk", 0, 0},
		{"clk", 7, 0},
		{"clk", 10, 10},
		{"clk", 10, 12},
	}
	for _, d := range data {
		if _, err := cdcsim.NewClock(d.name, d.period, d.phase); err == nil {
			t.Errorf("NewClock(%q, %d, %d): expected error", d.name, d.period, d.phase)
		}
	}
}

func TestClock_edges(t *testing.T) {
	k, err := cdcsim.NewClock("clk", 10, 3)
	if err != nil {
		t.Fatal(err)
	}
	c, err := cdcsim.NewCircuit(1, []*cdcsim.Clock{k}, reg("clk", "d", "q"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	want := []struct {
		t uint64
		e cdcsim.Edge
	}{
		{3, cdcsim.Rising}, {8, cdcsim.Falling}, {13, cdcsim.Rising}, {18, cdcsim.Falling}, {23, cdcsim.Rising},
	}
	for i, w := range want {
		if tm, e := k.Next(); tm != w.t || e != w.e {
			t.Fatalf("edge #%d: expected %s edge at %d, got %s at %d", i, w.e, w.t, e, tm)
		}
		c.Step()
		if c.Now() != w.t || k.Now() != w.t {
			t.Fatalf("edge #%d: expected time %d, got %d", i, w.t, c.Now())
		}
		if k.Level() != (w.e == cdcsim.Rising) {
			t.Fatalf("edge #%d: bad clock level %v", i, k.Level())
		}
	}
	if k.Rises() != 3 || k.Falls() != 2 {
		t.Fatalf("expected 3 rising and 2 falling edges, got %d and %d", k.Rises(), k.Falls())
	}
}
