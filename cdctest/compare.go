// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdctest

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/db47h/cdcsim"
)

// CompareOptions configures ComparePart.
//
type CompareOptions struct {
	// Clocks to run the parts with.
	Clocks []*cdcsim.Clock
	// Clock pins: maps part pin names to clock names.
	ClockPins map[string]string
	// Number of simulation steps.
	Steps int
	// Seed for random inputs. If 0, the current time is used.
	Seed int64
	// Input value generator. If nil, inputs get uniform random values.
	Value func(pin string, r *rand.Rand) uint64
}

// ComparePart takes two parts and compares their outputs given the same
// random inputs on every simulation step. Both parts must have the same
// Input/Output interface.
//
func ComparePart(t testing.TB, part1, part2 cdcsim.NewPartFn, opts CompareOptions) {
	t.Helper()

	ps1, ps2 := part1(nil), part2(nil)

	// compare specs
	if strings.Join(ps1.Inputs, ",") != strings.Join(ps2.Inputs, ",") {
		t.Fatalf("input mismatch: %v != %v", ps1.Inputs, ps2.Inputs)
	}
	if strings.Join(ps1.Outputs, ",") != strings.Join(ps2.Outputs, ",") {
		t.Fatalf("output mismatch: %v != %v", ps1.Outputs, ps2.Outputs)
	}

	var inputs []string
	w1, w2 := cdcsim.W{}, cdcsim.W{}
	for _, in := range ps1.Inputs {
		if k, ok := opts.ClockPins[in]; ok {
			w1[in], w2[in] = k, k
			continue
		}
		w1[in], w2[in] = in, in
		inputs = append(inputs, in)
	}
	sort.Strings(inputs)
	for _, out := range ps1.Outputs {
		w1[out], w2[out] = "1."+out, "2."+out
	}

	c, err := cdcsim.NewCircuit(0, opts.Clocks, part1(w1), part2(w2))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))
	value := opts.Value
	if value == nil {
		value = func(string, *rand.Rand) uint64 { return rnd.Uint64() }
	}

	errString := func(out string, v1, v2 uint64) string {
		var b strings.Builder
		for _, n := range inputs {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%d", n, c.Read(n))
		}
		return fmt.Sprintf("seed %d, step %d, time %d\ninputs %s\n%s: %s = %d, %s = %d",
			seed, c.Steps(), c.Now(), b.String(), out, ps1.Name, v1, ps2.Name, v2)
	}

	start := time.Now()
	for i := 0; i < opts.Steps; i++ {
		for _, in := range inputs {
			c.SetImmediate(in, value(in, rnd))
		}
		c.Step()
		for _, out := range ps1.Outputs {
			if v1, v2 := c.Read("1."+out), c.Read("2."+out); v1 != v2 {
				t.Fatal(errString(out, v1, v2))
			}
		}
	}
	elapsed := time.Since(start)
	t.Logf("%d components. %d steps in %v", c.Size(), c.Steps(), elapsed)
}
