// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdctest

import (
	"fmt"

	"github.com/db47h/cdcsim"
	"github.com/db47h/cdcsim/cdclib"
	"github.com/pkg/errors"
)

// Test names.
//
const (
	TestSync2Ack = "sync2ack"
	TestSync3    = "sync3"
	TestFIFO     = "fifo"
)

// Tests lists all available tests.
//
var Tests = []string{TestSync2Ack, TestSync3, TestFIFO}

// Clock periods in ns.
//
const (
	period100MHz = 10
	period50MHz  = 20
)

// Mode selects the clock ratio between domain A and B. For the FIFO, A is the
// write domain and B the read domain. The synchronizer with no acknowledge
// only uses clock A.
//
type Mode int

// Supported modes.
//
const (
	ASlow Mode = iota // A at 50MHz, B at 100MHz
	AFast             // A at 100MHz, B at 50MHz
)

var modeNames = [...]string{ASlow: "a-slow", AFast: "a-fast"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode returns the Mode with the given name.
//
func ParseMode(s string) (Mode, error) {
	for m, n := range modeNames {
		if n == s {
			return Mode(m), nil
		}
	}
	return 0, errors.Errorf("unknown clock mode %q", s)
}

// Periods returns the clock periods of domains A and B.
//
func (m Mode) Periods() (a, b uint64) {
	if m == AFast {
		return period100MHz, period50MHz
	}
	return period50MHz, period100MHz
}

// Clocks returns new clock domains A and B for mode m, with the given names.
//
func (m Mode) Clocks(nameA, nameB string) (a, b *cdcsim.Clock, err error) {
	pa, pb := m.Periods()
	if a, err = cdcsim.NewClock(nameA, pa, 0); err != nil {
		return nil, nil, err
	}
	if b, err = cdcsim.NewClock(nameB, pb, 0); err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// Config is the configuration of a single test run.
//
type Config struct {
	Name       string // used as log prefix
	Test       string
	Width      int // data bus width
	Slots      int // FIFO capacity
	Mode       Mode
	Iterations int
	Seed       int64
	MaxSteps   uint // per simulation, 0 for no limit
}

// Validate checks the configuration. It must be called before building any
// circuit.
//
func (c *Config) Validate() error {
	switch c.Test {
	case TestSync2Ack, TestSync3:
	case TestFIFO:
		if c.Slots < 2 || !cdclib.IsPow2(c.Slots) {
			return errors.Errorf("%s: FIFO slot count %d is not a power of two >= 2", c.Test, c.Slots)
		}
	default:
		return errors.Errorf("unknown test %q", c.Test)
	}
	if c.Width < 1 || c.Width > cdclib.MaxWidth {
		return errors.Errorf("%s: data width %d out of range [1, %d]", c.Test, c.Width, cdclib.MaxWidth)
	}
	if c.Mode != ASlow && c.Mode != AFast {
		return errors.Errorf("%s: unknown clock mode %d", c.Test, int(c.Mode))
	}
	if c.Iterations < 1 {
		return errors.Errorf("%s: iteration count must be positive, got %d", c.Test, c.Iterations)
	}
	if c.Name == "" {
		c.Name = c.defaultName()
	}
	return nil
}

func (c *Config) defaultName() string {
	if c.Test == TestFIFO {
		return fmt.Sprintf("%s/w%d/s%d/%s", c.Test, c.Width, c.Slots, c.Mode)
	}
	return fmt.Sprintf("%s/w%d/%s", c.Test, c.Width, c.Mode)
}
