// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdcsim

import (
	"github.com/pkg/errors"
)

// Edge identifies a clock transition.
//
type Edge int

// Edge values.
//
const (
	NoEdge Edge = iota
	Rising
	Falling
)

func (e Edge) String() string {
	switch e {
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	}
	return "none"
}

// A Clock is an independent clock domain. Time is counted in abstract
// simulation units; the cdctest harness uses nanoseconds.
//
// The first edge is a rising edge at time phase. Rising edges then follow
// every period units, each one followed by a falling edge half a period later.
//
type Clock struct {
	name   string
	period uint64
	phase  uint64

	next  uint64 // time of the next edge
	now   uint64 // time of the last processed edge
	level bool
	rises uint64
	falls uint64
}

// NewClock returns a new clock domain. The period must be a positive even
// number so that falling edges land on integer times, and the phase must be
// less than the period.
//
func NewClock(name string, period, phase uint64) (*Clock, error) {
	switch {
	case name == "":
		return nil, errors.New("empty clock name")
	case period == 0 || period&1 != 0:
		return nil, errors.Errorf("clock %s: period %d is not a positive even number", name, period)
	case phase >= period:
		return nil, errors.Errorf("clock %s: phase %d out of range [0, %d)", name, phase, period)
	}
	return &Clock{
		name:   name,
		period: period,
		phase:  phase,
		next:   phase,
	}, nil
}

// Name returns the clock name. Parts connect to the clock using this name.
//
func (k *Clock) Name() string { return k.name }

// Period returns the clock period.
//
func (k *Clock) Period() uint64 { return k.period }

// Phase returns the time of the first rising edge.
//
func (k *Clock) Phase() uint64 { return k.phase }

// Now returns the time of the last processed edge.
//
func (k *Clock) Now() uint64 { return k.now }

// Level returns the current clock level.
//
func (k *Clock) Level() bool { return k.level }

// Rises returns the number of rising edges processed so far.
//
func (k *Clock) Rises() uint64 { return k.rises }

// Falls returns the number of falling edges processed so far.
//
func (k *Clock) Falls() uint64 { return k.falls }

// Next returns the time and kind of the next edge.
//
func (k *Clock) Next() (uint64, Edge) {
	if k.level {
		return k.next, Falling
	}
	return k.next, Rising
}

// advance processes the next edge and schedules the one after.
//
func (k *Clock) advance() Edge {
	k.now = k.next
	k.next += k.period / 2
	k.level = !k.level
	if k.level {
		k.rises++
		return Rising
	}
	k.falls++
	return Falling
}
