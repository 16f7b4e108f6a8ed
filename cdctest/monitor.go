// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdctest

import (
	"github.com/db47h/cdcsim"
	"github.com/pkg/errors"
)

// fifoStats is written by a fifoMonitor and read by simulation tasks.
type fifoStats struct {
	err    error  // first violation
	maxOcc uint64 // highest occupancy seen
}

// fifoMonitor checks the FIFO flags against the true occupancy on every
// simulation step.
type fifoMonitor struct {
	Occ   int `hw:"in,occupancy"`
	Full  int `hw:"in,full"`
	Empty int `hw:"in,empty"`

	slots uint64
	stats *fifoStats
}

// newFIFOMonitor returns a new monitor part sharing its statistics with st.
// Its input pins are occupancy, full and empty.
func newFIFOMonitor(slots int, st *fifoStats, w cdcsim.W) cdcsim.Part {
	sp := cdcsim.MakePart(&fifoMonitor{slots: uint64(slots), stats: st})
	return sp.NewPart(w)
}

// Update implements cdcsim.Updater.
func (m *fifoMonitor) Update(c *cdcsim.Circuit) {
	// wires are not driven yet on the first step
	if m.stats.err != nil || c.Steps() == 0 {
		return
	}
	occ, full, empty := c.Get(m.Occ), c.GetBool(m.Full), c.GetBool(m.Empty)
	if occ > m.stats.maxOcc {
		m.stats.maxOcc = occ
	}
	switch {
	case occ > m.slots:
		m.stats.err = errors.Errorf("time %d: FIFO overflow or underflow: occupancy %d, capacity %d", c.Now(), occ, m.slots)
	case occ == m.slots && !full:
		m.stats.err = errors.Errorf("time %d: FIFO holds %d entries but full is low", c.Now(), occ)
	case occ == 0 && !empty:
		m.stats.err = errors.Errorf("time %d: FIFO is empty but empty is low", c.Now())
	}
}
