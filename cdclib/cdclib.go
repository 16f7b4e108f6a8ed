// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package cdclib provides a library of clock-domain-crossing parts for cdcsim:
// flip-flop synchronizers with and without acknowledge, and an asynchronous
// FIFO with Gray-coded pointers.
//
// Registers sample on the rising edge of their clock. Resets are asynchronous:
// a register is cleared on any simulation step where its reset input is high,
// regardless of clock edges.
//
// Constructors panic on invalid parameters, the same way NewPart panics on
// invalid wiring. Callers taking parameters from user input should validate
// them first (see cdctest.Config).
//
package cdclib

import (
	"fmt"
	"math/bits"
)

// common pin names
const (
	pClk = "clk"
	pRst = "arst"
	pIn  = "in"
	pOut = "out"
)

// MaxWidth is the widest supported bus.
//
const MaxWidth = 64

func checkWidth(width int) {
	if width < 1 || width > MaxWidth {
		panic(fmt.Sprintf("invalid bus width %d", width))
	}
}

// mask returns a mask of the width lower bits.
//
func mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(width) - 1
}

// IsPow2 returns true if n is a power of two.
//
func IsPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// log2 of a power of two.
func log2(n int) int {
	return bits.TrailingZeros(uint(n))
}
