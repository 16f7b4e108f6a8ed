// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdclib

import (
	"strconv"

	"github.com/db47h/cdcsim"
)

// SyncN returns a synchronizer made of a chain of stages flip flops clocked
// in the destination domain. There is no handshake: if the input changes
// faster than the destination clock can sample it, intermediate values are
// lost.
//
//	Inputs: clk, arst, in
//	Outputs: out
//	Function: out(t) = in(t-stages)
//
func SyncN(stages, width int) cdcsim.NewPartFn {
	if stages < 1 {
		panic("synchronizer needs at least one stage")
	}
	dff := DFF(width)
	var parts []cdcsim.Part
	in := pIn
	for i := 0; i < stages; i++ {
		out := "ff" + strconv.Itoa(i)
		if i == stages-1 {
			out = pOut
		}
		parts = append(parts, dff(cdcsim.W{pClk: pClk, pRst: pRst, pIn: in, pOut: out}))
		in = out
	}
	sync, err := cdcsim.Chip("SYNC"+strconv.Itoa(stages)+"x"+strconv.Itoa(width),
		[]string{pClk, pRst, pIn}, []string{pOut}, parts...)
	if err != nil {
		panic(err)
	}
	return sync
}

// Sync2 returns a two flip-flop synchronizer without acknowledge.
// It is used to pass Gray-coded pointers across domains in AsyncFIFO.
//
//	Inputs: clk, arst, in
//	Outputs: out
//
func Sync2(width int) cdcsim.NewPartFn {
	return SyncN(2, width)
}

// Sync3 returns a three flip-flop synchronizer for free running asynchronous
// signals. The output is the input value as it was 3 clk cycles ago,
// provided it was held stable long enough to be sampled.
//
//	Inputs: clk, arst, in
//	Outputs: out
//
func Sync3(width int) cdcsim.NewPartFn {
	return SyncN(3, width)
}
