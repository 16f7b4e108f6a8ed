// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package cdctest is a verification harness for the cdclib parts.
//
// Each test runs a part in a two domain circuit driven by 50MHz and 100MHz
// clocks (see Mode) and checks it against randomized stimulus:
//
//	sync2ack  values of the form 2^k-1 go through a Sync2Ack; the staged,
//	          committed and acknowledge outputs are checked after fixed
//	          numbers of cycles.
//	sync3     values of the form 2^k-1 go through a Sync3 and are checked
//	          three cycles later.
//	fifo      random batches are written to an AsyncFIFO and read back in
//	          order, then the full and empty flags are checked, and a writer
//	          and a reader stream data concurrently. A monitor checks the
//	          flags against the true occupancy on every step.
//
// Every configuration is seeded so that failures can be replayed. Sweeps of
// configurations are described in CUE or JSON (see ParseSweep) and run in
// parallel by RunSweep.
//
package cdctest
