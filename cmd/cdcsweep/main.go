// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command cdcsweep runs the cdclib verification harness over a sweep of
// configurations and prints a report.
//
//	cdcsweep [-f sweep.cue] [-test sync2ack|sync3|fifo|all] [-seed n] [-j n] [-v]
//
// Without -f, the default sweep is used. The exit status is 1 if any
// configuration fails.
//
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/db47h/cdcsim/cdctest"
)

func main() {
	file := flag.String("f", "", "sweep file (CUE or JSON)")
	test := flag.String("test", "all", "test to run: sync2ack, sync3, fifo or all")
	seed := flag.Int64("seed", 0, "random seed, 0 to use the sweep file seed or the current time")
	jobs := flag.Int("j", runtime.NumCPU(), "number of configurations run in parallel")
	verbose := flag.Bool("v", false, "verbose output")
	flag.Parse()

	log.SetFlags(0)

	sw := cdctest.DefaultSweep()
	if *file != "" {
		var err error
		if sw, err = cdctest.LoadSweep(*file); err != nil {
			log.Fatal(err)
		}
	}
	if *test != "all" {
		sw.Tests = []string{*test}
	}
	if *seed != 0 {
		sw.Seed = *seed
	}
	if sw.Seed == 0 {
		sw.Seed = time.Now().UnixNano()
	}
	log.Printf("seed %d", sw.Seed)

	opts := cdctest.Options{Parallel: *jobs, Workers: 1}
	if *verbose {
		opts.Output = os.Stderr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rep, err := cdctest.RunSweep(ctx, sw, opts)
	if rep != nil {
		rep.Print(os.Stdout)
	}
	if err != nil {
		log.Fatal(err)
	}
	if n := rep.Failed(); n > 0 {
		log.Printf("%d of %d configurations failed", n, len(rep.Results))
		os.Exit(1)
	}
}
