// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdctest

import (
	"context"
	"io"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/db47h/cdcsim"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Options control how tests are run.
//
type Options struct {
	Parallel int       // concurrent configurations in RunSweep, <= 0 for no limit
	Output   io.Writer // log output, nil to discard
	Workers  int       // circuit workers per simulation, see cdcsim.NewCircuit
}

// Result is the outcome of one configuration.
//
type Result struct {
	Config
	Err     error
	Steps   uint   // simulation steps
	SimTime uint64 // simulated time in ns
	Elapsed time.Duration
	MaxOcc  uint64 // FIFO only: highest occupancy seen by the monitor
}

// Pass returns true if the run succeeded.
//
func (r *Result) Pass() bool { return r.Err == nil }

// env is the state of a single test run.
type env struct {
	cfg  Config
	log  *log.Logger
	rnd  *rand.Rand
	sim  *cdcsim.Sim
	stat fifoStats
}

func newEnv(cfg Config, opts Options) *env {
	w := opts.Output
	if w == nil {
		w = io.Discard
	}
	return &env{
		cfg: cfg,
		log: log.New(w, "["+cfg.Name+"] ", log.Lmsgprefix),
		rnd: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// randSync returns 2^k-1, k uniform in [0, width].
func (e *env) randSync() uint64 {
	k := e.rnd.Intn(e.cfg.Width + 1)
	if k == 64 {
		return ^uint64(0)
	}
	return 1<<uint(k) - 1
}

// randData returns a value uniform in [0, 2^width).
func (e *env) randData() uint64 {
	v := e.rnd.Uint64()
	if e.cfg.Width < 64 {
		v &= 1<<uint(e.cfg.Width) - 1
	}
	return v
}

// Run validates cfg and runs the corresponding test.
//
func Run(ctx context.Context, cfg Config, opts Options) Result {
	r := Result{Config: cfg}
	if err := r.Config.Validate(); err != nil {
		r.Err = err
		return r
	}
	e := newEnv(r.Config, opts)
	e.log.Printf("seed %d, %d iterations", cfg.Seed, cfg.Iterations)

	start := time.Now()
	var build func() ([]*cdcsim.Clock, []cdcsim.Part, cdcsim.TaskFn, error)
	switch r.Test {
	case TestSync2Ack:
		build = e.sync2Ack
	case TestSync3:
		build = e.sync3
	case TestFIFO:
		build = e.fifo
	}
	ks, parts, main, err := build()
	if err == nil {
		var c *cdcsim.Circuit
		if c, err = cdcsim.NewCircuit(opts.Workers, ks, parts...); err == nil {
			e.sim = cdcsim.NewSim(c, r.MaxSteps)
			e.sim.Fork(r.Test, main)
			err = e.sim.Run(ctx)
			r.Steps, r.SimTime = c.Steps(), c.Now()
			c.Dispose()
		}
	}
	r.Elapsed = time.Since(start)
	r.MaxOcc = e.stat.maxOcc
	if err != nil {
		r.Err = errors.WithMessage(err, r.Name)
		e.log.Printf("FAIL: %v", err)
	} else {
		e.log.Printf("PASS: %d steps, %dns simulated in %v", r.Steps, r.SimTime, r.Elapsed)
	}
	return r
}

// RunSync2Ack runs the Sync2Ack test for the given configuration.
//
func RunSync2Ack(ctx context.Context, cfg Config, opts Options) Result {
	cfg.Test = TestSync2Ack
	return Run(ctx, cfg, opts)
}

// RunSync3 runs the Sync3 test for the given configuration.
//
func RunSync3(ctx context.Context, cfg Config, opts Options) Result {
	cfg.Test = TestSync3
	return Run(ctx, cfg, opts)
}

// RunFIFO runs the AsyncFIFO test for the given configuration.
//
func RunFIFO(ctx context.Context, cfg Config, opts Options) Result {
	cfg.Test = TestFIFO
	return Run(ctx, cfg, opts)
}

// syncWriter serializes writes of concurrent loggers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}

// RunSweep runs all the configurations of sw in parallel. Test failures are
// reported in the returned Report; the error is only set if the sweep is
// invalid or ctx is done.
//
func RunSweep(ctx context.Context, sw *Sweep, opts Options) (*Report, error) {
	cfgs, err := sw.Configs()
	if err != nil {
		return nil, err
	}
	if opts.Output != nil {
		opts.Output = &syncWriter{w: opts.Output}
	}
	rep := &Report{Results: make([]Result, len(cfgs))}
	g, gctx := errgroup.WithContext(ctx)
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}
	for i := range cfgs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				rep.Results[i] = Result{Config: cfgs[i], Err: err}
				return err
			}
			rep.Results[i] = Run(gctx, cfgs[i], opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rep, err
	}
	return rep, ctx.Err()
}
