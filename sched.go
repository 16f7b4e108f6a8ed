// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdcsim

import (
	"context"

	"github.com/pkg/errors"
)

// ErrTimeout is returned by Sim.Run when the step limit is reached before all
// tasks complete.
//
var ErrTimeout = errors.New("simulation step limit exceeded")

var errAborted = errors.New("simulation aborted")

// A TaskFn is the body of a simulation task.
//
type TaskFn func(t *Task) error

// Sim runs tasks against a circuit. Tasks are goroutines that wait for clock
// edges, drive wires with Circuit.SetImmediate and sample them with
// Circuit.Read.
//
// Only one task runs at any given time. The circuit is stepped once every live
// task is blocked; tasks waiting on an edge of the current step are then
// resumed one by one, in the order they were forked.
//
type Sim struct {
	c        *Circuit
	maxSteps uint
	tasks    []*Task
	runq     []*Task
}

// NewSim returns a new task scheduler for circuit c. If maxSteps is not 0,
// Run fails with ErrTimeout after maxSteps simulation steps.
//
func NewSim(c *Circuit, maxSteps uint) *Sim {
	return &Sim{c: c, maxSteps: maxSteps}
}

// Circuit returns the simulated circuit.
//
func (s *Sim) Circuit() *Circuit { return s.c }

// Fork adds a new task. It can be called before Run or from a running task.
//
func (s *Sim) Fork(name string, fn TaskFn) *Task {
	t := &Task{
		name:  name,
		sim:   s,
		fn:    fn,
		wake:  make(chan struct{}),
		yield: make(chan struct{}),
		clk:   -1,
	}
	s.tasks = append(s.tasks, t)
	s.runq = append(s.runq, t)
	return t
}

// Run runs the simulation until all tasks have returned. It returns the first
// error returned by a task, in which case all other tasks are aborted.
//
func (s *Sim) Run(ctx context.Context) error {
	start := s.c.Steps()
	for {
		for len(s.runq) > 0 {
			t := s.runq[0]
			s.runq = s.runq[1:]
			s.resume(t)
			if !t.done {
				continue
			}
			if t.err != nil {
				s.abort()
				return errors.WithMessage(t.err, "task "+t.name)
			}
			s.runq = append(s.runq, t.joiners...)
			t.joiners = nil
		}

		live, waiting := 0, 0
		for _, t := range s.tasks {
			if t.done {
				continue
			}
			live++
			if t.clk >= 0 {
				waiting++
			}
		}
		if live == 0 {
			s.tasks = nil
			return nil
		}
		if waiting == 0 {
			s.abort()
			return errors.New("deadlock: no task is waiting for a clock edge")
		}
		if err := ctx.Err(); err != nil {
			s.abort()
			return err
		}
		if s.maxSteps > 0 && s.c.Steps()-start >= s.maxSteps {
			s.abort()
			return errors.Wrapf(ErrTimeout, "%d steps at time %d", s.maxSteps, s.c.Now())
		}

		s.c.Step()

		for _, t := range s.tasks {
			if !t.done && t.clk >= 0 && s.c.edgeAt(t.clk) == t.edge {
				t.clk = -1
				s.runq = append(s.runq, t)
			}
		}
	}
}

// resume runs t until it blocks or returns.
//
func (s *Sim) resume(t *Task) {
	if !t.started {
		t.started = true
		go t.main()
	} else {
		t.wake <- struct{}{}
	}
	<-t.yield
}

// abort terminates all live tasks. Blocked tasks see their pending wait fail.
//
func (s *Sim) abort() {
	for _, t := range s.tasks {
		if t.done {
			continue
		}
		if !t.started {
			t.done = true
			continue
		}
		close(t.wake)
		for {
			<-t.yield
			if t.done {
				break
			}
		}
	}
	s.tasks = nil
	s.runq = nil
}

// A Task is a simulation task created by Sim.Fork.
//
type Task struct {
	name string
	sim  *Sim
	fn   TaskFn

	wake  chan struct{}
	yield chan struct{}

	clk  int // clock wire waited for, -1 if none
	edge Edge

	started bool
	done    bool
	err     error
	joiners []*Task
}

func (t *Task) main() {
	defer func() {
		if r := recover(); r != nil {
			t.err = errors.Errorf("panic: %v", r)
		}
		t.done = true
		t.yield <- struct{}{}
	}()
	t.err = t.fn(t)
}

// Name returns the task name.
//
func (t *Task) Name() string { return t.name }

// Circuit returns the simulated circuit.
//
func (t *Task) Circuit() *Circuit { return t.sim.c }

// Fork forks a new task.
//
func (t *Task) Fork(name string, fn TaskFn) *Task {
	return t.sim.Fork(name, fn)
}

func (t *Task) suspend() error {
	t.yield <- struct{}{}
	if _, ok := <-t.wake; !ok {
		return errAborted
	}
	return nil
}

func (t *Task) await(clk string, e Edge) error {
	n, ok := t.sim.c.clockWire(clk)
	if !ok {
		return errors.Errorf("unknown clock %q", clk)
	}
	t.clk, t.edge = n, e
	return t.suspend()
}

// RisingEdge waits for the next rising edge of the named clock.
//
func (t *Task) RisingEdge(clk string) error {
	return t.await(clk, Rising)
}

// FallingEdge waits for the next falling edge of the named clock.
//
func (t *Task) FallingEdge(clk string) error {
	return t.await(clk, Falling)
}

// ClockCycles waits for n rising edges of the named clock.
//
func (t *Task) ClockCycles(clk string, n int) error {
	for i := 0; i < n; i++ {
		if err := t.RisingEdge(clk); err != nil {
			return err
		}
	}
	return nil
}

// Join waits for task o to return.
//
func (t *Task) Join(o *Task) error {
	if o.done {
		return nil
	}
	o.joiners = append(o.joiners, t)
	t.clk = -1
	return t.suspend()
}
