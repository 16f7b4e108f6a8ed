// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdcsim

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// A Component is a component in a circuit that can Get and Set wire states.
//
// Components are evaluated on every simulation step. They read the current
// frame and write the next one, so a value set during a step is only visible
// to other components on the following step. Every component must Set all the
// wires it drives on every step.
//
type Component func(c *Circuit)

// Constant wires.
//
const (
	cstFalse = iota
	cstTrue
	cstCount
)

// Constant input wire names. Unconnected part inputs are wired to False.
//
var (
	True  = "true"
	False = "false"
)

const allOnes = ^uint64(0)

// Circuit is a runnable circuit simulation driven by any number of
// independent clock domains.
//
type Circuit struct {
	s0     []uint64 // wire states frame #0
	s1     []uint64 // wire states frame #1
	cs     []Component
	count  int // wire count
	clocks []*Clock
	edges  []Edge         // edge of the current step, indexed by clock wire
	consts map[string]int // constant and clock wires
	names  map[string]int // top level wires
	now    uint64
	steps  uint

	wc []chan struct{}
	wg sync.WaitGroup
}

// NewCircuit builds a new circuit from the given clock domains and parts.
// Clock wires are named after the clocks and can be connected to any part
// input.
//
// workers is the number of goroutines used to update the state of the Circuit
// each step of the simulation. If less or equal to 0, the value of GOMAXPROCS
// will be used.
//
// Callers must make sure to call Dispose() once the circuit is no longer needed
// in order to release allocated resources.
//
func NewCircuit(workers int, clocks []*Clock, parts ...Part) (cc *Circuit, err error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}
	if len(clocks) == 0 {
		return nil, errors.New("no clock domain")
	}

	cc = &Circuit{
		count:  cstCount + len(clocks),
		clocks: clocks,
		consts: map[string]int{False: cstFalse, True: cstTrue},
	}
	for i, k := range clocks {
		if k == nil {
			return nil, errors.Errorf("clock #%d is nil", i)
		}
		if _, ok := cc.consts[k.Name()]; ok {
			return nil, errors.Errorf("duplicate clock name %q", k.Name())
		}
		cc.consts[k.Name()] = cstCount + i
	}

	// parts report wiring errors by panicking.
	defer func() {
		if r := recover(); r != nil {
			cc = nil
			if e, ok := r.(error); ok {
				err = errors.Wrap(e, "failed to mount parts")
			} else {
				err = errors.Errorf("failed to mount parts: %v", r)
			}
		}
	}()

	root := newSocket(cc)
	var ups []Component
	for _, p := range parts {
		ups = append(ups, root.Mount(p)...)
	}
	ups = append(ups, checkConstants)
	cc.cs = ups
	cc.names = root.m
	cc.s0 = make([]uint64, cc.count)
	cc.s1 = make([]uint64, cc.count)
	cc.edges = make([]Edge, cstCount+len(clocks))
	// init constant wires
	cc.s0[cstTrue] = allOnes
	cc.s1[cstTrue] = allOnes

	// workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	if workers <= 0 {
		workers = 1
	}
	for len(ups) > 0 {
		size := len(ups) / workers
		if size*workers < len(ups) {
			size++
		}
		wc := make(chan struct{}, 1)
		cc.wc = append(cc.wc, wc)
		go worker(cc, ups[:size], wc)
		ups = ups[size:]
	}

	return cc, nil
}

func checkConstants(c *Circuit) {
	if c.s0[cstFalse] != 0 || c.s0[cstTrue] != allOnes {
		panic("true or false constants have been overwritten")
	}
	c.s1[cstFalse] = 0
	c.s1[cstTrue] = allOnes
}

// Dispose releases all resources allocated for a circuit and stops
// worker goroutines.
//
func (c *Circuit) Dispose() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		close(wc)
	}
	c.wg.Wait()
	c.wc = nil
}

func worker(c *Circuit, cs []Component, wc <-chan struct{}) {
	for {
		_, ok := <-wc
		if !ok {
			c.wg.Done()
			return
		}
		for _, f := range cs {
			f(c)
		}
		c.wg.Done()
	}
}

// allocPin allocates a wire and returns its number.
//
func (c *Circuit) allocPin() int {
	cnt := c.count
	c.count++
	return cnt
}

// Steps returns the value of the step counter.
//
func (c *Circuit) Steps() uint {
	return c.steps
}

// Now returns the simulation time of the last step.
//
func (c *Circuit) Now() uint64 {
	return c.now
}

// Clocks returns the clock domains driving the circuit.
//
func (c *Circuit) Clocks() []*Clock {
	return c.clocks
}

// Size returns the component count in the circuit.
//
func (c *Circuit) Size() int { return len(c.cs) }

// Rising returns true if the clock connected to wire n has a rising edge in
// the current step.
//
func (c *Circuit) Rising(n int) bool {
	return c.edgeAt(n) == Rising
}

// Falling returns true if the clock connected to wire n has a falling edge in
// the current step.
//
func (c *Circuit) Falling(n int) bool {
	return c.edgeAt(n) == Falling
}

func (c *Circuit) edgeAt(n int) Edge {
	if n < 0 || n >= len(c.edges) {
		return NoEdge
	}
	return c.edges[n]
}

func (c *Circuit) clockWire(name string) (int, bool) {
	n, ok := c.consts[name]
	if !ok || n < cstCount {
		return 0, false
	}
	return n, true
}

// Get returns the state of wire n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Get(n int) uint64 {
	return c.s0[n]
}

// GetBool returns true if bit 0 of wire n is set.
//
func (c *Circuit) GetBool(n int) bool {
	return c.s0[n]&1 != 0
}

// Set sets the state v of wire n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Set(n int, v uint64) {
	c.s1[n] = v
}

// SetBool sets wire n to 1 or 0.
//
func (c *Circuit) SetBool(n int, b bool) {
	if b {
		c.s1[n] = 1
	} else {
		c.s1[n] = 0
	}
}

// Wire returns the number of the top level wire with the given name.
//
func (c *Circuit) Wire(name string) (int, bool) {
	n, ok := c.names[name]
	return n, ok
}

func (c *Circuit) mustWire(name string) int {
	n, ok := c.names[name]
	if !ok {
		panic(fmt.Sprintf("wire %s does not exist", name))
	}
	return n
}

// Read returns the current value of the named top level wire.
// It panics if no such wire exists.
//
func (c *Circuit) Read(name string) uint64 {
	return c.s0[c.mustWire(name)]
}

// SetImmediate sets the named top level wire in both frames, so that every
// component sees the new value on the next step. It must not be called while
// a step is in progress.
//
func (c *Circuit) SetImmediate(name string, v uint64) {
	n := c.mustWire(name)
	if n < cstCount+len(c.clocks) {
		panic("cannot drive constant or clock wire " + name)
	}
	c.s0[n] = v
	c.s1[n] = v
}

// Step advances the simulation to the next clock edge. Edges of different
// domains occurring at the same time are processed in the same step.
//
func (c *Circuit) Step() {
	t := allOnes
	for _, k := range c.clocks {
		if n, _ := k.Next(); n < t {
			t = n
		}
	}
	c.now = t
	for i, k := range c.clocks {
		n := cstCount + i
		e := NoEdge
		if next, _ := k.Next(); next == t {
			e = k.advance()
		}
		c.edges[n] = e
		var v uint64
		if k.Level() {
			v = 1
		}
		c.s0[n], c.s1[n] = v, v
	}

	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		wc <- struct{}{}
	}
	c.wg.Wait()

	c.steps++
	c.s0, c.s1 = c.s1, c.s0
}
