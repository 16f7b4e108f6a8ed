// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdcsim

// A Socket maps a part's pin names to wire numbers in a circuit.
//
type Socket struct {
	m map[string]int
	c *Circuit
}

func newSocket(c *Circuit) *Socket {
	m := make(map[string]int, len(c.consts))
	for k, v := range c.consts {
		m[k] = v
	}
	return &Socket{m: m, c: c}
}

// Mount mounts the given sub-part and allocates new internal wires as
// necessary (according to pin mappings in p.Wires). Inputs missing from
// p.Wires are connected to False and missing outputs get a private wire.
//
// Composite parts call Mount from their MountFn; the wire names in p.Wires are
// then private to the composite part instance.
//
func (s *Socket) Mount(p Part) []Component {
	sub := newSocket(s.c)
	for _, in := range p.Inputs {
		if v, ok := p.Wires[in]; ok {
			sub.m[in] = s.PinOrNew(v)
		} else {
			sub.m[in] = cstFalse
		}
	}
	for _, out := range p.Outputs {
		v, ok := p.Wires[out]
		if !ok {
			sub.m[out] = s.c.allocPin()
			continue
		}
		if _, isClk := s.c.clockWire(v); isClk {
			panic("output pin " + p.Name + "." + out + " connected to clock signal " + v)
		}
		sub.m[out] = s.PinOrNew(v)
	}
	return p.Mount(sub)
}

// Pin returns the wire number allocated to the given pin name.
// This function panics if the pin does not exist.
//
func (s *Socket) Pin(name string) int {
	n, ok := s.m[name]
	if !ok {
		panic("pin " + name + " does not exist")
	}
	return n
}

// PinOrNew returns the wire number allocated to the given pin name.
// If no such pin exists a new one is allocated.
//
func (s *Socket) PinOrNew(name string) int {
	n, ok := s.m[name]
	if !ok {
		n = s.c.allocPin()
		s.m[name] = n
	}
	return n
}
