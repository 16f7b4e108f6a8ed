/*
Package cdcsim provides a small simulator for clock-domain-crossing circuits:
logic clocked by several independent clocks with no fixed phase relationship.

A circuit is built from parts (see PartSpec) mounted on wires and driven by any
number of clock domains (see Clock). Each simulation step processes the next
clock edge (edges of different domains falling at the same time are processed
together). Registers sample the values wires had before the edge, which is what
makes chained flip-flop synchronizers and Gray-coded pointers behave like they
do in hardware, minus metastability.

Testbenches are written as tasks (see Sim) that wait for clock edges, drive
inputs and sample outputs, in the manner of coroutine based HDL testbenches.

The part library lives in the cdclib sub-package, and the verification harness
for the library parts in cdctest.
*/
package cdcsim
