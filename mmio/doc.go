// Package mmio provides typed access to memory-mapped hardware registers.
//
// A register is a fixed-width cell at a fixed address reached through a Bus.
// On target the bus is Volatile: every Get is exactly one volatile load and
// every Set exactly one volatile store, in program order. Host builds supply
// a simulated bus (see package mmio/sim) so drivers can be exercised without
// silicon.
//
// Reg32.Modify is a read followed by a write. It is not atomic with respect to
// interrupt handlers or DMA touching the same register; callers own that
// discipline.
package mmio
