package mmio

// Bus performs single-width loads and stores at absolute addresses.
type Bus interface {
	Load32(addr uintptr) uint32
	Store32(addr uintptr, v uint32)
	Load8(addr uintptr) uint8
	Store8(addr uintptr, v uint8)
}

// Reg32 is a read-write 32-bit register.
type Reg32 struct {
	bus  Bus
	addr uintptr
}

// R32 binds a 32-bit register at addr. A misaligned address panics.
func R32(bus Bus, addr uintptr) Reg32 {
	if addr&3 != 0 {
		panic("mmio: misaligned 32-bit register")
	}
	return Reg32{bus: bus, addr: addr}
}

// Addr is the absolute address the register is bound to.
func (r Reg32) Addr() uintptr { return r.addr }

// Get performs one 32-bit load.
func (r Reg32) Get() uint32 { return r.bus.Load32(r.addr) }

// Set performs one 32-bit store of v.
func (r Reg32) Set(v uint32) { r.bus.Store32(r.addr, v) }

// Modify reads the register, applies f and writes the result back.
func (r Reg32) Modify(f func(uint32) uint32) {
	r.bus.Store32(r.addr, f(r.bus.Load32(r.addr)))
}

// SetBits ORs mask into the register.
func (r Reg32) SetBits(mask uint32) {
	r.Modify(func(v uint32) uint32 { return v | mask })
}

// ClearBits clears the bits in mask.
func (r Reg32) ClearBits(mask uint32) {
	r.Modify(func(v uint32) uint32 { return v &^ mask })
}

// HasBits reports whether every bit in mask is set.
func (r Reg32) HasBits(mask uint32) bool { return r.Get()&mask == mask }

// ReplaceBits replaces the bits selected by mask at pos with value.
func (r Reg32) ReplaceBits(value, mask uint32, pos uint8) {
	r.Modify(func(v uint32) uint32 {
		return v&^(mask<<pos) | (value&mask)<<pos
	})
}

// RO32 is a read-only 32-bit register.
type RO32 struct{ r Reg32 }

// RO binds a read-only register at addr.
func RO(bus Bus, addr uintptr) RO32 { return RO32{R32(bus, addr)} }

func (r RO32) Addr() uintptr            { return r.r.addr }
func (r RO32) Get() uint32              { return r.r.Get() }
func (r RO32) HasBits(mask uint32) bool { return r.r.HasBits(mask) }

// WO32 is a write-only 32-bit register. Writes are never read back.
type WO32 struct{ r Reg32 }

// WO binds a write-only register at addr.
func WO(bus Bus, addr uintptr) WO32 { return WO32{R32(bus, addr)} }

func (r WO32) Addr() uintptr { return r.r.addr }
func (r WO32) Set(v uint32)  { r.r.Set(v) }

// Reg8 is a byte-wide register, used for the core priority tables.
type Reg8 struct {
	bus  Bus
	addr uintptr
}

// R8 binds a byte register at addr.
func R8(bus Bus, addr uintptr) Reg8 { return Reg8{bus: bus, addr: addr} }

func (r Reg8) Addr() uintptr { return r.addr }
func (r Reg8) Get() uint8    { return r.bus.Load8(r.addr) }
func (r Reg8) Set(v uint8)   { r.bus.Store8(r.addr, v) }
