package mmio

import "golang.org/x/exp/constraints"

// Field describes a bit range inside a 32-bit register. T is the enumerated
// value type the range accepts, so a value catalogued for one field cannot be
// written into another without a conversion.
type Field[T constraints.Unsigned] struct {
	Shift uint8
	Width uint8
}

// F builds a Field and panics if the range does not fit in 32 bits. Catalogs
// declare fields as package variables so a bad range fails at init.
func F[T constraints.Unsigned](shift, width uint8) Field[T] {
	if width == 0 || uint(shift)+uint(width) > 32 {
		panic("mmio: field out of range")
	}
	return Field[T]{Shift: shift, Width: width}
}

// Mask returns the field bits in register position.
func (f Field[T]) Mask() uint32 {
	return uint32((uint64(1)<<f.Width - 1) << f.Shift)
}

// Max is the largest value the field can hold.
func (f Field[T]) Max() uint32 { return f.Mask() >> f.Shift }

// Valid reports whether v fits the field without truncation.
func (f Field[T]) Valid(v T) bool { return uint64(v) <= uint64(f.Max()) }

// Value returns v shifted into register position, truncated to the field.
func (f Field[T]) Value(v T) uint32 { return (uint32(v) << f.Shift) & f.Mask() }

// Extract pulls the field out of a register word.
func (f Field[T]) Extract(word uint32) T { return T((word & f.Mask()) >> f.Shift) }

// Insert returns word with the field replaced by v; bits outside are kept.
func (f Field[T]) Insert(word uint32, v T) uint32 { return word&^f.Mask() | f.Value(v) }

// Read loads r and extracts the field.
func (f Field[T]) Read(r Reg32) T { return f.Extract(r.Get()) }

// Write read-modify-writes the field into r.
func (f Field[T]) Write(r Reg32, v T) {
	r.Modify(func(w uint32) uint32 { return f.Insert(w, v) })
}
