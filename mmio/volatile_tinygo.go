//go:build tinygo

package mmio

import (
	"runtime/volatile"
	"unsafe"
)

// Volatile is the on-target bus. Loads and stores go straight to the address
// with volatile semantics and are never merged or reordered.
type Volatile struct{}

func (Volatile) Load32(addr uintptr) uint32 {
	return volatile.LoadUint32((*uint32)(unsafe.Pointer(addr)))
}

func (Volatile) Store32(addr uintptr, v uint32) {
	volatile.StoreUint32((*uint32)(unsafe.Pointer(addr)), v)
}

func (Volatile) Load8(addr uintptr) uint8 {
	return volatile.LoadUint8((*uint8)(unsafe.Pointer(addr)))
}

func (Volatile) Store8(addr uintptr, v uint8) {
	volatile.StoreUint8((*uint8)(unsafe.Pointer(addr)), v)
}
