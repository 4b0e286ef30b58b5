//go:build tinygo && cortexm

package timex

import "device/arm"

// Spin busy-waits for n iterations of a single nop. It is not calibrated.
func Spin(n uint32) {
	for i := uint32(1); i < n; i++ {
		arm.Asm("nop")
	}
}
