//go:build tinygo

package nucleof401

import "nucleo-f401/mmio"

// On target the board drives the chip's registers directly.
func hardwareBus() mmio.Bus { return mmio.Volatile{} }
