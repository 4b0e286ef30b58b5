//go:build !tinygo

package nucleof401

import (
	"nucleo-f401/device/stm32f401/simchip"
	"nucleo-f401/mmio"
)

// Off target the board runs against the chip model.
func hardwareBus() mmio.Bus { return simchip.New(simchip.Config{}) }
