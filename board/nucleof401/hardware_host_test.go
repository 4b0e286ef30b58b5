//go:build !tinygo

package nucleof401

import (
	"testing"

	"nucleo-f401/device/stm32f401/simchip"
)

func TestHostBusIsChipModel(t *testing.T) {
	if _, ok := hardwareBus().(*simchip.Chip); !ok {
		t.Fatalf("host build bound %T, want *simchip.Chip", hardwareBus())
	}
}
