package stm32f401

import "nucleo-f401/mmio"

const (
	flashACR     = 0x00 // RW
	flashKEYR    = 0x04 // W
	flashOPTKEYR = 0x08 // W
	flashSR      = 0x0C // RW
	flashCR      = 0x10 // RW
	flashOPTCR   = 0x14 // RW
)

// FLASH is the embedded flash interface.
type FLASH struct {
	ACR     mmio.Reg32
	KEYR    mmio.WO32
	OPTKEYR mmio.WO32
	SR      mmio.Reg32
	CR      mmio.Reg32
	OPTCR   mmio.Reg32
}

func newFLASH(bus mmio.Bus, base uintptr) *FLASH {
	return &FLASH{
		ACR:     mmio.R32(bus, base+flashACR),
		KEYR:    mmio.WO(bus, base+flashKEYR),
		OPTKEYR: mmio.WO(bus, base+flashOPTKEYR),
		SR:      mmio.R32(bus, base+flashSR),
		CR:      mmio.R32(bus, base+flashCR),
		OPTCR:   mmio.R32(bus, base+flashOPTCR),
	}
}

// Latency is the number of flash wait states.
type Latency uint8

const (
	Latency0WS Latency = iota
	Latency1WS
	Latency2WS
	Latency3WS
	Latency4WS
	Latency5WS
	Latency6WS
	Latency7WS
)

// FLASH_ACR
const (
	FLASH_ACR_PRFTEN = 1 << 8
	FLASH_ACR_ICEN   = 1 << 9
	FLASH_ACR_DCEN   = 1 << 10
	FLASH_ACR_ICRST  = 1 << 11
	FLASH_ACR_DCRST  = 1 << 12
)

var FLASH_ACR_LATENCY = mmio.F[Latency](0, 4)

// MinLatency returns the fewest wait states that sustain hclkHz with a
// 2.7 V to 3.6 V supply.
func MinLatency(hclkHz uint32) Latency {
	switch {
	case hclkHz <= 30_000_000:
		return Latency0WS
	case hclkHz <= 60_000_000:
		return Latency1WS
	default:
		return Latency2WS
	}
}

// Unlock keys for KEYR.
const (
	FLASH_KEY1 = 0x4567_0123
	FLASH_KEY2 = 0xCDEF_89AB
)
