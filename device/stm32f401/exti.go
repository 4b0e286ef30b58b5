package stm32f401

import "nucleo-f401/mmio"

const (
	extiIMR   = 0x00
	extiEMR   = 0x04
	extiRTSR  = 0x08
	extiFTSR  = 0x0C
	extiSWIER = 0x10
	extiPR    = 0x14 // rc_w1
)

// EXTI is the external interrupt/event controller. Lines 0..15 follow the
// GPIO pins selected in SYSCFG_EXTICRx; 16..22 are internal sources.
type EXTI struct {
	IMR   mmio.Reg32
	EMR   mmio.Reg32
	RTSR  mmio.Reg32
	FTSR  mmio.Reg32
	SWIER mmio.Reg32
	PR    mmio.Reg32
}

func newEXTI(bus mmio.Bus, base uintptr) *EXTI {
	r := func(off uintptr) mmio.Reg32 { return mmio.R32(bus, base+off) }
	return &EXTI{
		IMR:   r(extiIMR),
		EMR:   r(extiEMR),
		RTSR:  r(extiRTSR),
		FTSR:  r(extiFTSR),
		SWIER: r(extiSWIER),
		PR:    r(extiPR),
	}
}

const NumEXTILines = 23

// Internal EXTI lines.
const (
	EXTILinePVD       = 16
	EXTILineOTGFSWkup = 18
	EXTILineRTCTamper = 21
	EXTILineRTCWkup   = 22
)

// EXTILine returns the register mask for line n.
func EXTILine(n uint8) uint32 { return 1 << n }

// Trigger is an edge selection for a line.
type Trigger uint8

const (
	TriggerNone    Trigger = 0
	TriggerRising  Trigger = 1 << 0
	TriggerFalling Trigger = 1 << 1
	TriggerBoth            = TriggerRising | TriggerFalling
)
