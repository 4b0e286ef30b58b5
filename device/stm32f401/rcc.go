package stm32f401

import "nucleo-f401/mmio"

// RCC register offsets. Reserved words sit between the groups.
const (
	rccCR         = 0x00 // RW
	rccPLLCFGR    = 0x04 // RW
	rccCFGR       = 0x08 // RW, SWS read-only
	rccCIR        = 0x0C // RW
	rccAHB1RSTR   = 0x10 // RW
	rccAHB2RSTR   = 0x14 // RW
	rccAPB1RSTR   = 0x20 // RW
	rccAPB2RSTR   = 0x24 // RW
	rccAHB1ENR    = 0x30 // RW
	rccAHB2ENR    = 0x34 // RW
	rccAPB1ENR    = 0x40 // RW
	rccAPB2ENR    = 0x44 // RW
	rccAHB1LPENR  = 0x50 // RW
	rccAHB2LPENR  = 0x54 // RW
	rccAPB1LPENR  = 0x60 // RW
	rccAPB2LPENR  = 0x64 // RW
	rccBDCR       = 0x70 // RW
	rccCSR        = 0x74 // RW
	rccSSCGR      = 0x80 // RW
	rccPLLI2SCFGR = 0x84 // RW
	rccDCKCFGR    = 0x8C // RW
)

// RCC is the reset and clock controller.
type RCC struct {
	CR         mmio.Reg32
	PLLCFGR    mmio.Reg32
	CFGR       mmio.Reg32
	CIR        mmio.Reg32
	AHB1RSTR   mmio.Reg32
	AHB2RSTR   mmio.Reg32
	APB1RSTR   mmio.Reg32
	APB2RSTR   mmio.Reg32
	AHB1ENR    mmio.Reg32
	AHB2ENR    mmio.Reg32
	APB1ENR    mmio.Reg32
	APB2ENR    mmio.Reg32
	AHB1LPENR  mmio.Reg32
	AHB2LPENR  mmio.Reg32
	APB1LPENR  mmio.Reg32
	APB2LPENR  mmio.Reg32
	BDCR       mmio.Reg32
	CSR        mmio.Reg32
	SSCGR      mmio.Reg32
	PLLI2SCFGR mmio.Reg32
	DCKCFGR    mmio.Reg32
}

func newRCC(bus mmio.Bus, base uintptr) *RCC {
	r := func(off uintptr) mmio.Reg32 { return mmio.R32(bus, base+off) }
	return &RCC{
		CR:         r(rccCR),
		PLLCFGR:    r(rccPLLCFGR),
		CFGR:       r(rccCFGR),
		CIR:        r(rccCIR),
		AHB1RSTR:   r(rccAHB1RSTR),
		AHB2RSTR:   r(rccAHB2RSTR),
		APB1RSTR:   r(rccAPB1RSTR),
		APB2RSTR:   r(rccAPB2RSTR),
		AHB1ENR:    r(rccAHB1ENR),
		AHB2ENR:    r(rccAHB2ENR),
		APB1ENR:    r(rccAPB1ENR),
		APB2ENR:    r(rccAPB2ENR),
		AHB1LPENR:  r(rccAHB1LPENR),
		AHB2LPENR:  r(rccAHB2LPENR),
		APB1LPENR:  r(rccAPB1LPENR),
		APB2LPENR:  r(rccAPB2LPENR),
		BDCR:       r(rccBDCR),
		CSR:        r(rccCSR),
		SSCGR:      r(rccSSCGR),
		PLLI2SCFGR: r(rccPLLI2SCFGR),
		DCKCFGR:    r(rccDCKCFGR),
	}
}

// RCC_CR
const (
	RCC_CR_HSION     = 1 << 0
	RCC_CR_HSIRDY    = 1 << 1
	RCC_CR_HSEON     = 1 << 16
	RCC_CR_HSERDY    = 1 << 17
	RCC_CR_HSEBYP    = 1 << 18
	RCC_CR_CSSON     = 1 << 19
	RCC_CR_PLLON     = 1 << 24
	RCC_CR_PLLRDY    = 1 << 25
	RCC_CR_PLLI2SON  = 1 << 26
	RCC_CR_PLLI2SRDY = 1 << 27

	// Read-only flags in RCC_CR.
	RCC_CR_RDY = RCC_CR_HSIRDY | RCC_CR_HSERDY | RCC_CR_PLLRDY | RCC_CR_PLLI2SRDY
)

var (
	RCC_CR_HSITRIM = mmio.F[uint8](3, 5)
	RCC_CR_HSICAL  = mmio.F[uint8](8, 8)
)

// HSIHz is the internal oscillator frequency.
const HSIHz = 16_000_000

// PLLSource selects the PLL input.
type PLLSource uint8

const (
	PLLSourceHSI PLLSource = 0
	PLLSourceHSE PLLSource = 1
)

// PLLP is the main PLL output divider encoding.
type PLLP uint8

const (
	PLLPDiv2 PLLP = 0b00
	PLLPDiv4 PLLP = 0b01
	PLLPDiv6 PLLP = 0b10
	PLLPDiv8 PLLP = 0b11
)

// Divisor returns the division factor the encoding selects.
func (p PLLP) Divisor() uint32 { return 2 * (uint32(p&3) + 1) }

// PLLPFor encodes a division factor of 2, 4, 6 or 8.
func PLLPFor(div uint32) (PLLP, bool) {
	switch div {
	case 2, 4, 6, 8:
		return PLLP(div/2 - 1), true
	}
	return 0, false
}

// RCC_PLLCFGR
var (
	RCC_PLLCFGR_PLLM   = mmio.F[uint8](0, 6)
	RCC_PLLCFGR_PLLN   = mmio.F[uint16](6, 9)
	RCC_PLLCFGR_PLLP   = mmio.F[PLLP](16, 2)
	RCC_PLLCFGR_PLLSRC = mmio.F[PLLSource](22, 1)
	RCC_PLLCFGR_PLLQ   = mmio.F[uint8](24, 4)
)

// SysClk selects the system clock source (CFGR.SW) and reports it (CFGR.SWS).
type SysClk uint8

const (
	SysClkHSI SysClk = 0b00
	SysClkHSE SysClk = 0b01
	SysClkPLL SysClk = 0b10
)

// AHBPrescaler is the HPRE encoding.
type AHBPrescaler uint8

const (
	AHBDiv1   AHBPrescaler = 0b0000
	AHBDiv2   AHBPrescaler = 0b1000
	AHBDiv4   AHBPrescaler = 0b1001
	AHBDiv8   AHBPrescaler = 0b1010
	AHBDiv16  AHBPrescaler = 0b1011
	AHBDiv64  AHBPrescaler = 0b1100
	AHBDiv128 AHBPrescaler = 0b1101
	AHBDiv256 AHBPrescaler = 0b1110
	AHBDiv512 AHBPrescaler = 0b1111
)

// Divisor returns the division factor. Encodings 0b0xxx all divide by one.
func (p AHBPrescaler) Divisor() uint32 {
	if p&0b1000 == 0 {
		return 1
	}
	shift := uint32(p&0b111) + 1
	if shift >= 5 {
		// /32 is skipped in the encoding.
		shift++
	}
	return 1 << shift
}

// APBPrescaler is the PPRE1/PPRE2 encoding.
type APBPrescaler uint8

const (
	APBDiv1  APBPrescaler = 0b000
	APBDiv2  APBPrescaler = 0b100
	APBDiv4  APBPrescaler = 0b101
	APBDiv8  APBPrescaler = 0b110
	APBDiv16 APBPrescaler = 0b111
)

func (p APBPrescaler) Divisor() uint32 {
	if p&0b100 == 0 {
		return 1
	}
	return 1 << (uint32(p&0b11) + 1)
}

// RCC_CFGR
var (
	RCC_CFGR_SW    = mmio.F[SysClk](0, 2)
	RCC_CFGR_SWS   = mmio.F[SysClk](2, 2)
	RCC_CFGR_HPRE  = mmio.F[AHBPrescaler](4, 4)
	RCC_CFGR_PPRE1 = mmio.F[APBPrescaler](10, 3)
	RCC_CFGR_PPRE2 = mmio.F[APBPrescaler](13, 3)
)

// TimerPrescaler is DCKCFGR.TIMPRE.
type TimerPrescaler uint8

const (
	// Timer clocks run at twice PCLKx when the APB prescaler is not 1.
	TimPreTwice TimerPrescaler = 0
	// Timer clocks run at four times PCLKx when the APB prescaler is above 2.
	TimPreFourTimes TimerPrescaler = 1
)

var RCC_DCKCFGR_TIMPRE = mmio.F[TimerPrescaler](24, 1)

// RCC_AHB1ENR
const (
	RCC_AHB1ENR_GPIOAEN = 1 << 0
	RCC_AHB1ENR_GPIOBEN = 1 << 1
	RCC_AHB1ENR_GPIOCEN = 1 << 2
	RCC_AHB1ENR_GPIODEN = 1 << 3
	RCC_AHB1ENR_GPIOEEN = 1 << 4
	RCC_AHB1ENR_GPIOHEN = 1 << 7
	RCC_AHB1ENR_CRCEN   = 1 << 12
	RCC_AHB1ENR_DMA1EN  = 1 << 21
	RCC_AHB1ENR_DMA2EN  = 1 << 22
)

// RCC_APB1ENR
const (
	RCC_APB1ENR_TIM2EN = 1 << 0
	RCC_APB1ENR_WWDGEN = 1 << 11
	RCC_APB1ENR_SPI2EN = 1 << 14
	RCC_APB1ENR_SPI3EN = 1 << 15
	RCC_APB1ENR_PWREN  = 1 << 28
)

// RCC_APB2ENR
const (
	RCC_APB2ENR_SPI1EN   = 1 << 12
	RCC_APB2ENR_SPI4EN   = 1 << 13
	RCC_APB2ENR_SYSCFGEN = 1 << 14
)

// ClockGate is one peripheral enable bit in an RCC enable register.
type ClockGate struct {
	Reg  mmio.Reg32
	Mask uint32
}

// Enable sets the gate and reads the register back so the enable has taken
// effect before the peripheral is first touched.
func (g ClockGate) Enable() {
	g.Reg.SetBits(g.Mask)
	_ = g.Reg.Get()
}

func (g ClockGate) Disable() { g.Reg.ClearBits(g.Mask) }

func (g ClockGate) Enabled() bool { return g.Reg.HasBits(g.Mask) }

// GPIOGate returns the AHB1 clock gate for a bank.
func (r *RCC) GPIOGate(p Port) ClockGate {
	return ClockGate{Reg: r.AHB1ENR, Mask: 1 << p}
}

// EnableGPIO enables the bank clocks in a single write.
func (r *RCC) EnableGPIO(ports ...Port) {
	var mask uint32
	for _, p := range ports {
		mask |= 1 << p
	}
	r.AHB1ENR.SetBits(mask)
	_ = r.AHB1ENR.Get()
}

func (r *RCC) PWRGate() ClockGate    { return ClockGate{Reg: r.APB1ENR, Mask: RCC_APB1ENR_PWREN} }
func (r *RCC) SYSCFGGate() ClockGate { return ClockGate{Reg: r.APB2ENR, Mask: RCC_APB2ENR_SYSCFGEN} }
