package stm32f401

import "nucleo-f401/mmio"

const (
	spiCR1     = 0x00 // RW
	spiCR2     = 0x04 // RW
	spiSR      = 0x08 // RW, CRCERR rc_w0
	spiDR      = 0x0C // RW, 16-bit data
	spiCRCPR   = 0x10 // RW
	spiRXCRCR  = 0x14 // R
	spiTXCRCR  = 0x18 // R
	spiI2SCFGR = 0x1C // RW
	spiI2SPR   = 0x20 // RW
)

// SPI is one SPI/I2S controller.
type SPI struct {
	// Instance is 1..4.
	Instance uint8
	IRQ      int
	// APB2 is set for SPI1 and SPI4; the others sit on APB1.
	APB2  bool
	Clock ClockGate

	CR1     mmio.Reg32
	CR2     mmio.Reg32
	SR      mmio.Reg32
	DR      mmio.Reg32
	CRCPR   mmio.Reg32
	RXCRCR  mmio.RO32
	TXCRCR  mmio.RO32
	I2SCFGR mmio.Reg32
	I2SPR   mmio.Reg32
}

func newSPI(bus mmio.Bus, rcc *RCC, instance uint8) *SPI {
	s := &SPI{Instance: instance}
	var base uintptr
	switch instance {
	case 1:
		base, s.IRQ, s.APB2 = SPI1Base, IRQ_SPI1, true
		s.Clock = ClockGate{Reg: rcc.APB2ENR, Mask: RCC_APB2ENR_SPI1EN}
	case 2:
		base, s.IRQ = SPI2Base, IRQ_SPI2
		s.Clock = ClockGate{Reg: rcc.APB1ENR, Mask: RCC_APB1ENR_SPI2EN}
	case 3:
		base, s.IRQ = SPI3Base, IRQ_SPI3
		s.Clock = ClockGate{Reg: rcc.APB1ENR, Mask: RCC_APB1ENR_SPI3EN}
	case 4:
		base, s.IRQ, s.APB2 = SPI4Base, IRQ_SPI4, true
		s.Clock = ClockGate{Reg: rcc.APB2ENR, Mask: RCC_APB2ENR_SPI4EN}
	default:
		panic("stm32f401: no such SPI instance")
	}
	r := func(off uintptr) mmio.Reg32 { return mmio.R32(bus, base+off) }
	s.CR1 = r(spiCR1)
	s.CR2 = r(spiCR2)
	s.SR = r(spiSR)
	s.DR = r(spiDR)
	s.CRCPR = r(spiCRCPR)
	s.RXCRCR = mmio.RO(bus, base+spiRXCRCR)
	s.TXCRCR = mmio.RO(bus, base+spiTXCRCR)
	s.I2SCFGR = r(spiI2SCFGR)
	s.I2SPR = r(spiI2SPR)
	return s
}

// SPI_CR1
const (
	SPI_CR1_CPHA     = 1 << 0
	SPI_CR1_CPOL     = 1 << 1
	SPI_CR1_MSTR     = 1 << 2
	SPI_CR1_SPE      = 1 << 6
	SPI_CR1_LSBFIRST = 1 << 7
	SPI_CR1_SSI      = 1 << 8
	SPI_CR1_SSM      = 1 << 9
	SPI_CR1_RXONLY   = 1 << 10
	SPI_CR1_DFF      = 1 << 11
	SPI_CR1_CRCNEXT  = 1 << 12
	SPI_CR1_CRCEN    = 1 << 13
	SPI_CR1_BIDIOE   = 1 << 14
	SPI_CR1_BIDIMODE = 1 << 15
)

// BaudDiv is the CR1.BR encoding, fPCLK / 2^(BR+1).
type BaudDiv uint8

const (
	BaudDiv2 BaudDiv = iota
	BaudDiv4
	BaudDiv8
	BaudDiv16
	BaudDiv32
	BaudDiv64
	BaudDiv128
	BaudDiv256
)

func (b BaudDiv) Divisor() uint32 { return 2 << (b & 7) }

var SPI_CR1_BR = mmio.F[BaudDiv](3, 3)

// SPI_CR2
const (
	SPI_CR2_RXDMAEN = 1 << 0
	SPI_CR2_TXDMAEN = 1 << 1
	SPI_CR2_SSOE    = 1 << 2
	SPI_CR2_FRF     = 1 << 4 // TI frame format when set
	SPI_CR2_ERRIE   = 1 << 5
	SPI_CR2_RXNEIE  = 1 << 6
	SPI_CR2_TXEIE   = 1 << 7
)

// SPI_SR
const (
	SPI_SR_RXNE   = 1 << 0
	SPI_SR_TXE    = 1 << 1
	SPI_SR_CHSIDE = 1 << 2
	SPI_SR_UDR    = 1 << 3
	SPI_SR_CRCERR = 1 << 4
	SPI_SR_MODF   = 1 << 5
	SPI_SR_OVR    = 1 << 6
	SPI_SR_BSY    = 1 << 7
	SPI_SR_FRE    = 1 << 8
)

// SPI_I2SCFGR
const (
	SPI_I2SCFGR_I2SE   = 1 << 10
	SPI_I2SCFGR_I2SMOD = 1 << 11
)
