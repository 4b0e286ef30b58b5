package stm32f401

import "nucleo-f401/mmio"

const (
	pwrCR  = 0x00
	pwrCSR = 0x04
)

// PWR is the power controller.
type PWR struct {
	CR  mmio.Reg32
	CSR mmio.Reg32
}

func newPWR(bus mmio.Bus, base uintptr) *PWR {
	return &PWR{
		CR:  mmio.R32(bus, base+pwrCR),
		CSR: mmio.R32(bus, base+pwrCSR),
	}
}

// PWR_CR
const (
	PWR_CR_LPDS = 1 << 0
	PWR_CR_PDDS = 1 << 1
	PWR_CR_CWUF = 1 << 2
	PWR_CR_CSBF = 1 << 3
	PWR_CR_PVDE = 1 << 4
	PWR_CR_DBP  = 1 << 8
	PWR_CR_FPDS = 1 << 9
)

// VoltageScale is the regulator scaling selection. 0b00 is reserved.
type VoltageScale uint8

const (
	VoltageScale3 VoltageScale = 0b01 // HCLK <= 60 MHz
	VoltageScale2 VoltageScale = 0b10 // HCLK <= 84 MHz
)

var (
	PWR_CR_PLS = mmio.F[uint8](5, 3)
	PWR_CR_VOS = mmio.F[VoltageScale](14, 2)
)

// PWR_CSR
const (
	PWR_CSR_WUF    = 1 << 0
	PWR_CSR_SBF    = 1 << 1
	PWR_CSR_PVDO   = 1 << 2
	PWR_CSR_BRR    = 1 << 3
	PWR_CSR_EWUP   = 1 << 8
	PWR_CSR_BRE    = 1 << 9
	PWR_CSR_VOSRDY = 1 << 14
)
