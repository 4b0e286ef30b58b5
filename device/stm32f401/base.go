package stm32f401

// Peripheral base addresses.
const (
	GPIOABase  = 0x4002_0000
	RCCBase    = 0x4002_3800
	FLASHBase  = 0x4002_3C00
	PWRBase    = 0x4000_7000
	SPI1Base   = 0x4001_3000
	SPI2Base   = 0x4000_3800
	SPI3Base   = 0x4000_3C00
	SPI4Base   = 0x4001_3400
	SYSCFGBase = 0x4001_3800
	EXTIBase   = 0x4001_3C00

	gpioStride = 0x400
)

// Cortex-M4 core blocks.
const (
	SysTickBase = 0xE000_E010
	NVICBase    = 0xE000_E100
	SCBBase     = 0xE000_ED00
)

// Port identifies a GPIO bank. The value is the bank index in the AHB1
// address space and in RCC_AHB1ENR; F and G are not bonded on this part.
type Port uint8

const (
	PortA Port = 0
	PortB Port = 1
	PortC Port = 2
	PortD Port = 3
	PortE Port = 4
	PortH Port = 7
)

// Ports lists every bank present on the STM32F401.
var Ports = [...]Port{PortA, PortB, PortC, PortD, PortE, PortH}

func (p Port) Valid() bool {
	return p <= PortE || p == PortH
}

// Base returns the bank's register base address.
func (p Port) Base() uintptr {
	return GPIOABase + uintptr(p)*gpioStride
}

func (p Port) String() string {
	switch p {
	case PortA:
		return "A"
	case PortB:
		return "B"
	case PortC:
		return "C"
	case PortD:
		return "D"
	case PortE:
		return "E"
	case PortH:
		return "H"
	}
	return "?"
}
