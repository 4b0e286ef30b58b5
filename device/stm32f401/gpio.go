package stm32f401

import "nucleo-f401/mmio"

const (
	gpioMODER   = 0x00 // RW
	gpioOTYPER  = 0x04 // RW
	gpioOSPEEDR = 0x08 // RW
	gpioPUPDR   = 0x0C // RW
	gpioIDR     = 0x10 // R
	gpioODR     = 0x14 // RW
	gpioBSRR    = 0x18 // W
	gpioLCKR    = 0x1C // RW
	gpioAFRL    = 0x20 // RW, pins 0..7
	gpioAFRH    = 0x24 // RW, pins 8..15
)

// NumPins is the number of pins per bank.
const NumPins = 16

// GPIO is one pin bank.
type GPIO struct {
	Port    Port
	MODER   mmio.Reg32
	OTYPER  mmio.Reg32
	OSPEEDR mmio.Reg32
	PUPDR   mmio.Reg32
	IDR     mmio.RO32
	ODR     mmio.Reg32
	BSRR    mmio.WO32
	LCKR    mmio.Reg32
	AFR     [2]mmio.Reg32
}

func newGPIO(bus mmio.Bus, p Port) *GPIO {
	base := p.Base()
	r := func(off uintptr) mmio.Reg32 { return mmio.R32(bus, base+off) }
	return &GPIO{
		Port:    p,
		MODER:   r(gpioMODER),
		OTYPER:  r(gpioOTYPER),
		OSPEEDR: r(gpioOSPEEDR),
		PUPDR:   r(gpioPUPDR),
		IDR:     mmio.RO(bus, base+gpioIDR),
		ODR:     r(gpioODR),
		BSRR:    mmio.WO(bus, base+gpioBSRR),
		LCKR:    r(gpioLCKR),
		AFR:     [2]mmio.Reg32{r(gpioAFRL), r(gpioAFRH)},
	}
}

// Mode is a pin's MODER setting.
type Mode uint8

const (
	ModeInput     Mode = 0b00
	ModeOutput    Mode = 0b01
	ModeAlternate Mode = 0b10
	ModeAnalog    Mode = 0b11
)

// OutputType is a pin's OTYPER setting.
type OutputType uint8

const (
	PushPull  OutputType = 0
	OpenDrain OutputType = 1
)

// Speed is a pin's OSPEEDR setting.
type Speed uint8

const (
	SpeedLow      Speed = 0b00
	SpeedMedium   Speed = 0b01
	SpeedHigh     Speed = 0b10
	SpeedVeryHigh Speed = 0b11
)

// Pull is a pin's PUPDR setting. 0b11 is reserved.
type Pull uint8

const (
	PullNone Pull = 0b00
	PullUp   Pull = 0b01
	PullDown Pull = 0b10
)

// AltFunc is the AFRL/AFRH selector.
type AltFunc uint8

const (
	AF0  AltFunc = iota // system
	AF1                 // TIM1/TIM2
	AF2                 // TIM3..5
	AF3                 // TIM9..11
	AF4                 // I2C1..3
	AF5                 // SPI1..4
	AF6                 // SPI3
	AF7                 // USART1/2
	AF8                 // USART6
	AF9                 // I2C2/3
	AF10                // OTG_FS
	AF11
	AF12 // SDIO
	AF13
	AF14
	AF15 // EVENTOUT
)

// Per-pin field descriptors. pin must be below NumPins.

func ModeField(pin uint8) mmio.Field[Mode]             { return mmio.F[Mode](pin*2, 2) }
func OutputTypeField(pin uint8) mmio.Field[OutputType] { return mmio.F[OutputType](pin, 1) }
func SpeedField(pin uint8) mmio.Field[Speed]           { return mmio.F[Speed](pin*2, 2) }
func PullField(pin uint8) mmio.Field[Pull]             { return mmio.F[Pull](pin*2, 2) }

// AltFuncField returns the AFR index (0 for AFRL, 1 for AFRH) and the
// selector field for pin.
func AltFuncField(pin uint8) (int, mmio.Field[AltFunc]) {
	return int(pin / 8), mmio.F[AltFunc]((pin%8)*4, 4)
}

// BSRR halves.
func BSRRSet(pin uint8) uint32   { return 1 << pin }
func BSRRReset(pin uint8) uint32 { return 1 << (pin + 16) }
