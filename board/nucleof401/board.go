// Package nucleof401 is the Nucleo-F401RE wiring: the user LED on PA5 and
// SPI3 routed to PA4/PC10/PC11/PC12 for the loopback harness.
package nucleof401

import (
	"nucleo-f401/device/stm32f401"
	"nucleo-f401/drivers/clock"
	"nucleo-f401/drivers/gpio"
	"nucleo-f401/drivers/nvic"
	"nucleo-f401/drivers/spi"
	"nucleo-f401/x/conv"
	"nucleo-f401/x/timex"
)

// Pin assignments.
const (
	LEDPort = stm32f401.PortA
	LEDPin  = 5

	SPIInstance = 3
	SPIAltFunc  = stm32f401.AF6
)

// PinRef names one pin.
type PinRef struct {
	Port stm32f401.Port
	Pin  uint8
}

// SPI3 signals.
var (
	SPINSS  = PinRef{stm32f401.PortA, 4}
	SPISCK  = PinRef{stm32f401.PortC, 10}
	SPIMISO = PinRef{stm32f401.PortC, 11}
	SPIMOSI = PinRef{stm32f401.PortC, 12}
)

// Ports whose clocks the board enables.
var usedPorts = []stm32f401.Port{stm32f401.PortA, stm32f401.PortB, stm32f401.PortC, stm32f401.PortH}

// Config is the clock tree and SPI3 setup applied by Init.
type Config struct {
	Clock clock.Config
	SPI   spi.Config
}

// DefaultConfig runs the core at 84 MHz from the HSI PLL with SPI3 at the
// driver defaults.
func DefaultConfig() Config {
	return Config{Clock: clock.DefaultConfig(), SPI: spi.DefaultConfig()}
}

// Board is the brought-up device.
type Board struct {
	P      *stm32f401.Peripherals
	NVIC   *nvic.Controller
	Clocks clock.Frequencies
	LED    gpio.Pin
	SPI    *spi.SPI
}

// Open claims the chip's peripherals and brings the board up with cfg.
func Open(cfg Config) (*Board, error) {
	p, err := stm32f401.Take(hardwareBus())
	if err != nil {
		return nil, err
	}
	return Init(p, cfg)
}

// Init brings up p: clock tree, GPIO bank clocks, the LED output and SPI3.
func Init(p *stm32f401.Peripherals, cfg Config) (*Board, error) {
	f, err := clock.Bringup(p, cfg.Clock)
	if err != nil {
		var cr, cfgr [8]byte
		println("[board] clock bring-up failed:", err.Error(),
			"RCC_CR=0x"+string(conv.U32Hex(cr[:], p.RCC.CR.Get())),
			"RCC_CFGR=0x"+string(conv.U32Hex(cfgr[:], p.RCC.CFGR.Get())))
		return nil, err
	}
	println("[board] clocks up, hclk:", f.HCLK, "tick ns:", timex.PeriodFromHz(cfg.Clock.TickHz))

	p.RCC.EnableGPIO(usedPorts...)

	led, err := gpio.ConfigurePin(p.GPIO(LEDPort), LEDPin, gpio.Output())
	if err != nil {
		return nil, err
	}

	for _, ref := range []PinRef{SPINSS, SPISCK, SPIMISO, SPIMOSI} {
		if err := gpio.Configure(p.GPIO(ref.Port), ref.Pin, gpio.Alternate(SPIAltFunc)); err != nil {
			return nil, err
		}
	}
	bus := spi.New(p.SPI(SPIInstance))
	if err := bus.Configure(cfg.SPI); err != nil {
		return nil, err
	}
	println("[board] spi3 ready, sck:", bus.SCK(f))

	return &Board{P: p, NVIC: nvic.New(p), Clocks: f, LED: led, SPI: bus}, nil
}
