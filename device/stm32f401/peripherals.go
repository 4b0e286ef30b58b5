package stm32f401

import (
	"sync/atomic"

	"nucleo-f401/errcode"
	"nucleo-f401/mmio"
)

// Peripherals holds every register map of the chip, bound to one bus.
type Peripherals struct {
	Bus mmio.Bus

	RCC     *RCC
	PWR     *PWR
	FLASH   *FLASH
	EXTI    *EXTI
	SYSCFG  *SYSCFG
	SCB     *SCB
	NVIC    *NVIC
	SysTick *SysTick

	GPIOA, GPIOB, GPIOC, GPIOD, GPIOE, GPIOH *GPIO

	SPI1, SPI2, SPI3, SPI4 *SPI
}

var taken atomic.Bool

// Take returns the chip's peripherals. It succeeds once per process; later
// calls fail with errcode.PeripheralsTaken so no two owners can mutate the
// same registers.
func Take(bus mmio.Bus) (*Peripherals, error) {
	if !taken.CompareAndSwap(false, true) {
		return nil, errcode.New(errcode.PeripheralsTaken, "stm32f401.take", "")
	}
	return New(bus), nil
}

// New binds the register maps to bus without claiming ownership. It exists
// for simulators and tests that each build their own chip.
func New(bus mmio.Bus) *Peripherals {
	rcc := newRCC(bus, RCCBase)
	return &Peripherals{
		Bus:     bus,
		RCC:     rcc,
		PWR:     newPWR(bus, PWRBase),
		FLASH:   newFLASH(bus, FLASHBase),
		EXTI:    newEXTI(bus, EXTIBase),
		SYSCFG:  newSYSCFG(bus, SYSCFGBase),
		SCB:     newSCB(bus, SCBBase),
		NVIC:    newNVIC(bus, NVICBase),
		SysTick: newSysTick(bus, SysTickBase),
		GPIOA:   newGPIO(bus, PortA),
		GPIOB:   newGPIO(bus, PortB),
		GPIOC:   newGPIO(bus, PortC),
		GPIOD:   newGPIO(bus, PortD),
		GPIOE:   newGPIO(bus, PortE),
		GPIOH:   newGPIO(bus, PortH),
		SPI1:    newSPI(bus, rcc, 1),
		SPI2:    newSPI(bus, rcc, 2),
		SPI3:    newSPI(bus, rcc, 3),
		SPI4:    newSPI(bus, rcc, 4),
	}
}

// GPIO returns the bank for p, or nil if the part has no such bank.
func (p *Peripherals) GPIO(port Port) *GPIO {
	switch port {
	case PortA:
		return p.GPIOA
	case PortB:
		return p.GPIOB
	case PortC:
		return p.GPIOC
	case PortD:
		return p.GPIOD
	case PortE:
		return p.GPIOE
	case PortH:
		return p.GPIOH
	}
	return nil
}

// SPI returns controller 1..4, or nil.
func (p *Peripherals) SPI(instance uint8) *SPI {
	switch instance {
	case 1:
		return p.SPI1
	case 2:
		return p.SPI2
	case 3:
		return p.SPI3
	case 4:
		return p.SPI4
	}
	return nil
}
