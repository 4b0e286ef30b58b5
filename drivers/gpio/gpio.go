// Package gpio configures STM32F401 pins and drives them as outputs.
package gpio

import (
	"nucleo-f401/device/stm32f401"
	"nucleo-f401/errcode"
)

// Config is a pin's electrical setup. AltFunc only matters in
// stm32f401.ModeAlternate but is always written.
type Config struct {
	Mode    stm32f401.Mode
	Type    stm32f401.OutputType
	Speed   stm32f401.Speed
	Pull    stm32f401.Pull
	AltFunc stm32f401.AltFunc
}

// Output is a push-pull, high-speed output without pulls.
func Output() Config {
	return Config{Mode: stm32f401.ModeOutput, Type: stm32f401.PushPull, Speed: stm32f401.SpeedHigh}
}

// Alternate is a push-pull, high-speed alternate-function pin.
func Alternate(af stm32f401.AltFunc) Config {
	return Config{Mode: stm32f401.ModeAlternate, Type: stm32f401.PushPull, Speed: stm32f401.SpeedHigh, AltFunc: af}
}

func (c Config) validate() error {
	switch {
	case c.Mode > stm32f401.ModeAnalog:
		return errcode.New(errcode.InvalidParams, "gpio.configure", "mode")
	case c.Type > stm32f401.OpenDrain:
		return errcode.New(errcode.InvalidParams, "gpio.configure", "output type")
	case c.Speed > stm32f401.SpeedVeryHigh:
		return errcode.New(errcode.InvalidParams, "gpio.configure", "speed")
	case c.Pull > stm32f401.PullDown:
		return errcode.New(errcode.InvalidParams, "gpio.configure", "pull")
	case c.AltFunc > stm32f401.AF15:
		return errcode.New(errcode.InvalidParams, "gpio.configure", "alternate function")
	}
	return nil
}

// Configure writes cfg into the pin's MODER, OSPEEDR, PUPDR, OTYPER and AFR
// fields, in that order. Each is a read-modify-write that leaves the other
// pins alone.
func Configure(bank *stm32f401.GPIO, pin uint8, cfg Config) error {
	if bank == nil || pin >= stm32f401.NumPins {
		return errcode.New(errcode.InvalidPin, "gpio.configure", "")
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	stm32f401.ModeField(pin).Write(bank.MODER, cfg.Mode)
	stm32f401.SpeedField(pin).Write(bank.OSPEEDR, cfg.Speed)
	stm32f401.PullField(pin).Write(bank.PUPDR, cfg.Pull)
	stm32f401.OutputTypeField(pin).Write(bank.OTYPER, cfg.Type)
	idx, af := stm32f401.AltFuncField(pin)
	af.Write(bank.AFR[idx], cfg.AltFunc)
	return nil
}

// Pin is one configured pin.
type Pin struct {
	bank *stm32f401.GPIO
	pin  uint8
}

// ConfigurePin sets up pin on bank and returns a handle to it.
func ConfigurePin(bank *stm32f401.GPIO, pin uint8, cfg Config) (Pin, error) {
	if err := Configure(bank, pin, cfg); err != nil {
		return Pin{}, err
	}
	return Pin{bank: bank, pin: pin}, nil
}

// High and Low go through BSRR, so they never race with other pins.
func (p Pin) High() { p.bank.BSRR.Set(stm32f401.BSRRSet(p.pin)) }
func (p Pin) Low()  { p.bank.BSRR.Set(stm32f401.BSRRReset(p.pin)) }

// Set drives the pin to v.
func (p Pin) Set(v bool) {
	if v {
		p.High()
	} else {
		p.Low()
	}
}

// Toggle flips the output latch with a read-modify-write of ODR.
func (p Pin) Toggle() {
	p.bank.ODR.Modify(func(v uint32) uint32 { return v ^ 1<<p.pin })
}

// Get returns the input level.
func (p Pin) Get() bool { return p.bank.IDR.HasBits(1 << p.pin) }

func (p Pin) Port() stm32f401.Port { return p.bank.Port }
func (p Pin) Num() uint8           { return p.pin }
