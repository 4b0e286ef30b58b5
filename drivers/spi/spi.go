// Package spi is a polled, blocking SPI master for the STM32F401 controllers.
//
// Each byte is one full-duplex exchange: the controller is enabled, stale
// receive data is drained, the byte is shifted out while the reply is
// shifted in, and the controller is disabled again. Every status wait is
// bounded and fails with errcode.SPITransferTimeout.
package spi

import (
	"nucleo-f401/device/stm32f401"
	"nucleo-f401/drivers/clock"
	"nucleo-f401/errcode"
	"nucleo-f401/mmio"
	"nucleo-f401/x/mathx"

	"tinygo.org/x/drivers"
)

// Config selects the master setup.
type Config struct {
	BaudDiv stm32f401.BaudDiv
	// Mode is the CPOL/CPHA pair, 0..3.
	Mode      uint8
	LSBFirst  bool
	PollLimit uint32
}

// DefaultConfig is mode 0, MSB first, 8-bit frames at fPCLK/32.
// DefaultConfig is mode 0, MSB first, PCLK/32.
func DefaultConfig() Config {
	return Config{
		BaudDiv:   stm32f401.BaudDiv32,
		Mode:      0,
		PollLimit: clock.DefaultPollLimit,
	}
}

// Validate rejects an unknown prescaler, a mode above 3 or a zero poll limit.
func (c Config) Validate() error {
	switch {
	case c.Mode > 3:
		return errcode.New(errcode.InvalidParams, "spi.configure", "mode")
	case !stm32f401.SPI_CR1_BR.Valid(c.BaudDiv):
		return errcode.New(errcode.InvalidParams, "spi.configure", "baud divider")
	case c.PollLimit == 0:
		return errcode.New(errcode.InvalidParams, "spi.configure", "poll limit")
	}
	return nil
}

// BaudDivFor returns the smallest divider whose SCK does not exceed maxHz
// on a bus clocked at pclkHz. ok is false when even /256 is too fast.
func BaudDivFor(pclkHz, maxHz uint32) (div stm32f401.BaudDiv, ok bool) {
	if maxHz == 0 {
		return stm32f401.BaudDiv256, false
	}
	n := mathx.Log2Ceil(mathx.Clamp(mathx.CeilDiv(pclkHz, maxHz), 2, 512))
	if n > 8 {
		return stm32f401.BaudDiv256, false
	}
	return stm32f401.BaudDiv(n - 1), true
}

// SPI drives one controller. It is not safe for concurrent use; callers own
// the controller for the duration of each call.
type SPI struct {
	regs *stm32f401.SPI
	cfg  Config
}

var _ drivers.SPI = (*SPI)(nil)

func New(regs *stm32f401.SPI) *SPI {
	return &SPI{regs: regs, cfg: DefaultConfig()}
}

// Configure enables the controller clock and sets it up as a full-duplex
// master with Motorola framing. SPE is left clear; Transfer sets it per
// exchange.
func (s *SPI) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	r := s.regs
	r.Clock.Enable()
	r.CR1.Modify(func(v uint32) uint32 {
		v &^= stm32f401.SPI_CR1_SPE | stm32f401.SPI_CR1_RXONLY | stm32f401.SPI_CR1_DFF |
			stm32f401.SPI_CR1_CPOL | stm32f401.SPI_CR1_CPHA | stm32f401.SPI_CR1_LSBFIRST |
			stm32f401.SPI_CR1_CRCEN | stm32f401.SPI_CR1_BIDIMODE
		v |= stm32f401.SPI_CR1_MSTR | stm32f401.SPI_CR1_SSI
		if cfg.Mode&2 != 0 {
			v |= stm32f401.SPI_CR1_CPOL
		}
		if cfg.Mode&1 != 0 {
			v |= stm32f401.SPI_CR1_CPHA
		}
		if cfg.LSBFirst {
			v |= stm32f401.SPI_CR1_LSBFIRST
		}
		return stm32f401.SPI_CR1_BR.Insert(v, cfg.BaudDiv)
	})
	r.CR2.SetBits(stm32f401.SPI_CR2_SSOE)
	r.I2SCFGR.ClearBits(stm32f401.SPI_I2SCFGR_I2SMOD)
	r.CR2.ClearBits(stm32f401.SPI_CR2_FRF)
	return nil
}

// SCK returns the serial clock rate for the given clock tree.
func (s *SPI) SCK(f clock.Frequencies) uint32 {
	pclk := f.PCLK1
	if s.regs.APB2 {
		pclk = f.PCLK2
	}
	return pclk / s.cfg.BaudDiv.Divisor()
}

// Transfer exchanges one byte.
func (s *SPI) Transfer(b byte) (byte, error) {
	r := s.regs
	limit := s.cfg.PollLimit
	r.CR1.SetBits(stm32f401.SPI_CR1_SPE)

	drained := mmio.Poll(limit, func() bool {
		if !r.SR.HasBits(stm32f401.SPI_SR_RXNE) {
			return true
		}
		_ = r.DR.Get()
		return false
	})
	if !drained {
		return 0, s.abort("spi.drain")
	}

	r.DR.Set(uint32(b))

	if !mmio.WaitClear(r.SR, stm32f401.SPI_SR_BSY, limit) {
		return 0, s.abort("spi.busy")
	}
	if !mmio.WaitSet(r.SR, stm32f401.SPI_SR_TXE, limit) {
		return 0, s.abort("spi.txe")
	}
	if !mmio.WaitSet(r.SR, stm32f401.SPI_SR_RXNE, limit) {
		return 0, s.abort("spi.rxne")
	}
	v := byte(r.DR.Get())

	r.CR1.ClearBits(stm32f401.SPI_CR1_SPE)
	return v, nil
}

// abort leaves the controller disabled and reports the wait that failed.
func (s *SPI) abort(op string) error {
	s.regs.CR1.ClearBits(stm32f401.SPI_CR1_SPE)
	return errcode.New(errcode.SPITransferTimeout, op, "")
}

// Tx exchanges w and r byte by byte. A nil w sends zeros; a nil r discards
// what is received. When both are given they must be the same length.
func (s *SPI) Tx(w, r []byte) error {
	n := len(w)
	switch {
	case w == nil:
		n = len(r)
	case r != nil && len(r) != len(w):
		return errcode.New(errcode.InvalidParams, "spi.tx", "buffer lengths differ")
	}
	for i := 0; i < n; i++ {
		var out byte
		if w != nil {
			out = w[i]
		}
		in, err := s.Transfer(out)
		if err != nil {
			return err
		}
		if r != nil {
			r[i] = in
		}
	}
	return nil
}
