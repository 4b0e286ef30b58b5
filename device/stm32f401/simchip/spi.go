package simchip

import "nucleo-f401/device/stm32f401"

type spiModel struct {
	peer      func(tx uint16) uint16
	busyPolls int
	stuck     uint32

	busy int
	rx   uint16
	rxne bool
	ovr  bool
	sent []uint16
}

func newSPIModel(cfg SPIConfig) *spiModel {
	m := &spiModel{
		peer:      cfg.Peer,
		busyPolls: cfg.BusyPolls,
		stuck:     cfg.Stuck,
		rx:        cfg.StaleRX,
		rxne:      cfg.Stale,
	}
	if cfg.OpenLine {
		seed := uint16(0xACE1)
		m.peer = func(uint16) uint16 {
			// 16-bit Galois LFSR.
			lsb := seed & 1
			seed >>= 1
			if lsb != 0 {
				seed ^= 0xB400
			}
			return seed
		}
	}
	return m
}

func spiBase(inst uint8) uintptr {
	switch inst {
	case 1:
		return stm32f401.SPI1Base
	case 2:
		return stm32f401.SPI2Base
	case 3:
		return stm32f401.SPI3Base
	default:
		return stm32f401.SPI4Base
	}
}

func (c *Chip) wireSPI(inst uint8) {
	s := c.spi[inst]
	base := spiBase(inst)
	cr1, sr, dr := base+0x00, base+0x08, base+0x0C

	c.OnWrite(dr, func(old, v uint32) uint32 {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.Peek(cr1)&stm32f401.SPI_CR1_SPE == 0 {
			return old
		}
		tx := uint16(v)
		if c.Peek(cr1)&stm32f401.SPI_CR1_DFF == 0 {
			tx &= 0xFF
		}
		s.sent = append(s.sent, tx)
		rx := tx
		if s.peer != nil {
			rx = s.peer(tx)
		}
		if c.Peek(cr1)&stm32f401.SPI_CR1_DFF == 0 {
			rx &= 0xFF
		}
		if s.rxne {
			s.ovr = true
		}
		s.rx, s.rxne = rx, true
		s.busy = s.busyPolls
		return uint32(tx)
	})
	c.OnRead(dr, func(uint32) uint32 {
		c.mu.Lock()
		defer c.mu.Unlock()
		s.rxne, s.ovr = false, false
		return uint32(s.rx)
	})
	c.OnRead(sr, func(v uint32) uint32 {
		c.mu.Lock()
		defer c.mu.Unlock()
		v &^= stm32f401.SPI_SR_RXNE | stm32f401.SPI_SR_TXE | stm32f401.SPI_SR_BSY | stm32f401.SPI_SR_OVR
		if s.stuck&stm32f401.SPI_SR_TXE == 0 {
			v |= stm32f401.SPI_SR_TXE
		}
		if s.rxne && s.stuck&stm32f401.SPI_SR_RXNE == 0 {
			v |= stm32f401.SPI_SR_RXNE
		}
		if s.ovr {
			v |= stm32f401.SPI_SR_OVR
		}
		switch {
		case s.stuck&stm32f401.SPI_SR_BSY != 0:
			v |= stm32f401.SPI_SR_BSY
		case s.busy > 0:
			s.busy--
			v |= stm32f401.SPI_SR_BSY
		}
		return v
	})
}

// SPISent returns the frames controller inst has shifted out.
func (c *Chip) SPISent(inst uint8) []uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]uint16(nil), c.spi[inst].sent...)
}
