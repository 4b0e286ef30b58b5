// Package simchip models the parts of the STM32F401 that bring-up code waits
// on, on top of a sim.Memory: oscillator and PLL ready flags, the clock switch
// status, the AIRCR write key, GPIO set/reset and the SPI status/data pair.
//
// Registers not modelled here behave as plain memory.
package simchip

import (
	"sync"

	"nucleo-f401/device/stm32f401"
	"nucleo-f401/mmio/sim"
)

// Reset values of the registers the model seeds.
const (
	ResetRCCCR      = 0x0000_0083 // HSION, HSIRDY, HSITRIM=16
	ResetRCCPLLCFGR = 0x2400_3010
	ResetPWRCR      = 0x0000_8000 // VOS scale 2
	ResetCPUID      = 0x410F_C241
	ResetSPISR      = stm32f401.SPI_SR_TXE
	ResetSPII2SPR   = 0x0000_0002
	ResetGPIOAMODER = 0xA800_0000
	ResetGPIOBMODER = 0x0000_0280
	ResetGPIOAPUPDR = 0x6400_0000
	ResetGPIOBPUPDR = 0x0000_0100
	ResetGPIOAOSPD  = 0x0C00_0000
	ResetGPIOBOSPD  = 0x0000_00C0
)

// Stuck disables a readiness transition entirely.
const Stuck = -1

// Chip is a simulated STM32F401.
type Chip struct {
	*sim.Memory

	mu sync.Mutex

	hsiAfter, pllAfter, swsAfter int
	hsiPolls, pllPolls, swsPolls int
	sws                          uint32

	spi [5]*spiModel
}

// Config selects how the model reacts. The zero value is a healthy chip:
// every ready flag appears on the first poll and each SPI controller has a
// loopback wire from MOSI to MISO.
type Config struct {
	// HSIReadyAfter hides HSIRDY for the first n reads of RCC_CR after
	// HSION is set. Stuck keeps it hidden.
	HSIReadyAfter int
	// PLLLockAfter hides PLLRDY for the first n reads of RCC_CR after PLLON
	// is set. Stuck keeps it hidden.
	PLLLockAfter int
	// SwitchAfter delays RCC_CFGR.SWS following SW by n reads. Stuck leaves
	// SWS on the previous source.
	SwitchAfter int

	// SPI is keyed by controller instance 1..4.
	SPI map[uint8]SPIConfig
}

// SPIConfig describes the far end and the status behaviour of one controller.
type SPIConfig struct {
	// Peer receives each transmitted frame and returns the frame clocked
	// back in. Nil means loopback.
	Peer func(tx uint16) uint16
	// OpenLine leaves MISO floating; received frames are noise.
	OpenLine bool
	// BusyPolls keeps BSY set for n status reads after each frame.
	BusyPolls int
	// Stale leaves StaleRX pending in DR from before reset.
	Stale   bool
	StaleRX uint16
	// Stuck pins status flags: BSY stays set, TXE and RXNE stay clear.
	Stuck uint32
}

// New builds a chip in its reset state.
func New(cfg Config) *Chip {
	c := &Chip{
		Memory:   sim.New(),
		hsiAfter: cfg.HSIReadyAfter,
		pllAfter: cfg.PLLLockAfter,
		swsAfter: cfg.SwitchAfter,
	}
	for i := uint8(1); i <= 4; i++ {
		c.spi[i] = newSPIModel(cfg.SPI[i])
	}
	c.reset()
	c.wireRCC()
	c.wireSCB()
	c.wireSysTick()
	for _, p := range stm32f401.Ports {
		c.wireGPIO(p)
	}
	for i := uint8(1); i <= 4; i++ {
		c.wireSPI(i)
	}
	return c
}

func (c *Chip) reset() {
	// HSIRDY is derived from HSION by the read hook.
	c.Poke(stm32f401.RCCBase+0x00, ResetRCCCR&^stm32f401.RCC_CR_RDY)
	c.Poke(stm32f401.RCCBase+0x04, ResetRCCPLLCFGR)
	c.Poke(stm32f401.PWRBase+0x00, ResetPWRCR)
	c.Poke(stm32f401.SCBBase+0x00, ResetCPUID)
	c.Poke(stm32f401.PortA.Base()+0x00, ResetGPIOAMODER)
	c.Poke(stm32f401.PortA.Base()+0x08, ResetGPIOAOSPD)
	c.Poke(stm32f401.PortA.Base()+0x0C, ResetGPIOAPUPDR)
	c.Poke(stm32f401.PortB.Base()+0x00, ResetGPIOBMODER)
	c.Poke(stm32f401.PortB.Base()+0x08, ResetGPIOBOSPD)
	c.Poke(stm32f401.PortB.Base()+0x0C, ResetGPIOBPUPDR)
	for i := uint8(1); i <= 4; i++ {
		base := spiBase(i)
		c.Poke(base+0x08, ResetSPISR)
		c.Poke(base+0x20, ResetSPII2SPR)
	}
}

// Peripherals binds the register maps to the chip.
func (c *Chip) Peripherals() *stm32f401.Peripherals {
	return stm32f401.New(c)
}

func ready(after, polls int) bool {
	return after != Stuck && polls > after
}

func (c *Chip) wireRCC() {
	cr := uintptr(stm32f401.RCCBase + 0x00)
	c.OnWrite(cr, func(old, v uint32) uint32 {
		c.mu.Lock()
		if v&stm32f401.RCC_CR_HSION != 0 && old&stm32f401.RCC_CR_HSION == 0 {
			c.hsiPolls = 0
		}
		if v&stm32f401.RCC_CR_PLLON != 0 && old&stm32f401.RCC_CR_PLLON == 0 {
			c.pllPolls = 0
		}
		c.mu.Unlock()
		return v &^ stm32f401.RCC_CR_RDY
	})
	c.OnRead(cr, func(v uint32) uint32 {
		c.mu.Lock()
		defer c.mu.Unlock()
		if v&stm32f401.RCC_CR_HSION != 0 {
			c.hsiPolls++
			if ready(c.hsiAfter, c.hsiPolls) {
				v |= stm32f401.RCC_CR_HSIRDY
			}
		}
		if v&stm32f401.RCC_CR_PLLON != 0 {
			c.pllPolls++
			if ready(c.pllAfter, c.pllPolls) {
				v |= stm32f401.RCC_CR_PLLRDY
			}
		}
		return v
	})

	cfgr := uintptr(stm32f401.RCCBase + 0x08)
	swsMask := stm32f401.RCC_CFGR_SWS.Mask()
	c.OnWrite(cfgr, func(old, v uint32) uint32 {
		c.mu.Lock()
		if stm32f401.RCC_CFGR_SW.Extract(v) != stm32f401.RCC_CFGR_SW.Extract(old) {
			c.swsPolls = 0
		}
		c.mu.Unlock()
		return v &^ swsMask
	})
	c.OnRead(cfgr, func(v uint32) uint32 {
		c.mu.Lock()
		defer c.mu.Unlock()
		sw := uint32(stm32f401.RCC_CFGR_SW.Extract(v))
		if sw != c.sws {
			c.swsPolls++
			if ready(c.swsAfter, c.swsPolls) {
				c.sws = sw
			}
		}
		return v&^swsMask | c.sws<<stm32f401.RCC_CFGR_SWS.Shift
	})
}

func (c *Chip) wireSCB() {
	aircr := uintptr(stm32f401.SCBBase + 0x0C)
	c.OnWrite(aircr, func(old, v uint32) uint32 {
		if uint16(v>>16) != stm32f401.AIRCR_VECTKEY {
			return old
		}
		// Reset requests and VECTCLRACTIVE are self-clearing.
		return v & stm32f401.SCB_AIRCR_PRIGROUP.Mask()
	})
	c.OnRead(aircr, func(v uint32) uint32 {
		return v | stm32f401.AIRCR_VECTKEYSTAT<<16
	})
	c.OnRead(stm32f401.SCBBase, func(uint32) uint32 { return ResetCPUID })
}

func (c *Chip) wireSysTick() {
	// Any write to CVR clears it.
	c.OnWrite(stm32f401.SysTickBase+0x8, func(uint32, uint32) uint32 { return 0 })
}

func (c *Chip) wireGPIO(p stm32f401.Port) {
	base := p.Base()
	odr := base + 0x14
	c.OnWrite(base+0x18, func(_, v uint32) uint32 {
		o := c.Peek(odr)
		o |= v & 0xFFFF
		o &^= v >> 16 &^ (v & 0xFFFF)
		c.Poke(odr, o)
		return 0
	})
	c.OnRead(base+0x18, func(uint32) uint32 { return 0 })
	// Pins read back what they drive.
	c.OnRead(base+0x10, func(uint32) uint32 { return c.Peek(odr) & 0xFFFF })
}

// PinHigh reports whether the pin's output latch is high.
func (c *Chip) PinHigh(p stm32f401.Port, pin uint8) bool {
	return c.Peek(p.Base()+0x14)&(1<<pin) != 0
}
