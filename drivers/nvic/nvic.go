// Package nvic encodes and programs Cortex-M interrupt priorities.
//
// Interrupt numbers follow the CMSIS convention: negative values are core
// exceptions whose priorities live in the SCB handler table, non-negative
// values index the NVIC priority bytes.
package nvic

import (
	"nucleo-f401/device/stm32f401"
	"nucleo-f401/errcode"
)

// PriorityBits is the number of priority bits the part implements. They are
// the top bits of each priority byte.
const PriorityBits = 4

// Core exception numbers.
const (
	MemoryManagement = -12
	BusFault         = -11
	UsageFault       = -10
	SVCall           = -5
	DebugMonitor     = -4
	PendSV           = -2
	SysTick          = -1
)

// Exceptions are the configurable-priority core exceptions.
var Exceptions = [...]int{MemoryManagement, BusFault, UsageFault, SVCall, DebugMonitor, PendSV, SysTick}

// Group0 is the PRIGROUP value written at start-up.
const Group0 = 7

// Controller programs priorities through the SCB and NVIC maps.
type Controller struct {
	scb  *stm32f401.SCB
	nvic *stm32f401.NVIC
}

func New(p *stm32f401.Peripherals) *Controller {
	return &Controller{scb: p.SCB, nvic: p.NVIC}
}

// PriorityGrouping returns AIRCR.PRIGROUP.
func (c *Controller) PriorityGrouping() uint8 {
	return stm32f401.SCB_AIRCR_PRIGROUP.Read(c.scb.AIRCR)
}

// SetPriorityGrouping writes AIRCR.PRIGROUP with the write key; the rest of
// the register is preserved apart from the key half.
func (c *Controller) SetPriorityGrouping(group uint8) {
	c.scb.AIRCR.Modify(func(v uint32) uint32 {
		v = stm32f401.SCB_AIRCR_VECTKEY.Insert(v, stm32f401.AIRCR_VECTKEY)
		return stm32f401.SCB_AIRCR_PRIGROUP.Insert(v, group&7)
	})
}

// EncodePriority packs a preempt and sub priority for group. Bits beyond
// each part's width are dropped.
func EncodePriority(group uint8, preempt, sub uint32) uint32 {
	g := uint32(group & 7)
	var ppb, spb uint32
	if 7-g > PriorityBits {
		ppb = PriorityBits
	} else {
		ppb = g + PriorityBits
	}
	if g+PriorityBits < 7 {
		spb = 0
	} else {
		spb = g - 7 + PriorityBits
	}
	return (preempt&(1<<ppb-1))<<spb | sub&(1<<spb-1)
}

// SetPriority stores an encoded priority for irq. irq is either one of the
// configurable exceptions or a peripheral interrupt below stm32f401.NumIRQ.
func (c *Controller) SetPriority(irq int, priority uint32) error {
	b := uint8(priority << (8 - PriorityBits))
	if irq < 0 {
		i, err := shprIndex(irq)
		if err != nil {
			return err
		}
		c.scb.SHPR[i].Set(b)
		return nil
	}
	if irq >= stm32f401.NumIRQ {
		return errcode.New(errcode.InvalidIRQ, "nvic.set_priority", "irq out of range")
	}
	c.nvic.IPR[irq].Set(b)
	return nil
}

// Priority returns the priority stored for irq, shifted back down.
func (c *Controller) Priority(irq int) (uint32, error) {
	if irq < 0 {
		i, err := shprIndex(irq)
		if err != nil {
			return 0, err
		}
		return uint32(c.scb.SHPR[i].Get()) >> (8 - PriorityBits), nil
	}
	if irq >= stm32f401.NumIRQ {
		return 0, errcode.New(errcode.InvalidIRQ, "nvic.priority", "irq out of range")
	}
	return uint32(c.nvic.IPR[irq].Get()) >> (8 - PriorityBits), nil
}

// Enable and Disable gate a peripheral interrupt line.
func (c *Controller) Enable(irq int) error {
	if irq < 0 || irq >= stm32f401.NumIRQ {
		return errcode.New(errcode.InvalidIRQ, "nvic.enable", "")
	}
	c.nvic.ISER[irq/32].Set(1 << (irq % 32))
	return nil
}

func (c *Controller) Disable(irq int) error {
	if irq < 0 || irq >= stm32f401.NumIRQ {
		return errcode.New(errcode.InvalidIRQ, "nvic.disable", "")
	}
	c.nvic.ICER[irq/32].Set(1 << (irq % 32))
	return nil
}

// shprIndex maps an exception number to its SHPR slot. Exceptions with a
// fixed priority (reset, NMI, HardFault) and reserved numbers are rejected.
func shprIndex(irq int) (int, error) {
	for _, e := range Exceptions {
		if e == irq {
			return int(uint32(irq)&0xF) - 4, nil
		}
	}
	return 0, errcode.New(errcode.InvalidIRQ, "nvic.exception", "no configurable priority")
}
