// Package clock brings the STM32F401 clock tree from reset to the configured
// PLL operating point and starts the SysTick timer.
//
// The sequence is fixed: priority setup, flash latency and voltage scaling
// before the oscillator, PLL programming before PLL enable, and the system
// clock switch only after lock. Each hardware wait is bounded by
// Config.PollLimit and fails with its own errcode.
package clock

import (
	"nucleo-f401/device/stm32f401"
	"nucleo-f401/drivers/nvic"
	"nucleo-f401/errcode"
	"nucleo-f401/mmio"
)

// Bringup runs the clock sequence on p and returns the resulting tree.
func Bringup(p *stm32f401.Peripherals, cfg Config) (Frequencies, error) {
	if err := cfg.Validate(); err != nil {
		return Frequencies{}, err
	}
	nv := nvic.New(p)
	if err := initPriorities(nv); err != nil {
		return Frequencies{}, err
	}
	// PWR ignores writes until its interface clock runs.
	p.RCC.SYSCFGGate().Enable()
	p.RCC.PWRGate().Enable()

	if err := startHSI(p, cfg); err != nil {
		return Frequencies{}, err
	}
	if err := startPLL(p, cfg); err != nil {
		return Frequencies{}, err
	}
	if err := switchToPLL(p, cfg); err != nil {
		return Frequencies{}, err
	}
	startSysTick(p.SysTick, cfg.Reload())

	stm32f401.RCC_DCKCFGR_TIMPRE.Write(p.RCC.DCKCFGR, cfg.TimPre)
	if err := nv.SetPriority(nvic.SysTick, nvic.EncodePriority(nv.PriorityGrouping(), 0, 0)); err != nil {
		return Frequencies{}, err
	}
	return cfg.Frequencies(), nil
}

// initPriorities selects the start-up grouping and gives every configurable
// exception priority 0.
func initPriorities(nv *nvic.Controller) error {
	nv.SetPriorityGrouping(nvic.Group0)
	for _, e := range nvic.Exceptions {
		if err := nv.SetPriority(e, nvic.EncodePriority(nv.PriorityGrouping(), 0, 0)); err != nil {
			return err
		}
	}
	return nil
}

func startHSI(p *stm32f401.Peripherals, cfg Config) error {
	stm32f401.FLASH_ACR_LATENCY.Write(p.FLASH.ACR, cfg.Latency)
	stm32f401.PWR_CR_VOS.Write(p.PWR.CR, cfg.VoltageScale)
	stm32f401.RCC_CR_HSITRIM.Write(p.RCC.CR, cfg.HSITrim)
	p.RCC.CR.SetBits(stm32f401.RCC_CR_HSION)
	if !mmio.WaitSet(p.RCC.CR, stm32f401.RCC_CR_HSIRDY, cfg.PollLimit) {
		return errcode.New(errcode.OscillatorStartTimeout, "clock.hsi", "HSIRDY never set")
	}
	return nil
}

func startPLL(p *stm32f401.Peripherals, cfg Config) error {
	pllp, _ := stm32f401.PLLPFor(cfg.PLLP)
	p.RCC.PLLCFGR.Modify(func(v uint32) uint32 {
		v = stm32f401.RCC_PLLCFGR_PLLSRC.Insert(v, cfg.PLLSource)
		v = stm32f401.RCC_PLLCFGR_PLLM.Insert(v, cfg.PLLM)
		v = stm32f401.RCC_PLLCFGR_PLLN.Insert(v, cfg.PLLN)
		return stm32f401.RCC_PLLCFGR_PLLP.Insert(v, pllp)
	})
	p.RCC.CR.SetBits(stm32f401.RCC_CR_PLLON)
	if !mmio.WaitSet(p.RCC.CR, stm32f401.RCC_CR_PLLRDY, cfg.PollLimit) {
		return errcode.New(errcode.PLLLockTimeout, "clock.pll", "PLLRDY never set")
	}
	return nil
}

func switchToPLL(p *stm32f401.Peripherals, cfg Config) error {
	cfgr := p.RCC.CFGR
	stm32f401.RCC_CFGR_HPRE.Write(cfgr, cfg.AHB)
	stm32f401.RCC_CFGR_PPRE1.Write(cfgr, cfg.APB1)
	stm32f401.RCC_CFGR_PPRE2.Write(cfgr, cfg.APB2)
	stm32f401.RCC_CFGR_SW.Write(cfgr, stm32f401.SysClkPLL)
	ok := mmio.Poll(cfg.PollLimit, func() bool {
		return stm32f401.RCC_CFGR_SWS.Read(cfgr) == stm32f401.SysClkPLL
	})
	if !ok {
		return errcode.New(errcode.ClockSwitchTimeout, "clock.switch", "SWS never reported PLL")
	}
	return nil
}

// startSysTick programs the reload, clears the counter and runs it from the
// processor clock.
func startSysTick(st *stm32f401.SysTick, reload uint32) {
	stm32f401.SYST_RVR_RELOAD.Write(st.RVR, reload)
	st.CVR.Set(0)
	st.CSR.SetBits(stm32f401.SYST_CSR_CLKSOURCE)
	st.CSR.SetBits(stm32f401.SYST_CSR_ENABLE)
}
