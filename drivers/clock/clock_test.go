package clock

import (
	"errors"
	"testing"

	"nucleo-f401/device/stm32f401"
	"nucleo-f401/device/stm32f401/simchip"
	"nucleo-f401/errcode"
	"nucleo-f401/mmio/sim"
)

const (
	addrACR     = stm32f401.FLASHBase + 0x00
	addrPWRCR   = stm32f401.PWRBase + 0x00
	addrCR      = stm32f401.RCCBase + 0x00
	addrPLLCFGR = stm32f401.RCCBase + 0x04
	addrCFGR    = stm32f401.RCCBase + 0x08
	addrDCKCFGR = stm32f401.RCCBase + 0x8C
	addrRVR     = stm32f401.SysTickBase + 0x4
	addrCVR     = stm32f401.SysTickBase + 0x8
	addrCSR     = stm32f401.SysTickBase + 0x0
)

// find returns the index of the first journal entry at or after from that
// matches, or -1.
func find(j []sim.Access, from int, match func(sim.Access) bool) int {
	for i := from; i < len(j); i++ {
		if match(j[i]) {
			return i
		}
	}
	return -1
}

func write(addr uintptr) func(sim.Access) bool {
	return func(a sim.Access) bool { return a.Op == sim.Write && a.Addr == addr }
}

func readWith(addr uintptr, mask, want uint32) func(sim.Access) bool {
	return func(a sim.Access) bool { return a.Op == sim.Read && a.Addr == addr && a.Value&mask == want }
}

func TestBringupOrder(t *testing.T) {
	chip := simchip.New(simchip.Config{HSIReadyAfter: 5, PLLLockAfter: 4, SwitchAfter: 3})
	if _, err := Bringup(chip.Peripherals(), DefaultConfig()); err != nil {
		t.Fatalf("Bringup: %v", err)
	}
	j := chip.Journal()

	latency := find(j, 0, write(addrACR))
	vos := find(j, 0, write(addrPWRCR))
	hsiOn := find(j, vos, func(a sim.Access) bool {
		return a.Op == sim.Write && a.Addr == addrCR && a.Value&stm32f401.RCC_CR_HSION != 0
	})
	hsiRdy := find(j, 0, readWith(addrCR, stm32f401.RCC_CR_HSIRDY, stm32f401.RCC_CR_HSIRDY))
	pllCfg := find(j, 0, write(addrPLLCFGR))
	pllOn := find(j, 0, func(a sim.Access) bool {
		return a.Op == sim.Write && a.Addr == addrCR && a.Value&stm32f401.RCC_CR_PLLON != 0
	})
	pllRdy := find(j, 0, readWith(addrCR, stm32f401.RCC_CR_PLLRDY, stm32f401.RCC_CR_PLLRDY))
	prescale := find(j, 0, write(addrCFGR))
	swsPLL := find(j, 0, readWith(addrCFGR, stm32f401.RCC_CFGR_SWS.Mask(), 2<<2))
	reload := find(j, 0, write(addrRVR))

	steps := []struct {
		name string
		at   int
	}{
		{"flash latency", latency},
		{"voltage scale", vos},
		{"HSI enable", hsiOn},
		{"HSI ready observed", hsiRdy},
		{"PLL configure", pllCfg},
		{"PLL enable", pllOn},
		{"PLL lock observed", pllRdy},
		{"prescalers", prescale},
		{"switch observed", swsPLL},
		{"tick timer", reload},
	}
	for i, s := range steps {
		if s.at < 0 {
			t.Fatalf("%s never happened", s.name)
		}
		if i > 0 && s.at <= steps[i-1].at {
			t.Fatalf("%s (%d) not after %s (%d)", s.name, s.at, steps[i-1].name, steps[i-1].at)
		}
	}

	// The switch is written once, after the prescalers and before the wait ends.
	cfgrWrites := chip.Writes(addrCFGR)
	if len(cfgrWrites) != 4 {
		t.Fatalf("CFGR writes = %#x", cfgrWrites)
	}
	if stm32f401.RCC_CFGR_SW.Extract(cfgrWrites[2]) != stm32f401.SysClkHSI ||
		stm32f401.RCC_CFGR_SW.Extract(cfgrWrites[3]) != stm32f401.SysClkPLL {
		t.Fatalf("SW written out of order: %#x", cfgrWrites)
	}
}

func TestBringupFinalState(t *testing.T) {
	chip := simchip.New(simchip.Config{})
	p := chip.Peripherals()
	f, err := Bringup(p, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]struct {
		addr uintptr
		val  uint32
	}{
		"FLASH_ACR":   {addrACR, 2},
		"PWR_CR":      {addrPWRCR, 0b10 << 14},
		"RCC_PLLCFGR": {addrPLLCFGR, 0x2401_5410},
		"RCC_CFGR":    {addrCFGR, 0x0000_1002},
		"RCC_DCKCFGR": {addrDCKCFGR, 0},
		"SYST_RVR":    {addrRVR, 83999},
		"SYST_CVR":    {addrCVR, 0},
		"SYST_CSR":    {addrCSR, 0b101},
	}
	for name, w := range want {
		if got := chip.Peek(w.addr); got != w.val {
			t.Errorf("%s = %#08x, want %#08x", name, got, w.val)
		}
	}
	if got := p.RCC.CFGR.Get(); stm32f401.RCC_CFGR_SWS.Extract(got) != stm32f401.SysClkPLL {
		t.Errorf("SWS = %d", stm32f401.RCC_CFGR_SWS.Extract(got))
	}
	cr := p.RCC.CR.Get()
	if cr&(stm32f401.RCC_CR_HSION|stm32f401.RCC_CR_PLLON) == 0 || stm32f401.RCC_CR_HSITRIM.Extract(cr) != 16 {
		t.Errorf("RCC_CR = %#08x", cr)
	}
	if !p.RCC.PWRGate().Enabled() || !p.RCC.SYSCFGGate().Enabled() {
		t.Errorf("PWR/SYSCFG clocks not enabled")
	}
	if stm32f401.SCB_AIRCR_PRIGROUP.Read(p.SCB.AIRCR) != 7 {
		t.Errorf("PRIGROUP not set")
	}
	if len(chip.Writes(stm32f401.SCBBase+0x23)) != 2 {
		t.Errorf("SysTick priority should be written in steps 1 and 6")
	}
	if f.HCLK != 84_000_000 || f.PCLK1 != 42_000_000 {
		t.Errorf("frequencies = %+v", f)
	}
}

func TestBringupTimeouts(t *testing.T) {
	cases := []struct {
		name string
		chip simchip.Config
		code errcode.Code
		op   string
		// register that must never be written after the failure point
		never uintptr
	}{
		{"hsi", simchip.Config{HSIReadyAfter: simchip.Stuck}, errcode.OscillatorStartTimeout, "clock.hsi", addrPLLCFGR},
		{"pll", simchip.Config{PLLLockAfter: simchip.Stuck}, errcode.PLLLockTimeout, "clock.pll", addrCFGR},
		{"switch", simchip.Config{SwitchAfter: simchip.Stuck}, errcode.ClockSwitchTimeout, "clock.switch", addrRVR},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			chip := simchip.New(c.chip)
			cfg := DefaultConfig()
			cfg.PollLimit = 50
			_, err := Bringup(chip.Peripherals(), cfg)
			if errcode.Of(err) != c.code {
				t.Fatalf("err = %v, want %s", err, c.code)
			}
			if e, ok := err.(*errcode.E); !ok || e.Op != c.op {
				t.Fatalf("err = %#v, want op %s", err, c.op)
			}
			if !errcode.IsTimeout(err) {
				t.Fatalf("IsTimeout(%v) = false", err)
			}
			if w := chip.Writes(c.never); len(w) != 0 {
				t.Fatalf("%#x written after failure: %#x", c.never, w)
			}
		})
	}
}

func TestBringupRejectsBadConfig(t *testing.T) {
	chip := simchip.New(simchip.Config{})
	cfg := DefaultConfig()
	cfg.PLLN = 500
	if _, err := Bringup(chip.Peripherals(), cfg); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("err = %v", err)
	}
	if len(chip.Journal()) != 0 {
		t.Fatalf("registers touched before validation")
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
	cases := []struct {
		name string
		mod  func(*Config)
	}{
		{"trim", func(c *Config) { c.HSITrim = 32 }},
		{"m low", func(c *Config) { c.PLLM = 1 }},
		{"m high", func(c *Config) { c.PLLM = 64 }},
		{"n low", func(c *Config) { c.PLLN = 100 }},
		{"p odd", func(c *Config) { c.PLLP = 3 }},
		{"vco in", func(c *Config) { c.PLLM = 4 }},
		{"vco out", func(c *Config) { c.PLLM = 8; c.PLLN = 432 }},
		{"sysclk", func(c *Config) { c.PLLP = 2; c.HCLKHz = 168_000_000 }},
		{"hclk mismatch", func(c *Config) { c.HCLKHz = 80_000_000 }},
		{"apb1", func(c *Config) { c.APB1 = stm32f401.APBDiv1 }},
		{"tick zero", func(c *Config) { c.TickHz = 0 }},
		{"tick too slow", func(c *Config) { c.TickHz = 1 }},
		{"latency", func(c *Config) { c.Latency = stm32f401.Latency1WS }},
		{"scale3", func(c *Config) { c.VoltageScale = stm32f401.VoltageScale3 }},
		{"scale reserved", func(c *Config) { c.VoltageScale = 0 }},
		{"poll limit", func(c *Config) { c.PollLimit = 0 }},
	}
	for _, c := range cases {
		cfg := DefaultConfig()
		c.mod(&cfg)
		if err := cfg.Validate(); errcode.Of(err) != errcode.InvalidParams {
			t.Errorf("%s: err = %v", c.name, err)
		}
	}
}

func TestValidateHSEUnsupported(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PLLSource = stm32f401.PLLSourceHSE
	err := cfg.Validate()
	if errcode.Of(err) != errcode.Unsupported {
		t.Fatalf("err = %v", err)
	}
	var e *errcode.E
	if !errors.As(err, &e) || e.Op != "clock.validate" {
		t.Fatalf("op = %v", err)
	}
}

func TestFrequencies(t *testing.T) {
	f := DefaultConfig().Frequencies()
	want := Frequencies{SYSCLK: 84_000_000, HCLK: 84_000_000, PCLK1: 42_000_000, PCLK2: 84_000_000,
		TimAPB1: 84_000_000, TimAPB2: 84_000_000}
	if f != want {
		t.Fatalf("got %+v, want %+v", f, want)
	}
	cfg := DefaultConfig()
	cfg.AHB = stm32f401.AHBDiv2
	cfg.APB1 = stm32f401.APBDiv8
	cfg.TimPre = stm32f401.TimPreFourTimes
	f = cfg.Frequencies()
	if f.HCLK != 42_000_000 || f.PCLK1 != 5_250_000 || f.TimAPB1 != 21_000_000 || f.TimAPB2 != 42_000_000 {
		t.Fatalf("divided tree = %+v", f)
	}
	if DefaultConfig().Reload() != 83999 {
		t.Fatalf("reload = %d", DefaultConfig().Reload())
	}
}
