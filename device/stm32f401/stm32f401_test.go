package stm32f401

import (
	"testing"

	"nucleo-f401/errcode"
	"nucleo-f401/mmio"
	"nucleo-f401/mmio/sim"
)

func TestRCCLayout(t *testing.T) {
	r := newRCC(sim.New(), RCCBase)
	cases := []struct {
		name string
		reg  mmio.Reg32
		off  uintptr
	}{
		{"CR", r.CR, 0x00},
		{"PLLCFGR", r.PLLCFGR, 0x04},
		{"CFGR", r.CFGR, 0x08},
		{"CIR", r.CIR, 0x0C},
		{"AHB1RSTR", r.AHB1RSTR, 0x10},
		{"AHB2RSTR", r.AHB2RSTR, 0x14},
		{"APB1RSTR", r.APB1RSTR, 0x20},
		{"APB2RSTR", r.APB2RSTR, 0x24},
		{"AHB1ENR", r.AHB1ENR, 0x30},
		{"AHB2ENR", r.AHB2ENR, 0x34},
		{"APB1ENR", r.APB1ENR, 0x40},
		{"APB2ENR", r.APB2ENR, 0x44},
		{"AHB1LPENR", r.AHB1LPENR, 0x50},
		{"AHB2LPENR", r.AHB2LPENR, 0x54},
		{"APB1LPENR", r.APB1LPENR, 0x60},
		{"APB2LPENR", r.APB2LPENR, 0x64},
		{"BDCR", r.BDCR, 0x70},
		{"CSR", r.CSR, 0x74},
		{"SSCGR", r.SSCGR, 0x80},
		{"PLLI2SCFGR", r.PLLI2SCFGR, 0x84},
		{"DCKCFGR", r.DCKCFGR, 0x8C},
	}
	for _, c := range cases {
		if got := c.reg.Addr(); got != RCCBase+c.off {
			t.Errorf("RCC.%s at %#x, want %#x", c.name, got, RCCBase+c.off)
		}
	}
}

func TestGPIOLayout(t *testing.T) {
	p := New(sim.New())
	wantBase := map[Port]uintptr{
		PortA: 0x4002_0000, PortB: 0x4002_0400, PortC: 0x4002_0800,
		PortD: 0x4002_0C00, PortE: 0x4002_1000, PortH: 0x4002_1C00,
	}
	for _, port := range Ports {
		g := p.GPIO(port)
		if g == nil || g.Port != port {
			t.Fatalf("GPIO(%s) missing", port)
		}
		b := wantBase[port]
		got := []uintptr{g.MODER.Addr(), g.OTYPER.Addr(), g.OSPEEDR.Addr(), g.PUPDR.Addr(),
			g.IDR.Addr(), g.ODR.Addr(), g.BSRR.Addr(), g.LCKR.Addr(), g.AFR[0].Addr(), g.AFR[1].Addr()}
		for i, a := range got {
			if a != b+uintptr(i)*4 {
				t.Errorf("GPIO%s register %d at %#x, want %#x", port, i, a, b+uintptr(i)*4)
			}
		}
	}
	if p.GPIO(Port(5)) != nil || Port(5).Valid() || Port(6).Valid() {
		t.Fatalf("banks F and G must not exist")
	}
}

func TestSPILayout(t *testing.T) {
	p := New(sim.New())
	bases := map[uint8]uintptr{1: 0x4001_3000, 2: 0x4000_3800, 3: 0x4000_3C00, 4: 0x4001_3400}
	irqs := map[uint8]int{1: 35, 2: 36, 3: 51, 4: 84}
	for n, b := range bases {
		s := p.SPI(n)
		if s.Instance != n || s.IRQ != irqs[n] {
			t.Fatalf("SPI%d instance/irq = %d/%d", n, s.Instance, s.IRQ)
		}
		got := []uintptr{s.CR1.Addr(), s.CR2.Addr(), s.SR.Addr(), s.DR.Addr(), s.CRCPR.Addr(),
			s.RXCRCR.Addr(), s.TXCRCR.Addr(), s.I2SCFGR.Addr(), s.I2SPR.Addr()}
		for i, a := range got {
			if a != b+uintptr(i)*4 {
				t.Errorf("SPI%d register %d at %#x, want %#x", n, i, a, b+uintptr(i)*4)
			}
		}
	}
	if p.SPI3.Clock.Reg.Addr() != RCCBase+0x40 || p.SPI3.Clock.Mask != 1<<15 || p.SPI3.APB2 {
		t.Fatalf("SPI3 gate wrong")
	}
	if p.SPI1.Clock.Reg.Addr() != RCCBase+0x44 || p.SPI1.Clock.Mask != 1<<12 || !p.SPI1.APB2 {
		t.Fatalf("SPI1 gate wrong")
	}
}

func TestOtherLayouts(t *testing.T) {
	p := New(sim.New())
	cases := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"PWR.CR", p.PWR.CR.Addr(), 0x4000_7000},
		{"PWR.CSR", p.PWR.CSR.Addr(), 0x4000_7004},
		{"FLASH.ACR", p.FLASH.ACR.Addr(), 0x4002_3C00},
		{"FLASH.KEYR", p.FLASH.KEYR.Addr(), 0x4002_3C04},
		{"FLASH.OPTCR", p.FLASH.OPTCR.Addr(), 0x4002_3C14},
		{"EXTI.IMR", p.EXTI.IMR.Addr(), 0x4001_3C00},
		{"EXTI.PR", p.EXTI.PR.Addr(), 0x4001_3C14},
		{"SYSCFG.MEMRMP", p.SYSCFG.MEMRMP.Addr(), 0x4001_3800},
		{"SYSCFG.EXTICR1", p.SYSCFG.EXTICR[0].Addr(), 0x4001_3808},
		{"SYSCFG.EXTICR4", p.SYSCFG.EXTICR[3].Addr(), 0x4001_3814},
		{"SYSCFG.CMPCR", p.SYSCFG.CMPCR.Addr(), 0x4001_3820},
		{"SCB.AIRCR", p.SCB.AIRCR.Addr(), 0xE000_ED0C},
		{"SCB.SHPR[0]", p.SCB.SHPR[0].Addr(), 0xE000_ED18},
		{"SCB.SHPR[11]", p.SCB.SHPR[11].Addr(), 0xE000_ED23},
		{"NVIC.ISER[0]", p.NVIC.ISER[0].Addr(), 0xE000_E100},
		{"NVIC.ICER[2]", p.NVIC.ICER[2].Addr(), 0xE000_E188},
		{"NVIC.IPR[0]", p.NVIC.IPR[0].Addr(), 0xE000_E400},
		{"NVIC.IPR[84]", p.NVIC.IPR[84].Addr(), 0xE000_E454},
		{"SysTick.CSR", p.SysTick.CSR.Addr(), 0xE000_E010},
		{"SysTick.CALIB", p.SysTick.CALIB.Addr(), 0xE000_E01C},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s at %#x, want %#x", c.name, c.got, c.want)
		}
	}
}

func TestRCCFieldsDoNotOverlap(t *testing.T) {
	pll := []uint32{RCC_PLLCFGR_PLLM.Mask(), RCC_PLLCFGR_PLLN.Mask(), RCC_PLLCFGR_PLLP.Mask(),
		RCC_PLLCFGR_PLLSRC.Mask(), RCC_PLLCFGR_PLLQ.Mask()}
	cfgr := []uint32{RCC_CFGR_SW.Mask(), RCC_CFGR_SWS.Mask(), RCC_CFGR_HPRE.Mask(),
		RCC_CFGR_PPRE1.Mask(), RCC_CFGR_PPRE2.Mask()}
	cr := []uint32{RCC_CR_HSION, RCC_CR_HSIRDY, RCC_CR_HSITRIM.Mask(), RCC_CR_HSICAL.Mask(),
		RCC_CR_HSEON, RCC_CR_HSERDY, RCC_CR_HSEBYP, RCC_CR_CSSON, RCC_CR_PLLON, RCC_CR_PLLRDY,
		RCC_CR_PLLI2SON, RCC_CR_PLLI2SRDY}
	for name, masks := range map[string][]uint32{"PLLCFGR": pll, "CFGR": cfgr, "CR": cr} {
		var seen uint32
		for _, m := range masks {
			if seen&m != 0 {
				t.Errorf("%s: mask %#08x overlaps %#08x", name, m, seen)
			}
			seen |= m
		}
	}
}

func TestCatalogValues(t *testing.T) {
	if RCC_CR_HSITRIM.Value(16) != 0x80 {
		t.Errorf("HSITRIM=16 -> %#x", RCC_CR_HSITRIM.Value(16))
	}
	if RCC_PLLCFGR_PLLN.Value(336) != 336<<6 || RCC_PLLCFGR_PLLP.Value(PLLPDiv4) != 1<<16 {
		t.Errorf("PLL field values wrong")
	}
	if PWR_CR_VOS.Value(VoltageScale2) != 0b10<<14 {
		t.Errorf("VOS scale2 wrong")
	}
	if RCC_CFGR_PPRE1.Value(APBDiv2) != 0b100<<10 || RCC_CFGR_SW.Value(SysClkPLL) != 2 {
		t.Errorf("CFGR values wrong")
	}
	if SPI_CR1_BR.Value(BaudDiv32) != 0b100<<3 {
		t.Errorf("BR DIV32 wrong")
	}
	if idx, f := AltFuncField(7); idx != 0 || f.Shift != 28 {
		t.Errorf("pin 7 AF: idx %d shift %d", idx, f.Shift)
	}
	if idx, f := AltFuncField(8); idx != 1 || f.Shift != 0 {
		t.Errorf("pin 8 AF: idx %d shift %d", idx, f.Shift)
	}
	if idx, f := EXTICRField(13); idx != 3 || f.Shift != 4 {
		t.Errorf("EXTI13: idx %d shift %d", idx, f.Shift)
	}
}

func TestDivisors(t *testing.T) {
	ahb := map[AHBPrescaler]uint32{AHBDiv1: 1, AHBDiv2: 2, AHBDiv16: 16, AHBDiv64: 64, AHBDiv512: 512}
	for p, want := range ahb {
		if got := p.Divisor(); got != want {
			t.Errorf("AHB %04b: %d want %d", p, got, want)
		}
	}
	apb := map[APBPrescaler]uint32{APBDiv1: 1, APBDiv2: 2, APBDiv4: 4, APBDiv8: 8, APBDiv16: 16}
	for p, want := range apb {
		if got := p.Divisor(); got != want {
			t.Errorf("APB %03b: %d want %d", p, got, want)
		}
	}
	for _, div := range []uint32{2, 4, 6, 8} {
		p, ok := PLLPFor(div)
		if !ok || p.Divisor() != div {
			t.Errorf("PLLP %d round trip: %v %d", div, ok, p.Divisor())
		}
	}
	if _, ok := PLLPFor(3); ok {
		t.Errorf("PLLP 3 accepted")
	}
	if BaudDiv32.Divisor() != 32 || BaudDiv2.Divisor() != 2 {
		t.Errorf("BaudDiv divisors wrong")
	}
	if MinLatency(84_000_000) != Latency2WS || MinLatency(16_000_000) != Latency0WS {
		t.Errorf("MinLatency wrong")
	}
}

func TestClockGates(t *testing.T) {
	m := sim.New()
	p := New(m)
	p.RCC.EnableGPIO(PortA, PortC, PortH)
	if got := m.Peek(RCCBase + 0x30); got != RCC_AHB1ENR_GPIOAEN|RCC_AHB1ENR_GPIOCEN|RCC_AHB1ENR_GPIOHEN {
		t.Fatalf("AHB1ENR = %#08x", got)
	}
	g := p.RCC.GPIOGate(PortB)
	g.Enable()
	if !g.Enabled() || !p.RCC.GPIOGate(PortA).Enabled() {
		t.Fatalf("gate not enabled")
	}
	g.Disable()
	if g.Enabled() || !p.RCC.GPIOGate(PortC).Enabled() {
		t.Fatalf("disable touched the wrong bits")
	}
}

func TestTakeOnce(t *testing.T) {
	taken.Store(false)
	defer taken.Store(false)
	p, err := Take(sim.New())
	if err != nil || p == nil {
		t.Fatalf("first Take: %v", err)
	}
	if _, err := Take(sim.New()); errcode.Of(err) != errcode.PeripheralsTaken {
		t.Fatalf("second Take: got %v", err)
	}
}

func TestEXTIIRQ(t *testing.T) {
	want := map[uint8]int{0: 6, 4: 10, 5: 23, 9: 23, 10: 40, 15: 40}
	for line, irq := range want {
		if got := EXTIIRQ(line); got != irq {
			t.Errorf("EXTI line %d -> IRQ %d, want %d", line, got, irq)
		}
	}
}
