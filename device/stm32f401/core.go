package stm32f401

import "nucleo-f401/mmio"

// SCB offsets from SCBBase.
const (
	scbCPUID = 0x00 // R
	scbICSR  = 0x04
	scbVTOR  = 0x08
	scbAIRCR = 0x0C
	scbSCR   = 0x10
	scbCCR   = 0x14
	scbSHPR  = 0x18 // 12 byte-wide slots, SHPR1..SHPR3
	scbSHCSR = 0x24
	scbCFSR  = 0x28
	scbHFSR  = 0x2C
)

// NumSHPR is the number of system handler priority slots. Slot i holds the
// priority of exception number i+4.
const NumSHPR = 12

// SCB is the Cortex-M4 system control block.
type SCB struct {
	CPUID mmio.RO32
	ICSR  mmio.Reg32
	VTOR  mmio.Reg32
	AIRCR mmio.Reg32
	SCR   mmio.Reg32
	CCR   mmio.Reg32
	SHPR  [NumSHPR]mmio.Reg8
	SHCSR mmio.Reg32
	CFSR  mmio.Reg32
	HFSR  mmio.Reg32
}

func newSCB(bus mmio.Bus, base uintptr) *SCB {
	r := func(off uintptr) mmio.Reg32 { return mmio.R32(bus, base+off) }
	s := &SCB{
		CPUID: mmio.RO(bus, base+scbCPUID),
		ICSR:  r(scbICSR),
		VTOR:  r(scbVTOR),
		AIRCR: r(scbAIRCR),
		SCR:   r(scbSCR),
		CCR:   r(scbCCR),
		SHCSR: r(scbSHCSR),
		CFSR:  r(scbCFSR),
		HFSR:  r(scbHFSR),
	}
	for i := range s.SHPR {
		s.SHPR[i] = mmio.R8(bus, base+scbSHPR+uintptr(i))
	}
	return s
}

// AIRCR writes are ignored unless VECTKEY carries the write key; reads
// return the inverted key.
const (
	AIRCR_VECTKEY     = 0x05FA
	AIRCR_VECTKEYSTAT = 0xFA05

	SCB_AIRCR_VECTRESET     = 1 << 0
	SCB_AIRCR_VECTCLRACTIVE = 1 << 1
	SCB_AIRCR_SYSRESETREQ   = 1 << 2
	SCB_AIRCR_ENDIANNESS    = 1 << 15
)

var (
	SCB_AIRCR_PRIGROUP = mmio.F[uint8](8, 3)
	SCB_AIRCR_VECTKEY  = mmio.F[uint16](16, 16)
)

// NVIC offsets from NVICBase.
const (
	nvicISER = 0x000
	nvicICER = 0x080
	nvicISPR = 0x100
	nvicICPR = 0x180
	nvicIABR = 0x200 // R
	nvicIPR  = 0x300 // byte-wide, one per interrupt
)

// nvicWords covers NumIRQ lines, 32 per word.
const nvicWords = (NumIRQ + 31) / 32

// NVIC is the nested vectored interrupt controller, sized for this part.
type NVIC struct {
	ISER [nvicWords]mmio.Reg32
	ICER [nvicWords]mmio.Reg32
	ISPR [nvicWords]mmio.Reg32
	ICPR [nvicWords]mmio.Reg32
	IABR [nvicWords]mmio.RO32
	IPR  [NumIRQ]mmio.Reg8
}

func newNVIC(bus mmio.Bus, base uintptr) *NVIC {
	n := &NVIC{}
	for i := 0; i < nvicWords; i++ {
		off := uintptr(i) * 4
		n.ISER[i] = mmio.R32(bus, base+nvicISER+off)
		n.ICER[i] = mmio.R32(bus, base+nvicICER+off)
		n.ISPR[i] = mmio.R32(bus, base+nvicISPR+off)
		n.ICPR[i] = mmio.R32(bus, base+nvicICPR+off)
		n.IABR[i] = mmio.RO(bus, base+nvicIABR+off)
	}
	for i := range n.IPR {
		n.IPR[i] = mmio.R8(bus, base+nvicIPR+uintptr(i))
	}
	return n
}

// SysTick offsets from SysTickBase.
const (
	systCSR   = 0x0
	systRVR   = 0x4
	systCVR   = 0x8
	systCALIB = 0xC // R
)

// SysTick is the core 24-bit down counter.
type SysTick struct {
	CSR   mmio.Reg32
	RVR   mmio.Reg32
	CVR   mmio.Reg32
	CALIB mmio.RO32
}

func newSysTick(bus mmio.Bus, base uintptr) *SysTick {
	return &SysTick{
		CSR:   mmio.R32(bus, base+systCSR),
		RVR:   mmio.R32(bus, base+systRVR),
		CVR:   mmio.R32(bus, base+systCVR),
		CALIB: mmio.RO(bus, base+systCALIB),
	}
}

// SYST_CSR
const (
	SYST_CSR_ENABLE    = 1 << 0
	SYST_CSR_TICKINT   = 1 << 1
	SYST_CSR_CLKSOURCE = 1 << 2 // processor clock when set, HCLK/8 when clear
	SYST_CSR_COUNTFLAG = 1 << 16
)

var SYST_RVR_RELOAD = mmio.F[uint32](0, 24)

// SysTickMaxReload is the largest value RVR accepts.
const SysTickMaxReload = 1<<24 - 1
