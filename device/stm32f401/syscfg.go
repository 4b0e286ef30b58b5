package stm32f401

import "nucleo-f401/mmio"

const (
	syscfgMEMRMP  = 0x00
	syscfgPMC     = 0x04
	syscfgEXTICR1 = 0x08
	syscfgCMPCR   = 0x20 // RM0368; 0x18..0x1C are reserved
)

// SYSCFG is the system configuration controller.
type SYSCFG struct {
	MEMRMP mmio.Reg32
	PMC    mmio.Reg32
	EXTICR [4]mmio.Reg32
	CMPCR  mmio.Reg32
}

func newSYSCFG(bus mmio.Bus, base uintptr) *SYSCFG {
	r := func(off uintptr) mmio.Reg32 { return mmio.R32(bus, base+off) }
	s := &SYSCFG{
		MEMRMP: r(syscfgMEMRMP),
		PMC:    r(syscfgPMC),
		CMPCR:  r(syscfgCMPCR),
	}
	for i := range s.EXTICR {
		s.EXTICR[i] = r(syscfgEXTICR1 + uintptr(i)*4)
	}
	return s
}

// MemMode is the MEMRMP.MEM_MODE selection mapped at 0x0000_0000.
type MemMode uint8

const (
	MemMainFlash   MemMode = 0b00
	MemSystemFlash MemMode = 0b01
	MemSRAM        MemMode = 0b11
)

var SYSCFG_MEMRMP_MEM_MODE = mmio.F[MemMode](0, 2)

// PMC
const SYSCFG_PMC_ADC1DC2 = 1 << 16

// CMPCR
const (
	SYSCFG_CMPCR_CMP_PD = 1 << 0
	SYSCFG_CMPCR_READY  = 1 << 8
)

// EXTIPort is the EXTICR source selection; it shares the numbering of Port.
type EXTIPort uint8

func (p Port) EXTIPort() EXTIPort { return EXTIPort(p) }

// EXTICRField returns the EXTICR index and source field for a line 0..15.
func EXTICRField(line uint8) (int, mmio.Field[EXTIPort]) {
	return int(line / 4), mmio.F[EXTIPort]((line%4)*4, 4)
}
