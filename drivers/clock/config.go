package clock

import (
	"nucleo-f401/device/stm32f401"
	"nucleo-f401/errcode"
	"nucleo-f401/x/mathx"
)

// DefaultPollLimit bounds every readiness wait.
const DefaultPollLimit = 1_000_000

// Config describes the clock tree the sequencer builds from HSI.
type Config struct {
	HSITrim uint8

	PLLSource stm32f401.PLLSource
	PLLM      uint8
	PLLN      uint16
	PLLP      uint32 // 2, 4, 6 or 8

	AHB    stm32f401.AHBPrescaler
	APB1   stm32f401.APBPrescaler
	APB2   stm32f401.APBPrescaler
	TimPre stm32f401.TimerPrescaler

	Latency      stm32f401.Latency
	VoltageScale stm32f401.VoltageScale

	// HCLKHz is the AHB clock the tree must produce; it feeds the SysTick
	// reload and is checked against the PLL settings.
	HCLKHz uint32
	TickHz uint32

	PollLimit uint32
}

// DefaultConfig is the 84 MHz tree of the Nucleo-F401RE: HSI/16*336/4, APB1
// at half speed and a 1 ms tick.
func DefaultConfig() Config {
	return Config{
		HSITrim:      16,
		PLLSource:    stm32f401.PLLSourceHSI,
		PLLM:         16,
		PLLN:         336,
		PLLP:         4,
		AHB:          stm32f401.AHBDiv1,
		APB1:         stm32f401.APBDiv2,
		APB2:         stm32f401.APBDiv1,
		TimPre:       stm32f401.TimPreTwice,
		Latency:      stm32f401.Latency2WS,
		VoltageScale: stm32f401.VoltageScale2,
		HCLKHz:       84_000_000,
		TickHz:       1000,
		PollLimit:    DefaultPollLimit,
	}
}

// Limits of the STM32F401 main PLL and buses.
const (
	MaxSYSCLK = 84_000_000
	MaxPCLK1  = 42_000_000
	MaxPCLK2  = 84_000_000

	minVCOIn  = 1_000_000
	maxVCOIn  = 2_000_000
	minVCOOut = 192_000_000
	maxVCOOut = 432_000_000
)

func invalid(msg string) error {
	return errcode.New(errcode.InvalidParams, "clock.validate", msg)
}

// Validate checks the configuration against the part's limits.
func (c Config) Validate() error {
	if c.PLLSource != stm32f401.PLLSourceHSI {
		return errcode.New(errcode.Unsupported, "clock.validate", "only HSI is supported as PLL source")
	}
	if !stm32f401.RCC_CR_HSITRIM.Valid(c.HSITrim) {
		return invalid("HSI trim out of range")
	}
	if !mathx.Between(c.PLLM, 2, 63) {
		return invalid("PLLM out of range")
	}
	if !mathx.Between(c.PLLN, 192, 432) {
		return invalid("PLLN out of range")
	}
	if _, ok := stm32f401.PLLPFor(c.PLLP); !ok {
		return invalid("PLLP must be 2, 4, 6 or 8")
	}
	vin := uint32(stm32f401.HSIHz) / uint32(c.PLLM)
	if !mathx.Between(vin, minVCOIn, maxVCOIn) {
		return invalid("VCO input out of range")
	}
	if vout := uint64(vin) * uint64(c.PLLN); !mathx.Between(vout, minVCOOut, maxVCOOut) {
		return invalid("VCO output out of range")
	}
	f := c.Frequencies()
	if f.SYSCLK > MaxSYSCLK {
		return invalid("SYSCLK above 84 MHz")
	}
	if f.HCLK != c.HCLKHz {
		return invalid("HCLK does not match the PLL settings")
	}
	if f.PCLK1 > MaxPCLK1 || f.PCLK2 > MaxPCLK2 {
		return invalid("APB clock above limit")
	}
	if c.TickHz == 0 || c.HCLKHz/c.TickHz == 0 || c.HCLKHz/c.TickHz-1 > stm32f401.SysTickMaxReload {
		return invalid("tick rate does not fit SysTick")
	}
	if c.Latency < stm32f401.MinLatency(f.HCLK) {
		return invalid("flash latency too low for HCLK")
	}
	if c.VoltageScale == stm32f401.VoltageScale3 && f.HCLK > 60_000_000 {
		return invalid("voltage scale 3 limits HCLK to 60 MHz")
	}
	if c.VoltageScale != stm32f401.VoltageScale2 && c.VoltageScale != stm32f401.VoltageScale3 {
		return invalid("voltage scale reserved")
	}
	if c.PollLimit == 0 {
		return invalid("poll limit must be positive")
	}
	return nil
}

// Reload is the SysTick reload value for the configured tick.
func (c Config) Reload() uint32 { return c.HCLKHz/c.TickHz - 1 }

// Frequencies is the clock tree a Config produces.
type Frequencies struct {
	SYSCLK uint32
	HCLK   uint32
	PCLK1  uint32
	PCLK2  uint32
	// Timer kernel clocks on APB1 and APB2.
	TimAPB1 uint32
	TimAPB2 uint32
}

// Frequencies derives the bus clocks. The PLL factors are assumed valid.
func (c Config) Frequencies() Frequencies {
	var f Frequencies
	if c.PLLM == 0 || c.PLLP == 0 {
		return f
	}
	f.SYSCLK = uint32(uint64(stm32f401.HSIHz) * uint64(c.PLLN) / uint64(c.PLLM) / uint64(c.PLLP))
	f.HCLK = f.SYSCLK / c.AHB.Divisor()
	f.PCLK1 = f.HCLK / c.APB1.Divisor()
	f.PCLK2 = f.HCLK / c.APB2.Divisor()
	f.TimAPB1 = timerClock(f.HCLK, c.APB1, c.TimPre)
	f.TimAPB2 = timerClock(f.HCLK, c.APB2, c.TimPre)
	return f
}

func timerClock(hclk uint32, apb stm32f401.APBPrescaler, pre stm32f401.TimerPrescaler) uint32 {
	div := apb.Divisor()
	if pre == stm32f401.TimPreFourTimes {
		if div <= 4 {
			return hclk
		}
		return hclk / div * 4
	}
	if div == 1 {
		return hclk
	}
	return hclk / div * 2
}
