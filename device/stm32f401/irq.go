package stm32f401

// NumIRQ is the number of peripheral interrupt lines in the NVIC.
const NumIRQ = 85

// Peripheral interrupt numbers.
const (
	IRQ_WWDG      = 0
	IRQ_PVD       = 1
	IRQ_FLASH     = 4
	IRQ_RCC       = 5
	IRQ_EXTI0     = 6
	IRQ_EXTI1     = 7
	IRQ_EXTI2     = 8
	IRQ_EXTI3     = 9
	IRQ_EXTI4     = 10
	IRQ_EXTI9_5   = 23
	IRQ_SPI1      = 35
	IRQ_SPI2      = 36
	IRQ_EXTI15_10 = 40
	IRQ_SPI3      = 51
	IRQ_SPI4      = 84
)

// EXTIIRQ returns the interrupt that serves EXTI line 0..15.
func EXTIIRQ(line uint8) int {
	switch {
	case line <= 4:
		return IRQ_EXTI0 + int(line)
	case line <= 9:
		return IRQ_EXTI9_5
	default:
		return IRQ_EXTI15_10
	}
}
