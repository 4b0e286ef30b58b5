// Package stm32f401 maps the STM32F401 peripherals used by the board: RCC,
// GPIO A..E and H, SPI1..4, PWR, FLASH, EXTI, SYSCFG and the Cortex-M4 core
// blocks (SCB, NVIC, SysTick).
//
// Each peripheral is a struct of mmio registers bound at fixed offsets from
// its base address. Bit positions are catalogued next to each map, as plain
// masks for single-bit flags and as typed mmio.Field values for multi-bit
// selections. All maps hang off one Peripherals value, obtained once with
// Take.
package stm32f401
