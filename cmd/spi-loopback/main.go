// cmd/spi-loopback/main.go
//
// Wire PC12 (MOSI) to PC11 (MISO). The LED stays lit while every byte comes
// back unchanged.
package main

import (
	"nucleo-f401/board/nucleof401"
	"nucleo-f401/errcode"
	"nucleo-f401/x/conv"
	"nucleo-f401/x/timex"

	"tinygo.org/x/drivers"
)

const stepSpin = 10000

func main() {
	b, err := nucleof401.Open(nucleof401.DefaultConfig())
	if err != nil {
		println("[loopback] bring-up failed:", err.Error())
		for {
		}
	}
	run(b.SPI, b.LED.Set)
}

func run(bus drivers.SPI, led func(bool)) {
	var tx byte
	var htx, hrx [2]byte
	for {
		rx, err := bus.Transfer(tx)
		switch {
		case errcode.IsTimeout(err):
			println("[loopback] transfer timed out:", err.Error())
			led(false)
		case err != nil:
			println("[loopback] transfer failed:", err.Error())
			led(false)
		case rx != tx:
			println("[loopback] mismatch tx:", string(conv.U8Hex(htx[:], tx)), "rx:", string(conv.U8Hex(hrx[:], rx)))
			led(false)
		default:
			led(true)
		}
		timex.Spin(stepSpin)
		tx++
	}
}
