// cmd/blink/main.go
package main

import (
	"nucleo-f401/board/nucleof401"
	"nucleo-f401/x/timex"
)

const blinkSpin = 1000

func main() {
	b, err := nucleof401.Open(nucleof401.DefaultConfig())
	if err != nil {
		println("[blink] bring-up failed:", err.Error())
		for {
		}
	}
	println("[blink] toggling PA5")
	for {
		b.LED.Toggle()
		timex.Spin(blinkSpin)
	}
}
