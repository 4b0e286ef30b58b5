//go:build !(tinygo && cortexm)

package timex

var spinSink uint32

// Spin busy-waits for n iterations. It is not calibrated.
func Spin(n uint32) {
	for i := uint32(1); i < n; i++ {
		spinSink++
	}
}
