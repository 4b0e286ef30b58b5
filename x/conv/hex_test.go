package conv

import "testing"

func TestHex(t *testing.T) {
	var buf [8]byte
	if got := string(U32Hex(buf[:], 0x4002_3800)); got != "40023800" {
		t.Fatalf("U32Hex = %q", got)
	}
	if got := string(U8Hex(buf[:], 0x3C)); got != "3C" {
		t.Fatalf("U8Hex = %q", got)
	}
	if got := U32Hex(buf[:4], 1); len(got) != 0 {
		t.Fatalf("short buffer returned %q", got)
	}
}
