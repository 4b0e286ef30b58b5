package sim

import (
	"testing"

	"nucleo-f401/mmio"
)

var _ mmio.Bus = (*Memory)(nil)

func TestHooksAndJournal(t *testing.T) {
	m := New()
	const dr = 0x4000_3C0C
	m.OnWrite(dr, func(old, v uint32) uint32 { return v & 0xFF })
	m.OnRead(dr, func(stored uint32) uint32 { return stored ^ 0xFF })

	m.Store32(dr, 0x1234)
	if m.Peek(dr) != 0x34 {
		t.Fatalf("write hook not applied: %#x", m.Peek(dr))
	}
	if got := m.Load32(dr); got != 0xCB {
		t.Fatalf("read hook not applied: %#x", got)
	}
	j := m.Journal()
	if len(j) != 2 || j[0].Op != Write || j[0].Value != 0x1234 || j[1].Op != Read || j[1].Value != 0xCB {
		t.Fatalf("journal = %+v", j)
	}
	if w := m.Writes(dr); len(w) != 1 || w[0] != 0x1234 {
		t.Fatalf("Writes = %v", w)
	}
	m.ResetJournal()
	if len(m.Journal()) != 0 {
		t.Fatalf("journal not reset")
	}
}

func TestByteLanes(t *testing.T) {
	m := New()
	m.Poke(0x100, 0x1122_3344)
	m.Store8(0x102, 0xAA)
	if m.Peek(0x100) != 0x11AA_3344 {
		t.Fatalf("Store8 lane: %#08x", m.Peek(0x100))
	}
	if m.Load8(0x103) != 0x11 || m.Load8(0x100) != 0x44 {
		t.Fatalf("Load8 lanes wrong")
	}
	if Op(Write).String() != "W" || Op(Read).String() != "R" {
		t.Fatalf("Op strings")
	}
}
