// Package sim is a host-side register memory implementing mmio.Bus.
//
// Unbacked addresses read as zero. Per-address hooks let a test or a chip
// model react to accesses (a ready flag that appears after some polls, a data
// register that returns what was shifted in). Every access through the bus
// methods is appended to a journal so tests can assert ordering.
package sim

import "sync"

// Op is the kind of a journaled access.
type Op uint8

const (
	Read Op = iota
	Write
)

func (o Op) String() string {
	if o == Write {
		return "W"
	}
	return "R"
}

// Access is one journaled bus access. Width is 1 or 4.
type Access struct {
	Op    Op
	Addr  uintptr
	Value uint32
	Width uint8
}

// ReadHook returns the value a read observes given the stored word.
type ReadHook func(stored uint32) uint32

// WriteHook returns the word to store given the old word and the write.
type WriteHook func(old, v uint32) uint32

// Memory implements mmio.Bus over a sparse word map.
type Memory struct {
	mu      sync.Mutex
	words   map[uintptr]uint32
	onRead  map[uintptr]ReadHook
	onWrite map[uintptr]WriteHook
	journal []Access
}

func New() *Memory {
	return &Memory{
		words:   make(map[uintptr]uint32),
		onRead:  make(map[uintptr]ReadHook),
		onWrite: make(map[uintptr]WriteHook),
	}
}

// OnRead installs h for the word containing addr, replacing any previous hook.
func (m *Memory) OnRead(addr uintptr, h ReadHook) {
	m.mu.Lock()
	m.onRead[addr&^3] = h
	m.mu.Unlock()
}

// OnWrite installs h for the word containing addr, replacing any previous hook.
func (m *Memory) OnWrite(addr uintptr, h WriteHook) {
	m.mu.Lock()
	m.onWrite[addr&^3] = h
	m.mu.Unlock()
}

// Peek returns the stored word without hooks or journaling.
func (m *Memory) Peek(addr uintptr) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.words[addr&^3]
}

// Poke stores a word without hooks or journaling.
func (m *Memory) Poke(addr uintptr, v uint32) {
	m.mu.Lock()
	m.words[addr&^3] = v
	m.mu.Unlock()
}

// Journal returns a copy of the access journal.
func (m *Memory) Journal() []Access {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Access, len(m.journal))
	copy(out, m.journal)
	return out
}

// ResetJournal discards journaled accesses.
func (m *Memory) ResetJournal() {
	m.mu.Lock()
	m.journal = m.journal[:0]
	m.mu.Unlock()
}

// Writes returns the values written to addr, in order.
func (m *Memory) Writes(addr uintptr) []uint32 {
	var out []uint32
	for _, a := range m.Journal() {
		if a.Op == Write && a.Addr == addr {
			out = append(out, a.Value)
		}
	}
	return out
}

func (m *Memory) Load32(addr uintptr) uint32 {
	v := m.loadWord(addr &^ 3)
	m.record(Access{Op: Read, Addr: addr, Value: v, Width: 4})
	return v
}

func (m *Memory) Store32(addr uintptr, v uint32) {
	m.record(Access{Op: Write, Addr: addr, Value: v, Width: 4})
	m.storeWord(addr&^3, v)
}

func (m *Memory) Load8(addr uintptr) uint8 {
	lane := (addr & 3) * 8
	b := uint8(m.loadWord(addr&^3) >> lane)
	m.record(Access{Op: Read, Addr: addr, Value: uint32(b), Width: 1})
	return b
}

// Store8 merges the byte into its word lane; bytes outside the lane are kept.
func (m *Memory) Store8(addr uintptr, v uint8) {
	m.record(Access{Op: Write, Addr: addr, Value: uint32(v), Width: 1})
	lane := (addr & 3) * 8
	word := addr &^ 3
	old := m.Peek(word)
	m.storeWord(word, old&^(0xFF<<lane)|uint32(v)<<lane)
}

func (m *Memory) loadWord(word uintptr) uint32 {
	m.mu.Lock()
	v := m.words[word]
	h := m.onRead[word]
	m.mu.Unlock()
	// Hooks run unlocked so they may Peek and Poke other registers.
	if h != nil {
		v = h(v)
	}
	return v
}

func (m *Memory) storeWord(word uintptr, v uint32) {
	m.mu.Lock()
	old := m.words[word]
	h := m.onWrite[word]
	m.mu.Unlock()
	if h != nil {
		v = h(old, v)
	}
	m.Poke(word, v)
}

func (m *Memory) record(a Access) {
	m.mu.Lock()
	m.journal = append(m.journal, a)
	m.mu.Unlock()
}
