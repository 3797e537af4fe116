// Package hack provides the memory map of the Hack computer and an
// implementation of its CPU, called Machine, that executes Hack machine code.
package hack

import "fmt"

// Hack data memory map.
const (
	ScreenBase   = 0x4000 // first word of the memory-mapped screen
	ScreenWords  = 0x2000 // 256 rows of 32 words
	ScreenWidth  = 512
	ScreenHeight = 256
	RowWords     = ScreenWidth / 16

	KBD     = 0x6000 // keyboard register
	MemSize = KBD + 1
)

// Screen is the video memory region of the Hack computer.
var Screen = Region{Base: ScreenBase, Len: ScreenWords}

// Region is a contiguous block of words in data memory.
type Region struct {
	Base uint16
	Len  uint16
}

// End returns the address one past the last word of the region.
func (r Region) End() int { return int(r.Base) + int(r.Len) }

// Contains reports whether addr lies within the region.
func (r Region) Contains(addr uint16) bool {
	return addr >= r.Base && int(addr) < r.End()
}

func (r Region) String() string {
	return fmt.Sprintf("[%.4x,%.4x)", r.Base, r.End())
}

// Bus provides word access to data memory.
type Bus interface {
	Load(addr uint16) int16
	Store(addr uint16, v int16)
}

// Memory is the Hack data memory: RAM, the screen and the keyboard register.
// Stores to the keyboard register or beyond are ignored and loads beyond it
// return zero.
type Memory struct {
	Words [MemSize]int16

	gen uint64 // count of stores into the screen
}

var _ Bus = (*Memory)(nil)

func (m *Memory) Load(addr uint16) int16 {
	if int(addr) >= len(m.Words) {
		return 0
	}
	return m.Words[addr]
}

func (m *Memory) Store(addr uint16, v int16) {
	switch {
	case addr >= KBD:
		return
	case addr >= ScreenBase:
		m.gen++
	}
	m.Words[addr] = v
}

// SetKey sets the keyboard register to the given key code.
// A zero code means no key is pressed.
func (m *Memory) SetKey(code int16) { m.Words[KBD] = code }

// Key returns the contents of the keyboard register.
func (m *Memory) Key() int16 { return m.Words[KBD] }

// Screen returns a view of the screen words.
func (m *Memory) Screen() []int16 { return m.Words[ScreenBase:KBD] }

// ScreenGen returns the number of stores made into the screen so far.
// Display code compares successive values to detect changes.
func (m *Memory) ScreenGen() uint64 { return m.gen }
