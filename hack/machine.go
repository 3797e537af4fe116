package hack

import "fmt"

// ROMSize is the number of instructions the instruction memory holds.
const ROMSize = 0x8000

// Machine is an implementation of the Hack CPU.
type Machine struct {
	ROM [ROMSize]Instr
	Mem Bus
	A   int16
	D   int16
	PC  uint16
}

// NewMachine returns a Hack CPU loaded with the given program at address
// zero and attached to mem. Instructions beyond ROMSize are dropped.
func NewMachine(code []uint16, mem Bus) *Machine {
	m := &Machine{Mem: mem}
	for i, c := range code {
		if i >= len(m.ROM) {
			break
		}
		m.ROM[i] = Instr(c)
	}
	return m
}

// Reset returns the CPU to its power-on state, leaving ROM and memory as
// they are.
func (m *Machine) Reset() {
	m.A, m.D, m.PC = 0, 0, 0
}

// Exec executes the instruction at m.PC. It only returns a non-nil error,
// always a HaltError, if it encounters a halt condition.
func (m *Machine) Exec() error {
	if int(m.PC) >= len(m.ROM) {
		return HaltError{HaltCode: PCOverflow, Addr: m.PC}
	}
	in := m.ROM[m.PC]
	if in.IsA() {
		m.A = int16(in)
		m.PC++
		return nil
	}
	if !in.Valid() {
		return HaltError{HaltCode: BadInstr, Instr: in, Addr: m.PC}
	}

	var (
		c    = in.Comp()
		addr = uint16(m.A)
		y    = m.A
	)
	if c.UsesM() {
		y = m.Mem.Load(addr)
	}
	out := alu(c, m.D, y)

	d := in.Dest()
	if d&DestM != 0 {
		m.Mem.Store(addr, out)
	}
	if d&DestA != 0 {
		m.A = out
	}
	if d&DestD != 0 {
		m.D = out
	}
	// The jump target is the value A held before this instruction.
	if in.Jump().Taken(out) {
		m.PC = addr
	} else {
		m.PC++
	}
	return nil
}

// Halted reports the condition, if any, that would halt the next Exec.
func (m *Machine) Halted() (HaltCode, bool) {
	switch {
	case int(m.PC) >= len(m.ROM):
		return PCOverflow, true
	case !m.ROM[m.PC].Valid():
		return BadInstr, true
	}
	return 0, false
}

// ExecN executes up to n instructions, stopping early at a halt condition.
// It returns the number of instructions executed.
func (m *Machine) ExecN(n int) (int, error) {
	for i := 0; i < n; i++ {
		if err := m.Exec(); err != nil {
			return i, err
		}
	}
	return n, nil
}

// alu computes the Hack ALU function selected by the six control bits of c
// over x (the D register) and y (A or M).
func alu(c Comp, x, y int16) int16 {
	if c&0x20 != 0 { // zx
		x = 0
	}
	if c&0x10 != 0 { // nx
		x = ^x
	}
	if c&0x08 != 0 { // zy
		y = 0
	}
	if c&0x04 != 0 { // ny
		y = ^y
	}
	var out int16
	if c&0x02 != 0 { // f
		out = x + y
	} else {
		out = x & y
	}
	if c&0x01 != 0 { // no
		out = ^out
	}
	return out
}

// HaltError is returned by Exec if the machine cannot continue.
type HaltError struct {
	HaltCode
	Instr Instr
	Addr  uint16
}

func (e HaltError) Error() string {
	if e.HaltCode == PCOverflow {
		return fmt.Sprintf("%s at %.4x", e.HaltCode, e.Addr)
	}
	return fmt.Sprintf("%s executing %.4x at %.4x", e.HaltCode, uint16(e.Instr), e.Addr)
}

// HaltCode signifies the type of condition that halted execution.
type HaltCode byte

const (
	BadInstr   HaltCode = 0x01
	PCOverflow HaltCode = 0x02
)

func (c HaltCode) String() string {
	if s, ok := map[HaltCode]string{
		BadInstr:   "invalid instruction",
		PCOverflow: "program counter out of range",
	}[c]; ok {
		return s
	}
	return fmt.Sprintf("unknown (%.2x)", byte(c))
}
