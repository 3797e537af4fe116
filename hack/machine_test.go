package hack

import (
	"fmt"
	"testing"
)

func TestNewMachine(t *testing.T) {
	for _, size := range []int{0, 1, ROMSize - 1, ROMSize, ROMSize + 1} {
		t.Run(fmt.Sprintf("%.5x", size), func(t *testing.T) {
			code := make([]uint16, size)
			for i := range code {
				code[i] = 7
			}
			m := NewMachine(code, &Memory{})
			for i := range m.ROM {
				w := Instr(0)
				if i < size {
					w = 7
				}
				if g := m.ROM[i]; g != w {
					t.Fatalf("ROM[%.4x] == %.4x, want %.4x", i, g, w)
				}
			}
		})
	}
}

func TestExec(t *testing.T) {
	c := newExecTestCase
	for i, c := range []*execTestCase{
		c(5).want().a(5).pc(1),
		c(0x7fff).want().a(0x7fff).pc(1),

		c(cInstr("0", "D", "")).d(9).want().d(0).pc(1),
		c(cInstr("1", "D", "")).want().d(1).pc(1),
		c(cInstr("-1", "D", "")).want().d(-1).pc(1),
		c(cInstr("D", "A", "")).d(3).want().a(3).d(3).pc(1),
		c(cInstr("A", "D", "")).a(4).want().a(4).d(4).pc(1),
		c(cInstr("!D", "D", "")).d(0).want().d(-1).pc(1),
		c(cInstr("!A", "D", "")).a(1).want().a(1).d(-2).pc(1),
		c(cInstr("-D", "D", "")).d(3).want().d(-3).pc(1),
		c(cInstr("-A", "D", "")).a(3).want().a(3).d(-3).pc(1),
		c(cInstr("D+1", "D", "")).d(0x7fff).want().d(-0x8000).pc(1),
		c(cInstr("A+1", "A", "")).a(6).want().a(7).pc(1),
		c(cInstr("D-1", "D", "")).d(0).want().d(-1).pc(1),
		c(cInstr("A-1", "A", "")).a(6).want().a(5).pc(1),
		c(cInstr("D+A", "D", "")).a(2).d(3).want().a(2).d(5).pc(1),
		c(cInstr("D-A", "D", "")).a(2).d(3).want().a(2).d(1).pc(1),
		c(cInstr("A-D", "D", "")).a(2).d(3).want().a(2).d(-1).pc(1),
		c(cInstr("D&A", "D", "")).a(0x0c).d(0x0a).want().a(0x0c).d(0x08).pc(1),
		c(cInstr("D|A", "D", "")).a(0x0c).d(0x0a).want().a(0x0c).d(0x0e).pc(1),

		c(cInstr("M", "D", "")).a(20).mem(20, 42).want().a(20).d(42).pc(1),
		c(cInstr("!M", "D", "")).a(20).mem(20, 0).want().a(20).d(-1).pc(1),
		c(cInstr("-M", "D", "")).a(20).mem(20, 4).want().a(20).d(-4).pc(1),
		c(cInstr("M+1", "M", "")).a(20).mem(20, 4).want().a(20).mem(20, 5).pc(1),
		c(cInstr("M-1", "M", "")).a(20).mem(20, 4).want().a(20).mem(20, 3).pc(1),
		c(cInstr("D+M", "M", "")).a(20).d(1).mem(20, 4).want().a(20).d(1).mem(20, 5).pc(1),
		c(cInstr("D-M", "D", "")).a(20).d(1).mem(20, 4).want().a(20).d(-3).pc(1),
		c(cInstr("M-D", "D", "")).a(20).d(1).mem(20, 4).want().a(20).d(3).pc(1),
		c(cInstr("D&M", "D", "")).a(20).d(6).mem(20, 3).want().a(20).d(2).pc(1),
		c(cInstr("D|M", "D", "")).a(20).d(6).mem(20, 3).want().a(20).d(7).pc(1),

		// M is written at the address A held before the instruction.
		c(cInstr("A+1", "AM", "")).a(20).want().a(21).mem(20, 21).pc(1),
		c(cInstr("-1", "AMD", "")).a(20).want().a(-1).d(-1).mem(20, -1).pc(1),

		c(cInstr("D", "", "JGT")).a(9).d(1).want().a(9).d(1).pc(9),
		c(cInstr("D", "", "JGT")).a(9).d(0).want().a(9).pc(1),
		c(cInstr("D", "", "JEQ")).a(9).d(0).want().a(9).pc(9),
		c(cInstr("D", "", "JEQ")).a(9).d(-1).want().a(9).d(-1).pc(1),
		c(cInstr("D", "", "JGE")).a(9).d(0).want().a(9).pc(9),
		c(cInstr("D", "", "JGE")).a(9).d(-1).want().a(9).d(-1).pc(1),
		c(cInstr("D", "", "JLT")).a(9).d(-1).want().a(9).d(-1).pc(9),
		c(cInstr("D", "", "JLT")).a(9).d(0).want().a(9).pc(1),
		c(cInstr("D", "", "JNE")).a(9).d(-1).want().a(9).d(-1).pc(9),
		c(cInstr("D", "", "JNE")).a(9).d(0).want().a(9).pc(1),
		c(cInstr("D", "", "JLE")).a(9).d(0).want().a(9).pc(9),
		c(cInstr("D", "", "JLE")).a(9).d(1).want().a(9).d(1).pc(1),
		c(cInstr("0", "", "JMP")).a(9).want().a(9).pc(9),
		// The jump target is A before the instruction updates it.
		c(cInstr("A-1", "A", "JMP")).a(9).want().a(8).pc(9),

		c(0x8000).want().
			error(HaltError{HaltCode: BadInstr, Instr: 0x8000, Addr: 0}),
	} {
		t.Run(fmt.Sprintf("%s_%d", c.m.ROM[0], i), func(t *testing.T) {
			if err := c.m.Exec(); err != c.err {
				t.Fatalf("got error %v, want %v", err, c.err)
			}
			if g, w := c.m.A, c.w.A; g != w {
				t.Errorf("A is %d, want %d", g, w)
			}
			if g, w := c.m.D, c.w.D; g != w {
				t.Errorf("D is %d, want %d", g, w)
			}
			if g, w := c.m.PC, c.w.PC; g != w {
				t.Errorf("PC is %x, want %x", g, w)
			}
			gm, wm := c.m.Mem.(*Memory), c.w.Mem.(*Memory)
			for i := range gm.Words {
				if g, w := gm.Words[i], wm.Words[i]; g != w {
					t.Errorf("memory[%.4x] = %d, want %d", i, g, w)
				}
			}
		})
	}
}

func TestExecPCOverflow(t *testing.T) {
	m := NewMachine(nil, &Memory{})
	m.PC = ROMSize - 1
	m.ROM[m.PC] = 1
	if n, err := m.ExecN(3); n != 1 || err != (HaltError{HaltCode: PCOverflow, Addr: ROMSize}) {
		t.Fatalf("ExecN = %d, %v; want 1, PC overflow", n, err)
	}
}

func TestHalted(t *testing.T) {
	m := NewMachine([]uint16{7, uint16(NewC(0b0101010, DestD, 0)), 0x8000}, &Memory{})
	for _, c := range []struct {
		pc   uint16
		code HaltCode
		ok   bool
	}{
		{0, 0, false},
		{1, 0, false},
		{2, BadInstr, true},
		{ROMSize - 1, 0, false},
		{ROMSize, PCOverflow, true},
	} {
		m.PC = c.pc
		code, ok := m.Halted()
		if code != c.code || ok != c.ok {
			t.Errorf("at %.4x Halted() = %v, %v; want %v, %v", c.pc, code, ok, c.code, c.ok)
		}
		if err := m.Exec(); (err != nil) != c.ok {
			t.Errorf("at %.4x Exec() = %v, halted %v", c.pc, err, c.ok)
		}
	}
}

func TestMemoryKeyboardReadOnly(t *testing.T) {
	var m Memory
	m.SetKey(65)
	m.Store(KBD, 0)
	m.Store(KBD+1, 9)
	if g := m.Load(KBD); g != 65 {
		t.Errorf("KBD = %d after store, want 65", g)
	}
	if g := m.Load(KBD + 1); g != 0 {
		t.Errorf("load beyond KBD = %d, want 0", g)
	}
}

func TestMemoryScreenGen(t *testing.T) {
	var m Memory
	m.Store(ScreenBase-1, 1)
	if g := m.ScreenGen(); g != 0 {
		t.Errorf("ScreenGen after RAM store = %d, want 0", g)
	}
	m.Store(ScreenBase, 1)
	m.Store(KBD-1, 1)
	if g := m.ScreenGen(); g != 2 {
		t.Errorf("ScreenGen after screen stores = %d, want 2", g)
	}
	if s := m.Screen(); len(s) != ScreenWords || s[0] != 1 || s[len(s)-1] != 1 {
		t.Errorf("Screen view is wrong: len %d", len(s))
	}
}

type execTestCase struct {
	m, w *Machine
	err  error
	set  *Machine
}

func newExecTestCase(in Instr) *execTestCase {
	c := &execTestCase{}
	c.m = NewMachine([]uint16{uint16(in)}, &Memory{})
	c.w = NewMachine([]uint16{uint16(in)}, &Memory{})
	if in.IsA() {
		c.w.A = int16(in)
	}
	c.set = c.m
	return c
}

func (c *execTestCase) a(v int16) *execTestCase {
	c.set.A = v
	return c
}

func (c *execTestCase) d(v int16) *execTestCase {
	c.set.D = v
	return c
}

func (c *execTestCase) mem(addr uint16, v int16) *execTestCase {
	c.set.Mem.Store(addr, v)
	if c.set == c.m {
		c.w.Mem.Store(addr, v)
	}
	return c
}

func (c *execTestCase) pc(addr uint16) *execTestCase {
	c.set.PC = addr
	return c
}

func (c *execTestCase) want() *execTestCase {
	c.set = c.w
	return c
}

func (c *execTestCase) error(err error) *execTestCase {
	c.err = err
	return c
}

func cInstr(comp, dest, jump string) Instr {
	cc, ok := ParseComp(comp)
	if !ok {
		panic("bad comp " + comp)
	}
	d, ok := ParseDest(dest)
	if !ok {
		panic("bad dest " + dest)
	}
	j, ok := ParseJump(jump)
	if !ok {
		panic("bad jump " + jump)
	}
	return NewC(cc, d, j)
}
