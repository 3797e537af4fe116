package hack

import (
	"fmt"
	"strings"
)

// Instr is a 16-bit Hack machine instruction.
//
// An A-instruction (high bit clear) loads its value into the A register.
// A C-instruction has the form 111a cccc ccdd djjj: a computation, the
// destinations that receive its result and a jump condition.
type Instr uint16

// NewC returns the C-instruction computing c, storing to d and jumping on j.
func NewC(c Comp, d Dest, j Jump) Instr {
	return 0xe000 | Instr(c&0x7f)<<6 | Instr(d&7)<<3 | Instr(j&7)
}

// IsA reports whether i is an A-instruction.
func (i Instr) IsA() bool { return i&0x8000 == 0 }

// Valid reports whether i is an A-instruction or a C-instruction with both
// reserved bits set.
func (i Instr) Valid() bool { return i.IsA() || i&0xe000 == 0xe000 }

func (i Instr) Comp() Comp { return Comp(i >> 6 & 0x7f) }
func (i Instr) Dest() Dest { return Dest(i >> 3 & 7) }
func (i Instr) Jump() Jump { return Jump(i & 7) }

// String returns i in assembler syntax.
func (i Instr) String() string {
	if i.IsA() {
		return fmt.Sprintf("@%d", uint16(i))
	}
	var b strings.Builder
	if d := i.Dest(); d != 0 {
		b.WriteString(d.String())
		b.WriteByte('=')
	}
	b.WriteString(i.Comp().String())
	if j := i.Jump(); j != 0 {
		b.WriteByte(';')
		b.WriteString(j.String())
	}
	return b.String()
}

// Comp is the computation field of a C-instruction: the a bit followed by
// the six ALU control bits zx, nx, zy, ny, f and no.
type Comp byte

// UsesM reports whether the computation reads M rather than A.
func (c Comp) UsesM() bool { return c&0x40 != 0 }

var compNames = map[Comp]string{
	0b0101010: "0",
	0b0111111: "1",
	0b0111010: "-1",
	0b0001100: "D",
	0b0110000: "A",
	0b0001101: "!D",
	0b0110001: "!A",
	0b0001111: "-D",
	0b0110011: "-A",
	0b0011111: "D+1",
	0b0110111: "A+1",
	0b0001110: "D-1",
	0b0110010: "A-1",
	0b0000010: "D+A",
	0b0010011: "D-A",
	0b0000111: "A-D",
	0b0000000: "D&A",
	0b0010101: "D|A",
	0b1110000: "M",
	0b1110001: "!M",
	0b1110011: "-M",
	0b1110111: "M+1",
	0b1110010: "M-1",
	0b1000010: "D+M",
	0b1010011: "D-M",
	0b1000111: "M-D",
	0b1000000: "D&M",
	0b1010101: "D|M",
}

var compByName = func() map[string]Comp {
	m := make(map[string]Comp, len(compNames))
	for c, s := range compNames {
		m[s] = c
	}
	return m
}()

// ParseComp returns the computation with the given mnemonic.
func ParseComp(s string) (Comp, bool) {
	c, ok := compByName[s]
	return c, ok
}

func (c Comp) String() string {
	if s, ok := compNames[c]; ok {
		return s
	}
	return fmt.Sprintf("?%.2x", byte(c))
}

// Dest is the destination field of a C-instruction.
type Dest byte

const (
	DestM Dest = 1 << iota
	DestD
	DestA
)

var destNames = [8]string{"", "M", "D", "MD", "A", "AM", "AD", "AMD"}

// ParseDest returns the destination with the given mnemonic.
// The empty string is the null destination.
func ParseDest(s string) (Dest, bool) {
	for d, n := range destNames {
		if n == s {
			return Dest(d), true
		}
	}
	return 0, false
}

func (d Dest) String() string { return destNames[d&7] }

// Jump is the jump field of a C-instruction.
type Jump byte

const (
	JGT Jump = 1 << iota
	JEQ
	JLT

	JGE = JGT | JEQ
	JNE = JGT | JLT
	JLE = JEQ | JLT
	JMP = JGT | JEQ | JLT
)

var jumpNames = [8]string{"", "JGT", "JEQ", "JGE", "JLT", "JNE", "JLE", "JMP"}

// ParseJump returns the jump with the given mnemonic.
// The empty string is the null jump.
func ParseJump(s string) (Jump, bool) {
	for j, n := range jumpNames {
		if n == s {
			return Jump(j), true
		}
	}
	return 0, false
}

func (j Jump) String() string { return jumpNames[j&7] }

// Taken reports whether the jump is taken for the ALU output v.
func (j Jump) Taken(v int16) bool {
	return j&JLT != 0 && v < 0 ||
		j&JEQ != 0 && v == 0 ||
		j&JGT != 0 && v > 0
}
