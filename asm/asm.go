// Package asm implements an assembler for the Hack machine language.
package asm

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nf/hackfill/hack"
)

// Program is the result of assembling a source file.
type Program struct {
	Code    []uint16
	Symbols []Symbol // labels and variables, ordered by address
}

// Symbol is a label or variable defined by a program.
type Symbol struct {
	Name  string
	Addr  uint16
	Label bool // ROM address if true, otherwise a RAM variable
}

func (s Symbol) String() string { return fmt.Sprintf("%s (%.4x)", s.Name, s.Addr) }

// Error reports a problem with a line of source.
type Error struct {
	Line int // 1-based
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Predefined returns the symbols every Hack program may use.
func Predefined() map[string]uint16 {
	m := map[string]uint16{
		"SP":     0,
		"LCL":    1,
		"ARG":    2,
		"THIS":   3,
		"THAT":   4,
		"SCREEN": hack.ScreenBase,
		"KBD":    hack.KBD,
	}
	for i := uint16(0); i < 16; i++ {
		m["R"+strconv.Itoa(int(i))] = i
	}
	return m
}

// firstVar is the RAM address of the first variable.
const firstVar = 16

const maxValue = 0x7fff

type line struct {
	n    int
	text string
}

// Assemble translates Hack assembly source into machine code.
func Assemble(src []byte) (*Program, error) {
	var (
		lines = cleanLines(src)
		table = Predefined()
		p     = &Program{}
		code  []line
	)

	// Bind labels to the address of the instruction that follows them.
	for _, l := range lines {
		if !isLabel(l.text) {
			code = append(code, l)
			continue
		}
		name := strings.TrimSpace(l.text[1 : len(l.text)-1])
		if name == "" {
			return nil, &Error{l.n, errors.New("empty label")}
		}
		if _, ok := table[name]; ok {
			return nil, &Error{l.n, fmt.Errorf("label %q redefined", name)}
		}
		if len(code) > maxValue {
			return nil, &Error{l.n, fmt.Errorf("label %q beyond end of ROM", name)}
		}
		table[name] = uint16(len(code))
		p.Symbols = append(p.Symbols, Symbol{Name: name, Addr: uint16(len(code)), Label: true})
	}
	if len(code) > hack.ROMSize {
		return nil, fmt.Errorf("program has %d instructions, ROM holds %d", len(code), hack.ROMSize)
	}

	next := uint16(firstVar)
	for _, l := range code {
		if strings.HasPrefix(l.text, "@") {
			v, err := aValue(strings.TrimSpace(l.text[1:]), table, &next, p)
			if err != nil {
				return nil, &Error{l.n, err}
			}
			p.Code = append(p.Code, v)
			continue
		}
		in, err := cInstr(l.text)
		if err != nil {
			return nil, &Error{l.n, err}
		}
		p.Code = append(p.Code, uint16(in))
	}

	sort.SliceStable(p.Symbols, func(i, j int) bool {
		return p.Symbols[i].Addr < p.Symbols[j].Addr
	})
	return p, nil
}

func aValue(sym string, table map[string]uint16, next *uint16, p *Program) (uint16, error) {
	if sym == "" {
		return 0, errors.New("A-instruction without a value")
	}
	if isDigits(sym) {
		v, err := strconv.ParseUint(sym, 10, 64)
		if err != nil || v > maxValue {
			return 0, fmt.Errorf("A-instruction value out of range (0..%d): %s", maxValue, sym)
		}
		return uint16(v), nil
	}
	if v, ok := table[sym]; ok {
		return v, nil
	}
	if *next > maxValue {
		return 0, fmt.Errorf("no room for variable %q", sym)
	}
	v := *next
	table[sym] = v
	p.Symbols = append(p.Symbols, Symbol{Name: sym, Addr: v})
	*next++
	return v, nil
}

// cInstr parses an instruction of the form dest=comp;jump, where dest and
// jump are optional.
func cInstr(s string) (hack.Instr, error) {
	var dest, comp, jump string
	comp = s
	if d, c, found := strings.Cut(comp, "="); found {
		dest, comp = strings.TrimSpace(d), strings.TrimSpace(c)
	}
	if c, j, found := strings.Cut(comp, ";"); found {
		comp, jump = strings.TrimSpace(c), strings.TrimSpace(j)
	}

	d, ok := hack.ParseDest(dest)
	if !ok {
		return 0, fmt.Errorf("invalid dest %q in %q", dest, s)
	}
	j, ok := hack.ParseJump(jump)
	if !ok {
		return 0, fmt.Errorf("invalid jump %q in %q", jump, s)
	}
	c, ok := hack.ParseComp(comp)
	if !ok {
		return 0, fmt.Errorf("invalid comp %q in %q", comp, s)
	}
	return hack.NewC(c, d, j), nil
}

// cleanLines strips comments and surrounding space and drops empty lines.
func cleanLines(src []byte) []line {
	var out []line
	for i, b := range bytes.Split(src, []byte("\n")) {
		if c := bytes.Index(b, []byte("//")); c >= 0 {
			b = b[:c]
		}
		s := strings.TrimSpace(string(b))
		if s == "" {
			continue
		}
		out = append(out, line{i + 1, s})
	}
	return out
}

func isLabel(s string) bool {
	return strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
