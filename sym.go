package main

import (
	"sort"
	"strconv"
	"strings"

	"github.com/nf/hackfill/asm"
)

// symbols are the labels and variables of the program being debugged,
// ordered by address.
type symbols []asm.Symbol

// forROM returns the labels bound to the ROM address addr.
func (s symbols) forROM(addr uint16) []asm.Symbol { return s.forAddr(addr, true) }

// forRAM returns the variables allocated at the RAM address addr.
func (s symbols) forRAM(addr uint16) []asm.Symbol { return s.forAddr(addr, false) }

func (s symbols) forAddr(addr uint16, label bool) (ss []asm.Symbol) {
	i := sort.Search(len(s), func(i int) bool { return s[i].Addr >= addr })
	for ; i < len(s) && s[i].Addr == addr; i++ {
		if s[i].Label == label {
			ss = append(ss, s[i])
		}
	}
	return ss
}

func (s symbols) withNamePrefix(p string) (ss []asm.Symbol) {
	for _, sym := range s {
		if strings.HasPrefix(sym.Name, p) {
			ss = append(ss, sym)
		}
	}
	return ss
}

// resolve returns the symbol with the given name, falling back to the
// predefined symbols and then to a decimal or 0x-prefixed hex address.
func (s symbols) resolve(name string) (asm.Symbol, bool) {
	for _, sym := range s {
		if sym.Name == name {
			return sym, true
		}
	}
	if a, ok := asm.Predefined()[name]; ok {
		return asm.Symbol{Name: name, Addr: a}, true
	}
	if v, err := strconv.ParseUint(name, 0, 16); err == nil {
		return asm.Symbol{Name: name, Addr: uint16(v)}, true
	}
	return asm.Symbol{}, false
}
