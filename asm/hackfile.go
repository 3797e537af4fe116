package asm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nf/hackfill/hack"
)

// Encode writes code in the .hack text format: one instruction per line as
// sixteen binary digits.
func Encode(w io.Writer, code []uint16) error {
	bw := bufio.NewWriter(w)
	for _, c := range code {
		fmt.Fprintf(bw, "%.16b\n", c)
	}
	return bw.Flush()
}

// Decode reads machine code in the .hack text format. Blank lines are
// ignored.
func Decode(r io.Reader) ([]uint16, error) {
	var (
		code []uint16
		s    = bufio.NewScanner(r)
		n    = 0
	)
	for s.Scan() {
		n++
		t := strings.TrimSpace(s.Text())
		if t == "" {
			continue
		}
		if len(t) != 16 {
			return nil, &Error{n, fmt.Errorf("instruction %q is not 16 bits", t)}
		}
		v, err := strconv.ParseUint(t, 2, 16)
		if err != nil {
			return nil, &Error{n, fmt.Errorf("invalid instruction %q", t)}
		}
		if len(code) == hack.ROMSize {
			return nil, &Error{n, errors.New("program does not fit in ROM")}
		}
		code = append(code, uint16(v))
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return code, nil
}
