package computer

import (
	"log"

	"github.com/nf/hackfill/hack"
)

// StateKind describes why a StateFunc is being called.
type StateKind int

const (
	QuietState StateKind = iota // a cycle completed; refresh watches only
	ClearState                  // execution resumed
	DebugState                  // a single instruction was stepped
	BreakState                  // a breakpoint was reached
	PauseState                  // execution was paused by request
	HaltState                   // the machine halted
)

// StateFunc receives the state of the CPU. It is called from the goroutine
// executing the program and must not retain m.
type StateFunc func(m *hack.Machine, k StateKind)

type debugCmd struct {
	cmd  string
	addr int // -1 if none
}

func (c *Computer) handleDebug(d debugCmd, sf StateFunc) {
	p := c.cpu
	if p == nil {
		log.Printf("debug: %q: program does not run on the CPU", d.cmd)
		return
	}
	switch d.cmd {
	case "b", "break":
		p.brk = d.addr
		p.atBreak = false
	case "c", "cont", "continue":
		if c.paused {
			c.paused = false
			c.report(sf, ClearState)
		}
	case "p", "pause":
		if !c.paused {
			c.paused = true
			c.report(sf, PauseState)
		}
	case "s", "step":
		c.paused = true
		if err := p.m.Exec(); err != nil {
			log.Printf("debug: %v", err)
			c.report(sf, HaltState)
			return
		}
		p.atBreak = int(p.m.PC) == p.brk
		c.report(sf, DebugState)
	case "r", "reset":
		p.m.Reset()
		p.atBreak = false
		c.report(sf, QuietState)
	default:
		log.Printf("debug: unknown command %q", d.cmd)
	}
}
