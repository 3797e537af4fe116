// Package fill implements a keyboard-driven screen fill controller.
//
// The controller polls a keyboard register and, if any key is pressed,
// sweeps every word of a video region to the lit value; otherwise it sweeps
// the region to the cleared value. It then polls again, forever.
package fill

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/nf/hackfill/hack"
)

// Source is the controller written as a Hack assembly program, for running
// on a hack.Machine.
//
//go:embed Fill.asm
var Source []byte

// Word values written by a pass.
const (
	Lit     int16 = -1 // all pixels on
	Cleared int16 = 0  // all pixels off
)

// State is a state of the controller.
type State int

const (
	Poll  State = iota // read the keyboard register
	Fill               // sweep the region with Lit
	Clear              // sweep the region with Cleared
)

func (s State) String() string {
	switch s {
	case Poll:
		return "poll"
	case Fill:
		return "fill"
	case Clear:
		return "clear"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Controller drives a video region from a keyboard register.
// It is not safe for concurrent use.
type Controller struct {
	mem    hack.Bus
	screen hack.Region
	kbd    uint16

	state  State
	fills  int
	clears int
}

// addrSpace is the number of addressable words.
const addrSpace = 1 << 16

// NewController returns a controller in the Poll state that writes the
// screen region of mem and reads the keyboard register at kbd.
func NewController(mem hack.Bus, screen hack.Region, kbd uint16) (*Controller, error) {
	switch {
	case screen.Len == 0:
		return nil, fmt.Errorf("empty video region at %.4x", screen.Base)
	case screen.End() > addrSpace:
		return nil, fmt.Errorf("video region %v exceeds the address space", screen)
	case screen.Contains(kbd):
		return nil, fmt.Errorf("keyboard register %.4x lies within video region %v", kbd, screen)
	}
	return &Controller{mem: mem, screen: screen, kbd: kbd}, nil
}

// State returns the state the next call to Step will act on.
func (c *Controller) State() State { return c.state }

// Passes returns the number of completed fill and clear passes.
func (c *Controller) Passes() (fills, clears int) { return c.fills, c.clears }

// Step performs one transition: a keyboard poll in the Poll state, or a
// whole pass in the Fill and Clear states. It returns the new state.
// A pass is never cut short, even if the key changes while it runs.
func (c *Controller) Step() State {
	switch c.state {
	case Poll:
		if c.mem.Load(c.kbd) != 0 {
			c.state = Fill
		} else {
			c.state = Clear
		}
	case Fill:
		Pass(c.mem, c.screen, Lit)
		c.fills++
		c.state = Poll
	case Clear:
		Pass(c.mem, c.screen, Cleared)
		c.clears++
		c.state = Poll
	}
	return c.state
}

// Cycle steps the controller until it is back in the Poll state, which from
// Poll means one keyboard read followed by one complete pass.
func (c *Controller) Cycle() {
	for c.Step() != Poll {
	}
}

// Run cycles the controller until ctx is done. If tick is non-nil Run waits
// for a value from it between cycles.
func (c *Controller) Run(ctx context.Context, tick <-chan time.Time) error {
	for {
		c.Cycle()
		if tick == nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		}
	}
}

// Pass writes v to every word of r, starting at r.Base and moving up one
// word at a time, and returns the number of words written. A region that
// runs past the end of the address space is not written at all.
func Pass(mem hack.Bus, r hack.Region, v int16) int {
	if r.Len == 0 || r.End() > addrSpace {
		return 0
	}
	var (
		addr = r.Base
		n    = r.Len
		w    int
	)
	for {
		mem.Store(addr, v)
		w++
		addr++
		if n--; n == 0 {
			return w
		}
	}
}
