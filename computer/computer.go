// Package computer implements the Hack computer platform: data memory with
// the memory-mapped screen and keyboard, the program that drives them, and
// the frontends that display the screen and feed the keyboard.
package computer

import (
	"errors"

	"github.com/nf/hackfill/fill"
	"github.com/nf/hackfill/hack"
)

// Program is code running on the computer. Each call to Cycle runs roughly
// one frame's worth of work; between cycles the frontend may read the
// screen and update the keyboard register.
type Program interface {
	Cycle() error
}

// Computer is a Hack computer running a Program.
type Computer struct {
	Mem *hack.Memory

	prog   Program
	cpu    *cpuProgram // nil unless prog runs on the CPU
	paused bool

	debug chan debugCmd
	halt  chan bool
}

// NewFill returns a computer running the native fill controller.
func NewFill() *Computer {
	mem := &hack.Memory{}
	ctl, err := fill.NewController(mem, hack.Screen, hack.KBD)
	if err != nil {
		panic(err) // The Hack memory map is always valid.
	}
	return newComputer(mem, fillProgram{ctl})
}

// NewCPU returns a computer executing code on a Hack CPU, running speed
// instructions per cycle.
func NewCPU(code []uint16, speed int) *Computer {
	mem := &hack.Memory{}
	p := &cpuProgram{
		m:     hack.NewMachine(code, mem),
		speed: speed,
		brk:   -1,
	}
	c := newComputer(mem, p)
	c.cpu = p
	return c
}

func newComputer(mem *hack.Memory, p Program) *Computer {
	return &Computer{
		Mem:   mem,
		prog:  p,
		debug: make(chan debugCmd),
		halt:  make(chan bool),
	}
}

// Machine returns the CPU executing the program, or nil if the program
// does not run on the CPU.
func (c *Computer) Machine() *hack.Machine {
	if c.cpu == nil {
		return nil
	}
	return c.cpu.m
}

// Halt stops a running Exec.
func (c *Computer) Halt() { close(c.halt) }

// Exec runs the program until it halts or Halt is called. After each cycle
// it waits for the frontend to take an update; state is reported to sf,
// if non-nil, for programs running on the CPU.
func (c *Computer) Exec(fe Frontend, sf StateFunc) error {
	d := fe.base()
	for {
		if !c.paused {
			switch err := c.prog.Cycle(); {
			case err == errBreak:
				c.paused = true
				c.report(sf, BreakState)
			case err != nil:
				c.report(sf, HaltState)
				return err
			default:
				c.report(sf, QuietState)
			}
		}
		select {
		case d.update <- c:
			<-d.updateDone
		case cmd := <-c.debug:
			c.handleDebug(cmd, sf)
		case <-c.halt:
			return nil
		}
	}
}

func (c *Computer) report(sf StateFunc, k StateKind) {
	if sf != nil && c.cpu != nil {
		sf(c.cpu.m, k)
	}
}

type fillProgram struct {
	*fill.Controller
}

func (p fillProgram) Cycle() error {
	p.Controller.Cycle()
	return nil
}

var errBreak = errors.New("break")

type cpuProgram struct {
	m     *hack.Machine
	speed int

	brk     int // breakpoint address, or -1
	atBreak bool
}

func (p *cpuProgram) Cycle() error {
	for i := 0; i < p.speed; i++ {
		if p.brk >= 0 && int(p.m.PC) == p.brk {
			if !p.atBreak {
				p.atBreak = true
				return errBreak
			}
		}
		p.atBreak = false
		if err := p.m.Exec(); err != nil {
			return err
		}
	}
	return nil
}
