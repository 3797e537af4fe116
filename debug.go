package main

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nf/hackfill/asm"
	"github.com/nf/hackfill/computer"
	"github.com/nf/hackfill/hack"
)

// debugRunner receives debugger commands; it is satisfied by
// *computer.Runner.
type debugRunner interface {
	Debug(cmd string, addr int)
}

type debugger struct {
	run debugRunner

	log   *tview.TextView
	watch *tview.TextView
	state *tview.TextView
	input *tview.InputField
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	brk *asm.Symbol

	mu      sync.Mutex
	syms    symbols
	watches []asm.Symbol
}

func (d *debugger) symbols() symbols {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.syms
}

func (d *debugger) setSymbols(s symbols) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.syms = s
}

func newDebugger() *debugger {
	d := &debugger{
		log: tview.NewTextView().
			SetMaxLines(1000),
		watch: tview.NewTextView().
			SetWrap(false).
			SetTextAlign(tview.AlignRight),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app: tview.NewApplication(),
	}
	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.watch.SetBackgroundColor(tcell.ColorDarkBlue)
	d.watch.SetBorder(true).SetTitle(" RAM ")
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	d.cols.
		AddItem(d.watch, 0, 1, false).
		AddItem(d.log, 0, 2, false)
	d.rows.
		AddItem(d.cols, 0, 1, false).
		AddItem(d.state, 3, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetAutocompleteFunc(func(t string) (entries []string) {
		if cmd, arg, ok := strings.Cut(t, " "); ok {
			switch cmd {
			case "b", "break", "w", "watch":
				for _, s := range d.symbols().withNamePrefix(arg) {
					entries = append(entries, cmd+" "+s.Name)
				}
			}
		}
		return
	})
	d.input.SetAutocompletedFunc(func(t string, index, src int) bool {
		if src != tview.AutocompletedNavigate {
			d.input.SetText(t)
		}
		return src == tview.AutocompletedEnter || src == tview.AutocompletedClick
	})
	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := d.input.GetText()
		if cmd == "" {
			return
		}
		d.input.SetText("")
		d.command(cmd)
	})
	return d
}

func (d *debugger) command(cmd string) {
	if cmd == "exit" {
		d.app.Stop()
		return
	}
	if cmd, arg, ok := strings.Cut(cmd, " "); ok {
		s, ok := d.symbols().resolve(arg)
		if !ok {
			log.Printf("invalid address %q", arg)
			return
		}
		switch cmd {
		case "b", "break":
			d.run.Debug(cmd, int(s.Addr))
			d.mu.Lock()
			d.brk = &s
			d.mu.Unlock()
			log.Printf("set break %.4x", s.Addr)
		case "w", "watch":
			d.mu.Lock()
			d.watches = append(d.watches, s)
			d.mu.Unlock()
			log.Printf("watching %.4x", s.Addr)
		default:
			log.Printf("unknown command %q", cmd)
		}
		return
	}
	switch cmd {
	case "b", "break":
		d.run.Debug(cmd, -1)
		d.mu.Lock()
		d.brk = nil
		d.mu.Unlock()
		log.Print("cleared break")
	case "w", "watch":
		d.mu.Lock()
		d.watches = nil
		d.mu.Unlock()
		log.Print("cleared watches")
	default:
		d.run.Debug(cmd, -1)
	}
}

func (d *debugger) Run() error { return d.app.Run() }

// stateColors are the text and background colours of the state pane.
var stateColors = map[computer.StateKind][2]tcell.Color{
	computer.DebugState: {tcell.ColorBlack, tcell.ColorDarkGrey},
	computer.ClearState: {tcell.ColorBlack, tcell.ColorDarkGrey},
	computer.BreakState: {tcell.ColorYellow, tcell.ColorDarkBlue},
	computer.PauseState: {tcell.ColorWhite, tcell.ColorDarkBlue},
}

// haltColors colour the state pane by the condition that halted the CPU.
var haltColors = map[hack.HaltCode][2]tcell.Color{
	hack.BadInstr:   {tcell.ColorWhite, tcell.ColorDarkRed},
	hack.PCOverflow: {tcell.ColorWhite, tcell.ColorDarkMagenta},
}

func (d *debugger) StateFunc(m *hack.Machine, k computer.StateKind) {
	watch := d.watchContent(m)
	if k == computer.QuietState {
		d.app.QueueUpdateDraw(func() { d.watch.SetText(watch) })
		return
	}
	colors, ok := stateColors[k]
	if k == computer.HaltState {
		code, _ := m.Halted()
		colors, ok = haltColors[code]
	}
	var state string
	if k != computer.ClearState {
		state = stateMsg(d.symbols(), m, k)
	}
	d.app.QueueUpdateDraw(func() {
		if ok {
			d.state.SetTextColor(colors[0])
			d.state.SetBackgroundColor(colors[1])
		}
		d.watch.SetText(watch)
		d.state.SetText(state)
	})
}

func stateMsg(syms symbols, m *hack.Machine, k computer.StateKind) string {
	var (
		in    hack.Instr
		pcSym string
		sym   string
	)
	if int(m.PC) < len(m.ROM) {
		in = m.ROM[m.PC]
	}
	if s := syms.forROM(m.PC); len(s) > 0 {
		pcSym = s[0].String() + " -> "
	}
	if in.IsA() {
		// An A-instruction may name a label or a variable.
		ss := append(syms.forROM(uint16(in)), syms.forRAM(uint16(in))...)
		for i, s := range ss {
			if i != 0 {
				sym += " "
			}
			sym += s.String()
		}
	}
	kind := "       "
	switch k {
	case computer.BreakState:
		kind = "[break]"
	case computer.DebugState:
		kind = "[debug]"
	case computer.PauseState:
		kind = "[pause]"
	case computer.HaltState:
		kind = "[HALT!]"
		if code, ok := m.Halted(); ok {
			kind += " " + code.String()
		}
	}
	return fmt.Sprintf("%.4x %-10s %s %s%s\nA: %6d  D: %6d  M: %6d\n",
		m.PC, in, kind, pcSym, sym, m.A, m.D, m.Mem.Load(uint16(m.A)))
}

func (d *debugger) watchContent(m *hack.Machine) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	if s := d.brk; s != nil {
		fmt.Fprintf(&b, "%s [%.4x] brk!", s.Name, s.Addr)
	}
	for _, w := range d.watches {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		v := m.Mem.Load(w.Addr)
		fmt.Fprintf(&b, "%s [%.4x] %6d %.4x", w.Name, w.Addr, v, uint16(v))
	}
	return b.String()
}
