package main

import (
	"strings"
	"testing"

	"github.com/nf/hackfill/asm"
	"github.com/nf/hackfill/computer"
	"github.com/nf/hackfill/fill"
	"github.com/nf/hackfill/hack"
)

type sentCmd struct {
	cmd  string
	addr int
}

type fakeRunner struct{ sent []sentCmd }

func (r *fakeRunner) Debug(cmd string, addr int) { r.sent = append(r.sent, sentCmd{cmd, addr}) }

// fillMachine returns a CPU running the fill program, stopped at the DRAW
// label with a key pressed.
func fillMachine(t *testing.T) (*hack.Machine, *asm.Program) {
	t.Helper()
	p, err := asm.Assemble(fill.Source)
	if err != nil {
		t.Fatal(err)
	}
	mem := &hack.Memory{}
	mem.SetKey(1)
	m := hack.NewMachine(p.Code, mem)
	if _, err := m.ExecN(12); err != nil {
		t.Fatal(err)
	}
	if m.PC != 23 {
		t.Fatalf("PC = %.4x after poll, want 0017", m.PC)
	}
	return m, p
}

func TestDebuggerCommands(t *testing.T) {
	var (
		m, p = fillMachine(t)
		r    = &fakeRunner{}
		d    = newDebugger()
	)
	d.run = r
	d.setSymbols(p.Symbols)

	last := func() sentCmd {
		t.Helper()
		if len(r.sent) == 0 {
			t.Fatal("no command sent")
		}
		return r.sent[len(r.sent)-1]
	}

	d.command("b DRAW")
	if g, want := last(), (sentCmd{"b", 23}); g != want {
		t.Errorf("b DRAW sent %v, want %v", g, want)
	}
	d.command("break 0x0c")
	if g, want := last(), (sentCmd{"break", 12}); g != want {
		t.Errorf("break 0x0c sent %v, want %v", g, want)
	}
	d.command("b DRAW")

	n := len(r.sent)
	d.command("b NOWHERE")
	d.command("w nothing")
	if len(r.sent) != n {
		t.Errorf("unresolved symbols sent %v", r.sent[n:])
	}

	d.command("w count")
	d.command("watch KBD")
	m.Mem.Store(17, 8192)
	want := "DRAW [0017] brk!\n" +
		"count [0011]   8192 2000\n" +
		"KBD [6000]      1 0001"
	if g := d.watchContent(m); g != want {
		t.Errorf("watch pane:\n%s\nwant:\n%s", g, want)
	}

	d.command("b")
	if g, want := last(), (sentCmd{"b", -1}); g != want {
		t.Errorf("b sent %v, want %v", g, want)
	}
	d.command("w")
	if g := d.watchContent(m); g != "" {
		t.Errorf("watch pane after clearing = %q, want empty", g)
	}

	for _, cmd := range []string{"s", "c", "pause", "r"} {
		d.command(cmd)
		if g, want := last(), (sentCmd{cmd, -1}); g != want {
			t.Errorf("%s sent %v, want %v", cmd, g, want)
		}
	}
}

func TestStateMsg(t *testing.T) {
	m, p := fillMachine(t)
	syms := symbols(p.Symbols)

	msg := stateMsg(syms, m, computer.BreakState)
	lines := strings.Split(msg, "\n")
	for _, s := range []string{"0017 @16", "[break]", "DRAW (0017) -> addr (0010)"} {
		if !strings.Contains(lines[0], s) {
			t.Errorf("state line %q does not contain %q", lines[0], s)
		}
	}
	if want := "A:     23  D:      1  M:      0"; lines[1] != want {
		t.Errorf("register line = %q, want %q", lines[1], want)
	}

	// Step to the store through addr.
	if _, err := m.ExecN(2); err != nil {
		t.Fatal(err)
	}
	msg = stateMsg(syms, m, computer.DebugState)
	if !strings.HasPrefix(msg, "0019 M=-1") || !strings.Contains(msg, "[debug]") {
		t.Errorf("state after step = %q", msg)
	}
	if !strings.Contains(msg, "A:  16384") {
		t.Errorf("state after step = %q, want A at the screen base", msg)
	}

	m.ROM[m.PC] = 0x8000
	msg = stateMsg(syms, m, computer.HaltState)
	if !strings.Contains(msg, "[HALT!] "+hack.BadInstr.String()) {
		t.Errorf("halt state = %q, want the halt condition named", msg)
	}
}
