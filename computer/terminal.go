package computer

import (
	"image"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/draw"
)

// Terminal is a Frontend that draws the screen in a terminal using half
// block characters, two pixels to a cell.
type Terminal struct {
	*display

	small *image.Gray // screen scaled to the cell grid
}

// NewTerminal returns a terminal frontend. Since terminals do not report key
// releases, a key counts as held until it has not repeated for a while.
func NewTerminal() *Terminal {
	t := &Terminal{display: newDisplay()}
	t.kbd.hold = keyHold
	return t
}

func (t *Terminal) Run(exit <-chan bool) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()
	s.HideCursor()

	var (
		events = make(chan tcell.Event)
		quit   = make(chan bool)
		tick   = time.NewTicker(time.Second / 60)
	)
	defer tick.Stop()
	defer close(quit)
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	dirty := true
	for {
		select {
		case <-exit:
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				s.Sync()
				dirty = true
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC {
					return nil
				}
				if code, ok := tcellKey(ev); ok {
					t.kbd.Press(code, int(ev.Key()), ev.When())
				}
			}
		case now := <-tick.C:
			select {
			case c := <-t.update:
				if t.sync(c, now) {
					dirty = true
				}
				t.updateDone <- true
			default:
				// The program is busy.
			}
			if dirty {
				t.draw(s)
				s.Show()
				dirty = false
			}
		}
	}
}

var (
	litStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorBlack)
	clearStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorWhite)
)

// draw scales the screen image to the terminal and draws it.
func (t *Terminal) draw(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	if t.small == nil || t.small.Bounds().Dx() != w || t.small.Bounds().Dy() != h*2 {
		t.small = image.NewGray(image.Rect(0, 0, w, h*2))
	}
	draw.ApproxBiLinear.Scale(t.small, t.small.Bounds(), t.scr, t.scr.Bounds(), draw.Src, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			top := t.small.GrayAt(x, y*2).Y < 0x80
			bot := t.small.GrayAt(x, y*2+1).Y < 0x80
			switch {
			case top && bot:
				s.SetContent(x, y, ' ', nil, litStyle)
			case !top && !bot:
				s.SetContent(x, y, ' ', nil, clearStyle)
			default:
				st := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
				if !top {
					st = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
				}
				s.SetContent(x, y, '▀', nil, st)
			}
		}
	}
}

// tcellKey translates a terminal key event into a Hack key code.
func tcellKey(ev *tcell.EventKey) (int16, bool) {
	switch k := ev.Key(); k {
	case tcell.KeyRune:
		return printable(ev.Rune())
	case tcell.KeyEnter:
		return KeyNewline, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace, true
	case tcell.KeyLeft:
		return KeyLeft, true
	case tcell.KeyUp:
		return KeyUp, true
	case tcell.KeyRight:
		return KeyRight, true
	case tcell.KeyDown:
		return KeyDown, true
	case tcell.KeyHome:
		return KeyHome, true
	case tcell.KeyEnd:
		return KeyEnd, true
	case tcell.KeyPgUp:
		return KeyPageUp, true
	case tcell.KeyPgDn:
		return KeyPageDown, true
	case tcell.KeyInsert:
		return KeyInsert, true
	case tcell.KeyDelete:
		return KeyDelete, true
	case tcell.KeyEscape:
		return KeyEscape, true
	default:
		if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
			return KeyF1 + int16(k-tcell.KeyF1), true
		}
	}
	return 0, false
}
