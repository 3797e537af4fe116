package computer

import (
	"fmt"
	"image"
	"log"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/nf/hackfill/hack"
)

// GUI is a Frontend that shows the screen in a window.
type GUI struct {
	*display

	title string
	scale int

	buf   screen.Buffer
	tex   screen.Texture
	dirty bool
}

// NewGUI returns a frontend that opens a window with the given title,
// initially scale times the size of the Hack screen.
func NewGUI(title string, scale int) *GUI {
	if scale < 1 {
		scale = 1
	}
	return &GUI{display: newDisplay(), title: title, scale: scale}
}

func (g *GUI) Run(exit <-chan bool) error {
	var runErr error
	driver.Main(func(s screen.Screen) {
		w, err := s.NewWindow(&screen.NewWindowOptions{
			Title:  g.title,
			Width:  hack.ScreenWidth * g.scale,
			Height: hack.ScreenHeight * g.scale,
		})
		if err != nil {
			runErr = err
			return
		}
		defer w.Release()

		dim := image.Point{hack.ScreenWidth, hack.ScreenHeight}
		if g.buf, err = s.NewBuffer(dim); err != nil {
			runErr = err
			return
		}
		if g.tex, err = s.NewTexture(dim); err != nil {
			runErr = err
			return
		}
		defer g.release()

		type update struct{}
		done := make(chan bool)
		defer close(done)
		go func() {
			t := time.NewTicker(time.Second / 60)
			defer t.Stop()
			for {
				select {
				case <-t.C:
					w.Send(update{})
				case <-exit:
					w.Send(update{})
					return
				case <-done:
					return
				}
			}
		}()

		var sz size.Event
		for {
			e := w.NextEvent()

			select {
			case <-exit:
				return
			default:
			}

			switch e := e.(type) {
			case size.Event:
				sz = e
				if sz.WidthPx+sz.HeightPx == 0 {
					return
				}
				g.dirty = true

			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}

			case key.Event:
				if e.Code == key.CodeC && e.Modifiers&key.ModControl != 0 {
					return
				}
				shinyEvent(&g.kbd, e, time.Now())

			case paint.Event:
				g.dirty = true

			case update:
				select {
				case c := <-g.update:
					if g.sync(c, time.Now()) {
						draw.Copy(g.buf.RGBA(), image.Point{}, g.scr, g.scr.Bounds(), draw.Src, nil)
						g.tex.Upload(image.Point{}, g.buf, g.buf.Bounds())
						g.dirty = true
					}
					g.updateDone <- true
				default:
					// The program is busy.
				}
				if g.dirty && sz.WidthPx > 0 {
					w.Scale(sz.Bounds(), g.tex, g.tex.Bounds(), draw.Src, nil)
					w.Publish()
					g.dirty = false
				}

			case error:
				log.Print(e)

			default:
				if _, ok := e.(fmt.Stringer); ok {
					log.Printf("gui: unhandled event %v", e)
				}
			}
		}
	})
	return runErr
}

func (g *GUI) release() {
	if g.tex != nil {
		g.tex.Release()
	}
	if g.buf != nil {
		g.buf.Release()
	}
}

// shinyEvent applies a window key event to k. Releases match the physical
// key, whatever character it would produce now.
func shinyEvent(k *Keyboard, e key.Event, t time.Time) {
	switch e.Direction {
	case key.DirPress:
		if code, ok := shinyKey(e); ok {
			k.Press(code, int(e.Code), t)
		}
	case key.DirRelease:
		k.Release(int(e.Code))
	}
}

// shinyKey translates a window key event into a Hack key code.
func shinyKey(e key.Event) (int16, bool) {
	switch e.Code {
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		return KeyNewline, true
	case key.CodeDeleteBackspace:
		return KeyBackspace, true
	case key.CodeLeftArrow:
		return KeyLeft, true
	case key.CodeUpArrow:
		return KeyUp, true
	case key.CodeRightArrow:
		return KeyRight, true
	case key.CodeDownArrow:
		return KeyDown, true
	case key.CodeHome:
		return KeyHome, true
	case key.CodeEnd:
		return KeyEnd, true
	case key.CodePageUp:
		return KeyPageUp, true
	case key.CodePageDown:
		return KeyPageDown, true
	case key.CodeInsert:
		return KeyInsert, true
	case key.CodeDeleteForward:
		return KeyDelete, true
	case key.CodeEscape:
		return KeyEscape, true
	}
	if e.Code >= key.CodeF1 && e.Code <= key.CodeF12 {
		return KeyF1 + int16(e.Code-key.CodeF1), true
	}
	return printable(e.Rune)
}
