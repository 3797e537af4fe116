package computer

import (
	"image"
	"time"
)

// Frontend displays the screen of a running Computer and supplies its
// keyboard input.
type Frontend interface {
	// Run drives the frontend until exit is closed or the user quits.
	Run(exit <-chan bool) error

	base() *display
}

// display is the state shared by all frontends.
//
// The program offers its Computer on update after every cycle. The frontend
// may only touch the Computer's memory between receiving it and sending on
// updateDone; at all other times the program may be mutating it.
type display struct {
	update     chan *Computer
	updateDone chan bool

	kbd Keyboard
	scr *image.Gray

	last *Computer
	gen  uint64
}

func newDisplay() *display {
	return &display{
		update:     make(chan *Computer),
		updateDone: make(chan bool),
		scr:        NewScreenImage(),
	}
}

func (d *display) base() *display { return d }

// sync copies the screen of c if it changed since the last sync and
// presents the held key to c. It reports whether the screen image changed.
func (d *display) sync(c *Computer, t time.Time) bool {
	c.Mem.SetKey(d.kbd.Code(t))
	gen := c.Mem.ScreenGen()
	if c == d.last && gen == d.gen {
		return false
	}
	d.last, d.gen = c, gen
	Draw(d.scr, c.Mem.Screen())
	return true
}

// Headless is a Frontend without a display. Its key input is scripted.
type Headless struct {
	*display

	rate  time.Duration
	key   func(frame int) int16
	frame func(frame int, c *Computer) bool
}

// NewHeadless returns a frontend that takes an update every rate (or as
// fast as possible if rate is zero). Before each update it presents the
// code returned by key, if non-nil. After each update it calls frame, if
// non-nil, and stops when frame returns false.
func NewHeadless(rate time.Duration, key func(frame int) int16, frame func(frame int, c *Computer) bool) *Headless {
	return &Headless{
		display: newDisplay(),
		rate:    rate,
		key:     key,
		frame:   frame,
	}
}

func (h *Headless) Run(exit <-chan bool) error {
	var tick <-chan time.Time
	if h.rate > 0 {
		t := time.NewTicker(h.rate)
		defer t.Stop()
		tick = t.C
	}
	for n := 0; ; n++ {
		if tick != nil {
			select {
			case <-tick:
			case <-exit:
				return nil
			}
		}
		select {
		case c := <-h.update:
			now := time.Now()
			if h.key != nil {
				h.kbd.Press(h.key(n), 0, now)
			}
			h.sync(c, now)
			ok := h.frame == nil || h.frame(n, c)
			h.updateDone <- true
			if !ok {
				return nil
			}
		case <-exit:
			return nil
		}
	}
}

// Screen returns the most recently synced screen image.
// It must not be called while Run is active.
func (h *Headless) Screen() *image.Gray { return h.scr }
