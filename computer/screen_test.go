package computer

import (
	"testing"
	"time"

	"github.com/nf/hackfill/hack"
)

func TestDraw(t *testing.T) {
	var (
		words = make([]int16, hack.ScreenWords)
		m     = NewScreenImage()
	)
	words[0] = 1                     // x=0, y=0
	words[hack.RowWords+1] = -0x8000 // x=31, y=1
	words[hack.ScreenWords-1] = -1   // last 16 pixels
	Draw(m, words)

	black := map[[2]int]bool{{0, 0}: true, {31, 1}: true}
	for x := hack.ScreenWidth - 16; x < hack.ScreenWidth; x++ {
		black[[2]int{x, hack.ScreenHeight - 1}] = true
	}
	for y := 0; y < hack.ScreenHeight; y++ {
		for x := 0; x < hack.ScreenWidth; x++ {
			want := White
			if black[[2]int{x, y}] {
				want = Black
			}
			if g := m.GrayAt(x, y); g != want {
				t.Fatalf("pixel %d,%d = %v, want %v", x, y, g, want)
			}
			if g := Pixel(words, x, y); g != (want == Black) {
				t.Fatalf("Pixel(%d, %d) = %v, want %v", x, y, g, want == Black)
			}
		}
	}
}

func TestDisplaySync(t *testing.T) {
	var (
		d   = newDisplay()
		c   = NewFill()
		now = time.Now()
	)
	d.kbd.Press('q', 0, now)
	if !d.sync(c, now) {
		t.Errorf("first sync reported no change")
	}
	if g := c.Mem.Key(); g != 'q' {
		t.Errorf("keyboard register = %d after sync, want %d", g, 'q')
	}
	if d.sync(c, now) {
		t.Errorf("sync without screen stores reported a change")
	}
	c.Mem.Store(hack.ScreenBase, 1)
	if !d.sync(c, now) {
		t.Errorf("sync after screen store reported no change")
	}
	if g := d.scr.GrayAt(0, 0); g != Black {
		t.Errorf("pixel 0,0 = %v after sync, want %v", g, Black)
	}
	if !d.sync(NewFill(), now) {
		t.Errorf("sync of a new computer reported no change")
	}
}
