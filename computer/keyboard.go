package computer

import "time"

// Hack key codes for keys that do not produce a printable character.
// Printable characters use their ASCII code.
const (
	KeyNewline   int16 = 128
	KeyBackspace int16 = 129
	KeyLeft      int16 = 130
	KeyUp        int16 = 131
	KeyRight     int16 = 132
	KeyDown      int16 = 133
	KeyHome      int16 = 134
	KeyEnd       int16 = 135
	KeyPageUp    int16 = 136
	KeyPageDown  int16 = 137
	KeyInsert    int16 = 138
	KeyDelete    int16 = 139
	KeyEscape    int16 = 140
	KeyF1        int16 = 141 // F2..F12 follow
)

// keyHold is how long a terminal key counts as held after its last press
// or repeat. Terminals report presses but not releases.
const keyHold = 600 * time.Millisecond

// Keyboard tracks the host key currently held, as a Hack key code.
//
// A key is identified by the host's physical key number, since the
// character a key produces can change while it is held (for instance when
// Shift goes down before the key comes up).
type Keyboard struct {
	hold time.Duration // if non-zero, a key releases itself after hold

	code int16
	phys int
	at   time.Time
}

// Press records that the physical key phys went down at t, producing code.
func (k *Keyboard) Press(code int16, phys int, t time.Time) {
	k.code, k.phys, k.at = code, phys, t
}

// Release records that the physical key phys went up.
// Releasing a key other than the one held has no effect.
func (k *Keyboard) Release(phys int) {
	if k.phys == phys {
		k.code = 0
	}
}

// Code returns the code of the key held at t, or zero if none is.
func (k *Keyboard) Code(t time.Time) int16 {
	if k.hold > 0 && k.code != 0 && t.Sub(k.at) >= k.hold {
		k.code = 0
	}
	return k.code
}

func printable(r rune) (int16, bool) {
	if r >= ' ' && r < 0x7f {
		return int16(r), true
	}
	return 0, false
}
