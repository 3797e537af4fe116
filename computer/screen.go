package computer

import (
	"image"
	"image/color"

	"github.com/nf/hackfill/hack"
)

// Pixel values of a rendered screen.
var (
	Black = color.Gray{Y: 0x00}
	White = color.Gray{Y: 0xff}
)

// NewScreenImage returns an all-white image the size of the Hack screen.
func NewScreenImage() *image.Gray {
	m := image.NewGray(image.Rect(0, 0, hack.ScreenWidth, hack.ScreenHeight))
	for i := range m.Pix {
		m.Pix[i] = White.Y
	}
	return m
}

// Draw renders the screen words into m, which must have the bounds of an
// image returned by NewScreenImage. Each word holds sixteen pixels, least
// significant bit leftmost; a set bit is black.
func Draw(m *image.Gray, words []int16) {
	for i, w := range words {
		if i >= hack.ScreenWords {
			break
		}
		var (
			y   = i / hack.RowWords
			x   = i % hack.RowWords * 16
			row = m.Pix[y*m.Stride+x : y*m.Stride+x+16]
			b   = uint16(w)
		)
		for j := range row {
			if b&1 != 0 {
				row[j] = Black.Y
			} else {
				row[j] = White.Y
			}
			b >>= 1
		}
	}
}

// Pixel reports whether the pixel at x, y of the screen words is black.
func Pixel(words []int16, x, y int) bool {
	w := uint16(words[y*hack.RowWords+x/16])
	return w>>(x%16)&1 != 0
}
