package ppu

import (
	"image"
	"image/color"

	"gbemu/hw/hwdefs"
)

// Shade is one of the 4 gray levels of the LCD.
type Shade uint8

const (
	White Shade = iota
	LightGray
	DarkGray
	Black
)

func (s Shade) String() string {
	switch s {
	case White:
		return "white"
	case LightGray:
		return "lightgray"
	case DarkGray:
		return "darkgray"
	case Black:
		return "black"
	}
	return "<invalid>"
}

const (
	width  = hwdefs.ScreenWidth
	height = hwdefs.ScreenHeight
)

// FrameBuffer holds the shades of a 160x144 frame. It also keeps the raw
// (pre-palette) color index of background and window pixels, which sprite
// priority is resolved against.
type FrameBuffer struct {
	pix [width * height]Shade
	idx [width * height]uint8
}

func (fb *FrameBuffer) At(x, y int) Shade {
	return fb.pix[y*width+x]
}

func (fb *FrameBuffer) Set(x, y int, s Shade) {
	fb.pix[y*width+x] = s
}

// ColorIndex returns the raw color index (0-3) of the background or window
// pixel at (x, y).
func (fb *FrameBuffer) ColorIndex(x, y int) uint8 {
	return fb.idx[y*width+x]
}

func (fb *FrameBuffer) setBG(x, y int, s Shade, idx uint8) {
	fb.pix[y*width+x] = s
	fb.idx[y*width+x] = idx
}

// Reset clears all pixels to White.
func (fb *FrameBuffer) Reset() {
	clear(fb.pix[:])
	clear(fb.idx[:])
}

func (fb *FrameBuffer) Pixels() []Shade {
	return fb.pix[:]
}

// Palette maps shades to display colors.
type Palette [4]color.RGBA

// DefaultPalette is a plain gray scale.
var DefaultPalette = Palette{
	White:     {R: 255, G: 255, B: 255, A: 255},
	LightGray: {R: 192, G: 192, B: 192, A: 255},
	DarkGray:  {R: 96, G: 96, B: 96, A: 255},
	Black:     {R: 0, G: 0, B: 0, A: 255},
}

// RGBA converts the frame using the given palette, reusing img if it's not
// nil.
func (fb *FrameBuffer) RGBA(pal Palette, img *image.RGBA) *image.RGBA {
	if img == nil {
		img = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	for i, s := range fb.pix {
		c := pal[s]
		off := (i/width)*img.Stride + (i%width)*4
		img.Pix[off+0] = c.R
		img.Pix[off+1] = c.G
		img.Pix[off+2] = c.B
		img.Pix[off+3] = c.A
	}
	return img
}

// shade returns the shade the palette register pal maps color index idx to.
func shade(pal uint8, idx uint8) Shade {
	if idx > 3 {
		panic("invalid color index")
	}
	return Shade((pal >> (idx * 2)) & 0x03)
}

// colorIndex returns the color index of pixel x (0 is leftmost) of a tile row
// made of bytes lo and hi.
func colorIndex(lo, hi uint8, x uint8) uint8 {
	bit := 7 - x
	return (hi>>bit&1)<<1 | lo>>bit&1
}
