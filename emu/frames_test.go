package emu

import (
	"image/png"
	"os"
	"testing"

	"gbemu/hw/ppu"
)

func TestFrameHolder(t *testing.T) {
	h := NewFrameHolder()

	var fb ppu.FrameBuffer
	if _, ok := h.Take(&fb); ok {
		t.Fatal("empty holder returned a frame")
	}

	var f1, f2 ppu.FrameBuffer
	f1.Set(0, 0, ppu.Black)
	f2.Set(1, 0, ppu.DarkGray)

	h.Put(&f1, 1)
	h.Put(&f2, 2)
	select {
	case <-h.Ready():
	default:
		t.Fatal("holder not ready")
	}

	// Modifying the source after Put doesn't affect the held copy.
	f2.Set(1, 0, ppu.White)

	n, ok := h.Take(&fb)
	if !ok || n != 2 {
		t.Fatalf("Take = %d, %t, want 2, true", n, ok)
	}
	if fb.At(0, 0) != ppu.White || fb.At(1, 0) != ppu.DarkGray {
		t.Errorf("got pixels %s %s, want white darkgray", fb.At(0, 0), fb.At(1, 0))
	}
	if h.Dropped() != 1 {
		t.Errorf("dropped = %d, want 1", h.Dropped())
	}
	if _, ok := h.Take(&fb); ok {
		t.Error("frame taken twice")
	}
}

func TestPNGSink(t *testing.T) {
	sink, err := NewPNGSink(t.TempDir(), ppu.DefaultPalette)
	if err != nil {
		t.Fatal(err)
	}

	var fb ppu.FrameBuffer
	fb.Set(0, 0, ppu.Black)
	fb.Set(159, 143, ppu.LightGray)
	if err := sink.WriteFrame(&fb, 7); err != nil {
		t.Fatal(err)
	}
	if sink.Written() != 1 {
		t.Errorf("written = %d, want 1", sink.Written())
	}

	f, err := os.Open(sink.Path(7))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 144 {
		t.Fatalf("image size = %v, want 160x144", b)
	}

	tests := []struct {
		x, y int
		want ppu.Shade
	}{
		{0, 0, ppu.Black},
		{1, 0, ppu.White},
		{159, 143, ppu.LightGray},
	}
	for _, tt := range tests {
		r, g, b, _ := img.At(tt.x, tt.y).RGBA()
		want := ppu.DefaultPalette[tt.want]
		if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
			t.Errorf("pixel(%d,%d) = %d,%d,%d, want %v", tt.x, tt.y, r>>8, g>>8, b>>8, want)
		}
	}
}
