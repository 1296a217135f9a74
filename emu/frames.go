package emu

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"gbemu/emu/log"
	"gbemu/hw/ppu"
)

// FrameHolder is a single slot holding the latest frame produced by the
// emulation loop. A frame not taken by the consumer before the next one
// arrives is overwritten.
type FrameHolder struct {
	mu      sync.Mutex
	frame   ppu.FrameBuffer
	number  uint64 // number of the frame in the slot
	pending bool

	dropped uint64
	ready   chan struct{}
}

func NewFrameHolder() *FrameHolder {
	return &FrameHolder{ready: make(chan struct{}, 1)}
}

// Put copies fb into the slot. number identifies the frame.
func (h *FrameHolder) Put(fb *ppu.FrameBuffer, number uint64) {
	h.mu.Lock()
	if h.pending {
		h.dropped++
	}
	h.frame = *fb
	h.number = number
	h.pending = true
	h.mu.Unlock()

	select {
	case h.ready <- struct{}{}:
	default:
	}
}

// Ready is signaled when a frame has been put.
func (h *FrameHolder) Ready() <-chan struct{} { return h.ready }

// Take copies the pending frame, if any, into fb and reports its number.
func (h *FrameHolder) Take(fb *ppu.FrameBuffer) (uint64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.pending {
		return 0, false
	}
	*fb = h.frame
	h.pending = false
	return h.number, true
}

// Dropped returns the number of frames overwritten before being taken.
func (h *FrameHolder) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// PNGSink writes frames as PNG files in a directory.
type PNGSink struct {
	dir     string
	pal     ppu.Palette
	img     *image.RGBA
	written int
}

// NewPNGSink creates dir if needed.
func NewPNGSink(dir string, pal ppu.Palette) (*PNGSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("png sink: %w", err)
	}
	return &PNGSink{dir: dir, pal: pal}, nil
}

// Path returns the path of the file for frame number n.
func (s *PNGSink) Path(n uint64) string {
	return filepath.Join(s.dir, fmt.Sprintf("frame_%05d.png", n))
}

// Written returns the number of frames written so far.
func (s *PNGSink) Written() int { return s.written }

// WriteFrame encodes fb as frame number n.
func (s *PNGSink) WriteFrame(fb *ppu.FrameBuffer, n uint64) (err error) {
	path := s.Path(n)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("png sink: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("png sink: %w", cerr)
		}
	}()

	s.img = fb.RGBA(s.pal, s.img)
	if err := png.Encode(f, s.img); err != nil {
		return fmt.Errorf("png sink: %s: %w", path, err)
	}
	s.written++
	log.ModEmu.DebugZ("frame written").String("path", path).End()
	return nil
}
