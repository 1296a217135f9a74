package emu

import (
	"fmt"
	"hash/crc32"
	"io"
	"time"

	"github.com/go-faster/jx"

	"gbemu/hw/ppu"
)

// Report summarizes a session run.
type Report struct {
	Trace  string
	Frames uint64 // frames delivered by the PPU
	Cycles uint64

	DroppedFrames uint64 // frames overwritten before reaching the sinks
	PNGFrames     int

	Samples        uint64 // samples produced by the mixer, per side
	DroppedSamples uint64 // samples dropped by the audio queue
	OutputRate     int
	WAVSamples     int

	APUPowered   bool
	LastFrameCRC uint32 // CRC-32 of the last frame shades
	Elapsed      time.Duration
}

// FrameCRC returns the CRC-32 (IEEE) of the shades of fb, in raster order.
func FrameCRC(fb *ppu.FrameBuffer) uint32 {
	pix := fb.Pixels()
	buf := make([]byte, len(pix))
	for i, s := range pix {
		buf[i] = byte(s)
	}
	return crc32.ChecksumIEEE(buf)
}

func (r *Report) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("trace", func(e *jx.Encoder) { e.Str(r.Trace) })
		e.Field("frames", func(e *jx.Encoder) { e.UInt64(r.Frames) })
		e.Field("cycles", func(e *jx.Encoder) { e.UInt64(r.Cycles) })
		e.Field("video", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("dropped_frames", func(e *jx.Encoder) { e.UInt64(r.DroppedFrames) })
				e.Field("png_frames", func(e *jx.Encoder) { e.Int(r.PNGFrames) })
				e.Field("last_frame_crc32", func(e *jx.Encoder) { e.Str(fmt.Sprintf("%08x", r.LastFrameCRC)) })
			})
		})
		e.Field("audio", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("powered", func(e *jx.Encoder) { e.Bool(r.APUPowered) })
				e.Field("samples", func(e *jx.Encoder) { e.UInt64(r.Samples) })
				e.Field("dropped_samples", func(e *jx.Encoder) { e.UInt64(r.DroppedSamples) })
				e.Field("output_rate", func(e *jx.Encoder) { e.Int(r.OutputRate) })
				e.Field("wav_samples", func(e *jx.Encoder) { e.Int(r.WAVSamples) })
			})
		})
		e.Field("elapsed", func(e *jx.Encoder) { e.Str(r.Elapsed.String()) })
	})
}

// WriteTo writes the report as indented JSON.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var e jx.Encoder
	e.SetIdent(2)
	r.Encode(&e)
	n, err := w.Write(append(e.Bytes(), '\n'))
	return int64(n), err
}
