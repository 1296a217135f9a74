package emu

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"gbemu/emu/log"
	"gbemu/hw"
	"gbemu/hw/apu"
	"gbemu/hw/hwdefs"
	"gbemu/hw/ppu"
)

// Session runs a trace on a console. Emulation runs in its own goroutine,
// frames and audio are handed to the sinks through a FrameHolder and an
// AudioQueue.
type Session struct {
	Console *hw.Console

	trace  *Trace
	frames int // minimum number of frames to run

	holder *FrameHolder
	queue  *AudioQueue
	rc     *RateConverter
	png    *PNGSink
	wav    *WAVSink

	nframes atomic.Uint64
	samples uint64
	lastCRC uint32

	// sink side buffers
	left, right []float32
	frame       ppu.FrameBuffer
}

// NewSession prepares a session running tr for at least frames frames (or
// the trace frame count, whichever is greater). Sinks are created according
// to cfg.
func NewSession(cfg Config, tr *Trace, frames int) (*Session, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}

	s := &Session{
		trace:  tr,
		frames: max(frames, tr.Frames),
		holder: NewFrameHolder(),
		queue:  NewAudioQueue(max(1, int(cfg.Audio.QueueSeconds*float64(cfg.Audio.SampleRate)))),
	}

	mixer := apu.NewMixer(cfg.Audio.SampleRate, cfg.Audio.Threshold, s.onSamples)
	s.Console = hw.NewConsole(s.onFrame, mixer)
	s.Console.PPU.Debug = cfg.Debug.DebugToggles()

	var err error
	s.rc, err = NewRateConverter(cfg.Audio.SampleRate, cfg.Audio.OutputRate)
	if err != nil {
		return nil, err
	}

	if cfg.Video.PNGDir != "" {
		pal, err := cfg.Video.RGBPalette()
		if err != nil {
			return nil, err
		}
		if s.png, err = NewPNGSink(cfg.Video.PNGDir, pal); err != nil {
			return nil, err
		}
	}
	if cfg.Audio.WAVPath != "" {
		if s.wav, err = NewWAVSink(cfg.Audio.WAVPath, cfg.Audio.OutputRate); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddLogContext implements log.Context.
func (s *Session) AddLogContext(z *log.EntryZ) {
	z.Uint("frame", uint(s.nframes.Load()))
}

func (s *Session) onFrame(fb *ppu.FrameBuffer) {
	n := s.nframes.Add(1)
	s.lastCRC = FrameCRC(fb)
	s.holder.Put(fb, n)
}

func (s *Session) onSamples(left, right []float32) {
	s.samples += uint64(len(left))
	s.queue.Push(left, right)
}

// Run runs the session until the trace ends and the requested number of
// frames has been delivered, or ctx is canceled.
func (s *Session) Run(ctx context.Context) (*Report, error) {
	log.AddContext(s)
	defer log.RemoveContext(s)

	start := time.Now()
	done := make(chan struct{})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(done)
		return s.emulate(ctx)
	})
	g.Go(func() error {
		return s.drain(ctx, done)
	})
	err := g.Wait()

	if s.wav != nil {
		err = errors.Join(err, s.wav.Close())
	}
	if err != nil {
		return nil, err
	}

	r := &Report{
		Trace:          s.trace.Name,
		Frames:         s.nframes.Load(),
		Cycles:         s.Console.Cycles(),
		DroppedFrames:  s.holder.Dropped(),
		Samples:        s.samples,
		DroppedSamples: s.queue.Dropped(),
		OutputRate:     s.rc.OutputRate(),
		APUPowered:     s.Console.APU.Powered(),
		LastFrameCRC:   s.lastCRC,
		Elapsed:        time.Since(start),
	}
	if s.png != nil {
		r.PNGFrames = s.png.Written()
	}
	if s.wav != nil {
		r.WAVSamples = s.wav.Samples()
	}
	log.ModEmu.InfoZ("session complete").
		Uint("frames", uint(r.Frames)).
		Duration("elapsed", r.Elapsed).
		End()
	return r, nil
}

func (s *Session) emulate(ctx context.Context) error {
	c := s.Console
	for i, step := range s.trace.Steps {
		for _, w := range step.Writes {
			c.Bus.Write8(w.Addr, w.Val)
		}
		if err := s.tick(ctx, step.Wait); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}

	for s.nframes.Load() < uint64(s.frames) {
		if err := s.tick(ctx, hwdefs.CyclesPerLine); err != nil {
			return err
		}
	}

	c.APU.Mixer().Flush()
	return nil
}

// tick runs the console one line at a time so that cancellation is noticed
// quickly.
func (s *Session) tick(ctx context.Context, cycles uint32) error {
	for cycles > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(cycles, hwdefs.CyclesPerLine)
		s.Console.Tick(n)
		cycles -= n
	}
	return nil
}

func (s *Session) drain(ctx context.Context, done <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.holder.Ready():
			if err := s.drainFrame(); err != nil {
				return err
			}
		case <-done:
			if err := s.drainFrame(); err != nil {
				return err
			}
			return s.drainAudio()
		}
		if err := s.drainAudio(); err != nil {
			return err
		}
	}
}

func (s *Session) drainFrame() error {
	n, ok := s.holder.Take(&s.frame)
	if !ok || s.png == nil {
		return nil
	}
	return s.png.WriteFrame(&s.frame, n)
}

func (s *Session) drainAudio() error {
	s.left, s.right = s.queue.Pop(s.left[:0], s.right[:0])
	if len(s.left) == 0 || s.wav == nil {
		return nil
	}
	return s.wav.Write(s.rc.Convert(s.left, s.right))
}
