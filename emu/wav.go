package emu

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"gbemu/emu/log"
)

const (
	wavBitDepth = 16
	wavChannels = 2
	wavPCM      = 1
)

// WAVSink records a 16-bit interleaved stereo stream into a WAV file.
type WAVSink struct {
	path    string
	f       *os.File
	enc     *wav.Encoder
	buf     audio.IntBuffer
	samples int
}

func NewWAVSink(path string, sampleRate int) (*WAVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("wav sink: %w", err)
	}

	s := &WAVSink{
		path: path,
		f:    f,
		enc:  wav.NewEncoder(f, sampleRate, wavBitDepth, wavChannels, wavPCM),
		buf: audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: wavChannels,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: wavBitDepth,
		},
	}
	log.ModSound.InfoZ("recording audio").String("path", path).Int("rate", sampleRate).End()
	return s, nil
}

// Write appends interleaved stereo samples.
func (s *WAVSink) Write(samples []int16) error {
	if len(samples) == 0 {
		return nil
	}

	s.buf.Data = s.buf.Data[:0]
	for _, v := range samples {
		s.buf.Data = append(s.buf.Data, int(v))
	}
	if err := s.enc.Write(&s.buf); err != nil {
		return fmt.Errorf("wav sink: %w", err)
	}
	s.samples += len(samples) / wavChannels
	return nil
}

// Samples returns the number of stereo samples written.
func (s *WAVSink) Samples() int { return s.samples }

// Close finalizes the WAV headers and closes the file.
func (s *WAVSink) Close() error {
	err := s.enc.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("wav sink: %s: %w", s.path, err)
	}
	log.ModSound.InfoZ("audio recorded").String("path", s.path).Int("samples", s.samples).End()
	return nil
}
