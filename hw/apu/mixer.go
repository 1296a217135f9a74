package apu

import (
	"fmt"
	"slices"

	"gbemu/hw/hwdefs"
)

const (
	DefaultSampleRate = 44100
	DefaultThreshold  = 1024
)

// Mixer combines the 4 channel outputs into a stereo pair of float samples,
// at a fixed sample rate. Samples are taken from the channels at the exact
// cycle they're due: the mixer keeps a fixed-point sample clock so the
// average number of cycles per sample is exactly clock/rate.
type Mixer struct {
	sampleRate uint64
	threshold  int

	acc uint64 // sample clock, in cycles*sampleRate

	left  []float32
	right []float32

	onSamples SamplesFunc
	nsamples  uint64
}

// NewMixer returns a mixer producing sampleRate samples per second, and
// calling fn each time threshold samples have been accumulated.
func NewMixer(sampleRate, threshold int, fn SamplesFunc) *Mixer {
	if sampleRate <= 0 || sampleRate > hwdefs.ClockRate {
		panic(fmt.Sprintf("invalid sample rate %d", sampleRate))
	}
	if threshold <= 0 {
		panic(fmt.Sprintf("invalid sample threshold %d", threshold))
	}
	return &Mixer{
		sampleRate: uint64(sampleRate),
		threshold:  threshold,
		left:       make([]float32, 0, threshold),
		right:      make([]float32, 0, threshold),
		onSamples:  fn,
	}
}

func (m *Mixer) Reset() {
	m.acc = 0
	m.nsamples = 0
	m.left = m.left[:0]
	m.right = m.right[:0]
}

func (m *Mixer) SampleRate() int { return int(m.sampleRate) }

// NumSamples returns the total number of samples produced since last reset.
func (m *Mixer) NumSamples() uint64 { return m.nsamples }

// cyclesToSample returns the number of cycles before the next sample is due.
func (m *Mixer) cyclesToSample() uint32 {
	return uint32((hwdefs.ClockRate - m.acc + m.sampleRate - 1) / m.sampleRate)
}

// run advances the sample clock and reports whether a sample is due. cycles
// must not be greater than cyclesToSample.
func (m *Mixer) run(cycles uint32) bool {
	m.acc += uint64(cycles) * m.sampleRate
	if m.acc < hwdefs.ClockRate {
		return false
	}
	m.acc -= hwdefs.ClockRate
	if m.acc >= hwdefs.ClockRate {
		panic("mixer sample overrun")
	}
	return true
}

// mix produces one stereo sample from the channel outputs, routed and scaled
// as per NR51 and NR50.
func (m *Mixer) mix(out [hwdefs.NumAudioChannels]float32, nr50, nr51 uint8, powered bool) {
	if !powered {
		m.push(0, 0)
		return
	}

	var left, right float32
	for ch := range hwdefs.NumAudioChannels {
		if nr51&(0x10<<ch) != 0 {
			left += out[ch]
		}
		if nr51&(0x01<<ch) != 0 {
			right += out[ch]
		}
	}

	lvol := float32((nr50>>4)&0x07) / 7
	rvol := float32(nr50&0x07) / 7
	m.push(clamp(left*lvol/4), clamp(right*rvol/4))
}

func clamp(v float32) float32 {
	return min(max(v, -1), 1)
}

func (m *Mixer) push(left, right float32) {
	m.left = append(m.left, left)
	m.right = append(m.right, right)
	m.nsamples++

	if len(m.left) >= m.threshold {
		m.Flush()
	}
}

// Flush delivers the accumulated samples, if any, regardless of the
// threshold.
func (m *Mixer) Flush() {
	if len(m.left) == 0 {
		return
	}
	if m.onSamples != nil {
		m.onSamples(slices.Clone(m.left), slices.Clone(m.right))
	}
	m.left = m.left[:0]
	m.right = m.right[:0]
}
