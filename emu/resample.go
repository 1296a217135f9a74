package emu

import (
	"fmt"
	"slices"

	"github.com/arl/blip"
)

const (
	// Input samples processed per blip frame.
	rateChunk = 1024

	// Amplitude of a full scale sample. Half of the int16 range leaves room
	// for the overshoot of band-limited steps.
	rateAmplitude = 16384
)

// RateConverter converts the float stereo stream produced by the APU mixer
// into a band-limited, 16-bit interleaved stereo stream at another rate.
type RateConverter struct {
	left, right  *blip.Buffer
	prevL, prevR int32

	inRate, outRate int
	out             []int16
}

func NewRateConverter(inRate, outRate int) (*RateConverter, error) {
	if inRate <= 0 || outRate <= 0 || inRate/outRate >= blip.MaxRatio {
		return nil, fmt.Errorf("invalid rate conversion %d Hz -> %d Hz", inRate, outRate)
	}

	size := rateChunk*outRate/inRate + 16
	rc := &RateConverter{
		left:    blip.NewBuffer(size),
		right:   blip.NewBuffer(size),
		inRate:  inRate,
		outRate: outRate,
	}
	rc.left.SetRates(float64(inRate), float64(outRate))
	rc.right.SetRates(float64(inRate), float64(outRate))
	return rc, nil
}

func (rc *RateConverter) InputRate() int  { return rc.inRate }
func (rc *RateConverter) OutputRate() int { return rc.outRate }

// Reset clears the converter state.
func (rc *RateConverter) Reset() {
	rc.left.Clear()
	rc.right.Clear()
	rc.prevL, rc.prevR = 0, 0
}

// Convert resamples left and right and returns the interleaved result. The
// returned slice is only valid until the next call.
func (rc *RateConverter) Convert(left, right []float32) []int16 {
	if len(left) != len(right) {
		panic("rate converter: mismatched channel lengths")
	}

	rc.out = rc.out[:0]
	for len(left) > 0 {
		n := min(len(left), rateChunk)
		rc.convert(left[:n], right[:n])
		left, right = left[n:], right[n:]
	}
	return rc.out
}

func (rc *RateConverter) convert(left, right []float32) {
	for i := range left {
		if l := amplitude(left[i]); l != rc.prevL {
			rc.left.AddDelta(uint64(i), l-rc.prevL)
			rc.prevL = l
		}
		if r := amplitude(right[i]); r != rc.prevR {
			rc.right.AddDelta(uint64(i), r-rc.prevR)
			rc.prevR = r
		}
	}
	rc.left.EndFrame(len(left))
	rc.right.EndFrame(len(right))

	n := rc.left.SamplesAvailable()
	off := len(rc.out)
	rc.out = slices.Grow(rc.out, 2*n)[:off+2*n]
	rc.left.ReadSamples(rc.out[off:], n, blip.Stereo)
	rc.right.ReadSamples(rc.out[off+1:], n, blip.Stereo)
}

func amplitude(s float32) int32 {
	return int32(max(-1, min(1, s)) * rateAmplitude)
}
