package apu

type Channel uint8

const (
	Square1 Channel = iota
	Square2
	Wave
	Noise
)

func (ch Channel) String() string {
	switch ch {
	case Square1:
		return "square1"
	case Square2:
		return "square2"
	case Wave:
		return "wave"
	case Noise:
		return "noise"
	}
	return "<invalid>"
}

// SamplesFunc receives the left and right sample buffers once they reach the
// delivery threshold. The slices are owned by the callee.
type SamplesFunc func(left, right []float32)

// frequency returns the 11-bit frequency held by the NRx3/NRx4 pair.
func frequency(lo, hi uint8) uint16 {
	return uint16(hi&0x07)<<8 | uint16(lo)
}
