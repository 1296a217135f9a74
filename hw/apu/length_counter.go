package apu

// lengthCounter silences a channel after a programmable duration. It is
// clocked at 256Hz by the frame sequencer.
type lengthCounter struct {
	max     uint16 // 64, or 256 for the wave channel
	counter uint16
	enabled bool // NRx4 bit 6
}

func (lc *lengthCounter) reset() {
	lc.counter = 0
	lc.enabled = false
}

// load sets the counter from the value written to NRx1.
func (lc *lengthCounter) load(val uint8) {
	mask := uint16(lc.max - 1)
	lc.counter = lc.max - uint16(val)&mask
}

func (lc *lengthCounter) trigger() {
	if lc.counter == 0 {
		lc.counter = lc.max
	}
}

// tick decrements the counter if length is enabled, and reports whether it
// just reached zero.
func (lc *lengthCounter) tick() bool {
	if !lc.enabled || lc.counter == 0 {
		return false
	}
	lc.counter--
	return lc.counter == 0
}
