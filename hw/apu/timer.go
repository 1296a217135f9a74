package apu

// timer is a channel frequency divider. Every time it expires it reloads
// with its period and the channel steps its waveform generator.
type timer struct {
	counter uint32
	period  uint32
}

func (t *timer) reset() {
	t.counter = 0
	t.period = 0
}

// restart reloads the counter with the current period.
func (t *timer) restart() {
	t.counter = t.period
}

// run consumes *cycles until the timer expires, in which case it reloads and
// returns true. Remaining cycles are carried over to the next call, so the
// caller should loop until run returns false.
func (t *timer) run(cycles *uint32) bool {
	if t.period == 0 {
		*cycles = 0
		return false
	}
	if t.counter == 0 {
		t.counter = t.period
	}
	if *cycles >= t.counter {
		*cycles -= t.counter
		t.counter = t.period
		return true
	}

	t.counter -= *cycles
	*cycles = 0
	return false
}
