package apu

// envelope controls the volume of the square and noise channels. It is
// clocked at 64Hz by the frame sequencer.
type envelope struct {
	initial uint8 // NRx2 bits 7-4
	up      bool  // NRx2 bit 3
	period  uint8 // NRx2 bits 2-0, 0 freezes the volume

	volume uint8
	timer  uint8
}

func (env *envelope) init(val uint8) {
	env.initial = val >> 4
	env.up = val&0x08 != 0
	env.period = val & 0x07
}

func (env *envelope) reset() {
	*env = envelope{}
}

func (env *envelope) restart() {
	env.volume = env.initial
	env.timer = env.period
}

func (env *envelope) tick() {
	if env.period == 0 {
		return
	}
	if env.timer > 0 {
		env.timer--
	}
	if env.timer != 0 {
		return
	}

	env.timer = env.period
	switch {
	case env.up && env.volume < 15:
		env.volume++
	case !env.up && env.volume > 0:
		env.volume--
	}
}

// dacEnabled reports whether the value written to NRx2 powers the channel
// DAC (at least one of the top five bits set).
func dacEnabled(nrx2 uint8) bool {
	return nrx2&0xF8 != 0
}
