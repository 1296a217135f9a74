package apu

// FrameStep holds the units clocked by one frame sequencer step.
type FrameStep uint8

const (
	NoStep     FrameStep = 0
	LengthStep FrameStep = 1 << iota
	SweepStep
	EnvelopeStep
)

// sequencerCycles is the number of master clock cycles between 2 steps of the
// frame sequencer (512Hz).
const sequencerCycles = 8192

var sequencerSteps = [8]FrameStep{
	LengthStep,
	NoStep,
	LengthStep | SweepStep,
	NoStep,
	LengthStep,
	NoStep,
	LengthStep | SweepStep,
	EnvelopeStep,
}

// frameSequencer clocks the length counters at 256Hz, the sweep unit at
// 128Hz and the envelopes at 64Hz.
type frameSequencer struct {
	counter uint32 // cycles until next step
	step    uint8
}

func (fs *frameSequencer) reset() {
	fs.counter = sequencerCycles
	fs.step = 0
}

// cyclesToStep returns the number of cycles before the next step.
func (fs *frameSequencer) cyclesToStep() uint32 {
	return fs.counter
}

// run advances the sequencer by the given number of cycles, which must not
// be greater than cyclesToStep. It returns the units to clock if a step
// occurred.
func (fs *frameSequencer) run(cycles uint32) FrameStep {
	if cycles > fs.counter {
		panic("frame sequencer step overrun")
	}

	fs.counter -= cycles
	if fs.counter != 0 {
		return NoStep
	}

	fs.counter = sequencerCycles
	cur := sequencerSteps[fs.step]
	fs.step = (fs.step + 1) & 0x07
	return cur
}
