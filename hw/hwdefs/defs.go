package hwdefs

import "strings"

// Interrupt is a bit in the interrupt request register (IF, $FF0F).
type Interrupt uint8

const (
	VBlank Interrupt = 1 << iota
	LCDStat
	Timer
	Serial
	Joypad

	numInterrupts = 5
)

var interruptNames = [numInterrupts]string{
	"vblank",
	"stat",
	"timer",
	"serial",
	"joypad",
}

func (irq Interrupt) String() string {
	var names []string
	for i := range numInterrupts {
		if irq&(1<<i) != 0 {
			names = append(names, interruptNames[i])
		}
	}
	return strings.Join(names, "|")
}

const (
	// ClockRate is the master clock frequency, in Hz. All cycle counts are
	// expressed in units of this clock.
	ClockRate = 4194304

	ScreenWidth  = 160
	ScreenHeight = 144

	CyclesPerLine  = 456
	LinesPerFrame  = 154
	CyclesPerFrame = CyclesPerLine * LinesPerFrame // 70224
)

// Memory map.
const (
	VRAMStart  = 0x8000
	VRAMEnd    = 0x9FFF
	OAMStart   = 0xFE00
	OAMEnd     = 0xFE9F
	IFAddr     = 0xFF0F
	SoundStart = 0xFF10
	SoundEnd   = 0xFF3F
	WaveStart  = 0xFF30
	LCDStart   = 0xFF40
	DMAAddr    = 0xFF46
	LCDEnd     = 0xFF4B
)

const NumAudioChannels = 4 // Pulse1, Pulse2, Wave, Noise
