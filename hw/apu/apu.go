package apu

import (
	"gbemu/emu/log"
	"gbemu/hw/hwdefs"
	"gbemu/hw/hwio"
)

// Register addresses.
const (
	NR10 = 0xFF10
	NR11 = 0xFF11
	NR12 = 0xFF12
	NR13 = 0xFF13
	NR14 = 0xFF14
	NR21 = 0xFF16
	NR22 = 0xFF17
	NR23 = 0xFF18
	NR24 = 0xFF19
	NR30 = 0xFF1A
	NR31 = 0xFF1B
	NR32 = 0xFF1C
	NR33 = 0xFF1D
	NR34 = 0xFF1E
	NR41 = 0xFF20
	NR42 = 0xFF21
	NR43 = 0xFF22
	NR44 = 0xFF23
	NR50 = 0xFF24
	NR51 = 0xFF25
	NR52 = 0xFF26
)

// Bits always read back as 1, indexed from NR10. Write-only bits and unused
// addresses fall here.
var readMasks = [NR52 - NR10 + 1]uint8{
	0x80, 0x3F, 0x00, 0xFF, 0xBF, // NR10-NR14
	0xFF, 0x3F, 0x00, 0xFF, 0xBF, // $FF15, NR21-NR24
	0x7F, 0xFF, 0x9F, 0xFF, 0xBF, // NR30-NR34
	0xFF, 0xFF, 0x00, 0x00, 0xBF, // $FF1F, NR41-NR44
	0x00, 0x00, 0x70, //             NR50-NR52
}

type APU struct {
	mixer *Mixer
	regs  *hwio.Table

	Square1 squareChannel
	Square2 squareChannel
	Wave    waveChannel
	Noise   noiseChannel

	seq     frameSequencer
	powered bool

	NR50    hwio.Reg8 `hwio:"offset=0x14"`
	NR51    hwio.Reg8 `hwio:"offset=0x15"`
	NR52    hwio.Reg8 `hwio:"offset=0x16,rwmask=0x80,rcb,pcb,wcb"`
	WaveRAM hwio.Mem  `hwio:"offset=0x20,size=0x10"`
}

func New(mixer *Mixer) *APU {
	a := &APU{
		mixer:   mixer,
		Square1: newSquareChannel(Square1, true),
		Square2: newSquareChannel(Square2, false),
		Noise:   newNoiseChannel(),
	}

	hwio.MustInitRegs(a)
	a.Wave = newWaveChannel(a.WaveRAM.Data)

	hwio.MustInitRegs(&a.Square1)
	hwio.MustInitRegs(&a.Square2)
	hwio.MustInitRegs(&a.Wave)
	hwio.MustInitRegs(&a.Noise)

	a.regs = hwio.NewTable("apu")
	a.regs.Unmapped = &hwio.Device{
		Name:    "unused",
		ReadCb:  a.readUnused,
		PeekCb:  func(uint16) uint8 { return 0xFF },
		WriteCb: a.writeUnused,
	}
	a.regs.MapBank(0xFF10, &a.Square1, 0)
	a.regs.MapBank(0xFF10, &a.Square1, 1)
	a.regs.MapBank(0xFF15, &a.Square2, 1)
	a.regs.MapBank(0xFF1A, &a.Wave, 0)
	a.regs.MapBank(0xFF20, &a.Noise, 0)
	a.regs.MapBank(0xFF10, a, 0)

	a.Reset()
	return a
}

// Reset puts the APU in its power-up state: master enable off, all channels
// silent, wave RAM cleared.
func (a *APU) Reset() {
	a.powerOff()
	a.NR52.Value = 0
	clear(a.WaveRAM.Data)
	a.seq.reset()
	a.mixer.Reset()
}

func (a *APU) Mixer() *Mixer { return a.mixer }

func (a *APU) Powered() bool { return a.powered }

func (a *APU) readUnused(addr uint16) uint8 {
	log.ModSound.WarnZ("read from unmapped address").Hex16("addr", addr).End()
	return 0xFF
}

func (a *APU) writeUnused(addr uint16, val uint8) {
	log.ModSound.WarnZ("write to unmapped address").
		Hex16("addr", addr).
		Hex8("val", val).
		End()
}

// Read8 reads a sound register ($FF10-$FF3F). Other addresses read as 0xFF.
func (a *APU) Read8(addr uint16, peek bool) uint8 {
	val := a.regs.Read8(addr, peek)
	if addr >= NR10 && addr <= NR52 {
		val |= readMasks[addr-NR10]
	}
	return val
}

// Write8 writes a sound register ($FF10-$FF3F). While the APU is powered off,
// only NR52 and wave RAM can be written.
func (a *APU) Write8(addr uint16, val uint8) {
	if !a.powered && addr != NR52 && (addr < hwdefs.WaveStart || addr > hwdefs.SoundEnd) {
		log.ModSound.DebugZ("write ignored while powered off").
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		return
	}
	a.regs.Write8(addr, val)
}

func (a *APU) status() uint8 {
	var status uint8
	if a.Square1.enabled {
		status |= 0x01
	}
	if a.Square2.enabled {
		status |= 0x02
	}
	if a.Wave.enabled {
		status |= 0x04
	}
	if a.Noise.enabled {
		status |= 0x08
	}
	return status
}

// NR52: $FF26
func (a *APU) ReadNR52(val uint8) uint8 {
	return val&0x80 | a.status()
}

func (a *APU) PeekNR52(val uint8) uint8 {
	return a.ReadNR52(val)
}

func (a *APU) WriteNR52(old, val uint8) {
	on := val&0x80 != 0
	log.ModSound.InfoZ("write master control").Bool("on", on).End()

	switch {
	case on && !a.powered:
		a.powered = true
		a.seq.reset()
	case !on && a.powered:
		a.powerOff()
	}
}

// powerOff resets all channels and NR10-NR51. Wave RAM is preserved.
func (a *APU) powerOff() {
	a.powered = false
	a.Square1.reset()
	a.Square2.reset()
	a.Wave.reset()
	a.Noise.reset()
	a.NR50.Value = 0
	a.NR51.Value = 0
}

func (a *APU) frameSequencerTick(step FrameStep) {
	if step&LengthStep != 0 {
		a.Square1.tickLengthCounter()
		a.Square2.tickLengthCounter()
		a.Wave.tickLengthCounter()
		a.Noise.tickLengthCounter()
	}
	if step&SweepStep != 0 {
		a.Square1.tickSweep()
	}
	if step&EnvelopeStep != 0 {
		a.Square1.tickEnvelope()
		a.Square2.tickEnvelope()
		a.Noise.tickEnvelope()
	}
}

func (a *APU) outputs() [hwdefs.NumAudioChannels]float32 {
	return [hwdefs.NumAudioChannels]float32{
		Square1: a.Square1.output(),
		Square2: a.Square2.output(),
		Wave:    a.Wave.output(),
		Noise:   a.Noise.output(),
	}
}

// Tick advances the APU by the given number of master clock cycles. Channels
// are advanced up to each sample and frame sequencer boundary in turn, so a
// single long Tick is equivalent to many short ones.
func (a *APU) Tick(cycles uint32) {
	for cycles > 0 {
		n := min(cycles, a.seq.cyclesToStep(), a.mixer.cyclesToSample())

		a.Square1.run(n)
		a.Square2.run(n)
		a.Wave.run(n)
		a.Noise.run(n)

		step := a.seq.run(n)
		if a.powered && step != NoStep {
			a.frameSequencerTick(step)
		}
		if a.mixer.run(n) {
			a.mixer.mix(a.outputs(), a.NR50.Value, a.NR51.Value, a.powered)
		}
		cycles -= n
	}
}
