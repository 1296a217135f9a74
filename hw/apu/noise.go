package apu

import (
	"gbemu/emu/log"
	"gbemu/hw/hwio"
)

// noiseChannel generates pseudo-random 1-bit noise out of a 15-bit linear
// feedback shift register.
//
//	      Timer --> Shift Register   Length Counter
//	                    |                |
//	                    v                v
//	Envelope -------> Gate ----------> Gate --> (to mixer)
type noiseChannel struct {
	Length   hwio.Reg8 `hwio:"offset=0x00,wcb"`
	Envelope hwio.Reg8 `hwio:"offset=0x01,wcb"`
	Poly     hwio.Reg8 `hwio:"offset=0x02,wcb"`
	Control  hwio.Reg8 `hwio:"offset=0x03,wcb"`

	enabled bool
	dac     bool

	shiftReg uint16
	narrow   bool // 7-bit mode

	timer  timer
	env    envelope
	length lengthCounter
}

func newNoiseChannel() noiseChannel {
	return noiseChannel{
		length: lengthCounter{max: 64},
	}
}

// NR41
func (nc *noiseChannel) WriteLENGTH(_, val uint8) {
	nc.length.load(val)
	log.ModSound.InfoZ("write noise length").Uint16("len", nc.length.counter).End()
}

// NR42
func (nc *noiseChannel) WriteENVELOPE(_, val uint8) {
	nc.env.init(val)
	nc.dac = dacEnabled(val)
	if !nc.dac {
		nc.enabled = false
	}
	log.ModSound.InfoZ("write noise envelope").Uint8("reg", val).Bool("dac", nc.dac).End()
}

var noiseDivisors = [8]uint32{8, 16, 32, 48, 64, 80, 96, 112}

// NR43
func (nc *noiseChannel) WritePOLY(_, val uint8) {
	shift := val >> 4
	nc.narrow = val&0x08 != 0
	nc.timer.period = noiseDivisors[val&0x07] << shift

	log.ModSound.InfoZ("write noise poly").
		Uint8("shift", shift).
		Bool("narrow", nc.narrow).
		Uint32("period", nc.timer.period).
		End()
}

// NR44
func (nc *noiseChannel) WriteCONTROL(_, val uint8) {
	nc.length.enabled = val&0x40 != 0
	if val&0x80 != 0 {
		nc.trigger()
	}
	log.ModSound.InfoZ("write noise control").
		Bool("len", nc.length.enabled).
		Bool("trigger", val&0x80 != 0).
		End()
}

func (nc *noiseChannel) trigger() {
	nc.enabled = true
	nc.length.trigger()
	nc.timer.restart()
	nc.env.restart()
	nc.shiftReg = 0x7FFF
	if !nc.dac {
		nc.enabled = false
	}
}

func (nc *noiseChannel) run(cycles uint32) {
	if !nc.enabled {
		return
	}
	for nc.timer.run(&cycles) {
		nc.clockLFSR()
	}
}

func (nc *noiseChannel) clockLFSR() {
	// Feedback is the exclusive-OR of bits 0 and 1. It's shifted in at bit
	// 14, and also at bit 6 in narrow mode.
	xor := (nc.shiftReg ^ (nc.shiftReg >> 1)) & 0x01
	nc.shiftReg >>= 1
	hwio.SetBit16To(&nc.shiftReg, 14, xor != 0)
	if nc.narrow {
		hwio.SetBit16To(&nc.shiftReg, 6, xor != 0)
	}
}

func (nc *noiseChannel) output() float32 {
	if !nc.enabled || !nc.dac {
		return 0
	}
	v := float32(nc.env.volume) / 15
	if hwio.GetBiti16(nc.shiftReg, 0) != 0 {
		return -v
	}
	return v
}

func (nc *noiseChannel) reset() {
	nc.Length.Value = 0
	nc.Envelope.Value = 0
	nc.Poly.Value = 0
	nc.Control.Value = 0

	nc.enabled = false
	nc.dac = false
	nc.narrow = false
	nc.shiftReg = 0
	nc.timer.reset()
	nc.env.reset()
	nc.length.reset()
	nc.timer.period = noiseDivisors[0]
}

func (nc *noiseChannel) tickEnvelope() {
	nc.env.tick()
}

func (nc *noiseChannel) tickLengthCounter() {
	if nc.length.tick() {
		nc.enabled = false
	}
}
