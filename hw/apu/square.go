package apu

import (
	"gbemu/emu/log"
	"gbemu/hw/hwio"
)

// There are two square channels beginning at registers $FF10 and $FF15. Each
// contains the following: Timer, 8-step duty sequencer, Envelope, Length
// Counter. Only the first one has a Sweep unit ($FF10). The second one leaves
// its NRx0 slot unmapped.
//
//	+---------+    +---------+    +---------+
//	|  Sweep  |--->|  Timer  |--->|Sequencer|
//	+---------+    +---------+    +---------+
//	                                   |
//	                                   v
//	+---------+                       |\             |\          +---------+
//	|Envelope |---------------------->| >----------->| >-------->|   DAC   |
//	+---------+                       |/             |/          +---------+
//	                                                  ^
//	                                                  |
//	                                             +---------+
//	                                             | Length  |
//	                                             +---------+
type squareChannel struct {
	Sweep    hwio.Reg8 `hwio:"bank=0,offset=0x00,wcb"`
	Duty     hwio.Reg8 `hwio:"bank=1,offset=0x01,wcb"`
	Envelope hwio.Reg8 `hwio:"bank=1,offset=0x02,wcb"`
	FreqLo   hwio.Reg8 `hwio:"bank=1,offset=0x03,wcb"`
	FreqHi   hwio.Reg8 `hwio:"bank=1,offset=0x04,wcb"`

	channel  Channel
	hasSweep bool

	enabled bool
	dac     bool
	freq    uint16

	duty    uint8
	dutyPos uint8

	timer  timer
	env    envelope
	length lengthCounter
	sweep  sweep
}

func newSquareChannel(channel Channel, hasSweep bool) squareChannel {
	return squareChannel{
		channel:  channel,
		hasSweep: hasSweep,
		length:   lengthCounter{max: 64},
	}
}

// NRx0
func (sc *squareChannel) WriteSWEEP(_, val uint8) {
	sc.sweep.init(val)

	log.ModSound.InfoZ("write square sweep").
		Stringer("ch", sc.channel).
		Uint8("period", sc.sweep.period).
		Bool("negate", sc.sweep.negate).
		Uint8("shift", sc.sweep.shift).
		End()
}

// NRx1
func (sc *squareChannel) WriteDUTY(_, val uint8) {
	sc.duty = val >> 6
	sc.length.load(val)

	log.ModSound.InfoZ("write square duty").
		Stringer("ch", sc.channel).
		Uint8("duty", sc.duty).
		Uint16("len", sc.length.counter).
		End()
}

// NRx2
func (sc *squareChannel) WriteENVELOPE(_, val uint8) {
	sc.env.init(val)
	sc.dac = dacEnabled(val)
	if !sc.dac {
		sc.enabled = false
	}

	log.ModSound.InfoZ("write square envelope").
		Stringer("ch", sc.channel).
		Uint8("reg", val).
		Bool("dac", sc.dac).
		End()
}

// NRx3
func (sc *squareChannel) WriteFREQLO(_, val uint8) {
	sc.setFrequency(frequency(val, sc.FreqHi.Value))
}

// NRx4
func (sc *squareChannel) WriteFREQHI(_, val uint8) {
	sc.setFrequency(frequency(sc.FreqLo.Value, val))
	sc.length.enabled = val&0x40 != 0

	if val&0x80 != 0 {
		sc.trigger()
	}

	log.ModSound.InfoZ("write square freq").
		Stringer("ch", sc.channel).
		Uint16("freq", sc.freq).
		Bool("len", sc.length.enabled).
		Bool("trigger", val&0x80 != 0).
		End()
}

func (sc *squareChannel) setFrequency(freq uint16) {
	sc.freq = freq
	sc.timer.period = (2048 - uint32(freq)) * 4
}

// writeFrequency is used by the sweep unit to update the frequency
// registers.
func (sc *squareChannel) writeFrequency(freq uint16) {
	sc.FreqLo.Value = uint8(freq)
	sc.FreqHi.Value = sc.FreqHi.Value&^0x07 | uint8(freq>>8)&0x07
	sc.setFrequency(freq)
}

func (sc *squareChannel) trigger() {
	sc.enabled = true
	sc.length.trigger()
	sc.timer.restart()
	sc.dutyPos = 0
	sc.env.restart()

	if sc.hasSweep {
		sc.triggerSweep()
	}
	if !sc.dac {
		sc.enabled = false
	}
}

// duty cycle sequences for the square channels.
var squareDuty = [4][8]uint8{
	{0, 0, 0, 0, 0, 0, 0, 1}, // 12.5%
	{0, 0, 0, 0, 0, 0, 1, 1}, // 25%
	{0, 0, 0, 0, 1, 1, 1, 1}, // 50%
	{1, 1, 1, 1, 1, 1, 0, 0}, // 75%
}

func (sc *squareChannel) run(cycles uint32) {
	if !sc.enabled {
		return
	}
	for sc.timer.run(&cycles) {
		sc.dutyPos = (sc.dutyPos + 1) & 0x07
	}
}

func (sc *squareChannel) output() float32 {
	if !sc.enabled || !sc.dac {
		return 0
	}
	v := float32(sc.env.volume) / 15
	if squareDuty[sc.duty][sc.dutyPos] == 0 {
		return -v
	}
	return v
}

func (sc *squareChannel) reset() {
	sc.Sweep.Value = 0
	sc.Duty.Value = 0
	sc.Envelope.Value = 0
	sc.FreqLo.Value = 0
	sc.FreqHi.Value = 0

	sc.enabled = false
	sc.dac = false
	sc.duty = 0
	sc.dutyPos = 0
	sc.timer.reset()
	sc.env.reset()
	sc.length.reset()
	sc.sweep = sweep{}
	sc.setFrequency(0)
}

func (sc *squareChannel) tickEnvelope() {
	sc.env.tick()
}

func (sc *squareChannel) tickLengthCounter() {
	if sc.length.tick() {
		sc.enabled = false
	}
}

// sweep periodically adjusts the frequency of square channel 1.
type sweep struct {
	period uint8 // NR10 bits 6-4
	negate bool  // NR10 bit 3
	shift  uint8 // NR10 bits 2-0

	enabled bool
	timer   uint8
	shadow  uint16
}

func (sw *sweep) init(val uint8) {
	sw.period = (val >> 4) & 0x07
	sw.negate = val&0x08 != 0
	sw.shift = val & 0x07
}

// The sweep timer treats a period of 0 as 8.
func (sw *sweep) reload() {
	sw.timer = sw.period
	if sw.timer == 0 {
		sw.timer = 8
	}
}

// next computes the next frequency from the shadow register, and reports
// whether it fits in 11 bits.
func (sw *sweep) next() (uint16, bool) {
	delta := sw.shadow >> sw.shift
	freq := sw.shadow + delta
	if sw.negate {
		freq = sw.shadow - delta
	}
	return freq, freq <= 2047
}

func (sc *squareChannel) triggerSweep() {
	sw := &sc.sweep
	sw.shadow = sc.freq
	sw.reload()
	sw.enabled = sw.period != 0 || sw.shift != 0

	if sw.shift != 0 {
		if _, ok := sw.next(); !ok {
			sc.enabled = false
		}
	}
}

func (sc *squareChannel) tickSweep() {
	if !sc.hasSweep {
		return
	}
	sw := &sc.sweep
	if sw.timer > 0 {
		sw.timer--
	}
	if sw.timer != 0 {
		return
	}

	sw.reload()
	if !sw.enabled || sw.period == 0 {
		return
	}

	freq, ok := sw.next()
	if !ok {
		sc.enabled = false
		return
	}
	if sw.shift == 0 {
		return
	}

	sw.shadow = freq
	sc.writeFrequency(freq)

	// Overflow is checked a second time with the new frequency.
	if _, ok := sw.next(); !ok {
		sc.enabled = false
	}
}
