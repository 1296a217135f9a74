package apu

import (
	"gbemu/emu/log"
	"gbemu/hw/hwio"
)

// WaveChannel plays back 32 4-bit samples stored in wave RAM ($FF30-$FF3F),
// high nibble first.
//
//	Timer --> Wave RAM position --> Volume shift --> Gate --> (to mixer)
//	                                                   ^
//	                                                   |
//	                                            Length Counter
type waveChannel struct {
	DAC    hwio.Reg8 `hwio:"offset=0x00,wcb"`
	Length hwio.Reg8 `hwio:"offset=0x01,wcb"`
	Level  hwio.Reg8 `hwio:"offset=0x02,wcb"`
	FreqLo hwio.Reg8 `hwio:"offset=0x03,wcb"`
	FreqHi hwio.Reg8 `hwio:"offset=0x04,wcb"`

	enabled bool
	dac     bool
	freq    uint16
	level   uint8 // NR32 bits 6-5

	pos uint8 // 0-31
	ram []byte

	timer  timer
	length lengthCounter
}

func newWaveChannel(ram []byte) waveChannel {
	if len(ram) != 16 {
		panic("wave RAM must be 16 bytes")
	}
	return waveChannel{
		ram:    ram,
		length: lengthCounter{max: 256},
	}
}

// NR30
func (wc *waveChannel) WriteDAC(_, val uint8) {
	wc.dac = val&0x80 != 0
	if !wc.dac {
		wc.enabled = false
	}
	log.ModSound.InfoZ("write wave dac").Bool("dac", wc.dac).End()
}

// NR31
func (wc *waveChannel) WriteLENGTH(_, val uint8) {
	wc.length.load(val)
	log.ModSound.InfoZ("write wave length").Uint16("len", wc.length.counter).End()
}

// NR32
func (wc *waveChannel) WriteLEVEL(_, val uint8) {
	wc.level = (val >> 5) & 0x03
	log.ModSound.InfoZ("write wave level").Uint8("level", wc.level).End()
}

// NR33
func (wc *waveChannel) WriteFREQLO(_, val uint8) {
	wc.setFrequency(frequency(val, wc.FreqHi.Value))
}

// NR34
func (wc *waveChannel) WriteFREQHI(_, val uint8) {
	wc.setFrequency(frequency(wc.FreqLo.Value, val))
	wc.length.enabled = val&0x40 != 0

	if val&0x80 != 0 {
		wc.trigger()
	}

	log.ModSound.InfoZ("write wave freq").
		Uint16("freq", wc.freq).
		Bool("len", wc.length.enabled).
		Bool("trigger", val&0x80 != 0).
		End()
}

func (wc *waveChannel) setFrequency(freq uint16) {
	wc.freq = freq
	wc.timer.period = (2048 - uint32(freq)) * 2
}

func (wc *waveChannel) trigger() {
	wc.enabled = true
	wc.length.trigger()
	wc.timer.restart()
	wc.pos = 0
	if !wc.dac {
		wc.enabled = false
	}
}

func (wc *waveChannel) run(cycles uint32) {
	if !wc.enabled {
		return
	}
	for wc.timer.run(&cycles) {
		wc.pos = (wc.pos + 1) & 0x1F
	}
}

// sample returns the 4-bit sample at the current position.
func (wc *waveChannel) sample() uint8 {
	b := wc.ram[wc.pos>>1]
	if wc.pos&1 == 0 {
		return b >> 4
	}
	return b & 0x0F
}

// output level per NR32 code: mute, 100%, 50%, 25%.
var waveLevels = [4]float32{0, 1, 0.5, 0.25}

func (wc *waveChannel) output() float32 {
	if !wc.enabled || !wc.dac {
		return 0
	}
	centered := float32(wc.sample())/7.5 - 1
	return centered * waveLevels[wc.level]
}

// reset keeps wave RAM untouched.
func (wc *waveChannel) reset() {
	wc.DAC.Value = 0
	wc.Length.Value = 0
	wc.Level.Value = 0
	wc.FreqLo.Value = 0
	wc.FreqHi.Value = 0

	wc.enabled = false
	wc.dac = false
	wc.level = 0
	wc.pos = 0
	wc.timer.reset()
	wc.length.reset()
	wc.setFrequency(0)
}

func (wc *waveChannel) tickLengthCounter() {
	if wc.length.tick() {
		wc.enabled = false
	}
}
