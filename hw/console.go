package hw

import (
	"gbemu/emu/log"
	"gbemu/hw/apu"
	"gbemu/hw/hwdefs"
	"gbemu/hw/hwio"
	"gbemu/hw/ppu"
)

// Console is the system bus shared by the PPU and the APU. It stands in for
// the rest of the machine (CPU, cartridge, timer) which only needs to write
// registers and tick it with the cycles it consumed.
type Console struct {
	Bus *hwio.Table
	PPU *ppu.PPU
	APU *apu.APU

	dma oamDMA

	IF  hwio.Reg8 `hwio:"offset=0x0F,rwmask=0x1F,rcb"`
	OAM hwio.Mem  `hwio:"bank=1,offset=0x0,size=0x100,vsize=0xA0"`

	cycles uint64
}

// NewConsole returns a console delivering frames to onFrame and audio
// through mixer.
func NewConsole(onFrame ppu.FrameFunc, mixer *apu.Mixer) *Console {
	c := &Console{
		Bus: hwio.NewTable("bus"),
	}
	hwio.MustInitRegs(c)
	c.Bus.Unmapped = &hwio.Device{
		Name:    "unmapped",
		ReadCb:  c.readUnmapped,
		PeekCb:  func(uint16) uint8 { return 0xFF },
		WriteCb: c.writeUnmapped,
	}

	c.PPU = ppu.New(c.Bus, c, onFrame)
	c.APU = apu.New(mixer)
	c.dma.InitBus(c.Bus, c.OAM.Data)

	c.Bus.MapBank(hwdefs.VRAMStart, c.PPU, 0)
	c.Bus.MapBank(hwdefs.OAMStart, c, 1)
	c.Bus.MapBank(0xFF00, c, 0)
	c.Bus.MapDevice(hwdefs.SoundStart, &hwio.Device{
		Name:    "apu",
		Size:    hwdefs.SoundEnd - hwdefs.SoundStart + 1,
		ReadCb:  func(addr uint16) uint8 { return c.APU.Read8(addr, false) },
		PeekCb:  func(addr uint16) uint8 { return c.APU.Read8(addr, true) },
		WriteCb: c.APU.Write8,
	})
	c.Bus.MapBank(hwdefs.LCDStart, c.PPU, 1)
	c.Bus.MapBank(hwdefs.DMAAddr, &c.dma, 0)
	return c
}

// Reset puts PPU, APU and the system registers in their power-up state.
// VRAM, OAM and wave RAM contents are kept.
func (c *Console) Reset() {
	c.PPU.Reset()
	c.APU.Reset()
	c.dma.reset()
	c.IF.Value = 0
	c.cycles = 0
}

// Cycles returns the number of cycles ticked since last reset.
func (c *Console) Cycles() uint64 { return c.cycles }

func (c *Console) readUnmapped(addr uint16) uint8 {
	log.ModBus.DebugZ("unmapped read").Hex16("addr", addr).End()
	return 0xFF
}

func (c *Console) writeUnmapped(addr uint16, val uint8) {
	log.ModBus.DebugZ("unmapped write").Hex16("addr", addr).Hex8("val", val).End()
}

// RaiseInterrupt sets irq in IF.
func (c *Console) RaiseInterrupt(irq hwdefs.Interrupt) {
	log.ModBus.DebugZ("raise interrupt").Stringer("irq", irq).End()
	c.IF.Value |= uint8(irq)
}

// Interrupts returns the pending interrupt requests.
func (c *Console) Interrupts() hwdefs.Interrupt {
	return hwdefs.Interrupt(c.IF.Value & 0x1F)
}

// AckInterrupt clears irq from IF, as the CPU does when it services it.
func (c *Console) AckInterrupt(irq hwdefs.Interrupt) {
	c.IF.Value &^= uint8(irq)
}

// Unused IF bits read as 1.
func (c *Console) ReadIF(val uint8) uint8 {
	return val | 0xE0
}

// Tick advances the whole system by the given number of cycles, video
// first, then DMA and audio.
func (c *Console) Tick(cycles uint32) {
	c.PPU.Tick(cycles)
	c.dma.process(cycles)
	c.APU.Tick(cycles)
	c.cycles += uint64(cycles)
}
