package ppu

import (
	"gbemu/emu/log"
	"gbemu/hw/hwdefs"
	"gbemu/hw/hwio"
)

// Bus is used by the PPU to fetch tile maps, tile data and sprite
// attributes.
type Bus interface {
	Read8(addr uint16, peek bool) uint8
}

// IRQ receives interrupt requests.
type IRQ interface {
	RaiseInterrupt(hwdefs.Interrupt)
}

// FrameFunc is called when a frame is complete. The frame buffer belongs to
// the PPU and is only valid for the duration of the call. Callbacks must treat
// it as read-only and copy what they keep; it is cleared when they return.
type FrameFunc func(*FrameBuffer)

// Debug toggles rendering layers on or off.
type Debug struct {
	DisableBackground bool
	DisableWindow     bool
	DisableSprites    bool
}

const (
	firstVBlankLine = 144
	numLines        = 154
)

type PPU struct {
	Bus   Bus
	IRQ   IRQ
	Debug Debug

	onFrame FrameFunc

	// 16KB of video memory, of which $8000-$9FFF is visible from the bus.
	VRAM hwio.Mem `hwio:"offset=0x0,size=0x4000,vsize=0x2000"`

	// LCD registers, mapped from $FF40 to $FF4B. $FF46 (OAM DMA) belongs
	// to the system bus.
	LCDC hwio.Reg8 `hwio:"bank=1,offset=0x0,wcb"`
	STAT hwio.Reg8 `hwio:"bank=1,offset=0x1,rwmask=0x78,rcb"`
	SCY  hwio.Reg8 `hwio:"bank=1,offset=0x2"`
	SCX  hwio.Reg8 `hwio:"bank=1,offset=0x3"`
	LY   hwio.Reg8 `hwio:"bank=1,offset=0x4,readonly"`
	LYC  hwio.Reg8 `hwio:"bank=1,offset=0x5"`
	BGP  hwio.Reg8 `hwio:"bank=1,offset=0x7"`
	OBP0 hwio.Reg8 `hwio:"bank=1,offset=0x8"`
	OBP1 hwio.Reg8 `hwio:"bank=1,offset=0x9"`
	WY   hwio.Reg8 `hwio:"bank=1,offset=0xA"`
	WX   hwio.Reg8 `hwio:"bank=1,offset=0xB"`

	mode   Mode
	cycles uint32 // cycles spent in current mode
	line   uint8  // 0-153

	frame  FrameBuffer
	rows   rowCache
	frames uint64
}

// New returns a PPU fetching through bus, raising interrupts on irq and
// delivering frames to fn.
func New(bus Bus, irq IRQ, fn FrameFunc) *PPU {
	p := &PPU{
		Bus:     bus,
		IRQ:     irq,
		onFrame: fn,
		rows:    make(rowCache),
	}
	hwio.MustInitRegs(p)
	p.Reset()
	return p
}

func (p *PPU) Reset() {
	p.cycles = 0
	p.setLine(0)
	p.setMode(OAMScan)
	p.frame.Reset()
	p.frames = 0
}

func (p *PPU) Mode() Mode     { return p.mode }
func (p *PPU) Line() uint8    { return p.line }
func (p *PPU) Cycles() uint32 { return p.cycles }

// Frames returns the number of frames delivered since last reset.
func (p *PPU) Frames() uint64 { return p.frames }

// FrameBuffer returns the frame being rendered.
func (p *PPU) FrameBuffer() *FrameBuffer { return &p.frame }

// ReadVRAM reads video memory at the given offset (0 is $8000).
func (p *PPU) ReadVRAM(off uint16) uint8 {
	if int(off) >= len(p.VRAM.Data) {
		log.ModPPU.WarnZ("out of range VRAM read").Hex16("off", off).End()
		return 0xFF
	}
	return p.VRAM.Data[off]
}

// WriteVRAM writes video memory at the given offset (0 is $8000).
func (p *PPU) WriteVRAM(off uint16, val uint8) {
	if int(off) >= len(p.VRAM.Data) {
		log.ModPPU.WarnZ("out of range VRAM write").
			Hex16("off", off).
			Hex8("val", val).
			End()
		return
	}
	p.VRAM.Data[off] = val
}

func (p *PPU) enabled() bool {
	return p.LCDC.GetBit(lcdEnable)
}

// Tick advances the PPU by the given number of master clock cycles. Cycles in
// excess of the current mode duration are carried over to the next mode.
func (p *PPU) Tick(cycles uint32) {
	p.cycles += cycles
	for {
		dur := p.mode.duration()
		if p.cycles < dur {
			return
		}
		p.cycles -= dur
		p.nextMode()
	}
}

func (p *PPU) nextMode() {
	switch p.mode {
	case OAMScan:
		p.setMode(PixelTransfer)

	case PixelTransfer:
		p.setMode(HBlank)
		if p.STAT.GetBit(hblankIE) {
			p.IRQ.RaiseInterrupt(hwdefs.LCDStat)
		}

		lyc := p.line == p.LYC.Value
		if lyc && p.STAT.GetBit(lycIE) {
			p.IRQ.RaiseInterrupt(hwdefs.LCDStat)
		}
		p.STAT.SetBitTo(coincidence, lyc)

	case HBlank:
		p.renderScanline(p.line)
		p.setLine(p.line + 1)

		if p.line == firstVBlankLine {
			p.setMode(VBlank)
			p.IRQ.RaiseInterrupt(hwdefs.VBlank)
		} else {
			p.setMode(OAMScan)
		}

	case VBlank:
		p.setLine(p.line + 1)
		if p.line == numLines {
			p.endFrame()
			p.setLine(0)
			p.setMode(OAMScan)
		}

	default:
		panic("impossible PPU mode " + p.mode.String())
	}
}

func (p *PPU) endFrame() {
	p.renderSprites()

	p.frames++
	log.ModPPU.DebugZ("frame complete").Uint("frame", uint(p.frames)).End()
	if p.onFrame != nil {
		p.onFrame(&p.frame)
	}
	p.frame.Reset()
}
