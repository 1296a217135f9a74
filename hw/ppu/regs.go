package ppu

import "gbemu/emu/log"

const (
	// LCDC bits
	// $FF40

	// BG and window enable (0: off; 1: on)
	bgEnable = 0

	// Sprite enable (0: off; 1: on)
	spriteEnable = 1

	// Sprite size (0: 8x8; 1: 8x16)
	spriteSize = 2

	// BG tile map area (0: $9800; 1: $9C00)
	bgTileMap = 3

	// BG and window tile data area
	// (0: $8800, signed tile ids; 1: $8000, unsigned tile ids)
	tileData = 4

	// Window enable (0: off; 1: on)
	windowEnable = 5

	// Window tile map area (0: $9800; 1: $9C00)
	windowTileMap = 6

	// LCD and PPU enable (0: off; 1: on)
	lcdEnable = 7
)

const (
	// STAT bits
	// $FF41

	// PPU mode (read-only)
	modeMask = 0b11

	// LYC == LY (read-only). Updated when entering HBlank.
	coincidence = 2

	// Mode 0 (HBlank) interrupt source.
	hblankIE = 3

	// Mode 1 (VBlank) interrupt source. Stored only, VBlank raises its own
	// interrupt unconditionally.
	vblankIE = 4

	// Mode 2 (OAM scan) interrupt source. Stored only.
	oamIE = 5

	// LYC == LY interrupt source.
	lycIE = 6
)

// Memory map of the PPU bus.
const (
	tileSet0 = 0x8000 // unsigned tile ids
	tileSet1 = 0x8800 // signed tile ids
	tileMap0 = 0x9800
	tileMap1 = 0x9C00
	oamBase  = 0xFE00
)

// LCDC: $FF40
func (p *PPU) WriteLCDC(old, val uint8) {
	log.ModPPU.DebugZ("write LCDC").Hex8("val", val).End()
	if old&(1<<lcdEnable) != val&(1<<lcdEnable) {
		log.ModPPU.InfoZ("display toggled").
			Bool("on", val&(1<<lcdEnable) != 0).
			Uint8("line", p.line).
			End()
	}
}

// STAT: $FF41
func (p *PPU) ReadSTAT(val uint8) uint8 {
	// Bit 7 is unused.
	return val | 0x80
}

func (p *PPU) setMode(m Mode) {
	p.mode = m
	p.STAT.Value = p.STAT.Value&^modeMask | uint8(m)
}

func (p *PPU) setLine(line uint8) {
	p.line = line
	p.LY.Value = line
}
