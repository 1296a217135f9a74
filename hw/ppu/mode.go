package ppu

//go:generate go tool stringer -type=Mode

// Mode is the PPU mode, as reported in STAT bits 1-0.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OAMScan
	PixelTransfer
)

// Mode durations, in master clock cycles.
const (
	oamScanCycles       = 80
	pixelTransferCycles = 172
	hblankCycles        = 204
	vblankLineCycles    = 456 // VBlank lasts 10 of those.
)

func (m Mode) duration() uint32 {
	switch m {
	case HBlank:
		return hblankCycles
	case VBlank:
		return vblankLineCycles
	case OAMScan:
		return oamScanCycles
	case PixelTransfer:
		return pixelTransferCycles
	}
	panic("impossible PPU mode " + m.String())
}
