package ppu

// tileRow holds the 2 bytes encoding one 8-pixel row of a tile.
type tileRow struct {
	lo, hi uint8
}

// rowCache holds the tile rows fetched while rendering a scanline, keyed by
// row address. It's cleared before each scanline.
type rowCache map[uint16]tileRow

func (p *PPU) read(addr uint16) uint8 {
	return p.Bus.Read8(addr, false)
}

func (p *PPU) fetchRow(addr uint16) tileRow {
	if row, ok := p.rows[addr]; ok {
		return row
	}
	row := tileRow{lo: p.read(addr), hi: p.read(addr + 1)}
	p.rows[addr] = row
	return row
}

// bgRowAddr returns the address of the given row of a background or window
// tile.
func (p *PPU) bgRowAddr(id uint8, row uint8) uint16 {
	if p.LCDC.GetBit(tileData) {
		return tileSet0 + uint16(id)*16 + uint16(row)*2
	}
	signed := int16(int8(id)) + 128
	return tileSet1 + uint16(signed)*16 + uint16(row)*2
}

func (p *PPU) renderScanline(line uint8) {
	if !p.enabled() {
		return
	}

	if p.LCDC.GetBit(bgEnable) && !p.Debug.DisableBackground {
		p.renderBackground(line)
	}
	if p.LCDC.GetBit(windowEnable) && !p.Debug.DisableWindow {
		p.renderWindow(line)
	}
}

func (p *PPU) renderBackground(line uint8) {
	clear(p.rows)

	tilemap := uint16(tileMap0)
	if p.LCDC.GetBit(bgTileMap) {
		tilemap = tileMap1
	}

	// The background map is 256x256 pixels and wraps around.
	y := line + p.SCY.Value
	for x := range width {
		bx := uint8(x) + p.SCX.Value
		id := p.read(tilemap + uint16(y/8)*32 + uint16(bx/8))
		row := p.fetchRow(p.bgRowAddr(id, y%8))

		ci := colorIndex(row.lo, row.hi, bx%8)
		p.frame.setBG(x, int(line), shade(p.BGP.Value, ci), ci)
	}
}

func (p *PPU) renderWindow(line uint8) {
	wy := int(line) - int(p.WY.Value)
	if wy < 0 || wy >= height {
		return
	}

	clear(p.rows)

	tilemap := uint16(tileMap0)
	if p.LCDC.GetBit(windowTileMap) {
		tilemap = tileMap1
	}

	for x := range width {
		wx := x + int(p.WX.Value) - 7
		if wx < 0 || wx >= 256 {
			continue
		}

		id := p.read(tilemap + uint16(wy/8)*32 + uint16(wx/8))
		row := p.fetchRow(p.bgRowAddr(id, uint8(wy%8)))

		ci := colorIndex(row.lo, row.hi, uint8(wx%8))
		p.frame.setBG(x, int(line), shade(p.BGP.Value, ci), ci)
	}
}
