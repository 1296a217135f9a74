package ppu

import (
	"cmp"
	"slices"
)

const (
	numSprites     = 40
	spritesPerLine = 10
)

const (
	// Sprite attribute bits (OAM byte 3). Bits 0-3 are unused on DMG.

	// Palette (0: OBP0; 1: OBP1)
	attrPalette = 4

	// Horizontal flip
	attrFlipX = 5

	// Vertical flip
	attrFlipY = 6

	// Background and window colors 1-3 are drawn over the sprite.
	attrBehindBG = 7
)

// sprite is a decoded OAM entry.
type sprite struct {
	index int // position in OAM
	x, y  int // screen position of the top-left corner
	rawX  uint8
	tile  uint8
	attrs uint8
}

func (s *sprite) attr(bit uint8) bool {
	return s.attrs&(1<<bit) != 0
}

func (p *PPU) spriteHeight() int {
	if p.LCDC.GetBit(spriteSize) {
		return 16
	}
	return 8
}

// readOAM decodes the sprites that can appear on screen.
func (p *PPU) readOAM() []sprite {
	sprites := make([]sprite, 0, numSprites)
	for i := range numSprites {
		addr := uint16(oamBase + i*4)
		rawY := p.read(addr)
		if rawY == 0 || rawY >= 160 {
			continue
		}
		rawX := p.read(addr + 1)
		sprites = append(sprites, sprite{
			index: i,
			x:     int(rawX) - 8,
			y:     int(rawY) - 16,
			rawX:  rawX,
			tile:  p.read(addr + 2),
			attrs: p.read(addr + 3),
		})
	}
	return sprites
}

// renderSprites draws the sprites over the frame, one line at a time.
func (p *PPU) renderSprites() {
	if !p.enabled() || !p.LCDC.GetBit(spriteEnable) || p.Debug.DisableSprites {
		return
	}

	size := p.spriteHeight()
	sprites := p.readOAM()
	selected := make([]sprite, 0, spritesPerLine)

	for line := range height {
		// At most 10 sprites per line, in OAM order. Sprites hidden
		// horizontally still count.
		selected = selected[:0]
		for _, s := range sprites {
			if line < s.y || line >= s.y+size {
				continue
			}
			selected = append(selected, s)
			if len(selected) == spritesPerLine {
				break
			}
		}
		if len(selected) == 0 {
			continue
		}

		// The sprite with the lowest X has priority. For equal X, the first
		// one in OAM does.
		slices.SortStableFunc(selected, func(a, b sprite) int {
			return cmp.Compare(a.rawX, b.rawX)
		})
		p.renderSpriteLine(line, size, selected)
	}
}

func (p *PPU) spriteRowAddr(s *sprite, line, size int) uint16 {
	row := line - s.y
	if s.attr(attrFlipY) {
		row = size - 1 - row
	}
	tile := s.tile
	if size == 16 {
		tile &^= 1
	}
	return tileSet0 + uint16(tile)*16 + uint16(row)*2
}

func (p *PPU) renderSpriteLine(line, size int, sprites []sprite) {
	clear(p.rows)

	for x := range width {
		for i := range sprites {
			s := &sprites[i]
			if s.rawX == 0 || s.rawX >= 168 {
				continue
			}
			col := x - s.x
			if col < 0 || col >= 8 {
				continue
			}
			if s.attr(attrFlipX) {
				col = 7 - col
			}

			row := p.fetchRow(p.spriteRowAddr(s, line, size))
			ci := colorIndex(row.lo, row.hi, uint8(col))
			if ci == 0 {
				// Transparent, look for a lower priority sprite.
				continue
			}

			// The highest priority opaque sprite alone decides.
			if !s.attr(attrBehindBG) || p.frame.ColorIndex(x, line) == 0 {
				pal := p.OBP0.Value
				if s.attr(attrPalette) {
					pal = p.OBP1.Value
				}
				p.frame.Set(x, line, shade(pal, ci))
			}
			break
		}
	}
}
