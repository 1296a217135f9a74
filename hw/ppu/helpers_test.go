package ppu

import (
	"testing"

	"gbemu/hw/hwdefs"
	"gbemu/hw/hwio"
)

type testIRQ struct {
	irqs []hwdefs.Interrupt
}

func (ti *testIRQ) RaiseInterrupt(irq hwdefs.Interrupt) {
	ti.irqs = append(ti.irqs, irq)
}

func (ti *testIRQ) count(irq hwdefs.Interrupt) int {
	n := 0
	for _, i := range ti.irqs {
		if i == irq {
			n++
		}
	}
	return n
}

// countingBus counts bus reads.
type countingBus struct {
	*hwio.Table
	reads int
}

func (b *countingBus) Read8(addr uint16, peek bool) uint8 {
	b.reads++
	return b.Table.Read8(addr, peek)
}

type testPPU struct {
	*PPU
	t   testing.TB
	bus *countingBus
	irq testIRQ

	OAM hwio.Mem `hwio:"offset=0x0,size=0x100,vsize=0xA0"`

	frames int
	last   FrameBuffer
}

func newTestPPU(tb testing.TB) *testPPU {
	tb.Helper()

	tp := &testPPU{
		t:   tb,
		bus: &countingBus{Table: hwio.NewTable("test")},
	}
	hwio.MustInitRegs(tp)

	tp.PPU = New(tp.bus, &tp.irq, func(fb *FrameBuffer) {
		tp.frames++
		tp.last = *fb
	})
	tp.bus.MapBank(0x8000, tp.PPU, 0)
	tp.bus.MapBank(0xFF40, tp.PPU, 1)
	tp.bus.MapMem(0xFE00, &tp.OAM)

	tp.write(0xFF47, 0xE4) // BGP
	tp.write(0xFF48, 0xE4) // OBP0
	tp.write(0xFF49, 0xE4) // OBP1
	return tp
}

func (tp *testPPU) write(addr uint16, val uint8) {
	tp.bus.Write8(addr, val)
}

func (tp *testPPU) runFrame() {
	tp.Tick(hwdefs.CyclesPerFrame)
}

// setTileRow writes the 2 bytes of a tile row in tile set 0.
func (tp *testPPU) setTileRow(tile uint8, row int, lo, hi uint8) {
	addr := 0x8000 + uint16(tile)*16 + uint16(row)*2
	tp.write(addr, lo)
	tp.write(addr+1, hi)
}

// fillTile fills all 8 rows of a tile in tile set 0 with the same row.
func (tp *testPPU) fillTile(tile uint8, lo, hi uint8) {
	for row := range 8 {
		tp.setTileRow(tile, row, lo, hi)
	}
}

func (tp *testPPU) setSprite(i int, y, x, tile, attrs uint8) {
	addr := 0xFE00 + uint16(i)*4
	tp.write(addr+0, y)
	tp.write(addr+1, x)
	tp.write(addr+2, tile)
	tp.write(addr+3, attrs)
}

func (tp *testPPU) wantShade(x, y int, want Shade) {
	tp.t.Helper()
	if got := tp.last.At(x, y); got != want {
		tp.t.Errorf("pixel(%d,%d) = %s, want %s", x, y, got, want)
	}
}
