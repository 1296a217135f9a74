package hw

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"gbemu/hw/apu"
	"gbemu/hw/hwdefs"
	"gbemu/hw/ppu"
)

func newTestConsole(t *testing.T) (*Console, *[]ppu.FrameBuffer) {
	t.Helper()

	var frames []ppu.FrameBuffer
	mixer := apu.NewMixer(apu.DefaultSampleRate, apu.DefaultThreshold, nil)
	c := NewConsole(func(fb *ppu.FrameBuffer) {
		frames = append(frames, *fb)
	}, mixer)
	return c, &frames
}

func TestConsoleVBlankInterrupt(t *testing.T) {
	c, frames := newTestConsole(t)

	if got := c.Bus.Read8(hwdefs.IFAddr, false); got != 0xE0 {
		t.Fatalf("IF = %02X, want E0", got)
	}

	c.Tick(hwdefs.CyclesPerFrame)
	if len(*frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(*frames))
	}
	if got := c.Interrupts(); got != hwdefs.VBlank {
		t.Errorf("pending interrupts = %s, want %s", got, hwdefs.VBlank)
	}
	if got := c.Bus.Read8(hwdefs.IFAddr, false); got != 0xE1 {
		t.Errorf("IF = %02X, want E1", got)
	}

	c.AckInterrupt(hwdefs.VBlank)
	if got := c.Interrupts(); got != 0 {
		t.Errorf("pending interrupts = %s, want none", got)
	}

	// IF is writable, as games clear it before enabling interrupts.
	c.Bus.Write8(hwdefs.IFAddr, 0xFF)
	if got := c.Interrupts(); got != 0x1F {
		t.Errorf("pending interrupts = %02X, want 1F", uint8(got))
	}
	if got := c.Cycles(); got != hwdefs.CyclesPerFrame {
		t.Errorf("cycles = %d, want %d", got, hwdefs.CyclesPerFrame)
	}
}

func TestConsoleMemoryMap(t *testing.T) {
	c, _ := newTestConsole(t)

	c.Bus.Write8(0x8123, 0x42)
	if got := c.PPU.ReadVRAM(0x0123); got != 0x42 {
		t.Errorf("VRAM[0123] = %02X, want 42", got)
	}

	c.Bus.Write8(0xFE9F, 0x17)
	if got := c.OAM.Data[0x9F]; got != 0x17 {
		t.Errorf("OAM[9F] = %02X, want 17", got)
	}

	c.Bus.Write8(0xFF45, 0x90)
	if got := c.PPU.LYC.Value; got != 0x90 {
		t.Errorf("LYC = %02X, want 90", got)
	}

	c.Bus.Write8(apu.NR52, 0x80)
	if !c.APU.Powered() {
		t.Fatal("APU should be powered")
	}
	c.Bus.Write8(hwdefs.WaveStart, 0x9F)

	tests := []struct {
		addr uint16
		want uint8
	}{
		{apu.NR52, 0xF0},
		{hwdefs.WaveStart, 0x9F},
		{0xFF27, 0xFF}, // unused, inside the sound area
		{0xFEA0, 0xFF}, // unusable, past OAM
		{0xC000, 0xFF}, // nothing mapped
	}
	for _, tt := range tests {
		if got := c.Bus.Read8(tt.addr, false); got != tt.want {
			t.Errorf("Read8(%04X) = %02X, want %02X", tt.addr, got, tt.want)
		}
		if got := c.Bus.Peek8(tt.addr); got != tt.want {
			t.Errorf("Peek8(%04X) = %02X, want %02X", tt.addr, got, tt.want)
		}
	}
}

func TestConsoleOAMDMA(t *testing.T) {
	c, _ := newTestConsole(t)

	wram := make([]byte, 0x100)
	for i := range wram {
		wram[i] = byte(i) ^ 0x5A
	}
	c.Bus.MapMemorySlice(0xC000, 0xC0FF, wram, false)

	c.Bus.Write8(hwdefs.DMAAddr, 0xC0)
	if got := c.Bus.Read8(hwdefs.DMAAddr, false); got != 0xC0 {
		t.Errorf("DMA = %02X, want C0", got)
	}

	// One byte every 4 cycles.
	c.Tick(oamSize*dmaCyclesPerByte - 1)
	if got := c.OAM.Data[oamSize-1]; got != 0 {
		t.Errorf("last OAM byte copied early: %02X", got)
	}
	if diff := cmp.Diff(wram[:oamSize-1], c.OAM.Data[:oamSize-1]); diff != "" {
		t.Errorf("OAM mismatch (-want +got):\n%s", diff)
	}

	c.Tick(1)
	if diff := cmp.Diff(wram[:oamSize], c.OAM.Data[:oamSize]); diff != "" {
		t.Errorf("OAM mismatch (-want +got):\n%s", diff)
	}

	// Transfer is over, further ticks don't copy anything.
	c.OAM.Data[0] = 0
	c.Tick(dmaCyclesPerByte * 10)
	if got := c.OAM.Data[0]; got != 0 {
		t.Errorf("OAM[0] = %02X, want 00", got)
	}
}

func TestConsoleSpriteFromDMA(t *testing.T) {
	c, frames := newTestConsole(t)

	wram := make([]byte, 0x100)
	copy(wram, []byte{16, 8, 1, 0}) // sprite 0 at (0,0), tile 1
	c.Bus.MapMemorySlice(0xC000, 0xC0FF, wram, false)

	for i := range uint16(16) {
		c.Bus.Write8(0x8010+i, 0xFF) // tile 1, color 3
	}
	c.Bus.Write8(0xFF47, 0xE4) // BGP
	c.Bus.Write8(0xFF48, 0xE4) // OBP0
	c.Bus.Write8(0xFF40, 0x93) // LCDC: display, tile set 0, sprites, bg
	c.Bus.Write8(hwdefs.DMAAddr, 0xC0)

	c.Tick(oamSize * dmaCyclesPerByte)
	c.Tick(hwdefs.CyclesPerFrame - oamSize*dmaCyclesPerByte)

	if len(*frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(*frames))
	}
	fb := &(*frames)[0]
	if got := fb.At(0, 0); got != ppu.Black {
		t.Errorf("pixel(0,0) = %s, want black", got)
	}
	if got := fb.At(8, 0); got != ppu.White {
		t.Errorf("pixel(8,0) = %s, want white", got)
	}
}

func TestConsoleReset(t *testing.T) {
	c, frames := newTestConsole(t)

	c.Bus.Write8(apu.NR52, 0x80)
	c.Bus.Write8(0x8000, 0x12)
	c.Tick(hwdefs.CyclesPerFrame + 100)
	c.Reset()

	if c.Interrupts() != 0 || c.Cycles() != 0 || c.APU.Powered() {
		t.Errorf("state not reset: irq=%s cycles=%d apu=%t", c.Interrupts(), c.Cycles(), c.APU.Powered())
	}
	if c.PPU.Line() != 0 || c.PPU.Mode() != ppu.OAMScan {
		t.Errorf("PPU at line %d mode %s, want line 0 %s", c.PPU.Line(), c.PPU.Mode(), ppu.OAMScan)
	}
	if got := c.Bus.Read8(0x8000, false); got != 0x12 {
		t.Errorf("VRAM[0] = %02X, want 12 (kept across reset)", got)
	}
	if len(*frames) != 1 {
		t.Errorf("got %d frames, want 1", len(*frames))
	}
}
