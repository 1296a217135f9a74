package hw

import (
	"gbemu/emu/log"
	"gbemu/hw/hwio"
)

const (
	oamSize          = 0xA0
	dmaCyclesPerByte = 4
)

// oamDMA copies 160 bytes from page XX00 to OAM, one byte every machine
// cycle, after a write to the DMA register ($FF46).
type oamDMA struct {
	bus hwio.BankIO8
	oam []byte

	page       uint8
	addr       uint8
	cycles     uint32 // cycles accumulated toward the next byte
	inProgress bool

	DMA hwio.Reg8 `hwio:"offset=0x00,wcb"`
}

func (dma *oamDMA) InitBus(bus hwio.BankIO8, oam []byte) {
	hwio.MustInitRegs(dma)
	dma.bus = bus
	dma.oam = oam
	dma.reset()
}

func (dma *oamDMA) reset() {
	dma.page = 0x00
	dma.addr = 0x00
	dma.cycles = 0
	dma.inProgress = false
}

func (dma *oamDMA) WriteDMA(_, val uint8) {
	log.ModBus.DebugZ("start OAM DMA transfer").Hex8("page", val).End()
	// A write during a transfer restarts it from the new page.
	dma.page = val
	dma.addr = 0x00
	dma.cycles = 0
	dma.inProgress = true
}

func (dma *oamDMA) process(cycles uint32) {
	if !dma.inProgress {
		return
	}

	dma.cycles += cycles
	for dma.cycles >= dmaCyclesPerByte {
		dma.cycles -= dmaCyclesPerByte

		addr := uint16(dma.page)<<8 | uint16(dma.addr)
		dma.oam[dma.addr] = dma.bus.Read8(addr, false)
		dma.addr++
		if dma.addr == oamSize {
			log.ModBus.DebugZ("end OAM DMA transfer").
				Hex8("page", dma.page).
				Blob("oam", dma.oam[:oamSize]).
				End()
			dma.inProgress = false
			dma.cycles = 0
			return
		}
	}
}
