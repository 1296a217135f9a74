package hwio

import "fmt"

// radixTree is a two-level page table over the 16-bit address space. The high
// byte of an address selects a page, the low byte selects the slot.
type radixTree struct {
	pages [256]*[256]BankIO8
}

func (t *radixTree) InsertRange(begin, end uint16, io BankIO8) error {
	if end < begin {
		return fmt.Errorf("invalid range [%04x-%04x]", begin, end)
	}
	for addr := uint32(begin); addr <= uint32(end); addr++ {
		if t.Search(uint16(addr)) != nil {
			return fmt.Errorf("address %04x already mapped", addr)
		}
	}
	for addr := uint32(begin); addr <= uint32(end); addr++ {
		hi, lo := addr>>8, addr&0xFF
		if t.pages[hi] == nil {
			t.pages[hi] = new([256]BankIO8)
		}
		t.pages[hi][lo] = io
	}
	return nil
}

func (t *radixTree) RemoveRange(begin, end uint16) {
	for addr := uint32(begin); addr <= uint32(end); addr++ {
		if page := t.pages[addr>>8]; page != nil {
			page[addr&0xFF] = nil
		}
	}
}

func (t *radixTree) Search(addr uint16) BankIO8 {
	page := t.pages[addr>>8]
	if page == nil {
		return nil
	}
	return page[addr&0xFF]
}
