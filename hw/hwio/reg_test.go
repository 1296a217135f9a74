package hwio

import "testing"

func TestReg8(t *testing.T) {
	r := Reg8{Value: 0x11, RoMask: 0xF0}

	if got := r.Read8(0, false); got != 0x11 {
		t.Errorf("invalid read: %x", got)
	}
	if got := r.Read8(0xFF26, false); got != 0x11 {
		t.Errorf("invalid read with offset: %x", got)
	}

	r.Write8(0, 0x77)
	if r.Value != 0x17 {
		t.Errorf("writemask not respected: %x", r.Value)
	}
	r.Write8(0xFF26, 0x88)
	if r.Value != 0x18 {
		t.Errorf("writemask with offset not respected: %x", r.Value)
	}
}

func TestReg8Bits(t *testing.T) {
	r := Reg8{RoMask: 0xFF}

	r.SetBit(2)
	if !r.GetBit(2) || r.Value != 0x04 {
		t.Fatalf("SetBit(2): value = %02x", r.Value)
	}
	r.SetBitTo(7, true)
	r.SetBitTo(2, false)
	if r.Value != 0x80 {
		t.Fatalf("SetBitTo: value = %02x, want 80", r.Value)
	}
	r.Value = 0xFF
	r.ClearBits(0x03)
	if r.Value != 0xFC {
		t.Fatalf("ClearBits(03): value = %02x, want fc", r.Value)
	}
}

func TestReg8Callbacks(t *testing.T) {
	var gotOld, gotVal uint8
	r := Reg8{
		Value:  0x0F,
		RoMask: 0x07,
		WriteCb: func(old, val uint8) {
			gotOld, gotVal = old, val
		},
		ReadCb: func(val uint8) uint8 { return val | 0x80 },
	}

	r.Write8(0, 0xF0)
	if gotOld != 0x0F || gotVal != 0xF7 {
		t.Errorf("WriteCb(old=%02x, val=%02x), want (0f, f7)", gotOld, gotVal)
	}
	if got := r.Read8(0, false); got != 0xF7 {
		t.Errorf("Read8 = %02x, want f7", got)
	}

	r.Value = 0x01
	if got := r.Read8(0, true); got != 0x01 {
		t.Errorf("Peek = %02x, want 01 (no peek callback)", got)
	}
	if got := r.Read8(0, false); got != 0x81 {
		t.Errorf("Read8 = %02x, want 81", got)
	}
}
