package hwio

func GetBit8(v uint8, n uint) bool {
	return GetBiti8(v, n) != 0
}

func GetBiti8(v uint8, n uint) uint8 {
	return v >> (n) & 0x01
}

func SetBit8(v *uint8, n uint) {
	*v |= (1 << n)
}

func ClearBit8(v *uint8, n uint) {
	*v &= ^(1 << n)
}

// SetBit8To sets or clears bit n of v depending on b.
func SetBit8To(v *uint8, n uint, b bool) {
	if b {
		SetBit8(v, n)
	} else {
		ClearBit8(v, n)
	}
}

func ClearBits8(v *uint8, mask uint8) {
	*v &= ^mask
}

// 16-bit operations, used by the noise channel shift register.

func GetBiti16(v uint16, n uint) uint16 {
	return v >> (n) & 0x01
}

func SetBit16To(v *uint16, n uint, b bool) {
	if b {
		*v |= (1 << n)
	} else {
		*v &= ^(1 << n)
	}
}
