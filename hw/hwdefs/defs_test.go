package hwdefs

import "testing"

func TestInterruptString(t *testing.T) {
	tests := []struct {
		irq  Interrupt
		want string
	}{
		{0, ""},
		{VBlank, "vblank"},
		{VBlank | LCDStat, "vblank|stat"},
		{Joypad | Timer, "timer|joypad"},
	}
	for _, tt := range tests {
		if got := tt.irq.String(); got != tt.want {
			t.Errorf("Interrupt(%02x).String() = %q, want %q", uint8(tt.irq), got, tt.want)
		}
	}
}
