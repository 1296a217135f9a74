package emu

import "testing"

func TestRateConverterCounts(t *testing.T) {
	tests := []struct {
		in, out int
		n       int
		want    int
	}{
		{44100, 44100, 4410, 4410},
		{44100, 22050, 4410, 2205},
		{44100, 48000, 4410, 4800},
		{32768, 44100, 100, 134},
	}
	for _, tt := range tests {
		rc, err := NewRateConverter(tt.in, tt.out)
		if err != nil {
			t.Fatal(err)
		}

		buf := make([]float32, tt.n)
		got := len(rc.Convert(buf, buf)) / 2
		if d := got - tt.want; d < -1 || d > 1 {
			t.Errorf("%d -> %d Hz: %d samples gave %d, want %d", tt.in, tt.out, tt.n, got, tt.want)
		}
	}
}

func TestRateConverterSilence(t *testing.T) {
	rc, err := NewRateConverter(44100, 48000)
	if err != nil {
		t.Fatal(err)
	}

	buf := make([]float32, 3000)
	for i, s := range rc.Convert(buf, buf) {
		if s != 0 {
			t.Fatalf("sample %d = %d, want 0", i, s)
		}
	}
}

func TestRateConverterChannels(t *testing.T) {
	rc, err := NewRateConverter(44100, 44100)
	if err != nil {
		t.Fatal(err)
	}

	// Square wave on the left only.
	left := make([]float32, 2048)
	right := make([]float32, 2048)
	for i := range left {
		if i/32%2 == 0 {
			left[i] = 1
		} else {
			left[i] = -1
		}
	}

	out := rc.Convert(left, right)
	var peakL, peakR int16
	for i := 0; i < len(out); i += 2 {
		peakL = max(peakL, out[i])
		peakR = max(peakR, out[i+1])
	}
	if peakL < rateAmplitude/2 {
		t.Errorf("left peak = %d, want at least %d", peakL, rateAmplitude/2)
	}
	if peakR != 0 {
		t.Errorf("right peak = %d, want 0", peakR)
	}
}

func TestRateConverterInvalid(t *testing.T) {
	for _, rates := range [][2]int{{0, 44100}, {44100, 0}, {-1, 1}} {
		if _, err := NewRateConverter(rates[0], rates[1]); err == nil {
			t.Errorf("NewRateConverter(%d, %d) should fail", rates[0], rates[1])
		}
	}
}
