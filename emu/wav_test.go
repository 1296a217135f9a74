package emu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/google/go-cmp/cmp"
)

func TestWAVSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	sink, err := NewWAVSink(path, 22050)
	if err != nil {
		t.Fatal(err)
	}

	chunks := [][]int16{
		{0, 0, 100, -100, 32767, -32768},
		{},
		{1, 2, 3, 4},
	}
	var want []int
	for _, c := range chunks {
		if err := sink.Write(c); err != nil {
			t.Fatal(err)
		}
		for _, v := range c {
			want = append(want, int(v))
		}
	}
	if sink.Samples() != 5 {
		t.Errorf("samples = %d, want 5", sink.Samples())
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("invalid wav file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if dec.SampleRate != 22050 || dec.NumChans != 2 || dec.BitDepth != 16 {
		t.Errorf("format = %d Hz, %d channels, %d bits, want 22050 Hz, 2 channels, 16 bits",
			dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
	if diff := cmp.Diff(want, buf.Data); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}
