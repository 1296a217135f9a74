package apu

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFrameSequencerSteps(t *testing.T) {
	var fs frameSequencer
	fs.reset()

	var got []FrameStep
	for range 16 {
		// Split each period in 2 uneven runs.
		if step := fs.run(100); step != NoStep {
			t.Fatalf("step %v reported before period end", step)
		}
		got = append(got, fs.run(fs.cyclesToStep()))
	}

	want := append(sequencerSteps[:], sequencerSteps[:]...)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("frame sequencer steps mismatch (-want +got):\n%s", diff)
	}
}

func TestFrameSequencerOverrun(t *testing.T) {
	var fs frameSequencer
	fs.reset()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when running past a step")
		}
	}()
	fs.run(sequencerCycles + 1)
}

func TestMixerCyclesToSample(t *testing.T) {
	m := NewMixer(DefaultSampleRate, DefaultThreshold, nil)

	var total uint32
	for range 10 {
		n := m.cyclesToSample()
		if m.run(n - 1) {
			t.Fatal("sample due one cycle early")
		}
		if !m.run(1) {
			t.Fatalf("sample not due after %d cycles", n)
		}
		total += n
	}

	// 4194304/44100 = 95.1 cycles per sample.
	if total < 950 || total > 960 {
		t.Errorf("10 samples took %d cycles", total)
	}
}
