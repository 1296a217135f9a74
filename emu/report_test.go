package emu

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/go-faster/jx"

	"gbemu/hw/ppu"
)

func TestReportEncode(t *testing.T) {
	r := &Report{
		Trace:          "smoke",
		Frames:         2,
		Cycles:         140448,
		DroppedFrames:  1,
		PNGFrames:      1,
		Samples:        1764,
		DroppedSamples: 0,
		OutputRate:     48000,
		WAVSamples:     1920,
		APUPowered:     true,
		LastFrameCRC:   0xABCD,
		Elapsed:        1500 * time.Millisecond,
	}

	var e jx.Encoder
	r.Encode(&e)

	const want = `{"trace":"smoke","frames":2,"cycles":140448,` +
		`"video":{"dropped_frames":1,"png_frames":1,"last_frame_crc32":"0000abcd"},` +
		`"audio":{"powered":true,"samples":1764,"dropped_samples":0,"output_rate":48000,"wav_samples":1920},` +
		`"elapsed":"1.5s"}`
	if got := string(e.Bytes()); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	var buf bytes.Buffer
	if _, err := r.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "}\n") {
		t.Errorf("unexpected indented output:\n%s", buf.String())
	}
	if !jx.Valid(buf.Bytes()) {
		t.Error("invalid JSON output")
	}
}

func TestFrameCRC(t *testing.T) {
	var a, b ppu.FrameBuffer
	if FrameCRC(&a) != FrameCRC(&b) {
		t.Fatal("identical frames have different CRCs")
	}
	b.Set(80, 72, ppu.Black)
	if FrameCRC(&a) == FrameCRC(&b) {
		t.Error("different frames have the same CRC")
	}
}
