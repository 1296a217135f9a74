package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-faster/jx"

	"gbemu/hw/hwdefs"
)

const smokeTrace = `{
  "name": "smoke",
  "frames": 2,
  "steps": [
    {"data": {"addr": "0x8000", "bytes": [255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255]}},
    {"writes": [
      {"addr": "0xFF47", "val": "0xE4"},
      {"addr": "0xFF40", "val": "0x91"},
      {"addr": "0xFF26", "val": "0x80"},
      {"addr": "0xFF12", "val": "0xF0"},
      {"addr": "0xFF14", "val": "0x87"}
    ]}
  ]
}`

func TestRunMainReport(t *testing.T) {
	dir := t.TempDir()
	trace := filepath.Join(dir, "trace.json")
	if err := os.WriteFile(trace, []byte(smokeTrace), 0o644); err != nil {
		t.Fatal(err)
	}
	report := filepath.Join(dir, "report.json")
	wav := filepath.Join(dir, "out.wav")

	cli := parseArgs([]string{"run", trace, "--frames", "3", "--report", report, "--wav", wav})
	if cli.mode != runMode {
		t.Fatalf("mode = %d, want runMode", cli.mode)
	}
	if code := runMain(cli.Run); code != 0 {
		t.Fatalf("runMain returned %d, want 0", code)
	}

	buf, err := os.ReadFile(report)
	if err != nil {
		t.Fatal(err)
	}
	if !jx.Valid(buf) {
		t.Fatalf("invalid report JSON:\n%s", buf)
	}

	var (
		name           string
		frames, cycles uint64
		powered        bool
	)
	err = jx.DecodeBytes(buf).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "trace":
			name, err = d.Str()
		case "frames":
			frames, err = d.UInt64()
		case "cycles":
			cycles, err = d.UInt64()
		case "audio":
			return d.Obj(func(d *jx.Decoder, key string) error {
				if key == "powered" {
					powered, err = d.Bool()
					return err
				}
				return d.Skip()
			})
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		t.Fatalf("decoding report: %v", err)
	}

	if name != "smoke" {
		t.Errorf("trace = %q, want smoke", name)
	}
	if frames != 3 {
		t.Errorf("frames = %d, want 3 (--frames overrides the trace)", frames)
	}
	if cycles != 3*hwdefs.CyclesPerFrame {
		t.Errorf("cycles = %d, want %d", cycles, 3*hwdefs.CyclesPerFrame)
	}
	if !powered {
		t.Errorf("audio not powered")
	}
	if fi, err := os.Stat(wav); err != nil || fi.Size() <= 44 {
		t.Errorf("wav not recorded: %v", err)
	}
}
