package log

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type frameContext struct{ frame int }

func (fc *frameContext) AddLogContext(z *EntryZ) { z.Int("frame", fc.frame) }

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		DisableDebugModules(ModuleMaskAll)
		Enable()
	})
	return &buf
}

func TestModuleByName(t *testing.T) {
	for _, name := range []string{"emu", "hwio", "bus", "ppu", "sound"} {
		mod, ok := ModuleByName(name)
		if !ok {
			t.Fatalf("ModuleByName(%q) not found", name)
		}
		if mod.String() != name {
			t.Errorf("module %q String() = %q", name, mod.String())
		}
	}
	if _, ok := ModuleByName("<error>"); ok {
		t.Errorf("ModuleByName(<error>) should not be found")
	}

	want := []string{"emu", "hwio", "bus", "ppu", "sound"}
	if diff := cmp.Diff(want, ModuleNames()[:len(want)]); diff != "" {
		t.Errorf("ModuleNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestEntryZLevels(t *testing.T) {
	buf := captureOutput(t)

	if ModPPU.DebugZ("hidden") != nil {
		t.Fatalf("debug entry should be nil when module debug is off")
	}

	ModPPU.WarnZ("out of range").Hex16("addr", 0xA000).End()
	if !strings.Contains(buf.String(), "out of range") || !strings.Contains(buf.String(), "addr=a000") {
		t.Errorf("unexpected output: %q", buf.String())
	}

	EnableDebugModules(ModSound.Mask())
	buf.Reset()
	ModSound.DebugZ("write nr52").Uint8("val", 0x80).Bool("on", true).End()
	if !strings.Contains(buf.String(), "write nr52") || !strings.Contains(buf.String(), "val=128") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestDisable(t *testing.T) {
	buf := captureOutput(t)

	Disable()
	ModEmu.WarnZ("nope").End()
	ModEmu.Warnf("nope %d", 1)
	if buf.Len() != 0 {
		t.Errorf("disabled logger wrote %q", buf.String())
	}
}

func TestContext(t *testing.T) {
	buf := captureOutput(t)

	fc := &frameContext{frame: 12}
	AddContext(fc)
	defer RemoveContext(fc)

	ModBus.WarnZ("unmapped").End()
	if !strings.Contains(buf.String(), "frame=12") {
		t.Errorf("context field missing: %q", buf.String())
	}
}
