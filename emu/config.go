package emu

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"gbemu/emu/log"
	"gbemu/hw/apu"
	"gbemu/hw/ppu"
)

type Config struct {
	Video VideoConfig `toml:"video"`
	Audio AudioConfig `toml:"audio"`
	Debug DebugConfig `toml:"debug"`
}

type VideoConfig struct {
	// Palette holds the RGB colors of the 4 shades, from white to black, in
	// #RRGGBB form.
	Palette [4]string `toml:"palette"`

	// PNGDir, if set, is where frames are dumped.
	PNGDir string `toml:"png_dir"`
}

type AudioConfig struct {
	SampleRate   int     `toml:"sample_rate"`
	Threshold    int     `toml:"threshold"`
	OutputRate   int     `toml:"output_rate"`
	QueueSeconds float64 `toml:"queue_seconds"`
	WAVPath      string  `toml:"wav"`
}

type DebugConfig struct {
	DisableBackground bool `toml:"disable_background"`
	DisableWindow     bool `toml:"disable_window"`
	DisableSprites    bool `toml:"disable_sprites"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	var cfg Config
	for i, c := range ppu.DefaultPalette {
		cfg.Video.Palette[i] = formatRGB(c)
	}
	cfg.Audio = AudioConfig{
		SampleRate:   apu.DefaultSampleRate,
		Threshold:    apu.DefaultThreshold,
		OutputRate:   apu.DefaultSampleRate,
		QueueSeconds: 2,
	}
	return cfg
}

// Check validates the configuration.
func (cfg *Config) Check() error {
	if _, err := cfg.Video.RGBPalette(); err != nil {
		return err
	}
	acfg := &cfg.Audio
	switch {
	case acfg.SampleRate <= 0:
		return fmt.Errorf("invalid audio sample rate: %d", acfg.SampleRate)
	case acfg.Threshold <= 0:
		return fmt.Errorf("invalid audio threshold: %d", acfg.Threshold)
	case acfg.OutputRate <= 0:
		return fmt.Errorf("invalid audio output rate: %d", acfg.OutputRate)
	case acfg.QueueSeconds <= 0:
		return fmt.Errorf("invalid audio queue length: %gs", acfg.QueueSeconds)
	}
	return nil
}

// DebugToggles converts the debug section into PPU layer toggles.
func (dcfg DebugConfig) DebugToggles() ppu.Debug {
	return ppu.Debug{
		DisableBackground: dcfg.DisableBackground,
		DisableWindow:     dcfg.DisableWindow,
		DisableSprites:    dcfg.DisableSprites,
	}
}

// RGBPalette parses the shade colors.
func (vcfg VideoConfig) RGBPalette() (ppu.Palette, error) {
	var pal ppu.Palette
	for i, s := range vcfg.Palette {
		c, err := parseRGB(s)
		if err != nil {
			return pal, fmt.Errorf("palette color %d: %w", i, err)
		}
		pal[i] = c
	}
	return pal, nil
}

func parseRGB(s string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q, want #RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}

func formatRGB(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// LoadConfigOrDefault loads the configuration at path. Settings missing from
// the file keep their default value. If the file doesn't exist, the default
// configuration is returned.
func LoadConfigOrDefault(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		log.ModEmu.InfoZ("no config file, using defaults").String("path", path).End()
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		log.ModEmu.WarnZ("unknown config key").String("key", key.String()).End()
	}
	if err := cfg.Check(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg at path, in TOML.
func SaveConfig(cfg Config, path string) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, buf, 0644)
}
