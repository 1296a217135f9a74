package emu

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-faster/jx"
)

// A Trace is a scripted sequence of register writes, standing in for the
// program a CPU would run. Each step performs its writes, then waits for a
// number of cycles.
//
//	{
//	  "name": "scrolling",
//	  "frames": 10,
//	  "steps": [
//	    {"writes": [{"addr": "0xFF40", "val": "0x91"}]},
//	    {"data": {"addr": "0x8010", "bytes": [255, 0, 255, 0]}, "wait": 456}
//	  ]
//	}
//
// Addresses and values are JSON numbers or strings holding a number, with
// an optional 0x or $ prefix for hexadecimal. frames is the minimum number
// of frames the run lasts once all steps are done.
type Trace struct {
	Name   string
	Frames int
	Steps  []Step
}

type Step struct {
	Writes []Write
	Wait   uint32
}

type Write struct {
	Addr uint16
	Val  uint8
}

// Cycles returns the number of cycles spent waiting by the steps.
func (tr *Trace) Cycles() uint64 {
	var n uint64
	for _, s := range tr.Steps {
		n += uint64(s.Wait)
	}
	return n
}

// LoadTrace reads and decodes the trace file at path.
func LoadTrace(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tr, err := DecodeTrace(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tr, nil
}

// DecodeTrace decodes a JSON trace.
func DecodeTrace(r io.Reader) (*Trace, error) {
	var tr Trace
	d := jx.Decode(r, 4096)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			tr.Name, err = d.Str()
		case "frames":
			tr.Frames, err = d.Int()
			if err == nil && tr.Frames < 0 {
				err = fmt.Errorf("negative frame count %d", tr.Frames)
			}
		case "steps":
			err = d.Arr(func(d *jx.Decoder) error {
				s, err := decodeStep(d)
				if err != nil {
					return fmt.Errorf("step %d: %w", len(tr.Steps), err)
				}
				tr.Steps = append(tr.Steps, s)
				return nil
			})
		default:
			err = d.Skip()
		}
		if err != nil {
			return fmt.Errorf("%q: %w", key, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}
	return &tr, nil
}

func decodeStep(d *jx.Decoder) (Step, error) {
	var s Step
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "wait":
			v, err := decodeNumber(d, 32)
			s.Wait = uint32(v)
			return err
		case "writes":
			return d.Arr(func(d *jx.Decoder) error {
				w, err := decodeWrite(d)
				s.Writes = append(s.Writes, w)
				return err
			})
		case "data":
			return decodeData(d, &s)
		}
		return d.Skip()
	})
	return s, err
}

func decodeWrite(d *jx.Decoder) (Write, error) {
	var w Write
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "addr":
			v, err := decodeNumber(d, 16)
			w.Addr = uint16(v)
			return err
		case "val":
			v, err := decodeNumber(d, 8)
			w.Val = uint8(v)
			return err
		}
		return d.Skip()
	})
	return w, err
}

// decodeData expands a block of bytes into consecutive writes.
func decodeData(d *jx.Decoder, s *Step) error {
	var (
		addr  uint16
		bytes []uint8
	)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "addr":
			v, err := decodeNumber(d, 16)
			addr = uint16(v)
			return err
		case "bytes":
			return d.Arr(func(d *jx.Decoder) error {
				v, err := decodeNumber(d, 8)
				bytes = append(bytes, uint8(v))
				return err
			})
		}
		return d.Skip()
	})
	if err != nil {
		return err
	}
	if int(addr)+len(bytes) > 0x10000 {
		return fmt.Errorf("data block at %04X overflows the address space", addr)
	}
	for i, b := range bytes {
		s.Writes = append(s.Writes, Write{Addr: addr + uint16(i), Val: b})
	}
	return nil
}

// decodeNumber decodes an unsigned integer of at most the given bit size,
// given either as a JSON number or as a string.
func decodeNumber(d *jx.Decoder, bits int) (uint64, error) {
	switch d.Next() {
	case jx.Number:
		v, err := d.UInt64()
		if err != nil {
			return 0, err
		}
		if bits < 64 && v >= 1<<bits {
			return 0, fmt.Errorf("%d out of range for %d bits", v, bits)
		}
		return v, nil
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return 0, err
		}
		return parseNumber(s, bits)
	default:
		return 0, fmt.Errorf("expected number or string, got %s", d.Next())
	}
}

func parseNumber(s string, bits int) (uint64, error) {
	base := 10
	num := s
	if rest, ok := strings.CutPrefix(num, "0x"); ok {
		num, base = rest, 16
	} else if rest, ok := strings.CutPrefix(num, "$"); ok {
		num, base = rest, 16
	}
	v, err := strconv.ParseUint(num, base, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return v, nil
}
