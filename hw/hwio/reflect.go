package hwio

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type bankReg struct {
	offset uint16
	regPtr any
}

var (
	typeReg8   = reflect.TypeOf(Reg8{})
	typeMem    = reflect.TypeOf(Mem{})
	typeDevice = reflect.TypeOf(Device{})
)

type tagInfo struct {
	bank     int
	offset   int // -1 when absent
	reset    uint64
	rwmask   uint64
	size     uint64
	vsize    uint64
	readonly bool
	wronly   bool
	rcb      string
	wcb      string
	pcb      string
}

func parseUint(key, val string) (uint64, error) {
	n, err := strconv.ParseUint(val, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseTag(field string, tag string) (tagInfo, error) {
	ti := tagInfo{offset: -1, rwmask: 0xFF}
	upper := strings.ToUpper(field)

	for _, opt := range strings.Split(tag, ",") {
		key, val, hasval := strings.Cut(strings.TrimSpace(opt), "=")

		var err error
		var n uint64
		switch key {
		case "":
		case "bank":
			n, err = parseUint(key, val)
			ti.bank = int(n)
		case "offset":
			n, err = parseUint(key, val)
			ti.offset = int(n)
		case "reset":
			ti.reset, err = parseUint(key, val)
		case "rwmask":
			ti.rwmask, err = parseUint(key, val)
		case "size":
			ti.size, err = parseUint(key, val)
		case "vsize":
			ti.vsize, err = parseUint(key, val)
		case "readonly":
			ti.readonly = true
		case "writeonly":
			ti.wronly = true
		case "rcb":
			ti.rcb = "Read" + upper
			if hasval {
				ti.rcb = val
			}
		case "wcb":
			ti.wcb = "Write" + upper
			if hasval {
				ti.wcb = val
			}
		case "pcb":
			ti.pcb = "Peek" + upper
			if hasval {
				ti.pcb = val
			}
		default:
			err = fmt.Errorf("unknown option %q", key)
		}
		if err != nil {
			return ti, fmt.Errorf("field %s: %w", field, err)
		}
	}
	if ti.readonly && ti.wronly {
		return ti, fmt.Errorf("field %s: readonly and writeonly are exclusive", field)
	}
	return ti, nil
}

func (ti tagInfo) flags() RWFlags {
	switch {
	case ti.readonly:
		return ReadOnlyFlag
	case ti.wronly:
		return WriteOnlyFlag
	}
	return ReadWriteFlag
}

// method returns the method called name on bank, converted to the type of
// dst, and stores it in dst.
func method[T any](bank reflect.Value, name string, dst *T) error {
	if name == "" {
		return nil
	}
	m := bank.MethodByName(name)
	if !m.IsValid() {
		return fmt.Errorf("missing callback method %s", name)
	}
	fn, ok := m.Interface().(T)
	if !ok {
		return fmt.Errorf("callback %s has type %s, want %T", name, m.Type(), *dst)
	}
	*dst = fn
	return nil
}

func initReg8(bank reflect.Value, name string, reg *Reg8, ti tagInfo) error {
	if ti.reset > 0xFF {
		return fmt.Errorf("reset value too big for %s: %#x", name, ti.reset)
	}
	if ti.rwmask > 0xFF {
		return fmt.Errorf("rwmask value too big for %s: %#x", name, ti.rwmask)
	}
	reg.Name = name
	reg.Value = uint8(ti.reset)
	reg.RoMask = ^uint8(ti.rwmask)
	reg.Flags = ti.flags()
	return errors.Join(
		method(bank, ti.rcb, &reg.ReadCb),
		method(bank, ti.wcb, &reg.WriteCb),
		method(bank, ti.pcb, &reg.PeekCb),
	)
}

func initMem(bank reflect.Value, name string, mem *Mem, ti tagInfo) error {
	if ti.size == 0 {
		return fmt.Errorf("missing size for %s", name)
	}
	if ti.vsize == 0 {
		ti.vsize = ti.size
	}
	if ti.vsize > 0x10000 {
		return fmt.Errorf("invalid vsize for %s: %#x", name, ti.vsize)
	}
	mem.Name = name
	mem.Data = make([]byte, ti.size)
	mem.VSize = int(ti.vsize)
	if ti.readonly {
		mem.Flags |= MemFlag8ReadOnly
	}
	return method(bank, ti.wcb, &mem.WriteCb)
}

func initDevice(bank reflect.Value, name string, dev *Device, ti tagInfo) error {
	if ti.size == 0 || ti.size > 0x10000 {
		return fmt.Errorf("invalid size for %s: %#x", name, ti.size)
	}
	dev.Name = name
	dev.Size = int(ti.size)
	dev.Flags = ti.flags()
	return errors.Join(
		method(bank, ti.rcb, &dev.ReadCb),
		method(bank, ti.wcb, &dev.WriteCb),
		method(bank, ti.pcb, &dev.PeekCb),
	)
}

func structOf(bank any) (reflect.Value, error) {
	v := reflect.ValueOf(bank)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return v, fmt.Errorf("bank must be a pointer to struct, got %T", bank)
	}
	return v, nil
}

// InitRegs initializes all the Reg8, Mem and Device fields of the struct
// pointed to by bank, as described by their "hwio" struct tags. Callbacks are
// looked up among the methods of bank.
func InitRegs(bank any) error {
	ptr, err := structOf(bank)
	if err != nil {
		return err
	}

	v := ptr.Elem()
	typ := v.Type()
	for i := range typ.NumField() {
		f := typ.Field(i)
		tag, ok := f.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		ti, err := parseTag(f.Name, tag)
		if err != nil {
			return err
		}

		fptr := v.Field(i).Addr().Interface()
		switch f.Type {
		case typeReg8:
			err = initReg8(ptr, f.Name, fptr.(*Reg8), ti)
		case typeMem:
			err = initMem(ptr, f.Name, fptr.(*Mem), ti)
		case typeDevice:
			err = initDevice(ptr, f.Name, fptr.(*Device), ti)
		default:
			err = fmt.Errorf("field %s: unsupported type %s", f.Name, f.Type)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// MustInitRegs is like InitRegs but panics on error.
func MustInitRegs(bank any) {
	if err := InitRegs(bank); err != nil {
		panic(err)
	}
}

// bankGetRegs returns the registers of bank having an offset in the given
// bank number.
func bankGetRegs(bank any, bankNum int) ([]bankReg, error) {
	ptr, err := structOf(bank)
	if err != nil {
		return nil, err
	}

	v := ptr.Elem()
	typ := v.Type()
	var regs []bankReg
	for i := range typ.NumField() {
		f := typ.Field(i)
		tag, ok := f.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		ti, err := parseTag(f.Name, tag)
		if err != nil {
			return nil, err
		}
		if ti.offset < 0 || ti.bank != bankNum {
			continue
		}
		if ti.offset > 0xFFFF {
			return nil, fmt.Errorf("field %s: offset out of range: %#x", f.Name, ti.offset)
		}
		regs = append(regs, bankReg{
			offset: uint16(ti.offset),
			regPtr: v.Field(i).Addr().Interface(),
		})
	}
	return regs, nil
}
