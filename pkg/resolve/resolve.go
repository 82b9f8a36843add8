// Package resolve parses boot images for secondary harts.
package resolve

import (
	"fmt"
	"io"

	"github.com/Binject/debug/elf"

	"github.com/carved4/go-sbicall/pkg/errors"
	"github.com/carved4/go-sbicall/pkg/timeval"
)

// Segment is a PT_LOAD program header.
type Segment struct {
	Paddr  uint64
	Vaddr  uint64
	Filesz uint64
	Memsz  uint64
	Off    uint64
}

type Image struct {
	file     *elf.File
	entry    uint64
	phys     uint64
	segments []Segment
}

// Parse validates an in-memory ELF image built for a RISC-V hart of the
// given width.
func Parse(img []byte, w timeval.Width) (*Image, error) {
	f, err := elf.NewFile(&memoryReaderAt{data: img})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrBadImage, err)
	}
	if f.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("%w: machine %v, want %v", errors.ErrBadImage, f.Machine, elf.EM_RISCV)
	}
	want := elf.ELFCLASS64
	if w == timeval.Narrow {
		want = elf.ELFCLASS32
	}
	if f.Class != want {
		return nil, fmt.Errorf("%w: class %v on a %v hart", errors.ErrBadImage, f.Class, w)
	}

	im := &Image{file: f, entry: f.Entry}
	for _, prg := range f.Progs {
		if prg.Type != elf.PT_LOAD {
			continue
		}
		im.segments = append(im.segments, Segment{
			Paddr:  prg.Paddr,
			Vaddr:  prg.Vaddr,
			Filesz: prg.Filesz,
			Memsz:  prg.Memsz,
			Off:    prg.Off,
		})
	}
	if len(im.segments) == 0 {
		return nil, fmt.Errorf("%w: no loadable segments", errors.ErrBadImage)
	}
	phys, ok := im.physical(im.entry)
	if !ok {
		return nil, fmt.Errorf("%w: entry 0x%x outside loadable segments", errors.ErrBadImage, im.entry)
	}
	im.phys = phys
	return im, nil
}

// Entry returns the physical start address for the hart. Harts released
// by firmware run with translation off.
func (im *Image) Entry() uintptr {
	return uintptr(im.phys)
}

// VirtualEntry returns e_entry as linked.
func (im *Image) VirtualEntry() uintptr {
	return uintptr(im.entry)
}

func (im *Image) Segments() []Segment {
	return append([]Segment(nil), im.segments...)
}

// Symbol looks up the address of a symbol in the image's symbol table.
func (im *Image) Symbol(name string) (uintptr, error) {
	syms, err := im.file.Symbols()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errors.ErrBadImage, err)
	}
	for _, sym := range syms {
		if sym.Name == name {
			return uintptr(sym.Value), nil
		}
	}
	return 0, fmt.Errorf("symbol %q not found", name)
}

// physical translates a linked address through the PT_LOAD segment that
// contains it.
func (im *Image) physical(vaddr uint64) (uint64, bool) {
	for _, s := range im.segments {
		if vaddr >= s.Vaddr && vaddr-s.Vaddr < s.Memsz {
			return s.Paddr + (vaddr - s.Vaddr), true
		}
	}
	return 0, false
}

type memoryReaderAt struct {
	data []byte
}

func (r *memoryReaderAt) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 || off >= int64(len(r.data)) {
		return 0, fmt.Errorf("offset %d out of range", off)
	}
	n = copy(p, r.data[off:])
	if n < len(p) {
		err = io.EOF
	}
	return n, err
}
