package resolve

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carved4/go-sbicall/pkg/errors"
	"github.com/carved4/go-sbicall/pkg/timeval"
)

const (
	emRISCV = 243
	emX8664 = 62
	ptLoad  = 1
	ptNote  = 4
)

// elf64 builds a minimal little-endian ELF64 executable: one program
// header, 8 bytes of payload and a section table holding only .shstrtab.
func elf64(machine uint16, entry uint64, ptype uint32) []byte {
	return elf64At(machine, entry, ptype, 0x80200000)
}

// elf64At is elf64 with the segment linked at vaddr and loaded at
// 0x80200000.
func elf64At(machine uint16, entry uint64, ptype uint32, vaddr uint64) []byte {
	const (
		ehsize    = 64
		phentsize = 56
		shentsize = 64
		payload   = ehsize + phentsize
		strtab    = payload + 8
		shoff     = strtab + 16
	)
	names := "\x00.shstrtab\x00"
	b := make([]byte, shoff+2*shentsize)
	copy(b, []byte{0x7f, 'E', 'L', 'F', 2, 1, 1})
	le := binary.LittleEndian
	le.PutUint16(b[16:], 2) // ET_EXEC
	le.PutUint16(b[18:], machine)
	le.PutUint32(b[20:], 1)
	le.PutUint64(b[24:], entry)
	le.PutUint64(b[32:], ehsize) // phoff
	le.PutUint64(b[40:], shoff)
	le.PutUint16(b[52:], ehsize)
	le.PutUint16(b[54:], phentsize)
	le.PutUint16(b[56:], 1) // phnum
	le.PutUint16(b[58:], shentsize)
	le.PutUint16(b[60:], 2) // shnum
	le.PutUint16(b[62:], 1) // shstrndx

	ph := b[ehsize:]
	le.PutUint32(ph[0:], ptype)
	le.PutUint32(ph[4:], 5) // R+X
	le.PutUint64(ph[8:], payload)
	le.PutUint64(ph[16:], vaddr)
	le.PutUint64(ph[24:], 0x80200000) // paddr
	le.PutUint64(ph[32:], 8)
	le.PutUint64(ph[40:], 0x1000)
	le.PutUint64(ph[48:], 0x1000)

	copy(b[strtab:], names)
	sh := b[shoff+shentsize:]
	le.PutUint32(sh[0:], 1) // name
	le.PutUint32(sh[4:], 3) // SHT_STRTAB
	le.PutUint64(sh[24:], strtab)
	le.PutUint64(sh[32:], uint64(len(names)))
	le.PutUint64(sh[48:], 1)
	return b
}

func TestParse(t *testing.T) {
	im, err := Parse(elf64(emRISCV, 0x80200010, ptLoad), timeval.Wide)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x80200010), uint64(im.Entry()))
	assert.Equal(t, uint64(0x80200010), uint64(im.VirtualEntry()))
	assert.Equal(t, []Segment{{
		Paddr:  0x80200000,
		Vaddr:  0x80200000,
		Filesz: 8,
		Memsz:  0x1000,
		Off:    120,
	}}, im.Segments())

	_, err = im.Symbol("_start")
	assert.Error(t, err)
}

func TestParseHigherHalfEntry(t *testing.T) {
	const base = 0xffffffff80200000
	im, err := Parse(elf64At(emRISCV, base+0x10, ptLoad, base), timeval.Wide)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x80200010), uint64(im.Entry()))
	if timeval.NativeWidth() == timeval.Wide {
		assert.Equal(t, uint64(base+0x10), uint64(im.VirtualEntry()))
	}
	assert.Equal(t, uint64(0x80200000), im.Segments()[0].Paddr)
	assert.Equal(t, uint64(base), im.Segments()[0].Vaddr)

	// Linked high but the entry sits below the segment.
	_, err = Parse(elf64At(emRISCV, 0x80200010, ptLoad, base), timeval.Wide)
	assert.ErrorIs(t, err, errors.ErrBadImage)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		img  []byte
		w    timeval.Width
	}{
		{"garbage", []byte("not an elf image"), timeval.Wide},
		{"empty", nil, timeval.Wide},
		{"machine", elf64(emX8664, 0x80200000, ptLoad), timeval.Wide},
		{"class", elf64(emRISCV, 0x80200000, ptLoad), timeval.Narrow},
		{"no-load", elf64(emRISCV, 0x80200000, ptNote), timeval.Wide},
		{"entry", elf64(emRISCV, 0x90000000, ptLoad), timeval.Wide},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(test.img, test.w)
			assert.ErrorIs(t, err, errors.ErrBadImage)
		})
	}
}
