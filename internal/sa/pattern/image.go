package pattern

import (
	"bytes"
	"debug/macho"
	"fmt"
)

// Image wraps a parsed Mach-O binary with the section lookups discovery
// needs: text, selector strings, selector references, and the data
// segment addresses land in after an ADRP+LDR/ADD sequence resolves.
type Image struct {
	file *macho.File

	text     *macho.Section
	methname *macho.Section
	selrefs  *macho.Section
	dataSegs []*macho.Segment
}

// Open parses a Mach-O file already read into memory (a single-arch
// slice; fat binaries are split by the caller before reaching here).
func Open(data []byte) (*Image, error) {
	f, err := macho.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("pattern: parse mach-o: %w", err)
	}
	img := &Image{file: f}
	img.text = f.Section("__text")
	img.methname = f.Section("__objc_methname")
	img.selrefs = f.Section("__objc_selrefs")
	for _, load := range f.Loads {
		seg, ok := load.(*macho.Segment)
		if !ok {
			continue
		}
		if seg.Name == "__DATA" || seg.Name == "__DATA_CONST" || seg.Name == "__AUTH" {
			img.dataSegs = append(img.dataSegs, seg)
		}
	}
	return img, nil
}

func (img *Image) Close() error { return img.file.Close() }

// Text returns the __text section's bytes and base virtual address.
func (img *Image) Text() ([]byte, uint64, error) {
	if img.text == nil {
		return nil, 0, fmt.Errorf("pattern: no __text section")
	}
	data, err := img.text.Data()
	if err != nil {
		return nil, 0, fmt.Errorf("pattern: read __text: %w", err)
	}
	return data, img.text.Addr, nil
}

// InDataSegment reports whether the virtual address addr falls inside
// any writable data segment.
func (img *Image) InDataSegment(addr uint64) bool {
	for _, seg := range img.dataSegs {
		if addr >= seg.Addr && addr < seg.Addr+seg.Filesz {
			return true
		}
	}
	return false
}

// FindSelectorString returns the virtual address of the ObjC selector
// string sel in __objc_methname, if present.
func (img *Image) FindSelectorString(sel string) (uint64, bool) {
	if img.methname == nil {
		return 0, false
	}
	data, err := img.methname.Data()
	if err != nil {
		return 0, false
	}
	needle := append([]byte(sel), 0)
	off, ok := Search(data, rawPattern(needle))
	if !ok {
		return 0, false
	}
	return img.methname.Addr + uint64(off), true
}

// FindSelref returns the virtual address of the __objc_selrefs entry
// that points at selStringAddr (the selector string's address), and
// whether such an entry was found.
func (img *Image) FindSelref(selStringAddr uint64) (uint64, bool) {
	if img.selrefs == nil {
		return 0, false
	}
	data, err := img.selrefs.Data()
	if err != nil {
		return 0, false
	}
	for off := 0; off+8 <= len(data); off += 8 {
		v := leUint64(data[off : off+8])
		if v == selStringAddr {
			return img.selrefs.Addr + uint64(off), true
		}
	}
	return 0, false
}

func leUint64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// rawPattern builds an all-bytes-required Pattern from a literal byte
// slice, used for substring search within a section's raw data.
func rawPattern(b []byte) Pattern {
	mask := make([]bool, len(b))
	for i := range mask {
		mask[i] = true
	}
	return Pattern{bytes: b, mask: mask}
}
