// Package pattern implements static Mach-O analysis used to discover the
// virtual addresses of private functions and globals inside the host
// process image (spec.md §4.6.1), ahead of injection.
package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

// Pattern is a compiled byte pattern: a fixed-width sequence with some
// bytes wildcarded out via a parallel mask.
type Pattern struct {
	bytes []byte
	mask  []bool // true where the byte at that index must match
}

// Compile parses a space-separated sequence of two-digit hex bytes, with
// "??" standing in for a wildcard byte, e.g. "FF ?? 03 D5".
func Compile(spec string) (Pattern, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return Pattern{}, fmt.Errorf("pattern: empty pattern spec")
	}
	p := Pattern{bytes: make([]byte, len(fields)), mask: make([]bool, len(fields))}
	for i, f := range fields {
		if f == "??" {
			continue
		}
		v, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return Pattern{}, fmt.Errorf("pattern: invalid byte %q: %w", f, err)
		}
		p.bytes[i] = byte(v)
		p.mask[i] = true
	}
	return p, nil
}

// MustCompile is Compile, panicking on error; for use with pattern
// literals known to be valid at init time.
func MustCompile(spec string) Pattern {
	p, err := Compile(spec)
	if err != nil {
		panic(err)
	}
	return p
}

// Len reports the pattern's length in bytes.
func (p Pattern) Len() int { return len(p.bytes) }

// matchAt reports whether p matches data starting at offset off.
func (p Pattern) matchAt(data []byte, off int) bool {
	if off+len(p.bytes) > len(data) {
		return false
	}
	for i, want := range p.bytes {
		if p.mask[i] && data[off+i] != want {
			return false
		}
	}
	return true
}

// Search returns the offset of the first match of p in data, or false if
// none is found.
func Search(data []byte, p Pattern) (int, bool) {
	if p.Len() == 0 {
		return 0, false
	}
	for off := 0; off+p.Len() <= len(data); off++ {
		if p.matchAt(data, off) {
			return off, true
		}
	}
	return 0, false
}

// SearchAll returns every match offset of p in data, including matches
// that overlap an earlier one.
func SearchAll(data []byte, p Pattern) []int {
	var offs []int
	for off := 0; off+p.Len() <= len(data); off++ {
		if p.matchAt(data, off) {
			offs = append(offs, off)
		}
	}
	return offs
}
