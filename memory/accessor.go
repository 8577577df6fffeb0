// Package memory abstracts access to another process's address space.
//
// Attaching to a live process is left to the caller; this package defines the
// capability the inventory code consumes and a file-backed image of a memory
// region that implements it.
package memory

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
)

// ErrOutOfRange is returned for addresses outside the readable region.
var ErrOutOfRange = errors.New("memory: address out of range")

// Accessor reads and patches external memory.
type Accessor interface {
	ReadBytes(addr uint64, n int) ([]byte, error)
	WriteByteAt(addr uint64, v byte) error
	// FindOccurrences returns every address where pattern starts, ascending.
	FindOccurrences(pattern []byte) ([]uint64, error)
	// BaseAddress is the load address of the scanned module.
	BaseAddress() uint64
}

// Image is an in-process copy of a memory region starting at base.
type Image struct {
	base   uint64
	data   []byte
	writes int
}

// NewImage wraps buf as the memory region [base, base+len(buf)).
func NewImage(buf []byte, base uint64) *Image {
	return &Image{base: base, data: buf}
}

// OpenImage loads a raw dump file.
func OpenImage(path string, base uint64) (*Image, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("memory: open image: %w", err)
	}
	return NewImage(buf, base), nil
}

// Save writes the current image contents, including patches, to path.
func (m *Image) Save(path string) error {
	if err := os.WriteFile(path, m.data, 0o644); err != nil {
		return fmt.Errorf("memory: save image: %w", err)
	}
	return nil
}

func (m *Image) BaseAddress() uint64 { return m.base }

// Writes is the number of single-byte patches applied so far.
func (m *Image) Writes() int { return m.writes }

// Bytes exposes the backing buffer.
func (m *Image) Bytes() []byte { return m.data }

func (m *Image) String() string {
	return fmt.Sprintf("memory image @%#x (%s)", m.base, humanize.Bytes(uint64(len(m.data))))
}

func (m *Image) span(addr uint64, n int) (int, error) {
	if n < 0 || addr < m.base || addr-m.base > uint64(len(m.data)) || uint64(len(m.data))-(addr-m.base) < uint64(n) {
		return 0, fmt.Errorf("%w: %#x+%d", ErrOutOfRange, addr, n)
	}
	return int(addr - m.base), nil
}

// ReadBytes returns a copy of n bytes at addr.
func (m *Image) ReadBytes(addr uint64, n int) ([]byte, error) {
	off, err := m.span(addr, n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, m.data[off:off+n])
	return out, nil
}

func (m *Image) WriteByteAt(addr uint64, v byte) error {
	off, err := m.span(addr, 1)
	if err != nil {
		return err
	}
	m.data[off] = v
	m.writes++
	return nil
}

func (m *Image) FindOccurrences(pattern []byte) ([]uint64, error) {
	if len(pattern) == 0 {
		return nil, errors.New("memory: empty pattern")
	}
	var out []uint64
	for start := 0; start <= len(m.data)-len(pattern); {
		i := bytes.Index(m.data[start:], pattern)
		if i < 0 {
			break
		}
		out = append(out, m.base+uint64(start+i))
		start += i + 1
	}
	return out, nil
}
