// Package binrec reads little-endian fields at fixed offsets from raw record bytes.
package binrec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// ErrTruncatedRecord is returned when a field lies outside the record span.
var ErrTruncatedRecord = errors.New("binrec: truncated record")

// Field locates one value inside a record.
type Field struct {
	Offset int
	Width  int
}

// Reader decodes fields from an immutable byte span without copying it.
// The first failed read is kept; later reads return zero values.
type Reader struct {
	buf []byte
	err error
}

// NewReader wraps buf. The slice must not be modified while the reader is in use.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len returns the span length.
func (r *Reader) Len() int { return len(r.buf) }

// Err returns the first error encountered, if any.
func (r *Reader) Err() error { return r.err }

// Require fails the reader unless the span holds at least n bytes.
func (r *Reader) Require(n int) error {
	if r.err == nil && len(r.buf) < n {
		r.err = fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedRecord, n, len(r.buf))
	}
	return r.err
}

func (r *Reader) span(off, n int) []byte {
	if r.err != nil {
		return nil
	}
	if off < 0 || n < 0 || off+n > len(r.buf) {
		r.err = fmt.Errorf("%w: field [%#x:%#x] outside %d-byte span", ErrTruncatedRecord, off, off+n, len(r.buf))
		return nil
	}
	return r.buf[off : off+n]
}

func (r *Reader) U8(off int) uint8 {
	b := r.span(off, 1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) U16(off int) uint16 {
	b := r.span(off, 2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *Reader) U32(off int) uint32 {
	b := r.span(off, 4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) U64(off int) uint64 {
	b := r.span(off, 8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// Uint reads an unsigned integer field of width 1, 2, 4 or 8.
func (r *Reader) Uint(f Field) uint64 {
	switch f.Width {
	case 1:
		return uint64(r.U8(f.Offset))
	case 2:
		return uint64(r.U16(f.Offset))
	case 4:
		return uint64(r.U32(f.Offset))
	case 8:
		return r.U64(f.Offset)
	}
	if r.err == nil {
		r.err = fmt.Errorf("binrec: unsupported integer width %d", f.Width)
	}
	return 0
}

// Bytes returns a sub-slice of the span. It aliases the source buffer.
func (r *Reader) Bytes(off, n int) []byte {
	return r.span(off, n)
}

// UTF16 decodes a UTF-16LE text field and strips a trailing NUL unit.
func (r *Reader) UTF16(f Field) string {
	b := r.span(f.Offset, f.Width)
	if b == nil {
		return ""
	}
	s, err := DecodeUTF16(b)
	if err != nil {
		r.err = err
		return ""
	}
	return s
}

// DecodeUTF16 converts little-endian UTF-16 bytes to a string, dropping one
// trailing NUL terminator if present.
func DecodeUTF16(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", fmt.Errorf("%w: odd UTF-16 length %d", ErrTruncatedRecord, len(b))
	}
	if n := len(b); n >= 2 && b[n-2] == 0 && b[n-1] == 0 {
		b = b[:n-2]
	}
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("binrec: decode utf-16: %w", err)
	}
	return string(out), nil
}

// EncodeUTF16 is the inverse of DecodeUTF16; it appends the NUL terminator.
func EncodeUTF16(s string) []byte {
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	if err != nil {
		return []byte{0, 0}
	}
	return append(out, 0, 0)
}

// PutU16 writes v at off in little-endian order.
func PutU16(buf []byte, off int, v uint16) { binary.LittleEndian.PutUint16(buf[off:], v) }

// PutU32 writes v at off in little-endian order.
func PutU32(buf []byte, off int, v uint32) { binary.LittleEndian.PutUint32(buf[off:], v) }
