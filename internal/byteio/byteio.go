// Package byteio implements the fixed- and variable-width integer reads and
// byte-needle searches the session parser builds everything else on top of.
//
// The raw bytes of every multi-byte read are fetched through a
// github.com/icza/bitio.Reader, the same way the teacher's internal/bits
// package leans on bitio for its bit-level primitives, and then assembled
// into an integer in the requested byte order.
package byteio

import (
	"bytes"
	"io"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"
)

// Endian selects the byte order used to assemble a multi-byte read.
type Endian bool

const (
	// LittleEndian assembles the least significant byte first.
	LittleEndian Endian = false
	// BigEndian assembles the most significant byte first.
	BigEndian Endian = true
)

// readBytes reads n raw bytes from buf starting at off via a bitio.Reader,
// byte-aligned reads reducing to plain octet fetches.
func readBytes(buf []byte, off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+n > len(buf) {
		return nil, errutil.Err(io.ErrUnexpectedEOF)
	}
	br := bitio.NewReader(bytes.NewReader(buf[off : off+n]))
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		b, err := br.ReadByte()
		if err != nil {
			return nil, errutil.Err(err)
		}
		out[i] = b
	}
	return out, nil
}

// readUint assembles an unsigned integer of n bytes read from buf at off,
// using the given byte order.
func readUint(buf []byte, off, n int, endian Endian) (uint64, error) {
	raw, err := readBytes(buf, off, n)
	if err != nil {
		return 0, err
	}
	var v uint64
	if endian == BigEndian {
		for _, b := range raw {
			v = v<<8 | uint64(b)
		}
	} else {
		for i := n - 1; i >= 0; i-- {
			v = v<<8 | uint64(raw[i])
		}
	}
	return v, nil
}

// ReadU2 reads a 2-byte unsigned integer from buf at off.
func ReadU2(buf []byte, off int, endian Endian) (uint64, error) { return readUint(buf, off, 2, endian) }

// ReadU3 reads a 3-byte unsigned integer from buf at off.
func ReadU3(buf []byte, off int, endian Endian) (uint64, error) { return readUint(buf, off, 3, endian) }

// ReadU4 reads a 4-byte unsigned integer from buf at off.
func ReadU4(buf []byte, off int, endian Endian) (uint64, error) { return readUint(buf, off, 4, endian) }

// ReadU5 reads a 5-byte unsigned integer from buf at off.
func ReadU5(buf []byte, off int, endian Endian) (uint64, error) { return readUint(buf, off, 5, endian) }

// ReadU8 reads an 8-byte unsigned integer from buf at off.
func ReadU8(buf []byte, off int, endian Endian) (uint64, error) { return readUint(buf, off, 8, endian) }

// ReadVarWidth reads a little-endian unsigned integer whose width (in bytes)
// is 0..5, as used by the three-point record (width 0 yields value 0).
func ReadVarWidth(buf []byte, off int, width int) (uint64, error) {
	switch width {
	case 0:
		return 0, nil
	case 1, 2, 3, 4, 5:
		return readUint(buf, off, width, LittleEndian)
	default:
		return 0, errutil.Err(bytes.ErrTooLarge)
	}
}

// FindForward returns the offset of the first occurrence of needle within
// buf[start:end], or -1 if not found.
func FindForward(buf []byte, start, end int, needle []byte) int {
	if start < 0 {
		start = 0
	}
	if end > len(buf) {
		end = len(buf)
	}
	if start >= end || len(needle) == 0 {
		return -1
	}
	idx := bytes.Index(buf[start:end], needle)
	if idx < 0 {
		return -1
	}
	return start + idx
}

// FindBackward returns the offset of the last occurrence of needle within
// buf[start:end], or -1 if not found.
func FindBackward(buf []byte, start, end int, needle []byte) int {
	if start < 0 {
		start = 0
	}
	if end > len(buf) {
		end = len(buf)
	}
	if start >= end || len(needle) == 0 {
		return -1
	}
	idx := bytes.LastIndex(buf[start:end], needle)
	if idx < 0 {
		return -1
	}
	return start + idx
}

// ParseLengthPrefixedString reads a 4-byte little-endian length followed by
// that many bytes of text, returning the raw (not NUL-terminated, not
// re-encoded) string and the total number of bytes consumed.
func ParseLengthPrefixedString(buf []byte, pos int) (string, int, error) {
	n, err := ReadU4(buf, pos, LittleEndian)
	if err != nil {
		return "", 0, err
	}
	start := pos + 4
	end := start + int(n)
	if end > len(buf) || end < start {
		return "", 0, errutil.Err(io.ErrUnexpectedEOF)
	}
	return string(buf[start:end]), 4 + int(n), nil
}
