// Package version detects a plaintext session blob's format version and
// global endianness from its header region.
package version

import (
	"github.com/pkg/errors"

	"ptsession/internal/byteio"
)

// MinVersion and MaxVersion bound the supported session format range.
const (
	MinVersion = 5
	MaxVersion = 12
)

// headerScanEnd bounds the structured header scan to [0x14, headerScanEnd).
const headerScanEnd = 0x100

// sentinel is the three-byte prefix that marks the product/version block's
// payload.
var sentinel = []byte{0x03, 0x00, 0x00}

// Info is the result of version detection: the session's format version and
// the byte order used throughout the rest of the plaintext blob.
type Info struct {
	Version   int
	BigEndian bool
	// Product is the product name string recovered alongside the version,
	// empty if detection fell back to the header-offset heuristics.
	Product string
}

// ErrMalformed indicates the structured header scan found no product
// segment and the buffer is too short for any fallback offset. A fallback
// byte outside [MinVersion, MaxVersion] yields ErrUnsupported instead.
var ErrMalformed = errors.New("version: no product/version block found")

// ErrUnsupported indicates a version byte was recovered but falls outside
// [MinVersion, MaxVersion].
type ErrUnsupported struct {
	Version int
}

func (e *ErrUnsupported) Error() string {
	return "version: unsupported session version"
}

// Detect scans plain's header region for a block whose payload begins with
// the product/version sentinel; on failure it falls back to three fixed
// header offsets.
func Detect(plain []byte) (Info, error) {
	if info, ok := scanStructured(plain); ok {
		if err := checkRange(info.Version); err != nil {
			return Info{}, err
		}
		return info, nil
	}

	v, ok := scanFallback(plain)
	if !ok {
		return Info{}, errors.WithStack(ErrMalformed)
	}
	if err := checkRange(v); err != nil {
		return Info{}, err
	}
	// The fallback heuristics offer no endianness signal of their own;
	// little-endian is the common case among the versions that require
	// this fallback.
	return Info{Version: v, BigEndian: false}, nil
}

func checkRange(v int) error {
	if v < MinVersion || v > MaxVersion {
		return errors.WithStack(&ErrUnsupported{Version: v})
	}
	return nil
}

// scanStructured looks for a block_type in {0x03, 0x04} whose payload starts
// with the sentinel, within [0x14, headerScanEnd). Endianness is inferred
// from the two bytes immediately following the 7-byte block header: high
// byte zero implies little-endian, non-zero implies big-endian.
func scanStructured(plain []byte) (Info, bool) {
	end := headerScanEnd
	if end > len(plain) {
		end = len(plain)
	}
	for off := 0x14; off+7 <= end; off++ {
		if plain[off] != 0x5A {
			continue
		}
		blockType, err := byteio.ReadU2(plain, off+1, byteio.LittleEndian)
		if err != nil {
			continue
		}
		if blockType != 0x03 && blockType != 0x04 {
			continue
		}
		payloadOff := off + 7
		if payloadOff+len(sentinel) > len(plain) {
			continue
		}
		if !equalBytes(plain[payloadOff:payloadOff+len(sentinel)], sentinel) {
			continue
		}

		bigEndian := false
		if payloadOff+2 <= len(plain) && plain[payloadOff+1] != 0 {
			bigEndian = true
		}

		product, consumed, err := byteio.ParseLengthPrefixedString(plain, payloadOff+len(sentinel))
		if err != nil {
			continue
		}
		verOff := payloadOff + len(sentinel) + consumed
		if verOff >= len(plain) {
			continue
		}
		return Info{Version: int(plain[verOff]), BigEndian: bigEndian, Product: product}, true
	}
	return Info{}, false
}

// scanFallback applies the fixed-offset heuristics used when the structured
// scan finds nothing.
func scanFallback(plain []byte) (int, bool) {
	if 0x40 < len(plain) {
		if v := plain[0x40]; v != 0 {
			return int(v), true
		}
	}
	if 0x3d < len(plain) {
		if v := plain[0x3d]; v != 0 {
			return int(v), true
		}
	}
	if 0x3a < len(plain) {
		return int(plain[0x3a]) + 2, true
	}
	return 0, false
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
