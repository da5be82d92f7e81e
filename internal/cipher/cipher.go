// Package cipher implements the header-derived XOR deobfuscation that turns
// a session file's ciphered byte stream into a plaintext blob.
package cipher

import (
	"github.com/pkg/errors"
)

// headerSize is the length of the plaintext prefix; ciphering begins at this
// offset.
const headerSize = 0x14

// Kind classifies a cipher-derivation failure.
type Kind int

// Cipher failure kinds.
const (
	// KindTruncated indicates the input is shorter than headerSize.
	KindTruncated Kind = iota
	// KindUnknownCipher indicates an unrecognized xor_type byte.
	KindUnknownCipher
)

// Error reports a deobfuscation failure.
type Error struct {
	Kind Kind
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTruncated:
		return "cipher: file shorter than header"
	case KindUnknownCipher:
		return "cipher: unrecognized xor_type"
	default:
		return "cipher: unknown error"
	}
}

// cipherParams describes the per-family multiplier and sign used to derive
// the keystream delta from xor_value.
type cipherParams struct {
	multiplier int
	signed     bool
	// legacyIndex selects the older, byte-offset keystream indexing when
	// true; the newer family indexes by a shifted tick instead.
	legacyIndex bool
}

func paramsFor(xorType byte) (cipherParams, error) {
	switch xorType {
	case 0x01:
		return cipherParams{multiplier: 53, signed: false, legacyIndex: true}, nil
	case 0x05:
		return cipherParams{multiplier: 11, signed: true, legacyIndex: false}, nil
	default:
		return cipherParams{}, errors.WithStack(&Error{Kind: KindUnknownCipher})
	}
}

// delta returns the smallest i in [0,256) such that (i*mul) mod 256 ==
// target, negated modulo 256 when signed is true.
func delta(mul int, target byte, signed bool) byte {
	var d int
	for i := 0; i < 256; i++ {
		if byte((i*mul)%256) == target {
			d = i
			break
		}
	}
	if signed {
		d = (256 - d) % 256
	}
	return byte(d)
}

// keystream builds the 256-byte table K[i] = (i*delta) mod 256.
func keystream(d byte) [256]byte {
	var k [256]byte
	for i := 0; i < 256; i++ {
		k[i] = byte((int(i) * int(d)) % 256)
	}
	return k
}

// Deobfuscate reads the header at the start of raw to derive the session's
// per-file cipher parameters, then returns a plaintext buffer of equal
// length. Bytes [0, headerSize) are copied verbatim (they are not ciphered);
// bytes from headerSize onward are decrypted.
//
// Deobfuscate is deterministic: calling it twice on the same bytes yields
// identical buffers.
func Deobfuscate(raw []byte) ([]byte, error) {
	if len(raw) < headerSize {
		return nil, errors.WithStack(&Error{Kind: KindTruncated})
	}

	xorType := raw[0x12]
	xorValue := raw[0x13]

	params, err := paramsFor(xorType)
	if err != nil {
		return nil, err
	}

	d := delta(params.multiplier, xorValue, params.signed)
	k := keystream(d)

	plain := make([]byte, len(raw))
	copy(plain[:headerSize], raw[:headerSize])

	for i := headerSize; i < len(raw); i++ {
		var idx int
		if params.legacyIndex {
			idx = i % 256
		} else {
			idx = (i >> 12) % 256
		}
		plain[i] = raw[i] ^ k[idx]
	}

	return plain, nil
}
