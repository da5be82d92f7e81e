package ptsession

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a Load failure into the closed set the format can
// legitimately produce.
type Kind int

// Load failure kinds.
const (
	// KindFileOpen indicates the input file could not be opened.
	KindFileOpen Kind = iota
	// KindTruncated indicates the file is shorter than the deobfuscation
	// header, or a block's declared size extends past EOF.
	KindTruncated
	// KindUnknownCipher indicates the header's xor_type byte is not a
	// recognized cipher family.
	KindUnknownCipher
	// KindUnsupportedVersion indicates the detected version falls outside
	// [5, 12].
	KindUnsupportedVersion
	// KindBadSessionRate indicates the session's declared sample rate falls
	// outside [44100, 192000].
	KindBadSessionRate
	// KindMalformed indicates the block tree parse produced no top-level
	// blocks, or the header scan found no product/version segment.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindFileOpen:
		return "FileOpen"
	case KindTruncated:
		return "Truncated"
	case KindUnknownCipher:
		return "UnknownCipher"
	case KindUnsupportedVersion:
		return "UnsupportedVersion"
	case KindBadSessionRate:
		return "BadSessionRate"
	case KindMalformed:
		return "Malformed"
	default:
		return "Unknown"
	}
}

// LoadError reports why Load failed, keeping the underlying cause available
// via Unwrap for diagnostics while exposing a closed, switchable Kind to
// callers. LoadError has no Cause method, so errors.Cause stops at the
// LoadError itself.
type LoadError struct {
	Kind  Kind
	cause error
}

func (e *LoadError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("ptsession: %s: %v", e.Kind, e.cause)
	}
	return fmt.Sprintf("ptsession: %s", e.Kind)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *LoadError) Unwrap() error { return e.cause }

// newLoadError wraps cause (which may carry its own stack via
// github.com/pkg/errors) into a LoadError of the given kind.
func newLoadError(kind Kind, cause error) error {
	return errors.WithStack(&LoadError{Kind: kind, cause: cause})
}
