package extract

import (
	"github.com/pkg/errors"

	"ptsession/block"
	"ptsession/internal/byteio"
)

// MinSessionRate and MaxSessionRate bound a legal session sample rate.
const (
	MinSessionRate = 44100
	MaxSessionRate = 192000
)

// ErrBadSessionRate indicates the 0x1028 block's rate field fell outside
// [MinSessionRate, MaxSessionRate].
var ErrBadSessionRate = errors.New("extract: session rate out of range")

const sessionRateContentType = 0x1028

// SessionRate locates the 0x1028 block and reads the 4-byte rate at
// payload+4.
func SessionRate(forest []*block.Block, plain []byte, bigEndian bool) (uint32, error) {
	b := block.FindRecursive(forest, sessionRateContentType)
	if b == nil {
		return 0, errors.WithStack(errOutOfRange)
	}
	rate, err := byteio.ReadU4(plain, b.PayloadStart()+4, endianOf(bigEndian))
	if err != nil {
		return 0, err
	}
	if rate < MinSessionRate || rate > MaxSessionRate {
		return 0, errors.WithStack(ErrBadSessionRate)
	}
	return uint32(rate), nil
}

// RateFactor is target_rate / session_rate, applied to every timeline value
// the extractor produces.
func RateFactor(sessionRate, targetRate uint32) float64 {
	return float64(targetRate) / float64(sessionRate)
}

// legacySessionRateMarkers give the byte sequence preceding the session rate
// field for versions whose block tree predates the 0x1028 layout (5-7), and
// the offset from the start of the marker to the 3-byte rate field.
//
// ref: original_source/ptfformat.cc's per-version rate scans, which this
// collapses into a single table rather than one code path per version.
var legacySessionRateMarkers = []struct {
	marker []byte
	offset int
}{
	{marker: []byte{0x5A, 0x03, 0x00}, offset: 0x34},
	{marker: []byte{0x5A, 0x05}, offset: 0x34},
	{marker: []byte{0x5A, 0x06}, offset: 0x34},
}

// LegacySessionRate recovers the session rate for versions 5-7 by locating
// the marker sequence appropriate to the version and reading three bytes at
// a fixed offset from the marker, per §4.5.9.
func LegacySessionRate(plain []byte, bigEndian bool) (uint32, error) {
	for _, m := range legacySessionRateMarkers {
		at := byteio.FindForward(plain, 0x14, len(plain), m.marker)
		if at < 0 {
			continue
		}
		rate, err := byteio.ReadU3(plain, at+m.offset, endianOf(bigEndian))
		if err != nil {
			continue
		}
		if rate < MinSessionRate || rate > MaxSessionRate {
			continue
		}
		return uint32(rate), nil
	}
	return 0, errors.WithStack(errOutOfRange)
}
