package extract

import (
	"github.com/pkg/errors"

	"ptsession/internal/byteio"
)

// errOutOfRange indicates a sub-scan ran past the plaintext buffer; phases
// treat this as "nothing more to extract here" rather than a hard failure,
// per the format's partial-population error policy.
var errOutOfRange = errors.New("extract: offset out of range")

func endianOf(bigEndian bool) byteio.Endian {
	if bigEndian {
		return byteio.BigEndian
	}
	return byteio.LittleEndian
}
