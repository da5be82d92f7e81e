package extract

import (
	"ptsession/internal/byteio"
)

// zeroPointBias is the constant subtracted from a 5-byte-wide offset/start
// field to remove the format's encoded zero-point. Its origin is
// undocumented; treated as a literal, per the format's open questions.
const zeroPointBias = 1_000_000_000_000 // 10^12

// threePoint is the decoded (offset, length, start) triple described by a
// three-point record.
type threePoint struct {
	Offset uint64
	Length uint64
	Start  uint64
	// Span is the total byte length of the record (5 plus the three widths),
	// letting a caller skip past it.
	Span int
}

// parseThreePoint decodes a three-point record whose tag byte sits at
// buf[j]. Field widths (0..5 bytes each) are packed in the high nibble of
// the three bytes following the tag; values are read little-endian in the
// order {offset, length, start} at cursor j+5, j+5+offsetWidth and
// j+5+offsetWidth+lengthWidth respectively.
func parseThreePoint(buf []byte, j int) (threePoint, error) {
	if j+4 >= len(buf) {
		return threePoint{}, errOutOfRange
	}
	offsetWidth := int(buf[j+1] >> 4)
	lengthWidth := int(buf[j+2] >> 4)
	startWidth := int(buf[j+3] >> 4)

	cursor := j + 5
	offset, err := byteio.ReadVarWidth(buf, cursor, offsetWidth)
	if err != nil {
		return threePoint{}, err
	}
	if offsetWidth == 5 {
		offset -= zeroPointBias
	}
	cursor += offsetWidth

	length, err := byteio.ReadVarWidth(buf, cursor, lengthWidth)
	if err != nil {
		return threePoint{}, err
	}
	cursor += lengthWidth

	start, err := byteio.ReadVarWidth(buf, cursor, startWidth)
	if err != nil {
		return threePoint{}, err
	}
	if startWidth == 5 {
		start -= zeroPointBias
	}

	return threePoint{
		Offset: offset,
		Length: length,
		Start:  start,
		Span:   5 + offsetWidth + lengthWidth + startWidth,
	}, nil
}
