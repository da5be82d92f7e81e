package extract

import (
	"ptsession/block"
	"ptsession/internal/byteio"
	"ptsession/model"
)

const midiEventsContentType = 0x2000

// chunkMarker precedes every MIDI event chunk; there is no length prefix for
// the chunk itself, so it is located by literal search rather than
// structural parse, per §4.5's guidance on where needle search remains
// necessary.
var chunkMarker = []byte("MdNLB")

const (
	markerSkipBytes  = 11
	eventRecordBytes = 35
)

// Chunk is a single decoded MIDI event stream, keyed by its position in
// encounter order (the chunk index referenced by MIDI region entries).
type Chunk struct {
	Index     int
	ZeroTicks uint64
	// MaxPos is the maximum of pos+length over the chunk's events, used as
	// a MIDI region's length.
	MaxPos uint64
	Events []model.MIDIEvent
}

// MIDIEvents locates every "MdNLB"-marked chunk inside the 0x2000 block(s)
// and decodes its event records. Chunk-internal fields are always
// little-endian, independent of the session's global endianness.
func MIDIEvents(forest []*block.Block, plain []byte) []Chunk {
	var chunks []Chunk
	for _, wrapper := range block.FindAllRecursive(forest, midiEventsContentType) {
		start := wrapper.PayloadStart()
		end := wrapper.End()
		pos := start
		for pos < end {
			at := byteio.FindForward(plain, pos, end, chunkMarker)
			if at < 0 {
				break
			}
			chunk, next, ok := parseChunk(plain, at, len(chunks))
			if !ok {
				pos = at + len(chunkMarker)
				continue
			}
			chunks = append(chunks, chunk)
			pos = next
		}
	}
	return chunks
}

func parseChunk(plain []byte, markerAt int, index int) (Chunk, int, bool) {
	cursor := markerAt + len(chunkMarker) + markerSkipBytes

	nEvents, err := byteio.ReadU4(plain, cursor, byteio.LittleEndian)
	if err != nil {
		return Chunk{}, 0, false
	}
	cursor += 4

	zeroTicks, err := byteio.ReadU5(plain, cursor, byteio.LittleEndian)
	if err != nil {
		return Chunk{}, 0, false
	}
	cursor += 5

	chunk := Chunk{Index: index, ZeroTicks: zeroTicks}
	for i := uint64(0); i < nEvents; i++ {
		if cursor+eventRecordBytes > len(plain) {
			break
		}
		absPos, err := byteio.ReadU5(plain, cursor, byteio.LittleEndian)
		if err != nil {
			break
		}
		note := plain[cursor+8]
		length, err := byteio.ReadU5(plain, cursor+9, byteio.LittleEndian)
		if err != nil {
			break
		}
		velocity := plain[cursor+17]
		cursor += eventRecordBytes

		ev := model.MIDIEvent{
			Pos:      absPos - zeroTicks,
			Length:   length,
			Note:     note,
			Velocity: velocity,
		}
		if !ev.Valid() {
			// Defensive: partial decryption artifacts.
			continue
		}
		if end := ev.Pos + ev.Length; end > chunk.MaxPos {
			chunk.MaxPos = end
		}
		chunk.Events = append(chunk.Events, ev)
	}

	return chunk, cursor, true
}
