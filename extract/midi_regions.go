package extract

import (
	"ptsession/block"
	"ptsession/internal/byteio"
	"ptsession/model"
)

const (
	midiRegionListContentType  = 0x2002
	midiRegionEntryContentType = 0x2001
	midiRegionInfoContentType  = 0x1007
)

// MIDIRegions walks the 0x2002 list's 0x2001 > 0x1007 entries, binding each
// to a MIDI event chunk by index. A region's StartPos is initialized to
// ZeroTicks and its Length to the bound chunk's MaxPos, per §4.5.6.
func MIDIRegions(forest []*block.Block, plain []byte, bigEndian bool, chunks []Chunk) []*model.Region {
	endian := endianOf(bigEndian)

	var regions []*model.Region
	rawIndex := 0
	for _, list := range block.FindAllRecursive(forest, midiRegionListContentType) {
		for _, entry := range list.FindAll(midiRegionEntryContentType) {
			info := entry.Find(midiRegionInfoContentType)
			if info == nil {
				continue
			}
			r, ok := parseMIDIRegionEntry(info, plain, endian, chunks, rawIndex)
			rawIndex++
			if !ok {
				continue
			}
			regions = append(regions, r)
		}
	}
	return regions
}

func parseMIDIRegionEntry(info *block.Block, plain []byte, endian byteio.Endian, chunks []Chunk, index int) (*model.Region, bool) {
	name, consumed, err := byteio.ParseLengthPrefixedString(plain, info.PayloadStart())
	if err != nil {
		return nil, false
	}

	tp, err := parseThreePoint(plain, info.PayloadStart()+consumed)
	if err != nil {
		return nil, false
	}

	chunkIndex, err := byteio.ReadU4(plain, info.End(), endian)
	if err != nil {
		return nil, false
	}
	chunk := chunkByIndex(chunks, int(chunkIndex))
	if chunk == nil {
		return nil, false
	}

	r := &model.Region{
		Name:     name,
		Index:    index,
		StartPos: model.ZeroTicks,
		Length:   chunk.MaxPos,
		Events:   append([]model.MIDIEvent(nil), chunk.Events...),
	}
	_ = tp.Length // the three-point record's length field duplicates the chunk's max_pos; kept for parity with the on-disk layout, not used.
	return r, true
}

func chunkByIndex(chunks []Chunk, index int) *Chunk {
	for i := range chunks {
		if chunks[i].Index == index {
			return &chunks[i]
		}
	}
	return nil
}
