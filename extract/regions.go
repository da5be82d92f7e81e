package extract

import (
	"ptsession/block"
	"ptsession/internal/byteio"
	"ptsession/model"
)

// AudioRegions walks every region-list block matching desc's content-type
// pair, decoding each entry's name and three-point record and binding it to
// a source by index. Regions are scaled by ratefactor; the index assigned to
// each region is its raw on-disk position across all list blocks (not the
// position in the returned, possibly-shorter, slice), so that a track
// placement's region index continues to resolve correctly even when a
// zero-length region in between was dropped.
func AudioRegions(forest []*block.Block, plain []byte, desc Descriptor, sources []*model.Source, ratefactor float64) []*model.Region {
	endian := endianOf(desc.BigEndian)

	var regions []*model.Region
	rawIndex := 0
	for _, list := range block.FindAllRecursive(forest, desc.RegionList) {
		for _, entry := range list.FindAll(desc.RegionEntry) {
			r, ok := parseAudioRegionEntry(entry, plain, endian, sources, ratefactor, rawIndex)
			rawIndex++
			if !ok {
				continue
			}
			regions = append(regions, r)
		}
	}
	return regions
}

// RegionByIndex resolves a raw on-disk region index against regions, as
// produced by AudioRegions or MIDIRegions.
func RegionByIndex(regions []*model.Region, index int) *model.Region {
	for _, r := range regions {
		if r.Index == index {
			return r
		}
	}
	return nil
}

func parseAudioRegionEntry(entry *block.Block, plain []byte, endian byteio.Endian, sources []*model.Source, ratefactor float64, index int) (*model.Region, bool) {
	name, consumed, err := byteio.ParseLengthPrefixedString(plain, entry.PayloadStart())
	if err != nil {
		return nil, false
	}

	tp, err := parseThreePoint(plain, entry.PayloadStart()+consumed)
	if err != nil {
		return nil, false
	}

	length := scale(tp.Length, ratefactor)
	if length == 0 {
		// Zero-length regions may be omitted.
		return nil, false
	}

	// The source index sits right after the entry's first nested block, not
	// after the entry itself.
	if len(entry.Children) == 0 {
		return nil, false
	}
	srcIndex, err := byteio.ReadU4(plain, entry.Children[0].End(), endian)
	if err != nil {
		return nil, false
	}

	r := &model.Region{
		Name:         name,
		Index:        index,
		StartPos:     scale(tp.Start, ratefactor),
		SampleOffset: scale(tp.Offset, ratefactor),
		Length:       length,
		SourceIndex:  int(srcIndex),
	}
	if src := resolveSource(sources, int(srcIndex)); src != nil {
		r.Source = src
	} else {
		r.Source = unresolvedSource()
	}
	return r, true
}

func resolveSource(sources []*model.Source, index int) *model.Source {
	if index < 0 || index >= len(sources) {
		return nil
	}
	return sources[index]
}

// unresolvedSource returns the sentinel "unknown source" binding: an
// empty-filename source carrying the index callers should not rely on.
func unresolvedSource() *model.Source {
	return &model.Source{Index: model.NoSourceIndex}
}

func scale(v uint64, ratefactor float64) uint64 {
	return uint64(float64(v) * ratefactor)
}
