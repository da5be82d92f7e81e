package extract

import (
	"ptsession/block"
	"ptsession/internal/byteio"
	"ptsession/model"
)

const (
	midiTrackListContentType  = 0x2519
	midiTrackEntryContentType = 0x251A

	midiPlacementRootContentType      = 0x1058
	midiPlacementPerRegionContentType = 0x1057
	midiPlacementListContentType      = 0x1056
	midiPlacementRecordContentType    = 0x104F
)

// midiTrackHeaderSkip is the length of the fixed header that follows a MIDI
// track entry's name; only the name is read from an entry.
const midiTrackHeaderSkip = 22

// MIDITracks enumerates MIDI tracks from the 0x2519 list, binds regions onto
// them via the 0x1058 placement tree, and drops any track whose region slot
// was never filled.
func MIDITracks(forest []*block.Block, plain []byte, bigEndian bool, regions []*model.Region) []*model.Track {
	endian := endianOf(bigEndian)

	tracks := enumerateMIDITracks(forest, plain, endian)
	if len(tracks) == 0 {
		return nil
	}

	for _, root := range block.FindAllRecursive(forest, midiPlacementRootContentType) {
		perRegion := root.FindAll(midiPlacementPerRegionContentType)
		for count, region := range perRegion {
			if count >= len(tracks) {
				break
			}
			for _, list := range region.FindAll(midiPlacementListContentType) {
				for _, rec := range list.FindAll(midiPlacementRecordContentType) {
					bindMIDIPlacement(plain, endian, rec, tracks[count], regions)
				}
			}
		}
	}

	return dropUnplaced(tracks)
}

func enumerateMIDITracks(forest []*block.Block, plain []byte, endian byteio.Endian) []*model.Track {
	list := block.FindRecursive(forest, midiTrackListContentType)
	if list == nil {
		return nil
	}

	var tracks []*model.Track
	for _, entry := range list.FindAll(midiTrackEntryContentType) {
		name, _, err := byteio.ParseLengthPrefixedString(plain, entry.PayloadStart())
		if err != nil {
			continue
		}
		tracks = append(tracks, &model.Track{
			Name:  name,
			Index: len(tracks),
		})
	}
	return tracks
}

func bindMIDIPlacement(plain []byte, endian byteio.Endian, rec *block.Block, track *model.Track, regions []*model.Region) {
	regionIndex, err := byteio.ReadU4(plain, rec.PayloadStart()+4, endian)
	if err != nil {
		return
	}
	start, err := byteio.ReadU5(plain, rec.PayloadStart()+9, endian)
	if err != nil {
		return
	}

	region := RegionByIndex(regions, int(regionIndex))
	if region == nil {
		return
	}

	placed := *region
	placed.StartPos = absDiff(start, model.ZeroTicks)
	track.Region = &placed
}

// absDiff returns |a - b| computed over the signed difference, since the
// encoded start may precede the zero-point marker.
func absDiff(a, b uint64) uint64 {
	d := int64(a) - int64(b)
	if d < 0 {
		d = -d
	}
	return uint64(d)
}

func dropUnplaced(tracks []*model.Track) []*model.Track {
	var out []*model.Track
	for _, t := range tracks {
		if t.Region != nil {
			out = append(out, t)
		}
	}
	return out
}
