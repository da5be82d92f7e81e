package extract

import (
	"ptsession/block"
	"ptsession/internal/byteio"
	"ptsession/model"
)

const (
	audioTrackListContentType  = 0x1015
	audioTrackEntryContentType = 0x1014
)

// AudioTracks enumerates audio tracks from the 0x1015 list, then walks the
// track-placement tree (desc.TrackPlacement / PlacementPerRegion /
// PlacementList / PlacementRecord) to bind regions onto them. A track whose
// slot is already filled when a further placement resolves to it is
// duplicated, per the (track_index, region_index) flattening in the data
// model.
func AudioTracks(forest []*block.Block, plain []byte, desc Descriptor, regions []*model.Region) []*model.Track {
	endian := endianOf(desc.BigEndian)

	tracks := enumerateAudioTracks(forest, plain, endian)
	if len(tracks) == 0 {
		return nil
	}

	for _, placementRoot := range block.FindAllRecursive(forest, desc.TrackPlacement) {
		perRegion := placementRoot.FindAll(desc.PlacementPerRegion)
		for count, region := range perRegion {
			if count >= len(tracks) {
				break
			}
			for _, list := range region.FindAll(desc.PlacementList) {
				for _, rec := range list.FindAll(desc.PlacementRecord) {
					regionIndex, err := byteio.ReadU4(plain, rec.PayloadStart()+4, endian)
					if err != nil {
						continue
					}
					resolved := RegionByIndex(regions, int(regionIndex))
					if resolved == nil {
						continue
					}
					tracks = bindAudioPlacement(tracks, count, resolved)
				}
			}
		}
	}

	return tracks
}

func enumerateAudioTracks(forest []*block.Block, plain []byte, endian byteio.Endian) []*model.Track {
	list := block.FindRecursive(forest, audioTrackListContentType)
	if list == nil {
		return nil
	}

	var tracks []*model.Track
	for _, entry := range list.FindAll(audioTrackEntryContentType) {
		name, consumed, err := byteio.ParseLengthPrefixedString(plain, entry.PayloadStart())
		if err != nil {
			continue
		}
		cursor := entry.PayloadStart() + consumed
		nch, err := byteio.ReadU4(plain, cursor, endian)
		if err != nil {
			continue
		}
		cursor += 4
		for ch := uint64(0); ch < nch; ch++ {
			if _, err := byteio.ReadU2(plain, cursor, endian); err != nil {
				break
			}
			cursor += 2
			tracks = append(tracks, &model.Track{
				Name:  name,
				Index: len(tracks),
			})
		}
	}
	return tracks
}

// bindAudioPlacement fills trackIndex's sentinel slot with region, or
// appends a new Track duplicating that track's identity if the slot is
// already occupied.
func bindAudioPlacement(tracks []*model.Track, trackIndex int, region *model.Region) []*model.Track {
	if trackIndex < 0 || trackIndex >= len(tracks) {
		return tracks
	}
	t := tracks[trackIndex]
	if t.Region == nil {
		t.Region = region
		return tracks
	}
	return append(tracks, &model.Track{
		Name:   t.Name,
		Index:  t.Index,
		Region: region,
	})
}
