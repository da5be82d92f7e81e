package extract

import (
	"testing"

	"ptsession/block"
	"ptsession/model"
)

func buildAudioTrackEntryPayload(name string, channelIDs []uint16) []byte {
	n := len(name)
	buf := []byte{byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)}
	buf = append(buf, []byte(name)...)
	nch := uint32(len(channelIDs))
	buf = append(buf, byte(nch), byte(nch>>8), byte(nch>>16), byte(nch>>24))
	for _, id := range channelIDs {
		buf = append(buf, byte(id), byte(id>>8))
	}
	return buf
}

func TestAudioTracksEnumerateAndBind(t *testing.T) {
	plain := make([]byte, 0x14)

	entryPayload := buildAudioTrackEntryPayload("Vocal", []uint16{0})
	entry, plain := syntheticBlock(plain, audioTrackEntryContentType, entryPayload, nil)
	list, plain := syntheticBlock(plain, audioTrackListContentType, nil, []*block.Block{entry})

	region := &model.Region{Name: "take1", Index: 3}
	regions := []*model.Region{region}

	desc := DescriptorFor(10, false)

	// Build a placement record carrying region index 3 at payload+4.
	recordPayload := make([]byte, 8)
	recordPayload[4] = 3
	record, plain := syntheticBlock(plain, desc.PlacementRecord, recordPayload, nil)
	list2, plain := syntheticBlock(plain, desc.PlacementList, nil, []*block.Block{record})
	perRegion, plain := syntheticBlock(plain, desc.PlacementPerRegion, nil, []*block.Block{list2})
	root, plain := syntheticBlock(plain, desc.TrackPlacement, nil, []*block.Block{perRegion})

	forest := []*block.Block{list, root}

	tracks := AudioTracks(forest, plain, desc, regions)
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}
	if tracks[0].Name != "Vocal" {
		t.Fatalf("got name %q, want Vocal", tracks[0].Name)
	}
	if tracks[0].Region == nil || tracks[0].Region.Index != 3 {
		t.Fatalf("got region %+v, want index 3 bound", tracks[0].Region)
	}
}

func TestAudioTracksNoList(t *testing.T) {
	desc := DescriptorFor(10, false)
	tracks := AudioTracks(nil, make([]byte, 0x14), desc, nil)
	if tracks != nil {
		t.Fatalf("expected nil tracks, got %v", tracks)
	}
}
