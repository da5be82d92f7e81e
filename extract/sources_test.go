package extract

import (
	"testing"

	"ptsession/block"
)

// buildNamesPayload encodes one filename entry as consumed by Sources:
// length-prefixed name, 4-byte type tag, then a trailer skip.
func buildNamesPayload(entries []struct {
	name string
	tag  string
}) []byte {
	buf := make([]byte, entrySkipBytes)
	for _, e := range entries {
		n := len(e.name)
		lenPrefix := []byte{byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)}
		buf = append(buf, lenPrefix...)
		buf = append(buf, []byte(e.name)...)
		buf = append(buf, []byte(e.tag)...)
		buf = append(buf, make([]byte, fileTypeTrailerBytes)...)
	}
	return buf
}

// syntheticBlock builds a block.Block (and backing bytes appended to plain)
// given a payload, returning the block and the extended plain buffer.
//
// ContentType is set directly on the struct rather than encoded into the
// bytes: extractors read their own fields starting at PayloadStart() with no
// allowance for a content-type prefix (the overlap described in the block
// format is a read-time coincidence of the real parser, not an extra field),
// so payload here is exactly what PayloadStart() onward must contain.
func syntheticBlock(plain []byte, contentType uint16, payload []byte, children []*block.Block) (*block.Block, []byte) {
	offset := len(plain)
	plain = append(plain, payload...)

	b := &block.Block{
		ContentType: contentType,
		Offset:      offset - 7, // PayloadStart() = Offset+7 must land at offset
		Size:        len(payload),
		Children:    children,
	}
	return b, plain
}

func TestSourcesBasic(t *testing.T) {
	plain := make([]byte, 0x14)

	namesPayload := buildNamesPayload([]struct {
		name string
		tag  string
	}{
		{name: "kick.wav", tag: "WAVE"},
		{name: "Audio Files/snare.wav", tag: "WAVE"},
	})
	names, plain := syntheticBlock(plain, wavNamesContentType, namesPayload, nil)

	list, plain := syntheticBlock(plain, wavListContentType, nil, []*block.Block{names})

	forest := []*block.Block{list}

	sources := Sources(forest, plain, false)
	if len(sources) != 1 {
		t.Fatalf("got %d sources, want 1 (the Audio Files entry should be filtered)", len(sources))
	}
	if sources[0].Filename != "kick.wav" {
		t.Fatalf("got filename %q, want kick.wav", sources[0].Filename)
	}
	if sources[0].Index != 0 {
		t.Fatalf("got index %d, want 0", sources[0].Index)
	}
}

func TestSourcesNoList(t *testing.T) {
	plain := make([]byte, 0x14)
	if sources := Sources(nil, plain, false); sources != nil {
		t.Fatalf("expected nil sources, got %v", sources)
	}
}

func TestCanonicalize(t *testing.T) {
	got := canonicalize("track1.wav", "EVAW")
	if got != "track1.wav" {
		t.Fatalf("got %q, want track1.wav", got)
	}
	got = canonicalize("track2", "AIFF")
	if got != "track2.aiff" {
		t.Fatalf("got %q, want track2.aiff", got)
	}
}

func TestFilteredPath(t *testing.T) {
	cases := map[string]bool{
		"kick.wav":                 false,
		"session.grp":              true,
		"Audio Files/kick.wav":     true,
		"Fade Files/xfade.wav":     true,
		"normal/path/snare.wav":    false,
	}
	for name, want := range cases {
		if got := filteredPath(name); got != want {
			t.Errorf("filteredPath(%q) = %v, want %v", name, got, want)
		}
	}
}
