package extract

import (
	"testing"

	"ptsession/block"
)

func TestCompoundsChain(t *testing.T) {
	plain := make([]byte, 0x14)

	name := "Drum Bus"
	n := len(name)
	detailPayload := []byte{byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)}
	detailPayload = append(detailPayload, []byte(name)...)

	detail, plain := syntheticBlock(plain, compoundDetailContentType, detailPayload, nil)
	entry, plain := syntheticBlock(plain, compoundEntryContentType, nil, []*block.Block{detail})
	group, plain := syntheticBlock(plain, compoundGroupContentType, nil, []*block.Block{entry})
	root, plain := syntheticBlock(plain, compoundRootContentType, nil, []*block.Block{group})

	forest := []*block.Block{root}
	compounds := Compounds(forest, plain)
	if len(compounds) != 1 {
		t.Fatalf("got %d compounds, want 1", len(compounds))
	}
	if compounds[0].Name != "Drum Bus" {
		t.Fatalf("got name %q, want Drum Bus", compounds[0].Name)
	}
}

func TestCompoundsAbsent(t *testing.T) {
	plain := make([]byte, 0x14)
	if compounds := Compounds(nil, plain); compounds != nil {
		t.Fatalf("expected nil compounds, got %v", compounds)
	}
}
