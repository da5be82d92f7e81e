package extract

import (
	"ptsession/block"
	"ptsession/internal/byteio"
	"ptsession/model"
)

// Compound region groups are only present in version 10+ sessions and are
// not required by the audio/MIDI placement pipeline; Compounds is best
// effort and returns nil if the chain is absent.
const (
	compoundRootContentType   = 0x262C
	compoundGroupContentType  = 0x262B
	compoundEntryContentType  = 0x2628
	compoundDetailContentType = 0x2523
)

// Compounds walks the 0x262C > 0x262B > 0x2628 > 0x2523 chain, if present,
// and reports a flattened list of region-group descriptors. Only the group
// name is read from the data: Index and RootIndex are both the 0x2523
// block's offset, Level is the record's position in the returned list, and
// NextIndex is always -1. No parent chain or nesting depth is decoded.
func Compounds(forest []*block.Block, plain []byte) []*model.Compound {
	root := block.FindRecursive(forest, compoundRootContentType)
	if root == nil {
		return nil
	}

	var out []*model.Compound
	for _, group := range root.FindAll(compoundGroupContentType) {
		for _, entry := range group.FindAll(compoundEntryContentType) {
			detail := entry.Find(compoundDetailContentType)
			if detail == nil {
				continue
			}
			c, ok := parseCompoundDetail(detail, plain, len(out))
			if !ok {
				continue
			}
			out = append(out, c)
		}
	}
	return out
}

func parseCompoundDetail(detail *block.Block, plain []byte, level int) (*model.Compound, bool) {
	name, _, err := byteio.ParseLengthPrefixedString(plain, detail.PayloadStart())
	if err != nil {
		return nil, false
	}
	return &model.Compound{
		Index:     detail.Offset,
		Level:     level,
		NextIndex: -1,
		RootIndex: detail.Offset,
		Name:      name,
	}, true
}
