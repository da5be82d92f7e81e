package extract

import (
	"strings"

	"github.com/mewkiz/pkg/dbg"
	"github.com/mewkiz/pkg/pathutil"

	"ptsession/block"
	"ptsession/internal/byteio"
	"ptsession/model"
)

const (
	wavListContentType   = 0x1004
	wavNamesContentType  = 0x103A
	wavMetaContentType   = 0x1003
	wavLengthContentType = 0x1001
)

// entrySkipBytes is the fixed header skipped before the first filename
// entry in the 0x103A list.
const entrySkipBytes = 11

// fileTypeTrailerBytes is the trailer following a filename entry's 4-byte
// type tag.
const fileTypeTrailerBytes = 9

// canonicalExt maps a recognized 4-byte file-type tag (original or
// byte-reversed) to its canonical filename extension.
var canonicalExt = map[string]string{
	"WAVE": ".wav",
	"EVAW": ".wav",
	"AIFF": ".aiff",
	"FFIA": ".aiff",
}

func recognizedFileType(tag string) bool {
	_, ok := canonicalExt[tag]
	return ok
}

// filteredPath reports whether a source filename should be skipped
// entirely (not assigned an index): a .grp file, or one whose path
// contains an "Audio Files" or "Fade Files" element.
func filteredPath(filename string) bool {
	if strings.Contains(filename, ".grp") {
		return true
	}
	for _, elem := range strings.FieldsFunc(filename, func(r rune) bool { return r == '/' || r == '\\' }) {
		if elem == "Audio Files" || elem == "Fade Files" {
			return true
		}
	}
	return false
}

// Sources locates the WAV list block and its filename/length children,
// returning the recovered sources in monotonically assigned index order.
func Sources(forest []*block.Block, plain []byte, bigEndian bool) []*model.Source {
	endian := endianOf(bigEndian)

	list := block.FindRecursive(forest, wavListContentType)
	if list == nil {
		return nil
	}
	names := list.Find(wavNamesContentType)
	if names == nil {
		return nil
	}

	var sources []*model.Source
	pos := names.PayloadStart() + entrySkipBytes
	end := names.End()
	for pos < end {
		filename, consumed, err := byteio.ParseLengthPrefixedString(plain, pos)
		if err != nil {
			break
		}
		pos += consumed

		if pos+4 > len(plain) {
			break
		}
		tag := string(plain[pos : pos+4])
		pos += 4 + fileTypeTrailerBytes

		if filteredPath(filename) || !recognizedFileType(tag) {
			dbg.Println("extract: skipping filtered/unrecognized source entry:", filename, tag)
			continue
		}

		sources = append(sources, &model.Source{
			Filename: canonicalize(filename, tag),
			Index:    len(sources),
		})
	}

	assignLengths(list, plain, endian, sources)
	return sources
}

// canonicalize strips any existing extension and appends the canonical one
// for the recognized file-type tag.
func canonicalize(filename, tag string) string {
	ext := canonicalExt[tag]
	return pathutil.TrimExt(filename) + ext
}

// assignLengths reads the sibling 0x1003 > 0x1001 chain and assigns each
// 8-byte length, in iteration order, to sources.
func assignLengths(list *block.Block, plain []byte, endian byteio.Endian, sources []*model.Source) {
	i := 0
	for _, meta := range list.FindAll(wavMetaContentType) {
		for _, ln := range meta.FindAll(wavLengthContentType) {
			if i >= len(sources) {
				return
			}
			length, err := byteio.ReadU8(plain, ln.PayloadStart()+8, endian)
			if err != nil {
				continue
			}
			sources[i].Length = length
			i++
		}
	}
}
