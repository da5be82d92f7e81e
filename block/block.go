// Package block recursively decodes a plaintext session blob as a forest of
// tagged blocks: each block carries a content-type code, a byte range and a
// nested child list, mirroring the way the teacher's meta package decodes a
// flat sequence of length-prefixed metadata blocks, generalized here to a
// recursive tree.
package block

import (
	"github.com/pkg/errors"

	"ptsession/internal/byteio"
)

// ZMark is the sentinel byte that begins every block.
const ZMark = 0x5A

// headerSize is the number of bytes in a block header: mark + type(2) +
// size(4) + content_type(2) overlapping the first two payload bytes.
const headerSize = 7

// maxDepth bounds recursive child parsing.
const maxDepth = 10

// Block is one node of the tagged-block tree.
type Block struct {
	// Type is the raw block_type field.
	Type uint16
	// Size is the payload length in bytes, not including the header.
	Size int
	// ContentType identifies the payload's semantic role; it overlaps the
	// first two bytes of the payload.
	ContentType uint16
	// Offset is this block's starting offset (the ZMark byte) within the
	// plaintext buffer it was parsed from.
	Offset int
	// Children are blocks discovered within this block's payload.
	Children []*Block
}

// End returns the offset one past this block's payload.
func (b *Block) End() int {
	return b.Offset + headerSize + b.Size
}

// PayloadStart returns the offset of the first payload byte.
func (b *Block) PayloadStart() int {
	return b.Offset + headerSize
}

// Find returns the first child (direct, not recursive) with the given
// content type, or nil.
func (b *Block) Find(contentType uint16) *Block {
	for _, c := range b.Children {
		if c.ContentType == contentType {
			return c
		}
	}
	return nil
}

// FindAll returns all direct children with the given content type.
func (b *Block) FindAll(contentType uint16) []*Block {
	var out []*Block
	for _, c := range b.Children {
		if c.ContentType == contentType {
			out = append(out, c)
		}
	}
	return out
}

// FindRecursive searches forest depth-first, pre-order, for the first block
// (at any depth) with the given content type.
func FindRecursive(forest []*Block, contentType uint16) *Block {
	for _, b := range forest {
		if b.ContentType == contentType {
			return b
		}
		if found := FindRecursive(b.Children, contentType); found != nil {
			return found
		}
	}
	return nil
}

// FindAllRecursive searches forest depth-first for every block (at any
// depth) with the given content type.
func FindAllRecursive(forest []*Block, contentType uint16) []*Block {
	var out []*Block
	var walk func([]*Block)
	walk = func(bs []*Block) {
		for _, b := range bs {
			if b.ContentType == contentType {
				out = append(out, b)
			}
			walk(b.Children)
		}
	}
	walk(forest)
	return out
}

// ErrMalformed indicates the top-level scan produced no blocks at all.
var ErrMalformed = errors.New("block: no top-level blocks found")

// Parse walks buf starting at offset 0x14, sequentially decoding top-level
// blocks, and returns the resulting forest.
func Parse(buf []byte, bigEndian bool) ([]*Block, error) {
	endian := byteio.LittleEndian
	if bigEndian {
		endian = byteio.BigEndian
	}

	var top []*Block
	pos := 0x14
	for pos < len(buf) {
		b, ok := parseOne(buf, pos, endian, 0)
		if ok {
			top = append(top, b)
			pos += headerSize + b.Size
		} else {
			pos++
		}
	}
	if len(top) == 0 {
		return nil, errors.WithStack(ErrMalformed)
	}
	return top, nil
}

// parseOne attempts to parse a single block at offset, recursively parsing
// its children. It returns ok=false if no valid block header is present at
// offset.
func parseOne(buf []byte, offset int, endian byteio.Endian, depth int) (*Block, bool) {
	if offset+headerSize > len(buf) {
		return nil, false
	}
	if buf[offset] != ZMark {
		return nil, false
	}

	blockType, err := byteio.ReadU2(buf, offset+1, endian)
	if err != nil {
		return nil, false
	}
	if blockType&0xFF00 != 0 {
		return nil, false
	}

	size, err := byteio.ReadU4(buf, offset+3, endian)
	if err != nil {
		return nil, false
	}
	if offset+headerSize+int(size) > len(buf) {
		return nil, false
	}

	contentType, err := byteio.ReadU2(buf, offset+headerSize, endian)
	if err != nil {
		return nil, false
	}

	b := &Block{
		Type:        uint16(blockType),
		Size:        int(size),
		ContentType: uint16(contentType),
		Offset:      offset,
	}

	if depth < maxDepth {
		b.Children = parseChildren(buf, b.PayloadStart(), b.Size, endian, depth+1)
	}

	return b, true
}

// parseChildren scans payload [start, start+size) for nested blocks,
// advancing past each match by its full extent and one byte otherwise.
func parseChildren(buf []byte, start, size int, endian byteio.Endian, depth int) []*Block {
	end := start + size
	if end > len(buf) {
		end = len(buf)
	}

	var children []*Block
	p := start
	for p < end {
		child, ok := parseOne(buf, p, endian, depth)
		if ok {
			children = append(children, child)
			p += headerSize + child.Size
		} else {
			p++
		}
	}
	return children
}
