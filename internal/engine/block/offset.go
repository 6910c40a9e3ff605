package block

import "unicode/utf8"

// Position locates a global character offset within a block array.
type Position struct {
	Block  int // index into the block array; len(blocks) means append
	Offset int // character offset inside the block's text; 0 for atomic blocks
}

// Locate maps a global character offset to a position in the block
// array. It walks blocks in order, accumulating the character length of
// text-bearing blocks; atomic media blocks contribute zero characters
// but are still visited, and capture offsets landing exactly on their
// boundary. Offsets at or beyond the total logical length resolve to
// the append position {len(blocks), 0}; callers treat that as "insert
// at end". Negative offsets resolve like zero.
func Locate(blocks []Block, offset int) Position {
	if offset < 0 {
		offset = 0
	}
	acc := 0
	for i, b := range blocks {
		if t, ok := TextOf(b); ok {
			n := utf8.RuneCountInString(t)
			if offset < acc+n {
				return Position{Block: i, Offset: offset - acc}
			}
			acc += n
			continue
		}
		if offset <= acc {
			return Position{Block: i, Offset: 0}
		}
	}
	return Position{Block: len(blocks), Offset: 0}
}

// OffsetOf is the inverse of Locate: it maps a position back to a
// global character offset. Positions past the end resolve to the total
// logical length.
func OffsetOf(blocks []Block, pos Position) int {
	acc := 0
	for i, b := range blocks {
		t, ok := TextOf(b)
		if i == pos.Block {
			if !ok {
				return acc
			}
			n := utf8.RuneCountInString(t)
			if pos.Offset < n {
				return acc + pos.Offset
			}
			return acc + n
		}
		if ok {
			acc += utf8.RuneCountInString(t)
		}
	}
	return acc
}

// AppendPosition reports whether the position is the append position
// for the given block array.
func AppendPosition(blocks []Block, pos Position) bool {
	return pos.Block >= len(blocks)
}
