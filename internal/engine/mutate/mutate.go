package mutate

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/dhollis/scribe/internal/engine/block"
)

// Insert splices text into the block array at the given global
// character offset and returns the new array plus the offset just
// after the inserted text. Offsets outside the logical text clamp to
// the nearest end; an offset landing exactly on an atomic media block
// produces an adjacent text block rather than touching the media. An
// at/after-end insert extends a trailing anonymous text block in
// place; any other trailing block gains a sibling text block, so an
// append never grows an identified styled span it was not aimed at.
// Inserted text is NFC-normalized so IME composition output compares
// stably across passes. Inserting the empty string is a no-op.
func Insert(blocks []block.Block, text string, offset int) ([]block.Block, int) {
	text = norm.NFC.String(text)
	offset = clampOffset(blocks, offset)
	if text == "" {
		return blocks, offset
	}

	after := offset + utf8.RuneCountInString(text)
	pos := block.Locate(blocks, offset)

	if block.AppendPosition(blocks, pos) {
		out := append([]block.Block{}, blocks...)
		if n := len(out); n > 0 {
			if tb, ok := out[n-1].(block.TextBlock); ok {
				out[n-1] = block.TextBlock{Text: tb.Text + text}
				return out, after
			}
		}
		return append(out, block.TextBlock{Text: text}), after
	}

	target := blocks[pos.Block]
	if block.Atomic(target) {
		out := make([]block.Block, 0, len(blocks)+1)
		out = append(out, blocks[:pos.Block]...)
		out = append(out, block.TextBlock{Text: text})
		out = append(out, blocks[pos.Block:]...)
		return out, after
	}

	t, _ := block.TextOf(target)
	r := []rune(t)
	spliced := string(r[:pos.Offset]) + text + string(r[pos.Offset:])
	out := append([]block.Block{}, blocks...)
	out[pos.Block] = block.WithText(target, spliced)
	return out, after
}

// Delete removes the logical character range [start, end) and returns
// the new array plus the collapse offset. Ranges are clamped; start >=
// end is a no-op. Blocks strictly inside the range are dropped
// wholesale, atomic media and undeletable blocks included: the
// undeletable guarantee protects against accidental surface loss, not
// against explicit range deletion. Boundary blocks are trimmed, and
// text blocks that end up empty are omitted.
func Delete(blocks []block.Block, start, end int) ([]block.Block, int) {
	start = clampOffset(blocks, start)
	end = clampOffset(blocks, end)
	if start >= end {
		return blocks, start
	}

	sp := block.Locate(blocks, start)
	ep := block.Locate(blocks, end)

	out := make([]block.Block, 0, len(blocks))
	out = append(out, blocks[:sp.Block]...)

	if sp.Block == ep.Block {
		// Range interior to one text block: excise the middle.
		b := blocks[sp.Block]
		t, _ := block.TextOf(b)
		r := []rune(t)
		if kept := string(r[:sp.Offset]) + string(r[ep.Offset:]); kept != "" {
			out = append(out, block.WithText(b, kept))
		}
		out = append(out, blocks[sp.Block+1:]...)
		return out, start
	}

	// Start block: keep the prefix. A media block resolved as the start
	// is consumed by the range.
	sb := blocks[sp.Block]
	if t, ok := block.TextOf(sb); ok {
		if prefix := string([]rune(t)[:sp.Offset]); prefix != "" {
			out = append(out, block.WithText(sb, prefix))
		}
	}

	// End block: keep the suffix. A media block resolved as the end sits
	// just past the range and survives.
	if ep.Block < len(blocks) {
		eb := blocks[ep.Block]
		if t, ok := block.TextOf(eb); ok {
			if suffix := string([]rune(t)[ep.Offset:]); suffix != "" {
				out = append(out, block.WithText(eb, suffix))
			}
		} else {
			out = append(out, eb)
		}
		out = append(out, blocks[ep.Block+1:]...)
	}
	return out, start
}

// Replace deletes [start, end) and inserts text at start. When start >=
// end it degrades to a pure insert.
func Replace(blocks []block.Block, start, end int, text string) ([]block.Block, int) {
	if start >= end {
		return Insert(blocks, text, start)
	}
	out, off := Delete(blocks, start, end)
	return Insert(out, text, off)
}

// ReplaceText replaces the first occurrence of old in the logical text
// and reports whether a replacement happened.
func ReplaceText(blocks []block.Block, old, new string) ([]block.Block, bool) {
	if old == "" {
		return blocks, false
	}
	logical := block.Text(blocks)
	idx := strings.Index(logical, old)
	if idx < 0 {
		return blocks, false
	}
	start := utf8.RuneCountInString(logical[:idx])
	out, _ := Replace(blocks, start, start+utf8.RuneCountInString(old), new)
	return out, true
}

// ReplaceAll replaces every occurrence of old and returns the number of
// replacements. After each replacement the scan resumes just past the
// inserted text, so a replacement that itself contains the search
// string is never re-matched and the loop always terminates. The
// remainder is re-scanned against the current array, keeping offsets
// valid across the length delta of earlier replacements.
func ReplaceAll(blocks []block.Block, old, new string) ([]block.Block, int) {
	if old == "" {
		return blocks, 0
	}
	count := 0
	from := 0 // rune offset to resume scanning at
	for {
		logical := block.Text(blocks)
		byteFrom := runeToByte(logical, from)
		idx := strings.Index(logical[byteFrom:], old)
		if idx < 0 {
			return blocks, count
		}
		start := from + utf8.RuneCountInString(logical[byteFrom:byteFrom+idx])
		blocks, _ = Replace(blocks, start, start+utf8.RuneCountInString(old), new)
		from = start + utf8.RuneCountInString(new)
		count++
	}
}

// StyleText re-tags the first occurrence of text as a styled block with
// the given id and style, splitting boundary blocks as needed, and
// reports whether a match was found. Unmatched prefix and suffix pieces
// of split blocks become plain text blocks. When the match spans
// several blocks, every text-bearing block fully inside the span is
// converted wholesale; the first converted piece carries the caller's
// id and the rest receive fresh ids so ids stay globally unique. Atomic
// media blocks inside the span are left untouched.
func StyleText(blocks []block.Block, text, id string, style block.StyleMap) ([]block.Block, bool) {
	if text == "" {
		return blocks, false
	}
	logical := block.Text(blocks)
	idx := strings.Index(logical, text)
	if idx < 0 {
		return blocks, false
	}
	start := utf8.RuneCountInString(logical[:idx])
	end := start + utf8.RuneCountInString(text)
	style = style.Normalize()

	out := make([]block.Block, 0, len(blocks)+2)
	acc := 0
	first := true
	for _, b := range blocks {
		t, ok := block.TextOf(b)
		if !ok {
			out = append(out, b)
			continue
		}
		n := utf8.RuneCountInString(t)
		bs, be := acc, acc+n
		acc = be
		if be <= start || bs >= end {
			out = append(out, b)
			continue
		}

		r := []rune(t)
		lo := max(start-bs, 0)
		hi := min(end-bs, n)
		if lo > 0 {
			out = append(out, block.TextBlock{Text: string(r[:lo])})
		}
		sid := id
		if !first {
			sid = block.NewID()
		}
		out = append(out, block.StyledBlock{ID: sid, Text: string(r[lo:hi]), Style: style.Clone()})
		first = false
		if hi < n {
			out = append(out, block.TextBlock{Text: string(r[hi:])})
		}
	}
	return out, true
}

// InsertBlock places a block at the given global character offset. A
// position inside a text-bearing block splits it into before-text, new
// block, after-text, omitting empty pieces; a position on an atomic
// block inserts adjacently. Identified blocks without an id are
// assigned one, and styled blocks get their style normalized. The
// returned offset sits just after the new block's text contribution.
func InsertBlock(blocks []block.Block, nb block.Block, offset int) ([]block.Block, int) {
	nb = prepare(nb)
	offset = clampOffset(blocks, offset)

	after := offset
	if t, ok := block.TextOf(nb); ok {
		after += utf8.RuneCountInString(t)
	}

	pos := block.Locate(blocks, offset)
	if block.AppendPosition(blocks, pos) {
		return append(append([]block.Block{}, blocks...), nb), after
	}

	target := blocks[pos.Block]
	if block.Atomic(target) || pos.Offset == 0 {
		out := make([]block.Block, 0, len(blocks)+1)
		out = append(out, blocks[:pos.Block]...)
		out = append(out, nb)
		out = append(out, blocks[pos.Block:]...)
		return out, after
	}

	t, _ := block.TextOf(target)
	r := []rune(t)
	out := make([]block.Block, 0, len(blocks)+2)
	out = append(out, blocks[:pos.Block]...)
	if before := string(r[:pos.Offset]); before != "" {
		out = append(out, block.WithText(target, before))
	}
	out = append(out, nb)
	if afterText := string(r[pos.Offset:]); afterText != "" {
		out = append(out, block.WithText(target, afterText))
	}
	out = append(out, blocks[pos.Block+1:]...)
	return out, after
}

// prepare fills in generated ids and normalizes styles on blocks about
// to enter the array.
func prepare(b block.Block) block.Block {
	switch v := b.(type) {
	case block.TextBlock:
		return v
	case block.StyledBlock:
		if v.ID == "" {
			v.ID = block.NewID()
		}
		v.Style = v.Style.Normalize()
		return v
	case block.DocumentBlock:
		if v.ID == "" {
			v.ID = block.NewID()
		}
		return v
	case block.ImageBlock:
		if v.ID == "" {
			v.ID = block.NewID()
		}
		return v
	default:
		panic("mutate: unknown block kind " + b.Kind().String())
	}
}

// clampOffset clamps a global character offset into [0, logical length].
func clampOffset(blocks []block.Block, offset int) int {
	if offset < 0 {
		return 0
	}
	if total := block.TextLen(blocks); offset > total {
		return total
	}
	return offset
}

// runeToByte converts a rune offset into a byte offset within s.
func runeToByte(s string, runeOff int) int {
	if runeOff <= 0 {
		return 0
	}
	count := 0
	for i := range s {
		if count == runeOff {
			return i
		}
		count++
	}
	return len(s)
}
