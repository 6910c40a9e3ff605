// Package extract rebuilds a block array from a live editable surface
// after a native user edit. Identified nodes are matched back to their
// previous blocks by id; adjacent anonymous content merges into single
// text blocks; newline forms are normalized. The extractor is the only
// path that enforces the undeletable guarantee: an edit that would
// lose a protected block is rejected wholesale and the previous array
// is kept.
package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/dhollis/scribe/internal/engine/block"
	"github.com/dhollis/scribe/internal/surface"
)

// Options tune extraction behavior.
type Options struct {
	// AllowLineBreaks keeps normalized newlines in reconstructed text.
	// When false every newline is stripped, including break nodes.
	AllowLineBreaks bool
}

// Blocks walks the surface's children and reconstructs the block
// array, given the previous array for identity reuse. changed reports
// whether the reconstruction differs from prev by deep equality;
// rejected reports that the edit dropped an undeletable block and was
// refused. When either the reconstruction is deep-equal or the edit is
// rejected, prev is returned unchanged with changed false.
func Blocks(s surface.Surface, prev []block.Block, opts Options) (next []block.Block, changed, rejected bool) {
	prevByID := make(map[string]block.Block)
	for _, b := range prev {
		if id := block.ID(b); id != "" {
			prevByID[id] = b
		}
	}

	var out []block.Block
	var run strings.Builder
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if t := normalize(run.String(), opts); t != "" {
			out = append(out, block.TextBlock{Text: t})
		}
		run.Reset()
	}

	for i := 0; i < s.Len(); i++ {
		c := s.Child(i)
		switch c.Kind() {
		case surface.NodeBreak:
			run.WriteByte('\n')
		case surface.NodeText:
			run.WriteString(c.Text())
		case surface.NodeElement:
			pb, known := prevByID[c.ID()]
			if !known {
				// A node the model never issued: its text folds into
				// the surrounding anonymous run.
				run.WriteString(c.Text())
				continue
			}
			if block.Atomic(pb) {
				// Media content cannot be edited by text manipulation;
				// the previous block is reused verbatim.
				flush()
				out = append(out, pb)
				continue
			}
			flush()
			sb := pb.(block.StyledBlock)
			sb.Text = normalize(c.Text(), opts)
			if sb.Text != "" {
				out = append(out, sb)
			}
		default:
			panic("extract: unknown node kind " + c.Kind().String())
		}
	}
	flush()

	if lostUndeletable(prev, out) {
		return prev, false, true
	}
	if block.Equal(out, prev) {
		return prev, false, false
	}
	return out, true, false
}

// lostUndeletable reports whether an undeletable block from prev is
// missing from next.
func lostUndeletable(prev, next []block.Block) bool {
	for _, b := range prev {
		if !block.Undeletable(b) {
			continue
		}
		id := block.ID(b)
		found := false
		for _, nb := range next {
			if block.ID(nb) == id {
				found = true
				break
			}
		}
		if !found {
			return true
		}
	}
	return false
}

// normalize collapses CR/LF forms to a single \n and strips newlines
// entirely when line breaks are disabled.
func normalize(text string, opts Options) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if !opts.AllowLineBreaks {
		text = strings.ReplaceAll(text, "\n", "")
	}
	return text
}

// CursorAfter locates the post-edit cursor: the rune offset in next
// just past the region that changed relative to prev. It reports false
// when the texts are identical. The diff is line-granular (Myers), so
// the edit end is tightened to the character level by discounting the
// common suffix the line rewrite re-emitted.
func CursorAfter(prev, next string) (int, bool) {
	if prev == next {
		return 0, false
	}

	edits := myers.ComputeEdits(span.URIFromPath("logical"), prev, next)
	end := len(next)
	if len(edits) > 0 {
		conv := span.NewContentConverter("logical", []byte(prev))
		delta := 0
		for _, e := range edits {
			sp, err := e.Span.WithOffset(conv)
			if err != nil {
				continue
			}
			start := sp.Start().Offset()
			end = start + delta + len(e.NewText)
			delta += len(e.NewText) - (sp.End().Offset() - start)
		}
	}

	if sfx := commonSuffix(prev, next); len(next)-sfx < end {
		end = len(next) - sfx
	}
	if end < 0 {
		end = 0
	}
	if end > len(next) {
		end = len(next)
	}
	return utf8.RuneCountInString(next[:end]), true
}

// commonSuffix returns the byte length of the longest common suffix of
// a and b, on rune boundaries.
func commonSuffix(a, b string) int {
	n := 0
	for len(a) > 0 && len(b) > 0 {
		ra, sa := utf8.DecodeLastRuneInString(a)
		rb, sb := utf8.DecodeLastRuneInString(b)
		if ra != rb || sa != sb {
			break
		}
		n += sa
		a = a[:len(a)-sa]
		b = b[:len(b)-sb]
	}
	return n
}
