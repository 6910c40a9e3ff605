// Package caret converts between the surface's native selection and
// the editor's global character offset. Counting walks the top-level
// children left to right: text content counts runes, a line-break node
// counts exactly one, and atomic media nodes count zero so surrounding
// offsets jump over them. Placement is grapheme-aware: a caret never
// lands inside a grapheme cluster.
package caret

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dhollis/scribe/internal/surface"
)

// PositionOf reads the surface's selection focus and returns its
// global character offset. It reports false when the surface holds no
// selection.
func PositionOf(s surface.Surface) (int, bool) {
	sel, ok := s.Selection()
	if !ok {
		return 0, false
	}
	f := sel.Focus
	if f.Node >= s.Len() {
		return Length(s), true
	}

	acc := 0
	for i := 0; i < f.Node; i++ {
		acc += weight(s.Child(i))
	}
	c := s.Child(f.Node)
	if c.Kind() == surface.NodeBreak {
		return acc, true
	}
	in := f.Offset
	if w := utf8.RuneCountInString(c.Text()); in > w {
		in = w
	}
	if in < 0 {
		in = 0
	}
	return acc + in, true
}

// PlaceAt collapses the selection at the given global offset. An
// offset landing on an uneditable node's boundary is pushed just after
// that node; an offset beyond all content lands at the end of the last
// child.
func PlaceAt(s surface.Surface, offset int) {
	if offset < 0 {
		offset = 0
	}
	n := s.Len()
	if n == 0 {
		s.SetSelection(surface.Collapsed(0, 0))
		return
	}

	acc := 0
	for i := 0; i < n; i++ {
		c := s.Child(i)
		if c.Kind() == surface.NodeBreak {
			if offset <= acc {
				s.SetSelection(surface.Collapsed(i, 0))
				return
			}
			acc++
			continue
		}

		w := utf8.RuneCountInString(c.Text())
		if !c.Editable() || w == 0 {
			// Media and uneditable spans cannot host a caret; a hit
			// inside them resolves past the node instead.
			if offset < acc+w {
				offset = acc + w
			}
			acc += w
			continue
		}
		if offset < acc+w || (offset == acc+w && i == n-1) {
			s.SetSelection(surface.Collapsed(i, snap(c.Text(), offset-acc)))
			return
		}
		acc += w
	}

	endOfLast(s)
}

// Length returns the surface's total character count under the
// tracker's weighting.
func Length(s surface.Surface) int {
	total := 0
	for i := 0; i < s.Len(); i++ {
		total += weight(s.Child(i))
	}
	return total
}

// weight is one node's character contribution.
func weight(n surface.Node) int {
	if n.Kind() == surface.NodeBreak {
		return 1
	}
	return utf8.RuneCountInString(n.Text())
}

// endOfLast collapses the selection at the end of the last child.
func endOfLast(s surface.Surface) {
	i := s.Len() - 1
	c := s.Child(i)
	if c.Kind() == surface.NodeBreak {
		s.SetSelection(surface.Collapsed(i, 0))
		return
	}
	s.SetSelection(surface.Collapsed(i, utf8.RuneCountInString(c.Text())))
}

// snap clamps a rune offset into text onto a grapheme-cluster
// boundary, moving back to the cluster start when the offset falls
// inside one.
func snap(text string, offset int) int {
	if offset <= 0 {
		return 0
	}
	acc := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		n := len(g.Runes())
		if offset < acc+n {
			return acc
		}
		acc += n
		if offset == acc {
			return acc
		}
	}
	return acc
}
