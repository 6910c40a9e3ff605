// Package reconcile patches a live editable surface to match a block
// array with minimal node operations. A full teardown and rebuild on
// every keystroke would lose native composition state and selection;
// the position-indexed pass here keeps untouched nodes untouched,
// overwrites text in place, and patches identified nodes by id instead
// of recreating them.
package reconcile

import (
	"strings"
	"unicode/utf8"

	"github.com/dhollis/scribe/internal/engine/block"
	"github.com/dhollis/scribe/internal/surface"
	"github.com/dhollis/scribe/internal/surface/caret"
)

// Hooks are the collaborator callbacks a pass may fire. NodeCreated
// runs for every freshly built identified node, letting the host
// attach interaction handlers. ExternalContentChanged runs once after
// a pass that modified the tree, for embedded-content collaborators
// that re-render foreign widgets inside identified nodes.
type Hooks struct {
	NodeCreated            func(n surface.Node)
	ExternalContentChanged func()
}

// Apply mutates s to match blocks, trims trailing nodes, and restores
// the cursor to the given global offset. It reports whether the tree
// changed.
func Apply(s surface.Surface, blocks []block.Block, cursor int, h Hooks) bool {
	changed := pass(s, blocks, h)
	if trim(s, blocks) {
		changed = true
	}

	if cur, ok := caret.PositionOf(s); !ok || cur != cursor {
		caret.PlaceAt(s, cursor)
	}

	if changed && h.ExternalContentChanged != nil {
		h.ExternalContentChanged()
	}
	return changed
}

// pass is the forward position-indexed walk: blocks[i] is matched
// against the surface's i-th child.
func pass(s surface.Surface, blocks []block.Block, h Hooks) bool {
	changed := false
	for i, b := range blocks {
		if t, ok := b.(block.TextBlock); ok {
			if reconcileText(s, i, t.Text) {
				changed = true
			}
			continue
		}
		if reconcileIdentified(s, i, b, h) {
			changed = true
		}
	}
	return changed
}

// reconcileText settles an anonymous text block at child index i.
func reconcileText(s surface.Surface, i int, want string) bool {
	changed := false
	for {
		if i >= s.Len() {
			s.Append(s.NewText(want))
			return true
		}
		c := s.Child(i)
		if c.Kind() == surface.NodeText {
			if c.Text() != want {
				c.SetText(want)
				changed = true
			}
			return changed
		}
		// A non-text node sits where the text belongs. If the same text
		// already exists further down, the node here is stale: drop it
		// and retry this index rather than duplicating the text.
		if textAfter(s, i+1, want) {
			s.Remove(i)
			changed = true
			continue
		}
		s.InsertBefore(i, s.NewText(want))
		return true
	}
}

// reconcileIdentified settles a styled or media block at child index i.
func reconcileIdentified(s surface.Surface, i int, b block.Block, h Hooks) bool {
	id := block.ID(b)
	changed := false
	for {
		if i >= s.Len() {
			n := build(s, b)
			s.Append(n)
			if h.NodeCreated != nil {
				h.NodeCreated(n)
			}
			return true
		}
		c := s.Child(i)
		if c.Kind() == surface.NodeElement && c.ID() == id {
			if patch(c, b) {
				changed = true
			}
			return changed
		}
		// The block's node may already live further down the surface;
		// then the node occupying this slot is stale and must go first.
		if idAfter(s, i+1, id) >= 0 {
			s.Remove(i)
			changed = true
			continue
		}
		n := build(s, b)
		s.InsertBefore(i, n)
		if h.NodeCreated != nil {
			h.NodeCreated(n)
		}
		return true
	}
}

// trim removes trailing children beyond the block count, tolerating a
// single trailing line-break node when the last block's text ends in a
// newline (soft-wrap artifact of native editing).
func trim(s surface.Surface, blocks []block.Block) bool {
	keep := len(blocks)
	if keep > 0 && s.Len() > keep && s.Child(keep).Kind() == surface.NodeBreak {
		if t, ok := block.TextOf(blocks[keep-1]); ok && strings.HasSuffix(t, "\n") {
			keep++
		}
	}
	changed := false
	for s.Len() > keep {
		s.Remove(s.Len() - 1)
		changed = true
	}
	return changed
}

// build creates a fresh node for an identified block.
func build(s surface.Surface, b block.Block) surface.Node {
	n := s.NewElement(block.ID(b))
	patch(n, b)
	return n
}

// patch updates only the attributes that differ, never recreating the
// node, and reports whether anything changed.
func patch(n surface.Node, b block.Block) bool {
	changed := false
	set := func(name, value string) {
		if n.Attr(name) != value {
			n.SetAttr(name, value)
			changed = true
		}
	}

	switch v := b.(type) {
	case block.StyledBlock:
		if n.Text() != v.Text {
			n.SetText(v.Text)
			changed = true
		}
		set("kind", block.KindStyled.String())
		set("style", v.Style.String())
		set("class", v.ClassName)
		if n.Editable() == v.Uneditable {
			n.SetEditable(!v.Uneditable)
			changed = true
		}
	case block.DocumentBlock:
		set("kind", block.KindDocument.String())
		set("name", v.Name)
		set("src", v.URL)
		set("content-type", v.ContentType)
		if n.Editable() {
			n.SetEditable(false)
			changed = true
		}
	case block.ImageBlock:
		set("kind", block.KindImage.String())
		set("name", v.Name)
		set("src", v.URL)
		set("alt", v.Alt)
		set("content-type", v.ContentType)
		if n.Editable() {
			n.SetEditable(false)
			changed = true
		}
	default:
		panic("reconcile: unexpected block kind " + b.Kind().String())
	}
	return changed
}

// textAfter reports whether a text node with exactly the given content
// exists at index from or later.
func textAfter(s surface.Surface, from int, text string) bool {
	for i := from; i < s.Len(); i++ {
		c := s.Child(i)
		if c.Kind() == surface.NodeText && c.Text() == text {
			return true
		}
	}
	return false
}

// idAfter returns the index of the child carrying id at index from or
// later, or -1.
func idAfter(s surface.Surface, from int, id string) int {
	for i := from; i < s.Len(); i++ {
		if c := s.Child(i); c.Kind() == surface.NodeElement && c.ID() == id {
			return i
		}
	}
	return -1
}

// Text flattens the surface back into logical text, the inverse view
// the extractor and tests compare against. Break nodes read as one
// newline; media nodes contribute nothing.
func Text(s surface.Surface) string {
	var sb strings.Builder
	for i := 0; i < s.Len(); i++ {
		c := s.Child(i)
		if c.Kind() == surface.NodeBreak {
			sb.WriteByte('\n')
			continue
		}
		sb.WriteString(c.Text())
	}
	return sb.String()
}

// TextLen returns the rune length of the flattened surface text.
func TextLen(s surface.Surface) int {
	return utf8.RuneCountInString(Text(s))
}
