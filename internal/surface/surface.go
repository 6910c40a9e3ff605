// Package surface defines the minimal editable-surface contract the
// reconciler, change extractor and cursor tracker operate against: a
// flat list of child nodes with text content, attributes, an id anchor
// and native selection state. Hosts adapt their widget tree to this
// contract; Memory is the in-process implementation used by tests and
// the terminal demo.
//
// The handle is consumed, never owned. Every entry point in the
// packages below takes the Surface as an explicit argument per call,
// so a reconciliation pass is a function of (blocks, surface, offset)
// with no ambient state.
package surface

// NodeKind discriminates the three node shapes the contract knows
// about.
type NodeKind int

const (
	// NodeText is an anonymous run of plain text.
	NodeText NodeKind = iota
	// NodeBreak is a line-break marker. It carries no text but
	// occupies one character position for cursor math.
	NodeBreak
	// NodeElement is an identified node: a styled span or an atomic
	// media placeholder, anchored by its id across passes.
	NodeElement
)

// String returns the node kind name.
func (k NodeKind) String() string {
	switch k {
	case NodeText:
		return "text"
	case NodeBreak:
		return "break"
	case NodeElement:
		return "element"
	default:
		panic("surface: unknown node kind")
	}
}

// Node is one child of the editable surface.
type Node interface {
	// Kind reports the node's shape.
	Kind() NodeKind
	// ID returns the stable id attribute, empty for anonymous nodes.
	ID() string
	// SetID sets the id attribute.
	SetID(id string)
	// Text returns the node's text content.
	Text() string
	// SetText overwrites the node's text content in place.
	SetText(text string)
	// Attr reads a named attribute, empty when unset.
	Attr(name string) string
	// SetAttr writes a named attribute.
	SetAttr(name, value string)
	// Editable reports whether the caret may enter the node.
	Editable() bool
	// SetEditable sets the editability flag.
	SetEditable(editable bool)
}

// Caret addresses one side of a selection: a child index plus a rune
// offset into that child's text. Node == Len() with Offset zero means
// the position after all content.
type Caret struct {
	Node   int
	Offset int
}

// Selection is a native selection range as (anchor, focus) carets. A
// collapsed selection has Anchor == Focus.
type Selection struct {
	Anchor Caret
	Focus  Caret
}

// Collapsed builds a collapsed selection at the given caret.
func Collapsed(node, offset int) Selection {
	c := Caret{Node: node, Offset: offset}
	return Selection{Anchor: c, Focus: c}
}

// Rect is a cursor rectangle in host coordinates. The in-memory
// implementation uses terminal cells.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Surface is the editable tree contract. Child indices are dense and
// shift on insert/remove, mirroring a live child-node list.
type Surface interface {
	// Len returns the number of child nodes.
	Len() int
	// Child returns the i-th child. It panics when i is out of range;
	// callers index against Len.
	Child(i int) Node
	// InsertBefore places n at index i, shifting later children right.
	InsertBefore(i int, n Node)
	// Remove detaches the i-th child.
	Remove(i int)
	// Append adds n after the last child.
	Append(n Node)

	// NewText builds an unattached text node.
	NewText(text string) Node
	// NewBreak builds an unattached line-break node.
	NewBreak() Node
	// NewElement builds an unattached identified element node.
	NewElement(id string) Node

	// Selection returns the native selection, reporting false when the
	// surface holds none.
	Selection() (Selection, bool)
	// SetSelection replaces the native selection.
	SetSelection(sel Selection)
	// ClearSelection drops the native selection.
	ClearSelection()
	// CursorRect returns the rectangle of the selection focus,
	// reporting false when no selection exists.
	CursorRect() (Rect, bool)
}
