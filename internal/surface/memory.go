package surface

import "github.com/rivo/uniseg"

// memNode is the in-memory Node.
type memNode struct {
	kind     NodeKind
	id       string
	text     string
	attrs    map[string]string
	editable bool
}

func (n *memNode) Kind() NodeKind     { return n.kind }
func (n *memNode) ID() string         { return n.id }
func (n *memNode) SetID(id string)    { n.id = id }
func (n *memNode) Text() string       { return n.text }
func (n *memNode) SetText(t string)   { n.text = t }
func (n *memNode) Editable() bool     { return n.editable }
func (n *memNode) SetEditable(e bool) { n.editable = e }

func (n *memNode) Attr(name string) string { return n.attrs[name] }

func (n *memNode) SetAttr(name, value string) {
	if n.attrs == nil {
		n.attrs = map[string]string{}
	}
	n.attrs[name] = value
}

// Memory is an in-process Surface. It backs the terminal demo and
// every reconciliation test; it has no host widget behind it, so
// "native" selection is just stored state.
type Memory struct {
	children []Node
	sel      Selection
	hasSel   bool
}

// NewMemory creates an empty in-memory surface.
func NewMemory() *Memory { return &Memory{} }

// Len returns the number of children.
func (m *Memory) Len() int { return len(m.children) }

// Child returns the i-th child.
func (m *Memory) Child(i int) Node { return m.children[i] }

// InsertBefore places n at index i.
func (m *Memory) InsertBefore(i int, n Node) {
	m.children = append(m.children, nil)
	copy(m.children[i+1:], m.children[i:])
	m.children[i] = n
}

// Remove detaches the i-th child.
func (m *Memory) Remove(i int) {
	m.children = append(m.children[:i], m.children[i+1:]...)
}

// Append adds n after the last child.
func (m *Memory) Append(n Node) { m.children = append(m.children, n) }

// NewText builds an unattached text node.
func (m *Memory) NewText(text string) Node {
	return &memNode{kind: NodeText, text: text, editable: true}
}

// NewBreak builds an unattached line-break node.
func (m *Memory) NewBreak() Node {
	return &memNode{kind: NodeBreak, editable: true}
}

// NewElement builds an unattached identified element node.
func (m *Memory) NewElement(id string) Node {
	return &memNode{kind: NodeElement, id: id, editable: true}
}

// Selection returns the stored selection.
func (m *Memory) Selection() (Selection, bool) { return m.sel, m.hasSel }

// SetSelection replaces the stored selection.
func (m *Memory) SetSelection(sel Selection) {
	m.sel = sel
	m.hasSel = true
}

// ClearSelection drops the stored selection.
func (m *Memory) ClearSelection() {
	m.sel = Selection{}
	m.hasSel = false
}

// CursorRect computes the focus caret's cell rectangle: row counts
// line breaks (break nodes and embedded newlines), column is the
// display width of the graphemes on the caret's line. Element nodes
// without text occupy a single cell.
func (m *Memory) CursorRect() (Rect, bool) {
	if !m.hasSel {
		return Rect{}, false
	}
	f := m.sel.Focus
	row, col := 0, 0
	for i := 0; i < len(m.children) && i <= f.Node; i++ {
		n := m.children[i]
		if n.Kind() == NodeBreak {
			if i == f.Node {
				break
			}
			row++
			col = 0
			continue
		}
		text := n.Text()
		if i == f.Node {
			text = runePrefix(text, f.Offset)
		}
		if n.Kind() == NodeElement && n.Text() == "" {
			// Atomic media renders as one icon cell.
			col++
			continue
		}
		for _, line := range splitLines(text) {
			if line.newline {
				row++
				col = 0
				continue
			}
			col += uniseg.StringWidth(line.text)
		}
	}
	return Rect{X: col, Y: row, Width: 1, Height: 1}, true
}

type lineSeg struct {
	text    string
	newline bool
}

// splitLines cuts s into text segments and newline markers.
func splitLines(s string) []lineSeg {
	var segs []lineSeg
	start := 0
	for i, r := range s {
		if r == '\n' {
			if i > start {
				segs = append(segs, lineSeg{text: s[start:i]})
			}
			segs = append(segs, lineSeg{newline: true})
			start = i + 1
		}
	}
	if start < len(s) {
		segs = append(segs, lineSeg{text: s[start:]})
	}
	return segs
}

// runePrefix returns the first n runes of s.
func runePrefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
