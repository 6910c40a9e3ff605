package block

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Kind identifies a block variant.
type Kind uint8

const (
	KindText     Kind = iota // anonymous run of plain text
	KindStyled               // identified, styled text span
	KindDocument             // atomic embedded document
	KindImage                // atomic embedded image
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindStyled:
		return "styled"
	case KindDocument:
		return "document"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Block is one element of the ordered content array. The sequence of
// blocks is the sole source of truth for editor content; any editable
// surface is a derived view.
//
// Block is a closed sum: the only implementations are TextBlock,
// StyledBlock, DocumentBlock and ImageBlock. Code switching on the
// concrete type should include a default branch that panics, so a new
// variant cannot slip through silently.
type Block interface {
	// Kind returns the block variant.
	Kind() Kind

	sealed()
}

// TextBlock is an anonymous run of plain text. It has no identity and
// is matched purely by position during reconciliation.
type TextBlock struct {
	Text string
}

func (TextBlock) Kind() Kind { return KindText }
func (TextBlock) sealed()    {}

// StyledBlock is an identified text span carrying presentation and
// editing-policy flags.
type StyledBlock struct {
	ID          string
	Text        string
	Style       StyleMap
	ClassName   string
	Uneditable  bool
	Undeletable bool
}

func (StyledBlock) Kind() Kind { return KindStyled }
func (StyledBlock) sealed()    {}

// DocumentBlock is an atomic embedded document. It occupies exactly one
// position in the surface's child list but contributes zero characters
// to the logical text.
type DocumentBlock struct {
	ID          string
	Name        string
	FileRef     any // opaque handle owned by the external file collaborator
	URL         string
	ContentType string
	Undeletable bool
}

func (DocumentBlock) Kind() Kind { return KindDocument }
func (DocumentBlock) sealed()    {}

// ImageBlock is an atomic embedded image.
type ImageBlock struct {
	ID          string
	Name        string
	FileRef     any
	URL         string
	Alt         string
	ContentType string
	Undeletable bool
}

func (ImageBlock) Kind() Kind { return KindImage }
func (ImageBlock) sealed()    {}

// NewID returns a fresh globally unique block id.
func NewID() string {
	return uuid.NewString()
}

// ID returns the block's id, or "" for anonymous text blocks.
func ID(b Block) string {
	switch v := b.(type) {
	case TextBlock:
		return ""
	case StyledBlock:
		return v.ID
	case DocumentBlock:
		return v.ID
	case ImageBlock:
		return v.ID
	default:
		panic("block: unknown kind " + b.Kind().String())
	}
}

// TextOf returns the block's text and whether the block is
// text-bearing. Atomic media blocks report ("", false).
func TextOf(b Block) (string, bool) {
	switch v := b.(type) {
	case TextBlock:
		return v.Text, true
	case StyledBlock:
		return v.Text, true
	case DocumentBlock, ImageBlock:
		return "", false
	default:
		panic("block: unknown kind " + b.Kind().String())
	}
}

// WithText returns a copy of a text-bearing block with its text
// replaced. Atomic blocks are returned unchanged.
func WithText(b Block, text string) Block {
	switch v := b.(type) {
	case TextBlock:
		v.Text = text
		return v
	case StyledBlock:
		v.Text = text
		return v
	case DocumentBlock, ImageBlock:
		return b
	default:
		panic("block: unknown kind " + b.Kind().String())
	}
}

// Atomic reports whether the block occupies a surface slot without
// contributing logical text.
func Atomic(b Block) bool {
	switch b.(type) {
	case TextBlock, StyledBlock:
		return false
	case DocumentBlock, ImageBlock:
		return true
	default:
		panic("block: unknown kind " + b.Kind().String())
	}
}

// Undeletable reports whether the block must never be silently dropped
// by surface reconciliation.
func Undeletable(b Block) bool {
	switch v := b.(type) {
	case TextBlock:
		return false
	case StyledBlock:
		return v.Undeletable
	case DocumentBlock:
		return v.Undeletable
	case ImageBlock:
		return v.Undeletable
	default:
		panic("block: unknown kind " + b.Kind().String())
	}
}

// Text returns the logical text: the concatenation of all text-bearing
// blocks' text in array order.
func Text(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		if t, ok := TextOf(b); ok {
			sb.WriteString(t)
		}
	}
	return sb.String()
}

// TextLen returns the logical text length in characters (runes).
func TextLen(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		if t, ok := TextOf(b); ok {
			n += utf8.RuneCountInString(t)
		}
	}
	return n
}

// Equal reports deep value equality of two block arrays. It is the
// idempotence guard used to suppress redundant state updates.
func Equal(a, b []Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualBlock(a[i], b[i]) {
			return false
		}
	}
	return true
}

// EqualBlock reports deep value equality of two blocks.
func EqualBlock(a, b Block) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case TextBlock:
		return av == b.(TextBlock)
	case StyledBlock:
		bv := b.(StyledBlock)
		return av.ID == bv.ID && av.Text == bv.Text &&
			av.ClassName == bv.ClassName &&
			av.Uneditable == bv.Uneditable && av.Undeletable == bv.Undeletable &&
			av.Style.Equal(bv.Style)
	case DocumentBlock:
		bv := b.(DocumentBlock)
		return av.ID == bv.ID && av.Name == bv.Name && av.URL == bv.URL &&
			av.ContentType == bv.ContentType && av.Undeletable == bv.Undeletable &&
			av.FileRef == bv.FileRef
	case ImageBlock:
		bv := b.(ImageBlock)
		return av.ID == bv.ID && av.Name == bv.Name && av.URL == bv.URL &&
			av.Alt == bv.Alt && av.ContentType == bv.ContentType &&
			av.Undeletable == bv.Undeletable && av.FileRef == bv.FileRef
	default:
		panic("block: unknown kind " + a.Kind().String())
	}
}
