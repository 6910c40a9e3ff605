package editor

import (
	"strings"

	"github.com/dhollis/scribe/internal/engine/block"
)

// CommitItem is the serialization-facing representation of committed
// content handed to persistence collaborators: a merged text run or a
// media descriptor.
type CommitItem interface {
	commitItem()
}

// CommitText is a run of committed text, merged from consecutive
// text-bearing blocks.
type CommitText string

func (CommitText) commitItem() {}

// DocumentDescriptor is the boundary form of an embedded document.
type DocumentDescriptor struct {
	ID          string
	Name        string
	URL         string
	ContentType string
	FileRef     any
}

func (DocumentDescriptor) commitItem() {}

// ImageDescriptor is the boundary form of an embedded image.
type ImageDescriptor struct {
	ID          string
	Name        string
	URL         string
	Alt         string
	ContentType string
	FileRef     any
}

func (ImageDescriptor) commitItem() {}

// CommitItems converts a block array into the ordered boundary
// sequence: consecutive text and styled blocks merge into one text
// item, media blocks come out as discrete descriptors.
func CommitItems(blocks []block.Block) []CommitItem {
	var items []CommitItem
	var run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			items = append(items, CommitText(run.String()))
			run.Reset()
		}
	}

	for _, b := range blocks {
		switch v := b.(type) {
		case block.TextBlock:
			run.WriteString(v.Text)
		case block.StyledBlock:
			run.WriteString(v.Text)
		case block.DocumentBlock:
			flush()
			items = append(items, DocumentDescriptor{
				ID:          v.ID,
				Name:        v.Name,
				URL:         v.URL,
				ContentType: v.ContentType,
				FileRef:     v.FileRef,
			})
		case block.ImageBlock:
			flush()
			items = append(items, ImageDescriptor{
				ID:          v.ID,
				Name:        v.Name,
				URL:         v.URL,
				Alt:         v.Alt,
				ContentType: v.ContentType,
				FileRef:     v.FileRef,
			})
		default:
			panic("editor: unknown block kind " + b.Kind().String())
		}
	}
	flush()
	return items
}
