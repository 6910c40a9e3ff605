package block

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Codec errors.
var (
	ErrInvalidJSON = errors.New("invalid block JSON")
	ErrUnknownKind = errors.New("unknown block kind")
)

// MarshalBlocks encodes a block array as a JSON array of tagged
// objects. The "kind" field drives decode dispatch; zero-valued
// optional fields are omitted. FileRef handles are owned by the
// external file collaborator and are not serialized.
func MarshalBlocks(blocks []Block) ([]byte, error) {
	out := "[]"
	for i, b := range blocks {
		var err error
		path := fmt.Sprintf("%d", i)
		switch v := b.(type) {
		case TextBlock:
			out, err = setAll(out, path, map[string]any{
				"kind": KindText.String(),
				"text": v.Text,
			})
		case StyledBlock:
			fields := map[string]any{
				"kind": KindStyled.String(),
				"id":   v.ID,
				"text": v.Text,
			}
			if len(v.Style) > 0 {
				fields["style"] = map[string]string(v.Style)
			}
			if v.ClassName != "" {
				fields["className"] = v.ClassName
			}
			if v.Uneditable {
				fields["uneditable"] = true
			}
			if v.Undeletable {
				fields["undeletable"] = true
			}
			out, err = setAll(out, path, fields)
		case DocumentBlock:
			fields := map[string]any{
				"kind":        KindDocument.String(),
				"id":          v.ID,
				"name":        v.Name,
				"url":         v.URL,
				"contentType": v.ContentType,
			}
			if v.Undeletable {
				fields["undeletable"] = true
			}
			out, err = setAll(out, path, fields)
		case ImageBlock:
			fields := map[string]any{
				"kind":        KindImage.String(),
				"id":          v.ID,
				"name":        v.Name,
				"url":         v.URL,
				"contentType": v.ContentType,
			}
			if v.Alt != "" {
				fields["alt"] = v.Alt
			}
			if v.Undeletable {
				fields["undeletable"] = true
			}
			out, err = setAll(out, path, fields)
		default:
			return nil, fmt.Errorf("%w: %v", ErrUnknownKind, b.Kind())
		}
		if err != nil {
			return nil, err
		}
	}
	return []byte(out), nil
}

// setAll writes one block object into the array under construction.
func setAll(doc, path string, fields map[string]any) (string, error) {
	out, err := sjson.Set(doc, path, fields)
	if err != nil {
		return "", fmt.Errorf("encode block: %w", err)
	}
	return out, nil
}

// UnmarshalBlocks decodes a JSON array produced by MarshalBlocks. An
// unknown "kind" value is an error: callers must not silently drop
// content they do not understand.
func UnmarshalBlocks(data []byte) ([]Block, error) {
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, ErrInvalidJSON
	}

	var blocks []Block
	var err error
	root.ForEach(func(_, item gjson.Result) bool {
		kind := item.Get("kind").String()
		switch kind {
		case KindText.String():
			blocks = append(blocks, TextBlock{Text: item.Get("text").String()})
		case KindStyled.String():
			blocks = append(blocks, StyledBlock{
				ID:          item.Get("id").String(),
				Text:        item.Get("text").String(),
				Style:       styleFromJSON(item.Get("style")),
				ClassName:   item.Get("className").String(),
				Uneditable:  item.Get("uneditable").Bool(),
				Undeletable: item.Get("undeletable").Bool(),
			})
		case KindDocument.String():
			blocks = append(blocks, DocumentBlock{
				ID:          item.Get("id").String(),
				Name:        item.Get("name").String(),
				URL:         item.Get("url").String(),
				ContentType: item.Get("contentType").String(),
				Undeletable: item.Get("undeletable").Bool(),
			})
		case KindImage.String():
			blocks = append(blocks, ImageBlock{
				ID:          item.Get("id").String(),
				Name:        item.Get("name").String(),
				URL:         item.Get("url").String(),
				Alt:         item.Get("alt").String(),
				ContentType: item.Get("contentType").String(),
				Undeletable: item.Get("undeletable").Bool(),
			})
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownKind, kind)
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

// styleFromJSON converts a style object into a StyleMap.
func styleFromJSON(res gjson.Result) StyleMap {
	if !res.IsObject() {
		return nil
	}
	m := make(StyleMap)
	res.ForEach(func(key, value gjson.Result) bool {
		m[key.String()] = value.String()
		return true
	})
	if len(m) == 0 {
		return nil
	}
	return m
}
