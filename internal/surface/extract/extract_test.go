package extract

import (
	"testing"

	"github.com/dhollis/scribe/internal/engine/block"
	"github.com/dhollis/scribe/internal/surface"
)

var breaks = Options{AllowLineBreaks: true}

func TestBlocksMergesAnonymousRuns(t *testing.T) {
	m := surface.NewMemory()
	m.Append(m.NewText("ab"))
	m.Append(m.NewText("cd"))
	m.Append(m.NewText("ef"))

	out, changed, rejected := Blocks(m, nil, breaks)
	if !changed || rejected {
		t.Fatalf("extraction reported changed=%v rejected=%v", changed, rejected)
	}
	want := []block.Block{block.TextBlock{Text: "abcdef"}}
	if !block.Equal(out, want) {
		t.Errorf("Blocks = %#v", out)
	}
}

func TestBlocksReusesIdentifiedBlocks(t *testing.T) {
	prev := []block.Block{
		block.TextBlock{Text: "a"},
		block.StyledBlock{ID: "s1", Text: "bold", Style: block.StyleMap{"font-weight": "bold"}},
		block.ImageBlock{ID: "i1", Name: "x.png", URL: "blob:x"},
	}
	m := surface.NewMemory()
	m.Append(m.NewText("a!"))
	span := m.NewElement("s1")
	span.SetText("bolder")
	m.Append(span)
	img := m.NewElement("i1")
	img.SetEditable(false)
	m.Append(img)

	out, changed, _ := Blocks(m, prev, breaks)
	if !changed || len(out) != 3 {
		t.Fatalf("Blocks = %#v changed=%v", out, changed)
	}
	sb := out[1].(block.StyledBlock)
	if sb.Text != "bolder" || sb.Style["font-weight"] != "bold" {
		t.Errorf("styled block = %#v, want re-read text with kept style", sb)
	}
	if !block.EqualBlock(out[2], prev[2]) {
		t.Errorf("media block should be reused verbatim, got %#v", out[2])
	}
}

func TestBlocksUnknownElementFoldsIntoRun(t *testing.T) {
	m := surface.NewMemory()
	m.Append(m.NewText("a"))
	stray := m.NewElement("never-issued")
	stray.SetText("b")
	m.Append(stray)
	m.Append(m.NewText("c"))

	out, _, _ := Blocks(m, nil, breaks)
	want := []block.Block{block.TextBlock{Text: "abc"}}
	if !block.Equal(out, want) {
		t.Errorf("Blocks = %#v", out)
	}
}

func TestBlocksNormalizesNewlines(t *testing.T) {
	m := surface.NewMemory()
	m.Append(m.NewText("a\r\nb\rc"))
	m.Append(m.NewBreak())
	m.Append(m.NewText("d"))

	out, _, _ := Blocks(m, nil, breaks)
	want := []block.Block{block.TextBlock{Text: "a\nb\nc\nd"}}
	if !block.Equal(out, want) {
		t.Errorf("Blocks = %#v", out)
	}
}

func TestBlocksStripsNewlinesWhenDisabled(t *testing.T) {
	m := surface.NewMemory()
	m.Append(m.NewText("a\nb"))
	m.Append(m.NewBreak())
	m.Append(m.NewText("c"))

	out, _, _ := Blocks(m, nil, Options{})
	want := []block.Block{block.TextBlock{Text: "abc"}}
	if !block.Equal(out, want) {
		t.Errorf("Blocks = %#v", out)
	}
}

func TestBlocksIdempotence(t *testing.T) {
	prev := []block.Block{
		block.TextBlock{Text: "ab"},
		block.StyledBlock{ID: "s1", Text: "cd"},
	}
	m := surface.NewMemory()
	m.Append(m.NewText("ab"))
	span := m.NewElement("s1")
	span.SetText("cd")
	m.Append(span)

	out, changed, rejected := Blocks(m, prev, breaks)
	if changed || rejected {
		t.Errorf("unchanged surface reported changed=%v rejected=%v: %#v", changed, rejected, out)
	}
	if !block.Equal(out, prev) {
		t.Error("unchanged surface must return prev")
	}
}

func TestBlocksRejectsUndeletableLoss(t *testing.T) {
	prev := []block.Block{
		block.TextBlock{Text: "a"},
		block.ImageBlock{ID: "i1", Undeletable: true},
	}
	m := surface.NewMemory()
	m.Append(m.NewText("a edited"))

	out, changed, rejected := Blocks(m, prev, breaks)
	if changed {
		t.Error("losing an undeletable block must reject the edit")
	}
	if !rejected {
		t.Error("the rejection must be reported as such, not as a plain no-change")
	}
	if !block.Equal(out, prev) {
		t.Errorf("rejected edit must return prev, got %#v", out)
	}
}

func TestBlocksDropsEmptiedStyled(t *testing.T) {
	prev := []block.Block{block.StyledBlock{ID: "s1", Text: "x"}}
	m := surface.NewMemory()
	span := m.NewElement("s1")
	span.SetText("")
	m.Append(span)

	out, changed, _ := Blocks(m, prev, breaks)
	if !changed || len(out) != 0 {
		t.Errorf("Blocks = %#v changed=%v, want empty", out, changed)
	}
}

func TestCursorAfterInsertion(t *testing.T) {
	off, ok := CursorAfter("abc", "abXc")
	if !ok || off != 3 {
		t.Errorf("CursorAfter = %d ok=%v, want 3", off, ok)
	}
}

func TestCursorAfterDeletion(t *testing.T) {
	off, ok := CursorAfter("abXc", "abc")
	if !ok || off != 2 {
		t.Errorf("CursorAfter = %d ok=%v, want 2", off, ok)
	}
}

func TestCursorAfterAppend(t *testing.T) {
	off, ok := CursorAfter("hello", "hello!")
	if !ok || off != 6 {
		t.Errorf("CursorAfter = %d ok=%v, want 6", off, ok)
	}
}

func TestCursorAfterIdentical(t *testing.T) {
	if _, ok := CursorAfter("same", "same"); ok {
		t.Error("identical texts should report false")
	}
}

func TestCursorAfterMultibyte(t *testing.T) {
	off, ok := CursorAfter("日本", "日本語")
	if !ok || off != 3 {
		t.Errorf("CursorAfter = %d ok=%v, want 3 (rune offset)", off, ok)
	}
}
