package editor

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dhollis/scribe/internal/engine/block"
	"github.com/dhollis/scribe/internal/surface"
)

func TestInsertDeleteReplace(t *testing.T) {
	e := New()
	e.Insert("hello world", 0)
	if e.Text() != "hello world" {
		t.Fatalf("Text = %q", e.Text())
	}
	if e.CharacterPosition() != 11 {
		t.Errorf("offset = %d, want 11", e.CharacterPosition())
	}

	e.Delete(5, 11)
	if e.Text() != "hello" {
		t.Errorf("Text after delete = %q", e.Text())
	}

	e.Replace(0, 5, "bye")
	if e.Text() != "bye" {
		t.Errorf("Text after replace = %q", e.Text())
	}
}

func TestApplyCoalescesNotifications(t *testing.T) {
	changes := 0
	e := New(WithChangeHandler(func([]block.Block, int, surface.Rect) { changes++ }))

	e.Apply(func(tx *Tx) {
		tx.Insert("foo", 0)
		tx.Insert(" bar", 3)
		tx.ReplaceAll("o", "0")
	})

	if changes != 1 {
		t.Errorf("change notifications = %d, want 1", changes)
	}
	if e.Text() != "f00 bar" {
		t.Errorf("Text = %q", e.Text())
	}
}

func TestApplyIsOneUndoStep(t *testing.T) {
	e := New()
	e.Apply(func(tx *Tx) {
		tx.Insert("a", 0)
		tx.Insert("b", 1)
		tx.Insert("c", 2)
	})
	e.Insert("d", 3)

	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	if e.Text() != "abc" {
		t.Errorf("after first undo: %q", e.Text())
	}
	if !e.Undo() {
		t.Fatal("second Undo failed")
	}
	if e.Text() != "" {
		t.Errorf("batched edits should undo as one step, got %q", e.Text())
	}
}

func TestTxPanicsAfterApply(t *testing.T) {
	e := New()
	var leaked *Tx
	e.Apply(func(tx *Tx) { leaked = tx })

	defer func() {
		if recover() == nil {
			t.Error("using a transaction after Apply should panic")
		}
	}()
	leaked.Insert("x", 0)
}

func TestNoNotificationWithoutChange(t *testing.T) {
	changes, cursors := 0, 0
	e := New(
		WithChangeHandler(func([]block.Block, int, surface.Rect) { changes++ }),
		WithCursorHandler(func(int, surface.Rect) { cursors++ }),
	)
	e.Insert("abc", 0)
	changes = 0

	e.Apply(func(tx *Tx) {})
	e.SetBlocks(e.Blocks())
	if changes != 0 {
		t.Errorf("no-op transactions fired %d change notifications", changes)
	}

	e.SetCharacterPosition(1)
	if cursors != 1 {
		t.Errorf("cursor notifications = %d, want 1", cursors)
	}
	e.SetCharacterPosition(1)
	if cursors != 1 {
		t.Errorf("repeated position fired again, notifications = %d", cursors)
	}
}

func TestSetCharacterPositionClamps(t *testing.T) {
	e := New()
	e.Insert("abc", 0)
	e.SetCharacterPosition(99)
	if e.CharacterPosition() != 3 {
		t.Errorf("offset = %d, want 3", e.CharacterPosition())
	}
	e.SetCharacterPosition(-5)
	if e.CharacterPosition() != 0 {
		t.Errorf("offset = %d, want 0", e.CharacterPosition())
	}
}

func TestUndoCap(t *testing.T) {
	e := New(WithHistoryLimit(50))
	text := ""
	for i := 0; i < 60; i++ {
		e.Insert("x", i)
		text += "x"
	}

	undos := 0
	for e.Undo() {
		undos++
	}
	if undos != 49 {
		t.Errorf("undos = %d, want 49", undos)
	}
	// 60 inserts through a 50-deep ring: the oldest reachable state is
	// the 11th insert.
	if got := len(e.Text()); got != 11 {
		t.Errorf("oldest reachable text length = %d, want 11", got)
	}
}

func TestTxUndoRestoresPreviousCommit(t *testing.T) {
	e := New()
	e.Insert("a", 0)
	e.Insert("b", 1)

	var ok bool
	e.Apply(func(tx *Tx) { ok = tx.Undo() })
	if !ok {
		t.Fatal("Tx.Undo reported nothing to undo")
	}
	if e.Text() != "a" {
		t.Errorf("Text = %q, want a", e.Text())
	}

	// The popped snapshot is gone for good: the next undo steps back
	// again rather than replaying it.
	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	if e.Text() != "" {
		t.Errorf("Text = %q, want empty", e.Text())
	}
}

func TestTxUndoDiscardsUncommittedChanges(t *testing.T) {
	e := New()
	e.Insert("a", 0)

	e.Apply(func(tx *Tx) {
		tx.Insert("zzz", 1)
		if !tx.Undo() {
			t.Error("Tx.Undo reported nothing to undo")
		}
	})
	if e.Text() != "" {
		t.Errorf("Text = %q, want the state before the last commit", e.Text())
	}
}

func TestTxUndoOnFreshEditor(t *testing.T) {
	e := New()
	var ok bool
	e.Apply(func(tx *Tx) { ok = tx.Undo() })
	if ok {
		t.Error("Tx.Undo on a fresh editor should report false")
	}
}

func TestUndoOnEmptyEditor(t *testing.T) {
	e := New()
	if e.Undo() {
		t.Error("Undo on a fresh editor should report false")
	}
}

func TestClear(t *testing.T) {
	e := New()
	e.Insert("abc", 0)
	e.Clear()
	if e.Text() != "" || e.CharacterPosition() != 0 {
		t.Errorf("after Clear: %q offset %d", e.Text(), e.CharacterPosition())
	}
}

func TestStyleTextAndMediaInsertion(t *testing.T) {
	e := New()
	e.Insert("hello world", 0)
	if !e.StyleText("world", "id1", block.StyleMap{"color": "red"}) {
		t.Fatal("StyleText found no match")
	}
	e.InsertImage(block.ImageBlock{ID: "i1", Name: "x.png"}, 6)

	blocks := e.Blocks()
	if len(blocks) != 3 {
		t.Fatalf("blocks = %#v", blocks)
	}
	if blocks[1].Kind() != block.KindImage || blocks[2].Kind() != block.KindStyled {
		t.Errorf("kinds = %v %v %v", blocks[0].Kind(), blocks[1].Kind(), blocks[2].Kind())
	}
	if e.Text() != "hello world" {
		t.Errorf("logical text = %q", e.Text())
	}
}

func TestSyncAndSurfaceEditRoundTrip(t *testing.T) {
	e := New()
	e.Insert("hello", 0)

	m := surface.NewMemory()
	e.Sync(m)
	if m.Len() != 1 || m.Child(0).Text() != "hello" {
		t.Fatalf("surface after Sync: len %d", m.Len())
	}

	// Simulate the host appending text natively.
	m.Child(0).SetText("hello!")
	m.SetSelection(surface.Collapsed(0, 6))
	e.HandleSurfaceEdit(m)

	if e.Text() != "hello!" {
		t.Errorf("model text = %q", e.Text())
	}
	if e.CharacterPosition() != 6 {
		t.Errorf("offset = %d, want 6", e.CharacterPosition())
	}
}

func TestSurfaceEditIdempotence(t *testing.T) {
	changes := 0
	e := New(WithChangeHandler(func([]block.Block, int, surface.Rect) { changes++ }))
	e.Insert("abc", 0)
	m := surface.NewMemory()
	e.Sync(m)

	changes = 0
	e.HandleSurfaceEdit(m)
	e.HandleSurfaceEdit(m)
	if changes != 0 {
		t.Errorf("unchanged surface fired %d notifications", changes)
	}
}

func TestSurfaceEditRejectsUndeletableLoss(t *testing.T) {
	e := New()
	e.SetBlocks([]block.Block{
		block.TextBlock{Text: "a"},
		block.StyledBlock{ID: "keep", Text: "b", Undeletable: true},
	})
	m := surface.NewMemory()
	e.Sync(m)

	// The user deletes the protected node.
	m.Remove(1)
	e.HandleSurfaceEdit(m)

	if len(e.Blocks()) != 2 {
		t.Fatalf("model lost the protected block: %#v", e.Blocks())
	}
	// The surface was patched back.
	if m.Len() != 2 || m.Child(1).ID() != "keep" {
		t.Errorf("surface not restored: len %d", m.Len())
	}
}

func TestSurfaceEditWarnsOnlyOnRejectedEdit(t *testing.T) {
	var buf bytes.Buffer
	e := New(WithLogger(zerolog.New(&buf)))
	e.Insert("ab", 0)
	m := surface.NewMemory()
	e.Sync(m)

	// A benign node split: the extracted content is unchanged, the tree
	// just needs folding back into the canonical layout.
	m.Remove(0)
	m.Append(m.NewText("a"))
	m.Append(m.NewText("b"))
	e.HandleSurfaceEdit(m)
	if strings.Contains(buf.String(), "rejected") {
		t.Errorf("benign normalization logged a rejection: %s", buf.String())
	}

	e.SetBlocks([]block.Block{
		block.TextBlock{Text: "a"},
		block.StyledBlock{ID: "keep", Text: "b", Undeletable: true},
	})
	e.Sync(m)
	buf.Reset()

	m.Remove(1)
	e.HandleSurfaceEdit(m)
	if !strings.Contains(buf.String(), "rejected") {
		t.Error("dropping a protected block should log a rejection")
	}
}

func TestSurfaceEditMergesAnonymousRuns(t *testing.T) {
	e := New()
	e.Insert("ab", 0)
	m := surface.NewMemory()
	e.Sync(m)

	// Paste produces an extra anonymous node next to the existing one.
	m.InsertBefore(1, m.NewText("cd"))
	e.HandleSurfaceEdit(m)

	blocks := e.Blocks()
	if len(blocks) != 1 || e.Text() != "abcd" {
		t.Errorf("blocks = %#v text %q", blocks, e.Text())
	}
}
