package editor

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/dhollis/scribe/internal/engine/block"
	"github.com/dhollis/scribe/internal/engine/history"
	"github.com/dhollis/scribe/internal/engine/mutate"
	"github.com/dhollis/scribe/internal/surface"
	"github.com/dhollis/scribe/internal/surface/caret"
	"github.com/dhollis/scribe/internal/surface/extract"
	"github.com/dhollis/scribe/internal/surface/reconcile"
)

// ChangeHandler receives the committed block array, the cursor offset
// and the last known cursor rectangle whenever the committed state
// differs by deep equality from the previous one.
type ChangeHandler func(blocks []block.Block, offset int, rect surface.Rect)

// CursorHandler receives cursor movements that happen without a
// content change.
type CursorHandler func(offset int, rect surface.Rect)

// Editor owns the committed block array, the cursor offset and the
// undo ring, and exposes the public mutation API. The block array and
// offset are replaced atomically on commit, never mutated in place, so
// observers always see a consistent snapshot.
//
// The editor never holds an editable surface. The surface handle is
// passed explicitly into Sync and HandleSurfaceEdit per call; a
// reconciliation pass is a function of (blocks, surface, offset).
type Editor struct {
	mu sync.Mutex

	blocks []block.Block
	offset int
	hist   *history.Ring

	// Last cursor rectangle read off a surface; zero until the first
	// surface pass.
	rect surface.Rect

	// Configuration
	historyLimit    int
	allowLineBreaks bool
	log             zerolog.Logger
	hooks           reconcile.Hooks
	onChange        ChangeHandler
	onCursor        CursorHandler
}

// New creates an empty editor with the given options.
func New(opts ...Option) *Editor {
	e := &Editor{
		historyLimit:    history.DefaultLimit,
		allowLineBreaks: true,
		log:             zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.hist = history.NewRing(e.historyLimit)
	e.hist.Push(nil)
	return e
}

// ============================================================================
// Transactions
// ============================================================================

// Tx is a mutation transaction. All mutations inside one Apply call
// coalesce into a single committed state, a single history snapshot
// and a single notification. A Tx is only valid inside the Apply call
// that created it; using it afterwards panics.
type Tx struct {
	blocks []block.Block
	offset int
	hist   *history.Ring
	done   bool
}

func (tx *Tx) active() {
	if tx.done {
		panic("editor: transaction used outside its Apply call")
	}
}

// Blocks returns the transaction's working block array.
func (tx *Tx) Blocks() []block.Block {
	tx.active()
	return tx.blocks
}

// Text returns the working logical text.
func (tx *Tx) Text() string {
	tx.active()
	return block.Text(tx.blocks)
}

// Offset returns the working cursor offset.
func (tx *Tx) Offset() int {
	tx.active()
	return tx.offset
}

// Clear empties the content.
func (tx *Tx) Clear() {
	tx.active()
	tx.blocks = nil
	tx.offset = 0
}

// SetBlocks replaces the content wholesale.
func (tx *Tx) SetBlocks(blocks []block.Block) {
	tx.active()
	tx.blocks = append([]block.Block{}, blocks...)
	tx.offset = clamp(tx.offset, tx.blocks)
}

// Insert splices text at the given character position.
func (tx *Tx) Insert(text string, pos int) {
	tx.active()
	tx.blocks, tx.offset = mutate.Insert(tx.blocks, text, pos)
}

// Delete removes the character range [start, end).
func (tx *Tx) Delete(start, end int) {
	tx.active()
	tx.blocks, tx.offset = mutate.Delete(tx.blocks, start, end)
}

// Replace substitutes the character range [start, end) with text.
func (tx *Tx) Replace(start, end int, text string) {
	tx.active()
	tx.blocks, tx.offset = mutate.Replace(tx.blocks, start, end, text)
}

// ReplaceText replaces the first occurrence of old, reporting whether
// a replacement happened.
func (tx *Tx) ReplaceText(old, new string) bool {
	tx.active()
	out, ok := mutate.ReplaceText(tx.blocks, old, new)
	tx.blocks = out
	tx.offset = clamp(tx.offset, out)
	return ok
}

// ReplaceAll replaces every occurrence of old and returns the count.
func (tx *Tx) ReplaceAll(old, new string) int {
	tx.active()
	out, n := mutate.ReplaceAll(tx.blocks, old, new)
	tx.blocks = out
	tx.offset = clamp(tx.offset, out)
	return n
}

// StyleText re-tags the first occurrence of text as a styled block.
func (tx *Tx) StyleText(text, id string, style block.StyleMap) bool {
	tx.active()
	out, ok := mutate.StyleText(tx.blocks, text, id, style)
	tx.blocks = out
	return ok
}

// InsertStyledBlock places a styled block at the given position.
func (tx *Tx) InsertStyledBlock(b block.StyledBlock, pos int) {
	tx.active()
	tx.blocks, tx.offset = mutate.InsertBlock(tx.blocks, b, pos)
}

// AppendStyledBlock places a styled block after all content.
func (tx *Tx) AppendStyledBlock(b block.StyledBlock) {
	tx.active()
	tx.blocks, tx.offset = mutate.InsertBlock(tx.blocks, b, block.TextLen(tx.blocks))
}

// InsertDocument places a document block at the given position.
func (tx *Tx) InsertDocument(d block.DocumentBlock, pos int) {
	tx.active()
	tx.blocks, tx.offset = mutate.InsertBlock(tx.blocks, d, pos)
}

// InsertImage places an image block at the given position.
func (tx *Tx) InsertImage(img block.ImageBlock, pos int) {
	tx.active()
	tx.blocks, tx.offset = mutate.InsertBlock(tx.blocks, img, pos)
}

// SetOffset moves the working cursor offset, clamped to the content.
func (tx *Tx) SetOffset(pos int) {
	tx.active()
	tx.offset = clamp(pos, tx.blocks)
}

// Undo discards the transaction's uncommitted changes and restores the
// snapshot before the last committed one, reporting whether an earlier
// snapshot existed. Committing afterwards settles the editor on that
// restored state.
func (tx *Tx) Undo() bool {
	tx.active()
	snap, ok := tx.hist.Undo()
	if !ok {
		return false
	}
	tx.blocks = snap
	tx.offset = clamp(tx.offset, snap)
	return true
}

// Apply runs fn inside a transaction and commits the result. Content
// changes push one history snapshot and fire the change handler once;
// a pure cursor move fires the cursor handler instead. Nothing fires
// when fn leaves both untouched.
func (e *Editor) Apply(fn func(*Tx)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx := &Tx{blocks: e.blocks, offset: e.offset, hist: e.hist}
	fn(tx)
	tx.done = true

	e.commit(tx.blocks, tx.offset)
}

// commit swaps in the transaction result and notifies. Callers hold
// the lock.
func (e *Editor) commit(blocks []block.Block, offset int) {
	offset = clamp(offset, blocks)
	contentChanged := !block.Equal(blocks, e.blocks)
	cursorMoved := offset != e.offset

	e.blocks = blocks
	e.offset = offset

	if contentChanged {
		e.hist.Push(blocks)
		e.log.Debug().
			Int("blocks", len(blocks)).
			Int("offset", offset).
			Msg("content committed")
		if e.onChange != nil {
			e.onChange(append([]block.Block{}, blocks...), offset, e.rect)
		}
		return
	}
	if cursorMoved && e.onCursor != nil {
		e.onCursor(offset, e.rect)
	}
}

// ============================================================================
// Convenience mutations (single-operation transactions)
// ============================================================================

// Clear empties the editor.
func (e *Editor) Clear() { e.Apply(func(tx *Tx) { tx.Clear() }) }

// Insert splices text at the given character position.
func (e *Editor) Insert(text string, pos int) {
	e.Apply(func(tx *Tx) { tx.Insert(text, pos) })
}

// Delete removes the character range [start, end).
func (e *Editor) Delete(start, end int) {
	e.Apply(func(tx *Tx) { tx.Delete(start, end) })
}

// Replace substitutes the character range [start, end) with text.
func (e *Editor) Replace(start, end int, text string) {
	e.Apply(func(tx *Tx) { tx.Replace(start, end, text) })
}

// ReplaceText replaces the first occurrence of old.
func (e *Editor) ReplaceText(old, new string) bool {
	var ok bool
	e.Apply(func(tx *Tx) { ok = tx.ReplaceText(old, new) })
	return ok
}

// ReplaceAll replaces every occurrence of old and returns the count.
func (e *Editor) ReplaceAll(old, new string) int {
	var n int
	e.Apply(func(tx *Tx) { n = tx.ReplaceAll(old, new) })
	return n
}

// StyleText re-tags the first occurrence of text as a styled block.
func (e *Editor) StyleText(text, id string, style block.StyleMap) bool {
	var ok bool
	e.Apply(func(tx *Tx) { ok = tx.StyleText(text, id, style) })
	return ok
}

// SetBlocks replaces the content wholesale.
func (e *Editor) SetBlocks(blocks []block.Block) {
	e.Apply(func(tx *Tx) { tx.SetBlocks(blocks) })
}

// InsertStyledBlock places a styled block at the given position.
func (e *Editor) InsertStyledBlock(b block.StyledBlock, pos int) {
	e.Apply(func(tx *Tx) { tx.InsertStyledBlock(b, pos) })
}

// AppendStyledBlock places a styled block after all content.
func (e *Editor) AppendStyledBlock(b block.StyledBlock) {
	e.Apply(func(tx *Tx) { tx.AppendStyledBlock(b) })
}

// InsertDocument places a document block at the given position.
func (e *Editor) InsertDocument(d block.DocumentBlock, pos int) {
	e.Apply(func(tx *Tx) { tx.InsertDocument(d, pos) })
}

// InsertImage places an image block at the given position.
func (e *Editor) InsertImage(img block.ImageBlock, pos int) {
	e.Apply(func(tx *Tx) { tx.InsertImage(img, pos) })
}

// SetCharacterPosition moves the cursor offset, clamped to content.
func (e *Editor) SetCharacterPosition(pos int) {
	e.Apply(func(tx *Tx) { tx.SetOffset(pos) })
}

// ============================================================================
// Read operations
// ============================================================================

// Blocks returns a copy of the committed block array.
func (e *Editor) Blocks() []block.Block {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]block.Block{}, e.blocks...)
}

// Text returns the committed logical text.
func (e *Editor) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return block.Text(e.blocks)
}

// CharacterPosition returns the committed cursor offset.
func (e *Editor) CharacterPosition() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.offset
}

// ============================================================================
// History
// ============================================================================

// Undo restores the previous committed snapshot, reporting whether one
// existed. The restored state fires the change handler like any other
// commit.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, ok := e.hist.Undo()
	if !ok {
		return false
	}
	e.blocks = snap
	e.offset = clamp(e.offset, snap)
	e.log.Debug().Int("blocks", len(snap)).Msg("undo applied")
	if e.onChange != nil {
		e.onChange(append([]block.Block{}, snap...), e.offset, e.rect)
	}
	return true
}

// ============================================================================
// Surface synchronization
// ============================================================================

// Sync patches the given surface to match the committed state and
// restores the cursor there. The handle is used for this call only.
func (e *Editor) Sync(s surface.Surface) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sync(s)
}

func (e *Editor) sync(s surface.Surface) {
	reconcile.Apply(s, e.blocks, e.offset, e.hooks)
	if r, ok := s.CursorRect(); ok {
		e.rect = r
	}
}

// HandleSurfaceEdit runs the extraction path after a native user edit:
// the surface is walked back into a block array, the committed state
// is replaced when the edit survives the undeletable guard, and the
// surface is re-patched so it matches the settled state. Rejected
// edits leave the model untouched and undo the surface mutation.
func (e *Editor) HandleSurfaceEdit(s surface.Surface) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.blocks
	next, changed, rejected := extract.Blocks(s, prev, extract.Options{AllowLineBreaks: e.allowLineBreaks})
	if !changed {
		// Idempotent pass or rejected edit. Re-patching restores the
		// surface when the edit was rejected, and folds benign node
		// shuffles back into the canonical layout otherwise.
		reconcile.Apply(s, prev, e.offset, e.hooks)
		if rejected {
			e.log.Warn().Msg("surface edit rejected, protected block lost")
		}
		if r, ok := s.CursorRect(); ok {
			e.rect = r
		}
		return
	}

	offset := e.offset
	if cur, ok := extract.CursorAfter(block.Text(prev), block.Text(next)); ok {
		offset = cur
	} else if cur, ok := caret.PositionOf(s); ok {
		offset = cur
	}

	e.blocks = next
	e.offset = clamp(offset, next)
	e.hist.Push(next)
	e.sync(s)
	e.log.Debug().
		Int("blocks", len(next)).
		Int("offset", e.offset).
		Msg("surface edit committed")
	if e.onChange != nil {
		e.onChange(append([]block.Block{}, next...), e.offset, e.rect)
	}
}

// clamp bounds a cursor offset to the logical text of blocks.
func clamp(offset int, blocks []block.Block) int {
	if offset < 0 {
		return 0
	}
	if total := block.TextLen(blocks); offset > total {
		return total
	}
	return offset
}
