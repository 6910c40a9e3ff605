// Package history provides the bounded undo buffer for the editor: a
// ring of committed block-array snapshots, oldest evicted first. It is
// a plain value-style component owned by the editor state; it exposes
// push and pop only and holds no reference to any surface or UI.
package history

import "github.com/dhollis/scribe/internal/engine/block"

// DefaultLimit is the snapshot cap used when no limit is configured.
const DefaultLimit = 50

// Ring is a bounded buffer of block-array snapshots. The newest entry
// is the current committed state; Undo discards it and returns the one
// before. Ring is not safe for concurrent use; the editor serializes
// access.
type Ring struct {
	entries [][]block.Block
	limit   int
}

// NewRing creates a ring with the given snapshot cap. Non-positive
// caps fall back to DefaultLimit.
func NewRing(limit int) *Ring {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Ring{limit: limit}
}

// Push records a committed snapshot. A snapshot deep-equal to the
// newest entry is not re-recorded. When the cap is exceeded the oldest
// entry is evicted.
func (r *Ring) Push(snapshot []block.Block) {
	if n := len(r.entries); n > 0 && block.Equal(r.entries[n-1], snapshot) {
		return
	}

	// Snapshots are stored as-is: mutation operations return fresh
	// arrays and never modify blocks in place, so sharing is safe.
	r.entries = append(r.entries, snapshot)

	if len(r.entries) > r.limit {
		excess := len(r.entries) - r.limit
		r.entries = r.entries[excess:]
	}
}

// Undo discards the newest snapshot and returns the previous one.
// It reports false when no earlier snapshot exists; the buffer then
// keeps its single remaining entry so the current state stays
// recoverable.
func (r *Ring) Undo() ([]block.Block, bool) {
	if len(r.entries) < 2 {
		return nil, false
	}
	r.entries = r.entries[:len(r.entries)-1]
	return r.entries[len(r.entries)-1], true
}

// Peek returns the newest snapshot without removing it.
func (r *Ring) Peek() ([]block.Block, bool) {
	if len(r.entries) == 0 {
		return nil, false
	}
	return r.entries[len(r.entries)-1], true
}

// Len returns the number of stored snapshots.
func (r *Ring) Len() int { return len(r.entries) }

// Limit returns the snapshot cap.
func (r *Ring) Limit() int { return r.limit }

// Clear drops all snapshots.
func (r *Ring) Clear() { r.entries = nil }
