// Package mutate implements the text-manipulation operations of the
// editor as pure functions over block arrays: insert, delete, replace,
// search-and-replace, styling and block insertion. Every operation
// takes a block array plus character offsets and returns a fresh array
// and an updated offset; nothing here touches an editable surface.
//
// The error policy is deliberately permissive: out-of-range offsets
// clamp to the nearest valid position, inverted ranges are no-ops, and
// no operation returns an error for data-shape issues. Callers get the
// corrected state back, never an exception to handle.
package mutate
