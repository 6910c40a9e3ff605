// Package block defines the content model for the editor: an ordered
// array of typed blocks (plain text, styled spans, embedded documents
// and images) plus the offset arithmetic that maps global character
// offsets to positions inside the array.
//
// The block array is the single source of truth for editor content.
// Editable surfaces are derived, disposable views; they are rebuilt
// from the array by the reconciler and read back into an array by the
// change extractor. Blocks are immutable values: every mutation
// produces a new array and never modifies blocks in place.
//
// Logical text is the concatenation of all text-bearing blocks' text
// in array order. Atomic media blocks contribute zero characters but
// occupy exactly one position in a surface's child list.
package block
