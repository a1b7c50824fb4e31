// Package rbtree implements the archive's persistent index: a red-black
// tree of name-to-entry records stored entirely as offsets into the shared
// archive file. There is no in-memory pointer graph — every rotation,
// recolor, and relink is expressed as a sequence of block.Store reads and
// writes, the way the original allocator-backed B-tree walkers in this
// codebase re-derive structure from the file rather than from a cached
// tree.
package rbtree

import "errors"

// ErrDuplicateName is returned by Insert when an entry with the same name
// already exists in the tree.
var ErrDuplicateName = errors.New("rbtree: duplicate name")

// ErrNotFound is returned by Search and Delete when no entry with the given
// name exists in the tree.
var ErrNotFound = errors.New("rbtree: name not found")
