package rbtree

import "github.com/scigolib/rbarc/internal/block"

// Search walks down from root comparing names, returning the offset of the
// matching node. It returns ErrNotFound if no entry with that name exists.
func Search(s *block.Store, root block.Offset, name string) (block.Offset, block.Node, error) {
	cur := root
	for !cur.IsNull() {
		n, err := s.ReadNode(cur)
		if err != nil {
			return block.NullOffset, block.Node{}, err
		}
		switch {
		case name < n.Entry.Name:
			cur = n.Left
		case name > n.Entry.Name:
			cur = n.Right
		default:
			return cur, n, nil
		}
	}
	return block.NullOffset, block.Node{}, ErrNotFound
}

// minimum returns the offset of the leftmost node in the subtree rooted at
// off.
func minimum(s *block.Store, off block.Offset) (block.Offset, error) {
	cur := off
	for {
		n, err := s.ReadNode(cur)
		if err != nil {
			return block.NullOffset, err
		}
		if n.Left.IsNull() {
			return cur, nil
		}
		cur = n.Left
	}
}
