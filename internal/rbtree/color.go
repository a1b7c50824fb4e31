package rbtree

import "github.com/scigolib/rbarc/internal/block"

// colorAt returns the color of the node at off, treating the null offset as
// Black per the standard red-black convention for an absent child.
func colorAt(s *block.Store, off block.Offset) (block.Color, error) {
	if off.IsNull() {
		return block.Black, nil
	}
	n, err := s.ReadNode(off)
	if err != nil {
		return block.Black, err
	}
	return n.Color, nil
}

// setColor writes just the color field of the node at off. off must not be
// null.
func setColor(s *block.Store, off block.Offset, c block.Color) error {
	n, err := s.ReadNode(off)
	if err != nil {
		return err
	}
	n.Color = c
	return s.WriteNode(off, n)
}
