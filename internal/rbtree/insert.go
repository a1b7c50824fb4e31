package rbtree

import (
	"github.com/scigolib/rbarc/internal/alloc"
	"github.com/scigolib/rbarc/internal/block"
)

// Insert allocates a new node for entry and links it into the tree rooted
// at root, then restores the red-black invariants. It returns the new root
// offset and the offset of the inserted node.
func Insert(s *block.Store, a *alloc.Allocator, root block.Offset, entry block.Entry) (block.Offset, block.Offset, error) {
	var parent block.Offset = block.NullOffset
	cur := root

	for !cur.IsNull() {
		n, err := s.ReadNode(cur)
		if err != nil {
			return root, block.NullOffset, err
		}
		parent = cur
		switch {
		case entry.Name < n.Entry.Name:
			cur = n.Left
		case entry.Name > n.Entry.Name:
			cur = n.Right
		default:
			return root, block.NullOffset, ErrDuplicateName
		}
	}

	zOff, err := a.Allocate(block.NodeSize)
	if err != nil {
		return root, block.NullOffset, err
	}
	z := block.Node{
		Entry:  entry,
		Color:  block.Red,
		Left:   block.NullOffset,
		Right:  block.NullOffset,
		Parent: parent,
	}
	if err := s.AppendNode(zOff, z); err != nil {
		return root, block.NullOffset, err
	}

	if parent.IsNull() {
		root = zOff
	} else {
		p, err := s.ReadNode(parent)
		if err != nil {
			return root, block.NullOffset, err
		}
		if entry.Name < p.Entry.Name {
			p.Left = zOff
		} else {
			p.Right = zOff
		}
		if err := s.WriteNode(parent, p); err != nil {
			return root, block.NullOffset, err
		}
	}

	root, err = insertFixup(s, root, zOff)
	if err != nil {
		return root, block.NullOffset, err
	}
	return root, zOff, nil
}

// insertFixup restores red-black invariants after a red leaf has been
// linked in at zOff, following the CLRS case analysis.
func insertFixup(s *block.Store, root, zOff block.Offset) (block.Offset, error) {
	for {
		z, err := s.ReadNode(zOff)
		if err != nil {
			return root, err
		}
		if z.Parent.IsNull() {
			break
		}
		parent, err := s.ReadNode(z.Parent)
		if err != nil {
			return root, err
		}
		if parent.Color != block.Red {
			break
		}

		grandparent, err := s.ReadNode(parent.Parent)
		if err != nil {
			return root, err
		}

		if grandparent.Left == z.Parent {
			uncleOff := grandparent.Right
			uncleColor, err := colorAt(s, uncleOff)
			if err != nil {
				return root, err
			}

			if uncleColor == block.Red {
				if err := setColor(s, z.Parent, block.Black); err != nil {
					return root, err
				}
				if err := setColor(s, uncleOff, block.Black); err != nil {
					return root, err
				}
				if err := setColor(s, parent.Parent, block.Red); err != nil {
					return root, err
				}
				zOff = parent.Parent
				continue
			}

			if parent.Right == zOff {
				zOff = z.Parent
				root, err = leftRotate(s, root, zOff)
				if err != nil {
					return root, err
				}
			}

			z, err = s.ReadNode(zOff)
			if err != nil {
				return root, err
			}
			parent, err = s.ReadNode(z.Parent)
			if err != nil {
				return root, err
			}
			if err := setColor(s, z.Parent, block.Black); err != nil {
				return root, err
			}
			if err := setColor(s, parent.Parent, block.Red); err != nil {
				return root, err
			}
			root, err = rightRotate(s, root, parent.Parent)
			if err != nil {
				return root, err
			}
		} else {
			uncleOff := grandparent.Left
			uncleColor, err := colorAt(s, uncleOff)
			if err != nil {
				return root, err
			}

			if uncleColor == block.Red {
				if err := setColor(s, z.Parent, block.Black); err != nil {
					return root, err
				}
				if err := setColor(s, uncleOff, block.Black); err != nil {
					return root, err
				}
				if err := setColor(s, parent.Parent, block.Red); err != nil {
					return root, err
				}
				zOff = parent.Parent
				continue
			}

			if parent.Left == zOff {
				zOff = z.Parent
				root, err = rightRotate(s, root, zOff)
				if err != nil {
					return root, err
				}
			}

			z, err = s.ReadNode(zOff)
			if err != nil {
				return root, err
			}
			parent, err = s.ReadNode(z.Parent)
			if err != nil {
				return root, err
			}
			if err := setColor(s, z.Parent, block.Black); err != nil {
				return root, err
			}
			if err := setColor(s, parent.Parent, block.Red); err != nil {
				return root, err
			}
			root, err = leftRotate(s, root, parent.Parent)
			if err != nil {
				return root, err
			}
		}
	}

	if err := setColor(s, root, block.Black); err != nil {
		return root, err
	}
	return root, nil
}
