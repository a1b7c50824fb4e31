package rbtree

import "github.com/scigolib/rbarc/internal/block"

// transplant replaces the subtree rooted at uOff with the subtree rooted at
// vOff, relinking uOff's parent to point at vOff. vOff may be the null
// offset.
func transplant(s *block.Store, root, uOff, vOff block.Offset) (block.Offset, error) {
	u, err := s.ReadNode(uOff)
	if err != nil {
		return root, err
	}

	if u.Parent.IsNull() {
		root = vOff
	} else {
		p, err := s.ReadNode(u.Parent)
		if err != nil {
			return root, err
		}
		if p.Left == uOff {
			p.Left = vOff
		} else {
			p.Right = vOff
		}
		if err := s.WriteNode(u.Parent, p); err != nil {
			return root, err
		}
	}

	if !vOff.IsNull() {
		v, err := s.ReadNode(vOff)
		if err != nil {
			return root, err
		}
		v.Parent = u.Parent
		if err := s.WriteNode(vOff, v); err != nil {
			return root, err
		}
	}
	return root, nil
}

// Delete removes the entry named name from the tree rooted at root and
// restores the red-black invariants, completing the CLRS delete the
// original allocator-backed implementation this package is descended from
// never finished. The deleted node's storage is not reclaimed: the
// allocator is append-only, so its offset simply becomes unreachable.
func Delete(s *block.Store, root block.Offset, name string) (block.Offset, error) {
	zOff, z, err := Search(s, root, name)
	if err != nil {
		return root, err
	}

	yOff := zOff
	yOriginalColor := z.Color
	var xOff, xParentOff block.Offset

	switch {
	case z.Left.IsNull():
		xOff = z.Right
		xParentOff = z.Parent
		root, err = transplant(s, root, zOff, z.Right)
		if err != nil {
			return root, err
		}

	case z.Right.IsNull():
		xOff = z.Left
		xParentOff = z.Parent
		root, err = transplant(s, root, zOff, z.Left)
		if err != nil {
			return root, err
		}

	default:
		yOff, err = minimum(s, z.Right)
		if err != nil {
			return root, err
		}
		y, err := s.ReadNode(yOff)
		if err != nil {
			return root, err
		}
		yOriginalColor = y.Color
		xOff = y.Right

		if y.Parent == zOff {
			xParentOff = yOff
		} else {
			xParentOff = y.Parent
			root, err = transplant(s, root, yOff, y.Right)
			if err != nil {
				return root, err
			}
			y, err = s.ReadNode(yOff)
			if err != nil {
				return root, err
			}
			y.Right = z.Right
			if err := s.WriteNode(yOff, y); err != nil {
				return root, err
			}
			right, err := s.ReadNode(z.Right)
			if err != nil {
				return root, err
			}
			right.Parent = yOff
			if err := s.WriteNode(z.Right, right); err != nil {
				return root, err
			}
		}

		root, err = transplant(s, root, zOff, yOff)
		if err != nil {
			return root, err
		}
		y, err = s.ReadNode(yOff)
		if err != nil {
			return root, err
		}
		y.Left = z.Left
		y.Color = z.Color
		if err := s.WriteNode(yOff, y); err != nil {
			return root, err
		}
		left, err := s.ReadNode(z.Left)
		if err != nil {
			return root, err
		}
		left.Parent = yOff
		if err := s.WriteNode(z.Left, left); err != nil {
			return root, err
		}
	}

	if yOriginalColor == block.Black {
		root, err = deleteFixup(s, root, xOff, xParentOff)
		if err != nil {
			return root, err
		}
	}

	return root, nil
}

// deleteFixup restores red-black invariants after a black node has been
// removed, following the CLRS case analysis. Because the removed region may
// leave x as the null offset (an implicit, colorless leaf), xParentOff is
// threaded through explicitly instead of being read from x itself.
func deleteFixup(s *block.Store, root, xOff, xParentOff block.Offset) (block.Offset, error) {
	for xOff != root {
		color, err := colorAt(s, xOff)
		if err != nil {
			return root, err
		}
		if color != block.Black {
			break
		}
		if xParentOff.IsNull() {
			break
		}

		parent, err := s.ReadNode(xParentOff)
		if err != nil {
			return root, err
		}

		if xOff == parent.Left {
			wOff := parent.Right
			w, err := s.ReadNode(wOff)
			if err != nil {
				return root, err
			}

			if w.Color == block.Red {
				w.Color = block.Black
				parent.Color = block.Red
				if err := s.WriteNode(wOff, w); err != nil {
					return root, err
				}
				if err := s.WriteNode(xParentOff, parent); err != nil {
					return root, err
				}
				root, err = leftRotate(s, root, xParentOff)
				if err != nil {
					return root, err
				}
				parent, err = s.ReadNode(xParentOff)
				if err != nil {
					return root, err
				}
				wOff = parent.Right
				w, err = s.ReadNode(wOff)
				if err != nil {
					return root, err
				}
			}

			leftColor, err := colorAt(s, w.Left)
			if err != nil {
				return root, err
			}
			rightColor, err := colorAt(s, w.Right)
			if err != nil {
				return root, err
			}

			if leftColor == block.Black && rightColor == block.Black {
				w.Color = block.Red
				if err := s.WriteNode(wOff, w); err != nil {
					return root, err
				}
				xOff = xParentOff
				parent, err = s.ReadNode(xParentOff)
				if err != nil {
					return root, err
				}
				xParentOff = parent.Parent
				continue
			}

			if rightColor == block.Black {
				if !w.Left.IsNull() {
					if err := setColor(s, w.Left, block.Black); err != nil {
						return root, err
					}
				}
				w.Color = block.Red
				if err := s.WriteNode(wOff, w); err != nil {
					return root, err
				}
				root, err = rightRotate(s, root, wOff)
				if err != nil {
					return root, err
				}
				parent, err = s.ReadNode(xParentOff)
				if err != nil {
					return root, err
				}
				wOff = parent.Right
				w, err = s.ReadNode(wOff)
				if err != nil {
					return root, err
				}
			}

			w.Color = parent.Color
			parent.Color = block.Black
			if err := s.WriteNode(xParentOff, parent); err != nil {
				return root, err
			}
			if !w.Right.IsNull() {
				if err := setColor(s, w.Right, block.Black); err != nil {
					return root, err
				}
			}
			if err := s.WriteNode(wOff, w); err != nil {
				return root, err
			}
			root, err = leftRotate(s, root, xParentOff)
			if err != nil {
				return root, err
			}
			xOff = root
			break
		}

		// Mirror image: x is the right child of its parent.
		wOff := parent.Left
		w, err := s.ReadNode(wOff)
		if err != nil {
			return root, err
		}

		if w.Color == block.Red {
			w.Color = block.Black
			parent.Color = block.Red
			if err := s.WriteNode(wOff, w); err != nil {
				return root, err
			}
			if err := s.WriteNode(xParentOff, parent); err != nil {
				return root, err
			}
			root, err = rightRotate(s, root, xParentOff)
			if err != nil {
				return root, err
			}
			parent, err = s.ReadNode(xParentOff)
			if err != nil {
				return root, err
			}
			wOff = parent.Left
			w, err = s.ReadNode(wOff)
			if err != nil {
				return root, err
			}
		}

		leftColor, err := colorAt(s, w.Left)
		if err != nil {
			return root, err
		}
		rightColor, err := colorAt(s, w.Right)
		if err != nil {
			return root, err
		}

		if leftColor == block.Black && rightColor == block.Black {
			w.Color = block.Red
			if err := s.WriteNode(wOff, w); err != nil {
				return root, err
			}
			xOff = xParentOff
			parent, err = s.ReadNode(xParentOff)
			if err != nil {
				return root, err
			}
			xParentOff = parent.Parent
			continue
		}

		if leftColor == block.Black {
			if !w.Right.IsNull() {
				if err := setColor(s, w.Right, block.Black); err != nil {
					return root, err
				}
			}
			w.Color = block.Red
			if err := s.WriteNode(wOff, w); err != nil {
				return root, err
			}
			root, err = leftRotate(s, root, wOff)
			if err != nil {
				return root, err
			}
			parent, err = s.ReadNode(xParentOff)
			if err != nil {
				return root, err
			}
			wOff = parent.Left
			w, err = s.ReadNode(wOff)
			if err != nil {
				return root, err
			}
		}

		w.Color = parent.Color
		parent.Color = block.Black
		if err := s.WriteNode(xParentOff, parent); err != nil {
			return root, err
		}
		if !w.Left.IsNull() {
			if err := setColor(s, w.Left, block.Black); err != nil {
				return root, err
			}
		}
		if err := s.WriteNode(wOff, w); err != nil {
			return root, err
		}
		root, err = rightRotate(s, root, xParentOff)
		if err != nil {
			return root, err
		}
		xOff = root
		break
	}

	if !xOff.IsNull() {
		if err := setColor(s, xOff, block.Black); err != nil {
			return root, err
		}
	}
	return root, nil
}
