package rbtree

import "github.com/scigolib/rbarc/internal/block"

// leftRotate performs a CLRS left rotation around x, reading and writing
// every affected node record in place. The records at x's and y's offsets
// never move — only their field values change — so any offset captured
// before a rotation remains valid afterward.
func leftRotate(s *block.Store, root, xOff block.Offset) (block.Offset, error) {
	x, err := s.ReadNode(xOff)
	if err != nil {
		return root, err
	}
	yOff := x.Right
	y, err := s.ReadNode(yOff)
	if err != nil {
		return root, err
	}

	x.Right = y.Left
	if !y.Left.IsNull() {
		yLeft, err := s.ReadNode(y.Left)
		if err != nil {
			return root, err
		}
		yLeft.Parent = xOff
		if err := s.WriteNode(y.Left, yLeft); err != nil {
			return root, err
		}
	}

	y.Parent = x.Parent
	if x.Parent.IsNull() {
		root = yOff
	} else {
		p, err := s.ReadNode(x.Parent)
		if err != nil {
			return root, err
		}
		if p.Left == xOff {
			p.Left = yOff
		} else {
			p.Right = yOff
		}
		if err := s.WriteNode(x.Parent, p); err != nil {
			return root, err
		}
	}

	y.Left = xOff
	x.Parent = yOff

	if err := s.WriteNode(xOff, x); err != nil {
		return root, err
	}
	if err := s.WriteNode(yOff, y); err != nil {
		return root, err
	}
	return root, nil
}

// rightRotate is the mirror image of leftRotate, around y.
func rightRotate(s *block.Store, root, yOff block.Offset) (block.Offset, error) {
	y, err := s.ReadNode(yOff)
	if err != nil {
		return root, err
	}
	xOff := y.Left
	x, err := s.ReadNode(xOff)
	if err != nil {
		return root, err
	}

	y.Left = x.Right
	if !x.Right.IsNull() {
		xRight, err := s.ReadNode(x.Right)
		if err != nil {
			return root, err
		}
		xRight.Parent = yOff
		if err := s.WriteNode(x.Right, xRight); err != nil {
			return root, err
		}
	}

	x.Parent = y.Parent
	if y.Parent.IsNull() {
		root = xOff
	} else {
		p, err := s.ReadNode(y.Parent)
		if err != nil {
			return root, err
		}
		if p.Right == yOff {
			p.Right = xOff
		} else {
			p.Left = xOff
		}
		if err := s.WriteNode(y.Parent, p); err != nil {
			return root, err
		}
	}

	x.Right = yOff
	y.Parent = xOff

	if err := s.WriteNode(yOff, y); err != nil {
		return root, err
	}
	if err := s.WriteNode(xOff, x); err != nil {
		return root, err
	}
	return root, nil
}
