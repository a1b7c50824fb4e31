package rbtree

import (
	"fmt"

	"github.com/scigolib/rbarc/internal/block"
)

// ValidateInvariants checks the four red-black properties against the
// subtree rooted at root: the root is black, no red node has a red child,
// every root-to-leaf path has equal black-height, and names satisfy the
// binary-search-tree ordering. It is used by the archive's fsck operation
// and by property-based tests; it is not on the hot path of any mutation.
func ValidateInvariants(s *block.Store, root block.Offset) error {
	if root.IsNull() {
		return nil
	}
	rootColor, err := colorAt(s, root)
	if err != nil {
		return err
	}
	if rootColor != block.Black {
		return fmt.Errorf("rbtree: root is not black")
	}
	_, err = checkSubtree(s, root, nil, nil)
	return err
}

func checkSubtree(s *block.Store, off block.Offset, lowerBound, upperBound *string) (int, error) {
	if off.IsNull() {
		return 0, nil
	}
	n, err := s.ReadNode(off)
	if err != nil {
		return 0, err
	}

	if lowerBound != nil && !(*lowerBound < n.Entry.Name) {
		return 0, fmt.Errorf("rbtree: ordering violated at %q (expected > %q)", n.Entry.Name, *lowerBound)
	}
	if upperBound != nil && !(n.Entry.Name < *upperBound) {
		return 0, fmt.Errorf("rbtree: ordering violated at %q (expected < %q)", n.Entry.Name, *upperBound)
	}

	if n.Color == block.Red {
		leftColor, err := colorAt(s, n.Left)
		if err != nil {
			return 0, err
		}
		rightColor, err := colorAt(s, n.Right)
		if err != nil {
			return 0, err
		}
		if leftColor == block.Red || rightColor == block.Red {
			return 0, fmt.Errorf("rbtree: red node %q has a red child", n.Entry.Name)
		}
	}

	leftHeight, err := checkSubtree(s, n.Left, lowerBound, &n.Entry.Name)
	if err != nil {
		return 0, err
	}
	rightHeight, err := checkSubtree(s, n.Right, &n.Entry.Name, upperBound)
	if err != nil {
		return 0, err
	}
	if leftHeight != rightHeight {
		return 0, fmt.Errorf("rbtree: unequal black-height at %q (%d vs %d)", n.Entry.Name, leftHeight, rightHeight)
	}

	blackHeight := leftHeight
	if n.Color == block.Black {
		blackHeight++
	}
	return blackHeight, nil
}
