package rbtree

import "github.com/scigolib/rbarc/internal/block"

// Walk performs an in-order traversal of the tree rooted at root, calling
// visit for each entry in ascending name order. Traversal stops at the
// first error visit returns.
//
// The walk is iterative, with an explicit stack of offsets rather than host
// recursion, so stack depth tracks the Go heap instead of the tree's height —
// an archive with a pathological number of entries cannot blow the goroutine
// stack just to be listed.
func Walk(s *block.Store, root block.Offset, visit func(block.Node) error) error {
	var stack []block.Offset
	cur := root

	for cur != block.NullOffset || len(stack) > 0 {
		for !cur.IsNull() {
			stack = append(stack, cur)
			n, err := s.ReadNode(cur)
			if err != nil {
				return err
			}
			cur = n.Left
		}

		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n, err := s.ReadNode(top)
		if err != nil {
			return err
		}
		if err := visit(n); err != nil {
			return err
		}
		cur = n.Right
	}

	return nil
}

// Height returns the number of nodes on the longest root-to-leaf path of a
// subtree, ignoring node colors. An empty subtree has height 0.
func Height(s *block.Store, root block.Offset) (int, error) {
	if root.IsNull() {
		return 0, nil
	}
	n, err := s.ReadNode(root)
	if err != nil {
		return 0, err
	}
	lh, err := Height(s, n.Left)
	if err != nil {
		return 0, err
	}
	rh, err := Height(s, n.Right)
	if err != nil {
		return 0, err
	}
	if lh > rh {
		return lh + 1, nil
	}
	return rh + 1, nil
}
