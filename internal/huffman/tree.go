// Package huffman implements the archive's payload codec: a 256-entry
// frequency table written verbatim into the compressed stream, followed by
// an MSB-first packed bitstream. Unlike a textbook canonical Huffman code,
// no code-length table is transmitted — the decoder rebuilds the exact same
// tree the encoder built, from the frequency table alone, using the same
// deterministic tie-breaking discipline. This trades a few header bytes
// (1024 instead of a compact code-length table) for a codec with no
// separate canonicalization pass.
package huffman

import "container/heap"

// NumSymbols is the size of the frequency table: one entry per byte value.
const NumSymbols = 256

// node is a Huffman tree node. Leaves carry a symbol; internal nodes carry
// only the summed frequency of their subtree. seq records the order in
// which each node entered the priority queue, and is the sole tie-breaker
// when two nodes have equal frequency — it is what makes tree construction
// reproducible between encode and decode given only the frequency table.
type node struct {
	symbol      byte
	freq        uint64
	left, right *node
	seq         int
}

func (n *node) isLeaf() bool {
	return n.left == nil && n.right == nil
}

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)   { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// buildTree constructs the Huffman tree for a 256-entry frequency table.
// Leaves are seeded into the queue in ascending symbol order (seq 0..255),
// then internal nodes are appended in creation order — so two calls given
// the same freq table always produce byte-identical trees.
//
// Returns nil if every frequency is zero (empty input).
func buildTree(freq [NumSymbols]uint64) *node {
	h := make(nodeHeap, 0, NumSymbols)
	seq := 0
	for sym := 0; sym < NumSymbols; sym++ {
		if freq[sym] == 0 {
			continue
		}
		h = append(h, &node{symbol: byte(sym), freq: freq[sym], seq: seq})
		seq++
	}
	if len(h) == 0 {
		return nil
	}
	heap.Init(&h)

	for len(h) > 1 {
		a := heap.Pop(&h).(*node)
		b := heap.Pop(&h).(*node)
		parent := &node{freq: a.freq + b.freq, left: a, right: b, seq: seq}
		seq++
		heap.Push(&h, parent)
	}

	root := heap.Pop(&h).(*node)
	if root.isLeaf() {
		// A single distinct symbol has no meaningful branch; wrap it under
		// a synthetic root so it still gets a one-bit code.
		root = &node{freq: root.freq, left: root, seq: seq}
	}
	return root
}

// code is one symbol's bit pattern, built MSB-first: bit 0 of the walk is
// the highest-order bit actually written.
type code struct {
	bits   uint64
	length uint8
}

// buildCodes walks the tree depth-first (left = 0, right = 1) and returns
// the code for every symbol present in it.
func buildCodes(root *node) map[byte]code {
	codes := make(map[byte]code)
	if root == nil {
		return codes
	}

	var walk func(n *node, bits uint64, depth uint8)
	walk = func(n *node, bits uint64, depth uint8) {
		if n.isLeaf() {
			codes[n.symbol] = code{bits: bits, length: depth}
			return
		}
		if n.left != nil {
			walk(n.left, bits<<1, depth+1)
		}
		if n.right != nil {
			walk(n.right, bits<<1|1, depth+1)
		}
	}
	walk(root, 0, 0)
	return codes
}
