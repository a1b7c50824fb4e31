package huffman

import (
	"encoding/binary"
	"fmt"
	"math"
)

// HeaderSize is the fixed size, in bytes, of the frequency table prefixed to
// every compressed stream: 256 symbols * 4 bytes each.
const HeaderSize = NumSymbols * 4

// Encode compresses data and returns the frequency-table header followed by
// the MSB-first packed bitstream.
func Encode(data []byte) ([]byte, error) {
	var freq [NumSymbols]uint64
	for _, b := range data {
		freq[b]++
	}
	for _, f := range freq {
		if f > math.MaxUint32 {
			return nil, fmt.Errorf("huffman: symbol frequency %d exceeds uint32 header field", f)
		}
	}

	out := make([]byte, HeaderSize)
	for sym, f := range freq {
		binary.BigEndian.PutUint32(out[sym*4:sym*4+4], uint32(f))
	}

	if len(data) == 0 {
		return out, nil
	}

	root := buildTree(freq)
	codes := buildCodes(root)

	bw := newBitWriter()
	for _, b := range data {
		c := codes[b]
		bw.writeBits(c.bits, c.length)
	}

	return append(out, bw.bytes()...), nil
}

// Decode reconstructs originalSize bytes from a compressed stream previously
// produced by Encode. It rebuilds the tree from the header's frequency table
// alone — no code-length table is read from the stream.
func Decode(compressed []byte, originalSize uint64) ([]byte, error) {
	if len(compressed) < HeaderSize {
		return nil, ErrCorruptStream
	}

	var freq [NumSymbols]uint64
	for sym := 0; sym < NumSymbols; sym++ {
		freq[sym] = uint64(binary.BigEndian.Uint32(compressed[sym*4 : sym*4+4]))
	}

	if originalSize == 0 {
		return []byte{}, nil
	}

	root := buildTree(freq)
	if root == nil {
		return nil, ErrCorruptStream
	}

	br := newBitReader(compressed[HeaderSize:])
	out := make([]byte, 0, originalSize)
	cur := root

	for uint64(len(out)) < originalSize {
		bit, err := br.readBit()
		if err != nil {
			return nil, ErrCorruptStream
		}

		var next *node
		if bit == 0 {
			next = cur.left
		} else {
			next = cur.right
		}
		if next == nil {
			return nil, ErrCorruptStream
		}
		cur = next

		if cur.isLeaf() {
			out = append(out, cur.symbol)
			cur = root
		}
	}

	return out, nil
}
