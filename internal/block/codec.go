package block

import (
	"encoding/binary"
	"fmt"
)

// EncodeSuperblock serializes sb into a fixed SuperblockSize-byte, big-endian
// buffer, mirroring the explicit-field-order layout the teacher's superblock
// parser expects rather than relying on Go struct packing.
func EncodeSuperblock(sb Superblock) []byte {
	buf := make([]byte, SuperblockSize)
	binary.BigEndian.PutUint32(buf[0:4], sb.Magic)
	// buf[4:8] is reserved, left zero.
	binary.BigEndian.PutUint64(buf[8:16], uint64(sb.Root))
	binary.BigEndian.PutUint64(buf[16:24], uint64(sb.NextFree))
	binary.BigEndian.PutUint64(buf[24:32], sb.TotalSize)
	return buf
}

// DecodeSuperblock parses a SuperblockSize-byte buffer into a Superblock. It
// does not itself validate the magic; callers check Magic against the
// package constant and translate a mismatch into the archive's BadMagic
// error kind.
func DecodeSuperblock(buf []byte) (Superblock, error) {
	if len(buf) < SuperblockSize {
		return Superblock{}, fmt.Errorf("superblock buffer too short: got %d bytes, want %d", len(buf), SuperblockSize)
	}
	return Superblock{
		Magic:     binary.BigEndian.Uint32(buf[0:4]),
		Root:      Offset(binary.BigEndian.Uint64(buf[8:16])),
		NextFree:  Offset(binary.BigEndian.Uint64(buf[16:24])),
		TotalSize: binary.BigEndian.Uint64(buf[24:32]),
	}, nil
}

// EncodeNode serializes n into a fixed NodeSize-byte, big-endian buffer. The
// name is copied into a zero-padded MaxName-byte field; callers are expected
// to have already validated len(n.Entry.Name) < MaxName.
func EncodeNode(n Node) []byte {
	buf := make([]byte, NodeSize)

	buf[0] = byte(n.Entry.Kind)
	copy(buf[1:1+MaxName], n.Entry.Name)

	off := 1 + MaxName
	binary.BigEndian.PutUint64(buf[off:off+8], uint64(n.Entry.ParentLogical))
	off += 8
	binary.BigEndian.PutUint64(buf[off:off+8], uint64(n.Entry.ChildrenRoot))
	off += 8
	binary.BigEndian.PutUint64(buf[off:off+8], uint64(n.Entry.PayloadOffset))
	off += 8
	binary.BigEndian.PutUint64(buf[off:off+8], n.Entry.OriginalSize)
	off += 8
	binary.BigEndian.PutUint64(buf[off:off+8], n.Entry.CompressedSize)
	off += 8

	buf[off] = byte(n.Color)
	off++
	binary.BigEndian.PutUint64(buf[off:off+8], uint64(n.Left))
	off += 8
	binary.BigEndian.PutUint64(buf[off:off+8], uint64(n.Right))
	off += 8
	binary.BigEndian.PutUint64(buf[off:off+8], uint64(n.Parent))

	return buf
}

// DecodeNode parses a NodeSize-byte buffer into a Node.
func DecodeNode(buf []byte) (Node, error) {
	if len(buf) < NodeSize {
		return Node{}, fmt.Errorf("node buffer too short: got %d bytes, want %d", len(buf), NodeSize)
	}

	kind := Kind(buf[0])
	name := decodeName(buf[1 : 1+MaxName])

	off := 1 + MaxName
	parentLogical := Offset(binary.BigEndian.Uint64(buf[off : off+8]))
	off += 8
	childrenRoot := Offset(binary.BigEndian.Uint64(buf[off : off+8]))
	off += 8
	payloadOffset := Offset(binary.BigEndian.Uint64(buf[off : off+8]))
	off += 8
	originalSize := binary.BigEndian.Uint64(buf[off : off+8])
	off += 8
	compressedSize := binary.BigEndian.Uint64(buf[off : off+8])
	off += 8

	color := Color(buf[off])
	off++
	left := Offset(binary.BigEndian.Uint64(buf[off : off+8]))
	off += 8
	right := Offset(binary.BigEndian.Uint64(buf[off : off+8]))
	off += 8
	parent := Offset(binary.BigEndian.Uint64(buf[off : off+8]))

	return Node{
		Entry: Entry{
			Kind:           kind,
			Name:           name,
			ParentLogical:  parentLogical,
			ChildrenRoot:   childrenRoot,
			PayloadOffset:  payloadOffset,
			OriginalSize:   originalSize,
			CompressedSize: compressedSize,
		},
		Color:  color,
		Left:   left,
		Right:  right,
		Parent: parent,
	}, nil
}

// decodeName trims the zero padding a fixed-width name field carries on disk.
func decodeName(field []byte) string {
	end := 0
	for end < len(field) && field[end] != 0 {
		end++
	}
	return string(field[:end])
}
