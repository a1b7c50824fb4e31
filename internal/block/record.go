// Package block implements fixed-layout, offset-addressed reads and writes
// of the archive's superblock and tree-node records over a single flat file.
//
// Every structural mutation performed by internal/rbtree is expressed as a
// sequence of the three primitives this package exposes: ReadNode, WriteNode,
// and AppendNode. Nodes are never cached between calls — every read goes to
// the underlying file, mirroring the HDF5 B-tree parsers this package is
// descended from, which re-read a node from its io.ReaderAt on every access
// rather than holding an in-memory tree.
package block

// Offset is a byte position in the archive file. It is a distinct type from
// int64 so that the null sentinel (-1) cannot silently leak into arithmetic
// that expects a valid address — every site that dereferences an Offset must
// first ask IsNull.
type Offset int64

// NullOffset is the on-disk sentinel for "no node" / "no payload". The
// red-black invariants treat it as BLACK.
const NullOffset Offset = -1

// IsNull reports whether o is the null sentinel.
func (o Offset) IsNull() bool { return o < 0 }

// Kind tags an entry record as a file or a (reserved) directory.
type Kind uint8

const (
	KindFile Kind = iota
	KindDirectory
)

// Color is a red-black tree node color. NullOffset is considered Black by
// convention wherever a node's color would otherwise be consulted.
type Color uint8

const (
	Red Color = iota
	Black
)

// MaxName is the fixed capacity of an entry name buffer, including the
// trailing NUL terminator. Names longer than MaxName-1 bytes are rejected by
// the archive facade before any record is constructed.
const MaxName = 64

// Magic is the sentinel value at offset 0 identifying a valid archive file.
const Magic uint32 = 0xCAFEBABE

// SuperblockSize is the fixed on-disk size of the Superblock record:
// 4 (magic) + 4 (reserved, zero) + 8*3 (root_offset, next_free, total_size).
// The reserved word pads the three 8-byte fields onto 8-byte-aligned offsets.
const SuperblockSize = 4 + 4 + 8*3

// EntryRecordSize is the fixed size of the Entry portion of a Node record:
// 1 (kind) + 64 (name) + 8*5 (parent_logical, children_root, payload_offset,
// original_size, compressed_size).
const EntryRecordSize = 1 + MaxName + 8*5

// NodeSize is the fixed on-disk size of a tree-node record: the embedded
// Entry plus 1 (color) + 8*3 (left, right, parent).
const NodeSize = EntryRecordSize + 1 + 8*3

// Superblock is the fixed-size header at offset 0 of an archive file — the
// durable root of the whole structure.
type Superblock struct {
	Magic     uint32
	Root      Offset
	NextFree  Offset
	TotalSize uint64
}

// Entry is the logical content of a tree node: the per-name metadata.
// ParentLogical and ChildrenRoot are reserved for a future hierarchical
// directory layer and are always NullOffset in this flat-namespace core.
type Entry struct {
	Kind           Kind
	Name           string
	ParentLogical  Offset
	ChildrenRoot   Offset
	PayloadOffset  Offset
	OriginalSize   uint64
	CompressedSize uint64
}

// Node is an Entry plus the red-black structural fields: the single
// allocation unit of the persistent index.
type Node struct {
	Entry  Entry
	Color  Color
	Left   Offset
	Right  Offset
	Parent Offset
}
