package block

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/scigolib/rbarc/internal/utils"
)

// ErrBadMagic is returned by ReadSuperblock when the file's leading four
// bytes do not match Magic.
var ErrBadMagic = errors.New("bad magic: not an rbarc archive")

// Store is the single point of contact between the higher-level packages
// (alloc, rbtree, the archive facade) and the underlying file. It never
// caches a record across calls: every ReadNode re-reads from disk, the way
// the teacher's B-tree entry reader re-reads from its io.ReaderAt rather than
// holding a parsed tree in memory.
type Store struct {
	f *os.File
}

// Open wraps an already-opened archive file. The caller owns the *os.File's
// lifecycle up to Close.
func Open(f *os.File) *Store {
	return &Store{f: f}
}

// Close closes the underlying file.
func (s *Store) Close() error {
	return s.f.Close()
}

// Sync flushes the underlying file to stable storage.
func (s *Store) Sync() error {
	return s.f.Sync()
}

// ReadSuperblock reads and decodes the superblock at offset 0, validating
// the magic number.
func (s *Store) ReadSuperblock() (Superblock, error) {
	buf := utils.GetBuffer(SuperblockSize)
	defer utils.ReleaseBuffer(buf)

	if _, err := s.f.ReadAt(buf, 0); err != nil {
		return Superblock{}, utils.WrapError("block: read superblock", err)
	}
	sb, err := DecodeSuperblock(buf)
	if err != nil {
		return Superblock{}, utils.WrapError("block: decode superblock", err)
	}
	if sb.Magic != Magic {
		return Superblock{}, ErrBadMagic
	}
	return sb, nil
}

// WriteSuperblock encodes and writes sb at offset 0.
func (s *Store) WriteSuperblock(sb Superblock) error {
	buf := EncodeSuperblock(sb)
	if _, err := s.f.WriteAt(buf, 0); err != nil {
		return utils.WrapError("block: write superblock", err)
	}
	return nil
}

// ReadNode reads and decodes the NodeSize-byte record at off.
func (s *Store) ReadNode(off Offset) (Node, error) {
	if off.IsNull() {
		return Node{}, fmt.Errorf("block: read node at null offset")
	}
	buf := utils.GetBuffer(NodeSize)
	defer utils.ReleaseBuffer(buf)

	if _, err := s.f.ReadAt(buf, int64(off)); err != nil {
		return Node{}, utils.WrapError(fmt.Sprintf("block: read node at %d", off), err)
	}
	n, err := DecodeNode(buf)
	if err != nil {
		return Node{}, utils.WrapError(fmt.Sprintf("block: decode node at %d", off), err)
	}
	return n, nil
}

// WriteNode encodes and writes n at the existing offset off. Used for
// in-place structural updates (recoloring, relinking) during rotations and
// fixups; it never changes a node's length.
func (s *Store) WriteNode(off Offset, n Node) error {
	if off.IsNull() {
		return fmt.Errorf("block: write node at null offset")
	}
	buf := EncodeNode(n)
	if _, err := s.f.WriteAt(buf, int64(off)); err != nil {
		return utils.WrapError(fmt.Sprintf("block: write node at %d", off), err)
	}
	return nil
}

// AppendNode writes a newly created node n at off, an offset obtained from
// the allocator. It is WriteNode under another name; the caller already
// holds the offset, so only an error is returned.
func (s *Store) AppendNode(off Offset, n Node) error {
	return s.WriteNode(off, n)
}

// ReadPayload reads n bytes starting at off — the compressed bytes of a
// stored file.
func (s *Store) ReadPayload(off Offset, n uint64) ([]byte, error) {
	if off.IsNull() {
		return nil, fmt.Errorf("block: read payload at null offset")
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(io.NewSectionReader(s.f, int64(off), int64(n)), buf); err != nil {
		return nil, utils.WrapError(fmt.Sprintf("block: read payload at %d", off), err)
	}
	return buf, nil
}

// WritePayload writes data at the allocator-provided offset off.
func (s *Store) WritePayload(off Offset, data []byte) error {
	if off.IsNull() {
		return fmt.Errorf("block: write payload at null offset")
	}
	if _, err := s.f.WriteAt(data, int64(off)); err != nil {
		return utils.WrapError(fmt.Sprintf("block: write payload at %d", off), err)
	}
	return nil
}
