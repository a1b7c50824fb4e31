// Package rbarc implements a single-file, persistent, compressed archive
// store: a disk-resident red-black tree index over Huffman-compressed
// payloads, all addressed through one append-only allocator sharing a
// single flat file.
package rbarc

import (
	"log"
	"os"

	"github.com/google/renameio"

	"github.com/scigolib/rbarc/internal/alloc"
	"github.com/scigolib/rbarc/internal/block"
	"github.com/scigolib/rbarc/internal/huffman"
	"github.com/scigolib/rbarc/internal/rbtree"
)

// MaxNameLength is the longest name (in bytes) an entry may carry,
// excluding the on-disk NUL terminator.
const MaxNameLength = block.MaxName - 1

// Verbose, when non-nil, receives trace-level diagnostics from the facade.
// The CLI wires this to a *log.Logger gated by its -v flag; library callers
// leave it nil by default.
var Verbose *log.Logger

func trace(format string, args ...interface{}) {
	if Verbose != nil {
		Verbose.Printf(format, args...)
	}
}

// Archive is a handle to an open archive file. The zero value is not usable;
// obtain one via Open.
type Archive struct {
	path  string
	f     *os.File
	store *block.Store
	alloc *alloc.Allocator
	sb    block.Superblock
}

// Init creates a new, empty archive at path, writing it atomically so a
// crash mid-write never leaves a half-initialized file behind.
func Init(path string) error {
	sb := block.Superblock{
		Magic:     block.Magic,
		Root:      block.NullOffset,
		NextFree:  block.SuperblockSize,
		TotalSize: block.SuperblockSize,
	}
	buf := block.EncodeSuperblock(sb)
	if err := renameio.WriteFile(path, buf, 0o644); err != nil {
		return ioErr("init", err)
	}
	trace("init: created %s", path)
	return nil
}

// Open opens an existing archive, validating its superblock.
func Open(path string) (*Archive, error) {
	//nolint:gosec // G304: caller-provided archive path is the whole point of this API
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, ioErr("open", err)
	}
	store := block.Open(f)

	sb, err := store.ReadSuperblock()
	if err != nil {
		_ = f.Close()
		return nil, classify("open", err)
	}

	a := alloc.New(sb.NextFree)
	trace("open: %s root=%d next_free=%d", path, sb.Root, sb.NextFree)

	return &Archive{path: path, f: f, store: store, alloc: a, sb: sb}, nil
}

// Close persists the superblock and releases the underlying file handle. It
// is safe to call once; calling it again returns an error.
func (a *Archive) Close() error {
	if a.f == nil {
		return &Error{Kind: KindIO, Op: "close", Err: os.ErrClosed}
	}
	if err := a.store.WriteSuperblock(a.sb); err != nil {
		_ = a.f.Close()
		a.f = nil
		return classify("close", err)
	}
	if err := a.store.Sync(); err != nil {
		_ = a.f.Close()
		a.f = nil
		return ioErr("close", err)
	}
	err := a.f.Close()
	a.f = nil
	trace("close: %s", a.path)
	if err != nil {
		return ioErr("close", err)
	}
	return nil
}

func validateName(op, name string) error {
	if len(name) == 0 || len(name) > MaxNameLength {
		return invalidNameErr(op, name)
	}
	return nil
}

// Put compresses data and stores it under name. If name already exists the
// insert is rejected with KindDuplicateName and the compressed payload
// becomes an orphaned, unreferenced region of the file — by design, since
// the allocator never reclaims space.
func (a *Archive) Put(name string, data []byte) error {
	if err := validateName("put", name); err != nil {
		return err
	}

	compressed, err := huffman.Encode(data)
	if err != nil {
		return ioErr("put", err)
	}

	payloadOff, err := a.alloc.Allocate(uint64(len(compressed)))
	if err != nil {
		return ioErr("put", err)
	}
	if err := a.store.WritePayload(payloadOff, compressed); err != nil {
		return classify("put", err)
	}

	entry := block.Entry{
		Kind:           block.KindFile,
		Name:           name,
		ParentLogical:  block.NullOffset,
		ChildrenRoot:   block.NullOffset,
		PayloadOffset:  payloadOff,
		OriginalSize:   uint64(len(data)),
		CompressedSize: uint64(len(compressed)),
	}

	newRoot, _, err := rbtree.Insert(a.store, a.alloc, a.sb.Root, entry)
	if err != nil {
		return classify("put", err)
	}
	a.sb.Root = newRoot
	a.refreshWatermarks()

	if err := a.store.WriteSuperblock(a.sb); err != nil {
		return classify("put", err)
	}
	trace("put: %q (%d -> %d bytes)", name, len(data), len(compressed))
	return nil
}

// Get looks up name and returns its decompressed bytes.
func (a *Archive) Get(name string) ([]byte, error) {
	if err := validateName("get", name); err != nil {
		return nil, err
	}

	_, n, err := rbtree.Search(a.store, a.sb.Root, name)
	if err != nil {
		return nil, classify("get", err)
	}

	compressed, err := a.store.ReadPayload(n.Entry.PayloadOffset, n.Entry.CompressedSize)
	if err != nil {
		return nil, classify("get", err)
	}
	data, err := huffman.Decode(compressed, n.Entry.OriginalSize)
	if err != nil {
		return nil, classify("get", err)
	}
	return data, nil
}

// Delete removes name from the index. The payload and node storage it
// occupied are not reclaimed.
func (a *Archive) Delete(name string) error {
	if err := validateName("delete", name); err != nil {
		return err
	}

	newRoot, err := rbtree.Delete(a.store, a.sb.Root, name)
	if err != nil {
		return classify("delete", err)
	}
	a.sb.Root = newRoot

	if err := a.store.WriteSuperblock(a.sb); err != nil {
		return classify("delete", err)
	}
	trace("delete: %q", name)
	return nil
}

// List invokes visit once per entry, in ascending lexicographic name order.
func (a *Archive) List(visit func(name string, originalSize, compressedSize uint64) error) error {
	return classify("list", rbtree.Walk(a.store, a.sb.Root, func(n block.Node) error {
		return visit(n.Entry.Name, n.Entry.OriginalSize, n.Entry.CompressedSize)
	}))
}

// refreshWatermarks syncs the superblock's next_free/total_size fields with
// the allocator's current end-of-file, which advances on every node or
// payload allocation regardless of which package drove it.
func (a *Archive) refreshWatermarks() {
	eof := a.alloc.EndOfFile()
	a.sb.NextFree = eof
	a.sb.TotalSize = uint64(eof)
}
