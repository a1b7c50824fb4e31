// Package alloc implements the archive's space allocator: a single
// append-only watermark shared by both the red-black tree's node records and
// file payloads. There is no free list and no reuse — once a region is
// handed out it is never reclaimed, even when the name it backed is later
// deleted.
package alloc

import (
	"fmt"
	"sort"

	"github.com/scigolib/rbarc/internal/block"
	"github.com/scigolib/rbarc/internal/utils"
)

// AllocatedBlock tracks one allocated region, kept only for in-process
// bookkeeping (Blocks, IsAllocated, ValidateNoOverlaps); it is never
// persisted — the only durable allocator state is the superblock's
// next_free watermark.
type AllocatedBlock struct {
	Offset block.Offset
	Size   uint64
}

// Allocator hands out non-overlapping regions at the end of the file.
//
// Thread safety: not safe for concurrent use, matching the archive's
// single-writer model.
type Allocator struct {
	blocks     []AllocatedBlock
	nextOffset block.Offset
}

// New creates an allocator seeded at initialOffset — normally the
// superblock's persisted next_free field when reopening an archive, or
// block.SuperblockSize when initializing one.
func New(initialOffset block.Offset) *Allocator {
	return &Allocator{
		blocks:     make([]AllocatedBlock, 0, 16),
		nextOffset: initialOffset,
	}
}

// Allocate reserves size bytes at the current end-of-file watermark and
// advances it.
func (a *Allocator) Allocate(size uint64) (block.Offset, error) {
	if size == 0 {
		return block.NullOffset, fmt.Errorf("alloc: cannot allocate zero bytes")
	}

	addr := a.nextOffset
	next, err := utils.SafeAdd(uint64(addr), size)
	if err != nil {
		return block.NullOffset, fmt.Errorf("alloc: %w", err)
	}

	a.blocks = append(a.blocks, AllocatedBlock{Offset: addr, Size: size})
	a.nextOffset = block.Offset(next)

	return addr, nil
}

// EndOfFile returns the current watermark — the value that must be
// persisted as the superblock's next_free field after every allocation.
func (a *Allocator) EndOfFile() block.Offset {
	return a.nextOffset
}

// IsAllocated reports whether [offset, offset+size) overlaps any block this
// allocator instance has handed out during the current session.
func (a *Allocator) IsAllocated(offset block.Offset, size uint64) bool {
	if size == 0 {
		return false
	}
	rangeEnd := offset + block.Offset(size)

	for _, b := range a.blocks {
		blockEnd := b.Offset + block.Offset(b.Size)
		if offset < blockEnd && b.Offset < rangeEnd {
			return true
		}
	}
	return false
}

// Blocks returns a copy of all blocks allocated this session, sorted by
// offset.
func (a *Allocator) Blocks() []AllocatedBlock {
	blocks := make([]AllocatedBlock, len(a.blocks))
	copy(blocks, a.blocks)
	sort.Slice(blocks, func(i, j int) bool {
		return blocks[i].Offset < blocks[j].Offset
	})
	return blocks
}

// ValidateNoOverlaps checks that no blocks allocated this session overlap —
// a sanity check on the allocator's own bookkeeping, not on the whole file.
// The archive's Fsck does not call it; it runs its own payload-range check.
func (a *Allocator) ValidateNoOverlaps() error {
	blocks := a.Blocks()

	for i := 0; i < len(blocks)-1; i++ {
		current := blocks[i]
		next := blocks[i+1]
		currentEnd := current.Offset + block.Offset(current.Size)

		if currentEnd > next.Offset {
			return fmt.Errorf("alloc: overlap detected: block at %d (size %d) overlaps block at %d",
				current.Offset, current.Size, next.Offset)
		}
	}
	return nil
}
