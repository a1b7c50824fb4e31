package rbarc

import (
	"fmt"

	"github.com/scigolib/rbarc/internal/block"
	"github.com/scigolib/rbarc/internal/rbtree"
)

// Stat is a read-only summary of an archive, computed without mutating it.
type Stat struct {
	EntryCount int
	Root       block.Offset
	NextFree   block.Offset
	TotalSize  uint64
	FileSize   int64
}

// StatArchive opens the archive at path just long enough to summarize it.
// It changes no entry; closing the handle writes the superblock back with
// the values it was read with.
func StatArchive(path string) (Stat, error) {
	a, err := Open(path)
	if err != nil {
		return Stat{}, err
	}
	defer func() { _ = a.Close() }()

	var count int
	if err := rbtree.Walk(a.store, a.sb.Root, func(block.Node) error {
		count++
		return nil
	}); err != nil {
		return Stat{}, classify("stat", err)
	}

	fi, err := a.f.Stat()
	if err != nil {
		return Stat{}, ioErr("stat", err)
	}

	return Stat{
		EntryCount: count,
		Root:       a.sb.Root,
		NextFree:   a.sb.NextFree,
		TotalSize:  a.sb.TotalSize,
		FileSize:   fi.Size(),
	}, nil
}

// FsckReport lists the invariant violations Fsck found, if any.
type FsckReport struct {
	Violations []string
}

// OK reports whether the archive passed every check.
func (r FsckReport) OK() bool { return len(r.Violations) == 0 }

// Fsck checks an existing archive against the on-disk format's invariants
// without repairing anything — repair is out of scope, the allocator never
// reclaims space regardless of what fsck finds.
//
// It checks the magic (through Open), the red-black and name-ordering
// properties of the tree, next_free <= total_size <= file length, that the
// reserved directory fields are null, that each payload starts before
// next_free, and that no two payload ranges overlap. It does not check
// parent links against child links, payload ranges against tree-node
// records, or that stored offsets lie past the superblock.
func Fsck(path string) (FsckReport, error) {
	a, err := Open(path)
	if err != nil {
		return FsckReport{}, err
	}
	defer func() { _ = a.Close() }()

	var report FsckReport

	if err := rbtree.ValidateInvariants(a.store, a.sb.Root); err != nil {
		report.Violations = append(report.Violations, err.Error())
	}

	fi, err := a.f.Stat()
	if err != nil {
		return FsckReport{}, ioErr("fsck", err)
	}
	if uint64(a.sb.NextFree) > a.sb.TotalSize {
		report.Violations = append(report.Violations, fmt.Sprintf("next_free %d exceeds total_size %d", a.sb.NextFree, a.sb.TotalSize))
	}
	if a.sb.TotalSize > uint64(fi.Size()) {
		report.Violations = append(report.Violations, fmt.Sprintf("total_size %d exceeds on-disk file length %d", a.sb.TotalSize, fi.Size()))
	}

	var payloadRanges [][2]uint64
	walkErr := rbtree.Walk(a.store, a.sb.Root, func(n block.Node) error {
		if !n.Entry.ParentLogical.IsNull() || !n.Entry.ChildrenRoot.IsNull() {
			report.Violations = append(report.Violations,
				fmt.Sprintf("entry %q carries a non-null reserved directory field", n.Entry.Name))
		}
		if n.Entry.PayloadOffset >= a.sb.NextFree {
			report.Violations = append(report.Violations,
				fmt.Sprintf("entry %q payload offset %d is not before next_free %d", n.Entry.Name, n.Entry.PayloadOffset, a.sb.NextFree))
		}
		payloadRanges = append(payloadRanges, [2]uint64{uint64(n.Entry.PayloadOffset), n.Entry.CompressedSize})
		return nil
	})
	if walkErr != nil {
		report.Violations = append(report.Violations, walkErr.Error())
	}

	for i := 0; i < len(payloadRanges); i++ {
		for j := i + 1; j < len(payloadRanges); j++ {
			a1, l1 := payloadRanges[i][0], payloadRanges[i][1]
			a2, l2 := payloadRanges[j][0], payloadRanges[j][1]
			if a1 < a2+l2 && a2 < a1+l1 {
				report.Violations = append(report.Violations, fmt.Sprintf("payload ranges overlap: [%d,%d) and [%d,%d)", a1, a1+l1, a2, a2+l2))
			}
		}
	}

	return report, nil
}
