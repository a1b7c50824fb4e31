package rbtree

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/rbarc/internal/alloc"
	"github.com/scigolib/rbarc/internal/block"
)

func newTestStore(t *testing.T) (*block.Store, *alloc.Allocator) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.rba")
	f, err := os.Create(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return block.Open(f), alloc.New(block.SuperblockSize)
}

func entryFor(name string) block.Entry {
	return block.Entry{
		Kind:          block.KindFile,
		Name:          name,
		ParentLogical: block.NullOffset,
		ChildrenRoot:  block.NullOffset,
		PayloadOffset: block.NullOffset,
	}
}

func TestInsertSearchSingle(t *testing.T) {
	s, a := newTestStore(t)

	root, off, err := Insert(s, a, block.NullOffset, entryFor("readme.txt"))
	require.NoError(t, err)
	require.Equal(t, root, off)

	gotOff, n, err := Search(s, root, "readme.txt")
	require.NoError(t, err)
	require.Equal(t, off, gotOff)
	require.Equal(t, "readme.txt", n.Entry.Name)
}

func TestInsertDuplicateName(t *testing.T) {
	s, a := newTestStore(t)
	root, _, err := Insert(s, a, block.NullOffset, entryFor("a"))
	require.NoError(t, err)

	_, _, err = Insert(s, a, root, entryFor("a"))
	require.ErrorIs(t, err, ErrDuplicateName)
}

func TestSearchNotFound(t *testing.T) {
	s, a := newTestStore(t)
	root, _, err := Insert(s, a, block.NullOffset, entryFor("a"))
	require.NoError(t, err)

	_, _, err = Search(s, root, "z")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestInsertManyMaintainsInvariants(t *testing.T) {
	s, a := newTestStore(t)
	root := block.NullOffset

	names := []string{}
	for i := 0; i < 200; i++ {
		names = append(names, fmt.Sprintf("file-%04d", (i*37+11)%200))
	}

	var err error
	for _, name := range names {
		root, _, err = Insert(s, a, root, entryFor(name))
		if err == ErrDuplicateName {
			continue
		}
		require.NoError(t, err)
		require.NoError(t, ValidateInvariants(s, root))
	}

	var walked []string
	require.NoError(t, Walk(s, root, func(n block.Node) error {
		walked = append(walked, n.Entry.Name)
		return nil
	}))
	require.True(t, sort.StringsAreSorted(walked))
}

func TestDeleteLeaf(t *testing.T) {
	s, a := newTestStore(t)
	root := block.NullOffset
	var err error
	for _, name := range []string{"b", "a", "c"} {
		root, _, err = Insert(s, a, root, entryFor(name))
		require.NoError(t, err)
	}

	root, err = Delete(s, root, "a")
	require.NoError(t, err)
	require.NoError(t, ValidateInvariants(s, root))

	_, _, err = Search(s, root, "a")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteNotFound(t *testing.T) {
	s, a := newTestStore(t)
	root, _, err := Insert(s, a, block.NullOffset, entryFor("a"))
	require.NoError(t, err)

	_, err = Delete(s, root, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAllMaintainsInvariants(t *testing.T) {
	s, a := newTestStore(t)
	root := block.NullOffset

	var names []string
	for i := 0; i < 64; i++ {
		names = append(names, fmt.Sprintf("k%03d", (i*29+3)%64))
	}

	var err error
	for _, name := range names {
		root, _, err = Insert(s, a, root, entryFor(name))
		if err == ErrDuplicateName {
			continue
		}
		require.NoError(t, err)
	}
	require.NoError(t, ValidateInvariants(s, root))

	var remaining []string
	require.NoError(t, Walk(s, root, func(n block.Node) error {
		remaining = append(remaining, n.Entry.Name)
		return nil
	}))

	for _, name := range remaining {
		root, err = Delete(s, root, name)
		require.NoError(t, err)
		require.NoError(t, ValidateInvariants(s, root))
	}
	require.True(t, root.IsNull())
}

func TestWalkEmptyTree(t *testing.T) {
	s, _ := newTestStore(t)
	var count int
	require.NoError(t, Walk(s, block.NullOffset, func(block.Node) error {
		count++
		return nil
	}))
	require.Zero(t, count)
}
