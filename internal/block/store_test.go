package block

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.rba")
	f, err := os.Create(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return Open(f)
}

func TestStoreSuperblockRoundTrip(t *testing.T) {
	s := openTestStore(t)

	sb := Superblock{Magic: Magic, Root: NullOffset, NextFree: SuperblockSize, TotalSize: SuperblockSize}
	require.NoError(t, s.WriteSuperblock(sb))

	got, err := s.ReadSuperblock()
	require.NoError(t, err)
	require.Equal(t, sb, got)
}

func TestStoreReadSuperblockBadMagic(t *testing.T) {
	s := openTestStore(t)

	sb := Superblock{Magic: 0xdeadbeef, Root: NullOffset, NextFree: SuperblockSize, TotalSize: SuperblockSize}
	require.NoError(t, s.WriteSuperblock(sb))

	_, err := s.ReadSuperblock()
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestStoreNodeRoundTrip(t *testing.T) {
	s := openTestStore(t)

	n := Node{
		Entry: Entry{
			Kind:           KindFile,
			Name:           "notes.md",
			ParentLogical:  NullOffset,
			ChildrenRoot:   NullOffset,
			PayloadOffset:  SuperblockSize,
			OriginalSize:   10,
			CompressedSize: 6,
		},
		Color:  Black,
		Left:   NullOffset,
		Right:  NullOffset,
		Parent: NullOffset,
	}

	off := Offset(SuperblockSize)
	require.NoError(t, s.AppendNode(off, n))

	got, err := s.ReadNode(off)
	require.NoError(t, err)
	require.Equal(t, n, got)

	n.Color = Red
	n.Left = off + NodeSize
	require.NoError(t, s.WriteNode(off, n))

	got, err = s.ReadNode(off)
	require.NoError(t, err)
	require.Equal(t, n, got)
}

func TestStoreReadNodeNullOffset(t *testing.T) {
	s := openTestStore(t)
	_, err := s.ReadNode(NullOffset)
	require.Error(t, err)
}

func TestStorePayloadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	data := []byte("the quick brown fox jumps over the lazy dog")
	off := Offset(4096)
	require.NoError(t, s.WritePayload(off, data))

	got, err := s.ReadPayload(off, uint64(len(data)))
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestStoreReadPayloadPastEOF(t *testing.T) {
	s := openTestStore(t)
	_, err := s.ReadPayload(4096, 16)
	require.Error(t, err)
}
