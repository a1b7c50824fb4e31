package rbarc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scigolib/rbarc/internal/rbtree"
)

func newTestArchive(t *testing.T) (string, *Archive) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.rba")
	require.NoError(t, Init(path))
	a, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return path, a
}

func TestInitCreatesValidSuperblock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.rba")
	require.NoError(t, Init(path))

	a, err := Open(path)
	require.NoError(t, err)
	defer a.Close()

	require.True(t, a.sb.Root.IsNull())
}

func TestOpenRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.rba")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0}, 64), 0o644))

	_, err := Open(path)
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindBadMagic, e.Kind)
}

func TestPutGetRoundTrip(t *testing.T) {
	_, a := newTestArchive(t)

	require.NoError(t, a.Put("hello.txt", []byte("world")))
	got, err := a.Get("hello.txt")
	require.NoError(t, err)
	require.Equal(t, []byte("world"), got)
	require.False(t, a.sb.Root.IsNull())
}

func TestPutDuplicateNameRejected(t *testing.T) {
	_, a := newTestArchive(t)

	require.NoError(t, a.Put("k", []byte("1")))
	err := a.Put("k", []byte("2"))
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindDuplicateName, e.Kind)

	got, err := a.Get("k")
	require.NoError(t, err)
	require.Equal(t, []byte("1"), got)
}

func TestGetNotFound(t *testing.T) {
	_, a := newTestArchive(t)
	_, err := a.Get("missing")
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindNotFound, e.Kind)
}

func TestPutInvalidName(t *testing.T) {
	_, a := newTestArchive(t)

	err := a.Put("", []byte("x"))
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindInvalidName, e.Kind)

	longName := string(bytes.Repeat([]byte{'a'}, MaxNameLength+1))
	err = a.Put(longName, []byte("x"))
	require.Error(t, err)
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindInvalidName, e.Kind)
}

func TestEmptyArchiveListsNothing(t *testing.T) {
	_, a := newTestArchive(t)
	var names []string
	require.NoError(t, a.List(func(name string, _, _ uint64) error {
		names = append(names, name)
		return nil
	}))
	require.Empty(t, names)

	_, err := a.Get("x")
	require.Error(t, err)
}

func TestRedBlackStressTenInserts(t *testing.T) {
	_, a := newTestArchive(t)

	for c := byte('a'); c <= 'j'; c++ {
		require.NoError(t, a.Put(string(c), []byte{c}))
		require.NoError(t, rbValidate(a))
	}

	var names []string
	require.NoError(t, a.List(func(name string, _, _ uint64) error {
		names = append(names, name)
		return nil
	}))
	require.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}, names)
}

func TestDeleteRebalanceSequence(t *testing.T) {
	_, a := newTestArchive(t)

	for c := byte('a'); c <= 'j'; c++ {
		require.NoError(t, a.Put(string(c), []byte{c}))
	}

	expectRemaining := func(want []string) {
		var got []string
		require.NoError(t, a.List(func(name string, _, _ uint64) error {
			got = append(got, name)
			return nil
		}))
		sort.Strings(got)
		assert.Equal(t, want, got)
	}

	require.NoError(t, a.Delete("a"))
	require.NoError(t, rbValidate(a))
	expectRemaining([]string{"b", "c", "d", "e", "f", "g", "h", "i", "j"})

	require.NoError(t, a.Delete("c"))
	require.NoError(t, rbValidate(a))
	expectRemaining([]string{"b", "d", "e", "f", "g", "h", "i", "j"})

	require.NoError(t, a.Delete("e"))
	require.NoError(t, rbValidate(a))
	expectRemaining([]string{"b", "d", "f", "g", "h", "i", "j"})
}

func TestDeleteNotFound(t *testing.T) {
	_, a := newTestArchive(t)
	err := a.Delete("nope")
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindNotFound, e.Kind)
}

func TestHostileCompressiblePattern(t *testing.T) {
	_, a := newTestArchive(t)

	data := make([]byte, 4096)
	for i := range data {
		if i%2 == 0 {
			data[i] = 0x00
		} else {
			data[i] = 0xff
		}
	}

	require.NoError(t, a.Put("pattern.bin", data))
	got, err := a.Get("pattern.bin")
	require.NoError(t, err)
	if diff := cmp.Diff(data, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCloseThenReopenPersistsSuperblock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.rba")
	require.NoError(t, Init(path))

	a, err := Open(path)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		require.NoError(t, a.Put(fmt.Sprintf("item-%02d", i), []byte(fmt.Sprintf("payload-%d", i))))
	}
	sbBeforeClose := a.sb
	require.NoError(t, a.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, sbBeforeClose, reopened.sb)

	got, err := reopened.Get("item-05")
	require.NoError(t, err)
	require.Equal(t, []byte("payload-5"), got)
}

func TestStatAndFsck(t *testing.T) {
	path, a := newTestArchive(t)
	require.NoError(t, a.Put("x", []byte("1")))
	require.NoError(t, a.Put("y", []byte("2")))
	require.NoError(t, a.Close())

	st, err := StatArchive(path)
	require.NoError(t, err)
	assert.Equal(t, 2, st.EntryCount)

	report, err := Fsck(path)
	require.NoError(t, err)
	assert.True(t, report.OK(), "unexpected violations: %v", report.Violations)

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
}

func rbValidate(a *Archive) error {
	return rbtree.ValidateInvariants(a.store, a.sb.Root)
}
