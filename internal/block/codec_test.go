package block

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuperblockRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		sb   Superblock
	}{
		{"fresh archive", Superblock{Magic: Magic, Root: NullOffset, NextFree: SuperblockSize, TotalSize: SuperblockSize}},
		{"populated archive", Superblock{Magic: Magic, Root: 512, NextFree: 4096, TotalSize: 4096}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := EncodeSuperblock(tt.sb)
			assert.Len(t, buf, SuperblockSize)

			got, err := DecodeSuperblock(buf)
			require.NoError(t, err)
			assert.Equal(t, tt.sb, got)
		})
	}
}

func TestDecodeSuperblockShortBuffer(t *testing.T) {
	_, err := DecodeSuperblock(make([]byte, SuperblockSize-1))
	assert.Error(t, err)
}

func TestNodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		n    Node
	}{
		{
			name: "root leaf",
			n: Node{
				Entry: Entry{
					Kind:           KindFile,
					Name:           "readme.txt",
					ParentLogical:  NullOffset,
					ChildrenRoot:   NullOffset,
					PayloadOffset:  128,
					OriginalSize:   42,
					CompressedSize: 30,
				},
				Color:  Black,
				Left:   NullOffset,
				Right:  NullOffset,
				Parent: NullOffset,
			},
		},
		{
			name: "internal red node",
			n: Node{
				Entry: Entry{
					Kind:           KindFile,
					Name:           "a",
					ParentLogical:  NullOffset,
					ChildrenRoot:   NullOffset,
					PayloadOffset:  1024,
					OriginalSize:   0,
					CompressedSize: 0,
				},
				Color:  Red,
				Left:   130,
				Right:  260,
				Parent: 0,
			},
		},
		{
			name: "max-length name",
			n: Node{
				Entry: Entry{
					Kind: KindFile,
					Name: strings.Repeat("n", MaxName-1),
				},
				Color:  Black,
				Left:   NullOffset,
				Right:  NullOffset,
				Parent: NullOffset,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := EncodeNode(tt.n)
			assert.Len(t, buf, NodeSize)

			got, err := DecodeNode(buf)
			require.NoError(t, err)
			assert.Equal(t, tt.n, got)
		})
	}
}

func TestDecodeNodeShortBuffer(t *testing.T) {
	_, err := DecodeNode(make([]byte, NodeSize-1))
	assert.Error(t, err)
}

func TestOffsetIsNull(t *testing.T) {
	assert.True(t, NullOffset.IsNull())
	assert.False(t, Offset(0).IsNull())
	assert.False(t, Offset(1024).IsNull())
}
