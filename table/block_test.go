package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lvyitian/MiNET.LevelDB/db"
)

func buildEntries() []TestEntry {
	return []TestEntry{
		{UserKey: []byte("apple"), SeqNum: 1, Type: db.Value, Value: []byte("fruit")},
		{UserKey: []byte("banana"), SeqNum: 2, Type: db.Deletion, Value: nil},
		{UserKey: []byte("banana"), SeqNum: 1, Type: db.Value, Value: []byte("also-fruit")},
		{UserKey: []byte("cherry"), SeqNum: 1, Type: db.Value, Value: []byte("small-fruit")},
	}
}

// TestBlockSeekWithPrefixCompression exercises §4.G's entry encoding
// round trip: entries sharing a user-key prefix are encoded with a
// shared-byte count, then reassembled during seek.
func TestBlockSeekWithPrefixCompression(t *testing.T) {
	for _, restartInterval := range []int{1, 2, 4} {
		raw := encodeDataBlock(buildEntries(), restartInterval)
		b := block(raw)
		cmp := db.DefaultComparer

		target := db.SeekKey([]byte("banana")).Encode(nil)
		key, val, found, err := seek(b, cmp, target)
		require.NoError(t, err)
		require.True(t, found)

		ik := db.DecodeInternalKey(key)
		require.Equal(t, []byte("banana"), ik.UserKey)
		require.Equal(t, uint64(2), ik.SeqNum(), "seek must land on the newest version first")
		require.Equal(t, db.Deletion, ik.ValueType())
		require.Empty(t, val)
	}
}

func TestBlockSeekPastEndOfBlockIsNotFound(t *testing.T) {
	raw := encodeDataBlock(buildEntries(), 2)
	b := block(raw)
	target := db.SeekKey([]byte("zzzzz")).Encode(nil)

	_, _, found, err := seek(b, db.DefaultComparer, target)
	require.NoError(t, err)
	require.False(t, found)
}

func TestBlockSeekFindsNextGreaterKeyWhenExactMissing(t *testing.T) {
	raw := encodeDataBlock(buildEntries(), 1)
	b := block(raw)
	// "avocado" sorts between apple and banana; seek must return banana.
	target := db.SeekKey([]byte("avocado")).Encode(nil)

	key, _, found, err := seek(b, db.DefaultComparer, target)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("banana"), db.DecodeInternalKey(key).UserKey)
}

func TestRestartsRejectsEmptyBlock(t *testing.T) {
	b := block(make([]byte, 4)) // numRestarts == 0
	_, _, err := b.restarts()
	require.Error(t, err)
	c, ok := db.IsCorruption(err)
	require.True(t, ok)
	require.Equal(t, db.BadRestart, c.Kind)
}
