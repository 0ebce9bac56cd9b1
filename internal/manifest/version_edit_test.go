package manifest

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lvyitian/MiNET.LevelDB/db"
)

func putVarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

func putLengthPrefixed(buf []byte, b []byte) []byte {
	buf = putVarint(buf, uint64(len(b)))
	return append(buf, b...)
}

func encodeNewFileTag(buf []byte, level int, fileNum, size uint64, smallest, largest db.InternalKey) []byte {
	buf = putVarint(buf, tagNewFile)
	buf = putVarint(buf, uint64(level))
	buf = putVarint(buf, fileNum)
	buf = putVarint(buf, size)
	buf = putLengthPrefixed(buf, smallest.Encode(nil))
	buf = putLengthPrefixed(buf, largest.Encode(nil))
	return buf
}

func TestDecodeVersionEditAllTags(t *testing.T) {
	var buf []byte
	buf = putVarint(buf, tagComparator)
	buf = putLengthPrefixed(buf, []byte("leveldb.BytewiseComparator"))
	buf = putVarint(buf, tagLogNumber)
	buf = putVarint(buf, 7)
	buf = putVarint(buf, tagPrevLogNumber)
	buf = putVarint(buf, 3)
	buf = putVarint(buf, tagNextFileNumber)
	buf = putVarint(buf, 42)
	buf = putVarint(buf, tagLastSequence)
	buf = putVarint(buf, 1000)

	cpKey := db.MakeInternalKey([]byte("m"), 5, db.Value)
	buf = putVarint(buf, tagCompactPointer)
	buf = putVarint(buf, 2)
	buf = putLengthPrefixed(buf, cpKey.Encode(nil))

	buf = putVarint(buf, tagDeletedFile)
	buf = putVarint(buf, 0)
	buf = putVarint(buf, 9)

	smallest := db.MakeInternalKey([]byte("a"), 1, db.Value)
	largest := db.MakeInternalKey([]byte("z"), 1, db.Value)
	buf = encodeNewFileTag(buf, 1, 12, 2048, smallest, largest)

	ve, err := DecodeVersionEdit(buf)
	require.NoError(t, err)

	require.True(t, ve.HasComparator)
	require.Equal(t, "leveldb.BytewiseComparator", ve.ComparatorName)
	require.Equal(t, uint64(7), ve.LogNumber)
	require.Equal(t, uint64(3), ve.PrevLogNumber)
	require.Equal(t, uint64(42), ve.NextFileNumber)
	require.Equal(t, uint64(1000), ve.LastSequence)

	require.Len(t, ve.CompactPointers, 1)
	require.Equal(t, 2, ve.CompactPointers[0].Level)
	require.Equal(t, []byte("m"), ve.CompactPointers[0].Key.UserKey)

	require.Len(t, ve.DeletedFiles, 1)
	require.Equal(t, DeletedFileEntry{Level: 0, FileNumber: 9}, ve.DeletedFiles[0])

	require.Len(t, ve.NewFiles, 1)
	nf := ve.NewFiles[0]
	require.Equal(t, 1, nf.Level)
	require.Equal(t, uint64(12), nf.Meta.FileNumber)
	require.Equal(t, uint64(2048), nf.Meta.FileSize)
	require.Equal(t, []byte("a"), nf.Meta.Smallest.UserKey)
	require.Equal(t, []byte("z"), nf.Meta.Largest.UserKey)
}

func TestDecodeVersionEditUnknownTagIsCorruption(t *testing.T) {
	buf := putVarint(nil, 99)
	_, err := DecodeVersionEdit(buf)
	require.Error(t, err)
	c, ok := db.IsCorruption(err)
	require.True(t, ok)
	require.Equal(t, db.BadManifestTag, c.Kind)
}

func TestDecodeVersionEditTruncatedIsError(t *testing.T) {
	buf := putVarint(nil, tagLogNumber) // missing the varint payload
	_, err := DecodeVersionEdit(buf)
	require.Error(t, err)
}
