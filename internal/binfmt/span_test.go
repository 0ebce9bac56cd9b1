package binfmt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lvyitian/MiNET.LevelDB/db"
)

func TestReaderFixedWidthFields(t *testing.T) {
	r := NewReader([]byte{0x2a, 0x01, 0x02, 0x03, 0x04, 0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01})

	b, err := r.ReadU8()
	require.NoError(t, err)
	require.Equal(t, byte(0x2a), b)

	u32, err := r.ReadU32LE()
	require.NoError(t, err)
	require.Equal(t, uint32(0x04030201), u32)

	u64, err := r.ReadU64LE()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), u64)

	require.True(t, r.EOF())
}

func TestReaderVarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 1 << 20, 1<<56 - 1, ^uint64(0)}
	var buf []byte
	for _, v := range values {
		buf = putUvarintForTest(buf, v)
	}
	r := NewReader(buf)
	for _, want := range values {
		got, err := r.ReadVarint()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	require.True(t, r.EOF())
}

func putUvarintForTest(buf []byte, v uint64) []byte {
	var tmp [10]byte
	n := 0
	for v >= 0x80 {
		tmp[n] = byte(v) | 0x80
		v >>= 7
		n++
	}
	tmp[n] = byte(v)
	n++
	return append(buf, tmp[:n]...)
}

func TestReaderLengthPrefixedBytesDoesNotCopy(t *testing.T) {
	data := append([]byte{3}, []byte("abc")...)
	r := NewReader(data)
	got, err := r.ReadLengthPrefixedBytes()
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), got)
	require.True(t, r.EOF())
}

func TestReaderOverReadIsCorruption(t *testing.T) {
	r := NewReader([]byte{1, 2})
	_, err := r.ReadU32LE()
	require.Error(t, err)
	_, ok := db.IsCorruption(err)
	require.True(t, ok)
}

func TestReaderMalformedVarintIsCorruption(t *testing.T) {
	r := NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80})
	_, err := r.ReadVarint()
	require.Error(t, err)
	c, ok := db.IsCorruption(err)
	require.True(t, ok)
	require.Equal(t, db.BadVarint, c.Kind)
}

func TestReadRawAdvancesIndependentlyOfLengthPrefix(t *testing.T) {
	r := NewReader([]byte("hello world"))
	first, err := r.ReadRaw(5)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), first)
	require.Equal(t, 5, r.Pos())

	require.NoError(t, r.Skip(1))
	rest, err := r.ReadRaw(5)
	require.NoError(t, err)
	require.Equal(t, []byte("world"), rest)
}
