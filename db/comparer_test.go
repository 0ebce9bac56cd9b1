package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytewiseComparerOrdersShorterPrefixFirst(t *testing.T) {
	cmp := BytewiseComparer{}
	require.Less(t, cmp.Compare([]byte("ab"), []byte("abc")), 0)
	require.Greater(t, cmp.Compare([]byte("abc"), []byte("ab")), 0)
	require.Equal(t, 0, cmp.Compare([]byte("abc"), []byte("abc")))
	require.Less(t, cmp.Compare([]byte("abc"), []byte("abd")), 0)
}

func TestDefaultComparerName(t *testing.T) {
	require.Equal(t, "leveldb.BytewiseComparator", DefaultComparer.Name())
}
