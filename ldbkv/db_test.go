package ldbkv

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	dblib "github.com/lvyitian/MiNET.LevelDB/db"
	"github.com/lvyitian/MiNET.LevelDB/internal/record"
	"github.com/lvyitian/MiNET.LevelDB/table"
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

func newFileEditPayload(level int, fileNum, size uint64, smallest, largest dblib.InternalKey) []byte {
	var buf []byte
	buf = putVarint(buf, 7) // tagNewFile
	buf = putVarint(buf, uint64(level))
	buf = putVarint(buf, fileNum)
	buf = putVarint(buf, size)
	buf = putLengthPrefixed(buf, smallest.Encode(nil))
	buf = putLengthPrefixed(buf, largest.Encode(nil))
	return buf
}

// buildFixtureDB writes a minimal, real LevelDB-format directory to dir:
// one level-0 table with known keys, a manifest naming it, and CURRENT
// pointing at that manifest — enough to exercise Open/Get end to end
// without needing a production writer, since this module only ever
// reads directories written by something else.
func buildFixtureDB(t *testing.T, dir string) {
	t.Helper()

	entries := []table.TestEntry{
		{UserKey: []byte("alpha"), SeqNum: 2, Type: dblib.Value, Value: []byte("alpha-v2")},
		{UserKey: []byte("alpha"), SeqNum: 1, Type: dblib.Value, Value: []byte("alpha-v1")},
		{UserKey: []byte("bravo"), SeqNum: 1, Type: dblib.Deletion},
	}
	tableBytes := table.BuildTable([][]table.TestEntry{entries}, 2)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000010.ldb"), tableBytes, 0o644))

	smallest := dblib.MakeInternalKey([]byte("alpha"), 1, dblib.Value)
	largest := dblib.MakeInternalKey([]byte("bravo"), 1, dblib.Deletion)

	var comparatorEdit []byte
	comparatorEdit = putVarint(comparatorEdit, 1) // tagComparator
	comparatorEdit = putLengthPrefixed(comparatorEdit, []byte(dblib.DefaultComparer.Name()))

	manifestBytes := record.WriteRecords([][]byte{
		comparatorEdit,
		newFileEditPayload(0, 10, uint64(len(tableBytes)), smallest, largest),
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MANIFEST-000001"), manifestBytes, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CURRENT"), []byte("MANIFEST-000001\n"), 0o644))
}

func TestOpenAndGetEndToEnd(t *testing.T) {
	dir := t.TempDir()
	buildFixtureDB(t, dir)

	noMMap := false
	d, err := Open(dir, &dblib.Options{UseMMap: &noMMap})
	require.NoError(t, err)
	defer d.Close()

	state, val, err := d.Get([]byte("alpha"))
	require.NoError(t, err)
	require.Equal(t, dblib.Found, state)
	require.Equal(t, []byte("alpha-v2"), val, "Get must return the newest version of a repeated key")

	state, _, err = d.Get([]byte("bravo"))
	require.NoError(t, err)
	require.Equal(t, dblib.Deleted, state)

	state, val, err = d.Get([]byte("charlie"))
	require.NoError(t, err)
	require.Equal(t, dblib.NotFound, state)
	require.Nil(t, val)
}

func TestOpenAcceptsLegacySstAlias(t *testing.T) {
	dir := t.TempDir()
	buildFixtureDB(t, dir)
	require.NoError(t, os.Rename(filepath.Join(dir, "000010.ldb"), filepath.Join(dir, "000010.sst")))

	noMMap := false
	d, err := Open(dir, &dblib.Options{UseMMap: &noMMap})
	require.NoError(t, err)
	defer d.Close()

	state, _, err := d.Get([]byte("alpha"))
	require.NoError(t, err)
	require.Equal(t, dblib.Found, state)
}

func TestOpenMissingCurrentFails(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(dir, nil)
	require.Error(t, err)
}

func TestGetRejectsEmptyKey(t *testing.T) {
	dir := t.TempDir()
	buildFixtureDB(t, dir)

	noMMap := false
	d, err := Open(dir, &dblib.Options{UseMMap: &noMMap})
	require.NoError(t, err)
	defer d.Close()

	_, _, err = d.Get(nil)
	require.ErrorIs(t, err, dblib.ErrEmptyKey)
}
