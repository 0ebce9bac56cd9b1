package table

import (
	"encoding/binary"

	"github.com/lvyitian/MiNET.LevelDB/db"
	"github.com/lvyitian/MiNET.LevelDB/internal/crc32c"
)

// TestEntry is one (user key, sequence number, value type, value) tuple
// used by BuildTable to synthesize an in-memory table file. It exists
// so that both this package's own tests and higher-level packages
// (ldbkv) can exercise the real footer/index/data-block decode path
// against a table whose contents are known up front, the way the
// teacher's sstable package builds disposable test tables from an
// in-memory word list rather than shipping prebuilt binary fixtures.
type TestEntry struct {
	UserKey []byte
	SeqNum  uint64
	Type    db.ValueType
	Value   []byte
}

func (e TestEntry) internalKey() db.InternalKey {
	return db.MakeInternalKey(e.UserKey, e.SeqNum, e.Type)
}

func putUvarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

// encodeDataBlock restart-codes entries (already sorted by internal key,
// ascending) with one restart point every restartInterval entries, and
// appends the trailing restart-offset array and count (§4.G "Block
// format"). restartInterval must be >= 1; pass 1 to disable prefix
// compression entirely, or a larger value to exercise it.
func encodeDataBlock(entries []TestEntry, restartInterval int) []byte {
	if restartInterval < 1 {
		restartInterval = 1
	}
	var buf []byte
	var restarts []uint32
	var prevKey []byte

	for i, e := range entries {
		key := e.internalKey().Encode(nil)

		shared := 0
		if i%restartInterval != 0 {
			shared = commonPrefixLen(prevKey, key)
		} else {
			restarts = append(restarts, uint32(len(buf)))
		}

		buf = putUvarint(buf, uint64(shared))
		buf = putUvarint(buf, uint64(len(key)-shared))
		buf = putUvarint(buf, uint64(len(e.Value)))
		buf = append(buf, key[shared:]...)
		buf = append(buf, e.Value...)

		prevKey = key
	}

	for _, r := range restarts {
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], r)
		buf = append(buf, tmp[:]...)
	}
	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], uint32(len(restarts)))
	buf = append(buf, count[:]...)
	return buf
}

func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func appendBlockWithTrailer(dst []byte, raw []byte) (out []byte, handle blockHandle) {
	handle = blockHandle{offset: uint64(len(dst)), size: uint64(len(raw))}
	dst = append(dst, raw...)
	dst = append(dst, noCompression)
	crc := crc32c.Mask(crc32c.Checksum(dst[len(dst)-len(raw)-1:]))
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], crc)
	dst = append(dst, tmp[:]...)
	return dst, handle
}

func encodeBlockHandle(buf []byte, bh blockHandle) []byte {
	buf = putUvarint(buf, bh.offset)
	buf = putUvarint(buf, bh.size)
	return buf
}

// BuildTable synthesizes a complete, footer-valid, uncompressed table
// file from one or more groups of entries, each group becoming its own
// data block. Every group's entries must already be sorted in
// ascending internal-key order, and the groups themselves must be
// ordered so that every key in group i is less than every key in group
// i+1. restartInterval controls prefix-compression density within each
// data block (§4.G "Entry encoding inside the restart region"); pass 1
// to restart on every entry.
func BuildTable(groups [][]TestEntry, restartInterval int) []byte {
	var file []byte
	var indexEntries []TestEntry

	for _, g := range groups {
		raw := encodeDataBlock(g, restartInterval)
		var handle blockHandle
		file, handle = appendBlockWithTrailer(file, raw)

		handleBytes := encodeBlockHandle(nil, handle)
		last := g[len(g)-1]
		indexEntries = append(indexEntries, TestEntry{
			UserKey: last.internalKey().Encode(nil),
			SeqNum:  0,
			Type:    db.Value,
			Value:   handleBytes,
		})
	}

	// The index block's "keys" are already-encoded internal keys (the
	// largest in each data block), not user keys further wrapped in
	// another internal-key trailer, so it is built directly rather
	// than through encodeDataBlock's TestEntry.internalKey() path.
	indexRaw := encodeIndexBlock(indexEntries, restartInterval)
	var indexHandle blockHandle
	file, indexHandle = appendBlockWithTrailer(file, indexRaw)

	// No metaindex consumer exists in this read path (§4.G); an empty
	// block still needs a valid handle so the footer decodes cleanly.
	var metaHandle blockHandle
	file, metaHandle = appendBlockWithTrailer(file, encodeDataBlock(nil, 1))

	footer := make([]byte, 0, footerLen)
	footer = encodeBlockHandle(footer, metaHandle)
	footer = encodeBlockHandle(footer, indexHandle)
	footer = append(footer, make([]byte, footerLen-len(footer)-8)...)
	var magicBuf [8]byte
	binary.LittleEndian.PutUint64(magicBuf[:], magic)
	footer = append(footer, magicBuf[:]...)

	file = append(file, footer...)
	return file
}

// encodeIndexBlock is encodeDataBlock specialized for entries whose
// UserKey field already holds the full encoded key (an internal key
// for a data block's largest entry), so no further internal-key
// wrapping is applied.
func encodeIndexBlock(entries []TestEntry, restartInterval int) []byte {
	if restartInterval < 1 {
		restartInterval = 1
	}
	var buf []byte
	var restarts []uint32
	var prevKey []byte

	for i, e := range entries {
		key := e.UserKey

		shared := 0
		if i%restartInterval != 0 {
			shared = commonPrefixLen(prevKey, key)
		} else {
			restarts = append(restarts, uint32(len(buf)))
		}

		buf = putUvarint(buf, uint64(shared))
		buf = putUvarint(buf, uint64(len(key)-shared))
		buf = putUvarint(buf, uint64(len(e.Value)))
		buf = append(buf, key[shared:]...)
		buf = append(buf, e.Value...)

		prevKey = key
	}

	for _, r := range restarts {
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], r)
		buf = append(buf, tmp[:]...)
	}
	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], uint32(len(restarts)))
	buf = append(buf, count[:]...)
	return buf
}

// memFile is an in-memory File implementation for tests that would
// otherwise need a temp directory just to exercise the reader.
type memFile struct {
	data []byte
}

// NewMemFile wraps data as a File without touching the filesystem.
func NewMemFile(data []byte) File {
	return &memFile{data: data}
}

func (m *memFile) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(m.data)) {
		return 0, errOutOfRange
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, errOutOfRange
	}
	return n, nil
}

func (m *memFile) Size() int64  { return int64(len(m.data)) }
func (m *memFile) Close() error { return nil }

var errOutOfRange = db.NewCorruption(db.TruncatedBlock, "read past end of in-memory file")
