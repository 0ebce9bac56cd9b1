// Package table implements the SSTable ("*.ldb") reader: footer,
// index block, and data block decoding, and the Get(user_key)
// operation (§4.G). It is the direct descendant of the retrieval
// pack's bmwan-leveldb/leveldb/table/reader.go — the same blockHandle/
// block.seek/blockIter shape, ported off that file's archaic
// os.Error/leveldb-go.googlecode.com import paths onto modern Go and
// generalized from the single-level Reader.Get there into the
// footer-validated, checksum-verified, multi-compression reader
// spec.md §4.G calls for.
package table

import (
	"encoding/binary"

	"github.com/lvyitian/MiNET.LevelDB/db"
	"github.com/lvyitian/MiNET.LevelDB/internal/crc32c"
)

const (
	// footerLen is the fixed size of the trailing footer: two block
	// handles (up to 20 bytes each, zero-padded) plus an 8-byte magic.
	footerLen = 48
	// blockTrailerLen is the 1-byte compression type plus 4-byte masked
	// CRC32C appended after every on-disk block.
	blockTrailerLen = 5
	// magic is the fixed byte pattern at the end of every table file,
	// stored little-endian (§6).
	magic uint64 = 0xdb4775248b80fb57
)

// Reader is a table reader: it owns the underlying file, the decoded
// index block, and the comparator/options used to interpret block
// contents. A Reader answers Get by locating the relevant data block
// through the index, then scanning that block's restart-coded entries
// (§4.G "Get(user_key)").
type Reader struct {
	file            File
	fileNumber      uint64
	index           block
	cmp             db.Comparer
	verifyChecksums bool
}

// Open parses the footer of f, reads its index block, and returns a
// Reader ready to answer Get calls. fileNumber is retained only for
// diagnostics and cache-key logging; it plays no role in decoding.
func Open(f File, fileNumber uint64, opts *db.Options) (*Reader, error) {
	size := f.Size()
	if size < footerLen {
		return nil, db.NewCorruption(db.BadTableMagic, "file size %d is smaller than the footer", size)
	}

	var footer [footerLen]byte
	if _, err := f.ReadAt(footer[:], size-footerLen); err != nil {
		return nil, err
	}
	gotMagic := binary.LittleEndian.Uint64(footer[footerLen-8:])
	if gotMagic != magic {
		return nil, db.NewCorruption(db.BadTableMagic, "footer magic %#x does not match %#x", gotMagic, magic)
	}

	// The metaindex handle is first in the footer; this read path has
	// no metaindex consumer (no filter policy, no properties block), so
	// it is decoded only to find where the index handle starts.
	_, n, err := decodeBlockHandle(footer[:])
	if err != nil {
		return nil, db.NewCorruption(db.BadTableMagic, "bad metaindex block handle: %v", err)
	}
	indexHandle, _, err := decodeBlockHandle(footer[n:])
	if err != nil {
		return nil, db.NewCorruption(db.BadTableMagic, "bad index block handle: %v", err)
	}

	r := &Reader{
		file:            f,
		fileNumber:      fileNumber,
		cmp:             opts.GetComparer(),
		verifyChecksums: opts.GetVerifyChecksums(),
	}
	r.index, err = r.readBlock(indexHandle)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// FileNumber returns the numbered identity of the table file this
// reader was opened from: the same number package ldbkv keys its
// reader cache by.
func (r *Reader) FileNumber() uint64 { return r.fileNumber }

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// readBlock reads, checksum-verifies, and decompresses the block named
// by bh (§4.G "Block format").
func (r *Reader) readBlock(bh blockHandle) (block, error) {
	raw := make([]byte, bh.size+blockTrailerLen)
	if _, err := r.file.ReadAt(raw, int64(bh.offset)); err != nil {
		return nil, err
	}
	if r.verifyChecksums {
		wantChecksum := binary.LittleEndian.Uint32(raw[bh.size+1:])
		gotChecksum := crc32c.Mask(crc32c.Checksum(raw[:bh.size+1]))
		if gotChecksum != wantChecksum {
			return nil, db.NewCorruption(db.BadBlockChecksum, "block at offset %d: checksum mismatch", bh.offset)
		}
	}
	compressionType := raw[bh.size]
	decoded, err := decompress(compressionType, raw[:bh.size])
	if err != nil {
		return nil, err
	}
	return block(decoded), nil
}

// Get answers a point lookup within this one table (§4.G "Get(user_key)"):
//
//  1. build the probe internal key that sorts before every real entry
//     sharing userKey;
//  2. binary search the index for the data block that might hold it;
//  3. binary search and linearly scan that data block;
//  4. report Found/Deleted/NotFound based on the matched entry's value
//     type, or NotFound if the scan lands on a different user key.
func (r *Reader) Get(userKey []byte) (db.GetState, []byte, error) {
	probe := db.SeekKey(userKey).Encode(nil)

	_, handleBytes, found, err := seek(r.index, r.cmp, probe)
	if err != nil {
		return db.NotFound, nil, err
	}
	if !found {
		return db.NotFound, nil, nil
	}
	handle, n, err := decodeBlockHandle(handleBytes)
	if err != nil || n != len(handleBytes) {
		return db.NotFound, nil, db.NewCorruption(db.BadRestart, "corrupt index entry")
	}

	dataBlock, err := r.readBlock(handle)
	if err != nil {
		return db.NotFound, nil, err
	}

	entryKey, value, found, err := seek(dataBlock, r.cmp, probe)
	if err != nil {
		return db.NotFound, nil, err
	}
	if !found {
		return db.NotFound, nil, nil
	}

	ik := db.DecodeInternalKey(entryKey)
	if r.cmp.Compare(ik.UserKey, userKey) != 0 {
		return db.NotFound, nil, nil
	}
	switch ik.ValueType() {
	case db.Value:
		return db.Found, value, nil
	case db.Deletion:
		return db.Deleted, nil, nil
	default:
		return db.NotFound, nil, db.NewCorruption(db.BadRestart, "entry has unrecognized value type %d", ik.Trailer()&0xff)
	}
}
