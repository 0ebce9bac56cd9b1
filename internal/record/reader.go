// Package record implements the block-framed record stream shared by
// the MANIFEST descriptor log and the write-ahead log (§4.D). The file
// is a concatenation of 32 KiB blocks; each record is one or more
// chunks, each carrying a masked CRC32C over its type byte and
// payload. Reassembly concatenates a First chunk, zero or more Middle
// chunks, and a terminating Last chunk; a Full chunk is a complete
// record on its own.
//
// Grounded on the golang/leveldb record package lineage as carried by
// this module's retrieval pack (the W&B fork's leveldb/record.go),
// stripped of the fork's custom file header and rewritten to return
// whole reassembled record payloads rather than per-record io.Readers.
package record

import (
	"encoding/binary"
	"io"

	"github.com/lvyitian/MiNET.LevelDB/db"
	"github.com/lvyitian/MiNET.LevelDB/internal/crc32c"
)

const (
	blockSize  = 32 * 1024
	headerSize = 7
)

type chunkType byte

// These constants are part of the on-disk format and must not change.
const (
	fullChunkType   chunkType = 1
	firstChunkType  chunkType = 2
	middleChunkType chunkType = 3
	lastChunkType   chunkType = 4
)

// Reader reassembles user records from a block-framed chunk stream.
// Neither Reader nor the records it yields are safe for concurrent use.
type Reader struct {
	r               io.Reader
	buf             [blockSize]byte
	n               int // valid bytes currently in buf
	off             int // offset of the next unread chunk header in buf
	verifyChecksums bool
	done            bool
}

// NewReader wraps r for record-at-a-time reading. When verifyChecksums
// is true (the normal case), a masked-CRC mismatch on any chunk is
// reported as a Corruption rather than silently accepted.
func NewReader(r io.Reader, verifyChecksums bool) *Reader {
	return &Reader{r: r, verifyChecksums: verifyChecksums}
}

// Next returns the payload of the next user record, or io.EOF once the
// stream is exhausted. A record left incomplete at end of file (a
// First/Middle with no following Last) is reported as a Corruption,
// not io.EOF, since appending more bytes cannot retroactively fix a
// file that is supposed to already be closed.
func (r *Reader) Next() ([]byte, error) {
	if r.done {
		return nil, io.EOF
	}
	var payload []byte
	inRecord := false
	for {
		typ, chunk, err := r.readChunk()
		if err != nil {
			if err == io.EOF {
				r.done = true
				if inRecord {
					return nil, db.NewCorruption(db.TruncatedRecord, "record truncated: missing Last chunk")
				}
				return nil, io.EOF
			}
			return nil, err
		}
		switch typ {
		case fullChunkType:
			if inRecord {
				return nil, db.NewCorruption(db.UnexpectedContinuation, "Full chunk encountered mid-record")
			}
			return append([]byte(nil), chunk...), nil

		case firstChunkType:
			if inRecord {
				return nil, db.NewCorruption(db.UnexpectedContinuation, "First chunk before a prior record's Last")
			}
			payload = append([]byte(nil), chunk...)
			inRecord = true

		case middleChunkType:
			if !inRecord {
				return nil, db.NewCorruption(db.UnexpectedContinuation, "Middle chunk with no preceding First")
			}
			payload = append(payload, chunk...)

		case lastChunkType:
			if !inRecord {
				return nil, db.NewCorruption(db.UnexpectedContinuation, "Last chunk with no preceding First")
			}
			payload = append(payload, chunk...)
			return payload, nil
		}
	}
}

// readChunk returns the next chunk's type and payload (a sub-span of
// r.buf, valid only until the next call), skipping zeroed block-tail
// padding and crossing block boundaries transparently.
func (r *Reader) readChunk() (chunkType, []byte, error) {
	for {
		if r.off >= r.n {
			if err := r.fillBlock(); err != nil {
				return 0, nil, err
			}
			continue
		}
		if r.off+headerSize > r.n {
			for _, b := range r.buf[r.off:r.n] {
				if b != 0 {
					return 0, nil, db.NewCorruption(db.BadHeader, "non-zero padding at block tail, offset %d", r.off)
				}
			}
			if err := r.fillBlock(); err != nil {
				return 0, nil, err
			}
			continue
		}

		checksumField := binary.LittleEndian.Uint32(r.buf[r.off:])
		length := binary.LittleEndian.Uint16(r.buf[r.off+4:])
		typ := chunkType(r.buf[r.off+6])

		if checksumField == 0 && length == 0 && typ == 0 {
			// Zero header at block tail: the padding marker (§4.D).
			if err := r.fillBlock(); err != nil {
				return 0, nil, err
			}
			continue
		}
		if typ < fullChunkType || typ > lastChunkType {
			return 0, nil, db.NewCorruption(db.BadRecordType, "unknown chunk type %d", typ)
		}

		start := r.off + headerSize
		end := start + int(length)
		if end > r.n {
			return 0, nil, db.NewCorruption(db.TruncatedRecord, "chunk of length %d at offset %d exceeds block", length, r.off)
		}
		payload := r.buf[start:end]

		if r.verifyChecksums {
			c := crc32c.Checksum([]byte{byte(typ)})
			c = crc32c.Extend(c, payload)
			if crc32c.Mask(c) != checksumField {
				return 0, nil, db.NewCorruption(db.BadChecksum, "chunk checksum mismatch at offset %d", r.off)
			}
		}

		r.off = end
		return typ, payload, nil
	}
}

// fillBlock reads the next block (possibly shorter than blockSize, if
// it is the file's final block) into r.buf.
func (r *Reader) fillBlock() error {
	n, err := io.ReadFull(r.r, r.buf[:])
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			if n == 0 {
				return io.EOF
			}
			// Partial final block: fall through with what was read.
		} else {
			return err
		}
	}
	r.n = n
	r.off = 0
	return nil
}
