// Package binfmt is a cursor over an immutable byte span used to decode
// the little-endian fixed-width integers, LEB128 varints, and
// length-prefixed strings that make up the on-disk formats in this
// module (§4.B). Every over-read fails with a *db.Corruption instead of
// panicking, so a truncated file surfaces as an ordinary error.
package binfmt

import (
	"encoding/binary"

	"github.com/lvyitian/MiNET.LevelDB/db"
)

// maxVarintLen64 bounds a LEB128-encoded uint64 at 10 bytes, as used by
// encoding/binary.
const maxVarintLen64 = 10

// Reader is a cursor over a borrowed byte span. It never copies the
// span; callers that need to retain a decoded sub-span past the
// Reader's lifetime should clone it first.
type Reader struct {
	data []byte
	pos  int
}

// NewReader wraps data for sequential decoding starting at offset 0.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the current cursor offset.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// EOF reports whether the cursor has consumed the whole span.
func (r *Reader) EOF() bool { return r.pos >= len(r.data) }

func (r *Reader) need(n int) error {
	if n < 0 || r.Remaining() < n {
		return db.NewCorruption(db.TruncatedRecord, "need %d bytes, have %d", n, r.Remaining())
	}
	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadI32LE reads a little-endian signed 32-bit integer.
func (r *Reader) ReadI32LE() (int32, error) {
	u, err := r.ReadU32LE()
	return int32(u), err
}

// ReadU32LE reads a little-endian unsigned 32-bit integer.
func (r *Reader) ReadU32LE() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadU64LE reads a little-endian unsigned 64-bit integer.
func (r *Reader) ReadU64LE() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadVarint reads an unsigned LEB128 varint, up to 10 bytes.
func (r *Reader) ReadVarint() (uint64, error) {
	limit := r.pos + maxVarintLen64
	if limit > len(r.data) {
		limit = len(r.data)
	}
	v, n := binary.Uvarint(r.data[r.pos:limit])
	if n <= 0 {
		return 0, db.NewCorruption(db.BadVarint, "malformed varint at offset %d", r.pos)
	}
	r.pos += n
	return v, nil
}

// ReadLengthPrefixedBytes reads a varint length followed by that many
// bytes, returned as a sub-span of the original data (not copied).
func (r *Reader) ReadLengthPrefixedBytes() ([]byte, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	return r.ReadRaw(int(n))
}

// ReadRaw returns the next n bytes as a sub-span of the original data
// (not copied), for formats where a length was already decoded as a
// separate field rather than immediately preceding the bytes it names
// (e.g. the shared/non_shared/value_length triple in a table block
// entry, §4.G).
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadLengthPrefixedString is ReadLengthPrefixedBytes interpreted as
// UTF-8 text.
func (r *Reader) ReadLengthPrefixedString() (string, error) {
	b, err := r.ReadLengthPrefixedBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
