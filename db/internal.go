// Copyright 2011 The LevelDB-Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db defines the key encoding and comparator used by the rest of
// this module: the bytewise comparator (§4.A), the internal-key codec
// (§4.E), and the result/error vocabulary a Get call can produce (§7).
//
// The on-disk internal key is a user key followed by an 8-byte trailer
// packing a 56-bit sequence number and an 8-bit value type. Larger
// sequence numbers are more recent; on a tie in user key, the internal
// key carrying the larger trailer sorts first, so a level's sorted
// order yields the newest record for a user key before any older one.
package db

import (
	"encoding/binary"
)

// ValueType is the 8-bit tag trailing every internal key.
type ValueType uint8

// These constants are part of the on-disk format and must not change.
const (
	// Deletion marks a user key as logically absent (a tombstone) as of
	// its sequence number.
	Deletion ValueType = 0x00
	// Value marks a live record.
	Value ValueType = 0x01

	// valueTypeInvalid is used to mark a decoded key whose trailer did
	// not fit, so comparisons against it always lose.
	valueTypeInvalid ValueType = 0xff
)

// IsValid reports whether t is one of the value types this read path
// recognizes. Any other tag is a Corruption at the point it is decoded.
func (t ValueType) IsValid() bool {
	return t == Deletion || t == Value
}

func (t ValueType) String() string {
	switch t {
	case Deletion:
		return "Deletion"
	case Value:
		return "Value"
	default:
		return "Unknown"
	}
}

// InternalKeySeqNumMax is the largest sequence number a 56-bit counter
// can hold.
const InternalKeySeqNumMax = uint64(1<<56 - 1)

// InternalKey is user_key ‖ little_endian_u64(seq<<8 | value_type), the
// native ordering key of the store (§3, §4.E).
type InternalKey struct {
	UserKey []byte
	trailer uint64
}

// MakeInternalKey packs a user key, sequence number and value type into
// an InternalKey. The UserKey slice is retained, not copied.
func MakeInternalKey(userKey []byte, seqNum uint64, t ValueType) InternalKey {
	return InternalKey{
		UserKey: userKey,
		trailer: (seqNum << 8) | uint64(t),
	}
}

// DecodeInternalKey splits the trailing 8-byte trailer off an encoded
// internal key. A key shorter than 8 bytes decodes as invalid.
func DecodeInternalKey(encoded []byte) InternalKey {
	n := len(encoded) - 8
	if n < 0 {
		return InternalKey{UserKey: encoded, trailer: uint64(valueTypeInvalid)}
	}
	return InternalKey{
		UserKey: encoded[:n:n],
		trailer: binary.LittleEndian.Uint64(encoded[n:]),
	}
}

// Encode appends the encoded form of k (user key ‖ 8-byte trailer) to
// buf and returns the result.
func (k InternalKey) Encode(buf []byte) []byte {
	buf = append(buf, k.UserKey...)
	var trailer [8]byte
	binary.LittleEndian.PutUint64(trailer[:], k.trailer)
	return append(buf, trailer[:]...)
}

// Size is the number of bytes Encode appends.
func (k InternalKey) Size() int {
	return len(k.UserKey) + 8
}

// SeqNum returns the 56-bit sequence number packed into the trailer.
func (k InternalKey) SeqNum() uint64 {
	return k.trailer >> 8
}

// ValueType returns the 8-bit value type packed into the trailer.
func (k InternalKey) ValueType() ValueType {
	return ValueType(k.trailer & 0xff)
}

// Trailer returns the raw packed (seqNum<<8 | valueType) word.
func (k InternalKey) Trailer() uint64 {
	return k.trailer
}

// Valid reports whether the key decoded with a recognized value type.
func (k InternalKey) Valid() bool {
	return k.ValueType().IsValid()
}

// Clone returns a copy of k whose UserKey does not alias the original
// backing array.
func (k InternalKey) Clone() InternalKey {
	return InternalKey{
		UserKey: append([]byte(nil), k.UserKey...),
		trailer: k.trailer,
	}
}

// Compare orders two internal keys per §4.E: user keys compare first
// under cmp, and on a tie the key with the larger trailer (newer
// sequence, or — at equal sequence — Value over Deletion) sorts first.
func Compare(cmp Comparer, a, b InternalKey) int {
	if c := cmp.Compare(a.UserKey, b.UserKey); c != 0 {
		return c
	}
	switch {
	case a.trailer > b.trailer:
		return -1
	case a.trailer < b.trailer:
		return 1
	default:
		return 0
	}
}

// SeekKey builds the probe internal key used by table.Reader.Get: the
// user key paired with an all-ones trailer, which — by the ordering
// above — sorts before every real internal key sharing that user key,
// regardless of which sequence number or value type they carry.
func SeekKey(userKey []byte) InternalKey {
	return InternalKey{UserKey: userKey, trailer: ^uint64(0)}
}
