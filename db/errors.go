package db

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// GetState is the outcome of a point lookup (§6, §7): either the key
// was not observed at all, a live value was found, or a tombstone was
// found. Deleted is distinct from NotFound — a caller that conflates
// the two would let a stale value at a deeper level shadow a deletion.
type GetState int

const (
	NotFound GetState = iota
	Found
	Deleted
)

func (s GetState) String() string {
	switch s {
	case Found:
		return "Found"
	case Deleted:
		return "Deleted"
	default:
		return "NotFound"
	}
}

// CorruptionKind sub-categorizes a Corruption error for diagnostics.
// Sub-kinds are informational only: every one of them fails the call
// the same way at the API boundary (§7).
type CorruptionKind int

const (
	BadHeader CorruptionKind = iota
	BadChecksum
	BadRecordType
	TruncatedRecord
	UnexpectedContinuation
	BadBlockChecksum
	BadBlockTrailer
	TruncatedBlock
	BadRestart
	BadTableMagic
	BadVarint
	BadManifestTag
	BadCurrentFile
)

func (k CorruptionKind) String() string {
	switch k {
	case BadHeader:
		return "BadHeader"
	case BadChecksum:
		return "BadChecksum"
	case BadRecordType:
		return "BadRecordType"
	case TruncatedRecord:
		return "TruncatedRecord"
	case UnexpectedContinuation:
		return "UnexpectedContinuation"
	case BadBlockChecksum:
		return "BadBlockChecksum"
	case BadBlockTrailer:
		return "BadBlockTrailer"
	case TruncatedBlock:
		return "TruncatedBlock"
	case BadRestart:
		return "BadRestart"
	case BadTableMagic:
		return "BadTableMagic"
	case BadVarint:
		return "BadVarint"
	case BadManifestTag:
		return "BadManifestTag"
	case BadCurrentFile:
		return "BadCurrentFile"
	default:
		return "Corruption"
	}
}

// Corruption reports a structural violation of the on-disk format:
// a bad checksum, framing error, unknown tag, bad magic, malformed
// trailer, or an out-of-range varint (§7).
type Corruption struct {
	Kind CorruptionKind
	msg  redact.RedactableString
}

func (c *Corruption) Error() string {
	return c.Kind.String() + ": " + string(c.msg)
}

// NewCorruption builds a Corruption error. args are passed through
// redact.Sprintf so that any raw key/value bytes embedded in a
// diagnostic never leak into logs verbatim.
func NewCorruption(kind CorruptionKind, format string, args ...interface{}) error {
	return &Corruption{Kind: kind, msg: redact.Sprintf(format, args...)}
}

// IsCorruption reports whether err is (or wraps) a Corruption error,
// and returns it.
func IsCorruption(err error) (*Corruption, bool) {
	var c *Corruption
	if errors.As(err, &c) {
		return c, true
	}
	return nil, false
}

// UnsupportedComparator is returned by manifest validation when the
// descriptor log names a comparator other than BytewiseComparer's.
type UnsupportedComparator struct {
	Name string
}

func (e *UnsupportedComparator) Error() string {
	return "unsupported comparator: " + e.Name
}

// UnsupportedCompression is returned when a block's compression type
// byte names a codec this read path cannot decode.
type UnsupportedCompression struct {
	Type byte
}

func (e *UnsupportedCompression) Error() string {
	return fmt.Sprintf("unsupported block compression type: %d", e.Type)
}

// ErrInvalidArgument is returned for well-formed-but-illegal caller input,
// such as an empty key.
var ErrInvalidArgument = errors.New("leveldb: invalid argument")

// ErrEmptyKey is a specific InvalidArgument raised by Database.Get.
var ErrEmptyKey = errors.WithDetail(ErrInvalidArgument, "key must not be empty")
