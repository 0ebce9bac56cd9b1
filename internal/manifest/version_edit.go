// Package manifest replays the MANIFEST descriptor log into the
// VersionEdit/Version state the database façade searches on every Get
// (§3 "Version edit", §4.F).
package manifest

import (
	"github.com/lvyitian/MiNET.LevelDB/db"
	"github.com/lvyitian/MiNET.LevelDB/internal/binfmt"
)

// Tags for the version-edit disk format (§4.F). These are the LevelDB
// tag numbers only: this read path targets the bytewise comparator and
// has no RocksDB column-family extensions to decode, unlike the
// broader tag set pebble's manifest decoder carries.
const (
	tagComparator     = 1
	tagLogNumber      = 2
	tagNextFileNumber = 3
	tagLastSequence   = 4
	tagCompactPointer = 5
	tagDeletedFile    = 6
	tagNewFile        = 7
	tagPrevLogNumber  = 9
)

// DeletedFileEntry identifies a file removed from a level by some edit
// in the manifest stream.
type DeletedFileEntry struct {
	Level      int
	FileNumber uint64
}

// NewFileEntry pairs a level with the metadata of a file added to it.
type NewFileEntry struct {
	Level int
	Meta  *FileMetadata
}

// FileMetadata is the per-table bookkeeping record carried by the
// manifest (§3 "File metadata").
type FileMetadata struct {
	FileNumber uint64
	FileSize   uint64
	Smallest   db.InternalKey
	Largest    db.InternalKey
}

// VersionEdit is a single tagged delta decoded from one manifest log
// record (§3 "Version edit").
type VersionEdit struct {
	ComparatorName string
	HasComparator  bool

	LogNumber        uint64
	HasLogNumber     bool
	PrevLogNumber    uint64
	HasPrevLogNumber bool
	NextFileNumber   uint64
	HasNextFileNum   bool
	LastSequence     uint64
	HasLastSequence  bool

	CompactPointers []CompactPointer
	DeletedFiles    []DeletedFileEntry
	NewFiles        []NewFileEntry
}

// CompactPointer records the per-level compaction cursor. The read
// path never acts on it, but it is part of the on-disk tag stream and
// must decode cleanly (§3, §4.F tag 5).
type CompactPointer struct {
	Level int
	Key   db.InternalKey
}

// DecodeVersionEdit decodes one manifest log record's tagged-field
// payload (§4.F). An unrecognized tag is a Corruption: this decoder
// has no "ignore unknown tag" escape hatch because the manifest must
// be interpreted exactly, not approximately.
func DecodeVersionEdit(payload []byte) (*VersionEdit, error) {
	r := binfmt.NewReader(payload)
	ve := &VersionEdit{}
	for !r.EOF() {
		tag, err := r.ReadVarint()
		if err != nil {
			return nil, err
		}
		switch tag {
		case tagComparator:
			s, err := r.ReadLengthPrefixedString()
			if err != nil {
				return nil, err
			}
			ve.ComparatorName = s
			ve.HasComparator = true

		case tagLogNumber:
			n, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			ve.LogNumber = n
			ve.HasLogNumber = true

		case tagPrevLogNumber:
			n, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			ve.PrevLogNumber = n
			ve.HasPrevLogNumber = true

		case tagNextFileNumber:
			n, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			ve.NextFileNumber = n
			ve.HasNextFileNum = true

		case tagLastSequence:
			n, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			ve.LastSequence = n
			ve.HasLastSequence = true

		case tagCompactPointer:
			level, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			key, err := r.ReadLengthPrefixedBytes()
			if err != nil {
				return nil, err
			}
			ve.CompactPointers = append(ve.CompactPointers, CompactPointer{
				Level: int(level),
				Key:   db.DecodeInternalKey(key),
			})

		case tagDeletedFile:
			level, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			fileNum, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			ve.DeletedFiles = append(ve.DeletedFiles, DeletedFileEntry{
				Level:      int(level),
				FileNumber: fileNum,
			})

		case tagNewFile:
			level, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			fileNum, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			size, err := r.ReadVarint()
			if err != nil {
				return nil, err
			}
			smallest, err := r.ReadLengthPrefixedBytes()
			if err != nil {
				return nil, err
			}
			largest, err := r.ReadLengthPrefixedBytes()
			if err != nil {
				return nil, err
			}
			ve.NewFiles = append(ve.NewFiles, NewFileEntry{
				Level: int(level),
				Meta: &FileMetadata{
					FileNumber: fileNum,
					FileSize:   size,
					Smallest:   db.DecodeInternalKey(smallest),
					Largest:    db.DecodeInternalKey(largest),
				},
			})

		default:
			return nil, db.NewCorruption(db.BadManifestTag, "unknown manifest tag %d", tag)
		}
	}
	return ve, nil
}
