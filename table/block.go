package table

import (
	"encoding/binary"
	"sort"

	"github.com/lvyitian/MiNET.LevelDB/db"
	"github.com/lvyitian/MiNET.LevelDB/internal/binfmt"
)

// blockHandle names a contiguous byte range inside a table file
// (§3 "Block handle").
type blockHandle struct {
	offset uint64
	size   uint64
}

// decodeBlockHandle reads a varint offset and varint size from src,
// returning the handle and the number of bytes consumed.
func decodeBlockHandle(src []byte) (blockHandle, int, error) {
	r := binfmt.NewReader(src)
	off, err := r.ReadVarint()
	if err != nil {
		return blockHandle{}, 0, err
	}
	size, err := r.ReadVarint()
	if err != nil {
		return blockHandle{}, 0, err
	}
	return blockHandle{offset: off, size: size}, r.Pos(), nil
}

// block is the decompressed contents of a data or index block: a
// restart-coded entry region followed by the restart offset array and
// a trailing restart count (§4.G "Block format").
type block []byte

// restarts returns the block's restart-point offsets (each an offset
// into b, relative to the start of the entry region) and the length of
// the entry region they follow.
func (b block) restarts() (restarts []uint32, entriesLen int, err error) {
	if len(b) < 4 {
		return nil, 0, db.NewCorruption(db.BadRestart, "block too short to hold a restart count")
	}
	numRestarts := binary.LittleEndian.Uint32(b[len(b)-4:])
	if numRestarts == 0 {
		return nil, 0, db.NewCorruption(db.BadRestart, "block has no restart points")
	}
	need := int(numRestarts)*4 + 4
	if need > len(b) {
		return nil, 0, db.NewCorruption(db.BadRestart, "restart array overruns block (%d restarts, %d-byte block)", numRestarts, len(b))
	}
	entriesLen = len(b) - need
	restarts = make([]uint32, numRestarts)
	base := entriesLen
	for i := range restarts {
		restarts[i] = binary.LittleEndian.Uint32(b[base+4*i:])
	}
	return restarts, entriesLen, nil
}

// decodeEntry decodes the restart-coded entry at pos (bounded by
// entriesLen), reconstructing its full key from prevKey's shared
// prefix (§4.G "Entry encoding inside the restart region"). It returns
// the offset of the following entry.
func decodeEntry(b block, pos, entriesLen int, prevKey []byte) (next int, key, val []byte, err error) {
	if pos < 0 || pos >= entriesLen {
		return 0, nil, nil, db.NewCorruption(db.BadRestart, "entry offset %d outside entry region [0,%d)", pos, entriesLen)
	}
	r := binfmt.NewReader(b[pos:entriesLen])
	shared, err := r.ReadVarint()
	if err != nil {
		return 0, nil, nil, err
	}
	nonShared, err := r.ReadVarint()
	if err != nil {
		return 0, nil, nil, err
	}
	valueLen, err := r.ReadVarint()
	if err != nil {
		return 0, nil, nil, err
	}
	if int(shared) > len(prevKey) {
		return 0, nil, nil, db.NewCorruption(db.BadRestart, "shared prefix %d exceeds previous key length %d", shared, len(prevKey))
	}
	delta, err := r.ReadRaw(int(nonShared))
	if err != nil {
		return 0, nil, nil, err
	}
	value, err := r.ReadRaw(int(valueLen))
	if err != nil {
		return 0, nil, nil, err
	}
	key = make([]byte, 0, int(shared)+int(nonShared))
	key = append(key, prevKey[:shared]...)
	key = append(key, delta...)
	return pos + r.Pos(), key, value, nil
}

// internalKeyCompare orders two encoded internal keys per §4.E.
func internalKeyCompare(cmp db.Comparer, a, b []byte) int {
	return db.Compare(cmp, db.DecodeInternalKey(a), db.DecodeInternalKey(b))
}

// seek finds the first entry in the block whose (internal) key is >=
// target, per §4.G steps 2 and 4: binary search the restart array for
// the entry that brackets target, then linearly scan forward from
// there. Returns found=false if every key in the block is < target.
func seek(b block, cmp db.Comparer, target []byte) (key, val []byte, found bool, err error) {
	restarts, entriesLen, err := b.restarts()
	if err != nil {
		return nil, nil, false, err
	}

	restartKeys := make([][]byte, len(restarts))
	for i, off := range restarts {
		_, k, _, derr := decodeEntry(b, int(off), entriesLen, nil)
		if derr != nil {
			return nil, nil, false, derr
		}
		restartKeys[i] = k
	}

	// index is the smallest restart index whose key is > target; the
	// restart at index-1 (or the start of the block, if index==0) is
	// therefore the largest restart point whose key is <= target, since
	// restart keys are strictly increasing.
	index := sort.Search(len(restartKeys), func(i int) bool {
		return internalKeyCompare(cmp, restartKeys[i], target) > 0
	})

	pos := 0
	if index > 0 {
		pos = int(restarts[index-1])
	}

	var prevKey []byte
	for pos < entriesLen {
		next, k, v, derr := decodeEntry(b, pos, entriesLen, prevKey)
		if derr != nil {
			return nil, nil, false, derr
		}
		if internalKeyCompare(cmp, k, target) >= 0 {
			return k, v, true, nil
		}
		prevKey = k
		pos = next
	}
	return nil, nil, false, nil
}
