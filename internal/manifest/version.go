package manifest

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lvyitian/MiNET.LevelDB/db"
	"github.com/lvyitian/MiNET.LevelDB/internal/record"
)

// NumLevels is the number of levels a Bedrock/LevelDB version tracks
// (§3 "Level").
const NumLevels = 7

// Version is the cumulative, immutable descriptor state produced by
// replaying the manifest log once at open (§3 "Lifecycle"). Level 0
// may hold overlapping ranges, ordered by recency; levels 1..6 are
// partitioned into disjoint, ascending ranges (§3 "Level").
type Version struct {
	Comparator     db.Comparer
	ComparatorName string
	LogNumber      uint64
	PrevLogNumber  uint64
	NextFileNumber uint64
	LastSequence   uint64

	CompactPointers map[int]db.InternalKey
	Levels          [NumLevels][]*FileMetadata
}

// apply folds one decoded VersionEdit into the accumulator state.
// Single-valued fields overwrite; set-valued fields (CompactPointers,
// new/deleted files) accumulate across the whole replay (§4.F Replay).
func (v *Version) apply(ve *VersionEdit, newFiles map[int]map[uint64]*FileMetadata, deleted map[uint64]bool) {
	if ve.HasComparator {
		v.ComparatorName = ve.ComparatorName
	}
	if ve.HasLogNumber {
		v.LogNumber = ve.LogNumber
	}
	if ve.HasPrevLogNumber {
		v.PrevLogNumber = ve.PrevLogNumber
	}
	if ve.HasNextFileNum {
		v.NextFileNumber = ve.NextFileNumber
	}
	if ve.HasLastSequence {
		v.LastSequence = ve.LastSequence
	}
	for _, cp := range ve.CompactPointers {
		if v.CompactPointers == nil {
			v.CompactPointers = make(map[int]db.InternalKey)
		}
		v.CompactPointers[cp.Level] = cp.Key
	}
	for _, nf := range ve.NewFiles {
		if newFiles[nf.Level] == nil {
			newFiles[nf.Level] = make(map[uint64]*FileMetadata)
		}
		newFiles[nf.Level][nf.Meta.FileNumber] = nf.Meta
	}
	for _, df := range ve.DeletedFiles {
		deleted[df.FileNumber] = true
		if m := newFiles[df.Level]; m != nil {
			delete(m, df.FileNumber)
		}
	}
}

// ReplayEdits decodes and folds a sequence of manifest log record
// payloads into a fresh Version (§4.F Replay). It is the pure,
// filesystem-free half of manifest replay, kept separate from Load so
// it can be exercised directly by unit tests.
func ReplayEdits(cmp db.Comparer, payloads [][]byte) (*Version, error) {
	v := &Version{Comparator: cmp}
	newFiles := make(map[int]map[uint64]*FileMetadata)
	deleted := make(map[uint64]bool)

	for _, p := range payloads {
		ve, err := DecodeVersionEdit(p)
		if err != nil {
			return nil, err
		}
		v.apply(ve, newFiles, deleted)
	}

	if v.ComparatorName != cmp.Name() {
		return nil, &db.UnsupportedComparator{Name: v.ComparatorName}
	}

	for level := 0; level < NumLevels; level++ {
		for fileNum, meta := range newFiles[level] {
			if deleted[fileNum] {
				continue
			}
			v.Levels[level] = append(v.Levels[level], meta)
		}
	}
	v.sortLevels()
	return v, nil
}

// sortLevels orders level 0 by descending file number (most recent
// first, per REDESIGN FLAGS item 1 and §4.F Lookup planning) and every
// other level by ascending smallest user key, matching the invariant
// (I2) that those ranges are pairwise disjoint.
func (v *Version) sortLevels() {
	files := v.Levels[0]
	sort.Slice(files, func(i, j int) bool {
		return files[i].FileNumber > files[j].FileNumber
	})
	for level := 1; level < NumLevels; level++ {
		files := v.Levels[level]
		sort.Slice(files, func(i, j int) bool {
			return v.Comparator.Compare(files[i].Smallest.UserKey, files[j].Smallest.UserKey) < 0
		})
	}
}

// Load resolves CURRENT inside dir, replays the manifest it names
// through the shared log-record framing, and validates the recorded
// comparator (§4.F Open, Validation).
func Load(dir string, cmp db.Comparer) (*Version, error) {
	manifestName, err := readCurrent(dir)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, errors.Wrapf(err, "leveldb: opening manifest %s", manifestName)
	}
	defer f.Close()

	rr := record.NewReader(f, true)
	var payloads [][]byte
	for {
		p, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		// Next already returns a freshly allocated slice per record; the
		// copy here keeps the retained payloads independent of that.
		payloads = append(payloads, append([]byte(nil), p...))
	}
	return ReplayEdits(cmp, payloads)
}

// readCurrent reads the single-line "MANIFEST-NNNNNN\n" pointer file.
func readCurrent(dir string) (string, error) {
	b, err := os.ReadFile(filepath.Join(dir, "CURRENT"))
	if err != nil {
		return "", errors.Wrap(err, "leveldb: reading CURRENT")
	}
	name := strings.TrimSpace(string(b))
	if name == "" || !strings.HasPrefix(name, "MANIFEST-") {
		return "", db.NewCorruption(db.BadCurrentFile, "CURRENT does not name a MANIFEST file: %q", name)
	}
	return name, nil
}

// FindCandidates enumerates, in the order Get should try them, the
// live tables that may contain userKey (§4.F Lookup planning):
// level 0 in descending file-number order filtered by range overlap,
// then for each level ≥ 1 the single range whose [smallest, largest]
// user-key span covers userKey, if any.
func (v *Version) FindCandidates(userKey []byte) []*FileMetadata {
	var out []*FileMetadata
	cmp := v.Comparator

	for _, f := range v.Levels[0] {
		if cmp.Compare(userKey, f.Smallest.UserKey) >= 0 && cmp.Compare(userKey, f.Largest.UserKey) <= 0 {
			out = append(out, f)
		}
	}

	for level := 1; level < NumLevels; level++ {
		files := v.Levels[level]
		// Binary search for the first file whose largest user key is >=
		// userKey; that file is the only one in this level whose range
		// can possibly cover userKey, since ranges are disjoint and
		// sorted ascending.
		i := sort.Search(len(files), func(i int) bool {
			return cmp.Compare(files[i].Largest.UserKey, userKey) >= 0
		})
		if i >= len(files) {
			continue
		}
		f := files[i]
		if cmp.Compare(userKey, f.Smallest.UserKey) >= 0 {
			out = append(out, f)
		}
	}
	return out
}
