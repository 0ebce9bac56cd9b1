package ldbkv

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"

	dblib "github.com/lvyitian/MiNET.LevelDB/db"
	"github.com/lvyitian/MiNET.LevelDB/dbstats"
	"github.com/lvyitian/MiNET.LevelDB/table"
)

// readerCache retains one table.Reader per live file number for the
// lifetime of the Database (§3 "Lifecycle", §9 "keys into the cache
// are the primitive file_number, not reader pointers"). It shards its
// locking by xxhash of the file number, the way goleveldb's session
// shards its table-reader cache, so that concurrent Get calls on
// unrelated files do not serialize on a single mutex (§5).
type readerCache struct {
	dir   string
	opts  *dblib.Options
	stats *dbstats.Stats

	shards []cacheShard
}

type cacheShard struct {
	mu      sync.Mutex
	readers map[uint64]*table.Reader
}

func newReaderCache(dir string, opts *dblib.Options, stats *dbstats.Stats) *readerCache {
	n := opts.GetCacheShards()
	rc := &readerCache{dir: dir, opts: opts, stats: stats, shards: make([]cacheShard, n)}
	for i := range rc.shards {
		rc.shards[i].readers = make(map[uint64]*table.Reader)
	}
	return rc
}

func (rc *readerCache) shardFor(fileNumber uint64) *cacheShard {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], fileNumber)
	h := xxhash.Sum64(buf[:])
	return &rc.shards[h%uint64(len(rc.shards))]
}

// get returns the cached reader for fileNumber, opening and caching it
// on first access.
func (rc *readerCache) get(fileNumber uint64) (*table.Reader, error) {
	shard := rc.shardFor(fileNumber)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	if r, ok := shard.readers[fileNumber]; ok {
		rc.stats.ObserveCacheLookup(true)
		return r, nil
	}
	rc.stats.ObserveCacheLookup(false)

	r, err := rc.open(fileNumber)
	if err != nil {
		return nil, err
	}
	shard.readers[fileNumber] = r
	return r, nil
}

func (rc *readerCache) open(fileNumber uint64) (*table.Reader, error) {
	path := tableFilePath(rc.dir, fileNumber)
	f, err := table.OpenFile(path, rc.opts.GetUseMMap())
	if err != nil {
		// Accept the legacy ".sst" alias (§6) before giving up.
		if altPath := legacyTableFilePath(rc.dir, fileNumber); altPath != path {
			if altFile, altErr := table.OpenFile(altPath, rc.opts.GetUseMMap()); altErr == nil {
				f, err = altFile, nil
			}
		}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "leveldb: opening table file %06d", fileNumber)
	}
	r, err := table.Open(f, fileNumber, rc.opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// closeAll releases every cached reader, returning the first error
// encountered (if any) after attempting to close them all.
func (rc *readerCache) closeAll() error {
	var firstErr error
	for i := range rc.shards {
		rc.shards[i].mu.Lock()
		for _, r := range rc.shards[i].readers {
			if err := r.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		rc.shards[i].readers = nil
		rc.shards[i].mu.Unlock()
	}
	return firstErr
}
