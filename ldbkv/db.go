// Package ldbkv is the database façade (§4.H): it resolves CURRENT,
// builds the manifest's Version, caches table readers by file number,
// and routes a Get through the level search planned by package
// manifest. This is the only package most callers need to import.
package ldbkv

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	dblib "github.com/lvyitian/MiNET.LevelDB/db"
	"github.com/lvyitian/MiNET.LevelDB/dbstats"
	"github.com/lvyitian/MiNET.LevelDB/internal/manifest"
)

// Database is an opened, read-only LevelDB-format directory. A single
// Database value is safe for concurrent Get calls once Open returns
// (§5): the version it searches is immutable for the Database's
// lifetime, and the only shared mutable state — the table-reader
// cache — guards its inserts with per-shard locking.
type Database struct {
	dir     string
	version *manifest.Version
	cache   *readerCache
	opts    *dblib.Options

	// Stats collects Get-outcome and cache hit/miss counters. It is
	// never nil; register it with a prometheus.Registerer to export it.
	Stats *dbstats.Stats
}

// Open validates dir, resolves CURRENT, replays the manifest it names,
// and — per §4.H — eagerly instantiates a table.Reader for every live
// file, using an errgroup so the opens run concurrently rather than
// one file read at a time.
func Open(dir string, opts *dblib.Options) (*Database, error) {
	opts = opts.EnsureDefaults()
	cmp := opts.GetComparer()

	version, err := manifest.Load(dir, cmp)
	if err != nil {
		return nil, err
	}
	if s := version.DebugString(); s != "" {
		fmt.Fprintln(os.Stderr, s)
	}

	stats := dbstats.NewStats()
	cache := newReaderCache(dir, opts, stats)

	d := &Database{
		dir:     dir,
		version: version,
		cache:   cache,
		opts:    opts,
		Stats:   stats,
	}

	g, _ := errgroup.WithContext(context.Background())
	for level := range version.Levels {
		for _, meta := range version.Levels[level] {
			meta := meta
			g.Go(func() error {
				_, err := cache.get(meta.FileNumber)
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		cache.closeAll()
		return nil, err
	}
	return d, nil
}

// Get resolves a user key to the latest record state visible in this
// database (§4.H "Get"). It returns db.NotFound if no table at any
// level holds a record for the key, db.Found with its value if a live
// record is the most recent one written, or db.Deleted if the most
// recent record is a tombstone. The search stops at the first
// candidate that yields Found or Deleted: a corruption encountered on
// an earlier candidate is returned immediately rather than skipped,
// since skipping it could let a stale value from a deeper level shadow
// a more recent deletion (§5 "Failure containment").
func (d *Database) Get(userKey []byte) (dblib.GetState, []byte, error) {
	if len(userKey) == 0 {
		return dblib.NotFound, nil, dblib.ErrEmptyKey
	}

	for _, meta := range d.version.FindCandidates(userKey) {
		r, err := d.cache.get(meta.FileNumber)
		if err != nil {
			d.Stats.ObserveGet("error")
			return dblib.NotFound, nil, err
		}
		state, value, err := r.Get(userKey)
		if err != nil {
			d.Stats.ObserveGet("error")
			return dblib.NotFound, nil, err
		}
		if state == dblib.Found || state == dblib.Deleted {
			d.Stats.ObserveGet(state.String())
			return state, value, nil
		}
	}

	d.Stats.ObserveGet(dblib.NotFound.String())
	return dblib.NotFound, nil, nil
}

// Close releases every table reader this Database opened.
func (d *Database) Close() error {
	return d.cache.closeAll()
}
