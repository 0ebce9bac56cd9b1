package table

import (
	"io"
	"os"
)

// File abstracts the raw bytes backing a table reader, so that the
// block/index decoding logic in this package does not need to care
// whether the bytes arrived via a memory map or a pread-style
// ReadAt (§5 "no operation suspends on external I/O other than file
// reads").
type File interface {
	io.ReaderAt
	Size() int64
	Close() error
}

// preadFile is the portable fallback: ordinary pread-style reads
// through os.File.ReadAt. Used whenever mmap is disabled or
// unsupported on the current platform.
type preadFile struct {
	f    *os.File
	size int64
}

func newPreadFile(path string) (*preadFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &preadFile{f: f, size: fi.Size()}, nil
}

func (p *preadFile) ReadAt(b []byte, off int64) (int, error) { return p.f.ReadAt(b, off) }
func (p *preadFile) Size() int64                             { return p.size }
func (p *preadFile) Close() error                             { return p.f.Close() }

// OpenFile opens the table file at path, preferring a memory-mapped
// backend when useMMap is true and the platform supports it, and
// falling back to pread-style reads otherwise (§5).
func OpenFile(path string, useMMap bool) (File, error) {
	if useMMap {
		if f, err := mmapOpen(path); err == nil {
			return f, nil
		}
	}
	return newPreadFile(path)
}
