//go:build !unix

package table

import "errors"

// mmapOpen has no portable implementation outside unix-like platforms;
// OpenFile falls back to preadFile when this returns an error.
func mmapOpen(path string) (File, error) {
	return nil, errors.New("leveldb/table: mmap not supported on this platform")
}
