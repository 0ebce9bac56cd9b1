package ldbkv

import (
	"fmt"
	"path/filepath"
)

// tableFilePath is the canonical SSTable file name for fileNumber
// (§6 "NNNNNN.ldb").
func tableFilePath(dir string, fileNumber uint64) string {
	return filepath.Join(dir, fmt.Sprintf("%06d.ldb", fileNumber))
}

// legacyTableFilePath is the accepted ".sst" alias for older
// databases (§6).
func legacyTableFilePath(dir string, fileNumber uint64) string {
	return filepath.Join(dir, fmt.Sprintf("%06d.sst", fileNumber))
}
