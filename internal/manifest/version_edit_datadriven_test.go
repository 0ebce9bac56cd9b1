package manifest

import (
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/cockroachdb/datadriven"
)

// TestDecodeVersionEditDataDriven walks testdata/version_edit, decoding
// the hex payload given by each "decode" command's input and printing
// the fields DecodeVersionEdit populated, the way pebble's own
// manifest/sstable packages are tested against fixture files rather
// than hand-written assertions for every tag combination.
func TestDecodeVersionEditDataDriven(t *testing.T) {
	datadriven.RunTest(t, "testdata/version_edit", func(t *testing.T, d *datadriven.TestData) string {
		switch d.Cmd {
		case "decode":
			payload, err := hex.DecodeString(d.Input)
			if err != nil {
				return fmt.Sprintf("error: bad hex input: %v", err)
			}
			ve, err := DecodeVersionEdit(payload)
			if err != nil {
				return fmt.Sprintf("error: %v", err)
			}
			return formatVersionEdit(ve)
		default:
			return fmt.Sprintf("unknown command %q", d.Cmd)
		}
	})
}

func formatVersionEdit(ve *VersionEdit) string {
	var out string
	if ve.HasComparator {
		out += fmt.Sprintf("comparator: %s\n", ve.ComparatorName)
	}
	if ve.HasLogNumber {
		out += fmt.Sprintf("log_number: %d\n", ve.LogNumber)
	}
	if ve.HasPrevLogNumber {
		out += fmt.Sprintf("prev_log_number: %d\n", ve.PrevLogNumber)
	}
	if ve.HasNextFileNum {
		out += fmt.Sprintf("next_file_number: %d\n", ve.NextFileNumber)
	}
	if ve.HasLastSequence {
		out += fmt.Sprintf("last_sequence: %d\n", ve.LastSequence)
	}
	for _, df := range ve.DeletedFiles {
		out += fmt.Sprintf("deleted_file: level=%d number=%d\n", df.Level, df.FileNumber)
	}
	for _, nf := range ve.NewFiles {
		out += fmt.Sprintf("new_file: level=%d number=%d\n", nf.Level, nf.Meta.FileNumber)
	}
	return out
}
