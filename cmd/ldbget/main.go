// Command ldbget is a thin test-and-demo shell around package ldbkv:
// it opens a LevelDB-format directory and performs one Get, printing
// the result. It exists to exercise the read path end-to-end, the way
// the original source this module ports was itself a small demo shell
// (§2).
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lvyitian/MiNET.LevelDB/db"
	"github.com/lvyitian/MiNET.LevelDB/ldbkv"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var hexKey bool

	cmd := &cobra.Command{
		Use:   "ldbget <db-dir> <key>",
		Short: "Look up one key in a LevelDB-format world directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, rawKey := args[0], args[1]

			key := []byte(rawKey)
			if hexKey {
				decoded, err := hex.DecodeString(rawKey)
				if err != nil {
					return fmt.Errorf("decoding --hex key: %w", err)
				}
				key = decoded
			}

			database, err := ldbkv.Open(dir, nil)
			if err != nil {
				return fmt.Errorf("opening %s: %w", dir, err)
			}
			defer database.Close()

			state, value, err := database.Get(key)
			if err != nil {
				return err
			}

			switch state {
			case db.Found:
				fmt.Printf("Found: %x\n", value)
			case db.Deleted:
				fmt.Println("Deleted")
			default:
				fmt.Println("NotFound")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&hexKey, "hex", false, "interpret <key> as hex-encoded bytes")
	return cmd
}
