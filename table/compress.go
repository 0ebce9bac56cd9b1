package table

import (
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/lvyitian/MiNET.LevelDB/db"
)

// Compression type bytes trailing a block's compressed payload
// (§4.G "Block format"). These are part of the on-disk format.
const (
	noCompression     byte = 0
	snappyCompression byte = 1
	zstdCompression   byte = 2
)

var (
	zstdDecoderOnce sync.Once
	zstdDecoder     *zstd.Decoder
	zstdDecoderErr  error
)

func getZstdDecoder() (*zstd.Decoder, error) {
	zstdDecoderOnce.Do(func() {
		zstdDecoder, zstdDecoderErr = zstd.NewReader(nil)
	})
	return zstdDecoder, zstdDecoderErr
}

// decompress expands a block's compressed payload according to its
// compression-type byte. Spec §4.G only requires decoding "none" and
// permits rejecting everything else; this module also decodes snappy
// and zstd, since the example corpus supplies working decoders for
// both and Bedrock world tables may be written with either.
func decompress(compressionType byte, compressed []byte) ([]byte, error) {
	switch compressionType {
	case noCompression:
		return compressed, nil

	case snappyCompression:
		n, err := snappy.DecodedLen(compressed)
		if err != nil {
			return nil, db.NewCorruption(db.BadBlockTrailer, "invalid snappy length prefix: %v", err)
		}
		out, err := snappy.Decode(make([]byte, n), compressed)
		if err != nil {
			return nil, db.NewCorruption(db.BadBlockTrailer, "snappy decode failed: %v", err)
		}
		return out, nil

	case zstdCompression:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		out, err := dec.DecodeAll(compressed, nil)
		if err != nil {
			return nil, db.NewCorruption(db.BadBlockTrailer, "zstd decode failed: %v", err)
		}
		return out, nil

	default:
		return nil, &db.UnsupportedCompression{Type: compressionType}
	}
}
