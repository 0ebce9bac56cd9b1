package record

import (
	"bytes"
	"encoding/binary"

	"github.com/lvyitian/MiNET.LevelDB/internal/crc32c"
)

// WriteRecords block-frames records into a single byte stream readable
// back by Reader, splitting each record into First/Middle*/Last chunks
// at 32 KiB block boundaries and zero-padding any block tail too short
// to hold another chunk header. This read path never needs to produce
// that format itself — MANIFEST and log files are always pre-existing
// on disk — so the only consumer of this encoder is test fixture
// construction, the same role the teacher's disposable in-memory
// sstable builder plays for table tests.
func WriteRecords(records [][]byte) []byte {
	var out bytes.Buffer
	blockFill := 0

	writeChunk := func(typ chunkType, payload []byte) {
		var header [headerSize]byte
		binary.LittleEndian.PutUint16(header[4:], uint16(len(payload)))
		header[6] = byte(typ)
		crc := crc32c.Checksum([]byte{byte(typ)})
		crc = crc32c.Extend(crc, payload)
		binary.LittleEndian.PutUint32(header[:4], crc32c.Mask(crc))
		out.Write(header[:])
		out.Write(payload)
		blockFill += headerSize + len(payload)
	}

	for _, rec := range records {
		first := true
		for {
			room := blockSize - blockFill
			if room < headerSize {
				out.Write(make([]byte, room))
				blockFill = 0
				room = blockSize
			}
			avail := room - headerSize
			n := len(rec)
			last := true
			if n > avail {
				n = avail
				last = false
			}
			chunk := rec[:n]
			rec = rec[n:]

			switch {
			case first && last:
				writeChunk(fullChunkType, chunk)
			case first:
				writeChunk(firstChunkType, chunk)
			case last:
				writeChunk(lastChunkType, chunk)
			default:
				writeChunk(middleChunkType, chunk)
			}
			first = false
			if last {
				break
			}
		}
	}
	return out.Bytes()
}
