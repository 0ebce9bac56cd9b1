// Package crc32c implements the Castagnoli CRC32 variant and the
// LevelDB bit-masking applied before a checksum is written to disk
// (§4.C, §6). The mask exists so that a raw CRC value that happens to
// appear earlier in the same byte stream is not mistaken for the
// checksum trailer.
package crc32c

import "hash/crc32"

var table = crc32.MakeTable(crc32.Castagnoli)

// Checksum returns the unmasked Castagnoli CRC32C of data.
func Checksum(data []byte) uint32 {
	return crc32.Checksum(data, table)
}

// Extend returns the Castagnoli CRC32C of data appended to the stream
// whose checksum-so-far is crc.
func Extend(crc uint32, data []byte) uint32 {
	return crc32.Update(crc, table, data)
}

// Mask permutes and offsets a raw CRC32C value so it can be safely
// embedded in the same byte stream it covers:
//
//	masked = ((crc >> 15) | (crc << 17)) + 0xa282ead8
//
// Both shifts and the final add wrap within 32 bits.
func Mask(crc uint32) uint32 {
	return ((crc >> 15) | (crc << 17)) + 0xa282ead8
}

// Unmask reverses Mask.
func Unmask(masked uint32) uint32 {
	rot := masked - 0xa282ead8
	return (rot >> 17) | (rot << 15)
}
