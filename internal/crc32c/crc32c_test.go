package crc32c

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestChecksumKnownVector pins the Castagnoli CRC32C of the ASCII string
// "123456789", the standard CRC check value, per RFC 3720 Appendix B.1.
func TestChecksumKnownVector(t *testing.T) {
	require.Equal(t, uint32(0xE3069283), Checksum([]byte("123456789")))
}

func TestMaskUnmaskRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 0xE3069283, 0xffffffff}
	for _, v := range values {
		require.Equal(t, v, Unmask(Mask(v)))
	}
}

func TestMaskIsNotIdentity(t *testing.T) {
	crc := Checksum([]byte("hello"))
	require.NotEqual(t, crc, Mask(crc))
}

func TestExtendMatchesChecksumOfConcatenation(t *testing.T) {
	a := []byte("hello, ")
	b := []byte("world")
	whole := Checksum(append(append([]byte(nil), a...), b...))

	extended := Extend(Checksum(a), b)
	require.Equal(t, whole, extended)
}
