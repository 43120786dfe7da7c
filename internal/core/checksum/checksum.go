// Package checksum implements the RFC 791 one's-complement header checksum
// and the IPv4 length/checksum patches.
package checksum

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/net/ipv4"

	"firestige.xyz/pktcraft/internal/core"
)

const (
	// IPv4 header field offsets
	totalLenOffset = 2
	checksumOffset = 10

	maxTotalLen = 0xFFFF
)

// Sum adds b as big-endian 16-bit words. An odd trailing byte is the high
// byte of a word whose low byte is zero. The uint64 accumulator cannot
// overflow for any slice that fits in memory.
func Sum(b []byte) uint64 {
	var sum uint64
	n := len(b) &^ 1
	for i := 0; i < n; i += 2 {
		sum += uint64(binary.BigEndian.Uint16(b[i : i+2]))
	}
	if len(b)&1 == 1 {
		sum += uint64(b[len(b)-1]) << 8
	}
	return sum
}

// Fold adds the carries above bit 16 back into the low 16 bits until the
// value fits. One pass is not enough in general: 0x1FFFF folds to 0x10000.
func Fold(sum uint64) uint16 {
	for sum>>16 != 0 {
		sum = (sum & 0xFFFF) + (sum >> 16)
	}
	return uint16(sum)
}

// Checksum returns the one's complement of the folded word sum of b.
func Checksum(b []byte) uint16 {
	return ^Fold(Sum(b))
}

// Verify reports whether hdr, checksum field included, folds to 0xFFFF.
func Verify(hdr []byte) bool {
	return Fold(Sum(hdr)) == 0xFFFF
}

// PatchTotalLength writes len(hdr)+payloadLen into the totalLength field.
// It must run before PatchChecksum because the length bytes are summed.
func PatchTotalLength(hdr []byte, payloadLen int) (uint16, error) {
	if len(hdr) < ipv4.HeaderLen {
		return 0, fmt.Errorf("patch total length: %w", core.ErrPacketTooShort)
	}
	if payloadLen < 0 {
		return 0, &core.FieldWidthError{Field: "total_length", Bits: 16, Value: payloadLen}
	}
	total := len(hdr) + payloadLen
	if total > maxTotalLen {
		return 0, &core.FieldWidthError{Field: "total_length", Bits: 16, Value: total}
	}
	binary.BigEndian.PutUint16(hdr[totalLenOffset:], uint16(total))
	return uint16(total), nil
}

// PatchChecksum zeroes the checksum field, sums hdr and writes the result.
func PatchChecksum(hdr []byte) (uint16, error) {
	if len(hdr) < ipv4.HeaderLen {
		return 0, fmt.Errorf("patch checksum: %w", core.ErrPacketTooShort)
	}
	hdr[checksumOffset] = 0
	hdr[checksumOffset+1] = 0
	ck := Checksum(hdr)
	binary.BigEndian.PutUint16(hdr[checksumOffset:], ck)
	return ck, nil
}
