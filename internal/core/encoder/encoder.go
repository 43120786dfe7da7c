// Package encoder builds Ethernet and IPv4 headers from field values.
package encoder

import (
	"fmt"

	"firestige.xyz/pktcraft/internal/core"
)

// Encode builds both headers. The IPv4 header carries zero placeholders for
// totalLength and checksum; the checksum package patches them.
func Encode(f core.FrameFields) (eth, ip []byte, err error) {
	eth, err = EncodeEthernet(f.Ethernet)
	if err != nil {
		return nil, nil, fmt.Errorf("encode ethernet: %w", err)
	}
	ip, err = EncodeIPv4(f.IPv4)
	if err != nil {
		return nil, nil, fmt.Errorf("encode ipv4: %w", err)
	}
	return eth, ip, nil
}

// checkUint rejects v unless 0 <= v < 1<<bits.
func checkUint(field string, v, bits int) error {
	if v < 0 || v >= 1<<bits {
		return &core.FieldWidthError{Field: field, Bits: bits, Value: v}
	}
	return nil
}

// checkBytes rejects b unless it is exactly n bytes long.
func checkBytes(field string, b []byte, n int) error {
	if len(b) != n {
		return &core.FieldWidthError{Field: field, Bits: n * 8, Value: b}
	}
	return nil
}
