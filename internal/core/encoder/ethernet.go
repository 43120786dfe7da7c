package encoder

import (
	"encoding/binary"

	"firestige.xyz/pktcraft/internal/core"
)

const (
	// Ethernet constants
	EthernetHeaderLen = 14
	macLen            = 6

	// Ethernet field offsets
	ethDstOffset  = 0
	ethSrcOffset  = 6
	ethTypeOffset = 12
)

// EncodeEthernet builds the 14-byte Ethernet II header: dst, src, EtherType.
func EncodeEthernet(f core.EthernetFields) ([]byte, error) {
	if err := checkBytes("dst_mac", f.DstMAC, macLen); err != nil {
		return nil, err
	}
	if err := checkBytes("src_mac", f.SrcMAC, macLen); err != nil {
		return nil, err
	}
	if err := checkUint("ether_type", f.EtherType, 16); err != nil {
		return nil, err
	}

	b := make([]byte, EthernetHeaderLen)
	copy(b[ethDstOffset:], f.DstMAC)
	copy(b[ethSrcOffset:], f.SrcMAC)
	binary.BigEndian.PutUint16(b[ethTypeOffset:], uint16(f.EtherType))
	return b, nil
}
