package decoder

import (
	"encoding/binary"

	"firestige.xyz/pktcraft/internal/core"
)

const (
	// Ethernet constants
	ethernetHeaderLen = 14
	vlanHeaderLen     = 4

	// EtherType values
	etherTypeIPv4 = 0x0800
	etherTypeVLAN = 0x8100
	etherTypeQinQ = 0x88A8
)

// decodeEthernet fills the L2 fields of df (skipping VLAN tags) and returns
// the remaining payload.
func decodeEthernet(data []byte, df *core.DecodedFrame) ([]byte, error) {
	if len(data) < ethernetHeaderLen {
		return nil, core.ErrPacketTooShort
	}

	copy(df.DstMAC[:], data[0:6])
	copy(df.SrcMAC[:], data[6:12])

	etherType := binary.BigEndian.Uint16(data[12:14])
	offset := ethernetHeaderLen

	// Tags can be nested (QinQ)
	for etherType == etherTypeVLAN || etherType == etherTypeQinQ {
		if len(data) < offset+vlanHeaderLen {
			return nil, core.ErrPacketTooShort
		}
		tci := binary.BigEndian.Uint16(data[offset : offset+2])
		df.VLANs = append(df.VLANs, tci&0x0FFF)
		etherType = binary.BigEndian.Uint16(data[offset+2 : offset+4])
		offset += vlanHeaderLen
	}

	df.EtherType = etherType
	return data[offset:], nil
}
