package decoder

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/net/ipv4"

	"firestige.xyz/pktcraft/internal/core"
	"firestige.xyz/pktcraft/internal/core/checksum"
)

// decodeIPv4 fills the L3 fields of df from data.
func decodeIPv4(data []byte, df *core.DecodedFrame) error {
	if len(data) < ipv4.HeaderLen {
		return core.ErrPacketTooShort
	}
	if hdrLen := int(data[0]&0x0f) << 2; hdrLen > len(data) {
		return fmt.Errorf("%w: ihl says %d bytes, have %d", core.ErrPacketTooShort, hdrLen, len(data))
	}
	h, err := ipv4.ParseHeader(data)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrMalformedHeader, err)
	}
	if h.Version != ipv4.Version {
		return core.ErrUnsupportedProto
	}
	if h.Len < ipv4.HeaderLen {
		return fmt.Errorf("%w: ihl %d below minimum", core.ErrMalformedHeader, h.Len/4)
	}

	df.Version = uint8(h.Version)
	df.IHL = uint8(h.Len / 4)
	df.DSCP = uint8(h.TOS >> 2)
	df.ECN = uint8(h.TOS & 0x03)
	// Read raw: ParseHeader's length/offset handling differs across GOOS and versions.
	df.TotalLen = binary.BigEndian.Uint16(data[2:4])
	df.Identification = uint16(h.ID)
	flagsOffset := binary.BigEndian.Uint16(data[6:8])
	df.Flags = uint8(flagsOffset >> 13)
	df.FragmentOffset = flagsOffset & 0x1FFF
	df.TTL = uint8(h.TTL)
	df.Protocol = uint8(h.Protocol)
	df.Checksum = uint16(h.Checksum)
	copy(df.SrcAddr[:], h.Src.To4())
	copy(df.DstAddr[:], h.Dst.To4())

	df.ChecksumValid = checksum.Verify(data[:h.Len])
	df.Payload = data[h.Len:]
	return nil
}
