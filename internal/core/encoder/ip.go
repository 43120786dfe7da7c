package encoder

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/net/ipv4"

	"firestige.xyz/pktcraft/internal/core"
)

const (
	// IHL for a header without options, in 32-bit words
	ipv4MinIHL  = ipv4.HeaderLen / 4
	ipv4AddrLen = 4

	// IPv4 field offsets
	ipVersionIHLOffset = 0
	ipTOSOffset        = 1
	ipTotalLenOffset   = 2
	ipIDOffset         = 4
	ipFlagsFragOffset  = 6
	ipTTLOffset        = 8
	ipProtocolOffset   = 9
	ipChecksumOffset   = 10
	ipSrcOffset        = 12
	ipDstOffset        = 16
)

// EncodeIPv4 builds a 20-byte IPv4 header. totalLength and checksum are left
// zero. Every field is range checked against its wire width first.
func EncodeIPv4(f core.IPv4Fields) ([]byte, error) {
	if err := validateIPv4(f); err != nil {
		return nil, err
	}

	b := make([]byte, ipv4.HeaderLen)
	b[ipVersionIHLOffset] = byte(f.Version<<4 | f.IHL)
	b[ipTOSOffset] = byte(f.DSCP<<2 | f.ECN)
	binary.BigEndian.PutUint16(b[ipTotalLenOffset:], 0)
	binary.BigEndian.PutUint16(b[ipIDOffset:], uint16(f.Identification))
	binary.BigEndian.PutUint16(b[ipFlagsFragOffset:], uint16(f.Flags<<13|f.FragmentOffset))
	b[ipTTLOffset] = byte(f.TTL)
	b[ipProtocolOffset] = byte(f.Protocol)
	binary.BigEndian.PutUint16(b[ipChecksumOffset:], 0)
	copy(b[ipSrcOffset:], f.SrcAddr)
	copy(b[ipDstOffset:], f.DstAddr)
	return b, nil
}

func validateIPv4(f core.IPv4Fields) error {
	widths := []struct {
		name  string
		value int
		bits  int
	}{
		{"version", f.Version, 4},
		{"ihl", f.IHL, 4},
		{"dscp", f.DSCP, 6},
		{"ecn", f.ECN, 2},
		{"identification", f.Identification, 16},
		{"flags", f.Flags, 3},
		{"fragment_offset", f.FragmentOffset, 13},
		{"ttl", f.TTL, 8},
		{"protocol", f.Protocol, 8},
	}
	for _, w := range widths {
		if err := checkUint(w.name, w.value, w.bits); err != nil {
			return err
		}
	}
	if err := checkBytes("src_addr", f.SrcAddr, ipv4AddrLen); err != nil {
		return err
	}
	if err := checkBytes("dst_addr", f.DstAddr, ipv4AddrLen); err != nil {
		return err
	}

	// In range but not something this encoder produces.
	if f.Version != ipv4.Version {
		return fmt.Errorf("version %d: %w", f.Version, core.ErrUnsupportedProto)
	}
	if f.IHL != ipv4MinIHL {
		return fmt.Errorf("ihl %d, options not supported: %w", f.IHL, core.ErrUnsupportedProto)
	}
	return nil
}
