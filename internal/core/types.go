// Package core defines core types with zero external dependencies.
package core

// EthernetFields holds the field values of an Ethernet II header.
// MACs are byte slices so oversized input can be rejected instead of truncated.
type EthernetFields struct {
	DstMAC    []byte
	SrcMAC    []byte
	EtherType int // 0x0800=IPv4
}

// IPv4Fields holds the field values of an IPv4 header without options.
// Integer fields are wider than their wire width; the encoder validates them.
type IPv4Fields struct {
	Version        int // 4 bits
	IHL            int // 4 bits, 32-bit words
	DSCP           int // 6 bits
	ECN            int // 2 bits
	Identification int // 16 bits
	Flags          int // 3 bits: reserved, DF, MF
	FragmentOffset int // 13 bits
	TTL            int // 8 bits
	Protocol       int // 8 bits, IANA protocol number
	SrcAddr        []byte
	DstAddr        []byte
}

// FrameFields is everything needed to build one frame.
type FrameFields struct {
	Ethernet EthernetFields
	IPv4     IPv4Fields
}

// Defaults used when nothing else is configured.
const (
	DefaultEtherType = EtherTypeIPv4
	DefaultVersion   = 4
	DefaultIHL       = 5
	DefaultFlags     = FlagDontFragment
	DefaultTTL       = 10
	DefaultProtocol  = ProtocolICMP
)

// EtherType values.
const (
	EtherTypeIPv4 = 0x0800
	EtherTypeARP  = 0x0806
	EtherTypeVLAN = 0x8100
	EtherTypeIPv6 = 0x86DD
)

// IPv4 flag bits, as the 3-bit value shifted into the top of the flags/offset word.
const (
	FlagMoreFragments = 0x1
	FlagDontFragment  = 0x2
	FlagReserved      = 0x4
)

// DefaultFrameFields returns zero MACs, IPv4 EtherType, DF set, TTL 10,
// ICMP and 127.0.0.1 on both ends.
func DefaultFrameFields() FrameFields {
	return FrameFields{
		Ethernet: EthernetFields{
			DstMAC:    make([]byte, 6),
			SrcMAC:    make([]byte, 6),
			EtherType: DefaultEtherType,
		},
		IPv4: IPv4Fields{
			Version:  DefaultVersion,
			IHL:      DefaultIHL,
			Flags:    DefaultFlags,
			TTL:      DefaultTTL,
			Protocol: DefaultProtocol,
			SrcAddr:  []byte{127, 0, 0, 1},
			DstAddr:  []byte{127, 0, 0, 1},
		},
	}
}

// DecodedFrame is the inspector's view of an Ethernet + IPv4 frame.
type DecodedFrame struct {
	DstMAC    [6]byte
	SrcMAC    [6]byte
	VLANs     []uint16 // outer first
	EtherType uint16

	Version        uint8
	IHL            uint8
	DSCP           uint8
	ECN            uint8
	TotalLen       uint16
	Identification uint16
	Flags          uint8
	FragmentOffset uint16
	TTL            uint8
	Protocol       uint8
	Checksum       uint16
	SrcAddr        [4]byte
	DstAddr        [4]byte

	ChecksumValid bool
	Payload       []byte // bytes after the IPv4 header, zero-copy slice
}
