// Package decoder turns raw Ethernet + IPv4 frames back into fields for inspection.
package decoder

import (
	"fmt"
	"net"
	"strings"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"firestige.xyz/pktcraft/internal/core"
)

// Decode parses an Ethernet II frame carrying an IPv4 header and checks the
// header checksum.
func Decode(data []byte) (core.DecodedFrame, error) {
	var df core.DecodedFrame

	payload, err := decodeEthernet(data, &df)
	if err != nil {
		return df, fmt.Errorf("decode ethernet: %w", err)
	}
	if df.EtherType != etherTypeIPv4 {
		return df, fmt.Errorf("ethertype 0x%04X: %w", df.EtherType, core.ErrUnsupportedProto)
	}
	if err := decodeIPv4(payload, &df); err != nil {
		return df, fmt.Errorf("decode ipv4: %w", err)
	}
	return df, nil
}

// Describe renders every decoded field, one per line.
func Describe(df core.DecodedFrame) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ethernet:\n")
	fmt.Fprintf(&sb, "  dst mac:         %s\n", net.HardwareAddr(df.DstMAC[:]))
	fmt.Fprintf(&sb, "  src mac:         %s\n", net.HardwareAddr(df.SrcMAC[:]))
	for _, vlan := range df.VLANs {
		fmt.Fprintf(&sb, "  vlan:            %d\n", vlan)
	}
	fmt.Fprintf(&sb, "  ether type:      0x%04X\n", df.EtherType)
	fmt.Fprintf(&sb, "ipv4:\n")
	fmt.Fprintf(&sb, "  version:         %d\n", df.Version)
	fmt.Fprintf(&sb, "  ihl:             %d (%d bytes)\n", df.IHL, int(df.IHL)*4)
	fmt.Fprintf(&sb, "  dscp/ecn:        %d/%d\n", df.DSCP, df.ECN)
	fmt.Fprintf(&sb, "  total length:    %d\n", df.TotalLen)
	fmt.Fprintf(&sb, "  identification:  0x%04X\n", df.Identification)
	fmt.Fprintf(&sb, "  flags:           %03b\n", df.Flags)
	fmt.Fprintf(&sb, "  fragment offset: %d\n", df.FragmentOffset)
	fmt.Fprintf(&sb, "  ttl:             %d\n", df.TTL)
	fmt.Fprintf(&sb, "  protocol:        %d (%s)\n", df.Protocol, core.ProtocolName(int(df.Protocol)))
	valid := "valid"
	if !df.ChecksumValid {
		valid = "INVALID"
	}
	fmt.Fprintf(&sb, "  checksum:        0x%04X (%s)\n", df.Checksum, valid)
	fmt.Fprintf(&sb, "  src addr:        %s\n", net.IP(df.SrcAddr[:]))
	fmt.Fprintf(&sb, "  dst addr:        %s\n", net.IP(df.DstAddr[:]))
	return sb.String()
}

// HexDump renders b as uppercase hex pairs separated by single spaces.
func HexDump(b []byte) string {
	var sb strings.Builder
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", c)
	}
	return sb.String()
}

// LayerSummary decodes data independently with gopacket and lists the
// layer names it found, followed by any decode failure.
func LayerSummary(data []byte) []string {
	packet := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.Default)

	var names []string
	for _, l := range packet.Layers() {
		names = append(names, l.LayerType().String())
	}
	if errLayer := packet.ErrorLayer(); errLayer != nil {
		names = append(names, "error: "+errLayer.Error().Error())
	}
	return names
}
