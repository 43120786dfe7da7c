package core

import "strconv"

// IANA protocol numbers pktcraft knows by name.
const (
	ProtocolICMP   = 1
	ProtocolIGMP   = 2
	ProtocolTCP    = 6
	ProtocolUDP    = 17
	ProtocolGRE    = 47
	ProtocolESP    = 50
	ProtocolAH     = 51
	ProtocolICMPv6 = 58
	ProtocolSCTP   = 132
)

var protocolNames = map[int]string{
	ProtocolICMP:   "ICMP",
	ProtocolIGMP:   "IGMP",
	ProtocolTCP:    "TCP",
	ProtocolUDP:    "UDP",
	ProtocolGRE:    "GRE",
	ProtocolESP:    "ESP",
	ProtocolAH:     "AH",
	ProtocolICMPv6: "ICMPv6",
	ProtocolSCTP:   "SCTP",
}

// ProtocolName returns the IANA short name, or "proto-N" for unknown numbers.
func ProtocolName(p int) string {
	if name, ok := protocolNames[p]; ok {
		return name
	}
	return "proto-" + strconv.Itoa(p)
}
