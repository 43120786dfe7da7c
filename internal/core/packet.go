// Package core defines core data structures with zero external dependencies.
package core

// Frame is a fully built, length- and checksum-patched Ethernet + IPv4 frame.
// The header slices are owned by the Frame and must not be mutated after Forge.
type Frame struct {
	Ethernet    []byte // 14 bytes
	IPv4        []byte // 20 bytes, patched
	Payload     []byte // optional, not checksummed by the IPv4 header
	TotalLength uint16
	Checksum    uint16
}

// Len returns the on-wire frame length.
func (f *Frame) Len() int {
	return len(f.Ethernet) + len(f.IPv4) + len(f.Payload)
}

// Bytes returns a fresh copy of Ethernet, IPv4 and payload concatenated.
func (f *Frame) Bytes() []byte {
	out := make([]byte, 0, f.Len())
	out = append(out, f.Ethernet...)
	out = append(out, f.IPv4...)
	out = append(out, f.Payload...)
	return out
}
