package transmit

import (
	"fmt"

	"github.com/google/gopacket/pcap"
	"golang.org/x/net/bpf"
)

// dropAllFilter assembles a classic BPF program that accepts nothing, so a
// send-only socket bound to ETH_P_ALL never queues inbound frames.
func dropAllFilter() ([]bpf.RawInstruction, error) {
	raw, err := bpf.Assemble([]bpf.Instruction{
		bpf.RetConstant{Val: 0},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assemble drop-all filter: %w", err)
	}
	return raw, nil
}

// toPcapInstructions converts assembled instructions for a libpcap handle.
func toPcapInstructions(raw []bpf.RawInstruction) []pcap.BPFInstruction {
	out := make([]pcap.BPFInstruction, len(raw))
	for i, ins := range raw {
		out[i] = pcap.BPFInstruction{Code: ins.Op, Jt: ins.Jt, Jf: ins.Jf, K: ins.K}
	}
	return out
}
