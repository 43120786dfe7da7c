package transmit

import (
	"fmt"
	"sync"

	"github.com/google/gopacket/pcap"

	"firestige.xyz/pktcraft/internal/config"
	"firestige.xyz/pktcraft/internal/core"
)

func init() {
	Register("pcap", newPcapTransmitter)
}

// pcapTransmitter injects frames through a live libpcap handle.
type pcapTransmitter struct {
	mu     sync.Mutex
	iface  string
	handle *pcap.Handle
}

func newPcapTransmitter(cfg config.TransmitConfig) (Transmitter, error) {
	handle, err := pcap.OpenLive(cfg.Interface, int32(cfg.SnapLen), false, pcap.BlockForever)
	if err != nil {
		return nil, fmt.Errorf("pcap open %s: %w", cfg.Interface, err)
	}

	filter, err := dropAllFilter()
	if err == nil {
		err = handle.SetBPFInstructionFilter(toPcapInstructions(filter))
	}
	if err != nil {
		handle.Close()
		return nil, fmt.Errorf("pcap %s: set filter: %w", cfg.Interface, err)
	}

	return &pcapTransmitter{iface: cfg.Interface, handle: handle}, nil
}

func (t *pcapTransmitter) SendRawFrame(frame []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.handle == nil {
		return 0, core.ErrTransmitterClosed
	}
	if err := t.handle.WritePacketData(frame); err != nil {
		return 0, fmt.Errorf("pcap inject on %s: %w", t.iface, err)
	}
	return len(frame), nil
}

func (t *pcapTransmitter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.handle != nil {
		t.handle.Close()
		t.handle = nil
	}
	return nil
}
