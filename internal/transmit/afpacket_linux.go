package transmit

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/gopacket/afpacket"

	"firestige.xyz/pktcraft/internal/config"
	"firestige.xyz/pktcraft/internal/core"
	"firestige.xyz/pktcraft/internal/log"
)

func init() {
	Register("afpacket", newAFPacketTransmitter)
}

// afpacketTransmitter writes through a TPACKET_V3 socket bound to one
// interface. Its receive side is muted with a drop-all filter.
type afpacketTransmitter struct {
	mu     sync.Mutex
	iface  string
	handle *afpacket.TPacket
}

func newAFPacketTransmitter(cfg config.TransmitConfig) (Transmitter, error) {
	frameSize, blockSize, numBlocks, err := recomputeSize(txRingBufferSizeMB, cfg.SnapLen, os.Getpagesize())
	if err != nil {
		return nil, fmt.Errorf("afpacket ring size: %w", err)
	}

	handle, err := afpacket.NewTPacket(
		afpacket.OptInterface(cfg.Interface),
		afpacket.OptFrameSize(frameSize),
		afpacket.OptBlockSize(blockSize),
		afpacket.OptNumBlocks(numBlocks),
		afpacket.SocketRaw,
		afpacket.TPacketVersion3,
	)
	if err != nil {
		return nil, fmt.Errorf("afpacket open %s: %w", cfg.Interface, err)
	}

	filter, err := dropAllFilter()
	if err == nil {
		err = handle.SetBPF(filter)
	}
	if err != nil {
		handle.Close()
		return nil, fmt.Errorf("afpacket %s: set filter: %w", cfg.Interface, err)
	}

	log.GetLogger().WithField("interface", cfg.Interface).
		WithField("frame_size", frameSize).
		WithField("blocks", numBlocks).
		Debug("afpacket transmitter opened")

	return &afpacketTransmitter{iface: cfg.Interface, handle: handle}, nil
}

func (t *afpacketTransmitter) SendRawFrame(frame []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.handle == nil {
		return 0, core.ErrTransmitterClosed
	}
	if err := t.handle.WritePacketData(frame); err != nil {
		return 0, fmt.Errorf("afpacket write on %s: %w", t.iface, err)
	}
	return len(frame), nil
}

func (t *afpacketTransmitter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.handle == nil {
		return nil
	}
	t.handle.Close()
	t.handle = nil
	return nil
}
