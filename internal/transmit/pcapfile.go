package transmit

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"firestige.xyz/pktcraft/internal/config"
	"firestige.xyz/pktcraft/internal/core"
)

const (
	// pcapgo.Writer always writes little-endian, microsecond captures.
	pcapMagicMicroseconds = 0xA1B2C3D4
	pcapFileHeaderLen     = 24
)

func init() {
	Register("pcapfile", newPcapFileTransmitter)
}

// pcapFileTransmitter appends frames to a capture file instead of a wire.
// Useful for dry runs and for opening the result in Wireshark.
type pcapFileTransmitter struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	writer  *pcapgo.Writer
	snapLen int
	now     func() time.Time
}

func newPcapFileTransmitter(cfg config.TransmitConfig) (Transmitter, error) {
	f, err := os.OpenFile(cfg.PcapFile, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open capture file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat capture file: %w", err)
	}

	snapLen := cfg.SnapLen
	w := pcapgo.NewWriter(f)
	if info.Size() == 0 {
		if err := w.WriteFileHeader(uint32(snapLen), layers.LinkTypeEthernet); err != nil {
			f.Close()
			return nil, fmt.Errorf("write capture header: %w", err)
		}
	} else {
		// Appending: the records must match the header already on disk.
		existing, err := readCaptureSnapLen(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: %w", cfg.PcapFile, err)
		}
		snapLen = existing
	}

	return &pcapFileTransmitter{path: cfg.PcapFile, file: f, writer: w, snapLen: snapLen, now: time.Now}, nil
}

// readCaptureSnapLen checks that f starts with a header pcapgo.Writer could
// have written (little-endian microsecond pcap, Ethernet) and returns its snaplen.
func readCaptureSnapLen(f *os.File) (int, error) {
	var magic [4]byte
	if _, err := f.ReadAt(magic[:], 0); err != nil {
		return 0, fmt.Errorf("read capture header: %w", err)
	}
	if m := binary.LittleEndian.Uint32(magic[:]); m != pcapMagicMicroseconds {
		return 0, fmt.Errorf("not a little-endian microsecond pcap file (magic %08x)", m)
	}

	r, err := pcapgo.NewReader(io.NewSectionReader(f, 0, pcapFileHeaderLen))
	if err != nil {
		return 0, fmt.Errorf("read capture header: %w", err)
	}
	if lt := r.LinkType(); lt != layers.LinkTypeEthernet {
		return 0, fmt.Errorf("capture link type is %s, want %s", lt, layers.LinkTypeEthernet)
	}
	return int(r.Snaplen()), nil
}

func (t *pcapFileTransmitter) SendRawFrame(frame []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return 0, core.ErrTransmitterClosed
	}
	// A record longer than the header's snaplen makes the file unreadable.
	if len(frame) > t.snapLen {
		return 0, fmt.Errorf("write %s: %d-byte frame exceeds capture snaplen %d", t.path, len(frame), t.snapLen)
	}
	ci := gopacket.CaptureInfo{
		Timestamp:     t.now(),
		CaptureLength: len(frame),
		Length:        len(frame),
	}
	if err := t.writer.WritePacket(ci, frame); err != nil {
		return 0, fmt.Errorf("write %s: %w", t.path, err)
	}
	return len(frame), nil
}

func (t *pcapFileTransmitter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	return err
}
