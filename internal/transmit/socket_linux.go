package transmit

import (
	"fmt"
	"net"
	"sync"

	"golang.org/x/sys/unix"

	"firestige.xyz/pktcraft/internal/config"
	"firestige.xyz/pktcraft/internal/core"
)

func init() {
	Register("socket", newSocketTransmitter)
}

// socketTransmitter is a plain AF_PACKET/SOCK_RAW socket. Protocol 0 means
// the kernel delivers nothing to it, so no filter is needed.
type socketTransmitter struct {
	mu    sync.Mutex
	iface string
	fd    int
	addr  *unix.SockaddrLinklayer
}

func newSocketTransmitter(cfg config.TransmitConfig) (Transmitter, error) {
	ifi, err := net.InterfaceByName(cfg.Interface)
	if err != nil {
		return nil, fmt.Errorf("lookup interface %s: %w", cfg.Interface, err)
	}

	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_RAW|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}

	addr := &unix.SockaddrLinklayer{Ifindex: ifi.Index}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bind %s: %w", cfg.Interface, err)
	}

	return &socketTransmitter{iface: cfg.Interface, fd: fd, addr: addr}, nil
}

func (t *socketTransmitter) SendRawFrame(frame []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fd < 0 {
		return 0, core.ErrTransmitterClosed
	}
	if err := unix.Sendto(t.fd, frame, 0, t.addr); err != nil {
		return 0, fmt.Errorf("sendto %s: %w", t.iface, err)
	}
	return len(frame), nil
}

func (t *socketTransmitter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fd < 0 {
		return nil
	}
	err := unix.Close(t.fd)
	t.fd = -1
	if err != nil {
		return fmt.Errorf("close socket on %s: %w", t.iface, err)
	}
	return nil
}
