// Package transmit sends finished frames out of a raw network interface.
//
// Backends register themselves by name; Open picks one from configuration.
// Handles are owned by the caller and released with Close, or scoped with With.
package transmit

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/multierr"

	"firestige.xyz/pktcraft/internal/config"
	"firestige.xyz/pktcraft/internal/core"
)

// Transmitter writes complete link-layer frames to one interface.
type Transmitter interface {
	// SendRawFrame writes frame as-is and returns the bytes sent.
	SendRawFrame(frame []byte) (int, error)
	Close() error
}

// Constructor opens a backend from configuration.
type Constructor func(cfg config.TransmitConfig) (Transmitter, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Constructor)
)

// Register makes a backend available under name. Registering a name twice
// replaces the earlier constructor.
func Register(name string, constructor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = constructor
}

// Names lists registered backends in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open acquires the backend named by cfg.Type.
func Open(cfg config.TransmitConfig) (Transmitter, error) {
	registryMu.RLock()
	constructor, ok := registry[cfg.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", core.ErrTransmitterNotFound, cfg.Type, Names())
	}

	// Backends narrow SnapLen to int32/uint32; keep it in range here too.
	if cfg.SnapLen == 0 {
		cfg.SnapLen = config.DefaultSnapLen
	}
	if cfg.SnapLen < 0 || cfg.SnapLen > config.MaxSnapLen {
		return nil, fmt.Errorf("%w: snap_len %d out of range 1..%d", core.ErrConfigInvalid, cfg.SnapLen, config.MaxSnapLen)
	}

	tx, err := constructor(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", core.ErrTransmissionFailure, cfg.Type, err)
	}
	return tx, nil
}

// With opens a transmitter, runs fn and always closes it. A close failure is
// combined with fn's error.
func With(cfg config.TransmitConfig, fn func(Transmitter) error) (err error) {
	tx, err := Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, tx.Close())
	}()
	return fn(tx)
}
