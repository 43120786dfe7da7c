// Package config handles configuration loading using viper.
package config

import (
	"fmt"
	"net"
	"net/netip"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"firestige.xyz/pktcraft/internal/core"
)

// GlobalConfig represents the top-level configuration.
// Maps to the `pktcraft:` root key in YAML.
type GlobalConfig struct {
	Log      LogConfig      `mapstructure:"log"`
	Transmit TransmitConfig `mapstructure:"transmit"`
	Frame    FrameConfig    `mapstructure:"frame"`
}

// ─── Log ───

// LogConfig contains logging settings.
type LogConfig struct {
	Level      string           `mapstructure:"level"`       // debug / info / warn / error
	Format     string           `mapstructure:"format"`      // json / text / pattern
	Pattern    string           `mapstructure:"pattern"`     // only for format=pattern
	TimeFormat string           `mapstructure:"time_format"` // Go layout
	Outputs    LogOutputsConfig `mapstructure:"outputs"`
}

// LogOutputsConfig contains log output destinations besides stdout.
type LogOutputsConfig struct {
	File FileOutputConfig `mapstructure:"file"`
}

// FileOutputConfig configures file log output.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`  // MB
	MaxAgeDays int  `mapstructure:"max_age_days"` // Days
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
}

// ─── Transmit ───

const (
	// DefaultSnapLen is the snapshot length used when snap_len is unset.
	DefaultSnapLen = 2048
	// MaxSnapLen is the largest snapshot length: one maximum-size IPv4 packet.
	MaxSnapLen = 65535
)

// TransmitConfig selects and configures the transmitter backend.
type TransmitConfig struct {
	Type      string `mapstructure:"type"`      // afpacket | socket | pcap | pcapfile
	Interface string `mapstructure:"interface"` // lo / eth0
	PcapFile  string `mapstructure:"pcap_file"` // pcapfile output path
	SnapLen   int    `mapstructure:"snap_len"`
}

// ─── Frame ───

// FrameConfig holds frame fields in their human-readable form.
type FrameConfig struct {
	Ethernet EthernetConfig `mapstructure:"ethernet"`
	IPv4     IPv4Config     `mapstructure:"ipv4"`
}

// EthernetConfig holds the Ethernet header fields.
type EthernetConfig struct {
	DstMAC    string `mapstructure:"dst_mac"`
	SrcMAC    string `mapstructure:"src_mac"`
	EtherType int    `mapstructure:"ether_type"`
}

// IPv4Config holds the IPv4 header fields.
type IPv4Config struct {
	Version        int    `mapstructure:"version"`
	IHL            int    `mapstructure:"ihl"`
	DSCP           int    `mapstructure:"dscp"`
	ECN            int    `mapstructure:"ecn"`
	Identification int    `mapstructure:"identification"`
	Flags          int    `mapstructure:"flags"`
	FragmentOffset int    `mapstructure:"fragment_offset"`
	TTL            int    `mapstructure:"ttl"`
	Protocol       int    `mapstructure:"protocol"`
	SrcAddr        string `mapstructure:"src_addr"`
	DstAddr        string `mapstructure:"dst_addr"`
}

// DefaultFrameConfig mirrors core.DefaultFrameFields.
func DefaultFrameConfig() FrameConfig {
	return FrameConfig{
		Ethernet: EthernetConfig{
			DstMAC:    "00:00:00:00:00:00",
			SrcMAC:    "00:00:00:00:00:00",
			EtherType: core.DefaultEtherType,
		},
		IPv4: IPv4Config{
			Version:  core.DefaultVersion,
			IHL:      core.DefaultIHL,
			Flags:    core.DefaultFlags,
			TTL:      core.DefaultTTL,
			Protocol: core.DefaultProtocol,
			SrcAddr:  "127.0.0.1",
			DstAddr:  "127.0.0.1",
		},
	}
}

// ToFields parses MACs and addresses. Width checks are left to the encoder,
// so a 16-byte address or an EUI-64 MAC surfaces as ErrInvalidFieldWidth there.
func (fc FrameConfig) ToFields() (core.FrameFields, error) {
	dst, err := net.ParseMAC(fc.Ethernet.DstMAC)
	if err != nil {
		return core.FrameFields{}, fmt.Errorf("%w: ethernet.dst_mac: %v", core.ErrConfigInvalid, err)
	}
	src, err := net.ParseMAC(fc.Ethernet.SrcMAC)
	if err != nil {
		return core.FrameFields{}, fmt.Errorf("%w: ethernet.src_mac: %v", core.ErrConfigInvalid, err)
	}
	srcAddr, err := netip.ParseAddr(fc.IPv4.SrcAddr)
	if err != nil {
		return core.FrameFields{}, fmt.Errorf("%w: ipv4.src_addr: %v", core.ErrConfigInvalid, err)
	}
	dstAddr, err := netip.ParseAddr(fc.IPv4.DstAddr)
	if err != nil {
		return core.FrameFields{}, fmt.Errorf("%w: ipv4.dst_addr: %v", core.ErrConfigInvalid, err)
	}

	return core.FrameFields{
		Ethernet: core.EthernetFields{
			DstMAC:    dst,
			SrcMAC:    src,
			EtherType: fc.Ethernet.EtherType,
		},
		IPv4: core.IPv4Fields{
			Version:        fc.IPv4.Version,
			IHL:            fc.IPv4.IHL,
			DSCP:           fc.IPv4.DSCP,
			ECN:            fc.IPv4.ECN,
			Identification: fc.IPv4.Identification,
			Flags:          fc.IPv4.Flags,
			FragmentOffset: fc.IPv4.FragmentOffset,
			TTL:            fc.IPv4.TTL,
			Protocol:       fc.IPv4.Protocol,
			SrcAddr:        srcAddr.AsSlice(),
			DstAddr:        dstAddr.AsSlice(),
		},
	}, nil
}

// ─── Loading ───

// configRoot is the top-level wrapper matching the YAML structure `pktcraft: ...`.
type configRoot struct {
	Pktcraft GlobalConfig `mapstructure:"pktcraft"`
}

// flagBindings maps CLI flag names to config keys. Only flags present in the
// flag set passed to Load are bound.
var flagBindings = map[string]string{
	"log-level":  "pktcraft.log.level",
	"type":       "pktcraft.transmit.type",
	"interface":  "pktcraft.transmit.interface",
	"pcap-file":  "pktcraft.transmit.pcap_file",
	"dst-mac":    "pktcraft.frame.ethernet.dst_mac",
	"src-mac":    "pktcraft.frame.ethernet.src_mac",
	"ether-type": "pktcraft.frame.ethernet.ether_type",
	"id":         "pktcraft.frame.ipv4.identification",
	"ttl":        "pktcraft.frame.ipv4.ttl",
	"protocol":   "pktcraft.frame.ipv4.protocol",
	"src":        "pktcraft.frame.ipv4.src_addr",
	"dst":        "pktcraft.frame.ipv4.dst_addr",
}

// Load loads configuration. An empty path means defaults plus environment.
// The YAML file uses `pktcraft:` as root key; env vars use the PKTCRAFT_ prefix
// (e.g., PKTCRAFT_FRAME_IPV4_TTL). Changed flags in fs win over everything.
func Load(path string, fs *pflag.FlagSet) (*GlobalConfig, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Key "pktcraft.log.level" maps to env "PKTCRAFT_LOG_LEVEL".
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if fs != nil {
		for name, key := range flagBindings {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Pktcraft

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration.
// All keys use "pktcraft." prefix to match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("pktcraft.log.level", "info")
	v.SetDefault("pktcraft.log.format", "text")
	v.SetDefault("pktcraft.log.pattern", "%time [%level] %msg %field%n")
	v.SetDefault("pktcraft.log.time_format", "2006-01-02 15:04:05")
	v.SetDefault("pktcraft.log.outputs.file.enabled", false)
	v.SetDefault("pktcraft.log.outputs.file.path", "/var/log/pktcraft/pktcraft.log")
	v.SetDefault("pktcraft.log.outputs.file.rotation.max_size_mb", 100)
	v.SetDefault("pktcraft.log.outputs.file.rotation.max_age_days", 30)
	v.SetDefault("pktcraft.log.outputs.file.rotation.max_backups", 5)
	v.SetDefault("pktcraft.log.outputs.file.rotation.compress", true)

	// Transmit defaults
	v.SetDefault("pktcraft.transmit.type", "afpacket")
	v.SetDefault("pktcraft.transmit.interface", "lo")
	v.SetDefault("pktcraft.transmit.pcap_file", "pktcraft.pcap")
	v.SetDefault("pktcraft.transmit.snap_len", DefaultSnapLen)

	// Frame defaults
	fc := DefaultFrameConfig()
	v.SetDefault("pktcraft.frame.ethernet.dst_mac", fc.Ethernet.DstMAC)
	v.SetDefault("pktcraft.frame.ethernet.src_mac", fc.Ethernet.SrcMAC)
	v.SetDefault("pktcraft.frame.ethernet.ether_type", fc.Ethernet.EtherType)
	v.SetDefault("pktcraft.frame.ipv4.version", fc.IPv4.Version)
	v.SetDefault("pktcraft.frame.ipv4.ihl", fc.IPv4.IHL)
	v.SetDefault("pktcraft.frame.ipv4.dscp", fc.IPv4.DSCP)
	v.SetDefault("pktcraft.frame.ipv4.ecn", fc.IPv4.ECN)
	v.SetDefault("pktcraft.frame.ipv4.identification", fc.IPv4.Identification)
	v.SetDefault("pktcraft.frame.ipv4.flags", fc.IPv4.Flags)
	v.SetDefault("pktcraft.frame.ipv4.fragment_offset", fc.IPv4.FragmentOffset)
	v.SetDefault("pktcraft.frame.ipv4.ttl", fc.IPv4.TTL)
	v.SetDefault("pktcraft.frame.ipv4.protocol", fc.IPv4.Protocol)
	v.SetDefault("pktcraft.frame.ipv4.src_addr", fc.IPv4.SrcAddr)
	v.SetDefault("pktcraft.frame.ipv4.dst_addr", fc.IPv4.DstAddr)
}

// ValidateAndApplyDefaults validates configuration and applies runtime defaults.
func (cfg *GlobalConfig) ValidateAndApplyDefaults() error {
	// ── Log validation ──
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("%w: invalid log level: %s (must be debug/info/warn/error)", core.ErrConfigInvalid, cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "json", "text":
	case "pattern":
		if cfg.Log.Pattern == "" {
			return fmt.Errorf("%w: log.pattern is required when log.format=pattern", core.ErrConfigInvalid)
		}
	default:
		return fmt.Errorf("%w: invalid log format: %s (must be json/text/pattern)", core.ErrConfigInvalid, cfg.Log.Format)
	}
	if cfg.Log.Outputs.File.Enabled && cfg.Log.Outputs.File.Path == "" {
		return fmt.Errorf("%w: log.outputs.file.path is required when file output is enabled", core.ErrConfigInvalid)
	}

	// ── Transmit validation ──
	if cfg.Transmit.Type == "" {
		return fmt.Errorf("%w: transmit.type is required", core.ErrConfigInvalid)
	}
	if cfg.Transmit.Type == "pcapfile" {
		if cfg.Transmit.PcapFile == "" {
			return fmt.Errorf("%w: transmit.pcap_file is required for type pcapfile", core.ErrConfigInvalid)
		}
	} else if cfg.Transmit.Interface == "" {
		return fmt.Errorf("%w: transmit.interface is required for type %s", core.ErrConfigInvalid, cfg.Transmit.Type)
	}
	if cfg.Transmit.SnapLen > MaxSnapLen {
		return fmt.Errorf("%w: transmit.snap_len %d exceeds %d", core.ErrConfigInvalid, cfg.Transmit.SnapLen, MaxSnapLen)
	}
	if cfg.Transmit.SnapLen <= 0 {
		cfg.Transmit.SnapLen = DefaultSnapLen
	}

	return nil
}
