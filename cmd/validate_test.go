package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/pktcraft/internal/core"
)

func TestRunValidate_YAML(t *testing.T) {
	profile := []byte(`
name: udp-lan
frame:
  ethernet:
    dst_mac: "ff:ff:ff:ff:ff:ff"
  ipv4:
    ttl: 64
    protocol: 17
    src_addr: 192.168.1.10
    dst_addr: 192.168.1.255
`)

	var buf bytes.Buffer
	require.NoError(t, runValidate(profile, "udp.yaml", &buf))
	assert.Contains(t, buf.String(), `VALID: Profile "udp-lan": 34-byte frame, UDP, checksum 0x`)
}

func TestRunValidate_JSONUsesFilename(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runValidate([]byte(`{"frame": {"ipv4": {"ttl": 1}}}`), "ttl1.json", &buf))
	assert.Contains(t, buf.String(), `VALID: Profile "ttl1.json": 34-byte frame, ICMP`)
}

func TestRunValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		profile string
		want    error
	}{
		{"ttl too wide", "frame:\n  ipv4:\n    ttl: 300\n", core.ErrInvalidFieldWidth},
		{"ipv6 address", "frame:\n  ipv4:\n    src_addr: \"::1\"\n", core.ErrInvalidFieldWidth},
		{"bad mac", "frame:\n  ethernet:\n    src_mac: nope\n", core.ErrConfigInvalid},
		{"unknown key", "frame:\n  ipv4:\n    hop_limit: 3\n", core.ErrConfigInvalid},
		{"no frame", "name: empty\n", core.ErrConfigInvalid},
		{"version 6", "frame:\n  ipv4:\n    version: 6\n", core.ErrUnsupportedProto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := runValidate([]byte(tt.profile), "p.yaml", &buf)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, buf.String())
		})
	}
}
