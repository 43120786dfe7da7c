package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/pktcraft/internal/core"
	"firestige.xyz/pktcraft/internal/core/decoder"
	"firestige.xyz/pktcraft/internal/forge"
)

func TestRunBuild_Defaults(t *testing.T) {
	var buf bytes.Buffer
	err := runBuild(core.DefaultFrameFields(), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "PACKET l2 [000E]:\n00 00 00 00 00 00 00 00 00 00 00 00 08 00\n")
	assert.Contains(t, out, "PACKET l3 [0014]:\n45 00 00 00 00 00 40 00 0A 01 00 00 7F 00 00 01 7F 00 00 01\n")
	assert.Contains(t, out, "Patch Total Length\n00 00\n00 14\n")
	assert.Contains(t, out, "checksum sum:      0x18D17\n")
	assert.Contains(t, out, "checksum folded:   0x8D18\n")
	assert.Contains(t, out, "one's complement:  0x72E7\n")
	assert.Contains(t, out, "Patch checksum\n00 00\n72 E7\n")
	assert.Contains(t, out, "IPv4 Header\n45 00 00 14 00 00 40 00 0A 01 72 E7 7F 00 00 01 7F 00 00 01\n")
	assert.Contains(t, out, "Frame [34 bytes]\n")
}

func TestRunBuild_InvalidField(t *testing.T) {
	fields := core.DefaultFrameFields()
	fields.IPv4.Protocol = 300

	var buf bytes.Buffer
	err := runBuild(fields, &buf)
	assert.ErrorIs(t, err, core.ErrInvalidFieldWidth)
	assert.Empty(t, buf.String(), "nothing printed for a rejected frame")
}

func TestRunBuild_MatchesForge(t *testing.T) {
	fields := core.DefaultFrameFields()
	fields.Ethernet.DstMAC = []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	fields.IPv4.TTL = 64
	fields.IPv4.Protocol = core.ProtocolUDP
	fields.IPv4.Identification = 0x1234
	fields.IPv4.SrcAddr = []byte{192, 168, 1, 10}
	fields.IPv4.DstAddr = []byte{192, 168, 1, 255}

	want, err := forge.Forge(fields)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, runBuild(fields, &buf))

	out := buf.String()
	assert.Contains(t, out, "IPv4 Header\n"+decoder.HexDump(want.IPv4)+"\n")
	assert.Contains(t, out, "Frame [34 bytes]\n"+decoder.HexDump(want.Bytes())+"\n")
}
