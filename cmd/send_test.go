package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"firestige.xyz/pktcraft/internal/config"
	"firestige.xyz/pktcraft/internal/core"
	"firestige.xyz/pktcraft/internal/forge"
)

// MockTransmitter is a mock implementation of transmit.Transmitter
type MockTransmitter struct {
	mock.Mock
}

func (m *MockTransmitter) SendRawFrame(frame []byte) (int, error) {
	args := m.Called(frame)
	return args.Int(0), args.Error(1)
}

func (m *MockTransmitter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func defaultFrame(t *testing.T) *core.Frame {
	t.Helper()
	frame, err := forge.Forge(core.DefaultFrameFields())
	require.NoError(t, err)
	return frame
}

func TestSendFrame_Success(t *testing.T) {
	frame := defaultFrame(t)
	mockTx := new(MockTransmitter)
	mockTx.On("SendRawFrame", frame.Bytes()).Return(34, nil).Once()

	var buf bytes.Buffer
	err := sendFrame(mockTx, frame, "lo [afpacket]", &buf)

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ Sent 34 bytes to lo [afpacket] (checksum 0x72E7)")
	mockTx.AssertExpectations(t)
}

func TestSendFrame_PermissionDenied(t *testing.T) {
	frame := defaultFrame(t)
	mockTx := new(MockTransmitter)
	mockTx.On("SendRawFrame", mock.Anything).Return(0, errors.New("operation not permitted")).Once()

	var buf bytes.Buffer
	err := sendFrame(mockTx, frame, "eth0 [socket]", &buf)

	assert.ErrorIs(t, err, core.ErrTransmissionFailure)
	assert.Contains(t, err.Error(), "operation not permitted")
	assert.Empty(t, buf.String())
	mockTx.AssertNumberOfCalls(t, "SendRawFrame", 1)
}

func TestRunSend_PcapFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.pcap")
	cfg := &config.GlobalConfig{
		Transmit: config.TransmitConfig{Type: "pcapfile", PcapFile: out, SnapLen: 2048},
		Frame:    config.DefaultFrameConfig(),
	}

	var buf bytes.Buffer
	require.NoError(t, runSend(cfg, &buf))
	assert.Contains(t, buf.String(), "✓ Sent 34 bytes to "+out+" [pcapfile]")

	info, err := os.Stat(out)
	require.NoError(t, err)
	// global header + record header + frame
	assert.Equal(t, int64(24+16+34), info.Size())
}

func TestRunSend_PcapFileFailures(t *testing.T) {
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("hello world\n"), 0o644))

	tests := []struct {
		name     string
		transmit config.TransmitConfig
	}{
		{"frame above snaplen", config.TransmitConfig{Type: "pcapfile", PcapFile: filepath.Join(dir, "small.pcap"), SnapLen: 16}},
		{"existing non-pcap file", config.TransmitConfig{Type: "pcapfile", PcapFile: notes, SnapLen: 2048}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.GlobalConfig{Transmit: tt.transmit, Frame: config.DefaultFrameConfig()}

			var buf bytes.Buffer
			err := runSend(cfg, &buf)
			assert.ErrorIs(t, err, core.ErrTransmissionFailure)
			assert.Empty(t, buf.String(), "no success report")
		})
	}

	data, err := os.ReadFile(notes)
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", string(data))
}

func TestRunSend_InvalidFrame(t *testing.T) {
	cfg := &config.GlobalConfig{
		Transmit: config.TransmitConfig{Type: "pcapfile", PcapFile: filepath.Join(t.TempDir(), "x.pcap")},
		Frame:    config.DefaultFrameConfig(),
	}
	cfg.Frame.IPv4.DstAddr = "::1"

	err := runSend(cfg, &bytes.Buffer{})
	assert.ErrorIs(t, err, core.ErrInvalidFieldWidth)
	_, statErr := os.Stat(cfg.Transmit.PcapFile)
	assert.True(t, os.IsNotExist(statErr), "transmitter is not opened for a rejected frame")
}

func TestRunSend_UnknownBackend(t *testing.T) {
	cfg := &config.GlobalConfig{
		Transmit: config.TransmitConfig{Type: "tap", Interface: "tap0"},
		Frame:    config.DefaultFrameConfig(),
	}

	err := runSend(cfg, &bytes.Buffer{})
	assert.ErrorIs(t, err, core.ErrTransmitterNotFound)
}

func TestDescribeTarget(t *testing.T) {
	assert.Equal(t, "eth0 [socket]", describeTarget(config.TransmitConfig{Type: "socket", Interface: "eth0"}))
	assert.Equal(t, "a.pcap [pcapfile]", describeTarget(config.TransmitConfig{Type: "pcapfile", PcapFile: "a.pcap", Interface: "lo"}))
}
