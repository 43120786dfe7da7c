package transmit

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/pktcraft/internal/config"
	"firestige.xyz/pktcraft/internal/core"
)

var sampleFrame = []byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x08, 0x00,
	0x45, 0x00, 0x00, 0x14, 0x00, 0x00, 0x40, 0x00, 0x0A, 0x01, 0x72, 0xE7,
	0x7F, 0x00, 0x00, 0x01, 0x7F, 0x00, 0x00, 0x01,
}

func pcapFileConfig(t *testing.T) config.TransmitConfig {
	t.Helper()
	return config.TransmitConfig{
		Type:     "pcapfile",
		PcapFile: filepath.Join(t.TempDir(), "out.pcap"),
		SnapLen:  2048,
	}
}

func readCapture(t *testing.T, path string) [][]byte {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r, err := pcapgo.NewReader(f)
	require.NoError(t, err)
	assert.Equal(t, layers.LinkTypeEthernet, r.LinkType())

	var frames [][]byte
	for {
		data, _, err := r.ReadPacketData()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		frames = append(frames, data)
	}
	return frames
}

func TestPcapFileRoundTrip(t *testing.T) {
	cfg := pcapFileConfig(t)

	tx, err := Open(cfg)
	require.NoError(t, err)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tx.(*pcapFileTransmitter).now = func() time.Time { return fixed }

	n, err := tx.SendRawFrame(sampleFrame)
	require.NoError(t, err)
	assert.Equal(t, len(sampleFrame), n)
	require.NoError(t, tx.Close())

	frames := readCapture(t, cfg.PcapFile)
	require.Len(t, frames, 1)
	assert.Equal(t, sampleFrame, frames[0])
}

func TestPcapFileRejectsFrameAboveSnapLen(t *testing.T) {
	cfg := pcapFileConfig(t)
	cfg.SnapLen = 16

	err := With(cfg, func(tx Transmitter) error {
		n, err := tx.SendRawFrame(sampleFrame)
		assert.Zero(t, n)
		return err
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds capture snaplen 16")

	assert.Empty(t, readCapture(t, cfg.PcapFile), "file stays readable")
}

func writeCaptureHeader(t *testing.T, path string, snapLen uint32, lt layers.LinkType) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, pcapgo.NewWriter(f).WriteFileHeader(snapLen, lt))
}

func TestPcapFileHonoursExistingSnapLen(t *testing.T) {
	cfg := pcapFileConfig(t)
	writeCaptureHeader(t, cfg.PcapFile, 20, layers.LinkTypeEthernet)

	tx, err := Open(cfg)
	require.NoError(t, err)
	defer tx.Close()

	_, err = tx.SendRawFrame(sampleFrame)
	assert.ErrorContains(t, err, "exceeds capture snaplen 20")
	_, err = tx.SendRawFrame(sampleFrame[:20])
	assert.NoError(t, err)
}

func TestPcapFileRejectsIncompatibleFile(t *testing.T) {
	tests := []struct {
		name string
		seed func(t *testing.T, path string)
		want string
	}{
		{"text file", func(t *testing.T, path string) {
			require.NoError(t, os.WriteFile(path, []byte("hello world\n"), 0o644))
		}, "not a little-endian microsecond pcap"},
		{"short file", func(t *testing.T, path string) {
			require.NoError(t, os.WriteFile(path, []byte{0xD4, 0xC3}, 0o644))
		}, "read capture header"},
		{"raw ip link type", func(t *testing.T, path string) {
			writeCaptureHeader(t, path, 2048, layers.LinkTypeRaw)
		}, "link type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := pcapFileConfig(t)
			tt.seed(t, cfg.PcapFile)
			before, err := os.ReadFile(cfg.PcapFile)
			require.NoError(t, err)

			_, err = Open(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrTransmissionFailure)
			assert.Contains(t, err.Error(), tt.want)

			after, err := os.ReadFile(cfg.PcapFile)
			require.NoError(t, err)
			assert.Equal(t, before, after, "file left untouched")
		})
	}
}

func TestPcapFileAppendsToExistingCapture(t *testing.T) {
	cfg := pcapFileConfig(t)

	for i := 0; i < 2; i++ {
		err := With(cfg, func(tx Transmitter) error {
			_, err := tx.SendRawFrame(sampleFrame)
			return err
		})
		require.NoError(t, err)
	}

	frames := readCapture(t, cfg.PcapFile)
	assert.Len(t, frames, 2)
}

func TestPcapFileClose(t *testing.T) {
	tx, err := Open(pcapFileConfig(t))
	require.NoError(t, err)

	require.NoError(t, tx.Close())
	assert.NoError(t, tx.Close(), "second close is a no-op")

	_, err = tx.SendRawFrame(sampleFrame)
	assert.ErrorIs(t, err, core.ErrTransmitterClosed)
}

func TestPcapFileOpenFailure(t *testing.T) {
	cfg := config.TransmitConfig{
		Type:     "pcapfile",
		PcapFile: filepath.Join(t.TempDir(), "missing", "dir", "out.pcap"),
		SnapLen:  2048,
	}
	_, err := Open(cfg)
	assert.ErrorIs(t, err, core.ErrTransmissionFailure)
}
