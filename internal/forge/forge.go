// Package forge turns frame field values into a patched, ready-to-send frame.
package forge

import (
	"fmt"

	"firestige.xyz/pktcraft/internal/core"
	"firestige.xyz/pktcraft/internal/core/checksum"
	"firestige.xyz/pktcraft/internal/core/encoder"
	"firestige.xyz/pktcraft/internal/log"
	"firestige.xyz/pktcraft/internal/transmit"
)

// Forge encodes both headers, patches totalLength and then the checksum.
// On error no frame is returned.
func Forge(fields core.FrameFields) (*core.Frame, error) {
	return ForgeWithPayload(fields, nil)
}

// ForgeWithPayload is Forge with payload bytes after the IPv4 header. The
// payload counts toward totalLength but is not covered by the header checksum.
func ForgeWithPayload(fields core.FrameFields, payload []byte) (*core.Frame, error) {
	eth, ip, err := encoder.Encode(fields)
	if err != nil {
		return nil, err
	}

	total, err := checksum.PatchTotalLength(ip, len(payload))
	if err != nil {
		return nil, fmt.Errorf("patch ipv4: %w", err)
	}
	ck, err := checksum.PatchChecksum(ip)
	if err != nil {
		return nil, fmt.Errorf("patch ipv4: %w", err)
	}

	frame := &core.Frame{
		Ethernet:    eth,
		IPv4:        ip,
		TotalLength: total,
		Checksum:    ck,
	}
	if len(payload) > 0 {
		frame.Payload = append([]byte(nil), payload...)
	}

	log.GetLogger().WithFields(map[string]interface{}{
		"total_length": total,
		"checksum":     fmt.Sprintf("0x%04X", ck),
		"protocol":     core.ProtocolName(fields.IPv4.Protocol),
		"frame_len":    frame.Len(),
	}).Debug("frame forged")

	return frame, nil
}

// Send hands the frame to tx exactly once. A short write is a failure.
func Send(tx transmit.Transmitter, frame *core.Frame) (int, error) {
	data := frame.Bytes()
	n, err := tx.SendRawFrame(data)
	if err != nil {
		return n, fmt.Errorf("%w: %w", core.ErrTransmissionFailure, err)
	}
	if n != len(data) {
		return n, fmt.Errorf("%w: short write, sent %d of %d bytes", core.ErrTransmissionFailure, n, len(data))
	}

	log.GetLogger().WithField("bytes", n).Debug("frame sent")
	return n, nil
}
