package transmit

import (
	"fmt"
)

const (
	// A send-only handle still gets an RX ring; keep it small.
	txRingBufferSizeMB = 1

	tpacketAlignment = 16 // TPACKET_ALIGNMENT
	// TPACKET3_HDRLEN: TPACKET_ALIGN(sizeof(struct tpacket3_hdr)) + sizeof(struct sockaddr_ll)
	tpacketHdrLen = 48 + 20
	maxBlockSize  = 4 * 1024 * 1024
)

// recomputeSize picks frame size, block size and block count for an
// AF_PACKET ring of about ringBufferSizeMB:
//
//   - frameSize is a multiple of TPACKET_ALIGNMENT
//   - blockSize is a multiple of both pageSize and frameSize
//   - blockSize * numBlocks approximates the target
func recomputeSize(ringBufferSizeMB, snapLen, pageSize int) (frameSize, blockSize, numBlocks int, err error) {
	if ringBufferSizeMB <= 0 {
		return 0, 0, 0, fmt.Errorf("ringBufferSizeMB must be positive, got %d", ringBufferSizeMB)
	}
	if snapLen <= 0 {
		return 0, 0, 0, fmt.Errorf("snapLen must be positive, got %d", snapLen)
	}
	if pageSize <= 0 || pageSize%tpacketAlignment != 0 {
		return 0, 0, 0, fmt.Errorf("pageSize must be positive and multiple of %d, got %d", tpacketAlignment, pageSize)
	}

	frameSize = alignUp(tpacketHdrLen+snapLen, tpacketAlignment)

	blockSize = lcm(pageSize, frameSize)
	if blockSize > maxBlockSize {
		return 0, 0, 0, fmt.Errorf("snapLen %d needs a %d byte block, above the %d byte limit", snapLen, blockSize, maxBlockSize)
	}

	numBlocks = ringBufferSizeMB * 1024 * 1024 / blockSize
	if numBlocks < 1 {
		numBlocks = 1
	}
	return frameSize, blockSize, numBlocks, nil
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}

// gcd computes the greatest common divisor of two integers
func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// lcm computes the least common multiple of two integers
func lcm(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return a / gcd(a, b) * b
}
