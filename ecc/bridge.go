package ecc

import (
	mathbits "math/bits"

	"github.com/elxr-labs/go-elxr-ecc/utils/fast"
)

// Bridge tier: block repetition with per-block checksums, reconstructed by
// per-byte majority vote. Designed for the classical-quantum interface,
// where whole blocks are expected to be lost or garbled.
//
// Frame layout:
//
//	[ 0xB7 ][ R ][ V ][ R x (payload ++ checksum byte) ][ 0xE8 ]
//
// R is the redundancy level, V the verification-iteration count (stored for
// protocol symmetry, not consumed by this tier). The checksum is a single
// rolling byte: add, then rotate left by one.

const (
	bridgeHeaderMarker  = 0xB7
	bridgeTrailerMarker = 0xE8

	minBridgeParam = 1
	maxBridgeParam = 5
)

// BridgeCorrection is the repetition codec. Both parameters are fixed at
// construction time; the redundancy level is embedded in every frame.
type BridgeCorrection struct {
	redundancyLevel        uint8
	verificationIterations uint8
}

// NewBridge creates a bridge codec with triple redundancy and two
// verification passes.
func NewBridge() *BridgeCorrection {
	return &BridgeCorrection{
		redundancyLevel:        3,
		verificationIterations: 2,
	}
}

// BridgeWithParams creates a bridge codec with custom parameters, each
// clamped to [1, 5].
func BridgeWithParams(redundancyLevel, verificationIterations uint8) *BridgeCorrection {
	return &BridgeCorrection{
		redundancyLevel:        clampBridgeParam(redundancyLevel),
		verificationIterations: clampBridgeParam(verificationIterations),
	}
}

func clampBridgeParam(v uint8) uint8 {
	if v < minBridgeParam {
		return minBridgeParam
	}
	if v > maxBridgeParam {
		return maxBridgeParam
	}
	return v
}

// bridgeChecksum computes the rolling block checksum: acc = rotl1(acc + b).
func bridgeChecksum(data []byte) byte {
	var acc byte
	for _, b := range data {
		acc = mathbits.RotateLeft8(acc+b, 1)
	}
	return acc
}

// Encode repeats the payload redundancyLevel times, each copy followed by
// its checksum byte.
func (b *BridgeCorrection) Encode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrInvalidData
	}

	r := int(b.redundancyLevel)
	w := fast.NewWriter(make([]byte, 0, 3+r*(len(data)+1)+1))
	w.WriteByte(bridgeHeaderMarker)
	w.WriteByte(b.redundancyLevel)
	w.WriteByte(b.verificationIterations)

	sum := bridgeChecksum(data)
	for i := 0; i < r; i++ {
		w.Write(data)
		w.WriteByte(sum)
	}

	w.WriteByte(bridgeTrailerMarker)
	return w.Bytes(), nil
}

// Decode verifies each repetition's checksum and reconstructs the payload
// byte-by-byte from the surviving copies. The redundancy level is read from
// the frame header, never from the instance.
func (b *BridgeCorrection) Decode(data []byte) ([]byte, error) {
	if len(data) < 5 || data[0] != bridgeHeaderMarker || data[len(data)-1] != bridgeTrailerMarker {
		return nil, ErrInvalidData
	}

	r := fast.NewReader(data)
	_ = r.ReadByte() // header marker
	redundancyLevel := int(r.ReadByte())
	_ = r.ReadByte() // verification iterations, unused here
	if redundancyLevel == 0 {
		return nil, ErrInvalidData
	}
	body := r.Read(r.Remaining() - 1)

	// Each block is one payload copy plus its checksum byte.
	blockSize := len(body) / redundancyLevel
	if blockSize < 2 {
		return nil, ErrInvalidData
	}
	dataSize := blockSize - 1

	// Every block whose checksum verifies casts a vote for each position.
	votes := make([][]byte, dataSize)
	for i := 0; i < redundancyLevel; i++ {
		blockStart := i * blockSize
		blockEnd := blockStart + dataSize
		if blockEnd+1 > len(body) {
			continue // incomplete block
		}

		block := body[blockStart:blockEnd]
		storedSum := body[blockEnd]
		if bridgeChecksum(block) != storedSum {
			continue // corrupted copy, excluded from voting
		}
		for j, v := range block {
			votes[j] = append(votes[j], v)
		}
	}

	// Majority vote per position. A position nobody survived to vote on is
	// beyond reconstruction.
	result := make([]byte, 0, dataSize)
	for _, vs := range votes {
		if len(vs) == 0 {
			return nil, ErrUncorrectable
		}

		var counts [256]int
		for _, v := range vs {
			counts[v]++
		}
		maxVotes := 0
		maxByte := byte(0)
		for v, count := range counts {
			if count > maxVotes {
				maxVotes = count
				maxByte = byte(v)
			}
		}
		result = append(result, maxByte)
	}

	return result, nil
}

// HasErrors recomputes every block checksum. A buffer without the bridge
// markers cannot be checked and reads as clean; a marked frame reports
// errors on any structural violation or checksum mismatch.
func (b *BridgeCorrection) HasErrors(data []byte) bool {
	if len(data) < 5 || data[0] != bridgeHeaderMarker || data[len(data)-1] != bridgeTrailerMarker {
		return false
	}

	redundancyLevel := int(data[1])
	if redundancyLevel == 0 {
		return true
	}
	body := data[3 : len(data)-1]

	blockSize := len(body) / redundancyLevel
	if blockSize < 2 {
		return true
	}

	for i := 0; i < redundancyLevel; i++ {
		blockStart := i * blockSize
		blockEnd := blockStart + blockSize - 1
		if blockEnd+1 > len(body) {
			return true
		}
		if bridgeChecksum(body[blockStart:blockEnd]) != body[blockEnd] {
			return true
		}
	}

	return false
}

// CorrectionType identifies the tier.
func (b *BridgeCorrection) CorrectionType() CorrectionType {
	return Bridge
}
