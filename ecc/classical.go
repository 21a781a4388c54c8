package ecc

import (
	"bytes"

	"github.com/elxr-labs/go-elxr-ecc/utils/fast"
)

// Classical tier: XOR-parity redundancy over a flat byte buffer.
//
// Frame layout:
//
//	[ payload ... ][ 0x52 ][ redundancy% ][ parity ... ]
//
// The parity block is a cyclic XOR fold of the payload, sized as a
// percentage of the payload length (minimum one byte). Decode locates the
// marker/redundancy trailer and strips it; the parity bytes disambiguate
// the trailer position but are not used to correct the payload region in
// this tier.

const (
	// classicalMarker tags a buffer as a classical frame ('R').
	classicalMarker = 0x52

	minRedundancyPercent = 5
	maxRedundancyPercent = 30
)

// ClassicalCorrection is the XOR-parity codec. The redundancy percentage is
// fixed at construction time and embedded in every frame it produces.
type ClassicalCorrection struct {
	redundancy uint8
}

// NewClassical creates a classical codec with the given redundancy
// percentage, clamped to [5, 30].
func NewClassical(redundancy uint8) *ClassicalCorrection {
	if redundancy > maxRedundancyPercent {
		redundancy = maxRedundancyPercent
	}
	if redundancy < minRedundancyPercent {
		redundancy = minRedundancyPercent
	}
	return &ClassicalCorrection{
		redundancy: redundancy,
	}
}

// classicalParityLen returns the parity block size for a payload of dataLen
// bytes at the given redundancy percentage. Never less than one byte, so
// the cyclic fold is always well defined.
func classicalParityLen(dataLen int, redundancy uint8) int {
	n := dataLen * int(redundancy) / 100
	if n < 1 {
		n = 1
	}
	return n
}

// classicalParity computes the cyclic XOR fold of data into parityLen bytes.
func classicalParity(data []byte, parityLen int) []byte {
	parity := make([]byte, parityLen)
	for i, b := range data {
		parity[i%parityLen] ^= b
	}
	return parity
}

// Encode appends the marker, the redundancy percentage and the parity fold.
func (c *ClassicalCorrection) Encode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrInvalidData
	}

	parityLen := classicalParityLen(len(data), c.redundancy)
	parity := classicalParity(data, parityLen)

	w := fast.NewWriter(make([]byte, 0, len(data)+2+parityLen))
	w.Write(data)
	w.WriteByte(classicalMarker)
	w.WriteByte(c.redundancy)
	w.Write(parity)
	return w.Bytes(), nil
}

// Decode strips the trailer and returns the payload region.
//
// The trailer is located by scanning payload-length candidates from the
// longest down: a candidate d is accepted when the marker sits at offset d,
// the following byte is a stored redundancy percentage in the valid range,
// the parity length derived from d and that percentage accounts for
// exactly the rest of the frame, and the parity region reproduces the
// cyclic fold of the candidate payload. The fold check weeds out payloads
// whose own bytes (or parity) happen to spell a valid-looking trailer; the
// true candidate always satisfies it by construction. The percentage in
// the frame governs the computation; the instance's own redundancy setting
// plays no part.
func (c *ClassicalCorrection) Decode(data []byte) ([]byte, error) {
	if len(data) < 3 {
		return nil, ErrInvalidData
	}

	for d := len(data) - 3; d >= 1; d-- {
		if data[d] != classicalMarker {
			continue
		}
		redundancy := data[d+1]
		if redundancy < minRedundancyPercent || redundancy > maxRedundancyPercent {
			continue
		}
		parityLen := classicalParityLen(d, redundancy)
		if d+2+parityLen != len(data) {
			continue
		}
		if !bytes.Equal(classicalParity(data[:d], parityLen), data[d+2:]) {
			continue
		}
		decoded := make([]byte, d)
		copy(decoded, data[:d])
		return decoded, nil
	}

	return nil, ErrInvalidData
}

// HasErrors applies the placeholder integrity heuristic: a buffer is only
// "checkable" when its second-to-last byte happens to be the marker, and
// then the low nibble of the final byte is the verdict. Anything else
// cannot be determined and reads as clean. Real parity verification is
// deliberately absent; callers needing it use the bridge or quantum tiers.
func (c *ClassicalCorrection) HasErrors(data []byte) bool {
	if len(data) < 3 || data[len(data)-2] != classicalMarker {
		return false
	}
	return data[len(data)-1]&0x0F != 0
}

// CorrectionType identifies the tier.
func (c *ClassicalCorrection) CorrectionType() CorrectionType {
	return Classical
}
