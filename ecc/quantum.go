package ecc

import (
	"bytes"
	mathbits "math/bits"

	"github.com/elxr-labs/go-elxr-ecc/utils/fast"
)

// Quantum tier: simulated surface-code protection. The payload is processed
// in 8-byte chunks; for every chunk, S syndrome bytes are derived (syndrome
// i is the XOR over the chunk of each byte rotated left by i plus its
// position). Corruption shows up as disagreement between the stored
// syndromes and the ones recomputed from the received data, and is repaired
// by flipping the bits a majority of syndromes point at.
//
// Frame layout:
//
//	[ 0x51 ][ D ][ S ][ payload ... ][ per-chunk syndromes ... ][ 0x45 ]
//
// D is the code distance (stored for protocol completeness; the simulation
// does not branch on it), S the syndrome-iteration count. All chunk
// syndrome groups follow the complete payload, in chunk order.

const (
	quantumHeaderMarker  = 0x51 // 'Q'
	quantumTrailerMarker = 0x45 // 'E'

	quantumChunkSize = 8

	minCodeDistance       = 3
	maxCodeDistance       = 15
	minSyndromeIterations = 1
	maxSyndromeIterations = 10
)

// QuantumCorrection is the syndrome-simulation codec. Parameters are fixed
// at construction and embedded in every frame header.
type QuantumCorrection struct {
	codeDistance       uint8
	syndromeIterations uint8
}

// NewQuantum creates a quantum codec with a distance-5 code and four
// syndrome measurements.
func NewQuantum() *QuantumCorrection {
	return &QuantumCorrection{
		codeDistance:       5,
		syndromeIterations: 4,
	}
}

// QuantumWithParams creates a quantum codec with custom parameters. The
// code distance must be odd: even values are rounded up, then clamped to
// [3, 15]. The iteration count is clamped to [1, 10].
func QuantumWithParams(codeDistance, syndromeIterations uint8) *QuantumCorrection {
	if codeDistance%2 == 0 {
		codeDistance++
	}
	if codeDistance < minCodeDistance {
		codeDistance = minCodeDistance
	}
	if codeDistance > maxCodeDistance {
		codeDistance = maxCodeDistance
	}
	if syndromeIterations < minSyndromeIterations {
		syndromeIterations = minSyndromeIterations
	}
	if syndromeIterations > maxSyndromeIterations {
		syndromeIterations = maxSyndromeIterations
	}
	return &QuantumCorrection{
		codeDistance:       codeDistance,
		syndromeIterations: syndromeIterations,
	}
}

// quantumSyndromes computes the iteration syndromes for one chunk:
// syndrome i = XOR over the chunk of rotl8(byte, i+j), j the byte's
// position within the chunk.
func quantumSyndromes(chunk []byte, iterations int) []byte {
	syndromes := make([]byte, iterations)
	for i := 0; i < iterations; i++ {
		var measurement byte
		for j, b := range chunk {
			measurement ^= mathbits.RotateLeft8(b, i+j)
		}
		syndromes[i] = measurement
	}
	return syndromes
}

// quantumPayloadLen solves for the payload size n hidden in a frame body of
// bodyLen bytes: n data bytes are followed by iterations syndrome bytes per
// 8-byte chunk, so n + iterations*ceil(n/8) == bodyLen. At most one n
// satisfies this; ok is false when none does.
func quantumPayloadLen(bodyLen, iterations int) (n int, ok bool) {
	for chunks := 1; ; chunks++ {
		n = bodyLen - iterations*chunks
		if n < 1 {
			return 0, false
		}
		need := (n + quantumChunkSize - 1) / quantumChunkSize
		if need == chunks {
			return n, true
		}
		if need < chunks {
			return 0, false
		}
	}
}

// Encode appends the per-chunk syndromes after the payload.
func (q *QuantumCorrection) Encode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrInvalidData
	}

	iterations := int(q.syndromeIterations)
	chunks := (len(data) + quantumChunkSize - 1) / quantumChunkSize

	w := fast.NewWriter(make([]byte, 0, 3+len(data)+chunks*iterations+1))
	w.WriteByte(quantumHeaderMarker)
	w.WriteByte(q.codeDistance)
	w.WriteByte(q.syndromeIterations)
	w.Write(data)
	for start := 0; start < len(data); start += quantumChunkSize {
		end := start + quantumChunkSize
		if end > len(data) {
			end = len(data)
		}
		w.Write(quantumSyndromes(data[start:end], iterations))
	}
	w.WriteByte(quantumTrailerMarker)
	return w.Bytes(), nil
}

// Decode recovers the payload, repairing chunks whose stored syndromes
// disagree with the ones recomputed from the received data. The parameters
// in the frame header govern the segmentation, not the instance's own.
func (q *QuantumCorrection) Decode(data []byte) ([]byte, error) {
	if len(data) < 5 || data[0] != quantumHeaderMarker || data[len(data)-1] != quantumTrailerMarker {
		return nil, ErrInvalidData
	}

	r := fast.NewReader(data)
	_ = r.ReadByte() // header marker
	codeDistance := r.ReadByte()
	iterations := int(r.ReadByte())
	if codeDistance < minCodeDistance || iterations == 0 {
		return nil, ErrInvalidData
	}
	body := r.Read(r.Remaining() - 1)

	n, ok := quantumPayloadLen(len(body), iterations)
	if !ok {
		return nil, ErrInvalidData
	}
	payload := body[:n]
	syndromes := body[n:]

	decoded := make([]byte, 0, n)
	syndromeOff := 0
	for start := 0; start < n; start += quantumChunkSize {
		end := start + quantumChunkSize
		if end > n {
			end = n
		}
		chunk := payload[start:end]
		stored := syndromes[syndromeOff : syndromeOff+iterations]
		syndromeOff += iterations

		if bytes.Equal(quantumSyndromes(chunk, iterations), stored) {
			// Clean chunk, copy through.
			decoded = append(decoded, chunk...)
			continue
		}
		decoded = append(decoded, correctChunk(chunk, stored)...)
	}

	return decoded, nil
}

// correctChunk applies the syndrome-majority repair rule to one corrupted
// chunk: for each bit of each byte, count the stored syndromes that have
// the bit set at the position shifted by the byte's offset in the chunk
// (shift amounts wrap mod 8), and flip the bit when more than half agree.
func correctChunk(chunk []byte, stored []byte) []byte {
	iterations := len(stored)
	corrected := make([]byte, 0, len(chunk))
	for j, b := range chunk {
		correctedByte := b
		for bit := 0; bit < 8; bit++ {
			count := 0
			for _, syndrome := range stored {
				if (syndrome>>uint((bit+j)&7))&1 != 0 {
					count++
				}
			}
			if count > iterations/2 {
				correctedByte ^= 1 << uint(bit)
			}
		}
		corrected = append(corrected, correctedByte)
	}
	return corrected
}

// HasErrors recomputes the syndromes of every chunk. A buffer without the
// quantum markers cannot be checked and reads as clean; a marked frame
// reports errors on invalid parameters, an inconsistent body length, or
// any syndrome mismatch.
func (q *QuantumCorrection) HasErrors(data []byte) bool {
	if len(data) < 5 || data[0] != quantumHeaderMarker || data[len(data)-1] != quantumTrailerMarker {
		return false
	}

	iterations := int(data[2])
	if iterations == 0 {
		return true
	}
	body := data[3 : len(data)-1]

	n, ok := quantumPayloadLen(len(body), iterations)
	if !ok {
		return true
	}
	payload := body[:n]
	syndromes := body[n:]

	syndromeOff := 0
	for start := 0; start < n; start += quantumChunkSize {
		end := start + quantumChunkSize
		if end > n {
			end = n
		}
		stored := syndromes[syndromeOff : syndromeOff+iterations]
		syndromeOff += iterations
		if !bytes.Equal(quantumSyndromes(payload[start:end], iterations), stored) {
			return true
		}
	}

	return false
}

// CorrectionType identifies the tier.
func (q *QuantumCorrection) CorrectionType() CorrectionType {
	return Quantum
}
