// Package cser implements the compact two-stream serialization format used
// for envelope wire encoding.
//
// Values are split across two streams: raw bytes go to the byte stream,
// while booleans, small tags and the length fields of variable-width
// integers go to a separate bit stream. The two streams are packed into a
// single self-describing buffer by binary.go. Splitting the streams keeps
// the encoding both compact (small integers cost one byte plus a couple of
// bits) and canonical (there is exactly one valid encoding for any value,
// and decoders reject everything else).
package cser

import (
	"errors"

	"github.com/elxr-labs/go-elxr-ecc/utils/bits"
	"github.com/elxr-labs/go-elxr-ecc/utils/fast"
)

var (
	ErrNonCanonicalEncoding = errors.New("non canonical encoding: data not packed minimally or unused bits non-zero")
	ErrMalformedEncoding    = errors.New("malformed encoding: structure invalid or truncated")
	ErrTooLargeAlloc        = errors.New("too large allocation: decoded size exceeds limits")
)

// MaxAlloc bounds decoded byte-slice sizes so that a hostile length field
// cannot trigger a huge allocation.
const MaxAlloc = 100 * 1024

// Writer orchestrates writing to the two streams.
type Writer struct {
	BitsW  *bits.Writer // flags, tags and length fields
	BytesW *fast.Writer // raw data bytes
}

// Reader orchestrates reading from the two streams.
type Reader struct {
	BitsR  *bits.Reader
	BytesR *fast.Reader
}

// NewWriter creates a ready-to-use writer with small preallocated buffers.
func NewWriter() *Writer {
	bbits := &bits.Array{Bytes: make([]byte, 0, 32)}
	bbytes := make([]byte, 0, 200)
	return &Writer{
		BitsW:  bits.NewWriter(bbits),
		BytesW: fast.NewWriter(bbytes),
	}
}

// writeUint64Compact writes a base-128 varint with inverted continuation
// logic: the MSB of a chunk set means STOP. Only used for the container
// suffix, where it is written reversed so the decoder can scan backwards.
func writeUint64Compact(bytesW *fast.Writer, v uint64) {
	for {
		chunk := v & 0x7f
		v = v >> 7
		if v == 0 {
			chunk |= 0x80 // last chunk
		}
		bytesW.WriteByte(byte(chunk))
		if v == 0 {
			break
		}
	}
}

// readUint64Compact decodes the inverted-continuation varint.
func readUint64Compact(bytesR *fast.Reader) uint64 {
	v := uint64(0)
	stop := false
	for i := 0; !stop; i++ {
		chunk := uint64(bytesR.ReadByte())
		stop = (chunk & 0x80) != 0
		word := chunk & 0x7f
		v |= word << (i * 7)

		// The final chunk must carry data; trailing zero chunks would give
		// the same value a second, longer encoding.
		if i > 0 && stop && word == 0 {
			panic(ErrNonCanonicalEncoding)
		}
	}
	return v
}

// writeUint64BitCompact writes v as little-endian bytes, using exactly as
// many bytes as needed but no fewer than minSize. Returns the byte count.
func writeUint64BitCompact(bytesW *fast.Writer, v uint64, minSize int) (size int) {
	for size < minSize || v != 0 {
		bytesW.WriteByte(byte(v))
		size++
		v = v >> 8
	}
	return
}

// readUint64BitCompact reads 'size' little-endian bytes back into an integer.
func readUint64BitCompact(bytesR *fast.Reader, size int) uint64 {
	var (
		v    uint64
		last byte
	)
	buf := bytesR.Read(size)
	for i, b := range buf {
		v |= uint64(b) << uint(8*i)
		last = b
	}

	// A zero most-significant byte means the value was padded.
	if size > 1 && last == 0 {
		panic(ErrNonCanonicalEncoding)
	}

	return v
}

// readU64_bits reads a variable-width integer: the width comes from the bit
// stream, the bytes from the byte stream.
func (r *Reader) readU64_bits(minSize int, bitsForSize int) uint64 {
	size := r.BitsR.Read(bitsForSize)
	size += uint(minSize)
	return readUint64BitCompact(r.BytesR, int(size))
}

// writeU64_bits is the inverse: bytes to the byte stream, width offset to
// the bit stream.
func (w *Writer) writeU64_bits(minSize int, bitsForSize int, v uint64) {
	size := writeUint64BitCompact(w.BytesW, v, minSize)
	w.BitsW.Write(bitsForSize, uint(size-minSize))
}

// U8 writes a single byte; no width field needed.
func (w *Writer) U8(v uint8) {
	w.BytesW.WriteByte(v)
}
func (r *Reader) U8() uint8 {
	return r.BytesR.ReadByte()
}

// U32 writes a uint32 in 1..4 bytes, with 2 width bits in the bit stream.
func (w *Writer) U32(v uint32) {
	w.writeU64_bits(1, 2, uint64(v))
}
func (r *Reader) U32() uint32 {
	v64 := r.readU64_bits(1, 2)
	return uint32(v64)
}

// U56 writes an integer of up to 7 bytes; used for slice lengths.
func (w *Writer) U56(v uint64) {
	const max = 1<<(8*7) - 1
	if v > max {
		panic("cser: value exceeds 56 bits")
	}
	w.writeU64_bits(0, 3, v)
}
func (r *Reader) U56() uint64 {
	return r.readU64_bits(0, 3)
}

// Bool writes a single bit to the bit stream.
func (w *Writer) Bool(v bool) {
	u8 := uint(0)
	if v {
		u8 = 1
	}
	w.BitsW.Write(1, u8)
}
func (r *Reader) Bool() bool {
	u8 := r.BitsR.Read(1)
	return u8 != 0
}

// FixedBytes reads/writes raw bytes with an externally known length.
func (w *Writer) FixedBytes(v []byte) {
	w.BytesW.Write(v)
}
func (r *Reader) FixedBytes(v []byte) {
	buf := r.BytesR.Read(len(v))
	copy(v, buf)
}

// SliceBytes writes a length-prefixed byte slice: U56 length, then the raw
// bytes.
func (w *Writer) SliceBytes(v []byte) {
	w.U56(uint64(len(v)))
	w.FixedBytes(v)
}
func (r *Reader) SliceBytes(maxLen int) []byte {
	size := r.U56()
	if size > uint64(maxLen) {
		panic(ErrTooLargeAlloc)
	}
	buf := make([]byte, size)
	r.FixedBytes(buf)
	return buf
}
