package cser

import (
	"github.com/elxr-labs/go-elxr-ecc/utils/bits"
	"github.com/elxr-labs/go-elxr-ecc/utils/fast"
)

// binary.go packs the two cser streams into one self-describing byte slice
// and splits them back apart.
//
// Wire layout:
//
//	[ byte stream ... ][ bit stream bytes ... ][ reversed varint: len(bit stream) ]
//
// The suffix is written in reverse byte order so the decoder can read it by
// scanning backwards from the end of the buffer; no other length prefix is
// needed anywhere.

// MarshalBinaryAdapter runs the given serialization callback against a fresh
// Writer and packs the result into a single byte slice.
func MarshalBinaryAdapter(marshalCser func(*Writer) error) ([]byte, error) {
	w := NewWriter()

	err := marshalCser(w)
	if err != nil {
		return nil, err
	}

	return binaryFromCSER(w.BitsW.Array, w.BytesW.Bytes())
}

// binaryFromCSER concatenates body bytes, bit-stream bytes and the reversed
// length suffix.
func binaryFromCSER(bbits *bits.Array, bbytes []byte) (raw []byte, err error) {
	bodyBytes := fast.NewWriter(bbytes)
	bodyBytes.Write(bbits.Bytes)

	sizeWriter := fast.NewWriter(make([]byte, 0, 4))
	writeUint64Compact(sizeWriter, uint64(len(bbits.Bytes)))
	bodyBytes.Write(reversed(sizeWriter.Bytes()))

	return bodyBytes.Bytes(), nil
}

// binaryToCSER splits a packed buffer back into its bit and byte streams.
func binaryToCSER(raw []byte) (bbits *bits.Array, bbytes []byte, err error) {
	// The suffix varint is at most 9 bytes; un-reverse the tail and decode
	// the bit-stream length from it.
	bitsSizeBuf := reversed(tail(raw, 9))
	bitsSizeReader := fast.NewReader(bitsSizeBuf)
	bitsSize := readUint64Compact(bitsSizeReader)

	// Drop the suffix, then split the remainder.
	raw = raw[:len(raw)-bitsSizeReader.Position()]
	if uint64(len(raw)) < bitsSize {
		err = ErrMalformedEncoding
		return
	}

	bbits = &bits.Array{Bytes: raw[uint64(len(raw))-bitsSize:]}
	bbytes = raw[:uint64(len(raw))-bitsSize]
	return
}

// UnmarshalBinaryAdapter splits the raw buffer and runs the deserialization
// callback, then enforces canonical encoding: every byte and every bit must
// have been consumed, and unused trailing bits must be zero.
func UnmarshalBinaryAdapter(raw []byte, unmarshalCser func(reader *Reader) error) (err error) {
	// The primitives skip bounds checks and panic on truncated input.
	defer func() {
		if r := recover(); r != nil {
			err = ErrMalformedEncoding
		}
	}()

	bbits, bbytes, err := binaryToCSER(raw)
	if err != nil {
		return err
	}

	bodyReader := &Reader{
		BitsR:  bits.NewReader(bbits),
		BytesR: fast.NewReader(bbytes),
	}

	err = unmarshalCser(bodyReader)
	if err != nil {
		return err
	}

	if bodyReader.BitsR.NonReadBytes() > 1 {
		return ErrNonCanonicalEncoding
	}
	tail := bodyReader.BitsR.Read(bodyReader.BitsR.NonReadBits())
	if tail != 0 {
		return ErrNonCanonicalEncoding
	}
	if !bodyReader.BytesR.Empty() {
		return ErrNonCanonicalEncoding
	}

	return nil
}

// tail returns the last cap bytes of b, or all of b if it is shorter.
func tail(b []byte, cap int) []byte {
	if len(b) > cap {
		return b[len(b)-cap:]
	}
	return b
}

// reversed returns a new slice with the bytes of b in reverse order.
func reversed(b []byte) []byte {
	reversed := make([]byte, len(b))
	for i, v := range b {
		reversed[len(b)-1-i] = v
	}
	return reversed
}
