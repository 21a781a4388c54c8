// Package msg defines the protected message envelope: the carrier format
// collaborators use to ship error-correction frames across trust and medium
// boundaries. The envelope records which tier produced the frame and enough
// metadata to validate the recovered payload, so the receiving side needs
// nothing out-of-band.
//
// Two encodings are provided: a compact CSER form for the wire and an RLP
// form for storage.
package msg

import (
	"errors"
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/klauspost/compress/s2"

	"github.com/elxr-labs/go-elxr-ecc/ecc"
	"github.com/elxr-labs/go-elxr-ecc/utils/cser"
)

// Version is the current envelope wire version.
const Version = 1

// MaxEnvelopeSize is the hard limit for a serialized envelope. It bounds
// decoder allocations against hostile length fields.
const MaxEnvelopeSize = 10 * 1024 * 1024

var (
	ErrMalformedEnvelope = errors.New("msg: malformed envelope")
	ErrUnknownVersion    = errors.New("msg: unknown envelope version: client is likely outdated")
	ErrLengthMismatch    = errors.New("msg: recovered payload length differs from the recorded one")
	ErrTooLarge          = errors.New("msg: envelope exceeds the size limit")
)

// Envelope wraps one error-correction frame together with the metadata
// needed to open it.
type Envelope struct {
	// Version of the envelope format.
	Version uint8
	// Tier that produced (and must decode) the frame.
	Tier ecc.CorrectionType
	// Compressed records whether the payload was s2-compressed before
	// protection.
	Compressed bool
	// RawLen is the original payload length, checked after recovery.
	RawLen uint32
	// Frame is the tier's encoded buffer.
	Frame []byte
}

// Protect encodes a payload with the given codec and wraps the frame. When
// compress is set, the payload is s2-compressed before protection; RawLen
// always records the uncompressed length.
func Protect(c ecc.ErrorCorrection, payload []byte, compress bool) (*Envelope, error) {
	if len(payload) == 0 {
		return nil, ecc.ErrInvalidData
	}

	body := payload
	if compress {
		body = s2.Encode(nil, payload)
	}
	frame, err := c.Encode(body)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Version:    Version,
		Tier:       c.CorrectionType(),
		Compressed: compress,
		RawLen:     uint32(len(payload)),
		Frame:      frame,
	}, nil
}

// Open recovers the original payload: decode the frame, decompress if
// needed, and verify the recorded length.
func (e *Envelope) Open(c ecc.ErrorCorrection) ([]byte, error) {
	if c.CorrectionType() != e.Tier {
		return nil, ecc.ErrUnsupportedType
	}

	body, err := c.Decode(e.Frame)
	if err != nil {
		return nil, err
	}
	if e.Compressed {
		body, err = s2.Decode(nil, body)
		if err != nil {
			return nil, ErrMalformedEnvelope
		}
	}
	if uint32(len(body)) != e.RawLen {
		return nil, ErrLengthMismatch
	}
	return body, nil
}

// MarshalCSER writes the envelope to the two cser streams: the tier tag and
// flags go to the bit stream, everything else to the byte stream.
func (e *Envelope) MarshalCSER(w *cser.Writer) error {
	if len(e.Frame) == 0 {
		return ErrMalformedEnvelope
	}
	w.U8(e.Version)
	w.BitsW.Write(2, uint(e.Tier))
	w.Bool(e.Compressed)
	w.U32(e.RawLen)
	w.SliceBytes(e.Frame)
	return nil
}

// UnmarshalCSER reads the fields back in the exact order MarshalCSER wrote
// them; the canonical-encoding checks of the adapter do the rest.
func (e *Envelope) UnmarshalCSER(r *cser.Reader) error {
	version := r.U8()
	if version > Version {
		return ErrUnknownVersion
	}
	tier := ecc.CorrectionType(r.BitsR.Read(2))
	compressed := r.Bool()
	rawLen := r.U32()
	frame := r.SliceBytes(MaxEnvelopeSize)
	if len(frame) == 0 {
		return ErrMalformedEnvelope
	}

	e.Version = version
	e.Tier = tier
	e.Compressed = compressed
	e.RawLen = rawLen
	e.Frame = frame
	return nil
}

// MarshalBinary returns the packed CSER wire form.
func (e *Envelope) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(e.MarshalCSER)
}

// UnmarshalBinary parses the packed CSER wire form.
func (e *Envelope) UnmarshalBinary(raw []byte) error {
	if len(raw) > MaxEnvelopeSize {
		return ErrTooLarge
	}
	return cser.UnmarshalBinaryAdapter(raw, e.UnmarshalCSER)
}

// MarshalRLP returns the storage form of the envelope.
func (e *Envelope) MarshalRLP() ([]byte, error) {
	return rlp.EncodeToBytes(e)
}

// UnmarshalRLP parses the storage form.
func (e *Envelope) UnmarshalRLP(raw []byte) error {
	if len(raw) > MaxEnvelopeSize {
		return ErrTooLarge
	}
	return rlp.DecodeBytes(raw, e)
}

// ID returns the envelope's content hash, derived from the canonical wire
// form. Identical envelopes always hash identically.
func (e *Envelope) ID() (hash.Hash, error) {
	raw, err := e.MarshalBinary()
	if err != nil {
		return hash.Hash{}, err
	}
	return hash.Of(raw), nil
}

// String renders a short human-readable summary.
func (e *Envelope) String() string {
	preview := e.Frame
	if len(preview) > 8 {
		preview = preview[:8]
	}
	return fmt.Sprintf("Envelope{v%d %s raw=%dB frame=%dB %s...}",
		e.Version, e.Tier, e.RawLen, len(e.Frame), hexutil.Encode(preview))
}
