// Package ecc implements the multi-tier error-correcting codec protecting
// byte payloads that cross trust or medium boundaries: price-feed values,
// inter-component messages and signed proofs.
//
// Three independent strategies are provided, plus a composition of all of
// them:
//
//   - Classical: XOR-parity redundancy over a flat byte buffer.
//   - Bridge: block repetition with per-block checksums and majority-vote
//     reconstruction, for the classical-quantum interface.
//   - Quantum: chunked syndrome simulation with bit-flip correction by
//     syndrome majority.
//   - Comprehensive: Classical, then Bridge, then Quantum, nested.
//
// Every codec is an immutable value object: operations are pure functions of
// the input bytes and the construction-time parameters, safe for concurrent
// use. All parameters needed to decode a frame are carried inside the frame
// header, so any instance of the right tier can decode any frame of that
// tier regardless of the defaults it was constructed with.
package ecc

import "errors"

// CorrectionType identifies one of the four correction strategies.
// The set is closed; there is no plugin mechanism.
type CorrectionType uint8

const (
	// Classical is XOR-parity redundancy (Reed-Solomon stand-in).
	Classical CorrectionType = iota
	// Bridge is block repetition with majority voting.
	Bridge
	// Quantum is simulated surface-code syndrome protection.
	Quantum
	// Comprehensive chains all three tiers.
	Comprehensive
)

// String returns the lowercase name used in CLI flags and config files.
func (t CorrectionType) String() string {
	switch t {
	case Classical:
		return "classical"
	case Bridge:
		return "bridge"
	case Quantum:
		return "quantum"
	case Comprehensive:
		return "comprehensive"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t CorrectionType) MarshalText() ([]byte, error) {
	if t > Comprehensive {
		return nil, ErrUnsupportedType
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *CorrectionType) UnmarshalText(text []byte) error {
	parsed, err := ParseCorrectionType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseCorrectionType maps a tier name to its CorrectionType.
func ParseCorrectionType(s string) (CorrectionType, error) {
	switch s {
	case "classical":
		return Classical, nil
	case "bridge":
		return Bridge, nil
	case "quantum":
		return Quantum, nil
	case "comprehensive":
		return Comprehensive, nil
	default:
		return 0, ErrUnsupportedType
	}
}

// Errors returned by codec operations. Callers decide whether to retry with
// a different tier, surface the corruption, or fall back to an uncorrected
// value; no operation retries internally.
var (
	// ErrUncorrectable means enough redundancy was lost that no
	// reconstruction is possible (e.g. every repetition of a bridge block
	// failed its checksum).
	ErrUncorrectable = errors.New("ecc: data too corrupted to be corrected")
	// ErrInvalidData means malformed or too-short input: bad markers,
	// zero-length payload, zero-valued parameters.
	ErrInvalidData = errors.New("ecc: invalid input data format")
	// ErrAlgorithm is reserved for internal consistency failures of the
	// correction algorithms themselves.
	ErrAlgorithm = errors.New("ecc: error correction algorithm failure")
	// ErrUnsupportedType is returned for a correction type outside the
	// closed enumeration.
	ErrUnsupportedType = errors.New("ecc: unsupported error correction type")
)

// ErrorCorrection is the capability surface every tier exposes.
type ErrorCorrection interface {
	// Encode protects the payload and returns a self-describing frame.
	// An empty payload is rejected with ErrInvalidData.
	Encode(data []byte) ([]byte, error)
	// Decode recovers the original payload from a frame, correcting what
	// the tier's redundancy allows.
	Decode(data []byte) ([]byte, error)
	// HasErrors reports whether the frame carries detectable corruption.
	// A buffer that is not in the tier's own frame format cannot be
	// checked and reads as clean.
	HasErrors(data []byte) bool
	// CorrectionType identifies the tier.
	CorrectionType() CorrectionType
}

// New constructs a codec for the requested tier with its default parameters:
// 8% redundancy for Classical, triple redundancy with two verification
// passes for Bridge, a distance-5 code with four syndrome measurements for
// Quantum, and the default chain for Comprehensive.
func New(t CorrectionType) (ErrorCorrection, error) {
	switch t {
	case Classical:
		return NewClassical(8), nil
	case Bridge:
		return NewBridge(), nil
	case Quantum:
		return NewQuantum(), nil
	case Comprehensive:
		return NewComprehensive(), nil
	default:
		return nil, ErrUnsupportedType
	}
}
