package msg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elxr-labs/go-elxr-ecc/ecc"
)

func TestProtectOpen(t *testing.T) {
	payload := []byte("price-feed update: ELXR/USD 42.17")

	for _, tier := range []ecc.CorrectionType{ecc.Classical, ecc.Bridge, ecc.Quantum, ecc.Comprehensive} {
		t.Run(tier.String(), func(t *testing.T) {
			require := require.New(t)

			c, err := ecc.New(tier)
			require.NoError(err)

			env, err := Protect(c, payload, false)
			require.NoError(err)
			require.Equal(uint8(Version), env.Version)
			require.Equal(tier, env.Tier)
			require.Equal(uint32(len(payload)), env.RawLen)

			got, err := env.Open(c)
			require.NoError(err)
			require.Equal(payload, got)
		})
	}
}

func TestProtectOpenCompressed(t *testing.T) {
	require := require.New(t)

	// Repetitive payload so compression actually shrinks the body.
	payload := []byte(strings.Repeat("fermentation batch #7 ", 20))
	c, err := ecc.New(ecc.Bridge)
	require.NoError(err)

	env, err := Protect(c, payload, true)
	require.NoError(err)
	require.True(env.Compressed)
	require.Equal(uint32(len(payload)), env.RawLen)

	got, err := env.Open(c)
	require.NoError(err)
	require.Equal(payload, got)
}

func TestProtectRejectsEmpty(t *testing.T) {
	c, err := ecc.New(ecc.Classical)
	require.NoError(t, err)

	_, err = Protect(c, nil, false)
	require.Equal(t, ecc.ErrInvalidData, err)
}

func TestOpenTierMismatch(t *testing.T) {
	require := require.New(t)

	bridge, err := ecc.New(ecc.Bridge)
	require.NoError(err)
	quantum, err := ecc.New(ecc.Quantum)
	require.NoError(err)

	env, err := Protect(bridge, []byte("payload"), false)
	require.NoError(err)

	_, err = env.Open(quantum)
	require.Equal(ecc.ErrUnsupportedType, err)
}

func TestOpenLengthMismatch(t *testing.T) {
	require := require.New(t)

	c, err := ecc.New(ecc.Bridge)
	require.NoError(err)

	env, err := Protect(c, []byte("payload"), false)
	require.NoError(err)

	// Tamper with the recorded length; the frame itself still decodes.
	env.RawLen++
	_, err = env.Open(c)
	require.Equal(ErrLengthMismatch, err)
}

func TestEnvelopeWireRoundTrip(t *testing.T) {
	require := require.New(t)

	c, err := ecc.New(ecc.Comprehensive)
	require.NoError(err)

	env, err := Protect(c, []byte("signed proof"), true)
	require.NoError(err)

	raw, err := env.MarshalBinary()
	require.NoError(err)

	var decoded Envelope
	require.NoError(decoded.UnmarshalBinary(raw))
	require.Equal(*env, decoded)

	got, err := decoded.Open(c)
	require.NoError(err)
	require.Equal([]byte("signed proof"), got)
}

func TestEnvelopeRLPRoundTrip(t *testing.T) {
	require := require.New(t)

	c, err := ecc.New(ecc.Quantum)
	require.NoError(err)

	env, err := Protect(c, []byte("stored record"), false)
	require.NoError(err)

	raw, err := env.MarshalRLP()
	require.NoError(err)

	var decoded Envelope
	require.NoError(decoded.UnmarshalRLP(raw))
	require.Equal(*env, decoded)
}

func TestEnvelopeIDStability(t *testing.T) {
	require := require.New(t)

	c, err := ecc.New(ecc.Bridge)
	require.NoError(err)

	env, err := Protect(c, []byte("payload"), false)
	require.NoError(err)

	id1, err := env.ID()
	require.NoError(err)
	id2, err := env.ID()
	require.NoError(err)
	require.Equal(id1, id2)

	// Any field change moves the ID.
	other, err := Protect(c, []byte("payloae"), false)
	require.NoError(err)
	otherID, err := other.ID()
	require.NoError(err)
	require.NotEqual(id1, otherID)
}

func TestEnvelopeRejectsGarbage(t *testing.T) {
	require := require.New(t)

	var env Envelope
	require.Error(env.UnmarshalBinary(nil))
	require.Error(env.UnmarshalBinary([]byte{0x01, 0x02, 0x03}))

	// An envelope without a frame cannot be marshaled.
	_, err := (&Envelope{Version: Version}).MarshalBinary()
	require.Equal(ErrMalformedEnvelope, err)
}
