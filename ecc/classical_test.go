package ecc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestClassicalKnownFrame pins the exact frame layout for the documented
// vector: 4 payload bytes at 25% redundancy give a single parity byte.
func TestClassicalKnownFrame(t *testing.T) {
	require := require.New(t)

	c := NewClassical(25)
	payload := []byte{0x41, 0x42, 0x43, 0x44}

	frame, err := c.Encode(payload)
	require.NoError(err)
	require.Equal([]byte{0x41, 0x42, 0x43, 0x44, classicalMarker, 25, 0x04}, frame)

	decoded, err := c.Decode(frame)
	require.NoError(err)
	require.Equal(payload, decoded)
}

func TestClassicalRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	c := NewClassical(8)

	// Payloads small enough to carry a single parity byte.
	for size := 1; size <= 24; size++ {
		payload := make([]byte, size)
		r.Read(payload)

		frame, err := c.Encode(payload)
		require.NoError(t, err)
		require.False(t, c.HasErrors(frame))

		decoded, err := c.Decode(frame)
		require.NoError(t, err)
		require.Equal(t, payload, decoded, "size %d", size)
	}

	// A larger payload with a multi-byte parity block.
	payload := make([]byte, 50)
	for i := range payload {
		payload[i] = 0x41
	}
	frame, err := c.Encode(payload)
	require.NoError(t, err)
	require.Len(t, frame, 50+2+4)
	decoded, err := c.Decode(frame)
	require.NoError(t, err)
	require.Equal(t, payload, decoded)
}

// TestClassicalFrameSelfSufficiency verifies that the redundancy percentage
// stored in the frame governs decoding, not the decoding instance's own
// setting.
func TestClassicalFrameSelfSufficiency(t *testing.T) {
	require := require.New(t)

	payload := []byte("price:42.17")
	frame, err := NewClassical(25).Encode(payload)
	require.NoError(err)

	decoded, err := NewClassical(8).Decode(frame)
	require.NoError(err)
	require.Equal(payload, decoded)
}

// TestClassicalParityMimicsTrailer: a payload whose parity fold spells a
// valid-looking [marker, redundancy] pair offers a fake trailer at the end
// of the frame. The decode scan must skip it (its fold does not add up) and
// settle on the real one.
func TestClassicalParityMimicsTrailer(t *testing.T) {
	require := require.New(t)

	payload := make([]byte, 12)
	payload[0] = classicalMarker
	payload[1] = 0x08
	c := NewClassical(30)

	frame, err := c.Encode(payload)
	require.NoError(err)
	// The fold reproduces the payload head, so the frame ends in
	// [marker 30 marker 0x08 0x00]: a 14-byte payload candidate with 8%
	// redundancy also satisfies the length equation.
	require.Equal([]byte{classicalMarker, 30, classicalMarker, 0x08, 0x00}, frame[len(frame)-5:])

	decoded, err := c.Decode(frame)
	require.NoError(err)
	require.Equal(payload, decoded)
}

func TestClassicalRejectsEmpty(t *testing.T) {
	_, err := NewClassical(8).Encode(nil)
	require.Equal(t, ErrInvalidData, err)

	_, err = NewClassical(8).Encode([]byte{})
	require.Equal(t, ErrInvalidData, err)
}

func TestClassicalRejectsGarbage(t *testing.T) {
	c := NewClassical(8)

	_, err := c.Decode(nil)
	require.Equal(t, ErrInvalidData, err)

	_, err = c.Decode([]byte{0x01, 0x02})
	require.Equal(t, ErrInvalidData, err)

	// No marker anywhere.
	_, err = c.Decode([]byte{0x01, 0x02, 0x03, 0x04, 0x05})
	require.Equal(t, ErrInvalidData, err)
}

func TestClassicalClamping(t *testing.T) {
	require := require.New(t)

	require.Equal(uint8(30), NewClassical(50).redundancy)
	require.Equal(uint8(30), NewClassical(255).redundancy)
	require.Equal(uint8(5), NewClassical(0).redundancy)
	require.Equal(uint8(5), NewClassical(4).redundancy)
	require.Equal(uint8(17), NewClassical(17).redundancy)
}

// TestClassicalHasErrorsHeuristic exercises the placeholder check directly:
// only a buffer with the marker in second-to-last position is checkable,
// and then the low nibble of the last byte decides.
func TestClassicalHasErrorsHeuristic(t *testing.T) {
	require := require.New(t)

	c := NewClassical(8)

	// Not checkable: reads as clean.
	require.False(c.HasErrors([]byte{0x01, 0x02, 0x03}))
	require.False(c.HasErrors([]byte{0x0F}))

	// Checkable, dirty low nibble.
	require.True(c.HasErrors([]byte{0x00, classicalMarker, 0x0F}))
	require.True(c.HasErrors([]byte{0x00, classicalMarker, 0x01}))

	// Checkable, clean low nibble.
	require.False(c.HasErrors([]byte{0x00, classicalMarker, 0xF0}))
	require.False(c.HasErrors([]byte{0x00, classicalMarker, 0x00}))
}

func TestClassicalDeterminism(t *testing.T) {
	c := NewClassical(12)
	payload := []byte("deterministic payload")

	a, err := c.Encode(payload)
	require.NoError(t, err)
	b, err := c.Encode(payload)
	require.NoError(t, err)
	require.Equal(t, a, b)
}
