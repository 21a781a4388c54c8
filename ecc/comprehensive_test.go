package ecc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComprehensiveRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	c := NewComprehensive()

	for size := 1; size <= 19; size++ {
		payload := make([]byte, size)
		r.Read(payload)

		frame, err := c.Encode(payload)
		require.NoError(t, err)

		decoded, err := c.Decode(frame)
		require.NoError(t, err)
		require.Equal(t, payload, decoded, "size %d", size)
	}
}

// TestComprehensiveNesting checks the layering is quantum outermost: the
// frame carries the quantum markers, and unwrapping one layer at a time by
// hand gives the same result as the composed decode.
func TestComprehensiveNesting(t *testing.T) {
	require := require.New(t)

	c := NewComprehensive()
	payload := []byte{0x41, 0x42, 0x43, 0x44}

	frame, err := c.Encode(payload)
	require.NoError(err)
	require.Equal(byte(quantumHeaderMarker), frame[0])
	require.Equal(byte(quantumTrailerMarker), frame[len(frame)-1])

	bridgeFrame, err := NewQuantum().Decode(frame)
	require.NoError(err)
	require.Equal(byte(bridgeHeaderMarker), bridgeFrame[0])

	classicalFrame, err := NewBridge().Decode(bridgeFrame)
	require.NoError(err)

	// The inner classical layer runs at 10% redundancy.
	decoded, err := NewClassical(10).Decode(classicalFrame)
	require.NoError(err)
	require.Equal(payload, decoded)

	composed, err := c.Decode(frame)
	require.NoError(err)
	require.Equal(payload, composed)
}

func TestComprehensiveFreshFrameIsClean(t *testing.T) {
	require := require.New(t)

	c := NewComprehensive()
	frame, err := c.Encode([]byte{0x41, 0x42, 0x43, 0x44})
	require.NoError(err)
	require.False(c.HasErrors(frame))
}

// TestComprehensiveDetectsCorruption: a flipped byte inside the nested
// payload region must be visible without unwrapping any layer.
func TestComprehensiveDetectsCorruption(t *testing.T) {
	require := require.New(t)

	c := NewComprehensive()
	frame, err := c.Encode([]byte{0x41, 0x42, 0x43, 0x44})
	require.NoError(err)

	corrupted := make([]byte, len(frame))
	copy(corrupted, frame)
	corrupted[5] ^= 0xFF
	require.True(c.HasErrors(corrupted))
}

// TestComprehensiveBridgeCheckIndependence: the composed check must fire
// whenever the bridge sub-check alone fires on the buffer, even though the
// buffer is not a comprehensive frame.
func TestComprehensiveBridgeCheckIndependence(t *testing.T) {
	require := require.New(t)

	b := NewBridge()
	frame, err := b.Encode([]byte("ABCDEFG"))
	require.NoError(err)

	corrupted := make([]byte, len(frame))
	copy(corrupted, frame)
	corrupted[4] ^= 0xFF // breaks the first block's checksum

	require.True(b.HasErrors(corrupted))
	require.True(NewComprehensive().HasErrors(corrupted))
}

func TestComprehensiveRejectsEmpty(t *testing.T) {
	_, err := NewComprehensive().Encode(nil)
	require.Equal(t, ErrInvalidData, err)
}

func TestComprehensiveDeterminism(t *testing.T) {
	c := NewComprehensive()
	payload := []byte("price:42.17")

	a, err := c.Encode(payload)
	require.NoError(t, err)
	b, err := c.Encode(payload)
	require.NoError(t, err)
	require.Equal(t, a, b)
}
