package fast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestWriteRead walks a Writer and a Reader over the same byte sequence and
// verifies the cursor bookkeeping at every step.
func TestWriteRead(t *testing.T) {
	require := require.New(t)

	w := NewWriter(make([]byte, 0, 16))
	w.WriteByte(0x01)
	w.Write([]byte{0x02, 0x03, 0x04})
	w.WriteByte(0x05)

	require.Equal([]byte{0x01, 0x02, 0x03, 0x04, 0x05}, w.Bytes())

	r := NewReader(w.Bytes())
	require.Equal(0, r.Position())
	require.Equal(5, r.Remaining())
	require.False(r.Empty())

	require.Equal(byte(0x01), r.ReadByte())
	require.Equal([]byte{0x02, 0x03, 0x04}, r.Read(3))
	require.Equal(4, r.Position())
	require.Equal(1, r.Remaining())

	require.Equal(byte(0x05), r.ReadByte())
	require.True(r.Empty())
	require.Equal(0, r.Remaining())
}

// TestReaderPanics documents the deliberate absence of bounds checking.
func TestReaderPanics(t *testing.T) {
	require := require.New(t)

	r := NewReader([]byte{0xAA})
	_ = r.ReadByte()

	require.Panics(func() {
		_ = r.ReadByte()
	})
	require.Panics(func() {
		_ = NewReader([]byte{0xAA}).Read(2)
	})
}

// TestWriterAppendsToInitial verifies the Writer keeps whatever prefix it was
// constructed with.
func TestWriterAppendsToInitial(t *testing.T) {
	w := NewWriter([]byte{0xFF})
	w.WriteByte(0x00)
	require.Equal(t, []byte{0xFF, 0x00}, w.Bytes())
}
