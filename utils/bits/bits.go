// Package bits implements a bitstream Reader and Writer over a plain byte
// slice. Values narrower than a byte (single-bit flags, 2-bit tags, compact
// length fields) are packed back to back without padding, which is what the
// envelope wire format uses for its side-channel stream.
package bits

type (
	// Array is the container for the packed bitstream.
	Array struct {
		Bytes []byte
	}

	// Writer appends bit groups to an Array. bitOffset tracks how many bits
	// of the last byte are already occupied.
	Writer struct {
		*Array
		bitOffset int // 0-7, index of the next free bit in Bytes[last]
	}

	// Reader consumes bit groups from an Array, tracking both the byte index
	// and the bit position within that byte.
	Reader struct {
		*Array
		byteOffset int
		bitOffset  int // 0-7, index of the next unread bit in Bytes[byteOffset]
	}
)

// NewWriter creates a bitstream writer appending to arr.
func NewWriter(arr *Array) *Writer {
	return &Writer{
		Array: arr,
	}
}

// NewReader creates a bitstream reader consuming arr from the start.
func NewReader(arr *Array) *Reader {
	return &Reader{
		Array: arr,
	}
}

func (a *Writer) byteBitsFree() int {
	return 8 - a.bitOffset
}

// writeIntoLastByte merges the low bits of v into the currently open byte.
// Free positions of that byte are known to be zero, so OR is sufficient.
func (a *Writer) writeIntoLastByte(v uint) {
	a.Bytes[len(a.Bytes)-1] |= byte(v << a.bitOffset)
}

// zeroTopByteBits masks v down so that only the bits which fit into the
// current byte survive.
func zeroTopByteBits(v uint, bits int) uint {
	mask := uint(0xff) >> bits
	return v & mask
}

// Write appends the lowest 'bits' bits of v to the stream.
// Groups that do not fit into the open byte spill into the next one, low
// bits first.
func (a *Writer) Write(bits int, v uint) {
	if a.bitOffset == 0 {
		a.Bytes = append(a.Bytes, byte(0))
	}

	free := a.byteBitsFree()

	if bits <= free {
		// Fits into the open byte.
		toWrite := bits
		a.writeIntoLastByte(v)
		if toWrite == free {
			a.bitOffset = 0
		} else {
			a.bitOffset += toWrite
		}
	} else {
		// Fill the open byte, then recurse with what is left.
		toWrite := free
		clear := a.bitOffset
		a.writeIntoLastByte(zeroTopByteBits(v, clear))
		a.bitOffset = 0
		a.Write(bits-toWrite, v>>toWrite)
	}
}

func (a *Reader) byteBitsFree() int {
	return 8 - a.bitOffset
}

// Read consumes 'bits' bits and returns them as an integer, mirroring the
// order Write produced them in.
func (a *Reader) Read(bits int) (v uint) {
	if bits == 0 {
		return 0
	}

	free := a.byteBitsFree()

	if bits <= free {
		// All requested bits live in the current byte.
		toRead := bits
		clear := 8 - (a.bitOffset + toRead)
		v = zeroTopByteBits(uint(a.Bytes[a.byteOffset]), clear) >> a.bitOffset
		if toRead == free {
			a.bitOffset = 0
			a.byteOffset++
		} else {
			a.bitOffset += toRead
		}
	} else {
		// Take the rest of this byte, then recurse into the next.
		toRead := free
		v = uint(a.Bytes[a.byteOffset]) >> a.bitOffset
		a.bitOffset = 0
		a.byteOffset++
		rest := a.Read(bits - toRead)
		v |= rest << toRead
	}
	return
}

// NonReadBytes returns the number of bytes not yet fully consumed.
func (a *Reader) NonReadBytes() int {
	return len(a.Bytes) - a.byteOffset
}

// NonReadBits returns the total number of unread bits.
func (a *Reader) NonReadBits() int {
	return a.NonReadBytes()*8 - a.bitOffset
}
