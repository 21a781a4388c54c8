package fast

// buffer.go provides minimal linear byte buffers for frame building and parsing.
//
// The error-correction frame formats in this repository are assembled and
// consumed strictly front-to-back, so the general-purpose machinery of
// bytes.Buffer / bufio is unnecessary overhead. The Writer is a thin wrapper
// over append; the Reader is a slice plus a cursor. Neither performs bounds
// checking: reading past the end panics, which is acceptable because every
// frame parser validates the total length before it starts consuming bytes.

type Reader struct {
	// buf is the underlying data being consumed.
	buf []byte
	// offset is the index of the next unread byte.
	offset int
}

type Writer struct {
	// buf accumulates the written bytes.
	buf []byte
}

// NewReader creates a Reader positioned at the start of bb.
func NewReader(bb []byte) *Reader {
	return &Reader{
		buf:    bb,
		offset: 0,
	}
}

// NewWriter creates a Writer that appends onto bb.
// Callers usually pass make([]byte, 0, capacity) with the frame size
// precomputed so encoding performs a single allocation.
func NewWriter(bb []byte) *Writer {
	return &Writer{
		buf: bb,
	}
}

// WriteByte appends one byte.
func (b *Writer) WriteByte(v byte) {
	b.buf = append(b.buf, v)
}

// Write appends a slice of bytes.
func (b *Writer) Write(v []byte) {
	b.buf = append(b.buf, v...)
}

// Read consumes and returns the next n bytes.
//
// The returned slice aliases the underlying buffer; callers that keep the
// result across later writes must copy it. Panics if fewer than n bytes
// remain.
func (b *Reader) Read(n int) []byte {
	res := b.buf[b.offset : b.offset+n]
	b.offset += n
	return res
}

// ReadByte consumes and returns a single byte. Panics at end of buffer.
func (b *Reader) ReadByte() byte {
	res := b.buf[b.offset]
	b.offset++
	return res
}

// Position returns how many bytes have been consumed so far.
func (b *Reader) Position() int {
	return b.offset
}

// Remaining returns how many unread bytes are left.
func (b *Reader) Remaining() int {
	return len(b.buf) - b.offset
}

// Bytes returns the entire underlying buffer of the Reader.
func (b *Reader) Bytes() []byte {
	return b.buf
}

// Bytes returns the accumulated content of the Writer.
func (b *Writer) Bytes() []byte {
	return b.buf
}

// Empty reports whether the Reader has consumed every byte.
func (b *Reader) Empty() bool {
	return len(b.buf) == b.offset
}
