package bits

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// testWord is one value to push through the stream: 'bits' wide, value 'v'.
type testWord struct {
	bits int
	v    uint
}

// bytesToFit returns the minimum number of bytes needed to hold 'bits' bits.
func bytesToFit(bits int) int {
	if bits%8 == 0 {
		return bits / 8
	}
	return bits/8 + 1
}

// genTestWords produces a random sequence of words for round-trip testing.
func genTestWords(r *rand.Rand, maxCount int, maxBits int) []testWord {
	count := r.Intn(maxCount)
	words := make([]testWord, count)
	for i := range words {
		if maxBits == 1 {
			words[i].bits = 1
		} else {
			words[i].bits = 1 + r.Intn(maxBits-1)
		}
		words[i].v = uint(r.Intn(1 << words[i].bits))
	}
	return words
}

// testBitArray writes every word, checks the resulting array size, then reads
// the words back and verifies values and cursor accounting.
func testBitArray(t *testing.T, words []testWord, name string) {
	arr := Array{make([]byte, 0, 100)}
	writer := NewWriter(&arr)
	reader := NewReader(&arr)

	totalBitsWritten := 0
	for _, w := range words {
		writer.Write(w.bits, w.v)
		totalBitsWritten += w.bits
	}

	assert.EqualValuesf(t, bytesToFit(totalBitsWritten), len(arr.Bytes), "%s: byte length mismatch", name)

	totalBitsRead := 0
	for _, w := range words {
		remainingBits := bytesToFit(totalBitsWritten)*8 - totalBitsRead
		assert.EqualValuesf(t, remainingBits, reader.NonReadBits(), "%s: NonReadBits mismatch before read", name)
		assert.EqualValuesf(t, bytesToFit(reader.NonReadBits()), reader.NonReadBytes(), "%s: NonReadBytes mismatch before read", name)

		v := reader.Read(w.bits)
		assert.EqualValuesf(t, w.v, v, "%s: read value mismatch", name)
		totalBitsRead += w.bits
	}

	// Whatever padding remains in the last byte must read back as zeros.
	tail := reader.Read(reader.NonReadBits())
	assert.EqualValuesf(t, 0, tail, "%s: tail padding not zero", name)
	assert.EqualValuesf(t, 0, reader.NonReadBits(), "%s: bits left unread", name)
}

func TestFixedWords(t *testing.T) {
	testBitArray(t, nil, "empty")
	testBitArray(t, []testWord{{1, 1}}, "single bit")
	testBitArray(t, []testWord{{2, 3}, {1, 0}}, "tag and flag")
	testBitArray(t, []testWord{{8, 0xFF}, {8, 0x00}, {8, 0xA5}}, "aligned bytes")
	testBitArray(t, []testWord{{3, 5}, {7, 100}, {5, 17}, {1, 1}}, "straddling bytes")
}

func TestRandomWords(t *testing.T) {
	r := rand.New(rand.NewSource(2718))
	for maxBits := 1; maxBits <= 8; maxBits++ {
		t.Run(fmt.Sprintf("maxBits=%d", maxBits), func(t *testing.T) {
			for i := 0; i < 20; i++ {
				words := genTestWords(r, 50, maxBits)
				testBitArray(t, words, fmt.Sprintf("random %d/%d", maxBits, i))
			}
		})
	}
}
