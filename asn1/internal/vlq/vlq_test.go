package vlq

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMinimalRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 0x7f, 0x80, 0x3fff, 0x4000, 1 << 20, 1<<35 - 1}
	for _, n := range cases {
		var buf bytes.Buffer
		_, err := Write(&buf, n)
		require.NoError(t, err)

		got, err := ReadMinimal[uint64](&buf)
		require.NoError(t, err)
		assert.Equal(t, n, got)
		assert.Equal(t, 0, buf.Len(), "ReadMinimal must consume exactly the encoded bytes")
	}
}

func TestReadMinimalRejectsNonMinimal(t *testing.T) {
	// 0x80 0x00 decodes to 0 but is not the minimal encoding of 0.
	_, err := ReadMinimal[uint64](bytes.NewReader([]byte{0x80, 0x00}))
	assert.Error(t, err)
}

func TestReadMinimalOverflow(t *testing.T) {
	// Five bytes (35 payload bits) overflow a uint32's 32 bits.
	in := []byte{0xff, 0xff, 0xff, 0xff, 0x7f}
	_, err := ReadMinimal[uint32](bytes.NewReader(in))
	assert.Error(t, err)
}

func TestLengthMatchesWrittenBytes(t *testing.T) {
	for _, n := range []uint64{0, 1, 127, 128, 16384, 1 << 30} {
		var buf bytes.Buffer
		written, err := Write(&buf, n)
		require.NoError(t, err)
		assert.Equal(t, Length(n), written)
		assert.Equal(t, written, buf.Len())
	}
}
