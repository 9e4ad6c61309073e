package der_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keymatdec.dev/keymatdec/asn1"
	"keymatdec.dev/keymatdec/asn1/der"
	"keymatdec.dev/keymatdec/cursor"
)

func TestReadIntegerCanonicalValues(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want int64
	}{
		{"zero", []byte{0x02, 0x01, 0x00}, 0},
		{"positive needs no padding", []byte{0x02, 0x01, 0x7f}, 127},
		{"positive needs padding", []byte{0x02, 0x02, 0x00, 0x80}, 128},
		{"negative one", []byte{0x02, 0x01, 0xff}, -1},
		{"negative large", []byte{0x02, 0x02, 0xff, 0x01}, -255},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			i, err := der.ReadInteger(cursor.New(tc.in))
			require.NoError(t, err)
			got, err := der.Cast[int64](i)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReadIntegerNonCanonical(t *testing.T) {
	cases := [][]byte{
		{0x02, 0x02, 0x00, 0x03}, // redundant leading 0x00
		{0x02, 0x02, 0xff, 0x80}, // redundant leading 0xff
		{0x02, 0x00},             // empty payload
	}
	for _, in := range cases {
		_, err := der.ReadInteger(cursor.New(in))
		require.Error(t, err)
		assert.ErrorIs(t, err, asn1.NewError(asn1.NonCanonical, -1, nil))
	}
}

func TestCastOverflow(t *testing.T) {
	i, err := der.ReadInteger(cursor.New([]byte{0x02, 0x02, 0x01, 0x00}))
	require.NoError(t, err)
	_, err = der.Cast[int8](i)
	assert.ErrorIs(t, err, asn1.NewError(asn1.Overflow, -1, nil))
}

func TestReadBitString(t *testing.T) {
	// 3 unused bits, content 0x6e 0x5d = 01101110 01011101, top 13 bits valid.
	in := []byte{0x03, 0x03, 0x03, 0x6e, 0x5d}
	bs, err := der.ReadBitString(cursor.New(in))
	require.NoError(t, err)
	assert.Equal(t, 3, bs.UnusedBits)
	assert.Equal(t, []byte{0x6e, 0x5d}, bs.Bytes)
}

func TestReadBitStringEmptyFails(t *testing.T) {
	_, err := der.ReadBitString(cursor.New([]byte{0x03, 0x00}))
	assert.ErrorIs(t, err, asn1.NewError(asn1.Empty, -1, nil))
}

func TestReadBitStringTooManyUnusedBits(t *testing.T) {
	_, err := der.ReadBitString(cursor.New([]byte{0x03, 0x02, 0x08, 0x00}))
	assert.ErrorIs(t, err, asn1.NewError(asn1.MaxUnusedBitsExceeded, -1, nil))
}

func TestReadOctetString(t *testing.T) {
	b, err := der.ReadOctetString(cursor.New([]byte{0x04, 0x03, 0xde, 0xad, 0xbe}))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe}, b)
}

func TestReadNull(t *testing.T) {
	_, err := der.ReadNull(cursor.New([]byte{0x05, 0x00}))
	assert.NoError(t, err)
}

func TestReadNullNonEmptyFails(t *testing.T) {
	_, err := der.ReadNull(cursor.New([]byte{0x05, 0x01, 0x00}))
	assert.ErrorIs(t, err, asn1.NewError(asn1.NonCanonical, -1, nil))
}

func TestObjectIdentifierRoundTrip(t *testing.T) {
	cases := [][]uint{
		{1, 2, 840, 10045, 2, 1},
		{1, 2, 840, 10045, 3, 1, 7},
		{2, 100, 3},
		{0, 9, 2342, 19200300, 100, 1, 1},
	}
	for _, arcs := range cases {
		oid, err := der.FromDotted(arcs...)
		require.NoError(t, err)

		// Wrap in a TLV and read it back through the cursor-based reader.
		tlv := append([]byte{0x06, byte(len(oid))}, oid...)
		got, err := der.ReadObjectIdentifier(cursor.New(tlv))
		require.NoError(t, err)
		assert.True(t, got.Equal(oid))
	}
}

func TestObjectIdentifierTooLong(t *testing.T) {
	payload := make([]byte, 40)
	tlv := append([]byte{0x06, 0x28}, payload...)
	_, err := der.ReadObjectIdentifier(cursor.New(tlv))
	assert.ErrorIs(t, err, asn1.NewError(asn1.OidTooLong, -1, nil))
}

func TestReadSequencePrimitiveEncodingRejected(t *testing.T) {
	_, err := der.ReadSequence(cursor.New([]byte{0x10, 0x00})) // SEQUENCE tag, primitive bit
	assert.ErrorIs(t, err, asn1.NewError(asn1.NonCanonical, -1, nil))
}

func TestReadSequenceWithNull(t *testing.T) {
	sub, err := der.ReadSequence(cursor.New([]byte{0x30, 0x02, 0x05, 0x00}))
	require.NoError(t, err)
	_, err = der.ReadNull(sub)
	assert.NoError(t, err)
	assert.Equal(t, 0, sub.Len())
}

func TestContextSpecificImplicit(t *testing.T) {
	// [0] IMPLICIT OCTET STRING
	in := []byte{0x80, 0x02, 0xaa, 0xbb}
	got, err := der.ReadContextSpecificImplicit(cursor.New(in), 0, func(c *cursor.Cursor, n int) ([]byte, error) {
		return c.Take(n)
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0xbb}, got)
}

func TestContextSpecificExplicit(t *testing.T) {
	// [0] EXPLICIT INTEGER 5
	in := []byte{0xa0, 0x03, 0x02, 0x01, 0x05}
	got, err := der.ReadContextSpecificExplicit(cursor.New(in), 0, der.ReadInteger)
	require.NoError(t, err)
	n, err := der.Cast[int64](got)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}
