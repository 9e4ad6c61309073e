package keymatdec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keymatdec.dev/keymatdec"
	"keymatdec.dev/keymatdec/asn1"
	"keymatdec.dev/keymatdec/asn1/der"
	"keymatdec.dev/keymatdec/asn1/schema"
	"keymatdec.dev/keymatdec/cursor"
	"keymatdec.dev/keymatdec/internal/fixtures"
)

func TestDecodeKeyPKCS8(t *testing.T) {
	key, err := keymatdec.DecodeKey([]byte(fixtures.PKCS8ECPrivateKey))
	require.NoError(t, err)
	assert.Equal(t, keymatdec.KeyKindECPrivateKey, key.Kind)
	assert.Len(t, key.Bytes, 32)
}

func TestDecodeKeyRFC5915(t *testing.T) {
	key, err := keymatdec.DecodeKey([]byte(fixtures.RFC5915ECPrivateKey))
	require.NoError(t, err)
	assert.Equal(t, keymatdec.KeyKindECPrivateKey, key.Kind)
	assert.Len(t, key.Bytes, 32)
	assert.Equal(t, fixtures.P256CurveOID, key.Curve.String())
}

func TestDecodeKeySubjectPublicKeyInfo(t *testing.T) {
	key, err := keymatdec.DecodeKey([]byte(fixtures.SubjectPublicKey))
	require.NoError(t, err)
	assert.Equal(t, keymatdec.KeyKindECPublicKey, key.Kind)
	require.Len(t, key.Bytes, 65)
	assert.Equal(t, byte(0x04), key.Bytes[0])
}

func TestDecodeKeyUnknownLabel(t *testing.T) {
	_, err := keymatdec.DecodeKey([]byte(fixtures.UnknownLabel))
	require.Error(t, err)
	assert.ErrorIs(t, err, asn1.NewError(asn1.UnknownEncoding, -1, nil))
}

func TestNonCanonicalIntegerRejected(t *testing.T) {
	_, err := der.ReadInteger(cursor.New(fixtures.NonCanonicalInteger))
	require.Error(t, err)
	assert.ErrorIs(t, err, asn1.NewError(asn1.NonCanonical, -1, nil))
}

func TestSequenceWithNullSchemaMismatch(t *testing.T) {
	type nullRecord struct {
		X asn1.Null
	}
	var withNull nullRecord
	assert.NoError(t, schema.Unmarshal(cursor.New(fixtures.SequenceWithNull), &withNull))

	type intRecord struct {
		X int32
	}
	var withInt intRecord
	err := schema.Unmarshal(cursor.New(fixtures.SequenceWithNull), &withInt)
	assert.ErrorIs(t, err, asn1.NewError(asn1.UnexpectedTag, -1, nil))
}
