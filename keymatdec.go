// Package keymatdec decodes PEM-wrapped ECDSA key material — PKCS#8
// PrivateKeyInfo, RFC 5915 EC private keys, and X.509 SubjectPublicKeyInfo
// records — down to their raw curve-point or scalar bytes, without
// depending on crypto/x509's ASN.1 machinery.
package keymatdec

import (
	"keymatdec.dev/keymatdec/asn1"
	"keymatdec.dev/keymatdec/asn1/der"
	"keymatdec.dev/keymatdec/asn1/schema"
	"keymatdec.dev/keymatdec/cursor"
	"keymatdec.dev/keymatdec/pem"
)

// KeyKind identifies the shape of key material a [DecodedKey] carries.
type KeyKind uint8

const (
	KeyKindUnknown KeyKind = iota
	// KeyKindECPrivateKey is an EC private scalar, from either a PKCS#8
	// "PRIVATE KEY" block or a raw RFC 5915 "EC PRIVATE KEY" block.
	KeyKindECPrivateKey
	// KeyKindECPublicKey is an EC public point, from a "PUBLIC KEY" block.
	KeyKindECPublicKey
)

func (k KeyKind) String() string {
	switch k {
	case KeyKindECPrivateKey:
		return "EC PRIVATE KEY"
	case KeyKindECPublicKey:
		return "EC PUBLIC KEY"
	default:
		return "UNKNOWN"
	}
}

// DecodedKey is the result of decoding one PEM block.
type DecodedKey struct {
	Kind KeyKind
	// Bytes is the private scalar (big-endian, curve-order width) for
	// KeyKindECPrivateKey, or the uncompressed curve point (0x04 || X || Y)
	// for KeyKindECPublicKey.
	Bytes []byte
	// Curve is the named-curve OID, when present in the encoding. PKCS#8
	// PrivateKeyInfo and SubjectPublicKeyInfo always carry it; a bare RFC
	// 5915 block only does if its optional parameters field is present.
	Curve asn1.ObjectIdentifier
}

var (
	oidPublicKeyECDSA asn1.ObjectIdentifier
	oidNamedCurveP256 asn1.ObjectIdentifier
)

func init() {
	var err error
	if oidPublicKeyECDSA, err = der.FromDotted(1, 2, 840, 10045, 2, 1); err != nil {
		panic(err)
	}
	if oidNamedCurveP256, err = der.FromDotted(1, 2, 840, 10045, 3, 1, 7); err != nil {
		panic(err)
	}
}

// OIDNamedCurveP256 is the OBJECT IDENTIFIER for the P-256 (secp256r1, also
// known as prime256v1) curve.
func OIDNamedCurveP256() asn1.ObjectIdentifier { return oidNamedCurveP256 }

// algorithmIdentifier is the AlgorithmIdentifier SEQUENCE shared by PKCS#8
// and SubjectPublicKeyInfo. For ECDSA keys, Parameters carries the named
// curve OID directly (not context-tagged); it is OPTIONAL per X.509 but
// always present for the EC case this module decodes.
type algorithmIdentifier struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.ObjectIdentifier `asn1:"optional"`
}

// privateKeyInfo is the PKCS#8 PrivateKeyInfo SEQUENCE (RFC 5958).
type privateKeyInfo struct {
	Version    int64
	Algorithm  algorithmIdentifier
	PrivateKey []byte // OCTET STRING wrapping a DER-encoded ecPrivateKey
}

// ecPrivateKey is the RFC 5915 ECPrivateKey SEQUENCE.
type ecPrivateKey struct {
	Version    int64
	PrivateKey []byte
	Parameters asn1.ObjectIdentifier `asn1:"tag:0,explicit,optional"`
	PublicKey  asn1.BitString        `asn1:"tag:1,explicit,optional"`
}

// subjectPublicKeyInfo is the X.509 SubjectPublicKeyInfo SEQUENCE.
type subjectPublicKeyInfo struct {
	Algorithm algorithmIdentifier
	PublicKey asn1.BitString
}

// DecodeKey parses a single PEM-encoded key from input and decodes it
// according to its boundary label: "PRIVATE KEY" (PKCS#8), "EC PRIVATE KEY"
// (RFC 5915), or "PUBLIC KEY" (SubjectPublicKeyInfo). Any other label fails
// with [asn1.UnknownEncoding].
func DecodeKey(input []byte) (*DecodedKey, error) {
	doc, err := pem.Parse(input)
	if err != nil {
		return nil, err
	}

	switch doc.Label {
	case "PRIVATE KEY":
		return decodePKCS8(doc.Bytes)
	case "EC PRIVATE KEY":
		return decodeECPrivateKey(doc.Bytes)
	case "PUBLIC KEY":
		return decodeSubjectPublicKeyInfo(doc.Bytes)
	default:
		return nil, asn1.NewError(asn1.UnknownEncoding, -1, nil)
	}
}

func decodePKCS8(body []byte) (*DecodedKey, error) {
	var info privateKeyInfo
	if err := schema.Unmarshal(cursor.New(body), &info); err != nil {
		return nil, err
	}
	if !info.Algorithm.Algorithm.Equal(oidPublicKeyECDSA) {
		return nil, asn1.NewError(asn1.UnsupportedAlgorithm, -1, nil)
	}

	var ec ecPrivateKey
	if err := schema.Unmarshal(cursor.New(info.PrivateKey), &ec); err != nil {
		return nil, err
	}

	curve := info.Algorithm.Parameters
	if curve == nil {
		curve = ec.Parameters
	}
	return &DecodedKey{Kind: KeyKindECPrivateKey, Bytes: ec.PrivateKey, Curve: curve}, nil
}

func decodeECPrivateKey(input []byte) (*DecodedKey, error) {
	var ec ecPrivateKey
	if err := schema.Unmarshal(cursor.New(input), &ec); err != nil {
		return nil, err
	}
	return &DecodedKey{Kind: KeyKindECPrivateKey, Bytes: ec.PrivateKey, Curve: ec.Parameters}, nil
}

func decodeSubjectPublicKeyInfo(input []byte) (*DecodedKey, error) {
	var spki subjectPublicKeyInfo
	if err := schema.Unmarshal(cursor.New(input), &spki); err != nil {
		return nil, err
	}
	if !spki.Algorithm.Algorithm.Equal(oidPublicKeyECDSA) {
		return nil, asn1.NewError(asn1.UnsupportedAlgorithm, -1, nil)
	}
	pk := spki.PublicKey
	if !pk.IsValid() || pk.BitLength() != len(pk.Bytes)*8 {
		return nil, asn1.NewError(asn1.NonCanonical, -1, nil)
	}
	return &DecodedKey{Kind: KeyKindECPublicKey, Bytes: pk.Bytes, Curve: spki.Algorithm.Parameters}, nil
}
