package asn1

import (
	"bytes"
	"slices"
	"strconv"
	"strings"

	"keymatdec.dev/keymatdec/asn1/internal/vlq"
)

//region [UNIVERSAL 3] BIT STRING

// BitString implements the ASN.1 BIT STRING type. A bit string is padded up
// to the nearest byte in memory and the number of valid bits is recorded.
//
// See also Section 22 of Rec. ITU-T X.680.
type BitString struct {
	Bytes      []byte // bits packed into bytes, padding bits not masked
	UnusedBits int    // number of unused bits in the final byte, 0..7
}

// IsValid reports whether there are enough bytes in s for the indicated
// unused-bits count.
func (s BitString) IsValid() bool {
	return s.UnusedBits >= 0 && s.UnusedBits <= 7 && (s.UnusedBits == 0 || len(s.Bytes) > 0)
}

// BitLength returns the number of valid bits in s.
func (s BitString) BitLength() int {
	if len(s.Bytes) == 0 {
		return 0
	}
	return len(s.Bytes)*8 - s.UnusedBits
}

//endregion

//region [UNIVERSAL 5] NULL

// Null represents the ASN.1 NULL type.
//
// See also Section 24 of Rec. ITU-T X.680.
type Null struct{}

//endregion

//region [UNIVERSAL 6] OBJECT IDENTIFIER

// ObjectIdentifier represents an ASN.1 OBJECT IDENTIFIER in its encoded
// form: the raw content octets of the OID's DER encoding, not the decoded
// arcs. Comparisons and lookups work on these bytes directly, which is all
// the key dispatcher needs (matching an algorithm OID against a constant).
//
// See also Section 32 of Rec. ITU-T X.680.
type ObjectIdentifier []byte

// Equal reports whether oid and other encode the same identifier.
func (oid ObjectIdentifier) Equal(other ObjectIdentifier) bool {
	return slices.Equal(oid, other)
}

// String returns the dot-separated notation of oid by decoding its arcs.
// If oid is malformed, String returns a placeholder rather than panicking.
// [keymatdec.dev/keymatdec/asn1/der.ReadObjectIdentifier] checks only the
// payload length, not the arc encoding, so an OID it returns can still
// render as the placeholder.
func (oid ObjectIdentifier) String() string {
	arcs, ok := decodeArcs(oid)
	if !ok {
		return "<invalid OID>"
	}
	var b strings.Builder
	for i, a := range arcs {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.FormatUint(uint64(a), 10))
	}
	return b.String()
}

// decodeArcs decodes the dotted arcs of an encoded OID, for display purposes
// only: malformed input yields ok == false rather than an error, since this
// is used only by String(). Each arc is read with [vlq.ReadMinimal], the
// same minimally-encoded base-128 codec DER requires for every VLQ, so a
// non-minimally-encoded arc is rejected just like any other malformed OID.
func decodeArcs(oid []byte) (arcs []uint64, ok bool) {
	if len(oid) == 0 {
		return nil, false
	}
	r := bytes.NewReader(oid)
	first, err := vlq.ReadMinimal[uint64](r)
	if err != nil {
		return nil, false
	}
	if first < 80 {
		arcs = append(arcs, first/40, first%40)
	} else {
		arcs = append(arcs, 2, first-80)
	}
	for r.Len() > 0 {
		v, err := vlq.ReadMinimal[uint64](r)
		if err != nil {
			return nil, false
		}
		arcs = append(arcs, v)
	}
	return arcs, true
}

//endregion
