package der

import (
	"bytes"
	"unsafe"

	"keymatdec.dev/keymatdec/asn1"
	"keymatdec.dev/keymatdec/asn1/internal/vlq"
	"keymatdec.dev/keymatdec/cursor"
)

//region INTEGER

// Integer is a borrowed view over the content octets of a DER INTEGER: a
// canonical two's-complement big-endian encoding. Bytes aliases the input
// cursor's backing array; it is not copied.
type Integer struct {
	Bytes []byte
}

// ReadInteger reads a full INTEGER TLV from c.
func ReadInteger(c *cursor.Cursor) (Integer, error) {
	h, err := ExpectHeader(c, asn1.ClassUniversal, asn1.TagInteger)
	if err != nil {
		return Integer{}, err
	}
	return ReadIntegerValue(c, h.Length)
}

// ReadIntegerValue reads length payload bytes as an INTEGER value, assuming
// the caller has already consumed the header. It enforces DER's canonical
// encoding rule: no redundant leading 0x00 or 0xFF byte.
func ReadIntegerValue(c *cursor.Cursor, length int) (Integer, error) {
	mark := c.Mark()
	b, err := c.Take(length)
	if err != nil {
		return Integer{}, err
	}
	if len(b) == 0 {
		c.Reset(mark)
		return Integer{}, asn1.NewError(asn1.NonCanonical, mark, nil)
	}
	if len(b) >= 2 {
		if b[0] == 0x00 && b[1] < 0x80 {
			c.Reset(mark)
			return Integer{}, asn1.NewError(asn1.NonCanonical, mark, nil)
		}
		if b[0] == 0xff && b[1] >= 0x80 {
			c.Reset(mark)
			return Integer{}, asn1.NewError(asn1.NonCanonical, mark, nil)
		}
	}
	return Integer{Bytes: b}, nil
}

// Cast converts i into the signed integer type T, sign-extending as needed.
// It fails with [asn1.Overflow] if i's payload has more bytes than T can
// hold.
func Cast[T interface {
	~int8 | ~int16 | ~int32 | ~int64
}](i Integer) (T, error) {
	width := sizeOf[T]()
	if len(i.Bytes) > width {
		return 0, asn1.NewError(asn1.Overflow, -1, nil)
	}
	var v int64
	for _, b := range i.Bytes {
		v = v<<8 | int64(b)
	}
	if n := len(i.Bytes); n > 0 && n < 8 && i.Bytes[0]&0x80 != 0 {
		v |= ^int64(0) << uint(n*8)
	}
	return T(v), nil
}

func sizeOf[T ~int8 | ~int16 | ~int32 | ~int64]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

//endregion

//region BIT STRING

// ReadBitString reads a full BIT STRING TLV from c.
func ReadBitString(c *cursor.Cursor) (asn1.BitString, error) {
	h, err := ExpectHeader(c, asn1.ClassUniversal, asn1.TagBitString)
	if err != nil {
		return asn1.BitString{}, err
	}
	return ReadBitStringValue(c, h.Length)
}

// ReadBitStringValue reads length payload bytes as a BIT STRING value.
// The first payload byte is the unused-bits count (0-7); the remainder is
// the content, left as-is (padding bits are not masked).
func ReadBitStringValue(c *cursor.Cursor, length int) (asn1.BitString, error) {
	mark := c.Mark()
	if length == 0 {
		return asn1.BitString{}, asn1.NewError(asn1.Empty, mark, nil)
	}
	b, err := c.Take(length)
	if err != nil {
		return asn1.BitString{}, err
	}
	bs := asn1.BitString{Bytes: b[1:], UnusedBits: int(b[0])}
	if !bs.IsValid() {
		c.Reset(mark)
		return asn1.BitString{}, asn1.NewError(asn1.MaxUnusedBitsExceeded, mark, nil)
	}
	return bs, nil
}

//endregion

//region OCTET STRING

// ReadOctetString reads a full OCTET STRING TLV from c, returning its
// content octets as-is.
func ReadOctetString(c *cursor.Cursor) ([]byte, error) {
	h, err := ExpectHeader(c, asn1.ClassUniversal, asn1.TagOctetString)
	if err != nil {
		return nil, err
	}
	return c.Take(h.Length)
}

//endregion

//region NULL

// ReadNull reads a full NULL TLV from c, failing with [asn1.NonCanonical] if
// the payload is not empty.
func ReadNull(c *cursor.Cursor) (asn1.Null, error) {
	mark := c.Mark()
	h, err := ExpectHeader(c, asn1.ClassUniversal, asn1.TagNull)
	if err != nil {
		return asn1.Null{}, err
	}
	if h.Length != 0 {
		c.Reset(mark)
		return asn1.Null{}, asn1.NewError(asn1.NonCanonical, mark, nil)
	}
	return asn1.Null{}, nil
}

//endregion

//region OBJECT IDENTIFIER

// MaxOIDLength is the longest OBJECT IDENTIFIER payload this module accepts.
const MaxOIDLength = 39

// ReadObjectIdentifier reads a full OBJECT IDENTIFIER TLV from c.
func ReadObjectIdentifier(c *cursor.Cursor) (asn1.ObjectIdentifier, error) {
	mark := c.Mark()
	h, err := ExpectHeader(c, asn1.ClassUniversal, asn1.TagOID)
	if err != nil {
		return nil, err
	}
	if h.Length > MaxOIDLength {
		c.Reset(mark)
		return nil, asn1.NewError(asn1.OidTooLong, mark, nil)
	}
	b, err := c.Take(h.Length)
	if err != nil {
		return nil, err
	}
	return asn1.ObjectIdentifier(b), nil
}

// ReadObjectIdentifierValue reads length payload bytes as an OBJECT
// IDENTIFIER value, for use under IMPLICIT context-specific tagging.
func ReadObjectIdentifierValue(c *cursor.Cursor, length int) (asn1.ObjectIdentifier, error) {
	mark := c.Mark()
	if length > MaxOIDLength {
		return nil, asn1.NewError(asn1.OidTooLong, mark, nil)
	}
	b, err := c.Take(length)
	if err != nil {
		return nil, err
	}
	return asn1.ObjectIdentifier(b), nil
}

// FromDotted encodes the arcs of an OID (e.g. 1, 2, 840, 10045, 2, 1 for
// 1.2.840.10045.2.1) into its DER content-octet form, for building OID
// constants. The first arc
// must be 0, 1, or 2; if it is 0 or 1 the second arc must be less than 40.
// Each arc is written with [vlq.Write], the same minimally-encoded
// base-128 codec DER requires for every VLQ.
func FromDotted(arcs ...uint) (asn1.ObjectIdentifier, error) {
	if len(arcs) < 2 || arcs[0] > 2 || (arcs[0] < 2 && arcs[1] >= 40) {
		return nil, asn1.NewError(asn1.Parse, -1, nil)
	}
	var out bytes.Buffer
	if _, err := vlq.Write(&out, arcs[0]*40+arcs[1]); err != nil {
		return nil, asn1.NewError(asn1.Parse, -1, err)
	}
	for _, a := range arcs[2:] {
		if _, err := vlq.Write(&out, a); err != nil {
			return nil, asn1.NewError(asn1.Parse, -1, err)
		}
	}
	return asn1.ObjectIdentifier(out.Bytes()), nil
}

//endregion

//region SEQUENCE

// ReadSequence reads a SEQUENCE header and returns a new cursor over its
// payload. The tag must use the constructed encoding; a primitive-encoded
// SEQUENCE fails with [asn1.NonCanonical].
func ReadSequence(c *cursor.Cursor) (*cursor.Cursor, error) {
	mark := c.Mark()
	h, err := ExpectHeader(c, asn1.ClassUniversal, asn1.TagSequence)
	if err != nil {
		return nil, err
	}
	if !h.Constructed {
		c.Reset(mark)
		return nil, asn1.NewError(asn1.NonCanonical, mark, nil)
	}
	payload, err := c.Take(h.Length)
	if err != nil {
		return nil, err
	}
	return cursor.New(payload), nil
}

//endregion

//region Any

// Any defers interpretation of a DER value: it carries the value's tag and
// its raw content octets, without checking canonical form for the
// underlying type. Schemas use it for fields whose exact shape the caller
// decides later.
type Any struct {
	Tag         asn1.Tag
	Constructed bool
	Bytes       []byte
}

// ReadAny reads a full TLV from c without interpreting its payload.
func ReadAny(c *cursor.Cursor) (Any, error) {
	h, err := ReadHeader(c)
	if err != nil {
		return Any{}, err
	}
	b, err := c.Take(h.Length)
	if err != nil {
		return Any{}, err
	}
	return Any{Tag: h.Tag, Constructed: h.Constructed, Bytes: b}, nil
}

//endregion

//region context-specific wrapper

// ReadContextSpecificImplicit reads a context-specific tagged value using
// IMPLICIT tagging: the header's class must be CONTEXT SPECIFIC and number
// must equal number, and the payload is interpreted directly by readValue
// using the header's length (no nested TLV).
func ReadContextSpecificImplicit[T any](c *cursor.Cursor, number uint, readValue func(*cursor.Cursor, int) (T, error)) (T, error) {
	var zero T
	h, err := ExpectHeader(c, asn1.ClassContextSpecific, number)
	if err != nil {
		return zero, err
	}
	return readValue(c, h.Length)
}

// ReadContextSpecificExplicit reads a context-specific tagged value using
// EXPLICIT tagging: the header's class must be CONTEXT SPECIFIC and number
// must equal number, and the payload is itself a complete TLV, read by
// invoking read on a sub-cursor over it.
func ReadContextSpecificExplicit[T any](c *cursor.Cursor, number uint, read func(*cursor.Cursor) (T, error)) (T, error) {
	var zero T
	h, err := ExpectHeader(c, asn1.ClassContextSpecific, number)
	if err != nil {
		return zero, err
	}
	payload, err := c.Take(h.Length)
	if err != nil {
		return zero, err
	}
	inner := cursor.New(payload)
	v, err := read(inner)
	if err != nil {
		return zero, err
	}
	if inner.Len() != 0 {
		return zero, asn1.NewError(asn1.NonCanonical, inner.Pos(), nil)
	}
	return v, nil
}

//endregion
