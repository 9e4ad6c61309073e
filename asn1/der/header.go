// Package der implements a faithful, canonical-only subset of the
// Distinguished Encoding Rules (Rec. ITU-T X.690): header parsing and the
// type primitives (INTEGER, BIT STRING, OCTET STRING, NULL, OBJECT
// IDENTIFIER, SEQUENCE, and a context-specific wrapper) needed to decode
// PKCS#8, RFC 5915, and SubjectPublicKeyInfo records.
//
// Only decoding is implemented; this module never produces DER bytes.
package der

import (
	"keymatdec.dev/keymatdec/asn1"
	"keymatdec.dev/keymatdec/cursor"
)

// MaxLength is the largest length value this decoder accepts. Lengths above
// this ceiling are rejected with [asn1.LengthExceedsMax], independent of how
// many octets would be needed to encode them.
const MaxLength = 1<<28 - 1

// Header is a parsed DER tag-length pair.
type Header struct {
	Tag         asn1.Tag
	Constructed bool
	Length      int
}

// ReadHeader reads the identifier and length octets of a DER-encoded data
// value from c. On failure the cursor is restored to its position at the
// start of the call.
//
// Only the low-tag-number form (tag numbers 0-30) and definite lengths
// (short form, or long form with up to four length octets and a value not
// exceeding [MaxLength]) are accepted; anything else fails per the error
// taxonomy of the package this module belongs to.
func ReadHeader(c *cursor.Cursor) (Header, error) {
	mark := c.Mark()
	h, err := readHeader(c)
	if err != nil {
		c.Reset(mark)
	}
	return h, err
}

func readHeader(c *cursor.Cursor) (Header, error) {
	b, err := c.TakeOne()
	if err != nil {
		return Header{}, err
	}

	number := uint(b & 0x1f)
	if number == 0x1f {
		return Header{}, asn1.NewError(asn1.HighTagNumberNotSupported, c.Pos(), nil)
	}
	class := asn1.Class(b >> 6)
	if class == asn1.ClassUniversal && !asn1.IsKnownUniversalTag(number) {
		return Header{}, asn1.NewError(asn1.UnexpectedTag, c.Pos(), nil)
	}

	h := Header{
		Tag:         asn1.Tag{Class: class, Number: number},
		Constructed: b&0x20 != 0,
	}

	length, err := readLength(c)
	if err != nil {
		return Header{}, err
	}
	h.Length = length
	return h, nil
}

// readLength parses the length octets following a DER header's tag byte.
func readLength(c *cursor.Cursor) (int, error) {
	lb, err := c.TakeOne()
	if err != nil {
		return 0, err
	}
	switch {
	case lb <= 0x7f:
		return int(lb), nil
	case lb == 0x80:
		return 0, asn1.NewError(asn1.IndefiniteLength, c.Pos(), nil)
	case lb >= 0x85:
		return 0, asn1.NewError(asn1.LengthExceedsMax, c.Pos(), nil)
	default:
		numOctets := int(lb & 0x7f)
		octets, err := c.Take(numOctets)
		if err != nil {
			return 0, err
		}
		length := 0
		for _, o := range octets {
			length = length<<8 | int(o)
		}
		if length > MaxLength {
			return 0, asn1.NewError(asn1.LengthExceedsMax, c.Pos(), nil)
		}
		return length, nil
	}
}

// ExpectHeader reads a header and additionally verifies that its class and
// tag number match class and number, failing with [asn1.UnexpectedClass] or
// [asn1.UnexpectedTag] otherwise. On any failure the cursor is restored.
func ExpectHeader(c *cursor.Cursor, class asn1.Class, number uint) (Header, error) {
	mark := c.Mark()
	h, err := ReadHeader(c)
	if err != nil {
		return Header{}, err
	}
	if h.Tag.Class != class {
		c.Reset(mark)
		return Header{}, asn1.NewError(asn1.UnexpectedClass, mark, nil)
	}
	if h.Tag.Number != number {
		c.Reset(mark)
		return Header{}, asn1.NewError(asn1.UnexpectedTag, mark, nil)
	}
	return h, nil
}
