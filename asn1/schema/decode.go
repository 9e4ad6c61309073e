package schema

import (
	"reflect"

	"keymatdec.dev/keymatdec/asn1"
	"keymatdec.dev/keymatdec/asn1/der"
	"keymatdec.dev/keymatdec/cursor"
)

// Choice lets a field take full control of its own decoding, for records
// whose shape depends on which of several alternatives is present (a CHOICE
// type, in ASN.1 terms). An untagged field whose type implements Choice is
// decoded through UnmarshalChoice instead of the built-in type dispatch
// below; with an EXPLICIT tag, UnmarshalChoice receives the content inside
// the tag. An IMPLICIT-tagged field does not go through UnmarshalChoice.
// UnmarshalChoice implementations should build on
// [TryAlternatives], which supplies the actual alternation algorithm (Go has
// no union type to drive that algorithm off of by reflection alone, so the
// field type still has to name its own alternatives and where their decoded
// results go).
type Choice interface {
	UnmarshalChoice(c *cursor.Cursor) error
}

// TryAlternatives implements choice/tagged-union decoding: each of
// alternatives is tried in declaration order, with the cursor rewound to
// its entry position before every attempt. The first alternative that
// returns a nil error wins and TryAlternatives returns immediately,
// leaving the cursor advanced past whatever that alternative consumed. If
// the cursor has no bytes left to try at all, TryAlternatives fails with
// [asn1.EndOfInput] without attempting any alternative, matching "EndOfInput
// at the start of the choice propagates". Otherwise, once every alternative
// has failed (tag mismatch, Cast, or anything else), TryAlternatives resets
// the cursor and fails with [asn1.Cast].
func TryAlternatives(c *cursor.Cursor, alternatives ...func(*cursor.Cursor) error) error {
	mark := c.Mark()
	if c.Len() == 0 {
		return asn1.NewError(asn1.EndOfInput, mark, nil)
	}
	for _, alt := range alternatives {
		c.Reset(mark)
		if err := alt(c); err == nil {
			return nil
		}
	}
	c.Reset(mark)
	return asn1.NewError(asn1.Cast, mark, nil)
}

// Unmarshal decodes a DER SEQUENCE from c into out, a pointer to a struct.
// Fields are matched to DER values positionally, in declaration order,
// according to the struct tag rules documented in the package comment.
// Trailing bytes left in the SEQUENCE's payload after every field has been
// decoded are ignored; use [Strict] to reject them instead.
func Unmarshal(c *cursor.Cursor, out any) error {
	v, err := structPointer(out)
	if err != nil {
		return err
	}
	sub, err := der.ReadSequence(c)
	if err != nil {
		return err
	}
	return decodeStruct(sub, v)
}

// Strict works like [Unmarshal] but additionally fails with
// [asn1.NonCanonical] if any bytes remain in the SEQUENCE's payload once
// every field has been decoded.
func Strict(c *cursor.Cursor, out any) error {
	mark := c.Mark()
	v, err := structPointer(out)
	if err != nil {
		return err
	}
	sub, err := der.ReadSequence(c)
	if err != nil {
		return err
	}
	if err := decodeStruct(sub, v); err != nil {
		return err
	}
	if sub.Len() != 0 {
		c.Reset(mark)
		return asn1.NewError(asn1.NonCanonical, sub.Pos(), nil)
	}
	return nil
}

func structPointer(out any) (reflect.Value, error) {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, asn1.NewError(asn1.Cast, -1, nil)
	}
	return v.Elem(), nil
}

func decodeStruct(c *cursor.Cursor, v reflect.Value) error {
	for _, f := range structFields(v) {
		if f.params.Optional {
			mark := c.Mark()
			if err := decodeField(c, f); err != nil {
				c.Reset(mark)
				continue
			}
			continue
		}
		if err := decodeField(c, f); err != nil {
			return err
		}
	}
	return nil
}

func decodeField(c *cursor.Cursor, f field) error {
	if !f.params.HasTag {
		return decodeValue(c, f.value)
	}

	mark := c.Mark()
	h, err := der.ExpectHeader(c, f.params.Class, f.params.Tag)
	if err != nil {
		return err
	}

	if f.params.Explicit {
		payload, err := c.Take(h.Length)
		if err != nil {
			return err
		}
		inner := cursor.New(payload)
		if err := decodeValue(inner, f.value); err != nil {
			c.Reset(mark)
			return err
		}
		if inner.Len() != 0 {
			c.Reset(mark)
			return asn1.NewError(asn1.NonCanonical, inner.Pos(), nil)
		}
		return nil
	}

	return decodeImplicitValue(c, f.value, h.Length)
}

// decodeValue decodes a complete TLV into v, dispatching on v's Go type.
func decodeValue(c *cursor.Cursor, v reflect.Value) error {
	if choice, ok := addr(v).(Choice); ok {
		return choice.UnmarshalChoice(c)
	}

	switch ptr := addr(v).(type) {
	case *[]byte:
		b, err := der.ReadOctetString(c)
		if err != nil {
			return err
		}
		*ptr = b
		return nil
	case *asn1.BitString:
		b, err := der.ReadBitString(c)
		if err != nil {
			return err
		}
		*ptr = b
		return nil
	case *asn1.ObjectIdentifier:
		oid, err := der.ReadObjectIdentifier(c)
		if err != nil {
			return err
		}
		*ptr = oid
		return nil
	case *asn1.Null:
		n, err := der.ReadNull(c)
		if err != nil {
			return err
		}
		*ptr = n
		return nil
	case *der.Integer:
		i, err := der.ReadInteger(c)
		if err != nil {
			return err
		}
		*ptr = i
		return nil
	case *der.Any:
		a, err := der.ReadAny(c)
		if err != nil {
			return err
		}
		*ptr = a
		return nil
	case *int64:
		i, err := der.ReadInteger(c)
		if err != nil {
			return err
		}
		n, err := der.Cast[int64](i)
		if err != nil {
			return err
		}
		*ptr = n
		return nil
	case *int32:
		i, err := der.ReadInteger(c)
		if err != nil {
			return err
		}
		n, err := der.Cast[int32](i)
		if err != nil {
			return err
		}
		*ptr = n
		return nil
	case *int:
		i, err := der.ReadInteger(c)
		if err != nil {
			return err
		}
		n, err := der.Cast[int64](i)
		if err != nil {
			return err
		}
		*ptr = int(n)
		return nil
	}

	switch v.Kind() {
	case reflect.Array:
		if v.Type().Elem().Kind() != reflect.Uint8 {
			break
		}
		b, err := der.ReadOctetString(c)
		if err != nil {
			return err
		}
		if len(b) != v.Len() {
			return asn1.NewError(asn1.WrongArrayLength, -1, nil)
		}
		reflect.Copy(v, reflect.ValueOf(b))
		return nil
	case reflect.Struct:
		sub, err := der.ReadSequence(c)
		if err != nil {
			return err
		}
		return decodeStruct(sub, v)
	case reflect.Pointer:
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return decodeValue(c, v.Elem())
	}

	return asn1.NewError(asn1.Cast, -1, nil)
}

// decodeImplicitValue decodes a payload of length bytes into v, for a field
// wrapped in an IMPLICIT context-specific tag. The header has already been
// consumed; v is filled directly from the tag's payload instead of a nested
// universal-tagged TLV.
func decodeImplicitValue(c *cursor.Cursor, v reflect.Value, length int) error {
	switch ptr := addr(v).(type) {
	case *[]byte:
		b, err := c.Take(length)
		if err != nil {
			return err
		}
		*ptr = b
		return nil
	case *asn1.BitString:
		b, err := der.ReadBitStringValue(c, length)
		if err != nil {
			return err
		}
		*ptr = b
		return nil
	case *asn1.ObjectIdentifier:
		oid, err := der.ReadObjectIdentifierValue(c, length)
		if err != nil {
			return err
		}
		*ptr = oid
		return nil
	case *der.Integer:
		i, err := der.ReadIntegerValue(c, length)
		if err != nil {
			return err
		}
		*ptr = i
		return nil
	case *int64:
		i, err := der.ReadIntegerValue(c, length)
		if err != nil {
			return err
		}
		n, err := der.Cast[int64](i)
		if err != nil {
			return err
		}
		*ptr = n
		return nil
	}

	if v.Kind() == reflect.Struct {
		payload, err := c.Take(length)
		if err != nil {
			return err
		}
		return decodeStruct(cursor.New(payload), v)
	}

	return asn1.NewError(asn1.Cast, -1, nil)
}

func addr(v reflect.Value) any {
	if !v.CanAddr() {
		return nil
	}
	return v.Addr().Interface()
}
