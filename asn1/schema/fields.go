// Package schema implements declarative decoding of DER SEQUENCE records
// into Go structs via field tags, modeled on the reflective struct-tag
// decoding technique used elsewhere in the ASN.1/BER ecosystem.
//
// A struct field may carry an `asn1:"..."` tag with comma-separated options:
//
//	tag:N        the field is wrapped in a tag numbered N, context-specific
//	             unless application or private is given
//	application  the tag:N wrapper is in the APPLICATION class
//	private      the tag:N wrapper is in the PRIVATE class
//	explicit     the tag:N wrapper uses EXPLICIT tagging (implicit
//	             otherwise)
//	optional     decoding the field may fail without failing the record; on
//	             failure the cursor is rewound and the field is left zero
//
// Unexported fields and fields tagged `asn1:"-"` are skipped.
package schema

import (
	"reflect"
	"strconv"
	"strings"

	"keymatdec.dev/keymatdec/asn1"
)

// FieldParameters holds the parsed contents of a field's `asn1:"..."` tag.
type FieldParameters struct {
	Ignore   bool
	HasTag   bool
	Tag      uint
	Class    asn1.Class // only meaningful when HasTag is set; defaults to context-specific
	Explicit bool
	Optional bool
}

// ParseFieldParameters parses the value of an `asn1:"..."` struct tag. The
// tag's class defaults to context-specific, the overwhelmingly common case
// for application-defined wrapping; `application` or `private` select the
// other two class namespaces a tagged field can live in.
func ParseFieldParameters(str string) FieldParameters {
	p := FieldParameters{Class: asn1.ClassContextSpecific}
	for _, part := range strings.Split(str, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "-":
			p.Ignore = true
		case part == "explicit":
			p.Explicit = true
		case part == "optional":
			p.Optional = true
		case part == "application":
			p.Class = asn1.ClassApplication
		case part == "private":
			p.Class = asn1.ClassPrivate
		case strings.HasPrefix(part, "tag:"):
			if n, err := strconv.ParseUint(part[len("tag:"):], 10, 64); err == nil {
				p.HasTag = true
				p.Tag = uint(n)
			}
		}
	}
	return p
}

// field pairs a struct field's reflect.Value with its parsed parameters.
type field struct {
	value  reflect.Value
	params FieldParameters
}

// structFields enumerates the decodable fields of v, a struct value, in
// declaration order. Unexported and ignored fields are skipped.
func structFields(v reflect.Value) []field {
	t := v.Type()
	var out []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}
		params := ParseFieldParameters(sf.Tag.Get("asn1"))
		if params.Ignore {
			continue
		}
		out = append(out, field{value: v.Field(i), params: params})
	}
	return out
}
