package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"keymatdec.dev/keymatdec/asn1"
)

func TestParseFieldParameters(t *testing.T) {
	cases := []struct {
		tag  string
		want FieldParameters
	}{
		{"", FieldParameters{Class: asn1.ClassContextSpecific}},
		{"-", FieldParameters{Ignore: true, Class: asn1.ClassContextSpecific}},
		{"optional", FieldParameters{Optional: true, Class: asn1.ClassContextSpecific}},
		{
			"tag:2,explicit,optional",
			FieldParameters{HasTag: true, Tag: 2, Class: asn1.ClassContextSpecific, Explicit: true, Optional: true},
		},
		{
			"tag:1,application",
			FieldParameters{HasTag: true, Tag: 1, Class: asn1.ClassApplication},
		},
		{
			"tag:0,private,explicit",
			FieldParameters{HasTag: true, Tag: 0, Class: asn1.ClassPrivate, Explicit: true},
		},
	}
	for _, tc := range cases {
		t.Run(tc.tag, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseFieldParameters(tc.tag))
		})
	}
}
