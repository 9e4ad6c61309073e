// Package pem parses the textual PEM encoding (RFC 7468) used to wrap DER
// key material in "-----BEGIN ...-----" / "-----END ...-----" boundaries,
// using the same cursor/rollback combinator style the DER and VLQ readers
// are built on instead of a streaming io.Reader.
package pem

import (
	"bytes"
	"encoding/base64"

	"keymatdec.dev/keymatdec/asn1"
	"keymatdec.dev/keymatdec/cursor"
)

// Document is a single decoded PEM block.
type Document struct {
	// Label is the text between "-----BEGIN " and the closing "-----",
	// e.g. "PRIVATE KEY" or "EC PRIVATE KEY".
	Label string
	// Bytes is the base64-decoded body.
	Bytes []byte
}

const (
	beginPrefix = "-----BEGIN "
	endPrefix   = "-----END "
	boundary    = "-----"
)

// Parse decodes the first PEM block in input. Leading whitespace before the
// BEGIN boundary is skipped. The END boundary's label is not required to
// match the BEGIN boundary's label: this parser, like most consumers of PEM
// in the wild, trusts the structural markers and ignores the restated text.
func Parse(input []byte) (Document, error) {
	c := cursor.New(input)
	return parseOne(c)
}

// ParseAll decodes every PEM block in input, in order. Whitespace between
// blocks is skipped; input that is empty or holds only whitespace yields a
// nil, nil result, and any other text outside a PEM block is an error.
func ParseAll(input []byte) ([]Document, error) {
	c := cursor.New(input)
	var docs []Document
	for {
		skipBlankLines(c)
		if c.Len() == 0 {
			break
		}
		d, err := parseOne(c)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func parseOne(c *cursor.Cursor) (Document, error) {
	skipBlankLines(c)

	if err := c.ExpectLiteral([]byte(beginPrefix)); err != nil {
		return Document{}, asn1.NewError(asn1.Parse, c.Pos(), err)
	}
	label, err := c.TakeWhile1(func(b byte) bool { return b != '-' && b != '\n' && b != '\r' })
	if err != nil {
		return Document{}, asn1.NewError(asn1.Parse, c.Pos(), err)
	}
	if err := c.ExpectLiteral([]byte(boundary)); err != nil {
		return Document{}, asn1.NewError(asn1.Parse, c.Pos(), err)
	}
	skipWSP(c)
	if err := expectEOL(c); err != nil {
		return Document{}, err
	}

	var body bytes.Buffer
	for {
		if b, ok := c.Peek(); ok && b == '-' {
			break
		}
		line := c.TakeWhile(func(b byte) bool { return b != '\n' && b != '\r' })
		body.Write(line)
		if c.Len() == 0 {
			break
		}
		if err := expectEOL(c); err != nil {
			return Document{}, err
		}
	}

	if err := c.ExpectLiteral([]byte(endPrefix)); err != nil {
		return Document{}, asn1.NewError(asn1.Parse, c.Pos(), err)
	}
	if _, err := c.TakeWhile1(func(b byte) bool { return b != '-' && b != '\n' && b != '\r' }); err != nil {
		return Document{}, asn1.NewError(asn1.Parse, c.Pos(), err)
	}
	if err := c.ExpectLiteral([]byte(boundary)); err != nil {
		return Document{}, asn1.NewError(asn1.Parse, c.Pos(), err)
	}
	skipWSP(c)
	if c.Len() > 0 {
		if err := expectEOL(c); err != nil {
			return Document{}, err
		}
	}

	decoded, err := base64.StdEncoding.DecodeString(body.String())
	if err != nil {
		return Document{}, asn1.NewError(asn1.Parse, -1, err)
	}
	return Document{Label: string(label), Bytes: decoded}, nil
}

// expectEOL consumes a line ending: "\r\n", "\n", or end of input. Any other
// byte is a parse failure.
func expectEOL(c *cursor.Cursor) error {
	b, ok := c.Peek()
	if !ok {
		return nil
	}
	if b == '\r' {
		_, _ = c.TakeOne()
		b, ok = c.Peek()
	}
	if !ok {
		return nil
	}
	if b != '\n' {
		return asn1.NewError(asn1.Parse, c.Pos(), nil)
	}
	_, _ = c.TakeOne()
	return nil
}

func skipBlankLines(c *cursor.Cursor) {
	c.SkipWhile(func(b byte) bool { return b == '\n' || b == '\r' || b == ' ' || b == '\t' })
}

// skipWSP advances past in-line whitespace (space, tab) that is not a line
// ending, per the grammar's "*WSP EOL" after a boundary line.
func skipWSP(c *cursor.Cursor) {
	c.SkipWhile(func(b byte) bool { return b == ' ' || b == '\t' })
}
