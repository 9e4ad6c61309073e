// Package cursor implements a single-pass, rewindable cursor over a byte
// slice with small combinators for building tolerant textual and binary
// readers. It is the foundation both the DER decoder and the PEM parser are
// built on.
//
// Combinators that can fail must not advance the cursor past the point
// where they could still have succeeded; a caller that wants to try an
// alternative on failure saves the position with [Cursor.Mark] and restores
// it with [Cursor.Reset].
package cursor

import (
	"keymatdec.dev/keymatdec/asn1"
)

// Cursor is a read-only view over an input byte slice plus a cursor offset.
// The zero Cursor is not usable; create one with [New].
type Cursor struct {
	buf []byte
	pos int
}

// New returns a Cursor positioned at the start of buf. buf is not copied;
// the returned Cursor aliases it.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current offset into the input.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the number of bytes remaining after the cursor.
func (c *Cursor) Len() int { return len(c.buf) - c.pos }

// Mark returns the current position, for later use with [Cursor.Reset].
func (c *Cursor) Mark() int { return c.pos }

// Reset rewinds the cursor to a position previously returned by
// [Cursor.Mark] or [Cursor.Pos]. This is the rollback half of the
// save/restore contract combinators rely on.
func (c *Cursor) Reset(pos int) { c.pos = pos }

// Since returns the bytes consumed between mark and the current position.
func (c *Cursor) Since(mark int) []byte { return c.buf[mark:c.pos] }

// Rest returns the unconsumed remainder of the input without advancing the
// cursor.
func (c *Cursor) Rest() []byte { return c.buf[c.pos:] }

// Peek returns the next byte without advancing the cursor. ok is false at
// end of input.
func (c *Cursor) Peek() (b byte, ok bool) {
	if c.pos >= len(c.buf) {
		return 0, false
	}
	return c.buf[c.pos], true
}

// TakeOne consumes and returns the next byte, failing with [asn1.EndOfInput]
// at end of input.
func (c *Cursor) TakeOne() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, asn1.NewError(asn1.EndOfInput, c.pos, nil)
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// ReadByte implements io.ByteReader, so a Cursor composes directly with
// [keymatdec.dev/keymatdec/asn1/internal/vlq].
func (c *Cursor) ReadByte() (byte, error) { return c.TakeOne() }

// Take consumes and returns the next n bytes, failing with
// [asn1.EndOfInput] if fewer than n bytes remain. On failure the cursor is
// unchanged.
func (c *Cursor) Take(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, asn1.NewError(asn1.EndOfInput, c.pos, nil)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ExpectLiteral fails with [asn1.Parse] if the upcoming bytes do not equal
// lit exactly, or with [asn1.EndOfInput] if fewer than len(lit) bytes remain.
// The cursor is left unchanged on failure and advanced past lit on success.
func (c *Cursor) ExpectLiteral(lit []byte) error {
	if c.Len() < len(lit) {
		return asn1.NewError(asn1.EndOfInput, c.pos, nil)
	}
	for i, want := range lit {
		if c.buf[c.pos+i] != want {
			return asn1.NewError(asn1.Parse, c.pos, nil)
		}
	}
	c.pos += len(lit)
	return nil
}

// AcceptAnyOf consumes one byte if it is a member of set, returning it.
// Otherwise it fails with [asn1.Parse] (or [asn1.EndOfInput] at end of
// input) and leaves the cursor unchanged.
func (c *Cursor) AcceptAnyOf(set []byte) (byte, error) {
	b, ok := c.Peek()
	if !ok {
		return 0, asn1.NewError(asn1.EndOfInput, c.pos, nil)
	}
	for _, want := range set {
		if b == want {
			c.pos++
			return b, nil
		}
	}
	return 0, asn1.NewError(asn1.Parse, c.pos, nil)
}

// TakeWhile consumes the longest prefix of bytes satisfying pred and returns
// it. It never fails; the result may be empty.
func (c *Cursor) TakeWhile(pred func(byte) bool) []byte {
	start := c.pos
	for c.pos < len(c.buf) && pred(c.buf[c.pos]) {
		c.pos++
	}
	return c.buf[start:c.pos]
}

// TakeWhile1 works like [Cursor.TakeWhile] but fails with [asn1.Parse] if no
// bytes match. On failure the cursor is unchanged.
func (c *Cursor) TakeWhile1(pred func(byte) bool) ([]byte, error) {
	start := c.pos
	out := c.TakeWhile(pred)
	if len(out) == 0 {
		c.pos = start
		return nil, asn1.NewError(asn1.Parse, start, nil)
	}
	return out, nil
}

// SkipWhile advances the cursor past every leading byte satisfying pred.
func (c *Cursor) SkipWhile(pred func(byte) bool) {
	c.TakeWhile(pred)
}
