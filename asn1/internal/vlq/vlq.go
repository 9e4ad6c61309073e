// Package vlq implements the big-endian, 7-bits-per-byte continuation
// encoding ("base-128" or [Variable-length quantity]) used by ASN.1 tag
// numbers above 30 and by OBJECT IDENTIFIER arcs.
//
// [Variable-length quantity]: https://en.wikipedia.org/wiki/Variable-length_quantity
package vlq

import (
	"errors"
	"io"
	"math/bits"
	"unsafe"
)

var (
	errNotMinimal = errors.New("vlq is not minimally encoded")
	errOverflow   = errors.New("vlq too large for target type")
)

// ReadMinimal parses a minimally-encoded unsigned VLQ from r. The maximum
// representable value is limited by the size of T. DER requires every VLQ
// (OID arcs, high tag numbers) to be minimally encoded, so unlike a general
// BER reader this package only exposes the strict form.
//
// ReadMinimal only consumes the bytes belonging to the encoded value. If r
// returns io.EOF on the first read, the returned error is io.EOF.
func ReadMinimal[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](r io.ByteReader) (T, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err // io.EOF stays io.EOF
	}
	if b == 0x80 {
		return 0, errNotMinimal
	}

	ret := T(b & 0x7f)
	numBits := bits.Len8(b & 0x7f)

	for b&0x80 != 0 {
		if b, err = r.ReadByte(); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}
		ret = ret<<7 | T(b&0x7f)

		if numBits == 0 {
			numBits = bits.Len8(b & 0x7f)
		} else {
			numBits += 7
		}
		if numBits > int(unsafe.Sizeof(ret))*8 {
			return 0, errOverflow
		}
	}
	return ret, nil
}

// Length returns the number of bytes needed to encode n as a VLQ.
func Length[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](n T) int {
	if n == 0 {
		return 1
	}
	l := 0
	for i := n; i > 0; i >>= 7 {
		l++
	}
	return l
}

// Write encodes i as a minimally-encoded VLQ into w. Any error returned by w
// is returned by this function.
func Write[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](w io.ByteWriter, i T) (n int, err error) {
	l := Length(i)
	j := l - 1
	for ; j >= 0 && err == nil; j-- {
		b := byte(i>>(j*7)) & 0x7f
		if j > 0 {
			b |= 0x80
		}
		err = w.WriteByte(b)
	}
	return l - 1 - j, err
}
