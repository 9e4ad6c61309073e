package asn1

import "strconv"

// Kind identifies one of the flat set of error conditions this module can
// report. Every decoding operation, from the byte cursor up through the key
// dispatcher, surfaces one of these kinds wrapped in an [Error].
//
// See also [Error].
type Kind uint8

const (
	// EndOfInput indicates the stream was exhausted where more bytes were
	// required.
	EndOfInput Kind = iota + 1
	// Parse indicates a textual grammar violation, e.g. a PEM boundary or an
	// invalid base64 character.
	Parse
	// UnexpectedTag indicates a DER header's tag number did not match what
	// the caller expected.
	UnexpectedTag
	// UnexpectedClass indicates a DER header's class did not match what the
	// caller expected.
	UnexpectedClass
	// IndefiniteLength indicates a DER length octet of 0x80, which DER
	// forbids.
	IndefiniteLength
	// LengthExceedsMax indicates a length greater than 2^28-1, or a
	// long-form length using more than four octets.
	LengthExceedsMax
	// NonCanonical indicates a violation of a canonical-encoding rule for
	// INTEGER, NULL, or SEQUENCE.
	NonCanonical
	// MaxUnusedBitsExceeded indicates a BIT STRING whose unused-bits count
	// exceeds 7.
	MaxUnusedBitsExceeded
	// Empty indicates a BIT STRING with a zero-length payload.
	Empty
	// OidTooLong indicates an OBJECT IDENTIFIER payload longer than 39
	// bytes.
	OidTooLong
	// HighTagNumberNotSupported indicates a tag whose low five bits are all
	// set, i.e. the high-tag-number form, which this module does not
	// implement.
	HighTagNumberNotSupported
	// WrongArrayLength indicates a schema fixed-length byte array did not
	// match the OCTET STRING's actual length.
	WrongArrayLength
	// Overflow indicates an INTEGER cast that does not fit the destination
	// type.
	Overflow
	// Cast indicates a choice/union matched none of its alternatives.
	Cast
	// UnknownEncoding indicates a PEM label that is not a supported key
	// kind.
	UnknownEncoding
	// UnsupportedAlgorithm indicates an algorithm OID that is not the EC
	// public-key OID.
	UnsupportedAlgorithm
)

func (k Kind) String() string {
	switch k {
	case EndOfInput:
		return "EndOfInput"
	case Parse:
		return "Parse"
	case UnexpectedTag:
		return "UnexpectedTag"
	case UnexpectedClass:
		return "UnexpectedClass"
	case IndefiniteLength:
		return "IndefiniteLength"
	case LengthExceedsMax:
		return "LengthExceedsMax"
	case NonCanonical:
		return "NonCanonical"
	case MaxUnusedBitsExceeded:
		return "MaxUnusedBitsExceeded"
	case Empty:
		return "Empty"
	case OidTooLong:
		return "OidTooLong"
	case HighTagNumberNotSupported:
		return "HighTagNumberNotSupported"
	case WrongArrayLength:
		return "WrongArrayLength"
	case Overflow:
		return "Overflow"
	case Cast:
		return "Cast"
	case UnknownEncoding:
		return "UnknownEncoding"
	case UnsupportedAlgorithm:
		return "UnsupportedAlgorithm"
	default:
		return "Kind(" + strconv.FormatUint(uint64(k), 10) + ")"
	}
}

// Error is the single error type returned by every package in this module.
// It carries the [Kind] of failure, the byte offset at which it occurred
// (when known; -1 otherwise), and an optional wrapped cause.
//
// See also the error taxonomy in the package documentation.
type Error struct {
	Kind   Kind
	Offset int
	Err    error // optional underlying cause
}

func (e *Error) Error() string {
	s := "asn1: " + e.Kind.String()
	if e.Offset >= 0 {
		s += " at offset " + strconv.Itoa(e.Offset)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so that
// errors.Is(err, asn1.NewError(asn1.Parse, 0, nil)) style checks work
// without comparing offsets or causes.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// NewError constructs an [Error] of the given kind. offset may be -1 if the
// position is unknown or not meaningful (e.g. errors raised above the byte
// level).
func NewError(kind Kind, offset int, cause error) *Error {
	return &Error{Kind: kind, Offset: offset, Err: cause}
}
