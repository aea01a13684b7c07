// Package apperr classifies errors into the two kinds the HTTP boundary
// distinguishes: input that could not be decoded, and everything else.
package apperr

import (
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"encoding/ascii85"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

// Kind is the externally visible error category.
type Kind int

const (
	KindOther Kind = iota
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindDecode:
		return "decode"
	default:
		return "other"
	}
}

// DecodeError marks a failure to interpret bytes in their expected encoding.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode wraps err as a decode error. A nil err yields nil.
func Decode(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DecodeError{Op: op, Err: err}
}

// KindOf reports the category of err. Decode-class errors anywhere in the
// chain win over the catch-all.
func KindOf(err error) Kind {
	if err == nil {
		return KindOther
	}
	if IsDecode(err) {
		return KindDecode
	}
	return KindOther
}

// IsDecode reports whether err is, or wraps, a decoding failure from the
// standard binary-to-text and compression decoders.
func IsDecode(err error) bool {
	if err == nil {
		return false
	}
	var (
		decodeErr *DecodeError
		b64Err    base64.CorruptInputError
		a85Err    ascii85.CorruptInputError
		hexErr    hex.InvalidByteError
		flateErr  flate.CorruptInputError
	)
	switch {
	case errors.As(err, &decodeErr),
		errors.As(err, &b64Err),
		errors.As(err, &a85Err),
		errors.As(err, &hexErr),
		errors.As(err, &flateErr):
		return true
	}
	for _, sentinel := range []error{hex.ErrLength, zlib.ErrHeader, zlib.ErrChecksum, gzip.ErrHeader, gzip.ErrChecksum} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
