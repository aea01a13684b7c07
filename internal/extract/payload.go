package extract

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"xtra/internal/shared/apperr"
)

// Transfer encodings accepted for uploaded payloads.
const (
	EncodingBinary = "binary"
	EncodingBase64 = "base64"
)

// ErrUnsupportedEncoding is returned for an unknown transfer encoding.
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// DecodePayload undoes the transfer encoding of an upload. Base64 payloads may
// contain line breaks and may use the URL-safe alphabet.
func DecodePayload(data []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", EncodingBinary:
		return data, nil
	case EncodingBase64:
		return decodeBase64(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
	}
}

func decodeBase64(data []byte) ([]byte, error) {
	compact := bytes.Join(bytes.Fields(data), nil)
	out := make([]byte, base64.StdEncoding.DecodedLen(len(compact)))
	n, err := base64.StdEncoding.Decode(out, compact)
	if err == nil {
		return out[:n], nil
	}
	if alt, altErr := decodeBase64URL(compact); altErr == nil {
		return alt, nil
	}
	return nil, apperr.Decode("decode base64 payload", err)
}

func decodeBase64URL(compact []byte) ([]byte, error) {
	enc := base64.URLEncoding
	if !bytes.HasSuffix(compact, []byte("=")) {
		enc = base64.RawURLEncoding
	}
	out := make([]byte, enc.DecodedLen(len(compact)))
	n, err := enc.Decode(out, compact)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}
