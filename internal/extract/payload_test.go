package extract

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xtra/internal/shared/apperr"
)

func TestDecodePayloadIdentity(t *testing.T) {
	raw := []byte("%PDF-1.4")
	for _, enc := range []string{"", "binary", " BINARY "} {
		out, err := DecodePayload(raw, enc)
		require.NoError(t, err)
		assert.Equal(t, raw, out)
	}
}

func TestDecodePayloadBase64(t *testing.T) {
	raw := []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\nbinary body ???>>>")
	std := base64.StdEncoding.EncodeToString(raw)
	wrapped := std[:16] + "\r\n" + std[16:] + "\n"

	out, err := DecodePayload([]byte(wrapped), "base64")
	require.NoError(t, err)
	assert.Equal(t, raw, out)

	urlSafe := base64.RawURLEncoding.EncodeToString(raw)
	out, err = DecodePayload([]byte(urlSafe), "base64")
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

func TestDecodePayloadCorruptBase64IsDecodeError(t *testing.T) {
	_, err := DecodePayload([]byte("JVBERi0x*&^%"), "base64")
	require.Error(t, err)
	assert.Equal(t, apperr.KindDecode, apperr.KindOf(err))

	var corrupt base64.CorruptInputError
	assert.ErrorAs(t, err, &corrupt)
}

func TestDecodePayloadUnknownEncoding(t *testing.T) {
	_, err := DecodePayload([]byte("x"), "uuencode")
	assert.ErrorIs(t, err, ErrUnsupportedEncoding)
	assert.Equal(t, apperr.KindOther, apperr.KindOf(err))
}
