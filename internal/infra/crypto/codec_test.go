package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/analysis"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	c, err := NewCodec(key)
	require.NoError(t, err)
	return c
}

func TestRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	for _, text := range []string{
		"plain ascii text",
		"сегодня я чувствую тревогу, но стараюсь сохранять спокойствие",
		"",
	} {
		ct, err := c.Encode(text)
		require.NoError(t, err)
		got, err := c.Decode(ct)
		require.NoError(t, err)
		assert.Equal(t, text, got)
	}
}

func TestEncode_FreshNoncePerCall(t *testing.T) {
	c := newTestCodec(t)

	a, err := c.Encode("same input")
	require.NoError(t, err)
	b, err := c.Encode("same input")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecode_TamperedCiphertext(t *testing.T) {
	c := newTestCodec(t)

	ct, err := c.Encode("sensitive content")
	require.NoError(t, err)
	ct[len(ct)-1] ^= 0xff

	_, err = c.Decode(ct)
	assert.ErrorIs(t, err, domain.ErrDecryptionFailed)
}

func TestDecode_TruncatedCiphertext(t *testing.T) {
	c := newTestCodec(t)
	_, err := c.Decode([]byte("tiny"))
	assert.ErrorIs(t, err, domain.ErrDecryptionFailed)
}

func TestNewCodec_KeySize(t *testing.T) {
	_, err := NewCodec(make([]byte, 16))
	assert.Error(t, err)
}

func TestNewCodecFromBase64(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString(make([]byte, 32))
		c, err := NewCodecFromBase64(encoded)
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("empty key is a startup failure", func(t *testing.T) {
		_, err := NewCodecFromBase64("")
		assert.Error(t, err)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := NewCodecFromBase64("!!! not base64 !!!")
		assert.Error(t, err)
	})

	t.Run("wrong decoded size", func(t *testing.T) {
		_, err := NewCodecFromBase64(base64.StdEncoding.EncodeToString(make([]byte, 8)))
		assert.Error(t, err)
	})
}
