package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/analysis"
)

func TestValidateRequest_Boundaries(t *testing.T) {
	t.Run("accepts length 10", func(t *testing.T) {
		req, err := ValidateRequest(strings.Repeat("a", 10), "en")
		require.NoError(t, err)
		assert.Equal(t, domain.LanguageEN, req.Language)
	})

	t.Run("accepts length 2000", func(t *testing.T) {
		_, err := ValidateRequest(strings.Repeat("a", 2000), "en")
		require.NoError(t, err)
	})

	t.Run("rejects length 9", func(t *testing.T) {
		_, err := ValidateRequest(strings.Repeat("a", 9), "en")
		require.Error(t, err)
		assert.Equal(t, domain.CodeTextTooShort, domain.CodeOf(err))
	})

	t.Run("rejects length 2001", func(t *testing.T) {
		_, err := ValidateRequest(strings.Repeat("a", 2001), "en")
		require.Error(t, err)
		assert.Equal(t, domain.CodeTextTooLong, domain.CodeOf(err))
	})

	t.Run("rejects empty text as too short", func(t *testing.T) {
		_, err := ValidateRequest("", "ru")
		require.Error(t, err)
		assert.Equal(t, domain.CodeTextTooShort, domain.CodeOf(err))
	})
}

func TestValidateRequest_CountsRunesNotBytes(t *testing.T) {
	// 10 Cyrillic characters are 20 bytes; must still be accepted
	_, err := ValidateRequest("привет дру", "ru")
	require.NoError(t, err)

	// 2000 Cyrillic characters are 4000 bytes; still within the limit
	_, err = ValidateRequest(strings.Repeat("я", 2000), "ru")
	require.NoError(t, err)

	_, err = ValidateRequest(strings.Repeat("я", 2001), "ru")
	require.Error(t, err)
	assert.Equal(t, domain.CodeTextTooLong, domain.CodeOf(err))
}

func TestValidateRequest_Language(t *testing.T) {
	t.Run("defaults to ru", func(t *testing.T) {
		req, err := ValidateRequest("this is long enough", "")
		require.NoError(t, err)
		assert.Equal(t, domain.LanguageRU, req.Language)
	})

	t.Run("accepts en", func(t *testing.T) {
		req, err := ValidateRequest("this is long enough", "en")
		require.NoError(t, err)
		assert.Equal(t, domain.LanguageEN, req.Language)
	})

	t.Run("rejects unsupported language", func(t *testing.T) {
		_, err := ValidateRequest("this is long enough", "de")
		require.Error(t, err)
		assert.Equal(t, domain.CodeInvalidLanguage, domain.CodeOf(err))
	})
}
