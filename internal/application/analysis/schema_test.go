package analysis

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/analysis"
)

func parse(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func violationField(t *testing.T, err error) string {
	t.Helper()
	var se *domain.Error
	require.True(t, errors.As(err, &se))
	require.Equal(t, domain.CodeSchemaViolation, se.Code)
	return se.Field
}

func TestCheckSchema_Valid(t *testing.T) {
	v := parse(t, `{
		"sentiment": "mixed",
		"entities": {"emotions": ["anxiety", "calm"], "skills": []},
		"distortions": ["catastrophizing"],
		"confidence_score": 0.81
	}`)

	res, err := checkSchema(v)
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentMixed, res.Sentiment)
	assert.Equal(t, []string{"anxiety", "calm"}, res.Entities.Emotions)
	assert.Empty(t, res.Entities.Skills)
	assert.Equal(t, []string{"catastrophizing"}, res.Distortions)
	assert.InDelta(t, 0.81, res.Confidence, 1e-9)
}

func TestCheckSchema_DefaultsForAbsentLists(t *testing.T) {
	v := parse(t, `{"sentiment": "positive", "confidence_score": 0.5}`)

	res, err := checkSchema(v)
	require.NoError(t, err)
	assert.NotNil(t, res.Entities.Emotions)
	assert.Empty(t, res.Entities.Emotions)
	assert.NotNil(t, res.Entities.Skills)
	assert.Empty(t, res.Distortions)
}

func TestCheckSchema_Sentiment(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := checkSchema(parse(t, `{"confidence_score": 0.5}`))
		assert.Equal(t, "sentiment", violationField(t, err))
	})

	t.Run("misspelled is rejected not coerced", func(t *testing.T) {
		_, err := checkSchema(parse(t, `{"sentiment": "positiv", "confidence_score": 0.5}`))
		assert.Equal(t, "sentiment", violationField(t, err))
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := checkSchema(parse(t, `{"sentiment": 1, "confidence_score": 0.5}`))
		assert.Equal(t, "sentiment", violationField(t, err))
	})
}

func TestCheckSchema_Confidence(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := checkSchema(parse(t, `{"sentiment": "neutral"}`))
		assert.Equal(t, "confidence_score", violationField(t, err))
	})

	t.Run("string is rejected not coerced", func(t *testing.T) {
		_, err := checkSchema(parse(t, `{"sentiment": "neutral", "confidence_score": "0.8"}`))
		assert.Equal(t, "confidence_score", violationField(t, err))
	})

	t.Run("above range", func(t *testing.T) {
		_, err := checkSchema(parse(t, `{"sentiment": "neutral", "confidence_score": 1.2}`))
		assert.Equal(t, "confidence_score", violationField(t, err))
	})

	t.Run("below range", func(t *testing.T) {
		_, err := checkSchema(parse(t, `{"sentiment": "neutral", "confidence_score": -0.1}`))
		assert.Equal(t, "confidence_score", violationField(t, err))
	})

	t.Run("boundaries 0 and 1 accepted", func(t *testing.T) {
		res, err := checkSchema(parse(t, `{"sentiment": "neutral", "confidence_score": 0.0}`))
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.Confidence)

		res, err = checkSchema(parse(t, `{"sentiment": "neutral", "confidence_score": 1.0}`))
		require.NoError(t, err)
		assert.Equal(t, 1.0, res.Confidence)
	})
}

func TestCheckSchema_Lists(t *testing.T) {
	t.Run("non-string emotion element", func(t *testing.T) {
		_, err := checkSchema(parse(t, `{
			"sentiment": "neutral",
			"entities": {"emotions": ["ok", 3]},
			"confidence_score": 0.5
		}`))
		assert.Equal(t, "entities.emotions", violationField(t, err))
	})

	t.Run("entities not an object", func(t *testing.T) {
		_, err := checkSchema(parse(t, `{"sentiment": "neutral", "entities": [], "confidence_score": 0.5}`))
		assert.Equal(t, "entities", violationField(t, err))
	})

	t.Run("distortions not a list", func(t *testing.T) {
		_, err := checkSchema(parse(t, `{"sentiment": "neutral", "distortions": "none", "confidence_score": 0.5}`))
		assert.Equal(t, "distortions", violationField(t, err))
	})
}
