package analysis

import (
	"fmt"

	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/analysis"
)

// checkSchema validates a parsed reply against the expected analysis
// shape. It is the sole contract against the non-deterministic
// upstream: silently-wrong shapes are rejected, never coerced. The
// first offending field is named in the SCHEMA_VIOLATION error.
func checkSchema(v any) (domain.Result, error) {
	var zero domain.Result

	obj, ok := v.(map[string]any)
	if !ok {
		return zero, domain.Violation("$", "top-level value is not an object")
	}

	sentiment, err := sentimentField(obj)
	if err != nil {
		return zero, err
	}

	entities := domain.Entities{Emotions: []string{}, Skills: []string{}}
	if raw, present := obj["entities"]; present {
		em, ok := raw.(map[string]any)
		if !ok {
			return zero, domain.Violation("entities", "not an object")
		}
		if entities.Emotions, err = stringList(em, "emotions", "entities.emotions"); err != nil {
			return zero, err
		}
		if entities.Skills, err = stringList(em, "skills", "entities.skills"); err != nil {
			return zero, err
		}
	}

	distortions, err := stringList(obj, "distortions", "distortions")
	if err != nil {
		return zero, err
	}

	confidence, err := confidenceField(obj)
	if err != nil {
		return zero, err
	}

	return domain.Result{
		Sentiment:   sentiment,
		Entities:    entities,
		Distortions: distortions,
		Confidence:  confidence,
	}, nil
}

func sentimentField(obj map[string]any) (domain.Sentiment, error) {
	raw, present := obj["sentiment"]
	if !present {
		return "", domain.Violation("sentiment", "missing")
	}
	s, ok := raw.(string)
	if !ok {
		return "", domain.Violation("sentiment", "not a string")
	}
	switch domain.Sentiment(s) {
	case domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral, domain.SentimentMixed:
		return domain.Sentiment(s), nil
	}
	return "", domain.Violation("sentiment", fmt.Sprintf("unexpected value %q", s))
}

func confidenceField(obj map[string]any) (float64, error) {
	raw, present := obj["confidence_score"]
	if !present {
		return 0, domain.Violation("confidence_score", "missing")
	}
	f, ok := raw.(float64)
	if !ok {
		return 0, domain.Violation("confidence_score", "not a number")
	}
	if f < 0.0 || f > 1.0 {
		return 0, domain.Violation("confidence_score", fmt.Sprintf("%v outside [0,1]", f))
	}
	return f, nil
}

// stringList reads an optional list field, defaulting to empty when
// absent and rejecting any non-string element.
func stringList(obj map[string]any, key, field string) ([]string, error) {
	raw, present := obj[key]
	if !present || raw == nil {
		return []string{}, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, domain.Violation(field, "not a list")
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		s, ok := it.(string)
		if !ok {
			return nil, domain.Violation(field, fmt.Sprintf("element %d is not a string", i))
		}
		out = append(out, s)
	}
	return out, nil
}
