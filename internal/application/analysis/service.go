package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/analysis"
	"github.com/bryanwahyu/mindanalyzer/internal/domain/auth"
	"github.com/bryanwahyu/mindanalyzer/internal/domain/failures"
)

// PromptBuilder composes the completion prompt for one validated
// request. It performs no network I/O and is safe to call repeatedly.
type PromptBuilder interface {
	Build(ctx context.Context, req domain.Request) (string, error)
}

// Clock abstraction so commit timestamps are testable
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Service runs the validated external-inference pipeline:
// validate -> assemble -> complete -> repair -> check schema -> record.
// One instance is shared read-only across concurrent requests.
type Service struct {
	Prompts   PromptBuilder
	Completer domain.Completer
	Codec     domain.TextCodec
	Repo      domain.Repository
	Failures  failures.Repository // optional failure audit log
	Clock     Clock
	Log       zerolog.Logger
}

// Outcome carries the validated result plus the persistence verdict.
// A persistence failure never discards an already-computed result.
type Outcome struct {
	Result    domain.Result   `json:"result"`
	RecordID  domain.RecordID `json:"record_id,omitempty"`
	Persisted bool            `json:"persisted"`
}

// Analyze runs the whole pipeline for one caller. Validation happens
// before any external call; every later stage fails closed with its
// own code and non-input failures are written to the failure log.
func (s *Service) Analyze(ctx context.Context, userID auth.UserID, text, language string) (*Outcome, error) {
	req, err := ValidateRequest(text, language)
	if err != nil {
		// input errors are the caller's to fix; not audit-logged
		return nil, err
	}

	log := s.Log.With().
		Int64("user_id", int64(userID)).
		Str("language", string(req.Language)).
		Int("text_len", len([]rune(req.Text))).
		Logger()

	prompt, err := s.Prompts.Build(ctx, req)
	if err != nil {
		log.Error().Err(err).Msg("prompt assembly failed")
		s.recordFailure(userID, err, 0)
		return nil, err
	}

	// The upstream call keeps its own timeout; a caller disconnect must
	// not abort the in-flight completion (the service has no
	// cancellation protocol), so detach from the request context.
	reply, err := s.Completer.Complete(context.WithoutCancel(ctx), prompt)
	if err != nil {
		log.Error().Err(err).Msg("completion call failed")
		s.recordFailure(userID, err, len(reply))
		return nil, err
	}

	parsed, err := repairReply(reply)
	if err != nil {
		log.Error().Err(err).Int("reply_len", len(reply)).Msg("reply is not parseable JSON")
		s.recordFailure(userID, err, len(reply))
		return nil, err
	}

	result, err := checkSchema(parsed)
	if err != nil {
		log.Error().Err(err).Int("reply_len", len(reply)).Msg("reply failed schema check")
		s.recordFailure(userID, err, len(reply))
		return nil, err
	}

	out := &Outcome{Result: result}

	rec, err := s.record(ctx, userID, req, result)
	if err != nil {
		// Persistence failure is not analysis failure: keep the result
		log.Error().Err(err).Msg("record not persisted")
		s.recordFailure(userID, domain.Wrap(domain.CodePersistenceFailed, err, ""), len(reply))
		return out, nil
	}
	out.RecordID = rec.ID
	out.Persisted = true

	log.Info().
		Str("record_id", string(rec.ID)).
		Str("sentiment", string(result.Sentiment)).
		Float64("confidence", result.Confidence).
		Msg("analysis completed")
	return out, nil
}

// record encrypts the original text and commits one record atomically
func (s *Service) record(ctx context.Context, userID auth.UserID, req domain.Request, res domain.Result) (*domain.Record, error) {
	ct, err := s.Codec.Encode(req.Text)
	if err != nil {
		return nil, domain.Wrap(domain.CodePersistenceFailed, err, "encrypt original text")
	}

	rec := &domain.Record{
		ID:          domain.RecordID(uuid.New().String()),
		UserID:      int64(userID),
		Ciphertext:  ct,
		Language:    req.Language,
		Sentiment:   res.Sentiment,
		Emotions:    res.Entities.Emotions,
		Skills:      res.Entities.Skills,
		Distortions: res.Distortions,
		Confidence:  res.Confidence,
		CreatedAt:   s.Clock.Now(),
	}
	if err := s.Repo.Save(ctx, rec); err != nil {
		return nil, domain.Wrap(domain.CodePersistenceFailed, err, "")
	}
	return rec, nil
}

// History lists the caller's records, newest first. A record whose
// ciphertext fails to decrypt is returned with the marker text so one
// corrupted row never blocks the rest.
func (s *Service) History(ctx context.Context, userID auth.UserID, page, pageSize int) ([]*domain.Record, error) {
	recs, err := s.Repo.ListByUser(ctx, int64(userID), page, pageSize)
	if err != nil {
		return nil, domain.Wrap(domain.CodePersistenceFailed, err, "list records")
	}
	for _, rec := range recs {
		text, derr := s.Codec.Decode(rec.Ciphertext)
		if derr != nil {
			s.Log.Warn().
				Str("record_id", string(rec.ID)).
				Int64("user_id", rec.UserID).
				Msg("stored ciphertext did not decrypt")
			rec.Text = domain.DecryptionFailedMarker
		} else {
			rec.Text = text
		}
		rec.Ciphertext = nil
	}
	return recs, nil
}

// recordFailure appends to the failure audit log, best effort. The log
// exists to diagnose prompt drift; it must never mask the original
// error or block the response path.
func (s *Service) recordFailure(userID auth.UserID, cause error, replyLen int) {
	if s.Failures == nil {
		return
	}
	detail := ""
	var se *domain.Error
	if errors.As(cause, &se) {
		detail = se.Detail
	}
	f := &failures.Failure{
		UserID:    int64(userID),
		Stage:     string(domain.CodeOf(cause)),
		Detail:    detail,
		ReplyLen:  replyLen,
		CreatedAt: s.Clock.Now(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Failures.Save(ctx, f); err != nil {
		s.Log.Warn().Err(err).Msg("failure audit write skipped")
	}
}
