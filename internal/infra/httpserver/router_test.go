package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalysis "github.com/bryanwahyu/mindanalyzer/internal/application/analysis"
	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/analysis"
	domauth "github.com/bryanwahyu/mindanalyzer/internal/domain/auth"
	"github.com/bryanwahyu/mindanalyzer/internal/i18n"
	"github.com/bryanwahyu/mindanalyzer/internal/infra/crypto"
	"github.com/bryanwahyu/mindanalyzer/internal/middleware"
)

type stubPrompts struct{}

func (stubPrompts) Build(_ context.Context, req domain.Request) (string, error) {
	return "prompt for: " + req.Text, nil
}

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(_ context.Context, _ string) (string, error) {
	return s.reply, s.err
}

type memRepo struct {
	saved []*domain.Record
	err   error
}

func (m *memRepo) Save(_ context.Context, rec *domain.Record) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, rec)
	return nil
}

func (m *memRepo) ListByUser(_ context.Context, userID int64, _, _ int) ([]*domain.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Record
	for i := len(m.saved) - 1; i >= 0; i-- {
		if m.saved[i].UserID == userID {
			cp := *m.saved[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

type stubResolver struct {
	userID domauth.UserID
	err    error
}

func (s *stubResolver) Resolve(_ context.Context, _ string) (domauth.UserID, error) {
	return s.userID, s.err
}

const goodReply = "```json\n" + `{
  "sentiment": "negative",
  "entities": {"emotions": ["sadness"], "skills": []},
  "distortions": ["catastrophizing"],
  "confidence_score": 0.85
}` + "\n```"

func newTestServer(t *testing.T, completer domain.Completer, repo domain.Repository) http.Handler {
	t.Helper()

	codec, err := crypto.NewCodec(bytes.Repeat([]byte{0x2a}, 32))
	require.NoError(t, err)
	catalog, err := i18n.New()
	require.NoError(t, err)

	svc := &appanalysis.Service{
		Prompts:   stubPrompts{},
		Completer: completer,
		Codec:     codec,
		Repo:      repo,
		Clock:     appanalysis.SystemClock{},
		Log:       zerolog.Nop(),
	}

	api := NewRouter(svc, catalog, nil, zerolog.Nop())
	return middleware.BearerAuth(&stubResolver{userID: 42})(api)
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token-42")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpoint_Success(t *testing.T) {
	repo := &memRepo{}
	h := newTestServer(t, &stubCompleter{reply: goodReply}, repo)

	rec := doJSON(t, h, http.MethodPost, "/api/analyze",
		`{"text": "I feel like everything always goes wrong for me", "language": "en"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Sentiment   string   `json:"sentiment"`
		Distortions []string `json:"distortions"`
		Confidence  float64  `json:"confidence_score"`
		RecordID    string   `json:"record_id"`
		Persisted   bool     `json:"persisted"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "negative", resp.Sentiment)
	assert.Equal(t, []string{"catastrophizing"}, resp.Distortions)
	assert.InDelta(t, 0.85, resp.Confidence, 1e-9)
	assert.True(t, resp.Persisted)
	assert.NotEmpty(t, resp.RecordID)

	require.Len(t, repo.saved, 1)
	assert.Equal(t, int64(42), repo.saved[0].UserID)
	assert.NotContains(t, string(repo.saved[0].Ciphertext), "everything always goes wrong")
}

func TestAnalyzeEndpoint_InputErrorIs400(t *testing.T) {
	h := newTestServer(t, &stubCompleter{reply: goodReply}, &memRepo{})

	rec := doJSON(t, h, http.MethodPost, "/api/analyze", `{"text": "too short", "language": "en"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var reply i18n.Reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "TEXT_TOO_SHORT", reply.Error)
	assert.Equal(t, "en", reply.Language)
}

func TestAnalyzeEndpoint_UpstreamFailureIs502Generic(t *testing.T) {
	h := newTestServer(t,
		&stubCompleter{err: domain.E(domain.CodeUpstreamError, "status 503")},
		&memRepo{})

	rec := doJSON(t, h, http.MethodPost, "/api/analyze",
		`{"text": "a long enough piece of text to pass validation", "language": "en"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var reply i18n.Reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, i18n.GenericCode, reply.Error)
	assert.NotContains(t, rec.Body.String(), "503", "upstream detail must stay in the logs")
}

func TestAnalyzeEndpoint_MalformedReplyIs502(t *testing.T) {
	h := newTestServer(t, &stubCompleter{reply: "Sure! Here is your analysis."}, &memRepo{})

	rec := doJSON(t, h, http.MethodPost, "/api/analyze",
		`{"text": "a long enough piece of text to pass validation", "language": "ru"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var reply i18n.Reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, i18n.GenericCode, reply.Error)
	assert.Equal(t, "ru", reply.Language)
}

func TestAnalyzeEndpoint_PersistenceFailureStillReturnsResult(t *testing.T) {
	h := newTestServer(t, &stubCompleter{reply: goodReply}, &memRepo{err: assert.AnError})

	rec := doJSON(t, h, http.MethodPost, "/api/analyze",
		`{"text": "a long enough piece of text to pass validation", "language": "en"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Sentiment string `json:"sentiment"`
		Persisted bool   `json:"persisted"`
		RecordID  string `json:"record_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "negative", resp.Sentiment)
	assert.False(t, resp.Persisted)
	assert.Empty(t, resp.RecordID)
}

func TestAnalyzeEndpoint_RequiresAuth(t *testing.T) {
	h := newTestServer(t, &stubCompleter{reply: goodReply}, &memRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/analyze",
		strings.NewReader(`{"text": "a long enough piece of text", "language": "en"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	repo := &memRepo{}
	h := newTestServer(t, &stubCompleter{reply: goodReply}, repo)

	rec := doJSON(t, h, http.MethodPost, "/api/analyze",
		`{"text": "a long enough piece of text to pass validation", "language": "en"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/history?page=1&page_size=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []struct {
			Text      string    `json:"original_text"`
			Sentiment string    `json:"sentiment"`
			CreatedAt time.Time `json:"created_at"`
		} `json:"items"`
		Page     int `json:"page"`
		PageSize int `json:"page_size"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "a long enough piece of text to pass validation", resp.Items[0].Text, "text is decrypted on read")
	assert.Equal(t, "negative", resp.Items[0].Sentiment)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 10, resp.PageSize)
}

func TestHistoryEndpoint_EmptyIsAnEmptyList(t *testing.T) {
	h := newTestServer(t, &stubCompleter{reply: goodReply}, &memRepo{})

	rec := doJSON(t, h, http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}

func TestHealthRoutesAreWired(t *testing.T) {
	h := newTestServer(t, &stubCompleter{reply: goodReply}, &memRepo{})

	for _, path := range []string{"/health", "/ready", "/live", "/metrics"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
