// Package httpserver routes the caller-facing API. Handlers translate
// pipeline failures through the localized catalog; raw error detail
// never reaches the response body.
package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	appanalysis "github.com/bryanwahyu/mindanalyzer/internal/application/analysis"
	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/analysis"
	"github.com/bryanwahyu/mindanalyzer/internal/i18n"
	"github.com/bryanwahyu/mindanalyzer/internal/middleware"
)

type Router struct {
	svc     *appanalysis.Service
	catalog *i18n.Catalog
	log     zerolog.Logger
}

// NewRouter builds the API router. Auth, rate limiting and access
// logging are mounted by main around this handler.
func NewRouter(svc *appanalysis.Service, catalog *i18n.Catalog, checkers map[string]middleware.HealthChecker, log zerolog.Logger) http.Handler {
	rt := &Router{svc: svc, catalog: catalog, log: log}
	mux := chi.NewRouter()

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(r chi.Router) {
		r.Post("/analyze", rt.handleAnalyze)
		r.Get("/history", rt.handleHistory)
	})

	return mux
}

// POST /api/analyze
// Body: {"text": "...", "language": "ru"|"en"}
func (rt *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) {
	userID, ok := middleware.UserFromContext(req.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "UNAUTHORIZED"})
		return
	}

	var body struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		reply := rt.catalog.Classify(domain.E(domain.CodeUnknown, "undecodable request body"), domain.Language(body.Language))
		writeJSON(w, http.StatusBadRequest, reply)
		return
	}

	middleware.IncrementAnalyses()
	out, err := rt.svc.Analyze(req.Context(), userID, body.Text, body.Language)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		reply := rt.catalog.Classify(err, domain.Language(body.Language))
		writeJSON(w, statusFor(domain.CodeOf(err)), reply)
		return
	}
	if out.Persisted {
		middleware.IncrementAnalysesPersisted()
	}

	resp := struct {
		domain.Result
		RecordID  string `json:"record_id,omitempty"`
		Persisted bool   `json:"persisted"`
	}{out.Result, string(out.RecordID), out.Persisted}
	writeJSON(w, http.StatusOK, resp)
}

// GET /api/history?page=&page_size=&language=
func (rt *Router) handleHistory(w http.ResponseWriter, req *http.Request) {
	userID, ok := middleware.UserFromContext(req.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "UNAUTHORIZED"})
		return
	}

	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))
	page = middleware.ClampPage(page)
	size = middleware.ClampPageSize(size)

	recs, err := rt.svc.History(req.Context(), userID, page, size)
	if err != nil {
		reply := rt.catalog.Classify(err, domain.Language(req.URL.Query().Get("language")))
		writeJSON(w, http.StatusInternalServerError, reply)
		return
	}
	if recs == nil {
		recs = []*domain.Record{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":     recs,
		"page":      page,
		"page_size": size,
	})
}

// statusFor keys the HTTP status on the explicit stage code
func statusFor(code domain.Code) int {
	switch {
	case domain.InputCode(code):
		return http.StatusBadRequest
	case code == domain.CodeNetworkError,
		code == domain.CodeUpstreamError,
		code == domain.CodeEmptyReply,
		code == domain.CodeMalformedJSON,
		code == domain.CodeSchemaViolation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
