// Package chi is the HTTP surface: thin handlers that decode, delegate to
// the usecase layer, and map sentinel errors to statuses.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/NeilARaman/Echo/internal/domain"
	"github.com/NeilARaman/Echo/internal/repository/draftcache"
	"github.com/NeilARaman/Echo/internal/usecase/evaluate"
	healthuc "github.com/NeilARaman/Echo/internal/usecase/health"
	"github.com/NeilARaman/Echo/internal/usecase/ingest"
	"github.com/NeilARaman/Echo/internal/version"
)

// searchDefaultTopK applies when a search request omits top_k.
const searchDefaultTopK = 6

// Ingester is the corpus write surface.
type Ingester interface {
	Seed(ctx context.Context) (ingest.Stats, error)
	IngestGlob(ctx context.Context, pattern string) (ingest.Stats, error)
}

// Searcher retrieves passages for ad-hoc queries.
type Searcher interface {
	Retrieve(ctx context.Context, query string, k int) ([]domain.Hit, error)
}

// Analyzer runs the full multi-persona draft review.
type Analyzer interface {
	Analyze(ctx context.Context, req evaluate.Request) (*evaluate.Analysis, error)
}

// HealthService reports component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the HTTP routes to the usecase services.
type Server struct {
	ingester      Ingester
	searcher      Searcher
	analyzer      Analyzer
	health        HealthService
	drafts        draftcache.Cache
	personas      []domain.EvaluatorSpec
	defaultGlob   string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

func NewServer(
	ingester Ingester,
	searcher Searcher,
	analyzer Analyzer,
	health HealthService,
	drafts draftcache.Cache,
	personas []domain.EvaluatorSpec,
	defaultGlob string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ingester:    ingester,
		searcher:    searcher,
		analyzer:    analyzer,
		health:      health,
		drafts:      drafts,
		personas:    personas,
		defaultGlob: defaultGlob,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyDraft, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrDraftNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrModelUnavailable, http.StatusBadGateway, codeUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeUnavailable),
		sentinelHandler(domain.ErrDimensionMismatch, http.StatusInternalServerError, codeInternalError),
	}
	return s
}

// RegisterRoutes mounts every endpoint on the router. Middlewares are the
// caller's concern.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/personas", s.handlePersonas)
	r.Get("/sample_draft", s.handleSampleDraft)
	r.Post("/seed", s.handleSeed)
	r.Post("/ingest", s.handleIngest)
	r.Post("/search", s.handleSearch)
	r.Post("/analyze", s.handleAnalyze)
	r.Post("/drafts", s.handleCreateDraft)
	r.Get("/drafts/{token}", s.handleGetDraft)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{
		Status:   string(report.Status),
		Checks:   checks,
		Passages: report.Passages,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, versionResponse{
		Version: version.Version,
		Commit:  version.Commit,
	})
}

func (s *Server) handlePersonas(w http.ResponseWriter, _ *http.Request) {
	items := make([]personaResponse, len(s.personas))
	for i, p := range s.personas {
		items[i] = personaResponse{ID: p.ID, Name: p.Name}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleSampleDraft(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, draftResponse{Draft: ingest.SampleDraft})
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ingester.Seed(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	pattern := req.GlobPattern
	if pattern == "" {
		pattern = s.defaultGlob
	}

	stats, err := s.ingester.IngestGlob(r.Context(), pattern)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	topK := req.TopK
	if topK <= 0 {
		topK = searchDefaultTopK
	}

	hits, err := s.searcher.Retrieve(r.Context(), req.Query, topK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if hits == nil {
		hits = []domain.Hit{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: hits})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	communityID := strings.TrimSpace(req.CommunityIDAlias)
	if communityID == "" {
		communityID = strings.TrimSpace(req.CommunityID)
	}

	analysis, err := s.analyzer.Analyze(r.Context(), evaluate.Request{
		Draft:       req.Draft,
		TopK:        req.TopK,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{
		Analysis:    analysis,
		CommunityID: communityID,
	})
}

func (s *Server) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Draft == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Missing 'draft'")
		return
	}

	token, err := s.drafts.Put(r.Context(), req.Draft)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, draftCreatedResponse{Token: token})
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	draft, err := s.drafts.Get(r.Context(), token)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{Draft: draft})
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyDraft,
		domain.ErrDraftNotFound,
		domain.ErrModelUnavailable,
		domain.ErrEmbeddingProviderError,
		domain.ErrDimensionMismatch,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
