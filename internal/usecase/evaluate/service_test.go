package evaluate

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/NeilARaman/Echo/internal/domain"
	"github.com/NeilARaman/Echo/internal/metrics"
	"github.com/NeilARaman/Echo/internal/usecase/invoke"
	"github.com/NeilARaman/Echo/internal/usecase/persona"
)

func TestMain(m *testing.M) {
	metrics.Register()
	os.Exit(m.Run())
}

type mockRetriever struct {
	hits []domain.Hit
	err  error
	got  string
	gotK int
}

func (m *mockRetriever) Retrieve(_ context.Context, query string, k int) ([]domain.Hit, error) {
	m.got = query
	m.gotK = k
	return m.hits, m.err
}

type mockGenerator struct {
	mu       sync.Mutex
	response string
	failFor  map[string]bool // keyed by substring of the system prompt
	inFlight int
	maxSeen  int
	calls    int
	gotTemp  float32
}

func (m *mockGenerator) Generate(
	_ context.Context, system, _ string, temperature float32, _ int,
) (invoke.Result, error) {
	m.mu.Lock()
	m.calls++
	m.gotTemp = temperature
	m.inFlight++
	if m.inFlight > m.maxSeen {
		m.maxSeen = m.inFlight
	}
	fail := false
	for marker := range m.failFor {
		if strings.Contains(system, marker) {
			fail = true
		}
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if fail {
		return invoke.Result{}, errors.New("model unavailable")
	}
	return invoke.Result{Text: m.response, UsedModel: "m1"}, nil
}

type mockPersonas struct {
	specs []domain.EvaluatorSpec
}

func (m *mockPersonas) Generate(_ context.Context, _ string, _ []domain.Hit, _ int) []domain.EvaluatorSpec {
	return m.specs
}

func defaultOptions() Options {
	return Options{TopK: 4, AudienceN: 2, Temperature: 0.3, MaxTokens: 900, MaxParallel: 3}
}

func audienceSpecs() []domain.EvaluatorSpec {
	return []domain.EvaluatorSpec{
		{ID: "aud-parent", Name: "Parent", System: "AUDIENCE ROLE: Parent."},
		{ID: "aud-owner", Name: "Owner", System: "AUDIENCE ROLE: Owner."},
	}
}

func TestAnalyze_FullRun(t *testing.T) {
	retr := &mockRetriever{hits: []domain.Hit{
		{Score: 0.9, Text: "snippet one", Source: "policy_brief.txt", ChunkIndex: 0},
		{Score: 0.8, Text: "snippet two", Source: "health_research.txt", ChunkIndex: 2},
	}}
	gen := &mockGenerator{response: `{"summary":"fine","ratings":{"clarity":7,"accuracy":7,"engagement":7,"novelty":7,"risk":7},"stance":"support"}`}
	svc := New(retr, gen, &mockPersonas{specs: audienceSpecs()}, defaultOptions(), zap.NewNop())

	analysis, err := svc.Analyze(context.Background(), Request{Draft: "A draft about leaf blowers."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(analysis.PerBot) != 10 {
		t.Errorf("expected 10 editorial results, got %d", len(analysis.PerBot))
	}
	if len(analysis.PerAudience) != 2 {
		t.Errorf("expected 2 audience results, got %d", len(analysis.PerAudience))
	}
	if gen.calls != 12 {
		t.Errorf("expected 12 generator calls, got %d", gen.calls)
	}
	if retr.gotK != 4 {
		t.Errorf("expected default top_k, got %d", retr.gotK)
	}
	if !strings.HasPrefix(retr.got, "Key claims and entities in this draft: ") {
		t.Errorf("unexpected retrieval query: %q", retr.got)
	}
	if len(analysis.Retrieval.Snippets) != 2 || analysis.Retrieval.Snippets[1].Idx != 2 {
		t.Errorf("unexpected snippets: %+v", analysis.Retrieval.Snippets)
	}
	if got := analysis.AudienceReport.StanceCounts["support"]; got != 2 {
		t.Errorf("expected both audience personas counted as support, got %d", got)
	}
}

func TestAnalyze_EmptyDraft(t *testing.T) {
	svc := New(&mockRetriever{}, &mockGenerator{}, &mockPersonas{}, defaultOptions(), zap.NewNop())

	_, err := svc.Analyze(context.Background(), Request{Draft: "   \n "})
	if !errors.Is(err, domain.ErrEmptyDraft) {
		t.Fatalf("expected ErrEmptyDraft, got %v", err)
	}
}

func TestAnalyze_RetrievalError(t *testing.T) {
	svc := New(&mockRetriever{err: errors.New("index corrupt")}, &mockGenerator{}, &mockPersonas{}, defaultOptions(), zap.NewNop())

	if _, err := svc.Analyze(context.Background(), Request{Draft: "draft"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestAnalyze_FailedPersonaGetsPlaceholder(t *testing.T) {
	gen := &mockGenerator{
		response: `{"ratings":{"clarity":7,"accuracy":7,"engagement":7,"novelty":7,"risk":7}}`,
		failFor:  map[string]bool{"Rigorous fact checker": true, "AUDIENCE ROLE: Parent.": true},
	}
	svc := New(&mockRetriever{}, gen, &mockPersonas{specs: audienceSpecs()}, defaultOptions(), zap.NewNop())

	analysis, err := svc.Analyze(context.Background(), Request{Draft: "draft"})
	if err != nil {
		t.Fatalf("batch must not abort on persona failure: %v", err)
	}
	if got := analysis.PerBot["bot01"].Model; got != "unavailable" {
		t.Errorf("expected editorial placeholder, got model %q", got)
	}
	if got := analysis.PerBot["bot02"].Model; got != "m1" {
		t.Errorf("expected bot02 to succeed, got model %q", got)
	}
	if got := analysis.PerAudience["aud-parent"].Model; got != "unavailable" {
		t.Errorf("expected audience placeholder, got model %q", got)
	}
	// Placeholder ratings still feed the rollup.
	if avg := analysis.Report.ScoresAvg["clarity"]; avg == nil {
		t.Error("expected clarity average present")
	}
}

func TestAnalyze_HeadlinePoolFromHeadlinePersonaOnly(t *testing.T) {
	gen := &mockGenerator{
		response: `{"headline_suggestions":["H1","H2"],"ratings":{"clarity":7,"accuracy":7,"engagement":7,"novelty":7,"risk":7}}`,
	}
	svc := New(&mockRetriever{}, gen, &mockPersonas{}, defaultOptions(), zap.NewNop())

	analysis, err := svc.Analyze(context.Background(), Request{Draft: "draft"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(analysis.HeadlinePool) != 2 {
		t.Errorf("expected 2 pooled headlines, got %v", analysis.HeadlinePool)
	}
	for id, res := range analysis.PerBot {
		if id == persona.HeadlinePersonaID {
			continue
		}
		if len(res.HeadlineSuggestions) != 0 {
			t.Errorf("persona %s leaked headlines: %v", id, res.HeadlineSuggestions)
		}
	}
}

func TestAnalyze_BoundedConcurrency(t *testing.T) {
	gen := &mockGenerator{response: `{"ratings":{"clarity":7,"accuracy":7,"engagement":7,"novelty":7,"risk":7}}`}
	opts := defaultOptions()
	opts.MaxParallel = 2
	svc := New(&mockRetriever{}, gen, &mockPersonas{specs: audienceSpecs()}, opts, zap.NewNop())

	if _, err := svc.Analyze(context.Background(), Request{Draft: "draft"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.maxSeen > 2 {
		t.Errorf("observed %d concurrent generator calls, limit 2", gen.maxSeen)
	}
}

func TestAnalyze_RequestOverrides(t *testing.T) {
	retr := &mockRetriever{}
	gen := &mockGenerator{response: "{}"}
	svc := New(retr, gen, &mockPersonas{}, defaultOptions(), zap.NewNop())

	if _, err := svc.Analyze(context.Background(), Request{Draft: "draft", TopK: 9}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if retr.gotK != 9 {
		t.Errorf("expected top_k override 9, got %d", retr.gotK)
	}
}

func TestAnalyze_ZeroTemperatureHonored(t *testing.T) {
	gen := &mockGenerator{response: "{}"}
	svc := New(&mockRetriever{}, gen, &mockPersonas{}, defaultOptions(), zap.NewNop())

	zero := float32(0)
	if _, err := svc.Analyze(context.Background(), Request{Draft: "draft", Temperature: &zero}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.gotTemp != 0 {
		t.Errorf("explicit zero temperature replaced with %v", gen.gotTemp)
	}

	if _, err := svc.Analyze(context.Background(), Request{Draft: "draft"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.gotTemp != 0.3 {
		t.Errorf("expected configured default 0.3, got %v", gen.gotTemp)
	}
}

func TestContextBlock(t *testing.T) {
	if got := contextBlock(nil); got != "No context available." {
		t.Errorf("unexpected empty block: %q", got)
	}

	hits := []domain.Hit{
		{Source: "a.txt", ChunkIndex: 0, Text: "alpha"},
		{Source: "b.txt", ChunkIndex: 3, Text: "beta"},
	}
	got := contextBlock(hits)
	if !strings.Contains(got, "[1] Source: a.txt (chunk 0)\nalpha") {
		t.Errorf("missing first snippet:\n%s", got)
	}
	if !strings.Contains(got, "[2] Source: b.txt (chunk 3)\nbeta") {
		t.Errorf("missing second snippet:\n%s", got)
	}
}
