// Package evaluate orchestrates a full draft review: retrieval, audience
// persona generation, fan-out over every evaluator, and consensus rollups.
package evaluate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/NeilARaman/Echo/internal/domain"
	"github.com/NeilARaman/Echo/internal/metrics"
	"github.com/NeilARaman/Echo/internal/usecase/normalize"
	"github.com/NeilARaman/Echo/internal/usecase/persona"
)

// Options carry the review defaults from configuration.
type Options struct {
	TopK        int
	AudienceN   int
	Temperature float32
	MaxTokens   int
	MaxParallel int
}

// Request is one analyze call. Zero-valued fields fall back to Options.
// Temperature is a pointer so an explicit 0 survives; nil means "use the
// configured default".
type Request struct {
	Draft       string
	TopK        int
	Temperature *float32
	MaxTokens   int
}

// Snippet echoes one retrieved passage with its 1-based citation index.
type Snippet struct {
	Idx        int     `json:"idx"`
	Source     string  `json:"source"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

// Retrieval records what the evaluators were shown.
type Retrieval struct {
	QueryUsed string    `json:"query_used"`
	Snippets  []Snippet `json:"snippets"`
}

// Analysis is the complete outcome of one draft review.
type Analysis struct {
	Bots           []domain.EvaluatorSpec            `json:"bots"`
	AudienceBots   []domain.EvaluatorSpec            `json:"audience_bots"`
	Retrieval      Retrieval                         `json:"retrieval"`
	PerBot         map[string]domain.EditorialResult `json:"per_bot"`
	PerAudience    map[string]domain.AudienceResult  `json:"per_audience"`
	Report         domain.EditorialReport            `json:"report"`
	HeadlinePool   []string                          `json:"headline_pool"`
	AudienceReport domain.AudienceReport             `json:"audience_report"`
}

// retrievalQueryPrefixLimit caps how much of the draft seeds the retrieval
// query; long drafts carry their key claims early.
const retrievalQueryPrefixLimit = 2000

const headlinePoolCap = 12

type Service struct {
	retriever Retriever
	generator TextGenerator
	personas  PersonaGenerator
	opts      Options
	log       *zap.Logger
}

func New(retriever Retriever, generator TextGenerator, personas PersonaGenerator, opts Options, log *zap.Logger) *Service {
	if opts.MaxParallel < 1 {
		opts.MaxParallel = 1
	}
	return &Service{
		retriever: retriever,
		generator: generator,
		personas:  personas,
		opts:      opts,
		log:       log,
	}
}

// Analyze runs the full review. Individual evaluator failures degrade to
// placeholder results; only an empty draft or a retrieval failure aborts.
func (s *Service) Analyze(ctx context.Context, req Request) (*Analysis, error) {
	draft := strings.TrimSpace(req.Draft)
	if draft == "" {
		return nil, domain.ErrEmptyDraft
	}
	topK := req.TopK
	if topK <= 0 {
		topK = s.opts.TopK
	}
	temperature := s.opts.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.opts.MaxTokens
	}

	started := time.Now()
	defer func() {
		metrics.EvaluationDuration.Observe(time.Since(started).Seconds())
	}()

	query := retrievalQuery(draft)
	hits, err := s.retriever.Retrieve(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	audience := s.personas.Generate(ctx, draft, hits, s.opts.AudienceN)
	editorial := persona.Roster()

	perBot := make(map[string]domain.EditorialResult, len(editorial))
	perAudience := make(map[string]domain.AudienceResult, len(audience))

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.opts.MaxParallel)
	)
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			fn()
		}()
	}

	for _, bot := range editorial {
		bot := bot
		run(func() {
			res := s.evaluateEditorial(ctx, bot, draft, hits, temperature, maxTokens)
			mu.Lock()
			perBot[bot.ID] = res
			mu.Unlock()
		})
	}
	for _, aud := range audience {
		aud := aud
		run(func() {
			res := s.evaluateAudience(ctx, aud, draft, hits, temperature, maxTokens)
			mu.Lock()
			perAudience[aud.ID] = res
			mu.Unlock()
		})
	}
	wg.Wait()

	report := AggregateEditorial(perBot)
	audienceReport := AggregateAudience(perAudience)

	headlinePool := perBot[persona.HeadlinePersonaID].HeadlineSuggestions
	if len(headlinePool) > headlinePoolCap {
		headlinePool = headlinePool[:headlinePoolCap]
	}

	s.log.Info("draft analysis complete",
		zap.Int("editorial", len(perBot)),
		zap.Int("audience", len(perAudience)),
		zap.Int("snippets", len(hits)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return &Analysis{
		Bots:           editorial,
		AudienceBots:   audience,
		Retrieval:      buildRetrieval(query, hits),
		PerBot:         perBot,
		PerAudience:    perAudience,
		Report:         report,
		HeadlinePool:   headlinePool,
		AudienceReport: audienceReport,
	}, nil
}

func (s *Service) evaluateEditorial(
	ctx context.Context, bot domain.EvaluatorSpec, draft string, hits []domain.Hit,
	temperature float32, maxTokens int,
) domain.EditorialResult {
	system := strings.TrimSpace(bot.System) + "\n\n" + persona.EditorialInstruction + "\n"
	user := fmt.Sprintf(`JOURNALIST DRAFT:
---
%s
---

CONTEXT SNIPPETS:
%s
`, draft, contextBlock(hits))

	res, err := s.generator.Generate(ctx, system, user, temperature, maxTokens)
	if err != nil {
		metrics.PersonaEvaluationsTotal.WithLabelValues("editorial", "failed").Inc()
		s.log.Warn("editorial evaluation failed",
			zap.String("persona", bot.ID),
			zap.Error(err),
		)
		return normalize.PlaceholderEditorial()
	}
	metrics.PersonaEvaluationsTotal.WithLabelValues("editorial", "ok").Inc()
	return normalize.Editorial(res.Text, res.UsedModel, bot.ID == persona.HeadlinePersonaID)
}

func (s *Service) evaluateAudience(
	ctx context.Context, aud domain.EvaluatorSpec, draft string, hits []domain.Hit,
	temperature float32, maxTokens int,
) domain.AudienceResult {
	system := strings.TrimSpace(aud.System) + "\n\n" + persona.AudienceInstruction + "\n"
	user := fmt.Sprintf(`ARTICLE DRAFT (for audience reaction):
---
%s
---

CONTEXT SNIPPETS (for evidence; cite like [3]):
%s
`, draft, contextBlock(hits))

	res, err := s.generator.Generate(ctx, system, user, temperature, maxTokens)
	if err != nil {
		metrics.PersonaEvaluationsTotal.WithLabelValues("audience", "failed").Inc()
		s.log.Warn("audience evaluation failed",
			zap.String("persona", aud.ID),
			zap.Error(err),
		)
		return normalize.PlaceholderAudience()
	}
	metrics.PersonaEvaluationsTotal.WithLabelValues("audience", "ok").Inc()
	return normalize.Audience(res.Text, res.UsedModel)
}

// contextBlock numbers the retrieved snippets 1..K the same way the prompt
// instructions reference them.
func contextBlock(hits []domain.Hit) string {
	if len(hits) == 0 {
		return "No context available."
	}
	var b strings.Builder
	for i, h := range hits {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] Source: %s (chunk %d)\n%s", i+1, h.Source, h.ChunkIndex, h.Text)
	}
	return b.String()
}

func retrievalQuery(draft string) string {
	prefix := draft
	if len(prefix) > retrievalQueryPrefixLimit {
		prefix = prefix[:retrievalQueryPrefixLimit]
	}
	return "Key claims and entities in this draft: " + prefix
}

func buildRetrieval(query string, hits []domain.Hit) Retrieval {
	snippets := make([]Snippet, len(hits))
	for i, h := range hits {
		snippets[i] = Snippet{
			Idx:        i + 1,
			Source:     h.Source,
			ChunkIndex: h.ChunkIndex,
			Score:      h.Score,
			Text:       h.Text,
		}
	}
	return Retrieval{QueryUsed: query, Snippets: snippets}
}
