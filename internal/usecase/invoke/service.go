// Package invoke runs a single chat completion against an ordered list of
// candidate models, falling back to the next candidate on any failure.
package invoke

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/NeilARaman/Echo/internal/domain"
	"github.com/NeilARaman/Echo/internal/metrics"
)

// Result carries the completion text and the model that produced it.
// On exhaustion both fields are empty and the error is non-nil.
type Result struct {
	Text      string
	UsedModel string
}

type Service struct {
	client  ChatClient
	models  []string
	limiter *rate.Limiter
	log     *zap.Logger
}

// New builds an invoker over the given fallback chain. Duplicate model IDs
// are collapsed, keeping the first occurrence. ratePerSec <= 0 disables
// rate limiting.
func New(client ChatClient, models []string, ratePerSec float64, burst int, log *zap.Logger) *Service {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if ratePerSec > 0 {
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), burst)
	}
	return &Service{
		client:  client,
		models:  dedupe(models),
		limiter: limiter,
		log:     log,
	}
}

// Generate tries each candidate model in order and returns the first
// successful completion. If every candidate fails the last error is
// returned wrapped in domain.ErrModelUnavailable.
func (s *Service) Generate(
	ctx context.Context, system, user string, temperature float32, maxTokens int,
) (Result, error) {
	if len(s.models) == 0 {
		return Result{}, fmt.Errorf("%w: no candidate models configured", domain.ErrModelUnavailable)
	}

	var lastErr error
	for _, model := range s.models {
		if err := s.limiter.Wait(ctx); err != nil {
			return Result{}, fmt.Errorf("rate limiter: %w", err)
		}

		start := time.Now()
		text, err := s.client.Complete(ctx, model, system, user, temperature, maxTokens)
		metrics.ModelRequestDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.ModelRequestsTotal.WithLabelValues(model, "error").Inc()
			metrics.ModelFallbackAdvanceTotal.WithLabelValues(model).Inc()
			s.log.Warn("model attempt failed, advancing",
				zap.String("model", model),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		metrics.ModelRequestsTotal.WithLabelValues(model, "success").Inc()
		return Result{Text: text, UsedModel: model}, nil
	}

	return Result{}, fmt.Errorf("%w: all candidates failed: %v", domain.ErrModelUnavailable, lastErr)
}

func dedupe(models []string) []string {
	seen := make(map[string]struct{}, len(models))
	out := make([]string, 0, len(models))
	for _, m := range models {
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
