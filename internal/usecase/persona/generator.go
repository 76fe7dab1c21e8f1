// Package persona provides the fixed editorial roster and generates draft-
// specific audience personas through the model fallback chain.
package persona

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/NeilARaman/Echo/internal/domain"
	"github.com/NeilARaman/Echo/internal/usecase/normalize"
)

// Generation runs cooler and longer than evaluation: persona design wants
// consistency over flair, and the JSON shape is verbose.
const (
	generateTemperature = 0.2
	generateMaxTokens   = 1200
)

type Generator struct {
	gen TextGenerator
	log *zap.Logger
}

func NewGenerator(gen TextGenerator, log *zap.Logger) *Generator {
	return &Generator{gen: gen, log: log}
}

// Generate produces up to n audience personas for the draft. Round one asks
// for exactly n; round two re-requests the shortfall with the already-chosen
// names excluded; the static fallback pool fills whatever remains. Names are
// case-insensitively unique. The result may be shorter than n, never longer.
func (g *Generator) Generate(ctx context.Context, draft string, hits []domain.Hit, n int) []domain.EvaluatorSpec {
	if n <= 0 {
		return nil
	}

	chosen := make([]domain.EvaluatorSpec, 0, n)
	seen := make(map[string]struct{}, n)

	take := func(specs []domain.EvaluatorSpec) {
		for _, s := range specs {
			key := strings.ToLower(s.Name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			chosen = append(chosen, s)
			if len(chosen) == n {
				return
			}
		}
	}

	take(g.generateOnce(ctx, draft, hits, n, nil))

	if len(chosen) < n {
		exclude := make([]string, 0, len(chosen))
		for _, p := range chosen {
			exclude = append(exclude, p.Name)
		}
		take(g.generateOnce(ctx, draft, hits, n-len(chosen), exclude))
	}

	if len(chosen) < n {
		g.log.Info("filling audience personas from fallback pool",
			zap.Int("generated", len(chosen)),
			zap.Int("requested", n),
		)
		take(fallbackPersonas())
	}
	return chosen
}

func (g *Generator) generateOnce(
	ctx context.Context, draft string, hits []domain.Hit, targetN int, excludeNames []string,
) []domain.EvaluatorSpec {
	user := buildGeneratorPrompt(draft, hits, targetN, excludeNames)

	res, err := g.gen.Generate(ctx, generatorSystem, user, generateTemperature, generateMaxTokens)
	if err != nil {
		g.log.Warn("persona generation round failed", zap.Error(err))
		return nil
	}

	exclude := make(map[string]struct{}, len(excludeNames))
	for _, name := range excludeNames {
		exclude[strings.ToLower(name)] = struct{}{}
	}

	var out []domain.EvaluatorSpec
	for _, p := range normalize.ExtractPersonas(res.Text) {
		if p.Name == "" {
			continue
		}
		if _, skip := exclude[strings.ToLower(p.Name)]; skip {
			continue
		}
		system := p.SystemPrompt
		if system == "" {
			system = synthesizeSystem(p.Name, p.Scope, p.AvoidOverlapWith)
		}
		out = append(out, domain.EvaluatorSpec{
			ID:          "aud-" + Slugify(p.Name),
			Name:        p.Name,
			WhyIncluded: p.WhyIncluded,
			System:      system,
		})
	}
	return out
}

// synthesizeSystem builds a usable system prompt for a persona the model
// described but did not equip with one.
func synthesizeSystem(name string, scope, avoid []string) string {
	if len(scope) > 6 {
		scope = scope[:6]
	}
	if len(avoid) > 5 {
		avoid = avoid[:5]
	}
	scopeLine := strings.Join(scope, "; ")
	if scopeLine == "" {
		scopeLine = "-"
	}
	avoidLine := strings.Join(avoid, "; ")
	if avoidLine == "" {
		avoidLine = "-"
	}
	return fmt.Sprintf(`AUDIENCE ROLE: %s.
SCOPE: %s.
AVOID OVERLAP: %s.
DELIVER IN THE AUDIENCE SCHEMA ONLY.`, name, scopeLine, avoidLine)
}

func buildGeneratorPrompt(draft string, hits []domain.Hit, targetN int, excludeNames []string) string {
	var ctxBlock strings.Builder
	if len(hits) == 0 {
		ctxBlock.WriteString("No context available.")
	} else {
		for i, h := range hits {
			if i > 0 {
				ctxBlock.WriteString("\n\n")
			}
			fmt.Fprintf(&ctxBlock, "[%d] %s (chunk %d)\n%s", i+1, h.Source, h.ChunkIndex, h.Text)
		}
	}

	existing := "none"
	if len(excludeNames) > 0 {
		names := append([]string(nil), excludeNames...)
		sort.Strings(names)
		existing = strings.Join(names, ", ")
	}

	return fmt.Sprintf(`ARTICLE DRAFT:
---
%s
---

CONTEXT (snippets; you may reference indices like [1..N] only in rationale strings):
%s

EXISTING NAMES TO AVOID: [%s]
TASK:
Return a JSON object with EXACTLY %d personas, each with:
- "name": short label e.g., "Nearby School Parent", "Small Landscaping Owner" (must not match existing names)
- "why_included": one sentence on why this audience matters (may reference [indices])
- "scope": 3-6 bullet topics this audience cares about (no overlap with other personas)
- "avoid_overlap_with": 2-5 bullets the persona will NOT cover (to keep personas distinct)
- "system_prompt": instruction block starting with "AUDIENCE ROLE: ..." that sets tone, scope, anti-goals

JSON SHAPE:
{
  "personas":[
    {"name":"...", "why_included":"...", "scope":["..."], "avoid_overlap_with":["..."], "system_prompt":"AUDIENCE ROLE: ..."}
  ]
}
STRICT: No commentary. Only JSON.`, draft, ctxBlock.String(), existing, targetN)
}
