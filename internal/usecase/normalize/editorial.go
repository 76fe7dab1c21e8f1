package normalize

import "github.com/NeilARaman/Echo/internal/domain"

const defaultRating = 5.0

// Editorial coerces model output into a complete EditorialResult. Headline
// proposals are discarded unless allowHeadlines is set, so only the
// designated headline persona can contribute to the headline pool.
func Editorial(content, usedModel string, allowHeadlines bool) domain.EditorialResult {
	data := recoverObject(content)

	ratingsRaw, _ := data["ratings"].(map[string]any)
	filled := make(map[string]any, len(RatingCategories))
	for _, key := range RatingCategories {
		if v, ok := ratingsRaw[key]; ok {
			filled[key] = v
		} else {
			filled[key] = defaultRating
		}
	}

	res := domain.EditorialResult{
		Summary:             stringField(data, "summary"),
		KeyPoints:           toStrings(data["key_points"]),
		Suggestions:         coerceSuggestions(data["suggestions"]),
		Risks:               coerceRisks(data["risks"]),
		Ratings:             scaleRatings(filled),
		HeadlineSuggestions: toStrings(data["headline_suggestions"]),
		Citations:           toCitations(data["citations"]),
		NextActions:         toStrings(data["next_actions"]),
		Model:               usedModel,
	}
	if !allowHeadlines {
		res.HeadlineSuggestions = []string{}
	}
	return res
}

// PlaceholderEditorial is the schema-valid substitute used when every model
// candidate failed for a persona.
func PlaceholderEditorial() domain.EditorialResult {
	five := func() *int { n := 5; return &n }
	return domain.EditorialResult{
		Summary:     "Model call failed for this evaluator.",
		KeyPoints:   []string{},
		Suggestions: []domain.Suggestion{},
		Risks:       []domain.Risk{},
		Ratings: map[string]*int{
			"clarity": five(), "accuracy": five(), "engagement": five(),
			"novelty": five(), "risk": five(),
		},
		HeadlineSuggestions: []string{},
		Citations:           []int{},
		NextActions:         []string{"Check model configuration and retry."},
		Model:               "unavailable",
	}
}

func coerceSuggestions(v any) []domain.Suggestion {
	items := toList(v)
	out := make([]domain.Suggestion, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			out = append(out, domain.Suggestion{
				Text:        asString(it),
				SupportedBy: []int{},
				Impact:      "medium",
				Effort:      "medium",
			})
			continue
		}
		out = append(out, domain.Suggestion{
			Text:           stringField(m, "text"),
			Rationale:      stringField(m, "rationale"),
			SupportedBy:    toCitations(m["supported_by"]),
			Impact:         levelOrMedium(m, "impact"),
			Effort:         levelOrMedium(m, "effort"),
			QuoteFromDraft: stringField(m, "quote_from_draft"),
		})
	}
	return out
}

func coerceRisks(v any) []domain.Risk {
	items := toList(v)
	out := make([]domain.Risk, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			five := 5
			out = append(out, domain.Risk{
				Issue:       asString(it),
				SupportedBy: []int{},
				Severity:    &five,
			})
			continue
		}
		issue := stringField(m, "issue")
		if issue == "" {
			issue = stringField(m, "text")
		}
		out = append(out, domain.Risk{
			Issue:       issue,
			Rationale:   stringField(m, "rationale"),
			SupportedBy: toCitations(m["supported_by"]),
			Severity:    severityOrDefault(m["severity"]),
			Mitigation:  stringField(m, "mitigation"),
		})
	}
	return out
}

// severityOrDefault clamps a numeric severity; anything unusable becomes 5
// rather than nil so that a risk is never reported without a weight.
func severityOrDefault(v any) *int {
	if r := clampRating(v); r != nil {
		return r
	}
	five := 5
	return &five
}

func levelOrMedium(m map[string]any, key string) string {
	s := toLowerTrim(stringField(m, key))
	if s == "" {
		return "medium"
	}
	return s
}
