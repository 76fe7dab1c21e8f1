package normalize

import "github.com/NeilARaman/Echo/internal/domain"

// Audience coerces model output into a complete AudienceResult.
func Audience(content, usedModel string) domain.AudienceResult {
	data := recoverObject(content)

	scoresRaw, _ := data["scores"].(map[string]any)
	scores := domain.AudienceScores{
		Trust:       scoreOrDefault(scoresRaw, "trust"),
		Relevance:   scoreOrDefault(scoresRaw, "relevance"),
		ShareIntent: scoreOrDefault(scoresRaw, "share_intent"),
	}

	stance := stringField(data, "stance")
	if stance == "" {
		stance = "mixed"
	}

	return domain.AudienceResult{
		PersonaTakeaway:         stringField(data, "persona_takeaway"),
		Stance:                  stance,
		Positives:               toStrings(data["positives"]),
		Concerns:                coerceConcerns(data["concerns"]),
		QuestionsForReporter:    toStrings(data["questions_for_reporter"]),
		Scores:                  scores,
		LikelyComment:           stringField(data, "likely_comment"),
		SuggestionsToJournalist: coerceAudienceSuggestions(data["suggestions_to_journalist"]),
		Citations:               toCitations(data["citations"]),
		Model:                   usedModel,
	}
}

// PlaceholderAudience is the schema-valid substitute used when every model
// candidate failed for an audience persona.
func PlaceholderAudience() domain.AudienceResult {
	five := func() *int { n := 5; return &n }
	return domain.AudienceResult{
		PersonaTakeaway:      "Model call failed for this audience evaluator.",
		Stance:               "mixed",
		Positives:            []string{},
		Concerns:             []domain.Concern{},
		QuestionsForReporter: []string{},
		Scores: domain.AudienceScores{
			Trust: five(), Relevance: five(), ShareIntent: five(),
		},
		SuggestionsToJournalist: []domain.AudienceSuggestion{},
		Citations:               []int{},
		Model:                   "unavailable",
	}
}

// scoreOrDefault reads a 1-10 score, treating an absent key as the neutral
// midpoint 5 and a present-but-unusable value as nil.
func scoreOrDefault(m map[string]any, key string) *int {
	v, ok := m[key]
	if !ok {
		five := 5
		return &five
	}
	return clampRating(v)
}

func coerceConcerns(v any) []domain.Concern {
	items := toList(v)
	out := make([]domain.Concern, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			five := 5
			out = append(out, domain.Concern{
				Issue:       asString(it),
				SupportedBy: []int{},
				Severity:    &five,
			})
			continue
		}
		out = append(out, domain.Concern{
			Issue:       stringField(m, "issue"),
			Why:         stringField(m, "why"),
			SupportedBy: toCitations(m["supported_by"]),
			Severity:    scoreOrDefault(m, "severity"),
		})
	}
	return out
}

func coerceAudienceSuggestions(v any) []domain.AudienceSuggestion {
	items := toList(v)
	out := make([]domain.AudienceSuggestion, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			out = append(out, domain.AudienceSuggestion{
				Text:        asString(it),
				SupportedBy: []int{},
			})
			continue
		}
		out = append(out, domain.AudienceSuggestion{
			Text:        stringField(m, "text"),
			Rationale:   stringField(m, "rationale"),
			SupportedBy: toCitations(m["supported_by"]),
		})
	}
	return out
}
