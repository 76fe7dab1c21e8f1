package normalize

import (
	"testing"
)

func intp(n int) *int { return &n }

func ratingEq(t *testing.T, got *int, want *int, key string) {
	t.Helper()
	switch {
	case got == nil && want == nil:
	case got == nil || want == nil:
		t.Errorf("rating %q: got %v, want %v", key, fmtp(got), fmtp(want))
	case *got != *want:
		t.Errorf("rating %q: got %d, want %d", key, *got, *want)
	}
}

func fmtp(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func TestEditorial_WholeJSON(t *testing.T) {
	content := `{
		"summary": "Solid draft.",
		"key_points": ["point one", "point two"],
		"ratings": {"clarity": 8, "accuracy": 7, "engagement": 6, "novelty": 9, "risk": 3},
		"citations": [1, 3]
	}`
	res := Editorial(content, "model-a", false)

	if res.Summary != "Solid draft." {
		t.Errorf("unexpected summary: %q", res.Summary)
	}
	if len(res.KeyPoints) != 2 {
		t.Errorf("expected 2 key points, got %v", res.KeyPoints)
	}
	ratingEq(t, res.Ratings["clarity"], intp(8), "clarity")
	ratingEq(t, res.Ratings["risk"], intp(3), "risk")
	if res.Model != "model-a" {
		t.Errorf("unexpected model: %q", res.Model)
	}
}

func TestEditorial_BraceSliceRecovery(t *testing.T) {
	content := "Sure! Here is the analysis:\n```json\n{\"summary\": \"wrapped\", \"ratings\": {\"clarity\": 7, \"accuracy\": 7, \"engagement\": 7, \"novelty\": 7, \"risk\": 7}}\n```\nHope that helps."
	res := Editorial(content, "m", false)

	if res.Summary != "wrapped" {
		t.Errorf("expected brace slice recovery, got summary %q", res.Summary)
	}
	ratingEq(t, res.Ratings["clarity"], intp(7), "clarity")
}

func TestEditorial_GarbageFallsBackToDefaults(t *testing.T) {
	res := Editorial("not json at all", "m", false)

	if res.Summary != "" {
		t.Errorf("expected empty summary, got %q", res.Summary)
	}
	// Missing ratings default to 5, which the /5 heuristic doubles.
	for _, key := range RatingCategories {
		ratingEq(t, res.Ratings[key], intp(10), key)
	}
	if len(res.Suggestions) != 0 || len(res.Risks) != 0 {
		t.Errorf("expected empty lists, got %+v", res)
	}
}

func TestEditorial_ScaleHeuristic(t *testing.T) {
	// All numeric values <= 5 are read as a /5 scale and doubled. Absent
	// categories default to 5 and double with the rest.
	res := Editorial(`{"ratings":{"clarity":4,"accuracy":5}}`, "m", false)

	ratingEq(t, res.Ratings["clarity"], intp(8), "clarity")
	ratingEq(t, res.Ratings["accuracy"], intp(10), "accuracy")
	ratingEq(t, res.Ratings["engagement"], intp(10), "engagement")
}

func TestEditorial_NoScalingAboveFive(t *testing.T) {
	res := Editorial(`{"ratings":{"clarity":4,"accuracy":7,"engagement":12,"novelty":-1,"risk":"oops"}}`, "m", false)

	ratingEq(t, res.Ratings["clarity"], intp(4), "clarity")
	ratingEq(t, res.Ratings["accuracy"], intp(7), "accuracy")
	ratingEq(t, res.Ratings["engagement"], intp(10), "engagement") // clamped
	ratingEq(t, res.Ratings["novelty"], intp(0), "novelty")        // clamped
	ratingEq(t, res.Ratings["risk"], nil, "risk")                  // non-numeric
}

func TestEditorial_HeadlinesOnlyForHeadlinePersona(t *testing.T) {
	content := `{"headline_suggestions": ["A", "B"], "ratings": {"clarity": 7, "accuracy": 7, "engagement": 7, "novelty": 7, "risk": 7}}`

	res := Editorial(content, "m", false)
	if len(res.HeadlineSuggestions) != 0 {
		t.Errorf("expected headlines stripped, got %v", res.HeadlineSuggestions)
	}

	res = Editorial(content, "m", true)
	if len(res.HeadlineSuggestions) != 2 {
		t.Errorf("expected headlines kept, got %v", res.HeadlineSuggestions)
	}
}

func TestEditorial_SuggestionCoercion(t *testing.T) {
	content := `{"suggestions": [
		{"text": "tighten lede", "impact": "HIGH", "supported_by": [1, "2", -3, 2.5, "x"]},
		"bare string suggestion"
	]}`
	res := Editorial(content, "m", false)

	if len(res.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(res.Suggestions))
	}
	s := res.Suggestions[0]
	if s.Impact != "high" {
		t.Errorf("expected lowered impact, got %q", s.Impact)
	}
	if s.Effort != "medium" {
		t.Errorf("expected default effort, got %q", s.Effort)
	}
	if len(s.SupportedBy) != 2 || s.SupportedBy[0] != 1 || s.SupportedBy[1] != 2 {
		t.Errorf("expected citations [1 2], got %v", s.SupportedBy)
	}
	if res.Suggestions[1].Text != "bare string suggestion" {
		t.Errorf("unexpected scalar coercion: %+v", res.Suggestions[1])
	}
}

func TestEditorial_RiskCoercion(t *testing.T) {
	content := `{"risks": [
		{"issue": "defamation exposure", "severity": "8.4", "mitigation": "soften wording"},
		{"text": "fallback issue field", "severity": "not a number"},
		"scalar risk"
	]}`
	res := Editorial(content, "m", false)

	if len(res.Risks) != 3 {
		t.Fatalf("expected 3 risks, got %d", len(res.Risks))
	}
	ratingEq(t, res.Risks[0].Severity, intp(8), "severity")
	if res.Risks[1].Issue != "fallback issue field" {
		t.Errorf("expected text fallback, got %q", res.Risks[1].Issue)
	}
	ratingEq(t, res.Risks[1].Severity, intp(5), "severity default")
	if res.Risks[2].Issue != "scalar risk" {
		t.Errorf("unexpected scalar risk: %+v", res.Risks[2])
	}
}

func TestAudience_Defaults(t *testing.T) {
	res := Audience(`{}`, "m")

	if res.Stance != "mixed" {
		t.Errorf("expected mixed stance, got %q", res.Stance)
	}
	ratingEq(t, res.Scores.Trust, intp(5), "trust")
	ratingEq(t, res.Scores.Relevance, intp(5), "relevance")
	ratingEq(t, res.Scores.ShareIntent, intp(5), "share_intent")
}

func TestAudience_Coercion(t *testing.T) {
	content := `{
		"persona_takeaway": "worried about costs",
		"stance": "oppose",
		"scores": {"trust": 3, "relevance": "bad", "share_intent": 11},
		"concerns": [
			{"issue": "rebate gap", "why": "too small", "supported_by": [2]},
			{"issue": "trust erosion", "severity": "severe"},
			{"issue": "noise shifts hours", "severity": 7}
		],
		"suggestions_to_journalist": ["interview crew owners"]
	}`
	res := Audience(content, "model-b")

	if res.Stance != "oppose" {
		t.Errorf("unexpected stance: %q", res.Stance)
	}
	ratingEq(t, res.Scores.Trust, intp(3), "trust")
	ratingEq(t, res.Scores.Relevance, nil, "relevance")
	ratingEq(t, res.Scores.ShareIntent, intp(10), "share_intent")
	if len(res.Concerns) != 3 || res.Concerns[0].Issue != "rebate gap" {
		t.Fatalf("unexpected concerns: %+v", res.Concerns)
	}
	ratingEq(t, res.Concerns[0].Severity, intp(5), "absent concern severity")
	ratingEq(t, res.Concerns[1].Severity, nil, "unusable concern severity")
	ratingEq(t, res.Concerns[2].Severity, intp(7), "numeric concern severity")
	if len(res.SuggestionsToJournalist) != 1 || res.SuggestionsToJournalist[0].Text != "interview crew owners" {
		t.Errorf("unexpected suggestions: %+v", res.SuggestionsToJournalist)
	}
	if res.Model != "model-b" {
		t.Errorf("unexpected model: %q", res.Model)
	}
}

func TestPlaceholders(t *testing.T) {
	ed := PlaceholderEditorial()
	if ed.Model != "unavailable" {
		t.Errorf("unexpected model marker: %q", ed.Model)
	}
	for _, key := range RatingCategories {
		ratingEq(t, ed.Ratings[key], intp(5), key)
	}

	aud := PlaceholderAudience()
	if aud.Model != "unavailable" || aud.Stance != "mixed" {
		t.Errorf("unexpected placeholder: %+v", aud)
	}
	ratingEq(t, aud.Scores.Trust, intp(5), "trust")
}

func TestExtractPersonas_Ladder(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "object with personas key",
			content: `{"personas": [{"name": "Parent"}, {"name": "Owner"}]}`,
			want:    []string{"Parent", "Owner"},
		},
		{
			name:    "bare array",
			content: `[{"name": "Parent"}]`,
			want:    []string{"Parent"},
		},
		{
			name:    "prose wrapped object",
			content: "Here you go: {\"personas\": [{\"name\": \"Parent\"}]} done.",
			want:    []string{"Parent"},
		},
		{
			name:    "regex rescue of truncated object",
			content: `{"personas": [{"name": "Parent"}], broken trailing`,
			want:    []string{"Parent"},
		},
		{
			name:    "bracket slice",
			content: `personas follow [{"name": "Parent"}] end`,
			want:    []string{"Parent"},
		},
		{
			name:    "garbage",
			content: "no structure here",
			want:    nil,
		},
		{
			name:    "non-object entries skipped",
			content: `{"personas": ["just a string", {"name": "Kept"}]}`,
			want:    []string{"Kept"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractPersonas(tc.content)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d personas, got %d: %+v", len(tc.want), len(got), got)
			}
			for i, w := range tc.want {
				if got[i].Name != w {
					t.Errorf("persona %d: expected %q, got %q", i, w, got[i].Name)
				}
			}
		})
	}
}

func TestExtractPersonas_FieldCoercion(t *testing.T) {
	content := `{"personas": [{
		"name": "  Nearby School Parent  ",
		"why_included": "lives next to the route",
		"scope": ["noise", "child health"],
		"avoid_overlap_with": "budget policy",
		"system_prompt": " AUDIENCE ROLE: parent. "
	}]}`
	got := ExtractPersonas(content)

	if len(got) != 1 {
		t.Fatalf("expected 1 persona, got %d", len(got))
	}
	p := got[0]
	if p.Name != "Nearby School Parent" {
		t.Errorf("expected trimmed name, got %q", p.Name)
	}
	if len(p.Scope) != 2 {
		t.Errorf("unexpected scope: %v", p.Scope)
	}
	if len(p.AvoidOverlapWith) != 1 || p.AvoidOverlapWith[0] != "budget policy" {
		t.Errorf("expected scalar wrapped, got %v", p.AvoidOverlapWith)
	}
	if p.SystemPrompt != "AUDIENCE ROLE: parent." {
		t.Errorf("expected trimmed prompt, got %q", p.SystemPrompt)
	}
}
