package domain

// EvaluatorSpec is a persona that judges a draft: either a fixed member of
// the editorial roster or a generated audience persona. Polymorphism lives
// entirely in the System prompt text, not in types.
type EvaluatorSpec struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WhyIncluded string `json:"why_included,omitempty"`
	System      string `json:"-"`
}

// EditorialResult is the normalized judgment of one editorial persona.
type EditorialResult struct {
	Summary             string          `json:"summary"`
	KeyPoints           []string        `json:"key_points"`
	Suggestions         []Suggestion    `json:"suggestions"`
	Risks               []Risk          `json:"risks"`
	Ratings             map[string]*int `json:"ratings"`
	HeadlineSuggestions []string        `json:"headline_suggestions"`
	Citations           []int           `json:"citations"`
	NextActions         []string        `json:"next_actions"`
	Model               string          `json:"_model"`
}

// Suggestion is one actionable editorial suggestion.
type Suggestion struct {
	Text           string `json:"text"`
	Rationale      string `json:"rationale"`
	SupportedBy    []int  `json:"supported_by"`
	Impact         string `json:"impact"`
	Effort         string `json:"effort"`
	QuoteFromDraft string `json:"quote_from_draft"`
}

// Risk is one identified editorial risk.
type Risk struct {
	Issue       string `json:"issue"`
	Rationale   string `json:"rationale"`
	SupportedBy []int  `json:"supported_by"`
	Severity    *int   `json:"severity"`
	Mitigation  string `json:"mitigation"`
}

// AudienceResult is the normalized judgment of one audience persona.
type AudienceResult struct {
	PersonaTakeaway         string               `json:"persona_takeaway"`
	Stance                  string               `json:"stance"`
	Positives               []string             `json:"positives"`
	Concerns                []Concern            `json:"concerns"`
	QuestionsForReporter    []string             `json:"questions_for_reporter"`
	Scores                  AudienceScores       `json:"scores"`
	LikelyComment           string               `json:"likely_comment"`
	SuggestionsToJournalist []AudienceSuggestion `json:"suggestions_to_journalist"`
	Citations               []int                `json:"citations"`
	Model                   string               `json:"_model"`
}

// Concern is one audience concern with severity.
type Concern struct {
	Issue       string `json:"issue"`
	Why         string `json:"why"`
	SupportedBy []int  `json:"supported_by"`
	Severity    *int   `json:"severity"`
}

// AudienceSuggestion is a lightweight suggestion from an audience persona.
type AudienceSuggestion struct {
	Text        string `json:"text"`
	Rationale   string `json:"rationale"`
	SupportedBy []int  `json:"supported_by"`
}

// AudienceScores holds the 1-10 audience scores; nil means the model did not
// return a usable number.
type AudienceScores struct {
	Trust       *int `json:"trust"`
	Relevance   *int `json:"relevance"`
	ShareIntent *int `json:"share_intent"`
}
