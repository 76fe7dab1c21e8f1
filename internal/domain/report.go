package domain

// TallyItem is one entry in a ranked consensus tally.
type TallyItem struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// EditorialReport is the consensus rollup across editorial personas.
// Derived, non-authoritative; recomputed from scratch on every aggregation.
type EditorialReport struct {
	ScoresAvg            map[string]*float64 `json:"scores_avg"`
	ConsensusSuggestions []TallyItem         `json:"consensus_suggestions"`
	ConsensusRisks       []TallyItem         `json:"consensus_risks"`
	ContextCitationsUsed []int               `json:"context_citations_used"`
}

// AudienceReport is the consensus rollup across audience personas.
type AudienceReport struct {
	AvgScores    map[string]*float64 `json:"avg_scores"`
	StanceCounts map[string]int      `json:"stance_counts"`
	TopConcerns  []TallyItem         `json:"top_concerns"`
	TopQuestions []TallyItem         `json:"top_questions"`
}
