package evaluate

import (
	"testing"

	"github.com/NeilARaman/Echo/internal/domain"
)

func intp(n int) *int { return &n }

func suggestion(text string, cites ...int) domain.Suggestion {
	return domain.Suggestion{Text: text, SupportedBy: cites}
}

func TestAggregateEditorial_Averages(t *testing.T) {
	results := map[string]domain.EditorialResult{
		"bot01": {Ratings: map[string]*int{"clarity": intp(8), "accuracy": intp(6)}},
		"bot02": {Ratings: map[string]*int{"clarity": intp(7), "accuracy": nil}},
	}
	report := AggregateEditorial(results)

	if got := report.ScoresAvg["clarity"]; got == nil || *got != 7.5 {
		t.Errorf("clarity avg: got %v, want 7.5", got)
	}
	if got := report.ScoresAvg["accuracy"]; got == nil || *got != 6 {
		t.Errorf("accuracy avg: got %v, want 6", got)
	}
	// No persona rated engagement, so the average is null rather than zero.
	if report.ScoresAvg["engagement"] != nil {
		t.Errorf("engagement avg: got %v, want nil", *report.ScoresAvg["engagement"])
	}
}

func TestAggregateEditorial_TallyOrdering(t *testing.T) {
	// A and B both appear three times; A is seen first and must stay first.
	results := map[string]domain.EditorialResult{
		"bot01": {Suggestions: []domain.Suggestion{suggestion("A"), suggestion("B"), suggestion("C")}},
		"bot02": {Suggestions: []domain.Suggestion{suggestion("a"), suggestion("b")}},
		"bot03": {Suggestions: []domain.Suggestion{suggestion(" A "), suggestion("B")}},
	}
	report := AggregateEditorial(results)

	want := []domain.TallyItem{
		{Item: "a", Count: 3},
		{Item: "b", Count: 3},
		{Item: "c", Count: 1},
	}
	if len(report.ConsensusSuggestions) != len(want) {
		t.Fatalf("expected %d items, got %+v", len(want), report.ConsensusSuggestions)
	}
	for i, w := range want {
		got := report.ConsensusSuggestions[i]
		if got != w {
			t.Errorf("tally[%d]: got %+v, want %+v", i, got, w)
		}
	}
}

func TestAggregateEditorial_TallyCap(t *testing.T) {
	var suggestions []domain.Suggestion
	for _, s := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		suggestions = append(suggestions, suggestion(s))
	}
	report := AggregateEditorial(map[string]domain.EditorialResult{
		"bot01": {Suggestions: suggestions},
	})

	if len(report.ConsensusSuggestions) != 10 {
		t.Errorf("expected tally capped at 10, got %d", len(report.ConsensusSuggestions))
	}
}

func TestAggregateEditorial_CitationUnion(t *testing.T) {
	results := map[string]domain.EditorialResult{
		"bot01": {
			Suggestions: []domain.Suggestion{suggestion("x", 3, 1)},
			Risks:       []domain.Risk{{Issue: "r", SupportedBy: []int{5}}},
			Citations:   []int{1, 2},
		},
		"bot02": {Citations: []int{2, 4}},
	}
	report := AggregateEditorial(results)

	want := []int{1, 2, 3, 4, 5}
	if len(report.ContextCitationsUsed) != len(want) {
		t.Fatalf("expected %v, got %v", want, report.ContextCitationsUsed)
	}
	for i, w := range want {
		if report.ContextCitationsUsed[i] != w {
			t.Errorf("citations: got %v, want %v", report.ContextCitationsUsed, want)
		}
	}
}

func TestAggregateAudience(t *testing.T) {
	results := map[string]domain.AudienceResult{
		"aud-a": {
			Stance:               "Support",
			Scores:               domain.AudienceScores{Trust: intp(8), Relevance: intp(6), ShareIntent: nil},
			Concerns:             []domain.Concern{{Issue: "Cost Burden"}},
			QuestionsForReporter: []string{"Who pays?"},
		},
		"aud-b": {
			Stance:               "oppose",
			Scores:               domain.AudienceScores{Trust: intp(4)},
			Concerns:             []domain.Concern{{Issue: "cost burden"}},
			QuestionsForReporter: []string{"who pays?", "What about exemptions?"},
		},
		"aud-c": {
			Stance: "enthusiastic", // unknown stances are not counted
		},
	}
	report := AggregateAudience(results)

	if got := report.AvgScores["trust"]; got == nil || *got != 6 {
		t.Errorf("trust avg: got %v, want 6", got)
	}
	if report.AvgScores["share_intent"] != nil {
		t.Errorf("share_intent avg: expected nil, got %v", *report.AvgScores["share_intent"])
	}
	if report.StanceCounts["support"] != 1 || report.StanceCounts["oppose"] != 1 || report.StanceCounts["mixed"] != 0 {
		t.Errorf("unexpected stance counts: %v", report.StanceCounts)
	}
	if len(report.TopConcerns) != 1 || report.TopConcerns[0].Count != 2 {
		t.Errorf("expected merged concern tally, got %+v", report.TopConcerns)
	}
	if len(report.TopQuestions) != 2 || report.TopQuestions[0].Item != "who pays?" {
		t.Errorf("unexpected questions tally: %+v", report.TopQuestions)
	}
}

func TestAggregate_Empty(t *testing.T) {
	ed := AggregateEditorial(nil)
	if len(ed.ConsensusSuggestions) != 0 || len(ed.ContextCitationsUsed) != 0 {
		t.Errorf("unexpected editorial report: %+v", ed)
	}
	for cat, v := range ed.ScoresAvg {
		if v != nil {
			t.Errorf("category %s: expected nil average", cat)
		}
	}

	aud := AggregateAudience(nil)
	if aud.StanceCounts["mixed"] != 0 || len(aud.TopConcerns) != 0 {
		t.Errorf("unexpected audience report: %+v", aud)
	}
}
