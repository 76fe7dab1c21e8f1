package evaluate

import (
	"math"
	"sort"
	"strings"

	"github.com/NeilARaman/Echo/internal/domain"
	"github.com/NeilARaman/Echo/internal/usecase/normalize"
)

const tallyCap = 10

// AggregateEditorial rolls up per-persona editorial results into consensus
// scores, ranked suggestion and risk tallies, and the union of citations.
func AggregateEditorial(results map[string]domain.EditorialResult) domain.EditorialReport {
	perCategory := make(map[string][]float64, len(normalize.RatingCategories))

	var suggestions, risks []string
	citations := make(map[int]struct{})

	for _, res := range sortedEditorial(results) {
		for _, cat := range normalize.RatingCategories {
			if v := res.Ratings[cat]; v != nil {
				perCategory[cat] = append(perCategory[cat], float64(*v))
			}
		}
		for _, s := range res.Suggestions {
			if t := strings.ToLower(strings.TrimSpace(s.Text)); t != "" {
				suggestions = append(suggestions, t)
			}
			for _, c := range s.SupportedBy {
				citations[c] = struct{}{}
			}
		}
		for _, r := range res.Risks {
			if t := strings.ToLower(strings.TrimSpace(r.Issue)); t != "" {
				risks = append(risks, t)
			}
			for _, c := range r.SupportedBy {
				citations[c] = struct{}{}
			}
		}
		for _, c := range res.Citations {
			citations[c] = struct{}{}
		}
	}

	avg := make(map[string]*float64, len(normalize.RatingCategories))
	for _, cat := range normalize.RatingCategories {
		avg[cat] = mean(perCategory[cat])
	}

	return domain.EditorialReport{
		ScoresAvg:            avg,
		ConsensusSuggestions: tally(suggestions),
		ConsensusRisks:       tally(risks),
		ContextCitationsUsed: sortedInts(citations),
	}
}

// AggregateAudience rolls up per-persona audience results into average
// scores, stance counts, and ranked concern and question tallies.
func AggregateAudience(results map[string]domain.AudienceResult) domain.AudienceReport {
	var trust, relevance, share []float64
	var concerns, questions []string
	stances := map[string]int{"support": 0, "oppose": 0, "mixed": 0}

	for _, res := range sortedAudience(results) {
		if res.Scores.Trust != nil {
			trust = append(trust, float64(*res.Scores.Trust))
		}
		if res.Scores.Relevance != nil {
			relevance = append(relevance, float64(*res.Scores.Relevance))
		}
		if res.Scores.ShareIntent != nil {
			share = append(share, float64(*res.Scores.ShareIntent))
		}
		for _, c := range res.Concerns {
			if t := strings.ToLower(strings.TrimSpace(c.Issue)); t != "" {
				concerns = append(concerns, t)
			}
		}
		for _, q := range res.QuestionsForReporter {
			if t := strings.ToLower(strings.TrimSpace(q)); t != "" {
				questions = append(questions, t)
			}
		}
		if st := strings.ToLower(res.Stance); st != "" {
			if _, known := stances[st]; known {
				stances[st]++
			}
		}
	}

	return domain.AudienceReport{
		AvgScores: map[string]*float64{
			"trust":        mean(trust),
			"relevance":    mean(relevance),
			"share_intent": mean(share),
		},
		StanceCounts: stances,
		TopConcerns:  tally(concerns),
		TopQuestions: tally(questions),
	}
}

// tally counts exact matches and ranks by descending count with first-seen
// order breaking ties, capped at the top 10.
func tally(items []string) []domain.TallyItem {
	counts := make(map[string]int, len(items))
	order := make([]string, 0, len(items))
	for _, it := range items {
		if _, seen := counts[it]; !seen {
			order = append(order, it)
		}
		counts[it]++
	}

	out := make([]domain.TallyItem, 0, len(order))
	for _, it := range order {
		out = append(out, domain.TallyItem{Item: it, Count: counts[it]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > tallyCap {
		out = out[:tallyCap]
	}
	return out
}

// mean averages to two decimal places; an empty sample is nil, not zero.
func mean(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	m := math.Round(sum/float64(len(vals))*100) / 100
	return &m
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// sortedEditorial iterates results in persona ID order so tally tie-breaks
// are deterministic across runs.
func sortedEditorial(results map[string]domain.EditorialResult) []domain.EditorialResult {
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]domain.EditorialResult, 0, len(ids))
	for _, id := range ids {
		out = append(out, results[id])
	}
	return out
}

func sortedAudience(results map[string]domain.AudienceResult) []domain.AudienceResult {
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]domain.AudienceResult, 0, len(ids))
	for _, id := range ids {
		out = append(out, results[id])
	}
	return out
}
