package persona

import "github.com/NeilARaman/Echo/internal/domain"

// fallbackPersonas is the static pool used when generation comes up short.
// Names here only fill gaps; collisions with generated names are skipped.
func fallbackPersonas() []domain.EvaluatorSpec {
	defaults := []struct {
		name   string
		system string
	}{
		{"Nearby School Parent", "AUDIENCE ROLE: Parent of students near schools. SCOPE: noise during school hours, learning impact, child health, quiet-hours enforcement. AVOID OVERLAP: business costs, taxation, citywide budget policy. DELIVER IN THE AUDIENCE SCHEMA ONLY."},
		{"Small Landscaping Owner", "AUDIENCE ROLE: Owner of a 6-8 person landscaping crew. SCOPE: equipment cost, runtime, productivity, rebates, depot charging. AVOID OVERLAP: school impacts, broad health epidemiology. DELIVER IN THE AUDIENCE SCHEMA ONLY."},
		{"Asthma-Impacted Household", "AUDIENCE ROLE: Household managing asthma. SCOPE: PM2.5, triggers, quiet zones near clinics, seasonal patterns, warning/signage. AVOID OVERLAP: business cashflow logistics. DELIVER IN THE AUDIENCE SCHEMA ONLY."},
		{"City Budget Watcher", "AUDIENCE ROLE: Taxpayer focused on efficient public spending. SCOPE: rebate design, fairness, evaluation metrics, cost verification, enforcement costs. AVOID OVERLAP: school learning impacts. DELIVER IN THE AUDIENCE SCHEMA ONLY."},
		{"Environmental Justice Resident", "AUDIENCE ROLE: Resident near busy corridors concerned with cumulative burdens. SCOPE: equity, hotspot neighborhoods, multilingual outreach, charger siting, exemption risks. AVOID OVERLAP: SEO/social media tactics. DELIVER IN THE AUDIENCE SCHEMA ONLY."},
	}

	out := make([]domain.EvaluatorSpec, 0, len(defaults))
	for _, d := range defaults {
		out = append(out, domain.EvaluatorSpec{
			ID:     "aud-" + Slugify(d.name),
			Name:   d.name,
			System: d.system,
		})
	}
	return out
}
