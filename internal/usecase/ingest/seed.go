package ingest

// SampleDraft is the demo article used by the sample_draft endpoint.
const SampleDraft = `City Council Eyes 2027 Gas Leaf Blower Phase-Out Amid Noise and Emissions Concerns

A proposed ordinance would phase out gas-powered leaf blowers by 2027, citing high-decibel noise and local air-quality impacts.
Small landscaping firms warn that battery equipment is costly and may not last full shifts. The city says pilot programs in
two districts cut complaints and reduced particulate spikes on high-use days. The plan includes rebates for low-income crews,
quiet hours near clinics and schools, and a review of exemptions for wildfire clean-up. Opponents say city modeling underestimates
replacement costs; supporters argue health gains and worker hearing protection justify the timeline.
`

// seedDocs is the synthetic corpus written by Seed. Small on purpose; each
// document lands in a single chunk at the default chunk size.
var seedDocs = map[string]string{
	"policy_brief.txt": `Leaf Blower Policy Brief (2024)
- WHO community noise guidelines: prolonged exposure above 55 dB contributes to annoyance and cardiovascular risks.
- Gas leaf blowers typically 70-90 dB at operator; bystanders experience 60-75 dB at 15-20m.
- Two pilot districts saw ~22% reduction in noise complaints and ~12% reduction in measured PM2.5 on landscaping days.
- Battery runtime varies (30-90 minutes per pack) depending on power setting and ambient temperature.
- Trade-in + rebate programs in six peer cities increased adoption among small firms.`,
	"economics_note.md": `Economics of Transition
- Upfront cost: battery backpack blowers and multiple packs; amortized costs depend on duty cycle and electricity prices.
- Some cities offer per-crew rebates ($400-$1,200) and utility off-peak charging discounts.
- Productivity gap narrows with improved battery CFM ratings and optimized charging logistics (swap stations).`,
	"health_research.txt": `Health and Air Quality
- Two-stroke engines emit unburned hydrocarbons and fine particulates; exposure correlates with respiratory irritation.
- Hearing protection standards recommend limiting exposure above 85 dB for workers.
- Hospital outpatient visits for asthma flare-ups tend to cluster on high landscaping activity days in some datasets (observational).`,
	"implementation_playbook.md": `Implementation Playbook
- Phased timeline: procurement training -> trade-in -> quiet-hours enforcement -> review exemptions.
- Outreach: multilingual guides for small firms, hands-on demos, shared charging hubs in depots.
- Metrics: complaint counts, spot dB readings, PM2.5 near parks/schools, adoption rates by firm size.`,
	"comparative_policies.txt": `Comparative Policies
- City A (2023): full ban within 3 years; funded $1.5M in rebates; noise complaints down 18%.
- City B (2022): seasonal restrictions + quiet hours; PM2.5 monitors showed modest improvement.
- City C (2024): exemption for wildfire clean-up periods; required signage for enforcement education.`,
}
