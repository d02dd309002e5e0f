package catalog

import (
	"encoding/json"
	"os"
	"strings"

	logx "github.com/naruebet/voiceline/pkg/logger"
)

type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CompanyData is the read-only reference record the SDR persona answers
// questions from.
type CompanyData struct {
	CompanyName    string         `json:"company_name"`
	Tagline        string         `json:"tagline"`
	Description    string         `json:"description"`
	TargetAudience string         `json:"target_audience"`
	FAQ            []FAQEntry     `json:"faq"`
	Pricing        map[string]any `json:"pricing,omitempty"`
}

// LoadCompanyData reads the company data file, falling back to a hardcoded
// sample when the file is absent or unreadable.
func LoadCompanyData(path string) *CompanyData {
	raw, err := os.ReadFile(path)
	if err != nil {
		logx.For("catalog").Warn().Err(err).Str("path", path).Msg("company data missing, using sample")
		return sampleCompanyData()
	}

	var data CompanyData
	if err := json.Unmarshal(raw, &data); err != nil {
		logx.For("catalog").Warn().Err(err).Str("path", path).Msg("company data malformed, using sample")
		return sampleCompanyData()
	}

	return &data
}

// SearchFAQ picks the FAQ entry whose question shares the most keywords
// with the query. Requires at least one overlapping word.
func (d *CompanyData) SearchFAQ(query string) (FAQEntry, bool) {
	words := queryWords(query)
	if len(words) == 0 {
		return FAQEntry{}, false
	}

	best := -1
	bestScore := 0
	for i, entry := range d.FAQ {
		score := 0
		question := strings.ToLower(entry.Question)
		for w := range words {
			if strings.Contains(question, w) {
				score++
			}
		}
		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	if best < 0 {
		return FAQEntry{}, false
	}
	return d.FAQ[best], true
}

func queryWords(query string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(query)) {
		w = strings.Trim(w, ".,!?")
		if len(w) > 2 {
			out[w] = struct{}{}
		}
	}
	return out
}

func sampleCompanyData() *CompanyData {
	return &CompanyData{
		CompanyName:    "Signalwave",
		Tagline:        "Conversation intelligence for revenue teams",
		Description:    "Signalwave records, transcribes, and scores sales calls so teams can coach reps with real evidence instead of gut feel.",
		TargetAudience: "B2B sales teams of 10-500 reps",
		FAQ: []FAQEntry{
			{
				Question: "How does pricing work?",
				Answer:   "Per-seat monthly pricing with a free 14-day trial. Volume discounts start at 25 seats.",
			},
			{
				Question: "Do you integrate with our CRM?",
				Answer:   "Yes, native integrations for Salesforce and HubSpot sync call summaries automatically.",
			},
			{
				Question: "Is call data secure?",
				Answer:   "All recordings are encrypted at rest and in transit, and data is never used to train shared models.",
			},
		},
		Pricing: map[string]any{
			"starter": "$29/seat/month",
			"growth":  "$49/seat/month",
			"custom":  "contact sales for 100+ seats",
		},
	}
}
