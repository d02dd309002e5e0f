package lead

import "strings"

// Stage is the lead lifecycle: fields are collected, the record becomes
// complete, and a single finalize persists it.
type Stage string

const (
	StageCollecting Stage = "collecting"
	StageComplete   Stage = "complete"
	StageFinalized  Stage = "finalized"
)

// fieldOrder fixes the order missing fields are reported in.
var fieldOrder = []string{"name", "company", "email", "role", "use_case", "team_size", "timeline"}

// LeadRecord holds the qualification fields the SDR persona must collect
// before the call may end. Empty string means unset.
type LeadRecord struct {
	Name     string `json:"name"`
	Company  string `json:"company"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	UseCase  string `json:"use_case"`
	TeamSize string `json:"team_size"`
	Timeline string `json:"timeline"`
}

// Update carries the optional arguments of update_lead_info. A nil field
// was omitted from the call; a non-nil field overwrites. Fields are never
// unset: empty provided values are ignored.
type Update struct {
	Name     *string
	Company  *string
	Email    *string
	Role     *string
	UseCase  *string
	TeamSize *string
	Timeline *string
}

func (r *LeadRecord) fields() map[string]*string {
	return map[string]*string{
		"name":      &r.Name,
		"company":   &r.Company,
		"email":     &r.Email,
		"role":      &r.Role,
		"use_case":  &r.UseCase,
		"team_size": &r.TeamSize,
		"timeline":  &r.Timeline,
	}
}

// Missing lists unset fields in reporting order.
func (r *LeadRecord) Missing() []string {
	fields := r.fields()
	var missing []string
	for _, name := range fieldOrder {
		if strings.TrimSpace(*fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

func (r *LeadRecord) IsComplete() bool {
	return len(r.Missing()) == 0
}

// SetCount reports how many of the fields are populated.
func (r *LeadRecord) SetCount() int {
	return len(fieldOrder) - len(r.Missing())
}

// LeadSession is the per-conversation state for the SDR persona.
type LeadSession struct {
	Lead    LeadRecord `json:"lead"`
	Stage   Stage      `json:"stage"`
	History []string   `json:"history,omitempty"`
}

func NewLeadSession() *LeadSession {
	return &LeadSession{Stage: StageCollecting}
}

// Apply overwrites provided non-empty fields and advances the stage to
// complete once the last field fills in. Updates after finalize are still
// applied (late corrections) but the stage stays finalized; the record is
// not re-persisted.
func (s *LeadSession) Apply(u Update) {
	apply := func(dst *string, src *string) {
		if src == nil {
			return
		}
		if v := strings.TrimSpace(*src); v != "" {
			*dst = v
		}
	}

	apply(&s.Lead.Name, u.Name)
	apply(&s.Lead.Company, u.Company)
	apply(&s.Lead.Email, u.Email)
	apply(&s.Lead.Role, u.Role)
	apply(&s.Lead.UseCase, u.UseCase)
	apply(&s.Lead.TeamSize, u.TeamSize)
	apply(&s.Lead.Timeline, u.Timeline)

	if s.Stage == StageCollecting && s.Lead.IsComplete() {
		s.Stage = StageComplete
	}
}

// Note appends to the conversation history captured on the final record.
func (s *LeadSession) Note(entry string) {
	entry = strings.TrimSpace(entry)
	if entry != "" {
		s.History = append(s.History, entry)
	}
}
