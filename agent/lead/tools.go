package lead

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	catalogx "github.com/naruebet/voiceline/agent/catalog"
	contractx "github.com/naruebet/voiceline/agent/contract"
	toolx "github.com/naruebet/voiceline/agent/tool"
	logx "github.com/naruebet/voiceline/pkg/logger"
	qstashx "github.com/naruebet/voiceline/pkg/qstash"
)

const (
	ToolUpdateLeadInfo = "update_lead_info"
	ToolSearchFAQ      = "search_faq"
	ToolGetPricingInfo = "get_pricing_info"
	ToolEndCallSummary = "end_call_summary"
	leadsCollection    = "leads"
)

// FinalizedLead is the snapshot appended to the leads collection once the
// completion gate passes.
type FinalizedLead struct {
	LeadID              string     `json:"lead_id"`
	Timestamp           time.Time  `json:"timestamp"`
	LeadInfo            LeadRecord `json:"lead_info"`
	ConversationHistory []string   `json:"conversation_history"`
	Completeness        string     `json:"completeness"`
}

func ToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolUpdateLeadInfo,
			Desc: "Record qualification details the prospect shared. Only pass fields you actually learned.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name":      {Type: schema.String, Desc: "Prospect's name"},
				"company":   {Type: schema.String, Desc: "Company they work for"},
				"email":     {Type: schema.String, Desc: "Work email address"},
				"role":      {Type: schema.String, Desc: "Their role or title"},
				"use_case":  {Type: schema.String, Desc: "What they want to use the product for"},
				"team_size": {Type: schema.String, Desc: "Size of their team"},
				"timeline":  {Type: schema.String, Desc: "When they want to get started"},
			}),
		},
		{
			Name: ToolSearchFAQ,
			Desc: "Look up an answer in the company FAQ.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"question": {Type: schema.String, Desc: "The prospect's question", Required: true},
			}),
		},
		{
			Name:        ToolGetPricingInfo,
			Desc:        "Summarize the pricing plans.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name:        ToolEndCallSummary,
			Desc:        "Wrap up the call. Only succeeds once every qualification field is collected.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
	}
}

// NewExecutor binds the SDR tools to one lead session. The qstash client
// is optional; when set, finalized leads are also published to the
// follow-up destination.
func NewExecutor(
	sess *LeadSession,
	company *catalogx.CompanyData,
	sink contractx.Sink,
	notifier *qstashx.Client,
	notifyDest string,
	now func() time.Time,
) toolx.Executor {
	if now == nil {
		now = time.Now
	}
	log := *logx.For("sdr")
	fallback := toolx.DefaultExecutor(contractx.AgentTypeSDR)

	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		switch tool {
		case ToolUpdateLeadInfo:
			return updateLeadInfo(sess, tool, args, log)
		case ToolSearchFAQ:
			return searchFAQ(sess, company, tool, args)
		case ToolGetPricingInfo:
			sess.Note("asked about pricing")
			return pricingInfo(company, tool), nil
		case ToolEndCallSummary:
			return endCallSummary(ctx, sess, sink, notifier, notifyDest, tool, now, log)
		default:
			return fallback(ctx, tool, args)
		}
	}
}

func updateLeadInfo(sess *LeadSession, tool string, args map[string]any, log zerolog.Logger) (contractx.ToolResult, error) {
	var update Update
	fields := map[string]**string{
		"name":      &update.Name,
		"company":   &update.Company,
		"email":     &update.Email,
		"role":      &update.Role,
		"use_case":  &update.UseCase,
		"team_size": &update.TeamSize,
		"timeline":  &update.Timeline,
	}
	var captured []string
	for key, dst := range fields {
		val, err := toolx.OptStringArg(args, key)
		if err != nil {
			return contractx.ToolResult{Tool: tool, Error: err.Error()}, nil
		}
		*dst = val
		if val != nil && strings.TrimSpace(*val) != "" {
			captured = append(captured, key)
		}
	}

	alreadyFinalized := sess.Stage == StageFinalized
	sess.Apply(update)
	if len(captured) > 0 {
		sort.Strings(captured)
		sess.Note("captured " + strings.Join(captured, ", "))
	}
	log.Info().Int("fields_set", sess.Lead.SetCount()).Str("stage", string(sess.Stage)).Msg("lead updated")

	if alreadyFinalized {
		return say(tool, "Noted, I've corrected that on the lead. The summary was already submitted, so a human will follow up with the updated details."), nil
	}

	missing := sess.Lead.Missing()
	if len(missing) == 0 {
		return say(tool, "That's everything I need. Whenever you're ready we can wrap up."), nil
	}
	return say(tool, fmt.Sprintf("Got it. I still need: %s.", strings.Join(missing, ", "))), nil
}

func searchFAQ(sess *LeadSession, company *catalogx.CompanyData, tool string, args map[string]any) (contractx.ToolResult, error) {
	question, err := toolx.StringArg(args, "question")
	if err != nil {
		return contractx.ToolResult{Tool: tool, Error: err.Error()}, nil
	}

	entry, ok := company.SearchFAQ(question)
	if !ok {
		sess.Note("asked (unanswered): " + question)
		return say(tool, "I don't have that in my notes, but I can have someone from the team follow up with a precise answer."), nil
	}
	sess.Note("asked: " + question)
	return say(tool, entry.Answer), nil
}

func pricingInfo(company *catalogx.CompanyData, tool string) contractx.ToolResult {
	if len(company.Pricing) == 0 {
		return say(tool, "Pricing depends on team size; I can have the team send over a quote.")
	}

	plans := make([]string, 0, len(company.Pricing))
	for name := range company.Pricing {
		plans = append(plans, name)
	}
	sort.Strings(plans)

	parts := make([]string, 0, len(plans))
	for _, name := range plans {
		parts = append(parts, fmt.Sprintf("%s: %v", name, company.Pricing[name]))
	}
	return say(tool, "Here's how pricing breaks down. "+strings.Join(parts, ". ")+".")
}

func endCallSummary(
	ctx context.Context,
	sess *LeadSession,
	sink contractx.Sink,
	notifier *qstashx.Client,
	notifyDest string,
	tool string,
	now func() time.Time,
	log zerolog.Logger,
) (contractx.ToolResult, error) {
	if missing := sess.Lead.Missing(); len(missing) > 0 {
		return say(tool, fmt.Sprintf("Before we wrap up I still need: %s.", strings.Join(missing, ", "))), nil
	}

	if sess.Stage == StageFinalized {
		return say(tool, recap(sess.Lead)+" The summary was already submitted."), nil
	}

	ts := now()
	record := FinalizedLead{
		LeadID:              "LEAD_" + ts.Format("20060102_150405"),
		Timestamp:           ts,
		LeadInfo:            sess.Lead,
		ConversationHistory: append([]string(nil), sess.History...),
		Completeness:        fmt.Sprintf("%d/%d", sess.Lead.SetCount(), len(fieldOrder)),
	}

	if err := sink.Append(ctx, leadsCollection, record); err != nil {
		log.Error().Err(err).Str("lead_id", record.LeadID).Msg("lead save failed")
		return say(tool, "I hit a snag saving your details, give me one second and we'll wrap up."), nil
	}

	sess.Stage = StageFinalized
	log.Info().Str("lead_id", record.LeadID).Msg("lead finalized")

	if notifier != nil && strings.TrimSpace(notifyDest) != "" {
		// Handoff is best effort; the caller never hears about a failure.
		if err := notifier.PublishJSON(ctx, notifyDest, record); err != nil {
			log.Warn().Err(err).Str("lead_id", record.LeadID).Msg("lead handoff publish failed")
		}
	}

	return say(tool, recap(sess.Lead)), nil
}

func recap(r LeadRecord) string {
	return fmt.Sprintf(
		"Thanks %s! To recap: you're %s at %s, looking at %s for a team of %s, starting %s. I'll send a follow-up to %s.",
		r.Name, r.Role, r.Company, r.UseCase, r.TeamSize, r.Timeline, r.Email,
	)
}

func say(tool, msg string) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Result: msg}
}
