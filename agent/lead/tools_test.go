package lead

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	catalogx "github.com/naruebet/voiceline/agent/catalog"
	contractx "github.com/naruebet/voiceline/agent/contract"
)

type stubSink struct {
	appends []any
	err     error
}

func (s *stubSink) Write(context.Context, string, string, any) error { return s.err }

func (s *stubSink) Append(_ context.Context, _ string, record any) error {
	if s.err != nil {
		return s.err
	}
	s.appends = append(s.appends, record)
	return nil
}

func testCompany() *catalogx.CompanyData {
	return &catalogx.CompanyData{
		CompanyName: "Acme Signals",
		FAQ: []catalogx.FAQEntry{
			{Question: "How does pricing work?", Answer: "Per seat, monthly."},
			{Question: "Do you integrate with Salesforce?", Answer: "Yes, natively."},
		},
		Pricing: map[string]any{
			"starter": "$29/seat/month",
			"growth":  "$49/seat/month",
		},
	}
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
}

func resultString(t *testing.T, res contractx.ToolResult) string {
	t.Helper()
	if res.Error != "" {
		t.Fatalf("tool %s returned error %q", res.Tool, res.Error)
	}
	s, ok := res.Result.(string)
	if !ok {
		t.Fatalf("tool %s result is %T, want string", res.Tool, res.Result)
	}
	return s
}

func TestUpdateLeadInfoReportsMissing(t *testing.T) {
	t.Parallel()

	sess := NewLeadSession()
	exec := NewExecutor(sess, testCompany(), &stubSink{}, nil, "", fixedClock)

	res, err := exec(context.Background(), ToolUpdateLeadInfo, map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("update_lead_info error = %v", err)
	}
	got := resultString(t, res)
	if !strings.Contains(got, "I still need: company, email, role, use_case, team_size, timeline.") {
		t.Fatalf("update_lead_info result = %q", got)
	}
	if sess.Lead.Name != "Ada" {
		t.Fatalf("Lead.Name = %q, want Ada", sess.Lead.Name)
	}
}

func TestUpdateLeadInfoCompletePhrasing(t *testing.T) {
	t.Parallel()

	sess := NewLeadSession()
	exec := NewExecutor(sess, testCompany(), &stubSink{}, nil, "", fixedClock)

	res, err := exec(context.Background(), ToolUpdateLeadInfo, fullArgs())
	if err != nil {
		t.Fatalf("update_lead_info error = %v", err)
	}
	if got := resultString(t, res); !strings.Contains(got, "That's everything I need") {
		t.Fatalf("update_lead_info result = %q", got)
	}
	if sess.Stage != StageComplete {
		t.Fatalf("Stage = %q, want complete", sess.Stage)
	}
}

func TestEndCallSummaryGate(t *testing.T) {
	t.Parallel()

	sess := NewLeadSession()
	sink := &stubSink{}
	exec := NewExecutor(sess, testCompany(), sink, nil, "", fixedClock)
	ctx := context.Background()

	if _, err := exec(ctx, ToolUpdateLeadInfo, map[string]any{"name": "Ada"}); err != nil {
		t.Fatalf("update_lead_info error = %v", err)
	}

	// Incomplete record: the gate blocks and nothing persists.
	res, err := exec(ctx, ToolEndCallSummary, map[string]any{})
	if err != nil {
		t.Fatalf("end_call_summary error = %v", err)
	}
	got := resultString(t, res)
	if !strings.Contains(got, "Before we wrap up I still need:") {
		t.Fatalf("gated result = %q", got)
	}
	if len(sink.appends) != 0 {
		t.Fatal("gated end_call_summary must not persist")
	}
	if sess.Stage != StageCollecting {
		t.Fatalf("Stage = %q, want collecting", sess.Stage)
	}
}

func TestEndCallSummaryFinalizesOnce(t *testing.T) {
	t.Parallel()

	sess := NewLeadSession()
	sess.Note("asked about integrations")
	sink := &stubSink{}
	exec := NewExecutor(sess, testCompany(), sink, nil, "", fixedClock)
	ctx := context.Background()

	if _, err := exec(ctx, ToolUpdateLeadInfo, fullArgs()); err != nil {
		t.Fatalf("update_lead_info error = %v", err)
	}

	res, err := exec(ctx, ToolEndCallSummary, map[string]any{})
	if err != nil {
		t.Fatalf("end_call_summary error = %v", err)
	}
	got := resultString(t, res)
	if !strings.Contains(got, "Thanks Ada!") || !strings.Contains(got, "ada@acme.com") {
		t.Fatalf("recap = %q", got)
	}
	if sess.Stage != StageFinalized {
		t.Fatalf("Stage = %q, want finalized", sess.Stage)
	}

	if len(sink.appends) != 1 {
		t.Fatalf("sink appends = %d, want 1", len(sink.appends))
	}
	record, ok := sink.appends[0].(FinalizedLead)
	if !ok {
		t.Fatalf("persisted record is %T, want FinalizedLead", sink.appends[0])
	}
	if record.LeadID != "LEAD_20240315_103000" {
		t.Fatalf("LeadID = %q", record.LeadID)
	}
	if record.Completeness != "7/7" {
		t.Fatalf("Completeness = %q, want 7/7", record.Completeness)
	}
	if len(record.ConversationHistory) != 2 {
		t.Fatalf("ConversationHistory = %v, want the note plus the capture entry", record.ConversationHistory)
	}
	if record.ConversationHistory[0] != "asked about integrations" {
		t.Fatalf("ConversationHistory[0] = %q", record.ConversationHistory[0])
	}

	// Second wrap-up recaps but never re-persists.
	res, err = exec(ctx, ToolEndCallSummary, map[string]any{})
	if err != nil {
		t.Fatalf("end_call_summary error = %v", err)
	}
	if got := resultString(t, res); !strings.Contains(got, "already submitted") {
		t.Fatalf("repeat result = %q", got)
	}
	if len(sink.appends) != 1 {
		t.Fatalf("sink appends after repeat = %d, want still 1", len(sink.appends))
	}
}

func TestEndCallSummarySinkFailure(t *testing.T) {
	t.Parallel()

	sess := NewLeadSession()
	sink := &stubSink{err: errors.New("disk full")}
	exec := NewExecutor(sess, testCompany(), sink, nil, "", fixedClock)
	ctx := context.Background()

	if _, err := exec(ctx, ToolUpdateLeadInfo, fullArgs()); err != nil {
		t.Fatalf("update_lead_info error = %v", err)
	}

	res, err := exec(ctx, ToolEndCallSummary, map[string]any{})
	if err != nil {
		t.Fatalf("end_call_summary error = %v", err)
	}
	if got := resultString(t, res); !strings.Contains(got, "snag saving") {
		t.Fatalf("sink-failure result = %q", got)
	}
	if sess.Stage == StageFinalized {
		t.Fatal("failed save must not finalize the stage")
	}
}

func TestUpdateAfterFinalize(t *testing.T) {
	t.Parallel()

	sess := NewLeadSession()
	sink := &stubSink{}
	exec := NewExecutor(sess, testCompany(), sink, nil, "", fixedClock)
	ctx := context.Background()

	if _, err := exec(ctx, ToolUpdateLeadInfo, fullArgs()); err != nil {
		t.Fatalf("update_lead_info error = %v", err)
	}
	if _, err := exec(ctx, ToolEndCallSummary, map[string]any{}); err != nil {
		t.Fatalf("end_call_summary error = %v", err)
	}

	res, err := exec(ctx, ToolUpdateLeadInfo, map[string]any{"email": "ada@newco.com"})
	if err != nil {
		t.Fatalf("update_lead_info error = %v", err)
	}
	if got := resultString(t, res); !strings.Contains(got, "already submitted") {
		t.Fatalf("post-finalize result = %q", got)
	}
	if sess.Lead.Email != "ada@newco.com" {
		t.Fatalf("Email = %q, want corrected value", sess.Lead.Email)
	}
	if len(sink.appends) != 1 {
		t.Fatal("post-finalize correction must not re-persist")
	}
}

func TestConversationHistoryCapturedFromTools(t *testing.T) {
	t.Parallel()

	sess := NewLeadSession()
	sink := &stubSink{}
	exec := NewExecutor(sess, testCompany(), sink, nil, "", fixedClock)
	ctx := context.Background()

	if _, err := exec(ctx, ToolSearchFAQ, map[string]any{"question": "how does pricing work?"}); err != nil {
		t.Fatalf("search_faq error = %v", err)
	}
	if _, err := exec(ctx, ToolGetPricingInfo, map[string]any{}); err != nil {
		t.Fatalf("get_pricing_info error = %v", err)
	}
	if _, err := exec(ctx, ToolUpdateLeadInfo, map[string]any{"name": "Ada", "company": "Acme"}); err != nil {
		t.Fatalf("update_lead_info error = %v", err)
	}
	if _, err := exec(ctx, ToolUpdateLeadInfo, fullArgs()); err != nil {
		t.Fatalf("update_lead_info error = %v", err)
	}

	want := []string{
		"asked: how does pricing work?",
		"asked about pricing",
		"captured company, name",
		"captured company, email, name, role, team_size, timeline, use_case",
	}
	if len(sess.History) != len(want) {
		t.Fatalf("History = %v, want %d entries", sess.History, len(want))
	}
	for i, entry := range want {
		if sess.History[i] != entry {
			t.Fatalf("History[%d] = %q, want %q", i, sess.History[i], entry)
		}
	}

	if _, err := exec(ctx, ToolEndCallSummary, map[string]any{}); err != nil {
		t.Fatalf("end_call_summary error = %v", err)
	}
	record, ok := sink.appends[0].(FinalizedLead)
	if !ok {
		t.Fatalf("persisted record is %T, want FinalizedLead", sink.appends[0])
	}
	if len(record.ConversationHistory) != len(want) {
		t.Fatalf("ConversationHistory = %v", record.ConversationHistory)
	}
}

func TestSearchFAQTool(t *testing.T) {
	t.Parallel()

	exec := NewExecutor(NewLeadSession(), testCompany(), &stubSink{}, nil, "", fixedClock)
	ctx := context.Background()

	res, err := exec(ctx, ToolSearchFAQ, map[string]any{"question": "how does your pricing work?"})
	if err != nil {
		t.Fatalf("search_faq error = %v", err)
	}
	if got := resultString(t, res); got != "Per seat, monthly." {
		t.Fatalf("search_faq result = %q", got)
	}

	res, err = exec(ctx, ToolSearchFAQ, map[string]any{"question": "zebras?"})
	if err != nil {
		t.Fatalf("search_faq error = %v", err)
	}
	if got := resultString(t, res); !strings.Contains(got, "follow up") {
		t.Fatalf("search_faq miss result = %q", got)
	}
}

func TestGetPricingInfo(t *testing.T) {
	t.Parallel()

	exec := NewExecutor(NewLeadSession(), testCompany(), &stubSink{}, nil, "", fixedClock)

	res, err := exec(context.Background(), ToolGetPricingInfo, map[string]any{})
	if err != nil {
		t.Fatalf("get_pricing_info error = %v", err)
	}
	got := resultString(t, res)
	// Plans come out in sorted order regardless of map iteration.
	if !strings.Contains(got, "growth: $49/seat/month. starter: $29/seat/month") {
		t.Fatalf("get_pricing_info result = %q", got)
	}
}

func TestGetPricingInfoNoPlans(t *testing.T) {
	t.Parallel()

	company := testCompany()
	company.Pricing = nil
	exec := NewExecutor(NewLeadSession(), company, &stubSink{}, nil, "", fixedClock)

	res, err := exec(context.Background(), ToolGetPricingInfo, map[string]any{})
	if err != nil {
		t.Fatalf("get_pricing_info error = %v", err)
	}
	if got := resultString(t, res); !strings.Contains(got, "send over a quote") {
		t.Fatalf("get_pricing_info result = %q", got)
	}
}

func fullArgs() map[string]any {
	return map[string]any{
		"name":      "Ada",
		"company":   "Acme",
		"email":     "ada@acme.com",
		"role":      "VP Sales",
		"use_case":  "call coaching",
		"team_size": "40",
		"timeline":  "next quarter",
	}
}
