package story

import (
	"context"
	"strings"
	"testing"
	"time"

	contractx "github.com/naruebet/voiceline/agent/contract"
)

type stubSink struct {
	writes  []string
	records []any
	err     error
}

func (s *stubSink) Write(_ context.Context, collection, id string, record any) error {
	if s.err != nil {
		return s.err
	}
	s.writes = append(s.writes, collection+"/"+id)
	s.records = append(s.records, record)
	return nil
}

func (s *stubSink) Append(context.Context, string, any) error { return s.err }

func fixedClock() time.Time { return testNow }

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

func TestToolInfosDetectiveOnlyTools(t *testing.T) {
	t.Parallel()

	base := ToolInfos(false)
	detective := ToolInfos(true)

	if len(detective) != len(base)+3 {
		t.Fatalf("detective tools = %d, base = %d, want +3", len(detective), len(base))
	}
	for _, info := range base {
		switch info.Name {
		case ToolRecordClue, ToolAddSuspect, ToolReviewCaseNotes:
			t.Fatalf("case tool %s exposed outside the detective universe", info.Name)
		}
	}
}

func TestSetPlayerName(t *testing.T) {
	t.Parallel()

	sess := NewGameSession("fantasy", "dramatic")
	exec := NewExecutor(sess, &stubSink{}, fixedClock)

	res, err := exec(context.Background(), ToolSetPlayerName, map[string]any{"name": "Kara"})
	if err != nil {
		t.Fatalf("set_player_name error = %v", err)
	}
	if got := resultString(t, res); got != "Playing as Kara." {
		t.Fatalf("set_player_name result = %q", got)
	}
	if sess.PlayerName != "Kara" {
		t.Fatalf("PlayerName = %q, want Kara", sess.PlayerName)
	}
}

func TestRecordEventPacing(t *testing.T) {
	t.Parallel()

	sess := NewGameSession("fantasy", "dramatic")
	exec := NewExecutor(sess, &stubSink{}, fixedClock)
	ctx := context.Background()

	record := func() string {
		t.Helper()
		res, err := exec(ctx, ToolRecordEvent, map[string]any{
			"event_type":  "discovery",
			"description": "something stirs",
		})
		if err != nil {
			t.Fatalf("record_event error = %v", err)
		}
		return resultString(t, res)
	}

	// Turns 1-2: no pacing guidance.
	for turn := 1; turn <= 2; turn++ {
		if got := record(); strings.Contains(got, "ESCALATE") {
			t.Fatalf("turn %d result = %q, want no pacing yet", turn, got)
		}
	}

	// Turns 3-4: escalate.
	for turn := 3; turn <= 4; turn++ {
		if got := record(); !strings.Contains(got, "ESCALATE - Present the main challenge soon.") {
			t.Fatalf("turn %d result = %q", turn, got)
		}
	}

	// Turns 5-6: climax.
	for turn := 5; turn <= 6; turn++ {
		if got := record(); !strings.Contains(got, "CLIMAX - Build to the final confrontation or revelation NOW.") {
			t.Fatalf("turn %d result = %q", turn, got)
		}
	}

	// Turn 7 on: wrap up.
	if got := record(); !strings.Contains(got, "WRAP UP NOW - End the story in the next response with a satisfying conclusion.") {
		t.Fatalf("turn 7 result = %q", got)
	}
	if sess.TurnCount != 7 {
		t.Fatalf("TurnCount = %d, want 7", sess.TurnCount)
	}
}

func TestUpdateInventoryTool(t *testing.T) {
	t.Parallel()

	sess := NewGameSession("fantasy", "dramatic")
	exec := NewExecutor(sess, &stubSink{}, fixedClock)
	ctx := context.Background()

	res, _ := exec(ctx, ToolUpdateInventory, map[string]any{"item": "torch"})
	if got := resultString(t, res); got != "Added torch to inventory" {
		t.Fatalf("default-action result = %q", got)
	}

	res, _ = exec(ctx, ToolUpdateInventory, map[string]any{"item": "torch", "action": "remove"})
	if got := resultString(t, res); got != "Removed torch from inventory" {
		t.Fatalf("remove result = %q", got)
	}

	res, _ = exec(ctx, ToolUpdateInventory, map[string]any{"item": "torch", "action": "remove"})
	if got := resultString(t, res); got != "Player doesn't have torch" {
		t.Fatalf("missing-item result = %q", got)
	}

	res, _ = exec(ctx, ToolUpdateInventory, map[string]any{"item": "torch", "action": "juggle"})
	if got := resultString(t, res); got != "Invalid action" {
		t.Fatalf("invalid-action result = %q", got)
	}

	// Inventory tools never touch the turn counter.
	if sess.TurnCount != 0 {
		t.Fatalf("TurnCount = %d, want 0", sess.TurnCount)
	}
}

func TestCaseToolsGatedByUniverse(t *testing.T) {
	t.Parallel()

	sess := NewGameSession("fantasy", "dramatic")
	exec := NewExecutor(sess, &stubSink{}, fixedClock)
	ctx := context.Background()

	for _, tool := range []string{ToolRecordClue, ToolAddSuspect, ToolReviewCaseNotes} {
		res, err := exec(ctx, tool, map[string]any{})
		if err != nil {
			t.Fatalf("%s error = %v", tool, err)
		}
		if !strings.Contains(res.Error, "unavailable") {
			t.Fatalf("%s in fantasy error = %q, want unavailable", tool, res.Error)
		}
	}
}

func TestDetectiveCaseFlow(t *testing.T) {
	t.Parallel()

	sess := NewGameSession("detective", "dramatic")
	exec := NewExecutor(sess, &stubSink{}, fixedClock)
	ctx := context.Background()

	res, _ := exec(ctx, ToolRecordClue, map[string]any{"clue": "a torn glove", "location": "the study"})
	if got := resultString(t, res); got != "Clue recorded: a torn glove" {
		t.Fatalf("record_clue result = %q", got)
	}

	// Motive and alibi default to Unknown when the policy omits them.
	res, _ = exec(ctx, ToolAddSuspect, map[string]any{"name": "Colonel Hart", "description": "a retired officer"})
	if got := resultString(t, res); got != "Added Colonel Hart to suspect list" {
		t.Fatalf("add_suspect result = %q", got)
	}
	if sess.Suspects[0].Motive != "Unknown" || sess.Suspects[0].Alibi != "Unknown" {
		t.Fatalf("suspect defaults = %q/%q, want Unknown/Unknown", sess.Suspects[0].Motive, sess.Suspects[0].Alibi)
	}

	res, _ = exec(ctx, ToolReviewCaseNotes, map[string]any{})
	got := resultString(t, res)
	if !strings.Contains(got, "a torn glove") || !strings.Contains(got, "Colonel Hart") {
		t.Fatalf("review_case_notes result = %q", got)
	}
}

func TestAddCompanionTool(t *testing.T) {
	t.Parallel()

	sess := NewGameSession("fantasy", "dramatic")
	exec := NewExecutor(sess, &stubSink{}, fixedClock)

	res, err := exec(context.Background(), ToolAddCompanion, map[string]any{"npc_name": "Watson", "description": "loyal friend"})
	if err != nil {
		t.Fatalf("add_companion error = %v", err)
	}
	if got := resultString(t, res); got != "Watson has joined as a companion" {
		t.Fatalf("add_companion result = %q", got)
	}
	if len(sess.Companions) != 1 {
		t.Fatalf("Companions = %v", sess.Companions)
	}
}

func TestSaveSessionTool(t *testing.T) {
	t.Parallel()

	sess := NewGameSession("fantasy", "dramatic")
	sink := &stubSink{}
	exec := NewExecutor(sess, sink, fixedClock)
	ctx := context.Background()

	if _, err := exec(ctx, ToolRecordEvent, map[string]any{"event_type": "combat", "description": "bar brawl"}); err != nil {
		t.Fatalf("record_event error = %v", err)
	}
	if _, err := exec(ctx, ToolUpdateInventory, map[string]any{"item": "torch"}); err != nil {
		t.Fatalf("update_inventory error = %v", err)
	}
	if _, err := exec(ctx, ToolAddCompanion, map[string]any{"npc_name": "Watson", "description": "loyal friend"}); err != nil {
		t.Fatalf("add_companion error = %v", err)
	}

	res, err := exec(ctx, ToolSaveSession, map[string]any{"session_title": "The Dragon's Lair"})
	if err != nil {
		t.Fatalf("save_session error = %v", err)
	}
	got := resultString(t, res)
	want := "Session 'The Dragon's Lair' saved! You played for 1 turns and collected 1 items with 1 companion(s)"
	if got != want {
		t.Fatalf("save_session result = %q, want %q", got, want)
	}

	if len(sink.writes) != 1 || sink.writes[0] != "game_sessions/SESSION_20240315_103000" {
		t.Fatalf("sink writes = %v", sink.writes)
	}
	save, ok := sink.records[0].(SessionSave)
	if !ok {
		t.Fatalf("persisted record is %T, want SessionSave", sink.records[0])
	}
	if save.Title != "The Dragon's Lair" || save.TotalTurns != 1 {
		t.Fatalf("save = %+v", save)
	}
}

func TestSaveSessionSinkFailure(t *testing.T) {
	t.Parallel()

	sess := NewGameSession("fantasy", "dramatic")
	exec := NewExecutor(sess, &stubSink{err: context.DeadlineExceeded}, fixedClock)

	res, err := exec(context.Background(), ToolSaveSession, map[string]any{"session_title": "Doomed"})
	if err != nil {
		t.Fatalf("save_session error = %v", err)
	}
	if got := resultString(t, res); !strings.Contains(got, "try saving again") {
		t.Fatalf("sink-failure result = %q", got)
	}
}
