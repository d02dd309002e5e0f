package story

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	contractx "github.com/naruebet/voiceline/agent/contract"
	toolx "github.com/naruebet/voiceline/agent/tool"
	logx "github.com/naruebet/voiceline/pkg/logger"
)

const (
	ToolSetPlayerName   = "set_player_name"
	ToolRecordEvent     = "record_event"
	ToolUpdateInventory = "update_inventory"
	ToolAddCompanion    = "add_companion"
	ToolRecordClue      = "record_clue"
	ToolAddSuspect      = "add_suspect"
	ToolReviewCaseNotes = "review_case_notes"
	ToolSaveSession     = "save_session"

	sessionsCollection = "game_sessions"
)

func ToolInfos(detective bool) []*schema.ToolInfo {
	infos := []*schema.ToolInfo{
		{
			Name: ToolSetPlayerName,
			Desc: "Remember the player's character name once they introduce themselves.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name": {Type: schema.String, Desc: "The character's name", Required: true},
			}),
		},
		{
			Name: ToolRecordEvent,
			Desc: "Record a significant story event for continuity tracking.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"event_type":  {Type: schema.String, Desc: "combat, discovery, npc_interaction, location_change, or item_acquired", Required: true},
				"description": {Type: schema.String, Desc: "Brief description of what happened", Required: true},
				"location":    {Type: schema.String, Desc: "Where it happened"},
			}),
		},
		{
			Name: ToolUpdateInventory,
			Desc: "Track items the player acquires or loses.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"item":   {Type: schema.String, Desc: "Name of the item", Required: true},
				"action": {Type: schema.String, Desc: "add or remove (default add)"},
			}),
		},
		{
			Name: ToolAddCompanion,
			Desc: "Track an NPC who joins the player as a companion.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"npc_name":    {Type: schema.String, Desc: "Name of the companion", Required: true},
				"description": {Type: schema.String, Desc: "Role, personality, and so on", Required: true},
			}),
		},
		{
			Name: ToolSaveSession,
			Desc: "Save the current game session. Use at session end or major milestones.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"session_title": {Type: schema.String, Desc: "A title for this session, e.g. The Dragon's Lair", Required: true},
			}),
		},
	}

	if detective {
		infos = append(infos,
			&schema.ToolInfo{
				Name: ToolRecordClue,
				Desc: "Record a clue discovered during the investigation.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"clue":     {Type: schema.String, Desc: "Description of the clue found", Required: true},
					"location": {Type: schema.String, Desc: "Where the clue was found", Required: true},
				}),
			},
			&schema.ToolInfo{
				Name: ToolAddSuspect,
				Desc: "Track a person of interest in the case.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"name":        {Type: schema.String, Desc: "Suspect's name", Required: true},
					"description": {Type: schema.String, Desc: "Physical description and background", Required: true},
					"motive":      {Type: schema.String, Desc: "Their potential motive"},
					"alibi":       {Type: schema.String, Desc: "Their claimed whereabouts"},
				}),
			},
			&schema.ToolInfo{
				Name:        ToolReviewCaseNotes,
				Desc:        "Review all clues and suspects collected so far.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
			},
		)
	}

	return infos
}

// NewExecutor binds the game-master tools to one game session.
func NewExecutor(sess *GameSession, sink contractx.Sink, now func() time.Time) toolx.Executor {
	if now == nil {
		now = time.Now
	}
	log := *logx.For("gamemaster")
	fallback := toolx.DefaultExecutor(contractx.AgentTypeGameMaster)

	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		// Case tools only exist in the detective universe.
		switch tool {
		case ToolRecordClue, ToolAddSuspect, ToolReviewCaseNotes:
			if !sess.IsDetective() {
				return fallback(ctx, tool, args)
			}
		}

		switch tool {
		case ToolSetPlayerName:
			name, err := toolx.StringArg(args, "name")
			if err != nil {
				return fail(tool, err), nil
			}
			sess.PlayerName = name
			return say(tool, fmt.Sprintf("Playing as %s.", name)), nil

		case ToolRecordEvent:
			return recordEvent(sess, tool, args, now())

		case ToolUpdateInventory:
			return updateInventory(sess, tool, args)

		case ToolAddCompanion:
			npcName, err := toolx.StringArg(args, "npc_name")
			if err != nil {
				return fail(tool, err), nil
			}
			description, err := toolx.StringArg(args, "description")
			if err != nil {
				return fail(tool, err), nil
			}
			companion := sess.AddCompanion(npcName, description)
			log.Info().Str("companion", companion.Name).Msg("companion joined")
			return say(tool, fmt.Sprintf("%s has joined as a companion", companion.Name)), nil

		case ToolRecordClue:
			clue, err := toolx.StringArg(args, "clue")
			if err != nil {
				return fail(tool, err), nil
			}
			location, err := toolx.StringArg(args, "location")
			if err != nil {
				return fail(tool, err), nil
			}
			entry := sess.AddClue(clue, location, now())
			log.Info().Str("clue", entry.Clue).Msg("clue recorded")
			return say(tool, fmt.Sprintf("Clue recorded: %s", entry.Clue)), nil

		case ToolAddSuspect:
			return addSuspect(sess, tool, args, log)

		case ToolReviewCaseNotes:
			log.Info().Int("clues", len(sess.Clues)).Int("suspects", len(sess.Suspects)).Msg("case notes reviewed")
			return say(tool, sess.CaseNotes()), nil

		case ToolSaveSession:
			return saveSession(ctx, sess, sink, tool, args, now(), log)

		default:
			return fallback(ctx, tool, args)
		}
	}
}

func recordEvent(sess *GameSession, tool string, args map[string]any, now time.Time) (contractx.ToolResult, error) {
	eventType, err := toolx.StringArg(args, "event_type")
	if err != nil {
		return fail(tool, err), nil
	}
	description, err := toolx.StringArg(args, "description")
	if err != nil {
		return fail(tool, err), nil
	}
	location, err := toolx.OptStringArg(args, "location")
	if err != nil {
		return fail(tool, err), nil
	}

	event := sess.RecordEvent(eventType, description, location, now)
	logx.For("gamemaster").Info().Int("turn", event.Turn).Str("type", event.Type).Msg("story event recorded")

	// Pacing guidance for the dialogue policy, keyed off the turn count.
	msg := fmt.Sprintf("Event recorded: %s. ", description)
	switch {
	case sess.TurnCount >= 7:
		msg += "WRAP UP NOW - End the story in the next response with a satisfying conclusion."
	case sess.TurnCount >= 5:
		msg += "CLIMAX - Build to the final confrontation or revelation NOW."
	case sess.TurnCount >= 3:
		msg += "ESCALATE - Present the main challenge soon."
	}

	return say(tool, msg), nil
}

func updateInventory(sess *GameSession, tool string, args map[string]any) (contractx.ToolResult, error) {
	item, err := toolx.StringArg(args, "item")
	if err != nil {
		return fail(tool, err), nil
	}
	action, err := toolx.OptStringArg(args, "action")
	if err != nil {
		return fail(tool, err), nil
	}

	verb := "add"
	if action != nil && *action != "" {
		verb = *action
	}

	switch verb {
	case "add":
		sess.AddItem(item)
		return say(tool, fmt.Sprintf("Added %s to inventory", item)), nil
	case "remove":
		if !sess.RemoveItem(item) {
			return say(tool, fmt.Sprintf("Player doesn't have %s", item)), nil
		}
		return say(tool, fmt.Sprintf("Removed %s from inventory", item)), nil
	default:
		return say(tool, "Invalid action"), nil
	}
}

func addSuspect(sess *GameSession, tool string, args map[string]any, log zerolog.Logger) (contractx.ToolResult, error) {
	name, err := toolx.StringArg(args, "name")
	if err != nil {
		return fail(tool, err), nil
	}
	description, err := toolx.StringArg(args, "description")
	if err != nil {
		return fail(tool, err), nil
	}
	motive, err := toolx.OptStringArg(args, "motive")
	if err != nil {
		return fail(tool, err), nil
	}
	alibi, err := toolx.OptStringArg(args, "alibi")
	if err != nil {
		return fail(tool, err), nil
	}

	suspect := sess.AddSuspect(name, description, orUnknown(motive), orUnknown(alibi))
	log.Info().Str("suspect", suspect.Name).Msg("suspect added")
	return say(tool, fmt.Sprintf("Added %s to suspect list", suspect.Name)), nil
}

func saveSession(ctx context.Context, sess *GameSession, sink contractx.Sink, tool string, args map[string]any, now time.Time, log zerolog.Logger) (contractx.ToolResult, error) {
	title, err := toolx.StringArg(args, "session_title")
	if err != nil {
		return fail(tool, err), nil
	}

	save := sess.Snapshot(title, now)
	if err := sink.Write(ctx, sessionsCollection, save.SessionID, save); err != nil {
		log.Error().Err(err).Str("session_id", save.SessionID).Msg("session save failed")
		return say(tool, "The chronicle refused to be written; let's try saving again shortly."), nil
	}

	log.Info().Str("session_id", save.SessionID).Str("title", title).Msg("session saved")

	summary := fmt.Sprintf("Session '%s' saved! You played for %d turns", title, sess.TurnCount)
	if len(sess.Inventory) > 0 {
		summary += fmt.Sprintf(" and collected %d items", len(sess.Inventory))
	}
	if len(sess.Companions) > 0 {
		summary += fmt.Sprintf(" with %d companion(s)", len(sess.Companions))
	}
	return say(tool, summary), nil
}

func orUnknown(s *string) string {
	if s == nil || *s == "" {
		return "Unknown"
	}
	return *s
}

func say(tool, msg string) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Result: msg}
}

func fail(tool string, err error) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Error: err.Error()}
}
