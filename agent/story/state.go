package story

import (
	"fmt"
	"strings"
	"time"
)

const EventLocationChange = "location_change"

type StoryEvent struct {
	Turn        int       `json:"turn"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type Companion struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	JoinedAtTurn int    `json:"joined_at_turn"`
}

type Clue struct {
	Clue      string    `json:"clue"`
	Location  string    `json:"location"`
	Turn      int       `json:"turn"`
	Timestamp time.Time `json:"timestamp"`
}

type Suspect struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Motive      string `json:"motive"`
	Alibi       string `json:"alibi"`
	AddedAtTurn int    `json:"added_at_turn"`
}

// GameSession is the per-conversation state for the game-master persona.
// The turn counter moves only through RecordEvent.
type GameSession struct {
	Universe        string          `json:"universe"`
	Tone            string          `json:"tone"`
	World           UniverseSetting `json:"-"`
	PlayerName      string          `json:"player_name,omitempty"`
	TurnCount       int             `json:"turn_count"`
	CurrentLocation string          `json:"current_location,omitempty"`
	Inventory       []string        `json:"inventory,omitempty"`
	Companions      []Companion     `json:"companions,omitempty"`
	Clues           []Clue          `json:"clues,omitempty"`
	Suspects        []Suspect       `json:"suspects,omitempty"`
	StoryEvents     []StoryEvent    `json:"story_events,omitempty"`
}

func NewGameSession(universe, tone string) *GameSession {
	world, resolved := SettingFor(universe)
	return &GameSession{
		Universe: resolved,
		Tone:     tone,
		World:    world,
	}
}

func (s *GameSession) IsDetective() bool {
	return s.Universe == UniverseDetective
}

// RecordEvent increments the turn counter first, then appends the event.
// A location_change event with a location moves the party there.
func (s *GameSession) RecordEvent(eventType, description string, location *string, now time.Time) StoryEvent {
	s.TurnCount++

	loc := s.CurrentLocation
	if location != nil && *location != "" {
		loc = *location
	}

	event := StoryEvent{
		Turn:        s.TurnCount,
		Type:        eventType,
		Description: description,
		Location:    loc,
		Timestamp:   now,
	}
	s.StoryEvents = append(s.StoryEvents, event)

	if eventType == EventLocationChange && location != nil && *location != "" {
		s.CurrentLocation = *location
	}

	return event
}

// AddItem appends to the inventory multiset; duplicates are allowed.
func (s *GameSession) AddItem(item string) {
	s.Inventory = append(s.Inventory, item)
}

// RemoveItem drops the first occurrence and reports whether the player had
// the item at all.
func (s *GameSession) RemoveItem(item string) bool {
	for i, have := range s.Inventory {
		if have == item {
			s.Inventory = append(s.Inventory[:i], s.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

func (s *GameSession) AddCompanion(name, description string) Companion {
	companion := Companion{
		Name:         name,
		Description:  description,
		JoinedAtTurn: s.TurnCount,
	}
	s.Companions = append(s.Companions, companion)
	return companion
}

func (s *GameSession) AddClue(clue, location string, now time.Time) Clue {
	entry := Clue{
		Clue:      clue,
		Location:  location,
		Turn:      s.TurnCount,
		Timestamp: now,
	}
	s.Clues = append(s.Clues, entry)
	return entry
}

func (s *GameSession) AddSuspect(name, description, motive, alibi string) Suspect {
	suspect := Suspect{
		Name:        name,
		Description: description,
		Motive:      motive,
		Alibi:       alibi,
		AddedAtTurn: s.TurnCount,
	}
	s.Suspects = append(s.Suspects, suspect)
	return suspect
}

// CaseNotes renders the accumulated clues and suspects for the detective
// universe, or a "nothing yet" message when both are empty.
func (s *GameSession) CaseNotes() string {
	if len(s.Clues) == 0 && len(s.Suspects) == 0 {
		return "You haven't collected any clues or identified any suspects yet."
	}

	var b strings.Builder
	b.WriteString("CASE NOTES:\n\n")

	if len(s.Clues) > 0 {
		b.WriteString("CLUES DISCOVERED:\n")
		for i, clue := range s.Clues {
			fmt.Fprintf(&b, "%d. %s (Found at: %s)\n", i+1, clue.Clue, clue.Location)
		}
		b.WriteString("\n")
	}

	if len(s.Suspects) > 0 {
		b.WriteString("SUSPECTS:\n")
		for i, suspect := range s.Suspects {
			fmt.Fprintf(&b, "%d. %s\n", i+1, suspect.Name)
			fmt.Fprintf(&b, "   Motive: %s\n", suspect.Motive)
			fmt.Fprintf(&b, "   Alibi: %s\n", suspect.Alibi)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// SessionSave is the immutable snapshot written per save. Clues and
// suspects are included only for the detective universe; companions and
// suspects flatten to names.
type SessionSave struct {
	SessionID       string       `json:"session_id"`
	Title           string       `json:"title"`
	Universe        string       `json:"universe"`
	Tone            string       `json:"tone"`
	PlayerName      string       `json:"player_name"`
	TotalTurns      int          `json:"total_turns"`
	CurrentLocation string       `json:"current_location"`
	Inventory       []string     `json:"inventory"`
	Companions      []string     `json:"companions"`
	Clues           []Clue       `json:"clues"`
	Suspects        []string     `json:"suspects"`
	StoryEvents     []StoryEvent `json:"story_events"`
	Timestamp       time.Time    `json:"timestamp"`
}

func (s *GameSession) Snapshot(title string, now time.Time) SessionSave {
	companions := make([]string, 0, len(s.Companions))
	for _, c := range s.Companions {
		companions = append(companions, c.Name)
	}

	clues := []Clue{}
	suspects := []string{}
	if s.IsDetective() {
		clues = append(clues, s.Clues...)
		for _, sp := range s.Suspects {
			suspects = append(suspects, sp.Name)
		}
	}

	return SessionSave{
		SessionID:       "SESSION_" + now.Format("20060102_150405"),
		Title:           title,
		Universe:        s.Universe,
		Tone:            s.Tone,
		PlayerName:      s.PlayerName,
		TotalTurns:      s.TurnCount,
		CurrentLocation: s.CurrentLocation,
		Inventory:       append([]string{}, s.Inventory...),
		Companions:      companions,
		Clues:           clues,
		Suspects:        suspects,
		StoryEvents:     append([]StoryEvent{}, s.StoryEvents...),
		Timestamp:       now,
	}
}
