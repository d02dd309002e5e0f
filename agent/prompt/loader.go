package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/gamemaster.txt
	gameMasterRaw string

	//go:embed template/foodorder.txt
	foodOrderRaw string

	//go:embed template/sdr.txt
	sdrRaw string
)

// PromptSet holds the persona system prompts.
type PromptSet struct {
	GameMaster string
	FoodOrder  string
	SDR        string
}

// LoadPromptSet returns the trimmed prompt strings. Safe to call
// concurrently; the embed is compile-time.
func LoadPromptSet() PromptSet {
	return PromptSet{
		GameMaster: strings.TrimSpace(gameMasterRaw),
		FoodOrder:  strings.TrimSpace(foodOrderRaw),
		SDR:        strings.TrimSpace(sdrRaw),
	}
}

// RenderGameMaster fills the universe placeholders in the game-master
// prompt.
func RenderGameMaster(raw, universe, tone, setting, toneDesc, startingLocation string) string {
	r := strings.NewReplacer(
		"{{UNIVERSE}}", universe,
		"{{TONE}}", tone,
		"{{SETTING}}", setting,
		"{{TONE_DESC}}", toneDesc,
		"{{STARTING_LOCATION}}", startingLocation,
	)
	return r.Replace(raw)
}
