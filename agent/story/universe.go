package story

// UniverseSetting describes one playable universe. The table is static
// reference data, loaded once per session like the catalog.
type UniverseSetting struct {
	Setting          string
	StartingLocation string
	Threats          string
	ToneDesc         string
}

const UniverseDetective = "detective"

var universeSettings = map[string]UniverseSetting{
	"fantasy": {
		Setting:          "a medieval fantasy realm of magic, dragons, and ancient kingdoms",
		StartingLocation: "the bustling market square of Thornhaven, a frontier town",
		Threats:          "bandits, monsters, dark wizards, and ancient curses",
		ToneDesc:         "epic and adventurous",
	},
	"sci-fi": {
		Setting:          "a distant future among the stars, where humanity has colonized multiple planets",
		StartingLocation: "the cargo bay of the starship Odyssey, docked at Station Epsilon",
		Threats:          "alien creatures, rogue AI, space pirates, and corporate conspiracies",
		ToneDesc:         "mysterious and tense",
	},
	"post-apocalypse": {
		Setting:          "a world devastated by nuclear war, where survivors struggle in the wasteland",
		StartingLocation: "the ruins of what was once a shopping mall, now a survivor settlement",
		Threats:          "raiders, mutants, radiation storms, and scarce resources",
		ToneDesc:         "gritty and survival-focused",
	},
	"horror": {
		Setting:          "a small town plagued by supernatural forces and dark secrets",
		StartingLocation: "an old Victorian mansion on the outskirts of Ravencrest",
		Threats:          "ghosts, demons, cultists, and eldritch horrors",
		ToneDesc:         "spooky and atmospheric",
	},
	UniverseDetective: {
		Setting:          "a noir-style city in the 1940s, where crime and corruption run deep",
		StartingLocation: "your cramped detective office on the third floor of a rundown building on 5th Street",
		Threats:          "murderers, crime syndicates, corrupt officials, and dark conspiracies",
		ToneDesc:         "noir and mysterious, with sharp observations and clever deductions",
	},
}

// SettingFor returns the universe settings, falling back to detective for
// anything unknown.
func SettingFor(universe string) (UniverseSetting, string) {
	if setting, ok := universeSettings[universe]; ok {
		return setting, universe
	}
	return universeSettings[UniverseDetective], UniverseDetective
}
