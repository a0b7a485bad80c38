package rogue

import (
	"math/rand"
	"strings"
	"time"
)

// Difficulty is a modifier tier.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ModifierParams is the tier-specific parameter bag. Only the fields
// relevant to the modifier family are set.
type ModifierParams struct {
	DisabledLinks   int           `json:"disabledLinks,omitempty"`
	MinClicks       int           `json:"minClicks,omitempty"`
	TimeLimit       time.Duration `json:"timeLimit,omitempty"`
	ClickMultiplier int           `json:"clickMultiplier,omitempty"`
}

// Modifier is an immutable difficulty catalog entry. Active modifiers are
// copies of catalog entries held in State.
type Modifier struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Difficulty      Difficulty     `json:"difficulty"`
	ClickReward     int            `json:"clickReward"`
	ScoreMultiplier float64        `json:"scoreMultiplier"`
	Params          ModifierParams `json:"params"`
}

// Modifiers is the static catalog: three families across three tiers.
var Modifiers = []Modifier{
	{
		ID:              "fogOfWarEasy",
		Name:            "Fog of War (Easy)",
		Description:     "10 random links are disabled",
		Difficulty:      DifficultyEasy,
		ClickReward:     2,
		ScoreMultiplier: 1.5,
		Params:          ModifierParams{DisabledLinks: 10},
	},
	{
		ID:              "scenicRouteEasy",
		Name:            "Scenic Route (Easy)",
		Description:     "Path must be at least 8 clicks",
		Difficulty:      DifficultyEasy,
		ClickReward:     2,
		ScoreMultiplier: 1.5,
		Params:          ModifierParams{MinClicks: 8},
	},
	{
		ID:              "timePressureEasy",
		Name:            "Time Pressure (Easy)",
		Description:     "Complete in 60 seconds",
		Difficulty:      DifficultyEasy,
		ClickReward:     2,
		ScoreMultiplier: 1.5,
		Params:          ModifierParams{TimeLimit: 60 * time.Second},
	},
	{
		ID:              "fogOfWarMedium",
		Name:            "Fog of War (Medium)",
		Description:     "20 random links are disabled",
		Difficulty:      DifficultyMedium,
		ClickReward:     4,
		ScoreMultiplier: 2.0,
		Params:          ModifierParams{DisabledLinks: 20},
	},
	{
		ID:              "dontLookBack",
		Name:            "Don't Look Back",
		Description:     "Can't visit already visited pages",
		Difficulty:      DifficultyMedium,
		ClickReward:     4,
		ScoreMultiplier: 2.0,
	},
	{
		ID:              "buttonSmasherMedium",
		Name:            "Button Smasher (Medium)",
		Description:     "Every click costs 2 clicks",
		Difficulty:      DifficultyMedium,
		ClickReward:     4,
		ScoreMultiplier: 2.0,
		Params:          ModifierParams{ClickMultiplier: 2},
	},
	{
		ID:              "scenicRouteMedium",
		Name:            "Scenic Route (Medium)",
		Description:     "Path must be at least 14 clicks",
		Difficulty:      DifficultyMedium,
		ClickReward:     4,
		ScoreMultiplier: 2.0,
		Params:          ModifierParams{MinClicks: 14},
	},
	{
		ID:              "timePressureMedium",
		Name:            "Time Pressure (Medium)",
		Description:     "Complete in 50 seconds",
		Difficulty:      DifficultyMedium,
		ClickReward:     4,
		ScoreMultiplier: 2.0,
		Params:          ModifierParams{TimeLimit: 50 * time.Second},
	},
	{
		ID:              "fogOfWarHard",
		Name:            "Fog of War (Hard)",
		Description:     "30 random links are disabled",
		Difficulty:      DifficultyHard,
		ClickReward:     6,
		ScoreMultiplier: 3.0,
		Params:          ModifierParams{DisabledLinks: 30},
	},
	{
		ID:              "buttonSmasherHard",
		Name:            "Button Smasher (Hard)",
		Description:     "Every click costs 4 clicks",
		Difficulty:      DifficultyHard,
		ClickReward:     6,
		ScoreMultiplier: 3.0,
		Params:          ModifierParams{ClickMultiplier: 4},
	},
	{
		ID:              "timePressureHard",
		Name:            "Time Pressure (Hard)",
		Description:     "Complete in 35 seconds",
		Difficulty:      DifficultyHard,
		ClickReward:     6,
		ScoreMultiplier: 3.0,
		Params:          ModifierParams{TimeLimit: 35 * time.Second},
	},
}

// GetModifier looks up a catalog entry by id.
func GetModifier(id string) (Modifier, bool) {
	for _, m := range Modifiers {
		if m.ID == id {
			return m, true
		}
	}
	return Modifier{}, false
}

// RandomModifiers draws a uniform sample without replacement from the
// catalog minus the excluded ids.
func RandomModifiers(rng *rand.Rand, count int, exclude []string) []Modifier {
	excluded := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}

	available := make([]Modifier, 0, len(Modifiers))
	for _, m := range Modifiers {
		if !excluded[m.ID] {
			available = append(available, m)
		}
	}

	rng.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})
	if count > len(available) {
		count = len(available)
	}
	return available[:count]
}

// ClickMultiplier returns the per-navigation cost given the active
// modifiers. Defaults to 1; if multiple button smashers are somehow active
// the last-applied wins.
func ClickMultiplier(mods []Modifier) int {
	multiplier := 1
	for _, m := range mods {
		if strings.HasPrefix(m.ID, "buttonSmasher") {
			multiplier = m.Params.ClickMultiplier
		}
	}
	return multiplier
}

// HasTimePressure reports whether any time-pressure modifier is active.
func HasTimePressure(mods []Modifier) bool {
	_, ok := TimeLimit(mods)
	return ok
}

// TimeLimit returns the countdown imposed by an active time-pressure
// modifier, if any.
func TimeLimit(mods []Modifier) (time.Duration, bool) {
	for _, m := range mods {
		if strings.HasPrefix(m.ID, "timePressure") {
			return m.Params.TimeLimit, true
		}
	}
	return 0, false
}

// HasScenicRoute reports whether a scenic-route modifier is active.
func HasScenicRoute(mods []Modifier) bool {
	return MinClicks(mods) > 0
}

// MinClicks returns the minimum path length required by an active
// scenic-route modifier, or 0.
func MinClicks(mods []Modifier) int {
	for _, m := range mods {
		if strings.HasPrefix(m.ID, "scenicRoute") {
			return m.Params.MinClicks
		}
	}
	return 0
}

// DisabledLinkCount returns the number of links fog-of-war should disable
// on each page load, or 0.
func DisabledLinkCount(mods []Modifier) int {
	for _, m := range mods {
		if strings.HasPrefix(m.ID, "fogOfWar") {
			return m.Params.DisabledLinks
		}
	}
	return 0
}

// BlocksVisited reports whether Don't Look Back is active.
func BlocksVisited(mods []Modifier) bool {
	for _, m := range mods {
		if m.ID == "dontLookBack" {
			return true
		}
	}
	return false
}
