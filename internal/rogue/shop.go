package rogue

import (
	"math/rand"
	"time"
)

// RerollCost is the click cost of regenerating the shop offer.
const RerollCost = 4

// Item effect tags consumed by the shop economy.
const (
	EffectClickReward     = "clickReward"
	EffectModifierBonus   = "modifierBonus"
	EffectTimeBonus       = "timeBonus"
	EffectMinLinks        = "minLinks"
	EffectRevive          = "revive"
	EffectSkipTarget      = "skipTarget"
	EffectDisableModifier = "disableModifier"
	EffectRerolls         = "rerolls"
)

// Well-known item ids referenced by the economy rules.
const (
	ItemEfficientNavigator = "efficientNavigator"
	ItemMasterOfPuppets    = "masterOfPuppets"
	ItemSpeedReader        = "speedReader"
	ItemReadingGlasses     = "readingGlasses"
	ItemSecondChance       = "secondChance"
	ItemSkipTarget         = "skipTarget"
	ItemDisableModifier    = "disableModifier"
	ItemFreeRerolls        = "freeRerolls"
)

// Item is an immutable shop catalog entry.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
	Permanent   bool   `json:"permanent"`
	Effect      string `json:"effect"`
}

// Items is the static shop catalog: four permanent upgrades and four
// consumables.
var Items = []Item{
	{
		ID:          ItemEfficientNavigator,
		Name:        "Efficient Navigator",
		Description: "+2 clicks earned per stage completed",
		Cost:        15,
		Permanent:   true,
		Effect:      EffectClickReward,
	},
	{
		ID:          ItemMasterOfPuppets,
		Name:        "Master of Puppets",
		Description: "Every modifier gives +2 extra clicks",
		Cost:        18,
		Permanent:   true,
		Effect:      EffectModifierBonus,
	},
	{
		ID:          ItemSpeedReader,
		Name:        "Speed Reader",
		Description: "Time-based modifiers give +15 seconds",
		Cost:        12,
		Permanent:   true,
		Effect:      EffectTimeBonus,
	},
	{
		ID:          ItemReadingGlasses,
		Name:        "Reading Glasses",
		Description: "Always see at least 5 links (counters Fog of War)",
		Cost:        10,
		Permanent:   true,
		Effect:      EffectMinLinks,
	},
	{
		ID:          ItemSecondChance,
		Name:        "Second Chance",
		Description: "One-time revival when you run out of clicks (restore 10 clicks)",
		Cost:        20,
		Permanent:   false,
		Effect:      EffectRevive,
	},
	{
		ID:          ItemSkipTarget,
		Name:        "Skip Target",
		Description: "Generate a new target for current stage",
		Cost:        8,
		Permanent:   false,
		Effect:      EffectSkipTarget,
	},
	{
		ID:          ItemDisableModifier,
		Name:        "Disable Modifier",
		Description: "Remove one active modifier",
		Cost:        6,
		Permanent:   false,
		Effect:      EffectDisableModifier,
	},
	{
		ID:          ItemFreeRerolls,
		Name:        "2 Free Rerolls",
		Description: "Get 2 free shop rerolls in next shop",
		Cost:        5,
		Permanent:   false,
		Effect:      EffectRerolls,
	},
}

// GetItem looks up a catalog entry by id.
func GetItem(id string) (Item, bool) {
	for _, it := range Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Inventory draws a random shop offer of up to count items, excluding
// the given ids. Already-owned permanent upgrades should be passed in
// exclude so they are never re-offered.
func Inventory(rng *rand.Rand, count int, exclude []string) []Item {
	excluded := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}

	available := make([]Item, 0, len(Items))
	for _, it := range Items {
		if !excluded[it.ID] {
			available = append(available, it)
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

// BonusClicks sums the stage-reward bonuses from owned permanent upgrades:
// Efficient Navigator grants a flat +2, Master of Puppets +2 per active
// modifier.
func BonusClicks(s *State, modifierCount int) int {
	bonus := 0
	if s.HasUpgrade(ItemEfficientNavigator) {
		bonus += 2
	}
	if s.HasUpgrade(ItemMasterOfPuppets) {
		bonus += modifierCount * 2
	}
	return bonus
}

// EffectiveTimeLimit applies the Speed Reader upgrade to a time-pressure
// limit.
func EffectiveTimeLimit(s *State, limit time.Duration) time.Duration {
	if s.HasUpgrade(ItemSpeedReader) {
		return limit + 15*time.Second
	}
	return limit
}

// EffectiveDisabledLinks caps the fog-of-war disabled count so that at
// least five links stay visible when Reading Glasses is owned.
func EffectiveDisabledLinks(s *State, disabled, totalLinks int) int {
	if !s.HasUpgrade(ItemReadingGlasses) {
		return disabled
	}
	if max := totalLinks - 5; disabled > max {
		if max < 0 {
			return 0
		}
		return max
	}
	return disabled
}
