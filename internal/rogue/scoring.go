package rogue

import "math"

// DifficultyMultiplier maps the number of active modifiers to a score
// multiplier. Counts outside 0..3 default to 1.0.
func DifficultyMultiplier(modifierCount int) float64 {
	switch modifierCount {
	case 1:
		return 1.5
	case 2:
		return 2.0
	case 3:
		return 3.0
	default:
		return 1.0
	}
}

// StageScore computes the score for a completed stage:
// floor((100 + unusedClicks*10) * difficultyMultiplier).
func StageScore(unusedClicks, modifierCount int) int {
	base := 100.0 + float64(unusedClicks)*10.0
	return int(math.Floor(base * DifficultyMultiplier(modifierCount)))
}

// ClickReward computes the clicks earned for completing a stage: a base of
// 10, a modifier-count bonus, and permanent-upgrade bonuses from the shop.
func ClickReward(modifierCount int, s *State) int {
	reward := 10
	switch modifierCount {
	case 1:
		reward += 2
	case 2:
		reward += 5
	case 3:
		reward += 8
	}
	if s != nil {
		reward += BonusClicks(s, modifierCount)
	}
	return reward
}

// WikiPoints computes the meta-currency earned per stage: one point,
// scaled up by difficulty.
func WikiPoints(modifierCount int) int {
	return int(math.Ceil(DifficultyMultiplier(modifierCount)))
}

// StageCompletionBonus is 50 points per completed stage.
func StageCompletionBonus(stagesCompleted int) int {
	return stagesCompleted * 50
}

// FinalScore is the terminal run score.
func FinalScore(totalStageScore, stagesCompleted int) int {
	return totalStageScore + StageCompletionBonus(stagesCompleted)
}
